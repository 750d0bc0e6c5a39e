package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/aretw0/charter/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a catalog file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath guesses the format from the file extension. JSON is the default.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads and parses a catalog file whose entries must all be of the
// given variant. Any failure here is meant to stop startup.
func Load(path string, variant domain.CatalogVariant) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data, FormatFromPath(path), variant)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes catalog data in the given format.
func Parse(data []byte, format Format, variant domain.CatalogVariant) (*Catalog, error) {
	if !variant.Valid() {
		return nil, fmt.Errorf("unknown catalog variant %q", variant)
	}
	raw := make(map[string]any)
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}

	boats := make([]domain.Boat, 0, len(raw))
	for name, entry := range raw {
		boat, err := decodeEntry(name, entry, variant)
		if err != nil {
			return nil, fmt.Errorf("boat %q: %w", name, err)
		}
		boats = append(boats, boat)
	}
	return New(boats...)
}

func decodeEntry(name string, entry any, variant domain.CatalogVariant) (domain.Boat, error) {
	switch v := entry.(type) {
	case string:
		if variant != domain.CatalogPhotoOnly {
			return domain.Boat{}, fmt.Errorf("photo-only entry in a %s catalog", variant)
		}
		if strings.TrimSpace(v) == "" {
			return domain.Boat{}, fmt.Errorf("empty photo")
		}
		return domain.Boat{Name: name, Photo: v}, nil

	case map[string]any:
		if variant != domain.CatalogFull {
			return domain.Boat{}, fmt.Errorf("full entry in a %s catalog", variant)
		}
		var boat domain.Boat
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			DecodeHook:  singleCaptainHook,
			ErrorUnused: true,
			Result:      &boat,
		})
		if err != nil {
			return domain.Boat{}, err
		}
		if err := dec.Decode(v); err != nil {
			return domain.Boat{}, err
		}
		boat.Name = name
		if len(boat.Captains) == 0 {
			return domain.Boat{}, fmt.Errorf("no captains")
		}
		for i, c := range boat.Captains {
			if strings.TrimSpace(c.Name) == "" {
				return domain.Boat{}, fmt.Errorf("captain %d missing name", i)
			}
			if strings.TrimSpace(c.Phone) == "" {
				return domain.Boat{}, fmt.Errorf("captain %d missing phone", i)
			}
		}
		return boat, nil

	default:
		return domain.Boat{}, fmt.Errorf("invalid entry type %T", entry)
	}
}

// singleCaptainHook lets "captain" be written as one object instead of a list.
func singleCaptainHook(from, to reflect.Type, data any) (any, error) {
	if to == reflect.TypeOf([]domain.Captain{}) && from.Kind() == reflect.Map {
		return []any{data}, nil
	}
	return data, nil
}
