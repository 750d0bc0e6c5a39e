// Package config loads the charter configuration from an optional YAML file
// and environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/aretw0/charter/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Store kinds.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreFile   = "file"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CHARTER_"

// Config is the full process configuration.
type Config struct {
	Token     string  `mapstructure:"token"`
	Admins    []int64 `mapstructure:"admins"`
	AdminOnly bool    `mapstructure:"admin_only"`

	Catalog        string                `mapstructure:"catalog"`
	CatalogVariant domain.CatalogVariant `mapstructure:"catalog_variant"`
	PhotosDir      string                `mapstructure:"photos_dir"`
	Template       string                `mapstructure:"template"`
	Font           string                `mapstructure:"font"`

	Store         string        `mapstructure:"store"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	SessionDir    string        `mapstructure:"session_dir"`
	EncryptionKey string        `mapstructure:"encryption_key"`
	Redis         Redis         `mapstructure:"redis"`

	HTTPAddr string  `mapstructure:"http_addr"`
	Journal  Journal `mapstructure:"journal"`

	LogLevel string      `mapstructure:"log_level"`
	Debug    bool        `mapstructure:"debug"`
	Flow     domain.Flow `mapstructure:"flow"`
}

// Redis holds the redis store settings.
type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// Journal holds the booking journal settings. An empty Path disables it.
type Journal struct {
	Path    string `mapstructure:"path"`
	MaskPII bool   `mapstructure:"mask_pii"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Catalog:        "boats.json",
		CatalogVariant: domain.CatalogFull,
		PhotosDir:      "photos",
		Template:       "form.png",
		Store:          StoreMemory,
		SessionTTL:     24 * time.Hour,
		SessionDir:     ".charter/sessions",
		Redis: Redis{
			Addr:   "localhost:6379",
			Prefix: "charter:session:",
		},
		LogLevel: "info",
		Flow:     domain.DefaultFlow(),
	}
}

// envKeys maps environment variables to dotted config keys, applied in order.
// BOT_TOKEN and ADMIN_ID are accepted for existing deployments; the prefixed
// names come later and win.
var envKeys = []struct{ env, key string }{
	{"BOT_TOKEN", "token"},
	{"ADMIN_ID", "admins"},
	{EnvPrefix + "TOKEN", "token"},
	{EnvPrefix + "ADMINS", "admins"},
	{EnvPrefix + "ADMIN_ONLY", "admin_only"},
	{EnvPrefix + "CATALOG", "catalog"},
	{EnvPrefix + "CATALOG_VARIANT", "catalog_variant"},
	{EnvPrefix + "PHOTOS_DIR", "photos_dir"},
	{EnvPrefix + "TEMPLATE", "template"},
	{EnvPrefix + "FONT", "font"},
	{EnvPrefix + "STORE", "store"},
	{EnvPrefix + "SESSION_TTL", "session_ttl"},
	{EnvPrefix + "SESSION_DIR", "session_dir"},
	{EnvPrefix + "ENCRYPTION_KEY", "encryption_key"},
	{EnvPrefix + "REDIS_ADDR", "redis.addr"},
	{EnvPrefix + "REDIS_PASSWORD", "redis.password"},
	{EnvPrefix + "REDIS_DB", "redis.db"},
	{EnvPrefix + "REDIS_PREFIX", "redis.prefix"},
	{EnvPrefix + "HTTP_ADDR", "http_addr"},
	{EnvPrefix + "JOURNAL", "journal.path"},
	{EnvPrefix + "JOURNAL_MASK", "journal.mask_pii"},
	{EnvPrefix + "LOG_LEVEL", "log_level"},
	{EnvPrefix + "DEBUG", "debug"},
	{EnvPrefix + "PIER_SOURCE", "flow.pier_source"},
	{EnvPrefix + "CAPTAIN_SOURCE", "flow.captain_source"},
	{EnvPrefix + "TIME_INPUT", "flow.time_input"},
	{EnvPrefix + "DATE_INPUT", "flow.date_input"},
	{EnvPrefix + "HOURS_MODE", "flow.hours_mode"},
}

// Load reads path (skipped when empty), applies environment overrides on top
// and validates the result.
func Load(path string) (Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (Config, error) {
	raw := make(map[string]any)
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	for _, e := range envKeys {
		if val, ok := lookup(e.env); ok && val != "" {
			set(raw, e.key, val)
		}
	}

	cfg := Default()
	if err := decode(raw, &cfg); err != nil {
		return Config{}, err
	}
	cfg.Flow = cfg.Flow.WithDefaults()
	return cfg, cfg.Validate()
}

// set stores val under a dotted key, creating nested maps as needed.
func set(raw map[string]any, key, val string) {
	parts := strings.Split(key, ".")
	m := raw
	for _, p := range parts[:len(parts)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[p] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = val
}

func decode(raw map[string]any, cfg *Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			commaListHook,
		),
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

// commaListHook splits "1,2" into a slice so ADMIN_ID can list several ids.
func commaListHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Slice {
		return data, nil
	}
	s := strings.TrimSpace(data.(string))
	if s == "" {
		return []string{}, nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, nil
}

// Validate checks values that the decoder cannot.
func (c Config) Validate() error {
	var errs []error
	switch c.Store {
	case StoreMemory, StoreRedis, StoreFile:
	default:
		errs = append(errs, fmt.Errorf("unknown store %q", c.Store))
	}
	if c.SessionTTL < 0 {
		errs = append(errs, fmt.Errorf("session_ttl must not be negative"))
	}
	if c.AdminOnly && len(c.Admins) == 0 {
		errs = append(errs, fmt.Errorf("admin_only requires at least one admin"))
	}
	if !c.CatalogVariant.Valid() {
		errs = append(errs, fmt.Errorf("unknown catalog_variant %q", c.CatalogVariant))
	}
	// Photo-only entries carry no captains, so they must be typed in.
	if c.CatalogVariant == domain.CatalogPhotoOnly && c.Flow.CaptainSource != domain.CaptainFreeform {
		errs = append(errs, fmt.Errorf("catalog_variant %s requires flow.captain_source %s", domain.CatalogPhotoOnly, domain.CaptainFreeform))
	}
	if err := c.Flow.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// RequireToken reports a missing bot token. Only serve needs one.
func (c Config) RequireToken() error {
	if c.Token == "" {
		return fmt.Errorf("bot token is not set (BOT_TOKEN or %sTOKEN)", EnvPrefix)
	}
	return nil
}
