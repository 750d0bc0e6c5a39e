// Package catalog provides the read-only boat directory.
//
// A catalog file maps boat names to entries. An entry is either a full record
//
//	"Bounty": {"pier": "Pier 3", "photo": "bounty.jpg", "captain": [{"name": "Ivan", "phone": "+79110000000"}]}
//
// or, for photo-only catalogs, just the photo reference:
//
//	"Bounty": "bounty.jpg"
//
// The variant is declared by configuration and every entry must match it.
// Both JSON and YAML are accepted.
package catalog

import (
	"fmt"
	"slices"
	"sort"

	"github.com/aretw0/charter/pkg/domain"
)

// Catalog implements ports.Catalog on an immutable in-memory map.
type Catalog struct {
	boats map[string]domain.Boat
	names []string
}

// New builds a catalog from boat records.
func New(boats ...domain.Boat) (*Catalog, error) {
	c := &Catalog{boats: make(map[string]domain.Boat, len(boats))}
	for _, b := range boats {
		if b.Name == "" {
			return nil, fmt.Errorf("boat missing name")
		}
		if _, exists := c.boats[b.Name]; exists {
			return nil, fmt.Errorf("duplicate boat %q", b.Name)
		}
		b.Captains = slices.Clone(b.Captains)
		c.boats[b.Name] = b
		c.names = append(c.names, b.Name)
	}
	sort.Strings(c.names)
	return c, nil
}

// Lookup returns the boat with the exact given name.
func (c *Catalog) Lookup(name string) (domain.Boat, error) {
	b, ok := c.boats[name]
	if !ok {
		return domain.Boat{}, fmt.Errorf("%w: %q", domain.ErrBoatNotFound, name)
	}
	b.Captains = slices.Clone(b.Captains)
	return b, nil
}

// Names returns every boat name, sorted alphabetically.
func (c *Catalog) Names() []string {
	return slices.Clone(c.names)
}

// Boats returns every boat in Names order.
func (c *Catalog) Boats() []domain.Boat {
	out := make([]domain.Boat, 0, len(c.names))
	for _, name := range c.names {
		b, _ := c.Lookup(name)
		out = append(out, b)
	}
	return out
}

// Len returns the number of boats.
func (c *Catalog) Len() int {
	return len(c.names)
}
