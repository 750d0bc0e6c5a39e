package ports

import "github.com/aretw0/charter/pkg/domain"

// Catalog is the read-only boat directory loaded at startup.
type Catalog interface {
	// Lookup returns the boat with the exact given name, or domain.ErrBoatNotFound.
	Lookup(name string) (domain.Boat, error)

	// Names returns every boat name in display order.
	Names() []string
}
