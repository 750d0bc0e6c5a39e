package domain

// Captain is a skipper attached to one or more boats.
type Captain struct {
	Name  string `json:"name" yaml:"name" mapstructure:"name"`
	Phone string `json:"phone" yaml:"phone" mapstructure:"phone"`
}

// Boat is a Catalog entry. It is immutable after the catalog is loaded.
// Pier and Captains may be empty for photo-only catalogs; the wizard then
// asks the user for them.
type Boat struct {
	Name     string    `json:"name" yaml:"name" mapstructure:"name"`
	Pier     string    `json:"pier,omitempty" yaml:"pier,omitempty" mapstructure:"pier"`
	Photo    string    `json:"photo,omitempty" yaml:"photo,omitempty" mapstructure:"photo"`
	Captains []Captain `json:"captain,omitempty" yaml:"captain,omitempty" mapstructure:"captain"`
}

// HasPier reports whether the pier can be copied from the catalog.
func (b Boat) HasPier() bool {
	return b.Pier != ""
}

// CatalogVariant declares the shape every catalog entry must have.
type CatalogVariant string

const (
	// CatalogFull entries carry pier, photo and a non-empty captain list.
	CatalogFull CatalogVariant = "full"
	// CatalogPhotoOnly entries are a bare photo reference; pier and captain are asked for.
	CatalogPhotoOnly CatalogVariant = "photo_only"
)

// Valid reports whether v is a known variant.
func (v CatalogVariant) Valid() bool {
	return v == CatalogFull || v == CatalogPhotoOnly
}
