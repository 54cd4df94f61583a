package models

// RawProperty is an untyped property payload as received from a backend.
// Depending on the backend (and its schema vintage) the same logical field
// can appear under several different names, so nothing here is guaranteed.
type RawProperty map[string]interface{}

// Status is the commercial status attached to a property ("Disponible",
// "Vendido", ...). ID 0 means the backend did not provide a usable identifier.
type Status struct {
	ID    int     `json:"id"`
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

// Image is one gallery asset of a property. URL is the address a consumer can
// always try; SignedURL is the time-limited link for privately stored objects
// and Path is the raw storage key.
type Image struct {
	ID          string  `json:"id"`
	URL         *string `json:"url"`
	SignedURL   *string `json:"signedUrl"`
	Path        *string `json:"path"`
	IsCover     bool    `json:"isCover"`
	IsPublic    bool    `json:"isPublic"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Order       int     `json:"order"`
}

// Property is the canonical view model every consumer depends on. Instances
// are built fresh on each fetch and never mutated afterwards. ID and Slug are
// always non-empty; every other field degrades to nil/false/empty.
type Property struct {
	ID          string  `json:"id"`
	Slug        string  `json:"slug"`
	Title       *string `json:"title"`
	Description *string `json:"description"`

	Price     *float64 `json:"price"`
	Operation *string  `json:"operation"`
	Type      *string  `json:"type"`

	Address      *string  `json:"address"`
	Neighborhood *string  `json:"neighborhood"`
	City         *string  `json:"city"`
	State        *string  `json:"state"`
	PostalCode   *string  `json:"postalCode"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`

	Rooms              *float64 `json:"rooms"`
	Bathrooms          *float64 `json:"bathrooms"`
	HalfBathrooms      *float64 `json:"halfBathrooms"`
	ParkingSpots       *float64 `json:"parkingSpots"`
	LandSizeM2         *float64 `json:"landSizeM2"`
	ConstructionSizeM2 *float64 `json:"constructionSizeM2"`
	Age                *float64 `json:"age"`

	Status   *Status `json:"status"`
	Featured bool    `json:"featured"`
	Active   bool    `json:"active"`

	Images []Image `json:"images"`

	CreatedAt *string `json:"createdAt"`
	UpdatedAt *string `json:"updatedAt"`
}

// CoverImage returns the image flagged as cover, falling back to the first
// image in display order. Nil when the property has no images.
func (p *Property) CoverImage() *Image {
	for i := range p.Images {
		if p.Images[i].IsCover {
			return &p.Images[i]
		}
	}
	if len(p.Images) > 0 {
		return &p.Images[0]
	}
	return nil
}

// DisplayURL returns the preferred address of an image: the signed link when
// one was generated, otherwise the public URL, otherwise the storage path.
func (img *Image) DisplayURL() *string {
	if img.SignedURL != nil && *img.SignedURL != "" {
		return img.SignedURL
	}
	if img.URL != nil && *img.URL != "" {
		return img.URL
	}
	if img.Path != nil && *img.Path != "" {
		return img.Path
	}
	return nil
}
