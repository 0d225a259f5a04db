package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PropertyStatus is the lifecycle state of a listing.
type PropertyStatus string

const (
	StatusActive  PropertyStatus = "active"
	StatusPending PropertyStatus = "pending"
	StatusSold    PropertyStatus = "sold"
)

// Valid reports whether s is one of the known listing states.
func (s PropertyStatus) Valid() bool {
	switch s {
	case StatusActive, StatusPending, StatusSold:
		return true
	}
	return false
}

// Property is a real-estate listing. OwnerID is set once at creation from the
// authenticated principal and never changes afterwards.
type Property struct {
	ID          string
	OwnerID     string
	OwnerName   string // joined from users for read models; not persisted on properties
	Address     string
	City        string
	State       string
	ZipCode     string
	Price       decimal.Decimal
	Bedrooms    int
	Bathrooms   decimal.Decimal // half-bath increments, e.g. 1.5
	Size        int             // sqft
	Description string
	Status      PropertyStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Images      []PropertyImage
}

// ImageURLs returns the image URLs in creation order.
func (p *Property) ImageURLs() []string {
	urls := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		urls = append(urls, img.ImageURL)
	}
	return urls
}

// PropertyImage is an external-store reference owned by a Property.
// Rows are cascade-deleted with their property. The bigserial id preserves
// insertion order even when a whole set lands in one transaction.
type PropertyImage struct {
	ID         int64
	PropertyID string
	ImageURL   string
	UploadedAt time.Time
}
