package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/realestate-api/internal/domain/entity"
)

// PropertyFilter narrows a visibility-scoped listing query. Every field is
// optional; nil/zero means "not filtered".
type PropertyFilter struct {
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	MinSize  *int
	MaxSize  *int
	// Bedrooms is an at-least bound; BedroomsExact matches the column exactly.
	Bedrooms      *int
	BedroomsExact *int
	// Location is a case-insensitive substring matched against address, city
	// and state (OR across the three fields).
	Location string
	City     string
	State    string
	ZipCode  string
	Status   entity.PropertyStatus
}

// PropertyRepository defines persistence for listings and their image sets.
//
// Create and Update are transactional with their image writes: a failed image
// insert rolls the whole operation back. Update replaces the image set only
// when imageURLs is non-nil; an empty non-nil slice clears it.
type PropertyRepository interface {
	Create(ctx context.Context, p *entity.Property, imageURLs []string) error
	GetByID(ctx context.Context, id string) (*entity.Property, error)
	Update(ctx context.Context, p *entity.Property, imageURLs *[]string) error
	Delete(ctx context.Context, id string) error
	// ListVisible returns properties readable by viewerID (empty = anonymous)
	// intersected with f, newest first, ties broken by id descending.
	ListVisible(ctx context.Context, viewerID string, f PropertyFilter) ([]*entity.Property, error)
}
