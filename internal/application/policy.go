package application

import (
	"github.com/oksasatya/realestate-api/internal/domain/entity"
)

// Listing visibility and ownership rules. Kept as pure functions so the same
// decisions back both the per-listing checks here and the SQL predicate the
// repository builds for ListVisible.

// CanRead reports whether the principal may see the listing: active listings
// are public, everything else is owner-only.
func CanRead(p entity.Principal, prop *entity.Property) bool {
	return prop.Status == entity.StatusActive || p.Is(prop.OwnerID)
}

// CanWrite reports whether the principal may update or delete the listing.
// Only the owner may; anonymous callers never can.
func CanWrite(p entity.Principal, prop *entity.Property) bool {
	return p.Is(prop.OwnerID)
}
