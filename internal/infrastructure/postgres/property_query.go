package postgres

import (
	"fmt"
	"strings"

	"github.com/oksasatya/realestate-api/internal/domain/repository"
)

const propertyColumns = `p.id, p.owner_id, u.name, p.address, p.city, p.state, p.zip_code,
	p.price::text, p.bedrooms, p.bathrooms::text, p.size, COALESCE(p.description, ''),
	p.status, p.created_at, p.updated_at`

// buildListQuery turns a viewer and a filter set into one SELECT. The
// visibility predicate and every caller filter are AND-combined; the location
// filter is an OR across address/city/state. Results are ordered newest first
// with id as a deterministic tie-break.
func buildListQuery(viewerID string, f repository.PropertyFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if viewerID == "" {
		conds = append(conds, "p.status = 'active'")
	} else {
		conds = append(conds, fmt.Sprintf("(p.status = 'active' OR p.owner_id = %s)", arg(viewerID)))
	}

	if f.MinPrice != nil {
		conds = append(conds, fmt.Sprintf("p.price >= %s::numeric", arg(f.MinPrice.String())))
	}
	if f.MaxPrice != nil {
		conds = append(conds, fmt.Sprintf("p.price <= %s::numeric", arg(f.MaxPrice.String())))
	}
	if f.MinSize != nil {
		conds = append(conds, fmt.Sprintf("p.size >= %s", arg(*f.MinSize)))
	}
	if f.MaxSize != nil {
		conds = append(conds, fmt.Sprintf("p.size <= %s", arg(*f.MaxSize)))
	}
	if f.Bedrooms != nil {
		conds = append(conds, fmt.Sprintf("p.bedrooms >= %s", arg(*f.Bedrooms)))
	}
	if f.BedroomsExact != nil {
		conds = append(conds, fmt.Sprintf("p.bedrooms = %s", arg(*f.BedroomsExact)))
	}
	if f.Location != "" {
		p := arg("%" + f.Location + "%")
		conds = append(conds, fmt.Sprintf("(p.address ILIKE %[1]s OR p.city ILIKE %[1]s OR p.state ILIKE %[1]s)", p))
	}
	if f.City != "" {
		conds = append(conds, fmt.Sprintf("p.city = %s", arg(f.City)))
	}
	if f.State != "" {
		conds = append(conds, fmt.Sprintf("p.state = %s", arg(f.State)))
	}
	if f.ZipCode != "" {
		conds = append(conds, fmt.Sprintf("p.zip_code = %s", arg(f.ZipCode)))
	}
	if f.Status != "" {
		conds = append(conds, fmt.Sprintf("p.status = %s", arg(string(f.Status))))
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(propertyColumns)
	sb.WriteString("\nFROM properties p\nJOIN users u ON u.id = p.owner_id\nWHERE ")
	sb.WriteString(strings.Join(conds, "\n  AND "))
	sb.WriteString("\nORDER BY p.created_at DESC, p.id DESC")
	return sb.String(), args
}
