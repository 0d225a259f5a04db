package postgres

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/realestate-api/internal/domain/entity"
	"github.com/oksasatya/realestate-api/internal/domain/repository"
)

func intPtr(i int) *int { return &i }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestBuildListQueryAnonymous(t *testing.T) {
	sql, args := buildListQuery("", repository.PropertyFilter{})

	assert.Contains(t, sql, "p.status = 'active'")
	assert.NotContains(t, sql, "owner_id")
	assert.Empty(t, args)
	assert.True(t, strings.HasSuffix(sql, "ORDER BY p.created_at DESC, p.id DESC"))
}

func TestBuildListQueryViewer(t *testing.T) {
	sql, args := buildListQuery("user-42", repository.PropertyFilter{})

	assert.Contains(t, sql, "(p.status = 'active' OR p.owner_id = $1)")
	require.Len(t, args, 1)
	assert.Equal(t, "user-42", args[0])
}

func TestBuildListQueryPriceAndSizeRanges(t *testing.T) {
	f := repository.PropertyFilter{
		MinPrice: decPtr("100000"),
		MaxPrice: decPtr("500000.50"),
		MinSize:  intPtr(900),
		MaxSize:  intPtr(2500),
	}
	sql, args := buildListQuery("", f)

	assert.Contains(t, sql, "p.price >= $1::numeric")
	assert.Contains(t, sql, "p.price <= $2::numeric")
	assert.Contains(t, sql, "p.size >= $3")
	assert.Contains(t, sql, "p.size <= $4")
	assert.Equal(t, []any{"100000", "500000.5", 900, 2500}, args)
}

func TestBuildListQueryBedrooms(t *testing.T) {
	sql, args := buildListQuery("", repository.PropertyFilter{Bedrooms: intPtr(3)})
	assert.Contains(t, sql, "p.bedrooms >= $1")
	assert.Equal(t, []any{3}, args)

	sql, args = buildListQuery("", repository.PropertyFilter{BedroomsExact: intPtr(2)})
	assert.Contains(t, sql, "p.bedrooms = $1")
	assert.Equal(t, []any{2}, args)
}

func TestBuildListQueryLocation(t *testing.T) {
	sql, args := buildListQuery("", repository.PropertyFilter{Location: "aust"})

	// One parameter matched case-insensitively against all three text columns.
	assert.Contains(t, sql, "(p.address ILIKE $1 OR p.city ILIKE $1 OR p.state ILIKE $1)")
	assert.Equal(t, []any{"%aust%"}, args)
}

func TestBuildListQueryExactFields(t *testing.T) {
	f := repository.PropertyFilter{
		City:    "Austin",
		State:   "TX",
		ZipCode: "78701",
		Status:  entity.StatusSold,
	}
	sql, args := buildListQuery("owner-1", f)

	assert.Contains(t, sql, "p.city = $2")
	assert.Contains(t, sql, "p.state = $3")
	assert.Contains(t, sql, "p.zip_code = $4")
	assert.Contains(t, sql, "p.status = $5")
	assert.Equal(t, []any{"owner-1", "Austin", "TX", "78701", "sold"}, args)
}

func TestBuildListQueryCombined(t *testing.T) {
	f := repository.PropertyFilter{
		MinPrice: decPtr("250000"),
		Bedrooms: intPtr(2),
		Location: "oak",
	}
	sql, args := buildListQuery("viewer-9", f)

	// Visibility always comes first and every filter is AND-combined after it.
	require.Len(t, args, 4)
	idxVis := strings.Index(sql, "p.owner_id = $1")
	idxPrice := strings.Index(sql, "p.price >= $2::numeric")
	idxBeds := strings.Index(sql, "p.bedrooms >= $3")
	idxLoc := strings.Index(sql, "p.address ILIKE $4")
	assert.True(t, idxVis >= 0 && idxVis < idxPrice)
	assert.True(t, idxPrice < idxBeds)
	assert.True(t, idxBeds < idxLoc)
	assert.Equal(t, 3, strings.Count(sql, "AND "))
}
