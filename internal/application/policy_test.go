package application

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/realestate-api/internal/domain/entity"
)

func TestCanRead(t *testing.T) {
	owner := entity.Principal{UserID: "owner-1"}
	stranger := entity.Principal{UserID: "user-2"}
	anon := entity.Principal{}

	active := &entity.Property{OwnerID: "owner-1", Status: entity.StatusActive}
	pending := &entity.Property{OwnerID: "owner-1", Status: entity.StatusPending}
	sold := &entity.Property{OwnerID: "owner-1", Status: entity.StatusSold}

	assert.True(t, CanRead(anon, active))
	assert.True(t, CanRead(stranger, active))
	assert.True(t, CanRead(owner, active))

	assert.False(t, CanRead(anon, pending))
	assert.False(t, CanRead(stranger, pending))
	assert.True(t, CanRead(owner, pending))

	assert.False(t, CanRead(anon, sold))
	assert.False(t, CanRead(stranger, sold))
	assert.True(t, CanRead(owner, sold))
}

func TestCanWrite(t *testing.T) {
	owner := entity.Principal{UserID: "owner-1"}
	stranger := entity.Principal{UserID: "user-2"}
	anon := entity.Principal{}

	// Write access never depends on status, only on ownership.
	for _, st := range []entity.PropertyStatus{entity.StatusActive, entity.StatusPending, entity.StatusSold} {
		p := &entity.Property{OwnerID: "owner-1", Status: st}
		assert.True(t, CanWrite(owner, p))
		assert.False(t, CanWrite(stranger, p))
		assert.False(t, CanWrite(anon, p))
	}
}
