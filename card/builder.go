package card

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Builder provides a fluent interface for constructing card models
type Builder struct {
	id        uint32
	uses      uint64
	level     uint32
	tenantId  uuid.UUID
	createdAt time.Time
	updatedAt time.Time
}

// NewBuilder creates a new card builder with required fields
func NewBuilder(id uint32, level uint32, tenantId uuid.UUID) *Builder {
	now := time.Now()
	return &Builder{
		id:        id,
		level:     level,
		tenantId:  tenantId,
		createdAt: now,
		updatedAt: now,
	}
}

// SetUses sets the accumulated use count
func (b *Builder) SetUses(uses uint64) *Builder {
	b.uses = uses
	return b
}

// SetCreatedAt sets the creation timestamp
func (b *Builder) SetCreatedAt(createdAt time.Time) *Builder {
	b.createdAt = createdAt
	return b
}

// SetUpdatedAt sets the last update timestamp
func (b *Builder) SetUpdatedAt(updatedAt time.Time) *Builder {
	b.updatedAt = updatedAt
	return b
}

// Build validates and constructs the card model
func (b *Builder) Build() (Model, error) {
	if b.id == 0 {
		return Model{}, errors.New("card id must not be zero")
	}
	if b.tenantId == uuid.Nil {
		return Model{}, errors.New("tenant id is required")
	}
	return Model{
		id:        b.id,
		uses:      b.uses,
		level:     b.level,
		tenantId:  b.tenantId,
		createdAt: b.createdAt,
		updatedAt: b.updatedAt,
	}, nil
}
