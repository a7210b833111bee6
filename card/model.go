package card

import (
	"time"

	"github.com/google/uuid"
)

// Model represents an immutable card domain object. The level is fixed at
// mint time; only the accumulated use count changes over a card's life.
type Model struct {
	id        uint32
	uses      uint64
	level     uint32
	tenantId  uuid.UUID
	createdAt time.Time
	updatedAt time.Time
}

// Id returns the card identifier
func (m Model) Id() uint32 {
	return m.id
}

// Uses returns the accumulated use count
func (m Model) Uses() uint64 {
	return m.uses
}

// Level returns the card's level
func (m Model) Level() uint32 {
	return m.level
}

// TenantId returns the tenant the card belongs to
func (m Model) TenantId() uuid.UUID {
	return m.tenantId
}

// CreatedAt returns the creation timestamp
func (m Model) CreatedAt() time.Time {
	return m.createdAt
}

// UpdatedAt returns the last update timestamp
func (m Model) UpdatedAt() time.Time {
	return m.updatedAt
}

// RemainingUses returns the unspent use capacity under the given bound.
// A card already at or over the bound has none remaining.
func (m Model) RemainingUses(maxUses uint64) uint64 {
	if m.uses >= maxUses {
		return 0
	}
	return maxUses - m.uses
}
