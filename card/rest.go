package card

import (
	"strconv"
	"time"
)

// RestCard represents the REST API model for card responses
type RestCard struct {
	ID        uint32    `json:"id"`
	OwnerId   uint32    `json:"ownerId"`
	Uses      uint64    `json:"uses"`
	Level     uint32    `json:"level"`
	URI       string    `json:"uri,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RestOwnerUses represents the REST API model for an owner's aggregate use count
type RestOwnerUses struct {
	CharacterId uint32 `json:"characterId"`
	TotalUses   uint64 `json:"totalUses"`
}

// RestUsability represents the REST API model for an owner's usability check
type RestUsability struct {
	CharacterId uint32 `json:"characterId"`
	Count       uint64 `json:"count"`
	Usable      bool   `json:"usable"`
}

// RestLimits represents the REST API model for the tenant's configured limits
type RestLimits struct {
	MaxUses uint64 `json:"maxUses"`
	MaxOwns uint64 `json:"maxOwns"`
}

// GetType returns the JSON:API resource type for card
func (rc RestCard) GetType() string {
	return "card"
}

// GetID returns the JSON:API resource ID for card
func (rc RestCard) GetID() string {
	return strconv.Itoa(int(rc.ID))
}

// GetType returns the JSON:API resource type for owner uses
func (ro RestOwnerUses) GetType() string {
	return "cardUses"
}

// GetID returns the JSON:API resource ID for owner uses
func (ro RestOwnerUses) GetID() string {
	return strconv.Itoa(int(ro.CharacterId))
}

// GetType returns the JSON:API resource type for usability
func (ru RestUsability) GetType() string {
	return "cardUsability"
}

// GetID returns the JSON:API resource ID for usability
func (ru RestUsability) GetID() string {
	return strconv.Itoa(int(ru.CharacterId))
}

// GetType returns the JSON:API resource type for limits
func (rl RestLimits) GetType() string {
	return "cardLimits"
}

// GetID returns the JSON:API resource ID for limits
func (rl RestLimits) GetID() string {
	return "limits"
}

// Transform converts a domain card model to REST representation
func Transform(m Model, ownerId uint32, uri string) (RestCard, error) {
	return RestCard{
		ID:        m.Id(),
		OwnerId:   ownerId,
		Uses:      m.Uses(),
		Level:     m.Level(),
		URI:       uri,
		CreatedAt: m.CreatedAt(),
		UpdatedAt: m.UpdatedAt(),
	}, nil
}
