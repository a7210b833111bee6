package card

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entity represents the GORM-compatible database representation of a card's
// recorded state. Card identifiers are assigned from the per-tenant sequence,
// never by the database.
type Entity struct {
	ID        uint32    `gorm:"primaryKey;autoIncrement"`
	CardId    uint32    `gorm:"not null;index:idx_cards_card,unique"`
	Uses      uint64    `gorm:"not null;default:0"`
	Level     uint32    `gorm:"not null"`
	TenantId  uuid.UUID `gorm:"type:uuid;not null;index:idx_cards_card,unique"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the card entity
func (Entity) TableName() string {
	return "cards"
}

// SequenceEntity represents the GORM-compatible database representation of
// the per-tenant card identifier sequence
type SequenceEntity struct {
	TenantId uuid.UUID `gorm:"type:uuid;primaryKey"`
	NextId   uint32    `gorm:"not null"`
}

// TableName returns the table name for the sequence entity
func (SequenceEntity) TableName() string {
	return "card_sequences"
}

// Migration performs the database migration for the card and sequence entities
func Migration(db *gorm.DB) error {
	if err := db.AutoMigrate(&Entity{}); err != nil {
		return err
	}
	return db.AutoMigrate(&SequenceEntity{})
}

// Make transforms a card entity to a domain model
func Make(entity Entity) (Model, error) {
	return NewBuilder(entity.CardId, entity.Level, entity.TenantId).
		SetUses(entity.Uses).
		SetCreatedAt(entity.CreatedAt).
		SetUpdatedAt(entity.UpdatedAt).
		Build()
}

// ToEntity converts a card domain model to a database entity
func (m Model) ToEntity() Entity {
	return Entity{
		CardId:    m.id,
		Uses:      m.uses,
		Level:     m.level,
		TenantId:  m.tenantId,
		CreatedAt: m.createdAt,
		UpdatedAt: m.updatedAt,
	}
}
