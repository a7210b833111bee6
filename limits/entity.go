package limits

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entity represents the GORM-compatible database representation of the
// per-tenant card limits
type Entity struct {
	ID        uint32    `gorm:"primaryKey;autoIncrement"`
	MaxUses   uint64    `gorm:"not null"`
	MaxOwns   uint64    `gorm:"not null"`
	TenantId  uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the limits entity
func (Entity) TableName() string {
	return "card_limits"
}

// Migration performs the database migration for the limits entity
func Migration(db *gorm.DB) error {
	return db.AutoMigrate(&Entity{})
}
