package metadata

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entity represents the GORM-compatible database representation of a
// level to metadata URI mapping
type Entity struct {
	ID        uint32    `gorm:"primaryKey;autoIncrement"`
	Level     uint32    `gorm:"not null;index:idx_level_uris_level"`
	URI       string    `gorm:"not null"`
	TenantId  uuid.UUID `gorm:"type:uuid;not null;index:idx_level_uris_level"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the level URI entity
func (Entity) TableName() string {
	return "level_uris"
}

// Migration performs the database migration for the level URI entity
func Migration(db *gorm.DB) error {
	return db.AutoMigrate(&Entity{})
}
