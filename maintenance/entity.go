package maintenance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entity represents the GORM-compatible database representation of the
// per-tenant maintenance flag
type Entity struct {
	ID        uint32    `gorm:"primaryKey;autoIncrement"`
	Halted    bool      `gorm:"not null;default:false"`
	TenantId  uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the maintenance flag entity
func (Entity) TableName() string {
	return "maintenance_flags"
}

// Migration performs the database migration for the maintenance flag entity
func Migration(db *gorm.DB) error {
	return db.AutoMigrate(&Entity{})
}
