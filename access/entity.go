package access

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entity represents the GORM-compatible database representation of a
// role grant held by a character
type Entity struct {
	ID        uint32    `gorm:"primaryKey;autoIncrement"`
	HolderId  uint32    `gorm:"not null;index:idx_role_grants_holder_role"`
	Role      string    `gorm:"not null;index:idx_role_grants_holder_role"`
	TenantId  uuid.UUID `gorm:"type:uuid;not null;index:idx_role_grants_holder_role"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the role grant entity
func (Entity) TableName() string {
	return "role_grants"
}

// Migration performs the database migration for the role grant entity
func Migration(db *gorm.DB) error {
	return db.AutoMigrate(&Entity{})
}
