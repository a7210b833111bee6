package ledger

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entity represents the GORM-compatible database representation of a card
// ownership record. Exactly one row exists per live card.
type Entity struct {
	ID        uint32    `gorm:"primaryKey;autoIncrement"`
	CardId    uint32    `gorm:"not null;index:idx_ownerships_card,unique"`
	OwnerId   uint32    `gorm:"not null;index"`
	TenantId  uuid.UUID `gorm:"type:uuid;not null;index:idx_ownerships_card,unique"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the ownership entity
func (Entity) TableName() string {
	return "ownerships"
}

// ApprovalEntity represents the GORM-compatible database representation of a
// per-card approval. At most one character holds the approval for a card.
type ApprovalEntity struct {
	ID         uint32    `gorm:"primaryKey;autoIncrement"`
	CardId     uint32    `gorm:"not null;index:idx_approvals_card,unique"`
	ApprovedId uint32    `gorm:"not null"`
	TenantId   uuid.UUID `gorm:"type:uuid;not null;index:idx_approvals_card,unique"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for the approval entity
func (ApprovalEntity) TableName() string {
	return "approvals"
}

// OperatorEntity represents the GORM-compatible database representation of a
// blanket operator approval granted by an owner
type OperatorEntity struct {
	ID         uint32    `gorm:"primaryKey;autoIncrement"`
	OwnerId    uint32    `gorm:"not null;index:idx_operators_pair,unique"`
	OperatorId uint32    `gorm:"not null;index:idx_operators_pair,unique"`
	TenantId   uuid.UUID `gorm:"type:uuid;not null;index:idx_operators_pair,unique"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for the operator entity
func (OperatorEntity) TableName() string {
	return "operators"
}

// Migration performs the database migration for the ownership, approval, and
// operator entities
func Migration(db *gorm.DB) error {
	if err := db.AutoMigrate(&Entity{}); err != nil {
		return err
	}
	if err := db.AutoMigrate(&ApprovalEntity{}); err != nil {
		return err
	}
	return db.AutoMigrate(&OperatorEntity{})
}
