package access

import (
	"context"
	"errors"

	tenant "github.com/Chronicle20/atlas-tenant"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Roles recognized by the card service. Minters may create cards, operators
// may spend use counts on behalf of others, and admins may change service
// level configuration.
const (
	RoleMinter   = "MINTER"
	RoleOperator = "OPERATOR"
	RoleAdmin    = "ADMIN"
)

// Processor defines the interface for role grant operations
type Processor interface {
	// HasCapability returns whether the holder has been granted the given role
	HasCapability(holderId uint32, role string) (bool, error)
	// Grant grants the given role to the holder. Granting an already held
	// role is a no-op.
	Grant(holderId uint32, role string) error
	// Revoke removes the given role from the holder
	Revoke(holderId uint32, role string) error
}

// ProcessorImpl implements the Processor interface
type ProcessorImpl struct {
	log logrus.FieldLogger
	ctx context.Context
	db  *gorm.DB
	t   tenant.Model
}

// NewProcessor creates a new access processor instance
func NewProcessor(l logrus.FieldLogger, ctx context.Context, db *gorm.DB) Processor {
	return &ProcessorImpl{
		log: l,
		ctx: ctx,
		db:  db,
		t:   tenant.MustFromContext(ctx),
	}
}

// HasCapability returns whether the holder has been granted the given role
func (p *ProcessorImpl) HasCapability(holderId uint32, role string) (bool, error) {
	var entity Entity
	err := p.db.Where(&Entity{HolderId: holderId, Role: role, TenantId: p.t.Id()}).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Grant grants the given role to the holder
func (p *ProcessorImpl) Grant(holderId uint32, role string) error {
	held, err := p.HasCapability(holderId, role)
	if err != nil {
		return err
	}
	if held {
		return nil
	}
	p.log.Debugf("Granting role [%s] to holder [%d].", role, holderId)
	return p.db.Create(&Entity{HolderId: holderId, Role: role, TenantId: p.t.Id()}).Error
}

// Revoke removes the given role from the holder
func (p *ProcessorImpl) Revoke(holderId uint32, role string) error {
	p.log.Debugf("Revoking role [%s] from holder [%d].", role, holderId)
	return p.db.Where(&Entity{HolderId: holderId, Role: role, TenantId: p.t.Id()}).Delete(&Entity{}).Error
}
