package maintenance

import (
	"context"
	"errors"

	tenant "github.com/Chronicle20/atlas-tenant"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Processor defines the interface for maintenance mode operations
type Processor interface {
	// IsHalted returns whether state-changing operations are currently suspended
	IsHalted() (bool, error)
	// SetHalted suspends or resumes state-changing operations
	SetHalted(halted bool) error
}

// ProcessorImpl implements the Processor interface
type ProcessorImpl struct {
	log logrus.FieldLogger
	ctx context.Context
	db  *gorm.DB
	t   tenant.Model
}

// NewProcessor creates a new maintenance processor instance
func NewProcessor(l logrus.FieldLogger, ctx context.Context, db *gorm.DB) Processor {
	return &ProcessorImpl{
		log: l,
		ctx: ctx,
		db:  db,
		t:   tenant.MustFromContext(ctx),
	}
}

// IsHalted returns whether state-changing operations are currently suspended.
// A tenant without a flag row is not halted.
func (p *ProcessorImpl) IsHalted() (bool, error) {
	var entity Entity
	err := p.db.Where(&Entity{TenantId: p.t.Id()}).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return entity.Halted, nil
}

// SetHalted suspends or resumes state-changing operations
func (p *ProcessorImpl) SetHalted(halted bool) error {
	return p.db.Transaction(func(tx *gorm.DB) error {
		var entity Entity
		err := tx.Where(&Entity{TenantId: p.t.Id()}).First(&entity).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return tx.Create(&Entity{Halted: halted, TenantId: p.t.Id()}).Error
			}
			return err
		}
		entity.Halted = halted
		return tx.Save(&entity).Error
	})
}
