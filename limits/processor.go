package limits

import (
	"context"
	"errors"
	"os"
	"strconv"

	tenant "github.com/Chronicle20/atlas-tenant"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	// EnvDefaultMaxUses is the environment variable holding the default use bound
	EnvDefaultMaxUses = "DEFAULT_MAX_USES"
	// EnvDefaultMaxOwns is the environment variable holding the default ownership bound
	EnvDefaultMaxOwns = "DEFAULT_MAX_OWNS"

	defaultMaxUses = uint64(5)
	defaultMaxOwns = uint64(10)
)

// Processor defines the interface for card limit operations
type Processor interface {
	// Get returns the effective limits for the tenant, falling back to the
	// environment defaults when none have been configured.
	Get() (Model, error)
	// Set replaces the limits for the tenant
	Set(maxUses uint64, maxOwns uint64) error
}

// ProcessorImpl implements the Processor interface
type ProcessorImpl struct {
	log logrus.FieldLogger
	ctx context.Context
	db  *gorm.DB
	t   tenant.Model
}

// NewProcessor creates a new limits processor instance
func NewProcessor(l logrus.FieldLogger, ctx context.Context, db *gorm.DB) Processor {
	return &ProcessorImpl{
		log: l,
		ctx: ctx,
		db:  db,
		t:   tenant.MustFromContext(ctx),
	}
}

func envUint64(name string, fallback uint64) uint64 {
	if val, ok := os.LookupEnv(name); ok {
		if parsed, err := strconv.ParseUint(val, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

// Get returns the effective limits for the tenant
func (p *ProcessorImpl) Get() (Model, error) {
	var entity Entity
	err := p.db.Where(&Entity{TenantId: p.t.Id()}).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Model{
				maxUses: envUint64(EnvDefaultMaxUses, defaultMaxUses),
				maxOwns: envUint64(EnvDefaultMaxOwns, defaultMaxOwns),
			}, nil
		}
		return Model{}, err
	}
	return Model{maxUses: entity.MaxUses, maxOwns: entity.MaxOwns}, nil
}

// Set replaces the limits for the tenant
func (p *ProcessorImpl) Set(maxUses uint64, maxOwns uint64) error {
	p.log.Debugf("Setting card limits maxUses [%d] maxOwns [%d].", maxUses, maxOwns)
	return p.db.Transaction(func(tx *gorm.DB) error {
		var entity Entity
		err := tx.Where(&Entity{TenantId: p.t.Id()}).First(&entity).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return tx.Create(&Entity{MaxUses: maxUses, MaxOwns: maxOwns, TenantId: p.t.Id()}).Error
			}
			return err
		}
		entity.MaxUses = maxUses
		entity.MaxOwns = maxOwns
		return tx.Save(&entity).Error
	})
}
