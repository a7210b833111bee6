package metadata

import (
	"context"
	"errors"
	"fmt"
	"os"

	tenant "github.com/Chronicle20/atlas-tenant"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	// EnvBaseURIPrefix is the environment variable holding the prefix joined
	// in front of configured level URIs
	EnvBaseURIPrefix = "CARD_BASE_URI_PREFIX"
	// EnvFallbackURIPrefix is the environment variable holding the prefix used
	// to derive a per-card default URI when a card's level has no configured URI
	EnvFallbackURIPrefix = "CARD_FALLBACK_URI_PREFIX"
)

// ErrInputLengthMismatch indicates a bulk level URI update whose level and
// URI slices differ in length
var ErrInputLengthMismatch = errors.New("level and uri input lengths differ")

// Processor defines the interface for metadata URI operations
type Processor interface {
	// URIOf returns the configured URI for the given level, or empty when
	// none is configured
	URIOf(level uint32) (string, error)
	// ResolveForCard returns the effective metadata URI for a card on the
	// given level
	ResolveForCard(cardId uint32, level uint32) (string, error)
	// SetLevelURI replaces the configured URI for a single level
	SetLevelURI(level uint32, uri string) error
	// SetLevelURIs replaces the configured URIs for multiple levels
	SetLevelURIs(levels []uint32, uris []string) error
}

// ProcessorImpl implements the Processor interface
type ProcessorImpl struct {
	log logrus.FieldLogger
	ctx context.Context
	db  *gorm.DB
	t   tenant.Model
}

// NewProcessor creates a new metadata processor instance
func NewProcessor(l logrus.FieldLogger, ctx context.Context, db *gorm.DB) Processor {
	return &ProcessorImpl{
		log: l,
		ctx: ctx,
		db:  db,
		t:   tenant.MustFromContext(ctx),
	}
}

// URIOf returns the configured URI for the given level
func (p *ProcessorImpl) URIOf(level uint32) (string, error) {
	var entity Entity
	err := p.db.Where(&Entity{Level: level, TenantId: p.t.Id()}).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return entity.URI, nil
}

// ResolveForCard returns the effective metadata URI for a card on the given level
func (p *ProcessorImpl) ResolveForCard(cardId uint32, level uint32) (string, error) {
	levelURI, err := p.URIOf(level)
	if err != nil {
		return "", err
	}
	fallbackURI := ""
	if prefix := os.Getenv(EnvFallbackURIPrefix); prefix != "" {
		fallbackURI = fmt.Sprintf("%s%d", prefix, cardId)
	}
	return Resolve(levelURI, fallbackURI, os.Getenv(EnvBaseURIPrefix)), nil
}

func (p *ProcessorImpl) setLevelURI(tx *gorm.DB, level uint32, uri string) error {
	var entity Entity
	err := tx.Where(&Entity{Level: level, TenantId: p.t.Id()}).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&Entity{Level: level, URI: uri, TenantId: p.t.Id()}).Error
		}
		return err
	}
	entity.URI = uri
	return tx.Save(&entity).Error
}

// SetLevelURI replaces the configured URI for a single level
func (p *ProcessorImpl) SetLevelURI(level uint32, uri string) error {
	p.log.Debugf("Setting URI for level [%d].", level)
	return p.db.Transaction(func(tx *gorm.DB) error {
		return p.setLevelURI(tx, level, uri)
	})
}

// SetLevelURIs replaces the configured URIs for multiple levels. The whole
// update is applied atomically.
func (p *ProcessorImpl) SetLevelURIs(levels []uint32, uris []string) error {
	if len(levels) != len(uris) {
		return ErrInputLengthMismatch
	}
	p.log.Debugf("Setting URIs for [%d] levels.", len(levels))
	return p.db.Transaction(func(tx *gorm.DB) error {
		for i := range levels {
			if err := p.setLevelURI(tx, levels[i], uris[i]); err != nil {
				return err
			}
		}
		return nil
	})
}
