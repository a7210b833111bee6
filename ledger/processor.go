package ledger

import (
	"context"
	"fmt"

	"atlas-cards/maintenance"

	"github.com/Chronicle20/atlas-model/model"
	tenant "github.com/Chronicle20/atlas-tenant"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Processor defines the interface for card ownership ledger operations
type Processor interface {
	// OwnerOf returns the owner of a card
	OwnerOf(cardId uint32) (uint32, error)
	// BalanceOf returns the number of cards held by a character
	BalanceOf(ownerId uint32) (uint64, error)
	// CardsOfOwner returns the identifiers of the cards held by a character
	// in enumeration order
	CardsOfOwner(ownerId uint32) model.Provider[[]uint32]
	// CardOfOwnerByIndex returns the card at the given position of the
	// owner's enumeration
	CardOfOwnerByIndex(ownerId uint32, index uint64) (uint32, error)
	// Exists returns whether a card is live
	Exists(cardId uint32) (bool, error)
	// IsApprovedOrOwner returns whether a character owns a card, holds its
	// approval, or is a blanket operator for its owner
	IsApprovedOrOwner(actorId uint32, cardId uint32) (bool, error)
	// Halted returns whether ownership mutations are currently suspended
	Halted() (bool, error)
	// MintOwnership records a new card under an owner
	MintOwnership(cardId uint32, ownerId uint32) error
	// BurnOwnership removes a card's ownership record and its approval
	BurnOwnership(cardId uint32) error
	// TransferOwnership moves a card between owners and clears its approval
	TransferOwnership(fromId uint32, toId uint32, cardId uint32) error
	// Approve records the single approved character for a card
	Approve(cardId uint32, approvedId uint32) error
	// SetOperator records or removes a blanket operator approval
	SetOperator(ownerId uint32, operatorId uint32, approved bool) error
	// WithMaintenance returns a processor using the given maintenance
	// processor
	WithMaintenance(m maintenance.Processor) Processor
}

// ProcessorImpl implements the Processor interface
type ProcessorImpl struct {
	log         logrus.FieldLogger
	ctx         context.Context
	db          *gorm.DB
	t           tenant.Model
	maintenance maintenance.Processor
}

// NewProcessor creates a new ledger processor instance
func NewProcessor(l logrus.FieldLogger, ctx context.Context, db *gorm.DB) Processor {
	return &ProcessorImpl{
		log:         l,
		ctx:         ctx,
		db:          db,
		t:           tenant.MustFromContext(ctx),
		maintenance: maintenance.NewProcessor(l, ctx, db),
	}
}

// WithMaintenance returns a processor using the given maintenance processor
func (p *ProcessorImpl) WithMaintenance(m maintenance.Processor) Processor {
	return &ProcessorImpl{
		log:         p.log,
		ctx:         p.ctx,
		db:          p.db,
		t:           p.t,
		maintenance: m,
	}
}

// LedgerError represents a named ownership ledger failure
type LedgerError struct {
	Code    string
	Message string
}

func (e LedgerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var (
	// ErrHalted indicates an ownership mutation attempted while the service
	// is halted
	ErrHalted = LedgerError{
		Code:    "HALTED",
		Message: "state changing operations are suspended",
	}
	// ErrNotExists indicates a query against a card with no ownership record
	ErrNotExists = LedgerError{
		Code:    "NOT_EXISTS",
		Message: "card does not exist",
	}
	// ErrAlreadyExists indicates a mint against an already live card identifier
	ErrAlreadyExists = LedgerError{
		Code:    "ALREADY_EXISTS",
		Message: "card already exists",
	}
	// ErrNotOwner indicates a transfer whose from side does not own the card
	ErrNotOwner = LedgerError{
		Code:    "NOT_OWNER",
		Message: "character does not own card",
	}
	// ErrIndexOutOfRange indicates an enumeration index beyond the owner's
	// balance
	ErrIndexOutOfRange = LedgerError{
		Code:    "INDEX_OUT_OF_RANGE",
		Message: "owner enumeration index out of range",
	}
)

// OwnerOf returns the owner of a card
func (p *ProcessorImpl) OwnerOf(cardId uint32) (uint32, error) {
	entity, err := GetOwnershipByCardProvider(p.db, p.log)(cardId, p.t.Id())()
	if err != nil {
		return 0, err
	}
	if entity == nil {
		return 0, ErrNotExists
	}
	return entity.OwnerId, nil
}

// BalanceOf returns the number of cards held by a character
func (p *ProcessorImpl) BalanceOf(ownerId uint32) (uint64, error) {
	count, err := CountByOwnerProvider(p.db, p.log)(ownerId, p.t.Id())()
	if err != nil {
		return 0, err
	}
	return uint64(count), nil
}

// CardsOfOwner returns the identifiers of the cards held by a character in
// enumeration order
func (p *ProcessorImpl) CardsOfOwner(ownerId uint32) model.Provider[[]uint32] {
	return func() ([]uint32, error) {
		entities, err := GetOwnershipsByOwnerProvider(p.db, p.log)(ownerId, p.t.Id())()
		if err != nil {
			return nil, err
		}
		ids := make([]uint32, 0, len(entities))
		for _, e := range entities {
			ids = append(ids, e.CardId)
		}
		return ids, nil
	}
}

// CardOfOwnerByIndex returns the card at the given position of the owner's
// enumeration
func (p *ProcessorImpl) CardOfOwnerByIndex(ownerId uint32, index uint64) (uint32, error) {
	ids, err := p.CardsOfOwner(ownerId)()
	if err != nil {
		return 0, err
	}
	if index >= uint64(len(ids)) {
		return 0, ErrIndexOutOfRange
	}
	return ids[index], nil
}

// Exists returns whether a card is live
func (p *ProcessorImpl) Exists(cardId uint32) (bool, error) {
	entity, err := GetOwnershipByCardProvider(p.db, p.log)(cardId, p.t.Id())()
	if err != nil {
		return false, err
	}
	return entity != nil, nil
}

// IsApprovedOrOwner returns whether a character owns a card, holds its
// approval, or is a blanket operator for its owner
func (p *ProcessorImpl) IsApprovedOrOwner(actorId uint32, cardId uint32) (bool, error) {
	entity, err := GetOwnershipByCardProvider(p.db, p.log)(cardId, p.t.Id())()
	if err != nil {
		return false, err
	}
	if entity == nil {
		return false, ErrNotExists
	}
	if entity.OwnerId == actorId {
		return true, nil
	}
	approval, err := GetApprovalByCardProvider(p.db, p.log)(cardId, p.t.Id())()
	if err != nil {
		return false, err
	}
	if approval != nil && approval.ApprovedId == actorId {
		return true, nil
	}
	operator, err := GetOperatorProvider(p.db, p.log)(entity.OwnerId, actorId, p.t.Id())()
	if err != nil {
		return false, err
	}
	return operator != nil, nil
}

// Halted returns whether ownership mutations are currently suspended
func (p *ProcessorImpl) Halted() (bool, error) {
	return p.maintenance.IsHalted()
}

func (p *ProcessorImpl) guardHalted() error {
	halted, err := p.maintenance.IsHalted()
	if err != nil {
		return err
	}
	if halted {
		return ErrHalted
	}
	return nil
}

// MintOwnership records a new card under an owner
func (p *ProcessorImpl) MintOwnership(cardId uint32, ownerId uint32) error {
	if err := p.guardHalted(); err != nil {
		return err
	}
	existing, err := GetOwnershipByCardProvider(p.db, p.log)(cardId, p.t.Id())()
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrAlreadyExists
	}
	_, err = CreateOwnership(p.db, p.log)(cardId, ownerId, p.t.Id())()
	return err
}

// BurnOwnership removes a card's ownership record and its approval
func (p *ProcessorImpl) BurnOwnership(cardId uint32) error {
	if err := p.guardHalted(); err != nil {
		return err
	}
	existing, err := GetOwnershipByCardProvider(p.db, p.log)(cardId, p.t.Id())()
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotExists
	}
	if err = ClearApproval(p.db, p.log)(cardId, p.t.Id()); err != nil {
		return err
	}
	return DeleteOwnership(p.db, p.log)(cardId, p.t.Id())
}

// TransferOwnership moves a card between owners and clears its approval
func (p *ProcessorImpl) TransferOwnership(fromId uint32, toId uint32, cardId uint32) error {
	if err := p.guardHalted(); err != nil {
		return err
	}
	existing, err := GetOwnershipByCardProvider(p.db, p.log)(cardId, p.t.Id())()
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotExists
	}
	if existing.OwnerId != fromId {
		return ErrNotOwner
	}
	if err = ClearApproval(p.db, p.log)(cardId, p.t.Id()); err != nil {
		return err
	}
	_, err = UpdateOwnershipOwner(p.db, p.log)(cardId, toId, p.t.Id())()
	return err
}

// Approve records the single approved character for a card
func (p *ProcessorImpl) Approve(cardId uint32, approvedId uint32) error {
	existing, err := GetOwnershipByCardProvider(p.db, p.log)(cardId, p.t.Id())()
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotExists
	}
	return SetApproval(p.db, p.log)(cardId, approvedId, p.t.Id())
}

// SetOperator records or removes a blanket operator approval
func (p *ProcessorImpl) SetOperator(ownerId uint32, operatorId uint32, approved bool) error {
	return SetOperator(p.db, p.log)(ownerId, operatorId, approved, p.t.Id())
}
