package card

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"atlas-cards/access"
	"atlas-cards/kafka/message"
	cardmsg "atlas-cards/kafka/message/card"
	"atlas-cards/kafka/producer"
	"atlas-cards/ledger"
	"atlas-cards/limits"

	"github.com/Chronicle20/atlas-model/model"
	tenant "github.com/Chronicle20/atlas-tenant"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Processor interface defines the card lifecycle operations
type Processor interface {
	WithLedger(ledgerProcessor ledger.Processor) Processor
	WithAccess(accessProcessor access.Processor) Processor
	WithLimits(limitsProcessor limits.Processor) Processor
	WithProducer(provider producer.Provider) Processor

	// Lifecycle operations
	Mint(actorId uint32, ownerId uint32, level uint32) model.Provider[Model]
	MintAndEmit(transactionId uuid.UUID, actorId uint32, ownerId uint32, level uint32) (Model, error)
	MintBatch(actorId uint32, ownerIds []uint32, levels []uint32) model.Provider[[]Model]
	MintBatchAndEmit(transactionId uuid.UUID, actorId uint32, ownerIds []uint32, levels []uint32) ([]Model, error)
	Burn(actorId uint32, cardId uint32) model.Provider[Model]
	BurnAndEmit(transactionId uuid.UUID, actorId uint32, cardId uint32) (Model, error)
	BurnBatch(actorId uint32, cardIds []uint32) model.Provider[[]Model]
	BurnBatchAndEmit(transactionId uuid.UUID, actorId uint32, cardIds []uint32) ([]Model, error)
	TransferBatch(actorId uint32, fromId uint32, toId uint32, cardIds []uint32) model.Provider[[]Model]
	TransferBatchAndEmit(transactionId uuid.UUID, actorId uint32, fromId uint32, toId uint32, cardIds []uint32) ([]Model, error)

	// Use operations
	Use(actorId uint32, cardId uint32, count uint64) model.Provider[Model]
	UseAndEmit(transactionId uuid.UUID, actorId uint32, cardId uint32, count uint64) (Model, error)
	UseFromHolder(actorId uint32, ownerId uint32, count uint64) model.Provider[Model]
	UseFromHolderAndEmit(transactionId uuid.UUID, actorId uint32, ownerId uint32, count uint64) (Model, error)
	CanUseFrom(ownerId uint32, count uint64) model.Provider[bool]

	// Queries
	GetById(cardId uint32) model.Provider[Model]
	GetByOwner(ownerId uint32) model.Provider[[]Model]
	UsesOf(cardId uint32) model.Provider[uint64]
	LevelOf(cardId uint32) model.Provider[uint32]
	TotalUsesOf(ownerId uint32) model.Provider[uint64]
}

// ProcessorImpl implements the Processor interface
type ProcessorImpl struct {
	log             logrus.FieldLogger
	ctx             context.Context
	db              *gorm.DB
	t               tenant.Model
	producer        producer.Provider
	ledgerProcessor ledger.Processor
	accessProcessor access.Processor
	limitsProcessor limits.Processor
}

// NewProcessor creates a new processor instance
func NewProcessor(log logrus.FieldLogger, ctx context.Context, db *gorm.DB) Processor {
	return &ProcessorImpl{
		log:             log,
		ctx:             ctx,
		db:              db,
		t:               tenant.MustFromContext(ctx),
		producer:        producer.ProviderImpl(log)(ctx),
		ledgerProcessor: ledger.NewProcessor(log, ctx, db),
		accessProcessor: access.NewProcessor(log, ctx, db),
		limitsProcessor: limits.NewProcessor(log, ctx, db),
	}
}

// WithLedger creates a new processor instance with a custom ledger processor for testing
func (p *ProcessorImpl) WithLedger(ledgerProcessor ledger.Processor) Processor {
	return &ProcessorImpl{
		log:             p.log,
		ctx:             p.ctx,
		db:              p.db,
		t:               p.t,
		producer:        p.producer,
		ledgerProcessor: ledgerProcessor,
		accessProcessor: p.accessProcessor,
		limitsProcessor: p.limitsProcessor,
	}
}

// WithAccess creates a new processor instance with a custom access processor for testing
func (p *ProcessorImpl) WithAccess(accessProcessor access.Processor) Processor {
	return &ProcessorImpl{
		log:             p.log,
		ctx:             p.ctx,
		db:              p.db,
		t:               p.t,
		producer:        p.producer,
		ledgerProcessor: p.ledgerProcessor,
		accessProcessor: accessProcessor,
		limitsProcessor: p.limitsProcessor,
	}
}

// WithLimits creates a new processor instance with a custom limits processor for testing
func (p *ProcessorImpl) WithLimits(limitsProcessor limits.Processor) Processor {
	return &ProcessorImpl{
		log:             p.log,
		ctx:             p.ctx,
		db:              p.db,
		t:               p.t,
		producer:        p.producer,
		ledgerProcessor: p.ledgerProcessor,
		accessProcessor: p.accessProcessor,
		limitsProcessor: limitsProcessor,
	}
}

// WithProducer creates a new processor instance with a custom producer for testing
func (p *ProcessorImpl) WithProducer(provider producer.Provider) Processor {
	return &ProcessorImpl{
		log:             p.log,
		ctx:             p.ctx,
		db:              p.db,
		t:               p.t,
		producer:        provider,
		ledgerProcessor: p.ledgerProcessor,
		accessProcessor: p.accessProcessor,
		limitsProcessor: p.limitsProcessor,
	}
}

// CardError represents a named card lifecycle failure
type CardError struct {
	Code    string
	Message string
}

func (e CardError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var (
	// ErrNotExists indicates an operation against a card absent from the
	// ledger, or a holder scan over zero cards
	ErrNotExists = CardError{
		Code:    "NOT_EXISTS",
		Message: "card does not exist",
	}
	// ErrZeroUseCount indicates a use operation requested with a count of zero
	ErrZeroUseCount = CardError{
		Code:    "ZERO_USE_COUNT",
		Message: "use count must be greater than zero",
	}
	// ErrMaxUsesCountReached indicates a use that would push a card, or every
	// card of a holder, past the use bound
	ErrMaxUsesCountReached = CardError{
		Code:    "MAX_USES_COUNT_REACHED",
		Message: "maximum use count reached",
	}
	// ErrWrongInputParams indicates parallel batch inputs of mismatched or
	// zero length
	ErrWrongInputParams = CardError{
		Code:    "WRONG_INPUT_PARAMS",
		Message: "batch inputs have mismatched or zero length",
	}
	// ErrCallerIsNotOwnerNorApproved indicates a burn or transfer attempted
	// by an actor who neither owns the card nor holds an approval for it
	ErrCallerIsNotOwnerNorApproved = CardError{
		Code:    "CALLER_IS_NOT_OWNER_NOR_APPROVED",
		Message: "caller is not owner nor approved",
	}
	// ErrMissingCapability indicates an actor lacking the role a gated
	// operation requires
	ErrMissingCapability = CardError{
		Code:    "MISSING_CAPABILITY",
		Message: "actor lacks required capability",
	}
)

// tenantLocks serializes state-mutating operations per tenant. The use
// counter update and the first-fit scan are read-then-act sequences and are
// not safe under interleaving.
var tenantLocks sync.Map

func lockForTenant(tenantId uuid.UUID) *sync.Mutex {
	mu, _ := tenantLocks.LoadOrStore(tenantId, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (p *ProcessorImpl) guardHalted() error {
	halted, err := p.ledgerProcessor.Halted()
	if err != nil {
		return err
	}
	if halted {
		return ledger.ErrHalted
	}
	return nil
}

func (p *ProcessorImpl) guardCapability(actorId uint32, role string) error {
	allowed, err := p.accessProcessor.HasCapability(actorId, role)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrMissingCapability
	}
	return nil
}

// Mint creates a single card under an owner. The card's level is fixed here
// for its whole life.
func (p *ProcessorImpl) Mint(actorId uint32, ownerId uint32, level uint32) model.Provider[Model] {
	return func() (Model, error) {
		mu := lockForTenant(p.t.Id())
		mu.Lock()
		defer mu.Unlock()
		return p.mint(actorId, ownerId, level)
	}
}

// mint performs a single mint under an already held tenant lock. The halted
// check runs before identifier allocation so a refused mint does not consume
// an identifier.
func (p *ProcessorImpl) mint(actorId uint32, ownerId uint32, level uint32) (Model, error) {
	p.log.WithFields(logrus.Fields{
		"actorId": actorId,
		"ownerId": ownerId,
		"level":   level,
	}).Debug("Processing card mint")

	if err := p.guardHalted(); err != nil {
		return Model{}, err
	}
	if err := p.guardCapability(actorId, access.RoleMinter); err != nil {
		return Model{}, err
	}

	cardId, err := AllocateIds(p.db, p.log)(1, p.t.Id())
	if err != nil {
		return Model{}, err
	}

	entity, err := CreateCard(p.db, p.log)(cardId, level, p.t.Id())()
	if err != nil {
		return Model{}, err
	}
	if err = p.ledgerProcessor.MintOwnership(cardId, ownerId); err != nil {
		return Model{}, err
	}

	m, err := Make(entity)
	if err != nil {
		return Model{}, err
	}

	p.log.WithFields(logrus.Fields{
		"cardId":  cardId,
		"ownerId": ownerId,
	}).Info("Card minted successfully")
	return m, nil
}

// MintAndEmit creates a card and emits a minted event
func (p *ProcessorImpl) MintAndEmit(transactionId uuid.UUID, actorId uint32, ownerId uint32, level uint32) (Model, error) {
	m, err := p.Mint(actorId, ownerId, level)()
	if err != nil {
		return Model{}, err
	}

	err = message.Emit(p.producer)(func(buf *message.Buffer) error {
		return buf.Put(cardmsg.EnvEventTopicStatus, MintedEventProvider(m.Id(), ownerId, m.Level(), m.CreatedAt()))
	})
	if err != nil {
		return Model{}, err
	}

	p.log.WithFields(logrus.Fields{
		"transactionId": transactionId,
		"cardId":        m.Id(),
	}).Debug("CardMinted event emitted")
	return m, nil
}

// MintBatch creates cards for parallel owner and level sequences, in order.
// Identifiers are assigned from one contiguous block so ordering is exact
// per item.
func (p *ProcessorImpl) MintBatch(actorId uint32, ownerIds []uint32, levels []uint32) model.Provider[[]Model] {
	return func() ([]Model, error) {
		mu := lockForTenant(p.t.Id())
		mu.Lock()
		defer mu.Unlock()

		p.log.WithFields(logrus.Fields{
			"actorId": actorId,
			"count":   len(ownerIds),
		}).Debug("Processing card batch mint")

		if err := p.guardHalted(); err != nil {
			return nil, err
		}
		if err := p.guardCapability(actorId, access.RoleMinter); err != nil {
			return nil, err
		}
		if len(ownerIds) == 0 || len(ownerIds) != len(levels) {
			return nil, ErrWrongInputParams
		}

		firstId, err := AllocateIds(p.db, p.log)(uint32(len(ownerIds)), p.t.Id())
		if err != nil {
			return nil, err
		}

		results := make([]Model, 0, len(ownerIds))
		for i := range ownerIds {
			cardId := firstId + uint32(i)
			entity, err := CreateCard(p.db, p.log)(cardId, levels[i], p.t.Id())()
			if err != nil {
				return nil, err
			}
			if err = p.ledgerProcessor.MintOwnership(cardId, ownerIds[i]); err != nil {
				return nil, err
			}
			m, err := Make(entity)
			if err != nil {
				return nil, err
			}
			results = append(results, m)
		}

		p.log.WithFields(logrus.Fields{
			"firstId": firstId,
			"count":   len(results),
		}).Info("Card batch minted successfully")
		return results, nil
	}
}

// MintBatchAndEmit creates cards and emits a minted event per card
func (p *ProcessorImpl) MintBatchAndEmit(transactionId uuid.UUID, actorId uint32, ownerIds []uint32, levels []uint32) ([]Model, error) {
	results, err := p.MintBatch(actorId, ownerIds, levels)()
	if err != nil {
		return nil, err
	}

	err = message.Emit(p.producer)(func(buf *message.Buffer) error {
		for i, m := range results {
			if err := buf.Put(cardmsg.EnvEventTopicStatus, MintedEventProvider(m.Id(), ownerIds[i], m.Level(), m.CreatedAt())); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.log.WithFields(logrus.Fields{
		"transactionId": transactionId,
		"count":         len(results),
	}).Debug("CardMinted events emitted")
	return results, nil
}

// Burn destroys a card. The caller must own the card or hold an approval for
// it. The card's recorded state is cleared with the ownership record.
func (p *ProcessorImpl) Burn(actorId uint32, cardId uint32) model.Provider[Model] {
	return func() (Model, error) {
		mu := lockForTenant(p.t.Id())
		mu.Lock()
		defer mu.Unlock()
		return p.burn(actorId, cardId)
	}
}

func (p *ProcessorImpl) burn(actorId uint32, cardId uint32) (Model, error) {
	p.log.WithFields(logrus.Fields{
		"actorId": actorId,
		"cardId":  cardId,
	}).Debug("Processing card burn")

	if err := p.guardHalted(); err != nil {
		return Model{}, err
	}

	exists, err := p.ledgerProcessor.Exists(cardId)
	if err != nil {
		return Model{}, err
	}
	if !exists {
		return Model{}, ErrNotExists
	}

	allowed, err := p.ledgerProcessor.IsApprovedOrOwner(actorId, cardId)
	if err != nil {
		return Model{}, err
	}
	if !allowed {
		return Model{}, ErrCallerIsNotOwnerNorApproved
	}

	ownerId, err := p.ledgerProcessor.OwnerOf(cardId)
	if err != nil {
		return Model{}, err
	}
	m, err := GetByIdProvider(p.db, p.log)(cardId, p.t.Id())()
	if err != nil {
		return Model{}, err
	}

	if err = p.ledgerProcessor.BurnOwnership(cardId); err != nil {
		return Model{}, err
	}
	if err = DeleteCard(p.db, p.log)(cardId, p.t.Id()); err != nil {
		return Model{}, err
	}

	p.log.WithFields(logrus.Fields{
		"cardId":  cardId,
		"ownerId": ownerId,
	}).Info("Card burned successfully")
	return m, nil
}

// BurnAndEmit destroys a card and emits a burned event
func (p *ProcessorImpl) BurnAndEmit(transactionId uuid.UUID, actorId uint32, cardId uint32) (Model, error) {
	ownerId, err := p.ledgerProcessor.OwnerOf(cardId)
	if err != nil {
		if errors.Is(err, ledger.ErrNotExists) {
			return Model{}, ErrNotExists
		}
		return Model{}, err
	}

	m, err := p.Burn(actorId, cardId)()
	if err != nil {
		return Model{}, err
	}

	err = message.Emit(p.producer)(func(buf *message.Buffer) error {
		return buf.Put(cardmsg.EnvEventTopicStatus, BurnedEventProvider(cardId, ownerId, m.UpdatedAt()))
	})
	if err != nil {
		return Model{}, err
	}

	p.log.WithFields(logrus.Fields{
		"transactionId": transactionId,
		"cardId":        cardId,
	}).Debug("CardBurned event emitted")
	return m, nil
}

// BurnBatch destroys cards sequentially. An individual failure aborts the
// batch; burns that already succeeded stay burned.
func (p *ProcessorImpl) BurnBatch(actorId uint32, cardIds []uint32) model.Provider[[]Model] {
	return func() ([]Model, error) {
		mu := lockForTenant(p.t.Id())
		mu.Lock()
		defer mu.Unlock()

		results := make([]Model, 0, len(cardIds))
		for _, cardId := range cardIds {
			m, err := p.burn(actorId, cardId)
			if err != nil {
				return nil, err
			}
			results = append(results, m)
		}
		return results, nil
	}
}

// BurnBatchAndEmit destroys cards and emits a burned event per card
func (p *ProcessorImpl) BurnBatchAndEmit(transactionId uuid.UUID, actorId uint32, cardIds []uint32) ([]Model, error) {
	owners := make(map[uint32]uint32, len(cardIds))
	for _, cardId := range cardIds {
		ownerId, err := p.ledgerProcessor.OwnerOf(cardId)
		if err != nil {
			if errors.Is(err, ledger.ErrNotExists) {
				return nil, ErrNotExists
			}
			return nil, err
		}
		owners[cardId] = ownerId
	}

	results, err := p.BurnBatch(actorId, cardIds)()
	if err != nil {
		return nil, err
	}

	err = message.Emit(p.producer)(func(buf *message.Buffer) error {
		for _, m := range results {
			if err := buf.Put(cardmsg.EnvEventTopicStatus, BurnedEventProvider(m.Id(), owners[m.Id()], m.UpdatedAt())); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.log.WithFields(logrus.Fields{
		"transactionId": transactionId,
		"count":         len(results),
	}).Debug("CardBurned events emitted")
	return results, nil
}

// TransferBatch moves cards between owners sequentially. Each transfer
// independently enforces the halted flag and ownership or approval.
func (p *ProcessorImpl) TransferBatch(actorId uint32, fromId uint32, toId uint32, cardIds []uint32) model.Provider[[]Model] {
	return func() ([]Model, error) {
		mu := lockForTenant(p.t.Id())
		mu.Lock()
		defer mu.Unlock()

		p.log.WithFields(logrus.Fields{
			"actorId": actorId,
			"fromId":  fromId,
			"toId":    toId,
			"count":   len(cardIds),
		}).Debug("Processing card batch transfer")

		results := make([]Model, 0, len(cardIds))
		for _, cardId := range cardIds {
			if err := p.guardHalted(); err != nil {
				return nil, err
			}

			exists, err := p.ledgerProcessor.Exists(cardId)
			if err != nil {
				return nil, err
			}
			if !exists {
				return nil, ErrNotExists
			}

			allowed, err := p.ledgerProcessor.IsApprovedOrOwner(actorId, cardId)
			if err != nil {
				return nil, err
			}
			if !allowed {
				return nil, ErrCallerIsNotOwnerNorApproved
			}

			if err = p.ledgerProcessor.TransferOwnership(fromId, toId, cardId); err != nil {
				return nil, err
			}

			m, err := GetByIdProvider(p.db, p.log)(cardId, p.t.Id())()
			if err != nil {
				return nil, err
			}
			results = append(results, m)
		}

		p.log.WithFields(logrus.Fields{
			"fromId": fromId,
			"toId":   toId,
			"count":  len(results),
		}).Info("Card batch transferred successfully")
		return results, nil
	}
}

// TransferBatchAndEmit moves cards between owners and emits a transferred
// event per card
func (p *ProcessorImpl) TransferBatchAndEmit(transactionId uuid.UUID, actorId uint32, fromId uint32, toId uint32, cardIds []uint32) ([]Model, error) {
	results, err := p.TransferBatch(actorId, fromId, toId, cardIds)()
	if err != nil {
		return nil, err
	}

	err = message.Emit(p.producer)(func(buf *message.Buffer) error {
		for _, m := range results {
			if err := buf.Put(cardmsg.EnvEventTopicStatus, TransferredEventProvider(m.Id(), fromId, toId, m.UpdatedAt())); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.log.WithFields(logrus.Fields{
		"transactionId": transactionId,
		"count":         len(results),
	}).Debug("CardTransferred events emitted")
	return results, nil
}

// recordUse applies a use count to a single card. This is the single point
// of truth for the use bound.
func (p *ProcessorImpl) recordUse(cardId uint32, count uint64) (Model, error) {
	if count == 0 {
		return Model{}, ErrZeroUseCount
	}

	l, err := p.limitsProcessor.Get()
	if err != nil {
		return Model{}, err
	}
	m, err := GetByIdProvider(p.db, p.log)(cardId, p.t.Id())()
	if err != nil {
		return Model{}, err
	}
	// Compared without addition so a huge count cannot wrap past the bound
	if count > l.MaxUses() || m.Uses() > l.MaxUses()-count {
		return Model{}, ErrMaxUsesCountReached
	}

	entity, err := UpdateCardUses(p.db, p.log)(cardId, m.Uses()+count, p.t.Id())()
	if err != nil {
		return Model{}, err
	}
	return Make(entity)
}

// Use applies a use count to a specific card. Use operations are not gated
// on the halted flag; only ownership mutations are.
func (p *ProcessorImpl) Use(actorId uint32, cardId uint32, count uint64) model.Provider[Model] {
	return func() (Model, error) {
		mu := lockForTenant(p.t.Id())
		mu.Lock()
		defer mu.Unlock()

		p.log.WithFields(logrus.Fields{
			"actorId": actorId,
			"cardId":  cardId,
			"count":   count,
		}).Debug("Processing card use")

		if err := p.guardCapability(actorId, access.RoleOperator); err != nil {
			return Model{}, err
		}
		if count == 0 {
			return Model{}, ErrZeroUseCount
		}

		exists, err := p.ledgerProcessor.Exists(cardId)
		if err != nil {
			return Model{}, err
		}
		if !exists {
			return Model{}, ErrNotExists
		}

		m, err := p.recordUse(cardId, count)
		if err != nil {
			return Model{}, err
		}

		p.log.WithFields(logrus.Fields{
			"cardId": cardId,
			"uses":   m.Uses(),
		}).Info("Card used successfully")
		return m, nil
	}
}

// UseAndEmit applies a use count and emits a used event carrying the
// remaining headroom
func (p *ProcessorImpl) UseAndEmit(transactionId uuid.UUID, actorId uint32, cardId uint32, count uint64) (Model, error) {
	m, err := message.EmitWithResult[Model, uint64](p.producer)(func(buf *message.Buffer) func(uint64) (Model, error) {
		return func(c uint64) (Model, error) {
			m, err := p.Use(actorId, cardId, c)()
			if err != nil {
				return Model{}, err
			}
			l, err := p.limitsProcessor.Get()
			if err != nil {
				return Model{}, err
			}
			if err = buf.Put(cardmsg.EnvEventTopicStatus, UsedEventProvider(m.Id(), m.RemainingUses(l.MaxUses()), m.UpdatedAt())); err != nil {
				return Model{}, err
			}
			return m, nil
		}
	})(count)
	if err != nil {
		return Model{}, err
	}

	p.log.WithFields(logrus.Fields{
		"transactionId": transactionId,
		"cardId":        m.Id(),
	}).Debug("CardUsed event emitted")
	return m, nil
}

// firstFit returns the identifier of the first card in the owner's
// enumeration that can accept the use count. The scan is a linear pass in
// enumeration order; selection is first-fit, not best-fit.
func (p *ProcessorImpl) firstFit(cardIds []uint32, count uint64, maxUses uint64) (uint32, bool, error) {
	metas, err := GetByIdsProvider(p.db, p.log)(cardIds, p.t.Id())()
	if err != nil {
		return 0, false, err
	}
	usesById := make(map[uint32]uint64, len(metas))
	for _, m := range metas {
		usesById[m.Id()] = m.Uses()
	}
	if count > maxUses {
		return 0, false, nil
	}
	for _, cardId := range cardIds {
		if usesById[cardId] <= maxUses-count {
			return cardId, true, nil
		}
	}
	return 0, false, nil
}

// UseFromHolder applies a use count to the first card of the owner that can
// accept it
func (p *ProcessorImpl) UseFromHolder(actorId uint32, ownerId uint32, count uint64) model.Provider[Model] {
	return func() (Model, error) {
		mu := lockForTenant(p.t.Id())
		mu.Lock()
		defer mu.Unlock()

		p.log.WithFields(logrus.Fields{
			"actorId": actorId,
			"ownerId": ownerId,
			"count":   count,
		}).Debug("Processing card use from holder")

		if err := p.guardCapability(actorId, access.RoleOperator); err != nil {
			return Model{}, err
		}
		if count == 0 {
			return Model{}, ErrZeroUseCount
		}

		cardIds, err := p.ledgerProcessor.CardsOfOwner(ownerId)()
		if err != nil {
			return Model{}, err
		}
		if len(cardIds) == 0 {
			return Model{}, ErrNotExists
		}

		l, err := p.limitsProcessor.Get()
		if err != nil {
			return Model{}, err
		}
		selected, ok, err := p.firstFit(cardIds, count, l.MaxUses())
		if err != nil {
			return Model{}, err
		}
		if !ok {
			return Model{}, ErrMaxUsesCountReached
		}

		m, err := p.recordUse(selected, count)
		if err != nil {
			return Model{}, err
		}

		p.log.WithFields(logrus.Fields{
			"ownerId": ownerId,
			"cardId":  selected,
			"uses":    m.Uses(),
		}).Info("Card used from holder successfully")
		return m, nil
	}
}

// UseFromHolderAndEmit applies a use count to the first fitting card of the
// owner and emits a used event
func (p *ProcessorImpl) UseFromHolderAndEmit(transactionId uuid.UUID, actorId uint32, ownerId uint32, count uint64) (Model, error) {
	m, err := message.EmitWithResult[Model, uint64](p.producer)(func(buf *message.Buffer) func(uint64) (Model, error) {
		return func(c uint64) (Model, error) {
			m, err := p.UseFromHolder(actorId, ownerId, c)()
			if err != nil {
				return Model{}, err
			}
			l, err := p.limitsProcessor.Get()
			if err != nil {
				return Model{}, err
			}
			if err = buf.Put(cardmsg.EnvEventTopicStatus, UsedEventProvider(m.Id(), m.RemainingUses(l.MaxUses()), m.UpdatedAt())); err != nil {
				return Model{}, err
			}
			return m, nil
		}
	})(count)
	if err != nil {
		return Model{}, err
	}

	p.log.WithFields(logrus.Fields{
		"transactionId": transactionId,
		"cardId":        m.Id(),
	}).Debug("CardUsed event emitted")
	return m, nil
}

// CanUseFrom reports whether at least one card of the owner can accept the
// use count. A holder with no cards simply cannot use, so the result is
// false rather than an error.
func (p *ProcessorImpl) CanUseFrom(ownerId uint32, count uint64) model.Provider[bool] {
	return func() (bool, error) {
		if count == 0 {
			return false, ErrZeroUseCount
		}

		mu := lockForTenant(p.t.Id())
		mu.Lock()
		defer mu.Unlock()

		cardIds, err := p.ledgerProcessor.CardsOfOwner(ownerId)()
		if err != nil {
			return false, err
		}
		if len(cardIds) == 0 {
			return false, nil
		}

		l, err := p.limitsProcessor.Get()
		if err != nil {
			return false, err
		}
		_, ok, err := p.firstFit(cardIds, count, l.MaxUses())
		if err != nil {
			return false, err
		}
		return ok, nil
	}
}

// GetById retrieves a card's recorded state. Existence is delegated to the
// ledger so a minted card with no use yet still reads as existing.
func (p *ProcessorImpl) GetById(cardId uint32) model.Provider[Model] {
	return func() (Model, error) {
		exists, err := p.ledgerProcessor.Exists(cardId)
		if err != nil {
			return Model{}, err
		}
		if !exists {
			return Model{}, ErrNotExists
		}
		return GetByIdProvider(p.db, p.log)(cardId, p.t.Id())()
	}
}

// GetByOwner retrieves the recorded state of every card held by the owner,
// in enumeration order
func (p *ProcessorImpl) GetByOwner(ownerId uint32) model.Provider[[]Model] {
	return func() ([]Model, error) {
		cardIds, err := p.ledgerProcessor.CardsOfOwner(ownerId)()
		if err != nil {
			return nil, err
		}
		return GetByIdsProvider(p.db, p.log)(cardIds, p.t.Id())()
	}
}

// UsesOf returns a card's accumulated use count
func (p *ProcessorImpl) UsesOf(cardId uint32) model.Provider[uint64] {
	return func() (uint64, error) {
		m, err := p.GetById(cardId)()
		if err != nil {
			return 0, err
		}
		return m.Uses(), nil
	}
}

// LevelOf returns a card's level
func (p *ProcessorImpl) LevelOf(cardId uint32) model.Provider[uint32] {
	return func() (uint32, error) {
		m, err := p.GetById(cardId)()
		if err != nil {
			return 0, err
		}
		return m.Level(), nil
	}
}

// TotalUsesOf sums the use counts across every card held by the owner, in
// enumeration order
func (p *ProcessorImpl) TotalUsesOf(ownerId uint32) model.Provider[uint64] {
	return func() (uint64, error) {
		cardIds, err := p.ledgerProcessor.CardsOfOwner(ownerId)()
		if err != nil {
			return 0, err
		}
		if len(cardIds) == 0 {
			return 0, ErrNotExists
		}
		metas, err := GetByIdsProvider(p.db, p.log)(cardIds, p.t.Id())()
		if err != nil {
			return 0, err
		}
		var total uint64
		for _, m := range metas {
			total += m.Uses()
		}
		return total, nil
	}
}
