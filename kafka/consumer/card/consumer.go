package card

import (
	"context"
	"errors"

	"atlas-cards/access"
	cardService "atlas-cards/card"
	localConsumer "atlas-cards/kafka/consumer"
	"atlas-cards/kafka/message"
	cardMsg "atlas-cards/kafka/message/card"
	"atlas-cards/kafka/producer"
	"atlas-cards/ledger"
	"atlas-cards/limits"
	"atlas-cards/maintenance"
	"atlas-cards/metadata"

	"github.com/Chronicle20/atlas-kafka/consumer"
	"github.com/Chronicle20/atlas-kafka/handler"
	kafka "github.com/Chronicle20/atlas-kafka/message"
	"github.com/Chronicle20/atlas-model/model"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NewConfig creates a new consumer configuration for card commands
func NewConfig(l logrus.FieldLogger) func(name string) func(token string) func(groupId string) consumer.Config {
	return localConsumer.NewConfig(l)
}

// InitHandlers initializes all card command handlers
func InitHandlers(l logrus.FieldLogger, ctx context.Context, db *gorm.DB) []handler.Handler {
	cardProcessor := cardService.NewProcessor(l, ctx, db)

	return []handler.Handler{
		// Lifecycle command handlers
		kafka.AdaptHandler(kafka.PersistentConfig(handleMint(l, ctx, cardProcessor))),
		kafka.AdaptHandler(kafka.PersistentConfig(handleMintBatch(l, ctx, cardProcessor))),
		kafka.AdaptHandler(kafka.PersistentConfig(handleBurn(l, ctx, cardProcessor))),
		kafka.AdaptHandler(kafka.PersistentConfig(handleBurnBatch(l, ctx, cardProcessor))),
		kafka.AdaptHandler(kafka.PersistentConfig(handleTransferBatch(l, ctx, cardProcessor))),

		// Use command handlers
		kafka.AdaptHandler(kafka.PersistentConfig(handleUse(l, ctx, cardProcessor))),
		kafka.AdaptHandler(kafka.PersistentConfig(handleUseFromHolder(l, ctx, cardProcessor))),

		// Administration command handlers
		kafka.AdaptHandler(kafka.PersistentConfig(handleSetLevelURI(l, ctx, db))),
		kafka.AdaptHandler(kafka.PersistentConfig(handleSetLevelURIs(l, ctx, db))),
		kafka.AdaptHandler(kafka.PersistentConfig(handleSetLimits(l, ctx, db))),
		kafka.AdaptHandler(kafka.PersistentConfig(handleSetHalted(l, ctx, db))),
		kafka.AdaptHandler(kafka.PersistentConfig(handleGrantRole(l, ctx, db))),
		kafka.AdaptHandler(kafka.PersistentConfig(handleRevokeRole(l, ctx, db))),
	}
}

// errorCode maps a processing failure to its wire error code
func errorCode(err error) string {
	var cardErr cardService.CardError
	if errors.As(err, &cardErr) {
		return cardErr.Code
	}
	var ledgerErr ledger.LedgerError
	if errors.As(err, &ledgerErr) {
		return ledgerErr.Code
	}
	return "INTERNAL_ERROR"
}

func emitErrorEvent(l logrus.FieldLogger, ctx context.Context, cardId uint32, actorId uint32, err error, operation string) {
	errorProvider := cardService.ErrorEventProvider(cardId, actorId, errorCode(err), err.Error(), operation)
	if emitErr := message.Emit(producer.ProviderImpl(l)(ctx))(func(buf *message.Buffer) error {
		return buf.Put(cardMsg.EnvEventTopicStatus, errorProvider)
	}); emitErr != nil {
		l.WithError(emitErr).Error("Failed to emit error event")
	}
}

// handleMint handles card mint commands
func handleMint(l logrus.FieldLogger, ctx context.Context, processor cardService.Processor) kafka.Handler[cardMsg.Command[cardMsg.MintBody]] {
	return func(l logrus.FieldLogger, ctx context.Context, cmd cardMsg.Command[cardMsg.MintBody]) {
		if cmd.Type != cardMsg.CommandCardMint {
			return
		}

		l.WithFields(logrus.Fields{
			"actorId": cmd.ActorId,
			"ownerId": cmd.Body.OwnerId,
			"level":   cmd.Body.Level,
		}).Debug("Processing card mint command")

		transactionId := uuid.New()
		m, err := processor.MintAndEmit(transactionId, cmd.ActorId, cmd.Body.OwnerId, cmd.Body.Level)
		if err != nil {
			l.WithError(err).WithFields(logrus.Fields{
				"actorId": cmd.ActorId,
				"ownerId": cmd.Body.OwnerId,
			}).Error("Failed to process card mint")
			emitErrorEvent(l, ctx, 0, cmd.ActorId, err, "card_mint")
			return
		}

		l.WithFields(logrus.Fields{
			"cardId":  m.Id(),
			"ownerId": cmd.Body.OwnerId,
		}).Info("Card mint processed successfully")
	}
}

// handleMintBatch handles card batch mint commands
func handleMintBatch(l logrus.FieldLogger, ctx context.Context, processor cardService.Processor) kafka.Handler[cardMsg.Command[cardMsg.MintBatchBody]] {
	return func(l logrus.FieldLogger, ctx context.Context, cmd cardMsg.Command[cardMsg.MintBatchBody]) {
		if cmd.Type != cardMsg.CommandCardMintBatch {
			return
		}

		l.WithFields(logrus.Fields{
			"actorId": cmd.ActorId,
			"count":   len(cmd.Body.OwnerIds),
		}).Debug("Processing card batch mint command")

		transactionId := uuid.New()
		results, err := processor.MintBatchAndEmit(transactionId, cmd.ActorId, cmd.Body.OwnerIds, cmd.Body.Levels)
		if err != nil {
			l.WithError(err).WithField("actorId", cmd.ActorId).Error("Failed to process card batch mint")
			emitErrorEvent(l, ctx, 0, cmd.ActorId, err, "card_mint_batch")
			return
		}

		l.WithField("count", len(results)).Info("Card batch mint processed successfully")
	}
}

// handleBurn handles card burn commands
func handleBurn(l logrus.FieldLogger, ctx context.Context, processor cardService.Processor) kafka.Handler[cardMsg.Command[cardMsg.BurnBody]] {
	return func(l logrus.FieldLogger, ctx context.Context, cmd cardMsg.Command[cardMsg.BurnBody]) {
		if cmd.Type != cardMsg.CommandCardBurn {
			return
		}

		l.WithFields(logrus.Fields{
			"actorId": cmd.ActorId,
			"cardId":  cmd.Body.CardId,
		}).Debug("Processing card burn command")

		transactionId := uuid.New()
		_, err := processor.BurnAndEmit(transactionId, cmd.ActorId, cmd.Body.CardId)
		if err != nil {
			l.WithError(err).WithFields(logrus.Fields{
				"actorId": cmd.ActorId,
				"cardId":  cmd.Body.CardId,
			}).Error("Failed to process card burn")
			emitErrorEvent(l, ctx, cmd.Body.CardId, cmd.ActorId, err, "card_burn")
			return
		}

		l.WithField("cardId", cmd.Body.CardId).Info("Card burn processed successfully")
	}
}

// handleBurnBatch handles card batch burn commands
func handleBurnBatch(l logrus.FieldLogger, ctx context.Context, processor cardService.Processor) kafka.Handler[cardMsg.Command[cardMsg.BurnBatchBody]] {
	return func(l logrus.FieldLogger, ctx context.Context, cmd cardMsg.Command[cardMsg.BurnBatchBody]) {
		if cmd.Type != cardMsg.CommandCardBurnBatch {
			return
		}

		l.WithFields(logrus.Fields{
			"actorId": cmd.ActorId,
			"count":   len(cmd.Body.CardIds),
		}).Debug("Processing card batch burn command")

		transactionId := uuid.New()
		results, err := processor.BurnBatchAndEmit(transactionId, cmd.ActorId, cmd.Body.CardIds)
		if err != nil {
			l.WithError(err).WithField("actorId", cmd.ActorId).Error("Failed to process card batch burn")
			emitErrorEvent(l, ctx, 0, cmd.ActorId, err, "card_burn_batch")
			return
		}

		l.WithField("count", len(results)).Info("Card batch burn processed successfully")
	}
}

// handleTransferBatch handles card batch transfer commands
func handleTransferBatch(l logrus.FieldLogger, ctx context.Context, processor cardService.Processor) kafka.Handler[cardMsg.Command[cardMsg.TransferBatchBody]] {
	return func(l logrus.FieldLogger, ctx context.Context, cmd cardMsg.Command[cardMsg.TransferBatchBody]) {
		if cmd.Type != cardMsg.CommandCardTransferBatch {
			return
		}

		l.WithFields(logrus.Fields{
			"actorId": cmd.ActorId,
			"fromId":  cmd.Body.FromId,
			"toId":    cmd.Body.ToId,
			"count":   len(cmd.Body.CardIds),
		}).Debug("Processing card batch transfer command")

		transactionId := uuid.New()
		results, err := processor.TransferBatchAndEmit(transactionId, cmd.ActorId, cmd.Body.FromId, cmd.Body.ToId, cmd.Body.CardIds)
		if err != nil {
			l.WithError(err).WithFields(logrus.Fields{
				"actorId": cmd.ActorId,
				"fromId":  cmd.Body.FromId,
				"toId":    cmd.Body.ToId,
			}).Error("Failed to process card batch transfer")
			emitErrorEvent(l, ctx, 0, cmd.ActorId, err, "card_transfer_batch")
			return
		}

		l.WithField("count", len(results)).Info("Card batch transfer processed successfully")
	}
}

// handleUse handles card use commands
func handleUse(l logrus.FieldLogger, ctx context.Context, processor cardService.Processor) kafka.Handler[cardMsg.Command[cardMsg.UseBody]] {
	return func(l logrus.FieldLogger, ctx context.Context, cmd cardMsg.Command[cardMsg.UseBody]) {
		if cmd.Type != cardMsg.CommandCardUse {
			return
		}

		l.WithFields(logrus.Fields{
			"actorId": cmd.ActorId,
			"cardId":  cmd.Body.CardId,
			"count":   cmd.Body.Count,
		}).Debug("Processing card use command")

		transactionId := uuid.New()
		m, err := processor.UseAndEmit(transactionId, cmd.ActorId, cmd.Body.CardId, cmd.Body.Count)
		if err != nil {
			l.WithError(err).WithFields(logrus.Fields{
				"actorId": cmd.ActorId,
				"cardId":  cmd.Body.CardId,
			}).Error("Failed to process card use")
			emitErrorEvent(l, ctx, cmd.Body.CardId, cmd.ActorId, err, "card_use")
			return
		}

		l.WithFields(logrus.Fields{
			"cardId": m.Id(),
			"uses":   m.Uses(),
		}).Info("Card use processed successfully")
	}
}

// handleUseFromHolder handles card use-from-holder commands
func handleUseFromHolder(l logrus.FieldLogger, ctx context.Context, processor cardService.Processor) kafka.Handler[cardMsg.Command[cardMsg.UseFromHolderBody]] {
	return func(l logrus.FieldLogger, ctx context.Context, cmd cardMsg.Command[cardMsg.UseFromHolderBody]) {
		if cmd.Type != cardMsg.CommandCardUseFromHolder {
			return
		}

		l.WithFields(logrus.Fields{
			"actorId": cmd.ActorId,
			"ownerId": cmd.Body.OwnerId,
			"count":   cmd.Body.Count,
		}).Debug("Processing card use-from-holder command")

		transactionId := uuid.New()
		m, err := processor.UseFromHolderAndEmit(transactionId, cmd.ActorId, cmd.Body.OwnerId, cmd.Body.Count)
		if err != nil {
			l.WithError(err).WithFields(logrus.Fields{
				"actorId": cmd.ActorId,
				"ownerId": cmd.Body.OwnerId,
			}).Error("Failed to process card use-from-holder")
			emitErrorEvent(l, ctx, 0, cmd.ActorId, err, "card_use_from_holder")
			return
		}

		l.WithFields(logrus.Fields{
			"ownerId": cmd.Body.OwnerId,
			"cardId":  m.Id(),
			"uses":    m.Uses(),
		}).Info("Card use-from-holder processed successfully")
	}
}

// guardAdmin verifies the actor holds the admin role before an
// administrative command runs
func guardAdmin(l logrus.FieldLogger, ctx context.Context, db *gorm.DB, actorId uint32) bool {
	allowed, err := access.NewProcessor(l, ctx, db).HasCapability(actorId, access.RoleAdmin)
	if err != nil {
		l.WithError(err).Error("Failed to verify admin capability")
		return false
	}
	if !allowed {
		l.WithField("actorId", actorId).Warn("Actor lacks admin capability")
		emitErrorEvent(l, ctx, 0, actorId, cardService.ErrMissingCapability, "card_admin")
	}
	return allowed
}

// handleSetLevelURI handles level URI assignment commands
func handleSetLevelURI(l logrus.FieldLogger, ctx context.Context, db *gorm.DB) kafka.Handler[cardMsg.Command[cardMsg.SetLevelURIBody]] {
	return func(l logrus.FieldLogger, ctx context.Context, cmd cardMsg.Command[cardMsg.SetLevelURIBody]) {
		if cmd.Type != cardMsg.CommandSetLevelURI {
			return
		}
		if !guardAdmin(l, ctx, db, cmd.ActorId) {
			return
		}

		if err := metadata.NewProcessor(l, ctx, db).SetLevelURI(cmd.Body.Level, cmd.Body.URI); err != nil {
			l.WithError(err).WithField("level", cmd.Body.Level).Error("Failed to set level URI")
			emitErrorEvent(l, ctx, 0, cmd.ActorId, err, "card_set_level_uri")
			return
		}

		l.WithField("level", cmd.Body.Level).Info("Level URI set successfully")
	}
}

// handleSetLevelURIs handles bulk level URI assignment commands
func handleSetLevelURIs(l logrus.FieldLogger, ctx context.Context, db *gorm.DB) kafka.Handler[cardMsg.Command[cardMsg.SetLevelURIsBody]] {
	return func(l logrus.FieldLogger, ctx context.Context, cmd cardMsg.Command[cardMsg.SetLevelURIsBody]) {
		if cmd.Type != cardMsg.CommandSetLevelURIs {
			return
		}
		if !guardAdmin(l, ctx, db, cmd.ActorId) {
			return
		}

		if err := metadata.NewProcessor(l, ctx, db).SetLevelURIs(cmd.Body.Levels, cmd.Body.URIs); err != nil {
			l.WithError(err).WithField("count", len(cmd.Body.Levels)).Error("Failed to set level URIs")
			emitErrorEvent(l, ctx, 0, cmd.ActorId, err, "card_set_level_uris")
			return
		}

		l.WithField("count", len(cmd.Body.Levels)).Info("Level URIs set successfully")
	}
}

// handleSetLimits handles limits update commands
func handleSetLimits(l logrus.FieldLogger, ctx context.Context, db *gorm.DB) kafka.Handler[cardMsg.Command[cardMsg.SetLimitsBody]] {
	return func(l logrus.FieldLogger, ctx context.Context, cmd cardMsg.Command[cardMsg.SetLimitsBody]) {
		if cmd.Type != cardMsg.CommandSetLimits {
			return
		}
		if !guardAdmin(l, ctx, db, cmd.ActorId) {
			return
		}

		if err := limits.NewProcessor(l, ctx, db).Set(cmd.Body.MaxUses, cmd.Body.MaxOwns); err != nil {
			l.WithError(err).Error("Failed to set card limits")
			emitErrorEvent(l, ctx, 0, cmd.ActorId, err, "card_set_limits")
			return
		}

		l.WithFields(logrus.Fields{
			"maxUses": cmd.Body.MaxUses,
			"maxOwns": cmd.Body.MaxOwns,
		}).Info("Card limits set successfully")
	}
}

// handleSetHalted handles maintenance flag commands
func handleSetHalted(l logrus.FieldLogger, ctx context.Context, db *gorm.DB) kafka.Handler[cardMsg.Command[cardMsg.SetHaltedBody]] {
	return func(l logrus.FieldLogger, ctx context.Context, cmd cardMsg.Command[cardMsg.SetHaltedBody]) {
		if cmd.Type != cardMsg.CommandSetHalted {
			return
		}
		if !guardAdmin(l, ctx, db, cmd.ActorId) {
			return
		}

		if err := maintenance.NewProcessor(l, ctx, db).SetHalted(cmd.Body.Halted); err != nil {
			l.WithError(err).Error("Failed to set maintenance flag")
			emitErrorEvent(l, ctx, 0, cmd.ActorId, err, "card_set_halted")
			return
		}

		l.WithField("halted", cmd.Body.Halted).Info("Maintenance flag set successfully")
	}
}

// handleGrantRole handles role grant commands
func handleGrantRole(l logrus.FieldLogger, ctx context.Context, db *gorm.DB) kafka.Handler[cardMsg.Command[cardMsg.GrantRoleBody]] {
	return func(l logrus.FieldLogger, ctx context.Context, cmd cardMsg.Command[cardMsg.GrantRoleBody]) {
		if cmd.Type != cardMsg.CommandGrantRole {
			return
		}
		if !guardAdmin(l, ctx, db, cmd.ActorId) {
			return
		}

		if err := access.NewProcessor(l, ctx, db).Grant(cmd.Body.HolderId, cmd.Body.Role); err != nil {
			l.WithError(err).WithFields(logrus.Fields{
				"holderId": cmd.Body.HolderId,
				"role":     cmd.Body.Role,
			}).Error("Failed to grant role")
			emitErrorEvent(l, ctx, 0, cmd.ActorId, err, "card_grant_role")
			return
		}

		l.WithFields(logrus.Fields{
			"holderId": cmd.Body.HolderId,
			"role":     cmd.Body.Role,
		}).Info("Role granted successfully")
	}
}

// handleRevokeRole handles role revoke commands
func handleRevokeRole(l logrus.FieldLogger, ctx context.Context, db *gorm.DB) kafka.Handler[cardMsg.Command[cardMsg.RevokeRoleBody]] {
	return func(l logrus.FieldLogger, ctx context.Context, cmd cardMsg.Command[cardMsg.RevokeRoleBody]) {
		if cmd.Type != cardMsg.CommandRevokeRole {
			return
		}
		if !guardAdmin(l, ctx, db, cmd.ActorId) {
			return
		}

		if err := access.NewProcessor(l, ctx, db).Revoke(cmd.Body.HolderId, cmd.Body.Role); err != nil {
			l.WithError(err).WithFields(logrus.Fields{
				"holderId": cmd.Body.HolderId,
				"role":     cmd.Body.Role,
			}).Error("Failed to revoke role")
			emitErrorEvent(l, ctx, 0, cmd.ActorId, err, "card_revoke_role")
			return
		}

		l.WithFields(logrus.Fields{
			"holderId": cmd.Body.HolderId,
			"role":     cmd.Body.Role,
		}).Info("Role revoked successfully")
	}
}

// InitConsumers initializes the card command consumers
func InitConsumers(l logrus.FieldLogger, ctx context.Context, db *gorm.DB) func(func(config consumer.Config, decorators ...model.Decorator[consumer.Config])) func(consumerGroupId string) {
	return func(rf func(config consumer.Config, decorators ...model.Decorator[consumer.Config])) func(consumerGroupId string) {
		return func(consumerGroupId string) {
			config := NewConfig(l)("card_commands")(cardMsg.EnvCommandTopic)(consumerGroupId)

			rf(config,
				consumer.SetHeaderParsers(consumer.SpanHeaderParser, consumer.TenantHeaderParser),
			)
		}
	}
}
