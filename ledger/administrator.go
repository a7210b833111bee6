package ledger

import (
	"time"

	"github.com/Chronicle20/atlas-model/model"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CreateOwnership creates a new ownership record in the database
func CreateOwnership(db *gorm.DB, log logrus.FieldLogger) func(cardId, ownerId uint32, tenantId uuid.UUID) model.Provider[Entity] {
	return func(cardId, ownerId uint32, tenantId uuid.UUID) model.Provider[Entity] {
		return func() (Entity, error) {
			log.WithFields(logrus.Fields{
				"cardId":   cardId,
				"ownerId":  ownerId,
				"tenantId": tenantId,
			}).Debug("Creating ownership entity")

			now := time.Now()
			entity := Entity{
				CardId:    cardId,
				OwnerId:   ownerId,
				TenantId:  tenantId,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := db.Create(&entity).Error; err != nil {
				return Entity{}, err
			}
			return entity, nil
		}
	}
}

// UpdateOwnershipOwner moves an ownership record to a new owner
func UpdateOwnershipOwner(db *gorm.DB, log logrus.FieldLogger) func(cardId, ownerId uint32, tenantId uuid.UUID) model.Provider[Entity] {
	return func(cardId, ownerId uint32, tenantId uuid.UUID) model.Provider[Entity] {
		return func() (Entity, error) {
			log.WithFields(logrus.Fields{
				"cardId":  cardId,
				"ownerId": ownerId,
			}).Debug("Updating ownership entity")

			var entity Entity
			if err := db.Where("card_id = ? AND tenant_id = ?", cardId, tenantId).First(&entity).Error; err != nil {
				return Entity{}, err
			}
			entity.OwnerId = ownerId
			if err := db.Save(&entity).Error; err != nil {
				return Entity{}, err
			}
			return entity, nil
		}
	}
}

// DeleteOwnership removes the ownership record for a card
func DeleteOwnership(db *gorm.DB, log logrus.FieldLogger) func(cardId uint32, tenantId uuid.UUID) error {
	return func(cardId uint32, tenantId uuid.UUID) error {
		log.WithField("cardId", cardId).Debug("Deleting ownership entity")
		return db.Where("card_id = ? AND tenant_id = ?", cardId, tenantId).Delete(&Entity{}).Error
	}
}

// SetApproval records the single approved character for a card, replacing any
// previous approval
func SetApproval(db *gorm.DB, log logrus.FieldLogger) func(cardId, approvedId uint32, tenantId uuid.UUID) error {
	return func(cardId, approvedId uint32, tenantId uuid.UUID) error {
		if err := db.Where("card_id = ? AND tenant_id = ?", cardId, tenantId).Delete(&ApprovalEntity{}).Error; err != nil {
			return err
		}
		if approvedId == 0 {
			return nil
		}
		now := time.Now()
		return db.Create(&ApprovalEntity{
			CardId:     cardId,
			ApprovedId: approvedId,
			TenantId:   tenantId,
			CreatedAt:  now,
			UpdatedAt:  now,
		}).Error
	}
}

// ClearApproval removes the approval record for a card
func ClearApproval(db *gorm.DB, log logrus.FieldLogger) func(cardId uint32, tenantId uuid.UUID) error {
	return func(cardId uint32, tenantId uuid.UUID) error {
		return db.Where("card_id = ? AND tenant_id = ?", cardId, tenantId).Delete(&ApprovalEntity{}).Error
	}
}

// SetOperator records or removes a blanket operator approval between an owner
// and an operator
func SetOperator(db *gorm.DB, log logrus.FieldLogger) func(ownerId, operatorId uint32, approved bool, tenantId uuid.UUID) error {
	return func(ownerId, operatorId uint32, approved bool, tenantId uuid.UUID) error {
		if !approved {
			return db.Where("owner_id = ? AND operator_id = ? AND tenant_id = ?", ownerId, operatorId, tenantId).
				Delete(&OperatorEntity{}).Error
		}
		existing, err := GetOperatorProvider(db, log)(ownerId, operatorId, tenantId)()
		if err != nil {
			return err
		}
		if existing != nil {
			return nil
		}
		now := time.Now()
		return db.Create(&OperatorEntity{
			OwnerId:    ownerId,
			OperatorId: operatorId,
			TenantId:   tenantId,
			CreatedAt:  now,
			UpdatedAt:  now,
		}).Error
	}
}
