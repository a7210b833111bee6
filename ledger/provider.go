package ledger

import (
	"errors"

	"github.com/Chronicle20/atlas-model/model"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// GetOwnershipByCardProvider retrieves the ownership record for a card
func GetOwnershipByCardProvider(db *gorm.DB, log logrus.FieldLogger) func(cardId uint32, tenantId uuid.UUID) model.Provider[*Entity] {
	return func(cardId uint32, tenantId uuid.UUID) model.Provider[*Entity] {
		return func() (*Entity, error) {
			var entity Entity
			err := db.Where("card_id = ? AND tenant_id = ?", cardId, tenantId).First(&entity).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, nil
				}
				return nil, err
			}
			return &entity, nil
		}
	}
}

// GetOwnershipsByOwnerProvider retrieves the ownership records held by a
// character, ordered by card identifier ascending. This ordering is the
// enumeration order observed by index accessors and first-fit selection.
func GetOwnershipsByOwnerProvider(db *gorm.DB, log logrus.FieldLogger) func(ownerId uint32, tenantId uuid.UUID) model.Provider[[]Entity] {
	return func(ownerId uint32, tenantId uuid.UUID) model.Provider[[]Entity] {
		return func() ([]Entity, error) {
			var entities []Entity
			err := db.Where("owner_id = ? AND tenant_id = ?", ownerId, tenantId).
				Order("card_id ASC").
				Find(&entities).Error
			if err != nil {
				return nil, err
			}
			return entities, nil
		}
	}
}

// CountByOwnerProvider retrieves the number of cards held by a character
func CountByOwnerProvider(db *gorm.DB, log logrus.FieldLogger) func(ownerId uint32, tenantId uuid.UUID) model.Provider[int64] {
	return func(ownerId uint32, tenantId uuid.UUID) model.Provider[int64] {
		return func() (int64, error) {
			var count int64
			err := db.Model(&Entity{}).
				Where("owner_id = ? AND tenant_id = ?", ownerId, tenantId).
				Count(&count).Error
			if err != nil {
				return 0, err
			}
			return count, nil
		}
	}
}

// GetApprovalByCardProvider retrieves the approval record for a card
func GetApprovalByCardProvider(db *gorm.DB, log logrus.FieldLogger) func(cardId uint32, tenantId uuid.UUID) model.Provider[*ApprovalEntity] {
	return func(cardId uint32, tenantId uuid.UUID) model.Provider[*ApprovalEntity] {
		return func() (*ApprovalEntity, error) {
			var entity ApprovalEntity
			err := db.Where("card_id = ? AND tenant_id = ?", cardId, tenantId).First(&entity).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, nil
				}
				return nil, err
			}
			return &entity, nil
		}
	}
}

// GetOperatorProvider retrieves the blanket operator record between an owner
// and an operator
func GetOperatorProvider(db *gorm.DB, log logrus.FieldLogger) func(ownerId, operatorId uint32, tenantId uuid.UUID) model.Provider[*OperatorEntity] {
	return func(ownerId, operatorId uint32, tenantId uuid.UUID) model.Provider[*OperatorEntity] {
		return func() (*OperatorEntity, error) {
			var entity OperatorEntity
			err := db.Where("owner_id = ? AND operator_id = ? AND tenant_id = ?", ownerId, operatorId, tenantId).
				First(&entity).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, nil
				}
				return nil, err
			}
			return &entity, nil
		}
	}
}
