package card

import (
	"time"

	"github.com/Chronicle20/atlas-model/model"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CreateCard creates a new card record with a zero use count
func CreateCard(db *gorm.DB, log logrus.FieldLogger) func(cardId uint32, level uint32, tenantId uuid.UUID) model.Provider[Entity] {
	return func(cardId uint32, level uint32, tenantId uuid.UUID) model.Provider[Entity] {
		return func() (Entity, error) {
			log.WithFields(logrus.Fields{
				"cardId":   cardId,
				"level":    level,
				"tenantId": tenantId,
			}).Debug("Creating card entity")

			now := time.Now()
			entity := Entity{
				CardId:    cardId,
				Uses:      0,
				Level:     level,
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

// UpdateCardUses replaces the accumulated use count of a card
func UpdateCardUses(db *gorm.DB, log logrus.FieldLogger) func(cardId uint32, uses uint64, tenantId uuid.UUID) model.Provider[Entity] {
	return func(cardId uint32, uses uint64, tenantId uuid.UUID) model.Provider[Entity] {
		return func() (Entity, error) {
			log.WithFields(logrus.Fields{
				"cardId": cardId,
				"uses":   uses,
			}).Debug("Updating card use count")

			var entity Entity
			if err := db.Where("card_id = ? AND tenant_id = ?", cardId, tenantId).First(&entity).Error; err != nil {
				return Entity{}, err
			}
			entity.Uses = uses
			entity.UpdatedAt = time.Now()
			if err := db.Save(&entity).Error; err != nil {
				return Entity{}, err
			}
			return entity, nil
		}
	}
}

// DeleteCard removes a card record
func DeleteCard(db *gorm.DB, log logrus.FieldLogger) func(cardId uint32, tenantId uuid.UUID) error {
	return func(cardId uint32, tenantId uuid.UUID) error {
		log.WithField("cardId", cardId).Debug("Deleting card entity")
		return db.Where("card_id = ? AND tenant_id = ?", cardId, tenantId).Delete(&Entity{}).Error
	}
}
