package card

import (
	"errors"

	"github.com/Chronicle20/atlas-model/model"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// GetByIdProvider retrieves a card's recorded state by identifier
func GetByIdProvider(db *gorm.DB, log logrus.FieldLogger) func(cardId uint32, tenantId uuid.UUID) model.Provider[Model] {
	return func(cardId uint32, tenantId uuid.UUID) model.Provider[Model] {
		return func() (Model, error) {
			var entity Entity
			err := db.Where("card_id = ? AND tenant_id = ?", cardId, tenantId).First(&entity).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return Model{}, ErrNotExists
				}
				return Model{}, err
			}
			return Make(entity)
		}
	}
}

// GetByIdsProvider retrieves the recorded state for a set of cards. The
// result order follows the input order; identifiers without a record are
// skipped.
func GetByIdsProvider(db *gorm.DB, log logrus.FieldLogger) func(cardIds []uint32, tenantId uuid.UUID) model.Provider[[]Model] {
	return func(cardIds []uint32, tenantId uuid.UUID) model.Provider[[]Model] {
		return func() ([]Model, error) {
			if len(cardIds) == 0 {
				return []Model{}, nil
			}
			var entities []Entity
			err := db.Where("card_id IN ? AND tenant_id = ?", cardIds, tenantId).Find(&entities).Error
			if err != nil {
				return nil, err
			}
			byId := make(map[uint32]Entity, len(entities))
			for _, e := range entities {
				byId[e.CardId] = e
			}
			results := make([]Model, 0, len(cardIds))
			for _, id := range cardIds {
				entity, ok := byId[id]
				if !ok {
					continue
				}
				m, err := Make(entity)
				if err != nil {
					return nil, err
				}
				results = append(results, m)
			}
			return results, nil
		}
	}
}
