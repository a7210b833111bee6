package card

import (
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AllocateIds reserves a contiguous block of card identifiers for a tenant
// and returns the first identifier of the block. Identifiers start at 1 and
// the sequence never reuses a reserved identifier.
func AllocateIds(db *gorm.DB, log logrus.FieldLogger) func(count uint32, tenantId uuid.UUID) (uint32, error) {
	return func(count uint32, tenantId uuid.UUID) (uint32, error) {
		var firstId uint32
		err := db.Transaction(func(tx *gorm.DB) error {
			var seq SequenceEntity
			err := tx.Where("tenant_id = ?", tenantId).First(&seq).Error
			if err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
				seq = SequenceEntity{TenantId: tenantId, NextId: 1}
				if err = tx.Create(&seq).Error; err != nil {
					return err
				}
			}
			firstId = seq.NextId
			seq.NextId += count
			return tx.Save(&seq).Error
		})
		if err != nil {
			return 0, err
		}
		log.WithFields(logrus.Fields{
			"firstId": firstId,
			"count":   count,
		}).Debug("Reserved card identifier block")
		return firstId, nil
	}
}
