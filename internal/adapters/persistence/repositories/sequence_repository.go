package repositories

import (
	"context"
	"fmt"
	"strings"

	"tabitha-home/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// sequenceRepository implements SequenceRepository interface
type sequenceRepository struct {
	db *gorm.DB
}

// NewSequenceRepository creates a new sequence repository
func NewSequenceRepository(db *gorm.DB) SequenceRepository {
	return &sequenceRepository{db: db}
}

// NextID atomically bumps the counter for (entityType, year) and returns
// the formatted identifier, e.g. TH-2026-014. The increment is a single
// in-place UPDATE inside a transaction, so two concurrent callers can
// never observe the same value.
func (r *sequenceRepository) NextID(ctx context.Context, entityType, prefix string, year int) (string, error) {
	var value int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Sequence{}).
			Where("entity_type = ? AND year = ?", entityType, year).
			UpdateColumn("value", gorm.Expr("value + 1"))
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			// First identifier of the year. A concurrent insert may win the
			// unique index race; fall back to the UPDATE path if it does.
			seq := models.Sequence{EntityType: entityType, Year: year, Value: 1}
			if err := tx.Create(&seq).Error; err != nil {
				if !isDuplicateKey(err) {
					return err
				}
				res = tx.Model(&models.Sequence{}).
					Where("entity_type = ? AND year = ?", entityType, year).
					UpdateColumn("value", gorm.Expr("value + 1"))
				if res.Error != nil {
					return res.Error
				}
			}
		}

		var seq models.Sequence
		if err := tx.Where("entity_type = ? AND year = ?", entityType, year).First(&seq).Error; err != nil {
			return err
		}
		value = seq.Value
		return nil
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%d-%03d", prefix, year, value), nil
}

// isDuplicateKey matches unique constraint violations across the MySQL
// and sqlite drivers without importing either error type.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
