package repository

import (
	"context"

	"gorm.io/gorm"

	"invoice-reconciliation-backend/internal/models"
)

type RateRepository struct {
	db *gorm.DB
}

func NewRateRepository(db *gorm.DB) *RateRepository {
	return &RateRepository{db: db}
}

func (r *RateRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&models.RateRecord{})
}

// Replace regenerates the rate table.
func (r *RateRepository) Replace(ctx context.Context, records []models.RateRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.RateRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.Create(&records).Error
	})
}

// ByCategoryCode returns all rate records keyed by category code.
func (r *RateRepository) ByCategoryCode(ctx context.Context) (map[string]models.RateRecord, error) {
	var records []models.RateRecord
	if err := r.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, err
	}
	out := make(map[string]models.RateRecord, len(records))
	for _, rec := range records {
		out[rec.CategoryCode] = rec
	}
	return out, nil
}

func (r *RateRepository) List(ctx context.Context) ([]models.RateRecord, error) {
	var records []models.RateRecord
	err := r.db.WithContext(ctx).Order("category_code ASC").Find(&records).Error
	return records, err
}
