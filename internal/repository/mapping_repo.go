package repository

import (
	"context"

	"gorm.io/gorm"

	"invoice-reconciliation-backend/internal/models"
)

type MappingRepository struct {
	db *gorm.DB
}

func NewMappingRepository(db *gorm.DB) *MappingRepository {
	return &MappingRepository{db: db}
}

func (r *MappingRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&models.MappedItem{}, &models.UnmappedItem{})
}

// Replace regenerates both mapping tables.
func (r *MappingRepository) Replace(ctx context.Context, mapped []models.MappedItem, unmapped []models.UnmappedItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.MappedItem{}).Error; err != nil {
			return err
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.UnmappedItem{}).Error; err != nil {
			return err
		}
		if len(mapped) > 0 {
			if err := tx.CreateInBatches(&mapped, 200).Error; err != nil {
				return err
			}
		}
		if len(unmapped) > 0 {
			if err := tx.CreateInBatches(&unmapped, 200).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *MappingRepository) ListMapped(ctx context.Context) ([]models.MappedItem, error) {
	var items []models.MappedItem
	err := r.db.WithContext(ctx).Order("id ASC").Find(&items).Error
	return items, err
}

func (r *MappingRepository) ListUnmapped(ctx context.Context) ([]models.UnmappedItem, error) {
	var items []models.UnmappedItem
	err := r.db.WithContext(ctx).Order("id ASC").Find(&items).Error
	return items, err
}
