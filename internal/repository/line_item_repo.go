package repository

import (
	"context"

	"gorm.io/gorm"

	"invoice-reconciliation-backend/internal/models"
)

type LineItemRepository struct {
	db *gorm.DB
}

func NewLineItemRepository(db *gorm.DB) *LineItemRepository {
	return &LineItemRepository{db: db}
}

// ListAll returns every line item in document, then position, order.
func (r *LineItemRepository) ListAll(ctx context.Context) ([]models.LineItem, error) {
	var items []models.LineItem
	err := r.db.WithContext(ctx).Order("document_id ASC, position ASC").Find(&items).Error
	return items, err
}

func (r *LineItemRepository) ListByDocument(ctx context.Context, documentID uint) ([]models.LineItem, error) {
	var items []models.LineItem
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("position ASC").
		Find(&items).Error
	return items, err
}

// SetCategories back-fills the category label per document in one transaction.
func (r *LineItemRepository) SetCategories(ctx context.Context, byDocument map[uint]string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for docID, label := range byDocument {
			err := tx.Model(&models.LineItem{}).
				Where("document_id = ?", docID).
				Update("category", label).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *LineItemRepository) DB() *gorm.DB {
	return r.db
}
