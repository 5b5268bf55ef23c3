package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"invoice-reconciliation-backend/internal/models"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Expose DB if needed
func (r *DocumentRepository) DB() *gorm.DB {
	return r.db
}

// Migrate creates the tables owned by the extraction stage.
func (r *DocumentRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(
		&models.Document{},
		&models.LineItem{},
		&models.PayloadMeta{},
	)
}

// Exists looks a document up by its composite key.
func (r *DocumentRepository) Exists(ctx context.Context, sellerTaxID, docNo string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Document{}).
		Where("seller_tax_id = ? AND doc_no = ?", sellerTaxID, docNo).
		Count(&count).Error
	return count > 0, err
}

// ExistingKeys returns every composite key already stored.
func (r *DocumentRepository) ExistingKeys(ctx context.Context) (map[string]struct{}, error) {
	var docs []models.Document
	err := r.db.WithContext(ctx).Select("seller_tax_id", "doc_no").Find(&docs).Error
	if err != nil {
		return nil, err
	}
	keys := make(map[string]struct{}, len(docs))
	for i := range docs {
		keys[docs[i].CompositeKey()] = struct{}{}
	}
	return keys, nil
}

// CreateWithItems inserts a document, its line items and its payload metadata
// as one unit. It returns false when the composite key already exists.
func (r *DocumentRepository) CreateWithItems(ctx context.Context, doc *models.Document, items []models.LineItem, payload *models.PayloadMeta) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Omit(clause.Associations).Create(doc)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		created = true

		for i := range items {
			items[i].DocumentID = doc.ID
			items[i].DocNo = doc.DocNo
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		if payload != nil {
			payload.DocumentID = doc.ID
			if err := tx.Create(payload).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (r *DocumentRepository) List(ctx context.Context) ([]models.Document, error) {
	var docs []models.Document
	err := r.db.WithContext(ctx).Order("id ASC").Find(&docs).Error
	return docs, err
}

// GetByID fetch a single document by ID
func (r *DocumentRepository) GetByID(ctx context.Context, id uint) (*models.Document, error) {
	var doc models.Document
	err := r.db.WithContext(ctx).Preload("LineItems", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&doc, id).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Table reads the documents table with its column names, for header-driven lookups.
func (r *DocumentRepository) Table(ctx context.Context) (TableSnapshot, error) {
	return readTable(ctx, r.db, &models.Document{})
}

func (r *DocumentRepository) ListPayloads(ctx context.Context) ([]models.PayloadMeta, error) {
	var metas []models.PayloadMeta
	err := r.db.WithContext(ctx).Order("document_id ASC").Find(&metas).Error
	return metas, err
}
