package repository

import (
	"context"

	"gorm.io/gorm"

	"invoice-reconciliation-backend/internal/models"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(
		&models.ReviewRecord{},
		&models.LineItemError{},
		&models.ReviewSkip{},
	)
}

// Replace regenerates the review, error and skip tables.
func (r *ReviewRepository) Replace(ctx context.Context, reviews []models.ReviewRecord, lineErrors []models.LineItemError, skips []models.ReviewSkip) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, m := range []any{&models.ReviewRecord{}, &models.LineItemError{}, &models.ReviewSkip{}} {
			if err := all.Delete(m).Error; err != nil {
				return err
			}
		}
		if len(reviews) > 0 {
			if err := tx.CreateInBatches(&reviews, 200).Error; err != nil {
				return err
			}
		}
		if len(lineErrors) > 0 {
			if err := tx.CreateInBatches(&lineErrors, 200).Error; err != nil {
				return err
			}
		}
		if len(skips) > 0 {
			if err := tx.CreateInBatches(&skips, 200).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ListReviews filters by outcome; status is "passed", "failed" or empty for all.
func (r *ReviewRepository) ListReviews(ctx context.Context, status string) ([]models.ReviewRecord, error) {
	var reviews []models.ReviewRecord
	query := r.db.WithContext(ctx).Order("document_id ASC")
	switch status {
	case "passed":
		query = query.Where("passed = ?", true)
	case "failed":
		query = query.Where("passed = ?", false)
	}
	err := query.Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepository) ListErrors(ctx context.Context) ([]models.LineItemError, error) {
	var errs []models.LineItemError
	err := r.db.WithContext(ctx).Order("id ASC").Find(&errs).Error
	return errs, err
}

func (r *ReviewRepository) ListSkips(ctx context.Context) ([]models.ReviewSkip, error) {
	var skips []models.ReviewSkip
	err := r.db.WithContext(ctx).Order("id ASC").Find(&skips).Error
	return skips, err
}
