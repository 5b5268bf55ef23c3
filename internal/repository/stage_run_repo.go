package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"invoice-reconciliation-backend/internal/models"
)

type StageRunRepository struct {
	db *gorm.DB
}

func NewStageRunRepository(db *gorm.DB) *StageRunRepository {
	return &StageRunRepository{db: db}
}

func (r *StageRunRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&models.StageRun{})
}

// Create records a run that has been accepted but not started.
func (r *StageRunRepository) Create(ctx context.Context, stage string) (*models.StageRun, error) {
	run := &models.StageRun{
		ID:        uuid.New(),
		Stage:     stage,
		Status:    models.RunStatusPending,
		CreatedAt: time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

// Start moves a run into processing state.
func (r *StageRunRepository) Start(ctx context.Context, run *models.StageRun) error {
	now := time.Now()
	run.Status = models.RunStatusProcessing
	run.StartedAt = &now
	return r.db.WithContext(ctx).Save(run).Error
}

// Complete marks the run finished with its counters and details.
func (r *StageRunRepository) Complete(ctx context.Context, run *models.StageRun, processed, written, skipped int, details any) error {
	detailsJSON, _ := json.Marshal(details)
	now := time.Now()
	run.Status = models.RunStatusCompleted
	run.ProcessedCount = processed
	run.WrittenCount = written
	run.SkippedCount = skipped
	run.Details = detailsJSON
	run.CompletedAt = &now
	return r.db.WithContext(ctx).Save(run).Error
}

func (r *StageRunRepository) Fail(ctx context.Context, run *models.StageRun, cause error) error {
	now := time.Now()
	run.Status = models.RunStatusFailed
	run.Error = cause.Error()
	run.CompletedAt = &now
	return r.db.WithContext(ctx).Save(run).Error
}

func (r *StageRunRepository) Get(ctx context.Context, id uuid.UUID) (*models.StageRun, error) {
	var run models.StageRun
	if err := r.db.WithContext(ctx).First(&run, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *StageRunRepository) ListRecent(ctx context.Context, limit int) ([]models.StageRun, error) {
	var runs []models.StageRun
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&runs).Error
	return runs, err
}
