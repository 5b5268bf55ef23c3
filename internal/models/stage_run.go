package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	StageExtract = "extract"
	StageMatch   = "match"
	StageRates   = "rates"
	StageReview  = "review"
)

const (
	RunStatusPending    = "pending"
	RunStatusProcessing = "processing"
	RunStatusCompleted  = "completed"
	RunStatusFailed     = "failed"
)

// StageRun records one execution of a pipeline stage.
type StageRun struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Stage          string         `gorm:"index" json:"stage"`
	Status         string         `gorm:"index" json:"status"`
	ProcessedCount int            `json:"processed_count"`
	WrittenCount   int            `json:"written_count"`
	SkippedCount   int            `json:"skipped_count"`
	Error          string         `json:"error,omitempty"`
	Details        datatypes.JSON `json:"details"`
	StartedAt      *time.Time     `json:"started_at"`
	CompletedAt    *time.Time     `json:"completed_at"`
	CreatedAt      time.Time      `json:"created_at"`
}

func (StageRun) TableName() string { return "stage_runs" }
