package models

import "time"

type ReviewRecord struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	DocumentID    uint    `gorm:"uniqueIndex;not null" json:"document_id"`
	DocNo         string  `gorm:"index" json:"doc_no"`
	Taxable       float64 `json:"taxable"`
	Rate          int     `json:"rate"`
	CGST          float64 `gorm:"column:cgst" json:"cgst"`
	SGST          float64 `gorm:"column:sgst" json:"sgst"`
	ExpectedTotal float64 `json:"expected_total"`
	DeclaredTotal float64 `json:"declared_total"`
	Diff          float64 `json:"diff"`
	Passed        bool    `gorm:"index" json:"passed"`
}

// LineItemError is recorded for every line whose stored amount disagrees with quantity x rate.
type LineItemError struct {
	ID             uint     `gorm:"primaryKey" json:"id"`
	LineItemID     uint     `gorm:"index" json:"line_item_id"`
	DocNo          string   `gorm:"index" json:"doc_no"`
	SerialNo       *int     `json:"serial_no"`
	Description    string   `json:"description"`
	Quantity       *float64 `json:"quantity"`
	Rate           *float64 `json:"rate"`
	StoredAmount   float64  `json:"stored_amount"`
	ComputedAmount float64  `json:"computed_amount"`
}

// ReviewSkip reports a document that could not be reconciled.
type ReviewSkip struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	DocumentID uint      `gorm:"index" json:"document_id"`
	DocNo      string    `json:"doc_no"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
}

func (ReviewRecord) TableName() string { return "review_records" }

func (LineItemError) TableName() string { return "line_item_errors" }

func (ReviewSkip) TableName() string { return "review_skips" }
