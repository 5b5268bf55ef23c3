package models

// RateRecord is the resolved GST rate of one category code.
type RateRecord struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	CategoryCode string   `gorm:"uniqueIndex;not null" json:"category_code"`
	Rate         *int     `json:"rate"`
	CGSTRate     *float64 `gorm:"column:cgst_rate" json:"cgst_rate"`
	SGSTRate     *float64 `gorm:"column:sgst_rate" json:"sgst_rate"`
	Description  *string  `json:"description"`
	Source       string   `json:"source"`
}

func (RateRecord) TableName() string { return "rate_records" }
