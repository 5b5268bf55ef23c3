package models

// LineItem is one reconstructed invoice row. Position is its order within the document.
type LineItem struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	DocumentID   uint     `gorm:"uniqueIndex:idx_line_item_position;not null" json:"document_id"`
	DocNo        string   `gorm:"index" json:"doc_no"`
	Position     int      `gorm:"uniqueIndex:idx_line_item_position" json:"position"`
	SerialNo     *int     `json:"serial_no"`
	Description  string   `json:"description"`
	CategoryCode string   `json:"category_code"`
	Quantity     *float64 `json:"quantity"`
	Unit         string   `json:"unit"`
	Rate         *float64 `json:"rate"`
	Amount       *float64 `json:"amount"`
	Category     *string  `json:"category"`
}

// ComputedAmount is Quantity x Rate when both are known.
func (l *LineItem) ComputedAmount() *float64 {
	if l.Quantity == nil || l.Rate == nil {
		return nil
	}
	v := *l.Quantity * *l.Rate
	return &v
}

func (LineItem) TableName() string { return "line_items" }
