package models

// NotFound marks catalog fields of an unmatched line item.
const NotFound = "NOT FOUND"

// CatalogEntry is one row of the product master. It is never persisted.
type CatalogEntry struct {
	ModelNo      string
	ProductName  string
	SKU          string
	CategoryCode string
	StandardRate *float64
}

type MappedItem struct {
	ID                 uint     `gorm:"primaryKey" json:"id"`
	LineItemID         uint     `gorm:"index" json:"line_item_id"`
	DocNo              string   `gorm:"index" json:"doc_no"`
	SerialNo           *int     `json:"serial_no"`
	Description        string   `json:"description"`
	CategoryCode       string   `json:"category_code"`
	Quantity           *float64 `json:"quantity"`
	Unit               string   `json:"unit"`
	Rate               *float64 `json:"rate"`
	Amount             *float64 `json:"amount"`
	MappedModel        string   `json:"mapped_model"`
	MappedProductName  string   `json:"mapped_product_name"`
	MappedSKU          string   `gorm:"column:mapped_sku" json:"mapped_sku"`
	MappedCategoryCode string   `json:"mapped_category_code"`
	StandardRate       *float64 `json:"standard_rate"`
	Found              bool     `json:"found"`
	RateMatch          bool     `json:"rate_match"`
}

type UnmappedItem struct {
	ID              uint     `gorm:"primaryKey" json:"id"`
	LineItemID      uint     `gorm:"index" json:"line_item_id"`
	DocNo           string   `gorm:"index" json:"doc_no"`
	SerialNo        *int     `json:"serial_no"`
	Description     string   `json:"description"`
	CategoryCode    string   `json:"category_code"`
	Quantity        *float64 `json:"quantity"`
	Unit            string   `json:"unit"`
	Rate            *float64 `json:"rate"`
	Amount          *float64 `json:"amount"`
	NormalizedModel string   `json:"normalized_model"`
}

func (MappedItem) TableName() string { return "mapped_items" }

func (UnmappedItem) TableName() string { return "unmapped_items" }
