package models

import (
	"time"
)

// Document is one invoice header. (SellerTaxID, DocNo) is unique across the store.
type Document struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	DocNo            string    `gorm:"uniqueIndex:idx_document_key;not null" json:"doc_no"`
	DocDt            *string   `json:"doc_dt"`
	SellerTaxID      string    `gorm:"uniqueIndex:idx_document_key;not null" json:"seller_tax_id"`
	BuyerTaxID       *string   `json:"buyer_tax_id"`
	IRN              *string   `gorm:"column:irn" json:"irn"`
	AckNo            *string   `json:"ack_no"`
	EWayBill         *string   `gorm:"column:eway_bill" json:"eway_bill"`
	PlaceOfSupply    *string   `json:"place_of_supply"`
	Transport        *string   `json:"transport"`
	VehicleNo        *string   `json:"vehicle_no"`
	ItemCnt          *int      `json:"item_cnt"`
	TotInvVal        *float64  `json:"tot_inv_val"`
	TaxableAmount    *float64  `json:"taxable_amount"`
	CGSTAmount       *float64  `gorm:"column:cgst_amount" json:"cgst_amount"`
	SGSTAmount       *float64  `gorm:"column:sgst_amount" json:"sgst_amount"`
	TotalTax         *float64  `json:"total_tax"`
	VendorName       *string   `json:"vendor_name"`
	ValidationFlag   *string   `json:"validation_flag"`
	MainCategoryCode *string   `gorm:"index" json:"main_category_code"`
	CreatedAt        time.Time `json:"created_at"`

	LineItems []LineItem `gorm:"constraint:OnDelete:CASCADE" json:"line_items,omitempty"`
}

// CompositeKey is the de-duplication identity.
func (d *Document) CompositeKey() string {
	return CompositeKey(d.SellerTaxID, d.DocNo)
}

func CompositeKey(sellerTaxID, docNo string) string {
	return sellerTaxID + "_" + docNo
}

func (Document) TableName() string { return "documents" }
