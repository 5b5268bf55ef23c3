package models

import "gorm.io/datatypes"

// PayloadMeta is the decoded embedded payload of a document, kept as the independent ground truth.
type PayloadMeta struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	DocumentID  uint           `gorm:"uniqueIndex;not null" json:"document_id"`
	DocNo       *string        `json:"doc_no"`
	SellerTaxID *string        `json:"seller_tax_id"`
	BuyerTaxID  *string        `json:"buyer_tax_id"`
	DocTyp      *string        `json:"doc_typ"`
	DocDt       *string        `json:"doc_dt"`
	TotInvVal   *float64       `json:"tot_inv_val"`
	ItemCnt     *int           `json:"item_cnt"`
	MainHsnCode *string        `json:"main_hsn_code"`
	IRN         *string        `gorm:"column:irn" json:"irn"`
	IrnDt       *string        `json:"irn_dt"`
	SchemaValid bool           `json:"schema_valid"`
	RawPayload  datatypes.JSON `json:"raw_payload"`
}

func (PayloadMeta) TableName() string { return "payload_metas" }
