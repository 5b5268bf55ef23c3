package extraction

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gorm.io/datatypes"

	"invoice-reconciliation-backend/internal/models"
)

var rePayload = regexp.MustCompile(`(?s)\[--- Decoded QR Payload\(s\) ---\]\s*(\{.*?\})\s*\[`)

var errNoPayload = errors.New("no payload fragment")

const payloadSchemaURL = "payload.schema.json"

// The signed e-invoice payload. Types only; absent members are fine.
const payloadSchemaJSON = `{
  "type": "object",
  "properties": {
    "DocNo":       {"type": "string"},
    "SellerGstin": {"type": "string", "pattern": "^[0-9A-Z]{15}$"},
    "BuyerGstin":  {"type": "string"},
    "DocTyp":      {"type": "string"},
    "DocDt":       {"type": "string"},
    "TotInvVal":   {"type": "number"},
    "ItemCnt":     {"type": "integer", "minimum": 0},
    "MainHsnCode": {"type": ["string", "integer"]},
    "Irn":         {"type": "string"},
    "IrnDt":       {"type": "string"}
  }
}`

var payloadSchema = mustCompilePayloadSchema()

func mustCompilePayloadSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(payloadSchemaURL, strings.NewReader(payloadSchemaJSON)); err != nil {
		panic(err)
	}
	return compiler.MustCompile(payloadSchemaURL)
}

// parsePayload finds the decoded payload in a block and maps its data member.
// It returns errNoPayload when the block carries none, or the JSON error when
// the fragment is malformed.
func parsePayload(block string) (*models.PayloadMeta, error) {
	m := rePayload.FindStringSubmatch(block)
	if m == nil {
		return nil, errNoPayload
	}

	var envelope map[string]any
	if err := json.Unmarshal([]byte(m[1]), &envelope); err != nil {
		return nil, err
	}

	data := map[string]any{}
	switch d := envelope["data"].(type) {
	case map[string]any:
		data = d
	case string:
		var inner map[string]any
		if err := json.Unmarshal([]byte(d), &inner); err == nil {
			data = inner
		}
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	meta := &models.PayloadMeta{
		DocNo:       asString(data["DocNo"]),
		SellerTaxID: asString(data["SellerGstin"]),
		BuyerTaxID:  asString(data["BuyerGstin"]),
		DocTyp:      asString(data["DocTyp"]),
		DocDt:       asString(data["DocDt"]),
		TotInvVal:   asFloat(data["TotInvVal"]),
		ItemCnt:     asInt(data["ItemCnt"]),
		MainHsnCode: asString(data["MainHsnCode"]),
		IRN:         asString(data["Irn"]),
		IrnDt:       asString(data["IrnDt"]),
		SchemaValid: payloadSchema.Validate(any(data)) == nil,
		RawPayload:  datatypes.JSON(raw),
	}
	return meta, nil
}

// seedDocument copies the payload's declared fields onto the document.
func seedDocument(doc *models.Document, meta *models.PayloadMeta) {
	if meta.DocNo != nil {
		doc.DocNo = *meta.DocNo
	}
	if meta.SellerTaxID != nil {
		doc.SellerTaxID = *meta.SellerTaxID
	}
	doc.BuyerTaxID = meta.BuyerTaxID
	doc.DocDt = meta.DocDt
	doc.IRN = meta.IRN
	doc.ItemCnt = meta.ItemCnt
	doc.TotInvVal = meta.TotInvVal
	doc.MainCategoryCode = meta.MainHsnCode
}
