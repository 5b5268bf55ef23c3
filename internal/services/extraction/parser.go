package extraction

import (
	"errors"
	"strings"

	"invoice-reconciliation-backend/internal/models"
)

// Extracted is everything recovered from one block.
type Extracted struct {
	Document models.Document
	Items    []models.LineItem
	Payload  *models.PayloadMeta

	// PayloadErr is set when a payload fragment was present but unreadable.
	PayloadErr error
}

// ParseBlock runs every extraction pass over one block. A pass that finds
// nothing leaves its fields nil; no pass can fail the block.
func ParseBlock(block string) Extracted {
	var ex Extracted

	meta, err := parsePayload(block)
	switch {
	case err == nil:
		ex.Payload = meta
		seedDocument(&ex.Document, meta)
	case !errors.Is(err, errNoPayload):
		ex.PayloadErr = err
	}

	applyHeaderRules(&ex.Document, block)
	ex.Document.VendorName = vendorName(strings.Split(block, "\n"))

	if code := applyTaxTotals(&ex.Document, block); code != "" && ex.Document.MainCategoryCode == nil {
		ex.Document.MainCategoryCode = &code
	}

	ex.Items = reconstructItems(block)
	return ex
}
