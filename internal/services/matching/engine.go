package matching

import (
	"regexp"
	"strings"

	"invoice-reconciliation-backend/internal/models"
)

var (
	reModelLabel = regexp.MustCompile(`\bMODEL\s+NO\b\.?\s*:?`)
	reEmbedCode  = regexp.MustCompile(`\(\d+\)`)
	reSpaces     = regexp.MustCompile(`\s+`)
)

// Normalize reduces a description or model number to its catalog key.
func Normalize(text string) string {
	n := strings.ToUpper(text)
	n = reModelLabel.ReplaceAllString(n, "")
	n = reEmbedCode.ReplaceAllString(n, "")
	n = reSpaces.ReplaceAllString(n, " ")
	return strings.TrimSpace(n)
}

// Match looks the item's normalized description up in the catalog. A miss
// yields a NOT FOUND mapped row plus an unmapped row carrying the key.
func Match(item models.LineItem, catalog Catalog) (models.MappedItem, *models.UnmappedItem) {
	key := Normalize(item.Description)

	mapped := models.MappedItem{
		LineItemID:   item.ID,
		DocNo:        item.DocNo,
		SerialNo:     item.SerialNo,
		Description:  item.Description,
		CategoryCode: item.CategoryCode,
		Quantity:     item.Quantity,
		Unit:         item.Unit,
		Rate:         item.Rate,
		Amount:       item.Amount,
		MappedModel:  key,
	}

	entry, ok := catalog[key]
	if !ok {
		mapped.MappedProductName = models.NotFound
		mapped.MappedSKU = models.NotFound
		mapped.MappedCategoryCode = models.NotFound
		return mapped, &models.UnmappedItem{
			LineItemID:      item.ID,
			DocNo:           item.DocNo,
			SerialNo:        item.SerialNo,
			Description:     item.Description,
			CategoryCode:    item.CategoryCode,
			Quantity:        item.Quantity,
			Unit:            item.Unit,
			Rate:            item.Rate,
			Amount:          item.Amount,
			NormalizedModel: key,
		}
	}

	mapped.Found = true
	mapped.MappedProductName = entry.ProductName
	mapped.MappedSKU = entry.SKU
	mapped.MappedCategoryCode = entry.CategoryCode
	mapped.StandardRate = entry.StandardRate
	// exact comparison, no tolerance
	mapped.RateMatch = item.Rate != nil && entry.StandardRate != nil && *item.Rate == *entry.StandardRate
	return mapped, nil
}
