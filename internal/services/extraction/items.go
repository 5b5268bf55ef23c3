package extraction

import (
	"regexp"
	"strconv"
	"strings"

	"invoice-reconciliation-backend/internal/models"
)

var (
	reItemsRegion = regexp.MustCompile("(?s)S\\.N.*?Amount\\(`\\s*\\)\\s*\\n(.*?)(?:Add\\s*: CGST|HSN/SAC\\s+Tax Rate|VALIDATION:)")
	reQtyLine     = regexp.MustCompile(`^[\d,.]+\s+(SET|Pcs\.|KG|Units?)`)
	reQtyUnit     = regexp.MustCompile(`^([\d,.]+)\s+(\S+)`)
	reCategory    = regexp.MustCompile(`^\d{8}$`)
	reSerial      = regexp.MustCompile(`^(\d+)\.`)
)

// itemsRegion narrows the block to the line-item table when its header and
// footer are present; otherwise the block up to its validation line is used.
func itemsRegion(block string) string {
	if m := reItemsRegion.FindStringSubmatch(block); m != nil {
		return m[1]
	}
	if idx := strings.LastIndex(block, ValidationToken); idx >= 0 {
		return block[:idx]
	}
	return block
}

func nonBlankLines(text string) []string {
	var out []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// reconstructItems rebuilds line items from the window around each
// quantity+unit line:
//
//	i-3  optional "N." serial
//	i-2  description
//	i-1  8-digit category code (required)
//	i    quantity unit
//	i+1  rate
//	i+2  amount
func reconstructItems(block string) []models.LineItem {
	lines := nonBlankLines(itemsRegion(block))

	var items []models.LineItem
	for i := range lines {
		if !reQtyLine.MatchString(lines[i]) {
			continue
		}
		if i < 2 || i+2 >= len(lines) {
			continue
		}
		desc, code := lines[i-2], lines[i-1]
		if !reCategory.MatchString(code) || reQtyLine.MatchString(desc) {
			continue
		}

		qu := reQtyUnit.FindStringSubmatch(lines[i])
		if qu == nil {
			continue
		}
		rate := parseNumber(lines[i+1])
		amount := parseNumber(lines[i+2])
		if rate == nil && amount == nil {
			continue
		}

		item := models.LineItem{
			Position:     len(items) + 1,
			Description:  desc,
			CategoryCode: code,
			Quantity:     parseNumber(qu[1]),
			Unit:         qu[2],
			Rate:         rate,
			Amount:       amount,
		}
		if i >= 3 {
			if sm := reSerial.FindStringSubmatch(lines[i-3]); sm != nil {
				if n, err := strconv.Atoi(sm[1]); err == nil {
					item.SerialNo = &n
				}
			}
		}
		items = append(items, item)
	}
	return items
}
