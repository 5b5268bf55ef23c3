package extraction

import (
	"regexp"
	"strings"

	"invoice-reconciliation-backend/internal/models"
)

type headerRule struct {
	label   string
	pattern *regexp.Regexp
	apply   func(doc *models.Document, value *string)
}

// headerRules run in order, each independently; the first match of a rule wins.
var headerRules = []headerRule{
	{"AckNo", regexp.MustCompile(`Ack\.No\.\s*:\s*(\d+)`), func(d *models.Document, v *string) { d.AckNo = v }},
	{"EWayBill", regexp.MustCompile(`E-Way Bill No\.\s*:\s*(\S+)`), func(d *models.Document, v *string) { d.EWayBill = v }},
	{"PlaceOfSupply", regexp.MustCompile(`Place of Supply\s*:[ \t]*(.*)`), func(d *models.Document, v *string) { d.PlaceOfSupply = v }},
	{"VehicleNo", regexp.MustCompile(`Vehicle No\.\s*:\s*(\S+)`), func(d *models.Document, v *string) { d.VehicleNo = v }},
	{"Transport", regexp.MustCompile(`Transport\s*:\s*(\S+)`), func(d *models.Document, v *string) { d.Transport = v }},
	{"ValidationFlag", regexp.MustCompile(`(VALIDATION:.*)`), func(d *models.Document, v *string) { d.ValidationFlag = v }},
}

// Used only when the payload did not supply the composite key.
var (
	reDocNoLabel  = regexp.MustCompile(`Invoice No\.?\s*:\s*(\S+)`)
	reSellerGSTIN = regexp.MustCompile(`GSTIN(?:/UIN)?\s*:\s*([0-9A-Z]{15})`)
)

func firstGroup(re *regexp.Regexp, text string) *string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return stringPtr(m[1])
}

func applyHeaderRules(doc *models.Document, block string) {
	for _, rule := range headerRules {
		rule.apply(doc, firstGroup(rule.pattern, block))
	}
	if doc.DocNo == "" {
		if v := firstGroup(reDocNoLabel, block); v != nil {
			doc.DocNo = *v
		}
	}
	if doc.SellerTaxID == "" {
		if v := firstGroup(reSellerGSTIN, block); v != nil {
			doc.SellerTaxID = *v
		}
	}
}

const vendorHeading = "TAX INVOICE"

// vendorName is the first non-blank line after the heading.
func vendorName(lines []string) *string {
	for i, line := range lines {
		if !strings.Contains(strings.ToUpper(line), vendorHeading) {
			continue
		}
		for _, candidate := range lines[i+1:] {
			if v := stringPtr(candidate); v != nil {
				return v
			}
		}
		return nil
	}
	return nil
}

var reTaxTotals = regexp.MustCompile(
	`\b(\d{8})[ \t]+\d+%?[ \t]+([\d,]+\.\d{2})[ \t]+([\d,]+\.\d{2})[ \t]+([\d,]+\.\d{2})(?:[ \t]+([\d,]+\.\d{2}))?`,
)

// applyTaxTotals fills the tax summary and returns the category code of the summary row.
func applyTaxTotals(doc *models.Document, block string) string {
	m := reTaxTotals.FindStringSubmatch(block)
	if m == nil {
		return ""
	}
	doc.TaxableAmount = parseNumber(m[2])
	doc.CGSTAmount = parseNumber(m[3])
	doc.SGSTAmount = parseNumber(m[4])
	if total := parseNumber(m[5]); total != nil {
		doc.TotalTax = total
	} else {
		var sum float64
		if doc.CGSTAmount != nil {
			sum += *doc.CGSTAmount
		}
		if doc.SGSTAmount != nil {
			sum += *doc.SGSTAmount
		}
		doc.TotalTax = &sum
	}
	return m[1]
}
