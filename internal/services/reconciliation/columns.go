package reconciliation

import "strings"

// TotalColumnDetector picks the column holding the externally declared
// invoice total. It returns false when no column qualifies.
type TotalColumnDetector interface {
	Detect(headers []string) (int, bool)
}

// FallbackTotalColumn is used when no header scores and the table is wide enough.
const FallbackTotalColumn = 11

// KeywordColumnDetector scores headers in two passes: exact compound terms
// first, looser single keywords second, then the positional fallback.
type KeywordColumnDetector struct{}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(strings.ReplaceAll(h, "_", " ")))
}

func has(h string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(h, t) {
			return true
		}
	}
	return false
}

func strongTotalHeader(h string) bool {
	if has(h, "item", "count", "cnt") {
		return false
	}
	return has(h, "totinv", "tot inv", "totalinvoice", "totinvval") ||
		(has(h, "total") && has(h, "inv", "value"))
}

func looseTotalHeader(h string) bool {
	if has(h, "item") {
		return false
	}
	return (has(h, "total") && has(h, "value", "amount", "inv")) ||
		(has(h, "qr") && has(h, "total", "tot"))
}

func (KeywordColumnDetector) Detect(headers []string) (int, bool) {
	norm := make([]string, len(headers))
	for i, h := range headers {
		norm[i] = normalizeHeader(h)
	}
	for _, pass := range []func(string) bool{strongTotalHeader, looseTotalHeader} {
		for i, h := range norm {
			if h != "" && pass(h) {
				return i, true
			}
		}
	}
	if len(norm) > FallbackTotalColumn {
		return FallbackTotalColumn, true
	}
	return -1, false
}
