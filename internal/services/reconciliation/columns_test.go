package reconciliation

import "testing"

func TestKeywordColumnDetector(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    int
		ok      bool
	}{
		{"store columns", []string{"id", "doc_no", "item_cnt", "tot_inv_val", "total_tax"}, 3, true},
		{"workbook header", []string{"DocNo", "DocDt", "Item Count", "QR Total (TotInvVal)"}, 3, true},
		{"compound beats loose", []string{"Total Amount", "Invoice Total"}, 1, true},
		{"item columns never qualify", []string{"Item Total Value", "Total Items Cnt"}, -1, false},
		{"loose amount", []string{"DocNo", "Grand Total Amount"}, 1, true},
		{"qr total", []string{"DocNo", "QR Tot"}, 1, true},
		{"blank headers ignored", []string{"", "  ", "Total Value"}, 2, true},
		{"no header scores but wide table", []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}, 11, true},
		{"no header scores narrow table", []string{"a", "b"}, -1, false},
	}

	var d KeywordColumnDetector
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := d.Detect(tt.headers)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Detect(%v) = (%d, %v), want (%d, %v)", tt.headers, got, ok, tt.want, tt.ok)
			}
		})
	}
}
