package matching

import (
	"testing"

	"invoice-reconciliation-backend/internal/models"
	"invoice-reconciliation-backend/internal/testutil"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Model No: ABC-100 (73239920)", "ABC-100"},
		{"ABC-100", "ABC-100"},
		{"abc-100", "ABC-100"},
		{"MODEL NO ABC-100", "ABC-100"},
		{"Model No. XL  Shelf\t(9403)  Oak", "XL SHELF OAK"},
		{"Chair (Teak)", "CHAIR (TEAK)"},
		{"SUPERMODEL NOVA", "SUPERMODEL NOVA"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMatchHit(t *testing.T) {
	catalog := NewCatalog([]models.CatalogEntry{
		{ModelNo: "ABC-100", ProductName: "Steel Rack", SKU: "SR-1", CategoryCode: "94036000", StandardRate: testutil.Float(150)},
	})
	item := models.LineItem{ID: 7, DocNo: "INV-1", Description: "Model No: ABC-100 (73239920)", Rate: testutil.Float(150)}

	mapped, miss := Match(item, catalog)
	if miss != nil {
		t.Fatalf("expected a hit, got unmapped %+v", miss)
	}
	if !mapped.Found || !mapped.RateMatch {
		t.Errorf("Found/RateMatch = %v/%v", mapped.Found, mapped.RateMatch)
	}
	if mapped.MappedProductName != "Steel Rack" || mapped.MappedSKU != "SR-1" || mapped.MappedCategoryCode != "94036000" {
		t.Errorf("catalog fields not copied: %+v", mapped)
	}
	if mapped.LineItemID != 7 || mapped.MappedModel != "ABC-100" {
		t.Errorf("line fields = %d/%q", mapped.LineItemID, mapped.MappedModel)
	}
}

func TestMatchRateMismatchIsExact(t *testing.T) {
	catalog := NewCatalog([]models.CatalogEntry{{ModelNo: "ABC-100", StandardRate: testutil.Float(150)}})

	mapped, _ := Match(models.LineItem{Description: "ABC-100", Rate: testutil.Float(150.001)}, catalog)
	if mapped.RateMatch {
		t.Errorf("rates differing by 0.001 must not match")
	}

	mapped, _ = Match(models.LineItem{Description: "ABC-100"}, catalog)
	if mapped.RateMatch {
		t.Errorf("missing invoice rate must not match")
	}
}

func TestMatchMiss(t *testing.T) {
	item := models.LineItem{ID: 3, DocNo: "INV-2", Description: "Model No: ZZ-9 (1234)"}

	mapped, miss := Match(item, Catalog{})
	if miss == nil {
		t.Fatalf("expected an unmapped item")
	}
	if miss.NormalizedModel != "ZZ-9" || miss.LineItemID != 3 {
		t.Errorf("unmapped = %+v", miss)
	}
	if mapped.Found || mapped.RateMatch {
		t.Errorf("a miss is never found nor rate-matched")
	}
	for name, v := range map[string]string{
		"product": mapped.MappedProductName,
		"sku":     mapped.MappedSKU,
		"code":    mapped.MappedCategoryCode,
	} {
		if v != models.NotFound {
			t.Errorf("%s = %q, want %q", name, v, models.NotFound)
		}
	}
	if mapped.StandardRate != nil {
		t.Errorf("standard rate should be nil on a miss")
	}
}

func TestNewCatalogSkipsBlankModels(t *testing.T) {
	c := NewCatalog([]models.CatalogEntry{{ModelNo: ""}, {ModelNo: " Model No: "}, {ModelNo: "x-1"}})
	if len(c) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(c))
	}
	if _, ok := c["X-1"]; !ok {
		t.Errorf("entry should be keyed by its normalized model")
	}
}
