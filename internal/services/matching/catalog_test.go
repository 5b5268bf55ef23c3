package matching

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"invoice-reconciliation-backend/internal/common"
)

func writeMaster(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, r+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "master.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save master: %v", err)
	}
	return path
}

func TestLoadCatalogXLSX(t *testing.T) {
	path := writeMaster(t, [][]any{
		{"Model No", "Product Name", "SKU", "HSN", "Rate"},
		{"Model No: ABC-100", "Steel Rack", "SR-1", "94036000", 150.5},
		{"oak-2 (9403)", "Oak Shelf", "OS-2", "94035000", "1,200"},
		{"nr-3", "No Rate", "NR-3", "94035000", ""},
	})

	c, err := LoadCatalogXLSX(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(c))
	}
	rack := c["ABC-100"]
	if rack.ProductName != "Steel Rack" || rack.StandardRate == nil || *rack.StandardRate != 150.5 {
		t.Errorf("ABC-100 = %+v", rack)
	}
	if oak := c["OAK-2"]; oak.StandardRate == nil || *oak.StandardRate != 1200 {
		t.Errorf("OAK-2 rate = %v", oak.StandardRate)
	}
	if nr := c["NR-3"]; nr.StandardRate != nil {
		t.Errorf("blank rate should be nil, got %v", *nr.StandardRate)
	}
}

func TestLoadCatalogXLSXMissing(t *testing.T) {
	_, err := LoadCatalogXLSX(filepath.Join(t.TempDir(), "nope.xlsx"))
	if !common.IsStructural(err) {
		t.Fatalf("expected structural error, got %v", err)
	}
}
