package export

import (
	"bytes"
	"context"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"invoice-reconciliation-backend/internal/models"
	"invoice-reconciliation-backend/internal/repository"
	"invoice-reconciliation-backend/internal/testutil"
)

func TestWorkbookEmptyStore(t *testing.T) {
	db := testutil.OpenDB(t)

	f, err := NewService(db, testutil.Logger()).Workbook(context.Background())
	if err != nil {
		t.Fatalf("workbook: %v", err)
	}
	defer f.Close()
	if sheets := f.GetSheetList(); len(sheets) != 1 {
		t.Errorf("expected only the default sheet, got %v", sheets)
	}
}

func TestWorkbookSkipsMissingTables(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()
	docs := repository.NewDocumentRepository(db)
	if err := docs.Migrate(ctx); err != nil {
		t.Fatal(err)
	}
	doc := &models.Document{
		DocNo:            "INV-1",
		SellerTaxID:      "29AABCU9603R1ZM",
		TotInvVal:        testutil.Float(1180),
		MainCategoryCode: testutil.String("94035000"),
	}
	items := []models.LineItem{{Position: 1, Description: "Oak Shelf", Quantity: testutil.Float(2), Rate: testutil.Float(500), Amount: testutil.Float(1000)}}
	if _, err := docs.CreateWithItems(ctx, doc, items, nil); err != nil {
		t.Fatal(err)
	}

	rates := repository.NewRateRepository(db)
	if err := rates.Migrate(ctx); err != nil {
		t.Fatal(err)
	}
	long := strings.Repeat("Furniture and parts thereof ", 5)
	err := rates.Replace(ctx, []models.RateRecord{{
		CategoryCode: "94035000",
		Rate:         testutil.Int(18),
		CGSTRate:     testutil.Float(9),
		SGSTRate:     testutil.Float(9),
		Description:  &long,
		Source:       "cache",
	}})
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "invoices_data.xlsx")
	if err := NewService(db, testutil.Logger()).SaveAs(ctx, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	want := []string{SheetSummary, SheetItems, SheetPayload, SheetRates}
	if got := f.GetSheetList(); !slices.Equal(got, want) {
		t.Errorf("sheets = %v, want %v", got, want)
	}

	summary, _ := f.GetRows(SheetSummary)
	if len(summary) != 2 || summary[0][11] != "TotInvVal(QR)" || summary[1][11] != "1180" {
		t.Errorf("summary rows = %v", summary)
	}

	rows, _ := f.GetRows(SheetRates)
	if len(rows) != 2 {
		t.Fatalf("rate rows = %v", rows)
	}
	desc := rows[1][3]
	if len([]rune(desc)) != descriptionWidth+3 || !strings.HasSuffix(desc, "...") {
		t.Errorf("description not truncated: %q", desc)
	}
	if rows[1][4] != "18" || rows[1][5] != "9" || rows[1][7] != "cache" {
		t.Errorf("rate row = %v", rows[1])
	}
}

func TestExportXLSX(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()
	if err := repository.NewReviewRepository(db).Migrate(ctx); err != nil {
		t.Fatal(err)
	}
	err := repository.NewReviewRepository(db).Replace(ctx,
		[]models.ReviewRecord{{DocumentID: 1, DocNo: "INV-1", Taxable: 1000, Rate: 18, CGST: 90, SGST: 90, ExpectedTotal: 1180, DeclaredTotal: 1175, Diff: 5}},
		[]models.LineItemError{{LineItemID: 1, DocNo: "INV-1", StoredAmount: 299.5, ComputedAmount: 300}},
		nil)
	if err != nil {
		t.Fatal(err)
	}

	raw, err := NewService(db, testutil.Logger()).ExportXLSX(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	review, _ := f.GetRows(SheetReview)
	if len(review) != 2 || review[1][7] != "5" || review[1][8] != "❌" {
		t.Errorf("review rows = %v", review)
	}
	errs, _ := f.GetRows(SheetItemError)
	if len(errs) != 2 || errs[1][5] != "299.5" || errs[1][6] != "300" {
		t.Errorf("error rows = %v", errs)
	}
}
