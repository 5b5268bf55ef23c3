package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"invoice-reconciliation-backend/internal/common"
	"invoice-reconciliation-backend/internal/models"
	"invoice-reconciliation-backend/internal/repository"
	"invoice-reconciliation-backend/internal/services/extraction"
	"invoice-reconciliation-backend/internal/services/matching"
	"invoice-reconciliation-backend/internal/services/rates"
	"invoice-reconciliation-backend/internal/services/reconciliation"
	"invoice-reconciliation-backend/internal/testutil"
)

const invoiceText = `[--- Decoded QR Payload(s) ---]
{"data": {"DocNo": "INV-7", "SellerGstin": "29AABCU9603R1ZM", "TotInvVal": 1180, "ItemCnt": 1, "MainHsnCode": "94035000"}}
[-----------------------------]
TAX INVOICE
Acme Furniture
S.No. Description HSN/SAC Quantity Rate Amount(` + "`" + ` )
1.
Model No: OAK-1 (94035000)
94035000
2 Pcs.
500.00
1,000.00
HSN/SAC Tax Rate Taxable CGST SGST Total
94035000 18% 1,000.00 90.00 90.00 180.00
VALIDATION: VALID
`

func newRunner(t *testing.T, db *gorm.DB, inputPath string) *Runner {
	t.Helper()
	logger := testutil.Logger()
	documentRepo := repository.NewDocumentRepository(db)
	lineItemRepo := repository.NewLineItemRepository(db)
	catalog := matching.NewCatalog([]models.CatalogEntry{
		{ModelNo: "OAK-1", ProductName: "Oak Shelf", SKU: "OS-1", CategoryCode: "94035000", StandardRate: testutil.Float(500)},
	})
	services := Services{
		Extract: extraction.NewService(documentRepo, logger),
		Match:   matching.NewService(lineItemRepo, repository.NewMappingRepository(db), matching.StaticCatalog(catalog), logger),
		Rates: rates.NewService(documentRepo, repository.NewRateRepository(db),
			rates.NewFileCacheStore(filepath.Join(t.TempDir(), "cache.json")), nil, nil, logger),
		Review: reconciliation.NewReconciliationService(documentRepo, lineItemRepo,
			repository.NewRateRepository(db), repository.NewReviewRepository(db), nil, logger),
	}
	return NewRunner(services, repository.NewStageRunRepository(db), nil, inputPath, logger)
}

func TestRunAll(t *testing.T) {
	db := testutil.OpenDB(t)
	runner := newRunner(t, db, "")
	ctx := context.Background()

	runs, err := runner.Run(ctx, StageAll, strings.NewReader(invoiceText))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(runs) != len(Order) {
		t.Fatalf("expected %d runs, got %d", len(Order), len(runs))
	}
	for i, run := range runs {
		if run.Stage != Order[i] || run.Status != models.RunStatusCompleted {
			t.Errorf("run %d = %s/%s", i, run.Stage, run.Status)
		}
		if run.StartedAt == nil || run.CompletedAt == nil {
			t.Errorf("run %s missing timestamps", run.Stage)
		}
	}

	reviews, err := repository.NewReviewRepository(db).ListReviews(ctx, "passed")
	if err != nil || len(reviews) != 1 {
		t.Fatalf("passed reviews: %v (%d)", err, len(reviews))
	}
	if reviews[0].DocNo != "INV-7" || reviews[0].ExpectedTotal != 1180 {
		t.Errorf("review = %+v", reviews[0])
	}

	mapped, _ := repository.NewMappingRepository(db).ListMapped(ctx)
	if len(mapped) != 1 || !mapped[0].Found || !mapped[0].RateMatch {
		t.Errorf("mapped = %+v", mapped)
	}

	stored, err := repository.NewStageRunRepository(db).Get(ctx, runs[0].ID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if stored.WrittenCount != 1 || !strings.Contains(string(stored.Details), `"inserted":1`) {
		t.Errorf("extract run = %+v details=%s", stored, stored.Details)
	}
}

func TestRunStopsAtStructuralFailure(t *testing.T) {
	db := testutil.OpenDB(t)
	runner := newRunner(t, db, filepath.Join(t.TempDir(), "missing.txt"))

	runs, err := runner.Run(context.Background(), StageAll, nil)
	if !common.IsStructural(err) {
		t.Fatalf("expected structural error, got %v", err)
	}
	for _, run := range runs {
		if run.Status != models.RunStatusFailed {
			t.Errorf("run %s status = %s", run.Stage, run.Status)
		}
	}
	if runs[1].Error != upstreamFailed {
		t.Errorf("downstream error = %q", runs[1].Error)
	}
	if db.Migrator().HasTable(&models.Document{}) {
		t.Errorf("store should be untouched")
	}
}

func TestRunSingleStageMissingUpstream(t *testing.T) {
	db := testutil.OpenDB(t)

	runs, err := newRunner(t, db, "").Run(context.Background(), models.StageReview, nil)
	if !errors.Is(err, common.ErrMissingTable) {
		t.Fatalf("expected missing table, got %v", err)
	}
	if len(runs) != 1 || runs[0].Status != models.RunStatusFailed {
		t.Errorf("runs = %+v", runs)
	}
}

func TestExpand(t *testing.T) {
	if stages, err := Expand(StageAll); err != nil || len(stages) != 4 {
		t.Errorf("Expand(all) = %v, %v", stages, err)
	}
	if stages, err := Expand("rates"); err != nil || len(stages) != 1 || stages[0] != "rates" {
		t.Errorf("Expand(rates) = %v, %v", stages, err)
	}
	if _, err := Expand("publish"); !errors.Is(err, ErrUnknownStage) {
		t.Errorf("expected unknown stage, got %v", err)
	}
}

func TestLocalLocker(t *testing.T) {
	l := NewLocalLocker()
	release, err := l.Acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := l.Acquire(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("second acquire should wait for the holder, got %v", err)
	}

	release()
	again, err := l.Acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	again()
}

func TestExecuteLockUnavailable(t *testing.T) {
	db := testutil.OpenDB(t)
	runner := newRunner(t, db, "")
	ctx := context.Background()

	release, _ := runner.locker.Acquire(ctx)
	defer release()

	planned, err := runner.Plan(ctx, models.StageMatch)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if err := runner.Execute(short, planned, nil); err == nil {
		t.Fatalf("expected lock timeout")
	}
	if planned[0].Status != models.RunStatusFailed {
		t.Errorf("status = %s", planned[0].Status)
	}
}
