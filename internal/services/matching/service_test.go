package matching

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"invoice-reconciliation-backend/internal/common"
	"invoice-reconciliation-backend/internal/models"
	"invoice-reconciliation-backend/internal/repository"
	"invoice-reconciliation-backend/internal/testutil"
)

func seedItems(t *testing.T, db *gorm.DB, descriptions ...string) {
	t.Helper()
	repo := repository.NewDocumentRepository(db)
	ctx := context.Background()
	if err := repo.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	items := make([]models.LineItem, len(descriptions))
	for i, d := range descriptions {
		items[i] = models.LineItem{Position: i + 1, Description: d, CategoryCode: "94035000", Rate: testutil.Float(150)}
	}
	doc := &models.Document{DocNo: "INV-1", SellerTaxID: "29AABCU9603R1ZM"}
	if _, err := repo.CreateWithItems(ctx, doc, items, nil); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func newService(db *gorm.DB, loader CatalogLoader) *Service {
	return NewService(
		repository.NewLineItemRepository(db),
		repository.NewMappingRepository(db),
		loader,
		testutil.Logger(),
	)
}

func TestServiceRunEmptyCatalog(t *testing.T) {
	db := testutil.OpenDB(t)
	seedItems(t, db, "Model No: A-1", "B-2", "C-3")

	res, err := newService(db, StaticCatalog(Catalog{})).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.LineItems != 3 || res.Unmapped != 3 || res.Mapped != 0 {
		t.Errorf("result = %+v", res)
	}

	repo := repository.NewMappingRepository(db)
	unmapped, _ := repo.ListUnmapped(context.Background())
	mapped, _ := repo.ListMapped(context.Background())
	if len(unmapped) != 3 || len(mapped) != 3 {
		t.Errorf("stored %d unmapped and %d mapped rows, want 3 and 3", len(unmapped), len(mapped))
	}
}

func TestServiceRunRegeneratesTables(t *testing.T) {
	db := testutil.OpenDB(t)
	seedItems(t, db, "Model No: A-1 (1234)", "B-2")
	catalog := NewCatalog([]models.CatalogEntry{{ModelNo: "A-1", ProductName: "Alpha", StandardRate: testutil.Float(150)}})
	svc := newService(db, StaticCatalog(catalog))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := svc.Run(ctx)
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if res.Mapped != 1 || res.Unmapped != 1 || res.RateMatched != 1 {
			t.Errorf("run %d result = %+v", i, res)
		}
	}

	var mapped, unmapped int64
	db.Model(&models.MappedItem{}).Count(&mapped)
	db.Model(&models.UnmappedItem{}).Count(&unmapped)
	if mapped != 2 || unmapped != 1 {
		t.Errorf("after two runs: %d mapped rows, %d unmapped rows; want 2 and 1", mapped, unmapped)
	}
}

func TestServiceRunRequiresLineItems(t *testing.T) {
	db := testutil.OpenDB(t)

	_, err := newService(db, StaticCatalog(Catalog{})).Run(context.Background())
	if !errors.Is(err, common.ErrMissingTable) {
		t.Fatalf("expected missing table error, got %v", err)
	}
	if db.Migrator().HasTable(&models.MappedItem{}) {
		t.Errorf("mapping tables must not be created when the stage aborts")
	}
}

func TestServiceRunCatalogError(t *testing.T) {
	db := testutil.OpenDB(t)
	seedItems(t, db, "A-1")
	boom := errors.New("boom")

	_, err := newService(db, func() (Catalog, error) { return nil, boom }).Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected catalog error, got %v", err)
	}
}
