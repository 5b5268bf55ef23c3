package export

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"invoice-reconciliation-backend/internal/models"
	"invoice-reconciliation-backend/internal/repository"
)

// Sheet names, in workbook order.
const (
	SheetSummary   = "Invoice_Summary"
	SheetItems     = "Line_Items"
	SheetPayload   = "QR_Meta"
	SheetMapped    = "Mapped_Items"
	SheetUnmapped  = "Unmapped_Items"
	SheetRates     = "GST_Fetch"
	SheetReview    = "Review_Report"
	SheetItemError = "LineItem_Errors"
)

const descriptionWidth = 80

// Service renders the store as one multi-sheet workbook. Tables a stage has
// not produced yet are left out.
type Service struct {
	db           *gorm.DB
	documentRepo *repository.DocumentRepository
	lineItemRepo *repository.LineItemRepository
	mappingRepo  *repository.MappingRepository
	rateRepo     *repository.RateRepository
	reviewRepo   *repository.ReviewRepository
	logger       *logrus.Logger
}

func NewService(db *gorm.DB, logger *logrus.Logger) *Service {
	return &Service{
		db:           db,
		documentRepo: repository.NewDocumentRepository(db),
		lineItemRepo: repository.NewLineItemRepository(db),
		mappingRepo:  repository.NewMappingRepository(db),
		rateRepo:     repository.NewRateRepository(db),
		reviewRepo:   repository.NewReviewRepository(db),
		logger:       logger,
	}
}

// ExportXLSX returns the workbook as bytes.
func (s *Service) ExportXLSX(ctx context.Context) ([]byte, error) {
	f, err := s.Workbook(ctx)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveAs writes the workbook to path.
func (s *Service) SaveAs(ctx context.Context, path string) error {
	f, err := s.Workbook(ctx)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

// Workbook builds the workbook. The caller closes it.
func (s *Service) Workbook(ctx context.Context) (*excelize.File, error) {
	start := time.Now()
	f := excelize.NewFile()

	steps := []struct {
		sheet  string
		tables []any
		write  func(context.Context, *sheet) error
	}{
		{SheetSummary, []any{&models.Document{}}, s.writeSummary},
		{SheetItems, []any{&models.LineItem{}}, s.writeItems},
		{SheetPayload, []any{&models.PayloadMeta{}}, s.writePayloads},
		{SheetMapped, []any{&models.MappedItem{}}, s.writeMapped},
		{SheetUnmapped, []any{&models.UnmappedItem{}}, s.writeUnmapped},
		{SheetRates, []any{&models.Document{}, &models.RateRecord{}}, s.writeRates},
		{SheetReview, []any{&models.ReviewRecord{}}, s.writeReview},
		{SheetItemError, []any{&models.LineItemError{}}, s.writeItemErrors},
	}

	written := 0
	for _, step := range steps {
		if !s.hasTables(ctx, step.tables...) {
			continue
		}
		sh, err := newSheet(f, step.sheet)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := step.write(ctx, sh); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("write %s: %w", step.sheet, err)
		}
		written++
	}

	// drop the default sheet once a real one exists
	if written > 0 {
		_ = f.DeleteSheet("Sheet1")
		f.SetActiveSheet(0)
	}

	s.logger.WithFields(logrus.Fields{
		"sheets":     written,
		"elapsed_ms": time.Since(start).Milliseconds(),
	}).Info("export.xlsx.ok")
	return f, nil
}

func (s *Service) hasTables(ctx context.Context, tables ...any) bool {
	m := s.db.WithContext(ctx).Migrator()
	for _, t := range tables {
		if !m.HasTable(t) {
			return false
		}
	}
	return true
}

func (s *Service) writeSummary(ctx context.Context, sh *sheet) error {
	docs, err := s.documentRepo.List(ctx)
	if err != nil {
		return err
	}
	sh.header("DocNo", "DocDt", "SellerGstin", "BuyerGstin", "IRN", "AckNo",
		"EWayBill", "PlaceOfSupply", "Transport", "VehicleNo",
		"ItemCnt(QR)", "TotInvVal(QR)", "TaxableAmount",
		"CGST_Amount", "SGST_Amount", "TotalTax", "VendorName", "ValidationFlag")
	for _, d := range docs {
		sh.row(d.DocNo, str(d.DocDt), d.SellerTaxID, str(d.BuyerTaxID), str(d.IRN), str(d.AckNo),
			str(d.EWayBill), str(d.PlaceOfSupply), str(d.Transport), str(d.VehicleNo),
			num(d.ItemCnt), num(d.TotInvVal), num(d.TaxableAmount),
			num(d.CGSTAmount), num(d.SGSTAmount), num(d.TotalTax), str(d.VendorName), str(d.ValidationFlag))
	}
	sh.widths(map[string]float64{"A": 16, "Q": 32, "R": 48})
	return sh.err
}

func (s *Service) writeItems(ctx context.Context, sh *sheet) error {
	items, err := s.lineItemRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	sh.header("DocNo", "S.No", "Description", "HSN/SAC", "Quantity", "Unit", "Rate", "Amount", "Item Category")
	for _, it := range items {
		sh.row(it.DocNo, num(it.SerialNo), it.Description, it.CategoryCode, num(it.Quantity), it.Unit,
			num(it.Rate), num(it.Amount), str(it.Category))
	}
	sh.widths(map[string]float64{"A": 16, "C": 48, "I": 28})
	return sh.err
}

func (s *Service) writePayloads(ctx context.Context, sh *sheet) error {
	metas, err := s.documentRepo.ListPayloads(ctx)
	if err != nil {
		return err
	}
	sh.header("DocNo", "SellerGstin", "BuyerGstin", "DocTyp", "DocDt",
		"TotInvVal", "ItemCnt", "MainHsnCode", "IRN", "IrnDt", "RawPayload")
	for _, m := range metas {
		sh.row(str(m.DocNo), str(m.SellerTaxID), str(m.BuyerTaxID), str(m.DocTyp), str(m.DocDt),
			num(m.TotInvVal), num(m.ItemCnt), str(m.MainHsnCode), str(m.IRN), str(m.IrnDt), string(m.RawPayload))
	}
	return sh.err
}

func (s *Service) writeMapped(ctx context.Context, sh *sheet) error {
	items, err := s.mappingRepo.ListMapped(ctx)
	if err != nil {
		return err
	}
	sh.header("DocNo", "S.No", "Description", "HSN (Invoice)", "Quantity", "Unit",
		"Rate (Invoice)", "Amount", "Mapped Model", "Mapped Product Name",
		"Mapped SKU", "Mapped HSN", "Standard Rate", "Rate Match Flag")
	for _, m := range items {
		var standard any = models.NotFound
		if m.Found {
			standard = num(m.StandardRate)
		}
		sh.row(m.DocNo, num(m.SerialNo), m.Description, m.CategoryCode, num(m.Quantity), m.Unit,
			num(m.Rate), num(m.Amount), m.MappedModel, m.MappedProductName,
			m.MappedSKU, m.MappedCategoryCode, standard, flag(m.RateMatch))
	}
	return sh.err
}

func (s *Service) writeUnmapped(ctx context.Context, sh *sheet) error {
	items, err := s.mappingRepo.ListUnmapped(ctx)
	if err != nil {
		return err
	}
	sh.header("DocNo", "S.No", "Description", "HSN (Invoice)", "Quantity", "Unit",
		"Rate (Invoice)", "Amount", "Normalized Model")
	for _, u := range items {
		sh.row(u.DocNo, num(u.SerialNo), u.Description, u.CategoryCode, num(u.Quantity), u.Unit,
			num(u.Rate), num(u.Amount), u.NormalizedModel)
	}
	return sh.err
}

// writeRates lists one row per document with the rate of its main category code.
func (s *Service) writeRates(ctx context.Context, sh *sheet) error {
	docs, err := s.documentRepo.List(ctx)
	if err != nil {
		return err
	}
	byCode, err := s.rateRepo.ByCategoryCode(ctx)
	if err != nil {
		return err
	}
	sh.header("DocNo", "DocDt", "HSN", "Item Description",
		"GST_Rate (%)", "CGST_Rate (%)", "SGST_Rate (%)", "Source")
	for _, d := range docs {
		if d.MainCategoryCode == nil {
			continue
		}
		rec, ok := byCode[*d.MainCategoryCode]
		if !ok {
			continue
		}
		var desc any
		if rec.Description != nil {
			desc = truncate(*rec.Description, descriptionWidth)
		}
		sh.row(d.DocNo, str(d.DocDt), rec.CategoryCode, desc,
			num(rec.Rate), num(rec.CGSTRate), num(rec.SGSTRate), rec.Source)
	}
	return sh.err
}

func (s *Service) writeReview(ctx context.Context, sh *sheet) error {
	reviews, err := s.reviewRepo.ListReviews(ctx, "")
	if err != nil {
		return err
	}
	sh.header("DocNo", "Taxable (from Items)", "GST_Rate (%)",
		"CGST_calc", "SGST_calc", "ExpectedTotal",
		"QR_Total (TotInvVal)", "Diff", "InvoiceTotal_OK")
	for _, r := range reviews {
		sh.row(r.DocNo, r.Taxable, r.Rate, r.CGST, r.SGST, r.ExpectedTotal, r.DeclaredTotal, r.Diff, flag(r.Passed))
	}
	return sh.err
}

func (s *Service) writeItemErrors(ctx context.Context, sh *sheet) error {
	errs, err := s.reviewRepo.ListErrors(ctx)
	if err != nil {
		return err
	}
	sh.header("DocNo", "S.No", "Description", "Quantity", "Rate",
		"Stored Amount", "Computed Amount", "Match Flag")
	for _, e := range errs {
		sh.row(e.DocNo, num(e.SerialNo), e.Description, num(e.Quantity), num(e.Rate),
			e.StoredAmount, e.ComputedAmount, flag(false))
	}
	return sh.err
}
