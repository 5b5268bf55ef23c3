package reconciliation

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"invoice-reconciliation-backend/internal/config"
	"invoice-reconciliation-backend/internal/models"
	"invoice-reconciliation-backend/internal/repository"
)

// Skip reasons recorded in review_skips.
const (
	SkipNoItems      = "no line items"
	SkipNoRate       = "no resolved rate"
	SkipNoDeclared   = "no declared total"
	SkipNoTotalField = "declared total column not found"
)

// Result counts one review run.
type Result struct {
	Documents   int    `json:"documents"`
	Reviewed    int    `json:"reviewed"`
	Passed      int    `json:"passed"`
	Failed      int    `json:"failed"`
	Skipped     int    `json:"skipped"`
	LineErrors  int    `json:"line_errors"`
	TotalColumn string `json:"total_column"`
}

type ReconciliationService struct {
	documentRepo *repository.DocumentRepository
	lineItemRepo *repository.LineItemRepository
	rateRepo     *repository.RateRepository
	reviewRepo   *repository.ReviewRepository
	detector     TotalColumnDetector
	logger       *logrus.Logger
}

// NewReconciliationService wires the review stage. A nil detector uses KeywordColumnDetector.
func NewReconciliationService(
	documentRepo *repository.DocumentRepository,
	lineItemRepo *repository.LineItemRepository,
	rateRepo *repository.RateRepository,
	reviewRepo *repository.ReviewRepository,
	detector TotalColumnDetector,
	logger *logrus.Logger,
) *ReconciliationService {
	if detector == nil {
		detector = KeywordColumnDetector{}
	}
	return &ReconciliationService{
		documentRepo: documentRepo,
		lineItemRepo: lineItemRepo,
		rateRepo:     rateRepo,
		reviewRepo:   reviewRepo,
		detector:     detector,
		logger:       logger,
	}
}

func (s *ReconciliationService) DB() *gorm.DB {
	return s.documentRepo.DB()
}

// Run recomputes every document's taxable total from its line items,
// checks the expected total against the declared one and back-fills the
// line item category labels.
func (s *ReconciliationService) Run(ctx context.Context) (Result, error) {
	var res Result

	err := repository.RequireTables(ctx, s.DB(), models.StageReview,
		&models.Document{}, &models.LineItem{}, &models.RateRecord{})
	if err != nil {
		return res, err
	}

	docs, err := s.documentRepo.List(ctx)
	if err != nil {
		return res, err
	}
	res.Documents = len(docs)

	items, err := s.lineItemRepo.ListAll(ctx)
	if err != nil {
		return res, err
	}
	taxable, lineErrors := checkLineItems(items)
	res.LineErrors = len(lineErrors)

	rates, err := s.rateRepo.ByCategoryCode(ctx)
	if err != nil {
		return res, err
	}

	declared, column, err := s.declaredTotals(ctx)
	if err != nil {
		return res, err
	}
	res.TotalColumn = column

	var reviews []models.ReviewRecord
	var skips []models.ReviewSkip
	categories := map[uint]string{}
	for _, doc := range docs {
		rate, hasRate := resolvedRate(doc, rates)
		if hasRate && rate.Description != nil {
			categories[doc.ID] = *rate.Description
		}

		reason := ""
		total, hasItems := taxable[doc.ID]
		declaredTotal := declared[doc.ID]
		switch {
		case !hasItems:
			reason = SkipNoItems
		case !hasRate:
			reason = SkipNoRate
		case column == "":
			reason = SkipNoTotalField
		case declaredTotal == nil:
			reason = SkipNoDeclared
		}
		if reason != "" {
			skips = append(skips, models.ReviewSkip{DocumentID: doc.ID, DocNo: doc.DocNo, Reason: reason})
			s.logger.WithFields(logrus.Fields{"doc_no": doc.DocNo, "reason": reason}).Warn("skipping review")
			continue
		}

		review := Compare(total, *rate.Rate, *rate.CGSTRate, *rate.SGSTRate, decimal.NewFromFloat(*declaredTotal))
		review.DocumentID = doc.ID
		review.DocNo = doc.DocNo
		reviews = append(reviews, review)
		if review.Passed {
			res.Passed++
		} else {
			res.Failed++
		}
	}
	res.Reviewed = len(reviews)
	res.Skipped = len(skips)

	if err := s.reviewRepo.Migrate(ctx); err != nil {
		return res, err
	}
	if err := s.reviewRepo.Replace(ctx, reviews, lineErrors, skips); err != nil {
		config.LogError(s.logger, "reconciliation", "Run", "replace review tables", res, err)
		return res, err
	}
	if err := s.lineItemRepo.SetCategories(ctx, categories); err != nil {
		config.LogError(s.logger, "reconciliation", "Run", "back-fill item categories", len(categories), err)
		return res, err
	}

	s.logger.WithFields(logrus.Fields{
		"reviewed":     res.Reviewed,
		"passed":       res.Passed,
		"failed":       res.Failed,
		"skipped":      res.Skipped,
		"line_errors":  res.LineErrors,
		"total_column": res.TotalColumn,
	}).Info("review completed")
	return res, nil
}

// resolvedRate joins the document to its rate record through the main
// category code. Records without a rate do not count.
func resolvedRate(doc models.Document, rates map[string]models.RateRecord) (models.RateRecord, bool) {
	if doc.MainCategoryCode == nil {
		return models.RateRecord{}, false
	}
	rec, ok := rates[*doc.MainCategoryCode]
	if !ok || rec.Rate == nil || rec.CGSTRate == nil || rec.SGSTRate == nil {
		return models.RateRecord{}, false
	}
	return rec, true
}

// declaredTotals reads the detected total column of the documents table,
// keyed by document id. The returned column name is empty when none was found.
func (s *ReconciliationService) declaredTotals(ctx context.Context) (map[uint]*float64, string, error) {
	snap, err := s.documentRepo.Table(ctx)
	if err != nil {
		return nil, "", err
	}
	idx, ok := s.detector.Detect(snap.Columns)
	if !ok || idx < 0 || idx >= len(snap.Columns) {
		s.logger.Warn("could not detect the declared total column")
		return map[uint]*float64{}, "", nil
	}
	column := snap.Columns[idx]
	s.logger.WithFields(logrus.Fields{"index": idx, "column": column}).Info("declared total column")

	idCol := snap.ColumnIndex("id")
	if idCol < 0 {
		return nil, "", fmt.Errorf("documents table has no id column")
	}
	out := make(map[uint]*float64, len(snap.Rows))
	for _, row := range snap.Rows {
		id := ToFloat(row[idCol])
		if id == nil {
			continue
		}
		out[uint(*id)] = ToFloat(row[idx])
	}
	return out, column, nil
}

// checkLineItems sums each document's taxable value and collects the lines
// whose stored amount disagrees with quantity x rate.
func checkLineItems(items []models.LineItem) (map[uint]decimal.Decimal, []models.LineItemError) {
	taxable := map[uint]decimal.Decimal{}
	var lineErrors []models.LineItemError
	for _, it := range items {
		sum := taxable[it.DocumentID]

		var computed *decimal.Decimal
		if it.Quantity != nil && it.Rate != nil {
			c := decimal.NewFromFloat(*it.Quantity).Mul(decimal.NewFromFloat(*it.Rate))
			computed = &c
		}

		switch {
		case it.Amount != nil:
			stored := decimal.NewFromFloat(*it.Amount)
			sum = sum.Add(stored)
			if computed != nil && !stored.Round(2).Equal(computed.Round(2)) {
				lineErrors = append(lineErrors, models.LineItemError{
					LineItemID:     it.ID,
					DocNo:          it.DocNo,
					SerialNo:       it.SerialNo,
					Description:    it.Description,
					Quantity:       it.Quantity,
					Rate:           it.Rate,
					StoredAmount:   *it.Amount,
					ComputedAmount: computed.Round(2).InexactFloat64(),
				})
			}
		case computed != nil:
			sum = sum.Add(*computed)
		}
		taxable[it.DocumentID] = sum
	}
	return taxable, lineErrors
}

// Compare builds the review of one document:
//
//	expected = taxable + taxable*cgst/100 + taxable*sgst/100
//	diff     = round2(expected - declared)
//
// and passes when |diff| < Tolerance.
func Compare(taxable decimal.Decimal, rate int, cgstRate, sgstRate float64, declared decimal.Decimal) models.ReviewRecord {
	hundred := decimal.NewFromInt(100)
	cgst := taxable.Mul(decimal.NewFromFloat(cgstRate)).Div(hundred)
	sgst := taxable.Mul(decimal.NewFromFloat(sgstRate)).Div(hundred)
	expected := taxable.Add(cgst).Add(sgst)
	diff := expected.Sub(declared).Round(2)

	return models.ReviewRecord{
		Taxable:       taxable.Round(2).InexactFloat64(),
		Rate:          rate,
		CGST:          cgst.Round(2).InexactFloat64(),
		SGST:          sgst.Round(2).InexactFloat64(),
		ExpectedTotal: expected.Round(2).InexactFloat64(),
		DeclaredTotal: declared.InexactFloat64(),
		Diff:          diff.InexactFloat64(),
		Passed:        diff.Abs().LessThan(Tolerance),
	}
}
