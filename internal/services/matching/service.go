package matching

import (
	"context"

	"github.com/sirupsen/logrus"

	"invoice-reconciliation-backend/internal/config"
	"invoice-reconciliation-backend/internal/models"
	"invoice-reconciliation-backend/internal/repository"
)

// Result counts one matching run.
type Result struct {
	CatalogSize int `json:"catalog_size"`
	LineItems   int `json:"line_items"`
	Mapped      int `json:"mapped"`
	Unmapped    int `json:"unmapped"`
	RateMatched int `json:"rate_matched"`
}

type Service struct {
	lineItemRepo *repository.LineItemRepository
	mappingRepo  *repository.MappingRepository
	loadCatalog  CatalogLoader
	logger       *logrus.Logger
}

func NewService(
	lineItemRepo *repository.LineItemRepository,
	mappingRepo *repository.MappingRepository,
	loadCatalog CatalogLoader,
	logger *logrus.Logger,
) *Service {
	return &Service{
		lineItemRepo: lineItemRepo,
		mappingRepo:  mappingRepo,
		loadCatalog:  loadCatalog,
		logger:       logger,
	}
}

// Run matches every stored line item against the catalog and regenerates
// the mapped and unmapped tables.
func (s *Service) Run(ctx context.Context) (Result, error) {
	var res Result

	if err := repository.RequireTables(ctx, s.lineItemRepo.DB(), models.StageMatch, &models.LineItem{}); err != nil {
		return res, err
	}
	catalog, err := s.loadCatalog()
	if err != nil {
		return res, err
	}
	res.CatalogSize = len(catalog)

	items, err := s.lineItemRepo.ListAll(ctx)
	if err != nil {
		return res, err
	}
	res.LineItems = len(items)

	mapped := make([]models.MappedItem, 0, len(items))
	var unmapped []models.UnmappedItem
	for _, item := range items {
		m, miss := Match(item, catalog)
		mapped = append(mapped, m)
		if miss != nil {
			unmapped = append(unmapped, *miss)
			continue
		}
		res.Mapped++
		if m.RateMatch {
			res.RateMatched++
		}
	}
	res.Unmapped = len(unmapped)

	if err := s.mappingRepo.Migrate(ctx); err != nil {
		return res, err
	}
	if err := s.mappingRepo.Replace(ctx, mapped, unmapped); err != nil {
		config.LogError(s.logger, "matching", "Run", "replace mapping tables", res, err)
		return res, err
	}

	s.logger.WithFields(logrus.Fields{
		"catalog":  res.CatalogSize,
		"items":    res.LineItems,
		"mapped":   res.Mapped,
		"unmapped": res.Unmapped,
	}).Info("mapping completed")
	return res, nil
}
