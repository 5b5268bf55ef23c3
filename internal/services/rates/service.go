package rates

import (
	"context"

	"github.com/sirupsen/logrus"

	"invoice-reconciliation-backend/internal/config"
	"invoice-reconciliation-backend/internal/models"
	"invoice-reconciliation-backend/internal/repository"
)

// Result counts one rate resolution run.
type Result struct {
	Documents  int            `json:"documents"`
	NoCategory int            `json:"no_category"`
	Codes      int            `json:"codes"`
	Resolved   int            `json:"resolved"`
	NotFound   int            `json:"not_found"`
	BySource   map[string]int `json:"by_source"`
	CacheSize  int            `json:"cache_size"`
}

type Service struct {
	documentRepo *repository.DocumentRepository
	rateRepo     *repository.RateRepository
	store        CacheStore
	remote       RateLookup
	fallback     map[string]Entry
	logger       *logrus.Logger
}

// NewService wires the stage. A nil remote disables the remote tier; a nil
// fallback uses DefaultFallback.
func NewService(
	documentRepo *repository.DocumentRepository,
	rateRepo *repository.RateRepository,
	store CacheStore,
	remote RateLookup,
	fallback map[string]Entry,
	logger *logrus.Logger,
) *Service {
	if fallback == nil {
		fallback = DefaultFallback()
	}
	return &Service{
		documentRepo: documentRepo,
		rateRepo:     rateRepo,
		store:        store,
		remote:       remote,
		fallback:     fallback,
		logger:       logger,
	}
}

// Run resolves the rate of every distinct document category code,
// regenerates the rate table and persists the grown cache.
func (s *Service) Run(ctx context.Context) (Result, error) {
	res := Result{BySource: map[string]int{}}

	if err := repository.RequireTables(ctx, s.documentRepo.DB(), models.StageRates, &models.Document{}); err != nil {
		return res, err
	}

	cache, err := LoadCache(ctx, s.store, s.fallback)
	if err != nil {
		config.LogError(s.logger, "rates", "Run", "load rate cache, continuing with fallback seed", nil, err)
	}
	resolver := NewResolver(cache, s.remote, s.fallback, WithRemoteErrorHook(func(code string, err error) {
		s.logger.WithFields(logrus.Fields{"code": code, "error": err.Error()}).Warn("remote rate lookup failed")
	}))

	docs, err := s.documentRepo.List(ctx)
	if err != nil {
		return res, err
	}
	res.Documents = len(docs)

	seen := map[string]bool{}
	var records []models.RateRecord
	for _, doc := range docs {
		if doc.MainCategoryCode == nil || *doc.MainCategoryCode == "" {
			res.NoCategory++
			s.logger.WithField("doc_no", doc.DocNo).Warn("no category code, skipping")
			continue
		}
		code := *doc.MainCategoryCode
		if seen[code] {
			continue
		}
		seen[code] = true

		r := resolver.Resolve(ctx, code)
		cache.Apply(r.Delta)
		res.BySource[r.Source]++
		if r.Found() {
			res.Resolved++
		} else {
			res.NotFound++
		}

		half := r.HalfRate()
		records = append(records, models.RateRecord{
			CategoryCode: code,
			Rate:         r.Rate,
			CGSTRate:     half,
			SGSTRate:     half,
			Description:  r.Description,
			Source:       r.Source,
		})
		s.logger.WithFields(logrus.Fields{
			"code":   code,
			"rate":   r.Rate,
			"source": r.Source,
		}).Info("resolved rate")
	}
	res.Codes = len(records)

	if err := s.rateRepo.Migrate(ctx); err != nil {
		return res, err
	}
	if err := s.rateRepo.Replace(ctx, records); err != nil {
		return res, err
	}

	res.CacheSize = cache.Len()
	if s.store != nil {
		if err := s.store.Save(ctx, cache.Snapshot()); err != nil {
			config.LogError(s.logger, "rates", "Run", "save rate cache", res.CacheSize, err)
			return res, err
		}
	}
	return res, nil
}
