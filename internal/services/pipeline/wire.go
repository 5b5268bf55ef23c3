package pipeline

import (
	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"invoice-reconciliation-backend/internal/config"
	"invoice-reconciliation-backend/internal/repository"
	"invoice-reconciliation-backend/internal/services/extraction"
	"invoice-reconciliation-backend/internal/services/matching"
	"invoice-reconciliation-backend/internal/services/rates"
	"invoice-reconciliation-backend/internal/services/reconciliation"
)

// NewFromConfig builds a runner over db. With a redis client the rate cache
// lives in a redis hash and runs are serialized by a redis lock; otherwise
// the cache is a JSON file and the lock is in process.
func NewFromConfig(cfg *config.Config, db *gorm.DB, rdb *redis.Client, logger *logrus.Logger) *Runner {
	documentRepo := repository.NewDocumentRepository(db)
	lineItemRepo := repository.NewLineItemRepository(db)

	var store rates.CacheStore = rates.NewFileCacheStore(cfg.Files.RateCache)
	var locker Locker = NewLocalLocker()
	if rdb != nil {
		store = rates.NewRedisCacheStore(rdb, cfg.Redis.CacheKey)
		locker = NewRedisLocker(redislock.New(rdb), logger)
	}

	services := Services{
		Extract: extraction.NewService(documentRepo, logger),
		Match: matching.NewService(
			lineItemRepo,
			repository.NewMappingRepository(db),
			matching.FileCatalog(cfg.Files.MasterFile),
			logger,
		),
		Rates: rates.NewService(
			documentRepo,
			repository.NewRateRepository(db),
			store,
			rates.NewRemoteLookup(cfg.Rates.LookupURL, cfg.Rates.Timeout),
			nil,
			logger,
		),
		Review: reconciliation.NewReconciliationService(
			documentRepo,
			lineItemRepo,
			repository.NewRateRepository(db),
			repository.NewReviewRepository(db),
			nil,
			logger,
		),
	}
	return NewRunner(services, repository.NewStageRunRepository(db), locker, cfg.Files.InputText, logger)
}
