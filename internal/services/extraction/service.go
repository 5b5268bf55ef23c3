package extraction

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/sirupsen/logrus"

	"invoice-reconciliation-backend/internal/common"
	"invoice-reconciliation-backend/internal/config"
	"invoice-reconciliation-backend/internal/models"
	"invoice-reconciliation-backend/internal/repository"
)

// Result summarises one extraction run.
type Result struct {
	Blocks     int `json:"blocks"`
	Inserted   int `json:"inserted"`
	Duplicates int `json:"duplicates"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
	LineItems  int `json:"line_items"`
}

type Service struct {
	documentRepo *repository.DocumentRepository
	logger       *logrus.Logger
}

func NewService(documentRepo *repository.DocumentRepository, logger *logrus.Logger) *Service {
	return &Service{documentRepo: documentRepo, logger: logger}
}

// RunFile extracts every block of the text file at path.
func (s *Service) RunFile(ctx context.Context, path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.WithField("path", path).Error("input text not found")
			return Result{}, common.MissingInput(models.StageExtract, path)
		}
		return Result{}, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	return s.Run(ctx, f)
}

// Run splits r into blocks and stores each new document with its line items
// and payload metadata. Documents already in the store are skipped.
func (s *Service) Run(ctx context.Context, r io.Reader) (Result, error) {
	var res Result
	if r == nil {
		return res, common.MissingInput(models.StageExtract, "stream")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return res, fmt.Errorf("read input: %w", err)
	}

	if err := s.documentRepo.Migrate(ctx); err != nil {
		return res, fmt.Errorf("migrate extraction tables: %w", err)
	}
	existing, err := s.documentRepo.ExistingKeys(ctx)
	if err != nil {
		return res, fmt.Errorf("load existing documents: %w", err)
	}

	blocks := SplitBlocks(string(data))
	res.Blocks = len(blocks)
	s.logger.WithField("blocks", len(blocks)).Info("found invoice blocks")

	for _, block := range blocks {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		ex := ParseBlock(block)
		doc := ex.Document
		log := s.logger.WithFields(logrus.Fields{
			"doc_no":        doc.DocNo,
			"seller_tax_id": doc.SellerTaxID,
		})
		if ex.PayloadErr != nil {
			log.WithError(ex.PayloadErr).Warn("payload parse error")
		} else if ex.Payload != nil && !ex.Payload.SchemaValid {
			log.Warn("payload does not match the expected shape")
		}

		if doc.DocNo == "" || doc.SellerTaxID == "" {
			res.Skipped++
			log.Warn("block has no document number or seller tax id, skipping")
			continue
		}

		key := doc.CompositeKey()
		if _, ok := existing[key]; ok {
			res.Duplicates++
			log.Info("skipping duplicate document")
			continue
		}

		created, err := s.documentRepo.CreateWithItems(ctx, &doc, ex.Items, ex.Payload)
		if err != nil {
			res.Failed++
			config.LogError(log, "extraction", "Run", "insert document", key, err)
			continue
		}
		existing[key] = struct{}{}
		if !created {
			res.Duplicates++
			log.Info("skipping duplicate document")
			continue
		}
		res.Inserted++
		res.LineItems += len(ex.Items)
		log.WithField("items", len(ex.Items)).Info("logged invoice")
	}
	return res, nil
}
