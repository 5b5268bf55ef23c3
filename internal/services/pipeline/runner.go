package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"invoice-reconciliation-backend/internal/common"
	"invoice-reconciliation-backend/internal/config"
	"invoice-reconciliation-backend/internal/models"
	"invoice-reconciliation-backend/internal/repository"
	"invoice-reconciliation-backend/internal/services/extraction"
	"invoice-reconciliation-backend/internal/services/matching"
	"invoice-reconciliation-backend/internal/services/rates"
	"invoice-reconciliation-backend/internal/services/reconciliation"
)

// StageAll expands to every stage in order.
const StageAll = "all"

// Order is the fixed stage sequence; each stage reads what the previous one wrote.
var Order = []string{models.StageExtract, models.StageMatch, models.StageRates, models.StageReview}

var ErrUnknownStage = errors.New("unknown stage")

const upstreamFailed = "not run: an earlier stage failed"

// Services are the four stage implementations.
type Services struct {
	Extract *extraction.Service
	Match   *matching.Service
	Rates   *rates.Service
	Review  *reconciliation.ReconciliationService
}

type outcome struct {
	processed, written, skipped int
	details                     any
}

type Runner struct {
	services  Services
	runs      *repository.StageRunRepository
	locker    Locker
	inputPath string
	logger    *logrus.Logger
}

// NewRunner wires the stages. inputPath is read by the extract stage when
// no input stream is supplied.
func NewRunner(services Services, runs *repository.StageRunRepository, locker Locker, inputPath string, logger *logrus.Logger) *Runner {
	if locker == nil {
		locker = NewLocalLocker()
	}
	return &Runner{
		services:  services,
		runs:      runs,
		locker:    locker,
		inputPath: inputPath,
		logger:    logger,
	}
}

// Expand resolves a stage name, or StageAll, to the stages to run.
func Expand(stage string) ([]string, error) {
	if stage == StageAll {
		return Order, nil
	}
	for _, s := range Order {
		if s == stage {
			return []string{s}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStage, stage)
}

// Plan records a pending run for each stage named by stage.
func (r *Runner) Plan(ctx context.Context, stage string) ([]*models.StageRun, error) {
	stages, err := Expand(stage)
	if err != nil {
		return nil, err
	}
	if err := r.runs.Migrate(ctx); err != nil {
		return nil, err
	}
	planned := make([]*models.StageRun, 0, len(stages))
	for _, s := range stages {
		run, err := r.runs.Create(ctx, s)
		if err != nil {
			return nil, err
		}
		planned = append(planned, run)
	}
	return planned, nil
}

// Execute runs the planned stages in order under the store lock. The first
// failure stops the sequence and the remaining runs are marked failed.
// input, when non-nil, feeds the extract stage instead of the input path.
func (r *Runner) Execute(ctx context.Context, planned []*models.StageRun, input io.Reader) error {
	release, err := r.locker.Acquire(ctx)
	if err != nil {
		for _, run := range planned {
			r.fail(ctx, run, err)
		}
		return err
	}
	defer release()

	for i, run := range planned {
		if err := r.runs.Start(ctx, run); err != nil {
			return err
		}
		log := r.logger.WithFields(logrus.Fields{"stage": run.Stage, "run_id": run.ID.String()})
		log.Info("stage started")

		out, err := r.dispatch(ctx, run.Stage, input)
		if err != nil {
			r.fail(ctx, run, err)
			for _, rest := range planned[i+1:] {
				r.fail(ctx, rest, errors.New(upstreamFailed))
			}
			if common.IsStructural(err) {
				log.WithField("error", err.Error()).Warn("stage aborted")
			} else {
				config.LogError(log, "pipeline", "Execute", "stage failed", run.Stage, err)
			}
			return err
		}

		if err := r.runs.Complete(ctx, run, out.processed, out.written, out.skipped, out.details); err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"processed": out.processed,
			"written":   out.written,
			"skipped":   out.skipped,
		}).Info("stage completed")
	}
	return nil
}

// Run plans and executes synchronously.
func (r *Runner) Run(ctx context.Context, stage string, input io.Reader) ([]*models.StageRun, error) {
	planned, err := r.Plan(ctx, stage)
	if err != nil {
		return nil, err
	}
	return planned, r.Execute(ctx, planned, input)
}

func (r *Runner) fail(ctx context.Context, run *models.StageRun, cause error) {
	if err := r.runs.Fail(context.WithoutCancel(ctx), run, cause); err != nil {
		config.LogError(r.logger, "pipeline", "fail", "record failed run", run.ID.String(), err)
	}
}

func (r *Runner) dispatch(ctx context.Context, stage string, input io.Reader) (outcome, error) {
	switch stage {
	case models.StageExtract:
		var res extraction.Result
		var err error
		if input != nil {
			res, err = r.services.Extract.Run(ctx, input)
		} else {
			res, err = r.services.Extract.RunFile(ctx, r.inputPath)
		}
		return outcome{res.Blocks, res.Inserted, res.Duplicates + res.Skipped + res.Failed, res}, err
	case models.StageMatch:
		res, err := r.services.Match.Run(ctx)
		return outcome{res.LineItems, res.Mapped, res.Unmapped, res}, err
	case models.StageRates:
		res, err := r.services.Rates.Run(ctx)
		return outcome{res.Documents, res.Codes, res.NoCategory, res}, err
	case models.StageReview:
		res, err := r.services.Review.Run(ctx)
		return outcome{res.Documents, res.Reviewed, res.Skipped, res}, err
	}
	return outcome{}, fmt.Errorf("%w: %q", ErrUnknownStage, stage)
}
