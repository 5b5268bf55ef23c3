package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"invoice-reconciliation-backend/internal/config"
	"invoice-reconciliation-backend/internal/export"
	"invoice-reconciliation-backend/internal/services/pipeline"
)

func main() {
	stage := flag.String("stage", pipeline.StageAll, "stage to run: extract, match, rates, review or all")
	input := flag.String("input", "", "extracted text file (defaults to INPUT_TEXT_PATH)")
	out := flag.String("out", "", "write the workbook export to this path after the run")
	flag.Parse()

	cfg := config.Load()
	if *input != "" {
		cfg.Files.InputText = *input
	}
	logger := config.NewLogger(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := config.InitDB(cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect database")
	}
	rdb, err := config.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect redis")
	}
	if rdb != nil {
		defer rdb.Close()
	}

	runner := pipeline.NewFromConfig(cfg, db, rdb, logger)
	runs, err := runner.Run(ctx, *stage, nil)
	for _, run := range runs {
		logger.WithFields(logrus.Fields{
			"stage":     run.Stage,
			"status":    run.Status,
			"processed": run.ProcessedCount,
			"written":   run.WrittenCount,
			"skipped":   run.SkippedCount,
		}).Info("stage run")
	}
	if err != nil {
		logger.WithError(err).Error("pipeline failed")
		os.Exit(1)
	}

	if *out != "" {
		if err := export.NewService(db, logger).SaveAs(ctx, *out); err != nil {
			logger.WithError(err).Fatal("export failed")
		}
		logger.WithField("path", *out).Info("workbook written")
	}
}
