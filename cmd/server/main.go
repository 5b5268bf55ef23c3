package main

import (
	"context"
	"time"

	"invoice-reconciliation-backend/internal/config"
	"invoice-reconciliation-backend/internal/routes"
	"invoice-reconciliation-backend/internal/services/pipeline"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	logger := config.NewLogger(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Fatal(err)
	}

	db, err := config.InitDB(cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect database")
	}

	rdb, err := config.NewRedisClient(context.Background(), cfg.Redis)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect redis")
	}
	if rdb != nil {
		defer rdb.Close()
		logger.WithField("addr", cfg.Redis.Addr).Info("connected to redis")
	}

	runner := pipeline.NewFromConfig(cfg, db, rdb, logger)

	r := gin.Default()
	// CORS config
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Server.CORSOrigin},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, db, runner, logger)

	logger.WithField("addr", cfg.Server.Addr).Info("listening")
	if err := r.Run(cfg.Server.Addr); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
