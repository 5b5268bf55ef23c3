package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"invoice-reconciliation-backend/internal/export"
	handler "invoice-reconciliation-backend/internal/handlers"
	"invoice-reconciliation-backend/internal/repository"
	"invoice-reconciliation-backend/internal/services/pipeline"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, runner *pipeline.Runner, logger *logrus.Logger) {
	documentRepo := repository.NewDocumentRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	runRepo := repository.NewStageRunRepository(db)

	pipelineHandler := handler.NewPipelineHandler(runner, runRepo, logger)
	storeHandler := handler.NewStoreHandler(documentRepo, reviewRepo, export.NewService(db, logger), logger)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Pipeline stages
	stages := api.Group("/pipeline")
	stages.POST("/extract", pipelineHandler.Extract)
	stages.POST("/:stage", pipelineHandler.RunStage)

	// Stage run status
	runs := api.Group("/runs")
	runs.GET("", pipelineHandler.ListRuns)
	runs.GET("/:runId", pipelineHandler.GetRun)

	// Store views
	documents := api.Group("/documents")
	{
		documents.GET("", storeHandler.ListDocuments)
		documents.GET("/:id/items", storeHandler.ListItems)
	}
	api.GET("/reviews", storeHandler.ListReviews)
	api.GET("/export", storeHandler.Export)
}
