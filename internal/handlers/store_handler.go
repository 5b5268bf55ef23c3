package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"invoice-reconciliation-backend/internal/config"
	"invoice-reconciliation-backend/internal/export"
	"invoice-reconciliation-backend/internal/models"
	"invoice-reconciliation-backend/internal/repository"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// StoreHandler serves read-only views of the store.
type StoreHandler struct {
	documentRepo *repository.DocumentRepository
	reviewRepo   *repository.ReviewRepository
	exporter     *export.Service
	logger       *logrus.Logger
}

func NewStoreHandler(documentRepo *repository.DocumentRepository, reviewRepo *repository.ReviewRepository, exporter *export.Service, logger *logrus.Logger) *StoreHandler {
	return &StoreHandler{documentRepo: documentRepo, reviewRepo: reviewRepo, exporter: exporter, logger: logger}
}

func (h *StoreHandler) ListDocuments(c *gin.Context) {
	if !h.documentRepo.DB().Migrator().HasTable(&models.Document{}) {
		c.JSON(http.StatusOK, gin.H{"data": []models.Document{}})
		return
	}
	docs, err := h.documentRepo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": docs})
}

func (h *StoreHandler) ListItems(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document ID"})
		return
	}
	doc, err := h.documentRepo.GetByID(c.Request.Context(), uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"document": doc.DocNo, "data": doc.LineItems})
}

func (h *StoreHandler) ListReviews(c *gin.Context) {
	status := c.Query("status")
	if status != "" && status != "passed" && status != "failed" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be passed or failed"})
		return
	}
	if !h.documentRepo.DB().Migrator().HasTable(&models.ReviewRecord{}) {
		c.JSON(http.StatusOK, gin.H{"data": []models.ReviewRecord{}})
		return
	}
	reviews, err := h.reviewRepo.ListReviews(c.Request.Context(), status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": reviews})
}

func (h *StoreHandler) Export(c *gin.Context) {
	data, err := h.exporter.ExportXLSX(c.Request.Context())
	if err != nil {
		config.LogError(h.logger, "handler", "Export", "build workbook", nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="invoices_data.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}
