package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"invoice-reconciliation-backend/internal/common"
	"invoice-reconciliation-backend/internal/models"
	"invoice-reconciliation-backend/internal/repository"
	"invoice-reconciliation-backend/internal/services/pipeline"
)

type PipelineHandler struct {
	runner *pipeline.Runner
	runs   *repository.StageRunRepository
	logger *logrus.Logger
}

func NewPipelineHandler(runner *pipeline.Runner, runs *repository.StageRunRepository, logger *logrus.Logger) *PipelineHandler {
	return &PipelineHandler{runner: runner, runs: runs, logger: logger}
}

// Extract accepts an optional multipart "file"; without one the configured
// input path is read.
func (h *PipelineHandler) Extract(c *gin.Context) {
	var input io.Reader
	if file, _, err := c.Request.FormFile("file"); err == nil {
		defer file.Close()
		// the request body is gone once the handler returns
		data, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
			return
		}
		input = bytes.NewReader(data)
	}
	h.start(c, models.StageExtract, input)
}

// RunStage runs match, rates, review, or all.
func (h *PipelineHandler) RunStage(c *gin.Context) {
	h.start(c, c.Param("stage"), nil)
}

// start plans the runs and executes them in the background, or inline
// when the request asks to wait.
func (h *PipelineHandler) start(c *gin.Context, stage string, input io.Reader) {
	planned, err := h.runner.Plan(c.Request.Context(), stage)
	if errors.Is(err, pipeline.ErrUnknownStage) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if c.Query("wait") == "true" {
		err := h.runner.Execute(c.Request.Context(), planned, input)
		c.JSON(statusFor(err), gin.H{"runs": planned, "error": errorText(err)})
		return
	}

	go func() {
		_ = h.runner.Execute(context.Background(), planned, input)
	}()

	ids := make([]string, len(planned))
	for i, run := range planned {
		ids[i] = run.ID.String()
	}
	c.JSON(http.StatusAccepted, gin.H{
		"run_ids": ids,
		"status":  models.RunStatusPending,
	})
}

func (h *PipelineHandler) GetRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("runId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run ID"})
		return
	}
	run, err := h.runs.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	c.JSON(http.StatusOK, run)
}

func (h *PipelineHandler) ListRuns(c *gin.Context) {
	runs, err := h.runs.ListRecent(c.Request.Context(), 50)
	if err != nil {
		// no run has been planned yet
		c.JSON(http.StatusOK, gin.H{"data": []models.StageRun{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": runs})
}

func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, pipeline.ErrBusy):
		return http.StatusConflict
	case common.IsStructural(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func errorText(err error) any {
	if err == nil {
		return nil
	}
	return err.Error()
}
