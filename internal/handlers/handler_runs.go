package handlers

import (
	"errors"
	"net/http"

	"github.com/SscSPs/finance_batch_pipeline/internal/apperrors"
	portssvc "github.com/SscSPs/finance_batch_pipeline/internal/core/ports/services"
	"github.com/SscSPs/finance_batch_pipeline/internal/dto"
	"github.com/SscSPs/finance_batch_pipeline/internal/middleware"
	"github.com/gin-gonic/gin"
)

// runHandler handles HTTP requests related to recorded runs.
type runHandler struct {
	runService portssvc.RunReaderSvc
}

// RegisterRunRoutes registers routes related to recorded runs.
func RegisterRunRoutes(rg *gin.RouterGroup, runService portssvc.RunReaderSvc) {
	h := &runHandler{runService: runService}

	runs := rg.Group("/runs")
	{
		runs.GET("", h.listRuns)
		runs.GET("/:runID", h.getRun)
	}
}

// listRuns godoc
// @Summary List pipeline runs
// @Description Lists recorded runs, newest first, with token based pagination
// @Tags runs
// @Produce  json
// @Param   limit query int false "Page size (1-100, default 20)"
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListRunsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list runs"
// @Security BearerAuth
// @Router /runs [get]
func (h *runHandler) listRuns(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	var params dto.ListRunsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn().Err(err).Msg("Failed to bind query params for ListRuns")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.runService.ListRuns(c.Request.Context(), params.Limit, params.NextToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn().Err(err).Msg("Invalid pagination token")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error().Err(err).Msg("Failed to list runs from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list runs"})
		return
	}

	logger.Info().Int("count", len(page.Runs)).Msg("Runs listed successfully")
	c.JSON(http.StatusOK, dto.ToListRunsResponse(page))
}

// getRun godoc
// @Summary Get a run by ID
// @Description Retrieves the metrics and aggregates of one recorded run
// @Tags runs
// @Produce  json
// @Param   runID path string true "Run ID"
// @Success 200 {object} dto.RunResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Run not found"
// @Failure 500 {object} map[string]string "Failed to retrieve run"
// @Security BearerAuth
// @Router /runs/{runID} [get]
func (h *runHandler) getRun(c *gin.Context) {
	runID := c.Param("runID")
	logger := middleware.GetLoggerFromContext(c).With().Str("run_id", runID).Logger()

	run, err := h.runService.GetRun(c.Request.Context(), runID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn().Msg("Run not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
			return
		}
		logger.Error().Err(err).Msg("Failed to get run from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve run"})
		return
	}

	c.JSON(http.StatusOK, dto.ToRunResponse(run))
}
