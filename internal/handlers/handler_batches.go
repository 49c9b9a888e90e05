package handlers

import (
	"errors"
	"net/http"

	"github.com/SscSPs/finance_batch_pipeline/internal/apperrors"
	"github.com/SscSPs/finance_batch_pipeline/internal/core/domain"
	portssvc "github.com/SscSPs/finance_batch_pipeline/internal/core/ports/services"
	"github.com/SscSPs/finance_batch_pipeline/internal/dto"
	"github.com/SscSPs/finance_batch_pipeline/internal/middleware"
	"github.com/gin-gonic/gin"
)

const apiSource = "api"

// batchHandler handles HTTP requests that submit batches.
type batchHandler struct {
	batchService portssvc.BatchWriterSvc
	policy       domain.ValidationPolicy
}

// newBatchHandler creates a new batchHandler.
func newBatchHandler(bs portssvc.BatchWriterSvc, policy domain.ValidationPolicy) *batchHandler {
	return &batchHandler{
		batchService: bs,
		policy:       policy,
	}
}

// RegisterBatchRoutes registers routes related to batch submission.
// policy is the configured policy that request overrides are applied to.
func RegisterBatchRoutes(rg *gin.RouterGroup, batchService portssvc.BatchWriterSvc, policy domain.ValidationPolicy) {
	h := newBatchHandler(batchService, policy)

	batches := rg.Group("/batches")
	{
		batches.POST("", h.submitBatch)
	}
}

// submitBatch godoc
// @Summary Submit a transaction batch
// @Description Validates a batch of transaction rows, applies the rejection threshold gate and aggregates the clean rows.
// @Description A batch that fails the gate in STRICT mode is still recorded and returned with status 422.
// @Tags batches
// @Accept  json
// @Produce  json
// @Param   batch body dto.SubmitBatchRequest true "Batch rows and optional policy overrides"
// @Success 201 {object} dto.BatchResponse
// @Failure 400 {object} map[string]string "Invalid input, schema error or invalid policy"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 422 {object} dto.BatchResponse "Rejection threshold breached in STRICT mode"
// @Failure 500 {object} map[string]string "Failed to process batch"
// @Security BearerAuth
// @Router /batches [post]
func (h *batchHandler) submitBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var req dto.SubmitBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn().Err(err).Msg("Failed to bind JSON for SubmitBatch")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	policy, err := req.Policy.ApplyTo(h.policy)
	if err != nil {
		logger.Warn().Err(err).Msg("Invalid policy override")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid policy: " + err.Error()})
		return
	}

	records, err := req.ToRecordSet()
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to decode batch rows")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rows: " + err.Error()})
		return
	}

	source := req.Source
	if source == "" {
		source = apiSource
	}
	logger.Info().Str("source", source).Int("rows", records.Len()).Str("mode", string(policy.Mode)).Msg("Received batch")

	outcome, err := h.batchService.ProcessBatch(c.Request.Context(), domain.BatchRequest{
		Source:  source,
		Records: records,
		Policy:  policy,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrThresholdBreached) && outcome != nil:
			logger.Warn().Str("run_id", outcome.Run.RunID).Msg("Batch failed the rejection threshold")
			c.JSON(http.StatusUnprocessableEntity, dto.ToBatchResponse(outcome))
		case errors.Is(err, apperrors.ErrSchema), errors.Is(err, apperrors.ErrValidation):
			logger.Warn().Err(err).Msg("Batch rejected")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error().Err(err).Msg("Failed to process batch")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process batch"})
		}
		return
	}

	logger.Info().Str("run_id", outcome.Run.RunID).Str("decision", string(outcome.Run.Decision)).Msg("Batch processed successfully")
	c.JSON(http.StatusCreated, dto.ToBatchResponse(outcome))
}
