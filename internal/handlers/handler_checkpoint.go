package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "bankbook/internal/core/ports/services"
	"bankbook/internal/dto"
	"bankbook/internal/middleware"
)

// checkpointHandler handles HTTP requests for checkpoints and reconciliation.
type checkpointHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

// newCheckpointHandler creates a new checkpointHandler.
func newCheckpointHandler(rs portssvc.ReconciliationSvcFacade) *checkpointHandler {
	return &checkpointHandler{reconciliationService: rs}
}

// registerCheckpointRoutes registers checkpoint and reconciliation routes,
// nested under the owning account.
func registerCheckpointRoutes(rg *gin.RouterGroup, reconciliationService portssvc.ReconciliationSvcFacade) {
	h := newCheckpointHandler(reconciliationService)

	account := rg.Group("/accounts/:accountID")
	{
		account.PUT("/checkpoints", h.upsertCheckpoint)
		account.GET("/checkpoints", h.listCheckpoints)
		account.DELETE("/checkpoints/:checkpointID", h.deleteCheckpoint)
		account.POST("/recalculate", h.recalculate)
		account.GET("/checkpoints/summary", h.checkpointSummary)
		account.GET("/flagged-transactions", h.listFlaggedTransactions)
	}
}

// upsertCheckpoint godoc
// @Summary Declare a statement balance
// @Description Creates or updates the checkpoint for the account at the given date, deriving the adjustment and synthetic transaction
// @Tags checkpoints
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   checkpoint body dto.UpsertCheckpointRequest true "Checkpoint details"
// @Success 200 {object} dto.CheckpointResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Account not found"
// @Router /accounts/{accountID}/checkpoints [put]
func (h *checkpointHandler) upsertCheckpoint(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	var req dto.UpsertCheckpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpsertCheckpoint", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		respondWithError(c, logger, err, "Failed to validate checkpoint request")
		return
	}

	date, err := dto.ParseDate(req.CheckpointDate)
	if err != nil {
		respondWithError(c, logger, err, "Failed to parse checkpoint date")
		return
	}

	checkpoint, err := h.reconciliationService.UpsertCheckpoint(c.Request.Context(), accountID, date, req.DeclaredBalance, req.Notes, actorFromRequest(c))
	if err != nil {
		respondWithError(c, logger, err, "Failed to upsert checkpoint")
		return
	}

	c.JSON(http.StatusOK, dto.ToCheckpointResponse(checkpoint))
}

// listCheckpoints godoc
// @Summary List checkpoints
// @Description Retrieves a paginated list of the account's checkpoints, newest first
// @Tags checkpoints
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   fromDate query string false "Earliest checkpoint date (YYYY-MM-DD)"
// @Param   toDate query string false "Latest checkpoint date (YYYY-MM-DD)"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListCheckpointsResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Router /accounts/{accountID}/checkpoints [get]
func (h *checkpointHandler) listCheckpoints(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	var params dto.ListCheckpointsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	from, to, err := params.DateRange()
	if err != nil {
		respondWithError(c, logger, err, "Failed to parse checkpoint date range")
		return
	}

	checkpoints, nextToken, err := h.reconciliationService.ListCheckpoints(c.Request.Context(), accountID, portssvc.ListCheckpointsOptions{
		FromDate:  from,
		ToDate:    to,
		Limit:     params.Limit,
		NextToken: params.NextToken,
	})
	if err != nil {
		respondWithError(c, logger, err, "Failed to list checkpoints")
		return
	}

	c.JSON(http.StatusOK, dto.ListCheckpointsResponse{
		Checkpoints: dto.ToCheckpointResponses(checkpoints),
		NextToken:   nextToken,
	})
}

// deleteCheckpoint godoc
// @Summary Delete a checkpoint
// @Description Removes a checkpoint and its synthetic transaction; later checkpoints are re-derived by a recalculation pass
// @Tags checkpoints
// @Param   accountID path string true "Account ID"
// @Param   checkpointID path string true "Checkpoint ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Checkpoint not found"
// @Router /accounts/{accountID}/checkpoints/{checkpointID} [delete]
func (h *checkpointHandler) deleteCheckpoint(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")
	checkpointID := c.Param("checkpointID")

	if err := h.reconciliationService.DeleteCheckpoint(c.Request.Context(), accountID, checkpointID, actorFromRequest(c)); err != nil {
		respondWithError(c, logger, err, "Failed to delete checkpoint")
		return
	}

	c.Status(http.StatusNoContent)
}

// recalculate godoc
// @Summary Recalculate checkpoints
// @Description Re-derives the selected checkpoints in ascending date order and reports what changed
// @Tags checkpoints
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   scope body dto.RecalculateRequest false "Optional date range or checkpoint IDs"
// @Success 200 {object} dto.RecalculateResponse
// @Failure 400 {object} map[string]string "Invalid scope"
// @Failure 404 {object} map[string]string "Account not found"
// @Router /accounts/{accountID}/recalculate [post]
func (h *checkpointHandler) recalculate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	var req dto.RecalculateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}
	if err := req.Validate(); err != nil {
		respondWithError(c, logger, err, "Failed to validate recalculate request")
		return
	}

	from, to, err := req.DateRange()
	if err != nil {
		respondWithError(c, logger, err, "Failed to parse recalculate date range")
		return
	}

	deltas, err := h.reconciliationService.Recalculate(c.Request.Context(), accountID, portssvc.RecalculateOptions{
		FromDate:      from,
		ToDate:        to,
		CheckpointIDs: req.CheckpointIDs,
	}, actorFromRequest(c))
	if err != nil {
		respondWithError(c, logger, err, "Failed to recalculate checkpoints")
		return
	}

	c.JSON(http.StatusOK, dto.RecalculateResponse{
		AccountID: accountID,
		Deltas:    dto.ToCheckpointDeltaResponses(deltas),
	})
}

// checkpointSummary godoc
// @Summary Summarize reconciliation state
// @Description Aggregates checkpoint counts and total adjustment for the account
// @Tags checkpoints
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.CheckpointSummaryResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Router /accounts/{accountID}/checkpoints/summary [get]
func (h *checkpointHandler) checkpointSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	summary, err := h.reconciliationService.CheckpointSummary(c.Request.Context(), accountID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to summarize checkpoints")
		return
	}

	c.JSON(http.StatusOK, dto.ToCheckpointSummaryResponse(summary))
}

// listFlaggedTransactions godoc
// @Summary List flagged transactions
// @Description Retrieves flagged ledger entries joined to the checkpoints that produced them
// @Tags checkpoints
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {array} dto.FlaggedTransactionResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Router /accounts/{accountID}/flagged-transactions [get]
func (h *checkpointHandler) listFlaggedTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	flagged, err := h.reconciliationService.ListFlaggedTransactions(c.Request.Context(), accountID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list flagged transactions")
		return
	}

	c.JSON(http.StatusOK, dto.ToFlaggedTransactionResponses(flagged))
}
