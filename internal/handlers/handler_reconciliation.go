package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
)

// reconciliationHandler handles HTTP requests for reconciliation sessions.
type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

// registerReconciliationRoutes registers routes related to reconciliation sessions.
func registerReconciliationRoutes(rg *gin.RouterGroup, reconciliationService portssvc.ReconciliationSvcFacade) {
	h := &reconciliationHandler{reconciliationService: reconciliationService}

	sessions := rg.Group("/reconciliations")
	{
		sessions.POST("", h.createSession)
		sessions.GET("/:id", h.getSession)
		sessions.PUT("/:id", h.updateSession)
		sessions.POST("/:id/complete", h.completeSession)
		sessions.POST("/:id/reopen", h.reopenSession)
		sessions.GET("/:id/suggestions", h.suggestMatches)
	}
}

// createSession godoc
// @Summary Start a reconciliation session
// @Description Opens a pending session over a statement window; a bank account holds at most one pending session
// @Tags reconciliations
// @Accept  json
// @Produce  json
// @Param   session body dto.CreateReconciliationSessionRequest true "Session details"
// @Success 201 {object} dto.ReconciliationSessionResponse
// @Failure 400 {object} map[string]string "End date before start date"
// @Failure 409 {object} map[string]string "A pending session already exists; payload carries its ID"
// @Security BearerAuth
// @Router /reconciliations [post]
func (h *reconciliationHandler) createSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateReconciliationSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateSession", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	session, err := h.reconciliationService.CreateSession(c.Request.Context(), req, userID)
	if err != nil {
		var pendingErr *portsrepo.PendingSessionExistsError
		if errors.As(err, &pendingErr) {
			logger.Warn("Pending session already exists",
				slog.String("bank_account_id", req.BankAccountID),
				slog.String("existing_session_id", pendingErr.ExistingSessionID))
			c.JSON(http.StatusConflict, gin.H{
				"error":             pendingErr.Error(),
				"existingSessionID": pendingErr.ExistingSessionID,
			})
			return
		}
		respondWithError(c, logger, err, "Failed to create reconciliation session")
		return
	}

	c.JSON(http.StatusCreated, dto.ToReconciliationSessionResponse(session))
}

// getSession godoc
// @Summary Get a reconciliation session by ID
// @Tags reconciliations
// @Produce  json
// @Param   id path string true "Session ID"
// @Success 200 {object} dto.ReconciliationSessionResponse
// @Failure 404 {object} map[string]string "Session not found"
// @Security BearerAuth
// @Router /reconciliations/{id} [get]
func (h *reconciliationHandler) getSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	session, err := h.reconciliationService.GetSessionByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve reconciliation session")
		return
	}

	c.JSON(http.StatusOK, dto.ToReconciliationSessionResponse(session))
}

// updateSession godoc
// @Summary Update a pending session's window
// @Description Adjusts the end date or statement balance of a session still pending
// @Tags reconciliations
// @Accept  json
// @Produce  json
// @Param   id path string true "Session ID"
// @Param   session body dto.UpdateReconciliationSessionRequest true "Fields to update"
// @Success 200 {object} dto.ReconciliationSessionResponse
// @Failure 409 {object} map[string]string "Session is not pending"
// @Security BearerAuth
// @Router /reconciliations/{id} [put]
func (h *reconciliationHandler) updateSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateReconciliationSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	session, err := h.reconciliationService.UpdateSession(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update reconciliation session")
		return
	}

	c.JSON(http.StatusOK, dto.ToReconciliationSessionResponse(session))
}

// completeSession godoc
// @Summary Complete a reconciliation session
// @Description Completes a pending session once no unmatched bank transactions remain in its window
// @Tags reconciliations
// @Produce  json
// @Param   id path string true "Session ID"
// @Success 200 {object} dto.ReconciliationSessionResponse
// @Failure 409 {object} map[string]string "Unmatched transactions remain"
// @Security BearerAuth
// @Router /reconciliations/{id}/complete [post]
func (h *reconciliationHandler) completeSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	session, err := h.reconciliationService.CompleteSession(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to complete reconciliation session")
		return
	}

	c.JSON(http.StatusOK, dto.ToReconciliationSessionResponse(session))
}

// reopenSession godoc
// @Summary Reopen a completed session
// @Tags reconciliations
// @Produce  json
// @Param   id path string true "Session ID"
// @Success 200 {object} dto.ReconciliationSessionResponse
// @Failure 409 {object} map[string]string "Session is not completed"
// @Security BearerAuth
// @Router /reconciliations/{id}/reopen [post]
func (h *reconciliationHandler) reopenSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	session, err := h.reconciliationService.ReopenSession(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to reopen reconciliation session")
		return
	}

	c.JSON(http.StatusOK, dto.ToReconciliationSessionResponse(session))
}

// suggestMatches godoc
// @Summary Suggest matches for a session's unmatched transactions
// @Description Proposes posted journal lines for unmatched bank transactions, scored by amount, date proximity and description similarity
// @Tags reconciliations
// @Produce  json
// @Param   id path string true "Session ID"
// @Success 200 {array} dto.MatchSuggestionResponse
// @Failure 404 {object} map[string]string "Session not found"
// @Security BearerAuth
// @Router /reconciliations/{id}/suggestions [get]
func (h *reconciliationHandler) suggestMatches(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	suggestions, err := h.reconciliationService.SuggestMatches(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to suggest matches")
		return
	}

	c.JSON(http.StatusOK, dto.ToMatchSuggestionResponses(suggestions))
}
