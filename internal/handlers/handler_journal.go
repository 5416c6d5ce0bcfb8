package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
)

// journalHandler handles HTTP requests for the journal store and period locks.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// registerJournalRoutes registers routes related to journals and period locks.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := &journalHandler{journalService: journalService}

	journals := rg.Group("/journals")
	{
		journals.POST("", h.createJournal)
		journals.GET("", h.listJournals)
		journals.GET("/:id", h.getJournal)
		journals.PUT("/:id", h.updateJournal)
		journals.DELETE("/:id", h.deleteJournal)
		journals.POST("/:id/post", h.postJournal)
		journals.POST("/:id/unpost", h.unpostJournal)
		journals.POST("/:id/reverse", h.reverseJournal)
		journals.GET("/:id/audit-events", h.listAuditEvents)
	}

	locks := rg.Group("/period-locks")
	{
		locks.POST("", h.lockPeriod)
		locks.GET("", h.listPeriodLocks)
		locks.DELETE("/:period", h.unlockPeriod)
	}
}

// createJournal godoc
// @Summary Create a draft journal
// @Description Creates a balanced draft journal with its lines
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   journal body dto.CreateJournalRequest true "Journal details"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} map[string]string "Invalid input or unbalanced lines"
// @Security BearerAuth
// @Router /journals [post]
func (h *journalHandler) createJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateJournal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	journal, err := h.journalService.CreateDraft(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create journal")
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalResponse(journal))
}

// getJournal godoc
// @Summary Get a journal by ID
// @Tags journals
// @Produce  json
// @Param   id path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 404 {object} map[string]string "Journal not found"
// @Security BearerAuth
// @Router /journals/{id} [get]
func (h *journalHandler) getJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	journal, err := h.journalService.GetJournalByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve journal")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// listJournals godoc
// @Summary List journals
// @Description Lists journals with token pagination, newest first
// @Tags journals
// @Produce  json
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Param   includeReversals query bool false "Include reversing journals"
// @Param   includeLines query bool false "Embed journal lines"
// @Success 200 {object} dto.ListJournalsResponse
// @Security BearerAuth
// @Router /journals [get]
func (h *journalHandler) listJournals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	params := dto.ListJournalsParams{
		Limit:            limit,
		IncludeReversals: c.Query("includeReversals") == "true",
		IncludeLines:     c.Query("includeLines") == "true",
	}
	if token := c.Query("nextToken"); token != "" {
		params.NextToken = &token
	}

	resp, err := h.journalService.ListJournals(c.Request.Context(), params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list journals")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// updateJournal godoc
// @Summary Update a draft journal
// @Description Revises a draft journal; lines, when present, replace the existing set
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   id path string true "Journal ID"
// @Param   journal body dto.UpdateJournalRequest true "Fields to update"
// @Success 200 {object} dto.JournalResponse
// @Failure 409 {object} map[string]string "Journal is not a draft"
// @Security BearerAuth
// @Router /journals/{id} [put]
func (h *journalHandler) updateJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	journal, err := h.journalService.UpdateJournal(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update journal")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// deleteJournal godoc
// @Summary Delete a draft journal
// @Description Soft-deletes a draft journal with no dependent bank transactions
// @Tags journals
// @Param   id path string true "Journal ID"
// @Success 204 "No Content"
// @Failure 409 {object} map[string]string "Journal is posted or has dependents"
// @Security BearerAuth
// @Router /journals/{id} [delete]
func (h *journalHandler) deleteJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.journalService.DeleteJournal(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondWithError(c, logger, err, "Failed to delete journal")
		return
	}

	c.Status(http.StatusNoContent)
}

// postJournal godoc
// @Summary Post a journal
// @Description Moves a draft journal to POSTED after balance and period checks
// @Tags journals
// @Produce  json
// @Param   id path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 403 {object} map[string]string "Accounting period is locked"
// @Failure 409 {object} map[string]string "Journal is not a draft"
// @Security BearerAuth
// @Router /journals/{id}/post [post]
func (h *journalHandler) postJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	journal, err := h.journalService.PostJournal(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to post journal")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// unpostJournal godoc
// @Summary Unpost a journal
// @Description Moves a posted journal back to DRAFT; reversed journals cannot be unposted
// @Tags journals
// @Produce  json
// @Param   id path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 409 {object} map[string]string "Journal is not posted or has been reversed"
// @Security BearerAuth
// @Router /journals/{id}/unpost [post]
func (h *journalHandler) unpostJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	journal, err := h.journalService.UnpostJournal(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to unpost journal")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// reverseJournal godoc
// @Summary Reverse a posted journal
// @Description Creates and posts a reversing journal with debits and credits swapped
// @Tags journals
// @Produce  json
// @Param   id path string true "Journal ID"
// @Success 201 {object} dto.JournalResponse
// @Failure 409 {object} map[string]string "Journal is not posted or already reversed"
// @Security BearerAuth
// @Router /journals/{id}/reverse [post]
func (h *journalHandler) reverseJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reversing, err := h.journalService.ReverseJournal(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to reverse journal")
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalResponse(reversing))
}

// listAuditEvents godoc
// @Summary List a journal's audit trail
// @Tags journals
// @Produce  json
// @Param   id path string true "Journal ID"
// @Success 200 {array} domain.AuditEvent
// @Failure 404 {object} map[string]string "Journal not found"
// @Security BearerAuth
// @Router /journals/{id}/audit-events [get]
func (h *journalHandler) listAuditEvents(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	events, err := h.journalService.ListAuditEvents(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to list audit events")
		return
	}

	c.JSON(http.StatusOK, events)
}

// lockPeriod godoc
// @Summary Lock an accounting period
// @Description Closes a YYYY-MM period for posting
// @Tags period-locks
// @Accept  json
// @Param   lock body dto.LockPeriodRequest true "Period to lock"
// @Success 201 "Created"
// @Failure 409 {object} map[string]string "Period already locked"
// @Security BearerAuth
// @Router /period-locks [post]
func (h *journalHandler) lockPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LockPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.journalService.LockPeriod(c.Request.Context(), req.Period, userID); err != nil {
		respondWithError(c, logger, err, "Failed to lock period")
		return
	}

	c.Status(http.StatusCreated)
}

// unlockPeriod godoc
// @Summary Unlock an accounting period
// @Tags period-locks
// @Param   period path string true "Period (YYYY-MM)"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Period is not locked"
// @Security BearerAuth
// @Router /period-locks/{period} [delete]
func (h *journalHandler) unlockPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if err := h.journalService.UnlockPeriod(c.Request.Context(), c.Param("period")); err != nil {
		respondWithError(c, logger, err, "Failed to unlock period")
		return
	}

	c.Status(http.StatusNoContent)
}

// listPeriodLocks godoc
// @Summary List locked accounting periods
// @Tags period-locks
// @Produce  json
// @Success 200 {array} domain.PeriodLock
// @Security BearerAuth
// @Router /period-locks [get]
func (h *journalHandler) listPeriodLocks(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	locks, err := h.journalService.ListPeriodLocks(c.Request.Context())
	if err != nil {
		respondWithError(c, logger, err, "Failed to list period locks")
		return
	}

	c.JSON(http.StatusOK, locks)
}
