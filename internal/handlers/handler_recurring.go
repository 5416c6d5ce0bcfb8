package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
)

// recurringHandler handles HTTP requests for recurring journal schedules.
type recurringHandler struct {
	recurringService portssvc.RecurringSvcFacade
}

// registerRecurringRoutes registers routes related to recurring journals.
func registerRecurringRoutes(rg *gin.RouterGroup, recurringService portssvc.RecurringSvcFacade) {
	h := &recurringHandler{recurringService: recurringService}

	recurring := rg.Group("/recurring-journals")
	{
		recurring.POST("", h.createRecurringJournal)
		recurring.GET("", h.listRecurringJournals)
		recurring.GET("/:id", h.getRecurringJournal)
		recurring.PATCH("/:id", h.patchRecurringJournal)
		recurring.POST("/generate", h.generateDueJournals)
	}
}

// createRecurringJournal godoc
// @Summary Create a recurring journal schedule
// @Description Attaches a generation schedule to an existing template journal
// @Tags recurring-journals
// @Accept  json
// @Produce  json
// @Param   schedule body dto.CreateRecurringJournalRequest true "Schedule details"
// @Success 201 {object} dto.RecurringJournalResponse
// @Failure 400 {object} map[string]string "Invalid schedule"
// @Failure 404 {object} map[string]string "Template journal not found"
// @Security BearerAuth
// @Router /recurring-journals [post]
func (h *recurringHandler) createRecurringJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateRecurringJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateRecurringJournal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	schedule, err := h.recurringService.CreateRecurringJournal(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create recurring journal")
		return
	}

	c.JSON(http.StatusCreated, dto.ToRecurringJournalResponse(schedule))
}

// getRecurringJournal godoc
// @Summary Get a recurring journal schedule by ID
// @Tags recurring-journals
// @Produce  json
// @Param   id path string true "Recurring journal ID"
// @Success 200 {object} dto.RecurringJournalResponse
// @Failure 404 {object} map[string]string "Schedule not found"
// @Security BearerAuth
// @Router /recurring-journals/{id} [get]
func (h *recurringHandler) getRecurringJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	schedule, err := h.recurringService.GetRecurringJournalByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve recurring journal")
		return
	}

	c.JSON(http.StatusOK, dto.ToRecurringJournalResponse(schedule))
}

// listRecurringJournals godoc
// @Summary List recurring journal schedules
// @Tags recurring-journals
// @Produce  json
// @Param   activeOnly query bool false "Only active schedules"
// @Success 200 {array} dto.RecurringJournalResponse
// @Security BearerAuth
// @Router /recurring-journals [get]
func (h *recurringHandler) listRecurringJournals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	schedules, err := h.recurringService.ListRecurringJournals(c.Request.Context(), c.Query("activeOnly") == "true")
	if err != nil {
		respondWithError(c, logger, err, "Failed to list recurring journals")
		return
	}

	responses := make([]dto.RecurringJournalResponse, len(schedules))
	for i := range schedules {
		responses[i] = dto.ToRecurringJournalResponse(&schedules[i])
	}
	c.JSON(http.StatusOK, responses)
}

// patchRecurringJournal godoc
// @Summary Patch a recurring journal schedule
// @Description Updates schedule fields; only the fields present in the payload change
// @Tags recurring-journals
// @Accept  json
// @Produce  json
// @Param   id path string true "Recurring journal ID"
// @Param   patch body dto.PatchRecurringJournalRequest true "Fields to change"
// @Success 200 {object} dto.RecurringJournalResponse
// @Failure 400 {object} map[string]string "End date before start date"
// @Security BearerAuth
// @Router /recurring-journals/{id} [patch]
func (h *recurringHandler) patchRecurringJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.PatchRecurringJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	schedule, err := h.recurringService.PatchRecurringJournal(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to patch recurring journal")
		return
	}

	c.JSON(http.StatusOK, dto.ToRecurringJournalResponse(schedule))
}

// generateDueJournals godoc
// @Summary Generate due journals from recurring schedules
// @Description Creates draft journals for every occurrence due up to asOf. Safe to call repeatedly; already generated occurrences are skipped.
// @Tags recurring-journals
// @Produce  json
// @Param   asOf query string false "Generation cutoff (RFC 3339), defaults to now"
// @Success 200 {object} dto.GenerateDueResponse
// @Security BearerAuth
// @Router /recurring-journals/generate [post]
func (h *recurringHandler) generateDueJournals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asOf := time.Now()
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asOf, expected RFC 3339 timestamp"})
			return
		}
		asOf = parsed
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	generated, err := h.recurringService.GenerateDueJournals(c.Request.Context(), asOf, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to generate due journals")
		return
	}

	c.JSON(http.StatusOK, dto.GenerateDueResponse{Generated: generated})
}
