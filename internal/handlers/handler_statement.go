package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
)

// statementHandler handles HTTP requests for statement ingestion and lookup.
type statementHandler struct {
	statementService portssvc.StatementSvcFacade
}

// registerStatementRoutes registers routes related to statement processing.
func registerStatementRoutes(rg *gin.RouterGroup, statementService portssvc.StatementSvcFacade) {
	h := &statementHandler{statementService: statementService}

	statements := rg.Group("/statements")
	{
		statements.POST("/process", h.processStatement)
		statements.GET("/lookup", h.lookupStatement)
	}
}

// processStatement godoc
// @Summary Process an incoming statement
// @Description Identifies the account, deduplicates by statement number, records the statement and optionally imports its transactions
// @Tags statements
// @Accept  json
// @Produce  json
// @Param   statement body dto.ProcessStatementRequest true "Statement details"
// @Success 200 {object} dto.ProcessStatementResponse
// @Failure 404 {object} map[string]string "Account could not be identified"
// @Security BearerAuth
// @Router /statements/process [post]
func (h *statementHandler) processStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ProcessStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ProcessStatement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.statementService.ProcessStatement(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to process statement")
		return
	}

	c.JSON(http.StatusOK, result)
}

// lookupStatement godoc
// @Summary Look up a statement record by identifiers
// @Description Finds a prior statement record by statement number, falling back to last-four digits
// @Tags statements
// @Produce  json
// @Param   statementNumber query string false "Statement number"
// @Param   lastFour query string false "Last four digits of the account number"
// @Success 200 {object} domain.StatementRecord
// @Failure 404 {object} map[string]string "No matching statement record"
// @Security BearerAuth
// @Router /statements/lookup [get]
func (h *statementHandler) lookupStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	statementNumber := c.Query("statementNumber")
	lastFour := c.Query("lastFour")
	if statementNumber == "" && lastFour == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "statementNumber or lastFour is required"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	record, err := h.statementService.FindByIdentifiers(c.Request.Context(), statementNumber, lastFour, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to look up statement record")
		return
	}

	c.JSON(http.StatusOK, record)
}
