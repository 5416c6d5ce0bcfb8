package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
)

// bankHandler handles HTTP requests for bank accounts and bank transactions.
type bankHandler struct {
	bankService           portssvc.BankSvcFacade
	reconciliationService portssvc.ReconciliationSvcFacade
}

// registerBankRoutes registers routes related to bank accounts and their transactions.
func registerBankRoutes(rg *gin.RouterGroup, bankService portssvc.BankSvcFacade, reconciliationService portssvc.ReconciliationSvcFacade) {
	h := &bankHandler{bankService: bankService, reconciliationService: reconciliationService}

	bankAccounts := rg.Group("/bank-accounts")
	{
		bankAccounts.POST("", h.createBankAccount)
		bankAccounts.GET("", h.listBankAccounts)
		bankAccounts.GET("/:id", h.getBankAccount)
		bankAccounts.GET("/:id/transactions", h.listBankTransactions)
		bankAccounts.GET("/:id/reconciliations", h.listReconciliations)
	}

	bankTransactions := rg.Group("/bank-transactions")
	{
		bankTransactions.POST("/import", h.importBankTransactions)
		bankTransactions.POST("/:id/status", h.setBankTransactionStatus)
	}
}

// createBankAccount godoc
// @Summary Register a bank account
// @Description Registers a bank account linked to an active GL account
// @Tags bank-accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateBankAccountRequest true "Bank account details"
// @Success 201 {object} dto.BankAccountResponse
// @Failure 400 {object} map[string]string "GL account missing or inactive"
// @Security BearerAuth
// @Router /bank-accounts [post]
func (h *bankHandler) createBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBankAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.bankService.CreateBankAccount(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create bank account")
		return
	}

	c.JSON(http.StatusCreated, dto.ToBankAccountResponse(account))
}

// getBankAccount godoc
// @Summary Get a bank account by ID
// @Tags bank-accounts
// @Produce  json
// @Param   id path string true "Bank account ID"
// @Success 200 {object} dto.BankAccountResponse
// @Failure 404 {object} map[string]string "Bank account not found"
// @Security BearerAuth
// @Router /bank-accounts/{id} [get]
func (h *bankHandler) getBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	account, err := h.bankService.GetBankAccountByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve bank account")
		return
	}

	c.JSON(http.StatusOK, dto.ToBankAccountResponse(account))
}

// listBankAccounts godoc
// @Summary List bank accounts
// @Tags bank-accounts
// @Produce  json
// @Success 200 {array} dto.BankAccountResponse
// @Security BearerAuth
// @Router /bank-accounts [get]
func (h *bankHandler) listBankAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accounts, err := h.bankService.ListBankAccounts(c.Request.Context())
	if err != nil {
		respondWithError(c, logger, err, "Failed to list bank accounts")
		return
	}

	responses := make([]dto.BankAccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = dto.ToBankAccountResponse(&accounts[i])
	}
	c.JSON(http.StatusOK, responses)
}

// listBankTransactions godoc
// @Summary List bank transactions for an account
// @Tags bank-accounts
// @Produce  json
// @Param   id path string true "Bank account ID"
// @Param   from query string false "Window start (RFC 3339)"
// @Param   to query string false "Window end (RFC 3339)"
// @Param   status query string false "Filter by status (UNMATCHED, MATCHED, CLEARED)"
// @Success 200 {array} dto.BankTransactionResponse
// @Security BearerAuth
// @Router /bank-accounts/{id}/transactions [get]
func (h *bankHandler) listBankTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	from, to, err := parseDateWindow(c.Query("from"), c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var status *domain.BankTransactionStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.BankTransactionStatus(raw)
		status = &s
	}

	txns, err := h.bankService.ListBankTransactions(c.Request.Context(), c.Param("id"), from, to, status)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list bank transactions")
		return
	}

	c.JSON(http.StatusOK, dto.ToBankTransactionResponses(txns))
}

// listReconciliations godoc
// @Summary List reconciliation sessions for a bank account
// @Tags bank-accounts
// @Produce  json
// @Param   id path string true "Bank account ID"
// @Success 200 {array} dto.ReconciliationSessionResponse
// @Security BearerAuth
// @Router /bank-accounts/{id}/reconciliations [get]
func (h *bankHandler) listReconciliations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	sessions, err := h.reconciliationService.ListSessionsByBankAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to list reconciliation sessions")
		return
	}

	responses := make([]dto.ReconciliationSessionResponse, len(sessions))
	for i := range sessions {
		responses[i] = dto.ToReconciliationSessionResponse(&sessions[i])
	}
	c.JSON(http.StatusOK, responses)
}

// importBankTransactions godoc
// @Summary Import bank transactions in bulk
// @Description Imports statement lines as UNMATCHED transactions under one batch ID
// @Tags bank-transactions
// @Accept  json
// @Produce  json
// @Param   import body dto.ImportBankTransactionsRequest true "Transactions to import"
// @Success 201 {object} dto.ImportBankTransactionsResponse
// @Failure 400 {object} map[string]string "Negative amount or unknown account"
// @Security BearerAuth
// @Router /bank-transactions/import [post]
func (h *bankHandler) importBankTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ImportBankTransactionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ImportBankTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.bankService.ImportBankTransactions(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to import bank transactions")
		return
	}

	c.JSON(http.StatusCreated, result)
}

// setBankTransactionStatusRequest carries the target status for a transition.
type setBankTransactionStatusRequest struct {
	Status domain.BankTransactionStatus `json:"status" binding:"required,oneof=UNMATCHED MATCHED CLEARED"`
}

// setBankTransactionStatus godoc
// @Summary Transition a bank transaction's match status
// @Description Moves a bank transaction along UNMATCHED, MATCHED, CLEARED; CLEARED is terminal
// @Tags bank-transactions
// @Accept  json
// @Produce  json
// @Param   id path string true "Bank transaction ID"
// @Param   status body setBankTransactionStatusRequest true "Target status"
// @Success 200 {object} dto.BankTransactionResponse
// @Failure 409 {object} map[string]string "Transition not allowed"
// @Security BearerAuth
// @Router /bank-transactions/{id}/status [post]
func (h *bankHandler) setBankTransactionStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req setBankTransactionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.bankService.SetBankTransactionStatus(c.Request.Context(), c.Param("id"), req.Status, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update bank transaction status")
		return
	}

	c.JSON(http.StatusOK, dto.ToBankTransactionResponse(txn))
}

// parseDateWindow parses optional from/to query values, defaulting to an
// unbounded window when absent.
func parseDateWindow(rawFrom, rawTo string) (time.Time, time.Time, error) {
	from := time.Time{}
	to := time.Now().AddDate(100, 0, 0)

	if rawFrom != "" {
		parsed, err := time.Parse(time.RFC3339, rawFrom)
		if err != nil {
			return from, to, errors.New("invalid from, expected RFC 3339 timestamp")
		}
		from = parsed
	}
	if rawTo != "" {
		parsed, err := time.Parse(time.RFC3339, rawTo)
		if err != nil {
			return from, to, errors.New("invalid to, expected RFC 3339 timestamp")
		}
		to = parsed
	}
	return from, to, nil
}
