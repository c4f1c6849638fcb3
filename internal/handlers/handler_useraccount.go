package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notcool100/astrofinance-ledger/internal/apperrors"
	portssvc "github.com/notcool100/astrofinance-ledger/internal/core/ports/services"
	"github.com/notcool100/astrofinance-ledger/internal/dto"
	"github.com/notcool100/astrofinance-ledger/internal/middleware"
)

// userAccountHandler handles HTTP requests related to user accounts.
type userAccountHandler struct {
	accountService portssvc.UserAccountSvcFacade
	txnService     portssvc.TransactionReaderSvc
}

func newUserAccountHandler(accountService portssvc.UserAccountSvcFacade, txnService portssvc.TransactionReaderSvc) *userAccountHandler {
	return &userAccountHandler{
		accountService: accountService,
		txnService:     txnService,
	}
}

// RegisterUserAccountRoutes registers routes related to user accounts.
func RegisterUserAccountRoutes(rg *gin.RouterGroup, accountService portssvc.UserAccountSvcFacade, txnService portssvc.TransactionReaderSvc) {
	h := newUserAccountHandler(accountService, txnService)

	accounts := rg.Group("/user-accounts")
	{
		accounts.POST("", h.createUserAccount)
		accounts.GET("", h.listUserAccounts)
		accounts.GET("/number/:number", h.getUserAccountByNumber)
		accounts.GET("/:id", h.getUserAccount)
		accounts.PUT("/:id", h.updateUserAccount)
		accounts.PUT("/:id/status", h.setUserAccountStatus)
		accounts.GET("/:id/transactions", h.listAccountTransactions)
	}
}

// createUserAccount godoc
// @Summary Open a user account
// @Description Opens a new user account with a zero balance
// @Tags user-accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateUserAccountRequest true "Account details"
// @Success 201 {object} dto.UserAccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Account number already exists"
// @Failure 500 {object} map[string]string "Failed to open account"
// @Security BearerAuth
// @Router /user-accounts [post]
func (h *userAccountHandler) createUserAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateUserAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createUserAccount", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	creatorStaffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.accountService.CreateUserAccount(c.Request.Context(), req, creatorStaffID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create user account in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open user account"})
		}
		return
	}

	logger.Info("User account opened", slog.String("account_number", account.AccountNumber))
	c.JSON(http.StatusCreated, dto.ToUserAccountResponse(account))
}

// getUserAccount godoc
// @Summary Get a user account by ID
// @Description Retrieves a user account with its current balance
// @Tags user-accounts
// @Produce  json
// @Param   id path string true "User account ID"
// @Success 200 {object} dto.UserAccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve account"
// @Security BearerAuth
// @Router /user-accounts/{id} [get]
func (h *userAccountHandler) getUserAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userAccountID := c.Param("id")

	account, err := h.accountService.GetUserAccountByID(c.Request.Context(), userAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User account not found"})
		} else {
			logger.Error("Failed to get user account from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user account"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToUserAccountResponse(account))
}

// getUserAccountByNumber godoc
// @Summary Get a user account by account number
// @Description Retrieves a user account by its business account number
// @Tags user-accounts
// @Produce  json
// @Param   number path string true "Account number"
// @Success 200 {object} dto.UserAccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve account"
// @Security BearerAuth
// @Router /user-accounts/number/{number} [get]
func (h *userAccountHandler) getUserAccountByNumber(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountNumber := c.Param("number")

	account, err := h.accountService.GetUserAccountByNumber(c.Request.Context(), accountNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User account not found"})
		} else {
			logger.Error("Failed to get user account by number", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user account"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToUserAccountResponse(account))
}

// listUserAccounts godoc
// @Summary List user accounts
// @Description Retrieves a paginated list of user accounts, optionally filtered by status
// @Tags user-accounts
// @Produce  json
// @Param   status query string false "Filter by status (ACTIVE, FROZEN, CLOSED)"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListUserAccountsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list accounts"
// @Security BearerAuth
// @Router /user-accounts [get]
func (h *userAccountHandler) listUserAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListUserAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.accountService.ListUserAccounts(c.Request.Context(), params)
	if err != nil {
		logger.Error("Failed to list user accounts", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list user accounts"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// updateUserAccount godoc
// @Summary Update a user account
// @Description Updates holder details and interest rate. Balance can only move through transactions.
// @Tags user-accounts
// @Accept  json
// @Produce  json
// @Param   id path string true "User account ID"
// @Param   account body dto.UpdateUserAccountRequest true "Fields to update"
// @Success 200 {object} dto.UserAccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to update account"
// @Security BearerAuth
// @Router /user-accounts/{id} [put]
func (h *userAccountHandler) updateUserAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userAccountID := c.Param("id")

	var req dto.UpdateUserAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	actingStaffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.accountService.UpdateUserAccount(c.Request.Context(), userAccountID, req, actingStaffID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User account not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update user account in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user account"})
		}
		return
	}

	logger.Info("User account updated", slog.String("user_account_id", userAccountID))
	c.JSON(http.StatusOK, dto.ToUserAccountResponse(account))
}

// setUserAccountStatus godoc
// @Summary Change a user account's status
// @Description Transitions an account between ACTIVE, FROZEN and CLOSED. Closing requires a zero balance.
// @Tags user-accounts
// @Accept  json
// @Produce  json
// @Param   id path string true "User account ID"
// @Param   status body dto.UserAccountStatusRequest true "Target status"
// @Success 200 {object} dto.UserAccountResponse
// @Failure 400 {object} map[string]string "Invalid status"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Nonzero balance or account already closed"
// @Failure 500 {object} map[string]string "Failed to change status"
// @Security BearerAuth
// @Router /user-accounts/{id}/status [put]
func (h *userAccountHandler) setUserAccountStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userAccountID := c.Param("id")

	var req dto.UserAccountStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	actingStaffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.accountService.SetUserAccountStatus(c.Request.Context(), userAccountID, req, actingStaffID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User account not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Refused user account status change", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to change user account status", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change account status"})
		}
		return
	}

	logger.Info("User account status changed",
		slog.String("user_account_id", userAccountID),
		slog.String("status", string(account.Status)))
	c.JSON(http.StatusOK, dto.ToUserAccountResponse(account))
}

// listAccountTransactions godoc
// @Summary List a user account's transactions
// @Description Retrieves the account's transactions, newest first, with token-based pagination
// @Tags user-accounts
// @Produce  json
// @Param   id path string true "User account ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Security BearerAuth
// @Router /user-accounts/{id}/transactions [get]
func (h *userAccountHandler) listAccountTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userAccountID := c.Param("id")

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.txnService.ListTransactionsByAccount(c.Request.Context(), userAccountID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User account not found"})
		} else {
			logger.Error("Failed to list account transactions", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list transactions"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}
