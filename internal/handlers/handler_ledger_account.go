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

// ledgerAccountHandler handles HTTP requests related to the chart of accounts.
type ledgerAccountHandler struct {
	accountService portssvc.LedgerAccountSvcFacade
}

// newLedgerAccountHandler creates a new ledgerAccountHandler.
func newLedgerAccountHandler(accountService portssvc.LedgerAccountSvcFacade) *ledgerAccountHandler {
	return &ledgerAccountHandler{
		accountService: accountService,
	}
}

// RegisterLedgerAccountRoutes registers routes related to the chart of accounts.
func RegisterLedgerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.LedgerAccountSvcFacade) {
	h := newLedgerAccountHandler(accountService)

	accounts := rg.Group("/ledger-accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:id", h.getAccount)
		accounts.PUT("/:id", h.updateAccount)
		accounts.DELETE("/:id", h.deactivateAccount)
	}
}

// createAccount godoc
// @Summary Create a ledger account
// @Description Creates a new account in the chart of accounts
// @Tags ledger-accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateLedgerAccountRequest true "Account details"
// @Success 201 {object} dto.LedgerAccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Account code already exists"
// @Failure 500 {object} map[string]string "Failed to create account"
// @Security BearerAuth
// @Router /ledger-accounts [post]
func (h *ledgerAccountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateLedgerAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createAccount", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	creatorStaffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		logger.Error("Staff ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), req, creatorStaffID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating ledger account", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Parent account not found creating ledger account", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Duplicate ledger account code", slog.String("code", req.Code))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create ledger account in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create ledger account"})
		}
		return
	}

	logger.Info("Ledger account created", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToLedgerAccountResponse(account))
}

// getAccount godoc
// @Summary Get a ledger account by ID
// @Description Retrieves details for a specific ledger account
// @Tags ledger-accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.LedgerAccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve account"
// @Security BearerAuth
// @Router /ledger-accounts/{id} [get]
func (h *ledgerAccountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ledger account not found"})
		} else {
			logger.Error("Failed to get ledger account from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve ledger account"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToLedgerAccountResponse(account))
}

// listAccounts godoc
// @Summary List ledger accounts
// @Description Retrieves the chart of accounts, or one account when a code or name fragment is given
// @Tags ledger-accounts
// @Produce  json
// @Param   code query string false "Exact account code to look up"
// @Param   name query string false "Case-insensitive name fragment to resolve"
// @Param   limit query int false "Limit number of results" default(50)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListLedgerAccountsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No account matches the code or name"
// @Failure 500 {object} map[string]string "Failed to list accounts"
// @Security BearerAuth
// @Router /ledger-accounts [get]
func (h *ledgerAccountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	// An exact code lookup short-circuits the listing.
	if code := c.Query("code"); code != "" {
		account, err := h.accountService.GetAccountByCode(c.Request.Context(), code)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Ledger account not found"})
			} else {
				logger.Error("Failed to get ledger account by code", slog.String("error", err.Error()))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve ledger account"})
			}
			return
		}
		c.JSON(http.StatusOK, dto.ListLedgerAccountsResponse{
			Accounts: []dto.LedgerAccountResponse{dto.ToLedgerAccountResponse(account)},
		})
		return
	}

	// So does a fuzzy name lookup, for callers that only know display names.
	if text := c.Query("name"); text != "" {
		account, err := h.accountService.GetAccountByName(c.Request.Context(), text)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "No ledger account matches that name"})
			} else if errors.Is(err, apperrors.ErrValidation) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			} else {
				logger.Error("Failed to resolve ledger account by name", slog.String("error", err.Error()))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve ledger account"})
			}
			return
		}
		c.JSON(http.StatusOK, dto.ListLedgerAccountsResponse{
			Accounts: []dto.LedgerAccountResponse{dto.ToLedgerAccountResponse(account)},
		})
		return
	}

	var params dto.ListLedgerAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.accountService.ListAccounts(c.Request.Context(), params)
	if err != nil {
		logger.Error("Failed to list ledger accounts", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list ledger accounts"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// updateAccount godoc
// @Summary Update a ledger account
// @Description Updates the name or description of a ledger account. Code and type are immutable.
// @Tags ledger-accounts
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   account body dto.UpdateLedgerAccountRequest true "Fields to update"
// @Success 200 {object} dto.LedgerAccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to update account"
// @Security BearerAuth
// @Router /ledger-accounts/{id} [put]
func (h *ledgerAccountHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	var req dto.UpdateLedgerAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	actingStaffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), accountID, req, actingStaffID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ledger account not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update ledger account in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update ledger account"})
		}
		return
	}

	logger.Info("Ledger account updated", slog.String("account_id", accountID))
	c.JSON(http.StatusOK, dto.ToLedgerAccountResponse(account))
}

// deactivateAccount godoc
// @Summary Deactivate a ledger account
// @Description Deactivates a ledger account. Refused while a kind mapping still routes postings to it.
// @Tags ledger-accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 204 "Account deactivated"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Account referenced by a kind mapping"
// @Failure 500 {object} map[string]string "Failed to deactivate account"
// @Security BearerAuth
// @Router /ledger-accounts/{id} [delete]
func (h *ledgerAccountHandler) deactivateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	actingStaffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	err := h.accountService.DeactivateAccount(c.Request.Context(), accountID, actingStaffID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ledger account not found"})
		} else if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Refused to deactivate referenced ledger account", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to deactivate ledger account in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate ledger account"})
		}
		return
	}

	logger.Info("Ledger account deactivated", slog.String("account_id", accountID))
	c.Status(http.StatusNoContent)
}
