package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/notcool100/astrofinance-ledger/internal/apperrors"
	portssvc "github.com/notcool100/astrofinance-ledger/internal/core/ports/services"
	"github.com/notcool100/astrofinance-ledger/internal/core/services"
	"github.com/notcool100/astrofinance-ledger/internal/dto"
	"github.com/notcool100/astrofinance-ledger/internal/middleware"
)

// transactionHandler handles HTTP requests for account transactions and
// their reversals.
type transactionHandler struct {
	txnService      portssvc.TransactionSvcFacade
	reversalService portssvc.ReversalSvcFacade
}

func newTransactionHandler(txnService portssvc.TransactionSvcFacade, reversalService portssvc.ReversalSvcFacade) *transactionHandler {
	return &transactionHandler{
		txnService:      txnService,
		reversalService: reversalService,
	}
}

// RegisterTransactionRoutes registers routes related to account transactions.
func RegisterTransactionRoutes(rg *gin.RouterGroup, txnService portssvc.TransactionSvcFacade, reversalService portssvc.ReversalSvcFacade) {
	h := newTransactionHandler(txnService, reversalService)

	txns := rg.Group("/transactions")
	{
		txns.POST("/deposit", h.deposit)
		txns.POST("/withdraw", h.withdraw)
		txns.POST("/transfer", h.transfer)
		txns.POST("/interest-credit", h.creditInterest)
		txns.POST("/fee-debit", h.chargeFee)
		txns.POST("/adjustment", h.adjust)
		txns.GET("/pending-journal", h.listPendingJournal)
		txns.POST("/repost-journal", h.repostPendingJournal)
		txns.GET("/number/:number", h.getTransactionByNumber)
		txns.GET("/reference/:reference", h.listTransactionsByReference)
		txns.GET("/:id", h.getTransaction)
		txns.POST("/:id/reverse", h.reverseTransaction)
	}
}

// respondTransactionError maps money-movement service errors onto HTTP statuses.
// All six transaction kinds share one failure surface.
func respondTransactionError(c *gin.Context, logger *slog.Logger, err error, operation string) {
	if errors.Is(err, apperrors.ErrValidation) {
		logger.Warn("Validation error in "+operation, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrInsufficientBalance) {
		logger.Warn("Insufficient balance in "+operation, slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrAccountNotActive) ||
		errors.Is(err, apperrors.ErrDayBookClosed) ||
		errors.Is(err, services.ErrStaleReversal) ||
		errors.Is(err, apperrors.ErrConflict) {
		logger.Warn("Conflict in "+operation, slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else {
		logger.Error("Failed to process "+operation, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process " + operation})
	}
}

// deposit godoc
// @Summary Deposit cash into a user account
// @Description Credits the account, updates the running balance and posts the journal entry
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   deposit body dto.DepositRequest true "Deposit details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User account not found"
// @Failure 409 {object} map[string]string "Account not active, day book closed or no mapping configured"
// @Failure 500 {object} map[string]string "Failed to process deposit"
// @Security BearerAuth
// @Router /transactions/deposit [post]
func (h *transactionHandler) deposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	actingStaffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.txnService.Deposit(c.Request.Context(), req, actingStaffID)
	if err != nil {
		respondTransactionError(c, logger, err, "deposit")
		return
	}

	logger.Info("Deposit applied", slog.String("transaction_number", txn.TransactionNumber))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// withdraw godoc
// @Summary Withdraw cash from a user account
// @Description Debits the account after checking the balance covers the amount
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   withdrawal body dto.WithdrawRequest true "Withdrawal details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User account not found"
// @Failure 409 {object} map[string]string "Account not active or day book closed"
// @Failure 422 {object} map[string]string "Insufficient balance"
// @Failure 500 {object} map[string]string "Failed to process withdrawal"
// @Security BearerAuth
// @Router /transactions/withdraw [post]
func (h *transactionHandler) withdraw(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	actingStaffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.txnService.Withdraw(c.Request.Context(), req, actingStaffID)
	if err != nil {
		respondTransactionError(c, logger, err, "withdrawal")
		return
	}

	logger.Info("Withdrawal applied", slog.String("transaction_number", txn.TransactionNumber))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// transfer godoc
// @Summary Transfer funds between two user accounts
// @Description Books both legs atomically under one shared reference, outgoing leg first
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transfer body dto.TransferRequest true "Transfer details"
// @Success 201 {array} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User account not found"
// @Failure 409 {object} map[string]string "Account not active or day book closed"
// @Failure 422 {object} map[string]string "Insufficient balance on the source account"
// @Failure 500 {object} map[string]string "Failed to process transfer"
// @Security BearerAuth
// @Router /transactions/transfer [post]
func (h *transactionHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	actingStaffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	legs, err := h.txnService.Transfer(c.Request.Context(), req, actingStaffID)
	if err != nil {
		respondTransactionError(c, logger, err, "transfer")
		return
	}

	logger.Info("Transfer applied", slog.Int("legs", len(legs)))
	c.JSON(http.StatusCreated, dto.ToTransactionResponses(legs))
}

// creditInterest godoc
// @Summary Credit interest to a user account
// @Description Credits accrued interest without moving physical cash
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   interest body dto.InterestCreditRequest true "Interest credit details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User account not found"
// @Failure 409 {object} map[string]string "Account not active or day book closed"
// @Failure 500 {object} map[string]string "Failed to process interest credit"
// @Security BearerAuth
// @Router /transactions/interest-credit [post]
func (h *transactionHandler) creditInterest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.InterestCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	actingStaffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.txnService.CreditInterest(c.Request.Context(), req, actingStaffID)
	if err != nil {
		respondTransactionError(c, logger, err, "interest credit")
		return
	}

	logger.Info("Interest credited", slog.String("transaction_number", txn.TransactionNumber))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// chargeFee godoc
// @Summary Charge a fee to a user account
// @Description Debits a fee without moving physical cash
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   fee body dto.FeeDebitRequest true "Fee debit details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User account not found"
// @Failure 409 {object} map[string]string "Account not active or day book closed"
// @Failure 422 {object} map[string]string "Insufficient balance"
// @Failure 500 {object} map[string]string "Failed to process fee debit"
// @Security BearerAuth
// @Router /transactions/fee-debit [post]
func (h *transactionHandler) chargeFee(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.FeeDebitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	actingStaffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.txnService.ChargeFee(c.Request.Context(), req, actingStaffID)
	if err != nil {
		respondTransactionError(c, logger, err, "fee debit")
		return
	}

	logger.Info("Fee charged", slog.String("transaction_number", txn.TransactionNumber))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// adjust godoc
// @Summary Apply a signed adjustment to a user account
// @Description Applies a correction; negative amounts post with the sides swapped
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   adjustment body dto.AdjustmentRequest true "Adjustment details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input or zero amount"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User account not found"
// @Failure 409 {object} map[string]string "Account not active or day book closed"
// @Failure 422 {object} map[string]string "Adjustment would overdraw the account"
// @Failure 500 {object} map[string]string "Failed to process adjustment"
// @Security BearerAuth
// @Router /transactions/adjustment [post]
func (h *transactionHandler) adjust(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.AdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	actingStaffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.txnService.Adjust(c.Request.Context(), req, actingStaffID)
	if err != nil {
		respondTransactionError(c, logger, err, "adjustment")
		return
	}

	logger.Info("Adjustment applied", slog.String("transaction_number", txn.TransactionNumber))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// getTransaction godoc
// @Summary Get a transaction by ID
// @Description Retrieves a specific account transaction
// @Tags transactions
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to retrieve transaction"
// @Security BearerAuth
// @Router /transactions/{id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	txn, err := h.txnService.GetTransactionByID(c.Request.Context(), transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		} else {
			logger.Error("Failed to get transaction from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve transaction"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// getTransactionByNumber godoc
// @Summary Get a transaction by number
// @Description Retrieves a transaction by its human-readable number (e.g. TXN20240106-0001)
// @Tags transactions
// @Produce  json
// @Param   number path string true "Transaction number"
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to retrieve transaction"
// @Security BearerAuth
// @Router /transactions/number/{number} [get]
func (h *transactionHandler) getTransactionByNumber(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionNumber := c.Param("number")

	txn, err := h.txnService.GetTransactionByNumber(c.Request.Context(), transactionNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		} else {
			logger.Error("Failed to get transaction by number", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve transaction"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// listTransactionsByReference godoc
// @Summary List transactions sharing a reference
// @Description Retrieves a transaction family: both transfer legs plus any compensating reversals
// @Tags transactions
// @Produce  json
// @Param   reference path string true "Shared reference token"
// @Success 200 {array} dto.TransactionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to retrieve transactions"
// @Security BearerAuth
// @Router /transactions/reference/{reference} [get]
func (h *transactionHandler) listTransactionsByReference(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reference := c.Param("reference")

	txns, err := h.txnService.ListTransactionsByReference(c.Request.Context(), reference)
	if err != nil {
		logger.Error("Failed to list transactions by reference", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve transactions"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponses(txns))
}

// reverseTransaction godoc
// @Summary Reverse a transaction
// @Description Books compensating transactions; reversing one transfer leg reverses the pair
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Param   reversal body dto.ReverseTransactionRequest true "Reversal reason"
// @Success 201 {array} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Missing reason"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Already reversed, outside the window or day book closed"
// @Failure 422 {object} map[string]string "Reversal would overdraw the account"
// @Failure 500 {object} map[string]string "Failed to reverse transaction"
// @Security BearerAuth
// @Router /transactions/{id}/reverse [post]
func (h *transactionHandler) reverseTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	var req dto.ReverseTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	actingStaffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	compensators, err := h.reversalService.ReverseTransaction(c.Request.Context(), transactionID, req, actingStaffID)
	if err != nil {
		respondTransactionError(c, logger, err, "reversal")
		return
	}

	logger.Info("Transaction reversed",
		slog.String("transaction_id", transactionID),
		slog.Int("compensators", len(compensators)))
	c.JSON(http.StatusCreated, dto.ToTransactionResponses(compensators))
}

// listPendingJournal godoc
// @Summary List transactions awaiting journal posting
// @Description Retrieves applied transactions whose journal entry has not been posted yet
// @Tags transactions
// @Produce  json
// @Param   limit query int false "Maximum number of transactions" default(50)
// @Success 200 {array} dto.TransactionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list pending transactions"
// @Security BearerAuth
// @Router /transactions/pending-journal [get]
func (h *transactionHandler) listPendingJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	pending, err := h.txnService.ListPendingJournal(c.Request.Context(), limit)
	if err != nil {
		logger.Error("Failed to list pending journal transactions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list pending transactions"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponses(pending))
}

// repostPendingJournal godoc
// @Summary Repost journal entries for pending transactions
// @Description Posts journal entries for transactions left pending by an earlier failure
// @Tags transactions
// @Produce  json
// @Param   limit query int false "Maximum number of transactions to process" default(50)
// @Success 200 {object} map[string]int "Number of journal entries posted"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to repost journal entries"
// @Security BearerAuth
// @Router /transactions/repost-journal [post]
func (h *transactionHandler) repostPendingJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	actingStaffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	posted, err := h.txnService.RepostPendingJournal(c.Request.Context(), limit, actingStaffID)
	if err != nil {
		logger.Error("Failed to repost pending journal entries", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to repost journal entries"})
		return
	}

	logger.Info("Pending journal entries reposted", slog.Int("posted", posted))
	c.JSON(http.StatusOK, gin.H{"posted": posted})
}
