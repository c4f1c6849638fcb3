package dto

import (
	"time"

	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DepositRequest defines the data needed to deposit cash into a user account.
type DepositRequest struct {
	UserAccountID string          `json:"userAccountID" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Description   string          `json:"description" binding:"required"`
	Reference     string          `json:"reference"`
}

// WithdrawRequest defines the data needed to withdraw cash from a user account.
type WithdrawRequest struct {
	UserAccountID string          `json:"userAccountID" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Description   string          `json:"description" binding:"required"`
	Reference     string          `json:"reference"`
}

// TransferRequest defines the data needed to move funds between two user
// accounts. Both legs share one generated reference.
type TransferRequest struct {
	FromUserAccountID string          `json:"fromUserAccountID" binding:"required"`
	ToUserAccountID   string          `json:"toUserAccountID" binding:"required"`
	Amount            decimal.Decimal `json:"amount" binding:"required"`
	Description       string          `json:"description" binding:"required"`
}

// InterestCreditRequest defines the data needed to credit interest.
type InterestCreditRequest struct {
	UserAccountID string          `json:"userAccountID" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Description   string          `json:"description" binding:"required"`
	Reference     string          `json:"reference"`
}

// FeeDebitRequest defines the data needed to charge a fee.
type FeeDebitRequest struct {
	UserAccountID string          `json:"userAccountID" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Description   string          `json:"description" binding:"required"`
	Reference     string          `json:"reference"`
}

// AdjustmentRequest defines the data needed for a signed balance correction.
// Amount may be negative; the posting sides swap accordingly.
type AdjustmentRequest struct {
	UserAccountID string          `json:"userAccountID" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Description   string          `json:"description" binding:"required"`
	Reference     string          `json:"reference"`
}

// ReverseTransactionRequest defines the data needed to reverse a transaction.
type ReverseTransactionRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// TransactionResponse defines the data returned for an account transaction.
type TransactionResponse struct {
	TransactionID           string                 `json:"transactionID"`
	TransactionNumber       string                 `json:"transactionNumber"`
	UserAccountID           string                 `json:"userAccountID"`
	Kind                    domain.TransactionKind `json:"kind"`
	Amount                  decimal.Decimal        `json:"amount"`
	RunningBalance          decimal.Decimal        `json:"runningBalance"`
	Description             string                 `json:"description"`
	Reference               string                 `json:"reference,omitempty"`
	JournalEntryID          string                 `json:"journalEntryID,omitempty"`
	JournalPending          bool                   `json:"journalPending"`
	DayBookID               string                 `json:"dayBookID"`
	IsReversal              bool                   `json:"isReversal"`
	ReversesTransactionID   string                 `json:"reversesTransactionID,omitempty"`
	ReversedByTransactionID string                 `json:"reversedByTransactionID,omitempty"`
	ReversedAt              *time.Time             `json:"reversedAt,omitempty"`
	ReversalReason          string                 `json:"reversalReason,omitempty"`
	CreatedAt               time.Time              `json:"createdAt"`
	CreatedBy               string                 `json:"createdBy"`
}

// ToTransactionResponse converts a domain.AccountTransaction to its response DTO.
func ToTransactionResponse(txn *domain.AccountTransaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:           txn.TransactionID,
		TransactionNumber:       txn.TransactionNumber,
		UserAccountID:           txn.UserAccountID,
		Kind:                    txn.Kind,
		Amount:                  txn.Amount,
		RunningBalance:          txn.RunningBalance,
		Description:             txn.Description,
		Reference:               txn.Reference,
		JournalEntryID:          txn.JournalEntryID,
		JournalPending:          txn.JournalPending,
		DayBookID:               txn.DayBookID,
		IsReversal:              txn.IsReversal,
		ReversesTransactionID:   txn.ReversesTransactionID,
		ReversedByTransactionID: txn.ReversedByTransactionID,
		ReversedAt:              txn.ReversedAt,
		ReversalReason:          txn.ReversalReason,
		CreatedAt:               txn.CreatedAt,
		CreatedBy:               txn.CreatedBy,
	}
}

// ToTransactionResponses converts a slice of domain.AccountTransaction.
func ToTransactionResponses(txns []domain.AccountTransaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		responses[i] = ToTransactionResponse(&txn)
	}
	return responses
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}
