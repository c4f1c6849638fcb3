package dto

import (
	"time"

	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
)

// CreateLedgerAccountRequest defines the data needed to create a ledger account.
type CreateLedgerAccountRequest struct {
	Code            string             `json:"code" binding:"required,max=40"`
	Name            string             `json:"name" binding:"required"`
	AccountType     domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	ParentAccountID *string            `json:"parentAccountID"` // Optional, use pointer for nullability
	Description     string             `json:"description"`     // Optional
}

// UpdateLedgerAccountRequest defines the data allowed for updating a ledger account.
// Use pointers to distinguish between zero-value updates and fields not provided.
// Code and AccountType are immutable once created.
type UpdateLedgerAccountRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// LedgerAccountResponse defines the data returned for a ledger account.
type LedgerAccountResponse struct {
	AccountID       string             `json:"accountID"`
	Code            string             `json:"code"`
	Name            string             `json:"name"`
	AccountType     domain.AccountType `json:"accountType"`
	ParentAccountID string             `json:"parentAccountID"` // Empty string if null in DB
	Description     string             `json:"description"`
	IsActive        bool               `json:"isActive"`
	CreatedAt       time.Time          `json:"createdAt"`
	CreatedBy       string             `json:"createdBy"`
	LastUpdatedAt   time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy   string             `json:"lastUpdatedBy"`
}

// ToLedgerAccountResponse converts a domain.LedgerAccount to its response DTO.
func ToLedgerAccountResponse(acc *domain.LedgerAccount) LedgerAccountResponse {
	return LedgerAccountResponse{
		AccountID:       acc.AccountID,
		Code:            acc.Code,
		Name:            acc.Name,
		AccountType:     acc.AccountType,
		ParentAccountID: acc.ParentAccountID,
		Description:     acc.Description,
		IsActive:        acc.IsActive,
		CreatedAt:       acc.CreatedAt,
		CreatedBy:       acc.CreatedBy,
		LastUpdatedAt:   acc.LastUpdatedAt,
		LastUpdatedBy:   acc.LastUpdatedBy,
	}
}

// ListLedgerAccountsParams defines query parameters for listing ledger accounts.
type ListLedgerAccountsParams struct {
	Limit  int `form:"limit,default=50"`
	Offset int `form:"offset,default=0"`
}

// ListLedgerAccountsResponse wraps the list of ledger accounts.
type ListLedgerAccountsResponse struct {
	Accounts []LedgerAccountResponse `json:"accounts"`
}

// ToListLedgerAccountsResponse converts a slice of domain.LedgerAccount to the list DTO.
func ToListLedgerAccountsResponse(accounts []domain.LedgerAccount) ListLedgerAccountsResponse {
	res := make([]LedgerAccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToLedgerAccountResponse(&acc)
	}
	return ListLedgerAccountsResponse{Accounts: res}
}
