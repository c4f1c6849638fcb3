package dto

import (
	"time"

	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateUserAccountRequest defines the data needed to open a user account.
// Accounts always open with a zero balance; funds arrive via a deposit.
type CreateUserAccountRequest struct {
	AccountNumber string                 `json:"accountNumber" binding:"required"`
	HolderName    string                 `json:"holderName" binding:"required"`
	AccountType   domain.UserAccountType `json:"accountType" binding:"required,oneof=SB FD"`
	InterestRate  decimal.Decimal        `json:"interestRate"`
	OpeningDate   time.Time              `json:"openingDate" time_format:"2006-01-02"`
}

// UpdateUserAccountRequest defines the data allowed for updating a user account.
type UpdateUserAccountRequest struct {
	HolderName   *string          `json:"holderName"`
	InterestRate *decimal.Decimal `json:"interestRate"`
}

// UserAccountStatusRequest defines a status transition for a user account.
type UserAccountStatusRequest struct {
	Status domain.UserAccountStatus `json:"status" binding:"required,oneof=ACTIVE FROZEN CLOSED"`
}

// UserAccountResponse defines the data returned for a user account.
type UserAccountResponse struct {
	UserAccountID       string                   `json:"userAccountID"`
	AccountNumber       string                   `json:"accountNumber"`
	HolderName          string                   `json:"holderName"`
	AccountType         domain.UserAccountType   `json:"accountType"`
	Balance             decimal.Decimal          `json:"balance"`
	InterestRate        decimal.Decimal          `json:"interestRate"`
	Status              domain.UserAccountStatus `json:"status"`
	OpeningDate         time.Time                `json:"openingDate"`
	LastTransactionDate *time.Time               `json:"lastTransactionDate,omitempty"`
	CreatedAt           time.Time                `json:"createdAt"`
	CreatedBy           string                   `json:"createdBy"`
	LastUpdatedAt       time.Time                `json:"lastUpdatedAt"`
	LastUpdatedBy       string                   `json:"lastUpdatedBy"`
}

// ToUserAccountResponse converts a domain.UserAccount to its response DTO.
func ToUserAccountResponse(acc *domain.UserAccount) UserAccountResponse {
	return UserAccountResponse{
		UserAccountID:       acc.UserAccountID,
		AccountNumber:       acc.AccountNumber,
		HolderName:          acc.HolderName,
		AccountType:         acc.AccountType,
		Balance:             acc.Balance,
		InterestRate:        acc.InterestRate,
		Status:              acc.Status,
		OpeningDate:         acc.OpeningDate,
		LastTransactionDate: acc.LastTransactionDate,
		CreatedAt:           acc.CreatedAt,
		CreatedBy:           acc.CreatedBy,
		LastUpdatedAt:       acc.LastUpdatedAt,
		LastUpdatedBy:       acc.LastUpdatedBy,
	}
}

// ListUserAccountsParams defines query parameters for listing user accounts.
type ListUserAccountsParams struct {
	Status *string `form:"status" binding:"omitempty,oneof=ACTIVE FROZEN CLOSED"`
	Limit  int     `form:"limit,default=20"`
	Offset int     `form:"offset,default=0"`
}

// ListUserAccountsResponse wraps the list of user accounts.
type ListUserAccountsResponse struct {
	Accounts []UserAccountResponse `json:"accounts"`
}

// ToListUserAccountsResponse converts a slice of domain.UserAccount to the list DTO.
func ToListUserAccountsResponse(accounts []domain.UserAccount) ListUserAccountsResponse {
	res := make([]UserAccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToUserAccountResponse(&acc)
	}
	return ListUserAccountsResponse{Accounts: res}
}
