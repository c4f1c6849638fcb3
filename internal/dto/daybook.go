package dto

import (
	"time"

	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReconcileDayBookRequest carries the physical cash count for reconciliation.
type ReconcileDayBookRequest struct {
	PhysicalCashBalance decimal.Decimal `json:"physicalCashBalance" binding:"required"`
	Notes               string          `json:"notes"`
}

// DayBookResponse defines the data returned for a day book.
type DayBookResponse struct {
	DayBookID           string              `json:"dayBookID"`
	BookNumber          string              `json:"bookNumber"`
	TransactionDate     time.Time           `json:"transactionDate"`
	State               domain.DayBookState `json:"state"`
	OpeningBalance      decimal.Decimal     `json:"openingBalance"`
	ClosingBalance      decimal.Decimal     `json:"closingBalance"`
	SystemCashBalance   decimal.Decimal     `json:"systemCashBalance"`
	PhysicalCashBalance decimal.Decimal     `json:"physicalCashBalance"`
	DiscrepancyAmount   decimal.Decimal     `json:"discrepancyAmount"`
	ReconciliationNotes string              `json:"reconciliationNotes,omitempty"`
	IsReconciled        bool                `json:"isReconciled"`
	IsClosed            bool                `json:"isClosed"`
	ClosedBy            string              `json:"closedBy,omitempty"`
	ClosedAt            *time.Time          `json:"closedAt,omitempty"`
	CreatedAt           time.Time           `json:"createdAt"`
	CreatedBy           string              `json:"createdBy"`
}

// ToDayBookResponse converts a domain.DayBook to its response DTO.
func ToDayBookResponse(b *domain.DayBook) DayBookResponse {
	return DayBookResponse{
		DayBookID:           b.DayBookID,
		BookNumber:          b.BookNumber,
		TransactionDate:     b.TransactionDate,
		State:               b.State(),
		OpeningBalance:      b.OpeningBalance,
		ClosingBalance:      b.ClosingBalance,
		SystemCashBalance:   b.SystemCashBalance,
		PhysicalCashBalance: b.PhysicalCashBalance,
		DiscrepancyAmount:   b.DiscrepancyAmount,
		ReconciliationNotes: b.ReconciliationNotes,
		IsReconciled:        b.IsReconciled,
		IsClosed:            b.IsClosed,
		ClosedBy:            b.ClosedBy,
		ClosedAt:            b.ClosedAt,
		CreatedAt:           b.CreatedAt,
		CreatedBy:           b.CreatedBy,
	}
}

// ListDayBooksParams defines query parameters for listing day books.
type ListDayBooksParams struct {
	From   time.Time `form:"from" time_format:"2006-01-02"`
	To     time.Time `form:"to" time_format:"2006-01-02"`
	Limit  int       `form:"limit,default=31"`
	Offset int       `form:"offset,default=0"`
}

// ListDayBooksResponse wraps the list of day books.
type ListDayBooksResponse struct {
	DayBooks []DayBookResponse `json:"dayBooks"`
}

// ToListDayBooksResponse converts a slice of domain.DayBook to the list DTO.
func ToListDayBooksResponse(books []domain.DayBook) ListDayBooksResponse {
	res := make([]DayBookResponse, len(books))
	for i, b := range books {
		res[i] = ToDayBookResponse(&b)
	}
	return ListDayBooksResponse{DayBooks: res}
}
