package dto

import (
	"time"

	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineInput is one posting side in a PostJournalEntryRequest. Exactly
// one of Debit or Credit must be positive; the service enforces this.
type JournalLineInput struct {
	AccountCode string          `json:"accountCode" binding:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// PostJournalEntryRequest defines the data needed to post a balanced journal
// entry. DayBookID and ReversesEntryID are filled by callers inside the
// service layer, not bound from requests.
type PostJournalEntryRequest struct {
	EntryDate       time.Time          `json:"entryDate" binding:"required" time_format:"2006-01-02"`
	Narration       string             `json:"narration" binding:"required"`
	Reference       string             `json:"reference"`
	Lines           []JournalLineInput `json:"lines" binding:"required,min=2,dive"`
	DayBookID       string             `json:"-"`
	ReversesEntryID *string            `json:"-"`
}

// ReverseJournalEntryRequest carries the reason for reversing a journal entry.
type ReverseJournalEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID      string          `json:"lineID"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID           string                `json:"entryID"`
	EntryNumber       string                `json:"entryNumber"`
	EntryDate         time.Time             `json:"entryDate"`
	Narration         string                `json:"narration"`
	Reference         string                `json:"reference"`
	Status            domain.EntryStatus    `json:"status"`
	DayBookID         string                `json:"dayBookID"`
	ReversesEntryID   string                `json:"reversesEntryID,omitempty"`
	ReversedByEntryID string                `json:"reversedByEntryID,omitempty"`
	CreatedAt         time.Time             `json:"createdAt"`
	CreatedBy         string                `json:"createdBy"`
	Lines             []JournalLineResponse `json:"lines"`
}

// ToJournalLineResponse converts a domain.JournalLine to its response DTO.
func ToJournalLineResponse(l *domain.JournalLine) JournalLineResponse {
	return JournalLineResponse{
		LineID:      l.LineID,
		AccountID:   l.AccountID,
		AccountCode: l.AccountCode,
		Debit:       l.Debit,
		Credit:      l.Credit,
		Description: l.Description,
	}
}

// ToJournalEntryResponse converts a domain.JournalEntry (with lines) to its
// response DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	lines := make([]JournalLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = ToJournalLineResponse(&l)
	}
	return JournalEntryResponse{
		EntryID:           e.EntryID,
		EntryNumber:       e.EntryNumber,
		EntryDate:         e.EntryDate,
		Narration:         e.Narration,
		Reference:         e.Reference,
		Status:            e.Status,
		DayBookID:         e.DayBookID,
		ReversesEntryID:   e.ReversesEntryID,
		ReversedByEntryID: e.ReversedByEntryID,
		CreatedAt:         e.CreatedAt,
		CreatedBy:         e.CreatedBy,
		Lines:             lines,
	}
}

// ListJournalEntriesParams defines query parameters for listing journal entries.
type ListJournalEntriesParams struct {
	From            time.Time `form:"from" time_format:"2006-01-02"`
	To              time.Time `form:"to" time_format:"2006-01-02"`
	IncludeReversed bool      `form:"includeReversed,default=false"`
	Limit           int       `form:"limit,default=20"`
	NextToken       *string   `form:"nextToken"`
}

// ListJournalEntriesResponse wraps a page of journal entries.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}
