package services

import (
	"context"

	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	"github.com/notcool100/astrofinance-ledger/internal/dto"
)

// ReversalSvcFacade defines the reversal operation. A reversal books a
// compensating transaction and journal entry; originals are never edited.
type ReversalSvcFacade interface {
	// ReverseTransaction reverses a previously applied transaction within the
	// allowed window. Reversing one leg of a transfer reverses the whole pair.
	// Returns the compensating transactions, outgoing leg first for transfers.
	ReverseTransaction(ctx context.Context, transactionID string, req dto.ReverseTransactionRequest, actingStaffID string) ([]domain.AccountTransaction, error)
}
