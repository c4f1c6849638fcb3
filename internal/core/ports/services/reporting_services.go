package services

import (
	"context"
	"time"

	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
)

// ReportingService defines operations for generating financial reports
type ReportingService interface {
	// TrialBalance aggregates posted journal lines per ledger account as of a
	// specific date and checks that total debits equal total credits.
	TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error)

	// AccountActivity sums posted debits and credits for one ledger account
	// within a date range.
	AccountActivity(ctx context.Context, accountID string, from, to time.Time) (*domain.AccountActivity, error)
}
