package repositories

import (
	"context"
	"time"

	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingRepository defines aggregate queries over posted journal lines
type ReportingRepository interface {
	// GetTrialBalanceData aggregates posted debits and credits per ledger
	// account up to and including the given date.
	GetTrialBalanceData(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error)

	// GetAccountActivity aggregates posted debits and credits for one ledger
	// account within a date range.
	GetAccountActivity(ctx context.Context, accountID string, from time.Time, to time.Time) (debit, credit decimal.Decimal, err error)
}
