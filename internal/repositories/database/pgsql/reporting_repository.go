package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	portsrepo "github.com/notcool100/astrofinance-ledger/internal/core/ports/repositories"
	"github.com/notcool100/astrofinance-ledger/internal/models"
	"github.com/shopspring/decimal"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// Ensure reportingRepository implements portsrepo.ReportingRepository
var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// GetTrialBalanceData aggregates posted debits and credits per ledger account
// up to and including asOf. Lines of reversed entries stay in: the
// compensating entry cancels them arithmetically, which is exactly what a
// trial balance should show. NetBalance is left for the service to derive
// from the account's normal side.
func (r *reportingRepository) GetTrialBalanceData(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT
			a.account_id,
			a.code AS account_code,
			a.name AS account_name,
			a.account_type,
			COALESCE(SUM(l.debit), 0) AS total_debit,
			COALESCE(SUM(l.credit), 0) AS total_credit
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		JOIN ledger_accounts a ON a.account_id = l.account_id
		WHERE e.entry_date <= $1
			AND e.status <> '` + string(models.Draft) + `'
		GROUP BY a.account_id, a.code, a.name, a.account_type
		ORDER BY a.code;
	`

	rows, err := r.Pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("error querying trial balance data: %w", err)
	}
	defer rows.Close()

	results := []domain.TrialBalanceRow{}
	for rows.Next() {
		var row domain.TrialBalanceRow
		var accountType string
		if err := rows.Scan(
			&row.AccountID,
			&row.AccountCode,
			&row.AccountName,
			&accountType,
			&row.Debit,
			&row.Credit,
		); err != nil {
			return nil, fmt.Errorf("error scanning trial balance row: %w", err)
		}
		row.AccountType = domain.AccountType(accountType)
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trial balance rows: %w", err)
	}

	return results, nil
}

// GetAccountActivity aggregates posted debits and credits for one ledger
// account within a date range. An account with no postings yields zeros.
func (r *reportingRepository) GetAccountActivity(ctx context.Context, accountID string, from time.Time, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(l.debit), 0) AS total_debit,
			COALESCE(SUM(l.credit), 0) AS total_credit
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.account_id = $1
			AND e.entry_date >= $2 AND e.entry_date <= $3
			AND e.status <> '` + string(models.Draft) + `';
	`

	var debit, credit decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, accountID, from, to).Scan(&debit, &credit); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("error querying account activity for %s: %w", accountID, err)
	}

	return debit, credit, nil
}
