package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/notcool100/astrofinance-ledger/internal/apperrors"
	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	portsrepo "github.com/notcool100/astrofinance-ledger/internal/core/ports/repositories"
	"github.com/notcool100/astrofinance-ledger/internal/models"
	"github.com/notcool100/astrofinance-ledger/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

type PgxDayBookRepository struct {
	BaseRepository
}

// newPgxDayBookRepository creates a new repository for daily cash books.
func newPgxDayBookRepository(pool *pgxpool.Pool) portsrepo.DayBookRepositoryFacade {
	return &PgxDayBookRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxDayBookRepository implements portsrepo.DayBookRepositoryFacade
var _ portsrepo.DayBookRepositoryFacade = (*PgxDayBookRepository)(nil)

const dayBookColumns = `day_book_id, book_number, transaction_date, opening_balance, closing_balance, system_cash_balance, physical_cash_balance, discrepancy_amount, reconciliation_notes, is_reconciled, is_closed, closed_by, closed_at, created_at, created_by, last_updated_at, last_updated_by`

func scanDayBook(row rowScanner) (models.DayBook, error) {
	var m models.DayBook
	var notes, closedBy sql.NullString
	err := row.Scan(
		&m.DayBookID,
		&m.BookNumber,
		&m.TransactionDate,
		&m.OpeningBalance,
		&m.ClosingBalance,
		&m.SystemCashBalance,
		&m.PhysicalCashBalance,
		&m.DiscrepancyAmount,
		&notes,
		&m.IsReconciled,
		&m.IsClosed,
		&closedBy,
		&m.ClosedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.DayBook{}, err
	}
	if notes.Valid {
		m.ReconciliationNotes = notes.String
	}
	if closedBy.Valid {
		m.ClosedBy = closedBy.String
	}
	return m, nil
}

// FindDayBookByID retrieves a day book by its ID.
func (r *PgxDayBookRepository) FindDayBookByID(ctx context.Context, dayBookID string) (*domain.DayBook, error) {
	query := `SELECT ` + dayBookColumns + ` FROM day_books WHERE day_book_id = $1;`

	m, err := scanDayBook(r.Pool.QueryRow(ctx, query, dayBookID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find day book by ID %s: %w", dayBookID, err)
	}

	d := mapping.ToDomainDayBook(m)
	return &d, nil
}

// FindDayBookByDate retrieves the day book for a business date.
func (r *PgxDayBookRepository) FindDayBookByDate(ctx context.Context, date time.Time) (*domain.DayBook, error) {
	query := `SELECT ` + dayBookColumns + ` FROM day_books WHERE transaction_date = $1;`

	m, err := scanDayBook(r.Pool.QueryRow(ctx, query, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find day book for date %s: %w", date.Format("2006-01-02"), err)
	}

	d := mapping.ToDomainDayBook(m)
	return &d, nil
}

// ListDayBooks retrieves day books within a date range, newest first.
func (r *PgxDayBookRepository) ListDayBooks(ctx context.Context, from time.Time, to time.Time, limit int, offset int) ([]domain.DayBook, error) {
	if limit <= 0 {
		limit = 31
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + dayBookColumns + `
		FROM day_books
		WHERE transaction_date >= $1 AND transaction_date <= $2
		ORDER BY transaction_date DESC
		LIMIT $3 OFFSET $4;
	`

	rows, err := r.Pool.Query(ctx, query, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query day books: %w", err)
	}
	defer rows.Close()

	books := []domain.DayBook{}
	for rows.Next() {
		m, err := scanDayBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan day book row: %w", err)
		}
		books = append(books, mapping.ToDomainDayBook(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating day book rows: %w", err)
	}

	return books, nil
}

// EnsureDayBook inserts the day book for its date unless one already exists,
// then returns the stored row. The unique constraint on transaction_date makes
// concurrent callers for the same date converge on a single book; a loser's
// prepared row (and its allocated book number) is simply discarded.
func (r *PgxDayBookRepository) EnsureDayBook(ctx context.Context, book domain.DayBook) (*domain.DayBook, error) {
	m := mapping.ToModelDayBook(book)

	insertQuery := `
		INSERT INTO day_books (` + dayBookColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (transaction_date) DO NOTHING;
	`

	var notes, closedBy sql.NullString
	if m.ReconciliationNotes != "" {
		notes = sql.NullString{String: m.ReconciliationNotes, Valid: true}
	}
	if m.ClosedBy != "" {
		closedBy = sql.NullString{String: m.ClosedBy, Valid: true}
	}

	_, err := r.Pool.Exec(ctx, insertQuery,
		m.DayBookID,
		m.BookNumber,
		m.TransactionDate,
		m.OpeningBalance,
		m.ClosingBalance,
		m.SystemCashBalance,
		m.PhysicalCashBalance,
		m.DiscrepancyAmount,
		notes,
		m.IsReconciled,
		m.IsClosed,
		closedBy,
		m.ClosedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure day book for date %s: %w", m.TransactionDate.Format("2006-01-02"), err)
	}

	stored, err := r.FindDayBookByDate(ctx, m.TransactionDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load day book after ensure for date %s: %w", m.TransactionDate.Format("2006-01-02"), err)
	}
	return stored, nil
}

// ReconcileDayBook records the physical cash count against an open day book.
// Reconciliation can be repeated while the book stays open; each run overwrites
// the previous count.
func (r *PgxDayBookRepository) ReconcileDayBook(ctx context.Context, dayBookID string, physicalCash decimal.Decimal, discrepancy decimal.Decimal, notes string, staffID string, now time.Time) error {
	query := `
		UPDATE day_books
		SET physical_cash_balance = $2,
			discrepancy_amount = $3,
			reconciliation_notes = $4,
			is_reconciled = TRUE,
			last_updated_at = $5,
			last_updated_by = $6
		WHERE day_book_id = $1 AND is_closed = FALSE;
	`

	var nullNotes sql.NullString
	if notes != "" {
		nullNotes = sql.NullString{String: notes, Valid: true}
	}

	cmdTag, err := r.Pool.Exec(ctx, query, dayBookID, physicalCash, discrepancy, nullNotes, now, staffID)
	if err != nil {
		return fmt.Errorf("failed to execute reconcile for day book %s: %w", dayBookID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		// Either the book doesn't exist or it is already closed.
		_, findErr := r.FindDayBookByID(ctx, dayBookID)
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return fmt.Errorf("failed to check day book state after reconcile attempt for %s: %w", dayBookID, findErr)
		}
		return apperrors.ErrDayBookClosed
	}

	return nil
}

// CloseDayBook marks a reconciled day book closed and freezes its closing
// balance at the current system cash balance.
func (r *PgxDayBookRepository) CloseDayBook(ctx context.Context, dayBookID string, staffID string, now time.Time) error {
	query := `
		UPDATE day_books
		SET is_closed = TRUE,
			closing_balance = system_cash_balance,
			closed_by = $2,
			closed_at = $3,
			last_updated_at = $3,
			last_updated_by = $2
		WHERE day_book_id = $1 AND is_reconciled = TRUE AND is_closed = FALSE;
	`

	cmdTag, err := r.Pool.Exec(ctx, query, dayBookID, staffID, now)
	if err != nil {
		return fmt.Errorf("failed to execute close for day book %s: %w", dayBookID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		book, findErr := r.FindDayBookByID(ctx, dayBookID)
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return fmt.Errorf("failed to check day book state after close attempt for %s: %w", dayBookID, findErr)
		}
		if book.IsClosed {
			return fmt.Errorf("%w: day book %s is already closed", apperrors.ErrConflict, dayBookID)
		}
		return fmt.Errorf("%w: day book %s must be reconciled before closing", apperrors.ErrConflict, dayBookID)
	}

	return nil
}
