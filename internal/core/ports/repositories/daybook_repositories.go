package repositories

import (
	"context"
	"time"

	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DayBookReader defines read operations for day books
type DayBookReader interface {
	// FindDayBookByID retrieves a specific day book by its identifier.
	FindDayBookByID(ctx context.Context, dayBookID string) (*domain.DayBook, error)

	// FindDayBookByDate retrieves the day book for a business date.
	FindDayBookByDate(ctx context.Context, date time.Time) (*domain.DayBook, error)

	// ListDayBooks retrieves day books within a date range, newest first.
	ListDayBooks(ctx context.Context, from time.Time, to time.Time, limit int, offset int) ([]domain.DayBook, error)
}

// DayBookWriter defines write operations for day books
type DayBookWriter interface {
	// EnsureDayBook creates the day book for the given date if it does not
	// exist yet and returns the stored row either way. Concurrent callers for
	// the same date all receive the same day book.
	EnsureDayBook(ctx context.Context, book domain.DayBook) (*domain.DayBook, error)

	// ReconcileDayBook records the physical cash count and discrepancy for an
	// open day book. It fails with ErrDayBookClosed if the book closed in the
	// meantime.
	ReconcileDayBook(ctx context.Context, dayBookID string, physicalCash decimal.Decimal, discrepancy decimal.Decimal, notes string, staffID string, now time.Time) error

	// CloseDayBook marks a reconciled day book closed. It fails with
	// ErrConflict if the book is not reconciled or is already closed.
	CloseDayBook(ctx context.Context, dayBookID string, staffID string, now time.Time) error
}

// DayBookRepositoryFacade combines all day book repository interfaces
type DayBookRepositoryFacade interface {
	DayBookReader
	DayBookWriter
}
