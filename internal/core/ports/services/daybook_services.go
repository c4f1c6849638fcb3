package services

import (
	"context"
	"time"

	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	"github.com/notcool100/astrofinance-ledger/internal/dto"
)

// DayBookReaderSvc defines read operations for day books
type DayBookReaderSvc interface {
	// GetDayBookByID retrieves a specific day book by its ID.
	GetDayBookByID(ctx context.Context, dayBookID string) (*domain.DayBook, error)

	// GetDayBookByDate retrieves the day book for a business date.
	GetDayBookByDate(ctx context.Context, date time.Time) (*domain.DayBook, error)

	// ListDayBooks retrieves day books within a date range, newest first.
	ListDayBooks(ctx context.Context, params dto.ListDayBooksParams) (*dto.ListDayBooksResponse, error)
}

// DayBookWriterSvc defines lifecycle operations for day books
type DayBookWriterSvc interface {
	// EnsureDayBookForDate returns the open day book for the date, creating it
	// with zeroed totals if it does not exist yet. Safe under concurrency.
	EnsureDayBookForDate(ctx context.Context, date time.Time, actingStaffID string) (*domain.DayBook, error)

	// ReconcileDayBook records the physical cash count against the system cash
	// balance and stores the discrepancy. Allowed repeatedly while open.
	ReconcileDayBook(ctx context.Context, dayBookID string, req dto.ReconcileDayBookRequest, actingStaffID string) (*domain.DayBook, error)

	// CloseDayBook closes a reconciled day book. Closing is final; the date
	// accepts no further transactions.
	CloseDayBook(ctx context.Context, dayBookID string, actingStaffID string) (*domain.DayBook, error)
}

// DayBookSvcFacade combines all day book service interfaces
type DayBookSvcFacade interface {
	DayBookReaderSvc
	DayBookWriterSvc
}
