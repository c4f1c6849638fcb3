package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/notcool100/astrofinance-ledger/internal/apperrors"
	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	portsrepo "github.com/notcool100/astrofinance-ledger/internal/core/ports/repositories"
	portssvc "github.com/notcool100/astrofinance-ledger/internal/core/ports/services"
	"github.com/notcool100/astrofinance-ledger/internal/dto"
	"github.com/notcool100/astrofinance-ledger/internal/middleware"
)

var (
	ErrDayBookNotReconciled = errors.New("day book must be reconciled before closing")
)

// dayBookService manages the daily cash book lifecycle: ensure, reconcile,
// close. One book exists per calendar date.
type dayBookService struct {
	dayBookRepo  portsrepo.DayBookRepositoryFacade
	sequenceRepo portsrepo.SequenceRepository
	auditSvc     portssvc.AuditSvcFacade
}

// NewDayBookService creates a new DayBookService.
func NewDayBookService(dayBookRepo portsrepo.DayBookRepositoryFacade, sequenceRepo portsrepo.SequenceRepository, auditSvc portssvc.AuditSvcFacade) portssvc.DayBookSvcFacade {
	return &dayBookService{
		dayBookRepo:  dayBookRepo,
		sequenceRepo: sequenceRepo,
		auditSvc:     auditSvc,
	}
}

// Ensure dayBookService implements the portssvc.DayBookSvcFacade interface
var _ portssvc.DayBookSvcFacade = (*dayBookService)(nil)

// normalizeDate truncates a timestamp to its UTC calendar date.
func normalizeDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// GetDayBookByID retrieves a specific day book.
func (s *dayBookService) GetDayBookByID(ctx context.Context, dayBookID string) (*domain.DayBook, error) {
	return s.dayBookRepo.FindDayBookByID(ctx, dayBookID)
}

// GetDayBookByDate retrieves the day book for a business date.
func (s *dayBookService) GetDayBookByDate(ctx context.Context, date time.Time) (*domain.DayBook, error) {
	return s.dayBookRepo.FindDayBookByDate(ctx, normalizeDate(date))
}

// ListDayBooks retrieves day books within a date range, newest first.
func (s *dayBookService) ListDayBooks(ctx context.Context, params dto.ListDayBooksParams) (*dto.ListDayBooksResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	from := params.From
	to := params.To
	if to.IsZero() {
		to = time.Now().UTC()
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 31
	}

	books, err := s.dayBookRepo.ListDayBooks(ctx, from, to, limit, params.Offset)
	if err != nil {
		logger.Error("Failed to list day books", "error", err)
		return nil, fmt.Errorf("failed to retrieve day books: %w", err)
	}

	resp := dto.ToListDayBooksResponse(books)
	return &resp, nil
}

// EnsureDayBookForDate returns the day book for the date, creating it when
// none exists yet. Safe under concurrency: the repository converges
// concurrent creators onto one stored row.
func (s *dayBookService) EnsureDayBookForDate(ctx context.Context, date time.Time, actingStaffID string) (*domain.DayBook, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	date = normalizeDate(date)

	book, err := s.dayBookRepo.FindDayBookByDate(ctx, date)
	if err == nil {
		return book, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to look up day book by date", slog.String("error", err.Error()), slog.Time("date", date))
		return nil, fmt.Errorf("failed to look up day book: %w", err)
	}

	seq, err := s.sequenceRepo.NextValue(ctx, domain.SequenceKey(domain.DayBookNumberPrefix, date))
	if err != nil {
		logger.Error("Failed to allocate day book number", slog.String("error", err.Error()), slog.Time("date", date))
		return nil, fmt.Errorf("failed to allocate day book number: %w", err)
	}

	now := time.Now().UTC()
	// All balances start at zero; the day's cash-affecting postings accumulate
	// into the closing and system balances.
	book = &domain.DayBook{
		DayBookID:       uuid.NewString(),
		BookNumber:      domain.FormatDayBookNumber(date, seq),
		TransactionDate: date,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actingStaffID,
			LastUpdatedAt: now,
			LastUpdatedBy: actingStaffID,
		},
	}

	stored, err := s.dayBookRepo.EnsureDayBook(ctx, *book)
	if err != nil {
		logger.Error("Failed to ensure day book", slog.String("error", err.Error()), slog.Time("date", date))
		return nil, fmt.Errorf("failed to ensure day book: %w", err)
	}

	if stored.DayBookID == book.DayBookID {
		if s.auditSvc != nil {
			s.auditSvc.RecordAction(ctx, domain.AuditRecord{
				EntityType:  "day_book",
				EntityID:    stored.DayBookID,
				Action:      domain.AuditActionCreate,
				PerformedBy: actingStaffID,
			})
		}
		logger.Info("Day book created",
			slog.String("day_book_id", stored.DayBookID),
			slog.String("book_number", stored.BookNumber))
	}

	return stored, nil
}

// ReconcileDayBook records the physical cash count against the system cash
// balance and stores the discrepancy. Reconciliation may be repeated while
// the book stays open; each run overwrites the previous count.
func (s *dayBookService) ReconcileDayBook(ctx context.Context, dayBookID string, req dto.ReconcileDayBookRequest, actingStaffID string) (*domain.DayBook, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	book, err := s.dayBookRepo.FindDayBookByID(ctx, dayBookID)
	if err != nil {
		return nil, err
	}
	if book.IsClosed {
		return nil, fmt.Errorf("%w: day book %s", apperrors.ErrDayBookClosed, book.BookNumber)
	}

	discrepancy := req.PhysicalCashBalance.Sub(book.SystemCashBalance)
	now := time.Now().UTC()

	if err := s.dayBookRepo.ReconcileDayBook(ctx, dayBookID, req.PhysicalCashBalance, discrepancy, req.Notes, actingStaffID, now); err != nil {
		logger.Error("Failed to reconcile day book", slog.String("error", err.Error()), slog.String("day_book_id", dayBookID))
		return nil, err
	}

	if s.auditSvc != nil {
		s.auditSvc.RecordAction(ctx, domain.AuditRecord{
			EntityType:  "day_book",
			EntityID:    dayBookID,
			Action:      domain.AuditActionReconcile,
			PerformedBy: actingStaffID,
		})
	}

	if !discrepancy.IsZero() {
		logger.Warn("Day book reconciled with discrepancy",
			slog.String("day_book_id", dayBookID),
			slog.String("discrepancy", discrepancy.String()))
	} else {
		logger.Info("Day book reconciled",
			slog.String("day_book_id", dayBookID))
	}

	book.PhysicalCashBalance = req.PhysicalCashBalance
	book.DiscrepancyAmount = discrepancy
	book.ReconciliationNotes = req.Notes
	book.IsReconciled = true
	book.LastUpdatedAt = now
	book.LastUpdatedBy = actingStaffID
	return book, nil
}

// CloseDayBook closes a reconciled day book. Closing stamps the closing
// balance from the system cash balance and is final: the date accepts no
// further transactions.
func (s *dayBookService) CloseDayBook(ctx context.Context, dayBookID string, actingStaffID string) (*domain.DayBook, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	book, err := s.dayBookRepo.FindDayBookByID(ctx, dayBookID)
	if err != nil {
		return nil, err
	}
	if book.IsClosed {
		return nil, fmt.Errorf("%w: day book %s is already closed", apperrors.ErrConflict, book.BookNumber)
	}
	if !book.IsReconciled {
		return nil, fmt.Errorf("%w: day book %s", ErrDayBookNotReconciled, book.BookNumber)
	}

	now := time.Now().UTC()
	if err := s.dayBookRepo.CloseDayBook(ctx, dayBookID, actingStaffID, now); err != nil {
		logger.Error("Failed to close day book", slog.String("error", err.Error()), slog.String("day_book_id", dayBookID))
		return nil, err
	}

	if s.auditSvc != nil {
		s.auditSvc.RecordAction(ctx, domain.AuditRecord{
			EntityType:  "day_book",
			EntityID:    dayBookID,
			Action:      domain.AuditActionClose,
			PerformedBy: actingStaffID,
		})
	}

	logger.Info("Day book closed",
		slog.String("day_book_id", dayBookID),
		slog.String("book_number", book.BookNumber))

	// Re-read so the caller sees the stamped closing balance.
	return s.dayBookRepo.FindDayBookByID(ctx, dayBookID)
}
