package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/notcool100/astrofinance-ledger/internal/apperrors"
	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	portssvc "github.com/notcool100/astrofinance-ledger/internal/core/ports/services"
	"github.com/notcool100/astrofinance-ledger/internal/core/services"
	"github.com/notcool100/astrofinance-ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Setup ---
type DayBookServiceTestSuite struct {
	suite.Suite
	mockDayBookRepo  *MockDayBookRepository
	mockSequenceRepo *MockSequenceRepository
	service          portssvc.DayBookSvcFacade
	staffID          string
}

func (suite *DayBookServiceTestSuite) SetupTest() {
	suite.mockDayBookRepo = new(MockDayBookRepository)
	suite.mockSequenceRepo = new(MockSequenceRepository)
	suite.service = services.NewDayBookService(suite.mockDayBookRepo, suite.mockSequenceRepo, noopAuditService{})
	suite.staffID = uuid.NewString()
}

// --- Test Cases ---

func (suite *DayBookServiceTestSuite) TestEnsureDayBookForDate_ExistingBook() {
	ctx := context.Background()
	date := time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)
	existing := &domain.DayBook{
		DayBookID:       uuid.NewString(),
		BookNumber:      "DB20240106-01",
		TransactionDate: date,
	}

	suite.mockDayBookRepo.On("FindDayBookByDate", ctx, date).Return(existing, nil).Once()

	book, err := suite.service.EnsureDayBookForDate(ctx, date.Add(14*time.Hour), suite.staffID)

	suite.Require().NoError(err)
	suite.Equal(existing.DayBookID, book.DayBookID)
	suite.mockDayBookRepo.AssertNotCalled(suite.T(), "EnsureDayBook", mock.Anything, mock.Anything)
	suite.mockSequenceRepo.AssertNotCalled(suite.T(), "NextValue", mock.Anything, mock.Anything)
}

func (suite *DayBookServiceTestSuite) TestEnsureDayBookForDate_CreatesAtZero() {
	ctx := context.Background()
	date := time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)

	stored := &domain.DayBook{}
	suite.mockDayBookRepo.On("FindDayBookByDate", ctx, date).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockSequenceRepo.On("NextValue", ctx, domain.SequenceKey(domain.DayBookNumberPrefix, date)).Return(int64(1), nil).Once()
	suite.mockDayBookRepo.On("EnsureDayBook", ctx, mock.AnythingOfType("domain.DayBook")).
		Run(func(args mock.Arguments) {
			book := args.Get(1).(domain.DayBook)
			suite.Equal("DB20240106-01", book.BookNumber)
			suite.Equal(date, book.TransactionDate)
			// A fresh book opens with every balance at zero.
			suite.True(book.OpeningBalance.IsZero())
			suite.True(book.ClosingBalance.IsZero())
			suite.True(book.SystemCashBalance.IsZero())
			*stored = book
		}).
		Return(stored, nil).Once()

	book, err := suite.service.EnsureDayBookForDate(ctx, date, suite.staffID)

	suite.Require().NoError(err)
	suite.Equal("DB20240106-01", book.BookNumber)
	suite.True(book.OpeningBalance.IsZero())
	suite.mockDayBookRepo.AssertExpectations(suite.T())
	suite.mockSequenceRepo.AssertExpectations(suite.T())
}

func (suite *DayBookServiceTestSuite) TestEnsureDayBookForDate_RaceLoserGetsStoredRow() {
	ctx := context.Background()
	date := time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)

	// Another worker won the insert race; the repository hands back its row.
	winner := &domain.DayBook{
		DayBookID:       uuid.NewString(),
		BookNumber:      "DB20240106-01",
		TransactionDate: date,
	}
	suite.mockDayBookRepo.On("FindDayBookByDate", ctx, date).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockSequenceRepo.On("NextValue", ctx, domain.SequenceKey(domain.DayBookNumberPrefix, date)).Return(int64(2), nil).Once()
	suite.mockDayBookRepo.On("EnsureDayBook", ctx, mock.AnythingOfType("domain.DayBook")).Return(winner, nil).Once()

	book, err := suite.service.EnsureDayBookForDate(ctx, date, suite.staffID)

	suite.Require().NoError(err)
	suite.Equal(winner.DayBookID, book.DayBookID)
	suite.mockDayBookRepo.AssertExpectations(suite.T())
}

func (suite *DayBookServiceTestSuite) TestReconcileDayBook_RecordsDiscrepancy() {
	ctx := context.Background()
	book := &domain.DayBook{
		DayBookID:         uuid.NewString(),
		BookNumber:        "DB20240106-01",
		SystemCashBalance: decimal.NewFromInt(1000),
	}
	req := dto.ReconcileDayBookRequest{
		PhysicalCashBalance: decimal.NewFromInt(990),
		Notes:               "till short after evening count",
	}

	suite.mockDayBookRepo.On("FindDayBookByID", ctx, book.DayBookID).Return(book, nil).Once()
	suite.mockDayBookRepo.On("ReconcileDayBook", ctx, book.DayBookID,
		req.PhysicalCashBalance, decimal.NewFromInt(-10), req.Notes, suite.staffID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	reconciled, err := suite.service.ReconcileDayBook(ctx, book.DayBookID, req, suite.staffID)

	suite.Require().NoError(err)
	suite.True(reconciled.IsReconciled)
	suite.True(reconciled.DiscrepancyAmount.Equal(decimal.NewFromInt(-10)))
	suite.True(reconciled.PhysicalCashBalance.Equal(req.PhysicalCashBalance))
	suite.mockDayBookRepo.AssertExpectations(suite.T())
}

func (suite *DayBookServiceTestSuite) TestReconcileDayBook_ClosedBook() {
	ctx := context.Background()
	book := &domain.DayBook{
		DayBookID:    uuid.NewString(),
		BookNumber:   "DB20240106-01",
		IsReconciled: true,
		IsClosed:     true,
	}

	suite.mockDayBookRepo.On("FindDayBookByID", ctx, book.DayBookID).Return(book, nil).Once()

	_, err := suite.service.ReconcileDayBook(ctx, book.DayBookID, dto.ReconcileDayBookRequest{
		PhysicalCashBalance: decimal.NewFromInt(100),
	}, suite.staffID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDayBookClosed)
	suite.mockDayBookRepo.AssertNotCalled(suite.T(), "ReconcileDayBook",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DayBookServiceTestSuite) TestCloseDayBook_NotReconciled() {
	ctx := context.Background()
	book := &domain.DayBook{
		DayBookID:  uuid.NewString(),
		BookNumber: "DB20240106-01",
	}

	suite.mockDayBookRepo.On("FindDayBookByID", ctx, book.DayBookID).Return(book, nil).Once()

	_, err := suite.service.CloseDayBook(ctx, book.DayBookID, suite.staffID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrDayBookNotReconciled)
	suite.mockDayBookRepo.AssertNotCalled(suite.T(), "CloseDayBook",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DayBookServiceTestSuite) TestCloseDayBook_AlreadyClosed() {
	ctx := context.Background()
	book := &domain.DayBook{
		DayBookID:    uuid.NewString(),
		BookNumber:   "DB20240106-01",
		IsReconciled: true,
		IsClosed:     true,
	}

	suite.mockDayBookRepo.On("FindDayBookByID", ctx, book.DayBookID).Return(book, nil).Once()

	_, err := suite.service.CloseDayBook(ctx, book.DayBookID, suite.staffID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *DayBookServiceTestSuite) TestCloseDayBook_Success() {
	ctx := context.Background()
	open := &domain.DayBook{
		DayBookID:         uuid.NewString(),
		BookNumber:        "DB20240106-01",
		SystemCashBalance: decimal.NewFromInt(1200),
		IsReconciled:      true,
	}
	closed := *open
	closed.IsClosed = true
	closed.ClosingBalance = open.SystemCashBalance

	suite.mockDayBookRepo.On("FindDayBookByID", ctx, open.DayBookID).Return(open, nil).Once()
	suite.mockDayBookRepo.On("CloseDayBook", ctx, open.DayBookID, suite.staffID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	// Re-read after closing so the caller sees the stamped closing balance.
	suite.mockDayBookRepo.On("FindDayBookByID", ctx, open.DayBookID).Return(&closed, nil).Once()

	book, err := suite.service.CloseDayBook(ctx, open.DayBookID, suite.staffID)

	suite.Require().NoError(err)
	suite.True(book.IsClosed)
	suite.True(book.ClosingBalance.Equal(decimal.NewFromInt(1200)))
	suite.mockDayBookRepo.AssertExpectations(suite.T())
}

func (suite *DayBookServiceTestSuite) TestListDayBooks_DefaultWindow() {
	ctx := context.Background()

	suite.mockDayBookRepo.On("ListDayBooks", ctx, time.Time{}, mock.AnythingOfType("time.Time"), 31, 0).
		Return([]domain.DayBook{}, nil).Once()

	resp, err := suite.service.ListDayBooks(ctx, dto.ListDayBooksParams{})

	suite.Require().NoError(err)
	suite.Empty(resp.DayBooks)
	suite.mockDayBookRepo.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestDayBookService(t *testing.T) {
	suite.Run(t, new(DayBookServiceTestSuite))
}
