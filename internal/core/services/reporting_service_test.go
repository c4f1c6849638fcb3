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
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Setup ---
type ReportingServiceTestSuite struct {
	suite.Suite
	mockReportingRepo *MockReportingRepository
	mockAccountRepo   *MockLedgerAccountRepository
	service           portssvc.ReportingService
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockReportingRepo = new(MockReportingRepository)
	suite.mockAccountRepo = new(MockLedgerAccountRepository)
	suite.service = services.NewReportingService(suite.mockReportingRepo, suite.mockAccountRepo)
}

// --- Test Cases ---

func (suite *ReportingServiceTestSuite) TestTrialBalance_BalancedBook() {
	ctx := context.Background()
	asOf := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	rows := []domain.TrialBalanceRow{
		{
			AccountID:   uuid.NewString(),
			AccountCode: "CASH",
			AccountType: domain.Asset,
			Debit:       decimal.NewFromInt(150),
			Credit:      decimal.NewFromInt(50),
		},
		{
			AccountID:   uuid.NewString(),
			AccountCode: "USER_DEPOSITS",
			AccountType: domain.Liability,
			Debit:       decimal.NewFromInt(50),
			Credit:      decimal.NewFromInt(150),
		},
	}

	suite.mockReportingRepo.On("GetTrialBalanceData", ctx, asOf).Return(rows, nil).Once()

	tb, err := suite.service.TrialBalance(ctx, asOf)

	suite.Require().NoError(err)
	suite.Require().Len(tb.Rows, 2)
	suite.True(tb.TotalDebit.Equal(decimal.NewFromInt(200)))
	suite.True(tb.TotalCredit.Equal(decimal.NewFromInt(200)))
	// Net balances present on each account type's normal side.
	suite.True(tb.Rows[0].NetBalance.Equal(decimal.NewFromInt(100)))
	suite.True(tb.Rows[1].NetBalance.Equal(decimal.NewFromInt(100)))
	suite.mockReportingRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_EmptyLedger() {
	ctx := context.Background()
	asOf := time.Now().UTC()

	suite.mockReportingRepo.On("GetTrialBalanceData", ctx, asOf).Return(nil, nil).Once()

	tb, err := suite.service.TrialBalance(ctx, asOf)

	suite.Require().NoError(err)
	suite.NotNil(tb.Rows)
	suite.Empty(tb.Rows)
	suite.True(tb.TotalDebit.IsZero())
	suite.True(tb.TotalCredit.IsZero())
}

func (suite *ReportingServiceTestSuite) TestAccountActivity_LiabilityNet() {
	ctx := context.Background()
	account := domain.LedgerAccount{
		AccountID:   uuid.NewString(),
		Code:        "USER_DEPOSITS",
		AccountType: domain.Liability,
		IsActive:    true,
	}
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()
	suite.mockReportingRepo.On("GetAccountActivity", ctx, account.AccountID, from, to).
		Return(decimal.NewFromInt(40), decimal.NewFromInt(100), nil).Once()

	activity, err := suite.service.AccountActivity(ctx, account.AccountID, from, to)

	suite.Require().NoError(err)
	suite.Equal("USER_DEPOSITS", activity.AccountCode)
	suite.True(activity.Debit.Equal(decimal.NewFromInt(40)))
	suite.True(activity.Credit.Equal(decimal.NewFromInt(100)))
	// Liability activity nets on the credit side.
	suite.True(activity.Net.Equal(decimal.NewFromInt(60)))
	suite.mockReportingRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestAccountActivity_UnknownAccount() {
	ctx := context.Background()
	unknownID := uuid.NewString()

	suite.mockAccountRepo.On("FindAccountByID", ctx, unknownID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.AccountActivity(ctx, unknownID, time.Time{}, time.Now())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockReportingRepo.AssertNotCalled(suite.T(), "GetAccountActivity",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Run Test Suite ---
func TestReportingService(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
