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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Setup ---
type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockAccountRepo *MockLedgerAccountRepository
	service         portssvc.JournalSvcFacade
	cashAccount     domain.LedgerAccount
	depositsAccount domain.LedgerAccount
	staffID         string
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockLedgerAccountRepository)
	suite.service = services.NewJournalService(suite.mockJournalRepo, suite.mockAccountRepo, noopAuditService{})

	suite.staffID = uuid.NewString()

	suite.cashAccount = domain.LedgerAccount{
		AccountID:   uuid.NewString(),
		Code:        "CASH",
		Name:        "Cash in Hand",
		AccountType: domain.Asset,
		IsActive:    true,
	}
	suite.depositsAccount = domain.LedgerAccount{
		AccountID:   uuid.NewString(),
		Code:        "USER_DEPOSITS",
		Name:        "User Deposits",
		AccountType: domain.Liability,
		IsActive:    true,
	}
}

func (suite *JournalServiceTestSuite) balancedRequest(amount decimal.Decimal) dto.PostJournalEntryRequest {
	return dto.PostJournalEntryRequest{
		EntryDate: time.Now(),
		Narration: "Cash deposit",
		Lines: []dto.JournalLineInput{
			{AccountCode: suite.cashAccount.Code, Debit: amount},
			{AccountCode: suite.depositsAccount.Code, Credit: amount},
		},
	}
}

func (suite *JournalServiceTestSuite) accountsMap() map[string]domain.LedgerAccount {
	return map[string]domain.LedgerAccount{
		suite.cashAccount.Code:     suite.cashAccount,
		suite.depositsAccount.Code: suite.depositsAccount,
	}
}

func (suite *JournalServiceTestSuite) postedOriginal(amount decimal.Decimal) domain.JournalEntry {
	entryID := uuid.NewString()
	return domain.JournalEntry{
		EntryID:     entryID,
		EntryNumber: "JE20240105-0007",
		EntryDate:   time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Narration:   "Cash deposit",
		Status:      domain.EntryPosted,
		Lines: []domain.JournalLine{
			{
				LineID:      uuid.NewString(),
				EntryID:     entryID,
				AccountID:   suite.cashAccount.AccountID,
				AccountCode: suite.cashAccount.Code,
				Debit:       amount,
			},
			{
				LineID:      uuid.NewString(),
				EntryID:     entryID,
				AccountID:   suite.depositsAccount.AccountID,
				AccountCode: suite.depositsAccount.Code,
				Credit:      amount,
			},
		},
	}
}

// --- Test Cases ---

func (suite *JournalServiceTestSuite) TestPostEntry_Success() {
	ctx := context.Background()
	amount := decimal.NewFromInt(500)
	req := suite.balancedRequest(amount)

	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, []string{"CASH", "USER_DEPOSITS"}).Return(suite.accountsMap(), nil).Once()
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalLine")).
		Run(func(args mock.Arguments) {
			entry := args.Get(1).(domain.JournalEntry)
			lines := args.Get(2).([]domain.JournalLine)
			suite.Equal(domain.EntryPosted, entry.Status)
			suite.Len(lines, 2)
			// Codes are resolved to account IDs before persistence.
			suite.Equal(suite.cashAccount.AccountID, lines[0].AccountID)
			suite.Equal(suite.depositsAccount.AccountID, lines[1].AccountID)
		}).
		Return(&domain.JournalEntry{
			EntryID:     uuid.NewString(),
			EntryNumber: "JE20240105-0001",
			Status:      domain.EntryPosted,
		}, nil).Once()

	entry, err := suite.service.PostEntry(ctx, req, suite.staffID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.NotEmpty(entry.EntryNumber)
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostEntry_LessThanTwoLines() {
	ctx := context.Background()
	req := dto.PostJournalEntryRequest{
		EntryDate: time.Now(),
		Narration: "Half an entry",
		Lines: []dto.JournalLineInput{
			{AccountCode: "CASH", Debit: decimal.NewFromInt(100)},
		},
	}

	_, err := suite.service.PostEntry(ctx, req, suite.staffID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrJournalMinLines)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostEntry_NarrationMissing() {
	ctx := context.Background()
	req := suite.balancedRequest(decimal.NewFromInt(100))
	req.Narration = ""

	_, err := suite.service.PostEntry(ctx, req, suite.staffID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNarrationMissing)
}

func (suite *JournalServiceTestSuite) TestPostEntry_SingleAccountOnBothSides() {
	ctx := context.Background()
	req := dto.PostJournalEntryRequest{
		EntryDate: time.Now(),
		Narration: "Self-referential entry",
		Lines: []dto.JournalLineInput{
			{AccountCode: "CASH", Debit: decimal.NewFromInt(100)},
			{AccountCode: "CASH", Credit: decimal.NewFromInt(100)},
		},
	}

	_, err := suite.service.PostEntry(ctx, req, suite.staffID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrJournalMinAccounts)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountsByCodes", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostEntry_AccountNotFound() {
	ctx := context.Background()
	req := suite.balancedRequest(decimal.NewFromInt(100))

	// USER_DEPOSITS is missing from the repository's answer.
	partial := map[string]domain.LedgerAccount{
		suite.cashAccount.Code: suite.cashAccount,
	}
	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, mock.Anything).Return(partial, nil).Once()

	_, err := suite.service.PostEntry(ctx, req, suite.staffID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAccountNotFound)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostEntry_InactiveAccount() {
	ctx := context.Background()
	req := suite.balancedRequest(decimal.NewFromInt(100))

	inactive := suite.depositsAccount
	inactive.IsActive = false
	accounts := map[string]domain.LedgerAccount{
		suite.cashAccount.Code: suite.cashAccount,
		inactive.Code:          inactive,
	}
	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, mock.Anything).Return(accounts, nil).Once()

	_, err := suite.service.PostEntry(ctx, req, suite.staffID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestPostEntry_Unbalanced() {
	ctx := context.Background()
	req := dto.PostJournalEntryRequest{
		EntryDate: time.Now(),
		Narration: "Unbalanced entry",
		Lines: []dto.JournalLineInput{
			{AccountCode: suite.cashAccount.Code, Debit: decimal.NewFromInt(100)},
			{AccountCode: suite.depositsAccount.Code, Credit: decimal.NewFromInt(99)},
		},
	}
	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, mock.Anything).Return(suite.accountsMap(), nil).Once()

	_, err := suite.service.PostEntry(ctx, req, suite.staffID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostEntry_TwoSidedLine() {
	ctx := context.Background()
	req := dto.PostJournalEntryRequest{
		EntryDate: time.Now(),
		Narration: "Line with both sides",
		Lines: []dto.JournalLineInput{
			{AccountCode: suite.cashAccount.Code, Debit: decimal.NewFromInt(100), Credit: decimal.NewFromInt(100)},
			{AccountCode: suite.depositsAccount.Code, Credit: decimal.NewFromInt(100)},
		},
	}
	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, mock.Anything).Return(suite.accountsMap(), nil).Once()

	_, err := suite.service.PostEntry(ctx, req, suite.staffID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestPostEntry_SaveError() {
	ctx := context.Background()
	req := suite.balancedRequest(decimal.NewFromInt(250))
	repoErr := assert.AnError

	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, mock.Anything).Return(suite.accountsMap(), nil).Once()
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.Anything, mock.Anything).Return(nil, repoErr).Once()

	_, err := suite.service.PostEntry(ctx, req, suite.staffID)

	suite.Require().Error(err)
	suite.Contains(err.Error(), repoErr.Error())
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestReverseEntry_Success() {
	ctx := context.Background()
	amount := decimal.NewFromInt(500)
	original := suite.postedOriginal(amount)
	mirrorID := uuid.NewString()

	// Fetched once for the reversal guards and once more for the status flip.
	suite.mockJournalRepo.On("FindEntryByID", ctx, original.EntryID).Return(&original, nil).Twice()
	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, []string{"CASH", "USER_DEPOSITS"}).Return(suite.accountsMap(), nil).Once()
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalLine")).
		Run(func(args mock.Arguments) {
			entry := args.Get(1).(domain.JournalEntry)
			lines := args.Get(2).([]domain.JournalLine)
			suite.Equal(original.EntryID, entry.ReversesEntryID)
			// The original carries no reference, so the mirror tags itself
			// with the original's entry number.
			suite.Equal(original.EntryNumber, entry.Reference)
			suite.Contains(entry.Narration, "Reversal of "+original.EntryNumber)
			suite.Require().Len(lines, 2)
			// Sides are swapped line by line.
			suite.True(lines[0].Debit.IsZero())
			suite.True(lines[0].Credit.Equal(amount))
			suite.True(lines[1].Debit.Equal(amount))
			suite.True(lines[1].Credit.IsZero())
		}).
		Return(&domain.JournalEntry{
			EntryID:         mirrorID,
			EntryNumber:     "JE20240106-0001",
			Status:          domain.EntryPosted,
			ReversesEntryID: original.EntryID,
		}, nil).Once()
	suite.mockJournalRepo.On("UpdateEntryStatusAndLinks", ctx, original.EntryID, domain.EntryReversed, &mirrorID, (*string)(nil), suite.staffID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	mirror, err := suite.service.ReverseEntry(ctx, original.EntryID, dto.ReverseJournalEntryRequest{Reason: "Posted twice"}, suite.staffID)

	suite.Require().NoError(err)
	suite.Require().NotNil(mirror)
	suite.Equal(original.EntryID, mirror.ReversesEntryID)
	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestReverseEntry_ReasonMissing() {
	ctx := context.Background()

	_, err := suite.service.ReverseEntry(ctx, uuid.NewString(), dto.ReverseJournalEntryRequest{}, suite.staffID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "FindEntryByID", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestReverseEntry_AlreadyReversed() {
	ctx := context.Background()
	original := suite.postedOriginal(decimal.NewFromInt(100))
	original.Status = domain.EntryReversed

	suite.mockJournalRepo.On("FindEntryByID", ctx, original.EntryID).Return(&original, nil).Once()

	_, err := suite.service.ReverseEntry(ctx, original.EntryID, dto.ReverseJournalEntryRequest{Reason: "Duplicate"}, suite.staffID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAlreadyReversed)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestReverseEntry_OfAReversal() {
	ctx := context.Background()
	original := suite.postedOriginal(decimal.NewFromInt(100))
	original.ReversesEntryID = uuid.NewString()

	suite.mockJournalRepo.On("FindEntryByID", ctx, original.EntryID).Return(&original, nil).Once()

	_, err := suite.service.ReverseEntry(ctx, original.EntryID, dto.ReverseJournalEntryRequest{Reason: "Second thoughts"}, suite.staffID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestReverseEntry_MarkFailureSurfaces() {
	ctx := context.Background()
	original := suite.postedOriginal(decimal.NewFromInt(75))
	mirrorID := uuid.NewString()

	suite.mockJournalRepo.On("FindEntryByID", ctx, original.EntryID).Return(&original, nil).Twice()
	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, mock.Anything).Return(suite.accountsMap(), nil).Once()
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.Anything, mock.Anything).Return(&domain.JournalEntry{
		EntryID:     mirrorID,
		EntryNumber: "JE20240106-0002",
		Status:      domain.EntryPosted,
	}, nil).Once()
	suite.mockJournalRepo.On("UpdateEntryStatusAndLinks", ctx, original.EntryID, domain.EntryReversed, &mirrorID, (*string)(nil), suite.staffID, mock.AnythingOfType("time.Time")).Return(assert.AnError).Once()

	_, err := suite.service.ReverseEntry(ctx, original.EntryID, dto.ReverseJournalEntryRequest{Reason: "Wrong account"}, suite.staffID)

	suite.Require().Error(err)
	suite.Contains(err.Error(), "could not be marked reversed")
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestMarkEntryReversed_Success() {
	ctx := context.Background()
	entryID := uuid.NewString()
	reversedBy := uuid.NewString()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(&domain.JournalEntry{
		EntryID:     entryID,
		EntryNumber: "JE20240105-0001",
		Status:      domain.EntryPosted,
	}, nil).Once()
	suite.mockJournalRepo.On("UpdateEntryStatusAndLinks", ctx, entryID, domain.EntryReversed, &reversedBy, (*string)(nil), suite.staffID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.MarkEntryReversed(ctx, entryID, reversedBy, suite.staffID)

	suite.Require().NoError(err)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestMarkEntryReversed_AlreadyReversed() {
	ctx := context.Background()
	entryID := uuid.NewString()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(&domain.JournalEntry{
		EntryID:     entryID,
		EntryNumber: "JE20240105-0002",
		Status:      domain.EntryReversed,
	}, nil).Once()

	err := suite.service.MarkEntryReversed(ctx, entryID, uuid.NewString(), suite.staffID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAlreadyReversed)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "UpdateEntryStatusAndLinks",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestListEntries_DefaultLimit() {
	ctx := context.Background()

	suite.mockJournalRepo.On("ListEntries", ctx, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time"), false, 20, (*string)(nil)).
		Return([]domain.JournalEntry{}, nil, nil).Once()

	resp, err := suite.service.ListEntries(ctx, dto.ListJournalEntriesParams{})

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.Empty(resp.Entries)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestJournalService(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
