package services_test

import (
	"context"
	"strings"
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
type TransactionServiceTestSuite struct {
	suite.Suite
	mockTxnRepo     *MockTransactionRepository
	mockAccountRepo *MockUserAccountRepository
	mockMappingRepo *MockKindMappingRepository
	mockJournalSvc  *MockJournalService
	mockDayBookSvc  *MockDayBookService
	service         portssvc.TransactionSvcFacade
	staffID         string
	account         domain.UserAccount
	openBook        domain.DayBook
	depositMapping  domain.KindMapping
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockAccountRepo = new(MockUserAccountRepository)
	suite.mockMappingRepo = new(MockKindMappingRepository)
	suite.mockJournalSvc = new(MockJournalService)
	suite.mockDayBookSvc = new(MockDayBookService)
	suite.service = services.NewTransactionService(
		suite.mockTxnRepo,
		suite.mockAccountRepo,
		suite.mockMappingRepo,
		suite.mockJournalSvc,
		suite.mockDayBookSvc,
		noopAuditService{},
	)

	suite.staffID = uuid.NewString()
	suite.account = domain.UserAccount{
		UserAccountID: uuid.NewString(),
		AccountNumber: "SB-0001",
		HolderName:    "Ram Bahadur",
		AccountType:   domain.AccountTypeSB,
		Balance:       decimal.NewFromInt(100),
		Status:        domain.AccountActive,
	}
	suite.openBook = domain.DayBook{
		DayBookID:         uuid.NewString(),
		BookNumber:        "DB20240105-01",
		TransactionDate:   time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		SystemCashBalance: decimal.NewFromInt(1000),
	}
	suite.depositMapping = domain.KindMapping{
		MappingID:         uuid.NewString(),
		Kind:              domain.KindDeposit,
		DebitAccountCode:  "CASH",
		CreditAccountCode: "USER_DEPOSITS",
	}
}

func (suite *TransactionServiceTestSuite) appliedFor(kind domain.TransactionKind, amount decimal.Decimal) []domain.AccountTransaction {
	return []domain.AccountTransaction{{
		TransactionID:     "txn-1",
		TransactionNumber: "TXN20240105-0001",
		UserAccountID:     suite.account.UserAccountID,
		Kind:              kind,
		Amount:            amount,
		RunningBalance:    suite.account.Balance.Add(amount),
		Description:       "Counter deposit",
		JournalPending:    true,
		DayBookID:         suite.openBook.DayBookID,
		AuditFields:       domain.AuditFields{CreatedAt: time.Now().UTC()},
	}}
}

// --- Test Cases ---

func (suite *TransactionServiceTestSuite) TestDeposit_Success() {
	ctx := context.Background()
	amount := decimal.NewFromInt(50)
	req := dto.DepositRequest{
		UserAccountID: suite.account.UserAccountID,
		Amount:        amount,
		Description:   "Counter deposit",
	}
	applied := suite.appliedFor(domain.KindDeposit, amount)
	entry := &domain.JournalEntry{EntryID: uuid.NewString(), EntryNumber: "JE20240105-0001"}

	suite.mockAccountRepo.On("FindUserAccountByID", ctx, suite.account.UserAccountID).Return(&suite.account, nil).Once()
	// Resolved once before the money moves and once for the entry itself.
	suite.mockMappingRepo.On("FindMappingByKind", ctx, domain.KindDeposit).Return(&suite.depositMapping, nil).Twice()
	suite.mockDayBookSvc.On("EnsureDayBookForDate", ctx, mock.AnythingOfType("time.Time"), suite.staffID).Return(&suite.openBook, nil).Once()
	suite.mockTxnRepo.On("ApplyTransactions", ctx, mock.AnythingOfType("[]domain.AccountTransaction"), suite.openBook.DayBookID).
		Run(func(args mock.Arguments) {
			txns := args.Get(1).([]domain.AccountTransaction)
			suite.Require().Len(txns, 1)
			suite.Equal(domain.KindDeposit, txns[0].Kind)
			suite.True(txns[0].JournalPending)
			suite.Equal(suite.openBook.DayBookID, txns[0].DayBookID)
		}).
		Return(applied, nil).Once()
	suite.mockJournalSvc.On("PostEntry", ctx, mock.AnythingOfType("dto.PostJournalEntryRequest"), suite.staffID).
		Run(func(args mock.Arguments) {
			entryReq := args.Get(1).(dto.PostJournalEntryRequest)
			suite.Require().Len(entryReq.Lines, 2)
			suite.Equal("CASH", entryReq.Lines[0].AccountCode)
			suite.True(entryReq.Lines[0].Debit.Equal(amount))
			suite.Equal("USER_DEPOSITS", entryReq.Lines[1].AccountCode)
			suite.True(entryReq.Lines[1].Credit.Equal(amount))
		}).
		Return(entry, nil).Once()
	suite.mockTxnRepo.On("SetJournalPosted", ctx, "txn-1", entry.EntryID, suite.staffID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	txn, err := suite.service.Deposit(ctx, req, suite.staffID)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.False(txn.JournalPending)
	suite.Equal(entry.EntryID, txn.JournalEntryID)
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockJournalSvc.AssertExpectations(suite.T())
	suite.mockMappingRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestDeposit_NonPositiveAmount() {
	ctx := context.Background()
	req := dto.DepositRequest{
		UserAccountID: suite.account.UserAccountID,
		Amount:        decimal.Zero,
		Description:   "Counter deposit",
	}

	_, err := suite.service.Deposit(ctx, req, suite.staffID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindUserAccountByID", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestWithdraw_InsufficientBalance() {
	ctx := context.Background()
	req := dto.WithdrawRequest{
		UserAccountID: suite.account.UserAccountID,
		Amount:        decimal.NewFromInt(500),
		Description:   "Counter withdrawal",
	}

	suite.mockAccountRepo.On("FindUserAccountByID", ctx, suite.account.UserAccountID).Return(&suite.account, nil).Once()

	_, err := suite.service.Withdraw(ctx, req, suite.staffID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "ApplyTransactions", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestDeposit_FrozenAccount() {
	ctx := context.Background()
	frozen := suite.account
	frozen.Status = domain.AccountFrozen
	req := dto.DepositRequest{
		UserAccountID: frozen.UserAccountID,
		Amount:        decimal.NewFromInt(10),
		Description:   "Counter deposit",
	}

	suite.mockAccountRepo.On("FindUserAccountByID", ctx, frozen.UserAccountID).Return(&frozen, nil).Once()

	_, err := suite.service.Deposit(ctx, req, suite.staffID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAccountNotActive)
}

func (suite *TransactionServiceTestSuite) TestDeposit_NoMappingConfigured() {
	ctx := context.Background()
	req := dto.DepositRequest{
		UserAccountID: suite.account.UserAccountID,
		Amount:        decimal.NewFromInt(10),
		Description:   "Counter deposit",
	}

	suite.mockAccountRepo.On("FindUserAccountByID", ctx, suite.account.UserAccountID).Return(&suite.account, nil).Once()
	suite.mockMappingRepo.On("FindMappingByKind", ctx, domain.KindDeposit).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Deposit(ctx, req, suite.staffID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockDayBookSvc.AssertNotCalled(suite.T(), "EnsureDayBookForDate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestDeposit_DayBookClosed() {
	ctx := context.Background()
	closedBook := suite.openBook
	closedBook.IsReconciled = true
	closedBook.IsClosed = true
	req := dto.DepositRequest{
		UserAccountID: suite.account.UserAccountID,
		Amount:        decimal.NewFromInt(10),
		Description:   "Counter deposit",
	}

	suite.mockAccountRepo.On("FindUserAccountByID", ctx, suite.account.UserAccountID).Return(&suite.account, nil).Once()
	suite.mockMappingRepo.On("FindMappingByKind", ctx, domain.KindDeposit).Return(&suite.depositMapping, nil).Once()
	suite.mockDayBookSvc.On("EnsureDayBookForDate", ctx, mock.AnythingOfType("time.Time"), suite.staffID).Return(&closedBook, nil).Once()

	_, err := suite.service.Deposit(ctx, req, suite.staffID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDayBookClosed)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "ApplyTransactions", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestDeposit_JournalPostFailureLeavesPending() {
	ctx := context.Background()
	amount := decimal.NewFromInt(50)
	req := dto.DepositRequest{
		UserAccountID: suite.account.UserAccountID,
		Amount:        amount,
		Description:   "Counter deposit",
	}
	applied := suite.appliedFor(domain.KindDeposit, amount)

	suite.mockAccountRepo.On("FindUserAccountByID", ctx, suite.account.UserAccountID).Return(&suite.account, nil).Once()
	suite.mockMappingRepo.On("FindMappingByKind", ctx, domain.KindDeposit).Return(&suite.depositMapping, nil).Twice()
	suite.mockDayBookSvc.On("EnsureDayBookForDate", ctx, mock.AnythingOfType("time.Time"), suite.staffID).Return(&suite.openBook, nil).Once()
	suite.mockTxnRepo.On("ApplyTransactions", ctx, mock.Anything, suite.openBook.DayBookID).Return(applied, nil).Once()
	suite.mockJournalSvc.On("PostEntry", ctx, mock.Anything, suite.staffID).Return(nil, assert.AnError).Once()

	txn, err := suite.service.Deposit(ctx, req, suite.staffID)

	// The balance change is committed; the journal stays pending.
	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.True(txn.JournalPending)
	suite.Empty(txn.JournalEntryID)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SetJournalPosted",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestTransfer_Success() {
	ctx := context.Background()
	amount := decimal.NewFromInt(40)
	to := domain.UserAccount{
		UserAccountID: uuid.NewString(),
		AccountNumber: "SB-0002",
		Balance:       decimal.NewFromInt(10),
		Status:        domain.AccountActive,
	}
	req := dto.TransferRequest{
		FromUserAccountID: suite.account.UserAccountID,
		ToUserAccountID:   to.UserAccountID,
		Amount:            amount,
		Description:       "Savings move",
	}
	outMapping := domain.KindMapping{Kind: domain.KindTransferOut, DebitAccountCode: "USER_DEPOSITS", CreditAccountCode: "TRANSFER_CLEARING"}
	inMapping := domain.KindMapping{Kind: domain.KindTransferIn, DebitAccountCode: "TRANSFER_CLEARING", CreditAccountCode: "USER_DEPOSITS"}
	applied := []domain.AccountTransaction{
		{
			TransactionID:     "txn-out",
			TransactionNumber: "TXN20240105-0002",
			UserAccountID:     suite.account.UserAccountID,
			Kind:              domain.KindTransferOut,
			Amount:            amount,
			Reference:         "TRF-abc123",
			Description:       "Savings move",
			JournalPending:    true,
			DayBookID:         suite.openBook.DayBookID,
			AuditFields:       domain.AuditFields{CreatedAt: time.Now().UTC()},
		},
		{
			TransactionID:     "txn-in",
			TransactionNumber: "TXN20240105-0003",
			UserAccountID:     to.UserAccountID,
			Kind:              domain.KindTransferIn,
			Amount:            amount,
			Reference:         "TRF-abc123",
			Description:       "Savings move",
			JournalPending:    true,
			DayBookID:         suite.openBook.DayBookID,
			AuditFields:       domain.AuditFields{CreatedAt: time.Now().UTC()},
		},
	}
	entry := &domain.JournalEntry{EntryID: uuid.NewString()}

	suite.mockAccountRepo.On("FindUserAccountByID", ctx, suite.account.UserAccountID).Return(&suite.account, nil).Once()
	suite.mockAccountRepo.On("FindUserAccountByID", ctx, to.UserAccountID).Return(&to, nil).Once()
	suite.mockMappingRepo.On("FindMappingByKind", ctx, domain.KindTransferOut).Return(&outMapping, nil).Twice()
	suite.mockMappingRepo.On("FindMappingByKind", ctx, domain.KindTransferIn).Return(&inMapping, nil).Twice()
	suite.mockDayBookSvc.On("EnsureDayBookForDate", ctx, mock.AnythingOfType("time.Time"), suite.staffID).Return(&suite.openBook, nil).Once()
	suite.mockTxnRepo.On("ApplyTransactions", ctx, mock.AnythingOfType("[]domain.AccountTransaction"), suite.openBook.DayBookID).
		Run(func(args mock.Arguments) {
			txns := args.Get(1).([]domain.AccountTransaction)
			suite.Require().Len(txns, 2)
			// Outgoing leg first, both sharing one generated reference.
			suite.Equal(domain.KindTransferOut, txns[0].Kind)
			suite.Equal(domain.KindTransferIn, txns[1].Kind)
			suite.True(strings.HasPrefix(txns[0].Reference, "TRF-"))
			suite.Equal(txns[0].Reference, txns[1].Reference)
		}).
		Return(applied, nil).Once()
	suite.mockJournalSvc.On("PostEntry", ctx, mock.AnythingOfType("dto.PostJournalEntryRequest"), suite.staffID).
		Run(func(args mock.Arguments) {
			entryReq := args.Get(1).(dto.PostJournalEntryRequest)
			// One balanced entry covering both legs.
			suite.Require().Len(entryReq.Lines, 4)
			suite.Contains(entryReq.Narration, "TRANSFER")
		}).
		Return(entry, nil).Once()
	suite.mockTxnRepo.On("SetJournalPosted", ctx, "txn-out", entry.EntryID, suite.staffID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockTxnRepo.On("SetJournalPosted", ctx, "txn-in", entry.EntryID, suite.staffID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	txns, err := suite.service.Transfer(ctx, req, suite.staffID)

	suite.Require().NoError(err)
	suite.Require().Len(txns, 2)
	suite.False(txns[0].JournalPending)
	suite.False(txns[1].JournalPending)
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockJournalSvc.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestTransfer_SameAccount() {
	ctx := context.Background()
	req := dto.TransferRequest{
		FromUserAccountID: suite.account.UserAccountID,
		ToUserAccountID:   suite.account.UserAccountID,
		Amount:            decimal.NewFromInt(10),
		Description:       "Self transfer",
	}

	_, err := suite.service.Transfer(ctx, req, suite.staffID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindUserAccountByID", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestAdjust_NegativeAmountSwapsPostingSides() {
	ctx := context.Background()
	amount := decimal.NewFromInt(-25)
	req := dto.AdjustmentRequest{
		UserAccountID: suite.account.UserAccountID,
		Amount:        amount,
		Description:   "Posting correction",
	}
	adjMapping := domain.KindMapping{Kind: domain.KindAdjustment, DebitAccountCode: "SUSPENSE", CreditAccountCode: "USER_DEPOSITS"}
	applied := []domain.AccountTransaction{{
		TransactionID:     "txn-adj",
		TransactionNumber: "TXN20240105-0004",
		UserAccountID:     suite.account.UserAccountID,
		Kind:              domain.KindAdjustment,
		Amount:            amount,
		Description:       "Posting correction",
		JournalPending:    true,
		DayBookID:         suite.openBook.DayBookID,
		AuditFields:       domain.AuditFields{CreatedAt: time.Now().UTC()},
	}}
	entry := &domain.JournalEntry{EntryID: uuid.NewString()}

	suite.mockAccountRepo.On("FindUserAccountByID", ctx, suite.account.UserAccountID).Return(&suite.account, nil).Once()
	suite.mockMappingRepo.On("FindMappingByKind", ctx, domain.KindAdjustment).Return(&adjMapping, nil).Twice()
	suite.mockDayBookSvc.On("EnsureDayBookForDate", ctx, mock.AnythingOfType("time.Time"), suite.staffID).Return(&suite.openBook, nil).Once()
	suite.mockTxnRepo.On("ApplyTransactions", ctx, mock.Anything, suite.openBook.DayBookID).Return(applied, nil).Once()
	suite.mockJournalSvc.On("PostEntry", ctx, mock.AnythingOfType("dto.PostJournalEntryRequest"), suite.staffID).
		Run(func(args mock.Arguments) {
			entryReq := args.Get(1).(dto.PostJournalEntryRequest)
			suite.Require().Len(entryReq.Lines, 2)
			// Negative amount routes with debit and credit swapped, absolute amount.
			suite.Equal("USER_DEPOSITS", entryReq.Lines[0].AccountCode)
			suite.True(entryReq.Lines[0].Debit.Equal(decimal.NewFromInt(25)))
			suite.Equal("SUSPENSE", entryReq.Lines[1].AccountCode)
			suite.True(entryReq.Lines[1].Credit.Equal(decimal.NewFromInt(25)))
		}).
		Return(entry, nil).Once()
	suite.mockTxnRepo.On("SetJournalPosted", ctx, "txn-adj", entry.EntryID, suite.staffID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	txn, err := suite.service.Adjust(ctx, req, suite.staffID)

	suite.Require().NoError(err)
	suite.True(txn.Amount.Equal(amount))
	suite.mockJournalSvc.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestAdjust_ZeroAmount() {
	ctx := context.Background()
	req := dto.AdjustmentRequest{
		UserAccountID: suite.account.UserAccountID,
		Amount:        decimal.Zero,
		Description:   "No-op adjustment",
	}

	_, err := suite.service.Adjust(ctx, req, suite.staffID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestListTransactionsByAccount_UnknownAccount() {
	ctx := context.Background()
	unknownID := uuid.NewString()

	suite.mockAccountRepo.On("FindUserAccountByID", ctx, unknownID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ListTransactionsByAccount(ctx, unknownID, dto.ListTransactionsParams{})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "ListTransactionsByAccount",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestRepostPendingJournal_GroupsTransferLegs() {
	ctx := context.Background()
	now := time.Now().UTC()
	depositMapping := suite.depositMapping
	outMapping := domain.KindMapping{Kind: domain.KindTransferOut, DebitAccountCode: "USER_DEPOSITS", CreditAccountCode: "TRANSFER_CLEARING"}
	inMapping := domain.KindMapping{Kind: domain.KindTransferIn, DebitAccountCode: "TRANSFER_CLEARING", CreditAccountCode: "USER_DEPOSITS"}

	pending := []domain.AccountTransaction{
		{
			TransactionID:     "p-dep",
			TransactionNumber: "TXN20240105-0005",
			Kind:              domain.KindDeposit,
			Amount:            decimal.NewFromInt(30),
			Description:       "Counter deposit",
			JournalPending:    true,
			DayBookID:         suite.openBook.DayBookID,
			AuditFields:       domain.AuditFields{CreatedAt: now},
		},
		{
			TransactionID:     "p-out",
			TransactionNumber: "TXN20240105-0006",
			Kind:              domain.KindTransferOut,
			Amount:            decimal.NewFromInt(20),
			Reference:         "TRF-shared",
			Description:       "Savings move",
			JournalPending:    true,
			DayBookID:         suite.openBook.DayBookID,
			AuditFields:       domain.AuditFields{CreatedAt: now},
		},
		{
			TransactionID:     "p-in",
			TransactionNumber: "TXN20240105-0007",
			Kind:              domain.KindTransferIn,
			Amount:            decimal.NewFromInt(20),
			Reference:         "TRF-shared",
			Description:       "Savings move",
			JournalPending:    true,
			DayBookID:         suite.openBook.DayBookID,
			AuditFields:       domain.AuditFields{CreatedAt: now},
		},
	}
	entry := &domain.JournalEntry{EntryID: uuid.NewString()}

	suite.mockTxnRepo.On("ListPendingJournal", ctx, 50).Return(pending, nil).Once()
	suite.mockMappingRepo.On("FindMappingByKind", ctx, domain.KindDeposit).Return(&depositMapping, nil).Once()
	suite.mockMappingRepo.On("FindMappingByKind", ctx, domain.KindTransferOut).Return(&outMapping, nil).Once()
	suite.mockMappingRepo.On("FindMappingByKind", ctx, domain.KindTransferIn).Return(&inMapping, nil).Once()
	// One entry for the deposit, one for the transfer pair.
	suite.mockJournalSvc.On("PostEntry", ctx, mock.AnythingOfType("dto.PostJournalEntryRequest"), suite.staffID).Return(entry, nil).Twice()
	suite.mockTxnRepo.On("SetJournalPosted", ctx, "p-dep", entry.EntryID, suite.staffID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockTxnRepo.On("SetJournalPosted", ctx, "p-out", entry.EntryID, suite.staffID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockTxnRepo.On("SetJournalPosted", ctx, "p-in", entry.EntryID, suite.staffID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	posted, err := suite.service.RepostPendingJournal(ctx, 50, suite.staffID)

	suite.Require().NoError(err)
	suite.Equal(2, posted)
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockJournalSvc.AssertExpectations(suite.T())
	suite.mockMappingRepo.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestTransactionService(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
