package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/notcool100/astrofinance-ledger/internal/apperrors"
	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	portssvc "github.com/notcool100/astrofinance-ledger/internal/core/ports/services"
	"github.com/notcool100/astrofinance-ledger/internal/core/services"
	"github.com/notcool100/astrofinance-ledger/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Setup ---
type LedgerAccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockLedgerAccountRepository
	mockMappingRepo *MockKindMappingRepository
	service         portssvc.LedgerAccountSvcFacade
	staffID         string
	account         domain.LedgerAccount
}

func (suite *LedgerAccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockLedgerAccountRepository)
	suite.mockMappingRepo = new(MockKindMappingRepository)
	suite.service = services.NewLedgerAccountService(suite.mockAccountRepo,
		services.WithKindMappingRepository(suite.mockMappingRepo),
		services.WithAuditService(noopAuditService{}),
	)
	suite.staffID = uuid.NewString()
	suite.account = domain.LedgerAccount{
		AccountID:   uuid.NewString(),
		Code:        "CASH",
		Name:        "Cash in Hand",
		AccountType: domain.Asset,
		IsActive:    true,
	}
}

// --- Test Cases ---

func (suite *LedgerAccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateLedgerAccountRequest{
		Code:        "FEE_INCOME",
		Name:        "Fee Income",
		AccountType: domain.Income,
	}

	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.LedgerAccount")).
		Run(func(args mock.Arguments) {
			account := args.Get(1).(domain.LedgerAccount)
			suite.Equal("FEE_INCOME", account.Code)
			suite.Equal(domain.Income, account.AccountType)
			suite.True(account.IsActive)
			suite.Equal(suite.staffID, account.CreatedBy)
		}).
		Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, req, suite.staffID)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.NotEmpty(account.AccountID)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *LedgerAccountServiceTestSuite) TestCreateAccount_UnknownParent() {
	ctx := context.Background()
	parentID := uuid.NewString()
	req := dto.CreateLedgerAccountRequest{
		Code:            "PETTY_CASH",
		Name:            "Petty Cash",
		AccountType:     domain.Asset,
		ParentAccountID: &parentID,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, parentID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateAccount(ctx, req, suite.staffID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *LedgerAccountServiceTestSuite) TestUpdateAccount_NameOnly() {
	ctx := context.Background()
	newName := "Cash in Vault"
	req := dto.UpdateLedgerAccountRequest{Name: &newName}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.account.AccountID).Return(&suite.account, nil).Once()
	suite.mockAccountRepo.On("UpdateAccount", ctx, mock.AnythingOfType("domain.LedgerAccount")).
		Run(func(args mock.Arguments) {
			account := args.Get(1).(domain.LedgerAccount)
			suite.Equal(newName, account.Name)
			// Code and type never change after creation.
			suite.Equal("CASH", account.Code)
			suite.Equal(domain.Asset, account.AccountType)
		}).
		Return(nil).Once()

	account, err := suite.service.UpdateAccount(ctx, suite.account.AccountID, req, suite.staffID)

	suite.Require().NoError(err)
	suite.Equal(newName, account.Name)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *LedgerAccountServiceTestSuite) TestUpdateAccount_NoFields() {
	ctx := context.Background()

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.account.AccountID).Return(&suite.account, nil).Once()

	account, err := suite.service.UpdateAccount(ctx, suite.account.AccountID, dto.UpdateLedgerAccountRequest{}, suite.staffID)

	suite.Require().NoError(err)
	suite.Equal(suite.account.Name, account.Name)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *LedgerAccountServiceTestSuite) TestDeactivateAccount_Success() {
	ctx := context.Background()

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.account.AccountID).Return(&suite.account, nil).Once()
	suite.mockMappingRepo.On("ListMappings", ctx).Return([]domain.KindMapping{
		{Kind: domain.KindDeposit, DebitAccountCode: "TELLER_CASH", CreditAccountCode: "USER_DEPOSITS"},
	}, nil).Once()
	suite.mockAccountRepo.On("DeactivateAccount", ctx, suite.account.AccountID, suite.staffID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeactivateAccount(ctx, suite.account.AccountID, suite.staffID)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *LedgerAccountServiceTestSuite) TestDeactivateAccount_ReferencedByMapping() {
	ctx := context.Background()

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.account.AccountID).Return(&suite.account, nil).Once()
	suite.mockMappingRepo.On("ListMappings", ctx).Return([]domain.KindMapping{
		{Kind: domain.KindDeposit, DebitAccountCode: "CASH", CreditAccountCode: "USER_DEPOSITS"},
	}, nil).Once()

	err := suite.service.DeactivateAccount(ctx, suite.account.AccountID, suite.staffID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Contains(err.Error(), "referenced by the DEPOSIT kind mapping")
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "DeactivateAccount",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerAccountServiceTestSuite) TestGetAccountByName_Found() {
	ctx := context.Background()

	suite.mockAccountRepo.On("FindAccountByNameFuzzy", ctx, "cash").Return(&suite.account, nil).Once()

	account, err := suite.service.GetAccountByName(ctx, "cash")

	suite.Require().NoError(err)
	suite.Equal(suite.account.AccountID, account.AccountID)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *LedgerAccountServiceTestSuite) TestGetAccountByName_EmptyText() {
	ctx := context.Background()

	_, err := suite.service.GetAccountByName(ctx, "   ")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountByNameFuzzy", mock.Anything, mock.Anything)
}

func (suite *LedgerAccountServiceTestSuite) TestGetAccountByName_NoMatch() {
	ctx := context.Background()

	suite.mockAccountRepo.On("FindAccountByNameFuzzy", ctx, "escrow").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetAccountByName(ctx, "escrow")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Run Test Suite ---
func TestLedgerAccountService(t *testing.T) {
	suite.Run(t, new(LedgerAccountServiceTestSuite))
}
