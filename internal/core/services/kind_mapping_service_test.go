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
type KindMappingServiceTestSuite struct {
	suite.Suite
	mockMappingRepo *MockKindMappingRepository
	mockAccountRepo *MockLedgerAccountRepository
	service         portssvc.KindMappingSvcFacade
	staffID         string
	cashAccount     domain.LedgerAccount
	depositsAccount domain.LedgerAccount
}

func (suite *KindMappingServiceTestSuite) SetupTest() {
	suite.mockMappingRepo = new(MockKindMappingRepository)
	suite.mockAccountRepo = new(MockLedgerAccountRepository)
	suite.service = services.NewKindMappingService(suite.mockMappingRepo, suite.mockAccountRepo, noopAuditService{})
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

// --- Test Cases ---

func (suite *KindMappingServiceTestSuite) TestSaveMapping_Success() {
	ctx := context.Background()
	req := dto.SaveKindMappingRequest{
		Kind:              domain.KindDeposit,
		DebitAccountCode:  "CASH",
		CreditAccountCode: "USER_DEPOSITS",
		Description:       "Counter deposits",
	}
	accounts := map[string]domain.LedgerAccount{
		"CASH":          suite.cashAccount,
		"USER_DEPOSITS": suite.depositsAccount,
	}

	stored := domain.KindMapping{
		MappingID:         uuid.NewString(),
		Kind:              domain.KindDeposit,
		DebitAccountCode:  "CASH",
		CreditAccountCode: "USER_DEPOSITS",
		Description:       "Counter deposits",
	}

	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, []string{"CASH", "USER_DEPOSITS"}).Return(accounts, nil).Once()
	suite.mockMappingRepo.On("SaveMapping", ctx, mock.AnythingOfType("domain.KindMapping")).
		Run(func(args mock.Arguments) {
			mapping := args.Get(1).(domain.KindMapping)
			suite.Equal(domain.KindDeposit, mapping.Kind)
			suite.Equal("CASH", mapping.DebitAccountCode)
			suite.Equal("USER_DEPOSITS", mapping.CreditAccountCode)
		}).
		Return(nil).Once()
	suite.mockMappingRepo.On("FindMappingByKind", ctx, domain.KindDeposit).Return(&stored, nil).Once()

	mapping, err := suite.service.SaveMapping(ctx, req, suite.staffID)

	suite.Require().NoError(err)
	suite.Require().NotNil(mapping)
	suite.Equal(stored.MappingID, mapping.MappingID)
	suite.mockMappingRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *KindMappingServiceTestSuite) TestSaveMapping_UnknownKind() {
	ctx := context.Background()
	req := dto.SaveKindMappingRequest{
		Kind:              domain.TransactionKind("GIFT"),
		DebitAccountCode:  "CASH",
		CreditAccountCode: "USER_DEPOSITS",
	}

	_, err := suite.service.SaveMapping(ctx, req, suite.staffID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountsByCodes", mock.Anything, mock.Anything)
}

func (suite *KindMappingServiceTestSuite) TestSaveMapping_SameAccountBothSides() {
	ctx := context.Background()
	req := dto.SaveKindMappingRequest{
		Kind:              domain.KindDeposit,
		DebitAccountCode:  "CASH",
		CreditAccountCode: "CASH",
	}

	_, err := suite.service.SaveMapping(ctx, req, suite.staffID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "must differ")
}

func (suite *KindMappingServiceTestSuite) TestSaveMapping_UnknownAccount() {
	ctx := context.Background()
	req := dto.SaveKindMappingRequest{
		Kind:              domain.KindDeposit,
		DebitAccountCode:  "CASH",
		CreditAccountCode: "NO_SUCH_ACCOUNT",
	}
	accounts := map[string]domain.LedgerAccount{"CASH": suite.cashAccount}

	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, []string{"CASH", "NO_SUCH_ACCOUNT"}).Return(accounts, nil).Once()

	_, err := suite.service.SaveMapping(ctx, req, suite.staffID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "does not exist")
	suite.mockMappingRepo.AssertNotCalled(suite.T(), "SaveMapping", mock.Anything, mock.Anything)
}

func (suite *KindMappingServiceTestSuite) TestSaveMapping_InactiveAccount() {
	ctx := context.Background()
	inactive := suite.depositsAccount
	inactive.IsActive = false
	req := dto.SaveKindMappingRequest{
		Kind:              domain.KindDeposit,
		DebitAccountCode:  "CASH",
		CreditAccountCode: "USER_DEPOSITS",
	}
	accounts := map[string]domain.LedgerAccount{
		"CASH":          suite.cashAccount,
		"USER_DEPOSITS": inactive,
	}

	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, []string{"CASH", "USER_DEPOSITS"}).Return(accounts, nil).Once()

	_, err := suite.service.SaveMapping(ctx, req, suite.staffID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "inactive")
	suite.mockMappingRepo.AssertNotCalled(suite.T(), "SaveMapping", mock.Anything, mock.Anything)
}

func (suite *KindMappingServiceTestSuite) TestGetMappingByKind_UnknownKind() {
	ctx := context.Background()

	_, err := suite.service.GetMappingByKind(ctx, domain.TransactionKind("GIFT"))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockMappingRepo.AssertNotCalled(suite.T(), "FindMappingByKind", mock.Anything, mock.Anything)
}

func (suite *KindMappingServiceTestSuite) TestGetMappingByKind_NotConfigured() {
	ctx := context.Background()

	suite.mockMappingRepo.On("FindMappingByKind", ctx, domain.KindFeeDebit).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetMappingByKind(ctx, domain.KindFeeDebit)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *KindMappingServiceTestSuite) TestListMappings_EmptyIsNotNil() {
	ctx := context.Background()

	suite.mockMappingRepo.On("ListMappings", ctx).Return(nil, nil).Once()

	mappings, err := suite.service.ListMappings(ctx)

	suite.Require().NoError(err)
	suite.NotNil(mappings)
	suite.Empty(mappings)
}

// --- Run Test Suite ---
func TestKindMappingService(t *testing.T) {
	suite.Run(t, new(KindMappingServiceTestSuite))
}
