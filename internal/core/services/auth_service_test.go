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
	"github.com/notcool100/astrofinance-ledger/internal/platform/config"
	"github.com/notcool100/astrofinance-ledger/internal/utils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Setup ---
type AuthServiceTestSuite struct {
	suite.Suite
	mockStaffRepo *MockStaffRepository
	service       portssvc.AuthSvcFacade
	staff         domain.Staff
	password      string
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockStaffRepo = new(MockStaffRepository)
	cfg := &config.Config{
		JWTSecret:         "test-secret-not-for-production",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "astrofinance-ledger-test",
	}
	suite.service = services.NewAuthService(cfg, suite.mockStaffRepo)

	suite.password = "S3cure!pass"
	hash, err := utils.HashPassword(suite.password)
	suite.Require().NoError(err)
	suite.staff = domain.Staff{
		StaffID:      uuid.NewString(),
		Name:         "Sita Sharma",
		Email:        "sita@example.com",
		PasswordHash: hash,
		IsActive:     true,
	}
}

// --- Test Cases ---

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	ctx := context.Background()
	req := dto.LoginRequest{Email: suite.staff.Email, Password: suite.password}

	suite.mockStaffRepo.On("FindStaffByEmail", ctx, suite.staff.Email).Return(&suite.staff, nil).Once()

	resp, err := suite.service.Login(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.NotEmpty(resp.Token)
	suite.Equal(suite.staff.StaffID, resp.Staff.StaffID)
	suite.True(resp.ExpiresAt.After(time.Now()))
	suite.mockStaffRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestLogin_NormalizesEmail() {
	ctx := context.Background()
	req := dto.LoginRequest{Email: "  Sita@Example.COM ", Password: suite.password}

	suite.mockStaffRepo.On("FindStaffByEmail", ctx, "sita@example.com").Return(&suite.staff, nil).Once()

	_, err := suite.service.Login(ctx, req)

	suite.Require().NoError(err)
	suite.mockStaffRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownEmail() {
	ctx := context.Background()
	req := dto.LoginRequest{Email: "nobody@example.com", Password: suite.password}

	suite.mockStaffRepo.On("FindStaffByEmail", ctx, "nobody@example.com").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Login(ctx, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()
	req := dto.LoginRequest{Email: suite.staff.Email, Password: "not-the-password"}

	suite.mockStaffRepo.On("FindStaffByEmail", ctx, suite.staff.Email).Return(&suite.staff, nil).Once()

	_, err := suite.service.Login(ctx, req)

	suite.Require().Error(err)
	// Wrong passwords and unknown emails fail identically.
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestLogin_InactiveStaff() {
	ctx := context.Background()
	inactive := suite.staff
	inactive.IsActive = false
	req := dto.LoginRequest{Email: inactive.Email, Password: suite.password}

	suite.mockStaffRepo.On("FindStaffByEmail", ctx, inactive.Email).Return(&inactive, nil).Once()

	_, err := suite.service.Login(ctx, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockStaffRepo.AssertNotCalled(suite.T(), "UpdateStaff", mock.Anything, mock.Anything)
}

// --- Run Test Suite ---
func TestAuthService(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
