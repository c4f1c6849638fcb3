package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/notcool100/astrofinance-ledger/internal/apperrors"
	portsrepo "github.com/notcool100/astrofinance-ledger/internal/core/ports/repositories"
	portssvc "github.com/notcool100/astrofinance-ledger/internal/core/ports/services"
	"github.com/notcool100/astrofinance-ledger/internal/dto"
	"github.com/notcool100/astrofinance-ledger/internal/middleware"
	"github.com/notcool100/astrofinance-ledger/internal/platform/config"
	"github.com/notcool100/astrofinance-ledger/internal/utils"
)

// authService verifies staff credentials and issues signed JWTs. It requires
// access to application configuration for the signing secret and expiry.
type authService struct {
	cfg       *config.Config
	staffRepo portsrepo.StaffRepositoryFacade
}

// NewAuthService creates a new instance of authService.
func NewAuthService(cfg *config.Config, staffRepo portsrepo.StaffRepositoryFacade) portssvc.AuthSvcFacade {
	return &authService{
		cfg:       cfg,
		staffRepo: staffRepo,
	}
}

// Ensure authService implements the portssvc.AuthSvcFacade interface
var _ portssvc.AuthSvcFacade = (*authService)(nil)

// Login verifies the email/password pair and returns a signed token plus the
// staff profile. Unknown emails, inactive users and wrong passwords all fail
// with the same ErrUnauthorized so callers cannot probe for valid emails.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	email := strings.ToLower(strings.TrimSpace(req.Email))
	staff, err := s.staffRepo.FindStaffByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Login attempt for unknown email", slog.String("email", email))
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		logger.Error("Failed to look up staff user for login", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to look up staff user: %w", err)
	}

	if !staff.IsActive {
		logger.Warn("Login attempt for inactive staff user", slog.String("staff_id", staff.StaffID))
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	if !utils.CheckPasswordHash(req.Password, staff.PasswordHash) {
		logger.Warn("Login attempt with wrong password", slog.String("staff_id", staff.StaffID))
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	expiryTime := time.Now().Add(s.cfg.JWTExpiryDuration)
	token, err := utils.GenerateJWT(staff.StaffID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		logger.Error("Failed to generate JWT", slog.String("error", err.Error()), slog.String("staff_id", staff.StaffID))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	logger.Info("Staff user logged in successfully", slog.String("staff_id", staff.StaffID))
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiryTime,
		Staff:     dto.ToStaffResponse(staff),
	}, nil
}
