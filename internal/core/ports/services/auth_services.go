package services

import (
	"context"

	"github.com/notcool100/astrofinance-ledger/internal/dto"
)

// AuthSvcFacade defines authentication operations for staff users
type AuthSvcFacade interface {
	// Login verifies staff credentials and issues a signed JWT.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}
