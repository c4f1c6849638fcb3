package services

import (
	"context"

	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	"github.com/notcool100/astrofinance-ledger/internal/dto"
)

// StaffReaderSvc defines read operations for staff users
type StaffReaderSvc interface {
	// GetStaffByID retrieves a specific staff user by their ID.
	GetStaffByID(ctx context.Context, staffID string) (*domain.Staff, error)

	// ListStaff retrieves a paginated list of staff users.
	ListStaff(ctx context.Context, params dto.ListStaffParams) (*dto.ListStaffResponse, error)
}

// StaffWriterSvc defines write operations for staff users
type StaffWriterSvc interface {
	// CreateStaff registers a new staff user with a hashed password.
	CreateStaff(ctx context.Context, req dto.CreateStaffRequest, creatorStaffID string) (*domain.Staff, error)

	// UpdateStaff updates a staff user's details.
	UpdateStaff(ctx context.Context, staffID string, req dto.UpdateStaffRequest, actingStaffID string) (*domain.Staff, error)
}

// StaffSvcFacade combines all staff service interfaces
type StaffSvcFacade interface {
	StaffReaderSvc
	StaffWriterSvc
}
