package repositories

import (
	"context"

	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
)

// StaffReader defines read operations for staff users
type StaffReader interface {
	// FindStaffByID retrieves a specific staff user by their identifier.
	FindStaffByID(ctx context.Context, staffID string) (*domain.Staff, error)

	// FindStaffByEmail retrieves a staff user by email, used during login.
	FindStaffByEmail(ctx context.Context, email string) (*domain.Staff, error)

	// ListStaff retrieves a paginated list of staff users.
	ListStaff(ctx context.Context, limit int, offset int) ([]domain.Staff, error)
}

// StaffWriter defines write operations for staff users
type StaffWriter interface {
	// SaveStaff persists a new staff user.
	SaveStaff(ctx context.Context, staff domain.Staff) error

	// UpdateStaff updates a staff user's details.
	UpdateStaff(ctx context.Context, staff domain.Staff) error
}

// StaffRepositoryFacade combines all staff repository interfaces
type StaffRepositoryFacade interface {
	StaffReader
	StaffWriter
}
