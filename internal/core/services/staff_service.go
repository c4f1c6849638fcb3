package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	portsrepo "github.com/notcool100/astrofinance-ledger/internal/core/ports/repositories"
	portssvc "github.com/notcool100/astrofinance-ledger/internal/core/ports/services"
	"github.com/notcool100/astrofinance-ledger/internal/dto"
	"github.com/notcool100/astrofinance-ledger/internal/utils"
)

// staffService manages back-office staff users.
type staffService struct {
	BaseService
	staffRepo portsrepo.StaffRepositoryFacade
	auditSvc  portssvc.AuditSvcFacade
}

// NewStaffService creates a new StaffService.
func NewStaffService(staffRepo portsrepo.StaffRepositoryFacade, auditSvc portssvc.AuditSvcFacade) portssvc.StaffSvcFacade {
	return &staffService{
		staffRepo: staffRepo,
		auditSvc:  auditSvc,
	}
}

// Ensure staffService implements the portssvc.StaffSvcFacade interface
var _ portssvc.StaffSvcFacade = (*staffService)(nil)

// CreateStaff registers a new staff user with a bcrypt-hashed password.
func (s *staffService) CreateStaff(ctx context.Context, req dto.CreateStaffRequest, creatorStaffID string) (*domain.Staff, error) {
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password for new staff user")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	staff := domain.Staff{
		StaffID:      uuid.NewString(),
		Name:         req.Name,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorStaffID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorStaffID,
		},
	}

	if err := s.staffRepo.SaveStaff(ctx, staff); err != nil {
		s.LogError(ctx, err, "Failed to save staff user",
			slog.String("email", staff.Email))
		return nil, err
	}

	if s.auditSvc != nil {
		s.auditSvc.RecordAction(ctx, domain.AuditRecord{
			EntityType:  "staff",
			EntityID:    staff.StaffID,
			Action:      domain.AuditActionCreate,
			PerformedBy: creatorStaffID,
		})
	}

	s.LogInfo(ctx, "Staff user created successfully",
		slog.String("staff_id", staff.StaffID),
		slog.String("email", staff.Email))
	return &staff, nil
}

// GetStaffByID retrieves a specific staff user.
func (s *staffService) GetStaffByID(ctx context.Context, staffID string) (*domain.Staff, error) {
	staff, err := s.staffRepo.FindStaffByID(ctx, staffID)
	if err != nil {
		return nil, err
	}
	return staff, nil
}

// ListStaff retrieves a paginated list of staff users.
func (s *staffService) ListStaff(ctx context.Context, params dto.ListStaffParams) (*dto.ListStaffResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	staff, err := s.staffRepo.ListStaff(ctx, limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list staff users")
		return nil, fmt.Errorf("failed to list staff users: %w", err)
	}

	resp := dto.ToListStaffResponse(staff)
	return &resp, nil
}

// UpdateStaff updates a staff user's name or active flag.
func (s *staffService) UpdateStaff(ctx context.Context, staffID string, req dto.UpdateStaffRequest, actingStaffID string) (*domain.Staff, error) {
	staff, err := s.staffRepo.FindStaffByID(ctx, staffID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		staff.Name = *req.Name
		updated = true
	}
	if req.IsActive != nil {
		staff.IsActive = *req.IsActive
		updated = true
	}
	if !updated {
		s.LogDebug(ctx, "No fields provided for staff update",
			slog.String("staff_id", staffID))
		return staff, nil
	}

	now := time.Now().UTC()
	staff.LastUpdatedAt = now
	staff.LastUpdatedBy = actingStaffID

	if err := s.staffRepo.UpdateStaff(ctx, *staff); err != nil {
		s.LogError(ctx, err, "Failed to update staff user",
			slog.String("staff_id", staffID))
		return nil, err
	}

	if s.auditSvc != nil {
		s.auditSvc.RecordAction(ctx, domain.AuditRecord{
			EntityType:  "staff",
			EntityID:    staffID,
			Action:      domain.AuditActionUpdate,
			PerformedBy: actingStaffID,
		})
	}

	s.LogInfo(ctx, "Staff user updated successfully",
		slog.String("staff_id", staffID))
	return staff, nil
}
