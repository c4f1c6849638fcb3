package dto

import (
	"time"

	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
)

// CreateStaffRequest defines the data needed to register a staff user.
type CreateStaffRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// UpdateStaffRequest defines the data allowed for updating a staff user.
type UpdateStaffRequest struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"isActive"`
}

// StaffResponse defines the data returned for a staff user.
// The password hash is never exposed.
type StaffResponse struct {
	StaffID   string    `json:"staffID"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToStaffResponse converts a domain.Staff to its response DTO.
func ToStaffResponse(s *domain.Staff) StaffResponse {
	return StaffResponse{
		StaffID:   s.StaffID,
		Name:      s.Name,
		Email:     s.Email,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
	}
}

// ListStaffParams defines query parameters for listing staff users.
type ListStaffParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListStaffResponse wraps the list of staff users.
type ListStaffResponse struct {
	Staff []StaffResponse `json:"staff"`
}

// ToListStaffResponse converts a slice of domain.Staff to the list DTO.
func ToListStaffResponse(staff []domain.Staff) ListStaffResponse {
	res := make([]StaffResponse, len(staff))
	for i, s := range staff {
		res[i] = ToStaffResponse(&s)
	}
	return ListStaffResponse{Staff: res}
}
