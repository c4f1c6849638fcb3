package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notcool100/astrofinance-ledger/internal/apperrors"
	portssvc "github.com/notcool100/astrofinance-ledger/internal/core/ports/services"
	"github.com/notcool100/astrofinance-ledger/internal/dto"
	"github.com/notcool100/astrofinance-ledger/internal/middleware"
)

// staffHandler handles HTTP requests related to staff users.
type staffHandler struct {
	staffService portssvc.StaffSvcFacade
}

func newStaffHandler(staffService portssvc.StaffSvcFacade) *staffHandler {
	return &staffHandler{
		staffService: staffService,
	}
}

// RegisterStaffRoutes registers routes related to staff users.
func RegisterStaffRoutes(rg *gin.RouterGroup, staffService portssvc.StaffSvcFacade) {
	h := newStaffHandler(staffService)

	staff := rg.Group("/staff")
	{
		staff.POST("", h.createStaff)
		staff.GET("", h.listStaff)
		staff.GET("/:id", h.getStaff)
		staff.PUT("/:id", h.updateStaff)
	}
}

// createStaff godoc
// @Summary Register a staff user
// @Description Registers a new staff user; the password is stored as a bcrypt hash
// @Tags staff
// @Accept  json
// @Produce  json
// @Param   staff body dto.CreateStaffRequest true "Staff details"
// @Success 201 {object} dto.StaffResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Email already registered"
// @Failure 500 {object} map[string]string "Failed to register staff"
// @Security BearerAuth
// @Router /staff [post]
func (h *staffHandler) createStaff(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createStaff", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	creatorStaffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	staff, err := h.staffService.CreateStaff(c.Request.Context(), req, creatorStaffID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email is already registered"})
		} else {
			logger.Error("Failed to create staff in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register staff"})
		}
		return
	}

	logger.Info("Staff registered", slog.String("staff_id", staff.StaffID))
	c.JSON(http.StatusCreated, dto.ToStaffResponse(staff))
}

// getStaff godoc
// @Summary Get a staff user by ID
// @Description Retrieves a staff user's details
// @Tags staff
// @Produce  json
// @Param   id path string true "Staff ID"
// @Success 200 {object} dto.StaffResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Staff not found"
// @Failure 500 {object} map[string]string "Failed to retrieve staff"
// @Security BearerAuth
// @Router /staff/{id} [get]
func (h *staffHandler) getStaff(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	staffID := c.Param("id")

	staff, err := h.staffService.GetStaffByID(c.Request.Context(), staffID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Staff not found"})
		} else {
			logger.Error("Failed to get staff from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve staff"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToStaffResponse(staff))
}

// listStaff godoc
// @Summary List staff users
// @Description Retrieves a paginated list of staff users
// @Tags staff
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListStaffResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list staff"
// @Security BearerAuth
// @Router /staff [get]
func (h *staffHandler) listStaff(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListStaffParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.staffService.ListStaff(c.Request.Context(), params)
	if err != nil {
		logger.Error("Failed to list staff", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list staff"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// updateStaff godoc
// @Summary Update a staff user
// @Description Updates a staff user's name or active flag
// @Tags staff
// @Accept  json
// @Produce  json
// @Param   id path string true "Staff ID"
// @Param   staff body dto.UpdateStaffRequest true "Fields to update"
// @Success 200 {object} dto.StaffResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Staff not found"
// @Failure 500 {object} map[string]string "Failed to update staff"
// @Security BearerAuth
// @Router /staff/{id} [put]
func (h *staffHandler) updateStaff(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	staffID := c.Param("id")

	var req dto.UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	actingStaffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	staff, err := h.staffService.UpdateStaff(c.Request.Context(), staffID, req, actingStaffID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Staff not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update staff in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update staff"})
		}
		return
	}

	logger.Info("Staff updated", slog.String("staff_id", staffID))
	c.JSON(http.StatusOK, dto.ToStaffResponse(staff))
}
