package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	portssvc "github.com/notcool100/astrofinance-ledger/internal/core/ports/services"
	"github.com/notcool100/astrofinance-ledger/internal/dto"
	"github.com/notcool100/astrofinance-ledger/internal/middleware"
)

// auditHandler handles HTTP requests for the audit trail.
type auditHandler struct {
	auditService portssvc.AuditSvcFacade
}

func newAuditHandler(auditService portssvc.AuditSvcFacade) *auditHandler {
	return &auditHandler{
		auditService: auditService,
	}
}

// RegisterAuditRoutes registers routes related to the audit trail.
func RegisterAuditRoutes(rg *gin.RouterGroup, auditService portssvc.AuditSvcFacade) {
	h := newAuditHandler(auditService)

	audit := rg.Group("/audit")
	{
		audit.GET("/entity/:entityType/:entityID", h.listByEntity)
		audit.GET("/staff/:staffID", h.listByStaff)
	}
}

// listByEntity godoc
// @Summary Audit trail for an entity
// @Description Retrieves the audit records for one entity, newest first
// @Tags audit
// @Produce  json
// @Param   entityType path string true "Entity type (e.g. account_transaction)"
// @Param   entityID path string true "Entity ID"
// @Param   limit query int false "Maximum number of records" default(50)
// @Success 200 {array} dto.AuditRecordResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list audit records"
// @Security BearerAuth
// @Router /audit/entity/{entityType}/{entityID} [get]
func (h *auditHandler) listByEntity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityType := c.Param("entityType")
	entityID := c.Param("entityID")

	var params dto.ListAuditParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	records, err := h.auditService.ListByEntity(c.Request.Context(), entityType, entityID, params.Limit)
	if err != nil {
		logger.Error("Failed to list audit records by entity", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list audit records"})
		return
	}

	c.JSON(http.StatusOK, dto.ToAuditRecordResponses(records))
}

// listByStaff godoc
// @Summary Audit trail for a staff user
// @Description Retrieves actions performed by one staff user within a time range
// @Tags audit
// @Produce  json
// @Param   staffID path string true "Staff ID"
// @Param   from query string false "Start date (YYYY-MM-DD)"
// @Param   to query string false "End date (YYYY-MM-DD), defaults to today"
// @Param   limit query int false "Maximum number of records" default(50)
// @Success 200 {array} dto.AuditRecordResponse
// @Failure 400 {object} map[string]string "Invalid date format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list audit records"
// @Security BearerAuth
// @Router /audit/staff/{staffID} [get]
func (h *auditHandler) listByStaff(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	staffID := c.Param("staffID")

	var params dto.ListAuditParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	var from, to time.Time
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'from' date, expected YYYY-MM-DD"})
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'to' date, expected YYYY-MM-DD"})
			return
		}
		to = parsed
	} else {
		to = time.Now().UTC()
	}

	records, err := h.auditService.ListByStaff(c.Request.Context(), staffID, from, to, params.Limit)
	if err != nil {
		logger.Error("Failed to list audit records by staff", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list audit records"})
		return
	}

	c.JSON(http.StatusOK, dto.ToAuditRecordResponses(records))
}
