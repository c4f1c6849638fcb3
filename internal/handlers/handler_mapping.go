package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notcool100/astrofinance-ledger/internal/apperrors"
	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	portssvc "github.com/notcool100/astrofinance-ledger/internal/core/ports/services"
	"github.com/notcool100/astrofinance-ledger/internal/dto"
	"github.com/notcool100/astrofinance-ledger/internal/middleware"
)

// kindMappingHandler handles HTTP requests for transaction kind to posting mappings.
type kindMappingHandler struct {
	mappingService portssvc.KindMappingSvcFacade
}

func newKindMappingHandler(mappingService portssvc.KindMappingSvcFacade) *kindMappingHandler {
	return &kindMappingHandler{
		mappingService: mappingService,
	}
}

// RegisterKindMappingRoutes registers routes related to kind mappings.
func RegisterKindMappingRoutes(rg *gin.RouterGroup, mappingService portssvc.KindMappingSvcFacade) {
	h := newKindMappingHandler(mappingService)

	mappings := rg.Group("/kind-mappings")
	{
		mappings.GET("", h.listMappings)
		mappings.GET("/:kind", h.getMapping)
		mappings.PUT("", h.saveMapping)
	}
}

// listMappings godoc
// @Summary List kind mappings
// @Description Retrieves the posting mapping configured for every transaction kind
// @Tags kind-mappings
// @Produce  json
// @Success 200 {object} dto.ListKindMappingsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list mappings"
// @Security BearerAuth
// @Router /kind-mappings [get]
func (h *kindMappingHandler) listMappings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	mappings, err := h.mappingService.ListMappings(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list kind mappings", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list kind mappings"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListKindMappingsResponse(mappings))
}

// getMapping godoc
// @Summary Get the mapping for a transaction kind
// @Description Retrieves the debit/credit account pair a transaction kind posts to
// @Tags kind-mappings
// @Produce  json
// @Param   kind path string true "Transaction kind (e.g. DEPOSIT)"
// @Success 200 {object} dto.KindMappingResponse
// @Failure 400 {object} map[string]string "Unknown transaction kind"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No mapping configured for the kind"
// @Failure 500 {object} map[string]string "Failed to retrieve mapping"
// @Security BearerAuth
// @Router /kind-mappings/{kind} [get]
func (h *kindMappingHandler) getMapping(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	kind := domain.TransactionKind(c.Param("kind"))

	mapping, err := h.mappingService.GetMappingByKind(c.Request.Context(), kind)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No mapping configured for kind " + string(kind)})
		} else {
			logger.Error("Failed to get kind mapping from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve kind mapping"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToKindMappingResponse(mapping))
}

// saveMapping godoc
// @Summary Create or replace a kind mapping
// @Description Configures which ledger accounts a transaction kind debits and credits
// @Tags kind-mappings
// @Accept  json
// @Produce  json
// @Param   mapping body dto.SaveKindMappingRequest true "Mapping details"
// @Success 200 {object} dto.KindMappingResponse
// @Failure 400 {object} map[string]string "Invalid input or unknown account code"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to save mapping"
// @Security BearerAuth
// @Router /kind-mappings [put]
func (h *kindMappingHandler) saveMapping(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SaveKindMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for saveMapping", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	actingStaffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		logger.Error("Staff ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	mapping, err := h.mappingService.SaveMapping(c.Request.Context(), req, actingStaffID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error saving kind mapping", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to save kind mapping in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save kind mapping"})
		}
		return
	}

	logger.Info("Kind mapping saved", slog.String("kind", string(mapping.Kind)))
	c.JSON(http.StatusOK, dto.ToKindMappingResponse(mapping))
}
