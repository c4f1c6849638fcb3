package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/notcool100/astrofinance-ledger/internal/apperrors"
	portssvc "github.com/notcool100/astrofinance-ledger/internal/core/ports/services"
	"github.com/notcool100/astrofinance-ledger/internal/core/services"
	"github.com/notcool100/astrofinance-ledger/internal/dto"
	"github.com/notcool100/astrofinance-ledger/internal/middleware"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(journalService portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: journalService,
	}
}

// RegisterJournalRoutes registers routes related to journal entries.
func RegisterJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	journals := rg.Group("/journal-entries")
	{
		journals.POST("", h.postEntry)
		journals.GET("", h.listEntries)
		journals.GET("/:id", h.getEntry)
		journals.GET("/number/:number", h.getEntryByNumber)
		journals.POST("/:id/reverse", h.reverseEntry)
	}

	// Lines live under their ledger account; the param name must match the
	// one RegisterLedgerAccountRoutes uses at this position.
	rg.GET("/ledger-accounts/:id/lines", h.listAccountLines)
}

// postEntry godoc
// @Summary Post a manual journal entry
// @Description Validates, numbers and persists a balanced journal entry
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.PostJournalEntryRequest true "Entry with its lines"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Invalid input, unbalanced lines or unknown account code"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to post entry"
// @Security BearerAuth
// @Router /journal-entries [post]
func (h *journalHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.PostJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for postEntry", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	creatorStaffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		logger.Error("Staff ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.journalService.PostEntry(c.Request.Context(), req, creatorStaffID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) ||
			errors.Is(err, services.ErrNarrationMissing) ||
			errors.Is(err, services.ErrJournalMinLines) ||
			errors.Is(err, services.ErrJournalMinAccounts) ||
			errors.Is(err, services.ErrAccountNotFound) {
			logger.Warn("Validation error posting journal entry", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to post journal entry in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post journal entry"})
		}
		return
	}

	logger.Info("Journal entry posted", slog.String("entry_number", entry.EntryNumber))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// getEntry godoc
// @Summary Get a journal entry by ID
// @Description Retrieves a journal entry with all its lines
// @Tags journal-entries
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 500 {object} map[string]string "Failed to retrieve entry"
// @Security BearerAuth
// @Router /journal-entries/{id} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	entry, err := h.journalService.GetEntryByID(c.Request.Context(), entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
		} else {
			logger.Error("Failed to get journal entry from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve journal entry"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// getEntryByNumber godoc
// @Summary Get a journal entry by number
// @Description Retrieves a journal entry by its human-readable number (e.g. JE20240106-0001)
// @Tags journal-entries
// @Produce  json
// @Param   number path string true "Entry number"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 500 {object} map[string]string "Failed to retrieve entry"
// @Security BearerAuth
// @Router /journal-entries/number/{number} [get]
func (h *journalHandler) getEntryByNumber(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryNumber := c.Param("number")

	entry, err := h.journalService.GetEntryByNumber(c.Request.Context(), entryNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
		} else {
			logger.Error("Failed to get journal entry by number", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve journal entry"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// reverseEntry godoc
// @Summary Reverse a journal entry
// @Description Books a mirrored compensating entry and marks the original REVERSED
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   id path string true "Entry ID"
// @Param   reversal body dto.ReverseJournalEntryRequest true "Reversal reason"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Missing reason or inactive line account"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry already reversed or not POSTED"
// @Failure 500 {object} map[string]string "Failed to reverse entry"
// @Security BearerAuth
// @Router /journal-entries/{id}/reverse [post]
func (h *journalHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	var req dto.ReverseJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	actingStaffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	mirror, err := h.journalService.ReverseEntry(c.Request.Context(), entryID, req, actingStaffID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
		} else if errors.Is(err, services.ErrAlreadyReversed) || errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Conflict reversing journal entry", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to reverse journal entry in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reverse journal entry"})
		}
		return
	}

	logger.Info("Journal entry reversed",
		slog.String("entry_id", entryID),
		slog.String("mirror_entry_number", mirror.EntryNumber))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(mirror))
}

// listEntries godoc
// @Summary List journal entries
// @Description Retrieves a paginated list of journal entries for a date range
// @Tags journal-entries
// @Produce  json
// @Param   from query string false "Start date (YYYY-MM-DD)"
// @Param   to query string false "End date (YYYY-MM-DD)"
// @Param   includeReversed query bool false "Include reversed entries" default(false)
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list entries"
// @Security BearerAuth
// @Router /journal-entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.journalService.ListEntries(c.Request.Context(), params)
	if err != nil {
		logger.Error("Failed to list journal entries", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list journal entries"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// listAccountLines godoc
// @Summary List journal lines for a ledger account
// @Description Retrieves posted lines touching a ledger account within a date range, oldest first
// @Tags journal-entries
// @Produce  json
// @Param   id path string true "Ledger account ID"
// @Param   from query string false "Start date (YYYY-MM-DD), defaults to the beginning of time"
// @Param   to query string false "End date (YYYY-MM-DD), defaults to today"
// @Success 200 {array} dto.JournalLineResponse
// @Failure 400 {object} map[string]string "Invalid date format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list lines"
// @Security BearerAuth
// @Router /ledger-accounts/{id}/lines [get]
func (h *journalHandler) listAccountLines(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

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

	lines, err := h.journalService.ListAccountLines(c.Request.Context(), accountID, from, to)
	if err != nil {
		logger.Error("Failed to list account lines", slog.String("error", err.Error()), slog.String("account_id", accountID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list journal lines"})
		return
	}

	resp := make([]dto.JournalLineResponse, len(lines))
	for i := range lines {
		resp[i] = dto.ToJournalLineResponse(&lines[i])
	}
	c.JSON(http.StatusOK, resp)
}
