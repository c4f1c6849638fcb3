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

// dayBookHandler handles HTTP requests for the daily cash book lifecycle.
type dayBookHandler struct {
	dayBookService portssvc.DayBookSvcFacade
}

func newDayBookHandler(dayBookService portssvc.DayBookSvcFacade) *dayBookHandler {
	return &dayBookHandler{
		dayBookService: dayBookService,
	}
}

// RegisterDayBookRoutes registers routes related to day books.
func RegisterDayBookRoutes(rg *gin.RouterGroup, dayBookService portssvc.DayBookSvcFacade) {
	h := newDayBookHandler(dayBookService)

	books := rg.Group("/day-books")
	{
		books.GET("", h.listDayBooks)
		books.POST("/ensure", h.ensureDayBook)
		books.GET("/date/:date", h.getDayBookByDate)
		books.GET("/:id", h.getDayBook)
		books.POST("/:id/reconcile", h.reconcileDayBook)
		books.POST("/:id/close", h.closeDayBook)
	}
}

// listDayBooks godoc
// @Summary List day books
// @Description Retrieves day books within a date range, newest first. Defaults to the last month.
// @Tags day-books
// @Produce  json
// @Param   from query string false "Start date (YYYY-MM-DD)"
// @Param   to query string false "End date (YYYY-MM-DD)"
// @Param   limit query int false "Limit number of results" default(31)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListDayBooksResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list day books"
// @Security BearerAuth
// @Router /day-books [get]
func (h *dayBookHandler) listDayBooks(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListDayBooksParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.dayBookService.ListDayBooks(c.Request.Context(), params)
	if err != nil {
		logger.Error("Failed to list day books", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list day books"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getDayBook godoc
// @Summary Get a day book by ID
// @Description Retrieves a day book with its balances and reconciliation state
// @Tags day-books
// @Produce  json
// @Param   id path string true "Day book ID"
// @Success 200 {object} dto.DayBookResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Day book not found"
// @Failure 500 {object} map[string]string "Failed to retrieve day book"
// @Security BearerAuth
// @Router /day-books/{id} [get]
func (h *dayBookHandler) getDayBook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	dayBookID := c.Param("id")

	book, err := h.dayBookService.GetDayBookByID(c.Request.Context(), dayBookID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Day book not found"})
		} else {
			logger.Error("Failed to get day book from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve day book"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToDayBookResponse(book))
}

// getDayBookByDate godoc
// @Summary Get the day book for a business date
// @Description Retrieves the day book covering a specific date
// @Tags day-books
// @Produce  json
// @Param   date path string true "Business date (YYYY-MM-DD)"
// @Success 200 {object} dto.DayBookResponse
// @Failure 400 {object} map[string]string "Invalid date format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No day book for that date"
// @Failure 500 {object} map[string]string "Failed to retrieve day book"
// @Security BearerAuth
// @Router /day-books/date/{date} [get]
func (h *dayBookHandler) getDayBookByDate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	book, err := h.dayBookService.GetDayBookByDate(c.Request.Context(), date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No day book for that date"})
		} else {
			logger.Error("Failed to get day book by date", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve day book"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToDayBookResponse(book))
}

// ensureDayBook godoc
// @Summary Ensure a day book exists for a date
// @Description Returns the day book for the date, creating it with all balances at zero. Defaults to today.
// @Tags day-books
// @Produce  json
// @Param   date query string false "Business date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.DayBookResponse
// @Failure 400 {object} map[string]string "Invalid date format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to ensure day book"
// @Security BearerAuth
// @Router /day-books/ensure [post]
func (h *dayBookHandler) ensureDayBook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	date := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	actingStaffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	book, err := h.dayBookService.EnsureDayBookForDate(c.Request.Context(), date, actingStaffID)
	if err != nil {
		logger.Error("Failed to ensure day book", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to ensure day book"})
		return
	}

	logger.Info("Day book ensured", slog.String("book_number", book.BookNumber))
	c.JSON(http.StatusOK, dto.ToDayBookResponse(book))
}

// reconcileDayBook godoc
// @Summary Reconcile a day book
// @Description Records the physical cash count against the system cash balance and stores the discrepancy
// @Tags day-books
// @Accept  json
// @Produce  json
// @Param   id path string true "Day book ID"
// @Param   reconciliation body dto.ReconcileDayBookRequest true "Physical cash count"
// @Success 200 {object} dto.DayBookResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Day book not found"
// @Failure 409 {object} map[string]string "Day book already closed"
// @Failure 500 {object} map[string]string "Failed to reconcile day book"
// @Security BearerAuth
// @Router /day-books/{id}/reconcile [post]
func (h *dayBookHandler) reconcileDayBook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	dayBookID := c.Param("id")

	var req dto.ReconcileDayBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	actingStaffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	book, err := h.dayBookService.ReconcileDayBook(c.Request.Context(), dayBookID, req, actingStaffID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Day book not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrDayBookClosed) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to reconcile day book", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reconcile day book"})
		}
		return
	}

	logger.Info("Day book reconciled",
		slog.String("book_number", book.BookNumber),
		slog.String("discrepancy", book.DiscrepancyAmount.String()))
	c.JSON(http.StatusOK, dto.ToDayBookResponse(book))
}

// closeDayBook godoc
// @Summary Close a day book
// @Description Closes a reconciled day book. Closing is final; the date accepts no further transactions.
// @Tags day-books
// @Produce  json
// @Param   id path string true "Day book ID"
// @Success 200 {object} dto.DayBookResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Day book not found"
// @Failure 409 {object} map[string]string "Not reconciled or already closed"
// @Failure 500 {object} map[string]string "Failed to close day book"
// @Security BearerAuth
// @Router /day-books/{id}/close [post]
func (h *dayBookHandler) closeDayBook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	dayBookID := c.Param("id")

	actingStaffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	book, err := h.dayBookService.CloseDayBook(c.Request.Context(), dayBookID, actingStaffID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Day book not found"})
		} else if errors.Is(err, services.ErrDayBookNotReconciled) ||
			errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Refused to close day book", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to close day book", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close day book"})
		}
		return
	}

	logger.Info("Day book closed", slog.String("book_number", book.BookNumber))
	c.JSON(http.StatusOK, dto.ToDayBookResponse(book))
}
