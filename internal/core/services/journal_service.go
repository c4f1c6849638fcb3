package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/notcool100/astrofinance-ledger/internal/apperrors"
	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	portsrepo "github.com/notcool100/astrofinance-ledger/internal/core/ports/repositories"
	portssvc "github.com/notcool100/astrofinance-ledger/internal/core/ports/services"
	"github.com/notcool100/astrofinance-ledger/internal/dto"
	"github.com/notcool100/astrofinance-ledger/internal/middleware"
	"github.com/notcool100/astrofinance-ledger/internal/utils/accounting"
)

var (
	ErrJournalMinLines    = errors.New("journal entry must have at least two lines")
	ErrJournalMinAccounts = errors.New("journal entry must touch at least two different accounts")
	ErrAccountNotFound    = errors.New("ledger account not found")
	ErrNarrationMissing   = errors.New("journal narration is required")
	ErrAlreadyReversed    = errors.New("journal entry is already reversed")
)

// journalService posts balanced journal entries and serves journal reads.
type journalService struct {
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.LedgerAccountReader
	auditSvc    portssvc.AuditSvcFacade
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.LedgerAccountReader, auditSvc portssvc.AuditSvcFacade) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		auditSvc:    auditSvc,
	}
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// PostEntry validates, numbers and persists a balanced journal entry.
// Implements portssvc.JournalSvcFacade
func (s *journalService) PostEntry(ctx context.Context, req dto.PostJournalEntryRequest, creatorStaffID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// --- Basic Validation ---
	if len(req.Lines) < 2 {
		return nil, ErrJournalMinLines
	}
	if req.Narration == "" {
		return nil, ErrNarrationMissing
	}
	if req.EntryDate.IsZero() {
		return nil, fmt.Errorf("%w: entry date is required", apperrors.ErrValidation)
	}

	// Check that lines involve at least 2 different accounts
	accountCodes := make([]string, 0, len(req.Lines))
	for _, line := range req.Lines {
		accountCodes = append(accountCodes, line.AccountCode)
	}
	uniqueCodes := uniqueStrings(accountCodes)
	if len(uniqueCodes) < 2 {
		return nil, ErrJournalMinAccounts
	}

	// --- Fetch Accounts and Validate Further ---
	accountsMap, err := s.accountRepo.FindAccountsByCodes(ctx, uniqueCodes)
	if err != nil {
		logger.Error("Failed to fetch accounts for journal posting", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, code := range uniqueCodes {
		acc, found := accountsMap[code]
		if !found {
			return nil, fmt.Errorf("%w: code %s", ErrAccountNotFound, code)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, code)
		}
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()

	// Prepare domain lines from DTO, resolving codes to account IDs
	lines := make([]domain.JournalLine, len(req.Lines))
	for i, lineReq := range req.Lines {
		account := accountsMap[lineReq.AccountCode]
		lines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			EntryID:     entryID,
			AccountID:   account.AccountID,
			AccountCode: account.Code,
			Debit:       lineReq.Debit,
			Credit:      lineReq.Credit,
			Description: lineReq.Description,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     creatorStaffID,
				LastUpdatedAt: now,
				LastUpdatedBy: creatorStaffID,
			},
		}
	}

	// Validate balance (double-entry check): one-sided positive lines and
	// total debits equal to total credits.
	if err := accounting.ValidateEntryBalance(lines); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	// --- Persistence ---
	entry := domain.JournalEntry{
		EntryID:   entryID,
		EntryDate: req.EntryDate,
		Narration: req.Narration,
		Reference: req.Reference,
		Status:    domain.EntryPosted,
		DayBookID: req.DayBookID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorStaffID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorStaffID,
		},
	}
	if req.ReversesEntryID != nil {
		entry.ReversesEntryID = *req.ReversesEntryID
	}

	// The entry number is allocated inside the repository transaction so
	// numbering commits or rolls back with the entry itself.
	saved, err := s.journalRepo.SaveEntry(ctx, entry, lines)
	if err != nil {
		logger.Error("Failed to save journal entry", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	if s.auditSvc != nil {
		s.auditSvc.RecordAction(ctx, domain.AuditRecord{
			EntityType:  "journal_entry",
			EntityID:    saved.EntryID,
			Action:      domain.AuditActionCreate,
			PerformedBy: creatorStaffID,
		})
	}

	logger.Info("Journal entry posted successfully",
		slog.String("entry_id", saved.EntryID),
		slog.String("entry_number", saved.EntryNumber))
	return saved, nil
}

// GetEntryByID retrieves a journal entry with its lines.
// Implements portssvc.JournalSvcFacade
func (s *journalService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find journal entry by ID", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, err
	}

	logger.Debug("Journal entry retrieved successfully",
		slog.String("entry_id", entryID),
		slog.Int("line_count", len(entry.Lines)))
	return entry, nil
}

// GetEntryByNumber retrieves a journal entry by its human-readable number.
func (s *journalService) GetEntryByNumber(ctx context.Context, entryNumber string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.journalRepo.FindEntryByNumber(ctx, entryNumber)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find journal entry by number", slog.String("error", err.Error()), slog.String("entry_number", entryNumber))
		}
		return nil, err
	}
	return entry, nil
}

// ListEntries retrieves a paginated list of journal entries for a date range.
func (s *journalService) ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// Set default limit if not provided
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.journalRepo.ListEntries(ctx, params.From, params.To, params.IncludeReversed, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list journal entries from repository", "error", err)
		return nil, fmt.Errorf("failed to retrieve journal entries: %w", err)
	}

	entryResponses := make([]dto.JournalEntryResponse, len(entries))
	for i, entry := range entries {
		entryResponses[i] = dto.ToJournalEntryResponse(&entry)
	}

	resp := &dto.ListJournalEntriesResponse{
		Entries:   entryResponses,
		NextToken: nextToken,
	}

	logger.Info("Journal entries listed successfully", "count", len(entries))
	return resp, nil
}

// ListAccountLines retrieves posted lines touching a ledger account within a
// date range, oldest first.
func (s *journalService) ListAccountLines(ctx context.Context, accountID string, from time.Time, to time.Time) ([]domain.JournalLine, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	lines, err := s.journalRepo.FindLinesByAccountID(ctx, accountID, from, to)
	if err != nil {
		logger.Error("Failed to list journal lines by account", "error", err, "account_id", accountID)
		return nil, fmt.Errorf("failed to retrieve journal lines: %w", err)
	}

	if lines == nil {
		return []domain.JournalLine{}, nil
	}
	return lines, nil
}

// ReverseEntry books a compensating entry that mirrors a posted entry line by
// line with the debit and credit sides swapped, then marks the original
// REVERSED with links both ways. The original's lines and amounts are never
// mutated; the mirror cancels them arithmetically.
func (s *journalService) ReverseEntry(ctx context.Context, entryID string, req dto.ReverseJournalEntryRequest, actingStaffID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Reason == "" {
		return nil, fmt.Errorf("%w: reversal reason is required", apperrors.ErrValidation)
	}

	original, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Journal entry not found for reversal", slog.String("entry_id", entryID))
			return nil, apperrors.ErrNotFound
		}
		logger.Error("Failed to fetch journal entry for reversal", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to retrieve journal entry: %w", err)
	}

	if original.ReversesEntryID != "" {
		return nil, fmt.Errorf("%w: entry %s is itself a reversal and cannot be reversed", apperrors.ErrConflict, original.EntryNumber)
	}
	if original.Status == domain.EntryReversed {
		return nil, fmt.Errorf("%w: entry %s", ErrAlreadyReversed, original.EntryNumber)
	}
	if original.Status != domain.EntryPosted {
		return nil, fmt.Errorf("%w: entry status is %s, expected POSTED", apperrors.ErrConflict, original.Status)
	}

	lines := make([]dto.JournalLineInput, len(original.Lines))
	for i, line := range original.Lines {
		lines[i] = dto.JournalLineInput{
			AccountCode: line.AccountCode,
			Debit:       line.Credit,
			Credit:      line.Debit,
			Description: line.Description,
		}
	}

	reference := original.Reference
	if reference == "" {
		reference = original.EntryNumber
	}

	// The mirror posts on today's date; the original day's books are history.
	mirror, err := s.PostEntry(ctx, dto.PostJournalEntryRequest{
		EntryDate:       normalizeDate(time.Now()),
		Narration:       fmt.Sprintf("Reversal of %s: %s", original.EntryNumber, req.Reason),
		Reference:       reference,
		Lines:           lines,
		ReversesEntryID: &original.EntryID,
	}, actingStaffID)
	if err != nil {
		return nil, err
	}

	if err := s.MarkEntryReversed(ctx, original.EntryID, mirror.EntryID, actingStaffID); err != nil {
		// The mirror is posted and the books balance; only the status flip on
		// the original is missing. Surface the failure so an operator follows
		// up instead of retrying into a second mirror.
		logger.Error("Failed to mark original entry reversed after posting the mirror",
			slog.String("error", err.Error()),
			slog.String("entry_id", original.EntryID),
			slog.String("mirror_entry_id", mirror.EntryID))
		return nil, fmt.Errorf("compensating entry %s posted but original %s could not be marked reversed: %w",
			mirror.EntryNumber, original.EntryNumber, err)
	}

	logger.Info("Journal entry reversed",
		slog.String("entry_id", original.EntryID),
		slog.String("entry_number", original.EntryNumber),
		slog.String("reversed_by_entry_id", mirror.EntryID))
	return mirror, nil
}

// MarkEntryReversed stamps an entry REVERSED and links it to the entry that
// reverses it. The original's lines are untouched; the compensating entry
// cancels them arithmetically.
func (s *journalService) MarkEntryReversed(ctx context.Context, entryID string, reversedByEntryID string, actingStaffID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Journal entry not found for reversal marking", slog.String("entry_id", entryID))
			return apperrors.ErrNotFound
		}
		logger.Error("Failed to fetch journal entry for reversal marking", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return fmt.Errorf("failed to retrieve journal entry: %w", err)
	}

	if entry.Status == domain.EntryReversed {
		return fmt.Errorf("%w: entry %s", ErrAlreadyReversed, entry.EntryNumber)
	}
	if entry.Status != domain.EntryPosted {
		return fmt.Errorf("%w: entry status is %s, expected POSTED", apperrors.ErrConflict, entry.Status)
	}

	now := time.Now().UTC()
	if err := s.journalRepo.UpdateEntryStatusAndLinks(ctx, entryID, domain.EntryReversed, &reversedByEntryID, nil, actingStaffID, now); err != nil {
		logger.Error("Failed to update journal entry status", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return fmt.Errorf("failed to mark journal entry reversed: %w", err)
	}

	if s.auditSvc != nil {
		s.auditSvc.RecordAction(ctx, domain.AuditRecord{
			EntityType:  "journal_entry",
			EntityID:    entryID,
			Action:      domain.AuditActionReverse,
			PerformedBy: actingStaffID,
		})
	}

	logger.Info("Journal entry marked reversed",
		slog.String("entry_id", entryID),
		slog.String("reversed_by_entry_id", reversedByEntryID))
	return nil
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
