package services

import (
	"context"
	"encoding/json"
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
	"github.com/notcool100/astrofinance-ledger/internal/platform/config"
)

// ErrStaleReversal rejects reversals of transactions older than the
// configured window.
var ErrStaleReversal = errors.New("transaction is outside the reversal window")

// reversalService books compensating transactions and journal entries for
// previously applied transactions. Originals are never edited: a reversal is
// new rows plus linkage.
type reversalService struct {
	cfg             *config.Config
	transactionRepo portsrepo.TransactionRepositoryFacade
	mappingRepo     portsrepo.KindMappingReader
	journalSvc      portssvc.JournalSvcFacade
	dayBookSvc      portssvc.DayBookWriterSvc
	auditSvc        portssvc.AuditSvcFacade
}

// NewReversalService creates a new ReversalService.
func NewReversalService(
	cfg *config.Config,
	transactionRepo portsrepo.TransactionRepositoryFacade,
	mappingRepo portsrepo.KindMappingReader,
	journalSvc portssvc.JournalSvcFacade,
	dayBookSvc portssvc.DayBookWriterSvc,
	auditSvc portssvc.AuditSvcFacade,
) portssvc.ReversalSvcFacade {
	return &reversalService{
		cfg:             cfg,
		transactionRepo: transactionRepo,
		mappingRepo:     mappingRepo,
		journalSvc:      journalSvc,
		dayBookSvc:      dayBookSvc,
		auditSvc:        auditSvc,
	}
}

// Ensure reversalService implements the portssvc.ReversalSvcFacade interface
var _ portssvc.ReversalSvcFacade = (*reversalService)(nil)

// ReverseTransaction reverses a previously applied transaction within the
// configured window. Reversing one leg of a transfer reverses the whole
// pair. The compensators are returned outgoing leg first for transfers.
func (s *reversalService) ReverseTransaction(ctx context.Context, transactionID string, req dto.ReverseTransactionRequest, actingStaffID string) ([]domain.AccountTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Reason == "" {
		return nil, fmt.Errorf("%w: reversal reason is required", apperrors.ErrValidation)
	}

	originals, err := s.validateAndCollectOriginals(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	// Compensators post on today's book; the original day's cash position is
	// history and stays untouched.
	book, err := s.dayBookSvc.EnsureDayBookForDate(ctx, time.Now(), actingStaffID)
	if err != nil {
		return nil, err
	}
	if book.IsClosed {
		return nil, fmt.Errorf("%w: day book %s", apperrors.ErrDayBookClosed, book.BookNumber)
	}

	now := time.Now().UTC()
	compensators := make([]domain.AccountTransaction, len(originals))
	for i, original := range originals {
		inverseKind, negate, err := domain.InverseOf(original.Kind)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		amount := original.Amount
		if negate {
			amount = amount.Neg()
		}
		compensators[i] = domain.AccountTransaction{
			TransactionID:         uuid.NewString(),
			UserAccountID:         original.UserAccountID,
			Kind:                  inverseKind,
			Amount:                amount,
			Description:           fmt.Sprintf("REVERSAL OF %s: %s", original.TransactionNumber, req.Reason),
			Reference:             original.Reference,
			JournalPending:        true,
			DayBookID:             book.DayBookID,
			IsReversal:            true,
			ReversesTransactionID: original.TransactionID,
			ReversalReason:        req.Reason,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actingStaffID,
				LastUpdatedAt: now,
				LastUpdatedBy: actingStaffID,
			},
		}
	}

	// ApplyTransactions stamps the reversal linkage on the originals inside
	// the same database transaction, so a concurrent second reversal of the
	// same original fails there with a conflict.
	applied, err := s.transactionRepo.ApplyTransactions(ctx, compensators, book.DayBookID)
	if err != nil {
		logger.Error("Failed to apply reversal transactions", slog.String("error", err.Error()),
			slog.String("transaction_id", transactionID))
		return nil, err
	}

	s.finishReversalJournal(ctx, originals, applied, actingStaffID)

	if s.auditSvc != nil {
		for i := range applied {
			after, _ := json.Marshal(applied[i])
			s.auditSvc.RecordAction(ctx, domain.AuditRecord{
				EntityType:  "account_transaction",
				EntityID:    originals[i].TransactionID,
				Action:      domain.AuditActionReverse,
				After:       after,
				PerformedBy: actingStaffID,
			})
		}
	}

	logger.Info("Transaction reversed successfully",
		slog.String("transaction_id", transactionID),
		slog.Int("compensator_count", len(applied)))
	return applied, nil
}

// validateAndCollectOriginals loads the transaction, enforces the reversal
// rules and expands a transfer leg into its full pair, outgoing leg first.
func (s *reversalService) validateAndCollectOriginals(ctx context.Context, transactionID string) ([]domain.AccountTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Transaction not found for reversal", slog.String("transaction_id", transactionID))
			return nil, apperrors.ErrNotFound
		}
		logger.Error("Failed to fetch transaction for reversal", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to retrieve transaction: %w", err)
	}

	if original.IsReversal {
		return nil, fmt.Errorf("%w: transaction %s is itself a reversal and cannot be reversed", apperrors.ErrConflict, original.TransactionNumber)
	}
	if original.IsReversed() {
		return nil, fmt.Errorf("%w: transaction %s is already reversed", apperrors.ErrConflict, original.TransactionNumber)
	}
	if window := s.cfg.ReversalWindow; window > 0 {
		if time.Since(original.CreatedAt) > window {
			return nil, fmt.Errorf("%w: transaction %s was created more than %s ago",
				ErrStaleReversal, original.TransactionNumber, window)
		}
	}

	originals := []domain.AccountTransaction{*original}

	// A transfer reverses as a pair: pull in the twin leg via the shared
	// reference.
	if original.Kind == domain.KindTransferOut || original.Kind == domain.KindTransferIn {
		group, err := s.transactionRepo.FindTransactionsByReference(ctx, original.Reference)
		if err != nil {
			logger.Error("Failed to fetch transfer pair for reversal", slog.String("error", err.Error()), slog.String("reference", original.Reference))
			return nil, fmt.Errorf("failed to retrieve transfer pair: %w", err)
		}
		originals = originals[:0]
		for _, txn := range group {
			if txn.IsReversal {
				continue
			}
			if txn.IsReversed() {
				return nil, fmt.Errorf("%w: transaction %s is already reversed", apperrors.ErrConflict, txn.TransactionNumber)
			}
			originals = append(originals, txn)
		}
		if len(originals) != 2 {
			return nil, fmt.Errorf("%w: transfer %s does not resolve to a full pair", apperrors.ErrConflict, original.Reference)
		}
		// Outgoing leg first, matching the order the transfer was applied in.
		if originals[0].Kind != domain.KindTransferOut {
			originals[0], originals[1] = originals[1], originals[0]
		}
	}

	return originals, nil
}

// finishReversalJournal posts the compensating entry, flips the original
// entry to REVERSED and links the compensators. Failures are logged, never
// propagated: the balance changes are committed and the pending-journal
// recovery path completes the bookkeeping.
func (s *reversalService) finishReversalJournal(ctx context.Context, originals []domain.AccountTransaction, applied []domain.AccountTransaction, actingStaffID string) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.postCompensatingEntry(ctx, originals, applied, actingStaffID)
	if err != nil {
		logger.Error("Failed to post compensating journal entry, leaving journal pending",
			slog.String("error", err.Error()),
			slog.String("transaction_number", applied[0].TransactionNumber))
		return
	}

	// The original entry (one per group: transfer legs share an entry) flips
	// to REVERSED with a link to the compensator.
	if originalEntryID := originals[0].JournalEntryID; originalEntryID != "" {
		if err := s.journalSvc.MarkEntryReversed(ctx, originalEntryID, entry.EntryID, actingStaffID); err != nil {
			logger.Error("Failed to mark original journal entry reversed",
				slog.String("error", err.Error()),
				slog.String("entry_id", originalEntryID))
		}
	}

	now := time.Now().UTC()
	for i := range applied {
		if err := s.transactionRepo.SetJournalPosted(ctx, applied[i].TransactionID, entry.EntryID, actingStaffID, now); err != nil {
			logger.Error("Failed to link compensating journal entry to transaction",
				slog.String("error", err.Error()),
				slog.String("transaction_id", applied[i].TransactionID))
			continue
		}
		applied[i].JournalEntryID = entry.EntryID
		applied[i].JournalPending = false
	}
}

// postCompensatingEntry builds one balanced journal entry for the
// compensators. Negated amounts route with the debit and credit sides
// swapped, which is exactly the compensation of the original posting.
func (s *reversalService) postCompensatingEntry(ctx context.Context, originals []domain.AccountTransaction, compensators []domain.AccountTransaction, actingStaffID string) (*domain.JournalEntry, error) {
	lines := make([]dto.JournalLineInput, 0, len(compensators)*2)
	for _, txn := range compensators {
		mapping, err := s.mappingRepo.FindMappingByKind(ctx, txn.Kind)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: no posting mapping configured for kind %s", apperrors.ErrConflict, txn.Kind)
			}
			return nil, fmt.Errorf("failed to resolve kind mapping: %w", err)
		}
		route := mapping.Route(txn.Amount)
		lines = append(lines,
			dto.JournalLineInput{
				AccountCode: route.DebitAccountCode,
				Debit:       route.Amount,
				Description: txn.Description,
			},
			dto.JournalLineInput{
				AccountCode: route.CreditAccountCode,
				Credit:      route.Amount,
				Description: txn.Description,
			},
		)
	}

	first := originals[0]
	narration := fmt.Sprintf("REVERSAL OF %s: %s", first.TransactionNumber, compensators[0].ReversalReason)
	reference := first.Reference
	if reference == "" {
		reference = first.TransactionNumber
	}

	req := dto.PostJournalEntryRequest{
		EntryDate: normalizeDate(compensators[0].CreatedAt),
		Narration: narration,
		Reference: reference,
		Lines:     lines,
		DayBookID: compensators[0].DayBookID,
	}
	if first.JournalEntryID != "" {
		req.ReversesEntryID = &first.JournalEntryID
	}
	return s.journalSvc.PostEntry(ctx, req, actingStaffID)
}
