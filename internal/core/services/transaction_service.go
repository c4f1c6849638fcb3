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
	"github.com/notcool100/astrofinance-ledger/internal/utils"
	"github.com/shopspring/decimal"
)

// transferReferenceBytes sizes the random token shared by transfer legs.
const transferReferenceBytes = 6

// transactionService applies money movements to user accounts and posts the
// matching journal entries. The balance change and the journal entry are two
// separate commits: a transaction whose entry failed to post stays flagged
// journal_pending and is recovered by RepostPendingJournal.
type transactionService struct {
	transactionRepo portsrepo.TransactionRepositoryFacade
	userAccountRepo portsrepo.UserAccountReader
	mappingRepo     portsrepo.KindMappingReader
	journalSvc      portssvc.JournalSvcFacade
	dayBookSvc      portssvc.DayBookWriterSvc
	auditSvc        portssvc.AuditSvcFacade
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(
	transactionRepo portsrepo.TransactionRepositoryFacade,
	userAccountRepo portsrepo.UserAccountReader,
	mappingRepo portsrepo.KindMappingReader,
	journalSvc portssvc.JournalSvcFacade,
	dayBookSvc portssvc.DayBookWriterSvc,
	auditSvc portssvc.AuditSvcFacade,
) portssvc.TransactionSvcFacade {
	return &transactionService{
		transactionRepo: transactionRepo,
		userAccountRepo: userAccountRepo,
		mappingRepo:     mappingRepo,
		journalSvc:      journalSvc,
		dayBookSvc:      dayBookSvc,
		auditSvc:        auditSvc,
	}
}

// Ensure transactionService implements the portssvc.TransactionSvcFacade interface
var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// Deposit credits cash into a user account.
func (s *transactionService) Deposit(ctx context.Context, req dto.DepositRequest, actingStaffID string) (*domain.AccountTransaction, error) {
	return s.processSingle(ctx, domain.KindDeposit, req.UserAccountID, req.Amount, req.Description, req.Reference, actingStaffID)
}

// Withdraw debits cash out of a user account.
func (s *transactionService) Withdraw(ctx context.Context, req dto.WithdrawRequest, actingStaffID string) (*domain.AccountTransaction, error) {
	return s.processSingle(ctx, domain.KindWithdrawal, req.UserAccountID, req.Amount, req.Description, req.Reference, actingStaffID)
}

// CreditInterest credits accrued interest to a user account. No cash moves.
func (s *transactionService) CreditInterest(ctx context.Context, req dto.InterestCreditRequest, actingStaffID string) (*domain.AccountTransaction, error) {
	return s.processSingle(ctx, domain.KindInterestCredit, req.UserAccountID, req.Amount, req.Description, req.Reference, actingStaffID)
}

// ChargeFee debits a fee from a user account. No cash moves.
func (s *transactionService) ChargeFee(ctx context.Context, req dto.FeeDebitRequest, actingStaffID string) (*domain.AccountTransaction, error) {
	return s.processSingle(ctx, domain.KindFeeDebit, req.UserAccountID, req.Amount, req.Description, req.Reference, actingStaffID)
}

// Adjust applies a signed correction to a user account. Negative amounts are
// allowed; the posting sides swap accordingly.
func (s *transactionService) Adjust(ctx context.Context, req dto.AdjustmentRequest, actingStaffID string) (*domain.AccountTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.IsZero() {
		return nil, fmt.Errorf("%w: adjustment amount must be nonzero", apperrors.ErrValidation)
	}
	if req.Description == "" {
		return nil, fmt.Errorf("%w: description is required", apperrors.ErrValidation)
	}

	account, err := s.userAccountRepo.FindUserAccountByID(ctx, req.UserAccountID)
	if err != nil {
		return nil, err
	}
	if !account.CanTransact() {
		return nil, fmt.Errorf("%w: user account %s is %s", apperrors.ErrAccountNotActive, account.AccountNumber, account.Status)
	}

	// The mapping must exist before any money moves.
	if _, err := s.resolveMappings(ctx, domain.KindAdjustment); err != nil {
		return nil, err
	}

	book, err := s.dayBookSvc.EnsureDayBookForDate(ctx, time.Now(), actingStaffID)
	if err != nil {
		return nil, err
	}
	if book.IsClosed {
		return nil, fmt.Errorf("%w: day book %s", apperrors.ErrDayBookClosed, book.BookNumber)
	}

	now := time.Now().UTC()
	txn := domain.AccountTransaction{
		TransactionID:  uuid.NewString(),
		UserAccountID:  req.UserAccountID,
		Kind:           domain.KindAdjustment,
		Amount:         req.Amount,
		Description:    req.Description,
		Reference:      req.Reference,
		JournalPending: true,
		DayBookID:      book.DayBookID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actingStaffID,
			LastUpdatedAt: now,
			LastUpdatedBy: actingStaffID,
		},
	}

	applied, err := s.transactionRepo.ApplyTransactions(ctx, []domain.AccountTransaction{txn}, book.DayBookID)
	if err != nil {
		logger.Error("Failed to apply adjustment", slog.String("error", err.Error()), slog.String("user_account_id", req.UserAccountID))
		return nil, err
	}

	s.finishJournal(ctx, applied, actingStaffID)
	s.recordApplied(ctx, applied, actingStaffID)
	return &applied[0], nil
}

// Transfer moves funds between two user accounts as one atomic pair of legs
// sharing a generated reference.
func (s *transactionService) Transfer(ctx context.Context, req dto.TransferRequest, actingStaffID string) ([]domain.AccountTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if req.FromUserAccountID == req.ToUserAccountID {
		return nil, fmt.Errorf("%w: transfer requires two different accounts", apperrors.ErrValidation)
	}
	if req.Description == "" {
		return nil, fmt.Errorf("%w: description is required", apperrors.ErrValidation)
	}

	// Fail fast on account state before touching the processor. The
	// authoritative checks run again inside the locked region.
	from, err := s.userAccountRepo.FindUserAccountByID(ctx, req.FromUserAccountID)
	if err != nil {
		return nil, err
	}
	if !from.CanTransact() {
		return nil, fmt.Errorf("%w: user account %s is %s", apperrors.ErrAccountNotActive, from.AccountNumber, from.Status)
	}
	if from.Balance.LessThan(req.Amount) {
		return nil, fmt.Errorf("%w: account %s has balance %s, needs %s",
			apperrors.ErrInsufficientBalance, from.AccountNumber, from.Balance.String(), req.Amount.String())
	}
	to, err := s.userAccountRepo.FindUserAccountByID(ctx, req.ToUserAccountID)
	if err != nil {
		return nil, err
	}
	if !to.CanTransact() {
		return nil, fmt.Errorf("%w: user account %s is %s", apperrors.ErrAccountNotActive, to.AccountNumber, to.Status)
	}

	if _, err := s.resolveMappings(ctx, domain.KindTransferOut, domain.KindTransferIn); err != nil {
		return nil, err
	}

	book, err := s.dayBookSvc.EnsureDayBookForDate(ctx, time.Now(), actingStaffID)
	if err != nil {
		return nil, err
	}
	if book.IsClosed {
		return nil, fmt.Errorf("%w: day book %s", apperrors.ErrDayBookClosed, book.BookNumber)
	}

	// Both legs share one generated reference so either can find its twin.
	token, err := utils.GenerateSecureRandomString(transferReferenceBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to generate transfer reference: %w", err)
	}
	reference := "TRF-" + token

	now := time.Now().UTC()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     actingStaffID,
		LastUpdatedAt: now,
		LastUpdatedBy: actingStaffID,
	}
	txns := []domain.AccountTransaction{
		{
			TransactionID:  uuid.NewString(),
			UserAccountID:  req.FromUserAccountID,
			Kind:           domain.KindTransferOut,
			Amount:         req.Amount,
			Description:    req.Description,
			Reference:      reference,
			JournalPending: true,
			DayBookID:      book.DayBookID,
			AuditFields:    audit,
		},
		{
			TransactionID:  uuid.NewString(),
			UserAccountID:  req.ToUserAccountID,
			Kind:           domain.KindTransferIn,
			Amount:         req.Amount,
			Description:    req.Description,
			Reference:      reference,
			JournalPending: true,
			DayBookID:      book.DayBookID,
			AuditFields:    audit,
		},
	}

	applied, err := s.transactionRepo.ApplyTransactions(ctx, txns, book.DayBookID)
	if err != nil {
		logger.Error("Failed to apply transfer", slog.String("error", err.Error()),
			slog.String("from_account_id", req.FromUserAccountID),
			slog.String("to_account_id", req.ToUserAccountID))
		return nil, err
	}

	// Both legs post as one balanced journal entry.
	s.finishJournal(ctx, applied, actingStaffID)
	s.recordApplied(ctx, applied, actingStaffID)

	logger.Info("Transfer applied successfully",
		slog.String("reference", reference),
		slog.String("amount", req.Amount.String()))
	return applied, nil
}

// processSingle runs the shared single-account flow: validate, ensure the
// day book, apply atomically, then post the journal entry.
func (s *transactionService) processSingle(ctx context.Context, kind domain.TransactionKind, userAccountID string, amount decimal.Decimal, description string, reference string, actingStaffID string) (*domain.AccountTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", apperrors.ErrValidation)
	}

	account, err := s.userAccountRepo.FindUserAccountByID(ctx, userAccountID)
	if err != nil {
		return nil, err
	}
	if !account.CanTransact() {
		return nil, fmt.Errorf("%w: user account %s is %s", apperrors.ErrAccountNotActive, account.AccountNumber, account.Status)
	}
	if domain.RequiresBalanceCheck(kind) && account.Balance.LessThan(amount) {
		return nil, fmt.Errorf("%w: account %s has balance %s, needs %s",
			apperrors.ErrInsufficientBalance, account.AccountNumber, account.Balance.String(), amount.String())
	}

	if _, err := s.resolveMappings(ctx, kind); err != nil {
		return nil, err
	}

	book, err := s.dayBookSvc.EnsureDayBookForDate(ctx, time.Now(), actingStaffID)
	if err != nil {
		return nil, err
	}
	if book.IsClosed {
		return nil, fmt.Errorf("%w: day book %s", apperrors.ErrDayBookClosed, book.BookNumber)
	}

	now := time.Now().UTC()
	txn := domain.AccountTransaction{
		TransactionID:  uuid.NewString(),
		UserAccountID:  userAccountID,
		Kind:           kind,
		Amount:         amount,
		Description:    description,
		Reference:      reference,
		JournalPending: true,
		DayBookID:      book.DayBookID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actingStaffID,
			LastUpdatedAt: now,
			LastUpdatedBy: actingStaffID,
		},
	}

	applied, err := s.transactionRepo.ApplyTransactions(ctx, []domain.AccountTransaction{txn}, book.DayBookID)
	if err != nil {
		logger.Error("Failed to apply transaction", slog.String("error", err.Error()),
			slog.String("kind", string(kind)),
			slog.String("user_account_id", userAccountID))
		return nil, err
	}

	s.finishJournal(ctx, applied, actingStaffID)
	s.recordApplied(ctx, applied, actingStaffID)

	logger.Info("Transaction applied successfully",
		slog.String("transaction_number", applied[0].TransactionNumber),
		slog.String("kind", string(kind)))
	return &applied[0], nil
}

// resolveMappings checks that every kind has a posting mapping configured
// before any money moves.
func (s *transactionService) resolveMappings(ctx context.Context, kinds ...domain.TransactionKind) (map[domain.TransactionKind]domain.KindMapping, error) {
	mappings := make(map[domain.TransactionKind]domain.KindMapping, len(kinds))
	for _, kind := range kinds {
		mapping, err := s.mappingRepo.FindMappingByKind(ctx, kind)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: no posting mapping configured for kind %s", apperrors.ErrConflict, kind)
			}
			return nil, fmt.Errorf("failed to resolve kind mapping: %w", err)
		}
		mappings[kind] = *mapping
	}
	return mappings, nil
}

// finishJournal posts the journal entry for the applied transactions and
// links it back. A posting failure is logged, never propagated: the balance
// change is already committed, so the transactions stay journal_pending for
// RepostPendingJournal to pick up.
func (s *transactionService) finishJournal(ctx context.Context, applied []domain.AccountTransaction, actingStaffID string) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.postEntryFor(ctx, applied, actingStaffID)
	if err != nil {
		logger.Error("Failed to post journal entry for applied transactions, leaving journal pending",
			slog.String("error", err.Error()),
			slog.String("transaction_number", applied[0].TransactionNumber))
		return
	}

	now := time.Now().UTC()
	for i := range applied {
		if err := s.transactionRepo.SetJournalPosted(ctx, applied[i].TransactionID, entry.EntryID, actingStaffID, now); err != nil {
			logger.Error("Failed to link journal entry to transaction",
				slog.String("error", err.Error()),
				slog.String("transaction_id", applied[i].TransactionID),
				slog.String("entry_id", entry.EntryID))
			continue
		}
		applied[i].JournalEntryID = entry.EntryID
		applied[i].JournalPending = false
	}
}

// postEntryFor builds and posts one balanced journal entry covering the
// given transactions (one leg pair per transaction, routed by kind mapping).
func (s *transactionService) postEntryFor(ctx context.Context, txns []domain.AccountTransaction, actingStaffID string) (*domain.JournalEntry, error) {
	kinds := make([]domain.TransactionKind, 0, len(txns))
	for _, txn := range txns {
		kinds = append(kinds, txn.Kind)
	}
	mappings, err := s.resolveMappings(ctx, kinds...)
	if err != nil {
		return nil, err
	}

	lines := make([]dto.JournalLineInput, 0, len(txns)*2)
	for _, txn := range txns {
		route := mappings[txn.Kind].Route(txn.Amount)
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

	first := txns[0]
	narration := fmt.Sprintf("%s %s: %s", first.Kind, first.TransactionNumber, first.Description)
	reference := first.Reference
	if len(txns) > 1 {
		narration = fmt.Sprintf("TRANSFER %s: %s", first.Reference, first.Description)
	}
	if first.IsReversal {
		// Compensator descriptions already carry the REVERSAL OF prefix.
		narration = first.Description
	}
	if reference == "" {
		reference = first.TransactionNumber
	}

	req := dto.PostJournalEntryRequest{
		EntryDate: normalizeDate(first.CreatedAt),
		Narration: narration,
		Reference: reference,
		Lines:     lines,
		DayBookID: first.DayBookID,
	}
	if first.IsReversal && first.ReversesTransactionID != "" {
		if original, err := s.transactionRepo.FindTransactionByID(ctx, first.ReversesTransactionID); err == nil && original.JournalEntryID != "" {
			req.ReversesEntryID = &original.JournalEntryID
		}
	}
	return s.journalSvc.PostEntry(ctx, req, actingStaffID)
}

// recordApplied writes one audit record per applied transaction.
func (s *transactionService) recordApplied(ctx context.Context, applied []domain.AccountTransaction, actingStaffID string) {
	if s.auditSvc == nil {
		return
	}
	for i := range applied {
		after, _ := json.Marshal(applied[i])
		s.auditSvc.RecordAction(ctx, domain.AuditRecord{
			EntityType:  "account_transaction",
			EntityID:    applied[i].TransactionID,
			Action:      domain.AuditActionApply,
			After:       after,
			PerformedBy: actingStaffID,
		})
	}
}

// GetTransactionByID retrieves a specific transaction.
func (s *transactionService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.AccountTransaction, error) {
	return s.transactionRepo.FindTransactionByID(ctx, transactionID)
}

// GetTransactionByNumber retrieves a transaction by its number.
func (s *transactionService) GetTransactionByNumber(ctx context.Context, transactionNumber string) (*domain.AccountTransaction, error) {
	return s.transactionRepo.FindTransactionByNumber(ctx, transactionNumber)
}

// ListTransactionsByReference retrieves all transactions sharing a reference,
// oldest first. Transfer legs and their compensators group under one token.
func (s *transactionService) ListTransactionsByReference(ctx context.Context, reference string) ([]domain.AccountTransaction, error) {
	return s.transactionRepo.FindTransactionsByReference(ctx, reference)
}

// ListTransactionsByAccount retrieves a user account's transactions, newest
// first, with token-based pagination.
func (s *transactionService) ListTransactionsByAccount(ctx context.Context, userAccountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// Verify the account exists so an unknown ID is a 404, not an empty list.
	if _, err := s.userAccountRepo.FindUserAccountByID(ctx, userAccountID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	txns, nextToken, err := s.transactionRepo.ListTransactionsByAccount(ctx, userAccountID, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list transactions by account", "error", err)
		return nil, fmt.Errorf("failed to retrieve transactions: %w", err)
	}

	resp := &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}

	logger.Info("Transactions listed successfully for account", "count", len(txns))
	return resp, nil
}

// ListPendingJournal retrieves transactions whose journal entry has not been
// posted yet, oldest first.
func (s *transactionService) ListPendingJournal(ctx context.Context, limit int) ([]domain.AccountTransaction, error) {
	txns, err := s.transactionRepo.ListPendingJournal(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending transactions: %w", err)
	}
	if txns == nil {
		return []domain.AccountTransaction{}, nil
	}
	return txns, nil
}

// RepostPendingJournal posts journal entries for transactions left pending by
// an earlier posting failure. Transfer legs sharing a reference are grouped
// into one entry. Returns the number of entries posted; individual failures
// are logged and skipped so one bad transaction cannot block the rest.
func (s *transactionService) RepostPendingJournal(ctx context.Context, limit int, actingStaffID string) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	pending, err := s.transactionRepo.ListPendingJournal(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	// Group transfer legs by their shared reference; everything else posts
	// on its own.
	groups := make(map[string][]domain.AccountTransaction)
	order := make([]string, 0, len(pending))
	for _, txn := range pending {
		key := txn.TransactionID
		if txn.Reference != "" && (txn.Kind == domain.KindTransferOut || txn.Kind == domain.KindTransferIn) {
			// Compensators reuse the transfer reference, so keep them in a
			// group of their own.
			key = txn.Reference
			if txn.IsReversal {
				key += ":reversal"
			}
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], txn)
	}

	posted := 0
	for _, key := range order {
		group := groups[key]
		entry, err := s.postEntryFor(ctx, group, actingStaffID)
		if err != nil {
			logger.Error("Failed to repost journal entry for pending transactions",
				slog.String("error", err.Error()),
				slog.String("group", key))
			continue
		}

		now := time.Now().UTC()
		for _, txn := range group {
			if err := s.transactionRepo.SetJournalPosted(ctx, txn.TransactionID, entry.EntryID, actingStaffID, now); err != nil {
				logger.Error("Failed to link reposted journal entry to transaction",
					slog.String("error", err.Error()),
					slog.String("transaction_id", txn.TransactionID))
			}
		}

		// A recovered compensator still needs the original entry flipped to
		// REVERSED.
		if group[0].IsReversal && group[0].ReversesTransactionID != "" {
			if original, err := s.transactionRepo.FindTransactionByID(ctx, group[0].ReversesTransactionID); err == nil && original.JournalEntryID != "" {
				if err := s.journalSvc.MarkEntryReversed(ctx, original.JournalEntryID, entry.EntryID, actingStaffID); err != nil && !errors.Is(err, ErrAlreadyReversed) {
					logger.Error("Failed to mark original journal entry reversed during repost",
						slog.String("error", err.Error()),
						slog.String("entry_id", original.JournalEntryID))
				}
			}
		}
		posted++
	}

	logger.Info("Pending journal entries reposted",
		slog.Int("pending", len(pending)),
		slog.Int("posted", posted))
	return posted, nil
}
