package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/notcool100/astrofinance-ledger/internal/apperrors"
	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	portsrepo "github.com/notcool100/astrofinance-ledger/internal/core/ports/repositories"
	"github.com/notcool100/astrofinance-ledger/internal/models"
	"github.com/notcool100/astrofinance-ledger/internal/utils/mapping"
	"github.com/notcool100/astrofinance-ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

type PgxTransactionRepository struct {
	BaseRepository
	sequenceRepo portsrepo.SequenceRepository
}

// newPgxTransactionRepository creates a new repository for account transactions.
// The sequence repository allocates transaction numbers inside the apply
// transaction.
func newPgxTransactionRepository(pool *pgxpool.Pool, sequenceRepo portsrepo.SequenceRepository) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
		sequenceRepo:   sequenceRepo,
	}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const accountTransactionColumns = `transaction_id, transaction_number, user_account_id, kind, amount, running_balance, description, reference, journal_entry_id, journal_pending, day_book_id, is_reversal, reverses_transaction_id, reversed_by_transaction_id, reversed_at, reversal_reason, created_at, created_by, last_updated_at, last_updated_by`

func scanAccountTransaction(row rowScanner) (models.AccountTransaction, error) {
	var m models.AccountTransaction
	var reference, journalEntryID, reverses, reversedBy, reversalReason sql.NullString
	err := row.Scan(
		&m.TransactionID,
		&m.TransactionNumber,
		&m.UserAccountID,
		&m.Kind,
		&m.Amount,
		&m.RunningBalance,
		&m.Description,
		&reference,
		&journalEntryID,
		&m.JournalPending,
		&m.DayBookID,
		&m.IsReversal,
		&reverses,
		&reversedBy,
		&m.ReversedAt,
		&reversalReason,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.AccountTransaction{}, err
	}
	if reference.Valid {
		m.Reference = reference.String
	}
	if journalEntryID.Valid {
		m.JournalEntryID = journalEntryID.String
	}
	if reverses.Valid {
		m.ReversesTransactionID = reverses.String
	}
	if reversedBy.Valid {
		m.ReversedByTransactionID = reversedBy.String
	}
	if reversalReason.Valid {
		m.ReversalReason = reversalReason.String
	}
	return m, nil
}

// lockUserAccountsForUpdate loads and row-locks the given user accounts inside
// tx. IDs must arrive sorted so concurrent batches acquire locks in the same
// order. Fails if any account is missing.
func (r *PgxTransactionRepository) lockUserAccountsForUpdate(ctx context.Context, tx pgx.Tx, userAccountIDs []string) (map[string]models.UserAccount, error) {
	if len(userAccountIDs) == 0 {
		return map[string]models.UserAccount{}, nil
	}

	query := `SELECT ` + userAccountColumns + ` FROM user_accounts WHERE user_account_id = ANY($1) FOR UPDATE;`

	rows, err := tx.Query(ctx, query, userAccountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query user accounts for update: %w", err)
	}
	defer rows.Close()

	accountsMap := make(map[string]models.UserAccount)
	for rows.Next() {
		m, err := scanUserAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user account row during lock: %w", err)
		}
		accountsMap[m.UserAccountID] = m
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user account rows during lock: %w", err)
	}

	if len(accountsMap) != len(userAccountIDs) {
		missing := []string{}
		for _, id := range userAccountIDs {
			if _, ok := accountsMap[id]; !ok {
				missing = append(missing, id)
			}
		}
		slog.WarnContext(ctx, "some user accounts not found during lock", "missing", missing)
		return nil, fmt.Errorf("%w: user accounts not found: %v", apperrors.ErrNotFound, missing)
	}

	return accountsMap, nil
}

// ApplyTransactions applies a batch of transactions atomically. It locks the
// affected user accounts in sorted ID order, validates account status and
// balance sufficiency, allocates transaction numbers, computes running
// balances, updates account balances and the day book cash total, and records
// reversal linkage on originals. Either the whole batch commits or none of it.
func (r *PgxTransactionRepository) ApplyTransactions(ctx context.Context, txns []domain.AccountTransaction, dayBookID string) ([]domain.AccountTransaction, error) {
	if len(txns) == 0 {
		return []domain.AccountTransaction{}, nil
	}

	// Start a database transaction
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	// Use a consistent timestamp and actor from the batch itself
	now := txns[0].CreatedAt
	updatedBy := txns[0].CreatedBy

	// 1. Lock the affected user accounts in a stable order
	idSet := make(map[string]struct{}, len(txns))
	for _, t := range txns {
		idSet[t.UserAccountID] = struct{}{}
	}
	userAccountIDs := make([]string, 0, len(idSet))
	for id := range idSet {
		userAccountIDs = append(userAccountIDs, id)
	}
	sort.Strings(userAccountIDs)

	accounts, err := r.lockUserAccountsForUpdate(ctx, tx, userAccountIDs)
	if err != nil {
		return nil, err
	}

	// 2. Validate each transaction against the locked state and compute the
	// running balances and the net cash movement for the day book
	balances := make(map[string]decimal.Decimal, len(accounts))
	for id, account := range accounts {
		balances[id] = account.Balance
	}

	cashDelta := decimal.Zero
	for i := range txns {
		account := accounts[txns[i].UserAccountID]
		if domain.UserAccountStatus(account.Status) != domain.AccountActive {
			return nil, fmt.Errorf("%w: user account %s is %s", apperrors.ErrAccountNotActive, account.AccountNumber, account.Status)
		}

		delta, err := domain.SignedDelta(txns[i].Kind, txns[i].Amount)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}

		newBalance := balances[txns[i].UserAccountID].Add(delta)
		if delta.IsNegative() && newBalance.IsNegative() {
			return nil, fmt.Errorf("%w: user account %s has %s, transaction needs %s",
				apperrors.ErrInsufficientBalance, account.AccountNumber,
				balances[txns[i].UserAccountID].String(), delta.Abs().String())
		}
		balances[txns[i].UserAccountID] = newBalance
		txns[i].RunningBalance = newBalance
		txns[i].DayBookID = dayBookID

		// 3. Allocate the transaction number from the per-date sequence
		seq, err := r.sequenceRepo.NextValueInTx(ctx, tx, domain.SequenceKey(domain.TransactionNumberPrefix, txns[i].CreatedAt))
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to allocate transaction number", err)
		}
		txns[i].TransactionNumber = domain.FormatTransactionNumber(txns[i].CreatedAt, seq)

		cd, err := domain.CashDelta(txns[i].Kind, txns[i].Amount)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cashDelta = cashDelta.Add(cd)
	}

	// 4. Insert the transaction rows
	insertQuery := `
		INSERT INTO account_transactions (` + accountTransactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`

	insertBatch := &pgx.Batch{}
	for i := range txns {
		m := mapping.ToModelAccountTransaction(txns[i])
		insertBatch.Queue(insertQuery,
			m.TransactionID,
			m.TransactionNumber,
			m.UserAccountID,
			m.Kind,
			m.Amount,
			m.RunningBalance,
			m.Description,
			nullIfEmpty(m.Reference),
			nullIfEmpty(m.JournalEntryID),
			m.JournalPending,
			m.DayBookID,
			m.IsReversal,
			nullIfEmpty(m.ReversesTransactionID),
			nullIfEmpty(m.ReversedByTransactionID),
			m.ReversedAt,
			nullIfEmpty(m.ReversalReason),
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, insertBatch)
	for i := 0; i < insertBatch.Len(); i++ {
		if _, execErr := br.Exec(); execErr != nil {
			_ = br.Close()
			return nil, fmt.Errorf("failed to insert transaction %s: %w", txns[i].TransactionID, execErr)
		}
	}
	if err := br.Close(); err != nil {
		return nil, fmt.Errorf("failed to close transaction insert batch: %w", err)
	}

	// 5. Write the new balances back to the user accounts
	balanceQuery := `
		UPDATE user_accounts
		SET balance = $2, last_transaction_date = $3, last_updated_at = $3, last_updated_by = $4
		WHERE user_account_id = $1;
	`

	balanceBatch := &pgx.Batch{}
	for _, id := range userAccountIDs {
		balanceBatch.Queue(balanceQuery, id, balances[id], now, updatedBy)
	}

	bbr := tx.SendBatch(ctx, balanceBatch)
	for i := 0; i < balanceBatch.Len(); i++ {
		cmdTag, execErr := bbr.Exec()
		if execErr != nil {
			_ = bbr.Close()
			return nil, fmt.Errorf("failed to update balance for user account %s: %w", userAccountIDs[i], execErr)
		}
		if cmdTag.RowsAffected() == 0 {
			_ = bbr.Close()
			return nil, fmt.Errorf("balance update affected no rows for user account %s", userAccountIDs[i])
		}
	}
	if err := bbr.Close(); err != nil {
		return nil, fmt.Errorf("failed to close balance update batch: %w", err)
	}

	// 6. Fold the cash movement into the day book. The update doubles as the
	// open-book guard: a closed book matches no row and the whole batch fails.
	dayBookQuery := `
		UPDATE day_books
		SET system_cash_balance = system_cash_balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE day_book_id = $1 AND is_closed = FALSE;
	`

	cmdTag, err := tx.Exec(ctx, dayBookQuery, dayBookID, cashDelta, now, updatedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to update day book %s: %w", dayBookID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		var exists bool
		if checkErr := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM day_books WHERE day_book_id = $1);`, dayBookID).Scan(&exists); checkErr != nil {
			return nil, fmt.Errorf("failed to check day book %s after guarded update: %w", dayBookID, checkErr)
		}
		if !exists {
			return nil, fmt.Errorf("%w: day book %s", apperrors.ErrNotFound, dayBookID)
		}
		return nil, apperrors.ErrDayBookClosed
	}

	// 7. Record reversal linkage on the originals. The guard on
	// reversed_by_transaction_id makes a concurrent double reversal lose.
	linkQuery := `
		UPDATE account_transactions
		SET reversed_by_transaction_id = $2, reversed_at = $3, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $1 AND reversed_by_transaction_id IS NULL;
	`

	for i := range txns {
		if !txns[i].IsReversal || txns[i].ReversesTransactionID == "" {
			continue
		}
		cmdTag, err := tx.Exec(ctx, linkQuery, txns[i].ReversesTransactionID, txns[i].TransactionID, now, updatedBy)
		if err != nil {
			return nil, fmt.Errorf("failed to link reversal onto transaction %s: %w", txns[i].ReversesTransactionID, err)
		}
		if cmdTag.RowsAffected() == 0 {
			return nil, fmt.Errorf("%w: transaction %s is already reversed", apperrors.ErrConflict, txns[i].ReversesTransactionID)
		}
	}

	// Commit the transaction
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	return txns, nil
}

// SetJournalPosted records the journal entry created for a transaction and
// clears its pending flag.
func (r *PgxTransactionRepository) SetJournalPosted(ctx context.Context, transactionID string, entryID string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE account_transactions
		SET journal_entry_id = $2, journal_pending = FALSE, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $1;
	`

	cmdTag, err := r.Pool.Exec(ctx, query, transactionID, entryID, updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to set journal posted for transaction %s: %w", transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// FindTransactionByID retrieves a transaction by its ID.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.AccountTransaction, error) {
	query := `SELECT ` + accountTransactionColumns + ` FROM account_transactions WHERE transaction_id = $1;`

	m, err := scanAccountTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}

	d := mapping.ToDomainAccountTransaction(m)
	return &d, nil
}

// FindTransactionByNumber retrieves a transaction by its human-readable number.
func (r *PgxTransactionRepository) FindTransactionByNumber(ctx context.Context, transactionNumber string) (*domain.AccountTransaction, error) {
	query := `SELECT ` + accountTransactionColumns + ` FROM account_transactions WHERE transaction_number = $1;`

	m, err := scanAccountTransaction(r.Pool.QueryRow(ctx, query, transactionNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by number %s: %w", transactionNumber, err)
	}

	d := mapping.ToDomainAccountTransaction(m)
	return &d, nil
}

// FindTransactionsByReference retrieves all transactions sharing a reference,
// oldest first. Transfer legs share one reference, so this returns the pair.
func (r *PgxTransactionRepository) FindTransactionsByReference(ctx context.Context, reference string) ([]domain.AccountTransaction, error) {
	query := `
		SELECT ` + accountTransactionColumns + `
		FROM account_transactions
		WHERE reference = $1
		ORDER BY created_at, transaction_id;
	`

	return r.queryTransactions(ctx, query, reference)
}

// ListTransactionsByAccount retrieves transactions for a user account, newest
// first, using token-based pagination over (created_at, transaction_id).
func (r *PgxTransactionRepository) ListTransactionsByAccount(ctx context.Context, userAccountID string, limit int, nextToken *string) ([]domain.AccountTransaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1 // Fetch one extra to detect whether a next page exists

	query := `SELECT ` + accountTransactionColumns + ` FROM account_transactions WHERE user_account_id = $1`
	args := []interface{}{userAccountID}

	if nextToken != nil && *nextToken != "" {
		fields, err := pagination.DecodeMultiFieldToken(*nextToken)
		if err != nil || len(fields) != 2 {
			return nil, nil, apperrors.NewAppError(400, "invalid pagination token", err)
		}
		createdAt, err := time.Parse(time.RFC3339Nano, fields[0])
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid pagination token", err)
		}
		query += ` AND (created_at, transaction_id) < ($` + strconv.Itoa(len(args)+1) + `, $` + strconv.Itoa(len(args)+2) + `)`
		args = append(args, createdAt, fields[1])
	}

	query += ` ORDER BY created_at DESC, transaction_id DESC LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions for user account %s: %w", userAccountID, err)
	}
	defer rows.Close()

	txns := []domain.AccountTransaction{}
	for rows.Next() {
		m, err := scanAccountTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, mapping.ToDomainAccountTransaction(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	var newNextToken *string
	if len(txns) > limit {
		lastItem := txns[limit-1]
		token := pagination.EncodeMultiFieldToken(lastItem.CreatedAt.Format(time.RFC3339Nano), lastItem.TransactionID)
		newNextToken = &token
		txns = txns[:limit]
	}

	return txns, newNextToken, nil
}

// ListTransactionsByDayBook retrieves all transactions recorded against a day
// book, oldest first.
func (r *PgxTransactionRepository) ListTransactionsByDayBook(ctx context.Context, dayBookID string) ([]domain.AccountTransaction, error) {
	query := `
		SELECT ` + accountTransactionColumns + `
		FROM account_transactions
		WHERE day_book_id = $1
		ORDER BY created_at, transaction_id;
	`

	return r.queryTransactions(ctx, query, dayBookID)
}

// ListPendingJournal retrieves transactions whose journal entry has not been
// posted yet, oldest first.
func (r *PgxTransactionRepository) ListPendingJournal(ctx context.Context, limit int) ([]domain.AccountTransaction, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT ` + accountTransactionColumns + `
		FROM account_transactions
		WHERE journal_pending = TRUE
		ORDER BY created_at, transaction_id
		LIMIT $1;
	`

	return r.queryTransactions(ctx, query, limit)
}

func (r *PgxTransactionRepository) queryTransactions(ctx context.Context, query string, args ...interface{}) ([]domain.AccountTransaction, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	txnModels := []models.AccountTransaction{}
	for rows.Next() {
		m, err := scanAccountTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txnModels = append(txnModels, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	return mapping.ToDomainAccountTransactionSlice(txnModels), nil
}
