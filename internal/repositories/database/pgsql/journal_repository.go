package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/notcool100/astrofinance-ledger/internal/apperrors"
	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	portsrepo "github.com/notcool100/astrofinance-ledger/internal/core/ports/repositories"
	"github.com/notcool100/astrofinance-ledger/internal/models"
	"github.com/notcool100/astrofinance-ledger/internal/utils/mapping"
	"github.com/notcool100/astrofinance-ledger/internal/utils/pagination"
)

type PgxJournalRepository struct {
	BaseRepository
	sequenceRepo portsrepo.SequenceRepository
}

// newPgxJournalRepository creates a new repository for journal entries. The
// sequence repository allocates entry numbers inside the same transaction
// that persists the entry.
func newPgxJournalRepository(pool *pgxpool.Pool, sequenceRepo portsrepo.SequenceRepository) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
		sequenceRepo:   sequenceRepo,
	}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const journalEntryColumns = `entry_id, entry_number, entry_date, narration, reference, status, day_book_id, reverses_entry_id, reversed_by_entry_id, created_at, created_by, last_updated_at, last_updated_by`

const journalLineColumns = `line_id, entry_id, account_id, account_code, debit, credit, description, created_at, created_by, last_updated_at, last_updated_by`

func scanJournalEntry(row rowScanner) (models.JournalEntry, error) {
	var m models.JournalEntry
	var reference, dayBookID, reverses, reversedBy sql.NullString
	err := row.Scan(
		&m.EntryID,
		&m.EntryNumber,
		&m.EntryDate,
		&m.Narration,
		&reference,
		&m.Status,
		&dayBookID,
		&reverses,
		&reversedBy,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.JournalEntry{}, err
	}
	if reference.Valid {
		m.Reference = reference.String
	}
	if dayBookID.Valid {
		m.DayBookID = dayBookID.String
	}
	if reverses.Valid {
		m.ReversesEntryID = reverses.String
	}
	if reversedBy.Valid {
		m.ReversedByEntryID = reversedBy.String
	}
	return m, nil
}

func scanJournalLine(row rowScanner) (models.JournalLine, error) {
	var m models.JournalLine
	err := row.Scan(
		&m.LineID,
		&m.EntryID,
		&m.AccountID,
		&m.AccountCode,
		&m.Debit,
		&m.Credit,
		&m.Description,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.JournalLine{}, err
	}
	return m, nil
}

// nullIfEmpty converts an empty string into a NULL insert parameter.
func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// SaveEntry persists a journal entry and its lines within a DB transaction.
// The entry number comes from the per-date sequence allocated in the same
// transaction, so concurrent posters for one date still get distinct numbers.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) (*domain.JournalEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	seq, err := r.sequenceRepo.NextValueInTx(ctx, tx, domain.SequenceKey(domain.EntryNumberPrefix, entry.EntryDate))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to allocate journal entry number", err)
	}
	entry.EntryNumber = domain.FormatEntryNumber(entry.EntryDate, seq)

	m := mapping.ToModelJournalEntry(entry)

	entryQuery := `
		INSERT INTO journal_entries (` + journalEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`

	_, err = tx.Exec(ctx, entryQuery,
		m.EntryID,
		m.EntryNumber,
		m.EntryDate,
		m.Narration,
		nullIfEmpty(m.Reference),
		m.Status,
		nullIfEmpty(m.DayBookID),
		nullIfEmpty(m.ReversesEntryID),
		nullIfEmpty(m.ReversedByEntryID),
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return nil, fmt.Errorf("%w: journal entry %s already exists", apperrors.ErrDuplicate, m.EntryID)
		}
		return nil, fmt.Errorf("failed to insert journal entry %s: %w", m.EntryID, err)
	}

	lineQuery := `
		INSERT INTO journal_lines (` + journalLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`

	batch := &pgx.Batch{}
	for i := range lines {
		lines[i].EntryID = entry.EntryID
		lm := mapping.ToModelJournalLine(lines[i])
		batch.Queue(lineQuery,
			lm.LineID,
			lm.EntryID,
			lm.AccountID,
			lm.AccountCode,
			lm.Debit,
			lm.Credit,
			lm.Description,
			lm.CreatedAt,
			lm.CreatedBy,
			lm.LastUpdatedAt,
			lm.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, execErr := br.Exec(); execErr != nil {
			_ = br.Close()
			return nil, fmt.Errorf("failed to insert journal line %d for entry %s: %w", i, entry.EntryID, execErr)
		}
	}
	if err := br.Close(); err != nil {
		return nil, fmt.Errorf("failed to close journal line batch for entry %s: %w", entry.EntryID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	entry.Lines = lines
	return &entry, nil
}

// FindEntryByID retrieves a journal entry with its lines.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + journalEntryColumns + ` FROM journal_entries WHERE entry_id = $1;`
	return r.findEntry(ctx, query, entryID)
}

// FindEntryByNumber retrieves a journal entry by its human-readable number.
func (r *PgxJournalRepository) FindEntryByNumber(ctx context.Context, entryNumber string) (*domain.JournalEntry, error) {
	query := `SELECT ` + journalEntryColumns + ` FROM journal_entries WHERE entry_number = $1;`
	return r.findEntry(ctx, query, entryNumber)
}

func (r *PgxJournalRepository) findEntry(ctx context.Context, query string, arg string) (*domain.JournalEntry, error) {
	m, err := scanJournalEntry(r.Pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", arg, err)
	}

	d := mapping.ToDomainJournalEntry(m)

	lines, err := r.FindLinesByEntryID(ctx, d.EntryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines for journal entry %s: %w", d.EntryID, err)
	}
	d.Lines = lines

	return &d, nil
}

// ListEntries retrieves journal entries for a date range, newest first, using
// token-based pagination over (entry_date, created_at).
func (r *PgxJournalRepository) ListEntries(ctx context.Context, from time.Time, to time.Time, includeReversed bool, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1 // Fetch one extra to detect whether a next page exists

	query := `SELECT ` + journalEntryColumns + ` FROM journal_entries WHERE 1=1`
	args := []interface{}{}

	if !from.IsZero() {
		query += ` AND entry_date >= $` + strconv.Itoa(len(args)+1)
		args = append(args, from)
	}
	if !to.IsZero() {
		query += ` AND entry_date <= $` + strconv.Itoa(len(args)+1)
		args = append(args, to)
	}
	if !includeReversed {
		query += ` AND status <> '` + string(models.Reversed) + `'`
	}

	if nextToken != nil && *nextToken != "" {
		entryDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid pagination token", err)
		}
		query += ` AND (entry_date, created_at) < ($` + strconv.Itoa(len(args)+1) + `, $` + strconv.Itoa(len(args)+2) + `)`
		args = append(args, entryDate, createdAt)
	}

	query += ` ORDER BY entry_date DESC, created_at DESC LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		m, err := scanJournalEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		entries = append(entries, mapping.ToDomainJournalEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating journal entry rows: %w", err)
	}

	var newNextToken *string
	if len(entries) > limit {
		lastItem := entries[limit-1]
		token := pagination.EncodeToken(lastItem.EntryDate, lastItem.CreatedAt)
		newNextToken = &token
		entries = entries[:limit]
	}

	return entries, newNextToken, nil
}

// FindLinesByEntryID retrieves the lines of one journal entry in insertion order.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `
		SELECT ` + journalLineColumns + `
		FROM journal_lines
		WHERE entry_id = $1
		ORDER BY created_at, line_id;
	`

	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entry %s: %w", entryID, err)
	}
	defer rows.Close()

	lineModels := []models.JournalLine{}
	for rows.Next() {
		m, err := scanJournalLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal line row: %w", err)
		}
		lineModels = append(lineModels, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal line rows: %w", err)
	}

	return mapping.ToDomainJournalLineSlice(lineModels), nil
}

// FindLinesByAccountID retrieves posted lines touching a ledger account within
// a date range, oldest first. Lines of reversed entries stay included since
// the compensating entry, not deletion, is what cancels them.
func (r *PgxJournalRepository) FindLinesByAccountID(ctx context.Context, accountID string, from time.Time, to time.Time) ([]domain.JournalLine, error) {
	query := `
		SELECT l.line_id, l.entry_id, l.account_id, l.account_code, l.debit, l.credit, l.description, l.created_at, l.created_by, l.last_updated_at, l.last_updated_by
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.account_id = $1
		  AND e.entry_date >= $2 AND e.entry_date <= $3
		  AND e.status <> '` + string(models.Draft) + `'
		ORDER BY e.entry_date, e.created_at, l.line_id;
	`

	rows, err := r.Pool.Query(ctx, query, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for account %s: %w", accountID, err)
	}
	defer rows.Close()

	lineModels := []models.JournalLine{}
	for rows.Next() {
		m, err := scanJournalLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal line row: %w", err)
		}
		lineModels = append(lineModels, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal line rows: %w", err)
	}

	return mapping.ToDomainJournalLineSlice(lineModels), nil
}

// UpdateEntryStatusAndLinks sets the entry status and reversal linkage.
// Nil link pointers leave the corresponding column untouched.
func (r *PgxJournalRepository) UpdateEntryStatusAndLinks(ctx context.Context, entryID string, status domain.EntryStatus, reversedBy *string, reverses *string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = $2,
			reversed_by_entry_id = COALESCE($3, reversed_by_entry_id),
			reverses_entry_id = COALESCE($4, reverses_entry_id),
			last_updated_at = $5,
			last_updated_by = $6
		WHERE entry_id = $1;
	`

	cmdTag, err := r.Pool.Exec(ctx, query, entryID, string(status), reversedBy, reverses, updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update status for journal entry %s: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}
