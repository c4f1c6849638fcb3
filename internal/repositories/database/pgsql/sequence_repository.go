package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/notcool100/astrofinance-ledger/internal/core/ports/repositories"
)

type PgxSequenceRepository struct {
	BaseRepository
}

// newPgxSequenceRepository creates a new repository for per-day number sequences.
func newPgxSequenceRepository(pool *pgxpool.Pool) portsrepo.SequenceRepository {
	return &PgxSequenceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxSequenceRepository implements portsrepo.SequenceRepository
var _ portsrepo.SequenceRepository = (*PgxSequenceRepository)(nil)

// The upsert seeds a new key at 1 and increments an existing one. The row is
// locked for the duration of the enclosing transaction, which is what
// guarantees gap-free numbering when callers allocate inside their own tx.
const nextSequenceValueQuery = `
	INSERT INTO number_sequences (sequence_key, last_value)
	VALUES ($1, 1)
	ON CONFLICT (sequence_key) DO UPDATE
	SET last_value = number_sequences.last_value + 1
	RETURNING last_value;
`

// NextValue allocates the next value for a sequence key using the pool directly.
func (r *PgxSequenceRepository) NextValue(ctx context.Context, sequenceKey string) (int64, error) {
	var value int64
	err := r.Pool.QueryRow(ctx, nextSequenceValueQuery, sequenceKey).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate next value for sequence %s: %w", sequenceKey, err)
	}
	return value, nil
}

// NextValueInTx allocates the next value for a sequence key inside an existing
// transaction, so the allocated number commits or rolls back with the caller.
func (r *PgxSequenceRepository) NextValueInTx(ctx context.Context, tx pgx.Tx, sequenceKey string) (int64, error) {
	var value int64
	err := tx.QueryRow(ctx, nextSequenceValueQuery, sequenceKey).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate next value for sequence %s in tx: %w", sequenceKey, err)
	}
	return value, nil
}
