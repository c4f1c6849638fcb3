package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// SequenceRepository allocates gapless-per-key monotonically increasing
// values for document numbering (journal entries, transactions, day books).
type SequenceRepository interface {
	// NextValue atomically increments and returns the counter for a key.
	NextValue(ctx context.Context, sequenceKey string) (int64, error)

	// NextValueInTx does the same inside an existing transaction so the
	// allocated number commits or rolls back with the caller's writes.
	NextValueInTx(ctx context.Context, tx pgx.Tx, sequenceKey string) (int64, error)
}
