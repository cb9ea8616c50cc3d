package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hospital-api/internal/repository"
)

type sequenceRepository struct {
	BaseRepository
}

// NewSequencer returns a counter-row sequencer. The upsert holds the row lock
// until the surrounding transaction ends, so concurrent callers serialize and
// a rolled back caller does not consume a value.
func NewSequencer(db *sqlx.DB) repository.Sequencer {
	return &sequenceRepository{NewBaseRepository(db)}
}

func (r *sequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	query := `
		INSERT INTO sequence_counters (name, value) VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET value = sequence_counters.value + 1
		RETURNING value
	`
	var value int64
	if err := sqlx.GetContext(ctx, r.conn(ctx), &value, query, name); err != nil {
		return 0, wrapErr("advance sequence "+name, err)
	}
	return value, nil
}
