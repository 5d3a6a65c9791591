package store

import (
	"context"
	"fmt"
	"sync"

	entsql "entgo.io/ent/dialect/sql"
)

// sequence hands out the global event sequence. Every event table draws
// from it, so a quiz's LLM calls order correctly against its session
// events even though row IDs are per table.
type sequence struct {
	mu  sync.Mutex
	drv *entsql.Driver
}

const nextSequenceSQL = "UPDATE " + tableSequence +
	" SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1"

// Next returns the next sequence number, starting at 1.
func (s *sequence) Next(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := &entsql.Rows{}
	if err := s.drv.Query(ctx, nextSequenceSQL, []any{}, rows); err != nil {
		return 0, fmt.Errorf("advance sequence: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, fmt.Errorf("advance sequence: %w", err)
		}
		return 0, fmt.Errorf("advance sequence: %s row missing", tableSequence)
	}
	var n int64
	if err := rows.Scan(&n); err != nil {
		return 0, fmt.Errorf("scan sequence: %w", err)
	}
	return n, nil
}
