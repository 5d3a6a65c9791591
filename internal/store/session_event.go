package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var sessionEventColumns = []string{
	"id", "sequence", "timestamp", "session_id", "owner", "kind",
	"action", "topic", "total", "correct", "detail",
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(tableSessionEvents).
		Columns(sessionEventColumns[1:]...).
		Values(
			seqNum,
			r.now().UTC().UnixMilli(),
			data.SessionID,
			data.Owner,
			data.Kind,
			data.Action,
			data.Topic,
			data.Total,
			data.Correct,
			data.Detail,
		).Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) QuerySessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEventRecord, error) {
	sel := builder().Select(sessionEventColumns...).
		From(builder().Table(tableSessionEvents))
	applyQueryOpts(sel, opts)
	if opts.Owner != "" {
		sel.Where(entsql.EQ("owner", opts.Owner))
	}

	query, args := sel.Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	var out []SessionEventRecord
	for rows.Next() {
		var (
			e  SessionEventRecord
			ts int64
		)
		if err := rows.Scan(
			&e.ID, &e.Sequence, &ts, &e.SessionID, &e.Owner, &e.Kind,
			&e.Action, &e.Topic, &e.Total, &e.Correct, &e.Detail,
		); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		e.Timestamp = time.UnixMilli(ts).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}
