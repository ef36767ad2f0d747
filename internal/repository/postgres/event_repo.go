package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/palegrove/umbra/internal/model"
)

// EventRepo handles the append-only match event log.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo creates an EventRepo.
func NewEventRepo(db *sql.DB) *EventRepo {
	return &EventRepo{db: db}
}

// Append inserts a batch of events in one transaction.
func (r *EventRepo) Append(ctx context.Context, events []model.MatchEvent) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, e := range events {
		var privateTo sql.NullString
		if e.PrivateTo != "" {
			privateTo = sql.NullString{String: e.PrivateTo, Valid: true}
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO match_events (match_id, seq, type, payload, private_to)
			 VALUES ($1, $2, $3, $4, $5)`,
			e.MatchID, e.Seq, e.Type, []byte(e.Payload), privateTo,
		)
		if err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}
	return tx.Commit()
}

// ListByMatch returns a match's events with seq greater than afterSeq,
// in seq order. Pass afterSeq=0 for the full log.
func (r *EventRepo) ListByMatch(ctx context.Context, matchID string, afterSeq int) ([]model.MatchEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, match_id, seq, type, payload, private_to, created_at
		 FROM match_events WHERE match_id = $1 AND seq > $2 ORDER BY seq`,
		matchID, afterSeq,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.MatchEvent
	for rows.Next() {
		var e model.MatchEvent
		var privateTo sql.NullString
		if err := rows.Scan(&e.ID, &e.MatchID, &e.Seq, &e.Type, &e.Payload, &privateTo, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.PrivateTo = privateTo.String
		events = append(events, e)
	}
	return events, rows.Err()
}

// LastSeq returns the highest seq recorded for a match, 0 if none.
func (r *EventRepo) LastSeq(ctx context.Context, matchID string) (int, error) {
	var seq int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) FROM match_events WHERE match_id = $1`, matchID,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	return seq, nil
}
