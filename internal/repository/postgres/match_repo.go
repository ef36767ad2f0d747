package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/palegrove/umbra/internal/model"
)

// MatchRepo handles match and match_player database operations.
type MatchRepo struct {
	db *sql.DB
}

// NewMatchRepo creates a MatchRepo.
func NewMatchRepo(db *sql.DB) *MatchRepo {
	return &MatchRepo{db: db}
}

// Create inserts a new match in waiting status.
func (r *MatchRepo) Create(ctx context.Context, id, name, creatorID string, maxPlayers int) (*model.Match, error) {
	var m model.Match
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO matches (id, name, creator_id, max_players)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, name, creator_id, status, max_players, created_at`,
		id, name, creatorID, maxPlayers,
	).Scan(&m.ID, &m.Name, &m.CreatorID, &m.Status, &m.MaxPlayers, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create match: %w", err)
	}
	return &m, nil
}

// FindByID returns a match by ID with its players.
func (r *MatchRepo) FindByID(ctx context.Context, id string) (*model.Match, error) {
	var m model.Match
	var winner sql.NullString
	var seed sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, creator_id, status, winning_faction, seed, max_players,
		        created_at, started_at, finished_at
		 FROM matches WHERE id = $1`, id,
	).Scan(&m.ID, &m.Name, &m.CreatorID, &m.Status, &winner, &seed, &m.MaxPlayers,
		&m.CreatedAt, &m.StartedAt, &m.FinishedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find match: %w", err)
	}
	m.WinningFaction = winner.String
	m.Seed = seed.Int64

	players, err := r.ListPlayers(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Players = players
	return &m, nil
}

// ListOpen returns matches in "waiting" status.
func (r *MatchRepo) ListOpen(ctx context.Context) ([]model.Match, error) {
	return r.listByStatus(ctx, "waiting")
}

// ListActive returns matches in "active" status, including their players.
func (r *MatchRepo) ListActive(ctx context.Context) ([]model.Match, error) {
	matches, err := r.listByStatus(ctx, "active")
	if err != nil {
		return nil, err
	}
	for i := range matches {
		players, err := r.ListPlayers(ctx, matches[i].ID)
		if err != nil {
			return nil, err
		}
		matches[i].Players = players
	}
	return matches, nil
}

func (r *MatchRepo) listByStatus(ctx context.Context, status string) ([]model.Match, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, creator_id, status, max_players, created_at
		 FROM matches WHERE status = $1 ORDER BY created_at DESC LIMIT 50`, status)
	if err != nil {
		return nil, fmt.Errorf("list %s matches: %w", status, err)
	}
	defer rows.Close()

	var matches []model.Match
	for rows.Next() {
		var m model.Match
		if err := rows.Scan(&m.ID, &m.Name, &m.CreatorID, &m.Status, &m.MaxPlayers, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// ListByUser returns all matches a user is part of (as player or creator).
func (r *MatchRepo) ListByUser(ctx context.Context, userID string) ([]model.Match, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT m.id, m.name, m.creator_id, m.status, m.winning_faction, m.max_players,
		        m.created_at, m.started_at, m.finished_at
		 FROM matches m LEFT JOIN match_players mp ON m.id = mp.match_id AND mp.user_id = $1
		 WHERE mp.user_id = $1 OR m.creator_id = $1
		 ORDER BY m.created_at DESC LIMIT 50`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user matches: %w", err)
	}
	defer rows.Close()

	var matches []model.Match
	for rows.Next() {
		var m model.Match
		var winner sql.NullString
		if err := rows.Scan(&m.ID, &m.Name, &m.CreatorID, &m.Status, &winner, &m.MaxPlayers,
			&m.CreatedAt, &m.StartedAt, &m.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		m.WinningFaction = winner.String
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// ListPlayers returns all seats in a match, seat order first.
func (r *MatchRepo) ListPlayers(ctx context.Context, matchID string) ([]model.MatchPlayer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT mp.match_id, mp.user_id, COALESCE(u.display_name, ''), mp.seat_index, mp.is_bot, mp.personality, mp.joined_at
		 FROM match_players mp LEFT JOIN users u ON u.id = mp.user_id
		 WHERE mp.match_id = $1 ORDER BY mp.seat_index, mp.joined_at`,
		matchID,
	)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var players []model.MatchPlayer
	for rows.Next() {
		var p model.MatchPlayer
		var personality sql.NullString
		if err := rows.Scan(&p.MatchID, &p.UserID, &p.DisplayName, &p.SeatIndex, &p.IsBot, &personality, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		p.Personality = personality.String
		players = append(players, p)
	}
	return players, rows.Err()
}

// Join adds a human player to a match, taking the next free seat.
func (r *MatchRepo) Join(ctx context.Context, matchID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO match_players (match_id, user_id, seat_index)
		 SELECT $1, $2, COALESCE(MAX(seat_index) + 1, 0) FROM match_players WHERE match_id = $1
		 ON CONFLICT DO NOTHING`,
		matchID, userID,
	)
	if err != nil {
		return fmt.Errorf("join match: %w", err)
	}
	return nil
}

// JoinAsBot adds a bot seat driven by the named personality profile.
func (r *MatchRepo) JoinAsBot(ctx context.Context, matchID, botUserID, personality string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO match_players (match_id, user_id, seat_index, is_bot, personality)
		 SELECT $1, $2, COALESCE(MAX(seat_index) + 1, 0), true, $3 FROM match_players WHERE match_id = $1
		 ON CONFLICT DO NOTHING`,
		matchID, botUserID, personality,
	)
	if err != nil {
		return fmt.Errorf("join match as bot: %w", err)
	}
	return nil
}

// PlayerCount returns the number of seats taken in a match.
func (r *MatchRepo) PlayerCount(ctx context.Context, matchID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM match_players WHERE match_id = $1`, matchID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("player count: %w", err)
	}
	return count, nil
}

// SetStarted marks a match active and records the setup seed.
func (r *MatchRepo) SetStarted(ctx context.Context, matchID string, seed int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE matches SET status = 'active', seed = $1, started_at = now() WHERE id = $2`,
		seed, matchID,
	)
	if err != nil {
		return fmt.Errorf("set started: %w", err)
	}
	return nil
}

// SetFinished marks a match as finished with the winning faction.
func (r *MatchRepo) SetFinished(ctx context.Context, matchID, winningFaction string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE matches SET status = 'finished', winning_faction = $1, finished_at = now() WHERE id = $2`,
		winningFaction, matchID,
	)
	if err != nil {
		return fmt.Errorf("set finished: %w", err)
	}
	return nil
}

// Delete removes a match and all associated data (cascades to players and events).
func (r *MatchRepo) Delete(ctx context.Context, matchID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, matchID)
	if err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	return nil
}
