package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"futkings-live/internal/domain"
	"futkings-live/internal/engine"
)

// ArchiveRepository records completed matches locally. Rows are written once,
// after the store has acknowledged the terminal push, and never mutated.
type ArchiveRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewArchiveRepository(db *sql.DB, logger zerolog.Logger) *ArchiveRepository {
	return &ArchiveRepository{db: db, logger: logger}
}

// ArchivedMatch is the stored terminal record of one match.
type ArchivedMatch struct {
	MatchID           string
	HomeTeamID        string
	AwayTeamID        string
	HomeScore         int
	AwayScore         int
	HomeShootoutScore *int
	AwayShootoutScore *int
	CompletedAt       time.Time
	Stats             map[string]domain.PlayerMatchStat
}

// SaveCompleted archives a finalized match and its stat lines in one
// transaction.
func (r *ArchiveRepository) SaveCompleted(ctx context.Context, st engine.State, completedAt time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin archive tx: %w", err)
	}
	defer tx.Rollback()

	var homeShootout, awayShootout *int
	if st.Shootout != nil {
		h, a := st.Shootout.HomeScore, st.Shootout.AwayScore
		homeShootout, awayShootout = &h, &a
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO match_archive (
			match_id, home_team_id, away_team_id,
			home_score, away_score,
			home_shootout_score, away_shootout_score,
			completed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (match_id) DO NOTHING`,
		st.MatchID, st.HomeTeamID, st.AwayTeamID,
		st.HomeScore, st.AwayScore,
		homeShootout, awayShootout,
		completedAt,
	)
	if err != nil {
		return fmt.Errorf("insert archive row: %w", err)
	}

	for playerID, line := range st.Stats {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO match_archive_stats (
				match_id, player_id,
				goals, assists, yellow_cards, red_cards,
				fouls, saves, goals_conceded
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (match_id, player_id) DO NOTHING`,
			st.MatchID, playerID,
			line.Goals, line.Assists, line.YellowCards, line.RedCards,
			line.Fouls, line.Saves, line.GoalsConceded,
		)
		if err != nil {
			return fmt.Errorf("insert archive stat line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit archive tx: %w", err)
	}

	r.logger.Info().
		Str("match_id", st.MatchID).
		Int("home_score", st.HomeScore).
		Int("away_score", st.AwayScore).
		Msg("match archived")
	return nil
}

// Get loads an archived match, or sql.ErrNoRows when none exists.
func (r *ArchiveRepository) Get(ctx context.Context, matchID string) (*ArchivedMatch, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT match_id, home_team_id, away_team_id,
		       home_score, away_score,
		       home_shootout_score, away_shootout_score,
		       completed_at
		FROM match_archive
		WHERE match_id = ?`, matchID)

	var m ArchivedMatch
	if err := row.Scan(
		&m.MatchID, &m.HomeTeamID, &m.AwayTeamID,
		&m.HomeScore, &m.AwayScore,
		&m.HomeShootoutScore, &m.AwayShootoutScore,
		&m.CompletedAt,
	); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT player_id, goals, assists, yellow_cards, red_cards,
		       fouls, saves, goals_conceded
		FROM match_archive_stats
		WHERE match_id = ?`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	m.Stats = make(map[string]domain.PlayerMatchStat)
	for rows.Next() {
		var playerID string
		var line domain.PlayerMatchStat
		if err := rows.Scan(
			&playerID, &line.Goals, &line.Assists, &line.YellowCards,
			&line.RedCards, &line.Fouls, &line.Saves, &line.GoalsConceded,
		); err != nil {
			return nil, err
		}
		m.Stats[playerID] = line
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &m, nil
}
