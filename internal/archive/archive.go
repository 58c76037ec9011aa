package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/XavierBriggs/Courtside/pkg/models"
)

const finalStreamKey = "games.final.basketball"

// Writer archives a finished game to Postgres and announces the final
// score on a Redis Stream. Archival is an end-of-game concern; failures
// are the caller's to log, never a reason to lose in-memory state.
type Writer struct {
	db     *sql.DB
	redis  *redis.Client
	logger *slog.Logger
}

// FinalMessage is the stream payload published after a game is archived.
type FinalMessage struct {
	GameID     string    `json:"game_id"`
	HomeTeam   string    `json:"home_team"`
	AwayTeam   string    `json:"away_team"`
	HomeScore  int       `json:"home_score"`
	AwayScore  int       `json:"away_score"`
	Period     int       `json:"period"`
	ArchivedAt time.Time `json:"archived_at"`
}

// NewWriter creates an archive writer. The Redis client is optional; with
// a nil client the final-score publish is skipped.
func NewWriter(db *sql.DB, redisClient *redis.Client, logger *slog.Logger) *Writer {
	return &Writer{db: db, redis: redisClient, logger: logger}
}

// ArchiveGame writes the game, both rosters, and the full event log in a
// single transaction, then publishes the final score. A game with no ID
// (the empty template) is skipped.
func (w *Writer) ArchiveGame(ctx context.Context, state models.GameState) error {
	if state.GameID == "" {
		return nil
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := w.insertGame(ctx, tx, state); err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	if err := w.insertPlayers(ctx, tx, state.GameID, state.HomeTeam); err != nil {
		return fmt.Errorf("insert home roster: %w", err)
	}
	if err := w.insertPlayers(ctx, tx, state.GameID, state.AwayTeam); err != nil {
		return fmt.Errorf("insert away roster: %w", err)
	}
	if err := w.insertEvents(ctx, tx, state.GameID, state.Events); err != nil {
		return fmt.Errorf("insert events: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	// Publish after a successful commit; the DB row is the source of truth
	// and a failed publish only costs downstream consumers a notification.
	if err := w.publishFinal(ctx, state); err != nil && w.logger != nil {
		w.logger.Warn("final score publish failed", "game_id", state.GameID, "err", err)
	}

	return nil
}

func (w *Writer) insertGame(ctx context.Context, tx *sql.Tx, state models.GameState) error {
	query := `
		INSERT INTO games (
			game_id, period, clock, home_team_id, home_team_name, home_score,
			away_team_id, away_team_name, away_score, archived_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (game_id) DO UPDATE SET
			period = EXCLUDED.period,
			clock = EXCLUDED.clock,
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			archived_at = EXCLUDED.archived_at
	`

	_, err := tx.ExecContext(ctx, query,
		state.GameID, state.Period, state.Clock,
		state.HomeTeam.ID, state.HomeTeam.Name, state.HomeTeam.Score,
		state.AwayTeam.ID, state.AwayTeam.Name, state.AwayTeam.Score,
	)
	return err
}

func (w *Writer) insertPlayers(ctx context.Context, tx *sql.Tx, gameID string, team models.Team) error {
	if len(team.Players) == 0 {
		return nil
	}

	query := `
		INSERT INTO game_players (
			game_id, team_id, player_id, name, number,
			points, assists, rebounds, steals, blocks, fouls,
			fg_made, fg_attempts, three_pt_made, three_pt_attempts, ft_made, ft_attempts
		)
		SELECT $1, $2, * FROM UNNEST(
			$3::text[], $4::text[], $5::text[],
			$6::int[], $7::int[], $8::int[], $9::int[], $10::int[], $11::int[],
			$12::int[], $13::int[], $14::int[], $15::int[], $16::int[], $17::int[]
		)
		ON CONFLICT (game_id, team_id, player_id) DO UPDATE SET
			points = EXCLUDED.points,
			assists = EXCLUDED.assists,
			rebounds = EXCLUDED.rebounds,
			steals = EXCLUDED.steals,
			blocks = EXCLUDED.blocks,
			fouls = EXCLUDED.fouls,
			fg_made = EXCLUDED.fg_made,
			fg_attempts = EXCLUDED.fg_attempts,
			three_pt_made = EXCLUDED.three_pt_made,
			three_pt_attempts = EXCLUDED.three_pt_attempts,
			ft_made = EXCLUDED.ft_made,
			ft_attempts = EXCLUDED.ft_attempts
	`

	n := len(team.Players)
	playerIDs := make([]string, n)
	names := make([]string, n)
	numbers := make([]string, n)
	points := make([]int, n)
	assists := make([]int, n)
	rebounds := make([]int, n)
	steals := make([]int, n)
	blocks := make([]int, n)
	fouls := make([]int, n)
	fgMade := make([]int, n)
	fgAttempts := make([]int, n)
	threeMade := make([]int, n)
	threeAttempts := make([]int, n)
	ftMade := make([]int, n)
	ftAttempts := make([]int, n)

	for i, p := range team.Players {
		playerIDs[i] = p.ID
		names[i] = p.Name
		numbers[i] = p.Number
		points[i] = p.Stats.Points
		assists[i] = p.Stats.Assists
		rebounds[i] = p.Stats.Rebounds
		steals[i] = p.Stats.Steals
		blocks[i] = p.Stats.Blocks
		fouls[i] = p.Stats.Fouls
		fgMade[i] = p.Stats.FGMade
		fgAttempts[i] = p.Stats.FGAttempts
		threeMade[i] = p.Stats.ThreePtMade
		threeAttempts[i] = p.Stats.ThreePtAttempts
		ftMade[i] = p.Stats.FTMade
		ftAttempts[i] = p.Stats.FTAttempts
	}

	_, err := tx.ExecContext(ctx, query,
		gameID, team.ID,
		pq.Array(playerIDs), pq.Array(names), pq.Array(numbers),
		pq.Array(points), pq.Array(assists), pq.Array(rebounds), pq.Array(steals), pq.Array(blocks), pq.Array(fouls),
		pq.Array(fgMade), pq.Array(fgAttempts), pq.Array(threeMade), pq.Array(threeAttempts), pq.Array(ftMade), pq.Array(ftAttempts),
	)
	return err
}

func (w *Writer) insertEvents(ctx context.Context, tx *sql.Tx, gameID string, events []models.GameEvent) error {
	if len(events) == 0 {
		return nil
	}

	query := `
		INSERT INTO game_events (
			game_id, event_id, occurred_at, game_time, event_type,
			team_id, player_id, value, description, shot_x, shot_y
		)
		SELECT $1, * FROM UNNEST(
			$2::text[], $3::timestamptz[], $4::text[], $5::text[],
			$6::text[], $7::text[], $8::int[], $9::text[], $10::decimal[], $11::decimal[]
		)
		ON CONFLICT (game_id, event_id) DO NOTHING
	`

	n := len(events)
	eventIDs := make([]string, n)
	occurredAts := make([]time.Time, n)
	gameTimes := make([]string, n)
	eventTypes := make([]string, n)
	teamIDs := make([]string, n)
	playerIDs := make([]string, n)
	values := make([]*int, n)
	descriptions := make([]string, n)
	shotXs := make([]*float64, n)
	shotYs := make([]*float64, n)

	for i, e := range events {
		eventIDs[i] = e.ID
		occurredAts[i] = e.Timestamp
		gameTimes[i] = e.GameTime
		eventTypes[i] = string(e.Type)
		teamIDs[i] = e.TeamID
		playerIDs[i] = e.PlayerID
		values[i] = e.Value
		descriptions[i] = e.Description
		if e.ShotLocation != nil {
			x, y := e.ShotLocation.X, e.ShotLocation.Y
			shotXs[i] = &x
			shotYs[i] = &y
		}
	}

	_, err := tx.ExecContext(ctx, query,
		gameID,
		pq.Array(eventIDs), pq.Array(occurredAts), pq.Array(gameTimes), pq.Array(eventTypes),
		pq.Array(teamIDs), pq.Array(playerIDs), pq.Array(values), pq.Array(descriptions),
		pq.Array(shotXs), pq.Array(shotYs),
	)
	return err
}

func (w *Writer) publishFinal(ctx context.Context, state models.GameState) error {
	if w.redis == nil {
		return nil
	}

	msg := FinalMessage{
		GameID:     state.GameID,
		HomeTeam:   state.HomeTeam.Name,
		AwayTeam:   state.AwayTeam.Name,
		HomeScore:  state.HomeTeam.Score,
		AwayScore:  state.AwayTeam.Score,
		Period:     state.Period,
		ArchivedAt: time.Now(),
	}

	msgJSON, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal final message: %w", err)
	}

	if err := w.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: finalStreamKey,
		Values: map[string]interface{}{"data": msgJSON},
	}).Err(); err != nil {
		return fmt.Errorf("xadd final message: %w", err)
	}

	return nil
}
