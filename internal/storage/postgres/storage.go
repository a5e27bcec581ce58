package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcoot/baseballgame-go/internal/model"
	"github.com/mcoot/baseballgame-go/internal/storage"
)

// Config holds Postgres connection settings
type Config struct {
	// URL is a postgres:// connection string
	URL      string
	MaxConns int32
}

// DefaultConfig returns sensible defaults for Postgres configuration
func DefaultConfig() Config {
	return Config{
		URL:      "postgres://localhost:5432/baseball",
		MaxConns: 10,
	}
}

// Storage is a Postgres-backed implementation of the storage interface
type Storage struct {
	pool *pgxpool.Pool
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// New connects, verifies the connection and applies the schema
func New(ctx context.Context, cfg Config) (*Storage, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	s := &Storage{pool: pool}
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the tables if they do not exist
func (s *Storage) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Close releases the pool
func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

// Account operations

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account, stats *model.Stats) error {
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`INSERT INTO users (user_id, password, character, created_at)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (user_id) DO NOTHING`,
			account.UserID, account.PasswordHash, account.Character, account.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrDuplicateID
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO stats (user_id, wins, losses, draws, win_rate) VALUES ($1, $2, $3, $4, $5)`,
			stats.UserID, stats.Wins, stats.Losses, stats.Draws, stats.WinRate,
		)
		if err != nil {
			return fmt.Errorf("insert stats: %w", err)
		}
		return nil
	})
}

func (s *Storage) GetAccount(ctx context.Context, userID model.UserID) (*model.Account, error) {
	var a model.Account
	err := s.pool.QueryRow(ctx,
		`SELECT user_id, password, character, created_at FROM users WHERE user_id = $1`,
		userID,
	).Scan(&a.UserID, &a.PasswordHash, &a.Character, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Stats operations

func (s *Storage) GetStats(ctx context.Context, userID model.UserID) (*model.Stats, error) {
	var st model.Stats
	err := s.pool.QueryRow(ctx,
		`SELECT user_id, wins, losses, draws, win_rate FROM stats WHERE user_id = $1`,
		userID,
	).Scan(&st.UserID, &st.Wins, &st.Losses, &st.Draws, &st.WinRate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *Storage) SaveStats(ctx context.Context, stats *model.Stats) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE stats SET wins = $2, losses = $3, draws = $4, win_rate = $5 WHERE user_id = $1`,
		stats.UserID, stats.Wins, stats.Losses, stats.Draws, stats.WinRate,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAccountNotFound
	}
	return nil
}

// History operations

func (s *Storage) AppendGuess(ctx context.Context, record *model.GuessRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO game_details (game_id, round, player_id, guess, strike, ball)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		record.GameID, record.Round, record.PlayerID, record.Guess, record.Strike, record.Ball,
	)
	return err
}

func (s *Storage) AppendGame(ctx context.Context, summary *model.GameSummary) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO game_history (game_id, played_at, participants, game_mode, difficulty, winners, is_draw)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		summary.GameID, summary.Timestamp, userIDStrings(summary.Participants),
		summary.Mode, summary.Difficulty, userIDStrings(summary.Winners), summary.IsDraw,
	)
	return err
}

func (s *Storage) ListGames(ctx context.Context, userID model.UserID, limit int) ([]model.GameSummary, error) {
	var limitArg any
	if limit > 0 {
		limitArg = limit
	}
	rows, err := s.pool.Query(ctx,
		`SELECT game_id, played_at, participants, game_mode, difficulty, winners, is_draw
		 FROM game_history
		 WHERE $1 = ANY(participants)
		 ORDER BY seq DESC
		 LIMIT $2`,
		string(userID), limitArg,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []model.GameSummary
	for rows.Next() {
		var (
			g            model.GameSummary
			participants []string
			winners      []string
		)
		if err := rows.Scan(&g.GameID, &g.Timestamp, &participants, &g.Mode, &g.Difficulty, &winners, &g.IsDraw); err != nil {
			return nil, err
		}
		g.Participants = toUserIDs(participants)
		g.Winners = toUserIDs(winners)
		games = append(games, g)
	}
	return games, rows.Err()
}

func (s *Storage) ListGuesses(ctx context.Context, gameID model.GameID) ([]model.GuessRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT game_id, round, player_id, guess, strike, ball
		 FROM game_details WHERE game_id = $1 ORDER BY seq`,
		gameID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.GuessRecord
	for rows.Next() {
		var r model.GuessRecord
		if err := rows.Scan(&r.GameID, &r.Round, &r.PlayerID, &r.Guess, &r.Strike, &r.Ball); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// truncate empties every table (for tests)
func (s *Storage) truncate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `TRUNCATE game_details, game_history, stats, users RESTART IDENTITY`)
	return err
}

func userIDStrings(ids []model.UserID) []string {
	result := make([]string, len(ids))
	for i, id := range ids {
		result[i] = string(id)
	}
	return result
}

func toUserIDs(ids []string) []model.UserID {
	if len(ids) == 0 {
		return nil
	}
	result := make([]model.UserID, len(ids))
	for i, id := range ids {
		result[i] = model.UserID(id)
	}
	return result
}
