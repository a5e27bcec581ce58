package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/baseballgame-go/internal/model"
	"github.com/mcoot/baseballgame-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Account operations

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account, stats *model.Stats) error {
	accountData, err := json.Marshal(account)
	if err != nil {
		return err
	}
	statsData, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	// SETNX claims the id; only the winner writes the stats row
	created, err := s.client.SetNX(ctx, accountKey(account.UserID), accountData, 0).Result()
	if err != nil {
		return err
	}
	if !created {
		return model.ErrDuplicateID
	}

	if err := s.client.Set(ctx, statsKey(account.UserID), statsData, 0).Err(); err != nil {
		// Release the id so the account can be registered again
		_ = s.client.Del(ctx, accountKey(account.UserID)).Err()
		return fmt.Errorf("save initial stats: %w", err)
	}
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, userID model.UserID) (*model.Account, error) {
	var account model.Account
	if err := s.getJSON(ctx, accountKey(userID), &account, model.ErrAccountNotFound); err != nil {
		return nil, err
	}
	return &account, nil
}

// Stats operations

func (s *Storage) GetStats(ctx context.Context, userID model.UserID) (*model.Stats, error) {
	var stats model.Stats
	if err := s.getJSON(ctx, statsKey(userID), &stats, model.ErrAccountNotFound); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *Storage) SaveStats(ctx context.Context, stats *model.Stats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	// XX: only overwrite an existing row
	ok, err := s.client.SetXX(ctx, statsKey(stats.UserID), data, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrAccountNotFound
	}
	return nil
}

// History operations

func (s *Storage) AppendGuess(ctx context.Context, record *model.GuessRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, guessesKey(record.GameID), data)
	if s.cfg.HistoryTTL > 0 {
		pipe.Expire(ctx, guessesKey(record.GameID), s.cfg.HistoryTTL)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) AppendGame(ctx context.Context, summary *model.GameSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	// Summary and per-user index land together
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, gameKey(summary.GameID), data, s.cfg.HistoryTTL)
	for _, userID := range summary.Participants {
		pipe.LPush(ctx, userGamesIndexKey(userID), string(summary.GameID))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ListGames(ctx context.Context, userID model.UserID, limit int) ([]model.GameSummary, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	ids, err := s.client.LRange(ctx, userGamesIndexKey(userID), 0, stop).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = gameKey(model.GameID(id))
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	games := make([]model.GameSummary, 0, len(values))
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			// Expired summary
			continue
		}
		var g model.GameSummary
		if err := json.Unmarshal([]byte(str), &g); err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, nil
}

func (s *Storage) ListGuesses(ctx context.Context, gameID model.GameID) ([]model.GuessRecord, error) {
	values, err := s.client.LRange(ctx, guessesKey(gameID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	records := make([]model.GuessRecord, len(values))
	for i, v := range values {
		if err := json.Unmarshal([]byte(v), &records[i]); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (s *Storage) getJSON(ctx context.Context, key string, into any, notFound error) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return notFound
		}
		return err
	}
	return json.Unmarshal(data, into)
}
