package memory

import (
	"context"
	"sync"

	"github.com/mcoot/baseballgame-go/internal/model"
	"github.com/mcoot/baseballgame-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	accounts map[model.UserID]*model.Account
	stats    map[model.UserID]*model.Stats
	games    []model.GameSummary // append order
	guesses  map[model.GameID][]model.GuessRecord
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		accounts: make(map[model.UserID]*model.Account),
		stats:    make(map[model.UserID]*model.Stats),
		guesses:  make(map[model.GameID][]model.GuessRecord),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Account operations

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account, stats *model.Stats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.UserID]; ok {
		return model.ErrDuplicateID
	}
	a := *account
	st := *stats
	s.accounts[account.UserID] = &a
	s.stats[account.UserID] = &st
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, userID model.UserID) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[userID]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	a := *account
	return &a, nil
}

// Stats operations

func (s *Storage) GetStats(ctx context.Context, userID model.UserID) (*model.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats, ok := s.stats[userID]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	st := *stats
	return &st, nil
}

func (s *Storage) SaveStats(ctx context.Context, stats *model.Stats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[stats.UserID]; !ok {
		return model.ErrAccountNotFound
	}
	st := *stats
	s.stats[stats.UserID] = &st
	return nil
}

// History operations

func (s *Storage) AppendGuess(ctx context.Context, record *model.GuessRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guesses[record.GameID] = append(s.guesses[record.GameID], *record)
	return nil
}

func (s *Storage) AppendGame(ctx context.Context, summary *model.GameSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := *summary
	g.Participants = append([]model.UserID(nil), summary.Participants...)
	g.Winners = append([]model.UserID(nil), summary.Winners...)
	s.games = append(s.games, g)
	return nil
}

func (s *Storage) ListGames(ctx context.Context, userID model.UserID, limit int) ([]model.GameSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []model.GameSummary
	for i := len(s.games) - 1; i >= 0; i-- {
		if !s.games[i].Involves(userID) {
			continue
		}
		result = append(result, s.games[i])
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}

func (s *Storage) ListGuesses(ctx context.Context, gameID model.GameID) ([]model.GuessRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.GuessRecord(nil), s.guesses[gameID]...), nil
}

// Close is a no-op
func (s *Storage) Close() error {
	return nil
}
