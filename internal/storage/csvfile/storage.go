// Package csvfile stores accounts, stats and history as append-only CSV files.
//
// Each record kind has its own file with a fixed column order. Rows are only
// ever appended; the latest stats row for a user wins on load.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/mcoot/baseballgame-go/internal/model"
	"github.com/mcoot/baseballgame-go/internal/storage"
)

const (
	usersFile   = "users.csv"
	statsFile   = "stats.csv"
	historyFile = "game_history.csv"
	detailsFile = "game_details.csv"
)

var (
	usersHeader   = []string{"userId", "password", "character"}
	statsHeader   = []string{"userId", "wins", "losses", "draws", "winRate"}
	historyHeader = []string{"gameId", "timestamp", "participants", "gameMode", "difficulty", "winner"}
	detailsHeader = []string{"gameId", "round", "playerId", "guess", "result"}
)

// Storage is a CSV-file implementation of the storage interface. The files
// are read once on open and indexed in memory; writes append one row each.
type Storage struct {
	mu  sync.RWMutex
	dir string

	users   *appender
	stats   *appender
	history *appender
	details *appender

	accounts map[model.UserID]*model.Account
	statsIdx map[model.UserID]*model.Stats
	games    []model.GameSummary
	guesses  map[model.GameID][]model.GuessRecord
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Open loads (creating if needed) the record files under dir
func Open(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &Storage{
		dir:      dir,
		accounts: make(map[model.UserID]*model.Account),
		statsIdx: make(map[model.UserID]*model.Stats),
		guesses:  make(map[model.GameID][]model.GuessRecord),
	}

	loaders := []struct {
		name   string
		header []string
		load   func([]string) error
		target **appender
	}{
		{usersFile, usersHeader, s.loadUser, &s.users},
		{statsFile, statsHeader, s.loadStats, &s.stats},
		{historyFile, historyHeader, s.loadGame, &s.history},
		{detailsFile, detailsHeader, s.loadGuess, &s.details},
	}
	for _, l := range loaders {
		path := filepath.Join(dir, l.name)
		if err := readRows(path, l.header, l.load); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("load %s: %w", l.name, err)
		}
		a, err := openAppender(path, l.header)
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("open %s: %w", l.name, err)
		}
		*l.target = a
	}
	s.reconcileStats()
	return s, nil
}

// reconcileStats pairs every loaded account with a stats entry, zeroed when
// its row never made it to disk, and drops stats for unknown users
func (s *Storage) reconcileStats() {
	for id := range s.statsIdx {
		if _, ok := s.accounts[id]; !ok {
			delete(s.statsIdx, id)
		}
	}
	for id := range s.accounts {
		if _, ok := s.statsIdx[id]; !ok {
			s.statsIdx[id] = model.NewStats(id)
		}
	}
}

// Close closes all record files
func (s *Storage) Close() error {
	var errs []error
	for _, a := range []*appender{s.users, s.stats, s.history, s.details} {
		if a != nil {
			errs = append(errs, a.close())
		}
	}
	return errors.Join(errs...)
}

// Account operations

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account, stats *model.Stats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.UserID]; ok {
		return model.ErrDuplicateID
	}
	// Stats first: a stats row without a user is dropped on load
	if err := s.stats.append(statsRow(stats)); err != nil {
		return err
	}
	if err := s.users.append(userRow(account)); err != nil {
		return err
	}
	a := *account
	st := *stats
	s.accounts[account.UserID] = &a
	s.statsIdx[account.UserID] = &st
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
	stats, ok := s.statsIdx[userID]
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
	if err := s.stats.append(statsRow(stats)); err != nil {
		return err
	}
	st := *stats
	s.statsIdx[stats.UserID] = &st
	return nil
}

// History operations

func (s *Storage) AppendGuess(ctx context.Context, record *model.GuessRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.details.append(guessRow(record)); err != nil {
		return err
	}
	s.guesses[record.GameID] = append(s.guesses[record.GameID], *record)
	return nil
}

func (s *Storage) AppendGame(ctx context.Context, summary *model.GameSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.history.append(gameRow(summary)); err != nil {
		return err
	}
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

// Row codecs

func userRow(a *model.Account) []string {
	return []string{string(a.UserID), a.PasswordHash, a.Character}
}

func statsRow(st *model.Stats) []string {
	return []string{
		string(st.UserID),
		strconv.Itoa(st.Wins),
		strconv.Itoa(st.Losses),
		strconv.Itoa(st.Draws),
		strconv.FormatFloat(st.WinRate, 'f', 2, 64),
	}
}

func gameRow(g *model.GameSummary) []string {
	return []string{
		string(g.GameID),
		strconv.FormatInt(g.Timestamp.UnixMilli(), 10),
		model.JoinUserIDs(g.Participants),
		string(g.Mode),
		string(g.Difficulty),
		g.WinnerField(),
	}
}

func guessRow(r *model.GuessRecord) []string {
	return []string{
		string(r.GameID),
		strconv.Itoa(r.Round),
		string(r.PlayerID),
		r.Guess,
		r.Result(),
	}
}

func (s *Storage) loadUser(row []string) error {
	if len(row) != len(usersHeader) {
		return fmt.Errorf("user row has %d fields", len(row))
	}
	id := model.UserID(row[0])
	s.accounts[id] = &model.Account{UserID: id, PasswordHash: row[1], Character: row[2]}
	return nil
}

func (s *Storage) loadStats(row []string) error {
	if len(row) != len(statsHeader) {
		return fmt.Errorf("stats row has %d fields", len(row))
	}
	st := &model.Stats{UserID: model.UserID(row[0])}
	var err error
	if st.Wins, err = strconv.Atoi(row[1]); err != nil {
		return err
	}
	if st.Losses, err = strconv.Atoi(row[2]); err != nil {
		return err
	}
	if st.Draws, err = strconv.Atoi(row[3]); err != nil {
		return err
	}
	st.RecomputeWinRate()
	s.statsIdx[st.UserID] = st
	return nil
}

func (s *Storage) loadGame(row []string) error {
	if len(row) != len(historyHeader) {
		return fmt.Errorf("history row has %d fields", len(row))
	}
	ms, err := strconv.ParseInt(row[1], 10, 64)
	if err != nil {
		return err
	}
	winners, isDraw := model.ParseWinnerField(row[5])
	s.games = append(s.games, model.GameSummary{
		GameID:       model.GameID(row[0]),
		Timestamp:    time.UnixMilli(ms),
		Participants: model.SplitUserIDs(row[2]),
		Mode:         model.GameMode(row[3]),
		Difficulty:   model.Difficulty(row[4]),
		Winners:      winners,
		IsDraw:       isDraw,
	})
	return nil
}

func (s *Storage) loadGuess(row []string) error {
	if len(row) != len(detailsHeader) {
		return fmt.Errorf("details row has %d fields", len(row))
	}
	round, err := strconv.Atoi(row[1])
	if err != nil {
		return err
	}
	strike, ball, err := model.ParseResult(row[4])
	if err != nil {
		return err
	}
	gameID := model.GameID(row[0])
	s.guesses[gameID] = append(s.guesses[gameID], model.GuessRecord{
		GameID:   gameID,
		Round:    round,
		PlayerID: model.UserID(row[2]),
		Guess:    row[3],
		Strike:   strike,
		Ball:     ball,
	})
	return nil
}

// readRows feeds every data row of path to load, skipping the header
func readRows(path string, header []string, load func([]string) error) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	first := true
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if first {
			first = false
			if equalRow(row, header) {
				continue
			}
		}
		if err := load(row); err != nil {
			return err
		}
	}
}

func equalRow(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
