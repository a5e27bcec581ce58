// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/baseballgame-go/internal/model"
	"github.com/mcoot/baseballgame-go/internal/storage"
)

// Suite runs the shared storage tests against the backend built by NewStorage.
// Backends embed it or run it directly with suite.Run.
type Suite struct {
	suite.Suite

	// NewStorage returns an empty backend. Cleanup is registered on t.
	NewStorage func(t *testing.T) storage.Storage

	Storage storage.Storage
	Ctx     context.Context
}

func (s *Suite) SetupTest() {
	s.Storage = s.NewStorage(s.T())
	s.Ctx = context.Background()
}

func (s *Suite) createAccount(id model.UserID) {
	err := s.Storage.CreateAccount(s.Ctx, &model.Account{
		UserID:       id,
		PasswordHash: "hash-" + string(id),
		Character:    "bear",
		CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}, model.NewStats(id))
	s.Require().NoError(err)
}

// Account tests

func (s *Suite) TestCreateAndGetAccount() {
	s.createAccount("alice")

	account, err := s.Storage.GetAccount(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.UserID("alice"), account.UserID)
	s.Equal("hash-alice", account.PasswordHash)
	s.Equal("bear", account.Character)

	stats, err := s.Storage.GetStats(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(0, stats.Games())
}

func (s *Suite) TestCreateAccountDuplicate() {
	s.createAccount("alice")

	err := s.Storage.CreateAccount(s.Ctx, &model.Account{UserID: "alice", PasswordHash: "other"}, model.NewStats("alice"))
	s.ErrorIs(err, model.ErrDuplicateID)

	account, err := s.Storage.GetAccount(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal("hash-alice", account.PasswordHash)
}

func (s *Suite) TestCreateAccountConcurrentDuplicate() {
	const attempts = 8
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.Storage.CreateAccount(s.Ctx, &model.Account{UserID: "race", PasswordHash: "h"}, model.NewStats("race"))
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			s.ErrorIs(err, model.ErrDuplicateID)
		}
	}
	s.Equal(1, succeeded)
}

func (s *Suite) TestGetAccountNotFound() {
	_, err := s.Storage.GetAccount(s.Ctx, "nobody")
	s.ErrorIs(err, model.ErrAccountNotFound)

	_, err = s.Storage.GetStats(s.Ctx, "nobody")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

// Stats tests

func (s *Suite) TestSaveStats() {
	s.createAccount("alice")

	stats, err := s.Storage.GetStats(s.Ctx, "alice")
	s.Require().NoError(err)
	stats.Apply(model.OutcomeWin)
	stats.Apply(model.OutcomeLoss)
	stats.Apply(model.OutcomeWin)
	s.Require().NoError(s.Storage.SaveStats(s.Ctx, stats))

	stats, err = s.Storage.GetStats(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(2, stats.Wins)
	s.Equal(1, stats.Losses)
	s.Equal(0, stats.Draws)
	s.InDelta(66.67, stats.WinRate, 0.001)
}

func (s *Suite) TestSaveStatsUnknownUser() {
	err := s.Storage.SaveStats(s.Ctx, model.NewStats("ghost"))
	s.ErrorIs(err, model.ErrAccountNotFound)
}

// History tests

func (s *Suite) TestAppendAndListGuesses() {
	records := []model.GuessRecord{
		{GameID: "g1", Round: 1, PlayerID: "alice", Guess: "123", Strike: 0, Ball: 1},
		{GameID: "g1", Round: 1, PlayerID: "bob", Guess: "456", Strike: 1, Ball: 0},
		{GameID: "g2", Round: 1, PlayerID: "carol", Guess: "789", Strike: 3, Ball: 0},
	}
	for i := range records {
		s.Require().NoError(s.Storage.AppendGuess(s.Ctx, &records[i]))
	}

	got, err := s.Storage.ListGuesses(s.Ctx, "g1")
	s.Require().NoError(err)
	s.Equal(records[:2], got)

	got, err = s.Storage.ListGuesses(s.Ctx, "missing")
	s.Require().NoError(err)
	s.Empty(got)
}

func (s *Suite) TestAppendAndListGames() {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	games := []model.GameSummary{
		{GameID: "g1", Timestamp: base, Participants: []model.UserID{"alice", "bob"}, Mode: model.ModeOneVsOne, Difficulty: model.DifficultyEasy, Winners: []model.UserID{"alice"}},
		{GameID: "g2", Timestamp: base.Add(time.Hour), Participants: []model.UserID{"carol", "dave"}, Mode: model.ModeOneVsOne, Difficulty: model.DifficultyHard, IsDraw: true},
		{GameID: "g3", Timestamp: base.Add(2 * time.Hour), Participants: []model.UserID{"alice", "bob", "carol", "dave"}, Mode: model.ModeTwoVsTwo, Difficulty: model.DifficultyMedium, Winners: []model.UserID{"bob", "dave"}},
	}
	for i := range games {
		s.Require().NoError(s.Storage.AppendGame(s.Ctx, &games[i]))
	}

	got, err := s.Storage.ListGames(s.Ctx, "alice", 0)
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal(model.GameID("g3"), got[0].GameID)
	s.Equal(model.GameID("g1"), got[1].GameID)
	s.Equal([]model.UserID{"bob", "dave"}, got[0].Winners)
	s.True(got[0].Timestamp.Equal(base.Add(2 * time.Hour)))

	got, err = s.Storage.ListGames(s.Ctx, "carol", 1)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(model.GameID("g3"), got[0].GameID)

	got, err = s.Storage.ListGames(s.Ctx, "dave", 0)
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.True(got[1].IsDraw)
	s.Equal(model.DrawWinner, got[1].WinnerField())
}
