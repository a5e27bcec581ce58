package storage

import (
	"context"

	"github.com/mcoot/baseballgame-go/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Account operations
	//
	// CreateAccount stores the account with its initial stats row. It fails
	// with model.ErrDuplicateID if the user id is taken.
	CreateAccount(ctx context.Context, account *model.Account, stats *model.Stats) error
	GetAccount(ctx context.Context, userID model.UserID) (*model.Account, error)

	// Stats operations
	GetStats(ctx context.Context, userID model.UserID) (*model.Stats, error)
	SaveStats(ctx context.Context, stats *model.Stats) error

	// History operations, append-only
	AppendGuess(ctx context.Context, record *model.GuessRecord) error
	AppendGame(ctx context.Context, summary *model.GameSummary) error

	// ListGames returns the user's finished games, newest first. limit <= 0 means all.
	ListGames(ctx context.Context, userID model.UserID, limit int) ([]model.GameSummary, error)
	ListGuesses(ctx context.Context, gameID model.GameID) ([]model.GuessRecord, error)

	Close() error
}
