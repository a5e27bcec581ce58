package history

import (
	"context"
	"log/slog"

	"github.com/mcoot/baseballgame-go/internal/model"
	"github.com/mcoot/baseballgame-go/internal/storage"
)

// DefaultListLimit caps history listings when the caller gives no limit
const DefaultListLimit = 20

// Recorder appends guess records and game summaries
type Recorder struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new history Recorder
func New(storage storage.Storage, logger *slog.Logger) *Recorder {
	return &Recorder{
		storage: storage,
		logger:  logger,
	}
}

// RecordGuess appends one scored guess
func (r *Recorder) RecordGuess(ctx context.Context, record model.GuessRecord) error {
	if err := r.storage.AppendGuess(ctx, &record); err != nil {
		r.logger.Error("failed to record guess",
			slog.String("game_id", string(record.GameID)),
			slog.String("player_id", string(record.PlayerID)),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}

// RecordGame appends a finished game summary
func (r *Recorder) RecordGame(ctx context.Context, summary model.GameSummary) error {
	if err := r.storage.AppendGame(ctx, &summary); err != nil {
		r.logger.Error("failed to record game",
			slog.String("game_id", string(summary.GameID)),
			slog.String("error", err.Error()))
		return err
	}
	r.logger.Info("game recorded",
		slog.String("game_id", string(summary.GameID)),
		slog.String("winner", summary.WinnerField()))
	return nil
}

// ListGames returns the user's most recent games, newest first
func (r *Recorder) ListGames(ctx context.Context, userID model.UserID, limit int) ([]model.GameSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return r.storage.ListGames(ctx, userID, limit)
}

// ListGuesses returns every guess of a game in order
func (r *Recorder) ListGuesses(ctx context.Context, gameID model.GameID) ([]model.GuessRecord, error) {
	return r.storage.ListGuesses(ctx, gameID)
}
