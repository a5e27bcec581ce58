package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/baseballgame-go/internal/api/apierr"
	"github.com/mcoot/baseballgame-go/internal/api/middleware"
	"github.com/mcoot/baseballgame-go/internal/api/request"
	"github.com/mcoot/baseballgame-go/internal/api/response"
	"github.com/mcoot/baseballgame-go/internal/model"
)

// StatsReader reads player stats
type StatsReader interface {
	GetStats(ctx context.Context, userID model.UserID) (*model.Stats, error)
}

// HistoryReader lists finished games
type HistoryReader interface {
	ListGames(ctx context.Context, userID model.UserID, limit int) ([]model.GameSummary, error)
}

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	stats   StatsReader
	history HistoryReader
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(stats StatsReader, history HistoryReader) *PlayerHandler {
	return &PlayerHandler{
		stats:   stats,
		history: history,
	}
}

// Stats handles GET /api/v1/players/{id}/stats
func (h *PlayerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := model.UserID(mux.Vars(r)["id"])
	if userID == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("user id is required"))
		return
	}

	stats, err := h.stats.GetStats(r.Context(), userID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StatsFromModel(stats))
}

// MyHistory handles GET /api/v1/players/me/history
func (h *PlayerHandler) MyHistory(w http.ResponseWriter, r *http.Request) {
	query, err := request.ParseHistoryQuery(r)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	userID := middleware.MustGetUserID(r.Context())
	games, err := h.history.ListGames(r.Context(), userID, query.Limit)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.HistoryFromModel(userID, games))
}
