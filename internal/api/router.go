package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/baseballgame-go/internal/api/handler"
	"github.com/mcoot/baseballgame-go/internal/api/middleware"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger    *slog.Logger
	Tokens    middleware.TokenVerifier
	Stats     handler.StatsReader
	History   handler.HistoryReader
	Rooms     handler.RoomLister
	Online    handler.OnlineLister
	WebSocket http.Handler
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.Stats, cfg.History)
	roomHandler := handler.NewRoomHandler(cfg.Rooms)
	presenceHandler := handler.NewPresenceHandler(cfg.Online)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.Tokens)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// The game socket sits outside the logging wrapper, which cannot be hijacked
	r.Handle("/ws", cfg.WebSocket).Methods(http.MethodGet)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(loggingMiddleware)
	api.Use(recoveryMiddleware)

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	api.HandleFunc("/rooms", roomHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/online", presenceHandler.Online).Methods(http.MethodGet)
	api.HandleFunc("/players/{id}/stats", playerHandler.Stats).Methods(http.MethodGet)

	// Protected player routes
	me := api.PathPrefix("/players/me").Subrouter()
	me.Use(authMiddleware)
	me.HandleFunc("/history", playerHandler.MyHistory).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
