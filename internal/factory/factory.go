package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mcoot/baseballgame-go/internal/api"
	"github.com/mcoot/baseballgame-go/internal/dependencies/clock"
	"github.com/mcoot/baseballgame-go/internal/dependencies/random"
	"github.com/mcoot/baseballgame-go/internal/hub"
	"github.com/mcoot/baseballgame-go/internal/services/account"
	"github.com/mcoot/baseballgame-go/internal/services/history"
	"github.com/mcoot/baseballgame-go/internal/services/lobby"
	"github.com/mcoot/baseballgame-go/internal/services/room"
	"github.com/mcoot/baseballgame-go/internal/services/scoring"
	"github.com/mcoot/baseballgame-go/internal/session"
	"github.com/mcoot/baseballgame-go/internal/storage"
	"github.com/mcoot/baseballgame-go/internal/storage/csvfile"
	"github.com/mcoot/baseballgame-go/internal/storage/memory"
	pgstorage "github.com/mcoot/baseballgame-go/internal/storage/postgres"
	redisstorage "github.com/mcoot/baseballgame-go/internal/storage/redis"
	"github.com/mcoot/baseballgame-go/internal/transport/ws"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeCSV      = "csv"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
)

// DefaultTokenTTL is how long login tokens stay valid when unset
const DefaultTokenTTL = 24 * time.Hour

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random
	Logger *slog.Logger

	// Services
	Hub             *hub.Hub
	AccountService  *account.Service
	HistoryRecorder *history.Recorder
	ScoringService  *scoring.Service
	LobbyController *lobby.Controller
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend
	// If empty, defaults to "memory"
	StorageType string
	// CSVDir is the data directory (required if StorageType is "csv")
	CSVDir string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PostgresConfig holds database settings (required if StorageType is "postgres")
	PostgresConfig *pgstorage.Config
	// MaxRooms caps live rooms, defaulting to lobby.DefaultMaxRooms
	MaxRooms int
	// EnforceTurnTimeout makes rooms advance turns when the limit passes
	EnforceTurnTimeout bool
	// TokenTTL is the login token lifetime, defaulting to DefaultTokenTTL
	TokenTTL time.Duration
	// TokenSeed is a 32-byte signing seed. Nil generates a fresh key.
	TokenSeed []byte
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	app, err := newWithDependencies(store, clk, rnd, cfg, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return app, nil
}

func openStorage(ctx context.Context, cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeCSV:
		if cfg.CSVDir == "" {
			return nil, errors.New("CSVDir required when StorageType is csv")
		}
		return csvfile.Open(cfg.CSVDir)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	case StorageTypePostgres:
		if cfg.PostgresConfig == nil {
			return nil, errors.New("PostgresConfig required when StorageType is postgres")
		}
		return pgstorage.New(ctx, *cfg.PostgresConfig)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be memory, csv, redis or postgres", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, cfg Config, logger *slog.Logger) (*App, error) {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	tokens, err := account.NewTokens(cfg.TokenSeed, ttl, clk)
	if err != nil {
		return nil, err
	}

	// Create services
	messageHub := hub.New(logger)
	accountService := account.New(store, clk, tokens, logger)
	historyRecorder := history.New(store, logger)
	scoringService := scoring.New(rnd)
	lobbyController := lobby.NewController(
		lobby.Config{
			MaxRooms: cfg.MaxRooms,
			Room:     room.Config{EnforceTurnTimeout: cfg.EnforceTurnTimeout},
		},
		room.Dependencies{
			Notifier: messageHub,
			Results:  accountService,
			History:  historyRecorder,
			Scoring:  scoringService,
			Clock:    clk,
			Random:   rnd,
			Logger:   logger,
		},
		messageHub,
		logger,
	)

	return &App{
		Storage:         store,
		Clock:           clk,
		Random:          rnd,
		Logger:          logger,
		Hub:             messageHub,
		AccountService:  accountService,
		HistoryRecorder: historyRecorder,
		ScoringService:  scoringService,
		LobbyController: lobbyController,
	}, nil
}

// SessionDependencies returns the shared services every connection uses
func (a *App) SessionDependencies() session.Dependencies {
	return session.Dependencies{
		Accounts: a.AccountService,
		History:  a.HistoryRecorder,
		Rooms:    a.LobbyController,
		Router:   a.Hub,
		Clock:    a.Clock,
		Logger:   a.Logger,
	}
}

// Handler builds the HTTP surface: the game socket plus the REST API
func (a *App) Handler() http.Handler {
	deps := a.SessionDependencies()
	socket := ws.Handler(func(ctx context.Context, conn *ws.Conn) error {
		return session.New(conn, deps, session.Config{}).Serve(ctx)
	}, a.Logger)

	return api.NewRouter(api.RouterConfig{
		Logger:    a.Logger,
		Tokens:    a.AccountService,
		Stats:     a.AccountService,
		History:   a.HistoryRecorder,
		Rooms:     a.LobbyController,
		Online:    a.Hub,
		WebSocket: socket,
	})
}

// Close stops every room and releases storage
func (a *App) Close() error {
	a.LobbyController.Shutdown()
	return a.Storage.Close()
}
