package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/baseballgame-go/internal/dependencies/clock"
	"github.com/mcoot/baseballgame-go/internal/model"
	"github.com/mcoot/baseballgame-go/internal/storage"
)

// Service registers and authenticates accounts and keeps their stats
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	tokens  *Tokens
	logger  *slog.Logger

	// mu serialises register and record-result so check-then-write is atomic
	mu sync.Mutex
}

// New creates a new account Service
func New(storage storage.Storage, clock clock.Clock, tokens *Tokens, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		tokens:  tokens,
		logger:  logger,
	}
}

// Register creates an account with zeroed stats
func (s *Service) Register(ctx context.Context, userID model.UserID, password, character string) (*model.Account, error) {
	if userID == "" || password == "" {
		return nil, fmt.Errorf("%w: user id and password are required", model.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &model.Account{
		UserID:       userID,
		PasswordHash: string(hash),
		Character:    character,
		CreatedAt:    s.clock.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.CreateAccount(ctx, account, model.NewStats(userID)); err != nil {
		return nil, err
	}

	s.logger.Info("account registered", slog.String("user_id", string(userID)))
	return account, nil
}

// Authenticate checks credentials. Unknown users and wrong passwords both
// fail with model.ErrLoginFailed.
func (s *Service) Authenticate(ctx context.Context, userID model.UserID, password string) (*model.Account, error) {
	account, err := s.storage.GetAccount(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return nil, model.ErrLoginFailed
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, model.ErrLoginFailed
	}
	return account, nil
}

// IssueToken returns a signed token for the REST API
func (s *Service) IssueToken(userID model.UserID) (string, error) {
	return s.tokens.Issue(userID)
}

// VerifyToken returns the user a token was issued to
func (s *Service) VerifyToken(token string) (model.UserID, error) {
	return s.tokens.Verify(token)
}

// RecordResult applies one game outcome to the user's stats
func (s *Service) RecordResult(ctx context.Context, userID model.UserID, outcome model.Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats, err := s.storage.GetStats(ctx, userID)
	if err != nil {
		return fmt.Errorf("load stats for %s: %w", userID, err)
	}
	stats.Apply(outcome)
	if err := s.storage.SaveStats(ctx, stats); err != nil {
		return fmt.Errorf("save stats for %s: %w", userID, err)
	}
	return nil
}

// GetStats returns the user's current stats
func (s *Service) GetStats(ctx context.Context, userID model.UserID) (*model.Stats, error) {
	return s.storage.GetStats(ctx, userID)
}
