package model

import "time"

// UserID uniquely identifies an account across the system
type UserID string

// Account is a registered user. Immutable once created.
type Account struct {
	UserID       UserID
	PasswordHash string // bcrypt hash
	Character    string // display character chosen at registration
	CreatedAt    time.Time
}

// Outcome is the result of a finished game from one participant's view
type Outcome string

const (
	OutcomeWin  Outcome = "WIN"
	OutcomeLoss Outcome = "LOSS"
	OutcomeDraw Outcome = "DRAW"
)

// Stats holds a user's win/loss/draw counters
type Stats struct {
	UserID  UserID
	Wins    int
	Losses  int
	Draws   int
	WinRate float64 // percentage of games won, derived
}

// NewStats returns a zeroed stats row for the user
func NewStats(userID UserID) *Stats {
	return &Stats{UserID: userID}
}

// Games returns the number of finished games
func (s *Stats) Games() int {
	return s.Wins + s.Losses + s.Draws
}

// Apply increments the counter matching the outcome and recomputes WinRate
func (s *Stats) Apply(outcome Outcome) {
	switch outcome {
	case OutcomeWin:
		s.Wins++
	case OutcomeLoss:
		s.Losses++
	case OutcomeDraw:
		s.Draws++
	}
	s.RecomputeWinRate()
}

// RecomputeWinRate refreshes the derived WinRate, rounded to two decimals
func (s *Stats) RecomputeWinRate() {
	total := s.Games()
	if total == 0 {
		s.WinRate = 0
		return
	}
	rate := float64(s.Wins) * 100 / float64(total)
	s.WinRate = float64(int(rate*100+0.5)) / 100
}
