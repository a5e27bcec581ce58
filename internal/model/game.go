package model

import (
	"fmt"
	"strings"
	"time"
)

// GameID uniquely identifies one match
type GameID string

// MaxRounds is the number of rounds before a game is a draw
const MaxRounds = 9

// DrawWinner is the winner column value for drawn games
const DrawWinner = "DRAW"

// GuessRecord is one scored guess, appended to history
type GuessRecord struct {
	GameID   GameID
	Round    int
	PlayerID UserID
	Guess    string
	Strike   int
	Ball     int
}

// Result renders the score as e.g. "1S2B"
func (r GuessRecord) Result() string {
	return FormatResult(r.Strike, r.Ball)
}

// FormatResult renders strike and ball counts as "<s>S<b>B"
func FormatResult(strike, ball int) string {
	return fmt.Sprintf("%dS%dB", strike, ball)
}

// ParseResult parses a "<s>S<b>B" string
func ParseResult(s string) (strike, ball int, err error) {
	if _, err := fmt.Sscanf(s, "%dS%dB", &strike, &ball); err != nil {
		return 0, 0, fmt.Errorf("parse result %q: %w", s, err)
	}
	return strike, ball, nil
}

// GameSummary is the persisted record of a finished game
type GameSummary struct {
	GameID       GameID
	Timestamp    time.Time
	Participants []UserID
	Mode         GameMode
	Difficulty   Difficulty
	Winners      []UserID // empty on a draw
	IsDraw       bool
}

// WinnerField renders the winner column: winner ids joined with ';' or DRAW
func (g GameSummary) WinnerField() string {
	if g.IsDraw || len(g.Winners) == 0 {
		return DrawWinner
	}
	return JoinUserIDs(g.Winners)
}

// Involves reports whether the user took part in the game
func (g GameSummary) Involves(userID UserID) bool {
	for _, p := range g.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// JoinUserIDs joins ids with ';'
func JoinUserIDs(ids []UserID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ";")
}

// SplitUserIDs is the inverse of JoinUserIDs
func SplitUserIDs(s string) []UserID {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	ids := make([]UserID, len(parts))
	for i, p := range parts {
		ids[i] = UserID(p)
	}
	return ids
}

// ParseWinnerField is the inverse of WinnerField
func ParseWinnerField(s string) (winners []UserID, isDraw bool) {
	if s == DrawWinner || s == "" {
		return nil, true
	}
	return SplitUserIDs(s), false
}
