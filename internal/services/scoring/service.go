package scoring

import (
	"fmt"

	"github.com/mcoot/baseballgame-go/internal/dependencies/random"
	"github.com/mcoot/baseballgame-go/internal/model"
)

// secretDigits are the digits a secret may contain. 0 is never drawn.
var secretDigits = []byte("123456789")

// Score is the feedback for one guess
type Score struct {
	Strike int
	Ball   int
}

// String renders the score as e.g. "1S2B"
func (s Score) String() string {
	return model.FormatResult(s.Strike, s.Ball)
}

// Service generates secrets and scores guesses against them
type Service struct {
	random random.Random
}

// New creates a new scoring Service
func New(random random.Random) *Service {
	return &Service{
		random: random,
	}
}

// GenerateSecret returns digitCount distinct digits from 1..9, taken from the
// head of a uniform permutation
func (s *Service) GenerateSecret(digitCount int) string {
	perm := s.random.Perm(len(secretDigits))
	secret := make([]byte, digitCount)
	for i := 0; i < digitCount; i++ {
		secret[i] = secretDigits[perm[i]]
	}
	return string(secret)
}

// ValidateGuess checks the guess shape. Any digit 0-9 is accepted, including 0
// even though secrets never contain it.
func ValidateGuess(guess string, digitCount int) error {
	if len(guess) != digitCount {
		return fmt.Errorf("%w: want %d digits, got %d", model.ErrInvalidInputFormat, digitCount, len(guess))
	}
	var seen [10]bool
	for i := 0; i < len(guess); i++ {
		c := guess[i]
		if c < '0' || c > '9' {
			return fmt.Errorf("%w: %q is not a digit", model.ErrInvalidInputFormat, c)
		}
		if seen[c-'0'] {
			return fmt.Errorf("%w: %q repeats", model.ErrDuplicateDigits, c)
		}
		seen[c-'0'] = true
	}
	return nil
}

// Evaluate scores guess against target in one left-to-right pass: a strike for
// an exact position match, else a ball if the digit appears anywhere in target
func Evaluate(target, guess string) Score {
	var score Score
	for i := 0; i < len(guess) && i < len(target); i++ {
		switch {
		case guess[i] == target[i]:
			score.Strike++
		case containsDigit(target, guess[i]):
			score.Ball++
		}
	}
	return score
}

// IsHomeRun reports whether the score is a full match for the digit count
func (s Score) IsHomeRun(digitCount int) bool {
	return s.Strike == digitCount
}

func containsDigit(s string, d byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == d {
			return true
		}
	}
	return false
}
