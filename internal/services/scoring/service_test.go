package scoring

import (
	"testing"

	"github.com/mcoot/baseballgame-go/internal/dependencies/mocks"
	"github.com/mcoot/baseballgame-go/internal/dependencies/random"
	"github.com/mcoot/baseballgame-go/internal/model"
	"github.com/stretchr/testify/suite"
)

type ServiceSuite struct {
	suite.Suite
	random  *mocks.MockRandom
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.random = mocks.NewMockRandom()
	s.service = New(s.random)
}

// Evaluate

func (s *ServiceSuite) TestEvaluateMixed() {
	score := Evaluate("493", "394")
	s.Equal(1, score.Strike)
	s.Equal(2, score.Ball)
	s.Equal("1S2B", score.String())
}

func (s *ServiceSuite) TestEvaluateExactMatch() {
	score := Evaluate("493", "493")
	s.Equal(3, score.Strike)
	s.Equal(0, score.Ball)
	s.True(score.IsHomeRun(3))
}

func (s *ServiceSuite) TestEvaluateNothing() {
	score := Evaluate("1234", "5678")
	s.Equal(Score{}, score)
	s.Equal("0S0B", score.String())
}

func (s *ServiceSuite) TestEvaluateAllBalls() {
	score := Evaluate("12345", "51234")
	s.Equal(0, score.Strike)
	s.Equal(5, score.Ball)
	s.False(score.IsHomeRun(5))
}

// Guesses may contain 0 although secrets never do; it simply never scores.
func (s *ServiceSuite) TestEvaluateZeroNeverScores() {
	s.Require().NoError(ValidateGuess("049", 3))
	score := Evaluate("493", "049")
	s.Equal(0, score.Strike)
	s.Equal(2, score.Ball)
}

func (s *ServiceSuite) TestEvaluateBounds() {
	targets := []string{"123", "987", "4567", "13579"}
	guesses := []string{"321", "789", "7654", "97531", "132", "4576", "13597"}
	for _, target := range targets {
		for _, guess := range guesses {
			if len(guess) != len(target) {
				continue
			}
			score := Evaluate(target, guess)
			s.LessOrEqual(score.Strike+score.Ball, len(target), "%s vs %s", target, guess)
			s.Equal(guess == target, score.IsHomeRun(len(target)), "%s vs %s", target, guess)
		}
	}
}

// ValidateGuess

func (s *ServiceSuite) TestValidateGuessWrongLength() {
	s.ErrorIs(ValidateGuess("12", 3), model.ErrInvalidInputFormat)
	s.ErrorIs(ValidateGuess("1234", 3), model.ErrInvalidInputFormat)
	s.ErrorIs(ValidateGuess("", 3), model.ErrInvalidInputFormat)
}

func (s *ServiceSuite) TestValidateGuessNonDigit() {
	s.ErrorIs(ValidateGuess("12a", 3), model.ErrInvalidInputFormat)
	s.ErrorIs(ValidateGuess("1-2", 3), model.ErrInvalidInputFormat)
}

func (s *ServiceSuite) TestValidateGuessRepeatedDigit() {
	s.ErrorIs(ValidateGuess("112", 3), model.ErrDuplicateDigits)
	s.ErrorIs(ValidateGuess("1231", 4), model.ErrDuplicateDigits)
}

func (s *ServiceSuite) TestValidateGuessValid() {
	s.NoError(ValidateGuess("123", 3))
	s.NoError(ValidateGuess("9876", 4))
	s.NoError(ValidateGuess("01234", 5))
}

// GenerateSecret

func (s *ServiceSuite) TestGenerateSecretUsesPermutationHead() {
	s.random.QueuePerm(3, 8, 2, 0, 1, 4, 5, 6, 7)
	s.Equal("493", s.service.GenerateSecret(3))
}

func (s *ServiceSuite) TestGenerateSecretIdentityPermutation() {
	s.Equal("12345", s.service.GenerateSecret(5))
}

func (s *ServiceSuite) TestGenerateSecretWithRealRandom() {
	service := New(random.New())
	for _, n := range []int{3, 4, 5} {
		for i := 0; i < 50; i++ {
			secret := service.GenerateSecret(n)
			s.Len(secret, n)
			s.NotContains(secret, "0")
			s.NoError(ValidateGuess(secret, n))
		}
	}
}
