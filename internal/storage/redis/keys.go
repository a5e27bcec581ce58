package redis

import (
	"fmt"

	"github.com/mcoot/baseballgame-go/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "baseball"

// accountKey returns the Redis key for an Account
func accountKey(id model.UserID) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, id)
}

// statsKey returns the Redis key for a user's Stats
func statsKey(id model.UserID) string {
	return fmt.Sprintf("%s:stats:%s", keyPrefix, id)
}

// gameKey returns the Redis key for a GameSummary
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// guessesKey returns the Redis key for the LIST of guesses in a game
func guessesKey(id model.GameID) string {
	return fmt.Sprintf("%s:guesses:%s", keyPrefix, id)
}

// userGamesIndexKey returns the Redis key for the LIST of a user's game ids, newest first
func userGamesIndexKey(id model.UserID) string {
	return fmt.Sprintf("%s:idx:user_games:%s", keyPrefix, id)
}
