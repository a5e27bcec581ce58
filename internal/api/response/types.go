package response

import (
	"time"

	"github.com/mcoot/baseballgame-go/internal/model"
)

// Room represents a room list entry in API responses
type Room struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Master     string `json:"master"`
	Occupancy  string `json:"occupancy"`
	Status     string `json:"status"`
	Mode       string `json:"mode"`
	Difficulty string `json:"difficulty"`
	TurnLimit  int    `json:"turn_time_limit"`
	IsPrivate  bool   `json:"is_private"`
}

// RoomList is the response for the room list endpoint
type RoomList struct {
	Rooms []Room `json:"rooms"`
}

// RoomListFromModel converts room summaries
func RoomListFromModel(summaries []model.RoomSummary) RoomList {
	rooms := make([]Room, len(summaries))
	for i, s := range summaries {
		rooms[i] = Room{
			ID:         int64(s.ID),
			Name:       s.Name,
			Master:     string(s.MasterID),
			Occupancy:  s.Occupancy(),
			Status:     string(s.Status),
			Mode:       string(s.Mode),
			Difficulty: string(s.Difficulty),
			TurnLimit:  s.TurnTimeLimit,
			IsPrivate:  s.IsPrivate,
		}
	}
	return RoomList{Rooms: rooms}
}

// Stats represents a player's record
type Stats struct {
	UserID  string  `json:"user_id"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	Draws   int     `json:"draws"`
	WinRate float64 `json:"win_rate"`
}

// StatsFromModel converts model.Stats
func StatsFromModel(s *model.Stats) Stats {
	return Stats{
		UserID:  string(s.UserID),
		Wins:    s.Wins,
		Losses:  s.Losses,
		Draws:   s.Draws,
		WinRate: s.WinRate,
	}
}

// Game represents a finished game from one player's point of view
type Game struct {
	ID           string    `json:"id"`
	PlayedAt     time.Time `json:"played_at"`
	Participants []string  `json:"participants"`
	Mode         string    `json:"mode"`
	Difficulty   string    `json:"difficulty"`
	Winners      []string  `json:"winners"`
	IsDraw       bool      `json:"is_draw"`
	Outcome      string    `json:"outcome"`
}

// History is the response for the history endpoint
type History struct {
	UserID string `json:"user_id"`
	Games  []Game `json:"games"`
}

// HistoryFromModel converts games, resolving each outcome for userID
func HistoryFromModel(userID model.UserID, games []model.GameSummary) History {
	result := History{UserID: string(userID), Games: make([]Game, len(games))}
	for i, g := range games {
		outcome := model.OutcomeLoss
		switch {
		case g.IsDraw:
			outcome = model.OutcomeDraw
		case containsUser(g.Winners, userID):
			outcome = model.OutcomeWin
		}
		result.Games[i] = Game{
			ID:           string(g.GameID),
			PlayedAt:     g.Timestamp.UTC(),
			Participants: userStrings(g.Participants),
			Mode:         string(g.Mode),
			Difficulty:   string(g.Difficulty),
			Winners:      userStrings(g.Winners),
			IsDraw:       g.IsDraw,
			Outcome:      string(outcome),
		}
	}
	return result
}

// Online is the response for the presence endpoint
type Online struct {
	Users []string `json:"users"`
	Count int      `json:"count"`
}

func userStrings(ids []model.UserID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func containsUser(ids []model.UserID, userID model.UserID) bool {
	for _, id := range ids {
		if id == userID {
			return true
		}
	}
	return false
}
