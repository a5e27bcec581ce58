package protocol

import (
	"strconv"

	"github.com/mcoot/baseballgame-go/internal/model"
)

// RoomSummary is one entry of a room list
type RoomSummary struct {
	RoomID          int64  `json:"roomId"`
	RoomName        string `json:"roomName"`
	Master          string `json:"master"`
	Occupancy       string `json:"occupancy"`
	Status          string `json:"status"`
	GameMode        string `json:"gameMode"`
	Difficulty      string `json:"difficulty"`
	TurnTimeLimit   int    `json:"turnTimeLimit"`
	IsPrivate       bool   `json:"isPrivate"`
	AllowSpectators bool   `json:"allowSpectators"`
}

// RoomMember is one roster entry in room info
type RoomMember struct {
	UserID   string `json:"userId"`
	Ready    bool   `json:"ready"`
	Team     int    `json:"team,omitempty"`
	IsMaster bool   `json:"isMaster"`
}

// RoomInfo is the full room view sent to its members
type RoomInfo struct {
	RoomSummary
	State   string       `json:"state"`
	Members []RoomMember `json:"members"`
}

// GameHistoryEntry is one finished game in a history response
type GameHistoryEntry struct {
	GameID       string   `json:"gameId"`
	Timestamp    int64    `json:"timestamp"`
	Participants []string `json:"participants"`
	GameMode     string   `json:"gameMode"`
	Difficulty   string   `json:"difficulty"`
	Winner       string   `json:"winner"`
}

// RoomSummaryFromModel converts a model.RoomSummary
func RoomSummaryFromModel(s model.RoomSummary) RoomSummary {
	return RoomSummary{
		RoomID:          int64(s.ID),
		RoomName:        s.Name,
		Master:          string(s.MasterID),
		Occupancy:       s.Occupancy(),
		Status:          string(s.Status),
		GameMode:        string(s.Mode),
		Difficulty:      string(s.Difficulty),
		TurnTimeLimit:   s.TurnTimeLimit,
		IsPrivate:       s.IsPrivate,
		AllowSpectators: s.AllowSpectators,
	}
}

// RoomSummariesFromModel converts a room listing
func RoomSummariesFromModel(summaries []model.RoomSummary) []RoomSummary {
	result := make([]RoomSummary, len(summaries))
	for i, s := range summaries {
		result[i] = RoomSummaryFromModel(s)
	}
	return result
}

// RoomInfoFromModel converts a model.RoomInfo
func RoomInfoFromModel(info model.RoomInfo) RoomInfo {
	members := make([]RoomMember, len(info.Members))
	for i, m := range info.Members {
		members[i] = RoomMember{
			UserID:   string(m.UserID),
			Ready:    m.Ready,
			Team:     int(m.Team),
			IsMaster: m.IsMaster,
		}
	}
	return RoomInfo{
		RoomSummary: RoomSummaryFromModel(info.Summary),
		State:       string(info.State),
		Members:     members,
	}
}

// StatsFromModel converts a model.Stats
func StatsFromModel(s *model.Stats) StatsResponse {
	return StatsResponse{
		UserID:  string(s.UserID),
		Wins:    s.Wins,
		Losses:  s.Losses,
		Draws:   s.Draws,
		WinRate: s.WinRate,
	}
}

// GameHistoryFromModel converts game summaries
func GameHistoryFromModel(games []model.GameSummary) []GameHistoryEntry {
	result := make([]GameHistoryEntry, len(games))
	for i, g := range games {
		participants := make([]string, len(g.Participants))
		for j, p := range g.Participants {
			participants[j] = string(p)
		}
		result[i] = GameHistoryEntry{
			GameID:       string(g.GameID),
			Timestamp:    g.Timestamp.UnixMilli(),
			Participants: participants,
			GameMode:     string(g.Mode),
			Difficulty:   string(g.Difficulty),
			Winner:       g.WinnerField(),
		}
	}
	return result
}

// ReadyMap converts a ready map keyed by user id
func ReadyMap(ready map[model.UserID]bool) map[string]bool {
	result := make(map[string]bool, len(ready))
	for id, r := range ready {
		result[string(id)] = r
	}
	return result
}

// TeamMap converts a team assignment keyed by user id
func TeamMap(teams map[model.UserID]model.Team) map[string]int {
	if len(teams) == 0 {
		return nil
	}
	result := make(map[string]int, len(teams))
	for id, t := range teams {
		result[string(id)] = int(t)
	}
	return result
}

// UserIDStrings converts ids to plain strings
func UserIDStrings(ids []model.UserID) []string {
	result := make([]string, len(ids))
	for i, id := range ids {
		result[i] = string(id)
	}
	return result
}

// FormatRoomID renders a room id for logs and text output
func FormatRoomID(id model.RoomID) string {
	return strconv.FormatInt(int64(id), 10)
}
