package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/baseballgame-go/internal/api/response"
	"github.com/mcoot/baseballgame-go/internal/protocol"
)

func TestTextOutput(t *testing.T) {
	tests := []struct {
		name string
		data any
		want string
	}{
		{"health", HealthResult{Status: "ok"}, "Status: ok\n"},
		{"health with server", HealthResult{Status: "ok", Server: "http://localhost:54321", LatencyMS: 3}, "Status: ok\nServer: http://localhost:54321 (3ms)\n"},
		{"no rooms", response.RoomList{}, "No rooms\n"},
		{"rooms", response.RoomList{Rooms: []response.Room{{
			ID: 2, Name: "club", Master: "bob", Occupancy: "3/4", Status: "FORMING",
			Mode: "TWO_VS_TWO", Difficulty: "HARD", TurnLimit: 60, IsPrivate: true,
		}}}, "#2 club [private]  3/4 TWO_VS_TWO HARD  master=bob  FORMING  60s/turn\n"},
		{"stats", response.Stats{UserID: "bob", Wins: 1, Losses: 3, WinRate: 25}, "bob: 1W 3L 0D (25.00%)\n"},
		{"online", response.Online{Users: []string{"alice", "bob"}, Count: 2}, "Online (2): alice, bob\n"},
		{"turn", protocol.TurnInfo{Round: 3, IsTop: false, CurrentTurnPlayer: "bob", TurnTimeLimit: 30}, "Round 3 bottom: bob to guess (30s)\n"},
		{"guess", protocol.GuessResult{UserID: "alice", Guess: "546", Strike: 1, Ball: 2}, "alice guessed 546: 1S 2B\n"},
		{"whisper", protocol.ChatWhisper{UserID: "alice", TargetUserID: "bob", Content: "hi"}, "[whisper] alice -> bob: hi\n"},
		{"ready", protocol.ReadyStatusUpdate{Ready: map[string]bool{"bob": true, "alice": false}}, "Ready: alice=waiting bob=ready\n"},
		{"draw", protocol.GameResult{IsDraw: true}, "Game over: draw\n"},
		{"team win", protocol.GameResult{
			WinnerIDs: []string{"alice", "bob"}, WinnerTeam: 1, Reason: "alice guessed the number",
			Secrets: map[string]string{"carol": "456", "alice": "123"},
		}, "Game over: team 1 wins (alice, bob)\n  alice guessed the number\n  alice's number was 123\n  carol's number was 456\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			newOutputTo("text", &buf, &buf).Print(tt.data)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestTextOutputRoomInfo(t *testing.T) {
	var buf bytes.Buffer
	newOutputTo("text", &buf, &buf).Print(protocol.JoinRoomResponse{Room: protocol.RoomInfo{
		RoomSummary: protocol.RoomSummary{RoomID: 1, RoomName: "sandlot", Occupancy: "2/2", GameMode: "ONE_VS_ONE", Difficulty: "EASY"},
		State:       "READY_CHECK",
		Members: []protocol.RoomMember{
			{UserID: "alice", IsMaster: true},
			{UserID: "bob", Ready: true},
		},
	}})

	assert.Equal(t, "Joined room #1 sandlot (2/2, ONE_VS_ONE EASY, READY_CHECK)\n  - alice master\n  - bob ready\n", buf.String())
}

func TestTextOutputHistory(t *testing.T) {
	var buf bytes.Buffer
	out := newOutputTo("text", &buf, &buf)

	out.Print(response.History{UserID: "alice"})
	assert.Equal(t, "alice has no finished games\n", buf.String())

	buf.Reset()
	out.Print(response.History{UserID: "alice", Games: []response.Game{{
		PlayedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local), Outcome: "WIN",
		Mode: "ONE_VS_ONE", Difficulty: "EASY", Participants: []string{"alice", "bob"},
	}}})
	assert.Equal(t, "2024-01-01 12:00:00  WIN   ONE_VS_ONE EASY  alice vs bob\n", buf.String())
}

func TestServerErrorGoesToStderr(t *testing.T) {
	var stdout, stderr bytes.Buffer
	newOutputTo("text", &stdout, &stderr).Print(protocol.Error{ErrorCode: "ROOM_FULL", ErrorMessage: "room is full"})

	assert.Empty(t, stdout.String())
	assert.Equal(t, "Error: room is full (ROOM_FULL)\n", stderr.String())
}

func TestJSONOutputWrapsMessages(t *testing.T) {
	var buf bytes.Buffer
	newOutputTo("json", &buf, &buf).Print(protocol.Guess{Guess: "123"})

	var env struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.Equal(t, "GUESS", env.Type)
	assert.JSONEq(t, `{"guess":"123"}`, string(env.Payload))
}

func TestJSONOutputError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	newOutputTo("json", &stdout, &stderr).PrintError(errors.New("boom"))

	assert.Empty(t, stdout.String())
	assert.JSONEq(t, `{"error":{"message":"boom"}}`, stderr.String())
}
