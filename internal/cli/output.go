package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mcoot/baseballgame-go/internal/api/response"
	"github.com/mcoot/baseballgame-go/internal/protocol"
)

// Output handles formatting output based on the configured format. It is
// safe for concurrent use so that events and replies do not interleave.
type Output struct {
	format string
	w      io.Writer
	errW   io.Writer
	mu     sync.Mutex
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return newOutputTo(format, os.Stdout, os.Stderr)
}

func newOutputTo(format string, w, errW io.Writer) *Output {
	return &Output{format: format, w: w, errW: errW}
}

// HealthResult response type
type HealthResult struct {
	Status    string `json:"status"`
	Server    string `json:"server,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(o.errW, string(data))
	} else {
		fmt.Fprintf(o.errW, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	if msg, ok := data.(protocol.Message); ok {
		data = map[string]any{"type": msg.Kind(), "payload": msg}
	}
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
		if v.Server != "" {
			fmt.Fprintf(o.w, "Server: %s (%dms)\n", v.Server, v.LatencyMS)
		}
	case response.RoomList:
		o.printRooms(v)
	case response.Online:
		fmt.Fprintf(o.w, "Online (%d): %s\n", v.Count, strings.Join(v.Users, ", "))
	case response.Stats:
		o.printStats(v.UserID, v.Wins, v.Losses, v.Draws, v.WinRate)
	case response.History:
		o.printHistory(v)
	case protocol.Message:
		o.printEvent(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printRooms(l response.RoomList) {
	if len(l.Rooms) == 0 {
		fmt.Fprintln(o.w, "No rooms")
		return
	}
	for _, r := range l.Rooms {
		lock := ""
		if r.IsPrivate {
			lock = " [private]"
		}
		fmt.Fprintf(o.w, "#%d %s%s  %s %s %s  master=%s  %s  %ds/turn\n",
			r.ID, r.Name, lock, r.Occupancy, r.Mode, r.Difficulty, r.Master, r.Status, r.TurnLimit)
	}
}

func (o *Output) printStats(user string, wins, losses, draws int, rate float64) {
	fmt.Fprintf(o.w, "%s: %dW %dL %dD (%.2f%%)\n", user, wins, losses, draws, rate)
}

func (o *Output) printHistory(h response.History) {
	if len(h.Games) == 0 {
		fmt.Fprintf(o.w, "%s has no finished games\n", h.UserID)
		return
	}
	for _, g := range h.Games {
		fmt.Fprintf(o.w, "%s  %-4s  %s %s  %s\n",
			g.PlayedAt.Local().Format(time.DateTime), g.Outcome, g.Mode, g.Difficulty, strings.Join(g.Participants, " vs "))
	}
}

func (o *Output) printRoomInfo(prefix string, r protocol.RoomInfo) {
	fmt.Fprintf(o.w, "%s #%d %s (%s, %s %s, %s)\n", prefix, r.RoomID, r.RoomName, r.Occupancy, r.GameMode, r.Difficulty, r.State)
	for _, m := range r.Members {
		var tags []string
		if m.IsMaster {
			tags = append(tags, "master")
		}
		if m.Ready {
			tags = append(tags, "ready")
		}
		if m.Team != 0 {
			tags = append(tags, fmt.Sprintf("team %d", m.Team))
		}
		fmt.Fprintf(o.w, "  - %s %s\n", m.UserID, strings.Join(tags, ", "))
	}
}

func half(isTop bool) string {
	if isTop {
		return "top"
	}
	return "bottom"
}

func (o *Output) printEvent(msg protocol.Message) {
	switch v := msg.(type) {
	case protocol.LoginResponse:
		fmt.Fprintf(o.w, "Logged in as %s\n", v.UserID)
	case protocol.RegisterResponse:
		fmt.Fprintf(o.w, "Registered %s\n", v.UserID)
	case protocol.RoomListResponse:
		rooms := make([]response.Room, len(v.Data))
		for i, r := range v.Data {
			rooms[i] = response.Room{
				ID: r.RoomID, Name: r.RoomName, Master: r.Master, Occupancy: r.Occupancy, Status: r.Status,
				Mode: r.GameMode, Difficulty: r.Difficulty, TurnLimit: r.TurnTimeLimit, IsPrivate: r.IsPrivate,
			}
		}
		o.printRooms(response.RoomList{Rooms: rooms})
	case protocol.CreateRoomResponse:
		o.printRoomInfo("Created room", v.Room)
	case protocol.JoinRoomResponse:
		o.printRoomInfo("Joined room", v.Room)
	case protocol.RoomInfoUpdate:
		prefix := "Room"
		if v.Content != "" {
			prefix = "Room (" + v.Content + ")"
		}
		o.printRoomInfo(prefix, v.Room)
	case protocol.Kicked:
		fmt.Fprintf(o.w, "You were removed from room #%d\n", v.RoomID)
	case protocol.ReadyStatusUpdate:
		users := make([]string, 0, len(v.Ready))
		for u := range v.Ready {
			users = append(users, u)
		}
		sort.Strings(users)
		parts := make([]string, len(users))
		for i, u := range users {
			mark := "waiting"
			if v.Ready[u] {
				mark = "ready"
			}
			parts[i] = u + "=" + mark
		}
		fmt.Fprintf(o.w, "Ready: %s\n", strings.Join(parts, " "))
	case protocol.StartGame:
		fmt.Fprintf(o.w, "Game %s started (%s, %s)\n", v.GameID, v.GameMode, v.Difficulty)
	case protocol.TurnInfo:
		fmt.Fprintf(o.w, "Round %d %s: %s to guess (%ds)\n", v.Round, half(v.IsTop), v.CurrentTurnPlayer, v.TurnTimeLimit)
	case protocol.GuessResult:
		fmt.Fprintf(o.w, "%s guessed %s: %dS %dB\n", v.UserID, v.Guess, v.Strike, v.Ball)
	case protocol.TurnTimeout:
		fmt.Fprintf(o.w, "%s ran out of time\n", v.UserID)
	case protocol.GameResult:
		o.printResult(v)
	case protocol.ChatAll:
		fmt.Fprintf(o.w, "[all] %s: %s\n", v.UserID, v.Content)
	case protocol.ChatRoom:
		fmt.Fprintf(o.w, "[room] %s: %s\n", v.UserID, v.Content)
	case protocol.ChatTeam:
		fmt.Fprintf(o.w, "[team] %s: %s\n", v.UserID, v.Content)
	case protocol.ChatWhisper:
		fmt.Fprintf(o.w, "[whisper] %s -> %s: %s\n", v.UserID, v.TargetUserID, v.Content)
	case protocol.StatsResponse:
		o.printStats(v.UserID, v.Wins, v.Losses, v.Draws, v.WinRate)
	case protocol.GameHistoryResponse:
		if len(v.Games) == 0 {
			fmt.Fprintln(o.w, "No finished games")
		}
		for _, g := range v.Games {
			fmt.Fprintf(o.w, "%s  winner=%s  %s %s  %s\n",
				time.UnixMilli(g.Timestamp).Local().Format(time.DateTime), g.Winner, g.GameMode, g.Difficulty, strings.Join(g.Participants, " vs "))
		}
	case protocol.UserConnected:
		fmt.Fprintf(o.w, "* %s is online\n", v.UserID)
	case protocol.UserDisconnected:
		fmt.Fprintf(o.w, "* %s went offline\n", v.UserID)
	case protocol.Error:
		fmt.Fprintf(o.errW, "Error: %s (%s)\n", v.ErrorMessage, v.ErrorCode)
	default:
		fmt.Fprintf(o.w, "%s\n", msg.Kind())
	}
}

func (o *Output) printResult(r protocol.GameResult) {
	switch {
	case r.IsDraw:
		fmt.Fprintln(o.w, "Game over: draw")
	case r.WinnerTeam != 0:
		fmt.Fprintf(o.w, "Game over: team %d wins (%s)\n", r.WinnerTeam, strings.Join(r.WinnerIDs, ", "))
	default:
		fmt.Fprintf(o.w, "Game over: %s wins\n", strings.Join(r.WinnerIDs, ", "))
	}
	if r.Reason != "" {
		fmt.Fprintf(o.w, "  %s\n", r.Reason)
	}
	users := make([]string, 0, len(r.Secrets))
	for u := range r.Secrets {
		users = append(users, u)
	}
	sort.Strings(users)
	for _, u := range users {
		fmt.Fprintf(o.w, "  %s's number was %s\n", u, r.Secrets[u])
	}
}
