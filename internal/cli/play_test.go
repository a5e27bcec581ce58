package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/baseballgame-go/internal/protocol"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		msg  protocol.Message
		want []protocol.Kind
	}{
		{"hello there", protocol.ChatRoom{Content: "hello there"}, nil},
		{"/list", protocol.RoomListRequest{}, []protocol.Kind{protocol.KindRoomListResponse}},
		{"/create sandlot 1v1 easy 30", protocol.CreateRoomRequest{
			RoomName: "sandlot", GameMode: "ONE_VS_ONE", Difficulty: "EASY", TurnTimeLimit: 30,
		}, []protocol.Kind{protocol.KindCreateRoomResponse}},
		{"/create club 2v2 hard 60 pw", protocol.CreateRoomRequest{
			RoomName: "club", GameMode: "TWO_VS_TWO", Difficulty: "HARD", TurnTimeLimit: 60, IsPrivate: true, RoomPassword: "pw",
		}, []protocol.Kind{protocol.KindCreateRoomResponse}},
		{"/join 3", protocol.JoinRoomRequest{RoomID: 3}, []protocol.Kind{protocol.KindJoinRoomResponse}},
		{"/join 3 pw", protocol.JoinRoomRequest{RoomID: 3, RoomPassword: "pw"}, []protocol.Kind{protocol.KindJoinRoomResponse}},
		{"/leave", protocol.LeaveRoom{}, nil},
		{"/ready", protocol.Ready{}, nil},
		{"/unready", protocol.ReadyCancel{}, nil},
		{"/start", protocol.StartGameRequest{}, nil},
		{"/guess 123", protocol.Guess{Guess: "123"}, nil},
		{"/g 0456", protocol.Guess{Guess: "0456"}, nil},
		{"/chat  good game ", protocol.ChatRoom{Content: "good game"}, nil},
		{"/all hi all", protocol.ChatAll{Content: "hi all"}, nil},
		{"/team go left", protocol.ChatTeam{Content: "go left"}, nil},
		{"/whisper bob meet me", protocol.ChatWhisper{TargetUserID: "bob", Content: "meet me"}, nil},
		{"/kick bob", protocol.KickPlayer{TargetUserID: "bob"}, nil},
		{"/stats", protocol.StatsRequest{}, []protocol.Kind{protocol.KindStatsResponse}},
		{"/stats bob", protocol.StatsRequest{UserID: "bob"}, []protocol.Kind{protocol.KindStatsResponse}},
		{"/history", protocol.GameHistoryRequest{}, []protocol.Kind{protocol.KindGameHistoryResponse}},
		{"/history 5", protocol.GameHistoryRequest{Limit: 5}, []protocol.Kind{protocol.KindGameHistoryResponse}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			cmd, err := parseCommand(tt.line)
			require.NoError(t, err)
			require.NotNil(t, cmd)
			assert.Equal(t, tt.msg, cmd.msg)
			assert.Equal(t, tt.want, cmd.want)
		})
	}
}

func TestParseCommandErrors(t *testing.T) {
	for _, line := range []string{
		"/create sandlot 1v1 easy",
		"/create sandlot 1v1 easy soon",
		"/join",
		"/join abc",
		"/guess",
		"/guess 12 34",
		"/chat",
		"/whisper bob",
		"/kick",
		"/history 0",
		"/dance",
	} {
		t.Run(line, func(t *testing.T) {
			cmd, err := parseCommand(line)
			assert.Error(t, err)
			assert.Nil(t, cmd)
		})
	}
}

func TestParseCommandControl(t *testing.T) {
	cmd, err := parseCommand("   ")
	assert.NoError(t, err)
	assert.Nil(t, cmd)

	_, err = parseCommand("/quit")
	assert.ErrorIs(t, err, errQuit)

	_, err = parseCommand("/HELP")
	assert.ErrorIs(t, err, errHelp)
}

// fakeConn records what the REPL sends and answers requests from a table
type fakeConn struct {
	mu      sync.Mutex
	sent    []protocol.Message
	replies map[protocol.Kind]protocol.Message
	events  chan protocol.Message
	done    chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		replies: make(map[protocol.Kind]protocol.Message),
		events:  make(chan protocol.Message, 8),
		done:    make(chan struct{}),
	}
}

func (f *fakeConn) Send(_ context.Context, msg protocol.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeConn) Request(ctx context.Context, msg protocol.Message, want ...protocol.Kind) (protocol.Message, error) {
	_ = f.Send(ctx, msg)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.replies[want[0]], nil
}

func (f *fakeConn) Events() <-chan protocol.Message { return f.events }
func (f *fakeConn) Done() <-chan struct{}           { return f.done }

func (f *fakeConn) sentKinds() []protocol.Kind {
	f.mu.Lock()
	defer f.mu.Unlock()
	kinds := make([]protocol.Kind, len(f.sent))
	for i, m := range f.sent {
		kinds[i] = m.Kind()
	}
	return kinds
}

func TestREPLSendsCommandsAndLogsOutOnQuit(t *testing.T) {
	conn := newFakeConn()
	conn.replies[protocol.KindStatsResponse] = protocol.StatsResponse{UserID: "alice", Wins: 2, Losses: 1, WinRate: 66.67}

	var stdout, stderr bytes.Buffer
	out := newOutputTo("text", &stdout, &stderr)
	input := "/ready\n/guess 123\n/stats\n/nope\n/quit\n/start\n"

	require.NoError(t, runREPL(context.Background(), conn, strings.NewReader(input), out))

	assert.Equal(t, []protocol.Kind{
		protocol.KindReady,
		protocol.KindGuess,
		protocol.KindStatsRequest,
		protocol.KindLogout,
	}, conn.sentKinds())
	assert.Contains(t, stdout.String(), "alice: 2W 1L 0D (66.67%)")
	assert.Contains(t, stderr.String(), "unknown command /nope")
}

func TestREPLStopsWhenServerDisconnects(t *testing.T) {
	conn := newFakeConn()
	close(conn.done)

	var stdout bytes.Buffer
	out := newOutputTo("text", &stdout, &stdout)

	// An input that never ends must not keep the loop alive
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	pr := blockingReader{ctx: ctx}

	require.NoError(t, runREPL(ctx, conn, pr, out))
	assert.NoError(t, ctx.Err())
	assert.Contains(t, stdout.String(), "disconnected from server")
}

type blockingReader struct {
	ctx context.Context
}

func (b blockingReader) Read([]byte) (int, error) {
	<-b.ctx.Done()
	return 0, b.ctx.Err()
}
