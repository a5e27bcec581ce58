package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/baseballgame-go/internal/api/response"
	"github.com/mcoot/baseballgame-go/internal/client"
	"github.com/mcoot/baseballgame-go/internal/factory"
	"github.com/mcoot/baseballgame-go/internal/model"
	"github.com/mcoot/baseballgame-go/internal/protocol"
)

// testServer runs the full HTTP surface over a real listener
type testServer struct {
	app *factory.TestApp
	srv *httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp(factory.Config{})
	srv := httptest.NewServer(app.Handler())
	t.Cleanup(func() {
		srv.Close()
		_ = app.Close()
	})

	for _, id := range []model.UserID{"alice", "bob"} {
		_, err := app.AccountService.Register(context.Background(), id, "pw", "batter")
		require.NoError(t, err)
	}
	return &testServer{app: app, srv: srv}
}

func (ts *testServer) get(t *testing.T, path, token string, out any) int {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, ts.srv.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (ts *testServer) dial(t *testing.T, ctx context.Context) *client.Client {
	t.Helper()
	c, err := client.Dial(ctx, "ws"+strings.TrimPrefix(ts.srv.URL, "http")+"/ws")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func (ts *testServer) login(t *testing.T, ctx context.Context, userID string) (*client.Client, string) {
	t.Helper()
	c := ts.dial(t, ctx)
	reply, err := c.Request(ctx, protocol.LoginRequest{UserID: userID, Password: "pw"}, protocol.KindLoginResponse)
	require.NoError(t, err)
	return c, reply.(protocol.LoginResponse).Token
}

// waitFor drains events until one of kind arrives
func waitFor(t *testing.T, ctx context.Context, c *client.Client, kind protocol.Kind) protocol.Message {
	t.Helper()
	for {
		select {
		case msg, ok := <-c.Events():
			require.True(t, ok, "connection closed waiting for %s", kind)
			if msg.Kind() == kind {
				return msg
			}
		case <-ctx.Done():
			require.FailNow(t, "timed out waiting for "+string(kind))
		}
	}
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	var body map[string]string
	assert.Equal(t, http.StatusOK, ts.get(t, "/api/v1/health", "", &body))
	assert.Equal(t, "ok", body["status"])
}

func TestStatsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	var stats response.Stats
	require.Equal(t, http.StatusOK, ts.get(t, "/api/v1/players/alice/stats", "", &stats))
	assert.Equal(t, "alice", stats.UserID)
	assert.Zero(t, stats.Wins)

	var errResp struct {
		Error struct{ Code string } `json:"error"`
	}
	assert.Equal(t, http.StatusNotFound, ts.get(t, "/api/v1/players/nobody/stats", "", &errResp))
	assert.Equal(t, "TARGET_NOT_FOUND", errResp.Error.Code)
}

func TestHistoryRequiresToken(t *testing.T) {
	ts := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, ts.get(t, "/api/v1/players/me/history", "", nil))
	assert.Equal(t, http.StatusUnauthorized, ts.get(t, "/api/v1/players/me/history", "garbage", nil))
}

func TestLoginErrorOverSocket(t *testing.T) {
	ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := ts.dial(t, ctx)
	_, err := c.Request(ctx, protocol.LoginRequest{UserID: "alice", Password: "wrong"}, protocol.KindLoginResponse)

	var serverErr *client.ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, "LOGIN_FAILED", serverErr.Code)
}

func TestGameOverWebsocket(t *testing.T) {
	ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	alice, aliceToken := ts.login(t, ctx, "alice")
	bob, _ := ts.login(t, ctx, "bob")

	var online response.Online
	require.Equal(t, http.StatusOK, ts.get(t, "/api/v1/online", "", &online))
	assert.Equal(t, []string{"alice", "bob"}, online.Users)

	// alice creates, bob joins
	reply, err := alice.Request(ctx, protocol.CreateRoomRequest{
		RoomName:      "duel",
		GameMode:      string(model.ModeOneVsOne),
		Difficulty:    string(model.DifficultyEasy),
		TurnTimeLimit: 30,
	}, protocol.KindCreateRoomResponse)
	require.NoError(t, err)
	roomID := reply.(protocol.CreateRoomResponse).Room.RoomID

	var rooms response.RoomList
	require.Equal(t, http.StatusOK, ts.get(t, "/api/v1/rooms", "", &rooms))
	require.Len(t, rooms.Rooms, 1)
	assert.Equal(t, "1/2", rooms.Rooms[0].Occupancy)

	_, err = bob.Request(ctx, protocol.JoinRoomRequest{RoomID: roomID}, protocol.KindJoinRoomResponse)
	require.NoError(t, err)
	_, err = bob.Request(ctx, protocol.Ready{}, protocol.KindReadyStatusUpdate)
	require.NoError(t, err)

	// alice gets 123, bob gets 456
	ts.app.QueueSecrets([]int{0, 1, 2, 3, 4, 5, 6, 7, 8}, []int{3, 4, 5, 0, 1, 2, 6, 7, 8})
	_, err = alice.Request(ctx, protocol.StartGameRequest{}, protocol.KindTurnInfo)
	require.NoError(t, err)

	reply, err = alice.Request(ctx, protocol.Guess{Guess: "465"}, protocol.KindGuessResult)
	require.NoError(t, err)
	assert.Equal(t, 1, reply.(protocol.GuessResult).Strike)
	assert.Equal(t, 2, reply.(protocol.GuessResult).Ball)

	// bob's queue still holds the opening turn for alice
	for {
		turn := waitFor(t, ctx, bob, protocol.KindTurnInfo).(protocol.TurnInfo)
		if turn.CurrentTurnPlayer == "bob" {
			assert.False(t, turn.IsTop)
			break
		}
	}

	reply, err = bob.Request(ctx, protocol.Guess{Guess: "123"}, protocol.KindGameResult)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, reply.(protocol.GameResult).WinnerIDs)

	// alice's token reads her history over REST
	var history response.History
	require.Equal(t, http.StatusOK, ts.get(t, "/api/v1/players/me/history", aliceToken, &history))
	assert.Equal(t, "alice", history.UserID)
	require.Len(t, history.Games, 1)
	assert.Equal(t, string(model.OutcomeLoss), history.Games[0].Outcome)

	var stats response.Stats
	require.Equal(t, http.StatusOK, ts.get(t, "/api/v1/players/bob/stats", "", &stats))
	assert.Equal(t, 1, stats.Wins)
	assert.InDelta(t, 100.0, stats.WinRate, 0.001)
}

func TestDisconnectForfeitsOverWebsocket(t *testing.T) {
	ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	alice, _ := ts.login(t, ctx, "alice")
	bob, _ := ts.login(t, ctx, "bob")

	reply, err := alice.Request(ctx, protocol.CreateRoomRequest{
		RoomName: "duel", GameMode: "ONE_VS_ONE", Difficulty: "HARD", TurnTimeLimit: 60,
	}, protocol.KindCreateRoomResponse)
	require.NoError(t, err)
	roomID := reply.(protocol.CreateRoomResponse).Room.RoomID

	_, err = bob.Request(ctx, protocol.JoinRoomRequest{RoomID: roomID}, protocol.KindJoinRoomResponse)
	require.NoError(t, err)
	_, err = bob.Request(ctx, protocol.Ready{}, protocol.KindReadyStatusUpdate)
	require.NoError(t, err)
	_, err = alice.Request(ctx, protocol.StartGameRequest{}, protocol.KindStartGame)
	require.NoError(t, err)

	require.NoError(t, bob.Close())

	result := waitFor(t, ctx, alice, protocol.KindGameResult).(protocol.GameResult)
	assert.Equal(t, []string{"alice"}, result.WinnerIDs)
	gone := waitFor(t, ctx, alice, protocol.KindUserDisconnected).(protocol.UserDisconnected)
	assert.Equal(t, "bob", gone.UserID)
}
