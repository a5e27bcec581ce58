package lobby

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/baseballgame-go/internal/dependencies/mocks"
	"github.com/mcoot/baseballgame-go/internal/model"
	"github.com/mcoot/baseballgame-go/internal/protocol"
	"github.com/mcoot/baseballgame-go/internal/services/account"
	"github.com/mcoot/baseballgame-go/internal/services/history"
	"github.com/mcoot/baseballgame-go/internal/services/room"
	"github.com/mcoot/baseballgame-go/internal/services/scoring"
	"github.com/mcoot/baseballgame-go/internal/storage/memory"
	"github.com/mcoot/baseballgame-go/internal/testutil"
)

// recordingHub captures broadcasts and direct sends
type recordingHub struct {
	mu         sync.Mutex
	broadcasts []protocol.Message
}

func (h *recordingHub) Broadcast(msg protocol.Message) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.broadcasts = append(h.broadcasts, msg)
	return 1
}

func (h *recordingHub) SendTo(model.UserID, protocol.Message) bool { return true }

func (h *recordingHub) SendToUsers(ids []model.UserID, _ protocol.Message) int { return len(ids) }

func (h *recordingHub) lastList() []protocol.RoomSummary {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := len(h.broadcasts) - 1; i >= 0; i-- {
		if list, ok := h.broadcasts[i].(protocol.RoomListResponse); ok {
			return list.Data
		}
	}
	return nil
}

type ControllerSuite struct {
	suite.Suite
	hub        *recordingHub
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.ctx = context.Background()
	logger := testutil.NopLogger()
	store := memory.New()
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	rnd := mocks.NewMockRandom()
	tokens, err := account.NewTokens(nil, time.Hour, clk)
	s.Require().NoError(err)

	s.hub = &recordingHub{}
	s.controller = NewController(Config{MaxRooms: 2}, room.Dependencies{
		Notifier: s.hub,
		Results:  account.New(store, clk, tokens, logger),
		History:  history.New(store, logger),
		Scoring:  scoring.New(rnd),
		Clock:    clk,
		Random:   rnd,
		Logger:   logger,
	}, s.hub, logger)
}

func (s *ControllerSuite) TearDownTest() {
	s.controller.Shutdown()
}

func settings(name string) model.RoomSettings {
	return model.RoomSettings{
		Name:          name,
		Mode:          model.ModeOneVsOne,
		Difficulty:    model.DifficultyMedium,
		TurnTimeLimit: 30,
	}
}

func (s *ControllerSuite) TestCreateRoomAssignsIncreasingIDs() {
	_, first, err := s.controller.CreateRoom(s.ctx, "alice", settings("one"))
	s.Require().NoError(err)
	_, second, err := s.controller.CreateRoom(s.ctx, "bob", settings("two"))
	s.Require().NoError(err)

	s.Equal(model.RoomID(1), first.Summary.ID)
	s.Equal(model.RoomID(2), second.Summary.ID)
	s.Equal(model.UserID("alice"), first.Summary.MasterID)
	s.True(first.Members[0].IsMaster)
}

func (s *ControllerSuite) TestCancelledCreateFreesSlot() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, _, err := s.controller.CreateRoom(ctx, "alice", settings("gone"))
	s.ErrorIs(err, context.Canceled)
	s.Zero(s.controller.RoomCount())

	for _, master := range []model.UserID{"bob", "carol"} {
		_, _, err := s.controller.CreateRoom(s.ctx, master, settings(string(master)))
		s.Require().NoError(err)
	}
	s.Equal(2, s.controller.RoomCount())
}

func (s *ControllerSuite) TestCreateRoomBroadcastsList() {
	_, _, err := s.controller.CreateRoom(s.ctx, "alice", settings("one"))
	s.Require().NoError(err)

	list := s.hub.lastList()
	s.Require().Len(list, 1)
	s.Equal("one", list[0].RoomName)
	s.Equal("1/2", list[0].Occupancy)
}

func (s *ControllerSuite) TestCreateRoomValidatesSettings() {
	bad := settings("")
	_, _, err := s.controller.CreateRoom(s.ctx, "alice", bad)
	s.ErrorIs(err, model.ErrInvalidInput)

	bad = settings("x")
	bad.TurnTimeLimit = 45
	_, _, err = s.controller.CreateRoom(s.ctx, "alice", bad)
	s.ErrorIs(err, model.ErrOutOfRange)
	s.Zero(s.controller.RoomCount())
}

func (s *ControllerSuite) TestCreateRoomServerFull() {
	for _, name := range []string{"one", "two"} {
		_, _, err := s.controller.CreateRoom(s.ctx, model.UserID(name), settings(name))
		s.Require().NoError(err)
	}

	_, _, err := s.controller.CreateRoom(s.ctx, "carol", settings("three"))
	s.ErrorIs(err, model.ErrServerFull)
}

func (s *ControllerSuite) TestFindRoom() {
	r, _, err := s.controller.CreateRoom(s.ctx, "alice", settings("one"))
	s.Require().NoError(err)

	found, err := s.controller.FindRoom(r.ID())
	s.Require().NoError(err)
	s.Same(r, found)

	_, err = s.controller.FindRoom(99)
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *ControllerSuite) TestListRoomsTracksJoins() {
	r, _, err := s.controller.CreateRoom(s.ctx, "alice", settings("one"))
	s.Require().NoError(err)

	_, err = r.Join(s.ctx, "bob", "")
	s.Require().NoError(err)

	rooms := s.controller.ListRooms()
	s.Require().Len(rooms, 1)
	s.Equal(2, rooms[0].Players)
	s.Equal("2/2", s.hub.lastList()[0].Occupancy)
}

func (s *ControllerSuite) TestEmptyRoomIsRemoved() {
	r, _, err := s.controller.CreateRoom(s.ctx, "alice", settings("one"))
	s.Require().NoError(err)

	s.Require().NoError(r.Leave(s.ctx, "alice", false))
	<-r.Done()

	s.Zero(s.controller.RoomCount())
	s.Empty(s.hub.lastList())
	_, err = s.controller.FindRoom(r.ID())
	s.ErrorIs(err, model.ErrRoomNotFound)

	// A freed slot can be reused, ids keep increasing
	_, info, err := s.controller.CreateRoom(s.ctx, "bob", settings("two"))
	s.Require().NoError(err)
	s.Equal(model.RoomID(2), info.Summary.ID)
}
