package hub

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/baseballgame-go/internal/model"
	"github.com/mcoot/baseballgame-go/internal/protocol"
	"github.com/mcoot/baseballgame-go/internal/testutil"
)

type recordingSink struct {
	mu       sync.Mutex
	messages []protocol.Message
	full     bool
}

func (r *recordingSink) Send(msg protocol.Message) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.full {
		return false
	}
	r.messages = append(r.messages, msg)
	return true
}

func (r *recordingSink) received() []protocol.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]protocol.Message(nil), r.messages...)
}

type HubSuite struct {
	suite.Suite
	hub *Hub
}

func TestHubSuite(t *testing.T) {
	suite.Run(t, new(HubSuite))
}

func (s *HubSuite) SetupTest() {
	s.hub = New(testutil.NopLogger())
}

func (s *HubSuite) TestRegisterRejectsSecondSession() {
	first := &recordingSink{}
	second := &recordingSink{}

	s.Require().NoError(s.hub.Register("alice", first))
	s.ErrorIs(s.hub.Register("alice", second), model.ErrAlreadyLoggedIn)

	s.True(s.hub.SendTo("alice", protocol.UserConnected{UserID: "x"}))
	s.Len(first.received(), 1)
	s.Empty(second.received())
}

func (s *HubSuite) TestUnregisterOnlyMatchingSink() {
	first := &recordingSink{}
	s.Require().NoError(s.hub.Register("alice", first))

	s.False(s.hub.Unregister("alice", &recordingSink{}))
	s.True(s.hub.IsOnline("alice"))

	s.True(s.hub.Unregister("alice", first))
	s.False(s.hub.IsOnline("alice"))
	s.NoError(s.hub.Register("alice", &recordingSink{}))
}

func (s *HubSuite) TestSendToUsersSkipsFailures() {
	alice := &recordingSink{}
	bob := &recordingSink{full: true}
	carol := &recordingSink{}
	s.Require().NoError(s.hub.Register("alice", alice))
	s.Require().NoError(s.hub.Register("bob", bob))
	s.Require().NoError(s.hub.Register("carol", carol))

	sent := s.hub.SendToUsers([]model.UserID{"alice", "bob", "dave", "carol"}, protocol.ChatRoom{UserID: "alice", Content: "hi"})

	s.Equal(2, sent)
	s.Len(alice.received(), 1)
	s.Empty(bob.received())
	s.Len(carol.received(), 1)
}

func (s *HubSuite) TestBroadcastReachesEveryone() {
	sinks := map[model.UserID]*recordingSink{"a": {}, "b": {}, "c": {}}
	for id, sink := range sinks {
		s.Require().NoError(s.hub.Register(id, sink))
	}

	s.Equal(3, s.hub.Broadcast(protocol.ChatAll{UserID: "a", Content: "hello"}))
	for _, sink := range sinks {
		s.Equal([]protocol.Message{protocol.ChatAll{UserID: "a", Content: "hello"}}, sink.received())
	}
	s.Equal([]model.UserID{"a", "b", "c"}, s.hub.Online())
}

func (s *HubSuite) TestBroadcastExceptSkipsOneUser() {
	alice := &recordingSink{}
	bob := &recordingSink{}
	carol := &recordingSink{}
	s.Require().NoError(s.hub.Register("alice", alice))
	s.Require().NoError(s.hub.Register("bob", bob))
	s.Require().NoError(s.hub.Register("carol", carol))

	s.Equal(2, s.hub.BroadcastExcept("bob", protocol.UserConnected{UserID: "bob"}))
	s.Len(alice.received(), 1)
	s.Empty(bob.received())
	s.Len(carol.received(), 1)
	s.Equal([]model.UserID{"alice", "bob", "carol"}, s.hub.Online())
}

func (s *HubSuite) TestConcurrentRegisterSingleWinner() {
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.hub.Register("alice", &recordingSink{}) == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	s.Equal(1, winners)
}
