// Package hub tracks connected sessions by user id and fans messages out to them.
package hub

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/mcoot/baseballgame-go/internal/model"
	"github.com/mcoot/baseballgame-go/internal/protocol"
)

// Sink receives outbound messages for one connection. Send must not block;
// it reports false when the message could not be queued.
type Sink interface {
	Send(msg protocol.Message) bool
}

// Hub is the server-wide registry of authenticated sessions
type Hub struct {
	mu     sync.RWMutex
	sinks  map[model.UserID]Sink
	logger *slog.Logger
}

// New creates an empty Hub
func New(logger *slog.Logger) *Hub {
	return &Hub{
		sinks:  make(map[model.UserID]Sink),
		logger: logger.With(slog.String("component", "hub")),
	}
}

// Register claims userID for sink. A second claim for the same id fails with
// model.ErrAlreadyLoggedIn and leaves the first session in place.
func (h *Hub) Register(userID model.UserID, sink Sink) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sinks[userID]; ok {
		return model.ErrAlreadyLoggedIn
	}
	h.sinks[userID] = sink
	h.logger.Info("session registered",
		slog.String("user_id", string(userID)),
		slog.Int("online", len(h.sinks)))
	return nil
}

// Unregister releases userID if it is still held by sink
func (h *Hub) Unregister(userID model.UserID, sink Sink) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if current, ok := h.sinks[userID]; !ok || current != sink {
		return false
	}
	delete(h.sinks, userID)
	h.logger.Info("session unregistered",
		slog.String("user_id", string(userID)),
		slog.Int("online", len(h.sinks)))
	return true
}

// IsOnline reports whether userID has a registered session
func (h *Hub) IsOnline(userID model.UserID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.sinks[userID]
	return ok
}

// Online returns the registered user ids in sorted order
func (h *Hub) Online() []model.UserID {
	h.mu.RLock()
	ids := make([]model.UserID, 0, len(h.sinks))
	for id := range h.sinks {
		ids = append(ids, id)
	}
	h.mu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SendTo delivers msg to one user, reporting whether it was queued
func (h *Hub) SendTo(userID model.UserID, msg protocol.Message) bool {
	h.mu.RLock()
	sink, ok := h.sinks[userID]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	if !sink.Send(msg) {
		h.logger.Warn("message dropped",
			slog.String("user_id", string(userID)),
			slog.String("type", string(msg.Kind())))
		return false
	}
	return true
}

// SendToUsers delivers msg to each listed user, skipping any that fail, and
// returns how many were reached
func (h *Hub) SendToUsers(userIDs []model.UserID, msg protocol.Message) int {
	sent := 0
	for _, id := range userIDs {
		if h.SendTo(id, msg) {
			sent++
		}
	}
	return sent
}

// Broadcast delivers msg to every registered session
func (h *Hub) Broadcast(msg protocol.Message) int {
	return h.SendToUsers(h.Online(), msg)
}

// BroadcastExcept delivers msg to every registered session other than except
func (h *Hub) BroadcastExcept(except model.UserID, msg protocol.Message) int {
	online := h.Online()
	ids := online[:0]
	for _, id := range online {
		if id != except {
			ids = append(ids, id)
		}
	}
	return h.SendToUsers(ids, msg)
}
