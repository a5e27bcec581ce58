package session

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/mcoot/baseballgame-go/internal/api/apierr"
	"github.com/mcoot/baseballgame-go/internal/dependencies/clock"
	"github.com/mcoot/baseballgame-go/internal/hub"
	"github.com/mcoot/baseballgame-go/internal/model"
	"github.com/mcoot/baseballgame-go/internal/protocol"
	"github.com/mcoot/baseballgame-go/internal/services/room"
)

const (
	// DefaultQueueSize bounds the outbound queue of one session
	DefaultQueueSize = 64
	// DefaultWriteTimeout bounds a single frame write
	DefaultWriteTimeout = 5 * time.Second

	cleanupTimeout = 5 * time.Second
)

// Conn is a framed, bidirectional client connection
type Conn interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Close(reason string) error
}

// Accounts is the account surface a session needs
type Accounts interface {
	Register(ctx context.Context, userID model.UserID, password, character string) (*model.Account, error)
	Authenticate(ctx context.Context, userID model.UserID, password string) (*model.Account, error)
	IssueToken(userID model.UserID) (string, error)
	GetStats(ctx context.Context, userID model.UserID) (*model.Stats, error)
}

// History lists a user's finished games
type History interface {
	ListGames(ctx context.Context, userID model.UserID, limit int) ([]model.GameSummary, error)
}

// Rooms is the room registry
type Rooms interface {
	CreateRoom(ctx context.Context, master model.UserID, settings model.RoomSettings) (*room.Room, model.RoomInfo, error)
	FindRoom(id model.RoomID) (*room.Room, error)
	ListRooms() []model.RoomSummary
}

// Router delivers messages to connected users
type Router interface {
	Register(userID model.UserID, sink hub.Sink) error
	Unregister(userID model.UserID, sink hub.Sink) bool
	IsOnline(userID model.UserID) bool
	SendTo(userID model.UserID, msg protocol.Message) bool
	Broadcast(msg protocol.Message) int
	BroadcastExcept(except model.UserID, msg protocol.Message) int
}

// Dependencies are the services shared by every session
type Dependencies struct {
	Accounts Accounts
	History  History
	Rooms    Rooms
	Router   Router
	Clock    clock.Clock
	Logger   *slog.Logger
}

// Config holds per-connection limits
type Config struct {
	QueueSize    int
	WriteTimeout time.Duration
}

// Session is one client connection. The read loop goroutine owns the logout
// flag; user and roomID are also read by senders and the write pump.
type Session struct {
	conn   Conn
	deps   Dependencies
	cfg    Config
	logger *slog.Logger

	out       chan protocol.Message
	quit      chan struct{}
	pumpDone  chan struct{}
	closeOnce atomic.Bool

	user       atomic.Pointer[model.UserID]
	roomID     atomic.Int64
	loggingOut bool
}

var _ hub.Sink = (*Session)(nil)

// New creates a session for conn. Call Serve to run it.
func New(conn Conn, deps Dependencies, cfg Config) *Session {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	return &Session{
		conn:     conn,
		deps:     deps,
		cfg:      cfg,
		logger:   deps.Logger,
		out:      make(chan protocol.Message, cfg.QueueSize),
		quit:     make(chan struct{}),
		pumpDone: make(chan struct{}),
	}
}

// Serve runs the session until the connection fails, the client logs out, or
// ctx is cancelled. Cleanup always runs before it returns.
func (s *Session) Serve(ctx context.Context) error {
	go s.writePump()

	err := s.readLoop(ctx)

	s.onDisconnect()
	close(s.quit)
	<-s.pumpDone
	s.close("bye")
	return err
}

// Send queues msg for delivery without blocking. It reports false when the
// queue is full and the message was dropped.
func (s *Session) Send(msg protocol.Message) bool {
	if k, ok := msg.(protocol.Kicked); ok {
		s.roomID.CompareAndSwap(k.RoomID, 0)
	}
	select {
	case s.out <- msg:
		return true
	default:
		s.logger.Warn("outbound queue full, dropping message",
			slog.String("user_id", string(s.UserID())),
			slog.String("kind", string(msg.Kind())))
		return false
	}
}

func (s *Session) readLoop(ctx context.Context) error {
	for {
		data, err := s.conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		msg, err := protocol.Decode(data)
		if err != nil {
			s.logger.Warn("ignoring undecodable message", slog.String("error", err.Error()))
			continue
		}

		if err := s.handle(ctx, msg); err != nil {
			s.sendError(err)
		}
		if s.loggingOut {
			return nil
		}
	}
}

// writePump drains the outbound queue onto the connection. After quit it
// flushes whatever is already queued and exits.
func (s *Session) writePump() {
	defer close(s.pumpDone)
	for {
		select {
		case msg := <-s.out:
			if !s.write(msg) {
				return
			}
		case <-s.quit:
			for {
				select {
				case msg := <-s.out:
					if !s.write(msg) {
						return
					}
				default:
					return
				}
			}
		}
	}
}

func (s *Session) write(msg protocol.Message) bool {
	data, err := protocol.Encode(msg, s.deps.Clock.Now())
	if err != nil {
		s.logger.Error("failed to encode message",
			slog.String("kind", string(msg.Kind())),
			slog.String("error", err.Error()))
		return true
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout)
	defer cancel()
	if err := s.conn.Write(ctx, data); err != nil {
		s.logger.Info("write failed, closing connection",
			slog.String("user_id", string(s.UserID())),
			slog.String("error", err.Error()))
		s.close("write failed")
		return false
	}
	return true
}

func (s *Session) close(reason string) {
	if s.closeOnce.CompareAndSwap(false, true) {
		_ = s.conn.Close(reason)
	}
}

// onDisconnect leaves any room, releases the user id and announces the departure
func (s *Session) onDisconnect() {
	userID := s.UserID()
	if userID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	if id := model.RoomID(s.roomID.Swap(0)); id != 0 {
		if r, err := s.deps.Rooms.FindRoom(id); err == nil {
			if err := r.Leave(ctx, userID, !s.loggingOut); err != nil && !errors.Is(err, model.ErrNotInRoom) {
				s.logger.Warn("failed to leave room on disconnect",
					slog.String("user_id", string(s.UserID())),
					slog.String("error", err.Error()))
			}
		}
	}

	s.deps.Router.Unregister(userID, s)
	s.deps.Router.Broadcast(protocol.UserDisconnected{UserID: string(s.UserID())})
	s.logger.Info("user disconnected", slog.String("user_id", string(s.UserID())))
}

func (s *Session) sendError(err error) {
	apiErr, _ := apierr.Classify(err)
	message := err.Error()
	if apiErr.Code == apierr.CodeUnknownError {
		s.logger.Error("request failed",
			slog.String("user_id", string(s.UserID())),
			slog.String("error", err.Error()))
		message = apiErr.Message
	}
	s.Send(protocol.Error{ErrorCode: apiErr.Code, ErrorMessage: message})
}

// currentRoom resolves the room this session is in
func (s *Session) currentRoom() (*room.Room, error) {
	id := s.roomID.Load()
	if id == 0 {
		return nil, model.ErrNotInRoom
	}
	r, err := s.deps.Rooms.FindRoom(model.RoomID(id))
	if err != nil {
		s.roomID.CompareAndSwap(id, 0)
		return nil, model.ErrNotInRoom
	}
	return r, nil
}

// UserID returns the authenticated user, or "" before login
func (s *Session) UserID() model.UserID {
	if id := s.user.Load(); id != nil {
		return *id
	}
	return ""
}

func (s *Session) setUser(userID model.UserID) {
	s.user.Store(&userID)
}
