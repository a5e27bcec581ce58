package lobby

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/mcoot/baseballgame-go/internal/model"
	"github.com/mcoot/baseballgame-go/internal/protocol"
	"github.com/mcoot/baseballgame-go/internal/services/room"
)

// DefaultMaxRooms is the room cap when none is configured
const DefaultMaxRooms = 5

// Broadcaster reaches every connected user
type Broadcaster interface {
	Broadcast(msg protocol.Message) int
}

// Config holds lobby limits
type Config struct {
	MaxRooms int
	Room     room.Config
}

// Controller owns the registry of live rooms. Rooms run on their own
// goroutines; the controller never calls into a room while holding its lock.
type Controller struct {
	mu     sync.RWMutex
	rooms  map[model.RoomID]*room.Room
	nextID model.RoomID

	cfg         Config
	deps        room.Dependencies
	broadcaster Broadcaster
	logger      *slog.Logger
}

// NewController creates a new lobby Controller. deps is the template every
// room is built from; its OnChange and OnEmpty hooks are replaced.
func NewController(cfg Config, deps room.Dependencies, broadcaster Broadcaster, logger *slog.Logger) *Controller {
	if cfg.MaxRooms <= 0 {
		cfg.MaxRooms = DefaultMaxRooms
	}
	c := &Controller{
		rooms:       make(map[model.RoomID]*room.Room),
		cfg:         cfg,
		broadcaster: broadcaster,
		logger:      logger,
	}
	deps.OnChange = c.onChange
	deps.OnEmpty = c.onEmpty
	c.deps = deps
	return c
}

// CreateRoom starts a room with master as its only player
func (c *Controller) CreateRoom(ctx context.Context, master model.UserID, settings model.RoomSettings) (*room.Room, model.RoomInfo, error) {
	if err := settings.Validate(); err != nil {
		return nil, model.RoomInfo{}, err
	}

	c.mu.Lock()
	if len(c.rooms) >= c.cfg.MaxRooms {
		c.mu.Unlock()
		return nil, model.RoomInfo{}, model.ErrServerFull
	}
	c.nextID++
	r := room.New(c.nextID, settings, master, c.deps, c.cfg.Room)
	c.rooms[r.ID()] = r
	c.mu.Unlock()

	go r.Run()

	c.logger.Info("room created",
		slog.Int64("room_id", int64(r.ID())),
		slog.String("name", settings.Name),
		slog.String("master", string(master)))

	info, err := r.Info(ctx)
	if err != nil {
		c.discard(r)
		return nil, model.RoomInfo{}, err
	}
	c.broadcastList()
	return r, info, nil
}

// FindRoom looks up a live room
func (c *Controller) FindRoom(id model.RoomID) (*room.Room, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.rooms[id]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return r, nil
}

// ListRooms returns the published summaries of every live room by id
func (c *Controller) ListRooms() []model.RoomSummary {
	c.mu.RLock()
	summaries := make([]model.RoomSummary, 0, len(c.rooms))
	for _, r := range c.rooms {
		summaries = append(summaries, r.Summary())
	}
	c.mu.RUnlock()

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ID < summaries[j].ID
	})
	return summaries
}

// RoomCount returns the number of live rooms
func (c *Controller) RoomCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rooms)
}

// Shutdown stops every room and waits for their goroutines
func (c *Controller) Shutdown() {
	c.mu.Lock()
	rooms := make([]*room.Room, 0, len(c.rooms))
	for _, r := range c.rooms {
		rooms = append(rooms, r)
	}
	c.rooms = make(map[model.RoomID]*room.Room)
	c.mu.Unlock()

	for _, r := range rooms {
		r.Shutdown()
	}
	for _, r := range rooms {
		<-r.Done()
	}
}

// discard drops a room that never reached its creator and frees its slot
func (c *Controller) discard(r *room.Room) {
	c.mu.Lock()
	if c.rooms[r.ID()] == r {
		delete(c.rooms, r.ID())
	}
	c.mu.Unlock()
	r.Shutdown()
	<-r.Done()
	c.logger.Warn("room discarded", slog.Int64("room_id", int64(r.ID())))
}

func (c *Controller) onChange(model.RoomSummary) {
	c.broadcastList()
}

func (c *Controller) onEmpty(id model.RoomID) {
	c.mu.Lock()
	delete(c.rooms, id)
	c.mu.Unlock()

	c.logger.Info("room removed", slog.Int64("room_id", int64(id)))
	c.broadcastList()
}

func (c *Controller) broadcastList() {
	c.broadcaster.Broadcast(protocol.RoomListResponse{
		Data: protocol.RoomSummariesFromModel(c.ListRooms()),
	})
}
