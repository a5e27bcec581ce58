package room

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/mcoot/baseballgame-go/internal/dependencies/clock"
	"github.com/mcoot/baseballgame-go/internal/dependencies/random"
	"github.com/mcoot/baseballgame-go/internal/model"
	"github.com/mcoot/baseballgame-go/internal/protocol"
	"github.com/mcoot/baseballgame-go/internal/services/scoring"
)

// persistTimeout bounds each stats or history write made from the room
const persistTimeout = 5 * time.Second

// Notifier delivers messages to sessions by user id
type Notifier interface {
	SendTo(userID model.UserID, msg protocol.Message) bool
	SendToUsers(userIDs []model.UserID, msg protocol.Message) int
}

// ResultRecorder applies game outcomes to player stats
type ResultRecorder interface {
	RecordResult(ctx context.Context, userID model.UserID, outcome model.Outcome) error
}

// HistoryRecorder appends guesses and finished games
type HistoryRecorder interface {
	RecordGuess(ctx context.Context, record model.GuessRecord) error
	RecordGame(ctx context.Context, summary model.GameSummary) error
}

// Config holds room behaviour switches
type Config struct {
	// EnforceTurnTimeout makes the room advance the turn once the limit passes
	EnforceTurnTimeout bool
}

// Dependencies are the collaborators a room talks to
type Dependencies struct {
	Notifier Notifier
	Results  ResultRecorder
	History  HistoryRecorder
	Scoring  *scoring.Service
	Clock    clock.Clock
	Random   random.Random
	Logger   *slog.Logger

	// OnChange is called on the room goroutine when the listed summary changes
	OnChange func(summary model.RoomSummary)
	// OnEmpty is called on the room goroutine once the last player has left
	OnEmpty func(id model.RoomID)
}

// Room is one match's authority. All state below the channels is owned by
// the goroutine in Run; other goroutines reach it only through commands.
type Room struct {
	id       model.RoomID
	settings model.RoomSettings
	cfg      Config
	deps     Dependencies
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	inbox   chan request
	quit    chan struct{}
	done    chan struct{}
	stopped atomic.Bool
	summary atomic.Pointer[model.RoomSummary]

	state  model.RoomState
	master model.UserID
	roster []model.UserID // join order
	ready  map[model.UserID]bool
	teams  map[model.UserID]model.Team
	game   *game
}

// New creates a room with master as its only player. Call Run to start it.
func New(id model.RoomID, settings model.RoomSettings, master model.UserID, deps Dependencies, cfg Config) *Room {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Room{
		id:       id,
		settings: settings,
		cfg:      cfg,
		deps:     deps,
		logger:   deps.Logger.With(slog.Int64("room_id", int64(id))),
		ctx:      ctx,
		cancel:   cancel,
		inbox:    make(chan request),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		state:    model.RoomStateForming,
		master:   master,
		roster:   []model.UserID{master},
		ready:    make(map[model.UserID]bool),
		teams:    make(map[model.UserID]model.Team),
	}
	r.assignTeams()
	r.updateState()
	s := r.buildSummary()
	r.summary.Store(&s)
	return r
}

// Run processes commands until the room empties or Shutdown is called
func (r *Room) Run() {
	defer close(r.done)
	defer r.cancel()

	r.logger.Info("room started", slog.String("name", r.settings.Name), slog.String("master", string(r.master)))
	for {
		select {
		case req := <-r.inbox:
			res := r.handle(req.cmd)
			empty := len(r.roster) == 0
			if empty {
				r.stopTimer()
				if r.deps.OnEmpty != nil {
					r.deps.OnEmpty(r.id)
				}
			} else {
				r.publish()
			}
			req.reply <- res
			if empty {
				r.logger.Info("room closed")
				return
			}
		case <-r.quit:
			r.stopTimer()
			r.logger.Info("room shut down")
			return
		}
	}
}

// Shutdown stops the room goroutine without notifying players
func (r *Room) Shutdown() {
	if r.stopped.CompareAndSwap(false, true) {
		close(r.quit)
	}
}

// Done is closed once the room goroutine has exited
func (r *Room) Done() <-chan struct{} {
	return r.done
}

// ID returns the room id
func (r *Room) ID() model.RoomID {
	return r.id
}

// Summary returns the latest published summary without touching the room goroutine
func (r *Room) Summary() model.RoomSummary {
	return *r.summary.Load()
}

// Join adds userID to the roster
func (r *Room) Join(ctx context.Context, userID model.UserID, password string) (model.RoomInfo, error) {
	res := r.submit(ctx, joinCmd{userID: userID, password: password})
	return res.info, res.err
}

// Leave removes userID. During a game this forfeits the match for the leaver's side.
func (r *Room) Leave(ctx context.Context, userID model.UserID, disconnected bool) error {
	return r.submit(ctx, leaveCmd{userID: userID, disconnected: disconnected}).err
}

// Kick removes target on the master's behalf
func (r *Room) Kick(ctx context.Context, by, target model.UserID) error {
	return r.submit(ctx, kickCmd{by: by, target: target}).err
}

// SetReady sets a non-master player's ready flag
func (r *Room) SetReady(ctx context.Context, userID model.UserID, ready bool) error {
	return r.submit(ctx, readyCmd{userID: userID, ready: ready}).err
}

// Start begins a game on the master's behalf
func (r *Room) Start(ctx context.Context, userID model.UserID) error {
	return r.submit(ctx, startCmd{userID: userID}).err
}

// Guess scores a guess from the player whose turn it is
func (r *Room) Guess(ctx context.Context, userID model.UserID, guess string) error {
	return r.submit(ctx, guessCmd{userID: userID, guess: guess}).err
}

// ChatRoom relays a message to every room member
func (r *Room) ChatRoom(ctx context.Context, from model.UserID, content string) error {
	return r.submit(ctx, chatCmd{from: from, content: content}).err
}

// ChatTeam relays a message to the sender's team
func (r *Room) ChatTeam(ctx context.Context, from model.UserID, content string) error {
	return r.submit(ctx, chatCmd{from: from, content: content, teamOnly: true}).err
}

// Info returns the current roster view
func (r *Room) Info(ctx context.Context) (model.RoomInfo, error) {
	res := r.submit(ctx, infoCmd{})
	return res.info, res.err
}

// submit hands cmd to the room goroutine and waits for its result. The inbox
// is unbuffered, so an accepted command is always answered.
func (r *Room) submit(ctx context.Context, cmd command) result {
	if err := ctx.Err(); err != nil {
		return result{err: err}
	}
	req := request{cmd: cmd, reply: make(chan result, 1)}
	select {
	case r.inbox <- req:
	case <-r.done:
		return result{err: model.ErrRoomNotFound}
	case <-r.quit:
		return result{err: model.ErrRoomNotFound}
	case <-ctx.Done():
		return result{err: ctx.Err()}
	}
	return <-req.reply
}

func (r *Room) handle(cmd command) result {
	var err error
	switch c := cmd.(type) {
	case joinCmd:
		err = r.handleJoin(c)
	case leaveCmd:
		err = r.handleLeave(c)
	case kickCmd:
		err = r.handleKick(c)
	case readyCmd:
		err = r.handleReady(c)
	case startCmd:
		err = r.handleStart(c)
	case guessCmd:
		err = r.handleGuess(c)
	case chatCmd:
		err = r.handleChat(c)
	case timeoutCmd:
		r.handleTimeout(c)
	case infoCmd:
	default:
		err = fmt.Errorf("unhandled room command %T", cmd)
	}
	if err != nil {
		return result{err: err}
	}
	return result{info: r.buildInfo()}
}

// Roster handlers

func (r *Room) handleJoin(c joinCmd) error {
	if r.isMember(c.userID) {
		return model.ErrAlreadyInRoom
	}
	if r.state == model.RoomStateInGame {
		return model.ErrRoomInGame
	}
	if len(r.roster) >= r.settings.Mode.MaxPlayers() {
		return model.ErrRoomFull
	}
	if r.settings.IsPrivate && c.password != r.settings.Password {
		return model.ErrWrongPassword
	}

	r.roster = append(r.roster, c.userID)
	r.assignTeams()
	r.updateState()

	r.logger.Info("player joined", slog.String("user_id", string(c.userID)), slog.Int("players", len(r.roster)))
	r.broadcastInfo(fmt.Sprintf("%s joined", c.userID))
	return nil
}

func (r *Room) handleLeave(c leaveCmd) error {
	if !r.isMember(c.userID) {
		return model.ErrNotInRoom
	}

	if r.game != nil && r.game.isParticipant(c.userID) {
		reason := fmt.Sprintf("%s left the game", c.userID)
		if c.disconnected {
			reason = fmt.Sprintf("%s disconnected", c.userID)
		}
		r.forfeit(c.userID, reason)
	}

	verb := "left"
	if c.disconnected {
		verb = "disconnected"
	}
	r.removePlayer(c.userID, fmt.Sprintf("%s %s", c.userID, verb))
	return nil
}

func (r *Room) handleKick(c kickCmd) error {
	if c.by != r.master {
		return model.ErrNotRoomMaster
	}
	if c.target == c.by {
		return fmt.Errorf("%w: cannot kick yourself", model.ErrInvalidInput)
	}
	if !r.isMember(c.target) {
		return model.ErrTargetNotFound
	}
	if r.state == model.RoomStateInGame {
		return model.ErrRoomInGame
	}

	r.deps.Notifier.SendTo(c.target, protocol.Kicked{
		RoomID:  int64(r.id),
		Content: fmt.Sprintf("kicked from %s by %s", r.settings.Name, c.by),
	})
	r.removePlayer(c.target, fmt.Sprintf("%s was kicked", c.target))
	return nil
}

func (r *Room) handleReady(c readyCmd) error {
	if !r.isMember(c.userID) {
		return model.ErrNotInRoom
	}
	if r.state == model.RoomStateInGame {
		return model.ErrRoomInGame
	}
	if c.userID == r.master {
		// The master's readiness is implicit
		return nil
	}

	r.ready[c.userID] = c.ready
	r.updateState()
	r.deps.Notifier.SendToUsers(r.roster, protocol.ReadyStatusUpdate{
		RoomID: int64(r.id),
		Ready:  protocol.ReadyMap(r.readySnapshot()),
	})
	return nil
}

func (r *Room) handleChat(c chatCmd) error {
	if !r.isMember(c.from) {
		return model.ErrNotInRoom
	}
	if !c.teamOnly {
		r.deps.Notifier.SendToUsers(r.roster, protocol.ChatRoom{UserID: string(c.from), Content: c.content})
		return nil
	}
	if !r.settings.Mode.IsTeamMode() {
		return fmt.Errorf("%w: team chat needs a team game", model.ErrInvalidInput)
	}
	r.deps.Notifier.SendToUsers(r.teamMembers(r.teams[c.from]), protocol.ChatTeam{UserID: string(c.from), Content: c.content})
	return nil
}

// removePlayer drops userID from the roster, handing mastership to the
// earliest remaining joiner if needed
func (r *Room) removePlayer(userID model.UserID, notice string) {
	for i, id := range r.roster {
		if id == userID {
			r.roster = append(r.roster[:i], r.roster[i+1:]...)
			break
		}
	}
	delete(r.ready, userID)
	delete(r.teams, userID)

	r.logger.Info("player removed", slog.String("user_id", string(userID)), slog.Int("players", len(r.roster)))
	if len(r.roster) == 0 {
		return
	}

	if userID == r.master {
		r.master = r.roster[0]
		delete(r.ready, r.master)
		notice = fmt.Sprintf("%s; %s is now room master", notice, r.master)
		r.logger.Info("master transferred", slog.String("master", string(r.master)))
	}
	r.assignTeams()
	r.updateState()
	r.broadcastInfo(notice)
}

// assignTeams splits the roster by join order: first half team 1, rest team 2
func (r *Room) assignTeams() {
	if !r.settings.Mode.IsTeamMode() {
		return
	}
	half := r.settings.Mode.MaxPlayers() / 2
	for i, id := range r.roster {
		if i < half {
			r.teams[id] = model.Team1
		} else {
			r.teams[id] = model.Team2
		}
	}
}

// updateState moves between FORMING and READY_CHECK outside of games
func (r *Room) updateState() {
	if r.state == model.RoomStateInGame {
		return
	}
	if len(r.roster) == r.settings.Mode.MaxPlayers() {
		r.state = model.RoomStateReadyCheck
	} else {
		r.state = model.RoomStateForming
	}
}

// canStart is true iff the room is exactly full and every non-master is ready
func (r *Room) canStart() bool {
	if len(r.roster) != r.settings.Mode.MaxPlayers() {
		return false
	}
	for _, id := range r.roster {
		if id != r.master && !r.ready[id] {
			return false
		}
	}
	return true
}

func (r *Room) isMember(userID model.UserID) bool {
	for _, id := range r.roster {
		if id == userID {
			return true
		}
	}
	return false
}

func (r *Room) teamMembers(team model.Team) []model.UserID {
	var members []model.UserID
	for _, id := range r.roster {
		if r.teams[id] == team {
			members = append(members, id)
		}
	}
	return members
}

func (r *Room) readySnapshot() map[model.UserID]bool {
	ready := make(map[model.UserID]bool, len(r.roster))
	for _, id := range r.roster {
		if id != r.master {
			ready[id] = r.ready[id]
		}
	}
	return ready
}

// Views

func (r *Room) buildSummary() model.RoomSummary {
	return model.RoomSummary{
		ID:              r.id,
		Name:            r.settings.Name,
		MasterID:        r.master,
		Players:         len(r.roster),
		MaxPlayers:      r.settings.Mode.MaxPlayers(),
		Status:          r.state.Status(),
		Mode:            r.settings.Mode,
		Difficulty:      r.settings.Difficulty,
		TurnTimeLimit:   r.settings.TurnTimeLimit,
		IsPrivate:       r.settings.IsPrivate,
		AllowSpectators: r.settings.AllowSpectators,
	}
}

func (r *Room) buildInfo() model.RoomInfo {
	members := make([]model.RoomMember, len(r.roster))
	for i, id := range r.roster {
		members[i] = model.RoomMember{
			UserID:   id,
			Ready:    r.ready[id],
			Team:     r.teams[id],
			IsMaster: id == r.master,
		}
	}
	return model.RoomInfo{
		Summary:  r.buildSummary(),
		State:    r.state,
		Members:  members,
		CanStart: r.canStart(),
	}
}

// publish stores the new summary and reports it if anything listed changed
func (r *Room) publish() {
	next := r.buildSummary()
	prev := r.summary.Swap(&next)
	if prev != nil && *prev == next {
		return
	}
	if r.deps.OnChange != nil {
		r.deps.OnChange(next)
	}
}

func (r *Room) broadcastInfo(notice string) {
	r.deps.Notifier.SendToUsers(r.roster, protocol.RoomInfoUpdate{
		Room:    protocol.RoomInfoFromModel(r.buildInfo()),
		Content: notice,
	})
}

// persistCtx bounds a store call made from the room goroutine
func (r *Room) persistCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.ctx, persistTimeout)
}
