package room

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/baseballgame-go/internal/dependencies/clock"
	"github.com/mcoot/baseballgame-go/internal/model"
	"github.com/mcoot/baseballgame-go/internal/protocol"
	"github.com/mcoot/baseballgame-go/internal/services/scoring"
)

// game is the state of one running match
type game struct {
	id         model.GameID
	mode       model.GameMode
	difficulty model.Difficulty

	// participants and teams are snapshots taken at start
	participants []model.UserID
	teams        map[model.UserID]model.Team

	// secretByUser holds each player's secret; teammates share one
	secretByUser map[model.UserID]string

	round int
	isTop bool

	turnSeq  int
	timer    clock.Timer
	deadline time.Time

	// timedOut is the player whose turn the timer last took, until the
	// next accepted guess
	timedOut model.UserID
}

func (g *game) isParticipant(userID model.UserID) bool {
	_, ok := g.secretByUser[userID]
	return ok
}

// currentPlayer is the guesser for this half. In team mode the half belongs
// to a team and its members alternate by round.
func (g *game) currentPlayer() model.UserID {
	if !g.mode.IsTeamMode() {
		if g.isTop {
			return g.participants[0]
		}
		return g.participants[1]
	}

	team := model.Team2
	if g.isTop {
		team = model.Team1
	}
	members := g.teamMembers(team)
	return members[(g.round-1)%len(members)]
}

func (g *game) teamMembers(team model.Team) []model.UserID {
	var members []model.UserID
	for _, id := range g.participants {
		if g.teams[id] == team {
			members = append(members, id)
		}
	}
	return members
}

// opponents returns everyone on the other side from userID
func (g *game) opponents(userID model.UserID) []model.UserID {
	if !g.mode.IsTeamMode() {
		var others []model.UserID
		for _, id := range g.participants {
			if id != userID {
				others = append(others, id)
			}
		}
		return others
	}
	return g.teamMembers(g.teams[userID].Opponent())
}

// side returns userID together with any teammates
func (g *game) side(userID model.UserID) []model.UserID {
	if !g.mode.IsTeamMode() {
		return []model.UserID{userID}
	}
	return g.teamMembers(g.teams[userID])
}

// targetFor resolves the secret userID is trying to break
func (g *game) targetFor(userID model.UserID) string {
	return g.secretByUser[g.opponents(userID)[0]]
}

func (r *Room) handleStart(c startCmd) error {
	if c.userID != r.master {
		return model.ErrNotRoomMaster
	}
	if r.state == model.RoomStateInGame {
		return model.ErrRoomInGame
	}
	if len(r.roster) != r.settings.Mode.MaxPlayers() {
		return model.ErrNotEnoughPlayers
	}
	if !r.canStart() {
		return model.ErrNotAllReady
	}

	g := &game{
		id:           model.GameID(r.deps.Random.ID()),
		mode:         r.settings.Mode,
		difficulty:   r.settings.Difficulty,
		participants: append([]model.UserID(nil), r.roster...),
		teams:        make(map[model.UserID]model.Team, len(r.teams)),
		secretByUser: make(map[model.UserID]string, len(r.roster)),
		round:        1,
		isTop:        true,
	}
	for id, team := range r.teams {
		g.teams[id] = team
	}

	digits := r.settings.Difficulty.DigitCount()
	if g.mode.IsTeamMode() {
		for _, team := range []model.Team{model.Team1, model.Team2} {
			secret := r.deps.Scoring.GenerateSecret(digits)
			for _, id := range g.teamMembers(team) {
				g.secretByUser[id] = secret
			}
		}
	} else {
		for _, id := range g.participants {
			g.secretByUser[id] = r.deps.Scoring.GenerateSecret(digits)
		}
	}

	r.game = g
	r.state = model.RoomStateInGame

	r.logger.Info("game started",
		slog.String("game_id", string(g.id)),
		slog.String("mode", string(g.mode)),
		slog.String("difficulty", string(g.difficulty)))

	r.deps.Notifier.SendToUsers(r.roster, protocol.StartGame{
		GameID:     string(g.id),
		GameMode:   string(g.mode),
		Difficulty: string(g.difficulty),
		Teams:      protocol.TeamMap(g.teams),
	})
	r.beginTurn()
	return nil
}

func (r *Room) handleGuess(c guessCmd) error {
	g := r.game
	if g == nil {
		return model.ErrGameNotRunning
	}
	if !g.isParticipant(c.userID) {
		return model.ErrNotInRoom
	}
	if g.currentPlayer() != c.userID {
		if g.timedOut == c.userID {
			return model.ErrTurnTimeout
		}
		return model.ErrNotYourTurn
	}
	digits := g.difficulty.DigitCount()
	if err := scoring.ValidateGuess(c.guess, digits); err != nil {
		return err
	}
	g.timedOut = ""

	score := scoring.Evaluate(g.targetFor(c.userID), c.guess)

	// Notify before persisting; the broadcast never waits on storage
	result := protocol.GuessResult{
		UserID: string(c.userID),
		Guess:  c.guess,
		Strike: score.Strike,
		Ball:   score.Ball,
		Round:  g.round,
		IsTop:  g.isTop,
	}
	if g.mode.IsTeamMode() {
		r.deps.Notifier.SendToUsers(r.teamMembers(g.teams[c.userID]), result)
	} else {
		r.deps.Notifier.SendToUsers(r.roster, result)
	}

	ctx, cancel := r.persistCtx()
	_ = r.deps.History.RecordGuess(ctx, model.GuessRecord{
		GameID:   g.id,
		Round:    g.round,
		PlayerID: c.userID,
		Guess:    c.guess,
		Strike:   score.Strike,
		Ball:     score.Ball,
	})
	cancel()

	if score.IsHomeRun(digits) {
		r.endGame(g.side(c.userID), false, fmt.Sprintf("%s guessed %s", c.userID, c.guess))
		return nil
	}
	r.advanceTurn()
	return nil
}

func (r *Room) handleTimeout(c timeoutCmd) {
	g := r.game
	if g == nil || c.turnSeq != g.turnSeq {
		// Stale timer from an earlier turn or game
		return
	}

	current := g.currentPlayer()
	r.logger.Info("turn timed out",
		slog.String("game_id", string(g.id)),
		slog.String("user_id", string(current)),
		slog.Int("round", g.round))

	r.deps.Notifier.SendToUsers(r.roster, protocol.TurnTimeout{
		UserID: string(current),
		Round:  g.round,
		IsTop:  g.isTop,
	})
	g.timedOut = current
	r.advanceTurn()
}

// advanceTurn flips top to bottom, or bottom to the next round's top, and
// ends the game as a draw once the last round is spent
func (r *Room) advanceTurn() {
	g := r.game
	if g.isTop {
		g.isTop = false
	} else {
		g.isTop = true
		g.round++
	}
	if g.round > model.MaxRounds {
		r.endGame(nil, true, "all rounds played")
		return
	}
	r.beginTurn()
}

// beginTurn announces the current half and arms the turn timer
func (r *Room) beginTurn() {
	g := r.game
	limit := time.Duration(r.settings.TurnTimeLimit) * time.Second
	g.turnSeq++
	g.deadline = r.deps.Clock.Now().Add(limit)

	r.stopTimer()
	if r.cfg.EnforceTurnTimeout {
		seq := g.turnSeq
		g.timer = r.deps.Clock.AfterFunc(limit, func() {
			r.submit(r.ctx, timeoutCmd{turnSeq: seq})
		})
	}

	r.deps.Notifier.SendToUsers(r.roster, protocol.TurnInfo{
		Round:             g.round,
		IsTop:             g.isTop,
		CurrentTurnPlayer: string(g.currentPlayer()),
		TurnTimeLimit:     r.settings.TurnTimeLimit,
		Deadline:          g.deadline.UnixMilli(),
	})
}

func (r *Room) stopTimer() {
	if r.game != nil && r.game.timer != nil {
		r.game.timer.Stop()
		r.game.timer = nil
	}
}

// forfeit ends the game in favour of the leaver's opponents
func (r *Room) forfeit(leaver model.UserID, reason string) {
	r.logger.Info("game forfeited", slog.String("game_id", string(r.game.id)), slog.String("user_id", string(leaver)))
	r.endGame(r.game.opponents(leaver), false, reason)
}

// endGame announces the outcome, records stats and history, then returns the
// room to FORMING with ready flags cleared
func (r *Room) endGame(winners []model.UserID, isDraw bool, reason string) {
	g := r.game
	r.stopTimer()
	r.state = model.RoomStateEnded

	winnerTeam := model.NoTeam
	if g.mode.IsTeamMode() && len(winners) > 0 {
		winnerTeam = g.teams[winners[0]]
	}
	secrets := make(map[string]string, len(g.secretByUser))
	for id, secret := range g.secretByUser {
		secrets[string(id)] = secret
	}

	r.deps.Notifier.SendToUsers(r.roster, protocol.GameResult{
		GameID:     string(g.id),
		WinnerIDs:  protocol.UserIDStrings(winners),
		WinnerTeam: int(winnerTeam),
		IsDraw:     isDraw,
		Reason:     reason,
		Secrets:    secrets,
	})

	won := make(map[model.UserID]bool, len(winners))
	for _, id := range winners {
		won[id] = true
	}
	for _, id := range g.participants {
		outcome := model.OutcomeLoss
		switch {
		case isDraw:
			outcome = model.OutcomeDraw
		case won[id]:
			outcome = model.OutcomeWin
		}
		ctx, cancel := r.persistCtx()
		if err := r.deps.Results.RecordResult(ctx, id, outcome); err != nil {
			r.logger.Error("failed to record result",
				slog.String("user_id", string(id)),
				slog.String("error", err.Error()))
		}
		cancel()
	}

	ctx, cancel := r.persistCtx()
	_ = r.deps.History.RecordGame(ctx, model.GameSummary{
		GameID:       g.id,
		Timestamp:    r.deps.Clock.Now(),
		Participants: g.participants,
		Mode:         g.mode,
		Difficulty:   g.difficulty,
		Winners:      winners,
		IsDraw:       isDraw,
	})
	cancel()

	r.logger.Info("game ended",
		slog.String("game_id", string(g.id)),
		slog.Bool("draw", isDraw),
		slog.String("reason", reason))

	r.game = nil
	r.ready = make(map[model.UserID]bool)
	r.state = model.RoomStateForming
	r.updateState()

	r.deps.Notifier.SendToUsers(r.roster, protocol.ReadyStatusUpdate{
		RoomID: int64(r.id),
		Ready:  protocol.ReadyMap(r.readySnapshot()),
	})
	r.broadcastInfo("game over")
}
