package model

import "fmt"

// RoomID identifies a room. Assigned from a monotonic counter and never reused.
type RoomID int64

// Team numbers used in TWO_VS_TWO rooms. NoTeam marks individual mode.
type Team int

const (
	NoTeam Team = 0
	Team1  Team = 1
	Team2  Team = 2
)

// Opponent returns the opposing team
func (t Team) Opponent() Team {
	switch t {
	case Team1:
		return Team2
	case Team2:
		return Team1
	}
	return NoTeam
}

// GameMode decides the room size and whether teams share a secret
type GameMode string

const (
	ModeOneVsOne GameMode = "ONE_VS_ONE"
	ModeTwoVsTwo GameMode = "TWO_VS_TWO"
)

// MaxPlayers returns the exact occupancy a game of this mode needs
func (m GameMode) MaxPlayers() int {
	switch m {
	case ModeOneVsOne:
		return 2
	case ModeTwoVsTwo:
		return 4
	}
	return 0
}

// IsTeamMode reports whether players are split into two teams
func (m GameMode) IsTeamMode() bool {
	return m == ModeTwoVsTwo
}

// Valid reports whether m is a known mode
func (m GameMode) Valid() bool {
	return m.MaxPlayers() > 0
}

// Difficulty decides the secret length
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// DigitCount returns the secret and guess length for the difficulty
func (d Difficulty) DigitCount() int {
	switch d {
	case DifficultyEasy:
		return 3
	case DifficultyMedium:
		return 4
	case DifficultyHard:
		return 5
	}
	return 0
}

// Valid reports whether d is a known difficulty
func (d Difficulty) Valid() bool {
	return d.DigitCount() > 0
}

// AllowedTurnLimits are the permitted per-turn time limits in seconds
var AllowedTurnLimits = []int{15, 30, 60}

// RoomSettings are chosen by the host when creating a room
type RoomSettings struct {
	Name            string
	Mode            GameMode
	Difficulty      Difficulty
	TurnTimeLimit   int // seconds
	IsPrivate       bool
	Password        string // present iff IsPrivate
	AllowSpectators bool
}

// Validate checks the settings against the allowed values
func (s RoomSettings) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: room name is required", ErrInvalidInput)
	}
	if !s.Mode.Valid() {
		return fmt.Errorf("%w: unknown game mode %q", ErrInvalidInput, s.Mode)
	}
	if !s.Difficulty.Valid() {
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidInput, s.Difficulty)
	}
	validLimit := false
	for _, l := range AllowedTurnLimits {
		if s.TurnTimeLimit == l {
			validLimit = true
			break
		}
	}
	if !validLimit {
		return fmt.Errorf("%w: turn time limit %d", ErrOutOfRange, s.TurnTimeLimit)
	}
	if s.IsPrivate && s.Password == "" {
		return fmt.Errorf("%w: private rooms need a password", ErrInvalidInput)
	}
	if !s.IsPrivate && s.Password != "" {
		return fmt.Errorf("%w: password given for a public room", ErrInvalidInput)
	}
	return nil
}

// RoomState is the phase of a room's state machine
type RoomState string

const (
	RoomStateForming    RoomState = "FORMING"     // accepting players
	RoomStateReadyCheck RoomState = "READY_CHECK" // full, tracking ready flags
	RoomStateInGame     RoomState = "IN_GAME"
	RoomStateEnded      RoomState = "ENDED" // transient, reverts to FORMING
)

// RoomStatus is the coarse status shown in room lists
type RoomStatus string

const (
	RoomStatusWaiting RoomStatus = "WAITING"
	RoomStatusInGame  RoomStatus = "IN_GAME"
)

// Status maps a state to its list status
func (s RoomState) Status() RoomStatus {
	if s == RoomStateInGame {
		return RoomStatusInGame
	}
	return RoomStatusWaiting
}

// RoomSummary is a point-in-time view of a room for listings
type RoomSummary struct {
	ID              RoomID
	Name            string
	MasterID        UserID
	Players         int
	MaxPlayers      int
	Status          RoomStatus
	Mode            GameMode
	Difficulty      Difficulty
	TurnTimeLimit   int
	IsPrivate       bool
	AllowSpectators bool
}

// Occupancy renders the player count as "current/max"
func (s RoomSummary) Occupancy() string {
	return fmt.Sprintf("%d/%d", s.Players, s.MaxPlayers)
}

// RoomMember is one roster entry
type RoomMember struct {
	UserID   UserID
	Ready    bool
	Team     Team
	IsMaster bool
}

// RoomInfo is the full roster view sent to room members
type RoomInfo struct {
	Summary  RoomSummary
	State    RoomState
	Members  []RoomMember // join order
	CanStart bool
}
