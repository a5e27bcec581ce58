package model

import "errors"

// Common errors used across the application
var (
	// Auth errors
	ErrDuplicateID      = errors.New("user id already exists")
	ErrLoginFailed      = errors.New("invalid user id or password")
	ErrAlreadyLoggedIn  = errors.New("user is already logged in")
	ErrNotAuthenticated = errors.New("login required")
	ErrAccountNotFound  = errors.New("account not found")
	ErrInvalidToken     = errors.New("invalid or expired token")

	// Room errors
	ErrRoomFull         = errors.New("room is full")
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomInGame       = errors.New("room is in game")
	ErrWrongPassword    = errors.New("wrong room password")
	ErrNotEnoughPlayers = errors.New("not enough players to start")
	ErrNotAllReady      = errors.New("not every player is ready")
	ErrNotRoomMaster    = errors.New("only the room master can do that")
	ErrAlreadyInRoom    = errors.New("already in a room")
	ErrNotInRoom        = errors.New("not in a room")
	ErrTargetNotFound   = errors.New("target user not found")

	// Game errors
	ErrInvalidInputFormat = errors.New("guess must be the right number of digits")
	ErrDuplicateDigits    = errors.New("guess must not repeat a digit")
	ErrOutOfRange         = errors.New("value out of range")
	ErrTurnTimeout        = errors.New("turn timed out")
	ErrNotYourTurn        = errors.New("not this player's turn")
	ErrGameNotRunning     = errors.New("no game in progress")

	// Server errors
	ErrServerFull   = errors.New("server room limit reached")
	ErrInvalidInput = errors.New("invalid input")
)
