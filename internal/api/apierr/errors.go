package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/baseballgame-go/internal/model"
	"github.com/mcoot/baseballgame-go/internal/protocol"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Error codes shared by HTTP responses and websocket ERROR frames
const (
	// Auth
	CodeDuplicateID      = "DUPLICATE_ID"
	CodeLoginFailed      = "LOGIN_FAILED"
	CodeAlreadyLoggedIn  = "ALREADY_LOGGED_IN"
	CodeNotAuthenticated = "NOT_AUTHENTICATED"

	// Room
	CodeRoomFull         = "ROOM_FULL"
	CodeRoomNotFound     = "ROOM_NOT_FOUND"
	CodeRoomInGame       = "ROOM_IN_GAME"
	CodeWrongPassword    = "WRONG_PASSWORD"
	CodeNotEnoughPlayers = "NOT_ENOUGH_PLAYERS"
	CodeNotAllReady      = "NOT_ALL_READY"
	CodeNotRoomMaster    = "NOT_ROOM_MASTER"
	CodeAlreadyInRoom    = "ALREADY_IN_ROOM"
	CodeNotInRoom        = "NOT_IN_ROOM"
	CodeTargetNotFound   = "TARGET_NOT_FOUND"

	// Game
	CodeInvalidInputFormat = "INVALID_INPUT_FORMAT"
	CodeDuplicateDigits    = "DUPLICATE_DIGITS"
	CodeOutOfRange         = "OUT_OF_RANGE"
	CodeTurnTimeout        = "TURN_TIMEOUT"
	CodeNotYourTurn        = "NOT_YOUR_TURN"
	CodeGameNotRunning     = "GAME_NOT_RUNNING"

	// Server
	CodeServerFull   = "SERVER_FULL"
	CodeInvalidInput = "INVALID_INPUT"
	CodeUnknownError = "UNKNOWN_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

type mapping struct {
	target error
	status int
	code   string
	msg    string
}

// mappings is checked in order with errors.Is
var mappings = []mapping{
	{model.ErrDuplicateID, http.StatusConflict, CodeDuplicateID, "User id already exists"},
	{model.ErrLoginFailed, http.StatusUnauthorized, CodeLoginFailed, "Invalid user id or password"},
	{model.ErrAlreadyLoggedIn, http.StatusConflict, CodeAlreadyLoggedIn, "User is already logged in"},
	{model.ErrNotAuthenticated, http.StatusUnauthorized, CodeNotAuthenticated, "Login required"},
	{model.ErrInvalidToken, http.StatusUnauthorized, CodeNotAuthenticated, "Invalid or expired token"},
	{model.ErrAccountNotFound, http.StatusNotFound, CodeTargetNotFound, "User not found"},

	{model.ErrRoomFull, http.StatusConflict, CodeRoomFull, "Room is full"},
	{model.ErrRoomNotFound, http.StatusNotFound, CodeRoomNotFound, "Room not found"},
	{model.ErrRoomInGame, http.StatusConflict, CodeRoomInGame, "Room is in a game"},
	{model.ErrWrongPassword, http.StatusForbidden, CodeWrongPassword, "Wrong room password"},
	{model.ErrNotEnoughPlayers, http.StatusConflict, CodeNotEnoughPlayers, "Room needs more players"},
	{model.ErrNotAllReady, http.StatusConflict, CodeNotAllReady, "Not every player is ready"},
	{model.ErrNotRoomMaster, http.StatusForbidden, CodeNotRoomMaster, "Only the room master can do that"},
	{model.ErrAlreadyInRoom, http.StatusConflict, CodeAlreadyInRoom, "Already in a room"},
	{model.ErrNotInRoom, http.StatusConflict, CodeNotInRoom, "Not in a room"},
	{model.ErrTargetNotFound, http.StatusNotFound, CodeTargetNotFound, "Target user not found"},

	{model.ErrInvalidInputFormat, http.StatusBadRequest, CodeInvalidInputFormat, "Guess must be the right number of digits"},
	{model.ErrDuplicateDigits, http.StatusBadRequest, CodeDuplicateDigits, "Guess digits must be distinct"},
	{model.ErrOutOfRange, http.StatusBadRequest, CodeOutOfRange, "Value out of range"},
	{model.ErrTurnTimeout, http.StatusConflict, CodeTurnTimeout, "Turn timed out"},
	{model.ErrNotYourTurn, http.StatusForbidden, CodeNotYourTurn, "Not your turn"},
	{model.ErrGameNotRunning, http.StatusConflict, CodeGameNotRunning, "No game is running"},

	{model.ErrServerFull, http.StatusServiceUnavailable, CodeServerFull, "Server has no free room slots"},
	{model.ErrInvalidInput, http.StatusBadRequest, CodeInvalidInput, "Invalid input"},
	{protocol.ErrMalformed, http.StatusBadRequest, CodeInvalidInput, "Malformed message"},
	{protocol.ErrUnknownKind, http.StatusBadRequest, CodeInvalidInput, "Unknown message type"},
}

// Classify resolves err to its wire error and HTTP status. Unrecognised
// errors become UNKNOWN_ERROR.
func Classify(err error) (APIError, int) {
	he := toHTTPError(err)
	return he.apiError, he.status
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}
	for _, m := range mappings {
		if errors.Is(err, m.target) {
			return &httpError{m.status, APIError{m.code, m.msg}}
		}
	}
	return &httpError{http.StatusInternalServerError, APIError{CodeUnknownError, "Internal server error"}}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidInput, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeNotAuthenticated, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeUnknownError, "Internal server error"}}
}
