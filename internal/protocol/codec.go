package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrMalformed   = errors.New("malformed message")
	ErrUnknownKind = errors.New("unknown message kind")
)

// Envelope is the frame carried on the wire
type Envelope struct {
	Type      Kind            `json:"type"`
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Encode wraps msg in an envelope stamped with now
func Encode(msg Message, now time.Time) ([]byte, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", msg.Kind(), err)
	}
	return json.Marshal(Envelope{
		Type:      msg.Kind(),
		Timestamp: now.UnixMilli(),
		Payload:   payload,
	})
}

// Decode parses a frame into its typed variant
func Decode(data []byte) (Message, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch env.Type {
	case KindLoginRequest:
		return decodeAs[LoginRequest](env)
	case KindLoginResponse:
		return decodeAs[LoginResponse](env)
	case KindRegisterRequest:
		return decodeAs[RegisterRequest](env)
	case KindRegisterResponse:
		return decodeAs[RegisterResponse](env)
	case KindLogout:
		return decodeAs[Logout](env)
	case KindRoomListRequest:
		return decodeAs[RoomListRequest](env)
	case KindRoomListResponse:
		return decodeAs[RoomListResponse](env)
	case KindCreateRoomRequest:
		return decodeAs[CreateRoomRequest](env)
	case KindCreateRoomResponse:
		return decodeAs[CreateRoomResponse](env)
	case KindJoinRoomRequest:
		return decodeAs[JoinRoomRequest](env)
	case KindJoinRoomResponse:
		return decodeAs[JoinRoomResponse](env)
	case KindLeaveRoom:
		return decodeAs[LeaveRoom](env)
	case KindRoomInfoUpdate:
		return decodeAs[RoomInfoUpdate](env)
	case KindKickPlayer:
		return decodeAs[KickPlayer](env)
	case KindKicked:
		return decodeAs[Kicked](env)
	case KindReady:
		return decodeAs[Ready](env)
	case KindReadyCancel:
		return decodeAs[ReadyCancel](env)
	case KindReadyStatusUpdate:
		return decodeAs[ReadyStatusUpdate](env)
	case KindStartGameRequest:
		return decodeAs[StartGameRequest](env)
	case KindStartGame:
		return decodeAs[StartGame](env)
	case KindTurnInfo:
		return decodeAs[TurnInfo](env)
	case KindGuess:
		return decodeAs[Guess](env)
	case KindGuessResult:
		return decodeAs[GuessResult](env)
	case KindTurnTimeout:
		return decodeAs[TurnTimeout](env)
	case KindGameResult, KindEndGame:
		return decodeAs[GameResult](env)
	case KindChatAll:
		return decodeAs[ChatAll](env)
	case KindChatRoom:
		return decodeAs[ChatRoom](env)
	case KindChatTeam:
		return decodeAs[ChatTeam](env)
	case KindChatWhisper:
		return decodeAs[ChatWhisper](env)
	case KindStatsRequest:
		return decodeAs[StatsRequest](env)
	case KindStatsResponse:
		return decodeAs[StatsResponse](env)
	case KindGameHistoryRequest:
		return decodeAs[GameHistoryRequest](env)
	case KindGameHistoryResponse:
		return decodeAs[GameHistoryResponse](env)
	case KindUserConnected:
		return decodeAs[UserConnected](env)
	case KindUserDisconnected:
		return decodeAs[UserDisconnected](env)
	case KindError:
		return decodeAs[Error](env)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, env.Type)
}

func decodeAs[T Message](env Envelope) (Message, error) {
	var msg T
	if len(env.Payload) == 0 || string(env.Payload) == "null" {
		return msg, nil
	}
	if err := json.Unmarshal(env.Payload, &msg); err != nil {
		return nil, fmt.Errorf("%w: %s payload: %v", ErrMalformed, env.Type, err)
	}
	return msg, nil
}
