package protocol

// Kind tags every frame on the wire
type Kind string

const (
	// Auth
	KindLoginRequest     Kind = "LOGIN_REQUEST"
	KindLoginResponse    Kind = "LOGIN_RESPONSE"
	KindRegisterRequest  Kind = "REGISTER_REQUEST"
	KindRegisterResponse Kind = "REGISTER_RESPONSE"
	KindLogout           Kind = "LOGOUT"

	// Rooms
	KindRoomListRequest    Kind = "ROOM_LIST_REQUEST"
	KindRoomListResponse   Kind = "ROOM_LIST_RESPONSE"
	KindCreateRoomRequest  Kind = "CREATE_ROOM_REQUEST"
	KindCreateRoomResponse Kind = "CREATE_ROOM_RESPONSE"
	KindJoinRoomRequest    Kind = "JOIN_ROOM_REQUEST"
	KindJoinRoomResponse   Kind = "JOIN_ROOM_RESPONSE"
	KindLeaveRoom          Kind = "LEAVE_ROOM"
	KindRoomInfoUpdate     Kind = "ROOM_INFO_UPDATE"
	KindKickPlayer         Kind = "KICK_PLAYER"
	KindKicked             Kind = "KICKED"

	// Ready / start
	KindReady             Kind = "READY"
	KindReadyCancel       Kind = "READY_CANCEL"
	KindReadyStatusUpdate Kind = "READY_STATUS_UPDATE"
	KindStartGameRequest  Kind = "START_GAME_REQUEST"
	KindStartGame         Kind = "START_GAME"

	// Play
	KindTurnInfo    Kind = "TURN_INFO"
	KindGuess       Kind = "GUESS"
	KindGuessResult Kind = "GUESS_RESULT"
	KindTurnTimeout Kind = "TURN_TIMEOUT"
	KindGameResult  Kind = "GAME_RESULT"
	KindEndGame     Kind = "END_GAME" // decoded as GAME_RESULT

	// Chat
	KindChatAll     Kind = "CHAT_ALL"
	KindChatRoom    Kind = "CHAT_ROOM"
	KindChatTeam    Kind = "CHAT_TEAM"
	KindChatWhisper Kind = "CHAT_WHISPER"

	// Stats / history
	KindStatsRequest        Kind = "STATS_REQUEST"
	KindStatsResponse       Kind = "STATS_RESPONSE"
	KindGameHistoryRequest  Kind = "GAME_HISTORY_REQUEST"
	KindGameHistoryResponse Kind = "GAME_HISTORY_RESPONSE"

	// Presence
	KindUserConnected    Kind = "USER_CONNECTED"
	KindUserDisconnected Kind = "USER_DISCONNECTED"

	KindError Kind = "ERROR"
)
