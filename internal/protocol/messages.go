package protocol

// Message is one variant of the wire protocol. Each kind has exactly one
// payload type carrying only its own fields.
type Message interface {
	Kind() Kind
}

// Client requests

type LoginRequest struct {
	UserID   string `json:"userId"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	UserID    string `json:"userId"`
	Password  string `json:"password"`
	Character string `json:"character,omitempty"`
}

type Logout struct{}

type RoomListRequest struct{}

type CreateRoomRequest struct {
	RoomName        string `json:"roomName"`
	GameMode        string `json:"gameMode"`
	Difficulty      string `json:"difficulty"`
	TurnTimeLimit   int    `json:"turnTimeLimit"`
	IsPrivate       bool   `json:"isPrivate,omitempty"`
	RoomPassword    string `json:"roomPassword,omitempty"`
	AllowSpectators bool   `json:"allowSpectators,omitempty"`
}

type JoinRoomRequest struct {
	RoomID       int64  `json:"roomId"`
	RoomPassword string `json:"roomPassword,omitempty"`
}

type LeaveRoom struct{}

type KickPlayer struct {
	TargetUserID string `json:"targetUserId"`
}

type Ready struct{}

type ReadyCancel struct{}

type StartGameRequest struct{}

type Guess struct {
	Guess string `json:"guess"`
}

type StatsRequest struct {
	UserID string `json:"userId,omitempty"` // empty means self
}

type GameHistoryRequest struct {
	Limit int `json:"limit,omitempty"`
}

// Chat kinds flow both ways; UserID is filled in by the server on relay.

type ChatAll struct {
	UserID  string `json:"userId,omitempty"`
	Content string `json:"content"`
}

type ChatRoom struct {
	UserID  string `json:"userId,omitempty"`
	Content string `json:"content"`
}

type ChatTeam struct {
	UserID  string `json:"userId,omitempty"`
	Content string `json:"content"`
}

type ChatWhisper struct {
	UserID       string `json:"userId,omitempty"`
	TargetUserID string `json:"targetUserId"`
	Content      string `json:"content"`
}

// Server responses and notices

type LoginResponse struct {
	UserID    string `json:"userId"`
	Character string `json:"character,omitempty"`
	Token     string `json:"token,omitempty"`
}

type RegisterResponse struct {
	UserID string `json:"userId"`
}

type RoomListResponse struct {
	Data []RoomSummary `json:"data"`
}

type CreateRoomResponse struct {
	Room RoomInfo `json:"room"`
}

type JoinRoomResponse struct {
	Room RoomInfo `json:"room"`
}

type RoomInfoUpdate struct {
	Room    RoomInfo `json:"room"`
	Content string   `json:"content,omitempty"`
}

type Kicked struct {
	RoomID  int64  `json:"roomId"`
	Content string `json:"content,omitempty"`
}

type ReadyStatusUpdate struct {
	RoomID int64           `json:"roomId"`
	Ready  map[string]bool `json:"ready"`
}

type StartGame struct {
	GameID     string         `json:"gameId"`
	GameMode   string         `json:"gameMode"`
	Difficulty string         `json:"difficulty"`
	Teams      map[string]int `json:"teams,omitempty"`
}

type TurnInfo struct {
	Round             int    `json:"round"`
	IsTop             bool   `json:"isTop"`
	CurrentTurnPlayer string `json:"currentTurnPlayer"`
	TurnTimeLimit     int    `json:"turnTimeLimit"`
	Deadline          int64  `json:"deadline"` // unix millis
}

type GuessResult struct {
	UserID string `json:"userId"`
	Guess  string `json:"guess"`
	Strike int    `json:"strike"`
	Ball   int    `json:"ball"`
	Round  int    `json:"round"`
	IsTop  bool   `json:"isTop"`
}

type TurnTimeout struct {
	UserID string `json:"userId"`
	Round  int    `json:"round"`
	IsTop  bool   `json:"isTop"`
}

type GameResult struct {
	GameID     string            `json:"gameId"`
	WinnerIDs  []string          `json:"winnerId,omitempty"`
	WinnerTeam int               `json:"winnerTeam,omitempty"`
	IsDraw     bool              `json:"isDraw"`
	Reason     string            `json:"content,omitempty"`
	Secrets    map[string]string `json:"secrets,omitempty"`
}

type StatsResponse struct {
	UserID  string  `json:"userId"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	Draws   int     `json:"draws"`
	WinRate float64 `json:"winRate"`
}

type GameHistoryResponse struct {
	Games []GameHistoryEntry `json:"data"`
}

type UserConnected struct {
	UserID string `json:"userId"`
}

type UserDisconnected struct {
	UserID string `json:"userId"`
}

type Error struct {
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

func (LoginRequest) Kind() Kind        { return KindLoginRequest }
func (LoginResponse) Kind() Kind       { return KindLoginResponse }
func (RegisterRequest) Kind() Kind     { return KindRegisterRequest }
func (RegisterResponse) Kind() Kind    { return KindRegisterResponse }
func (Logout) Kind() Kind              { return KindLogout }
func (RoomListRequest) Kind() Kind     { return KindRoomListRequest }
func (RoomListResponse) Kind() Kind    { return KindRoomListResponse }
func (CreateRoomRequest) Kind() Kind   { return KindCreateRoomRequest }
func (CreateRoomResponse) Kind() Kind  { return KindCreateRoomResponse }
func (JoinRoomRequest) Kind() Kind     { return KindJoinRoomRequest }
func (JoinRoomResponse) Kind() Kind    { return KindJoinRoomResponse }
func (LeaveRoom) Kind() Kind           { return KindLeaveRoom }
func (RoomInfoUpdate) Kind() Kind      { return KindRoomInfoUpdate }
func (KickPlayer) Kind() Kind          { return KindKickPlayer }
func (Kicked) Kind() Kind              { return KindKicked }
func (Ready) Kind() Kind               { return KindReady }
func (ReadyCancel) Kind() Kind         { return KindReadyCancel }
func (ReadyStatusUpdate) Kind() Kind   { return KindReadyStatusUpdate }
func (StartGameRequest) Kind() Kind    { return KindStartGameRequest }
func (StartGame) Kind() Kind           { return KindStartGame }
func (TurnInfo) Kind() Kind            { return KindTurnInfo }
func (Guess) Kind() Kind               { return KindGuess }
func (GuessResult) Kind() Kind         { return KindGuessResult }
func (TurnTimeout) Kind() Kind         { return KindTurnTimeout }
func (GameResult) Kind() Kind          { return KindGameResult }
func (ChatAll) Kind() Kind             { return KindChatAll }
func (ChatRoom) Kind() Kind            { return KindChatRoom }
func (ChatTeam) Kind() Kind            { return KindChatTeam }
func (ChatWhisper) Kind() Kind         { return KindChatWhisper }
func (StatsRequest) Kind() Kind        { return KindStatsRequest }
func (StatsResponse) Kind() Kind       { return KindStatsResponse }
func (GameHistoryRequest) Kind() Kind  { return KindGameHistoryRequest }
func (GameHistoryResponse) Kind() Kind { return KindGameHistoryResponse }
func (UserConnected) Kind() Kind       { return KindUserConnected }
func (UserDisconnected) Kind() Kind    { return KindUserDisconnected }
func (Error) Kind() Kind               { return KindError }
