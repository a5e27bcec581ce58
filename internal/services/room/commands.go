package room

import "github.com/mcoot/baseballgame-go/internal/model"

// command is one request to the room goroutine. The set is closed; handle
// switches over every variant.
type command interface {
	isCommand()
}

type joinCmd struct {
	userID   model.UserID
	password string
}

type leaveCmd struct {
	userID       model.UserID
	disconnected bool
}

type kickCmd struct {
	by     model.UserID
	target model.UserID
}

type readyCmd struct {
	userID model.UserID
	ready  bool
}

type startCmd struct {
	userID model.UserID
}

type guessCmd struct {
	userID model.UserID
	guess  string
}

type chatCmd struct {
	from     model.UserID
	content  string
	teamOnly bool
}

type timeoutCmd struct {
	turnSeq int
}

type infoCmd struct{}

func (joinCmd) isCommand()    {}
func (leaveCmd) isCommand()   {}
func (kickCmd) isCommand()    {}
func (readyCmd) isCommand()   {}
func (startCmd) isCommand()   {}
func (guessCmd) isCommand()   {}
func (chatCmd) isCommand()    {}
func (timeoutCmd) isCommand() {}
func (infoCmd) isCommand()    {}

// request pairs a command with the channel its result is sent on
type request struct {
	cmd   command
	reply chan result
}

type result struct {
	info model.RoomInfo
	err  error
}
