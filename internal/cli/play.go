package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/baseballgame-go/internal/model"
	"github.com/mcoot/baseballgame-go/internal/protocol"
)

var (
	errQuit = errors.New("quit")
	errHelp = errors.New("help")
)

const replHelp = `Commands:
  /list                                          list rooms
  /create <name> <1v1|2v2> <easy|medium|hard> <turn seconds> [password]
  /join <room id> [password]                     join a room
  /leave                                         leave the current room
  /ready, /unready                               toggle ready
  /start                                         start the game (room master)
  /guess <digits>                                guess on your turn
  /chat <text>                                   talk to the room (or just type)
  /all <text>                                    talk to everyone online
  /team <text>                                   talk to your team
  /whisper <user> <text>                         private message
  /kick <user>                                   remove a player (room master)
  /stats [user]                                  win/loss record
  /history [limit]                               your recent games
  /quit                                          log out and exit`

// gameConn is the part of the game client the REPL drives
type gameConn interface {
	Send(ctx context.Context, msg protocol.Message) error
	Request(ctx context.Context, msg protocol.Message, want ...protocol.Kind) (protocol.Message, error)
	Events() <-chan protocol.Message
	Done() <-chan struct{}
}

// replCommand is a parsed input line. Commands without reply kinds are
// fire-and-forget; their results arrive as events.
type replCommand struct {
	msg  protocol.Message
	want []protocol.Kind
}

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play <user> <password>",
		Short: "Log in and play interactively",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			dialCtx, cancel := context.WithTimeout(ctx, requestTimeout)
			defer cancel()

			gc, err := dialGame(dialCtx)
			if err != nil {
				return err
			}
			defer func() { _ = gc.Close() }()

			reply, err := gc.Request(dialCtx, protocol.LoginRequest{UserID: args[0], Password: args[1]}, protocol.KindLoginResponse)
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(reply)
			if cfg.Output != "json" {
				out.PrintMessage("type /help for commands")
			}
			return runREPL(ctx, gc, cmd.InOrStdin(), out)
		},
	}
}

func runREPL(ctx context.Context, gc gameConn, in io.Reader, out *Output) error {
	go func() {
		for msg := range gc.Events() {
			out.Print(msg)
		}
	}()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-gc.Done():
			out.PrintMessage("disconnected from server")
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			cmd, err := parseCommand(line)
			switch {
			case errors.Is(err, errQuit):
				_ = gc.Send(ctx, protocol.Logout{})
				return nil
			case errors.Is(err, errHelp):
				out.PrintMessage(replHelp)
				continue
			case err != nil:
				out.PrintError(err)
				continue
			case cmd == nil:
				continue
			}
			if err := execute(ctx, gc, cmd, out); err != nil {
				out.PrintError(err)
			}
		}
	}
}

func execute(ctx context.Context, gc gameConn, cmd *replCommand, out *Output) error {
	if len(cmd.want) == 0 {
		return gc.Send(ctx, cmd.msg)
	}
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	reply, err := gc.Request(reqCtx, cmd.msg, cmd.want...)
	if err != nil {
		return err
	}
	out.Print(reply)
	return nil
}

// parseCommand turns one input line into a protocol message. A blank line
// yields nil; a line without a leading slash is room chat.
func parseCommand(line string) (*replCommand, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}
	if !strings.HasPrefix(line, "/") {
		return &replCommand{msg: protocol.ChatRoom{Content: line}}, nil
	}

	name, rest, _ := strings.Cut(line[1:], " ")
	rest = strings.TrimSpace(rest)
	fields := strings.Fields(rest)

	switch strings.ToLower(name) {
	case "quit", "exit":
		return nil, errQuit
	case "help", "?":
		return nil, errHelp
	case "list":
		return &replCommand{msg: protocol.RoomListRequest{}, want: []protocol.Kind{protocol.KindRoomListResponse}}, nil
	case "create":
		return parseCreate(fields)
	case "join":
		if len(fields) < 1 || len(fields) > 2 {
			return nil, fmt.Errorf("usage: /join <room id> [password]")
		}
		id, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("room id must be a number: %q", fields[0])
		}
		req := protocol.JoinRoomRequest{RoomID: id}
		if len(fields) == 2 {
			req.RoomPassword = fields[1]
		}
		return &replCommand{msg: req, want: []protocol.Kind{protocol.KindJoinRoomResponse}}, nil
	case "leave":
		return &replCommand{msg: protocol.LeaveRoom{}}, nil
	case "ready":
		return &replCommand{msg: protocol.Ready{}}, nil
	case "unready":
		return &replCommand{msg: protocol.ReadyCancel{}}, nil
	case "start":
		return &replCommand{msg: protocol.StartGameRequest{}}, nil
	case "guess", "g":
		if len(fields) != 1 {
			return nil, fmt.Errorf("usage: /guess <digits>")
		}
		return &replCommand{msg: protocol.Guess{Guess: fields[0]}}, nil
	case "chat":
		if rest == "" {
			return nil, fmt.Errorf("usage: /chat <text>")
		}
		return &replCommand{msg: protocol.ChatRoom{Content: rest}}, nil
	case "all":
		if rest == "" {
			return nil, fmt.Errorf("usage: /all <text>")
		}
		return &replCommand{msg: protocol.ChatAll{Content: rest}}, nil
	case "team":
		if rest == "" {
			return nil, fmt.Errorf("usage: /team <text>")
		}
		return &replCommand{msg: protocol.ChatTeam{Content: rest}}, nil
	case "whisper", "w":
		target, text, _ := strings.Cut(rest, " ")
		text = strings.TrimSpace(text)
		if target == "" || text == "" {
			return nil, fmt.Errorf("usage: /whisper <user> <text>")
		}
		return &replCommand{msg: protocol.ChatWhisper{TargetUserID: target, Content: text}}, nil
	case "kick":
		if len(fields) != 1 {
			return nil, fmt.Errorf("usage: /kick <user>")
		}
		return &replCommand{msg: protocol.KickPlayer{TargetUserID: fields[0]}}, nil
	case "stats":
		if len(fields) > 1 {
			return nil, fmt.Errorf("usage: /stats [user]")
		}
		req := protocol.StatsRequest{}
		if len(fields) == 1 {
			req.UserID = fields[0]
		}
		return &replCommand{msg: req, want: []protocol.Kind{protocol.KindStatsResponse}}, nil
	case "history":
		req := protocol.GameHistoryRequest{}
		if len(fields) > 1 {
			return nil, fmt.Errorf("usage: /history [limit]")
		}
		if len(fields) == 1 {
			limit, err := strconv.Atoi(fields[0])
			if err != nil || limit < 1 {
				return nil, fmt.Errorf("limit must be a positive number: %q", fields[0])
			}
			req.Limit = limit
		}
		return &replCommand{msg: req, want: []protocol.Kind{protocol.KindGameHistoryResponse}}, nil
	}
	return nil, fmt.Errorf("unknown command /%s, try /help", name)
}

func parseCreate(fields []string) (*replCommand, error) {
	if len(fields) < 4 || len(fields) > 5 {
		return nil, fmt.Errorf("usage: /create <name> <1v1|2v2> <easy|medium|hard> <turn seconds> [password]")
	}
	limit, err := strconv.Atoi(fields[3])
	if err != nil {
		return nil, fmt.Errorf("turn seconds must be a number: %q", fields[3])
	}
	req := protocol.CreateRoomRequest{
		RoomName:      fields[0],
		GameMode:      string(parseMode(fields[1])),
		Difficulty:    strings.ToUpper(fields[2]),
		TurnTimeLimit: limit,
	}
	if len(fields) == 5 {
		req.IsPrivate = true
		req.RoomPassword = fields[4]
	}
	return &replCommand{msg: req, want: []protocol.Kind{protocol.KindCreateRoomResponse}}, nil
}

func parseMode(s string) model.GameMode {
	switch strings.ToLower(s) {
	case "1v1", "duel":
		return model.ModeOneVsOne
	case "2v2", "team", "teams":
		return model.ModeTwoVsTwo
	}
	return model.GameMode(strings.ToUpper(s))
}
