package cli

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/baseballgame-go/internal/api/response"
	gameclient "github.com/mcoot/baseballgame-go/internal/client"
	"github.com/mcoot/baseballgame-go/internal/protocol"
)

const requestTimeout = 10 * time.Second

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <user>",
		Short: "Show a player's win/loss record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Stats

			if err := client.Get(cmd.Context(), "/api/v1/players/"+url.PathEscape(args[0])+"/stats", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRegisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <user> <password> [character]",
		Short: "Create an account",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := protocol.RegisterRequest{UserID: args[0], Password: args[1]}
			if len(args) == 3 {
				req.Character = args[2]
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			gc, err := dialGame(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = gc.Close() }()

			reply, err := gc.Request(ctx, req, protocol.KindRegisterResponse)
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(reply)
			return nil
		},
	}
}

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <user> <password>",
		Short: "Show your recent games",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			token, err := fetchToken(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			client.SetToken(token)

			path := "/api/v1/players/me/history"
			if limit > 0 {
				path += "?limit=" + strconv.Itoa(limit)
			}

			var result response.History
			if err := client.Get(ctx, path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of games (server default when 0)")

	return cmd
}

func dialGame(ctx context.Context) (*gameclient.Client, error) {
	wsURL, err := cfg.WebSocketURL()
	if err != nil {
		return nil, err
	}
	return gameclient.Dial(ctx, wsURL)
}

// fetchToken logs in over the socket to obtain an API token, then
// disconnects
func fetchToken(ctx context.Context, user, password string) (string, error) {
	gc, err := dialGame(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = gc.Close() }()

	reply, err := gc.Request(ctx, protocol.LoginRequest{UserID: user, Password: password}, protocol.KindLoginResponse)
	if err != nil {
		return "", err
	}
	login := reply.(protocol.LoginResponse)
	if login.Token == "" {
		return "", fmt.Errorf("server issued no token for %s", user)
	}
	_ = gc.Send(ctx, protocol.Logout{})
	return login.Token, nil
}
