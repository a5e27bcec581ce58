package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/baseballgame-go/internal/api/response"
)

func newRoomsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rooms",
		Short: "List open rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.RoomList

			if err := client.Get(cmd.Context(), "/api/v1/rooms", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newOnlineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "online",
		Short: "List connected users",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Online

			if err := client.Get(cmd.Context(), "/api/v1/online", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
