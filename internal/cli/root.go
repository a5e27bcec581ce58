package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "baseball",
		Short: "Client for the baseball number guessing game",
		Long: `baseball is a client for the number baseball game server.

Lookup commands use the JSON API. The play command opens an interactive
session over the game websocket.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.LoadFile(cmd.Flags().Changed("server")); err != nil {
				return err
			}

			client = NewClient(cfg.ServerURL, "")
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: BASEBALL_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "Client config file holding the server address (env: BASEBALL_CLIENT_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")

	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(newRoomsCmd())
	rootCmd.AddCommand(newOnlineCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newRegisterCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newPlayCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
