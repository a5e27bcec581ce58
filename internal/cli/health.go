package cli

import (
	"time"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result HealthResult

			start := time.Now()
			if err := client.Get(cmd.Context(), "/api/v1/health", &result); err != nil {
				return err
			}
			result.Server = cfg.ServerURL
			result.LatencyMS = time.Since(start).Milliseconds()

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
