package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

const healthPollInterval = 250 * time.Millisecond

func newHealthCmd() *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		Long: `Check server health.

With --wait, keep polling until the server answers or the duration runs out.
Useful in scripts that start the server and then record matches.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deadline := time.Now().Add(wait)

			var result HealthResult
			for {
				err := client.Get("/api/v1/health", &result)
				if err == nil {
					break
				}
				if !time.Now().Before(deadline) {
					return err
				}
				select {
				case <-cmd.Context().Done():
					return cmd.Context().Err()
				case <-time.After(healthPollInterval):
				}
			}
			if result.Status != "ok" {
				return fmt.Errorf("server at %s reported status %q", client.BaseURL(), result.Status)
			}
			result.Server = client.BaseURL()

			out := NewOutput(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().DurationVar(&wait, "wait", 0, "Keep retrying for up to this long, e.g. 10s")

	return cmd
}
