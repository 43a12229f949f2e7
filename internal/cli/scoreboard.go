package cli

import (
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/gamenight/internal/api/response"
)

func newScoreboardCmd() *cobra.Command {
	var gameID string

	cmd := &cobra.Command{
		Use:   "scoreboard",
		Short: "Show the leaderboard",
		Long: `Show the leaderboard for the server's rating scheme.

Under the bayes scheme the board is per game, chosen with --game.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/scoreboard"
			if gameID != "" {
				path += "?game=" + url.QueryEscape(gameID)
			}

			var result response.Scoreboard
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&gameID, "game", "", "Game id (bayes scheme)")

	return cmd
}
