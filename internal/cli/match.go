package cli

import (
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/gamenight/internal/api/request"
	"github.com/mcoot/gamenight/internal/api/response"
)

func newMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match reporting and history commands",
	}

	cmd.AddCommand(newMatchSubmitCmd())
	cmd.AddCommand(newMatchHistoryCmd())

	return cmd
}

func newMatchSubmitCmd() *cobra.Command {
	var gameID, winner string

	cmd := &cobra.Command{
		Use:   "submit <player-id>...",
		Short: "Report a finished match",
		Long: `Report a finished match between the given players.

The winner must be one of the players. Under the bayes rating scheme --game
is required. A submission that does not meet these rules is not recorded.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.SubmitMatchRequest{
				Players: args,
				Winner:  winner,
				GameID:  gameID,
			}
			var result response.SubmitMatchResponse

			if err := client.Post("/api/v1/matches", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&winner, "winner", "", "Winning player id (required)")
	cmd.Flags().StringVar(&gameID, "game", "", "Game id")
	_ = cmd.MarkFlagRequired("winner")

	return cmd
}

func newMatchHistoryCmd() *cobra.Command {
	var playerID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show match history, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/matches"
			if playerID != "" {
				path += "?player=" + url.QueryEscape(playerID)
			}

			var result response.History
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&playerID, "player", "", "Only matches this player took part in")

	return cmd
}
