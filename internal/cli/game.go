package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/bvzombies/internal/apiclient"
	"github.com/mcoot/bvzombies/internal/endpoints"
)

func newGameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "game",
		Short: "Check whether the signed-in user may play",
		RunE: func(cmd *cobra.Command, args []string) error {
			envelope, err := client.GameAccess(cmd.Context(), tokens)
			if err != nil {
				var apiErr *apiclient.APIError
				if errors.As(err, &apiErr) {
					return fmt.Errorf("game access denied: %s", apiErr.Msg)
				}
				return sessionError(err)
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(*envelope)
			return nil
		},
	}
}

var listings = map[string]endpoints.Key{
	"leaderboard": endpoints.Leaderboard,
	"game-stats":  endpoints.GameStats,
	"scores":      endpoints.Scores,
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "list <leaderboard|game-stats|scores>",
		Short:     "Show one of the public listings",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"leaderboard", "game-stats", "scores"},
		RunE: func(cmd *cobra.Command, args []string) error {
			envelope, err := client.List(cmd.Context(), listings[args[0]])
			if err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(listResult{Name: args[0], Items: envelope.Items})
			return nil
		},
	}
}
