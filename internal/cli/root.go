package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/bvzombies/internal/apiclient"
	"github.com/mcoot/bvzombies/internal/tokenstore"
)

var (
	cfg    *Config
	client *apiclient.Client
	tokens tokenstore.Store
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "bvz",
		Short: "CLI tool for the Bootstrap vs Zombies API",
		Long: `bvz is a CLI tool for the Bootstrap vs Zombies game API.

It signs in and registers accounts, shows and edits the profile, checks game
access and reads the public listings. The token is kept in a file between runs.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			client = cfg.NewClient()
			tokens = cfg.Tokens()
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "API base URL (env: BVZ_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Token, "token", cfg.Token, "Bearer token (env: BVZ_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "Token file path (env: BVZ_TOKEN_FILE)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Log API requests to stderr")

	// Add subcommands
	rootCmd.AddCommand(newRegisterCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newGameCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		NewOutput(cfg.Output, nil).PrintError(err)
		os.Exit(1)
	}
}
