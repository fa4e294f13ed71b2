package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/D-z-V/llm-chess/internal/config"
)

var (
	cfgFile      string
	providerFlag string
	modelFlag    string
	dbPathFlag   string
)

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	rootCmd := &cobra.Command{
		Use:   "llm-chess",
		Short: "Play chess against (or between) LLM agents",
		Long: "llm-chess runs chess games where one or both seats are played by an LLM,\n" +
			"including a two-agent thinking mode where the agents negotiate each move.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Pick up API keys from a local .env when present.
			_ = godotenv.Load()
		},
		// Running llm-chess with no subcommand starts a game.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default ~/.config/llm-chess/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&providerFlag, "provider", "p", "", "override agent provider")
	rootCmd.PersistentFlags().StringVarP(&modelFlag, "model", "m", "", "override model")
	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "saved games database path")

	addPlayFlags(rootCmd)

	// Subcommands
	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newGamesCmd())
	rootCmd.AddCommand(newVersionCmd(version, commit, date))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig loads configuration, applying CLI flag overrides.
func initConfig() *config.Config {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if providerFlag != "" {
		cfg.Provider = providerFlag
	}
	if modelFlag != "" {
		cfg.Model = modelFlag
	}
	if dbPathFlag != "" {
		cfg.DBPath = dbPathFlag
	}

	return cfg
}
