package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/anirudhs/dimatch/internal/llm"
	"github.com/anirudhs/dimatch/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dimatch",
	Short: "Map CCSS math substandards to Direct Instruction sequences",
	Long: "Dimatch judges how well Direct Instruction problem sequences cover " +
		"CCSS math substandards using an LLM, ranks the candidates " +
		"deterministically, and generates practice questions from the mappings.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides DIMATCH_DB env var)")

	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(bruteforceCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then DIMATCH_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore opens the SQLite store at the resolved path.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// newProvider builds the configured LLM provider with retry and event
// logging attached.
func newProvider(cmd *cobra.Command, s *store.Store) (llm.Provider, error) {
	cfg := llm.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return llm.NewProvider(cmd.Context(), cfg, s.EventRepo())
}

// newLogger returns the structured logger the long-running commands use
// for progress output.
func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}
