package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/anirudhs/dimatch/internal/rank"
	"github.com/spf13/cobra"
)

var rankCmd = &cobra.Command{
	Use:   "rank <ratings.json>",
	Short: "Re-rank a ratings file offline",
	Long: "Reads a JSON array of judged candidates and prints the top-k " +
		"ranked matches. No LLM calls are made; this re-runs only the " +
		"deterministic eligibility filter, scoring, and tie-breaking.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		k, _ := cmd.Flags().GetInt("k")

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read ratings: %w", err)
		}

		var candidates []rank.Candidate
		if err := json.Unmarshal(data, &candidates); err != nil {
			return fmt.Errorf("parse ratings: %w", err)
		}

		ranked, err := rank.TopK(candidates, k)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(ranked, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))

		fmt.Fprintf(os.Stderr, "%d of %d candidates eligible, kept %d\n",
			rank.CountEligible(candidates), len(candidates), len(ranked))
		return nil
	},
}

func init() {
	rankCmd.Flags().Int("k", 5, "Number of matches to keep")
}
