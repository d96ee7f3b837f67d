package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/anirudhs/dimatch/internal/curriculum"
	"github.com/anirudhs/dimatch/internal/questiongen"
	"github.com/spf13/cobra"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Generate MCQ questions from composed substandards",
	Long: "Generates one multiple-choice question per composed substandard. " +
		"Each question goes through staged calls: the mapped sequence's " +
		"teaching format is distilled into scaffolding, a plan picks the " +
		"misconception to target, and the final call produces the question.",
	RunE: func(cmd *cobra.Command, args []string) error {
		composedPath, _ := cmd.Flags().GetString("composed")
		misconceptionsPath, _ := cmd.Flags().GetString("misconceptions")
		outPath, _ := cmd.Flags().GetString("out")
		limit, _ := cmd.Flags().GetInt("limit")

		subs, err := curriculum.LoadComposed(composedPath)
		if err != nil {
			return err
		}
		if limit > 0 && len(subs) > limit {
			subs = subs[:limit]
		}

		var misconceptions map[string][]string
		if misconceptionsPath != "" {
			misconceptions, err = curriculum.LoadMisconceptions(misconceptionsPath)
			if err != nil {
				return err
			}
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		provider, err := newProvider(cmd, s)
		if err != nil {
			return err
		}

		gen := questiongen.New(provider, misconceptions, newLogger())
		out, err := gen.Run(cmd.Context(), subs)
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("encode questions: %w", err)
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("write questions: %w", err)
		}

		fmt.Printf("Generated %d questions (%d failed, %d skipped) -> %s\n",
			out.Stats.Successful, out.Stats.Failed, out.Stats.Skipped, outPath)
		return nil
	},
}

func init() {
	questionsCmd.Flags().String("composed", "", "Composed substandards JSON file")
	questionsCmd.Flags().String("misconceptions", "", "Misconceptions CSV file")
	questionsCmd.Flags().String("out", "questions.json", "Output questions JSON file")
	questionsCmd.Flags().Int("limit", 0, "Max substandards to process (0 = all)")
	_ = questionsCmd.MarkFlagRequired("composed")
}
