package cmd

import (
	"fmt"

	"github.com/anirudhs/dimatch/internal/curriculum"
	"github.com/anirudhs/dimatch/internal/library"
	"github.com/anirudhs/dimatch/internal/matching"
	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Map substandards to sequences with two-phase judging",
	Long: "Runs the two-phase mapping: for each substandard the judge first " +
		"selects the most relevant skills, then rates only their sequences. " +
		"Progress is checkpointed per substandard; use --resume to continue " +
		"an interrupted run.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMatching(cmd, matching.ModeTwoPhase)
	},
}

func init() {
	addMatchingFlags(matchCmd)
}

// addMatchingFlags registers the flags shared by match and bruteforce.
func addMatchingFlags(cmd *cobra.Command) {
	cmd.Flags().String("curriculum", "", "Curriculum substandards CSV file")
	cmd.Flags().String("library", "", "DI corpus JSON file")
	cmd.Flags().Int("grade", 3, "Target grade")
	cmd.Flags().String("out", "mappings.json", "Output mappings JSON file")
	cmd.Flags().String("report", "", "Optional markdown report file")
	cmd.Flags().Int("batch-size", matching.DefaultBatchSize, "Sequences per rating call")
	cmd.Flags().Int("top-k", matching.DefaultTopK, "Final matches kept per substandard")
	cmd.Flags().String("resume", "", "Run ID to resume")
	_ = cmd.MarkFlagRequired("curriculum")
	_ = cmd.MarkFlagRequired("library")
}

func runMatching(cmd *cobra.Command, mode string) error {
	curriculumPath, _ := cmd.Flags().GetString("curriculum")
	libraryPath, _ := cmd.Flags().GetString("library")
	grade, _ := cmd.Flags().GetInt("grade")
	outPath, _ := cmd.Flags().GetString("out")
	reportPath, _ := cmd.Flags().GetString("report")
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	topK, _ := cmd.Flags().GetInt("top-k")
	resume, _ := cmd.Flags().GetString("resume")

	subs, err := curriculum.LoadCSV(curriculumPath, grade)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		return fmt.Errorf("no grade %d substandards in %s", grade, curriculumPath)
	}

	lib, err := library.Load(libraryPath)
	if err != nil {
		return err
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

	pipeline := &matching.Pipeline{
		Provider:  provider,
		Library:   lib,
		Runs:      s.RunRepo(),
		Logger:    newLogger(),
		BatchSize: batchSize,
		TopK:      topK,
	}

	set, runID, err := pipeline.Run(cmd.Context(), grade, subs, mode, resume)
	if err != nil {
		if runID != "" {
			return fmt.Errorf("%w\n\nResume with: dimatch %s --resume %s", err, cmd.Name(), runID)
		}
		return err
	}

	if err := matching.WriteMappingSet(set, outPath); err != nil {
		return err
	}
	fmt.Printf("Wrote %d mappings to %s (run %s)\n", len(set.Mappings), outPath, runID)

	if reportPath != "" {
		if err := matching.WriteReport(set, reportPath); err != nil {
			return err
		}
		fmt.Printf("Wrote report to %s\n", reportPath)
	}
	return nil
}
