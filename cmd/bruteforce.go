package cmd

import (
	"fmt"

	"github.com/anirudhs/dimatch/internal/curriculum"
	"github.com/anirudhs/dimatch/internal/library"
	"github.com/anirudhs/dimatch/internal/matching"
	"github.com/spf13/cobra"
)

var bruteforceCmd = &cobra.Command{
	Use:   "bruteforce",
	Short: "Map substandards by rating every sequence in the grade",
	Long: "Skips skill selection and rates every sequence of the grade " +
		"against each substandard. Slower and more expensive than match, " +
		"but immune to a bad skill-selection call. With --remap, only the " +
		"substandards of an existing mappings file that still lack FAIR or " +
		"EXCELLENT matches are re-judged, and the merged result is written.",
	RunE: func(cmd *cobra.Command, args []string) error {
		remapPath, _ := cmd.Flags().GetString("remap")
		if remapPath == "" {
			return runMatching(cmd, matching.ModeBruteforce)
		}
		return runRemap(cmd, remapPath)
	},
}

func init() {
	addMatchingFlags(bruteforceCmd)
	bruteforceCmd.Flags().String("remap", "", "Existing mappings JSON whose unmatched substandards get re-judged")
}

func runRemap(cmd *cobra.Command, remapPath string) error {
	curriculumPath, _ := cmd.Flags().GetString("curriculum")
	libraryPath, _ := cmd.Flags().GetString("library")
	grade, _ := cmd.Flags().GetInt("grade")
	outPath, _ := cmd.Flags().GetString("out")
	reportPath, _ := cmd.Flags().GetString("report")
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	topK, _ := cmd.Flags().GetInt("top-k")
	resume, _ := cmd.Flags().GetString("resume")

	base, err := matching.LoadMappingSet(remapPath)
	if err != nil {
		return err
	}

	subs, err := curriculum.LoadCSV(curriculumPath, grade)
	if err != nil {
		return err
	}
	byID := make(map[string]curriculum.Substandard, len(subs))
	for _, sub := range subs {
		byID[sub.ID] = sub
	}

	var targets []curriculum.Substandard
	for _, m := range base.Mappings {
		if !matching.NeedsRemap(m) {
			continue
		}
		sub, ok := byID[m.SubstandardID]
		if !ok {
			return fmt.Errorf("substandard %s from %s not found in %s", m.SubstandardID, remapPath, curriculumPath)
		}
		targets = append(targets, sub)
	}

	if len(targets) == 0 {
		fmt.Println("All substandards already have FAIR or EXCELLENT matches.")
		return nil
	}
	fmt.Printf("Re-judging %d of %d substandards without good matches\n", len(targets), len(base.Mappings))

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

	set, runID, err := pipeline.Run(cmd.Context(), grade, targets, matching.ModeBruteforce, resume)
	if err != nil {
		if runID != "" {
			return fmt.Errorf("%w\n\nResume with: dimatch bruteforce --remap %s --resume %s", err, remapPath, runID)
		}
		return err
	}

	merged := matching.MergeRemapped(base, set.Mappings)
	merged.Metadata = set.Metadata
	merged.Metadata.TotalSubstandards = len(merged.Mappings)

	if err := matching.WriteMappingSet(merged, outPath); err != nil {
		return err
	}

	flipped := 0
	for _, r := range set.Mappings {
		if r.HasMatches() {
			flipped++
		}
	}
	fmt.Printf("Wrote %d mappings to %s (%d of %d re-judged substandards flipped to having matches)\n",
		len(merged.Mappings), outPath, flipped, len(targets))

	if reportPath != "" {
		if err := matching.WriteReport(set, reportPath); err != nil {
			return err
		}
		fmt.Printf("Wrote report to %s\n", reportPath)
	}
	return nil
}
