package matching

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// WriteMappingSet writes the mapping output JSON, creating or truncating
// the file at path.
func WriteMappingSet(set *MappingSet, path string) error {
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("encode mappings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write mappings: %w", err)
	}
	return nil
}

// Report renders a human-readable markdown summary of a run: the overall
// counts, the substandards that gained matches, and the ones still
// without any.
func Report(set *MappingSet) string {
	var matched, unmatched []Result
	for _, r := range set.Mappings {
		if r.HasMatches() {
			matched = append(matched, r)
		} else {
			unmatched = append(unmatched, r)
		}
	}

	var b strings.Builder
	b.WriteString("# Curriculum Mapping Report\n\n")
	fmt.Fprintf(&b, "**Generated:** %s\n\n", set.Metadata.CompletedAt.Format(time.DateTime))
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- **Mode:** %s\n", set.Metadata.Mode)
	fmt.Fprintf(&b, "- **Model:** %s\n", set.Metadata.Model)
	fmt.Fprintf(&b, "- **Target grade:** %d\n", set.Metadata.TargetGrade)
	fmt.Fprintf(&b, "- **Total substandards:** %d\n", len(set.Mappings))
	fmt.Fprintf(&b, "- **With matches:** %d\n", len(matched))
	fmt.Fprintf(&b, "- **Without matches:** %d\n\n", len(unmatched))

	if len(matched) > 0 {
		b.WriteString("## Substandards with Matches\n\n")
		for _, r := range matched {
			fmt.Fprintf(&b, "### %s\n\n", r.SubstandardID)
			fmt.Fprintf(&b, "**Description:** %s\n\n", r.Description)
			fmt.Fprintf(&b, "**Matches (%d):**\n", len(r.FinalMatches))
			for _, m := range r.FinalMatches {
				fmt.Fprintf(&b, "- Seq #%d (%s): %s | align=%d | score=%.2f\n",
					m.SequenceNumber, m.Skill, m.Quality, m.AlignmentScore, m.FinalScore)
			}
			b.WriteString("\n---\n\n")
		}
	}

	if len(unmatched) > 0 {
		b.WriteString("## Substandards without Matches\n\n")
		for _, r := range unmatched {
			fmt.Fprintf(&b, "- **%s**: %s", r.SubstandardID, r.Description)
			if r.Error != "" {
				fmt.Fprintf(&b, " _(error: %s)_", r.Error)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}

// WriteReport writes the markdown report to path.
func WriteReport(set *MappingSet, path string) error {
	if err := os.WriteFile(path, []byte(Report(set)), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
