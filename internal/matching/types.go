// Package matching maps curriculum substandards to Direct Instruction
// problem sequences. Two strategies are supported: a two-phase pass that
// first narrows to the most relevant skills and then rates only their
// sequences, and a brute-force pass that rates every sequence in the
// grade. Both feed the same deterministic ranker to pick the final
// matches.
package matching

import (
	"time"

	"github.com/anirudhs/dimatch/internal/rank"
)

// Rating is one judged sequence, the judge's tier calls plus its prose
// rationale. The embedded Candidate carries everything the ranker needs.
type Rating struct {
	rank.Candidate
	ProblemType string `json:"problem_type"`
	Explanation string `json:"explanation"`
}

// SkillMatch is one skill the judge selected in the skill-narrowing phase.
type SkillMatch struct {
	SkillName  string  `json:"skill_name"`
	MatchScore float64 `json:"match_score"`
	Reasoning  string  `json:"reasoning"`
}

// Match is one entry of a substandard's final match list.
type Match struct {
	Skill          string           `json:"skill"`
	Grade          int              `json:"grade"`
	SequenceNumber int              `json:"sequence_number"`
	Quality        rank.QualityTier `json:"quality"`
	AlignmentScore int              `json:"alignment_score"`
	FinalScore     float64          `json:"final_score"`
}

// Result is the full outcome for one substandard.
type Result struct {
	SubstandardID      string       `json:"substandard_id"`
	Grade              int          `json:"grade"`
	Description        string       `json:"substandard_description"`
	AssessmentBoundary string       `json:"assessment_boundary"`
	SelectedSkills     []SkillMatch `json:"phase1_selected_skills,omitempty"`
	Ratings            []Rating     `json:"all_ratings,omitempty"`
	FinalMatches       []Match      `json:"final_excellent_matches"`
	SequencesEvaluated int          `json:"total_sequences_evaluated"`
	Error              string       `json:"error,omitempty"`
}

// HasMatches reports whether the substandard ended up with at least one
// final match.
func (r Result) HasMatches() bool {
	return len(r.FinalMatches) > 0
}

// Metadata describes a completed mapping run in the output file.
type Metadata struct {
	TargetGrade       int       `json:"target_grade"`
	TotalSubstandards int       `json:"total_substandards"`
	Mode              string    `json:"mode"`
	Model             string    `json:"llm_model"`
	CompletedAt       time.Time `json:"completed_at"`
}

// MappingSet is the JSON document a run writes.
type MappingSet struct {
	Metadata Metadata `json:"metadata"`
	Mappings []Result `json:"mappings"`
}

// finalMatches converts ranked candidates into the output match list.
func finalMatches(ranked []rank.Ranked, grade int) []Match {
	matches := make([]Match, 0, len(ranked))
	for _, r := range ranked {
		matches = append(matches, Match{
			Skill:          r.SkillName,
			Grade:          grade,
			SequenceNumber: r.SequenceNumber,
			Quality:        r.Quality,
			AlignmentScore: r.AlignmentScore,
			FinalScore:     r.FinalScore,
		})
	}
	return matches
}
