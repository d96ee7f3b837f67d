package rank

import "fmt"

// Candidate is one judged sequence under consideration for a substandard's
// final match list. The tier fields come from the LLM judge; this package
// treats them as opaque structured input and never depends on how they
// were produced.
type Candidate struct {
	SkillName      string       `json:"skill_name"`
	SequenceNumber int          `json:"sequence_number"`
	Quality        QualityTier  `json:"match_quality"`
	Boundary       BoundaryTier `json:"boundary_classification"`
	Grade          GradeTier    `json:"grade_alignment"`
	Load           LoadTier     `json:"extraneous_skill_load"`
	AlignmentScore int          `json:"alignment_score"` // 0-100
}

// ID returns the candidate's identifier within its batch, a composite of
// skill name and sequence number. Batches must not contain two candidates
// with the same ID; TopK rejects such batches.
func (c Candidate) ID() string {
	return fmt.Sprintf("%s#%d", c.SkillName, c.SequenceNumber)
}

// Ranked is a Candidate annotated with its computed final score.
type Ranked struct {
	Candidate
	FinalScore float64 `json:"final_score"`
}

// scoreBands maps each quality tier to the inclusive alignment-score range
// the judging rubric expects for that tier.
var scoreBands = map[QualityTier][2]int{
	QualityExcellent:   {85, 100},
	QualityFair:        {60, 84},
	QualityPoor:        {25, 59},
	QualityNonExistent: {0, 24},
}

// CheckScoreBand reports whether the candidate's alignment score falls
// inside the band its quality tier implies. The judge is instructed to keep
// scores consistent with tiers but is not always trusted to; a mismatch is
// advisory and does not make the candidate invalid for ranking.
func CheckScoreBand(c Candidate) error {
	band, ok := scoreBands[c.Quality]
	if !ok {
		return &InvalidTierError{ID: c.ID(), Field: "match_quality", Value: string(c.Quality)}
	}
	if c.AlignmentScore < band[0] || c.AlignmentScore > band[1] {
		return &ScoreBandMismatchError{
			ID:      c.ID(),
			Quality: c.Quality,
			Score:   c.AlignmentScore,
			Low:     band[0],
			High:    band[1],
		}
	}
	return nil
}

// validate checks the candidate's closed enumerations and score range.
// Unlike CheckScoreBand this is a hard gate: a tier outside its enumeration
// or a score outside [0,100] fails the whole batch.
func (c Candidate) validate() error {
	if !c.Quality.Valid() {
		return &InvalidTierError{ID: c.ID(), Field: "match_quality", Value: string(c.Quality)}
	}
	if !c.Boundary.Valid() {
		return &InvalidTierError{ID: c.ID(), Field: "boundary_classification", Value: string(c.Boundary)}
	}
	if !c.Grade.Valid() {
		return &InvalidTierError{ID: c.ID(), Field: "grade_alignment", Value: string(c.Grade)}
	}
	if !c.Load.Valid() {
		return &InvalidTierError{ID: c.ID(), Field: "extraneous_skill_load", Value: string(c.Load)}
	}
	if c.AlignmentScore < 0 || c.AlignmentScore > 100 {
		return &InvalidScoreError{ID: c.ID(), Score: c.AlignmentScore}
	}
	return nil
}
