package matching

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anirudhs/dimatch/internal/curriculum"
	"github.com/anirudhs/dimatch/internal/library"
)

const skillSelectionSystem = `You are an expert educational content specialist. Your task is to identify which Direct Instruction math skills best match a curriculum substandard.

Rules:
- Identify the TOP 1 or 2 skills (preferably 1) that best encompass the substandard and its assessment boundary.
- skill_name must EXACTLY match one of the provided skill names.
- match_score must be between 0.0 and 1.0.
- Consider both the conceptual alignment and the assessment boundary constraints.`

// summaryLimit truncates grade summaries in the skill-selection prompt.
// Full summaries blow up the context without improving selection.
const summaryLimit = 400

// buildSkillSelectionMessage lists every skill with its grade summary and
// asks for the best-fitting ones.
func buildSkillSelectionMessage(sub curriculum.Substandard, lib *library.Library, skillNames []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "CURRICULUM SUBSTANDARD:\nGrade: %d\n", sub.Grade)
	fmt.Fprintf(&b, "Description: %s\n", sub.Description)
	fmt.Fprintf(&b, "Assessment Boundary: %s\n", sub.Boundary())

	fmt.Fprintf(&b, "\nAVAILABLE SKILLS AND THEIR GRADE %d SUMMARIES:\n", sub.Grade)
	for i, name := range skillNames {
		summary := lib.GradeSummary(name, sub.Grade)
		if len(summary) > summaryLimit {
			summary = summary[:summaryLimit] + "..."
		}
		fmt.Fprintf(&b, "\n%d. Skill: %q\n   Grade %d Summary: %s\n", i+1, name, sub.Grade, summary)
	}

	return b.String()
}

func ratingSystem(grade int) string {
	return fmt.Sprintf(`You are an impartial expert evaluator validating whether Grade %d math substandards align with problem sequences. Judge alignment ONLY using the substandard text, its assessment boundary, and the grade. For each sequence, independently assign one of: EXCELLENT, FAIR, POOR, or NON-EXISTENT, and provide structured rationale.

RUBRIC
- EXCELLENT: Direct and complete coverage of the substandard's intent at the given grade; tasks primarily require the target skill; steps/representations/terminology and difficulty match the assessment boundary; minimal extraneous skills.
- FAIR: Meaningful partial coverage; supports a key component but misses some aspects (scope, representation, boundary) or needs minor adaptation.
- POOR: Weak or indirect alignment; touches topic but the main work does not address the substandard as written, or grade/rigor is off; would need substantial changes.
- NON-EXISTENT: No real alignment; different topic or skill.

CLASSIFICATIONS (deterministic)
- boundary_classification:
  * COMPLIANT - Fully respects all assessment boundary constraints
  * MINOR_VIOLATION - Violates 1 minor constraint or partially violates a key constraint
  * MAJOR_VIOLATION - Violates multiple constraints or severely violates a key constraint
- grade_alignment:
  * ON_GRADE - Appropriate difficulty and complexity for Grade %d
  * SLIGHTLY_OFF - Mostly appropriate but slightly too easy/hard
  * OFF_GRADE - Clearly wrong grade level
- extraneous_skill_load:
  * LOW - Minimal skills beyond the substandard required
  * MODERATE - Some additional skills needed but manageable
  * HIGH - Substantial prerequisite or parallel skills required

SCORING
- alignment_score: integer 0-100 reflecting strength of alignment given the substandard, boundary, and grade. Typical bands:
  * EXCELLENT: 85-100
  * FAIR: 60-84
  * POOR: 25-59
  * NON-EXISTENT: 0-24
- Ensure bands and labels are consistent (e.g., do not assign EXCELLENT with alignment_score 70).

RULES
- Rate EACH sequence independently; do not compare sequences to each other.
- Consider skill_name only as optional context; prioritize what the sequence actually demands.
- Cite the assessment boundary when it affects your judgment.
- Be deterministic; no randomness.
- sequence_ratings must contain one entry per input sequence.
- excellent_sequences must list ONLY the sequence_number values rated EXCELLENT.
- Each explanation must be >= 20 words and cite specific elements.`, grade, grade)
}

// ratingInput is the slimmed sequence view embedded in rating prompts.
type ratingInput struct {
	SkillName        string   `json:"skill_name"`
	SequenceNumber   int      `json:"sequence_number"`
	ProblemType      string   `json:"problem_type"`
	ExampleQuestions []string `json:"example_questions"`
	VisualAids       string   `json:"visual_aids,omitempty"`
}

// buildRatingMessage embeds the substandard and the batch of sequences to
// rate, one rating expected per sequence.
func buildRatingMessage(sub curriculum.Substandard, batch []library.GradeSequence) (string, error) {
	inputs := make([]ratingInput, 0, len(batch))
	for _, gs := range batch {
		inputs = append(inputs, ratingInput{
			SkillName:        gs.SkillName,
			SequenceNumber:   gs.Sequence.SequenceNumber,
			ProblemType:      gs.Sequence.ProblemType,
			ExampleQuestions: gs.Sequence.ExampleQuestions,
			VisualAids:       gs.Sequence.VisualAids,
		})
	}
	seqJSON, err := json.MarshalIndent(inputs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal sequence batch: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SUBSTANDARD (Grade %d)\n%s\n", sub.Grade, sub.Description)
	fmt.Fprintf(&b, "\nASSESSMENT BOUNDARY\n%s\n", sub.Boundary())
	fmt.Fprintf(&b, "\nSEQUENCES TO RATE (evaluate every item exactly once)\n%s\n", seqJSON)
	return b.String(), nil
}
