package questiongen

import (
	"fmt"
	"strings"

	"github.com/anirudhs/dimatch/internal/curriculum"
)

const scaffoldingSystem = `You are an educational content expert. Convert teaching formats into concise student explanations.`

// buildScaffoldingMessage flattens a scripted format into the
// distillation prompt.
func buildScaffoldingMessage(title string, parts []formatPart) string {
	var b strings.Builder

	b.WriteString("Convert the following teaching format into a concise, student-friendly step-by-step explanation.\n\n")
	fmt.Fprintf(&b, "FORMAT TITLE: %s\n\nTEACHING STEPS:\n", title)
	for _, part := range parts {
		fmt.Fprintf(&b, "\n%s:\n", part.PartName)
		for _, step := range part.Steps {
			fmt.Fprintf(&b, "- %s\n", step.TeacherAction)
		}
	}
	b.WriteString(`
INSTRUCTIONS:
1. Distill into clear, sequential explanation
2. Write in second person ("you should...")
3. Keep concise (3-5 sentences)
4. Include key hints from the teaching steps

Generate a natural explanation:`)

	return b.String()
}

const planSystem = `You are an expert educational content planner. You design one multiple-choice question at a time: pick the misconception to target, the numbers to use, and the distractor strategy, all within the substandard's assessment boundary.`

// maxExampleQuestions bounds how many sequence examples go into the plan
// prompt.
const maxExampleQuestions = 5

// buildPlanMessage constructs the planning prompt from the substandard,
// its mapped sequence, and the documented misconceptions.
func buildPlanMessage(sub curriculum.Composed, seq curriculum.ComposedSequence, misconceptions []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "SUBSTANDARD: %s (Grade %d)\n", sub.ID, sub.Grade)
	fmt.Fprintf(&b, "Description: %s\n", sub.Description)
	fmt.Fprintf(&b, "Assessment Boundary: %s\n", sub.Boundary())

	fmt.Fprintf(&b, "\nMAPPED SEQUENCE: #%d (%s)\n", seq.SequenceNumber, seq.SkillName)
	fmt.Fprintf(&b, "Problem Type: %s\n", seq.ProblemType)

	b.WriteString("Example Questions:\n")
	examples := seq.ExampleQuestions
	if len(examples) > maxExampleQuestions {
		examples = examples[:maxExampleQuestions]
	}
	for _, q := range examples {
		fmt.Fprintf(&b, "- %s\n", q)
	}

	b.WriteString("\nDOCUMENTED MISCONCEPTIONS:\n")
	if len(misconceptions) == 0 {
		b.WriteString("None documented\n")
	}
	for _, m := range misconceptions {
		fmt.Fprintf(&b, "- %s\n", m)
	}

	b.WriteString(`
TASK:
Write a short plan for ONE multiple-choice question:
1. Which misconception (if any) the distractors should target
2. The specific numbers and context to use, staying within the assessment boundary and matching the problem type
3. What each of the three distractors should represent

Keep the plan under 150 words.`)

	return b.String()
}

const questionSystem = `You are an expert educational content creator. Generate complete multiple-choice questions for Grade 3 math students.

Rules:
- Follow the provided plan exactly.
- Use plain ASCII text for all math. No LaTeX, no Unicode symbols.
- Provide exactly 4 options labeled A through D where exactly one is correct.
- Each distractor's rationale must name the mistake or misconception it reflects.
- The explanation should walk through the solution step by step, in language a child can follow.`

// buildQuestionMessage assembles the final generation prompt from the
// plan and scaffolding produced by the earlier stages.
func buildQuestionMessage(sub curriculum.Composed, plan, scaffolding string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "SUBSTANDARD: %s (Grade %d)\n", sub.ID, sub.Grade)
	fmt.Fprintf(&b, "Description: %s\n", sub.Description)

	b.WriteString("\nQUESTION PLAN:\n")
	b.WriteString(plan)

	if scaffolding != "" {
		b.WriteString("\n\nSOLUTION SCAFFOLDING (base the explanation on this):\n")
		b.WriteString(scaffolding)
	}

	b.WriteString("\n\nGenerate the question now.")
	return b.String()
}
