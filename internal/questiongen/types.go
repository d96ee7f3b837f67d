// Package questiongen turns mapped substandards into multiple-choice
// practice questions. Generation is staged: the sequence's scripted
// format is first distilled into student-facing scaffolding, a planner
// then picks the misconception to target, and a final call produces the
// question itself. Each stage's output feeds the next stage's prompt.
package questiongen

import (
	"fmt"
	"time"
)

// Option is one answer choice of a generated question.
type Option struct {
	// ID labels the option ("A" through "D").
	ID string `json:"option_id"`

	Text string `json:"text"`

	// Correct marks the single right answer.
	Correct bool `json:"is_correct"`

	// Rationale explains the misconception a distractor reflects, or
	// why the correct option is right.
	Rationale string `json:"rationale"`
}

// Question is a generated multiple-choice question.
type Question struct {
	ID                string   `json:"id"`
	SubstandardID     string   `json:"substandard_id"`
	Grade             int      `json:"grade"`
	QuestionText      string   `json:"question_text"`
	Options           []Option `json:"options"`
	Difficulty        int      `json:"difficulty"` // 1-5
	Explanation       string   `json:"explanation"`
	Scaffolding       string   `json:"scaffolding,omitempty"`
	Plan              string   `json:"plan,omitempty"`
	AdditionalDetails string   `json:"additional_details,omitempty"`
}

// CorrectOption returns the correct option, or an error when the
// question does not have exactly one.
func (q *Question) CorrectOption() (Option, error) {
	var found []Option
	for _, o := range q.Options {
		if o.Correct {
			found = append(found, o)
		}
	}
	if len(found) != 1 {
		return Option{}, fmt.Errorf("question %s has %d correct options", q.ID, len(found))
	}
	return found[0], nil
}

// GenError records a substandard that failed generation.
type GenError struct {
	SubstandardID string `json:"substandard_id"`
	Error         string `json:"error"`
}

// Stats counts outcomes across a generation run.
type Stats struct {
	TotalAttempted int `json:"total_attempted"`
	Successful     int `json:"successful"`
	Failed         int `json:"failed"`
	Skipped        int `json:"skipped"`
}

// Output is the document a generation run writes.
type Output struct {
	Subject            string     `json:"subject"`
	Grade              string     `json:"grade"`
	Type               string     `json:"type"`
	GeneratedQuestions []Question `json:"generated_questions"`
	Stats              Stats      `json:"stats"`
	Errors             []GenError `json:"errors,omitempty"`
	GeneratedAt        time.Time  `json:"generated_at"`
	Model              string     `json:"model"`
}
