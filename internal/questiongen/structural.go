package questiongen

import (
	"fmt"
	"strings"
)

// requiredOptions is the fixed option count for generated questions.
const requiredOptions = 4

// Validate checks the structural rules a generated question must satisfy
// regardless of content: a non-empty stem, exactly four options labeled
// A-D with exactly one correct, non-empty option texts that don't repeat,
// and a difficulty in range.
func Validate(q *Question) error {
	if strings.TrimSpace(q.QuestionText) == "" {
		return fmt.Errorf("question %s: empty question text", q.ID)
	}

	if len(q.Options) != requiredOptions {
		return fmt.Errorf("question %s: %d options, want %d", q.ID, len(q.Options), requiredOptions)
	}

	wantIDs := []string{"A", "B", "C", "D"}
	seen := make(map[string]bool, requiredOptions)
	correct := 0
	for i, o := range q.Options {
		if o.ID != wantIDs[i] {
			return fmt.Errorf("question %s: option %d labeled %q, want %q", q.ID, i, o.ID, wantIDs[i])
		}
		text := strings.TrimSpace(o.Text)
		if text == "" {
			return fmt.Errorf("question %s: option %s has empty text", q.ID, o.ID)
		}
		if seen[text] {
			return fmt.Errorf("question %s: duplicate option text %q", q.ID, text)
		}
		seen[text] = true
		if o.Correct {
			correct++
		}
	}
	if correct != 1 {
		return fmt.Errorf("question %s: %d correct options, want exactly 1", q.ID, correct)
	}

	if q.Difficulty < 1 || q.Difficulty > 5 {
		return fmt.Errorf("question %s: difficulty %d out of range 1-5", q.ID, q.Difficulty)
	}

	return nil
}
