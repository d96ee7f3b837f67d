package questiongen

import (
	"strings"
	"testing"
)

func validQuestion() *Question {
	return &Question{
		ID:           "q1",
		QuestionText: "There are 3 bags with 4 apples in each bag. How many apples are there in all?",
		Options: []Option{
			{ID: "A", Text: "7", Rationale: "Adds 3 + 4 instead of multiplying."},
			{ID: "B", Text: "12", Correct: true, Rationale: "3 groups of 4 is 3 x 4 = 12."},
			{ID: "C", Text: "34", Rationale: "Concatenates the digits."},
			{ID: "D", Text: "1", Rationale: "Subtracts instead of multiplying."},
		},
		Difficulty:  2,
		Explanation: "Each bag has 4 apples. 3 bags means 4 + 4 + 4 = 12, which is 3 x 4.",
	}
}

func TestValidate_OK(t *testing.T) {
	if err := Validate(validQuestion()); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Question)
		wantMsg string
	}{
		{"empty text", func(q *Question) { q.QuestionText = "  " }, "empty question text"},
		{"three options", func(q *Question) { q.Options = q.Options[:3] }, "3 options"},
		{"no correct", func(q *Question) { q.Options[1].Correct = false }, "0 correct options"},
		{"two correct", func(q *Question) { q.Options[0].Correct = true }, "2 correct options"},
		{"bad labels", func(q *Question) { q.Options[0].ID = "X" }, `labeled "X"`},
		{"duplicate text", func(q *Question) { q.Options[2].Text = "7" }, "duplicate option text"},
		{"empty option", func(q *Question) { q.Options[3].Text = "" }, "empty text"},
		{"difficulty low", func(q *Question) { q.Difficulty = 0 }, "out of range"},
		{"difficulty high", func(q *Question) { q.Difficulty = 6 }, "out of range"},
	}

	for _, tt := range tests {
		q := validQuestion()
		tt.mutate(q)
		err := Validate(q)
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if !strings.Contains(err.Error(), tt.wantMsg) {
			t.Errorf("%s: err = %v, want containing %q", tt.name, err, tt.wantMsg)
		}
	}
}

func TestCorrectOption(t *testing.T) {
	q := validQuestion()
	opt, err := q.CorrectOption()
	if err != nil {
		t.Fatalf("CorrectOption: %v", err)
	}
	if opt.ID != "B" {
		t.Errorf("correct option = %s, want B", opt.ID)
	}

	q.Options[1].Correct = false
	if _, err := q.CorrectOption(); err == nil {
		t.Error("expected error with no correct option")
	}
}
