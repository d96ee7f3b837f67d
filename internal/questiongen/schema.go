package questiongen

import "github.com/anirudhs/dimatch/internal/llm"

// QuestionSchema defines the JSON schema for question generation responses.
var QuestionSchema = &llm.Schema{
	Name:        "mcq-question",
	Description: "A multiple-choice math question with four options and misconception-based distractors",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question_text": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "The question stem shown to the student, in plain ASCII text",
			},
			"options": map[string]any{
				"type":     "array",
				"minItems": 4,
				"maxItems": 4,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"option_id": map[string]any{
							"type": "string",
							"enum": []any{"A", "B", "C", "D"},
						},
						"text": map[string]any{
							"type":      "string",
							"minLength": 1,
						},
						"is_correct": map[string]any{
							"type": "boolean",
						},
						"rationale": map[string]any{
							"type":        "string",
							"description": "For distractors: the misconception this option reflects. For the correct option: why it is right.",
						},
					},
					"required":             []any{"option_id", "text", "is_correct", "rationale"},
					"additionalProperties": false,
				},
			},
			"difficulty": map[string]any{
				"type":    "integer",
				"minimum": 1,
				"maximum": 5,
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "Step-by-step worked solution a Grade 3 student can follow",
			},
		},
		"required":             []any{"question_text", "options", "difficulty", "explanation"},
		"additionalProperties": false,
	},
}
