package matching

import "github.com/anirudhs/dimatch/internal/llm"

// SkillSelectionSchema defines the JSON schema for skill-narrowing responses.
var SkillSelectionSchema = &llm.Schema{
	Name:        "skill-selection",
	Description: "The 1-2 skills that best encompass a curriculum substandard",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"selected_skills": map[string]any{
				"type":     "array",
				"minItems": 0,
				"maxItems": 2,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"skill_name": map[string]any{
							"type":        "string",
							"minLength":   1,
							"description": "Exact skill name from the provided list",
						},
						"match_score": map[string]any{
							"type":        "number",
							"minimum":     0.0,
							"maximum":     1.0,
							"description": "How well the skill encompasses the substandard",
						},
						"reasoning": map[string]any{
							"type":        "string",
							"minLength":   10,
							"description": "Why this skill matches the substandard",
						},
					},
					"required":             []any{"skill_name", "match_score", "reasoning"},
					"additionalProperties": false,
				},
			},
			"overall_reasoning": map[string]any{
				"type":        "string",
				"minLength":   10,
				"description": "Brief explanation of the selection strategy",
			},
		},
		"required":             []any{"selected_skills", "overall_reasoning"},
		"additionalProperties": false,
	},
}

// RatingSchema defines the JSON schema for batch sequence-rating responses.
var RatingSchema = &llm.Schema{
	Name:        "sequence-ratings",
	Description: "Independent alignment ratings for a batch of problem sequences",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"sequence_ratings": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"skill_name": map[string]any{
							"type":        "string",
							"description": "Skill name copied from the input",
						},
						"sequence_number": map[string]any{
							"type":        "integer",
							"minimum":     1,
							"description": "Sequence number copied from the input",
						},
						"problem_type": map[string]any{
							"type":        "string",
							"description": "Problem type copied from the input",
						},
						"match_quality": map[string]any{
							"type": "string",
							"enum": []any{"EXCELLENT", "FAIR", "POOR", "NON-EXISTENT"},
						},
						"boundary_classification": map[string]any{
							"type": "string",
							"enum": []any{"COMPLIANT", "MINOR_VIOLATION", "MAJOR_VIOLATION"},
						},
						"grade_alignment": map[string]any{
							"type": "string",
							"enum": []any{"ON_GRADE", "SLIGHTLY_OFF", "OFF_GRADE"},
						},
						"extraneous_skill_load": map[string]any{
							"type": "string",
							"enum": []any{"LOW", "MODERATE", "HIGH"},
						},
						"alignment_score": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"maximum":     100,
							"description": "Strength of alignment, consistent with the match_quality band",
						},
						"explanation": map[string]any{
							"type":        "string",
							"minLength":   20,
							"description": "Rationale citing concrete sequence elements and boundary considerations",
						},
					},
					"required": []any{
						"skill_name", "sequence_number", "problem_type",
						"match_quality", "boundary_classification", "grade_alignment",
						"extraneous_skill_load", "alignment_score", "explanation",
					},
					"additionalProperties": false,
				},
			},
			"excellent_sequences": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "integer"},
				"description": "sequence_number values rated EXCELLENT",
			},
		},
		"required":             []any{"sequence_ratings", "excellent_sequences"},
		"additionalProperties": false,
	},
}
