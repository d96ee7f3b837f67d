package matching

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anirudhs/dimatch/internal/curriculum"
	"github.com/anirudhs/dimatch/internal/library"
	"github.com/anirudhs/dimatch/internal/llm"
)

// skillSelectionOutput is the raw LLM response before validation.
type skillSelectionOutput struct {
	SelectedSkills   []SkillMatch `json:"selected_skills"`
	OverallReasoning string       `json:"overall_reasoning"`
}

// SelectSkills asks the judge which skills best encompass the substandard.
// Returned skill names are guaranteed to exist in the library; a response
// naming an unknown skill is an error rather than a silent drop, since a
// hallucinated name means the whole selection is suspect.
func SelectSkills(ctx context.Context, provider llm.Provider, sub curriculum.Substandard, lib *library.Library) ([]SkillMatch, error) {
	ctx = llm.WithPurpose(ctx, "skill_selection")

	skillNames := lib.SkillsWithSummaries(sub.Grade)
	if len(skillNames) == 0 {
		return nil, fmt.Errorf("no skills with grade %d summaries in library", sub.Grade)
	}

	req := llm.Request{
		System: skillSelectionSystem,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildSkillSelectionMessage(sub, lib, skillNames)},
		},
		Schema:      SkillSelectionSchema,
		MaxTokens:   1024,
		Temperature: 0,
	}

	resp, err := provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("skill selection for %s: %w", sub.ID, err)
	}

	var out skillSelectionOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse skill selection for %s: %w", sub.ID, err)
	}

	known := make(map[string]bool, len(skillNames))
	for _, name := range skillNames {
		known[name] = true
	}
	for _, sm := range out.SelectedSkills {
		if !known[sm.SkillName] {
			return nil, fmt.Errorf("skill selection for %s: unknown skill %q in response", sub.ID, sm.SkillName)
		}
	}

	return out.SelectedSkills, nil
}
