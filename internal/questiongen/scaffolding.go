package questiongen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anirudhs/dimatch/internal/curriculum"
	"github.com/anirudhs/dimatch/internal/llm"
)

// formatPart mirrors the scripted-format structure inside a composed
// sequence's raw format document.
type formatPart struct {
	PartName string `json:"part_name"`
	Steps    []struct {
		TeacherAction string `json:"teacher_action"`
	} `json:"steps"`
}

type formatDoc struct {
	Title string       `json:"title"`
	Parts []formatPart `json:"parts"`
}

// Scaffold distills a sequence's scripted teaching format into a short
// student-facing explanation. Sequences without a format produce "".
func Scaffold(ctx context.Context, provider llm.Provider, seq curriculum.ComposedSequence) (string, error) {
	if !seq.HasFormat() {
		return "", nil
	}

	var doc formatDoc
	if err := json.Unmarshal(seq.Format, &doc); err != nil {
		return "", fmt.Errorf("parse format for sequence %d: %w", seq.SequenceNumber, err)
	}

	ctx = llm.WithPurpose(ctx, "scaffolding")
	req := llm.Request{
		System: scaffoldingSystem,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildScaffoldingMessage(doc.Title, doc.Parts)},
		},
		MaxTokens:   512,
		Temperature: 0.3,
	}

	resp, err := provider.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("scaffolding generation: %w", err)
	}

	// Unstructured call: Content is raw text, possibly JSON-quoted.
	text := string(resp.Content)
	var unquoted string
	if err := json.Unmarshal(resp.Content, &unquoted); err == nil {
		text = unquoted
	}
	return strings.TrimSpace(text), nil
}
