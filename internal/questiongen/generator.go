package questiongen

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anirudhs/dimatch/internal/curriculum"
	"github.com/anirudhs/dimatch/internal/llm"
)

// Generator produces questions from composed substandards.
type Generator struct {
	provider       llm.Provider
	misconceptions map[string][]string
	logger         *slog.Logger
}

// New creates a Generator. misconceptions maps substandard IDs to their
// documented misconception texts; a nil logger discards progress output.
func New(provider llm.Provider, misconceptions map[string][]string, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Generator{provider: provider, misconceptions: misconceptions, logger: logger}
}

// questionOutput is the raw LLM response before validation.
type questionOutput struct {
	QuestionText string   `json:"question_text"`
	Options      []Option `json:"options"`
	Difficulty   int      `json:"difficulty"`
	Explanation  string   `json:"explanation"`
}

// Generate produces one question for a composed substandard, using its
// first mapped sequence. The staged calls run in order: scaffolding,
// plan, question.
func (g *Generator) Generate(ctx context.Context, sub curriculum.Composed, questionNum int) (*Question, error) {
	if len(sub.Sequences) == 0 {
		return nil, fmt.Errorf("substandard %s has no mapped sequences", sub.ID)
	}
	seq := sub.Sequences[0]

	scaffolding, err := Scaffold(ctx, g.provider, seq)
	if err != nil {
		return nil, err
	}

	plan, err := g.plan(ctx, sub, seq)
	if err != nil {
		return nil, err
	}

	q, err := g.question(ctx, sub, plan, scaffolding)
	if err != nil {
		return nil, err
	}

	q.ID = fmt.Sprintf("q%d", questionNum)
	q.SubstandardID = sub.ID
	q.Grade = sub.Grade
	q.Plan = plan
	q.Scaffolding = scaffolding
	q.AdditionalDetails = fmt.Sprintf("Generated from %s, sequence %d (%s), at %s",
		sub.ID, seq.SequenceNumber, seq.SkillName, time.Now().UTC().Format(time.RFC3339))

	if err := Validate(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (g *Generator) plan(ctx context.Context, sub curriculum.Composed, seq curriculum.ComposedSequence) (string, error) {
	ctx = llm.WithPurpose(ctx, "question_plan")

	req := llm.Request{
		System: planSystem,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildPlanMessage(sub, seq, g.misconceptions[sub.ID])},
		},
		MaxTokens:   1024,
		Temperature: 0.5,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("plan generation for %s: %w", sub.ID, err)
	}

	text := string(resp.Content)
	var unquoted string
	if err := json.Unmarshal(resp.Content, &unquoted); err == nil {
		text = unquoted
	}
	return strings.TrimSpace(text), nil
}

func (g *Generator) question(ctx context.Context, sub curriculum.Composed, plan, scaffolding string) (*Question, error) {
	ctx = llm.WithPurpose(ctx, "question_gen")

	req := llm.Request{
		System: questionSystem,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildQuestionMessage(sub, plan, scaffolding)},
		},
		Schema:      QuestionSchema,
		MaxTokens:   2048,
		Temperature: 0.3,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("question generation for %s: %w", sub.ID, err)
	}

	var raw questionOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("parse question for %s: %w", sub.ID, err)
	}

	return &Question{
		QuestionText: raw.QuestionText,
		Options:      raw.Options,
		Difficulty:   raw.Difficulty,
		Explanation:  raw.Explanation,
	}, nil
}

// Run generates one question per composed substandard, collecting
// per-substandard failures instead of aborting. Substandards without
// mapped sequences are counted as skipped.
func (g *Generator) Run(ctx context.Context, subs []curriculum.Composed) (*Output, error) {
	out := &Output{
		Subject: "math",
		Type:    "mcq",
		Model:   g.provider.ModelID(),
	}

	for i, sub := range subs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if out.Grade == "" {
			out.Grade = fmt.Sprintf("%d", sub.Grade)
		}

		if len(sub.Sequences) == 0 {
			g.logger.Warn("skipping substandard with no sequences", "substandard", sub.ID)
			out.Stats.Skipped++
			continue
		}

		g.logger.Info("generating question",
			"substandard", sub.ID,
			"progress", fmt.Sprintf("%d/%d", i+1, len(subs)))
		out.Stats.TotalAttempted++

		q, err := g.Generate(ctx, sub, out.Stats.Successful+1)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			g.logger.Warn("generation failed", "substandard", sub.ID, "error", err)
			out.Stats.Failed++
			out.Errors = append(out.Errors, GenError{SubstandardID: sub.ID, Error: err.Error()})
			continue
		}

		out.Stats.Successful++
		out.GeneratedQuestions = append(out.GeneratedQuestions, *q)
	}

	out.GeneratedAt = time.Now().UTC()
	return out, nil
}
