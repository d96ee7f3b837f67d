package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/anirudhs/dimatch/internal/curriculum"
	"github.com/anirudhs/dimatch/internal/library"
	"github.com/anirudhs/dimatch/internal/llm"
	"github.com/anirudhs/dimatch/internal/rank"
)

// DefaultBatchSize is how many sequences go into one rating call. Larger
// batches save requests but degrade rating quality on long contexts.
const DefaultBatchSize = 15

// Rater rates sequences against a substandard in fixed-size batches.
type Rater struct {
	provider  llm.Provider
	batchSize int
	logger    *slog.Logger
}

// NewRater creates a Rater. batchSize <= 0 selects DefaultBatchSize and a
// nil logger discards progress output.
func NewRater(provider llm.Provider, batchSize int, logger *slog.Logger) *Rater {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Rater{provider: provider, batchSize: batchSize, logger: logger}
}

// ratingOutput is the raw LLM batch response before validation.
type ratingOutput struct {
	SequenceRatings    []Rating `json:"sequence_ratings"`
	ExcellentSequences []int    `json:"excellent_sequences"`
}

// RateAll rates every sequence, batch by batch. A batch whose call fails
// even after retries is filled with floor ratings instead of aborting the
// substandard: the sequences become ineligible for ranking but the run
// keeps its one-rating-per-sequence accounting.
func (r *Rater) RateAll(ctx context.Context, sub curriculum.Substandard, seqs []library.GradeSequence) ([]Rating, error) {
	ctx = llm.WithPurpose(ctx, "sequence_rating")

	totalBatches := (len(seqs) + r.batchSize - 1) / r.batchSize
	ratings := make([]Rating, 0, len(seqs))

	for i := 0; i < len(seqs); i += r.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := i + r.batchSize
		if end > len(seqs) {
			end = len(seqs)
		}
		batch := seqs[i:end]
		batchNum := i/r.batchSize + 1

		r.logger.Info("rating batch",
			"substandard", sub.ID,
			"batch", fmt.Sprintf("%d/%d", batchNum, totalBatches),
			"sequences", len(batch))

		batchRatings, err := r.rateBatch(ctx, sub, batch)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			r.logger.Warn("batch failed, filling floor ratings",
				"substandard", sub.ID, "batch", batchNum, "error", err)
			batchRatings = floorRatings(batch, err)
		}
		ratings = append(ratings, batchRatings...)
	}

	return ratings, nil
}

func (r *Rater) rateBatch(ctx context.Context, sub curriculum.Substandard, batch []library.GradeSequence) ([]Rating, error) {
	userMsg, err := buildRatingMessage(sub, batch)
	if err != nil {
		return nil, err
	}

	req := llm.Request{
		System: ratingSystem(sub.Grade),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		Schema:      RatingSchema,
		MaxTokens:   8192,
		Temperature: 0,
	}

	resp, err := r.provider.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	var out ratingOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse batch ratings: %w", err)
	}

	if len(out.SequenceRatings) != len(batch) {
		return nil, fmt.Errorf("batch returned %d ratings for %d sequences", len(out.SequenceRatings), len(batch))
	}

	// Each rating must name a sequence from this batch, exactly once. A
	// judge that echoes a wrong identity would otherwise attribute its
	// rating to the wrong sequence.
	wanted := make(map[string]bool, len(batch))
	for _, gs := range batch {
		wanted[fmt.Sprintf("%s#%d", gs.SkillName, gs.Sequence.SequenceNumber)] = false
	}
	for _, rt := range out.SequenceRatings {
		id := rt.ID()
		seen, ok := wanted[id]
		if !ok {
			return nil, fmt.Errorf("batch returned rating for unknown sequence %s", id)
		}
		if seen {
			return nil, fmt.Errorf("batch returned duplicate rating for %s", id)
		}
		wanted[id] = true
	}

	return out.SequenceRatings, nil
}

// floorRatings substitutes the worst possible rating for every sequence
// of a failed batch. Every tier is at its floor so no floor-rated
// sequence can ever pass the eligibility filter.
func floorRatings(batch []library.GradeSequence, cause error) []Rating {
	out := make([]Rating, 0, len(batch))
	for _, gs := range batch {
		out = append(out, Rating{
			Candidate: rank.Candidate{
				SkillName:      gs.SkillName,
				SequenceNumber: gs.Sequence.SequenceNumber,
				Quality:        rank.QualityNonExistent,
				Boundary:       rank.BoundaryMajorViolation,
				Grade:          rank.GradeOffGrade,
				Load:           rank.LoadHigh,
				AlignmentScore: 0,
			},
			ProblemType: gs.Sequence.ProblemType,
			Explanation: fmt.Sprintf("Error during evaluation: %v", cause),
		})
	}
	return out
}
