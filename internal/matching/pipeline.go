package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/anirudhs/dimatch/internal/curriculum"
	"github.com/anirudhs/dimatch/internal/library"
	"github.com/anirudhs/dimatch/internal/llm"
	"github.com/anirudhs/dimatch/internal/rank"
	"github.com/anirudhs/dimatch/internal/store"
)

// Matching modes.
const (
	// ModeTwoPhase narrows to the best skills first, then rates only
	// their sequences.
	ModeTwoPhase = "two-phase"

	// ModeBruteforce rates every sequence in the grade.
	ModeBruteforce = "bruteforce"
)

// DefaultTopK is how many final matches each substandard keeps.
const DefaultTopK = 5

// Pipeline runs the full substandard-to-sequence mapping process with
// per-substandard checkpointing, so an interrupted run can resume.
type Pipeline struct {
	Provider llm.Provider
	Library  *library.Library
	Runs     store.RunRepo
	Logger   *slog.Logger

	// BatchSize for rating calls. <= 0 selects DefaultBatchSize.
	BatchSize int

	// TopK final matches per substandard. <= 0 selects DefaultTopK.
	TopK int
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func (p *Pipeline) topK() int {
	if p.TopK > 0 {
		return p.TopK
	}
	return DefaultTopK
}

// Run processes every substandard in the given mode. When resumeRunID is
// non-empty, substandards already checkpointed under that run are loaded
// from the store instead of being re-judged. The returned run ID can be
// passed back for a later resume.
//
// A context cancellation aborts mid-run and leaves the run record in the
// running state; any other per-substandard failure is recorded on its
// Result and the run continues.
func (p *Pipeline) Run(ctx context.Context, grade int, subs []curriculum.Substandard, mode, resumeRunID string) (*MappingSet, string, error) {
	if mode != ModeTwoPhase && mode != ModeBruteforce {
		return nil, "", fmt.Errorf("unknown matching mode %q", mode)
	}

	log := p.logger()

	runID := resumeRunID
	done := make(map[string]Result)
	if runID == "" {
		var err error
		runID, err = p.Runs.Create(ctx, store.RunKindMatch, grade, p.Provider.ModelID(), len(subs))
		if err != nil {
			return nil, "", err
		}
	} else {
		entries, err := p.Runs.Progress(ctx, runID)
		if err != nil {
			return nil, "", fmt.Errorf("load progress for run %s: %w", runID, err)
		}
		for _, e := range entries {
			var res Result
			if err := json.Unmarshal(e.Payload, &res); err != nil {
				return nil, "", fmt.Errorf("decode checkpoint %s: %w", e.SubstandardID, err)
			}
			done[e.SubstandardID] = res
		}
		log.Info("resuming run", "run_id", runID, "completed", len(done))
	}

	results := make([]Result, 0, len(subs))
	for i, sub := range subs {
		if res, ok := done[sub.ID]; ok {
			results = append(results, res)
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, runID, err
		}

		log.Info("processing substandard",
			"substandard", sub.ID,
			"progress", fmt.Sprintf("%d/%d", i+1, len(subs)),
			"mode", mode)

		res := p.processOne(ctx, sub, mode)
		if ctx.Err() != nil {
			return nil, runID, ctx.Err()
		}

		payload, err := json.Marshal(res)
		if err != nil {
			return nil, runID, fmt.Errorf("encode result for %s: %w", sub.ID, err)
		}
		if err := p.Runs.MarkCompleted(ctx, runID, sub.ID, payload); err != nil {
			return nil, runID, err
		}
		results = append(results, res)

		if res.HasMatches() {
			log.Info("substandard matched", "substandard", sub.ID, "matches", len(res.FinalMatches))
		} else {
			log.Warn("no eligible matches", "substandard", sub.ID, "error", res.Error)
		}
	}

	if err := p.Runs.Finish(ctx, runID, store.RunStatusCompleted, ""); err != nil {
		return nil, runID, err
	}

	set := &MappingSet{
		Metadata: Metadata{
			TargetGrade:       grade,
			TotalSubstandards: len(subs),
			Mode:              mode,
			Model:             p.Provider.ModelID(),
			CompletedAt:       time.Now().UTC(),
		},
		Mappings: results,
	}
	return set, runID, nil
}

// processOne judges a single substandard. Errors are folded into the
// Result rather than returned: one bad substandard must not sink a run
// that has hours of judged work behind it.
func (p *Pipeline) processOne(ctx context.Context, sub curriculum.Substandard, mode string) Result {
	res := Result{
		SubstandardID:      sub.ID,
		Grade:              sub.Grade,
		Description:        sub.Description,
		AssessmentBoundary: sub.Boundary(),
		FinalMatches:       []Match{},
	}

	var seqs []library.GradeSequence
	switch mode {
	case ModeTwoPhase:
		selected, err := SelectSkills(ctx, p.Provider, sub, p.Library)
		if err != nil {
			res.Error = err.Error()
			return res
		}
		res.SelectedSkills = selected
		for _, sm := range selected {
			seqs = append(seqs, p.Library.SequencesForSkill(sm.SkillName, sub.Grade)...)
		}
	case ModeBruteforce:
		seqs = p.Library.AllSequencesForGrade(sub.Grade)
	}

	if len(seqs) == 0 {
		res.Error = "no sequences to rate"
		return res
	}

	rater := NewRater(p.Provider, p.BatchSize, p.Logger)
	ratings, err := rater.RateAll(ctx, sub, seqs)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Ratings = ratings
	res.SequencesEvaluated = len(ratings)

	candidates := make([]rank.Candidate, 0, len(ratings))
	for _, r := range ratings {
		candidates = append(candidates, r.Candidate)
	}
	ranked, err := rank.TopK(candidates, p.topK())
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.FinalMatches = finalMatches(ranked, sub.Grade)
	return res
}

// NeedsRemap reports whether a previously mapped substandard still lacks
// any FAIR or EXCELLENT match and should go through brute-force remapping.
func NeedsRemap(res Result) bool {
	for _, m := range res.FinalMatches {
		if m.Quality == rank.QualityExcellent || m.Quality == rank.QualityFair {
			return false
		}
	}
	return true
}

// LoadMappingSet reads a mapping output file written by a previous run.
func LoadMappingSet(path string) (*MappingSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mappings: %w", err)
	}
	var set MappingSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse mappings %s: %w", path, err)
	}
	return &set, nil
}

// MergeRemapped replaces entries of base with their remapped versions,
// keeping base order. Substandards absent from remapped pass through.
func MergeRemapped(base *MappingSet, remapped []Result) *MappingSet {
	byID := make(map[string]Result, len(remapped))
	for _, r := range remapped {
		byID[r.SubstandardID] = r
	}
	merged := make([]Result, 0, len(base.Mappings))
	for _, m := range base.Mappings {
		if r, ok := byID[m.SubstandardID]; ok {
			merged = append(merged, r)
		} else {
			merged = append(merged, m)
		}
	}
	out := *base
	out.Mappings = merged
	return &out
}
