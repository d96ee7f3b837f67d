package matching

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/anirudhs/dimatch/internal/curriculum"
	"github.com/anirudhs/dimatch/internal/library"
	"github.com/anirudhs/dimatch/internal/llm"
	"github.com/anirudhs/dimatch/internal/rank"
)

func testLibrary() *library.Library {
	return &library.Library{
		Skills: map[string]library.Skill{
			"Multiplication": {
				GradeSummaries: map[string]string{
					"grade_3": "Times tables through 10x10, arrays, equal groups.",
				},
				Progression: []library.Progression{
					{Grade: 3, Sequence: []library.Sequence{
						{SequenceNumber: 1, ProblemType: "Equal groups as repeated addition", ExampleQuestions: []string{"3 groups of 4"}},
						{SequenceNumber: 2, ProblemType: "Array models for multiplication", ExampleQuestions: []string{"4 rows of 5"}},
						{SequenceNumber: 3, ProblemType: "Times tables fact fluency", ExampleQuestions: []string{"7 x 8"}},
					}},
				},
			},
			"Division": {
				GradeSummaries: map[string]string{
					"grade_3": "Sharing and grouping with facts through 100.",
				},
				Progression: []library.Progression{
					{Grade: 3, Sequence: []library.Sequence{
						{SequenceNumber: 1, ProblemType: "Sharing objects equally", ExampleQuestions: []string{"12 shared by 3"}},
					}},
				},
			},
		},
	}
}

func testSubstandard() curriculum.Substandard {
	return curriculum.Substandard{
		ID:          "3.OA.A.1.1",
		Grade:       3,
		Description: "Interpret products of whole numbers as equal groups",
	}
}

// makeRating builds a Rating for a sequence with the given tiers.
func makeRating(skill string, seq int, quality rank.QualityTier, score int) Rating {
	return Rating{
		Candidate: rank.Candidate{
			SkillName:      skill,
			SequenceNumber: seq,
			Quality:        quality,
			Boundary:       rank.BoundaryCompliant,
			Grade:          rank.GradeOnGrade,
			Load:           rank.LoadLow,
			AlignmentScore: score,
		},
		ProblemType: "test",
		Explanation: "Covers the substandard directly with equal-group tasks and no boundary concerns noted.",
	}
}

// ratingJSON serializes canned ratings into a batch response body.
func ratingJSON(t *testing.T, ratings ...Rating) json.RawMessage {
	t.Helper()
	var excellent []int
	for _, r := range ratings {
		if r.Quality == rank.QualityExcellent {
			excellent = append(excellent, r.SequenceNumber)
		}
	}
	out := ratingOutput{SequenceRatings: ratings, ExcellentSequences: excellent}
	data, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal ratings: %v", err)
	}
	return data
}

func TestRateAll_Batching(t *testing.T) {
	lib := testLibrary()
	seqs := lib.AllSequencesForGrade(3) // Division#1, Mult#1, Mult#2, Mult#3

	mock := llm.NewMockProvider(
		llm.MockResponse{Content: ratingJSON(t,
			makeRating("Division", 1, rank.QualityPoor, 30),
			makeRating("Multiplication", 1, rank.QualityExcellent, 92),
		)},
		llm.MockResponse{Content: ratingJSON(t,
			makeRating("Multiplication", 2, rank.QualityExcellent, 88),
			makeRating("Multiplication", 3, rank.QualityFair, 70),
		)},
	)

	rater := NewRater(mock, 2, nil)
	ratings, err := rater.RateAll(context.Background(), testSubstandard(), seqs)
	if err != nil {
		t.Fatalf("RateAll: %v", err)
	}

	if len(ratings) != 4 {
		t.Fatalf("got %d ratings, want 4", len(ratings))
	}
	if mock.CallCount() != 2 {
		t.Errorf("made %d LLM calls, want 2", mock.CallCount())
	}
	if ratings[0].SkillName != "Division" || ratings[3].SequenceNumber != 3 {
		t.Errorf("ratings out of order: first=%s last=%d", ratings[0].SkillName, ratings[3].SequenceNumber)
	}
}

func TestRateAll_FailedBatchGetsFloorRatings(t *testing.T) {
	lib := testLibrary()
	seqs := lib.AllSequencesForGrade(3)

	mock := llm.NewMockProvider(
		llm.MockResponse{Err: errors.New("model overloaded")},
		llm.MockResponse{Content: ratingJSON(t,
			makeRating("Multiplication", 2, rank.QualityExcellent, 90),
			makeRating("Multiplication", 3, rank.QualityFair, 65),
		)},
	)

	rater := NewRater(mock, 2, nil)
	ratings, err := rater.RateAll(context.Background(), testSubstandard(), seqs)
	if err != nil {
		t.Fatalf("RateAll: %v", err)
	}

	if len(ratings) != 4 {
		t.Fatalf("got %d ratings, want 4", len(ratings))
	}

	// First batch (Division#1, Multiplication#1) is floored.
	for _, r := range ratings[:2] {
		if r.Quality != rank.QualityNonExistent || r.AlignmentScore != 0 {
			t.Errorf("floor rating = %+v", r.Candidate)
		}
		if rank.IsEligible(r.Candidate) {
			t.Errorf("floor rating for %s must not be eligible", r.ID())
		}
	}
	// Second batch came through intact.
	if ratings[2].Quality != rank.QualityExcellent {
		t.Errorf("second batch rating = %+v", ratings[2].Candidate)
	}
}

func TestRateAll_CountMismatchIsBatchFailure(t *testing.T) {
	lib := testLibrary()
	seqs := lib.SequencesForSkill("Multiplication", 3)

	// Three sequences, but the response rates only two.
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: ratingJSON(t,
			makeRating("Multiplication", 1, rank.QualityExcellent, 90),
			makeRating("Multiplication", 2, rank.QualityFair, 70),
		)},
	)

	rater := NewRater(mock, 0, nil)
	ratings, err := rater.RateAll(context.Background(), testSubstandard(), seqs)
	if err != nil {
		t.Fatalf("RateAll: %v", err)
	}
	if len(ratings) != 3 {
		t.Fatalf("got %d ratings, want 3", len(ratings))
	}
	for _, r := range ratings {
		if r.Quality != rank.QualityNonExistent {
			t.Errorf("mismatched batch should floor all ratings, got %+v", r.Candidate)
		}
	}
}

func TestRateAll_WrongIdentityIsBatchFailure(t *testing.T) {
	lib := testLibrary()
	seqs := lib.SequencesForSkill("Multiplication", 3)

	// Right count, but one rating names a sequence outside the batch. The
	// whole batch is floored rather than misattributing the stray rating.
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: ratingJSON(t,
			makeRating("Multiplication", 1, rank.QualityExcellent, 90),
			makeRating("Multiplication", 2, rank.QualityFair, 70),
			makeRating("Division", 1, rank.QualityFair, 65),
		)},
	)

	rater := NewRater(mock, 0, nil)
	ratings, err := rater.RateAll(context.Background(), testSubstandard(), seqs)
	if err != nil {
		t.Fatalf("RateAll: %v", err)
	}
	if len(ratings) != 3 {
		t.Fatalf("got %d ratings, want 3", len(ratings))
	}
	for _, r := range ratings {
		if r.SkillName != "Multiplication" {
			t.Errorf("rating attributed to %s, want Multiplication only", r.SkillName)
		}
		if r.Quality != rank.QualityNonExistent {
			t.Errorf("stray-identity batch should floor all ratings, got %+v", r.Candidate)
		}
	}
}

func TestRateAll_DuplicateIdentityIsBatchFailure(t *testing.T) {
	lib := testLibrary()
	seqs := lib.SequencesForSkill("Multiplication", 3)

	// Right count, but one sequence is rated twice and another not at all.
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: ratingJSON(t,
			makeRating("Multiplication", 1, rank.QualityExcellent, 90),
			makeRating("Multiplication", 1, rank.QualityFair, 70),
			makeRating("Multiplication", 3, rank.QualityFair, 65),
		)},
	)

	rater := NewRater(mock, 0, nil)
	ratings, err := rater.RateAll(context.Background(), testSubstandard(), seqs)
	if err != nil {
		t.Fatalf("RateAll: %v", err)
	}
	for _, r := range ratings {
		if r.Quality != rank.QualityNonExistent {
			t.Errorf("duplicate-identity batch should floor all ratings, got %+v", r.Candidate)
		}
	}
}

func TestRateAll_ContextCancelled(t *testing.T) {
	lib := testLibrary()
	seqs := lib.AllSequencesForGrade(3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rater := NewRater(llm.NewMockProvider(), 2, nil)
	if _, err := rater.RateAll(ctx, testSubstandard(), seqs); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
