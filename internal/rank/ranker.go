// Package rank implements the deterministic eligibility filter, score
// normalizer, and top-K ranker that turn a batch of LLM sequence ratings
// into a substandard's final match list.
//
// Everything here is pure computation: no I/O, no retained state between
// batches, and byte-identical output for the same input regardless of how
// the input was ordered.
package rank

import "sort"

// IsEligible reports whether a candidate may ever appear in a result set,
// independent of its numeric score. A candidate qualifies only when it is
// rated EXCELLENT or FAIR, does not majorly violate the assessment
// boundary, and is not off-grade. POOR and NON-EXISTENT candidates are
// excluded even when their alignment score is numerically high, which
// guards against quality/score inconsistency in the judge's output.
func IsEligible(c Candidate) bool {
	if c.Quality != QualityExcellent && c.Quality != QualityFair {
		return false
	}
	if c.Boundary == BoundaryMajorViolation {
		return false
	}
	if c.Grade == GradeOffGrade {
		return false
	}
	return true
}

// FinalScore collapses a candidate's tiers and alignment score into one
// comparable number. EXCELLENT carries full weight, FAIR 0.75, so the
// coarse quality tier dominates; the continuous alignment score separates
// candidates within a tier; fixed penalties discount boundary violations,
// off-grade drift, and extraneous skill load.
//
// Total and pure: defined for every tier combination, eligible or not.
// The result can go negative under stacked penalties.
func FinalScore(c Candidate) float64 {
	base := 0.75
	if c.Quality == QualityExcellent {
		base = 1.0
	}

	penalty := 0.0
	if c.Boundary == BoundaryMinorViolation {
		penalty += 0.10
	}
	if c.Grade == GradeSlightlyOff {
		penalty += 0.10
	}
	switch c.Load {
	case LoadModerate:
		penalty += 0.05
	case LoadHigh:
		penalty += 0.15
	}

	return base*(float64(c.AlignmentScore)/100.0) - penalty
}

// TopK validates the batch, filters out ineligible candidates, scores the
// survivors, and returns the best k in strict total order.
//
// The order is: quality tier first (EXCELLENT before FAIR), then final
// score descending, then boundary tier, load tier, and grade tier, with
// the candidate identifier as the last key so no two candidates ever
// compare equal. Fewer than k eligible candidates yields a shorter result,
// never padding.
//
// A malformed candidate anywhere in the batch fails the whole call.
// Silently dropping bad records would make the determinism guarantee
// unverifiable; callers wanting partial tolerance must pre-filter.
func TopK(candidates []Candidate, k int) ([]Ranked, error) {
	if k < 1 {
		return nil, &InvalidKError{K: k}
	}

	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		if err := c.validate(); err != nil {
			return nil, err
		}
		id := c.ID()
		if _, dup := seen[id]; dup {
			return nil, &DuplicateIdentifierError{ID: id}
		}
		seen[id] = struct{}{}
	}

	eligible := make([]Ranked, 0, len(candidates))
	for _, c := range candidates {
		if !IsEligible(c) {
			continue
		}
		eligible = append(eligible, Ranked{Candidate: c, FinalScore: FinalScore(c)})
	}

	sort.Slice(eligible, func(i, j int) bool {
		return less(eligible[j], eligible[i]) // descending
	})

	if len(eligible) > k {
		eligible = eligible[:k]
	}
	return eligible, nil
}

// less reports whether a ranks strictly below b. Each key breaks ties in
// the previous one; the identifier makes the order strict (higher
// identifier ranks lower, so ties resolve lexicographically ascending in
// the output).
func less(a, b Ranked) bool {
	if a.Quality.rank() != b.Quality.rank() {
		return a.Quality.rank() < b.Quality.rank()
	}
	if a.FinalScore != b.FinalScore {
		return a.FinalScore < b.FinalScore
	}
	if a.Boundary.rank() != b.Boundary.rank() {
		return a.Boundary.rank() < b.Boundary.rank()
	}
	if a.Load.rank() != b.Load.rank() {
		return a.Load.rank() < b.Load.rank()
	}
	if a.Grade.rank() != b.Grade.rank() {
		return a.Grade.rank() < b.Grade.rank()
	}
	return a.ID() > b.ID()
}

// CountEligible returns how many candidates pass the eligibility filter.
func CountEligible(candidates []Candidate) int {
	n := 0
	for _, c := range candidates {
		if IsEligible(c) {
			n++
		}
	}
	return n
}
