package rank

import "fmt"

// InvalidTierError indicates a candidate carries a tier value outside its
// closed enumeration. The candidate cannot be ranked; no default is guessed.
type InvalidTierError struct {
	ID    string
	Field string
	Value string
}

func (e *InvalidTierError) Error() string {
	return fmt.Sprintf("candidate %s: invalid %s %q", e.ID, e.Field, e.Value)
}

// InvalidScoreError indicates an alignment score outside [0,100].
type InvalidScoreError struct {
	ID    string
	Score int
}

func (e *InvalidScoreError) Error() string {
	return fmt.Sprintf("candidate %s: alignment score %d outside [0,100]", e.ID, e.Score)
}

// InvalidKError indicates a non-positive k was passed to TopK.
type InvalidKError struct {
	K int
}

func (e *InvalidKError) Error() string {
	return fmt.Sprintf("k must be a positive integer, got %d", e.K)
}

// DuplicateIdentifierError indicates two candidates in one batch share an
// identifier, which would leave the total order non-strict.
type DuplicateIdentifierError struct {
	ID string
}

func (e *DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("duplicate candidate identifier %s in batch", e.ID)
}

// ScoreBandMismatchError indicates an alignment score outside the band
// implied by the candidate's quality tier. Advisory: reported by
// CheckScoreBand, never raised by TopK.
type ScoreBandMismatchError struct {
	ID      string
	Quality QualityTier
	Score   int
	Low     int
	High    int
}

func (e *ScoreBandMismatchError) Error() string {
	return fmt.Sprintf("candidate %s: score %d outside %s band [%d,%d]",
		e.ID, e.Score, e.Quality, e.Low, e.High)
}
