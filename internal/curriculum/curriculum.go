// Package curriculum loads CCSS substandard records from the experiment's
// CSV and composed-JSON files.
package curriculum

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Substandard is one curriculum substandard to be matched against the DI
// corpus.
type Substandard struct {
	ID                 string `json:"substandard_id"`
	Grade              int    `json:"grade"`
	Description        string `json:"substandard_description"`
	AssessmentBoundary string `json:"assessment_boundary"`
}

// noBoundary is the placeholder used when a substandard carries no
// assessment boundary of its own.
const noBoundary = "No specific boundaries provided"

// Boundary returns the assessment boundary, or the placeholder for
// substandards without one.
func (s Substandard) Boundary() string {
	if s.AssessmentBoundary == "" {
		return noBoundary
	}
	return s.AssessmentBoundary
}

// LoadCSV reads substandards from a header-mapped CSV file and keeps only
// rows for the given grade. Expected columns: substandard_id, grade,
// substandard_description, assessment_boundary (optional).
func LoadCSV(path string, grade int) ([]Substandard, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open curriculum: %w", err)
	}
	defer f.Close()

	subs, err := readCSV(f, grade)
	if err != nil {
		return nil, fmt.Errorf("read curriculum %s: %w", path, err)
	}
	return subs, nil
}

func readCSV(r io.Reader, grade int) ([]Substandard, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}
	for _, required := range []string{"substandard_id", "grade", "substandard_description"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var subs []Substandard
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		g, err := strconv.Atoi(field(row, "grade"))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid grade %q", line, field(row, "grade"))
		}
		if g != grade {
			continue
		}

		subs = append(subs, Substandard{
			ID:                 field(row, "substandard_id"),
			Grade:              g,
			Description:        field(row, "substandard_description"),
			AssessmentBoundary: field(row, "assessment_boundary"),
		})
	}
	return subs, nil
}

// Composed is a substandard joined with its mapped sequences, the shape
// the question-generation pipeline consumes.
type Composed struct {
	Substandard
	Sequences []ComposedSequence `json:"sequences"`
}

// ComposedSequence is one mapped sequence inside a Composed record,
// optionally carrying its scripted format.
type ComposedSequence struct {
	SkillName        string          `json:"skill_name"`
	SequenceNumber   int             `json:"sequence_number"`
	ProblemType      string          `json:"problem_type"`
	ExampleQuestions []string        `json:"example_questions"`
	Format           json.RawMessage `json:"format,omitempty"`
}

// HasFormat reports whether the sequence carries a non-null format.
func (cs ComposedSequence) HasFormat() bool {
	return len(cs.Format) > 0 && string(cs.Format) != "null"
}

// LoadComposed reads the composed-substandards JSON file.
func LoadComposed(path string) ([]Composed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read composed substandards: %w", err)
	}

	var doc struct {
		Substandards []Composed `json:"substandards"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse composed substandards: %w", err)
	}
	return doc.Substandards, nil
}
