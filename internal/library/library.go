// Package library models the Direct Instruction corpus: skills, their
// per-grade progressions of problem sequences, and the scripted teaching
// formats attached to sequences.
package library

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// FormatStep is one teacher action inside a format part.
type FormatStep struct {
	TeacherAction string `json:"teacher_action"`
}

// FormatPart groups the steps of one section of a scripted format.
type FormatPart struct {
	PartName string       `json:"part_name"`
	Steps    []FormatStep `json:"steps"`
}

// Format is a scripted DI lesson format referenced by a sequence.
type Format struct {
	FormatNumber string       `json:"format_number"`
	Title        string       `json:"title"`
	Parts        []FormatPart `json:"parts"`
}

// Sequence is one problem sequence inside a grade progression.
type Sequence struct {
	SequenceNumber   int      `json:"sequence_number"`
	ProblemType      string   `json:"problem_type"`
	ExampleQuestions []string `json:"example_questions"`
	VisualAids       string   `json:"visual_aids"`
	RelatedFormats   []string `json:"related_formats"`
	Format           *Format  `json:"format,omitempty"`
}

// Progression holds a skill's sequences for one grade.
type Progression struct {
	Grade    int        `json:"grade"`
	Sequence []Sequence `json:"sequence"`
}

// Skill is one DI skill track with its progressions and grade summaries.
type Skill struct {
	GradeSummaries map[string]string `json:"grade_based_summary"`
	Progression    []Progression     `json:"progression"`
}

// Library is the full DI corpus keyed by skill name.
type Library struct {
	Skills map[string]Skill `json:"skills"`
}

// Load reads and validates a DI corpus JSON file.
func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read library: %w", err)
	}

	var lib Library
	if err := json.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("parse library: %w", err)
	}

	if err := lib.validate(); err != nil {
		return nil, err
	}
	return &lib, nil
}

// GradeSummary returns the skill's summary for the given grade, or "" if
// the skill has no summary at that grade.
func (l *Library) GradeSummary(skillName string, grade int) string {
	skill, ok := l.Skills[skillName]
	if !ok {
		return ""
	}
	return skill.GradeSummaries[fmt.Sprintf("grade_%d", grade)]
}

// SkillsWithSummaries returns the names of all skills that have a summary
// for the given grade, sorted for deterministic prompt construction.
func (l *Library) SkillsWithSummaries(grade int) []string {
	key := fmt.Sprintf("grade_%d", grade)
	var names []string
	for name, skill := range l.Skills {
		if _, ok := skill.GradeSummaries[key]; ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// GradeSequence pairs a sequence with the skill it belongs to.
type GradeSequence struct {
	SkillName string
	Grade     int
	Sequence  Sequence
}

// SequencesForSkill returns all sequences of one skill at the given grade,
// sorted by sequence number.
func (l *Library) SequencesForSkill(skillName string, grade int) []GradeSequence {
	skill, ok := l.Skills[skillName]
	if !ok {
		return nil
	}
	var out []GradeSequence
	for _, prog := range skill.Progression {
		if prog.Grade != grade {
			continue
		}
		for _, seq := range prog.Sequence {
			out = append(out, GradeSequence{SkillName: skillName, Grade: grade, Sequence: seq})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Sequence.SequenceNumber < out[j].Sequence.SequenceNumber
	})
	return out
}

// AllSequencesForGrade returns every sequence across all skills at the
// given grade, sorted by (skill name, sequence number). The sort keeps
// batch composition, and therefore LLM call content, stable across runs.
func (l *Library) AllSequencesForGrade(grade int) []GradeSequence {
	var out []GradeSequence
	for name, skill := range l.Skills {
		for _, prog := range skill.Progression {
			if prog.Grade != grade {
				continue
			}
			for _, seq := range prog.Sequence {
				out = append(out, GradeSequence{SkillName: name, Grade: grade, Sequence: seq})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.SkillName != b.SkillName {
			return a.SkillName < b.SkillName
		}
		return a.Sequence.SequenceNumber < b.Sequence.SequenceNumber
	})
	return out
}
