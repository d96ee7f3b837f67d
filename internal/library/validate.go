package library

import (
	"fmt"
	"strings"
)

// validate performs structural checks on the corpus. Returns a combined
// error describing all problems found, or nil if valid.
func (l *Library) validate() error {
	var errs []string

	if len(l.Skills) == 0 {
		errs = append(errs, "library has no skills")
	}

	for name, skill := range l.Skills {
		if name == "" {
			errs = append(errs, "skill with empty name")
		}

		gradesSeen := make(map[int]bool)
		for _, prog := range skill.Progression {
			if gradesSeen[prog.Grade] {
				errs = append(errs, fmt.Sprintf("skill %q: duplicate progression for grade %d", name, prog.Grade))
			}
			gradesSeen[prog.Grade] = true

			seqSeen := make(map[int]bool, len(prog.Sequence))
			for _, seq := range prog.Sequence {
				if seq.SequenceNumber < 1 {
					errs = append(errs, fmt.Sprintf("skill %q grade %d: sequence number %d < 1", name, prog.Grade, seq.SequenceNumber))
				}
				if seqSeen[seq.SequenceNumber] {
					errs = append(errs, fmt.Sprintf("skill %q grade %d: duplicate sequence number %d", name, prog.Grade, seq.SequenceNumber))
				}
				seqSeen[seq.SequenceNumber] = true
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid DI library:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
