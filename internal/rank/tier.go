package rank

// QualityTier is the judge's overall match-quality rating for a candidate.
type QualityTier string

const (
	QualityExcellent   QualityTier = "EXCELLENT"
	QualityFair        QualityTier = "FAIR"
	QualityPoor        QualityTier = "POOR"
	QualityNonExistent QualityTier = "NON-EXISTENT"
)

// rank returns the ordering position of the tier, higher is better.
func (q QualityTier) rank() int {
	switch q {
	case QualityExcellent:
		return 3
	case QualityFair:
		return 2
	case QualityPoor:
		return 1
	case QualityNonExistent:
		return 0
	default:
		return -1
	}
}

// Valid reports whether q is one of the four defined quality tiers.
func (q QualityTier) Valid() bool { return q.rank() >= 0 }

// BoundaryTier rates compliance with the substandard's assessment boundary.
type BoundaryTier string

const (
	BoundaryCompliant      BoundaryTier = "COMPLIANT"
	BoundaryMinorViolation BoundaryTier = "MINOR_VIOLATION"
	BoundaryMajorViolation BoundaryTier = "MAJOR_VIOLATION"
)

func (b BoundaryTier) rank() int {
	switch b {
	case BoundaryCompliant:
		return 2
	case BoundaryMinorViolation:
		return 1
	case BoundaryMajorViolation:
		return 0
	default:
		return -1
	}
}

// Valid reports whether b is one of the three defined boundary tiers.
func (b BoundaryTier) Valid() bool { return b.rank() >= 0 }

// GradeTier rates how well the candidate's grade level matches the target.
type GradeTier string

const (
	GradeOnGrade     GradeTier = "ON_GRADE"
	GradeSlightlyOff GradeTier = "SLIGHTLY_OFF"
	GradeOffGrade    GradeTier = "OFF_GRADE"
)

func (g GradeTier) rank() int {
	switch g {
	case GradeOnGrade:
		return 2
	case GradeSlightlyOff:
		return 1
	case GradeOffGrade:
		return 0
	default:
		return -1
	}
}

// Valid reports whether g is one of the three defined grade tiers.
func (g GradeTier) Valid() bool { return g.rank() >= 0 }

// LoadTier rates how much extraneous skill work the candidate demands
// beyond the target substandard.
type LoadTier string

const (
	LoadLow      LoadTier = "LOW"
	LoadModerate LoadTier = "MODERATE"
	LoadHigh     LoadTier = "HIGH"
)

func (l LoadTier) rank() int {
	switch l {
	case LoadLow:
		return 2
	case LoadModerate:
		return 1
	case LoadHigh:
		return 0
	default:
		return -1
	}
}

// Valid reports whether l is one of the three defined load tiers.
func (l LoadTier) Valid() bool { return l.rank() >= 0 }
