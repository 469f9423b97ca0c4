package report

// Strength is the severity bucket of a correlation with the outcome.
type Strength int

const (
	Weak Strength = iota
	ModeratePositive
	StrongPositive
	ModerateNegative
	StrongNegative
)

// Classify buckets r. NaN falls through to Weak.
func Classify(r float64) Strength {
	switch {
	case r > 0.5:
		return StrongPositive
	case r > 0.2:
		return ModeratePositive
	case r < -0.5:
		return StrongNegative
	case r <= -0.2:
		return ModerateNegative
	default:
		return Weak
	}
}

// Label is the short name of the bucket, e.g. "strong positive".
func (s Strength) Label() string {
	switch s {
	case StrongPositive:
		return "strong positive"
	case ModeratePositive:
		return "moderate positive"
	case StrongNegative:
		return "strong negative"
	case ModerateNegative:
		return "moderate negative"
	default:
		return "weak or negligible"
	}
}

// Meaning explains the bucket in plain words.
func (s Strength) Meaning() string {
	switch s {
	case StrongPositive:
		return "higher values are strongly associated with heart disease"
	case ModeratePositive:
		return "higher values are somewhat associated with heart disease"
	case StrongNegative:
		return "higher values are strongly associated with lower heart disease risk"
	case ModerateNegative:
		return "higher values are somewhat associated with lower heart disease risk"
	default:
		return "no strong relationship with heart disease"
	}
}

func (s Strength) String() string { return s.Label() }
