package report

// Band is a color/urgency classification derived from a numeric score.
// Keeping the threshold logic here, away from the rendering code, makes
// the thresholds testable on their own.
type Band int

const (
	BandLow Band = iota
	BandModerate
	BandHigh
)

func (b Band) String() string {
	switch b {
	case BandHigh:
		return "High"
	case BandModerate:
		return "Moderate"
	default:
		return "Low"
	}
}

// ConfidenceBand classifies a 0-100 confidence score.
func ConfidenceBand(confidence float64) Band {
	switch {
	case confidence >= 75:
		return BandHigh
	case confidence >= 50:
		return BandModerate
	default:
		return BandLow
	}
}

// SeverityScoreBand classifies the mean severity shown on the diagnosis
// card.
func SeverityScoreBand(score float64) Band {
	switch {
	case score >= 5:
		return BandHigh
	case score >= 3:
		return BandModerate
	default:
		return BandLow
	}
}

// SymptomSeverityBand classifies a single symptom's 1-7 severity in the
// per-symptom table. Its high threshold is stricter than the mean's.
func SymptomSeverityBand(severity int) Band {
	switch {
	case severity >= 6:
		return BandHigh
	case severity >= 3:
		return BandModerate
	default:
		return BandLow
	}
}
