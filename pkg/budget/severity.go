package budget

// Severity is the alerting tier assigned to a violation.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Direction says which side of the threshold is acceptable.
type Direction string

const (
	// AtMost: observed must be <= threshold (latency, failure rate).
	AtMost Direction = "at_most"
	// AtLeast: observed must be >= threshold (throughput floors).
	AtLeast Direction = "at_least"
)

// ParseDirection converts a config string into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case AtMost, AtLeast:
		return Direction(s), nil
	default:
		return "", &ConfigurationError{Reason: "unknown direction " + s}
	}
}

// SeverityBands holds the overage ratios that map a violation onto a tier.
// A ratio at or above Critical is critical, at or above Warning is warning,
// anything above 1.0 is info. A ratio of exactly 1.0 is not a violation:
// equality satisfies both "at most" and "at least" thresholds.
type SeverityBands struct {
	Critical float64 `json:"critical" yaml:"critical"`
	Warning  float64 `json:"warning" yaml:"warning"`
}

// DefaultBands mirror the three-tier alerting table.
func DefaultBands() SeverityBands {
	return SeverityBands{Critical: 2.0, Warning: 1.5}
}

// Classify compares observed against threshold in the given direction and
// returns the severity tier. The second return is false when the comparison
// passed. Total over all non-negative inputs: it never fails.
func (b SeverityBands) Classify(observed, threshold float64, dir Direction) (Severity, bool) {
	var ratio float64
	switch dir {
	case AtLeast:
		if threshold <= 0 {
			return "", false
		}
		if observed <= 0 {
			// Zero throughput can never meet a positive floor.
			return SeverityCritical, true
		}
		ratio = threshold / observed
	default: // AtMost
		if threshold <= 0 {
			if observed <= 0 {
				return "", false
			}
			return SeverityCritical, true
		}
		ratio = observed / threshold
	}

	if ratio <= 1 {
		return "", false
	}
	switch {
	case ratio >= b.Critical:
		return SeverityCritical, true
	case ratio >= b.Warning:
		return SeverityWarning, true
	default:
		return SeverityInfo, true
	}
}
