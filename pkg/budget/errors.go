package budget

import "fmt"

// ValidationError signals a malformed sample. Bad samples are never skipped:
// dropping them silently would corrupt the aggregate statistics.
type ValidationError struct {
	Index  int
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid sample at index %d: %s", e.Index, e.Reason)
}

// ConfigurationError signals unusable evaluation input (zero duration,
// unknown direction). Fatal to the evaluation call.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}
