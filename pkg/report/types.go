package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/DeepFriedCyber/proof-messenger-perf/pkg/budget"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// Run is everything a report needs about a finished load test.
type Run struct {
	RunID       string         `json:"run_id"`
	Scenario    string         `json:"scenario"`
	Environment string         `json:"environment"`
	Target      string         `json:"target"`
	StartedAt   time.Time      `json:"started_at"`
	Duration    time.Duration  `json:"duration"`
	Verdict     budget.Verdict `json:"verdict"`
}

type Generator interface {
	Generate(ctx context.Context, run Run) (io.Reader, error)
}

// NewGenerator creates a report generator for the requested format.
func NewGenerator(format Format) (Generator, error) {
	switch format {
	case FormatText:
		return &TextReport{}, nil
	case FormatJSON:
		return &JSONReport{}, nil
	case FormatCSV:
		return &CSVReport{}, nil
	default:
		return nil, fmt.Errorf("unknown report format: %s", format)
	}
}
