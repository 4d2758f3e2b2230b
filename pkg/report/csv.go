package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// CSVReport renders one row per violation. A passing run yields a CSV
// with headers only, which keeps downstream tooling simple.
type CSVReport struct{}

func (g *CSVReport) Generate(ctx context.Context, run Run) (io.Reader, error) {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)

	headers := []string{"run_id", "scenario", "environment", "metric", "endpoint", "observed", "threshold", "severity"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write headers: %w", err)
	}

	for _, v := range run.Verdict.Violations {
		row := []string{
			run.RunID,
			run.Scenario,
			run.Environment,
			v.Metric,
			v.Endpoint,
			strconv.FormatFloat(v.Observed, 'f', -1, 64),
			strconv.FormatFloat(v.Threshold, 'f', -1, 64),
			string(v.Severity),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush writer: %w", err)
	}

	return buf, nil
}
