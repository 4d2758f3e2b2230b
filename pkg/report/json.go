package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// JSONReport renders the run as an indented JSON document for machine
// consumers (CI annotations, dashboards).
type JSONReport struct{}

func (g *JSONReport) Generate(ctx context.Context, run Run) (io.Reader, error) {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal run: %w", err)
	}
	return bytes.NewReader(append(data, '\n')), nil
}
