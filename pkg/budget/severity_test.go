package budget

import "testing"

func TestClassifyAtMost(t *testing.T) {
	bands := DefaultBands()

	cases := []struct {
		name      string
		observed  float64
		threshold float64
		violated  bool
		severity  Severity
	}{
		{"under threshold", 100, 150, false, ""},
		{"exactly at threshold", 150, 150, false, ""},
		{"slightly over", 160, 150, true, SeverityInfo},
		{"warning band", 225, 150, true, SeverityWarning},
		{"exactly warning boundary", 150 * 1.5, 150, true, SeverityWarning},
		{"critical band", 400, 150, true, SeverityCritical},
		{"exactly critical boundary", 300, 150, true, SeverityCritical},
		{"zero observed zero threshold", 0, 0, false, ""},
		{"positive observed zero threshold", 5, 0, true, SeverityCritical},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			severity, violated := bands.Classify(tc.observed, tc.threshold, AtMost)
			if violated != tc.violated {
				t.Fatalf("violated = %v, want %v", violated, tc.violated)
			}
			if severity != tc.severity {
				t.Errorf("severity = %q, want %q", severity, tc.severity)
			}
		})
	}
}

func TestClassifyAtLeast(t *testing.T) {
	bands := DefaultBands()

	cases := []struct {
		name      string
		observed  float64
		threshold float64
		violated  bool
		severity  Severity
	}{
		{"above floor", 200, 100, false, ""},
		{"exactly at floor", 100, 100, false, ""},
		{"slightly under", 90, 100, true, SeverityInfo},
		{"warning band", 60, 100, true, SeverityWarning},
		{"critical band", 40, 100, true, SeverityCritical},
		{"zero throughput", 0, 100, true, SeverityCritical},
		{"zero floor always passes", 0, 0, false, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			severity, violated := bands.Classify(tc.observed, tc.threshold, AtLeast)
			if violated != tc.violated {
				t.Fatalf("violated = %v, want %v", violated, tc.violated)
			}
			if severity != tc.severity {
				t.Errorf("severity = %q, want %q", severity, tc.severity)
			}
		})
	}
}

func TestCustomBands(t *testing.T) {
	bands := SeverityBands{Critical: 3.0, Warning: 2.0}

	severity, violated := bands.Classify(250, 100, AtMost)
	if !violated || severity != SeverityWarning {
		t.Errorf("ratio 2.5 with {3.0, 2.0} bands: got (%q, %v), want (warning, true)", severity, violated)
	}
}

func TestParseDirection(t *testing.T) {
	if _, err := ParseDirection("at_most"); err != nil {
		t.Errorf("at_most should parse: %v", err)
	}
	if _, err := ParseDirection("at_least"); err != nil {
		t.Errorf("at_least should parse: %v", err)
	}
	if _, err := ParseDirection("sideways"); err == nil {
		t.Error("unknown direction should fail")
	}
}
