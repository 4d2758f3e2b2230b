package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/DeepFriedCyber/proof-messenger-perf/pkg/budget"
)

// File is the on-disk override format. Every section is optional; entries
// shadow the static tables by name.
type File struct {
	Budgets    map[string]budget.PerformanceBudget `json:"budgets,omitempty" yaml:"budgets,omitempty"`
	Scenarios  map[string]FileScenario             `json:"scenarios,omitempty" yaml:"scenarios,omitempty"`
	AlertBands *budget.SeverityBands               `json:"alert_bands,omitempty" yaml:"alert_bands,omitempty"`
}

// FileScenario is a TestScenario with a human-readable duration string
// ("30s", "5m") as it appears in config files.
type FileScenario struct {
	Name        string   `json:"name" yaml:"name"`
	Users       int      `json:"users" yaml:"users"`
	SpawnRate   int      `json:"spawn_rate" yaml:"spawn_rate"`
	Duration    string   `json:"duration" yaml:"duration"`
	Description string   `json:"description" yaml:"description"`
	UserClasses []string `json:"user_classes" yaml:"user_classes"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Overrides wraps a parsed config file. A nil *Overrides is valid and
// resolves everything from the static tables.
type Overrides struct {
	file File
}

// Load parses a YAML or JSON override file (chosen by extension).
func Load(path string) (*Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var f File
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	// Validate scenario durations up front so a bad file fails at load
	// time, not mid-run.
	for name, s := range f.Scenarios {
		if _, err := time.ParseDuration(s.Duration); err != nil {
			return nil, fmt.Errorf("scenario %q: invalid duration %q: %w", name, s.Duration, err)
		}
		if s.Users <= 0 || s.SpawnRate <= 0 || s.SpawnRate > s.Users {
			return nil, fmt.Errorf("scenario %q: users must be positive and spawn_rate in (0, users]", name)
		}
	}

	return &Overrides{file: f}, nil
}

// BudgetFor resolves a budget, preferring a file entry over the static
// table. Unknown names still fall back to the development budget.
func (o *Overrides) BudgetFor(env string) budget.PerformanceBudget {
	if o != nil {
		if b, ok := o.file.Budgets[env]; ok {
			return b
		}
	}
	return BudgetFor(env)
}

// ScenarioFor resolves a scenario, preferring a file entry over the static
// table.
func (o *Overrides) ScenarioFor(name string) TestScenario {
	if o != nil {
		if s, ok := o.file.Scenarios[name]; ok {
			d, _ := time.ParseDuration(s.Duration) // validated in Load
			return TestScenario{
				Name:        s.Name,
				Users:       s.Users,
				SpawnRate:   s.SpawnRate,
				Duration:    d,
				Description: s.Description,
				UserClasses: s.UserClasses,
				Tags:        s.Tags,
			}
		}
	}
	return ScenarioFor(name)
}

// Bands resolves the severity bands, preferring the file's table.
func (o *Overrides) Bands() budget.SeverityBands {
	if o != nil && o.file.AlertBands != nil {
		return *o.file.AlertBands
	}
	return DefaultAlertBands()
}
