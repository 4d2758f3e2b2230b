package config

import "time"

// Scenario names with a defined load profile.
const (
	ScenarioSmoke     = "smoke"
	ScenarioNormal    = "normal"
	ScenarioPeak      = "peak"
	ScenarioStress    = "stress"
	ScenarioCapacity  = "capacity"
	ScenarioEndurance = "endurance"
)

// User class identifiers naming load-pattern behaviors. The load generator
// maps these onto concrete request loops.
const (
	UserClassStandard   = "standard"
	UserClassPeak       = "peak"
	UserClassHighVolume = "high-volume"
)

// TestScenario is a named load profile: concurrency, ramp rate and duration,
// independent of the budget it is evaluated against.
type TestScenario struct {
	Name        string        `json:"name" yaml:"name"`
	Users       int           `json:"users" yaml:"users"`
	SpawnRate   int           `json:"spawn_rate" yaml:"spawn_rate"`
	Duration    time.Duration `json:"duration" yaml:"duration"`
	Description string        `json:"description" yaml:"description"`
	UserClasses []string      `json:"user_classes" yaml:"user_classes"`
	Tags        []string      `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// ScenarioFor returns the load profile for a scenario name. Unknown names
// fall back to the normal-load profile; same leniency policy as BudgetFor.
func ScenarioFor(name string) TestScenario {
	switch name {
	case ScenarioSmoke:
		return TestScenario{
			Name:        "Smoke Test",
			Users:       10,
			SpawnRate:   5,
			Duration:    30 * time.Second,
			Description: "Quick smoke test to verify basic functionality",
			UserClasses: []string{UserClassStandard},
			Tags:        []string{"smoke"},
		}
	case ScenarioPeak:
		return TestScenario{
			Name:        "Peak Hour Load",
			Users:       1000,
			SpawnRate:   100,
			Duration:    5 * time.Minute,
			Description: "Peak hour traffic simulation",
			UserClasses: []string{UserClassPeak, UserClassStandard},
			Tags:        []string{"peak"},
		}
	case ScenarioStress:
		return TestScenario{
			Name:        "Stress Test",
			Users:       2000,
			SpawnRate:   200,
			Duration:    10 * time.Minute,
			Description: "Stress test to find breaking point",
			UserClasses: []string{UserClassPeak, UserClassHighVolume, UserClassStandard},
			Tags:        []string{"stress"},
		}
	case ScenarioCapacity:
		return TestScenario{
			Name:        "Capacity Test",
			Users:       5000,
			SpawnRate:   500,
			Duration:    15 * time.Minute,
			Description: "Maximum capacity test",
			UserClasses: []string{UserClassHighVolume},
			Tags:        []string{"capacity"},
		}
	case ScenarioEndurance:
		return TestScenario{
			Name:        "Endurance Test",
			Users:       800,
			SpawnRate:   80,
			Duration:    30 * time.Minute,
			Description: "Long-running endurance test",
			UserClasses: []string{UserClassStandard, UserClassHighVolume},
			Tags:        []string{"endurance"},
		}
	case ScenarioNormal:
		fallthrough
	default:
		return TestScenario{
			Name:        "Normal Load",
			Users:       500,
			SpawnRate:   50,
			Duration:    2 * time.Minute,
			Description: "Normal production load simulation",
			UserClasses: []string{UserClassStandard},
			Tags:        []string{"normal"},
		}
	}
}
