package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/piwi3910/CrateFill/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.PackSettings
}

// ComparisonResult holds the packing result and headline numbers for a
// single scenario.
type ComparisonResult struct {
	Scenario    ComparisonScenario
	Result      model.PackResult
	Placed      int
	Failed      int
	Utilization float64
	Weight      float64
	Err         error
}

// CompareScenarios packs the same backlog once per scenario and returns the
// results in scenario order. A scenario whose settings are invalid carries
// its error instead of a result.
func CompareScenarios(scenarios []ComparisonScenario, c model.Container, items []model.Item, logger *zap.Logger) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		p := New(scenario.Settings, WithLogger(logger))
		result, err := p.Pack(c, items)

		results = append(results, ComparisonResult{
			Scenario:    scenario,
			Result:      result,
			Placed:      result.PlacedCount(),
			Failed:      result.FailedCount(),
			Utilization: result.Utilization,
			Weight:      result.TotalWeight,
			Err:         err,
		})
	}

	return results
}

// Best returns the index of the result with the highest utilization,
// preferring fewer failures on ties, or -1 if none succeeded.
func Best(results []ComparisonResult) int {
	best := -1
	for i, r := range results {
		if r.Err != nil {
			continue
		}
		if best < 0 ||
			r.Utilization > results[best].Utilization ||
			(r.Utilization == results[best].Utilization && r.Failed < results[best].Failed) {
			best = i
		}
	}
	return best
}

// BuildDefaultScenarios generates what-if alternatives around the base
// settings: finer and coarser grids, a stricter and a looser support
// threshold, and rotation switched the other way.
func BuildDefaultScenarios(base model.PackSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: base,
		},
	}

	if base.GridSize > 1 {
		fine := base
		fine.GridSize = max(1, base.GridSize/2)
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Grid %dmm (finer)", fine.GridSize),
			Settings: fine,
		})
	}

	coarse := base
	coarse.GridSize = base.GridSize * 2
	scenarios = append(scenarios, ComparisonScenario{
		Name:     fmt.Sprintf("Grid %dmm (coarser)", coarse.GridSize),
		Settings: coarse,
	})

	if base.SupportThreshold < 1 {
		strict := base
		strict.SupportThreshold = min(1, base.SupportThreshold*2)
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Support %.0f%%", strict.SupportThreshold*100),
			Settings: strict,
		})
	}

	loose := base
	loose.SupportThreshold = base.SupportThreshold / 2
	scenarios = append(scenarios, ComparisonScenario{
		Name:     fmt.Sprintf("Support %.0f%%", loose.SupportThreshold*100),
		Settings: loose,
	})

	flipped := base
	flipped.AllowRotation = !base.AllowRotation
	name := "Rotation Off"
	if flipped.AllowRotation {
		name = "Rotation On"
	}
	scenarios = append(scenarios, ComparisonScenario{
		Name:     name,
		Settings: flipped,
	})

	return scenarios
}
