package grading

import (
	"fmt"
	"strings"

	"github.com/acadify/acadify-api/internal/models"
	appErrors "github.com/acadify/acadify-api/pkg/errors"
)

const weightTolerance = 0.001

// DefaultFormula is used for classes created before per-class formulas
// existed: an even midterm/final split.
func DefaultFormula() models.Formula {
	return models.Formula{
		Components: []models.FormulaComponent{
			{Name: "Midterm", Weight: 50},
			{Name: "Final", Weight: 50},
		},
		PassingGrade:  models.DefaultPassingGrade,
		UseConversion: true,
	}
}

// ValidateFormula enforces the formula invariants: at least one component,
// non-empty unique names, weights within [0,100] summing to exactly 100.
func ValidateFormula(f models.Formula) error {
	if len(f.Components) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "at least one component is required")
	}
	seen := make(map[string]struct{}, len(f.Components))
	total := 0.0
	for _, c := range f.Components {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return appErrors.Clone(appErrors.ErrValidation, "all components must have a name")
		}
		if _, ok := seen[name]; ok {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("duplicate component %q", name))
		}
		seen[name] = struct{}{}
		if c.Weight < 0 || c.Weight > 100 {
			return appErrors.Clone(appErrors.ErrInvalidWeights, fmt.Sprintf("component %q weight must be between 0 and 100", name))
		}
		total += c.Weight
	}
	if total < 100-weightTolerance || total > 100+weightTolerance {
		return appErrors.Clone(appErrors.ErrInvalidWeights, "weights must total 100%")
	}
	if f.PassingGrade <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "passing grade must be positive")
	}
	return nil
}
