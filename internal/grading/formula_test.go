package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadify/acadify-api/internal/models"
	appErrors "github.com/acadify/acadify-api/pkg/errors"
)

func TestDefaultFormula(t *testing.T) {
	formula := DefaultFormula()
	require.Len(t, formula.Components, 2)
	assert.Equal(t, "Midterm", formula.Components[0].Name)
	assert.Equal(t, "Final", formula.Components[1].Name)
	assert.Equal(t, models.DefaultPassingGrade, formula.PassingGrade)
	assert.True(t, formula.UseConversion)
	assert.NoError(t, ValidateFormula(formula))
}

func TestValidateFormula(t *testing.T) {
	valid := models.Formula{
		Components: []models.FormulaComponent{
			{Name: "Quizzes", Weight: 30},
			{Name: "Exams", Weight: 70},
		},
		PassingGrade: 3.0,
	}
	assert.NoError(t, ValidateFormula(valid))

	tests := []struct {
		name     string
		mutate   func(f *models.Formula)
		wantCode string
	}{
		{
			name:     "no components",
			mutate:   func(f *models.Formula) { f.Components = nil },
			wantCode: appErrors.ErrValidation.Code,
		},
		{
			name:     "blank component name",
			mutate:   func(f *models.Formula) { f.Components[0].Name = "  " },
			wantCode: appErrors.ErrValidation.Code,
		},
		{
			name:     "duplicate component name",
			mutate:   func(f *models.Formula) { f.Components[1].Name = "Quizzes" },
			wantCode: appErrors.ErrValidation.Code,
		},
		{
			name:     "negative weight",
			mutate:   func(f *models.Formula) { f.Components[0].Weight = -10 },
			wantCode: appErrors.ErrInvalidWeights.Code,
		},
		{
			name:     "weight above 100",
			mutate:   func(f *models.Formula) { f.Components[0].Weight = 130 },
			wantCode: appErrors.ErrInvalidWeights.Code,
		},
		{
			name:     "weights below 100",
			mutate:   func(f *models.Formula) { f.Components[1].Weight = 60 },
			wantCode: appErrors.ErrInvalidWeights.Code,
		},
		{
			name:     "weights above 100",
			mutate:   func(f *models.Formula) { f.Components[1].Weight = 80 },
			wantCode: appErrors.ErrInvalidWeights.Code,
		},
		{
			name:     "zero passing grade",
			mutate:   func(f *models.Formula) { f.PassingGrade = 0 },
			wantCode: appErrors.ErrValidation.Code,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formula := models.Formula{
				Components: []models.FormulaComponent{
					{Name: "Quizzes", Weight: 30},
					{Name: "Exams", Weight: 70},
				},
				PassingGrade: 3.0,
			}
			tt.mutate(&formula)

			err := ValidateFormula(formula)
			require.Error(t, err)
			var appErr *appErrors.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.wantCode, appErr.Code)
		})
	}
}

func TestValidateFormulaWeightTolerance(t *testing.T) {
	formula := models.Formula{
		Components: []models.FormulaComponent{
			{Name: "A", Weight: 33.3333},
			{Name: "B", Weight: 33.3333},
			{Name: "C", Weight: 33.3334},
		},
		PassingGrade: 3.0,
	}
	assert.NoError(t, ValidateFormula(formula))
}
