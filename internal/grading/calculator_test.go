package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadify/acadify-api/internal/models"
)

func testFormula() models.Formula {
	return models.Formula{
		Components: []models.FormulaComponent{
			{Name: "Quizzes", Weight: 30},
			{Name: "Exams", Weight: 70},
		},
		PassingGrade:  3.0,
		UseConversion: true,
	}
}

func TestCalculateAllComponentsPresent(t *testing.T) {
	scores := models.ComponentScores{
		"Quizzes": models.ItemScores(
			models.ScoreItem{Score: f(8), Max: f(10), Label: "Quiz 1", Date: "2026-01-15"},
		),
		"Exams": models.ItemScores(
			models.ScoreItem{Score: f(90), Max: f(100), Label: "Midterm", Date: "2026-03-01"},
		),
	}

	res := Calculate(scores, testFormula(), nil)
	require.NotNil(t, res.Percentage)
	// 80*0.3 + 90*0.7 = 87
	assert.Equal(t, 87.0, *res.Percentage)
	require.NotNil(t, res.Grade)
	assert.Equal(t, 2.0, *res.Grade)
}

func TestCalculateSkipsMissingComponentsWithoutRenormalizing(t *testing.T) {
	scores := models.ComponentScores{
		"Exams": models.ItemScores(
			models.ScoreItem{Score: f(90), Max: f(100), Label: "Midterm", Date: "2026-03-01"},
		),
	}

	res := Calculate(scores, testFormula(), nil)
	require.NotNil(t, res.Percentage)
	// 90 * 70/100, not 90
	assert.Equal(t, 63.0, *res.Percentage)
	require.NotNil(t, res.Grade)
	assert.Equal(t, 5.0, *res.Grade)
}

func TestCalculateNoDataYieldsEmptyResult(t *testing.T) {
	res := Calculate(models.ComponentScores{}, testFormula(), nil)
	assert.Nil(t, res.Percentage)
	assert.Nil(t, res.Grade)
}

func TestCalculateLegacyScalarUsedAsPercentage(t *testing.T) {
	scores := models.ComponentScores{
		"Quizzes": models.LegacyScore(80),
		"Exams":   models.LegacyScore(90),
	}

	res := Calculate(scores, testFormula(), nil)
	require.NotNil(t, res.Percentage)
	assert.Equal(t, 87.0, *res.Percentage)
}

func TestCalculateLegacyScalarScaledByMaxPoints(t *testing.T) {
	formula := models.Formula{
		Components: []models.FormulaComponent{
			{Name: "Project", Weight: 100, MaxPoints: f(50)},
		},
		PassingGrade:  3.0,
		UseConversion: true,
	}
	scores := models.ComponentScores{"Project": models.LegacyScore(45)}

	res := Calculate(scores, formula, nil)
	require.NotNil(t, res.Percentage)
	assert.Equal(t, 90.0, *res.Percentage)
}

func TestCalculateWithoutConversionReportsPercentage(t *testing.T) {
	formula := testFormula()
	formula.UseConversion = false
	scores := models.ComponentScores{
		"Quizzes": models.LegacyScore(80),
		"Exams":   models.LegacyScore(90),
	}

	res := Calculate(scores, formula, nil)
	require.NotNil(t, res.Grade)
	assert.Equal(t, 87.0, *res.Grade)
}

func TestCalculateCustomConversionTable(t *testing.T) {
	table := models.ConversionTable{
		{Min: 50, Max: 100, Grade: 1.0},
		{Min: 0, Max: 49, Grade: 5.0},
	}
	scores := models.ComponentScores{
		"Quizzes": models.LegacyScore(60),
		"Exams":   models.LegacyScore(60),
	}

	res := Calculate(scores, testFormula(), table)
	require.NotNil(t, res.Grade)
	assert.Equal(t, 1.0, *res.Grade)
}

func TestFinalGradeOverridePrecedence(t *testing.T) {
	grade := f(2.5)
	override := f(1.75)

	assert.Equal(t, grade, FinalGrade(Result{Grade: grade}, false, nil))
	assert.Equal(t, override, FinalGrade(Result{Grade: grade}, true, override))
	// override wins even when nothing was computed
	assert.Equal(t, override, FinalGrade(Result{}, true, override))
	// overridden flag without a value falls back to the computed grade
	assert.Equal(t, grade, FinalGrade(Result{Grade: grade}, true, nil))
}
