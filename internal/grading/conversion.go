// Package grading implements the grade computation engine: score ledgers,
// weighted formula evaluation and percentage-to-PH-grade conversion. It is
// pure computation; persistence and orchestration live in the services.
package grading

import (
	"math"

	"github.com/acadify/acadify-api/internal/models"
)

// FailingGrade is the fallback when a percentage matches no conversion range.
const FailingGrade = 5.0

// DefaultTable returns the standard 11-bucket Philippine grading scale.
func DefaultTable() models.ConversionTable {
	return models.ConversionTable{
		{Min: 97, Max: 100, Grade: 1.0},
		{Min: 94, Max: 96.99, Grade: 1.25},
		{Min: 91, Max: 93.99, Grade: 1.5},
		{Min: 88, Max: 90.99, Grade: 1.75},
		{Min: 85, Max: 87.99, Grade: 2.0},
		{Min: 82, Max: 84.99, Grade: 2.25},
		{Min: 79, Max: 81.99, Grade: 2.5},
		{Min: 76, Max: 78.99, Grade: 2.75},
		{Min: 75, Max: 75.99, Grade: 3.0},
		{Min: 65, Max: 74.99, Grade: 4.0},
		{Min: 0, Max: 64.99, Grade: 5.0},
	}
}

// Convert maps a percentage to a converted grade using first-matching-range
// semantics. A percentage outside every range converts to the worst grade in
// the table, never silently to a pass.
func Convert(percentage float64, table models.ConversionTable) float64 {
	if len(table) == 0 {
		table = DefaultTable()
	}
	worst := FailingGrade
	for _, r := range table {
		if r.Contains(percentage) {
			return r.Grade
		}
		if r.Grade > worst {
			worst = r.Grade
		}
	}
	return worst
}

// Round2 rounds to two decimals using banker's rounding, matching how stored
// grades were historically rounded.
func Round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

// Passed reports whether a final grade meets the passing threshold on the
// lower-is-better PH scale.
func Passed(finalGrade, passingGrade float64) bool {
	return finalGrade <= passingGrade
}
