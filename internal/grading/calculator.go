package grading

import "github.com/acadify/acadify-api/internal/models"

// Result holds the derived fields of one calculation pass. Both pointers are
// nil when no component yielded data.
type Result struct {
	Percentage *float64
	Grade      *float64
}

// Calculate evaluates a grade record's score ledger against a class formula.
//
// Components without data are skipped entirely: they contribute neither to
// the weighted sum nor to the accumulated weight. The resulting percentage is
// the weighted sum without renormalization, so a record graded on only part
// of the formula's weight reports a proportionally lower percentage. That
// mirrors how stored grades have always been computed; renormalizing here
// would silently change historical records.
func Calculate(scores models.ComponentScores, formula models.Formula, table models.ConversionTable) Result {
	weightedSum := 0.0
	weightTotal := 0.0

	for _, comp := range formula.Components {
		entry, ok := scores[comp.Name]
		if !ok {
			continue
		}

		var pct float64
		if entry.IsLegacy() {
			pct = *entry.Legacy
			if comp.MaxPoints != nil && *comp.MaxPoints > 0 {
				pct = pct / *comp.MaxPoints * 100
			}
		} else {
			summary := Summarize(scores, comp.Name)
			if summary == nil {
				continue
			}
			pct = summary.AveragePercentage
		}

		weightedSum += pct * comp.Weight / 100
		weightTotal += comp.Weight
	}

	if weightTotal == 0 {
		return Result{}
	}

	percentage := Round2(weightedSum)
	grade := Round2(percentage)
	if formula.UseConversion {
		grade = Convert(percentage, table)
	}
	return Result{Percentage: &percentage, Grade: &grade}
}

// FinalGrade resolves override precedence: an active override always wins,
// even when the calculation produced nothing.
func FinalGrade(res Result, isOverridden bool, overrideGrade *float64) *float64 {
	if isOverridden && overrideGrade != nil {
		return overrideGrade
	}
	return res.Grade
}
