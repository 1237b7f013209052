package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/acadify/acadify-api/internal/models"
)

func TestConvertStandardScale(t *testing.T) {
	table := DefaultTable()

	cases := []struct {
		percentage float64
		want       float64
	}{
		{100, 1.0},
		{97, 1.0},
		{96, 1.25},
		{91.5, 1.5},
		{88, 1.75},
		{85, 2.0},
		{82, 2.25},
		{79, 2.5},
		{76, 2.75},
		{75, 3.0},
		{74.99, 4.0},
		{65, 4.0},
		{64.99, 5.0},
		{0, 5.0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Convert(tc.percentage, table), "percentage %v", tc.percentage)
	}
}

func TestConvertOutOfRangeFallsToWorstGrade(t *testing.T) {
	assert.Equal(t, 5.0, Convert(-5, DefaultTable()))
	assert.Equal(t, 5.0, Convert(101, DefaultTable()))
}

func TestConvertFirstMatchWins(t *testing.T) {
	// Overlapping ranges resolve by position, not by best grade.
	table := models.ConversionTable{
		{Min: 90, Max: 100, Grade: 2.0},
		{Min: 95, Max: 100, Grade: 1.0},
	}
	assert.Equal(t, 2.0, Convert(98, table))
}

func TestConvertEmptyTableUsesDefault(t *testing.T) {
	assert.Equal(t, 3.0, Convert(75, nil))
}

func TestConvertWorstGradeComesFromTable(t *testing.T) {
	table := models.ConversionTable{
		{Min: 50, Max: 100, Grade: 1.0},
		{Min: 0, Max: 49, Grade: 6.0},
	}
	assert.Equal(t, 6.0, Convert(-1, table))
}

func TestRound2BankersRounding(t *testing.T) {
	assert.Equal(t, 81.67, Round2(81.666666))
	assert.Equal(t, 2.0, Round2(2.005))
	assert.Equal(t, 63.0, Round2(63.0))
}

func TestPassedLowerIsBetter(t *testing.T) {
	assert.True(t, Passed(3.0, 3.0))
	assert.True(t, Passed(1.0, 3.0))
	assert.False(t, Passed(4.0, 3.0))
}
