package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormulaUnmarshalDefaults(t *testing.T) {
	raw := `{"components":[{"name":"Quizzes","weight":40},{"name":"Exams","weight":60}]}`

	var f Formula
	require.NoError(t, json.Unmarshal([]byte(raw), &f))
	require.Len(t, f.Components, 2)
	assert.Equal(t, DefaultPassingGrade, f.PassingGrade)
	assert.True(t, f.UseConversion)
}

func TestFormulaUnmarshalHistoricalConversionKey(t *testing.T) {
	raw := `{"components":[{"name":"Project","weight":100}],"passing_grade":2.5,"use_philippine_conversion":false}`

	var f Formula
	require.NoError(t, json.Unmarshal([]byte(raw), &f))
	assert.Equal(t, 2.5, f.PassingGrade)
	assert.False(t, f.UseConversion)
}

func TestFormulaUnmarshalCurrentKeyWinsOverHistorical(t *testing.T) {
	raw := `{"components":[{"name":"Project","weight":100}],"use_conversion":true,"use_philippine_conversion":false}`

	var f Formula
	require.NoError(t, json.Unmarshal([]byte(raw), &f))
	assert.True(t, f.UseConversion)
}

func TestFormulaComponentLookup(t *testing.T) {
	f := Formula{Components: []FormulaComponent{
		{Name: "Quizzes", Weight: 30, MaxPoints: ptr(50)},
		{Name: "Exams", Weight: 70},
	}}

	comp, ok := f.Component("Quizzes")
	require.True(t, ok)
	assert.Equal(t, 50.0, *comp.MaxPoints)

	_, ok = f.Component("Attendance")
	assert.False(t, ok)

	assert.False(t, f.IsZero())
	assert.True(t, Formula{}.IsZero())
}

func TestConversionTableUnmarshalPreservesOrder(t *testing.T) {
	raw := `{"97-100":1.0,"94-96.99":1.25,"75":3.0,"0-74.99":5.0}`

	var table ConversionTable
	require.NoError(t, json.Unmarshal([]byte(raw), &table))
	require.Len(t, table, 4)

	assert.Equal(t, ConversionRange{Min: 97, Max: 100, Grade: 1.0}, table[0])
	assert.Equal(t, ConversionRange{Min: 94, Max: 96.99, Grade: 1.25}, table[1])
	// single-point key becomes a degenerate range
	assert.Equal(t, ConversionRange{Min: 75, Max: 75, Grade: 3.0}, table[2])
	assert.Equal(t, ConversionRange{Min: 0, Max: 74.99, Grade: 5.0}, table[3])
}

func TestConversionTableMarshalObjectShape(t *testing.T) {
	table := ConversionTable{
		{Min: 97, Max: 100, Grade: 1.0},
		{Min: 75, Max: 75, Grade: 3.0},
	}

	data, err := json.Marshal(table)
	require.NoError(t, err)
	assert.Equal(t, `{"97-100":1,"75":3}`, string(data))

	var decoded ConversionTable
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, table, decoded)
}

func TestConversionTableUnmarshalBadKeys(t *testing.T) {
	var table ConversionTable
	assert.Error(t, json.Unmarshal([]byte(`{"high":1.0}`), &table))
	assert.Error(t, json.Unmarshal([]byte(`{"90-x":1.0}`), &table))
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &table))
}

func TestConversionRangeContains(t *testing.T) {
	r := ConversionRange{Min: 75, Max: 79.99, Grade: 3.0}
	assert.True(t, r.Contains(75))
	assert.True(t, r.Contains(79.99))
	assert.False(t, r.Contains(80))
	assert.False(t, r.Contains(74.99))
}

func TestConversionTableScanNil(t *testing.T) {
	table := ConversionTable{{Min: 0, Max: 100, Grade: 1}}
	require.NoError(t, table.Scan(nil))
	assert.Nil(t, table)
}
