package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestComponentScoreUnmarshalLegacyScalar(t *testing.T) {
	var c ComponentScore
	require.NoError(t, json.Unmarshal([]byte(`87.5`), &c))
	assert.True(t, c.IsLegacy())
	require.NotNil(t, c.Legacy)
	assert.Equal(t, 87.5, *c.Legacy)
	assert.Nil(t, c.Items)
}

func TestComponentScoreUnmarshalItemList(t *testing.T) {
	raw := `[{"score":18,"max":20,"label":"Quiz 1","date":"2026-02-10"},{"score":null,"max":null,"label":"Quiz 2","date":"2026-02-17"}]`

	var c ComponentScore
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	assert.False(t, c.IsLegacy())
	require.Len(t, c.Items, 2)
	assert.Equal(t, 18.0, *c.Items[0].Score)
	assert.Equal(t, "Quiz 1", c.Items[0].Label)
	assert.True(t, c.Items[0].Valid())
	assert.False(t, c.Items[1].Valid())
}

func TestComponentScoreMarshalPreservesShape(t *testing.T) {
	legacy, err := json.Marshal(LegacyScore(92))
	require.NoError(t, err)
	assert.Equal(t, `92`, string(legacy))

	items, err := json.Marshal(ItemScores(ScoreItem{Score: ptr(9), Max: ptr(10), Label: "Lab", Date: "2026-03-02"}))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"score":9,"max":10,"label":"Lab","date":"2026-03-02"}]`, string(items))

	empty, err := json.Marshal(ComponentScore{})
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(empty))
}

func TestComponentScoreUnmarshalRejectsEmpty(t *testing.T) {
	var c ComponentScore
	assert.Error(t, c.UnmarshalJSON([]byte("  ")))
}

func TestComponentScoresScanMixedShapes(t *testing.T) {
	raw := []byte(`{"Quizzes":[{"score":15,"max":20,"label":"Quiz 1","date":"2026-01-20"}],"Exams":88}`)

	var s ComponentScores
	require.NoError(t, s.Scan(raw))
	require.Len(t, s, 2)
	assert.False(t, s["Quizzes"].IsLegacy())
	assert.True(t, s["Exams"].IsLegacy())
	assert.Equal(t, 88.0, *s["Exams"].Legacy)
}

func TestComponentScoresScanNil(t *testing.T) {
	var s ComponentScores
	require.NoError(t, s.Scan(nil))
	assert.NotNil(t, s)
	assert.Empty(t, s)
}

func TestComponentScoresValueRoundTrip(t *testing.T) {
	s := ComponentScores{
		"Exams": LegacyScore(75),
	}
	v, err := s.Value()
	require.NoError(t, err)

	var decoded ComponentScores
	require.NoError(t, decoded.Scan(v))
	assert.Equal(t, 75.0, *decoded["Exams"].Legacy)
}

func TestScoreItemPercentage(t *testing.T) {
	item := ScoreItem{Score: ptr(45), Max: ptr(50)}
	assert.Equal(t, 90.0, item.Percentage())

	assert.False(t, ScoreItem{Score: ptr(10), Max: ptr(0)}.Valid())
}
