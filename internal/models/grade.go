package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ItemDateLayout is the storage format for score item dates.
const ItemDateLayout = "2006-01-02"

// ScoreItem is one scored assessment instance within a component, e.g. a
// single quiz. Score and Max are pointers because historical rows may carry
// nulls; such items are skipped during aggregation rather than rejected.
type ScoreItem struct {
	Score *float64 `json:"score"`
	Max   *float64 `json:"max"`
	Label string   `json:"label"`
	Date  string   `json:"date"`
}

// Valid reports whether the item can contribute to an average.
func (i ScoreItem) Valid() bool {
	return i.Score != nil && i.Max != nil && *i.Max > 0
}

// Percentage returns the item's score as a percentage of its max. Only
// meaningful when Valid.
func (i ScoreItem) Percentage() float64 {
	return *i.Score / *i.Max * 100
}

// ComponentScore is the per-component entry of a grade record's score ledger.
// Two persisted shapes exist: the current list of individual items, and a
// legacy single pre-averaged number. The runtime JSON type of the stored value
// decides which; this struct makes the union explicit instead of re-inspecting
// dynamic types at every use site.
type ComponentScore struct {
	Legacy *float64
	Items  []ScoreItem
}

// IsLegacy reports whether the entry holds the legacy scalar shape.
func (c ComponentScore) IsLegacy() bool {
	return c.Legacy != nil
}

// ItemScores builds a ComponentScore in the current list shape.
func ItemScores(items ...ScoreItem) ComponentScore {
	if items == nil {
		items = []ScoreItem{}
	}
	return ComponentScore{Items: items}
}

// LegacyScore builds a ComponentScore in the legacy scalar shape.
func LegacyScore(v float64) ComponentScore {
	return ComponentScore{Legacy: &v}
}

// MarshalJSON writes the entry back in the same shape it was read.
func (c ComponentScore) MarshalJSON() ([]byte, error) {
	if c.Legacy != nil {
		return json.Marshal(*c.Legacy)
	}
	if c.Items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.Items)
}

// UnmarshalJSON distinguishes the two shapes by the leading token.
func (c *ComponentScore) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return fmt.Errorf("component score: empty value")
	}
	if trimmed[0] == '[' {
		c.Legacy = nil
		return json.Unmarshal(data, &c.Items)
	}
	c.Items = nil
	return json.Unmarshal(data, &c.Legacy)
}

// ComponentScores maps component names to their ledger entries. Persisted as
// a JSONB column on the grade row.
type ComponentScores map[string]ComponentScore

// Value marshals the ledger for persistence.
func (s ComponentScores) Value() (driver.Value, error) {
	if s == nil {
		return json.Marshal(ComponentScores{})
	}
	return json.Marshal(s)
}

// Scan unmarshals a JSONB component_scores column.
func (s *ComponentScores) Scan(value interface{}) error {
	if value == nil {
		*s = ComponentScores{}
		return nil
	}
	data, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("scan component scores: %w", err)
	}
	return json.Unmarshal(data, s)
}

// Grade is the grade record for one (student, assessment) pair: the score
// ledger plus derived and override fields.
type Grade struct {
	ID                   string          `db:"id" json:"id"`
	AssessmentID         string          `db:"assessment_id" json:"assessment_id"`
	StudentID            string          `db:"student_id" json:"student_id"`
	ComponentScores      ComponentScores `db:"component_scores" json:"component_scores"`
	CalculatedPercentage *float64        `db:"calculated_percentage" json:"calculated_percentage,omitempty"`
	CalculatedGrade      *float64        `db:"calculated_grade" json:"calculated_grade,omitempty"`
	IsOverridden         bool            `db:"is_overridden" json:"is_overridden"`
	OverrideGrade        *float64        `db:"override_grade" json:"override_grade,omitempty"`
	OverrideReason       *string         `db:"override_reason" json:"override_reason,omitempty"`
	FinalGrade           *float64        `db:"final_grade" json:"final_grade,omitempty"`
	GradedBy             *string         `db:"graded_by" json:"graded_by,omitempty"`
	GradedAt             *time.Time      `db:"graded_at" json:"graded_at,omitempty"`
	CreatedAt            time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time       `db:"updated_at" json:"updated_at"`
}

// GradeClassRow joins a grade's final result with its owning class, as needed
// for GPA aggregation.
type GradeClassRow struct {
	FinalGrade     float64 `db:"final_grade" json:"final_grade"`
	Units          int     `db:"units" json:"units"`
	IsMajorSubject bool    `db:"is_major_subject" json:"is_major_subject"`
	SchoolYear     string  `db:"school_year" json:"school_year"`
	Semester       string  `db:"semester" json:"semester"`
}

// ComponentSummary describes the aggregate of one component's item list.
type ComponentSummary struct {
	ItemCount         int         `json:"item_count"`
	AveragePercentage float64     `json:"average_percentage"`
	TotalPoints       float64     `json:"total_points"`
	TotalMax          float64     `json:"total_max"`
	Items             []ScoreItem `json:"items"`
}
