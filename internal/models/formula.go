package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DefaultPassingGrade is the PH-scale threshold used when a formula omits one.
const DefaultPassingGrade = 3.0

// FormulaComponent is a named, weighted category within a grading formula.
// MaxPoints is only present on legacy formulas where component scores were
// stored as raw points rather than percentages.
type FormulaComponent struct {
	Name      string   `json:"name"`
	Weight    float64  `json:"weight"`
	MaxPoints *float64 `json:"max_points,omitempty"`
}

// Formula defines how a class computes grades: weighted components that must
// sum to 100, a passing threshold and a conversion toggle. It is persisted as
// a JSONB column on the class row.
type Formula struct {
	Components    []FormulaComponent `json:"components"`
	PassingGrade  float64            `json:"passing_grade"`
	UseConversion bool               `json:"use_conversion"`
}

// formulaJSON mirrors Formula for decoding, tolerating the historical
// "use_philippine_conversion" key and a missing passing grade.
type formulaJSON struct {
	Components      []FormulaComponent `json:"components"`
	PassingGrade    *float64           `json:"passing_grade"`
	UseConversion   *bool              `json:"use_conversion"`
	UsePHConversion *bool              `json:"use_philippine_conversion"`
}

// UnmarshalJSON decodes a formula, filling defaults for absent fields.
func (f *Formula) UnmarshalJSON(data []byte) error {
	var raw formulaJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	f.Components = raw.Components
	f.PassingGrade = DefaultPassingGrade
	if raw.PassingGrade != nil {
		f.PassingGrade = *raw.PassingGrade
	}
	f.UseConversion = true
	switch {
	case raw.UseConversion != nil:
		f.UseConversion = *raw.UseConversion
	case raw.UsePHConversion != nil:
		f.UseConversion = *raw.UsePHConversion
	}
	return nil
}

// IsZero reports whether the formula carries no components.
func (f Formula) IsZero() bool {
	return len(f.Components) == 0
}

// Component returns the named component and whether it exists.
func (f Formula) Component(name string) (FormulaComponent, bool) {
	for _, c := range f.Components {
		if c.Name == name {
			return c, true
		}
	}
	return FormulaComponent{}, false
}

// Value marshals the formula for persistence.
func (f Formula) Value() (driver.Value, error) {
	return json.Marshal(f)
}

// Scan unmarshals a JSONB formula column.
func (f *Formula) Scan(value interface{}) error {
	if value == nil {
		*f = Formula{}
		return nil
	}
	data, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("scan formula: %w", err)
	}
	return json.Unmarshal(data, f)
}

// ConversionRange maps an inclusive percentage range (or a single point when
// Min == Max) to a converted PH grade.
type ConversionRange struct {
	Min   float64
	Max   float64
	Grade float64
}

// Contains reports whether the percentage falls inside the range.
func (r ConversionRange) Contains(pct float64) bool {
	return pct >= r.Min && pct <= r.Max
}

// ConversionTable is an ordered percentage-to-grade lookup. It is persisted
// in the historical JSON object shape {"97-100": 1.0, "75": 3.0, ...}; key
// order is significant because the first matching range wins, so decoding
// goes through json.Decoder tokens rather than a map.
type ConversionTable []ConversionRange

// MarshalJSON emits the table in its historical object shape, preserving
// range order.
func (t ConversionTable) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	for i, r := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		key := formatBound(r.Min)
		if r.Min != r.Max {
			key = formatBound(r.Min) + "-" + formatBound(r.Max)
		}
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		gradeJSON, err := json.Marshal(r.Grade)
		if err != nil {
			return nil, err
		}
		buf.Write(gradeJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes the object shape while keeping key order.
func (t *ConversionTable) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("conversion table: expected object, got %v", tok)
	}
	var table ConversionTable
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("conversion table: non-string key %v", keyTok)
		}
		var grade float64
		if err := dec.Decode(&grade); err != nil {
			return fmt.Errorf("conversion table: grade for %q: %w", key, err)
		}
		r, err := parseRange(key, grade)
		if err != nil {
			return err
		}
		table = append(table, r)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*t = table
	return nil
}

// Value marshals the table for persistence.
func (t ConversionTable) Value() (driver.Value, error) {
	return json.Marshal(t)
}

// Scan unmarshals a JSONB conversion table column.
func (t *ConversionTable) Scan(value interface{}) error {
	if value == nil {
		*t = nil
		return nil
	}
	data, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("scan conversion table: %w", err)
	}
	return json.Unmarshal(data, t)
}

func parseRange(key string, grade float64) (ConversionRange, error) {
	key = strings.TrimSpace(key)
	if lo, hi, found := strings.Cut(key, "-"); found {
		min, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
		if err != nil {
			return ConversionRange{}, fmt.Errorf("conversion table: bad range %q", key)
		}
		max, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
		if err != nil {
			return ConversionRange{}, fmt.Errorf("conversion table: bad range %q", key)
		}
		return ConversionRange{Min: min, Max: max, Grade: grade}, nil
	}
	point, err := strconv.ParseFloat(key, 64)
	if err != nil {
		return ConversionRange{}, fmt.Errorf("conversion table: bad range %q", key)
	}
	return ConversionRange{Min: point, Max: point, Grade: grade}, nil
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func jsonBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported column type %T", value)
	}
}
