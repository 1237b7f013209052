package models

import "time"

// Setting keys recognised by the term service.
const (
	SettingCurrentSchoolYear = "current_school_year"
	SettingCurrentSemester   = "current_semester"
)

// Setting is a key/value row in the settings table.
type Setting struct {
	Key       string    `db:"key" json:"key"`
	Value     string    `db:"value" json:"value"`
	UpdatedBy *string   `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// GPAMethod selects the averaging policy for GPA aggregation.
type GPAMethod string

const (
	// GPAWeighted weights each final grade by its class's units.
	GPAWeighted GPAMethod = "weighted"
	// GPASimple takes the arithmetic mean of final grades.
	GPASimple GPAMethod = "simple"
	// GPAMajorOnly averages only grades from major-subject classes.
	GPAMajorOnly GPAMethod = "major_only"
)

// Valid reports whether the method is one of the supported policies.
func (m GPAMethod) Valid() bool {
	switch m {
	case GPAWeighted, GPASimple, GPAMajorOnly:
		return true
	}
	return false
}
