package models

import "time"

// Semester labels within a school year.
const (
	SemesterFirst  = "1st Semester"
	SemesterSecond = "2nd Semester"
	SemesterSummer = "Summer"
)

// Class is a specific offering a teacher runs for a term: subject info is
// entered manually on the class itself, together with its grading formula and
// optional custom conversion table (both JSONB columns).
type Class struct {
	ID              string           `db:"id" json:"id"`
	TeacherID       string           `db:"teacher_id" json:"teacher_id"`
	SubjectCode     string           `db:"subject_code" json:"subject_code"`
	SubjectName     string           `db:"subject_name" json:"subject_name"`
	Units           int              `db:"units" json:"units"`
	IsMajorSubject  bool             `db:"is_major_subject" json:"is_major_subject"`
	Section         *string          `db:"section" json:"section,omitempty"`
	Schedule        *string          `db:"schedule" json:"schedule,omitempty"`
	Room            *string          `db:"room" json:"room,omitempty"`
	SchoolYear      string           `db:"school_year" json:"school_year"`
	Semester        string           `db:"semester" json:"semester"`
	MaxStudents     int              `db:"max_students" json:"max_students"`
	GradingFormula  Formula          `db:"grading_formula" json:"grading_formula"`
	ConversionTable *ConversionTable `db:"conversion_table" json:"conversion_table,omitempty"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updated_at"`
}

// ClassFilter defines filter criteria for listing classes.
type ClassFilter struct {
	TeacherID  string
	SchoolYear string
	Semester   string
	Search     string
	Page       int
	PageSize   int
}

// TermContext identifies an academic term. It is always passed explicitly;
// the current term is resolved once per request by the term service, never
// read from ambient state.
type TermContext struct {
	SchoolYear string `json:"school_year"`
	Semester   string `json:"semester"`
}
