package models

import "time"

// Student represents a learner profile linked to a user account.
type Student struct {
	ID            string    `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"user_id"`
	StudentNumber string    `db:"student_number" json:"student_number"`
	FirstName     string    `db:"first_name" json:"first_name"`
	LastName      string    `db:"last_name" json:"last_name"`
	Department    string    `db:"department" json:"department"`
	Program       string    `db:"program" json:"program"`
	YearLevel     string    `db:"year_level" json:"year_level"`
	Section       *string   `db:"section" json:"section,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// FullName returns the student's display name.
func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search    string
	Program   string
	YearLevel string
	Section   string
	Page      int
	PageSize  int
}
