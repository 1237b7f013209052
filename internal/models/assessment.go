package models

import "time"

// Assessment is the gradable container a grade record attaches to (a test,
// task or other assessed unit). It belongs to exactly one class.
type Assessment struct {
	ID          string     `db:"id" json:"id"`
	ClassID     string     `db:"class_id" json:"class_id"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description,omitempty"`
	HeldOn      *time.Time `db:"held_on" json:"held_on,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}
