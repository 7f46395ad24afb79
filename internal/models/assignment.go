package models

import "time"

// Assignment is a task published by faculty, scoped by semester/subject.
type Assignment struct {
	ID          string     `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	SemesterID  string     `db:"semester_id" json:"semester_id"`
	SubjectID   string     `db:"subject_id" json:"subject_id"`
	DueDate     *time.Time `db:"due_date" json:"due_date,omitempty"`
	CreatedBy   string     `db:"created_by" json:"created_by"`
	DateCreated time.Time  `db:"date_created" json:"date_created"`
}

// AssignmentFilter holds conjunctive equality filters for listings.
type AssignmentFilter struct {
	SemesterID string
	SubjectID  string
}

// AssignmentSubmission records one student's answer file. A single
// submission per (assignment, student) pair is enforced by an existence
// check before creation.
type AssignmentSubmission struct {
	ID           string    `db:"id" json:"id"`
	AssignmentID string    `db:"assignment_id" json:"assignment_id"`
	StudentID    string    `db:"student_id" json:"student_id"`
	FilePath     string    `db:"file_path" json:"-"`
	FileName     string    `db:"file_name" json:"file_name"`
	SubmittedAt  time.Time `db:"submitted_at" json:"submitted_at"`
}
