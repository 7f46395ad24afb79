package models

// Semester is static reference data grouping subjects.
type Semester struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
}

// Subject belongs to exactly one semester.
type Subject struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	SemesterID  string `db:"semester_id" json:"semester_id"`
}

// SubjectOption is the reduced projection served to dependent dropdowns.
type SubjectOption struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
