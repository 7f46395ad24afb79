package models

import "time"

// QuestionBank is an uploaded exam paper scoped by semester and subject.
// The subject must belong to the referenced semester; that rule lives in
// the service layer, not the schema.
type QuestionBank struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	SemesterID  string    `db:"semester_id" json:"semester_id"`
	SubjectID   string    `db:"subject_id" json:"subject_id"`
	ExamYear    int       `db:"exam_year" json:"exam_year"`
	FilePath    string    `db:"file_path" json:"-"`
	FileName    string    `db:"file_name" json:"file_name"`
	UploadedBy  string    `db:"uploaded_by" json:"uploaded_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
