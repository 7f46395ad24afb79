package models

import "time"

// LectureNote is an uploaded teaching artifact owned by its uploader.
// SubjectID nulls out when the subject is deleted; the note survives.
type LectureNote struct {
	ID           string    `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description"`
	SubjectID    *string   `db:"subject_id" json:"subject_id,omitempty"`
	FilePath     string    `db:"file_path" json:"-"`
	FileName     string    `db:"file_name" json:"file_name"`
	UploadedBy   string    `db:"uploaded_by" json:"uploaded_by"`
	DateUploaded time.Time `db:"date_uploaded" json:"date_uploaded"`
}
