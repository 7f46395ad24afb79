package dto

import "github.com/noah-isme/college-portal-api/internal/models"

// CreateLectureNoteRequest is the multipart form accompanying a note upload.
type CreateLectureNoteRequest struct {
	Title       string `form:"title" validate:"required,max=200"`
	Description string `form:"description"`
	SubjectID   string `form:"subject_id"`
}

// LectureNoteItem is a note plus its signed download link.
type LectureNoteItem struct {
	models.LectureNote
	DownloadURL string `json:"download_url,omitempty"`
}
