package dto

import "github.com/noah-isme/college-portal-api/internal/models"

// CreateMainProjectRequest creates or updates a main project.
type CreateMainProjectRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"required"`
	Branch      string   `json:"branch" validate:"required"`
	SubjectID   string   `json:"subject_id"`
	StudentIDs  []string `json:"student_ids"`
	Year        int      `json:"year"`
}

// CreateMiniProjectRequest creates a mini project with free-text members.
type CreateMiniProjectRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
	SubjectID   string `json:"subject_id"`
	Student1    string `json:"student_1" validate:"required,max=100"`
	Student2    string `json:"student_2" validate:"max=100"`
	Student3    string `json:"student_3" validate:"max=100"`
	Student4    string `json:"student_4" validate:"max=100"`
}

// AttachProjectFileRequest is the multipart form for attaching a file.
type AttachProjectFileRequest struct {
	FileType string `form:"file_type" validate:"required"`
}

// MainProjectItem decorates a project with the caller's membership flag.
type MainProjectItem struct {
	models.MainProject
	IsMember bool              `json:"is_member"`
	Members  []models.UserInfo `json:"members,omitempty"`
	Files    []ProjectFileItem `json:"files,omitempty"`
}

// ProjectFileItem is an attachment plus its signed download link.
type ProjectFileItem struct {
	models.ProjectFile
	DownloadURL string `json:"download_url,omitempty"`
}
