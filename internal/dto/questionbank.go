package dto

import "github.com/noah-isme/college-portal-api/internal/models"

// CreateQuestionBankRequest is the multipart form for a question paper
// upload. SemesterID scopes the valid subject choices; the service
// re-validates the pairing server-side regardless of what the client
// dropdown displayed.
type CreateQuestionBankRequest struct {
	Name        string `form:"name" validate:"required,max=255"`
	Description string `form:"description"`
	SemesterID  string `form:"semester_id" validate:"required"`
	SubjectID   string `form:"subject_id" validate:"required"`
	ExamYear    int    `form:"exam_year" validate:"required,gte=1990"`
}

// QuestionBankItem is a question paper plus its signed download link.
type QuestionBankItem struct {
	models.QuestionBank
	DownloadURL string `json:"download_url,omitempty"`
}
