package dto

import "github.com/noah-isme/college-portal-api/internal/models"

// CreateSemesterRequest creates a semester.
type CreateSemesterRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

// CreateSubjectRequest creates a subject under a semester.
type CreateSubjectRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
	SemesterID  string `json:"semester_id" validate:"required"`
}

// SubjectListResponse matches the dependent-dropdown contract.
type SubjectListResponse struct {
	Subjects []models.SubjectOption `json:"subjects"`
}
