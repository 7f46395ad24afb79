package dto

import "github.com/noah-isme/college-portal-api/internal/models"

// CreateAssignmentRequest publishes a new assignment.
type CreateAssignmentRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	SemesterID  string `json:"semester_id" validate:"required"`
	SubjectID   string `json:"subject_id" validate:"required"`
	DueDate     string `json:"due_date"`
}

// AssignmentItem pairs an assignment with the caller's submission, if any.
type AssignmentItem struct {
	models.Assignment
	Submission *models.AssignmentSubmission `json:"submission,omitempty"`
}

// AssignmentDetail is the owner's view of an assignment with all
// submissions received so far.
type AssignmentDetail struct {
	models.Assignment
	Submissions []models.AssignmentSubmission `json:"submissions"`
}

// SubmitAssignmentResponse reports the outcome of a submission attempt.
// AlreadySubmitted is informational, not an error.
type SubmitAssignmentResponse struct {
	Submission       *models.AssignmentSubmission `json:"submission,omitempty"`
	AlreadySubmitted bool                         `json:"already_submitted"`
	Message          string                       `json:"message"`
}
