package dto

import "github.com/noah-isme/college-portal-api/internal/models"

// FacultyDashboardResponse mixes per-user and global counts: notes and
// assignments are scoped to the caller, projects and question banks are
// portal-wide totals.
type FacultyDashboardResponse struct {
	NoteCount         int `json:"note_count"`
	MainProjectCount  int `json:"main_project_count"`
	QuestionBankCount int `json:"question_bank_count"`
	AssignmentCount   int `json:"assignment_count"`
}

// StudentDashboardResponse summarises what a student can act on.
type StudentDashboardResponse struct {
	SubmissionCount  int `json:"submission_count"`
	AssignmentCount  int `json:"assignment_count"`
	MainProjectCount int `json:"main_project_count"`
	LectureNoteCount int `json:"lecture_note_count"`
}

// AdminDashboardResponse lists accounts by approval state.
type AdminDashboardResponse struct {
	UnapprovedUsers []models.UserInfo `json:"unapproved_users"`
	ApprovedUsers   []models.UserInfo `json:"approved_users"`
}
