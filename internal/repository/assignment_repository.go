package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/college-portal-api/internal/models"
)

// AssignmentRepository provides database access for assignments and
// their submissions.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository creates a new instance of AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

const assignmentColumns = `id, title, description, semester_id, subject_id, due_date, created_by, date_created`

// Create inserts an assignment.
func (r *AssignmentRepository) Create(ctx context.Context, a *models.Assignment) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.DateCreated.IsZero() {
		a.DateCreated = time.Now().UTC()
	}
	const query = `INSERT INTO assignments (id, title, description, semester_id, subject_id, due_date, created_by, date_created)
		VALUES (:id, :title, :description, :semester_id, :subject_id, :due_date, :created_by, :date_created)`
	if _, err := r.db.NamedExecContext(ctx, query, a); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// FindByID returns an assignment by identifier.
func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	query := fmt.Sprintf(`SELECT %s FROM assignments WHERE id = $1 LIMIT 1`, assignmentColumns)
	var a models.Assignment
	if err := r.db.GetContext(ctx, &a, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find assignment by id: %w", err)
	}
	return &a, nil
}

// ListByCreator returns the assignments published by one user, newest first.
func (r *AssignmentRepository) ListByCreator(ctx context.Context, userID string) ([]models.Assignment, error) {
	query := fmt.Sprintf(`SELECT %s FROM assignments WHERE created_by = $1 ORDER BY date_created DESC`, assignmentColumns)
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, userID); err != nil {
		return nil, fmt.Errorf("list assignments by creator: %w", err)
	}
	return assignments, nil
}

// List returns assignments matching the filter, newest first.
func (r *AssignmentRepository) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error) {
	query := fmt.Sprintf(`SELECT %s FROM assignments WHERE 1=1`, assignmentColumns)
	var args []interface{}

	if filter.SemesterID != "" {
		args = append(args, filter.SemesterID)
		query += fmt.Sprintf(" AND semester_id = $%d", len(args))
	}
	if filter.SubjectID != "" {
		args = append(args, filter.SubjectID)
		query += fmt.Sprintf(" AND subject_id = $%d", len(args))
	}

	query += " ORDER BY date_created DESC"

	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// CountByCreator returns how many assignments a user has published.
func (r *AssignmentRepository) CountByCreator(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM assignments WHERE created_by = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("count assignments by creator: %w", err)
	}
	return count, nil
}

// CountAll returns the total number of assignments.
func (r *AssignmentRepository) CountAll(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM assignments`
	var count int
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("count assignments: %w", err)
	}
	return count, nil
}

const submissionColumns = `id, assignment_id, student_id, file_path, file_name, submitted_at`

// CreateSubmission inserts a submission.
func (r *AssignmentRepository) CreateSubmission(ctx context.Context, s *models.AssignmentSubmission) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.SubmittedAt.IsZero() {
		s.SubmittedAt = time.Now().UTC()
	}
	const query = `INSERT INTO assignment_submissions (id, assignment_id, student_id, file_path, file_name, submitted_at)
		VALUES (:id, :assignment_id, :student_id, :file_path, :file_name, :submitted_at)`
	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		return fmt.Errorf("create submission: %w", err)
	}
	return nil
}

// FindSubmission returns the submission for an (assignment, student) pair.
func (r *AssignmentRepository) FindSubmission(ctx context.Context, assignmentID, studentID string) (*models.AssignmentSubmission, error) {
	query := fmt.Sprintf(`SELECT %s FROM assignment_submissions WHERE assignment_id = $1 AND student_id = $2 LIMIT 1`, submissionColumns)
	var s models.AssignmentSubmission
	if err := r.db.GetContext(ctx, &s, query, assignmentID, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find submission: %w", err)
	}
	return &s, nil
}

// FindSubmissionByID returns a submission by identifier.
func (r *AssignmentRepository) FindSubmissionByID(ctx context.Context, id string) (*models.AssignmentSubmission, error) {
	query := fmt.Sprintf(`SELECT %s FROM assignment_submissions WHERE id = $1 LIMIT 1`, submissionColumns)
	var s models.AssignmentSubmission
	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find submission by id: %w", err)
	}
	return &s, nil
}

// ListSubmissionsByAssignment returns all submissions for an assignment.
func (r *AssignmentRepository) ListSubmissionsByAssignment(ctx context.Context, assignmentID string) ([]models.AssignmentSubmission, error) {
	query := fmt.Sprintf(`SELECT %s FROM assignment_submissions WHERE assignment_id = $1 ORDER BY submitted_at DESC`, submissionColumns)
	var submissions []models.AssignmentSubmission
	if err := r.db.SelectContext(ctx, &submissions, query, assignmentID); err != nil {
		return nil, fmt.Errorf("list submissions by assignment: %w", err)
	}
	return submissions, nil
}

// CountSubmissionsByStudent returns how many submissions a student has made.
func (r *AssignmentRepository) CountSubmissionsByStudent(ctx context.Context, studentID string) (int, error) {
	const query = `SELECT COUNT(*) FROM assignment_submissions WHERE student_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, studentID); err != nil {
		return 0, fmt.Errorf("count submissions by student: %w", err)
	}
	return count, nil
}
