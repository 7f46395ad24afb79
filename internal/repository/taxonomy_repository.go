package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/college-portal-api/internal/models"
)

// TaxonomyRepository provides database access for semesters and subjects.
type TaxonomyRepository struct {
	db *sqlx.DB
}

// NewTaxonomyRepository creates a new instance of TaxonomyRepository.
func NewTaxonomyRepository(db *sqlx.DB) *TaxonomyRepository {
	return &TaxonomyRepository{db: db}
}

// CreateSemester inserts a semester.
func (r *TaxonomyRepository) CreateSemester(ctx context.Context, s *models.Semester) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	const query = `INSERT INTO semesters (id, name, description) VALUES (:id, :name, :description)`
	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		return fmt.Errorf("create semester: %w", err)
	}
	return nil
}

// ListSemesters returns all semesters ordered by name.
func (r *TaxonomyRepository) ListSemesters(ctx context.Context) ([]models.Semester, error) {
	const query = `SELECT id, name, description FROM semesters ORDER BY name`
	var semesters []models.Semester
	if err := r.db.SelectContext(ctx, &semesters, query); err != nil {
		return nil, fmt.Errorf("list semesters: %w", err)
	}
	return semesters, nil
}

// FindSemesterByID returns a semester by identifier.
func (r *TaxonomyRepository) FindSemesterByID(ctx context.Context, id string) (*models.Semester, error) {
	const query = `SELECT id, name, description FROM semesters WHERE id = $1 LIMIT 1`
	var s models.Semester
	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find semester by id: %w", err)
	}
	return &s, nil
}

// CreateSubject inserts a subject under its semester.
func (r *TaxonomyRepository) CreateSubject(ctx context.Context, s *models.Subject) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	const query = `INSERT INTO subjects (id, name, description, semester_id) VALUES (:id, :name, :description, :semester_id)`
	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	return nil
}

// ListSubjects returns all subjects ordered by name.
func (r *TaxonomyRepository) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	const query = `SELECT id, name, description, semester_id FROM subjects ORDER BY name`
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

// ListSubjectsBySemester returns the subjects belonging to one semester.
func (r *TaxonomyRepository) ListSubjectsBySemester(ctx context.Context, semesterID string) ([]models.Subject, error) {
	const query = `SELECT id, name, description, semester_id FROM subjects WHERE semester_id = $1 ORDER BY name`
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, semesterID); err != nil {
		return nil, fmt.Errorf("list subjects by semester: %w", err)
	}
	return subjects, nil
}

// FindSubjectByID returns a subject by identifier.
func (r *TaxonomyRepository) FindSubjectByID(ctx context.Context, id string) (*models.Subject, error) {
	const query = `SELECT id, name, description, semester_id FROM subjects WHERE id = $1 LIMIT 1`
	var s models.Subject
	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find subject by id: %w", err)
	}
	return &s, nil
}
