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

// QuestionBankRepository provides database access for question papers.
type QuestionBankRepository struct {
	db *sqlx.DB
}

// NewQuestionBankRepository creates a new instance of QuestionBankRepository.
func NewQuestionBankRepository(db *sqlx.DB) *QuestionBankRepository {
	return &QuestionBankRepository{db: db}
}

const questionBankColumns = `id, name, description, semester_id, subject_id, exam_year, file_path, file_name, uploaded_by, created_at`

// Create inserts a question paper.
func (r *QuestionBankRepository) Create(ctx context.Context, qb *models.QuestionBank) error {
	if qb.ID == "" {
		qb.ID = uuid.NewString()
	}
	if qb.CreatedAt.IsZero() {
		qb.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO question_banks (id, name, description, semester_id, subject_id, exam_year, file_path, file_name, uploaded_by, created_at)
		VALUES (:id, :name, :description, :semester_id, :subject_id, :exam_year, :file_path, :file_name, :uploaded_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, qb); err != nil {
		return fmt.Errorf("create question bank: %w", err)
	}
	return nil
}

// FindByID returns a question paper by identifier.
func (r *QuestionBankRepository) FindByID(ctx context.Context, id string) (*models.QuestionBank, error) {
	query := fmt.Sprintf(`SELECT %s FROM question_banks WHERE id = $1 LIMIT 1`, questionBankColumns)
	var qb models.QuestionBank
	if err := r.db.GetContext(ctx, &qb, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find question bank by id: %w", err)
	}
	return &qb, nil
}

// ListAll returns every question paper, newest first.
func (r *QuestionBankRepository) ListAll(ctx context.Context) ([]models.QuestionBank, error) {
	query := fmt.Sprintf(`SELECT %s FROM question_banks ORDER BY created_at DESC`, questionBankColumns)
	var papers []models.QuestionBank
	if err := r.db.SelectContext(ctx, &papers, query); err != nil {
		return nil, fmt.Errorf("list question banks: %w", err)
	}
	return papers, nil
}

// CountAll returns the total number of question papers.
func (r *QuestionBankRepository) CountAll(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM question_banks`
	var count int
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("count question banks: %w", err)
	}
	return count, nil
}
