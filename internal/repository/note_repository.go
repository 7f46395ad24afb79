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

// NoteRepository provides database access for lecture notes.
type NoteRepository struct {
	db *sqlx.DB
}

// NewNoteRepository creates a new instance of NoteRepository.
func NewNoteRepository(db *sqlx.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

const noteColumns = `id, title, description, subject_id, file_path, file_name, uploaded_by, date_uploaded`

// Create inserts a lecture note.
func (r *NoteRepository) Create(ctx context.Context, note *models.LectureNote) error {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	if note.DateUploaded.IsZero() {
		note.DateUploaded = time.Now().UTC()
	}
	const query = `INSERT INTO lecture_notes (id, title, description, subject_id, file_path, file_name, uploaded_by, date_uploaded)
		VALUES (:id, :title, :description, :subject_id, :file_path, :file_name, :uploaded_by, :date_uploaded)`
	if _, err := r.db.NamedExecContext(ctx, query, note); err != nil {
		return fmt.Errorf("create lecture note: %w", err)
	}
	return nil
}

// FindByID returns a note by identifier.
func (r *NoteRepository) FindByID(ctx context.Context, id string) (*models.LectureNote, error) {
	query := fmt.Sprintf(`SELECT %s FROM lecture_notes WHERE id = $1 LIMIT 1`, noteColumns)
	var note models.LectureNote
	if err := r.db.GetContext(ctx, &note, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find lecture note by id: %w", err)
	}
	return &note, nil
}

// ListByUploader returns the notes owned by one user, newest first.
func (r *NoteRepository) ListByUploader(ctx context.Context, userID string) ([]models.LectureNote, error) {
	query := fmt.Sprintf(`SELECT %s FROM lecture_notes WHERE uploaded_by = $1 ORDER BY date_uploaded DESC`, noteColumns)
	var notes []models.LectureNote
	if err := r.db.SelectContext(ctx, &notes, query, userID); err != nil {
		return nil, fmt.Errorf("list lecture notes by uploader: %w", err)
	}
	return notes, nil
}

// ListAll returns every note, newest first.
func (r *NoteRepository) ListAll(ctx context.Context) ([]models.LectureNote, error) {
	query := fmt.Sprintf(`SELECT %s FROM lecture_notes ORDER BY date_uploaded DESC`, noteColumns)
	var notes []models.LectureNote
	if err := r.db.SelectContext(ctx, &notes, query); err != nil {
		return nil, fmt.Errorf("list lecture notes: %w", err)
	}
	return notes, nil
}

// CountByUploader returns how many notes a user has uploaded.
func (r *NoteRepository) CountByUploader(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM lecture_notes WHERE uploaded_by = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("count lecture notes by uploader: %w", err)
	}
	return count, nil
}

// CountAll returns the total number of notes.
func (r *NoteRepository) CountAll(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM lecture_notes`
	var count int
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("count lecture notes: %w", err)
	}
	return count, nil
}
