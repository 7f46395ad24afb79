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

// ProjectRepository provides database access for main projects, mini
// projects, memberships and attached files.
type ProjectRepository struct {
	db *sqlx.DB
}

// NewProjectRepository creates a new instance of ProjectRepository.
func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const mainProjectColumns = `id, title, description, branch, subject_id, uploaded_by, year, date_created`

// CreateMain inserts a main project.
func (r *ProjectRepository) CreateMain(ctx context.Context, p *models.MainProject) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.DateCreated.IsZero() {
		p.DateCreated = time.Now().UTC()
	}
	const query = `INSERT INTO main_projects (id, title, description, branch, subject_id, uploaded_by, year, date_created)
		VALUES (:id, :title, :description, :branch, :subject_id, :uploaded_by, :year, :date_created)`
	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		return fmt.Errorf("create main project: %w", err)
	}
	return nil
}

// UpdateMain updates the mutable fields of a main project.
func (r *ProjectRepository) UpdateMain(ctx context.Context, p *models.MainProject) error {
	const query = `UPDATE main_projects SET title = :title, description = :description, branch = :branch, subject_id = :subject_id, year = :year WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		return fmt.Errorf("update main project: %w", err)
	}
	return nil
}

// FindMainByID returns a main project by identifier.
func (r *ProjectRepository) FindMainByID(ctx context.Context, id string) (*models.MainProject, error) {
	query := fmt.Sprintf(`SELECT %s FROM main_projects WHERE id = $1 LIMIT 1`, mainProjectColumns)
	var p models.MainProject
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find main project by id: %w", err)
	}
	return &p, nil
}

// ListMain returns main projects matching the filter, newest first.
// Absent filter fields mean no filter, not "match empty".
func (r *ProjectRepository) ListMain(ctx context.Context, filter models.MainProjectFilter) ([]models.MainProject, error) {
	query := fmt.Sprintf(`SELECT %s FROM main_projects WHERE 1=1`, mainProjectColumns)
	var args []interface{}

	if filter.Year != 0 {
		args = append(args, filter.Year)
		query += fmt.Sprintf(" AND year = $%d", len(args))
	}
	if filter.Branch != "" {
		args = append(args, filter.Branch)
		query += fmt.Sprintf(" AND branch = $%d", len(args))
	}

	query += " ORDER BY date_created DESC"

	var projects []models.MainProject
	if err := r.db.SelectContext(ctx, &projects, query, args...); err != nil {
		return nil, fmt.Errorf("list main projects: %w", err)
	}
	return projects, nil
}

// CountMain returns the total number of main projects.
func (r *ProjectRepository) CountMain(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM main_projects`
	var count int
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("count main projects: %w", err)
	}
	return count, nil
}

// SetMembers replaces the member set of a main project.
func (r *ProjectRepository) SetMembers(ctx context.Context, projectID string, studentIDs []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin set members: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM main_project_students WHERE project_id = $1`, projectID); err != nil {
		return fmt.Errorf("clear project members: %w", err)
	}
	for _, studentID := range studentIDs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO main_project_students (project_id, student_id) VALUES ($1, $2)`, projectID, studentID); err != nil {
			return fmt.Errorf("add project member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit set members: %w", err)
	}
	return nil
}

// ListMemberIDs returns the student ids attached to a main project.
func (r *ProjectRepository) ListMemberIDs(ctx context.Context, projectID string) ([]string, error) {
	const query = `SELECT student_id FROM main_project_students WHERE project_id = $1`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, projectID); err != nil {
		return nil, fmt.Errorf("list project member ids: %w", err)
	}
	return ids, nil
}

// IsMember reports whether a student is listed on a main project.
func (r *ProjectRepository) IsMember(ctx context.Context, projectID, studentID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM main_project_students WHERE project_id = $1 AND student_id = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, projectID, studentID); err != nil {
		return false, fmt.Errorf("check project membership: %w", err)
	}
	return exists, nil
}

const miniProjectColumns = `id, title, description, subject_id, student_1, student_2, student_3, student_4, uploaded_by, date_created`

// CreateMini inserts a mini project.
func (r *ProjectRepository) CreateMini(ctx context.Context, p *models.MiniProject) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.DateCreated.IsZero() {
		p.DateCreated = time.Now().UTC()
	}
	const query = `INSERT INTO mini_projects (id, title, description, subject_id, student_1, student_2, student_3, student_4, uploaded_by, date_created)
		VALUES (:id, :title, :description, :subject_id, :student_1, :student_2, :student_3, :student_4, :uploaded_by, :date_created)`
	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		return fmt.Errorf("create mini project: %w", err)
	}
	return nil
}

// FindMiniByID returns a mini project by identifier.
func (r *ProjectRepository) FindMiniByID(ctx context.Context, id string) (*models.MiniProject, error) {
	query := fmt.Sprintf(`SELECT %s FROM mini_projects WHERE id = $1 LIMIT 1`, miniProjectColumns)
	var p models.MiniProject
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find mini project by id: %w", err)
	}
	return &p, nil
}

// ListMiniByUploader returns the mini projects owned by one user.
func (r *ProjectRepository) ListMiniByUploader(ctx context.Context, userID string) ([]models.MiniProject, error) {
	query := fmt.Sprintf(`SELECT %s FROM mini_projects WHERE uploaded_by = $1 ORDER BY date_created DESC`, miniProjectColumns)
	var projects []models.MiniProject
	if err := r.db.SelectContext(ctx, &projects, query, userID); err != nil {
		return nil, fmt.Errorf("list mini projects by uploader: %w", err)
	}
	return projects, nil
}

const projectFileColumns = `id, owner_kind, main_project_id, mini_project_id, file_type, file_path, file_name, uploaded_at`

// CreateFile inserts a project file attachment.
func (r *ProjectRepository) CreateFile(ctx context.Context, f *models.ProjectFile) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.UploadedAt.IsZero() {
		f.UploadedAt = time.Now().UTC()
	}
	const query = `INSERT INTO project_files (id, owner_kind, main_project_id, mini_project_id, file_type, file_path, file_name, uploaded_at)
		VALUES (:id, :owner_kind, :main_project_id, :mini_project_id, :file_type, :file_path, :file_name, :uploaded_at)`
	if _, err := r.db.NamedExecContext(ctx, query, f); err != nil {
		return fmt.Errorf("create project file: %w", err)
	}
	return nil
}

// FindFileByID returns a project file by identifier.
func (r *ProjectRepository) FindFileByID(ctx context.Context, id string) (*models.ProjectFile, error) {
	query := fmt.Sprintf(`SELECT %s FROM project_files WHERE id = $1 LIMIT 1`, projectFileColumns)
	var f models.ProjectFile
	if err := r.db.GetContext(ctx, &f, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find project file by id: %w", err)
	}
	return &f, nil
}

// ListFilesByMain returns the files attached to a main project.
func (r *ProjectRepository) ListFilesByMain(ctx context.Context, projectID string) ([]models.ProjectFile, error) {
	query := fmt.Sprintf(`SELECT %s FROM project_files WHERE main_project_id = $1 ORDER BY uploaded_at DESC`, projectFileColumns)
	var files []models.ProjectFile
	if err := r.db.SelectContext(ctx, &files, query, projectID); err != nil {
		return nil, fmt.Errorf("list files by main project: %w", err)
	}
	return files, nil
}

// ListFilesByMini returns the files attached to a mini project.
func (r *ProjectRepository) ListFilesByMini(ctx context.Context, projectID string) ([]models.ProjectFile, error) {
	query := fmt.Sprintf(`SELECT %s FROM project_files WHERE mini_project_id = $1 ORDER BY uploaded_at DESC`, projectFileColumns)
	var files []models.ProjectFile
	if err := r.db.SelectContext(ctx, &files, query, projectID); err != nil {
		return nil, fmt.Errorf("list files by mini project: %w", err)
	}
	return files, nil
}
