package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-portal-api/internal/models"
)

func TestListMainFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProjectRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "title", "description", "branch", "subject_id", "uploaded_by", "year", "date_created"}).
		AddRow("p1", "Smart Parking", "desc", string(models.BranchComputerScience), nil, "u1", 2024, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, description, branch, subject_id, uploaded_by, year, date_created FROM main_projects WHERE 1=1 AND year = $1 AND branch = $2 ORDER BY date_created DESC")).
		WithArgs(2024, string(models.BranchComputerScience)).
		WillReturnRows(rows)

	projects, err := repo.ListMain(context.Background(), models.MainProjectFilter{Year: 2024, Branch: models.BranchComputerScience})
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Smart Parking", projects[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsMember(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProjectRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM main_project_students WHERE project_id = $1 AND student_id = $2)")).
		WithArgs("p1", "s1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	member, err := repo.IsMember(context.Background(), "p1", "s1")
	require.NoError(t, err)
	assert.True(t, member)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetMembersReplacesSet(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProjectRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM main_project_students WHERE project_id = $1")).
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO main_project_students (project_id, student_id) VALUES ($1, $2)")).
		WithArgs("p1", "s1").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO main_project_students (project_id, student_id) VALUES ($1, $2)")).
		WithArgs("p1", "s2").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.SetMembers(context.Background(), "p1", []string{"s1", "s2"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindMiniByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProjectRepository(db)

	mock.ExpectQuery("SELECT .+ FROM mini_projects WHERE id").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindMiniByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateFile(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProjectRepository(db)

	mock.ExpectExec("INSERT INTO project_files").WillReturnResult(sqlmock.NewResult(1, 1))

	projectID := "p1"
	f := &models.ProjectFile{
		OwnerKind:     models.OwnerMain,
		MainProjectID: &projectID,
		FileType:      models.FileTypeDoc,
		FilePath:      "project_files/smart-parking/a.pdf",
		FileName:      "a.pdf",
	}
	err := repo.CreateFile(context.Background(), f)
	require.NoError(t, err)
	assert.NotEmpty(t, f.ID)
	assert.False(t, f.UploadedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListFilesByMain(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProjectRepository(db)

	projectID := "p1"
	rows := sqlmock.NewRows([]string{"id", "owner_kind", "main_project_id", "mini_project_id", "file_type", "file_path", "file_name", "uploaded_at"}).
		AddRow("f1", string(models.OwnerMain), projectID, nil, string(models.FileTypeDoc), "project_files/smart-parking/a.pdf", "a.pdf", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, owner_kind, main_project_id, mini_project_id, file_type, file_path, file_name, uploaded_at FROM project_files WHERE main_project_id = $1 ORDER BY uploaded_at DESC")).
		WithArgs(projectID).
		WillReturnRows(rows)

	files, err := repo.ListFilesByMain(context.Background(), projectID)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "a.pdf", files[0].FileName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
