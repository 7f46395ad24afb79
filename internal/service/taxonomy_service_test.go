package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/college-portal-api/internal/dto"
	"github.com/noah-isme/college-portal-api/internal/models"
	appErrors "github.com/noah-isme/college-portal-api/pkg/errors"
)

type mockTaxonomyRepo struct {
	semesters map[string]*models.Semester
	subjects  map[string]*models.Subject
	listErr   error
}

func newMockTaxonomyRepo() *mockTaxonomyRepo {
	return &mockTaxonomyRepo{
		semesters: make(map[string]*models.Semester),
		subjects:  make(map[string]*models.Subject),
	}
}

func (m *mockTaxonomyRepo) CreateSemester(ctx context.Context, s *models.Semester) error {
	if s.ID == "" {
		s.ID = "sem1"
	}
	m.semesters[s.ID] = s
	return nil
}

func (m *mockTaxonomyRepo) ListSemesters(ctx context.Context) ([]models.Semester, error) {
	out := make([]models.Semester, 0, len(m.semesters))
	for _, s := range m.semesters {
		out = append(out, *s)
	}
	return out, nil
}

func (m *mockTaxonomyRepo) FindSemesterByID(ctx context.Context, id string) (*models.Semester, error) {
	s, ok := m.semesters[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return s, nil
}

func (m *mockTaxonomyRepo) CreateSubject(ctx context.Context, s *models.Subject) error {
	if s.ID == "" {
		s.ID = "sub1"
	}
	m.subjects[s.ID] = s
	return nil
}

func (m *mockTaxonomyRepo) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	out := make([]models.Subject, 0, len(m.subjects))
	for _, s := range m.subjects {
		out = append(out, *s)
	}
	return out, nil
}

func (m *mockTaxonomyRepo) ListSubjectsBySemester(ctx context.Context, semesterID string) ([]models.Subject, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []models.Subject
	for _, s := range m.subjects {
		if s.SemesterID == semesterID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockTaxonomyRepo) FindSubjectByID(ctx context.Context, id string) (*models.Subject, error) {
	s, ok := m.subjects[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return s, nil
}

func newTestTaxonomyService(repo *mockTaxonomyRepo) *TaxonomyService {
	return NewTaxonomyService(repo, validator.New(), zap.NewNop())
}

func TestTaxonomyServiceSubjectsBySemester(t *testing.T) {
	repo := newMockTaxonomyRepo()
	repo.semesters["sem1"] = &models.Semester{ID: "sem1", Name: "Semester 1"}
	repo.subjects["sub1"] = &models.Subject{ID: "sub1", Name: "Maths", SemesterID: "sem1"}
	repo.subjects["sub2"] = &models.Subject{ID: "sub2", Name: "Physics", SemesterID: "sem2"}
	svc := newTestTaxonomyService(repo)

	res, err := svc.SubjectsBySemester(context.Background(), "sem1")
	require.NoError(t, err)
	require.Len(t, res.Subjects, 1)
	assert.Equal(t, "Maths", res.Subjects[0].Name)
}

func TestTaxonomyServiceSubjectsBySemesterDegradesToEmpty(t *testing.T) {
	repo := newMockTaxonomyRepo()
	svc := newTestTaxonomyService(repo)

	// Missing id
	res, err := svc.SubjectsBySemester(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, res.Subjects)
	assert.NotNil(t, res.Subjects)

	// Unknown id
	res, err = svc.SubjectsBySemester(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, res.Subjects)

	// Lookup failure still yields OK with an empty list
	repo.listErr = errors.New("db down")
	res, err = svc.SubjectsBySemester(context.Background(), "sem1")
	require.NoError(t, err)
	assert.Empty(t, res.Subjects)
}

func TestTaxonomyServiceValidateSubjectSemester(t *testing.T) {
	repo := newMockTaxonomyRepo()
	repo.subjects["sub1"] = &models.Subject{ID: "sub1", SemesterID: "sem1"}
	svc := newTestTaxonomyService(repo)

	_, err := svc.ValidateSubjectSemester(context.Background(), "sub1", "sem1")
	require.NoError(t, err)

	_, err = svc.ValidateSubjectSemester(context.Background(), "sub1", "sem2")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.ValidateSubjectSemester(context.Background(), "ghost", "sem1")
	require.Error(t, err)
}

func TestTaxonomyServiceCreateSubjectRequiresSemester(t *testing.T) {
	repo := newMockTaxonomyRepo()
	svc := newTestTaxonomyService(repo)

	_, err := svc.CreateSubject(context.Background(), dto.CreateSubjectRequest{Name: "Maths", SemesterID: "sem1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	repo.semesters["sem1"] = &models.Semester{ID: "sem1"}
	subject, err := svc.CreateSubject(context.Background(), dto.CreateSubjectRequest{Name: "Maths", SemesterID: "sem1"})
	require.NoError(t, err)
	assert.Equal(t, "sem1", subject.SemesterID)
}
