package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-portal-api/internal/models"
	"github.com/noah-isme/college-portal-api/internal/service"
)

type fakeTaxonomyRepo struct {
	semesters map[string]*models.Semester
	subjects  []models.Subject
	listErr   error
}

func (f *fakeTaxonomyRepo) CreateSemester(ctx context.Context, s *models.Semester) error {
	return nil
}

func (f *fakeTaxonomyRepo) ListSemesters(ctx context.Context) ([]models.Semester, error) {
	var out []models.Semester
	for _, s := range f.semesters {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeTaxonomyRepo) FindSemesterByID(ctx context.Context, id string) (*models.Semester, error) {
	s, ok := f.semesters[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return s, nil
}

func (f *fakeTaxonomyRepo) CreateSubject(ctx context.Context, s *models.Subject) error {
	return nil
}

func (f *fakeTaxonomyRepo) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	return f.subjects, nil
}

func (f *fakeTaxonomyRepo) ListSubjectsBySemester(ctx context.Context, semesterID string) ([]models.Subject, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.Subject
	for _, s := range f.subjects {
		if s.SemesterID == semesterID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeTaxonomyRepo) FindSubjectByID(ctx context.Context, id string) (*models.Subject, error) {
	for i := range f.subjects {
		if f.subjects[i].ID == id {
			return &f.subjects[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func newTaxonomyHandler(repo *fakeTaxonomyRepo) *TaxonomyHandler {
	return NewTaxonomyHandler(service.NewTaxonomyService(repo, nil, nil))
}

type subjectOptionsPayload struct {
	Subjects []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"subjects"`
}

func TestSubjectsBySemesterRawShape(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTaxonomyHandler(&fakeTaxonomyRepo{
		subjects: []models.Subject{
			{ID: "sub1", Name: "Compilers", SemesterID: "sem1"},
			{ID: "sub2", Name: "Networks", SemesterID: "sem2"},
		},
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/subjects/options?semester_id=sem1", nil)

	handler.SubjectsBySemester(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var payload subjectOptionsPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Subjects, 1)
	assert.Equal(t, "Compilers", payload.Subjects[0].Name)
	// No envelope wrapper, the dropdown reads subjects at the top level.
	assert.NotContains(t, rec.Body.String(), `"data"`)
}

func TestSubjectsBySemesterMissingIDServesEmptyList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTaxonomyHandler(&fakeTaxonomyRepo{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/subjects/options", nil)

	handler.SubjectsBySemester(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"subjects":[]}`, rec.Body.String())
}

func TestSubjectsBySemesterLookupErrorServesEmptyList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTaxonomyHandler(&fakeTaxonomyRepo{listErr: errors.New("db down")})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/subjects/options?semester_id=sem1", nil)

	handler.SubjectsBySemester(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"subjects":[]}`, rec.Body.String())
}

func TestCreateSubjectUnknownSemester(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTaxonomyHandler(&fakeTaxonomyRepo{semesters: map[string]*models.Semester{}})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	body := `{"name":"Compilers","semester_id":"ghost"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/subjects", jsonBody(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.CreateSubject(c)

	assert.NotEqual(t, http.StatusCreated, rec.Code)
}
