package service

import (
	"bytes"
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/college-portal-api/internal/dto"
	"github.com/noah-isme/college-portal-api/internal/models"
	appErrors "github.com/noah-isme/college-portal-api/pkg/errors"
)

type mockAssignmentRepo struct {
	assignments map[string]*models.Assignment
	submissions []*models.AssignmentSubmission
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{assignments: make(map[string]*models.Assignment)}
}

func (m *mockAssignmentRepo) Create(ctx context.Context, a *models.Assignment) error {
	if a.ID == "" {
		a.ID = "a1"
	}
	m.assignments[a.ID] = a
	return nil
}

func (m *mockAssignmentRepo) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	a, ok := m.assignments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return a, nil
}

func (m *mockAssignmentRepo) ListByCreator(ctx context.Context, userID string) ([]models.Assignment, error) {
	var out []models.Assignment
	for _, a := range m.assignments {
		if a.CreatedBy == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockAssignmentRepo) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error) {
	var out []models.Assignment
	for _, a := range m.assignments {
		if filter.SemesterID != "" && a.SemesterID != filter.SemesterID {
			continue
		}
		if filter.SubjectID != "" && a.SubjectID != filter.SubjectID {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (m *mockAssignmentRepo) CreateSubmission(ctx context.Context, s *models.AssignmentSubmission) error {
	if s.ID == "" {
		s.ID = "sub1"
	}
	m.submissions = append(m.submissions, s)
	return nil
}

func (m *mockAssignmentRepo) FindSubmission(ctx context.Context, assignmentID, studentID string) (*models.AssignmentSubmission, error) {
	for _, s := range m.submissions {
		if s.AssignmentID == assignmentID && s.StudentID == studentID {
			return s, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAssignmentRepo) FindSubmissionByID(ctx context.Context, id string) (*models.AssignmentSubmission, error) {
	for _, s := range m.submissions {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAssignmentRepo) ListSubmissionsByAssignment(ctx context.Context, assignmentID string) ([]models.AssignmentSubmission, error) {
	var out []models.AssignmentSubmission
	for _, s := range m.submissions {
		if s.AssignmentID == assignmentID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func newTestAssignmentService(repo *mockAssignmentRepo, store *memStore) *AssignmentService {
	taxonomy := &mockSubjectValidator{subjects: map[string]string{"sub1": "sem1"}}
	return NewAssignmentService(repo, taxonomy, store, noopSigner{}, nil, validator.New(), zap.NewNop())
}

func TestAssignmentServiceCreateParsesDueDate(t *testing.T) {
	repo := newMockAssignmentRepo()
	svc := newTestAssignmentService(repo, newMemStore())

	a, err := svc.Create(context.Background(), "f1", dto.CreateAssignmentRequest{
		Title: "Lab 1", SemesterID: "sem1", SubjectID: "sub1", DueDate: "2024-06-30",
	})
	require.NoError(t, err)
	require.NotNil(t, a.DueDate)
	assert.Equal(t, 2024, a.DueDate.Year())

	_, err = svc.Create(context.Background(), "f1", dto.CreateAssignmentRequest{
		Title: "Lab 2", SemesterID: "sem1", SubjectID: "sub1", DueDate: "soon",
	})
	require.Error(t, err)
}

func TestAssignmentServiceCreateRejectsForeignSubject(t *testing.T) {
	svc := newTestAssignmentService(newMockAssignmentRepo(), newMemStore())

	_, err := svc.Create(context.Background(), "f1", dto.CreateAssignmentRequest{
		Title: "Lab 1", SemesterID: "sem2", SubjectID: "sub1",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAssignmentServiceSubmitOnce(t *testing.T) {
	repo := newMockAssignmentRepo()
	repo.assignments["a1"] = &models.Assignment{ID: "a1", CreatedBy: "f1"}
	store := newMemStore()
	svc := newTestAssignmentService(repo, store)

	res, err := svc.Submit(context.Background(), "s1", "a1", fileHeader("answer.pdf"), bytes.NewReader([]byte("ans")))
	require.NoError(t, err)
	assert.False(t, res.AlreadySubmitted)
	require.NotNil(t, res.Submission)
	assert.Contains(t, store.saved, res.Submission.FilePath)
}

func TestAssignmentServiceSubmitTwiceIsInformational(t *testing.T) {
	repo := newMockAssignmentRepo()
	repo.assignments["a1"] = &models.Assignment{ID: "a1", CreatedBy: "f1"}
	svc := newTestAssignmentService(repo, newMemStore())

	first, err := svc.Submit(context.Background(), "s1", "a1", fileHeader("answer.pdf"), bytes.NewReader([]byte("v1")))
	require.NoError(t, err)

	second, err := svc.Submit(context.Background(), "s1", "a1", fileHeader("answer2.pdf"), bytes.NewReader([]byte("v2")))
	require.NoError(t, err)
	assert.True(t, second.AlreadySubmitted)
	assert.Equal(t, first.Submission.ID, second.Submission.ID)
	assert.Len(t, repo.submissions, 1)
}

func TestAssignmentServiceGetOwnerOnly(t *testing.T) {
	repo := newMockAssignmentRepo()
	repo.assignments["a1"] = &models.Assignment{ID: "a1", CreatedBy: "f1"}
	repo.submissions = append(repo.submissions, &models.AssignmentSubmission{ID: "sub1", AssignmentID: "a1", StudentID: "s1"})
	svc := newTestAssignmentService(repo, newMemStore())

	detail, err := svc.Get(context.Background(), "f1", "a1")
	require.NoError(t, err)
	assert.Len(t, detail.Submissions, 1)

	_, err = svc.Get(context.Background(), "f2", "a1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAssignmentServiceListPairsCallerSubmission(t *testing.T) {
	repo := newMockAssignmentRepo()
	repo.assignments["a1"] = &models.Assignment{ID: "a1", CreatedBy: "f1", SemesterID: "sem1", SubjectID: "sub1"}
	repo.submissions = append(repo.submissions, &models.AssignmentSubmission{ID: "sub1", AssignmentID: "a1", StudentID: "s1"})
	svc := newTestAssignmentService(repo, newMemStore())

	items, err := svc.List(context.Background(), "s1", models.AssignmentFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Submission)
	assert.Equal(t, "sub1", items[0].Submission.ID)

	items, err = svc.List(context.Background(), "s2", models.AssignmentFilter{})
	require.NoError(t, err)
	assert.Nil(t, items[0].Submission)
}

func TestAssignmentServiceSubmissionDownloadURL(t *testing.T) {
	repo := newMockAssignmentRepo()
	repo.assignments["a1"] = &models.Assignment{ID: "a1", CreatedBy: "f1"}
	repo.submissions = append(repo.submissions, &models.AssignmentSubmission{ID: "sub1", AssignmentID: "a1", StudentID: "s1", FilePath: "assignments/a1/x.pdf"})
	svc := newTestAssignmentService(repo, newMemStore())

	// Owner of the assignment and the submitting student may sign links.
	for _, caller := range []*models.User{{ID: "s1"}, {ID: "f1"}} {
		token, err := svc.SubmissionDownloadURL(context.Background(), caller, "sub1")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
	}

	_, err := svc.SubmissionDownloadURL(context.Background(), &models.User{ID: "s2"}, "sub1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
