package service

import (
	"bytes"
	"context"
	"database/sql"
	"mime/multipart"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/college-portal-api/internal/dto"
	"github.com/noah-isme/college-portal-api/internal/models"
	appErrors "github.com/noah-isme/college-portal-api/pkg/errors"
)

type mockQuestionBankRepo struct {
	papers []*models.QuestionBank
}

func (m *mockQuestionBankRepo) Create(ctx context.Context, qb *models.QuestionBank) error {
	if qb.ID == "" {
		qb.ID = "qb1"
	}
	m.papers = append(m.papers, qb)
	return nil
}

func (m *mockQuestionBankRepo) FindByID(ctx context.Context, id string) (*models.QuestionBank, error) {
	for _, qb := range m.papers {
		if qb.ID == id {
			return qb, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockQuestionBankRepo) ListAll(ctx context.Context) ([]models.QuestionBank, error) {
	out := make([]models.QuestionBank, 0, len(m.papers))
	for _, qb := range m.papers {
		out = append(out, *qb)
	}
	return out, nil
}

type mockSubjectValidator struct {
	subjects map[string]string // subject id -> semester id
}

func (m *mockSubjectValidator) ValidateSubjectSemester(ctx context.Context, subjectID, semesterID string) (*models.Subject, error) {
	sem, ok := m.subjects[subjectID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "subject not found")
	}
	if sem != semesterID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "subject does not belong to the selected semester")
	}
	return &models.Subject{ID: subjectID, SemesterID: sem}, nil
}

func newTestQuestionBankService(repo *mockQuestionBankRepo, store *memStore) *QuestionBankService {
	taxonomy := &mockSubjectValidator{subjects: map[string]string{"sub1": "sem1"}}
	return NewQuestionBankService(repo, taxonomy, store, noopSigner{}, nil, validator.New(), zap.NewNop(), 10<<20)
}

func validPaperRequest() dto.CreateQuestionBankRequest {
	return dto.CreateQuestionBankRequest{
		Name:       "Midterm 2023",
		SemesterID: "sem1",
		SubjectID:  "sub1",
		ExamYear:   2023,
	}
}

func TestQuestionBankServiceUpload(t *testing.T) {
	repo := &mockQuestionBankRepo{}
	store := newMemStore()
	svc := newTestQuestionBankService(repo, store)

	qb, err := svc.Upload(context.Background(), "f1", validPaperRequest(),
		fileHeader("midterm.pdf"), bytes.NewReader([]byte("paper")))
	require.NoError(t, err)

	assert.Equal(t, "f1", qb.UploadedBy)
	assert.Contains(t, store.saved, qb.FilePath)
}

func TestQuestionBankServiceUploadTooLarge(t *testing.T) {
	svc := newTestQuestionBankService(&mockQuestionBankRepo{}, newMemStore())

	header := &multipart.FileHeader{Filename: "huge.pdf", Size: 11 << 20}
	_, err := svc.Upload(context.Background(), "f1", validPaperRequest(), header, bytes.NewReader(nil))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestQuestionBankServiceUploadSubjectSemesterMismatch(t *testing.T) {
	store := newMemStore()
	svc := newTestQuestionBankService(&mockQuestionBankRepo{}, store)

	req := validPaperRequest()
	req.SemesterID = "sem2"
	_, err := svc.Upload(context.Background(), "f1", req,
		fileHeader("midterm.pdf"), bytes.NewReader(nil))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, store.saved)
}
