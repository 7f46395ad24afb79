package service

import (
	"bytes"
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/college-portal-api/internal/dto"
	"github.com/noah-isme/college-portal-api/internal/models"
	appErrors "github.com/noah-isme/college-portal-api/pkg/errors"
)

type mockNoteRepo struct {
	notes []*models.LectureNote
}

func (m *mockNoteRepo) Create(ctx context.Context, note *models.LectureNote) error {
	if note.ID == "" {
		note.ID = "n1"
	}
	m.notes = append(m.notes, note)
	return nil
}

func (m *mockNoteRepo) FindByID(ctx context.Context, id string) (*models.LectureNote, error) {
	for _, n := range m.notes {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockNoteRepo) ListByUploader(ctx context.Context, userID string) ([]models.LectureNote, error) {
	var out []models.LectureNote
	for _, n := range m.notes {
		if n.UploadedBy == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (m *mockNoteRepo) ListAll(ctx context.Context) ([]models.LectureNote, error) {
	out := make([]models.LectureNote, 0, len(m.notes))
	for _, n := range m.notes {
		out = append(out, *n)
	}
	return out, nil
}

func newTestNoteService(repo *mockNoteRepo, store *memStore) *NoteService {
	return NewNoteService(repo, store, noopSigner{}, nil, validator.New(), zap.NewNop(),
		[]string{"pdf", "doc", "docx", "ppt", "pptx", "png"})
}

func TestNoteServiceUploadAllowedExtension(t *testing.T) {
	repo := &mockNoteRepo{}
	store := newMemStore()
	svc := newTestNoteService(repo, store)

	note, err := svc.Upload(context.Background(), "f1",
		dto.CreateLectureNoteRequest{Title: "Thermodynamics"},
		fileHeader("unit1.PDF"), bytes.NewReader([]byte("pdf")))
	require.NoError(t, err)

	assert.Equal(t, "f1", note.UploadedBy)
	assert.True(t, strings.HasPrefix(note.FilePath, "lecture_notes/"))
	assert.Equal(t, "unit1.PDF", note.FileName)
	assert.Contains(t, store.saved, note.FilePath)
}

func TestNoteServiceUploadRejectsExtension(t *testing.T) {
	svc := newTestNoteService(&mockNoteRepo{}, newMemStore())

	for _, name := range []string{"setup.exe", "archive.zip", "noext"} {
		_, err := svc.Upload(context.Background(), "f1",
			dto.CreateLectureNoteRequest{Title: "Notes"},
			fileHeader(name), bytes.NewReader(nil))
		require.Error(t, err, name)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}
}

func TestNoteServiceListMineDecoratesDownloadURL(t *testing.T) {
	repo := &mockNoteRepo{notes: []*models.LectureNote{
		{ID: "n1", Title: "Unit 1", FilePath: "lecture_notes/a.pdf", UploadedBy: "f1"},
		{ID: "n2", Title: "Unit 2", FilePath: "lecture_notes/b.pdf", UploadedBy: "f2"},
	}}
	svc := newTestNoteService(repo, newMemStore())

	items, err := svc.ListMine(context.Background(), "f1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "n1:lecture_notes/a.pdf", items[0].DownloadURL)
}
