package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/college-portal-api/internal/dto"
	"github.com/noah-isme/college-portal-api/internal/models"
	appErrors "github.com/noah-isme/college-portal-api/pkg/errors"
)

type noteRepository interface {
	Create(ctx context.Context, note *models.LectureNote) error
	FindByID(ctx context.Context, id string) (*models.LectureNote, error)
	ListByUploader(ctx context.Context, userID string) ([]models.LectureNote, error)
	ListAll(ctx context.Context) ([]models.LectureNote, error)
}

// NoteService handles lecture note uploads and listings.
type NoteService struct {
	repo              noteRepository
	store             FileStore
	signer            DownloadSigner
	metrics           UploadRecorder
	validator         *validator.Validate
	logger            *zap.Logger
	allowedExtensions map[string]struct{}
}

// NewNoteService constructs a NoteService instance. extensions lists the
// permitted upload extensions without the leading dot.
func NewNoteService(repo noteRepository, store FileStore, signer DownloadSigner, metrics UploadRecorder, validate *validator.Validate, logger *zap.Logger, extensions []string) *NoteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	return &NoteService{
		repo:              repo,
		store:             store,
		signer:            signer,
		metrics:           metrics,
		validator:         validate,
		logger:            logger,
		allowedExtensions: allowed,
	}
}

// Upload validates and stores a lecture note for a faculty uploader.
// Only document and image extensions are accepted.
func (s *NoteService) Upload(ctx context.Context, uploaderID string, req dto.CreateLectureNoteRequest, header *multipart.FileHeader, file io.Reader) (*models.LectureNote, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid note payload")
	}
	if header == nil || header.Filename == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is required")
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(header.Filename), "."))
	if _, ok := s.allowedExtensions[ext]; !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file type not allowed; upload pdf, doc, docx, ppt, pptx or png")
	}

	relPath := path.Join("lecture_notes", fmt.Sprintf("%s_%s", uuid.NewString(), filepath.Base(header.Filename)))
	if _, err := s.store.SaveStream(relPath, file); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store note file")
	}

	note := &models.LectureNote{
		Title:       req.Title,
		Description: req.Description,
		FilePath:    relPath,
		FileName:    filepath.Base(header.Filename),
		UploadedBy:  uploaderID,
	}
	if req.SubjectID != "" {
		note.SubjectID = &req.SubjectID
	}
	if err := s.repo.Create(ctx, note); err != nil {
		if delErr := s.store.Delete(relPath); delErr != nil {
			s.logger.Warn("failed to clean up note file after insert failure", zap.Error(delErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create note")
	}

	if s.metrics != nil {
		s.metrics.RecordUpload("lecture_note")
	}
	s.logger.Info("lecture note uploaded", zap.String("note_id", note.ID), zap.String("uploaded_by", uploaderID))
	return note, nil
}

// ListMine returns the caller's own notes with download links.
func (s *NoteService) ListMine(ctx context.Context, userID string) ([]dto.LectureNoteItem, error) {
	notes, err := s.repo.ListByUploader(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notes")
	}
	return s.decorate(notes), nil
}

// ListAll returns every uploaded note with download links.
func (s *NoteService) ListAll(ctx context.Context) ([]dto.LectureNoteItem, error) {
	notes, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notes")
	}
	return s.decorate(notes), nil
}

// Download resolves a signed token to the note and an open file handle.
// The caller is responsible for closing the file.
func (s *NoteService) Download(ctx context.Context, token string) (*models.LectureNote, io.ReadCloser, error) {
	noteID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token")
	}

	note, err := s.repo.FindByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "note not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load note")
	}
	if note.FilePath != relPath {
		return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, "download token does not match note")
	}

	file, err := s.store.Open(note.FilePath)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "note file missing")
	}
	return note, file, nil
}

func (s *NoteService) decorate(notes []models.LectureNote) []dto.LectureNoteItem {
	items := make([]dto.LectureNoteItem, 0, len(notes))
	for _, n := range notes {
		item := dto.LectureNoteItem{LectureNote: n}
		if s.signer != nil {
			if token, _, err := s.signer.Generate(n.ID, n.FilePath); err == nil {
				item.DownloadURL = token
			}
		}
		items = append(items, item)
	}
	return items
}
