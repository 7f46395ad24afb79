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

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/college-portal-api/internal/dto"
	"github.com/noah-isme/college-portal-api/internal/models"
	appErrors "github.com/noah-isme/college-portal-api/pkg/errors"
)

type questionBankRepository interface {
	Create(ctx context.Context, qb *models.QuestionBank) error
	FindByID(ctx context.Context, id string) (*models.QuestionBank, error)
	ListAll(ctx context.Context) ([]models.QuestionBank, error)
}

type subjectValidator interface {
	ValidateSubjectSemester(ctx context.Context, subjectID, semesterID string) (*models.Subject, error)
}

// QuestionBankService handles question paper uploads and listings.
type QuestionBankService struct {
	repo      questionBankRepository
	taxonomy  subjectValidator
	store     FileStore
	signer    DownloadSigner
	metrics   UploadRecorder
	validator *validator.Validate
	logger    *zap.Logger
	maxBytes  int64
}

// NewQuestionBankService constructs a QuestionBankService instance.
func NewQuestionBankService(repo questionBankRepository, taxonomy subjectValidator, store FileStore, signer DownloadSigner, metrics UploadRecorder, validate *validator.Validate, logger *zap.Logger, maxBytes int64) *QuestionBankService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &QuestionBankService{
		repo:      repo,
		taxonomy:  taxonomy,
		store:     store,
		signer:    signer,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		maxBytes:  maxBytes,
	}
}

// Upload validates and stores a question paper. The file size is capped
// and the subject must belong to the selected semester.
func (s *QuestionBankService) Upload(ctx context.Context, uploaderID string, req dto.CreateQuestionBankRequest, header *multipart.FileHeader, file io.Reader) (*models.QuestionBank, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid question paper payload")
	}
	if header == nil || header.Filename == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is required")
	}
	if header.Size > s.maxBytes {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file too large; limit is %d MiB", s.maxBytes>>20))
	}

	if _, err := s.taxonomy.ValidateSubjectSemester(ctx, req.SubjectID, req.SemesterID); err != nil {
		return nil, err
	}

	relPath := path.Join("questionbank", fmt.Sprintf("%s_%s", uuid.NewString(), filepath.Base(header.Filename)))
	if _, err := s.store.SaveStream(relPath, io.LimitReader(file, s.maxBytes+1)); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store question paper")
	}

	qb := &models.QuestionBank{
		Name:        req.Name,
		Description: req.Description,
		SemesterID:  req.SemesterID,
		SubjectID:   req.SubjectID,
		ExamYear:    req.ExamYear,
		FilePath:    relPath,
		FileName:    filepath.Base(header.Filename),
		UploadedBy:  uploaderID,
	}
	if err := s.repo.Create(ctx, qb); err != nil {
		if delErr := s.store.Delete(relPath); delErr != nil {
			s.logger.Warn("failed to clean up question paper after insert failure", zap.Error(delErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create question paper")
	}

	if s.metrics != nil {
		s.metrics.RecordUpload("question_bank")
	}
	s.logger.Info("question paper uploaded", zap.String("question_bank_id", qb.ID), zap.String("uploaded_by", uploaderID))
	return qb, nil
}

// ListAll returns every question paper with download links.
func (s *QuestionBankService) ListAll(ctx context.Context) ([]dto.QuestionBankItem, error) {
	papers, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list question papers")
	}
	items := make([]dto.QuestionBankItem, 0, len(papers))
	for _, qb := range papers {
		item := dto.QuestionBankItem{QuestionBank: qb}
		if s.signer != nil {
			if token, _, err := s.signer.Generate(qb.ID, qb.FilePath); err == nil {
				item.DownloadURL = token
			}
		}
		items = append(items, item)
	}
	return items, nil
}

// Download resolves a signed token to the paper and an open file handle.
// The caller is responsible for closing the file.
func (s *QuestionBankService) Download(ctx context.Context, token string) (*models.QuestionBank, io.ReadCloser, error) {
	paperID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token")
	}

	qb, err := s.repo.FindByID(ctx, paperID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "question paper not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load question paper")
	}
	if qb.FilePath != relPath {
		return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, "download token does not match paper")
	}

	file, err := s.store.Open(qb.FilePath)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "stored file missing")
	}
	return qb, file, nil
}
