package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/college-portal-api/internal/dto"
	"github.com/noah-isme/college-portal-api/internal/models"
	appErrors "github.com/noah-isme/college-portal-api/pkg/errors"
)

type taxonomyRepository interface {
	CreateSemester(ctx context.Context, s *models.Semester) error
	ListSemesters(ctx context.Context) ([]models.Semester, error)
	FindSemesterByID(ctx context.Context, id string) (*models.Semester, error)
	CreateSubject(ctx context.Context, s *models.Subject) error
	ListSubjects(ctx context.Context) ([]models.Subject, error)
	ListSubjectsBySemester(ctx context.Context, semesterID string) ([]models.Subject, error)
	FindSubjectByID(ctx context.Context, id string) (*models.Subject, error)
}

// TaxonomyService manages semesters and subjects.
type TaxonomyService struct {
	repo      taxonomyRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTaxonomyService constructs a TaxonomyService instance.
func NewTaxonomyService(repo taxonomyRepository, validate *validator.Validate, logger *zap.Logger) *TaxonomyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TaxonomyService{repo: repo, validator: validate, logger: logger}
}

// CreateSemester inserts a semester.
func (s *TaxonomyService) CreateSemester(ctx context.Context, req dto.CreateSemesterRequest) (*models.Semester, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid semester payload")
	}
	semester := &models.Semester{Name: req.Name, Description: req.Description}
	if err := s.repo.CreateSemester(ctx, semester); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create semester")
	}
	return semester, nil
}

// ListSemesters returns all semesters.
func (s *TaxonomyService) ListSemesters(ctx context.Context) ([]models.Semester, error) {
	semesters, err := s.repo.ListSemesters(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list semesters")
	}
	return semesters, nil
}

// CreateSubject inserts a subject after checking its semester exists.
func (s *TaxonomyService) CreateSubject(ctx context.Context, req dto.CreateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	if _, err := s.repo.FindSemesterByID(ctx, req.SemesterID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "semester not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check semester")
	}
	subject := &models.Subject{Name: req.Name, Description: req.Description, SemesterID: req.SemesterID}
	if err := s.repo.CreateSubject(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subject")
	}
	return subject, nil
}

// ListSubjects returns all subjects.
func (s *TaxonomyService) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	subjects, err := s.repo.ListSubjects(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	return subjects, nil
}

// SubjectsBySemester serves the dependent subject dropdown. A missing or
// unknown semester id degrades to an empty list rather than an error so
// the dropdown can always render.
func (s *TaxonomyService) SubjectsBySemester(ctx context.Context, semesterID string) (*dto.SubjectListResponse, error) {
	res := &dto.SubjectListResponse{Subjects: []models.SubjectOption{}}
	if semesterID == "" {
		return res, nil
	}
	subjects, err := s.repo.ListSubjectsBySemester(ctx, semesterID)
	if err != nil {
		s.logger.Warn("subject lookup failed, serving empty dropdown", zap.String("semester_id", semesterID), zap.Error(err))
		return res, nil
	}
	for _, sub := range subjects {
		res.Subjects = append(res.Subjects, models.SubjectOption{ID: sub.ID, Name: sub.Name})
	}
	return res, nil
}

// ValidateSubjectSemester checks that the subject exists and belongs to
// the given semester. Client-side dropdown filtering is not trusted.
func (s *TaxonomyService) ValidateSubjectSemester(ctx context.Context, subjectID, semesterID string) (*models.Subject, error) {
	subject, err := s.repo.FindSubjectByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subject")
	}
	if subject.SemesterID != semesterID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "subject does not belong to the selected semester")
	}
	return subject, nil
}
