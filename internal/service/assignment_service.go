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
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/college-portal-api/internal/dto"
	"github.com/noah-isme/college-portal-api/internal/models"
	appErrors "github.com/noah-isme/college-portal-api/pkg/errors"
)

type assignmentRepository interface {
	Create(ctx context.Context, a *models.Assignment) error
	FindByID(ctx context.Context, id string) (*models.Assignment, error)
	ListByCreator(ctx context.Context, userID string) ([]models.Assignment, error)
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error)
	CreateSubmission(ctx context.Context, s *models.AssignmentSubmission) error
	FindSubmission(ctx context.Context, assignmentID, studentID string) (*models.AssignmentSubmission, error)
	FindSubmissionByID(ctx context.Context, id string) (*models.AssignmentSubmission, error)
	ListSubmissionsByAssignment(ctx context.Context, assignmentID string) ([]models.AssignmentSubmission, error)
}

// AssignmentService handles assignment publishing and submissions.
type AssignmentService struct {
	repo      assignmentRepository
	taxonomy  subjectValidator
	store     FileStore
	signer    DownloadSigner
	metrics   UploadRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssignmentService constructs an AssignmentService instance.
func NewAssignmentService(repo assignmentRepository, taxonomy subjectValidator, store FileStore, signer DownloadSigner, metrics UploadRecorder, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AssignmentService{
		repo:      repo,
		taxonomy:  taxonomy,
		store:     store,
		signer:    signer,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// Create publishes an assignment after validating that the subject
// belongs to the selected semester.
func (s *AssignmentService) Create(ctx context.Context, creatorID string, req dto.CreateAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	if _, err := s.taxonomy.ValidateSubjectSemester(ctx, req.SubjectID, req.SemesterID); err != nil {
		return nil, err
	}

	assignment := &models.Assignment{
		Title:       req.Title,
		Description: req.Description,
		SemesterID:  req.SemesterID,
		SubjectID:   req.SubjectID,
		CreatedBy:   creatorID,
	}
	if req.DueDate != "" {
		due, err := time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			due, err = time.Parse("2006-01-02", req.DueDate)
			if err != nil {
				return nil, appErrors.Clone(appErrors.ErrValidation, "due_date must be RFC 3339 or YYYY-MM-DD")
			}
		}
		assignment.DueDate = &due
	}
	if err := s.repo.Create(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}

	s.logger.Info("assignment published", zap.String("assignment_id", assignment.ID), zap.String("created_by", creatorID))
	return assignment, nil
}

// ListMine returns the assignments the caller has published.
func (s *AssignmentService) ListMine(ctx context.Context, creatorID string) ([]models.Assignment, error) {
	assignments, err := s.repo.ListByCreator(ctx, creatorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return assignments, nil
}

// Get returns the owner's view of an assignment with every submission.
// For non-owners the assignment does not exist.
func (s *AssignmentService) Get(ctx context.Context, callerID, assignmentID string) (*dto.AssignmentDetail, error) {
	assignment, err := s.repo.FindByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	if assignment.CreatedBy != callerID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
	}

	submissions, err := s.repo.ListSubmissionsByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}
	if submissions == nil {
		submissions = []models.AssignmentSubmission{}
	}
	return &dto.AssignmentDetail{Assignment: *assignment, Submissions: submissions}, nil
}

// List returns filtered assignments paired with the caller's own
// submission where one exists.
func (s *AssignmentService) List(ctx context.Context, callerID string, filter models.AssignmentFilter) ([]dto.AssignmentItem, error) {
	assignments, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}

	items := make([]dto.AssignmentItem, 0, len(assignments))
	for _, a := range assignments {
		item := dto.AssignmentItem{Assignment: a}
		if callerID != "" {
			submission, err := s.repo.FindSubmission(ctx, a.ID, callerID)
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check submission")
			}
			item.Submission = submission
		}
		items = append(items, item)
	}
	return items, nil
}

// Submit records a student's answer file. A repeat submission is not an
// error; the existing submission is returned with an informational flag.
func (s *AssignmentService) Submit(ctx context.Context, studentID, assignmentID string, header *multipart.FileHeader, file io.Reader) (*dto.SubmitAssignmentResponse, error) {
	assignment, err := s.repo.FindByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}

	existing, err := s.repo.FindSubmission(ctx, assignmentID, studentID)
	if err == nil {
		return &dto.SubmitAssignmentResponse{
			Submission:       existing,
			AlreadySubmitted: true,
			Message:          "You have already submitted this assignment.",
		}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check submission")
	}

	if header == nil || header.Filename == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is required")
	}

	relPath := path.Join("assignments", assignment.ID, fmt.Sprintf("%s_%s", uuid.NewString(), filepath.Base(header.Filename)))
	if _, err := s.store.SaveStream(relPath, file); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store submission")
	}

	submission := &models.AssignmentSubmission{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		FilePath:     relPath,
		FileName:     filepath.Base(header.Filename),
	}
	if err := s.repo.CreateSubmission(ctx, submission); err != nil {
		if delErr := s.store.Delete(relPath); delErr != nil {
			s.logger.Warn("failed to clean up submission after insert failure", zap.Error(delErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record submission")
	}

	if s.metrics != nil {
		s.metrics.RecordUpload("assignment_submission")
	}
	s.logger.Info("assignment submitted", zap.String("assignment_id", assignmentID), zap.String("student_id", studentID))
	return &dto.SubmitAssignmentResponse{
		Submission: submission,
		Message:    "Assignment submitted successfully.",
	}, nil
}

// DownloadSubmission resolves a signed token to a submission file.
// The caller is responsible for closing the file.
func (s *AssignmentService) DownloadSubmission(ctx context.Context, token string) (*models.AssignmentSubmission, io.ReadCloser, error) {
	submissionID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token")
	}

	submission, err := s.findSubmissionByID(ctx, submissionID)
	if err != nil {
		return nil, nil, err
	}
	if submission.FilePath != relPath {
		return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, "download token does not match submission")
	}

	file, err := s.store.Open(submission.FilePath)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "stored file missing")
	}
	return submission, file, nil
}

// SubmissionDownloadURL signs a download link for a submission the
// caller is allowed to read (their own, or one on their assignment).
func (s *AssignmentService) SubmissionDownloadURL(ctx context.Context, caller *models.User, submissionID string) (string, error) {
	submission, err := s.findSubmissionByID(ctx, submissionID)
	if err != nil {
		return "", err
	}

	if submission.StudentID != caller.ID {
		assignment, err := s.repo.FindByID(ctx, submission.AssignmentID)
		if err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
		}
		if assignment.CreatedBy != caller.ID {
			return "", appErrors.Clone(appErrors.ErrForbidden, "not your submission")
		}
	}

	token, _, err := s.signer.Generate(submission.ID, submission.FilePath)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download link")
	}
	return token, nil
}

func (s *AssignmentService) findSubmissionByID(ctx context.Context, id string) (*models.AssignmentSubmission, error) {
	submission, err := s.repo.FindSubmissionByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submission")
	}
	return submission, nil
}
