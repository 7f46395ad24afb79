package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/college-portal-api/internal/dto"
	appErrors "github.com/noah-isme/college-portal-api/pkg/errors"
)

type noteCounter interface {
	CountByUploader(ctx context.Context, userID string) (int, error)
	CountAll(ctx context.Context) (int, error)
}

type mainProjectCounter interface {
	CountMain(ctx context.Context) (int, error)
}

type questionBankCounter interface {
	CountAll(ctx context.Context) (int, error)
}

type assignmentCounter interface {
	CountByCreator(ctx context.Context, userID string) (int, error)
	CountAll(ctx context.Context) (int, error)
	CountSubmissionsByStudent(ctx context.Context, studentID string) (int, error)
}

// DashboardService aggregates per-role dashboard figures, cached in
// Redis for a short window.
type DashboardService struct {
	notes        noteCounter
	projects     mainProjectCounter
	questionBank questionBankCounter
	assignments  assignmentCounter
	users        *UserService
	cache        *CacheService
	logger       *zap.Logger
	cacheTTL     time.Duration
}

// NewDashboardService constructs a DashboardService instance.
func NewDashboardService(notes noteCounter, projects mainProjectCounter, questionBank questionBankCounter, assignments assignmentCounter, users *UserService, cache *CacheService, logger *zap.Logger, cacheTTL time.Duration) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 2 * time.Minute
	}
	return &DashboardService{
		notes:        notes,
		projects:     projects,
		questionBank: questionBank,
		assignments:  assignments,
		users:        users,
		cache:        cache,
		logger:       logger,
		cacheTTL:     cacheTTL,
	}
}

// Faculty returns the faculty dashboard counters. Note and assignment
// counts are scoped to the caller; project and question bank counts are
// portal-wide.
func (s *DashboardService) Faculty(ctx context.Context, userID string) (*dto.FacultyDashboardResponse, error) {
	cacheKey := fmt.Sprintf("dashboard:faculty:%s", userID)
	var cached dto.FacultyDashboardResponse
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	noteCount, err := s.notes.CountByUploader(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count notes")
	}
	projectCount, err := s.projects.CountMain(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count projects")
	}
	paperCount, err := s.questionBank.CountAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count question papers")
	}
	assignmentCount, err := s.assignments.CountByCreator(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count assignments")
	}

	res := &dto.FacultyDashboardResponse{
		NoteCount:         noteCount,
		MainProjectCount:  projectCount,
		QuestionBankCount: paperCount,
		AssignmentCount:   assignmentCount,
	}
	s.cacheSet(ctx, cacheKey, res)
	return res, nil
}

// Student returns the student dashboard counters.
func (s *DashboardService) Student(ctx context.Context, userID string) (*dto.StudentDashboardResponse, error) {
	cacheKey := fmt.Sprintf("dashboard:student:%s", userID)
	var cached dto.StudentDashboardResponse
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	submissionCount, err := s.assignments.CountSubmissionsByStudent(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count submissions")
	}
	assignmentCount, err := s.assignments.CountAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count assignments")
	}
	projectCount, err := s.projects.CountMain(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count projects")
	}
	noteCount, err := s.notes.CountAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count notes")
	}

	res := &dto.StudentDashboardResponse{
		SubmissionCount:  submissionCount,
		AssignmentCount:  assignmentCount,
		MainProjectCount: projectCount,
		LectureNoteCount: noteCount,
	}
	s.cacheSet(ctx, cacheKey, res)
	return res, nil
}

// Admin returns the approval queue. Never cached: an admin acting on a
// stale queue would approve users twice or miss new registrations.
func (s *DashboardService) Admin(ctx context.Context) (*dto.AdminDashboardResponse, error) {
	unapproved, err := s.users.ListByApproval(ctx, false)
	if err != nil {
		return nil, err
	}
	approved, err := s.users.ListByApproval(ctx, true)
	if err != nil {
		return nil, err
	}
	return &dto.AdminDashboardResponse{
		UnapprovedUsers: unapproved,
		ApprovedUsers:   approved,
	}, nil
}

// InvalidateUser drops the cached counters for one user after an
// action that changes them.
func (s *DashboardService) InvalidateUser(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, fmt.Sprintf("dashboard:*:%s", userID)); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.String("user_id", userID), zap.Error(err))
	}
}

func (s *DashboardService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache dashboard", zap.String("key", key), zap.Error(err))
	}
}
