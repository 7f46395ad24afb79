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
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/college-portal-api/internal/dto"
	"github.com/noah-isme/college-portal-api/internal/models"
	appErrors "github.com/noah-isme/college-portal-api/pkg/errors"
	"github.com/noah-isme/college-portal-api/pkg/export"
	"github.com/noah-isme/college-portal-api/pkg/storage"
)

type projectRepository interface {
	CreateMain(ctx context.Context, p *models.MainProject) error
	UpdateMain(ctx context.Context, p *models.MainProject) error
	FindMainByID(ctx context.Context, id string) (*models.MainProject, error)
	ListMain(ctx context.Context, filter models.MainProjectFilter) ([]models.MainProject, error)
	SetMembers(ctx context.Context, projectID string, studentIDs []string) error
	ListMemberIDs(ctx context.Context, projectID string) ([]string, error)
	IsMember(ctx context.Context, projectID, studentID string) (bool, error)
	CreateMini(ctx context.Context, p *models.MiniProject) error
	FindMiniByID(ctx context.Context, id string) (*models.MiniProject, error)
	ListMiniByUploader(ctx context.Context, userID string) ([]models.MiniProject, error)
	CreateFile(ctx context.Context, f *models.ProjectFile) error
	FindFileByID(ctx context.Context, id string) (*models.ProjectFile, error)
	ListFilesByMain(ctx context.Context, projectID string) ([]models.ProjectFile, error)
	ListFilesByMini(ctx context.Context, projectID string) ([]models.ProjectFile, error)
}

type memberLookupRepository interface {
	ListByIDs(ctx context.Context, ids []string) ([]models.User, error)
}

// ProjectService handles main projects, mini projects and their attachments.
type ProjectService struct {
	repo      projectRepository
	users     memberLookupRepository
	store     FileStore
	signer    DownloadSigner
	metrics   UploadRecorder
	validator *validator.Validate
	logger    *zap.Logger
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
}

// NewProjectService constructs a ProjectService instance.
func NewProjectService(repo projectRepository, users memberLookupRepository, store FileStore, signer DownloadSigner, metrics UploadRecorder, validate *validator.Validate, logger *zap.Logger) *ProjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ProjectService{
		repo:      repo,
		users:     users,
		store:     store,
		signer:    signer,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
	}
}

// CreateMain creates a main project owned by a faculty member and
// registers the selected students as members. An omitted year defaults
// to the current year.
func (s *ProjectService) CreateMain(ctx context.Context, creatorID string, req dto.CreateMainProjectRequest) (*models.MainProject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid project payload")
	}
	if !models.ValidBranch(models.Branch(req.Branch)) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown branch")
	}

	year := req.Year
	if year == 0 {
		year = time.Now().Year()
	}
	project := &models.MainProject{
		Title:       req.Title,
		Description: req.Description,
		Branch:      models.Branch(req.Branch),
		UploadedBy:  creatorID,
		Year:        year,
	}
	if req.SubjectID != "" {
		project.SubjectID = &req.SubjectID
	}
	if err := s.repo.CreateMain(ctx, project); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create project")
	}

	if len(req.StudentIDs) > 0 {
		if err := s.repo.SetMembers(ctx, project.ID, req.StudentIDs); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to set project members")
		}
		project.MemberIDs = req.StudentIDs
	}

	s.logger.Info("main project created", zap.String("project_id", project.ID), zap.String("created_by", creatorID))
	return project, nil
}

// UpdateMain edits a main project. Only the owner may edit; for anyone
// else the project does not exist.
func (s *ProjectService) UpdateMain(ctx context.Context, callerID, projectID string, req dto.CreateMainProjectRequest) (*models.MainProject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid project payload")
	}
	if !models.ValidBranch(models.Branch(req.Branch)) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown branch")
	}

	project, err := s.repo.FindMainByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "project not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load project")
	}
	if project.UploadedBy != callerID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "project not found")
	}

	project.Title = req.Title
	project.Description = req.Description
	project.Branch = models.Branch(req.Branch)
	if req.Year != 0 {
		project.Year = req.Year
	}
	project.SubjectID = nil
	if req.SubjectID != "" {
		project.SubjectID = &req.SubjectID
	}
	if err := s.repo.UpdateMain(ctx, project); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update project")
	}

	if req.StudentIDs != nil {
		if err := s.repo.SetMembers(ctx, project.ID, req.StudentIDs); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to set project members")
		}
		project.MemberIDs = req.StudentIDs
	}
	return project, nil
}

// ListMain returns filtered main projects with a membership flag for
// the caller.
func (s *ProjectService) ListMain(ctx context.Context, callerID string, filter models.MainProjectFilter) ([]dto.MainProjectItem, error) {
	projects, err := s.repo.ListMain(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list projects")
	}

	items := make([]dto.MainProjectItem, 0, len(projects))
	for _, p := range projects {
		item := dto.MainProjectItem{MainProject: p}
		if callerID != "" {
			member, err := s.repo.IsMember(ctx, p.ID, callerID)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check membership")
			}
			item.IsMember = member || p.UploadedBy == callerID
		}
		items = append(items, item)
	}
	return items, nil
}

// GetMain returns a main project with its members and attached files.
func (s *ProjectService) GetMain(ctx context.Context, callerID, projectID string) (*dto.MainProjectItem, error) {
	project, err := s.repo.FindMainByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "project not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load project")
	}

	memberIDs, err := s.repo.ListMemberIDs(ctx, projectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load members")
	}
	project.MemberIDs = memberIDs

	item := &dto.MainProjectItem{MainProject: *project}
	if callerID != "" {
		for _, id := range memberIDs {
			if id == callerID {
				item.IsMember = true
				break
			}
		}
		item.IsMember = item.IsMember || project.UploadedBy == callerID
	}

	if len(memberIDs) > 0 && s.users != nil {
		members, err := s.users.ListByIDs(ctx, memberIDs)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load member accounts")
		}
		for _, m := range members {
			item.Members = append(item.Members, models.UserInfo{
				ID:         m.ID,
				Username:   m.Username,
				Email:      m.Email,
				Role:       m.Role,
				IsApproved: m.IsApproved,
			})
		}
	}

	files, err := s.repo.ListFilesByMain(ctx, projectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load files")
	}
	item.Files = s.decorateFiles(files)
	return item, nil
}

// AttachMainFile attaches a document to a main project. The owner and
// registered members may attach; anyone else is rejected.
func (s *ProjectService) AttachMainFile(ctx context.Context, caller *models.User, projectID string, req dto.AttachProjectFileRequest, header *multipart.FileHeader, file io.Reader) (*models.ProjectFile, error) {
	project, err := s.repo.FindMainByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "project not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load project")
	}

	allowed := project.UploadedBy == caller.ID
	if !allowed && caller.Role == models.RoleStudent {
		member, err := s.repo.IsMember(ctx, projectID, caller.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check membership")
		}
		allowed = member
	}
	if !allowed {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you are not a member of this project")
	}

	record := &models.ProjectFile{
		OwnerKind:     models.OwnerMain,
		MainProjectID: &project.ID,
	}
	return s.attachFile(ctx, record, project.Title, req, header, file)
}

// CreateMini creates a mini project owned by the caller. The listed
// students are free-text names, not account references.
func (s *ProjectService) CreateMini(ctx context.Context, creatorID string, req dto.CreateMiniProjectRequest) (*models.MiniProject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid project payload")
	}

	project := &models.MiniProject{
		Title:       req.Title,
		Description: req.Description,
		Student1:    req.Student1,
		UploadedBy:  creatorID,
	}
	if req.SubjectID != "" {
		project.SubjectID = &req.SubjectID
	}
	if req.Student2 != "" {
		project.Student2 = &req.Student2
	}
	if req.Student3 != "" {
		project.Student3 = &req.Student3
	}
	if req.Student4 != "" {
		project.Student4 = &req.Student4
	}
	if err := s.repo.CreateMini(ctx, project); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create mini project")
	}

	s.logger.Info("mini project created", zap.String("project_id", project.ID), zap.String("created_by", creatorID))
	return project, nil
}

// ListMineMini returns the caller's mini projects.
func (s *ProjectService) ListMineMini(ctx context.Context, callerID string) ([]models.MiniProject, error) {
	projects, err := s.repo.ListMiniByUploader(ctx, callerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list mini projects")
	}
	return projects, nil
}

// GetMini returns one of the caller's mini projects with its files.
// Projects owned by other users do not exist for the caller.
func (s *ProjectService) GetMini(ctx context.Context, callerID, projectID string) (*models.MiniProject, []dto.ProjectFileItem, error) {
	project, err := s.findOwnedMini(ctx, callerID, projectID)
	if err != nil {
		return nil, nil, err
	}
	files, err := s.repo.ListFilesByMini(ctx, projectID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load files")
	}
	return project, s.decorateFiles(files), nil
}

// AttachMiniFile attaches a document to a mini project. Only the owner
// may attach; for anyone else the project does not exist.
func (s *ProjectService) AttachMiniFile(ctx context.Context, callerID, projectID string, req dto.AttachProjectFileRequest, header *multipart.FileHeader, file io.Reader) (*models.ProjectFile, error) {
	project, err := s.findOwnedMini(ctx, callerID, projectID)
	if err != nil {
		return nil, err
	}

	record := &models.ProjectFile{
		OwnerKind:     models.OwnerMini,
		MiniProjectID: &project.ID,
	}
	return s.attachFile(ctx, record, "", req, header, file)
}

// DownloadFile resolves a signed token to a project file and an open
// handle. The caller is responsible for closing the file.
func (s *ProjectService) DownloadFile(ctx context.Context, token string) (*models.ProjectFile, io.ReadCloser, error) {
	fileID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token")
	}

	record, err := s.repo.FindFileByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "file not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load file")
	}
	if record.FilePath != relPath {
		return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, "download token does not match file")
	}

	file, err := s.store.Open(record.FilePath)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "stored file missing")
	}
	return record, file, nil
}

// ExportMain renders the main project listing as CSV or PDF.
func (s *ProjectService) ExportMain(ctx context.Context, filter models.MainProjectFilter, format string) ([]byte, string, error) {
	projects, err := s.repo.ListMain(ctx, filter)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list projects")
	}

	data := export.Dataset{
		Headers: []string{"Title", "Branch", "Year", "Created"},
	}
	for _, p := range projects {
		data.Rows = append(data.Rows, map[string]string{
			"Title":   p.Title,
			"Branch":  string(p.Branch),
			"Year":    strconv.Itoa(p.Year),
			"Created": p.DateCreated.Format("2006-01-02"),
		})
	}

	switch format {
	case "csv":
		out, err := s.csv.Render(data)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return out, "text/csv", nil
	case "pdf":
		out, err := s.pdf.Render(data, "Main Projects")
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return out, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}

func (s *ProjectService) findOwnedMini(ctx context.Context, callerID, projectID string) (*models.MiniProject, error) {
	project, err := s.repo.FindMiniByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "project not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load project")
	}
	if project.UploadedBy != callerID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "project not found")
	}
	return project, nil
}

// attachFile stores the upload and persists the attachment record.
// Main project files live under a folder slugged from the project title
// at upload time; files uploaded before a title change stay under the
// old slug.
func (s *ProjectService) attachFile(ctx context.Context, record *models.ProjectFile, projectTitle string, req dto.AttachProjectFileRequest, header *multipart.FileHeader, file io.Reader) (*models.ProjectFile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attachment payload")
	}
	fileType := models.ProjectFileType(req.FileType)
	if !models.ValidProjectFileType(fileType) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown file type")
	}
	if header == nil || header.Filename == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is required")
	}

	folder := storage.Slugify(projectTitle)
	if folder == "" {
		folder = "default"
	}
	relPath := path.Join("project_files", folder, fmt.Sprintf("%s_%s", uuid.NewString(), filepath.Base(header.Filename)))
	if _, err := s.store.SaveStream(relPath, file); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store file")
	}

	record.FileType = fileType
	record.FilePath = relPath
	record.FileName = filepath.Base(header.Filename)
	if err := s.repo.CreateFile(ctx, record); err != nil {
		if delErr := s.store.Delete(relPath); delErr != nil {
			s.logger.Warn("failed to clean up file after insert failure", zap.Error(delErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record file")
	}

	if s.metrics != nil {
		s.metrics.RecordUpload("project_file")
	}
	return record, nil
}

func (s *ProjectService) decorateFiles(files []models.ProjectFile) []dto.ProjectFileItem {
	items := make([]dto.ProjectFileItem, 0, len(files))
	for _, f := range files {
		item := dto.ProjectFileItem{ProjectFile: f}
		if s.signer != nil {
			if token, _, err := s.signer.Generate(f.ID, f.FilePath); err == nil {
				item.DownloadURL = token
			}
		}
		items = append(items, item)
	}
	return items
}
