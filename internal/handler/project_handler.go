package handler

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-portal-api/internal/dto"
	"github.com/noah-isme/college-portal-api/internal/models"
	"github.com/noah-isme/college-portal-api/internal/service"
	appErrors "github.com/noah-isme/college-portal-api/pkg/errors"
	"github.com/noah-isme/college-portal-api/pkg/response"
)

// ProjectHandler wires HTTP endpoints to the project service.
type ProjectHandler struct {
	service *service.ProjectService
}

// NewProjectHandler creates a new handler.
func NewProjectHandler(svc *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: svc}
}

// CreateMain godoc
// @Summary Create a main project
// @Tags Projects
// @Accept json
// @Produce json
// @Param payload body dto.CreateMainProjectRequest true "Project payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /projects/main [post]
func (h *ProjectHandler) CreateMain(c *gin.Context) {
	user := userFromContext(c)
	if user == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateMainProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid project payload"))
		return
	}

	project, err := h.service.CreateMain(c.Request.Context(), user.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, project)
}

// UpdateMain godoc
// @Summary Update a main project
// @Description Only the owner may edit; others get 404
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param payload body dto.CreateMainProjectRequest true "Project payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /projects/main/{id} [put]
func (h *ProjectHandler) UpdateMain(c *gin.Context) {
	user := userFromContext(c)
	if user == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateMainProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid project payload"))
		return
	}

	project, err := h.service.UpdateMain(c.Request.Context(), user.ID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, project, nil)
}

// ListMain godoc
// @Summary List main projects
// @Tags Projects
// @Produce json
// @Param year query int false "Filter by year"
// @Param branch query string false "Filter by branch"
// @Success 200 {object} response.Envelope
// @Router /projects/main [get]
func (h *ProjectHandler) ListMain(c *gin.Context) {
	filter := models.MainProjectFilter{Branch: models.Branch(c.Query("branch"))}
	if yearStr := c.Query("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "year must be an integer"))
			return
		}
		filter.Year = year
	}

	callerID := ""
	if user := userFromContext(c); user != nil {
		callerID = user.ID
	}

	projects, err := h.service.ListMain(c.Request.Context(), callerID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, projects, nil)
}

// GetMain godoc
// @Summary Get a main project with members and files
// @Tags Projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /projects/main/{id} [get]
func (h *ProjectHandler) GetMain(c *gin.Context) {
	callerID := ""
	if user := userFromContext(c); user != nil {
		callerID = user.ID
	}

	project, err := h.service.GetMain(c.Request.Context(), callerID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, project, nil)
}

// AttachMainFile godoc
// @Summary Attach a file to a main project
// @Description Owner and registered members may attach; others get 403
// @Tags Projects
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Project ID"
// @Param file_type formData string true "File type (SRS, CODE, DOC, PPT, OTHER)"
// @Param file formData file true "Document"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /projects/main/{id}/files [post]
func (h *ProjectHandler) AttachMainFile(c *gin.Context) {
	user := userFromContext(c)
	if user == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	req, header, file, ok := h.bindAttachment(c)
	if !ok {
		return
	}
	defer file.Close() //nolint:errcheck

	record, err := h.service.AttachMainFile(c.Request.Context(), user, c.Param("id"), req, header, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// CreateMini godoc
// @Summary Create a mini project
// @Tags Projects
// @Accept json
// @Produce json
// @Param payload body dto.CreateMiniProjectRequest true "Project payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /projects/mini [post]
func (h *ProjectHandler) CreateMini(c *gin.Context) {
	user := userFromContext(c)
	if user == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateMiniProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid project payload"))
		return
	}

	project, err := h.service.CreateMini(c.Request.Context(), user.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, project)
}

// ListMini godoc
// @Summary List the caller's mini projects
// @Tags Projects
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /projects/mini [get]
func (h *ProjectHandler) ListMini(c *gin.Context) {
	user := userFromContext(c)
	if user == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	projects, err := h.service.ListMineMini(c.Request.Context(), user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, projects, nil)
}

// GetMini godoc
// @Summary Get one of the caller's mini projects
// @Description Projects owned by other users do not exist for the caller
// @Tags Projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /projects/mini/{id} [get]
func (h *ProjectHandler) GetMini(c *gin.Context) {
	user := userFromContext(c)
	if user == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	project, files, err := h.service.GetMini(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"project": project, "files": files}, nil)
}

// AttachMiniFile godoc
// @Summary Attach a file to a mini project
// @Description Only the owner may attach; others get 404
// @Tags Projects
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Project ID"
// @Param file_type formData string true "File type (SRS, CODE, DOC, PPT, OTHER)"
// @Param file formData file true "Document"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /projects/mini/{id}/files [post]
func (h *ProjectHandler) AttachMiniFile(c *gin.Context) {
	user := userFromContext(c)
	if user == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	req, header, file, ok := h.bindAttachment(c)
	if !ok {
		return
	}
	defer file.Close() //nolint:errcheck

	record, err := h.service.AttachMiniFile(c.Request.Context(), user.ID, c.Param("id"), req, header, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// DownloadFile godoc
// @Summary Download a project file via signed token
// @Tags Projects
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /projects/files/download [get]
func (h *ProjectHandler) DownloadFile(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}

	record, file, err := h.service.DownloadFile(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	c.Header("Content-Disposition", `attachment; filename="`+record.FileName+`"`)
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, file)
}

// ExportMain godoc
// @Summary Export the main project listing
// @Tags Projects
// @Produce octet-stream
// @Param format query string true "csv or pdf"
// @Param year query int false "Filter by year"
// @Param branch query string false "Filter by branch"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /projects/main/export [get]
func (h *ProjectHandler) ExportMain(c *gin.Context) {
	filter := models.MainProjectFilter{Branch: models.Branch(c.Query("branch"))}
	if yearStr := c.Query("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "year must be an integer"))
			return
		}
		filter.Year = year
	}

	format := c.DefaultQuery("format", "csv")
	out, contentType, err := h.service.ExportMain(c.Request.Context(), filter, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="main_projects.`+format+`"`)
	c.Data(http.StatusOK, contentType, out)
}

func (h *ProjectHandler) bindAttachment(c *gin.Context) (dto.AttachProjectFileRequest, *multipart.FileHeader, multipart.File, bool) {
	var req dto.AttachProjectFileRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid attachment payload"))
		return req, nil, nil, false
	}

	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return req, nil, nil, false
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable upload"))
		return req, nil, nil, false
	}
	return req, header, file, true
}
