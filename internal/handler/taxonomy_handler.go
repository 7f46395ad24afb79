package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-portal-api/internal/dto"
	"github.com/noah-isme/college-portal-api/internal/service"
	appErrors "github.com/noah-isme/college-portal-api/pkg/errors"
	"github.com/noah-isme/college-portal-api/pkg/response"
)

// TaxonomyHandler manages semesters, subjects and the dependent
// subject dropdown.
type TaxonomyHandler struct {
	service *service.TaxonomyService
}

// NewTaxonomyHandler creates a new handler.
func NewTaxonomyHandler(svc *service.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{service: svc}
}

// CreateSemester godoc
// @Summary Create a semester
// @Tags Taxonomy
// @Accept json
// @Produce json
// @Param payload body dto.CreateSemesterRequest true "Semester payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /semesters [post]
func (h *TaxonomyHandler) CreateSemester(c *gin.Context) {
	var req dto.CreateSemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid semester payload"))
		return
	}

	semester, err := h.service.CreateSemester(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, semester)
}

// ListSemesters godoc
// @Summary List semesters
// @Tags Taxonomy
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /semesters [get]
func (h *TaxonomyHandler) ListSemesters(c *gin.Context) {
	semesters, err := h.service.ListSemesters(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, semesters, nil)
}

// CreateSubject godoc
// @Summary Create a subject under a semester
// @Tags Taxonomy
// @Accept json
// @Produce json
// @Param payload body dto.CreateSubjectRequest true "Subject payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /subjects [post]
func (h *TaxonomyHandler) CreateSubject(c *gin.Context) {
	var req dto.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid subject payload"))
		return
	}

	subject, err := h.service.CreateSubject(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, subject)
}

// ListSubjects godoc
// @Summary List all subjects
// @Tags Taxonomy
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /subjects [get]
func (h *TaxonomyHandler) ListSubjects(c *gin.Context) {
	subjects, err := h.service.ListSubjects(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects, nil)
}

// SubjectsBySemester godoc
// @Summary Subjects for a semester dropdown
// @Description Returns {"subjects": [...]}; unknown or missing semester ids yield an empty list
// @Tags Taxonomy
// @Produce json
// @Param semester_id query string false "Semester ID"
// @Success 200 {object} dto.SubjectListResponse
// @Router /subjects/options [get]
func (h *TaxonomyHandler) SubjectsBySemester(c *gin.Context) {
	res, err := h.service.SubjectsBySemester(c.Request.Context(), c.Query("semester_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	// Raw shape, not the envelope: the dropdown script consumes
	// data.subjects directly.
	c.JSON(http.StatusOK, res)
}
