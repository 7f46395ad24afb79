package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-portal-api/internal/dto"
	"github.com/noah-isme/college-portal-api/internal/service"
	appErrors "github.com/noah-isme/college-portal-api/pkg/errors"
	"github.com/noah-isme/college-portal-api/pkg/response"
)

// QuestionBankHandler wires HTTP endpoints to the question bank service.
type QuestionBankHandler struct {
	service *service.QuestionBankService
}

// NewQuestionBankHandler creates a new handler.
func NewQuestionBankHandler(svc *service.QuestionBankService) *QuestionBankHandler {
	return &QuestionBankHandler{service: svc}
}

// Upload godoc
// @Summary Upload a question paper
// @Description File is capped at 10 MiB and the subject must belong to the selected semester
// @Tags QuestionBank
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Paper name"
// @Param description formData string false "Description"
// @Param semester_id formData string true "Semester ID"
// @Param subject_id formData string true "Subject ID"
// @Param exam_year formData int true "Exam year"
// @Param file formData file true "Paper file"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /question-banks [post]
func (h *QuestionBankHandler) Upload(c *gin.Context) {
	user := userFromContext(c)
	if user == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateQuestionBankRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid question paper payload"))
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable upload"))
		return
	}
	defer file.Close() //nolint:errcheck

	qb, err := h.service.Upload(c.Request.Context(), user.ID, req, header, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, qb)
}

// List godoc
// @Summary List question papers
// @Tags QuestionBank
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /question-banks [get]
func (h *QuestionBankHandler) List(c *gin.Context) {
	papers, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, papers, nil)
}

// Download godoc
// @Summary Download a question paper via signed token
// @Tags QuestionBank
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /question-banks/download [get]
func (h *QuestionBankHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}

	qb, file, err := h.service.Download(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	c.Header("Content-Disposition", `attachment; filename="`+qb.FileName+`"`)
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, file)
}
