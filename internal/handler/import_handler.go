package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schooldesk/timetable-api/internal/models"
	appErrors "github.com/schooldesk/timetable-api/pkg/errors"
	"github.com/schooldesk/timetable-api/pkg/response"
)

type bulkImporter interface {
	ImportTeachers(ctx context.Context, r io.Reader) (*models.ImportResult, error)
	ImportCourses(ctx context.Context, r io.Reader) (*models.ImportResult, error)
}

// ImportHandler accepts CSV uploads for bulk imports.
type ImportHandler struct {
	imports        bulkImporter
	maxUploadBytes int64
}

// NewImportHandler constructs a new ImportHandler.
func NewImportHandler(imports bulkImporter, maxUploadBytes int64) *ImportHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 5 << 20
	}
	return &ImportHandler{imports: imports, maxUploadBytes: maxUploadBytes}
}

// Teachers godoc
// @Summary Import teachers from CSV
// @Tags Import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /import/teachers [post]
func (h *ImportHandler) Teachers(c *gin.Context) {
	file, ok := h.openUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	result, err := h.imports.ImportTeachers(c.Request.Context(), file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Courses godoc
// @Summary Import courses from CSV
// @Description Teacher and room references are resolved by exact name and
// @Description every row passes the scheduling gate.
// @Tags Import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /import/courses [post]
func (h *ImportHandler) Courses(c *gin.Context) {
	file, ok := h.openUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	result, err := h.imports.ImportCourses(c.Request.Context(), file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

func (h *ImportHandler) openUpload(c *gin.Context) (io.ReadCloser, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file upload required"))
		return nil, false
	}
	if header.Size > h.maxUploadBytes {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file too large"))
		return nil, false
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open upload"))
		return nil, false
	}
	return file, true
}
