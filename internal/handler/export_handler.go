package handler

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/schooldesk/timetable-api/internal/models"
	"github.com/schooldesk/timetable-api/internal/service"
	"github.com/schooldesk/timetable-api/pkg/response"
)

type fileExporter interface {
	Courses(ctx context.Context, filter models.CourseFilter, format string) (*service.ExportFile, error)
	TeacherTemplate() (*service.ExportFile, error)
	CourseTemplate() (*service.ExportFile, error)
}

// ExportHandler serves rendered downloads.
type ExportHandler struct {
	exports fileExporter
}

// NewExportHandler constructs a new ExportHandler.
func NewExportHandler(exports fileExporter) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Courses godoc
// @Summary Export courses
// @Description Download the filtered course list as CSV or PDF.
// @Tags Export
// @Produce text/csv
// @Param format query string false "csv or pdf" default(csv)
// @Param year query int false "Academic year"
// @Param trimester query int false "Trimester (1-4)"
// @Success 200 {file} file
// @Router /export/courses [get]
func (h *ExportHandler) Courses(c *gin.Context) {
	filter, err := courseFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	file, err := h.exports.Courses(c.Request.Context(), filter, c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveFile(c, file)
}

// TeacherTemplate godoc
// @Summary Teacher import CSV template
// @Tags Import
// @Produce text/csv
// @Success 200 {file} file
// @Router /import/teachers/template [get]
func (h *ExportHandler) TeacherTemplate(c *gin.Context) {
	file, err := h.exports.TeacherTemplate()
	if err != nil {
		response.Error(c, err)
		return
	}
	serveFile(c, file)
}

// CourseTemplate godoc
// @Summary Course import CSV template
// @Tags Import
// @Produce text/csv
// @Success 200 {file} file
// @Router /import/courses/template [get]
func (h *ExportHandler) CourseTemplate(c *gin.Context) {
	file, err := h.exports.CourseTemplate()
	if err != nil {
		response.Error(c, err)
		return
	}
	serveFile(c, file)
}

func serveFile(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(200, file.ContentType, file.Content)
}
