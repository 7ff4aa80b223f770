package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schooldesk/timetable-api/internal/models"
)

type fakeImportSrv struct {
	result   *models.ImportResult
	teachers string
	courses  string
}

func (f *fakeImportSrv) ImportTeachers(_ context.Context, r io.Reader) (*models.ImportResult, error) {
	raw, _ := io.ReadAll(r)
	f.teachers = string(raw)
	return f.result, nil
}

func (f *fakeImportSrv) ImportCourses(_ context.Context, r io.Reader) (*models.ImportResult, error) {
	raw, _ := io.ReadAll(r)
	f.courses = string(raw)
	return f.result, nil
}

func multipartUpload(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestImportHandlerTeachers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeImportSrv{result: &models.ImportResult{Created: 2}}
	handler := NewImportHandler(srv, 1<<20)

	body, contentType := multipartUpload(t, "file", "teachers.csv", "name\nDr. Smith\nDr. Jones\n")
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/import/teachers", body)
	c.Request.Header.Set("Content-Type", contentType)

	handler.Teachers(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, srv.teachers, "Dr. Smith")
}

func TestImportHandlerMissingFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewImportHandler(&fakeImportSrv{}, 1<<20)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/import/courses", nil)

	handler.Courses(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportHandlerFileTooLarge(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewImportHandler(&fakeImportSrv{}, 8)

	body, contentType := multipartUpload(t, "file", "teachers.csv", "name\na very long row beyond the byte cap\n")
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/import/teachers", body)
	c.Request.Header.Set("Content-Type", contentType)

	handler.Teachers(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
