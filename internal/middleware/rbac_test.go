package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/schooldesk/timetable-api/internal/models"
)

func runRBAC(t *testing.T, claims interface{}, roles ...models.UserRole) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/teachers", nil)
	if claims != nil {
		c.Set(ContextUserKey, claims)
	}

	handler := RequireRoles(roles...)
	handler(c)
	if !c.IsAborted() {
		c.Status(http.StatusOK)
	}
	return rec
}

func TestRequireRolesAllowsMatchingRole(t *testing.T) {
	rec := runRBAC(t, &models.JWTClaims{Role: models.RoleEditor}, models.RoleAdmin, models.RoleEditor)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRolesRejectsReadOnlyWriter(t *testing.T) {
	rec := runRBAC(t, &models.JWTClaims{Role: models.RoleReadOnly}, models.RoleAdmin, models.RoleEditor)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRolesRejectsMissingClaims(t *testing.T) {
	rec := runRBAC(t, nil, models.RoleAdmin)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRolesRejectsWrongClaimType(t *testing.T) {
	rec := runRBAC(t, "not-claims", models.RoleAdmin)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
