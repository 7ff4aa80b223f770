package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/schooldesk/timetable-api/internal/middleware"
	"github.com/schooldesk/timetable-api/internal/models"
	appErrors "github.com/schooldesk/timetable-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// idParam parses the :id path parameter as an int64.
func idParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid id")
	}
	return id, nil
}
