package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/schooldesk/timetable-api/internal/models"
	appErrors "github.com/schooldesk/timetable-api/pkg/errors"
	"github.com/schooldesk/timetable-api/pkg/response"
)

type conflictDetector interface {
	Detect(ctx context.Context, scope models.Scope) ([]models.Conflict, error)
}

// ConflictHandler exposes the on-demand conflict report.
type ConflictHandler struct {
	conflicts conflictDetector
}

// NewConflictHandler constructs a new ConflictHandler.
func NewConflictHandler(conflicts conflictDetector) *ConflictHandler {
	return &ConflictHandler{conflicts: conflicts}
}

// List godoc
// @Summary Detect scheduling conflicts
// @Description Report every teacher and room double-booking within one
// @Description (year, trimester) scope. Both query parameters are required.
// @Tags Conflicts
// @Produce json
// @Param year query int true "Academic year"
// @Param trimester query int true "Trimester (1-4)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /conflicts [get]
func (h *ConflictHandler) List(c *gin.Context) {
	yearRaw := c.Query("year")
	trimesterRaw := c.Query("trimester")
	if yearRaw == "" || trimesterRaw == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "year and trimester are required"))
		return
	}

	year, err := strconv.Atoi(yearRaw)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "year must be an integer"))
		return
	}
	trimester, err := strconv.Atoi(trimesterRaw)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "trimester must be an integer"))
		return
	}

	conflicts, err := h.conflicts.Detect(c.Request.Context(), models.Scope{Year: year, Trimester: trimester})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, conflicts, nil, map[string]interface{}{
		"year":      year,
		"trimester": trimester,
		"count":     len(conflicts),
	})
}
