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

type statsProvider interface {
	Get(ctx context.Context, scope *models.Scope) (*models.Stats, bool, error)
}

// StatsHandler exposes entity totals.
type StatsHandler struct {
	stats statsProvider
}

// NewStatsHandler constructs a new StatsHandler.
func NewStatsHandler(stats statsProvider) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Get godoc
// @Summary Entity totals
// @Description Count courses, teachers, rooms and users. When year and
// @Description trimester are both given the course count is scoped to them.
// @Tags Stats
// @Produce json
// @Param year query int false "Academic year"
// @Param trimester query int false "Trimester (1-4)"
// @Success 200 {object} response.Envelope
// @Router /stats [get]
func (h *StatsHandler) Get(c *gin.Context) {
	var scope *models.Scope
	yearRaw, trimesterRaw := c.Query("year"), c.Query("trimester")
	if yearRaw != "" || trimesterRaw != "" {
		if yearRaw == "" || trimesterRaw == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "year and trimester must be provided together"))
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
		scope = &models.Scope{Year: year, Trimester: trimester}
	}

	stats, cached, err := h.stats.Get(c.Request.Context(), scope)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil, map[string]interface{}{"cached": cached})
}
