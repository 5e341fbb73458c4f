package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/flashnodes/flashnodes/core"
	"github.com/flashnodes/flashnodes/service"
)

// AnalyticsHandlers contains HTTP handlers for the metrics endpoints
type AnalyticsHandlers struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandlers creates new analytics handlers
func NewAnalyticsHandlers(analytics *service.AnalyticsService) *AnalyticsHandlers {
	return &AnalyticsHandlers{analytics: analytics}
}

// Total returns the request series summed over all the caller's nodes
func (h *AnalyticsHandlers) Total(c *gin.Context) {
	timerange, steps, err := analyticsParams(c)
	if err != nil {
		writeError(c, err)
		return
	}

	series, err := h.analytics.TotalSeries(c.Request.Context(), identityFrom(c), timerange, steps)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, series)
}

// Project returns the request series for one of the caller's nodes
func (h *AnalyticsHandlers) Project(c *gin.Context) {
	nodeID, err := uuid.Parse(c.Param("node_id"))
	if err != nil {
		writeError(c, core.ErrProjectNotFound)
		return
	}

	timerange, steps, err := analyticsParams(c)
	if err != nil {
		writeError(c, err)
		return
	}

	series, err := h.analytics.ProjectSeries(c.Request.Context(), identityFrom(c), nodeID, timerange, steps)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, series)
}

// analyticsParams reads the chart window parameters. The timerange is
// mandatory; steps defaults to 6 points.
func analyticsParams(c *gin.Context) (core.Timerange, int, error) {
	timerange, err := core.ParseTimerange(c.Query("timerange"))
	if err != nil {
		return "", 0, err
	}
	steps, err := strconv.Atoi(c.DefaultQuery("steps", "6"))
	if err != nil {
		return "", 0, core.ErrStepOutOfRange
	}
	return timerange, steps, nil
}
