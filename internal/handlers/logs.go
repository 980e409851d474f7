package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"smoking_chamber/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errLoadLogs   = "failed to load logs"
	errRunUnknown = "no events for this run"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// logsQuery is the query string of GET /api/v1/logs.
type logsQuery struct {
	From    string `form:"from"`
	To      string `form:"to"`
	Type    string `form:"type"`
	RunID   string `form:"run_id"`
	Program string `form:"program"`
}

// filter parses the time bounds. A date-only "to" covers that whole day.
func (q logsQuery) filter() (service.LogFilter, error) {
	f := service.LogFilter{Type: q.Type, RunID: q.RunID, Program: q.Program}
	if q.From != "" {
		from, err := parseQueryTime(q.From)
		if err != nil {
			return f, fmt.Errorf("from: %w", err)
		}
		f.From = from
	}
	if q.To != "" {
		to, err := parseQueryTime(q.To)
		if err != nil {
			return f, fmt.Errorf("to: %w", err)
		}
		if !strings.ContainsAny(q.To, "T ") {
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
		f.To = to
	}
	return f, nil
}

// @Summary      List logs
// @Description  Chamber events, oldest first. Times are RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'; a date-only 'to' covers the whole day.
// @Tags         logs
// @Produce      json
// @Param        from     query   string  false  "Start of range"  example(2025-08-01)
// @Param        to       query   string  false  "End of range"    example(2025-08-31)
// @Param        type     query   string  false  "Event type"  Enums(START,EMERGENCY_STOP,STEP_ADVANCE,PROGRAM_FINISHED,ERROR,INTERRUPTED)
// @Param        run_id   query   string  false  "Run id"
// @Param        program  query   string  false  "Program name"
// @Success      200   {object}  map[string]interface{}  "count, events"
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/logs [get]
func (h *Handler) getLogs(c *gin.Context) {
	var q logsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f, err := q.filter()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.writeEvents(c, f, false)
}

// @Summary      Run history
// @Description  Every event of one run, from START to its end.
// @Tags         logs
// @Produce      json
// @Param        run_id  path      string  true  "Run id"
// @Success      200     {object}  map[string]interface{}  "count, events"
// @Failure      404     {object}  map[string]string
// @Failure      500     {object}  map[string]string
// @Router       /api/v1/runs/{run_id}/events [get]
func (h *Handler) getRunEvents(c *gin.Context) {
	h.writeEvents(c, service.LogFilter{RunID: c.Param("run_id")}, true)
}

func (h *Handler) writeEvents(c *gin.Context, f service.LogFilter, mustExist bool) {
	events, err := h.services.EventLog.List(c.Request.Context(), f)
	switch {
	case errors.Is(err, service.ErrInvalidLogFilter):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadLogs, "logs_list_failed", err,
			"type", f.Type, "run_id", f.RunID, "program", f.Program)
		return
	case mustExist && len(events) == 0:
		c.JSON(http.StatusNotFound, gin.H{"error": errRunUnknown})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}

// parseQueryTime accepts RFC3339, date-time or date-only values, in UTC.
func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q; use RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'", s)
}
