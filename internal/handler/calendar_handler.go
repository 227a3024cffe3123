package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dersly/dersly-api/internal/service"
	appErrors "github.com/dersly/dersly-api/pkg/errors"
	"github.com/dersly/dersly-api/pkg/response"
)

const calendarContentType = "text/calendar; charset=utf-8"

// CalendarHandler serves downloadable calendar documents.
type CalendarHandler struct {
	calendar *service.CalendarService
}

// NewCalendarHandler constructs handler.
func NewCalendarHandler(calendar *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendar: calendar}
}

// Task godoc
// @Summary Download one task as a calendar event
// @Tags Calendar
// @Produce plain
// @Param id path int true "Task ID"
// @Success 200 {file} binary
// @Router /calendar/tasks/{id} [get]
func (h *CalendarHandler) Task(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	payload, filename, err := h.calendar.TaskEvent(sessionFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	serveCalendar(c, payload, filename)
}

// Tasks godoc
// @Summary Download all pending tasks as one calendar document
// @Tags Calendar
// @Produce plain
// @Success 200 {file} binary
// @Router /calendar/tasks [get]
func (h *CalendarHandler) Tasks(c *gin.Context) {
	payload, filename, err := h.calendar.BulkTasks(sessionFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveCalendar(c, payload, filename)
}

// Course godoc
// @Summary Download a course as a weekly recurring event
// @Tags Calendar
// @Produce plain
// @Param id path int true "Course ID"
// @Param weeks query int false "Recurrence horizon in weeks"
// @Success 200 {file} binary
// @Router /calendar/courses/{id} [get]
func (h *CalendarHandler) Course(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	weeks, err := weeksQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	payload, filename, err := h.calendar.CourseEvent(sessionFromContext(c), id, weeks)
	if err != nil {
		response.Error(c, err)
		return
	}
	serveCalendar(c, payload, filename)
}

// Schedule godoc
// @Summary Download the full weekly schedule as one calendar document
// @Tags Calendar
// @Produce plain
// @Param weeks query int false "Recurrence horizon in weeks"
// @Success 200 {file} binary
// @Router /calendar/schedule [get]
func (h *CalendarHandler) Schedule(c *gin.Context) {
	weeks, err := weeksQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	payload, filename, err := h.calendar.Schedule(sessionFromContext(c), weeks)
	if err != nil {
		response.Error(c, err)
		return
	}
	serveCalendar(c, payload, filename)
}

func weeksQuery(c *gin.Context) (int, error) {
	raw := c.Query("weeks")
	if raw == "" {
		return 0, nil
	}
	weeks, err := strconv.Atoi(raw)
	if err != nil || weeks <= 0 || weeks > 52 {
		return 0, appErrors.New(appErrors.ErrValidation.Code, http.StatusBadRequest, "weeks must be between 1 and 52")
	}
	return weeks, nil
}

func serveCalendar(c *gin.Context, payload []byte, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, calendarContentType, payload)
}
