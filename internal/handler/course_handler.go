package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dersly/dersly-api/internal/service"
	appErrors "github.com/dersly/dersly-api/pkg/errors"
	"github.com/dersly/dersly-api/pkg/response"
)

// CourseHandler exposes course schedule endpoints.
type CourseHandler struct {
	courses *service.CourseService
}

// NewCourseHandler constructs handler.
func NewCourseHandler(courses *service.CourseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Param sort query string false "Ordering: id (default) or schedule"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	if c.Query("sort") == "schedule" {
		response.JSON(c, http.StatusOK, h.courses.ListBySchedule(sessionFromContext(c)), nil)
		return
	}
	response.JSON(c, http.StatusOK, h.courses.List(sessionFromContext(c)), nil)
}

// Get godoc
// @Summary Get one course
// @Tags Courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	course, err := h.courses.Get(sessionFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Create godoc
// @Summary Add a course to the weekly schedule
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body service.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req service.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	course, err := h.courses.Create(sessionFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// Update godoc
// @Summary Replace a course
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param payload body service.UpdateCourseRequest true "Course payload"
// @Success 200 {object} response.Envelope
// @Router /courses/{id} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	course, err := h.courses.Update(sessionFromContext(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Delete godoc
// @Summary Delete a course
// @Tags Courses
// @Param id path int true "Course ID"
// @Success 204
// @Router /courses/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.courses.Delete(sessionFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CheckConflict godoc
// @Summary Check a candidate slot for schedule conflicts
// @Tags Courses
// @Produce json
// @Param day query string true "Weekday name"
// @Param start query string true "Start time HH:MM"
// @Param end query string true "End time HH:MM"
// @Param excludeId query int false "Course ID to skip"
// @Success 200 {object} response.Envelope
// @Router /courses/conflict [get]
func (h *CourseHandler) CheckConflict(c *gin.Context) {
	excludeID := 0
	if raw := c.Query("excludeId"); raw != "" {
		var err error
		if excludeID, err = idQuery(raw); err != nil {
			response.Error(c, err)
			return
		}
	}
	conflict, err := h.courses.CheckConflict(sessionFromContext(c), c.Query("day"), c.Query("start"), c.Query("end"), excludeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"conflict": conflict != nil, "course": conflict}, nil)
}
