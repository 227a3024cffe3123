package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dersly/dersly-api/internal/models"
	"github.com/dersly/dersly-api/internal/service"
	appErrors "github.com/dersly/dersly-api/pkg/errors"
	"github.com/dersly/dersly-api/pkg/response"
)

// TaskHandler exposes task and deadline endpoints.
type TaskHandler struct {
	tasks *service.TaskService
}

// NewTaskHandler constructs handler.
func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// List godoc
// @Summary List tasks
// @Tags Tasks
// @Produce json
// @Param status query string false "pending or completed"
// @Param type query string false "assignment, exam, project or quiz"
// @Param courseId query int false "Filter by linked course"
// @Success 200 {object} response.Envelope
// @Router /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	filter := models.TaskFilter{
		Status:   models.TaskStatus(c.Query("status")),
		Category: models.TaskCategory(c.Query("type")),
	}
	if raw := c.Query("courseId"); raw != "" {
		courseID, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.New(appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid courseId query value"))
			return
		}
		filter.CourseID = courseID
	}
	response.JSON(c, http.StatusOK, h.tasks.List(sessionFromContext(c), filter), nil)
}

// Upcoming godoc
// @Summary List pending tasks due within a window
// @Tags Tasks
// @Produce json
// @Param days query int false "Days ahead, default 7"
// @Success 200 {object} response.Envelope
// @Router /tasks/upcoming [get]
func (h *TaskHandler) Upcoming(c *gin.Context) {
	days := 0
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.New(appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid days query value"))
			return
		}
		days = parsed
	}
	response.JSON(c, http.StatusOK, h.tasks.Upcoming(sessionFromContext(c), days), nil)
}

// Get godoc
// @Summary Get one task
// @Tags Tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} response.Envelope
// @Router /tasks/{id} [get]
func (h *TaskHandler) Get(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	task, err := h.tasks.Get(sessionFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, task, nil)
}

// Create godoc
// @Summary Add a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param payload body service.CreateTaskRequest true "Task payload"
// @Success 201 {object} response.Envelope
// @Router /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req service.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	task, warning, err := h.tasks.Create(sessionFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if warning != "" {
		response.JSON(c, http.StatusCreated, task, map[string]interface{}{"warning": warning})
		return
	}
	response.Created(c, task)
}

// Update godoc
// @Summary Replace a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path int true "Task ID"
// @Param payload body service.UpdateTaskRequest true "Task payload"
// @Success 200 {object} response.Envelope
// @Router /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	task, warning, err := h.tasks.Update(sessionFromContext(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if warning != "" {
		response.JSON(c, http.StatusOK, task, map[string]interface{}{"warning": warning})
		return
	}
	response.JSON(c, http.StatusOK, task, nil)
}

// Toggle godoc
// @Summary Flip a task between pending and completed
// @Tags Tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} response.Envelope
// @Router /tasks/{id}/toggle [post]
func (h *TaskHandler) Toggle(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	task, err := h.tasks.ToggleStatus(sessionFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, task, nil)
}

// Delete godoc
// @Summary Delete a task
// @Tags Tasks
// @Param id path int true "Task ID"
// @Success 204
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.tasks.Delete(sessionFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
