package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dersly/dersly-api/internal/service"
	appErrors "github.com/dersly/dersly-api/pkg/errors"
	"github.com/dersly/dersly-api/pkg/response"
)

// ReminderHandler exposes urgency and reminder endpoints.
type ReminderHandler struct {
	reminders *service.ReminderService
}

// NewReminderHandler constructs handler.
func NewReminderHandler(reminders *service.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminders: reminders}
}

// List godoc
// @Summary Deadline reminders for pending tasks
// @Tags Reminders
// @Produce json
// @Param days query int false "Days ahead, default 7"
// @Success 200 {object} response.Envelope
// @Router /reminders [get]
func (h *ReminderHandler) List(c *gin.Context) {
	days := 0
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.New(appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid days query value"))
			return
		}
		days = parsed
	}
	response.JSON(c, http.StatusOK, h.reminders.List(sessionFromContext(c), days), nil)
}

// Urgent godoc
// @Summary Reminders due today or overdue
// @Tags Reminders
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reminders/urgent [get]
func (h *ReminderHandler) Urgent(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.reminders.Urgent(sessionFromContext(c)), nil)
}

// ByPeriod godoc
// @Summary Reminders filtered by a named window
// @Tags Reminders
// @Produce json
// @Param period path string true "today, tomorrow, this_week or all"
// @Success 200 {object} response.Envelope
// @Router /reminders/period/{period} [get]
func (h *ReminderHandler) ByPeriod(c *gin.Context) {
	reminders, err := h.reminders.ByPeriod(sessionFromContext(c), c.Param("period"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reminders, nil)
}

// Counts godoc
// @Summary Reminder counts grouped by urgency band
// @Tags Reminders
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reminders/counts [get]
func (h *ReminderHandler) Counts(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.reminders.Counts(sessionFromContext(c)), nil)
}

// ForTask godoc
// @Summary Urgency classification for one task
// @Tags Reminders
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} response.Envelope
// @Router /reminders/task/{id} [get]
func (h *ReminderHandler) ForTask(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	reminder, err := h.reminders.ForTask(sessionFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reminder, nil)
}

// Create godoc
// @Summary Store a standalone reminder
// @Tags Reminders
// @Accept json
// @Produce json
// @Param payload body service.CreateReminderRequest true "Reminder payload"
// @Success 201 {object} response.Envelope
// @Router /reminders [post]
func (h *ReminderHandler) Create(c *gin.Context) {
	var req service.CreateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	reminder, err := h.reminders.Create(sessionFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, reminder)
}

// Stored godoc
// @Summary List standalone reminders
// @Tags Reminders
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reminders/stored [get]
func (h *ReminderHandler) Stored(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.reminders.Stored(sessionFromContext(c)), nil)
}

// Delete godoc
// @Summary Delete a standalone reminder
// @Tags Reminders
// @Param id path int true "Reminder ID"
// @Success 204
// @Router /reminders/{id} [delete]
func (h *ReminderHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.reminders.Delete(sessionFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
