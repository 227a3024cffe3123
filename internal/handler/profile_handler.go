package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dersly/dersly-api/internal/service"
	appErrors "github.com/dersly/dersly-api/pkg/errors"
	"github.com/dersly/dersly-api/pkg/response"
)

// ProfileHandler exposes the session profile endpoints.
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler constructs handler.
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Get godoc
// @Summary Get the session profile
// @Tags Profile
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /profile [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.profiles.Get(sessionFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// Save godoc
// @Summary Create or replace the session profile
// @Tags Profile
// @Accept json
// @Produce json
// @Param payload body service.SaveProfileRequest true "Profile payload"
// @Success 200 {object} response.Envelope
// @Router /profile [put]
func (h *ProfileHandler) Save(c *gin.Context) {
	var req service.SaveProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	profile, err := h.profiles.Save(sessionFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// Delete godoc
// @Summary Delete the session profile
// @Tags Profile
// @Success 204
// @Router /profile [delete]
func (h *ProfileHandler) Delete(c *gin.Context) {
	if err := h.profiles.Delete(sessionFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
