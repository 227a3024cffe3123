package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dersly/dersly-api/internal/service"
	appErrors "github.com/dersly/dersly-api/pkg/errors"
	"github.com/dersly/dersly-api/pkg/response"
)

// maxImportBytes bounds backup uploads; sessions hold at most a few
// hundred small records.
const maxImportBytes = 4 << 20

// BackupHandler exposes whole-session export, import and maintenance.
type BackupHandler struct {
	backups *service.BackupService
}

// NewBackupHandler constructs handler.
func NewBackupHandler(backups *service.BackupService) *BackupHandler {
	return &BackupHandler{backups: backups}
}

// Export godoc
// @Summary Download the full session as a JSON backup
// @Tags Backup
// @Produce json
// @Success 200 {file} binary
// @Router /backup/export [get]
func (h *BackupHandler) Export(c *gin.Context) {
	payload, err := h.backups.Export(sessionFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=dersly-backup.json")
	c.Data(http.StatusOK, "application/json", payload)
}

// Import godoc
// @Summary Restore the session from a JSON backup
// @Tags Backup
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /backup/import [post]
func (h *BackupHandler) Import(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read request body"))
		return
	}
	sessionID := sessionFromContext(c)
	if err := h.backups.Import(sessionID, payload); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, h.backups.Info(sessionID), nil)
}

// Info godoc
// @Summary Session storage summary
// @Tags Backup
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /backup/info [get]
func (h *BackupHandler) Info(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.backups.Info(sessionFromContext(c)), nil)
}

// Clear godoc
// @Summary Wipe the session back to its initial state
// @Tags Backup
// @Success 204
// @Router /backup/clear [post]
func (h *BackupHandler) Clear(c *gin.Context) {
	h.backups.Clear(sessionFromContext(c))
	response.NoContent(c)
}
