package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dersly/dersly-api/internal/service"
	"github.com/dersly/dersly-api/internal/store"
)

func TestBackupHandlerImportRejectsBadDocument(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewBackupHandler(service.NewBackupService(store.New(0, nil), 0, nil))

	w := httptest.NewRecorder()
	c, err := testContext(w, http.MethodPost, "/backup/import", []byte(`{"exported_at":"2026-03-02T09:00:00Z"}`))
	require.NoError(t, err)

	handler.Import(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "IMPORT_FORMAT")
}

func TestBackupHandlerExportSetsDownloadHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewBackupHandler(service.NewBackupService(store.New(0, nil), 0, nil))

	w := httptest.NewRecorder()
	c, err := testContext(w, http.MethodGet, "/backup/export", nil)
	require.NoError(t, err)

	handler.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Header().Get("Content-Disposition"), "dersly-backup.json"))
	assert.Contains(t, w.Body.String(), `"version"`)
}
