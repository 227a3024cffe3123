package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dersly/dersly-api/internal/models"
	"github.com/dersly/dersly-api/internal/store"
	appErrors "github.com/dersly/dersly-api/pkg/errors"
)

func newBackupFixture(warnItems int) (*BackupService, *store.Store) {
	st := store.New(0, nil)
	return NewBackupService(st, warnItems, nil), st
}

func seedSession(st *store.Store, sessionID string) {
	sess := st.Session(sessionID)
	sess.SetProfile(&models.Profile{Name: "Ada Lovelace"})
	sess.AddCourse(models.Course{Name: "Calculus I", Code: "MATH-101", Day: models.Monday, StartTime: "09:00", EndTime: "10:30", Credits: 4})
	sess.AddTask(models.Task{Title: "Problem set 3", DueDate: "2026-03-10", Status: models.StatusPending, Priority: models.PriorityMedium})
	sess.AddGrade(models.GradeEntry{CourseName: "Physics I", Grade: 3.5, Credits: 3, Semester: "Fall", Year: 2025})
}

func TestExportImportRoundTrip(t *testing.T) {
	svc, st := newBackupFixture(0)
	seedSession(st, "src")

	payload, err := svc.Export("src")
	require.NoError(t, err)

	var doc models.BackupDocument
	require.NoError(t, json.Unmarshal(payload, &doc))
	assert.Equal(t, models.BackupVersion, doc.Version)
	assert.NotEmpty(t, doc.ExportedAt)
	assert.Equal(t, 2, doc.NextCourseID)

	require.NoError(t, svc.Import("dst", payload))

	info := svc.Info("dst")
	assert.True(t, info.HasProfile)
	assert.Equal(t, 1, info.NumCourses)
	assert.Equal(t, 1, info.NumTasks)
	assert.Equal(t, 1, info.NumGrades)
	assert.Equal(t, 3, info.TotalItems)
}

func TestImportMissingVersionLeavesStateUntouched(t *testing.T) {
	svc, st := newBackupFixture(0)
	seedSession(st, "s1")

	err := svc.Import("s1", []byte(`{"exported_at":"2026-03-02T09:00:00Z","courses":[]}`))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrImportFormat.Code, appErrors.FromError(err).Code)

	info := svc.Info("s1")
	assert.Equal(t, 1, info.NumCourses, "rejected import must not mutate the session")
	assert.True(t, info.HasProfile)
}

func TestImportRejectsNonArrayCollection(t *testing.T) {
	svc, _ := newBackupFixture(0)

	err := svc.Import("s1", []byte(`{"version":"1.0.0","exported_at":"2026-03-02T09:00:00Z","tasks":{"oops":true}}`))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrImportFormat.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "tasks")
}

func TestImportRejectsNonObjectPayload(t *testing.T) {
	svc, _ := newBackupFixture(0)

	err := svc.Import("s1", []byte(`[1,2,3]`))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrImportFormat.Code, appErrors.FromError(err).Code)
}

func TestImportAcceptsVersionSkew(t *testing.T) {
	svc, _ := newBackupFixture(0)

	payload := []byte(`{"version":"0.9.0","exported_at":"2026-03-02T09:00:00Z","courses":[{"id":1,"course_name":"Calculus I","course_code":"MATH-101"}]}`)
	require.NoError(t, svc.Import("s1", payload))
	assert.Equal(t, 1, svc.Info("s1").NumCourses)
}

func TestInfoCapacityWarning(t *testing.T) {
	svc, st := newBackupFixture(2)
	seedSession(st, "s1")

	info := svc.Info("s1")
	assert.Equal(t, 3, info.TotalItems)
	assert.NotEmpty(t, info.Warning)

	below, _ := newBackupFixture(10)
	assert.Empty(t, below.Info("s1").Warning)
}

func TestClearEmptiesSession(t *testing.T) {
	svc, st := newBackupFixture(0)
	seedSession(st, "s1")

	svc.Clear("s1")

	info := svc.Info("s1")
	assert.Zero(t, info.TotalItems)
	assert.False(t, info.HasProfile)
}
