package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dersly/dersly-api/internal/models"
	"github.com/dersly/dersly-api/internal/store"
	"github.com/dersly/dersly-api/pkg/config"
)

func newCalendarFixture(now time.Time) (*CalendarService, *store.Store) {
	st := store.New(0, nil)
	svc := NewCalendarService(st, config.CalendarConfig{
		ProdID:        "-//Dersly//Student Planner//EN",
		SemesterWeeks: 14,
	}, nil)
	svc.now = func() time.Time { return now }
	return svc, st
}

func TestTaskEventSpansHourBeforeDue(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc, st := newCalendarFixture(now)

	task := st.Session("s1").AddTask(models.Task{
		Title:    "Midterm exam",
		Category: models.CategoryExam,
		DueDate:  "2026-03-10T14:00:00",
		Status:   models.StatusPending,
		Priority: models.PriorityHigh,
	})

	payload, filename, err := svc.TaskEvent("s1", task.ID)
	require.NoError(t, err)
	assert.Equal(t, "dersly-task-1.ics", filename)

	body := string(payload)
	assert.Equal(t, 1, strings.Count(body, "BEGIN:VEVENT"))
	assert.Equal(t, 1, strings.Count(body, "END:VEVENT"))
	assert.Contains(t, body, "DTSTART:20260310T130000")
	assert.Contains(t, body, "DTEND:20260310T140000")
	assert.Contains(t, body, "TRIGGER:-PT120M", "high priority pulls the reminder forward")
	assert.Contains(t, body, "SUMMARY:Midterm exam")
}

func TestTaskEventAlarmLeadByPriority(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc, st := newCalendarFixture(now)

	for priority, trigger := range map[models.TaskPriority]string{
		models.PriorityLow:    "TRIGGER:-PT30M",
		models.PriorityMedium: "TRIGGER:-PT60M",
	} {
		task := st.Session("s1").AddTask(models.Task{
			Title:    "Reading assignment",
			DueDate:  "2026-03-10T14:00:00",
			Status:   models.StatusPending,
			Priority: priority,
		})
		payload, _, err := svc.TaskEvent("s1", task.ID)
		require.NoError(t, err)
		assert.Contains(t, string(payload), trigger)
	}
}

func TestBulkTasksSkipsUnparseableDueDates(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc, st := newCalendarFixture(now)
	sess := st.Session("s1")

	sess.AddTask(models.Task{
		Title:    "Valid task",
		DueDate:  "2026-03-10T14:00:00",
		Status:   models.StatusPending,
		Priority: models.PriorityMedium,
	})
	sess.AddTask(models.Task{
		Title:    "Broken task",
		DueDate:  "",
		Status:   models.StatusPending,
		Priority: models.PriorityMedium,
	})

	payload, _, err := svc.BulkTasks("s1")
	require.NoError(t, err)

	body := string(payload)
	assert.Equal(t, 1, strings.Count(body, "BEGIN:VEVENT"))
	assert.Contains(t, body, "SUMMARY:Valid task")
	assert.NotContains(t, body, "Broken task")
}

func TestBulkTasksExcludesCompleted(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc, st := newCalendarFixture(now)

	st.Session("s1").AddTask(models.Task{
		Title:   "Done already",
		DueDate: "2026-03-10T14:00:00",
		Status:  models.StatusCompleted,
	})

	payload, _, err := svc.BulkTasks("s1")
	require.NoError(t, err)
	assert.Zero(t, strings.Count(string(payload), "BEGIN:VEVENT"))
}

func TestCourseEventWeeklyRecurrence(t *testing.T) {
	// A Monday, so a Wednesday course starts in two days.
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc, st := newCalendarFixture(now)

	course := st.Session("s1").AddCourse(models.Course{
		Name:      "Calculus I",
		Code:      "MATH-101",
		Day:       models.Wednesday,
		StartTime: "09:00",
		EndTime:   "10:30",
		Credits:   4,
	})

	payload, filename, err := svc.CourseEvent("s1", course.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, "dersly-course-1.ics", filename)

	body := string(payload)
	assert.Contains(t, body, "DTSTART:20260304T090000")
	assert.Contains(t, body, "DTEND:20260304T103000")
	assert.Contains(t, body, "RRULE:FREQ=WEEKLY;UNTIL=20260318T090000")
	assert.Contains(t, body, "SUMMARY:Calculus I (MATH-101)")
	assert.Contains(t, body, "TRIGGER:-PT15M")
}

func TestCourseEventSameWeekdayAdvancesAWeek(t *testing.T) {
	// Monday course requested on a Monday lands on the next Monday.
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc, st := newCalendarFixture(now)

	course := st.Session("s1").AddCourse(models.Course{
		Name:      "Physics I",
		Code:      "PHYS-101",
		Day:       models.Monday,
		StartTime: "08:00",
		EndTime:   "09:30",
		Credits:   3,
	})

	payload, _, err := svc.CourseEvent("s1", course.ID, 0)
	require.NoError(t, err)
	assert.Contains(t, string(payload), "DTSTART:20260309T080000")
}

func TestScheduleCombinesCoursesIntoOneEnvelope(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc, st := newCalendarFixture(now)
	sess := st.Session("s1")

	sess.AddCourse(models.Course{Name: "Calculus I", Code: "MATH-101", Day: models.Wednesday, StartTime: "09:00", EndTime: "10:30", Credits: 4})
	sess.AddCourse(models.Course{Name: "Physics I", Code: "PHYS-101", Day: models.Friday, StartTime: "13:00", EndTime: "14:30", Credits: 3})

	payload, _, err := svc.Schedule("s1", 0)
	require.NoError(t, err)

	body := string(payload)
	assert.Equal(t, 1, strings.Count(body, "BEGIN:VCALENDAR"))
	assert.Equal(t, 2, strings.Count(body, "BEGIN:VEVENT"))
}
