package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dersly/dersly-api/internal/models"
	"github.com/dersly/dersly-api/internal/store"
)

func TestClassifyUrgencyTiers(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		due       time.Time
		completed bool
		score     int
		label     string
		color     string
	}{
		{"completed wins", now.Add(-48 * time.Hour), true, 0, "completed", models.UrgencyColorGreen},
		{"one second overdue", now.Add(-time.Second), false, 5, "1 day overdue", models.UrgencyColorRed},
		{"three days overdue", now.Add(-72 * time.Hour), false, 5, "3 days overdue", models.UrgencyColorRed},
		{"two hours left", now.Add(2 * time.Hour), false, 4, "2 hours left", models.UrgencyColorRed},
		{"due today", now.Add(10 * time.Hour), false, 4, "due today", models.UrgencyColorRed},
		{"due tomorrow", now.Add(30 * time.Hour), false, 3, "due tomorrow", models.UrgencyColorOrange},
		{"three days left", now.Add(3 * 24 * time.Hour), false, 2, "3 days left", models.UrgencyColorOrange},
		{"five days left", now.Add(5 * 24 * time.Hour), false, 1, "5 days left", models.UrgencyColorGreen},
		{"ten days left", now.Add(10 * 24 * time.Hour), false, 0, "10 days left", models.UrgencyColorGreen},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyUrgency(tc.due, tc.completed, now)
			assert.Equal(t, tc.score, got.Score)
			assert.Equal(t, tc.label, got.Label)
			assert.Equal(t, tc.color, got.Color)
		})
	}
}

func newReminderFixture(now time.Time) (*ReminderService, *TaskService) {
	st := store.New(0, nil)
	reminders := NewReminderService(st, nil, nil)
	reminders.now = func() time.Time { return now }
	tasks := NewTaskService(st, nil, nil)
	tasks.now = func() time.Time { return now }
	return reminders, tasks
}

func TestListSortsByScoreThenDueDate(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	svc, tasks := newReminderFixture(now)

	for _, due := range []string{
		"2026-03-06T12:00:00", // 4 days out, score 1
		"2026-03-01T12:00:00", // overdue, score 5
		"2026-03-02T20:00:00", // due today, score 4
		"2026-03-04T09:00:00", // under 2 days out, score 3 window
	} {
		req := validTaskRequest(due)
		req.Title = "Task due " + due
		_, _, err := tasks.Create("s1", req)
		require.NoError(t, err)
	}

	list := svc.List("s1", 7)
	require.Len(t, list, 4)
	scores := []int{list[0].Urgency.Score, list[1].Urgency.Score, list[2].Urgency.Score, list[3].Urgency.Score}
	assert.True(t, sortedDescending(scores), "scores: %v", scores)
	assert.Equal(t, 5, list[0].Urgency.Score)
}

func sortedDescending(values []int) bool {
	for i := 1; i < len(values); i++ {
		if values[i] > values[i-1] {
			return false
		}
	}
	return true
}

func TestListExcludesCompletedAndFarFuture(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	svc, tasks := newReminderFixture(now)

	done, _, err := tasks.Create("s1", validTaskRequest("2026-03-03"))
	require.NoError(t, err)
	_, err = tasks.ToggleStatus("s1", done.ID)
	require.NoError(t, err)

	far := validTaskRequest("2026-06-01")
	far.Title = "Far future"
	_, _, err = tasks.Create("s1", far)
	require.NoError(t, err)

	assert.Empty(t, svc.List("s1", 7))
}

func TestUrgentIncludesOverdueAndToday(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	svc, tasks := newReminderFixture(now)

	overdue := validTaskRequest("2026-02-25T12:00:00")
	overdue.Title = "Overdue item"
	_, _, err := tasks.Create("s1", overdue)
	require.NoError(t, err)

	tomorrow := validTaskRequest("2026-03-03T18:00:00")
	tomorrow.Title = "Tomorrow item"
	_, _, err = tasks.Create("s1", tomorrow)
	require.NoError(t, err)

	urgent := svc.Urgent("s1")
	require.Len(t, urgent, 1)
	assert.Equal(t, "Overdue item", urgent[0].Task.Title)
}

func TestCountsGroupsByBand(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	svc, tasks := newReminderFixture(now)

	for title, due := range map[string]string{
		"Overdue":  "2026-03-01T12:00:00",
		"Tomorrow": "2026-03-03T18:00:00",
		"Soon":     "2026-03-08T12:00:00",
	} {
		req := validTaskRequest(due)
		req.Title = title + " item"
		_, _, err := tasks.Create("s1", req)
		require.NoError(t, err)
	}

	counts := svc.Counts("s1")
	assert.Equal(t, 1, counts.Urgent)
	assert.Equal(t, 1, counts.Soon)
	assert.Equal(t, 1, counts.Later)
	assert.Equal(t, 3, counts.Total)
}

func TestByPeriodWindows(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	svc, tasks := newReminderFixture(now)

	today := validTaskRequest("2026-03-02T20:00:00")
	today.Title = "Today item"
	_, _, err := tasks.Create("s1", today)
	require.NoError(t, err)

	tomorrow := validTaskRequest("2026-03-03T10:00:00")
	tomorrow.Title = "Tomorrow item"
	_, _, err = tasks.Create("s1", tomorrow)
	require.NoError(t, err)

	got, err := svc.ByPeriod("s1", "today")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Today item", got[0].Task.Title)

	got, err = svc.ByPeriod("s1", "tomorrow")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Tomorrow item", got[0].Task.Title)

	_, err = svc.ByPeriod("s1", "fortnight")
	assert.Error(t, err)
}

func TestForTaskUnknownTier(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	st := store.New(0, nil)
	svc := NewReminderService(st, nil, nil)
	svc.now = func() time.Time { return now }

	// Imported documents can carry due dates no layout accepts.
	broken := st.Session("s1").AddTask(models.Task{
		Title:   "Broken due",
		DueDate: "soonish",
		Status:  models.StatusPending,
	})

	reminder, err := svc.ForTask("s1", broken.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reminder.Urgency.Score)
	assert.Equal(t, "unknown due date", reminder.Urgency.Label)
	assert.Equal(t, models.UrgencyColorNeutral, reminder.Urgency.Color)
}

func TestForTaskCompletedBeatsUnknownDueDate(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	st := store.New(0, nil)
	svc := NewReminderService(st, nil, nil)
	svc.now = func() time.Time { return now }

	done := st.Session("s1").AddTask(models.Task{
		Title:   "Done despite broken due",
		DueDate: "soonish",
		Status:  models.StatusCompleted,
	})

	reminder, err := svc.ForTask("s1", done.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reminder.Urgency.Score)
	assert.Equal(t, "completed", reminder.Urgency.Label)
	assert.Equal(t, models.UrgencyColorGreen, reminder.Urgency.Color)
}

func TestStoredReminderLifecycle(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	svc, _ := newReminderFixture(now)

	created, err := svc.Create("s1", CreateReminderRequest{
		Title:    "Office hours",
		RemindAt: "2026-03-05T14:00:00",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)

	require.Len(t, svc.Stored("s1"), 1)
	require.NoError(t, svc.Delete("s1", created.ID))
	assert.Empty(t, svc.Stored("s1"))
	assert.Error(t, svc.Delete("s1", created.ID))
}
