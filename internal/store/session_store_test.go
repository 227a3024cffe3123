package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dersly/dersly-api/internal/models"
)

func TestSessionIDsAreSequentialPerCollection(t *testing.T) {
	s := New(0, nil)
	sess := s.Session("abc")

	first := sess.AddCourse(models.Course{Name: "Calculus"})
	second := sess.AddCourse(models.Course{Name: "Physics"})
	task := sess.AddTask(models.Task{Title: "Homework 1"})

	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, 1, task.ID, "task counter is independent of the course counter")
}

func TestSessionIsolation(t *testing.T) {
	s := New(0, nil)
	a := s.Session("a")
	b := s.Session("b")

	a.AddCourse(models.Course{Name: "Calculus"})

	assert.Len(t, a.Courses(), 1)
	assert.Empty(t, b.Courses())
	assert.Equal(t, 2, s.Count())
}

func TestDeleteCourseKeepsTasks(t *testing.T) {
	s := New(0, nil)
	sess := s.Session("abc")

	course := sess.AddCourse(models.Course{Name: "Calculus"})
	sess.AddTask(models.Task{Title: "Homework 1", CourseID: &course.ID})

	require.True(t, sess.DeleteCourse(course.ID))
	assert.Len(t, sess.Tasks(), 1)
}

func TestCoursesSortedByID(t *testing.T) {
	s := New(0, nil)
	sess := s.Session("abc")
	for _, name := range []string{"C", "A", "B"} {
		sess.AddCourse(models.Course{Name: name})
	}

	courses := sess.Courses()
	require.Len(t, courses, 3)
	assert.Equal(t, 1, courses[0].ID)
	assert.Equal(t, 3, courses[2].ID)
}

func TestSnapshotAndReplaceRoundTrip(t *testing.T) {
	s := New(0, nil)
	src := s.Session("src")
	src.SetProfile(&models.Profile{Name: "Ada"})
	src.AddCourse(models.Course{Name: "Calculus"})
	src.AddTask(models.Task{Title: "Homework 1"})
	src.AddGrade(models.GradeEntry{CourseName: "Calculus", Grade: 4, Credits: 3})
	src.AddReminder(models.Reminder{Title: "Office hours"})

	doc := src.Snapshot()

	dst := s.Session("dst")
	dst.AddCourse(models.Course{Name: "Stale"})
	dst.Replace(doc)

	courses, tasks, grades, reminders, hasProfile := dst.Counts()
	assert.Equal(t, 1, courses)
	assert.Equal(t, 1, tasks)
	assert.Equal(t, 1, grades)
	assert.Equal(t, 1, reminders)
	assert.True(t, hasProfile)

	next := dst.AddCourse(models.Course{Name: "New"})
	assert.Equal(t, 2, next.ID, "counter restored from the document")
}

func TestReplaceFloorsCountersAboveMaxID(t *testing.T) {
	s := New(0, nil)
	sess := s.Session("abc")
	sess.Replace(models.BackupDocument{
		Courses:      []models.Course{{ID: 7, Name: "Calculus"}},
		NextCourseID: 2,
	})

	added := sess.AddCourse(models.Course{Name: "Physics"})
	assert.Equal(t, 8, added.ID)
}

func TestClearResetsCounters(t *testing.T) {
	s := New(0, nil)
	sess := s.Session("abc")
	sess.AddCourse(models.Course{Name: "Calculus"})
	sess.SetProfile(&models.Profile{Name: "Ada"})

	sess.Clear()

	courses, _, _, _, hasProfile := sess.Counts()
	assert.Zero(t, courses)
	assert.False(t, hasProfile)
	assert.Nil(t, sess.Profile())
	added := sess.AddCourse(models.Course{Name: "Physics"})
	assert.Equal(t, 1, added.ID)
}

func TestIdleSessionsEvicted(t *testing.T) {
	s := New(time.Hour, nil)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }

	s.Session("old").AddCourse(models.Course{Name: "Calculus"})

	s.now = func() time.Time { return base.Add(2 * time.Hour) }
	fresh := s.Session("old")

	assert.Empty(t, fresh.Courses(), "expired session replaced by a new one")
	assert.Equal(t, 1, s.Count())
}

func TestProfileCopiedOnReadAndWrite(t *testing.T) {
	s := New(0, nil)
	sess := s.Session("abc")

	in := &models.Profile{Name: "Ada"}
	sess.SetProfile(in)
	in.Name = "changed"

	out := sess.Profile()
	require.NotNil(t, out)
	assert.Equal(t, "Ada", out.Name)

	out.Name = "mutated"
	assert.Equal(t, "Ada", sess.Profile().Name)
}
