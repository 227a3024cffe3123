package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dersly/dersly-api/internal/models"
	"github.com/dersly/dersly-api/internal/store"
	"github.com/dersly/dersly-api/pkg/config"
	appErrors "github.com/dersly/dersly-api/pkg/errors"
	"github.com/dersly/dersly-api/pkg/ical"
)

// CalendarService serializes tasks and courses into downloadable
// calendar documents. Every build is a stateless transform over the
// session's records.
type CalendarService struct {
	store  *store.Store
	cfg    config.CalendarConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewCalendarService constructs CalendarService.
func NewCalendarService(st *store.Store, cfg config.CalendarConfig, logger *zap.Logger) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ProdID == "" {
		cfg.ProdID = "-//Dersly//Student Planner//EN"
	}
	if cfg.SemesterWeeks <= 0 {
		cfg.SemesterWeeks = 14
	}
	return &CalendarService{
		store:  st,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// alarmLeadMinutes maps task priority onto the reminder lead time.
func (s *CalendarService) alarmLeadMinutes(priority models.TaskPriority) int {
	switch priority {
	case models.PriorityHigh:
		return 120
	case models.PriorityLow:
		return 30
	default:
		if s.cfg.DefaultAlarmMinutes > 0 {
			return s.cfg.DefaultAlarmMinutes
		}
		return 60
	}
}

// TaskEvent renders one task as a single-event calendar document. The
// event spans the hour leading up to the due timestamp.
func (s *CalendarService) TaskEvent(sessionID string, taskID int) ([]byte, string, error) {
	task, ok := s.store.Session(sessionID).Task(taskID)
	if !ok {
		return nil, "", appErrors.New(appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "task not found")
	}
	event, err := s.taskToEvent(task)
	if err != nil {
		return nil, "", err
	}
	cal := ical.Calendar{ProdID: s.cfg.ProdID, Events: []ical.Event{*event}}
	return []byte(cal.Render()), taskFilename(task), nil
}

// BulkTasks renders every pending task into one calendar document.
// Tasks whose due date cannot be parsed are skipped, never fatal.
func (s *CalendarService) BulkTasks(sessionID string) ([]byte, string, error) {
	cal := ical.Calendar{ProdID: s.cfg.ProdID}
	for _, task := range s.store.Session(sessionID).Tasks() {
		if task.Status != models.StatusPending {
			continue
		}
		event, err := s.taskToEvent(task)
		if err != nil {
			s.logger.Warn("skipping task in calendar export",
				zap.Int("task_id", task.ID),
				zap.String("due_date", task.DueDate))
			continue
		}
		cal.Events = append(cal.Events, *event)
	}
	return []byte(cal.Render()), "dersly-tasks.ics", nil
}

// CourseEvent renders a course slot as a weekly recurring event
// bounded at the semester horizon. The first occurrence is the next
// matching weekday strictly after today.
func (s *CalendarService) CourseEvent(sessionID string, courseID, weeks int) ([]byte, string, error) {
	course, ok := s.store.Session(sessionID).Course(courseID)
	if !ok {
		return nil, "", appErrors.New(appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "course not found")
	}
	if weeks <= 0 {
		weeks = s.cfg.SemesterWeeks
	}
	event, err := s.courseToEvent(course, weeks)
	if err != nil {
		return nil, "", err
	}
	cal := ical.Calendar{ProdID: s.cfg.ProdID, Events: []ical.Event{*event}}
	return []byte(cal.Render()), fmt.Sprintf("dersly-course-%d.ics", course.ID), nil
}

// Schedule renders the whole weekly schedule, one recurring event per
// course, into a single document.
func (s *CalendarService) Schedule(sessionID string, weeks int) ([]byte, string, error) {
	if weeks <= 0 {
		weeks = s.cfg.SemesterWeeks
	}
	cal := ical.Calendar{ProdID: s.cfg.ProdID}
	for _, course := range s.store.Session(sessionID).Courses() {
		event, err := s.courseToEvent(course, weeks)
		if err != nil {
			s.logger.Warn("skipping course in schedule export",
				zap.Int("course_id", course.ID),
				zap.Error(err))
			continue
		}
		cal.Events = append(cal.Events, *event)
	}
	return []byte(cal.Render()), "dersly-schedule.ics", nil
}

func (s *CalendarService) courseToEvent(course models.Course, weeks int) (*ical.Event, error) {
	targetIdx, ok := models.WeekdayIndex(course.Day)
	if !ok {
		return nil, appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "course has an unknown weekday: "+string(course.Day))
	}
	startClock, err := time.Parse("15:04", course.StartTime)
	if err != nil {
		return nil, appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "course has an invalid start time: "+course.StartTime)
	}
	endClock, err := time.Parse("15:04", course.EndTime)
	if err != nil {
		return nil, appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "course has an invalid end time: "+course.EndTime)
	}

	// A course on today's weekday starts next week, today's slot may
	// already be underway.
	now := s.now()
	daysAhead := targetIdx - mondayIndex(now.Weekday())
	if daysAhead <= 0 {
		daysAhead += 7
	}
	day := now.AddDate(0, 0, daysAhead)
	start := time.Date(day.Year(), day.Month(), day.Day(), startClock.Hour(), startClock.Minute(), 0, 0, now.Location())
	end := time.Date(day.Year(), day.Month(), day.Day(), endClock.Hour(), endClock.Minute(), 0, 0, now.Location())
	until := start.AddDate(0, 0, weeks*7)

	return &ical.Event{
		UID:          ical.NewUID(start),
		Summary:      fmt.Sprintf("%s (%s)", course.Name, course.Code),
		Description:  fmt.Sprintf("Weekly class, %d credits", course.Credits),
		Start:        start,
		End:          end,
		RRule:        "FREQ=WEEKLY;UNTIL=" + until.Format(ical.TimeLayout),
		AlarmMinutes: 15,
	}, nil
}

func (s *CalendarService) taskToEvent(task models.Task) (*ical.Event, error) {
	due, ok := ParseDueDate(task.DueDate)
	if !ok {
		return nil, appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "task has an unparseable due date: "+task.DueDate)
	}
	start := due.Add(-time.Hour)
	return &ical.Event{
		UID:          ical.NewUID(start),
		Summary:      task.Title,
		Description:  fmt.Sprintf("%s. Category: %s, priority: %s", task.Description, task.Category, task.Priority),
		Start:        start,
		End:          due,
		AlarmMinutes: s.alarmLeadMinutes(task.Priority),
		AlarmText:    "Due soon: " + task.Title,
	}, nil
}

func taskFilename(task models.Task) string {
	return fmt.Sprintf("dersly-task-%d.ics", task.ID)
}

// mondayIndex converts Go's Sunday-based weekday to a Monday-based
// index matching the course day ordering.
func mondayIndex(day time.Weekday) int {
	return (int(day) + 6) % 7
}
