package service

import (
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dersly/dersly-api/internal/models"
	"github.com/dersly/dersly-api/internal/store"
	appErrors "github.com/dersly/dersly-api/pkg/errors"
)

var courseCodePattern = regexp.MustCompile(`^[A-Za-z0-9 \-]+$`)

// CreateCourseRequest carries the payload for adding a course.
type CreateCourseRequest struct {
	Name      string `json:"course_name" validate:"required,min=2,max=100"`
	Code      string `json:"course_code" validate:"required,min=2,max=20,coursecode"`
	Day       string `json:"day" validate:"required,weekday"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	Color     string `json:"color" validate:"omitempty,hexcolor"`
	Credits   int    `json:"credits" validate:"required,min=1,max=15"`
}

// UpdateCourseRequest carries a full replacement payload for a course.
type UpdateCourseRequest struct {
	Name      string `json:"course_name" validate:"required,min=2,max=100"`
	Code      string `json:"course_code" validate:"required,min=2,max=20,coursecode"`
	Day       string `json:"day" validate:"required,weekday"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	Color     string `json:"color" validate:"omitempty,hexcolor"`
	Credits   int    `json:"credits" validate:"required,min=1,max=15"`
}

// CourseService manages the weekly course schedule of a session.
type CourseService struct {
	store     *store.Store
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewCourseService constructs CourseService and registers the coursecode
// and weekday validations on the shared validator.
func NewCourseService(st *store.Store, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	_ = validate.RegisterValidation("coursecode", func(fl validator.FieldLevel) bool {
		return courseCodePattern.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		_, ok := models.WeekdayIndex(models.Weekday(fl.Field().String()))
		return ok
	})
	return &CourseService{
		store:     st,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns the session's courses ordered by ID.
func (s *CourseService) List(sessionID string) []models.Course {
	return s.store.Session(sessionID).Courses()
}

// ListBySchedule returns the session's courses ordered by weekday then
// start time, the order a weekly timetable renders in.
func (s *CourseService) ListBySchedule(sessionID string) []models.Course {
	courses := s.store.Session(sessionID).Courses()
	sort.SliceStable(courses, func(i, j int) bool {
		di, _ := models.WeekdayIndex(courses[i].Day)
		dj, _ := models.WeekdayIndex(courses[j].Day)
		if di != dj {
			return di < dj
		}
		return courses[i].StartTime < courses[j].StartTime
	})
	return courses
}

// Get returns a single course.
func (s *CourseService) Get(sessionID string, id int) (*models.Course, error) {
	course, ok := s.store.Session(sessionID).Course(id)
	if !ok {
		return nil, appErrors.New(appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "course not found")
	}
	return &course, nil
}

// Create validates the payload, rejects schedule conflicts and stores
// the new course.
func (s *CourseService) Create(sessionID string, req CreateCourseRequest) (*models.Course, error) {
	course, err := s.buildCourse(req.Name, req.Code, req.Day, req.StartTime, req.EndTime, req.Color, req.Credits, req)
	if err != nil {
		return nil, err
	}

	sess := s.store.Session(sessionID)
	if conflict := findConflict(sess.Courses(), *course, 0); conflict != nil {
		return nil, appErrors.New(appErrors.ErrConflict.Code, appErrors.ErrConflict.Status,
			fmt.Sprintf("schedule conflict with %s (%s %s-%s)", conflict.Name, conflict.Day, conflict.StartTime, conflict.EndTime))
	}

	created := sess.AddCourse(*course)
	s.logger.Info("course created",
		zap.String("session_id", sessionID),
		zap.Int("course_id", created.ID),
		zap.String("course_code", created.Code))
	return &created, nil
}

// Update replaces a course after re-running validation and the conflict
// check against every other course.
func (s *CourseService) Update(sessionID string, id int, req UpdateCourseRequest) (*models.Course, error) {
	course, err := s.buildCourse(req.Name, req.Code, req.Day, req.StartTime, req.EndTime, req.Color, req.Credits, req)
	if err != nil {
		return nil, err
	}

	sess := s.store.Session(sessionID)
	existing, ok := sess.Course(id)
	if !ok {
		return nil, appErrors.New(appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "course not found")
	}

	if conflict := findConflict(sess.Courses(), *course, id); conflict != nil {
		return nil, appErrors.New(appErrors.ErrConflict.Code, appErrors.ErrConflict.Status,
			fmt.Sprintf("schedule conflict with %s (%s %s-%s)", conflict.Name, conflict.Day, conflict.StartTime, conflict.EndTime))
	}

	course.ID = id
	course.CreatedAt = existing.CreatedAt
	sess.UpdateCourse(*course)
	return course, nil
}

// Delete removes a course. Tasks referencing it keep their course ID.
func (s *CourseService) Delete(sessionID string, id int) error {
	if !s.store.Session(sessionID).DeleteCourse(id) {
		return appErrors.New(appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "course not found")
	}
	return nil
}

// CheckConflict reports whether a candidate slot overlaps an existing
// course, without storing anything. excludeID skips one course, for
// edit previews.
func (s *CourseService) CheckConflict(sessionID, day, startTime, endTime string, excludeID int) (*models.Course, error) {
	start, end, err := parseTimeRange(startTime, endTime)
	if err != nil {
		return nil, err
	}
	if _, ok := models.WeekdayIndex(models.Weekday(day)); !ok {
		return nil, appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unknown weekday: "+day)
	}
	candidate := models.Course{Day: models.Weekday(day), StartTime: minutesToClock(start), EndTime: minutesToClock(end)}
	return findConflict(s.store.Session(sessionID).Courses(), candidate, excludeID), nil
}

func (s *CourseService) buildCourse(name, code, day, startTime, endTime, color string, credits int, req any) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	start, end, err := parseTimeRange(startTime, endTime)
	if err != nil {
		return nil, err
	}
	if end-start < 30 {
		return nil, appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "a course slot must be at least 30 minutes long")
	}
	if color == "" {
		color = "#3182ce"
	}
	return &models.Course{
		Name:      name,
		Code:      code,
		Day:       models.Weekday(day),
		StartTime: minutesToClock(start),
		EndTime:   minutesToClock(end),
		Color:     color,
		Credits:   credits,
		CreatedAt: s.now().UTC(),
	}, nil
}

// findConflict returns the first stored course (by ID order) whose
// half-open [start, end) minute interval overlaps the candidate on the
// same day. excludeID is skipped so a course never conflicts with itself.
func findConflict(courses []models.Course, candidate models.Course, excludeID int) *models.Course {
	candStart, candEnd, err := parseTimeRange(candidate.StartTime, candidate.EndTime)
	if err != nil {
		return nil
	}
	for i := range courses {
		existing := courses[i]
		if existing.ID == excludeID || existing.Day != candidate.Day {
			continue
		}
		start, end, err := parseTimeRange(existing.StartTime, existing.EndTime)
		if err != nil {
			continue
		}
		if candStart < end && start < candEnd {
			return &existing
		}
	}
	return nil
}

// parseTimeRange converts two "HH:MM" strings into minutes since
// midnight, requiring start < end.
func parseTimeRange(startTime, endTime string) (int, int, error) {
	start, err := clockToMinutes(startTime)
	if err != nil {
		return 0, 0, err
	}
	end, err := clockToMinutes(endTime)
	if err != nil {
		return 0, 0, err
	}
	if start >= end {
		return 0, 0, appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "start time must be before end time")
	}
	return start, end, nil
}

func clockToMinutes(clock string) (int, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time, expected HH:MM: "+clock)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func minutesToClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
