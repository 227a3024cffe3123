package service

import (
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dersly/dersly-api/internal/models"
	"github.com/dersly/dersly-api/internal/store"
	appErrors "github.com/dersly/dersly-api/pkg/errors"
)

// dueDateLayouts lists the accepted due date formats, tried in order.
var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDueDate parses a stored due date string. Zone-less values are
// read as UTC; date-only values land on midnight.
func ParseDueDate(raw string) (time.Time, bool) {
	for _, layout := range dueDateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CreateTaskRequest carries the payload for adding a task.
type CreateTaskRequest struct {
	CourseID    *int   `json:"course_id"`
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Category    string `json:"type" validate:"required,oneof=assignment exam project quiz"`
	DueDate     string `json:"due_date" validate:"required"`
	Priority    string `json:"priority" validate:"required,oneof=low medium high"`
}

// UpdateTaskRequest carries a full replacement payload for a task.
type UpdateTaskRequest struct {
	CourseID    *int   `json:"course_id"`
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Category    string `json:"type" validate:"required,oneof=assignment exam project quiz"`
	DueDate     string `json:"due_date" validate:"required"`
	Priority    string `json:"priority" validate:"required,oneof=low medium high"`
	Status      string `json:"status" validate:"required,oneof=pending completed"`
}

// TaskService manages deadline items of a session.
type TaskService struct {
	store     *store.Store
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewTaskService constructs TaskService.
func NewTaskService(st *store.Store, validate *validator.Validate, logger *zap.Logger) *TaskService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskService{
		store:     st,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns the session's tasks matching the filter, ordered by ID.
func (s *TaskService) List(sessionID string, filter models.TaskFilter) []models.Task {
	all := s.store.Session(sessionID).Tasks()
	matched := make([]models.Task, 0, len(all))
	for _, task := range all {
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		if filter.Category != "" && task.Category != filter.Category {
			continue
		}
		if filter.CourseID > 0 {
			if task.CourseID == nil || *task.CourseID != filter.CourseID {
				continue
			}
		}
		matched = append(matched, task)
	}
	return matched
}

// Get returns a single task.
func (s *TaskService) Get(sessionID string, id int) (*models.Task, error) {
	task, ok := s.store.Session(sessionID).Task(id)
	if !ok {
		return nil, appErrors.New(appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "task not found")
	}
	return &task, nil
}

// Create validates the payload and stores a new pending task. The
// returned warning is non-empty when the due date already passed.
func (s *TaskService) Create(sessionID string, req CreateTaskRequest) (*models.Task, string, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid task payload")
	}
	due, warning, err := s.checkDueDate(sessionID, req.DueDate)
	if err != nil {
		return nil, "", err
	}
	if err := s.checkCourseLink(sessionID, req.CourseID); err != nil {
		return nil, "", err
	}

	task := models.Task{
		CourseID:    req.CourseID,
		Title:       req.Title,
		Description: req.Description,
		Category:    models.TaskCategory(req.Category),
		DueDate:     req.DueDate,
		Status:      models.StatusPending,
		Priority:    models.TaskPriority(req.Priority),
		CreatedAt:   s.now().UTC(),
	}
	created := s.store.Session(sessionID).AddTask(task)
	s.logger.Info("task created",
		zap.String("session_id", sessionID),
		zap.Int("task_id", created.ID),
		zap.Time("due", due))
	return &created, warning, nil
}

// Update replaces a task with the given payload. Like Create it returns
// an advisory warning when the due date already passed.
func (s *TaskService) Update(sessionID string, id int, req UpdateTaskRequest) (*models.Task, string, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid task payload")
	}
	_, warning, err := s.checkDueDate(sessionID, req.DueDate)
	if err != nil {
		return nil, "", err
	}
	if err := s.checkCourseLink(sessionID, req.CourseID); err != nil {
		return nil, "", err
	}

	sess := s.store.Session(sessionID)
	existing, ok := sess.Task(id)
	if !ok {
		return nil, "", appErrors.New(appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "task not found")
	}

	existing.CourseID = req.CourseID
	existing.Title = req.Title
	existing.Description = req.Description
	existing.Category = models.TaskCategory(req.Category)
	existing.DueDate = req.DueDate
	existing.Priority = models.TaskPriority(req.Priority)
	existing.Status = models.TaskStatus(req.Status)
	sess.UpdateTask(existing)
	return &existing, warning, nil
}

// ToggleStatus flips a task between pending and completed.
func (s *TaskService) ToggleStatus(sessionID string, id int) (*models.Task, error) {
	sess := s.store.Session(sessionID)
	task, ok := sess.Task(id)
	if !ok {
		return nil, appErrors.New(appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "task not found")
	}
	if task.Status == models.StatusCompleted {
		task.Status = models.StatusPending
	} else {
		task.Status = models.StatusCompleted
	}
	sess.UpdateTask(task)
	return &task, nil
}

// Delete removes a task.
func (s *TaskService) Delete(sessionID string, id int) error {
	if !s.store.Session(sessionID).DeleteTask(id) {
		return appErrors.New(appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "task not found")
	}
	return nil
}

// Upcoming returns pending tasks due within the next days, soonest
// first. Tasks with unparseable due dates are skipped.
func (s *TaskService) Upcoming(sessionID string, days int) []models.Task {
	if days <= 0 {
		days = 7
	}
	now := s.now()
	horizon := now.AddDate(0, 0, days)

	type datedTask struct {
		task models.Task
		due  time.Time
	}
	upcoming := make([]datedTask, 0)
	for _, task := range s.store.Session(sessionID).Tasks() {
		if task.Status != models.StatusPending {
			continue
		}
		due, ok := ParseDueDate(task.DueDate)
		if !ok {
			s.logger.Warn("skipping task with unparseable due date",
				zap.Int("task_id", task.ID),
				zap.String("due_date", task.DueDate))
			continue
		}
		if due.Before(now) || due.After(horizon) {
			continue
		}
		upcoming = append(upcoming, datedTask{task: task, due: due})
	}
	sort.Slice(upcoming, func(i, j int) bool { return upcoming[i].due.Before(upcoming[j].due) })
	tasks := make([]models.Task, len(upcoming))
	for i, dt := range upcoming {
		tasks[i] = dt.task
	}
	return tasks
}

// checkDueDate parses the due date and enforces the two year horizon.
// A due date in the past is allowed so overdue work can be recorded;
// the caller gets an advisory warning instead of an error.
func (s *TaskService) checkDueDate(sessionID, raw string) (time.Time, string, error) {
	due, ok := ParseDueDate(raw)
	if !ok {
		return time.Time{}, "", appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid due date: "+raw)
	}
	now := s.now()
	if due.After(now.AddDate(2, 0, 0)) {
		return time.Time{}, "", appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "due date is more than two years ahead")
	}
	if due.Before(now) {
		s.logger.Warn("task created with a past due date",
			zap.String("session_id", sessionID),
			zap.String("due_date", raw))
		return due, "due date is in the past", nil
	}
	return due, "", nil
}

func (s *TaskService) checkCourseLink(sessionID string, courseID *int) error {
	if courseID == nil {
		return nil
	}
	if _, ok := s.store.Session(sessionID).Course(*courseID); !ok {
		return appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "linked course does not exist")
	}
	return nil
}
