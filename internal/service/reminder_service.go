package service

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dersly/dersly-api/internal/models"
	"github.com/dersly/dersly-api/internal/store"
	appErrors "github.com/dersly/dersly-api/pkg/errors"
)

// CreateReminderRequest carries the payload for a standalone reminder.
type CreateReminderRequest struct {
	Title    string `json:"title" validate:"required,min=3,max=200"`
	Note     string `json:"note" validate:"max=2000"`
	RemindAt string `json:"remind_at" validate:"required"`
}

// ReminderService derives deadline reminders from pending tasks and
// keeps the session's standalone reminders.
type ReminderService struct {
	store     *store.Store
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewReminderService constructs ReminderService.
func NewReminderService(st *store.Store, validate *validator.Validate, logger *zap.Logger) *ReminderService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderService{
		store:     st,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// ClassifyUrgency maps a due timestamp and completion flag onto the
// urgency tiers. Whole days are floored, so anything past due counts
// as at least one day overdue.
func ClassifyUrgency(due time.Time, completed bool, now time.Time) models.Urgency {
	if completed {
		return models.Urgency{Score: 0, Label: "completed", Color: models.UrgencyColorGreen}
	}

	delta := due.Sub(now)
	days := int(math.Floor(delta.Hours() / 24))

	if delta < 0 {
		overdue := -days
		label := fmt.Sprintf("%d days overdue", overdue)
		if overdue == 1 {
			label = "1 day overdue"
		}
		return models.Urgency{Score: 5, Label: label, Color: models.UrgencyColorRed}
	}
	if days == 0 {
		hoursLeft := int(delta.Hours())
		if hoursLeft < 3 {
			return models.Urgency{Score: 4, Label: fmt.Sprintf("%d hours left", hoursLeft), Color: models.UrgencyColorRed}
		}
		return models.Urgency{Score: 4, Label: "due today", Color: models.UrgencyColorRed}
	}
	if days == 1 {
		return models.Urgency{Score: 3, Label: "due tomorrow", Color: models.UrgencyColorOrange}
	}
	if days <= 3 {
		return models.Urgency{Score: 2, Label: fmt.Sprintf("%d days left", days), Color: models.UrgencyColorOrange}
	}
	if days <= 7 {
		return models.Urgency{Score: 1, Label: fmt.Sprintf("%d days left", days), Color: models.UrgencyColorGreen}
	}
	return models.Urgency{Score: 0, Label: fmt.Sprintf("%d days left", days), Color: models.UrgencyColorGreen}
}

// unknownUrgency is the tier for tasks whose due date cannot be parsed.
func unknownUrgency() models.Urgency {
	return models.Urgency{Score: 0, Label: "unknown due date", Color: models.UrgencyColorNeutral}
}

// ForTask classifies one task regardless of window. A due date that
// cannot be parsed degrades to the unknown tier instead of failing.
func (s *ReminderService) ForTask(sessionID string, taskID int) (*models.TaskReminder, error) {
	task, ok := s.store.Session(sessionID).Task(taskID)
	if !ok {
		return nil, appErrors.New(appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "task not found")
	}
	now := s.now()
	due, ok := ParseDueDate(task.DueDate)

	// Completion is classified before the due date is even looked at.
	if task.Status == models.StatusCompleted {
		reminder := &models.TaskReminder{Task: task, Urgency: ClassifyUrgency(due, true, now)}
		if ok {
			delta := due.Sub(now)
			reminder.DaysRemaining = int(math.Floor(delta.Hours() / 24))
			reminder.HoursRemaining = int(delta.Hours())
		}
		return reminder, nil
	}

	if !ok {
		s.logger.Warn("task has unparseable due date",
			zap.Int("task_id", task.ID),
			zap.String("due_date", task.DueDate))
		return &models.TaskReminder{Task: task, Urgency: unknownUrgency()}, nil
	}
	delta := due.Sub(now)
	return &models.TaskReminder{
		Task:           task,
		Urgency:        ClassifyUrgency(due, false, now),
		DaysRemaining:  int(math.Floor(delta.Hours() / 24)),
		HoursRemaining: int(delta.Hours()),
	}, nil
}

// List returns reminders for pending tasks due within daysAhead days,
// overdue items included, sorted most urgent first and earliest due
// first within a tier. Tasks with unparseable due dates are skipped.
func (s *ReminderService) List(sessionID string, daysAhead int) []models.TaskReminder {
	if daysAhead <= 0 {
		daysAhead = 7
	}
	now := s.now()
	future := now.AddDate(0, 0, daysAhead)

	type dated struct {
		reminder models.TaskReminder
		due      time.Time
	}
	matched := make([]dated, 0)
	for _, task := range s.store.Session(sessionID).Tasks() {
		if task.Status != models.StatusPending {
			continue
		}
		due, ok := ParseDueDate(task.DueDate)
		if !ok {
			continue
		}
		if due.After(future) {
			continue
		}
		delta := due.Sub(now)
		matched = append(matched, dated{
			reminder: models.TaskReminder{
				Task:           task,
				Urgency:        ClassifyUrgency(due, false, now),
				DaysRemaining:  int(math.Floor(delta.Hours() / 24)),
				HoursRemaining: int(delta.Hours()),
			},
			due: due,
		})
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].reminder.Urgency.Score != matched[j].reminder.Urgency.Score {
			return matched[i].reminder.Urgency.Score > matched[j].reminder.Urgency.Score
		}
		return matched[i].due.Before(matched[j].due)
	})

	reminders := make([]models.TaskReminder, len(matched))
	for i, d := range matched {
		reminders[i] = d.reminder
	}
	return reminders
}

// Urgent returns reminders due today or overdue.
func (s *ReminderService) Urgent(sessionID string) []models.TaskReminder {
	urgent := make([]models.TaskReminder, 0)
	for _, r := range s.List(sessionID, 1) {
		if r.Urgency.Score >= 4 {
			urgent = append(urgent, r)
		}
	}
	return urgent
}

// ByPeriod filters reminders by a named window: today, tomorrow,
// this_week or all.
func (s *ReminderService) ByPeriod(sessionID, period string) ([]models.TaskReminder, error) {
	now := s.now()
	switch period {
	case "today":
		endOfToday := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
		return s.filterByWindow(sessionID, 1, time.Time{}, endOfToday), nil
	case "tomorrow":
		tomorrow := now.AddDate(0, 0, 1)
		start := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 0, 0, 0, 0, now.Location())
		end := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 23, 59, 59, 0, now.Location())
		return s.filterByWindow(sessionID, 2, start, end), nil
	case "this_week":
		return s.List(sessionID, 7), nil
	case "all":
		return s.List(sessionID, 365), nil
	default:
		return nil, appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unknown period: "+period)
	}
}

func (s *ReminderService) filterByWindow(sessionID string, daysAhead int, start, end time.Time) []models.TaskReminder {
	filtered := make([]models.TaskReminder, 0)
	for _, r := range s.List(sessionID, daysAhead) {
		due, ok := ParseDueDate(r.Task.DueDate)
		if !ok {
			continue
		}
		if !start.IsZero() && due.Before(start) {
			continue
		}
		if due.After(end) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

// Counts groups the seven day reminder window by urgency band.
func (s *ReminderService) Counts(sessionID string) models.ReminderCounts {
	counts := models.ReminderCounts{}
	for _, r := range s.List(sessionID, 7) {
		switch {
		case r.Urgency.Score >= 4:
			counts.Urgent++
		case r.Urgency.Score >= 2:
			counts.Soon++
		default:
			counts.Later++
		}
		counts.Total++
	}
	return counts
}

// Create stores a standalone reminder that is not tied to a task.
func (s *ReminderService) Create(sessionID string, req CreateReminderRequest) (*models.Reminder, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reminder payload")
	}
	if _, ok := ParseDueDate(req.RemindAt); !ok {
		return nil, appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid remind_at timestamp: "+req.RemindAt)
	}
	created := s.store.Session(sessionID).AddReminder(models.Reminder{
		Title:     req.Title,
		Note:      req.Note,
		RemindAt:  req.RemindAt,
		CreatedAt: s.now().UTC(),
	})
	return &created, nil
}

// Stored returns the session's standalone reminders ordered by ID.
func (s *ReminderService) Stored(sessionID string) []models.Reminder {
	return s.store.Session(sessionID).Reminders()
}

// Delete removes a standalone reminder.
func (s *ReminderService) Delete(sessionID string, id int) error {
	if !s.store.Session(sessionID).DeleteReminder(id) {
		return appErrors.New(appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "reminder not found")
	}
	return nil
}
