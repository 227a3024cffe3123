package store

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dersly/dersly-api/internal/models"
)

// Store owns all sessions of the process. Each session is an isolated
// bundle of planner state with its own ID counters; nothing is shared
// between sessions and nothing survives a restart.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// New constructs an empty store. Sessions idle longer than ttl are
// evicted lazily on the next lookup; ttl <= 0 disables eviction.
func New(ttl time.Duration, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// Session returns the session for id, creating it when absent.
func (s *Store) Session(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictExpired(now)

	sess, ok := s.sessions[id]
	if !ok {
		sess = newSession(id, now)
		s.sessions[id] = sess
		s.logger.Debug("session created", zap.String("session_id", id))
	}
	sess.touch(now)
	return sess
}

// Count returns the number of live sessions.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) evictExpired(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen()) > s.ttl {
			delete(s.sessions, id)
			s.logger.Debug("session evicted", zap.String("session_id", id))
		}
	}
}

// Session holds one user's planner state. All access goes through the
// mutex; values are copied in and out so callers never alias store state.
type Session struct {
	mu sync.RWMutex

	id        string
	profile   *models.Profile
	courses   map[int]models.Course
	tasks     map[int]models.Task
	grades    map[int]models.GradeEntry
	reminders map[int]models.Reminder

	nextCourseID   int
	nextTaskID     int
	nextGradeID    int
	nextReminderID int

	createdAt time.Time
	seenAt    time.Time
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		id:             id,
		courses:        make(map[int]models.Course),
		tasks:          make(map[int]models.Task),
		grades:         make(map[int]models.GradeEntry),
		reminders:      make(map[int]models.Reminder),
		nextCourseID:   1,
		nextTaskID:     1,
		nextGradeID:    1,
		nextReminderID: 1,
		createdAt:      now,
		seenAt:         now,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.seenAt = now
	s.mu.Unlock()
}

func (s *Session) lastSeen() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seenAt
}

// AddCourse assigns the next course ID and stores the record.
func (s *Session) AddCourse(course models.Course) models.Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	course.ID = s.nextCourseID
	s.nextCourseID++
	s.courses[course.ID] = course
	return course
}

// Course returns a course by ID.
func (s *Session) Course(id int) (models.Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	course, ok := s.courses[id]
	return course, ok
}

// Courses returns all courses ordered by ID.
func (s *Session) Courses() []models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]models.Course, 0, len(s.courses))
	for _, course := range s.courses {
		list = append(list, course)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// UpdateCourse replaces a stored course, keyed by its ID.
func (s *Session) UpdateCourse(course models.Course) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[course.ID]; !ok {
		return false
	}
	s.courses[course.ID] = course
	return true
}

// DeleteCourse removes a course. Linked tasks are left untouched.
func (s *Session) DeleteCourse(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[id]; !ok {
		return false
	}
	delete(s.courses, id)
	return true
}

// AddTask assigns the next task ID and stores the record.
func (s *Session) AddTask(task models.Task) models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	task.ID = s.nextTaskID
	s.nextTaskID++
	s.tasks[task.ID] = task
	return task
}

// Task returns a task by ID.
func (s *Session) Task(id int) (models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[id]
	return task, ok
}

// Tasks returns all tasks ordered by ID.
func (s *Session) Tasks() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]models.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		list = append(list, task)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// UpdateTask replaces a stored task, keyed by its ID.
func (s *Session) UpdateTask(task models.Task) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[task.ID]; !ok {
		return false
	}
	s.tasks[task.ID] = task
	return true
}

// DeleteTask removes a task.
func (s *Session) DeleteTask(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return false
	}
	delete(s.tasks, id)
	return true
}

// AddGrade assigns the next grade ID and stores the record.
func (s *Session) AddGrade(grade models.GradeEntry) models.GradeEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	grade.ID = s.nextGradeID
	s.nextGradeID++
	s.grades[grade.ID] = grade
	return grade
}

// Grade returns a grade entry by ID.
func (s *Session) Grade(id int) (models.GradeEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	grade, ok := s.grades[id]
	return grade, ok
}

// Grades returns all grade entries ordered by ID.
func (s *Session) Grades() []models.GradeEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]models.GradeEntry, 0, len(s.grades))
	for _, grade := range s.grades {
		list = append(list, grade)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// UpdateGrade replaces a stored grade entry, keyed by its ID.
func (s *Session) UpdateGrade(grade models.GradeEntry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.grades[grade.ID]; !ok {
		return false
	}
	s.grades[grade.ID] = grade
	return true
}

// DeleteGrade removes a grade entry.
func (s *Session) DeleteGrade(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.grades[id]; !ok {
		return false
	}
	delete(s.grades, id)
	return true
}

// AddReminder assigns the next reminder ID and stores the record.
func (s *Session) AddReminder(reminder models.Reminder) models.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	reminder.ID = s.nextReminderID
	s.nextReminderID++
	s.reminders[reminder.ID] = reminder
	return reminder
}

// Reminders returns all stored reminders ordered by ID.
func (s *Session) Reminders() []models.Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]models.Reminder, 0, len(s.reminders))
	for _, reminder := range s.reminders {
		list = append(list, reminder)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// DeleteReminder removes a stored reminder.
func (s *Session) DeleteReminder(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reminders[id]; !ok {
		return false
	}
	delete(s.reminders, id)
	return true
}

// Profile returns a copy of the session profile, or nil when unset.
func (s *Session) Profile() *models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil
	}
	copied := *s.profile
	return &copied
}

// SetProfile stores the session profile.
func (s *Session) SetProfile(profile *models.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if profile == nil {
		s.profile = nil
		return
	}
	copied := *profile
	s.profile = &copied
}

// Counts reports collection sizes and profile presence.
func (s *Session) Counts() (courses, tasks, grades, reminders int, hasProfile bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.courses), len(s.tasks), len(s.grades), len(s.reminders), s.profile != nil
}

// Snapshot copies the full session state into a backup document. The
// caller fills in version and timestamp.
func (s *Session) Snapshot() models.BackupDocument {
	doc := models.BackupDocument{
		UserProfile: s.Profile(),
		Courses:     s.Courses(),
		Tasks:       s.Tasks(),
		Grades:      s.Grades(),
		Reminders:   s.Reminders(),
	}
	s.mu.RLock()
	doc.NextCourseID = s.nextCourseID
	doc.NextTaskID = s.nextTaskID
	doc.NextGradeID = s.nextGradeID
	doc.NextReminderID = s.nextReminderID
	s.mu.RUnlock()
	return doc
}

// Replace overwrites the whole session from a backup document. Counters
// are floored to one past the largest imported ID so later inserts can
// never collide with restored records.
func (s *Session) Replace(doc models.BackupDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile = nil
	if doc.UserProfile != nil {
		copied := *doc.UserProfile
		s.profile = &copied
	}

	s.courses = make(map[int]models.Course, len(doc.Courses))
	maxID := 0
	for _, course := range doc.Courses {
		s.courses[course.ID] = course
		if course.ID > maxID {
			maxID = course.ID
		}
	}
	s.nextCourseID = counterFloor(doc.NextCourseID, maxID)

	s.tasks = make(map[int]models.Task, len(doc.Tasks))
	maxID = 0
	for _, task := range doc.Tasks {
		s.tasks[task.ID] = task
		if task.ID > maxID {
			maxID = task.ID
		}
	}
	s.nextTaskID = counterFloor(doc.NextTaskID, maxID)

	s.grades = make(map[int]models.GradeEntry, len(doc.Grades))
	maxID = 0
	for _, grade := range doc.Grades {
		s.grades[grade.ID] = grade
		if grade.ID > maxID {
			maxID = grade.ID
		}
	}
	s.nextGradeID = counterFloor(doc.NextGradeID, maxID)

	s.reminders = make(map[int]models.Reminder, len(doc.Reminders))
	maxID = 0
	for _, reminder := range doc.Reminders {
		s.reminders[reminder.ID] = reminder
		if reminder.ID > maxID {
			maxID = reminder.ID
		}
	}
	s.nextReminderID = counterFloor(doc.NextReminderID, maxID)
}

// Clear resets the session to its initial empty state.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = nil
	s.courses = make(map[int]models.Course)
	s.tasks = make(map[int]models.Task)
	s.grades = make(map[int]models.GradeEntry)
	s.reminders = make(map[int]models.Reminder)
	s.nextCourseID = 1
	s.nextTaskID = 1
	s.nextGradeID = 1
	s.nextReminderID = 1
}

func counterFloor(counter, maxID int) int {
	if counter < maxID+1 {
		return maxID + 1
	}
	if counter < 1 {
		return 1
	}
	return counter
}
