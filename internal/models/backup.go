package models

// BackupVersion is the export format version written by this build.
const BackupVersion = "1.0.0"

// BackupDocument is the wholesale JSON snapshot of a session, used for
// backup and restore. Import replaces all collections and counters.
type BackupDocument struct {
	Version        string       `json:"version"`
	ExportedAt     string       `json:"exported_at"`
	UserProfile    *Profile     `json:"user_profile"`
	Courses        []Course     `json:"courses"`
	Tasks          []Task       `json:"tasks"`
	Grades         []GradeEntry `json:"grades"`
	Reminders      []Reminder   `json:"reminders"`
	NextCourseID   int          `json:"next_course_id"`
	NextTaskID     int          `json:"next_task_id"`
	NextGradeID    int          `json:"next_grade_id"`
	NextReminderID int          `json:"next_reminder_id"`
}

// StorageInfo summarises what a session currently holds. Warning is an
// advisory message set when the item count crosses the soft capacity
// threshold; nothing is ever enforced.
type StorageInfo struct {
	HasProfile   bool   `json:"has_profile"`
	NumCourses   int    `json:"num_courses"`
	NumTasks     int    `json:"num_tasks"`
	NumGrades    int    `json:"num_grades"`
	NumReminders int    `json:"num_reminders"`
	TotalItems   int    `json:"total_items"`
	Version      string `json:"version"`
	Warning      string `json:"warning,omitempty"`
}
