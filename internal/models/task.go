package models

import "time"

// TaskCategory is the kind of deadline-bearing work item.
type TaskCategory string

const (
	CategoryAssignment TaskCategory = "assignment"
	CategoryExam       TaskCategory = "exam"
	CategoryProject    TaskCategory = "project"
	CategoryQuiz       TaskCategory = "quiz"
)

// TaskStatus is the completion state of a task.
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusCompleted TaskStatus = "completed"
)

// TaskPriority orders tasks by importance and drives reminder lead times.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Task is an assignment, exam, project or quiz with a due date.
// CourseID is informational only; deleting a course leaves its tasks intact.
type Task struct {
	ID          int          `json:"id"`
	CourseID    *int         `json:"course_id,omitempty"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Category    TaskCategory `json:"type"`
	DueDate     string       `json:"due_date"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	CreatedAt   time.Time    `json:"created_at"`
}

// TaskFilter narrows task listings.
type TaskFilter struct {
	Status   TaskStatus
	Category TaskCategory
	CourseID int
}
