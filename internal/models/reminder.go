package models

import "time"

// Reminder is a stored, free-standing note with a remind-at time.
// Task deadlines produce derived reminders instead; see TaskReminder.
type Reminder struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Note      string    `json:"note,omitempty"`
	RemindAt  string    `json:"remind_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Urgency indicator colors.
const (
	UrgencyColorRed     = "#fc8181"
	UrgencyColorOrange  = "#f6ad55"
	UrgencyColorGreen   = "#68d391"
	UrgencyColorNeutral = "#a0aec0"
)

// Urgency classifies how pressing a due date is. Score runs 0-5 with 5
// the most urgent; Color is the display indicator.
type Urgency struct {
	Score int    `json:"score"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// TaskReminder is a task annotated with deadline urgency.
type TaskReminder struct {
	Task
	Urgency        Urgency `json:"urgency"`
	DaysRemaining  int     `json:"days_remaining"`
	HoursRemaining int     `json:"hours_remaining"`
}

// ReminderCounts buckets pending reminders by urgency tier.
type ReminderCounts struct {
	Urgent int `json:"urgent"`
	Soon   int `json:"soon"`
	Later  int `json:"later"`
	Total  int `json:"total"`
}
