package models

import "time"

// Weekday is the scheduling day of a course.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// WeekdayIndex returns the position of a weekday with Monday as 0.
// The second return reports whether the value is a known day.
func WeekdayIndex(day Weekday) (int, bool) {
	switch day {
	case Monday:
		return 0, true
	case Tuesday:
		return 1, true
	case Wednesday:
		return 2, true
	case Thursday:
		return 3, true
	case Friday:
		return 4, true
	case Saturday:
		return 5, true
	case Sunday:
		return 6, true
	default:
		return 0, false
	}
}

// Course is a weekly scheduled class slot.
type Course struct {
	ID        int       `json:"id"`
	Name      string    `json:"course_name"`
	Code      string    `json:"course_code"`
	Day       Weekday   `json:"day"`
	StartTime string    `json:"start_time"` // "HH:MM"
	EndTime   string    `json:"end_time"`   // "HH:MM"
	Color     string    `json:"color"`
	Credits   int       `json:"credits"`
	CreatedAt time.Time `json:"created_at"`
}
