package models

import "time"

// Profile is the single user profile owned by a session.
type Profile struct {
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	StudentID      string    `json:"student_id,omitempty"`
	Department     string    `json:"department,omitempty"`
	ClassYear      int       `json:"class_year,omitempty"`
	PreferredScale string    `json:"preferred_scale,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
