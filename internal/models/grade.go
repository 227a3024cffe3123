package models

import (
	"fmt"
	"time"
)

// GradeEntry is a completed course with a grade on the active scale.
// CourseName is free text and is not linked to a Course record.
type GradeEntry struct {
	ID         int       `json:"id"`
	CourseName string    `json:"course_name"`
	Grade      float64   `json:"grade"`
	Credits    int       `json:"credits"`
	Semester   string    `json:"semester"`
	Year       int       `json:"year"`
	CreatedAt  time.Time `json:"created_at"`
}

// SemesterKey groups grade entries for per-semester aggregation.
func (g GradeEntry) SemesterKey() string {
	return fmt.Sprintf("%s %d", g.Semester, g.Year)
}

// GPAStatistics summarises cumulative and per-semester grade point averages.
type GPAStatistics struct {
	DNO          float64            `json:"dno"`
	DNOLetter    string             `json:"dno_letter"`
	TotalCredits int                `json:"total_credits"`
	TotalCourses int                `json:"total_courses"`
	SemesterGPAs map[string]float64 `json:"semester_gpas"`
	HighestGNO   float64            `json:"highest_gno"`
	LowestGNO    float64            `json:"lowest_gno"`
	AverageGNO   float64            `json:"average_gno"`
}
