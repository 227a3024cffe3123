package models

import "strings"

// GradingScale maps grade tokens to point values on a named scale.
type GradingScale struct {
	Name         string             `json:"name"`
	MaxGPA       float64            `json:"max_gpa"`
	Scale        map[string]float64 `json:"scale"`
	PassingGrade float64            `json:"passing_grade"`
	Description  string             `json:"description"`
}

// Points converts a grade token to its point value. Letter tokens are
// case insensitive. Unknown tokens map to 0.0; callers that care should
// check Valid first.
func (s GradingScale) Points(token string) float64 {
	return s.Scale[strings.ToUpper(token)]
}

// Valid reports whether the token belongs to the scale.
func (s GradingScale) Valid(token string) bool {
	_, ok := s.Scale[strings.ToUpper(token)]
	return ok
}

// LetterForGPA maps a point average back onto its double-letter band,
// AA from 3.75 down to FF below 0.25.
func LetterForGPA(gpa float64) string {
	switch {
	case gpa >= 3.75:
		return "AA"
	case gpa >= 3.25:
		return "BA"
	case gpa >= 2.75:
		return "BB"
	case gpa >= 2.25:
		return "CB"
	case gpa >= 1.75:
		return "CC"
	case gpa >= 1.25:
		return "DC"
	case gpa >= 0.75:
		return "DD"
	case gpa >= 0.25:
		return "FD"
	default:
		return "FF"
	}
}

// DefaultScaleName is used when neither the profile nor the request names a scale.
const DefaultScaleName = "4.0 double letter"

var gradingScales = []GradingScale{
	{
		Name:   "4.0 double letter",
		MaxGPA: 4.0,
		Scale: map[string]float64{
			"AA": 4.0, "BA": 3.5, "BB": 3.0, "CB": 2.5, "CC": 2.0,
			"DC": 1.5, "DD": 1.0, "FD": 0.5, "FF": 0.0,
		},
		PassingGrade: 2.0,
		Description:  "4.0 scale with double-letter grades (AA, BA, BB, ...)",
	},
	{
		Name:   "4.0 single letter",
		MaxGPA: 4.0,
		Scale: map[string]float64{
			"A": 4.0, "B": 3.0, "C": 2.0, "D": 1.0, "F": 0.0,
		},
		PassingGrade: 2.0,
		Description:  "4.0 scale with single-letter grades (A, B, C, D, F)",
	},
	{
		Name:   "4.0 plus/minus",
		MaxGPA: 4.0,
		Scale: map[string]float64{
			"A+": 4.0, "A": 4.0, "A-": 3.7, "B+": 3.3, "B": 3.0, "B-": 2.7,
			"C+": 2.3, "C": 2.0, "C-": 1.7, "D+": 1.3, "D": 1.0, "F": 0.0,
		},
		PassingGrade: 2.0,
		Description:  "4.0 scale with plus/minus grades (A+, A, A-, ...)",
	},
	{
		Name:   "5.0 numeric",
		MaxGPA: 5.0,
		Scale: map[string]float64{
			"5": 5.0, "4": 4.0, "3": 3.0, "2": 2.0, "1": 1.0, "0": 0.0,
		},
		PassingGrade: 2.5,
		Description:  "5.0 scale with numeric grades (5, 4, 3, 2, 1, 0)",
	},
	{
		Name:   "percentage",
		MaxGPA: 100.0,
		Scale: map[string]float64{
			"90-100": 4.0, "85-89": 3.5, "80-84": 3.0, "75-79": 2.5,
			"70-74": 2.0, "65-69": 1.5, "60-64": 1.0, "50-59": 0.5, "0-49": 0.0,
		},
		PassingGrade: 60.0,
		Description:  "100-point scale with percentage bands",
	},
}

// GradingScales returns the built-in scale catalog.
func GradingScales() []GradingScale {
	return gradingScales
}

// ScaleByName looks up a grading scale by name.
func ScaleByName(name string) (GradingScale, bool) {
	for _, s := range gradingScales {
		if s.Name == name {
			return s, true
		}
	}
	return GradingScale{}, false
}
