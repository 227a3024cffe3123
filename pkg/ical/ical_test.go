package ical

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSingleEvent(t *testing.T) {
	start := time.Date(2025, 5, 10, 13, 0, 0, 0, time.Local)
	cal := Calendar{
		ProdID: "-//Dersly//Student Planner//EN",
		Events: []Event{{
			Summary:      "Exam: Data Structures",
			Description:  "Final exam",
			Location:     "Campus",
			Start:        start,
			End:          start.Add(time.Hour),
			AlarmMinutes: 60,
		}},
	}

	out := cal.Render()

	require.Equal(t, 1, strings.Count(out, "BEGIN:VEVENT"))
	require.Equal(t, 1, strings.Count(out, "END:VEVENT"))
	assert.Contains(t, out, "DTSTART:20250510T130000")
	assert.Contains(t, out, "DTEND:20250510T140000")
	assert.Contains(t, out, "TRIGGER:-PT60M")
	assert.Contains(t, out, "PRODID:-//Dersly//Student Planner//EN")
	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(out, "END:VCALENDAR\r\n"))
}

func TestRenderDefaultsEndToStartPlusHour(t *testing.T) {
	start := time.Date(2025, 1, 2, 9, 30, 0, 0, time.Local)
	cal := Calendar{ProdID: "-//Test//EN", Events: []Event{{Summary: "Lecture", Start: start}}}

	out := cal.Render()

	assert.Contains(t, out, "DTEND:20250102T103000")
}

func TestRenderOmitsAlarmWithoutLeadTime(t *testing.T) {
	cal := Calendar{ProdID: "-//Test//EN", Events: []Event{{Summary: "x", Start: time.Now()}}}

	out := cal.Render()

	assert.NotContains(t, out, "BEGIN:VALARM")
}

func TestEscapeText(t *testing.T) {
	assert.Equal(t, `a\,b\;c\\d`, EscapeText(`a,b;c\d`))
	assert.Equal(t, `line1\nline2`, EscapeText("line1\nline2"))
}

func TestEscapeNotAppliedToRuleTokens(t *testing.T) {
	start := time.Date(2025, 3, 3, 9, 0, 0, 0, time.Local)
	cal := Calendar{
		ProdID: "-//Test//EN",
		Events: []Event{{
			Summary: "Weekly, with comma",
			Start:   start,
			RRule:   "FREQ=WEEKLY;UNTIL=20250609T090000",
		}},
	}

	out := cal.Render()

	assert.Contains(t, out, "RRULE:FREQ=WEEKLY;UNTIL=20250609T090000")
	assert.Contains(t, out, `SUMMARY:Weekly\, with comma`)
}

func TestNewUIDEmbedsStart(t *testing.T) {
	start := time.Date(2025, 5, 10, 13, 0, 0, 0, time.Local)
	uid := NewUID(start)

	assert.True(t, strings.HasPrefix(uid, "20250510T130000-"))
	assert.True(t, strings.HasSuffix(uid, "@dersly"))
	assert.NotEqual(t, uid, NewUID(start))
}
