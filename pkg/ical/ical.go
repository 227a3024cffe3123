package ical

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimeLayout is the basic iCalendar local timestamp format.
const TimeLayout = "20060102T150405"

// Event is a single VEVENT block. A zero AlarmMinutes suppresses the
// VALARM sub-block; an empty RRule produces a one-off event.
type Event struct {
	UID          string
	Summary      string
	Description  string
	Location     string
	Start        time.Time
	End          time.Time
	RRule        string
	AlarmMinutes int
	AlarmText    string
}

// Calendar is a VCALENDAR envelope around one or more events.
type Calendar struct {
	ProdID string
	Events []Event
}

// NewUID builds an event UID from the start timestamp and a random suffix.
func NewUID(start time.Time) string {
	return fmt.Sprintf("%s-%s@dersly", start.Format(TimeLayout), uuid.NewString())
}

// EscapeText escapes backslashes, semicolons, commas and raw newlines per
// the iCalendar TEXT grammar. It must be applied to summary, description
// and location values only, never to date or rule tokens.
func EscapeText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, ";", `\;`)
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, "\r\n", `\n`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}

// Render serialises the calendar with CRLF line endings.
func (c Calendar) Render() string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + c.ProdID,
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
	}
	stamp := time.Now().UTC().Format(TimeLayout) + "Z"
	for _, e := range c.Events {
		lines = append(lines, e.render(stamp)...)
	}
	lines = append(lines, "END:VCALENDAR")
	return strings.Join(lines, "\r\n") + "\r\n"
}

func (e Event) render(stamp string) []string {
	uid := e.UID
	if uid == "" {
		uid = NewUID(e.Start)
	}
	end := e.End
	if end.IsZero() {
		end = e.Start.Add(time.Hour)
	}

	lines := []string{
		"BEGIN:VEVENT",
		"UID:" + uid,
		"DTSTAMP:" + stamp,
		"DTSTART:" + e.Start.Format(TimeLayout),
		"DTEND:" + end.Format(TimeLayout),
	}
	if e.RRule != "" {
		lines = append(lines, "RRULE:"+e.RRule)
	}
	lines = append(lines,
		"SUMMARY:"+EscapeText(e.Summary),
		"DESCRIPTION:"+EscapeText(e.Description),
		"LOCATION:"+EscapeText(e.Location),
		"STATUS:CONFIRMED",
		"SEQUENCE:0",
	)
	if e.AlarmMinutes > 0 {
		alarmText := e.AlarmText
		if alarmText == "" {
			alarmText = "Reminder: " + e.Summary
		}
		lines = append(lines,
			"BEGIN:VALARM",
			fmt.Sprintf("TRIGGER:-PT%dM", e.AlarmMinutes),
			"ACTION:DISPLAY",
			"DESCRIPTION:"+EscapeText(alarmText),
			"END:VALARM",
		)
	}
	lines = append(lines, "END:VEVENT")
	return lines
}
