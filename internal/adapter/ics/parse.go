package ics

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/couchcryptid/helpline-analytics/internal/domain"
)

// ICS date-time layouts. TZID-qualified local times are parsed as UTC; the
// feed carries whole-day festivals where sub-day precision does not matter.
const (
	layoutDate     = "20060102"
	layoutDateTime = "20060102T150405"
	layoutUTC      = "20060102T150405Z"
)

// vevent accumulates the properties of one VEVENT block during parsing.
type vevent struct {
	summary  string
	start    time.Time
	end      time.Time
	allDay   bool
	hasStart bool
	hasEnd   bool
}

// ParseCalendar reads an iCalendar document and returns its events as
// festival intervals in document order.
//
// All-day events (date-only DTSTART) use an exclusive DTEND in the source
// format; one day is subtracted to make the end inclusive. Timed events pass
// through unchanged. An interval that is still inverted afterwards is
// clamped to a single day by the domain constructor.
func ParseCalendar(r io.Reader) ([]domain.FestivalInterval, error) {
	var festivals []domain.FestivalInterval
	var current *vevent

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		raw := strings.TrimRight(scanner.Text(), "\r")
		// RFC 5545 line folding: a continuation line starts with a space or tab.
		if (strings.HasPrefix(raw, " ") || strings.HasPrefix(raw, "\t")) && len(lines) > 0 {
			lines[len(lines)-1] += raw[1:]
			continue
		}
		lines = append(lines, raw)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read calendar: %w", err)
	}

	sawCalendar := false
	for _, line := range lines {
		name, params, value := splitContentLine(line)
		switch name {
		case "BEGIN":
			switch value {
			case "VCALENDAR":
				sawCalendar = true
			case "VEVENT":
				current = &vevent{}
			}
		case "END":
			if value == "VEVENT" && current != nil {
				if f, ok := current.interval(); ok {
					festivals = append(festivals, f)
				}
				current = nil
			}
		case "SUMMARY":
			if current != nil {
				current.summary = unescapeText(value)
			}
		case "DTSTART":
			if current != nil {
				if t, allDay, err := parseICSTime(params, value); err == nil {
					current.start = t
					current.allDay = allDay
					current.hasStart = true
				}
			}
		case "DTEND":
			if current != nil {
				if t, _, err := parseICSTime(params, value); err == nil {
					current.end = t
					current.hasEnd = true
				}
			}
		}
	}

	if !sawCalendar {
		return nil, fmt.Errorf("not an iCalendar document")
	}
	return festivals, nil
}

// interval converts an accumulated VEVENT into a festival interval.
// Events without a parseable DTSTART are skipped; a missing DTEND means a
// single-day or instantaneous event, so end falls back to start.
func (v *vevent) interval() (domain.FestivalInterval, bool) {
	if !v.hasStart || v.summary == "" {
		return domain.FestivalInterval{}, false
	}

	end := v.end
	if !v.hasEnd {
		end = v.start
	} else if v.allDay {
		// Exclusive DTEND on date-only events: the day after the last day.
		end = end.AddDate(0, 0, -1)
	}

	return domain.NewFestivalInterval(v.summary, v.start, end), true
}

// splitContentLine splits "NAME;PARAM=V;...:value" into its parts.
func splitContentLine(line string) (name, params, value string) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return strings.ToUpper(line), "", ""
	}
	value = line[idx+1:]

	head := line[:idx]
	if semi := strings.Index(head, ";"); semi >= 0 {
		return strings.ToUpper(head[:semi]), head[semi+1:], value
	}
	return strings.ToUpper(head), "", value
}

// parseICSTime parses a DTSTART/DTEND value, reporting whether it was a
// date-only (all-day) value.
func parseICSTime(params, value string) (time.Time, bool, error) {
	value = strings.TrimSpace(value)

	if strings.Contains(strings.ToUpper(params), "VALUE=DATE") || len(value) == len(layoutDate) {
		t, err := time.Parse(layoutDate, value)
		return t, true, err
	}
	if t, err := time.Parse(layoutUTC, value); err == nil {
		return t, false, nil
	}
	t, err := time.Parse(layoutDateTime, value)
	return t, false, err
}

// unescapeText reverses RFC 5545 TEXT escaping for the characters that
// appear in event summaries.
func unescapeText(s string) string {
	replacer := strings.NewReplacer(`\n`, "\n", `\N`, "\n", `\,`, ",", `\;`, ";", `\\`, `\`)
	return strings.TrimSpace(replacer.Replace(s))
}
