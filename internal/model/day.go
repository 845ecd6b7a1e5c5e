// Package model defines the venue directory's data documents and value types.
package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Day is a canonical lowercase day-of-week name.
type Day string

const (
	Monday    Day = "monday"
	Tuesday   Day = "tuesday"
	Wednesday Day = "wednesday"
	Thursday  Day = "thursday"
	Friday    Day = "friday"
	Saturday  Day = "saturday"
	Sunday    Day = "sunday"
)

// DayAny is the filter sentinel meaning "any day".
const DayAny Day = "all"

// Days is the canonical Monday to Sunday sequence.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var dayTitle = cases.Title(language.English)

// ParseDay normalises s and reports whether it names a canonical day or the any sentinel.
func ParseDay(s string) (Day, bool) {
	d := Day(strings.ToLower(strings.TrimSpace(s)))
	if d == DayAny || d == "" {
		return DayAny, true
	}
	if d.Valid() {
		return d, true
	}
	return "", false
}

// Valid reports whether d is one of the seven canonical days.
func (d Day) Valid() bool {
	return d.Index() >= 0
}

// Index returns the position of d within Days, or -1.
func (d Day) Index() int {
	for i, c := range Days {
		if c == d {
			return i
		}
	}
	return -1
}

// DisplayName returns the title-cased day, or "All Days" for the sentinel.
func (d Day) DisplayName() string {
	if d == DayAny {
		return "All Days"
	}
	return dayTitle.String(string(d))
}
