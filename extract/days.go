package extract

import (
	"regexp"
	"strings"
	"time"
)

// Weekdays in canonical order.
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

var dayTokens = map[string]string{
	"monday": "Mon", "mon": "Mon", "m": "Mon",
	"tuesday": "Tue", "tues": "Tue", "tue": "Tue", "tu": "Tue",
	"wednesday": "Wed", "wed": "Wed", "w": "Wed",
	"thursday": "Thu", "thurs": "Thu", "thur": "Thu", "thu": "Thu", "th": "Thu",
	"friday": "Fri", "fri": "Fri", "f": "Fri",
	"saturday": "Sat", "sat": "Sat", "sa": "Sat",
	"sunday": "Sun", "sun": "Sun", "su": "Sun",
}

var letterRunRegexp = regexp.MustCompile(`[a-z]+`)

// ParseRunningDays reads a running-days string into weekday abbreviations in
// Mon..Sun order. Empty text, "daily" and text naming no weekday mean every
// day. Each word is matched whole, so the bare "T" and "S" stay ambiguous and
// are ignored.
func ParseRunningDays(text string) []string {
	words := letterRunRegexp.FindAllString(strings.ToLower(text), -1)

	found := make(map[string]bool)
	for _, w := range words {
		if w == "daily" {
			return allDays()
		}
		if day, ok := dayTokens[w]; ok {
			found[day] = true
		}
	}
	if len(found) == 0 {
		return allDays()
	}

	days := make([]string, 0, len(found))
	for _, d := range Weekdays {
		if found[d] {
			days = append(days, d)
		}
	}
	return days
}

// WeekdayAbbrev returns the abbreviation ParseRunningDays uses for t's day.
func WeekdayAbbrev(t time.Time) string {
	// time.Weekday starts at Sunday
	return Weekdays[(int(t.Weekday())+6)%7]
}

func allDays() []string {
	return append([]string(nil), Weekdays...)
}
