package extract

import (
	"fmt"
	"regexp"
	"strconv"
)

var (
	hoursRegexp   = regexp.MustCompile(`(?i)(\d+)\s*h`)
	minutesRegexp = regexp.MustCompile(`(?i)(\d+)\s*m`)
	clockRegexp   = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
)

// ParseDuration sums the hour and minute tokens of texts like "17h 00m",
// "5h" or "45m". A missing token contributes zero.
func ParseDuration(text string) int {
	total := 0
	if m := hoursRegexp.FindStringSubmatch(text); m != nil {
		h, _ := strconv.Atoi(m[1])
		total += h * 60
	}
	if m := minutesRegexp.FindStringSubmatch(text); m != nil {
		mins, _ := strconv.Atoi(m[1])
		total += mins
	}
	return total
}

// FormatDuration renders minutes as "17h 05m".
func FormatDuration(minutes int) string {
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}

// CleanTime returns the first clock time in text as HH:MM, or the trimmed
// text when none is present.
func CleanTime(text string) string {
	m := clockRegexp.FindStringSubmatch(text)
	if m == nil {
		return normaliseSpace(text)
	}
	h, _ := strconv.Atoi(m[1])
	return fmt.Sprintf("%02d:%s", h, m[2])
}

// ClockMinutes converts "HH:MM" to minutes after midnight.
func ClockMinutes(hhmm string) (int, bool) {
	m := clockRegexp.FindStringSubmatch(hhmm)
	if m == nil {
		return 0, false
	}
	h, _ := strconv.Atoi(m[1])
	mins, _ := strconv.Atoi(m[2])
	if h > 23 || mins > 59 {
		return 0, false
	}
	return h*60 + mins, true
}
