package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	trainNumberRegexp = regexp.MustCompile(`\d{4,5}`)
	trainNameNoise    = regexp.MustCompile(`[^\w\s-]`)
	stopsCountRegexp  = regexp.MustCompile(`\d+`)
)

// ExtractTrainNumber returns the first 4-5 digit run in text.
func ExtractTrainNumber(text string) string {
	return trainNumberRegexp.FindString(text)
}

// NormalizeTrainName drops punctuation other than hyphens and collapses
// whitespace.
func NormalizeTrainName(name string) string {
	return normaliseSpace(trainNameNoise.ReplaceAllString(name, ""))
}

// ParseStops maps a stops label to 0, 1 or 2 (two or more). A count in the
// label wins over keywords. An empty label is non-stop.
func ParseStops(text string) int {
	if m := stopsCountRegexp.FindString(text); m != "" {
		n, err := strconv.Atoi(m)
		if err != nil || n >= 2 {
			return 2
		}
		return n
	}
	lower := strings.ToLower(strings.TrimSpace(text))
	switch {
	case lower == "", strings.Contains(lower, "non"), strings.Contains(lower, "direct"):
		return 0
	case strings.Contains(lower, "one"):
		return 1
	default:
		return 2
	}
}

// NormaliseText strips surrounding whitespace and collapses internal runs.
func NormaliseText(s string) string {
	return normaliseSpace(s)
}

func normaliseSpace(s string) string {
	fields := strings.FieldsFunc(s, unicode.IsSpace)
	return strings.Join(fields, " ")
}
