// Package extract holds the pure text parsers shared by the fetchers and the
// normalizer. Nothing in here performs I/O.
package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// priceNoiseRegexp matches currency markers, separators and whitespace
	priceNoiseRegexp = regexp.MustCompile(`(?i)₹|rs\.?|inr|,|\s`)
	leadingIntRegexp = regexp.MustCompile(`^-?\d+`)
)

// ParsePrice reads a rupee amount such as "₹ 1,23,456". Empty input, the
// "-" and "N/A" placeholders and text without a leading number report false.
func ParsePrice(text string) (int, bool) {
	text = strings.TrimSpace(text)
	if text == "" || text == "-" || strings.EqualFold(text, "N/A") {
		return 0, false
	}

	cleaned := priceNoiseRegexp.ReplaceAllString(text, "")
	match := leadingIntRegexp.FindString(cleaned)
	if match == "" {
		return 0, false
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FormatPrice renders p with a rupee sign and Indian digit grouping.
func FormatPrice(p int) string {
	sign := ""
	if p < 0 {
		sign = "-"
		p = -p
	}
	return sign + "₹" + groupIndian(strconv.Itoa(p))
}

// groupIndian places a comma before the last three digits and then after
// every two: 1234567 -> 12,34,567.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(groups, ",") + "," + tail
}
