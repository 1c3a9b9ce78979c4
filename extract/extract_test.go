package extract

import (
	"reflect"
	"testing"
	"time"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw    string
		want   int
		wantOK bool
	}{
		{"₹ 1,234", 1234, true},
		{"₹1,23,456", 123456, true},
		{"Rs. 540", 540, true},
		{"  2500 ", 2500, true},
		{"₹3,105 onwards", 3105, true},
		{"", 0, false},
		{"-", 0, false},
		{"N/A", 0, false},
		{"n/a", 0, false},
		{"Sold out", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParsePrice(tt.raw)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParsePrice(%q) = %d, %v; want %d, %v", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "₹0"},
		{999, "₹999"},
		{1000, "₹1,000"},
		{123456, "₹1,23,456"},
		{12345678, "₹1,23,45,678"},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.in); got != tt.want {
			t.Errorf("FormatPrice(%d) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestPriceRoundTrip(t *testing.T) {
	for _, p := range []int{0, 1, 99, 1000, 5500, 123456, 9876543, 2147483647} {
		got, ok := ParsePrice(FormatPrice(p))
		if !ok || got != p {
			t.Errorf("ParsePrice(FormatPrice(%d)) = %d, %v", p, got, ok)
		}
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"17h 00m", 1020},
		{"45m", 45},
		{"5h", 300},
		{"2h 5m", 125},
		{"1 hr 30 mins", 90},
		{"", 0},
		{"N/A", 0},
	}
	for _, tt := range tests {
		if got := ParseDuration(tt.raw); got != tt.want {
			t.Errorf("ParseDuration(%q) = %d; want %d", tt.raw, got, tt.want)
		}
	}
}

func TestDurationRoundTrip(t *testing.T) {
	for m := 0; m <= 3000; m += 7 {
		if got := ParseDuration(FormatDuration(m)); got != m {
			t.Errorf("ParseDuration(FormatDuration(%d)) = %d", m, got)
		}
	}
}

func TestParseRunningDays(t *testing.T) {
	all := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

	tests := []struct {
		raw  string
		want []string
	}{
		{"Daily", all},
		{"", all},
		{"Runs daily", all},
		{"Sun, Mon, Wed", []string{"Mon", "Wed", "Sun"}},
		{"M W F", []string{"Mon", "Wed", "Fri"}},
		{"Tu Th Sa", []string{"Tue", "Thu", "Sat"}},
		{"Tuesday Thursday", []string{"Tue", "Thu"}},
		{"Mon Mon mon", []string{"Mon"}},
		{"T S", all},
	}
	for _, tt := range tests {
		if got := ParseRunningDays(tt.raw); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseRunningDays(%q) = %v; want %v", tt.raw, got, tt.want)
		}
	}

	if !reflect.DeepEqual(ParseRunningDays("Daily"), ParseRunningDays("")) {
		t.Error(`ParseRunningDays("Daily") != ParseRunningDays("")`)
	}
}

func TestWeekdayAbbrev(t *testing.T) {
	// 2024-01-01 was a Monday
	monday := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, want := range Weekdays {
		if got := WeekdayAbbrev(monday.AddDate(0, 0, i)); got != want {
			t.Errorf("WeekdayAbbrev(+%d) = %q; want %q", i, got, want)
		}
	}
}

func TestCleanTime(t *testing.T) {
	tests := map[string]string{
		"Dep 6:05 NDLS": "06:05",
		"16:55":         "16:55",
		"  --  ":        "--",
		"":              "",
	}
	for in, want := range tests {
		if got := CleanTime(in); got != want {
			t.Errorf("CleanTime(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestClockMinutes(t *testing.T) {
	if m, ok := ClockMinutes("06:30"); !ok || m != 390 {
		t.Errorf("ClockMinutes(06:30) = %d, %v", m, ok)
	}
	if _, ok := ClockMinutes("25:00"); ok {
		t.Error("ClockMinutes(25:00) should fail")
	}
	if _, ok := ClockMinutes("soon"); ok {
		t.Error("ClockMinutes(soon) should fail")
	}
}

func TestParseStops(t *testing.T) {
	tests := map[string]int{
		"Non-Stop":       0,
		"":               0,
		"Direct":         0,
		"1 Stop":         1,
		"One stop":       1,
		"1 stop via BOM": 1,
		"2 Stops":        2,
		"10 stops":       2,
		"Stops: 0":       0,
		"0 stops":        0,
		"via BOM":        2,
	}
	for in, want := range tests {
		if got := ParseStops(in); got != want {
			t.Errorf("ParseStops(%q) = %d; want %d", in, got, want)
		}
	}
}

func TestTrainNumberAndName(t *testing.T) {
	if got := ExtractTrainNumber("12951 - Mumbai Rajdhani"); got != "12951" {
		t.Errorf("ExtractTrainNumber = %q", got)
	}
	if got := ExtractTrainNumber("no digits"); got != "" {
		t.Errorf("ExtractTrainNumber = %q; want empty", got)
	}
	if got := NormalizeTrainName("  Mumbai   Rajdhani (Exp)!  "); got != "Mumbai Rajdhani Exp" {
		t.Errorf("NormalizeTrainName = %q", got)
	}
}
