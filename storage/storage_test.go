package storage

import (
	"database/sql/driver"
	"encoding/csv"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/lib/pq"
)

func TestWrapErrClassifiesConnectionFailures(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		unavailable bool
		duplicate   bool
	}{
		{"connection exception", &pq.Error{Code: "08006"}, true, false},
		{"cannot connect now", &pq.Error{Code: "57P03"}, true, false},
		{"dial error", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, true, false},
		{"bad conn", fmt.Errorf("exec: %w", driver.ErrBadConn), true, false},
		{"unique violation", &pq.Error{Code: "23505"}, false, true},
		{"plain error", errors.New("syntax error"), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wrapErr("op", tt.err)
			if got := errors.Is(err, ErrUnavailable); got != tt.unavailable {
				t.Errorf("errors.Is(ErrUnavailable) = %v, want %v (%v)", got, tt.unavailable, err)
			}
			if got := errors.Is(err, ErrDuplicateKey); got != tt.duplicate {
				t.Errorf("errors.Is(ErrDuplicateKey) = %v, want %v (%v)", got, tt.duplicate, err)
			}
			if !errors.Is(err, tt.err) {
				t.Error("cause lost when wrapping")
			}
		})
	}
	if wrapErr("op", nil) != nil {
		t.Error("nil error wrapped")
	}
}

func TestSchemaColumns(t *testing.T) {
	for _, table := range []string{"train_routes", "flight_routes"} {
		start := strings.Index(schema, "CREATE TABLE IF NOT EXISTS "+table)
		if start < 0 {
			t.Fatalf("schema has no %s table", table)
		}
		ddl := schema[start : start+strings.Index(schema[start:], ");")]
		for _, col := range []string{"departure_time", "arrival_time", "duration"} {
			re := regexp.MustCompile(`(?m)^\s*` + col + `\s+TEXT\s`)
			if !re.MatchString(ddl) {
				t.Errorf("%s.%s is not TEXT", table, col)
			}
		}
	}

	want := []string{
		"ON flight_routes(flight_number, airline, from_airport, to_airport, flight_date)",
		"ADD COLUMN IF NOT EXISTS location_slug TEXT",
	}
	for _, w := range want {
		if !strings.Contains(schema, w) {
			t.Errorf("schema missing %q", w)
		}
	}
	if !strings.Contains(schema, "CREATE UNIQUE INDEX IF NOT EXISTS idx_flights_natural_key") {
		t.Error("flight natural key is not unique")
	}
}

func TestNullableConversions(t *testing.T) {
	n := 3
	if got := intPtr(nullInt(&n)); got == nil || *got != 3 {
		t.Errorf("round trip of 3 gave %v", got)
	}
	if intPtr(nullInt(nil)) != nil {
		t.Error("nil int did not stay nil")
	}
	s := "Furnished"
	if got := stringPtr(nullString(&s)); got == nil || *got != s {
		t.Errorf("round trip of %q gave %v", s, got)
	}
}

type row struct{ a, b string }

func (row) CSVHeader() []string {
	return []string{"a", "b"}
}

func (r row) CSVRow() []string {
	return []string{r.a, r.b}
}

func TestCSVSinkExport(t *testing.T) {
	dir := t.TempDir()
	sink := &CSVSink{Path: filepath.Join(dir, "out", "raw.csv"), Limit: 2}

	records := []CSVRecord{row{"1", "x"}, row{"2", "y"}, row{"3", "z"}}
	if err := sink.Export("trains", records); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(filepath.Join(dir, "out", "raw_trains.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	lines, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0][0] != "a" || lines[2][0] != "2" {
		t.Errorf("unexpected content: %v", lines)
	}

	if err := sink.Export("flights", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "out", "raw_flights.csv")); !os.IsNotExist(err) {
		t.Error("empty batch created a file")
	}
}
