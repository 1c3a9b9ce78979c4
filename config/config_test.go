package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FLIGHT_CACHE_TTL", "")
	t.Setenv("PAGE_DELAY_MIN", "")
	cfg := Load()

	if cfg.FlightTTL != 6*time.Hour || cfg.TrainTTL != 12*time.Hour {
		t.Errorf("TTLs = %v/%v; want 6h/12h", cfg.FlightTTL, cfg.TrainTTL)
	}
	if cfg.PageDelayMin != 1500*time.Millisecond {
		t.Errorf("PageDelayMin = %v; want 1.5s", cfg.PageDelayMin)
	}
}

func TestGetEnvDurationFormats(t *testing.T) {
	t.Setenv("TEST_DURATION", "90s")
	if got := getEnvDuration("TEST_DURATION", time.Second); got != 90*time.Second {
		t.Errorf("90s parsed as %v", got)
	}
	t.Setenv("TEST_DURATION", "1500")
	if got := getEnvDuration("TEST_DURATION", time.Second); got != 1500*time.Millisecond {
		t.Errorf("1500 parsed as %v", got)
	}
	t.Setenv("TEST_DURATION", "soon")
	if got := getEnvDuration("TEST_DURATION", time.Second); got != time.Second {
		t.Errorf("invalid value should fall back, got %v", got)
	}
}

func TestValidate(t *testing.T) {
	cfg := Load()
	cfg.StoreBackend = "memory"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	cfg.StoreBackend = "mongo"
	cfg.PageDelayMax = 0
	cfg.PageDelayMin = time.Second
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation errors")
	}
}

func TestDefaultSelectors(t *testing.T) {
	s := DefaultSelectors()
	if len(s.Trains.Listing) != 6 || s.Trains.Listing[0] != ".train-item" {
		t.Errorf("train listing selectors = %v", s.Trains.Listing)
	}
	if len(s.Flights.Listing) == 0 || len(s.Trains.Prices.AC3) == 0 {
		t.Error("embedded selectors incomplete")
	}
}

func TestLoadSelectorsOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selectors.yaml")
	override := "trains:\n  listing:\n    - '.new-train-card'\n"
	if err := os.WriteFile(path, []byte(override), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSelectors(path)
	if err != nil {
		t.Fatalf("LoadSelectors: %v", err)
	}
	if len(s.Trains.Listing) != 1 || s.Trains.Listing[0] != ".new-train-card" {
		t.Errorf("override not applied: %v", s.Trains.Listing)
	}
	if len(s.Trains.Name) == 0 || len(s.Flights.Listing) == 0 {
		t.Error("fields absent from the override should keep their defaults")
	}
}
