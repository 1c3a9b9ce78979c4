package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

//go:embed selectors.yaml
var defaultSelectors []byte

// Selectors holds the prioritized selector lists used to read rendered
// train and flight pages.
type Selectors struct {
	Trains  TrainSelectors  `yaml:"trains"`
	Flights FlightSelectors `yaml:"flights"`
}

// TrainSelectors locate train cards and their fields.
type TrainSelectors struct {
	WaitFor   string              `yaml:"wait_for"`
	Listing   []string            `yaml:"listing"`
	Number    []string            `yaml:"number"`
	Name      []string            `yaml:"name"`
	Departure []string            `yaml:"departure"`
	Arrival   []string            `yaml:"arrival"`
	Duration  []string            `yaml:"duration"`
	Days      []string            `yaml:"days"`
	Prices    TrainPriceSelectors `yaml:"prices"`
}

// TrainPriceSelectors locate the fare of each class.
type TrainPriceSelectors struct {
	General []string `yaml:"general"`
	Sleeper []string `yaml:"sleeper"`
	AC3     []string `yaml:"ac3"`
	AC2     []string `yaml:"ac2"`
	AC1     []string `yaml:"ac1"`
}

// FlightSelectors locate flight cards and their fields. Times yields the
// departure and arrival as its first two matches.
type FlightSelectors struct {
	WaitFor      string   `yaml:"wait_for"`
	Listing      []string `yaml:"listing"`
	FlightNumber []string `yaml:"flight_number"`
	Airline      []string `yaml:"airline"`
	Times        []string `yaml:"times"`
	Duration     []string `yaml:"duration"`
	Price        []string `yaml:"price"`
	Stops        []string `yaml:"stops"`
}

// DefaultSelectors returns the embedded selector set.
func DefaultSelectors() *Selectors {
	s := &Selectors{}
	if err := yaml.Unmarshal(defaultSelectors, s); err != nil {
		panic(fmt.Sprintf("config: embedded selectors: %v", err))
	}
	return s
}

// LoadSelectors returns the embedded selectors overlaid with the lists in
// path. An empty path yields the defaults.
func LoadSelectors(path string) (*Selectors, error) {
	s := DefaultSelectors()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("selectors: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("selectors: parse %q: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("selectors: %q: %w", path, err)
	}
	return s, nil
}

// Validate checks that both sources have at least one listing selector.
func (s *Selectors) Validate() error {
	var errs []error
	if len(s.Trains.Listing) == 0 {
		errs = append(errs, errors.New("trains.listing is empty"))
	}
	if len(s.Flights.Listing) == 0 {
		errs = append(errs, errors.New("flights.listing is empty"))
	}
	return errors.Join(errs...)
}
