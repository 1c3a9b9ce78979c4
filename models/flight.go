package models

import "time"

// RawFlight is the text scraped from one flight card.
type RawFlight struct {
	FlightNumber  string
	Airline       string
	Departure     string
	Arrival       string
	Duration      string
	Stops         string
	PriceEconomy  string
	PriceBusiness string
	Source        string
	SourceURL     string
	ScrapedAt     time.Time
}

// FlightRoute is the canonical flight record. Rows for one route and date
// are replaced as a set on every scrape.
type FlightRoute struct {
	ID            string    `json:"id"`
	FlightNumber  string    `json:"flightNumber"`
	Airline       string    `json:"airline"`
	AirlineCode   string    `json:"airlineCode"`
	FromAirport   string    `json:"fromAirport"`
	FromCity      string    `json:"fromCity"`
	ToAirport     string    `json:"toAirport"`
	ToCity        string    `json:"toCity"`
	DepartureTime string    `json:"departureTime"`
	ArrivalTime   string    `json:"arrivalTime"`
	Duration      string    `json:"duration"`
	Stops         int       `json:"stops"`
	PriceEconomy  int       `json:"priceEconomy"`
	PriceBusiness *int      `json:"priceBusiness"`
	FlightDate    time.Time `json:"flightDate"`
	Source        string    `json:"source"`
	SourceURL     string    `json:"sourceUrl"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
}

// FlightKey is the natural key of a flight.
type FlightKey struct {
	FlightNumber string
	Airline      string
	FromAirport  string
	ToAirport    string
	FlightDate   string
}

// Key returns the natural key of f.
func (f *FlightRoute) Key() FlightKey {
	return FlightKey{
		FlightNumber: f.FlightNumber,
		Airline:      f.Airline,
		FromAirport:  f.FromAirport,
		ToAirport:    f.ToAirport,
		FlightDate:   f.FlightDate.Format(DateLayout),
	}
}

// DateLayout is the calendar-date format used for flight dates and cache keys.
const DateLayout = "2006-01-02"
