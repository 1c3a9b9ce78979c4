package models

import (
	"strconv"
	"strings"
	"time"
)

func (RawClassified) CSVHeader() []string {
	return []string{"id", "title", "category", "price", "price_raw", "city", "state", "rooms", "seller", "published_at", "scraped_at"}
}

func (r RawClassified) CSVRow() []string {
	return []string{
		r.ID, r.Title, r.CategoryName, r.PriceDisplay, strconv.FormatInt(r.PriceRaw, 10),
		r.City, r.State, r.Rooms, r.SellerName, r.PublishedAt, r.ScrapedAt.Format(time.RFC3339),
	}
}

func (RawTrain) CSVHeader() []string {
	return []string{"number", "name", "departure", "arrival", "duration", "days",
		"general", "sleeper", "3a", "2a", "1a", "source", "scraped_at"}
}

func (r RawTrain) CSVRow() []string {
	return []string{
		r.Number, r.Name, r.Departure, r.Arrival, r.Duration, r.Days,
		r.PriceGeneral, r.PriceSleeper, r.PriceAC3, r.PriceAC2, r.PriceAC1,
		r.Source, r.ScrapedAt.Format(time.RFC3339),
	}
}

func (RawFlight) CSVHeader() []string {
	return []string{"flight_number", "airline", "departure", "arrival", "duration", "stops",
		"economy", "business", "source", "scraped_at"}
}

func (r RawFlight) CSVRow() []string {
	return []string{
		r.FlightNumber, r.Airline, r.Departure, r.Arrival, r.Duration, strings.TrimSpace(r.Stops),
		r.PriceEconomy, r.PriceBusiness, r.Source, r.ScrapedAt.Format(time.RFC3339),
	}
}
