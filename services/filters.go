package services

import (
	"slices"
	"sort"
	"strings"

	"travel-scraper/extract"
	"travel-scraper/models"
)

// filterTrains applies the search filters. A weekday, when set, keeps only
// trains running that day. Trains with no fare pass the price filter.
func filterTrains(trains []*models.TrainRoute, f models.TrainFilters, weekday string) []*models.TrainRoute {
	out := make([]*models.TrainRoute, 0, len(trains))
	for _, t := range trains {
		if f.TrainType != "" && !strings.EqualFold(string(t.TrainType), string(f.TrainType)) {
			continue
		}
		if !inWindow(t.DepartureTime, f.DepartureAfter, f.DepartureBefore) {
			continue
		}
		if f.MaxPrice != nil {
			if low, ok := t.LowestFare(); ok && low > *f.MaxPrice {
				continue
			}
		}
		if weekday != "" && !slices.Contains(t.RunningDays, weekday) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func sortTrains(trains []*models.TrainRoute, key models.SortKey) {
	switch key {
	case models.SortPrice:
		sort.SliceStable(trains, func(i, j int) bool {
			a, aok := trains[i].LowestFare()
			b, bok := trains[j].LowestFare()
			return lessKnown(a, aok, b, bok)
		})
	case models.SortDuration:
		sort.SliceStable(trains, func(i, j int) bool {
			a, b := extract.ParseDuration(trains[i].Duration), extract.ParseDuration(trains[j].Duration)
			return lessKnown(a, a > 0, b, b > 0)
		})
	default:
		sort.SliceStable(trains, func(i, j int) bool {
			a, aok := extract.ClockMinutes(trains[i].DepartureTime)
			b, bok := extract.ClockMinutes(trains[j].DepartureTime)
			return lessKnown(a, aok, b, bok)
		})
	}
}

// filterFlights applies the search filters. Airline matches the name or
// the carrier code. A zero economy fare is unknown and passes the price
// filter.
func filterFlights(flights []*models.FlightRoute, f models.FlightFilters) []*models.FlightRoute {
	out := make([]*models.FlightRoute, 0, len(flights))
	for _, fl := range flights {
		if f.Airline != "" && !strings.EqualFold(fl.Airline, f.Airline) && !strings.EqualFold(fl.AirlineCode, f.Airline) {
			continue
		}
		if f.Stops != nil && fl.Stops != *f.Stops {
			continue
		}
		if f.MaxPrice != nil && fl.PriceEconomy > 0 && fl.PriceEconomy > *f.MaxPrice {
			continue
		}
		if !inWindow(fl.DepartureTime, f.DepartureAfter, f.DepartureBefore) {
			continue
		}
		out = append(out, fl)
	}
	return out
}

func sortFlights(flights []*models.FlightRoute, key models.SortKey) {
	switch key {
	case models.SortDuration:
		sort.SliceStable(flights, func(i, j int) bool {
			a, b := extract.ParseDuration(flights[i].Duration), extract.ParseDuration(flights[j].Duration)
			return lessKnown(a, a > 0, b, b > 0)
		})
	case models.SortDeparture:
		sort.SliceStable(flights, func(i, j int) bool {
			a, aok := extract.ClockMinutes(flights[i].DepartureTime)
			b, bok := extract.ClockMinutes(flights[j].DepartureTime)
			return lessKnown(a, aok, b, bok)
		})
	default:
		sort.SliceStable(flights, func(i, j int) bool {
			a, b := flights[i].PriceEconomy, flights[j].PriceEconomy
			return lessKnown(a, a > 0, b, b > 0)
		})
	}
}

func sortListings(listings []*models.ClassifiedListing, key models.SortKey) {
	if key == models.SortPrice {
		sort.SliceStable(listings, func(i, j int) bool {
			a, b := listings[i].PriceRaw, listings[j].PriceRaw
			return lessKnown(a, a > 0, b, b > 0)
		})
		return
	}
	sort.SliceStable(listings, func(i, j int) bool {
		return listings[i].PublishedAt.After(listings[j].PublishedAt)
	})
}

// inWindow reports whether the HH:MM departure lies within [after, before].
// An unreadable departure only passes when no bound is set.
func inWindow(departure, after, before string) bool {
	if after == "" && before == "" {
		return true
	}
	dep, ok := extract.ClockMinutes(departure)
	if !ok {
		return false
	}
	if lo, ok := extract.ClockMinutes(after); ok && dep < lo {
		return false
	}
	if hi, ok := extract.ClockMinutes(before); ok && dep > hi {
		return false
	}
	return true
}

// lessKnown orders known values ascending with unknown values last.
func lessKnown[N int | int64](a N, aok bool, b N, bok bool) bool {
	if aok != bok {
		return aok
	}
	return aok && a < b
}
