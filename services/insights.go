package services

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"travel-scraper/extract"
	"travel-scraper/models"
	"travel-scraper/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// TrainReport summarizes trains by their lowest fare, counted per type.
func (s *InsightService) TrainReport(route string, trains []*models.TrainRoute) *models.FareReport {
	r := newReport(models.DomainTrains, route)
	var fares []fare
	for _, t := range trains {
		r.Total++
		r.ByKind[string(t.TrainType)]++
		if t.Source == models.SourceGenerated {
			r.Generated++
		}
		if low, ok := t.LowestFare(); ok {
			fares = append(fares, fare{amount: low, label: fmt.Sprintf("%s %s", t.TrainNumber, t.TrainName)})
		}
	}
	summarize(r, fares)
	return r
}

// FlightReport summarizes flights by economy fare, counted per airline.
func (s *InsightService) FlightReport(route string, flights []*models.FlightRoute) *models.FareReport {
	r := newReport(models.DomainFlights, route)
	var fares []fare
	for _, f := range flights {
		r.Total++
		r.ByKind[f.Airline]++
		if f.Source == models.SourceGenerated {
			r.Generated++
		}
		if f.PriceEconomy > 0 {
			fares = append(fares, fare{amount: f.PriceEconomy, label: strings.TrimSpace(f.Airline + " " + f.FlightNumber)})
		}
	}
	summarize(r, fares)
	return r
}

// ListingReport summarizes listings by asking price, counted per city.
func (s *InsightService) ListingReport(scope string, listings []*models.ClassifiedListing) *models.FareReport {
	r := newReport(models.DomainClassifieds, scope)
	var fares []fare
	for _, l := range listings {
		r.Total++
		if l.City != "" {
			r.ByKind[l.City]++
		}
		if l.PriceRaw > 0 && l.PriceRaw <= math.MaxInt32 {
			fares = append(fares, fare{amount: int(l.PriceRaw), label: l.Title})
		}
	}
	summarize(r, fares)
	return r
}

type fare struct {
	amount int
	label  string
}

func newReport(domain models.Domain, route string) *models.FareReport {
	return &models.FareReport{Domain: domain, Route: route, ByKind: make(map[string]int)}
}

func summarize(r *models.FareReport, fares []fare) {
	r.Priced = len(fares)
	if len(fares) == 0 {
		return
	}
	r.MinFare, r.MaxFare = fares[0].amount, fares[0].amount
	r.Cheapest = fares[0].label
	total := 0
	for _, f := range fares {
		total += f.amount
		if f.amount < r.MinFare {
			r.MinFare = f.amount
			r.Cheapest = f.label
		}
		if f.amount > r.MaxFare {
			r.MaxFare = f.amount
		}
	}
	r.AvgFare = round2(float64(total) / float64(len(fares)))
}

func (s *InsightService) Print(w io.Writer, r *models.FareReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  📊 %s FARES: %s\033[0m\n", strings.ToUpper(string(r.Domain)), r.Route)
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Records          : \033[1m%d\033[0m\n", r.Total)
	fmt.Fprintf(w, "  With a price     : \033[1m%d\033[0m\n", r.Priced)
	if r.Generated > 0 {
		fmt.Fprintf(w, "  Generated        : \033[1;31m%d\033[0m (upstream unavailable)\n", r.Generated)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Price Statistics\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.Priced > 0 {
		fmt.Fprintf(w, "  Average : \033[1;32m%s\033[0m\n", extract.FormatPrice(int(math.Round(r.AvgFare))))
		fmt.Fprintf(w, "  Minimum : \033[1;32m%s\033[0m  %s\n", extract.FormatPrice(r.MinFare), truncate(r.Cheapest, 36))
		fmt.Fprintf(w, "  Maximum : \033[1;32m%s\033[0m\n", extract.FormatPrice(r.MaxFare))
	} else {
		fmt.Fprintf(w, "  No price data available\n")
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Breakdown\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.ByKind) == 0 {
		fmt.Fprintf(w, "  Nothing to break down\n")
	} else {
		type kindCount struct {
			kind  string
			count int
		}
		var kinds []kindCount
		for k, c := range r.ByKind {
			kinds = append(kinds, kindCount{k, c})
		}
		sort.Slice(kinds, func(i, j int) bool {
			if kinds[i].count != kinds[j].count {
				return kinds[i].count > kinds[j].count
			}
			return kinds[i].kind < kinds[j].kind
		})
		for _, kc := range kinds {
			bar := strings.Repeat("█", kc.count)
			fmt.Fprintf(w, "  %-24s %s (%d)\n", truncate(kc.kind, 22), bar, kc.count)
		}
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
