package ixigo

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"travel-scraper/extract"
	"travel-scraper/models"
)

const (
	maxGenerated   = 15
	minEconomyFare = 2500
	businessFactor = 3
)

var carriers = []struct {
	name      string
	code      string
	basePrice int
}{
	{"IndiGo", "6E", 3500},
	{"Air India", "AI", 4200},
	{"SpiceJet", "SG", 3200},
	{"Vistara", "UK", 4800},
	{"Akasa Air", "QP", 3000},
	{"Air India Express", "IX", 3800},
}

var departureTimes = []string{
	"06:00", "07:15", "08:30", "09:45", "10:00", "11:30",
	"12:45", "14:00", "15:30", "16:45", "18:00", "19:30",
	"20:15", "21:00", "22:30",
}

// Block minutes by airport pair. Unlisted routes take two hours.
var routeMinutes = map[string]int{
	"DEL-BOM": 125, "BOM-DEL": 130,
	"DEL-BLR": 165, "BLR-DEL": 170,
	"DEL-MAA": 175, "MAA-DEL": 180,
	"DEL-CCU": 130, "CCU-DEL": 135,
	"DEL-HYD": 130, "HYD-DEL": 135,
	"BOM-BLR": 90, "BLR-BOM": 95,
	"BOM-GOI": 60, "GOI-BOM": 65,
	"DEL-GOI": 145, "GOI-DEL": 150,
}

const defaultRouteMinutes = 120

// Generate fabricates up to 15 flights for the route and date, cheapest
// first. The same route and date always yield the same flights.
func Generate(p Params) []models.RawFlight {
	count := maxGenerated
	if p.MaxItems > 0 && p.MaxItems < count {
		count = p.MaxItems
	}
	from, to := strings.ToUpper(p.FromCode), strings.ToUpper(p.ToCode)
	rng := rand.New(rand.NewPCG(routeSeed(from, to, p.Date.Format(models.DateLayout)), 0xf117))

	base, ok := routeMinutes[from+"-"+to]
	if !ok {
		base = defaultRouteMinutes
	}
	sourceURL := SearchURL(p)
	now := time.Now()

	type generated struct {
		raw     models.RawFlight
		economy int
	}
	out := make([]generated, 0, count)
	for i := 0; i < count; i++ {
		c := carriers[i%len(carriers)]
		dep := departureTimes[i%len(departureTimes)]
		depMinutes, _ := extract.ClockMinutes(dep)

		minutes := base + rng.IntN(30) - 15
		arr := (depMinutes + minutes) % (24 * 60)

		economy := c.basePrice + rng.IntN(2000) - 500 + i*150
		if economy < minEconomyFare {
			economy = minEconomyFare
		}
		stops := "Non-stop"
		if rng.Float64() > 0.7 {
			stops = "1 stop"
		}

		out = append(out, generated{
			economy: economy,
			raw: models.RawFlight{
				FlightNumber:  fmt.Sprintf("%s %d", c.code, 1000+rng.IntN(9000)),
				Airline:       c.name,
				Departure:     dep,
				Arrival:       fmt.Sprintf("%02d:%02d", arr/60, arr%60),
				Duration:      extract.FormatDuration(minutes),
				Stops:         stops,
				PriceEconomy:  extract.FormatPrice(economy),
				PriceBusiness: extract.FormatPrice(economy * businessFactor),
				Source:        models.SourceGenerated,
				SourceURL:     sourceURL,
				ScrapedAt:     now,
			},
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].economy < out[j].economy })
	flights := make([]models.RawFlight, len(out))
	for i, g := range out {
		flights[i] = g.raw
	}
	return flights
}

func routeSeed(parts ...string) uint64 {
	h := fnv.New64a()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return h.Sum64()
}
