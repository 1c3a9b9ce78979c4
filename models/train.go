package models

import "time"

// TrainType is the service class derived from a train's name.
type TrainType string

const (
	TrainRajdhani    TrainType = "Rajdhani"
	TrainShatabdi    TrainType = "Shatabdi"
	TrainDuronto     TrainType = "Duronto"
	TrainVandeBharat TrainType = "Vande Bharat"
	TrainGaribRath   TrainType = "Garib Rath"
	TrainHumsafar    TrainType = "Humsafar"
	TrainTejas       TrainType = "Tejas"
	TrainSuperfast   TrainType = "Superfast"
	TrainExpress     TrainType = "Express"
	TrainPassenger   TrainType = "Passenger"
)

// RawTrain is the text scraped from one train card.
type RawTrain struct {
	Number       string
	Name         string
	Departure    string
	Arrival      string
	Duration     string
	Days         string
	PriceGeneral string
	PriceSleeper string
	PriceAC3     string
	PriceAC2     string
	PriceAC1     string
	Source       string
	SourceURL    string
	ScrapedAt    time.Time
}

// TrainKey is the natural key of a TrainRoute. One train number may run
// several legs.
type TrainKey struct {
	Number      string
	FromStation string
	ToStation   string
}

// TrainRoute is the canonical train record.
type TrainRoute struct {
	TrainNumber   string    `json:"trainNumber"`
	TrainName     string    `json:"trainName"`
	TrainType     TrainType `json:"trainType"`
	FromStation   string    `json:"fromStation"`
	FromCity      string    `json:"fromCity"`
	ToStation     string    `json:"toStation"`
	ToCity        string    `json:"toCity"`
	DepartureTime string    `json:"departureTime"`
	ArrivalTime   string    `json:"arrivalTime"`
	Duration      string    `json:"duration"`
	RunningDays   []string  `json:"runningDays"`
	PriceGeneral  *int      `json:"priceGeneral"`
	PriceSleeper  *int      `json:"priceSleeper"`
	PriceAC3      *int      `json:"priceAC3"`
	PriceAC2      *int      `json:"priceAC2"`
	PriceAC1      *int      `json:"priceAC1"`
	Source        string    `json:"source"`
	SourceURL     string    `json:"sourceUrl"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Key returns the route's natural key.
func (t *TrainRoute) Key() TrainKey {
	return TrainKey{Number: t.TrainNumber, FromStation: t.FromStation, ToStation: t.ToStation}
}

// Fares returns the priced tiers in general, sleeper, 3A, 2A, 1A order.
func (t *TrainRoute) Fares() []int {
	var out []int
	for _, p := range []*int{t.PriceGeneral, t.PriceSleeper, t.PriceAC3, t.PriceAC2, t.PriceAC1} {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}

// LowestFare returns the cheapest priced tier.
func (t *TrainRoute) LowestFare() (int, bool) {
	fares := t.Fares()
	if len(fares) == 0 {
		return 0, false
	}
	low := fares[0]
	for _, f := range fares[1:] {
		if f < low {
			low = f
		}
	}
	return low, true
}
