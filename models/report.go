package models

// FareReport summarizes the fares of one searched route.
type FareReport struct {
	Domain    Domain
	Route     string
	Total     int
	Priced    int
	Generated int
	MinFare   int
	MaxFare   int
	AvgFare   float64
	Cheapest  string
	ByKind    map[string]int
}
