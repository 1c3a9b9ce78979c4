package lookup

// Route is a pair of free-text city names.
type Route struct {
	From string
	To   string
}

// PopularTrainRoutes are warmed by the CLI warm mode.
var PopularTrainRoutes = []Route{
	{"new delhi", "mumbai"},
	{"new delhi", "kolkata"},
	{"new delhi", "bangalore"},
	{"new delhi", "chennai"},
	{"mumbai", "bangalore"},
	{"mumbai", "chennai"},
	{"mumbai", "kolkata"},
	{"chennai", "bangalore"},
	{"hyderabad", "bangalore"},
	{"new delhi", "jaipur"},
	{"new delhi", "lucknow"},
	{"new delhi", "varanasi"},
	{"new delhi", "ahmedabad"},
	{"pune", "mumbai"},
	{"hyderabad", "chennai"},
}

// PopularFlightRoutes are warmed by the CLI warm mode.
var PopularFlightRoutes = []Route{
	{"new delhi", "mumbai"},
	{"new delhi", "bangalore"},
	{"mumbai", "bangalore"},
	{"new delhi", "goa"},
	{"mumbai", "goa"},
	{"bangalore", "goa"},
	{"new delhi", "chennai"},
	{"mumbai", "chennai"},
	{"new delhi", "kolkata"},
	{"mumbai", "kolkata"},
	{"bangalore", "chennai"},
	{"hyderabad", "bangalore"},
	{"new delhi", "hyderabad"},
	{"mumbai", "hyderabad"},
	{"new delhi", "jaipur"},
}
