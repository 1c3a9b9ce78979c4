package lookup

import "sort"

// StationInfo describes an Indian Railways station.
type StationInfo struct {
	Code  string
	City  string
	State string
}

var stations = map[string]StationInfo{
	"new delhi":         {"NDLS", "New Delhi", "Delhi"},
	"delhi":             {"DLI", "Delhi", "Delhi"},
	"delhi junction":    {"DLI", "Delhi", "Delhi"},
	"hazrat nizamuddin": {"NZM", "New Delhi", "Delhi"},
	"anand vihar":       {"ANVT", "New Delhi", "Delhi"},

	"mumbai":          {"CSTM", "Mumbai", "Maharashtra"},
	"mumbai central":  {"BCT", "Mumbai", "Maharashtra"},
	"mumbai cst":      {"CSTM", "Mumbai", "Maharashtra"},
	"dadar":           {"DR", "Mumbai", "Maharashtra"},
	"lokmanya tilak":  {"LTT", "Mumbai", "Maharashtra"},
	"kolkata":         {"HWH", "Kolkata", "West Bengal"},
	"howrah":          {"HWH", "Kolkata", "West Bengal"},
	"sealdah":         {"SDAH", "Kolkata", "West Bengal"},
	"chennai":         {"MAS", "Chennai", "Tamil Nadu"},
	"chennai central": {"MAS", "Chennai", "Tamil Nadu"},
	"chennai egmore":  {"MS", "Chennai", "Tamil Nadu"},

	"bangalore":     {"SBC", "Bangalore", "Karnataka"},
	"bengaluru":     {"SBC", "Bangalore", "Karnataka"},
	"yesvantpur":    {"YPR", "Bangalore", "Karnataka"},
	"ksr bangalore": {"SBC", "Bangalore", "Karnataka"},
	"hyderabad":     {"HYB", "Hyderabad", "Telangana"},
	"secunderabad":  {"SC", "Hyderabad", "Telangana"},
	"pune":          {"PUNE", "Pune", "Maharashtra"},
	"ahmedabad":     {"ADI", "Ahmedabad", "Gujarat"},
	"jaipur":        {"JP", "Jaipur", "Rajasthan"},

	"lucknow":          {"LKO", "Lucknow", "Uttar Pradesh"},
	"lucknow junction": {"LJN", "Lucknow", "Uttar Pradesh"},
	"patna":            {"PNBE", "Patna", "Bihar"},
	"varanasi":         {"BSB", "Varanasi", "Uttar Pradesh"},
	"goa":              {"MAO", "Madgaon", "Goa"},
	"madgaon":          {"MAO", "Madgaon", "Goa"},
	"bhopal":           {"BPL", "Bhopal", "Madhya Pradesh"},
	"chandigarh":       {"CDG", "Chandigarh", "Chandigarh"},
	"amritsar":         {"ASR", "Amritsar", "Punjab"},
	"guwahati":         {"GHY", "Guwahati", "Assam"},

	"thiruvananthapuram": {"TVC", "Thiruvananthapuram", "Kerala"},
	"trivandrum":         {"TVC", "Thiruvananthapuram", "Kerala"},
	"kochi":              {"ERS", "Kochi", "Kerala"},
	"ernakulam":          {"ERS", "Kochi", "Kerala"},
	"coimbatore":         {"CBE", "Coimbatore", "Tamil Nadu"},
	"mysore":             {"MYS", "Mysore", "Karnataka"},
	"mysuru":             {"MYS", "Mysore", "Karnataka"},
	"nagpur":             {"NGP", "Nagpur", "Maharashtra"},
	"indore":             {"INDB", "Indore", "Madhya Pradesh"},
	"kanpur":             {"CNB", "Kanpur", "Uttar Pradesh"},
	"agra":               {"AGC", "Agra", "Uttar Pradesh"},
	"agra cantt":         {"AGC", "Agra", "Uttar Pradesh"},

	"jammu":         {"JAT", "Jammu", "Jammu & Kashmir"},
	"dehradun":      {"DDN", "Dehradun", "Uttarakhand"},
	"haridwar":      {"HW", "Haridwar", "Uttarakhand"},
	"ranchi":        {"RNC", "Ranchi", "Jharkhand"},
	"visakhapatnam": {"VSKP", "Visakhapatnam", "Andhra Pradesh"},
	"vizag":         {"VSKP", "Visakhapatnam", "Andhra Pradesh"},
	"vijayawada":    {"BZA", "Vijayawada", "Andhra Pradesh"},
	"surat":         {"ST", "Surat", "Gujarat"},
	"vadodara":      {"BRC", "Vadodara", "Gujarat"},
	"baroda":        {"BRC", "Vadodara", "Gujarat"},
}

// Station looks up a station by city or station name.
func Station(name string) (StationInfo, bool) {
	s, ok := stations[Normalize(name)]
	return s, ok
}

// StationNames returns every name Station accepts, sorted.
func StationNames() []string {
	return sortedKeys(stations)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
