package lookup

import "strings"

// AirportInfo describes a domestic airport.
type AirportInfo struct {
	Code string
	Name string
	City string
}

var airports = map[string]AirportInfo{
	"new delhi":          {"DEL", "Indira Gandhi International Airport", "New Delhi"},
	"delhi":              {"DEL", "Indira Gandhi International Airport", "New Delhi"},
	"mumbai":             {"BOM", "Chhatrapati Shivaji International Airport", "Mumbai"},
	"bangalore":          {"BLR", "Kempegowda International Airport", "Bangalore"},
	"bengaluru":          {"BLR", "Kempegowda International Airport", "Bangalore"},
	"chennai":            {"MAA", "Chennai International Airport", "Chennai"},
	"kolkata":            {"CCU", "Netaji Subhas Chandra Bose International Airport", "Kolkata"},
	"hyderabad":          {"HYD", "Rajiv Gandhi International Airport", "Hyderabad"},
	"pune":               {"PNQ", "Pune Airport", "Pune"},
	"ahmedabad":          {"AMD", "Sardar Vallabhbhai Patel International Airport", "Ahmedabad"},
	"goa":                {"GOI", "Goa International Airport", "Goa"},
	"jaipur":             {"JAI", "Jaipur International Airport", "Jaipur"},
	"lucknow":            {"LKO", "Chaudhary Charan Singh International Airport", "Lucknow"},
	"kochi":              {"COK", "Cochin International Airport", "Kochi"},
	"thiruvananthapuram": {"TRV", "Trivandrum International Airport", "Thiruvananthapuram"},
	"trivandrum":         {"TRV", "Trivandrum International Airport", "Thiruvananthapuram"},
	"guwahati":           {"GAU", "Lokpriya Gopinath Bordoloi International Airport", "Guwahati"},
	"patna":              {"PAT", "Jay Prakash Narayan Airport", "Patna"},
	"varanasi":           {"VNS", "Lal Bahadur Shastri Airport", "Varanasi"},
	"chandigarh":         {"IXC", "Chandigarh International Airport", "Chandigarh"},
	"amritsar":           {"ATQ", "Sri Guru Ram Dass Jee International Airport", "Amritsar"},
	"bhopal":             {"BHO", "Raja Bhoj Airport", "Bhopal"},
	"indore":             {"IDR", "Devi Ahilyabai Holkar Airport", "Indore"},
	"nagpur":             {"NAG", "Dr. Babasaheb Ambedkar International Airport", "Nagpur"},
	"coimbatore":         {"CJB", "Coimbatore International Airport", "Coimbatore"},
	"visakhapatnam":      {"VTZ", "Visakhapatnam Airport", "Visakhapatnam"},
	"vizag":              {"VTZ", "Visakhapatnam Airport", "Visakhapatnam"},
	"srinagar":           {"SXR", "Sheikh ul-Alam International Airport", "Srinagar"},
	"dehradun":           {"DED", "Jolly Grant Airport", "Dehradun"},
	"ranchi":             {"IXR", "Birsa Munda Airport", "Ranchi"},
	"raipur":             {"RPR", "Swami Vivekananda Airport", "Raipur"},
	"surat":              {"STV", "Surat Airport", "Surat"},
	"vadodara":           {"BDQ", "Vadodara Airport", "Vadodara"},
	"mangalore":          {"IXE", "Mangalore International Airport", "Mangalore"},
	"madurai":            {"IXM", "Madurai Airport", "Madurai"},
	"tiruchirappalli":    {"TRZ", "Tiruchirappalli International Airport", "Tiruchirappalli"},
	"udaipur":            {"UDR", "Maharana Pratap Airport", "Udaipur"},
	"jodhpur":            {"JDH", "Jodhpur Airport", "Jodhpur"},
}

// Airport looks up an airport by city name.
func Airport(name string) (AirportInfo, bool) {
	a, ok := airports[Normalize(name)]
	return a, ok
}

// AirportNames returns every name Airport accepts, sorted.
func AirportNames() []string {
	return sortedKeys(airports)
}

// AirlineInfo describes a domestic carrier.
type AirlineInfo struct {
	Name string
	Code string
}

var airlines = map[string]AirlineInfo{
	"indigo":            {"IndiGo", "6E"},
	"air india":         {"Air India", "AI"},
	"spicejet":          {"SpiceJet", "SG"},
	"vistara":           {"Vistara", "UK"},
	"akasa":             {"Akasa Air", "QP"},
	"air india express": {"Air India Express", "IX"},
	"go first":          {"Go First", "G8"},
	"alliance air":      {"Alliance Air", "9I"},
	"star air":          {"Star Air", "S5"},
}

// Airline looks up a carrier by its table key ("indigo", "air india").
func Airline(name string) (AirlineInfo, bool) {
	a, ok := airlines[Normalize(name)]
	return a, ok
}

// AirlineByText finds the carrier whose display name appears in text. The
// longest matching name wins so "Air India Express" is not read as "Air India".
func AirlineByText(text string) (AirlineInfo, bool) {
	lower := strings.ToLower(text)
	var best AirlineInfo
	found := false
	for _, a := range airlines {
		if strings.Contains(lower, strings.ToLower(a.Name)) && len(a.Name) > len(best.Name) {
			best = a
			found = true
		}
	}
	return best, found
}
