package lookup

// OLXLocationInfo is the classifieds site's internal location id with the
// coordinates of the area it covers.
type OLXLocationInfo struct {
	Code string
	Lat  float64
	Lon  float64
}

// OLXCategoryInfo is a classifieds category id and its display name.
type OLXCategoryInfo struct {
	ID   string
	Name string
}

// DefaultOLXLocation is searched when a request names no location.
const DefaultOLXLocation = "all-india"

var olxLocations = map[string]OLXLocationInfo{
	"all-india": {"1000001", 20.5937, 78.9629},
	"delhi":     {"2001152", 28.7041, 77.1025},
	"mumbai":    {"4058877", 19.0760, 72.8777},
	"bangalore": {"4058404", 12.9716, 77.5946},
	"hyderabad": {"4029711", 17.3850, 78.4867},
	"pune":      {"4058900", 18.5204, 73.8567},
	"chennai":   {"4058461", 13.0827, 80.2707},
	"kolkata":   {"4058742", 22.5726, 88.3639},
}

var olxCategories = map[string]OLXCategoryInfo{
	"pg":         {"1449", "PG & Guest Houses"},
	"rent-house": {"1723", "Houses for Rent"},
	"flats":      {"1725", "Flats for Sale"},
	"furniture":  {"239", "Furniture"},
}

// PG listings are further split by subtype.
var olxSubtypes = map[string]string{
	"pg":       "pg,roommate",
	"pg-only":  "pg",
	"roommate": "roommate",
}

// OLXLocation looks up a location slug such as "delhi".
func OLXLocation(name string) (OLXLocationInfo, bool) {
	l, ok := olxLocations[Normalize(name)]
	return l, ok
}

// OLXCategory looks up a category slug such as "pg".
func OLXCategory(name string) (OLXCategoryInfo, bool) {
	c, ok := olxCategories[Normalize(name)]
	return c, ok
}

// OLXSubtype returns the subtype filter value for a PG subtype slug.
func OLXSubtype(name string) (string, bool) {
	s, ok := olxSubtypes[Normalize(name)]
	return s, ok
}

// OLXLocationNames returns every location slug, sorted.
func OLXLocationNames() []string {
	return sortedKeys(olxLocations)
}
