// Package lookup holds the static code tables used to address upstream
// sources: railway stations, airports, airlines and the classifieds site's
// location and category ids.
package lookup

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Resolve when a name is absent from its table.
var ErrNotFound = errors.New("lookup: name not found")

// Kind selects the table Resolve searches.
type Kind string

const (
	KindStation     Kind = "station"
	KindAirport     Kind = "airport"
	KindOLXLocation Kind = "olx_location"
	KindOLXCategory Kind = "olx_category"
)

// Resolved is the table-independent view of a lookup hit.
type Resolved struct {
	Code  string
	Name  string
	City  string
	State string
	Lat   float64
	Lon   float64
}

// Resolve maps a free-text name to its source code. Names are lowercased and
// whitespace-collapsed before lookup. A miss wraps ErrNotFound.
func Resolve(kind Kind, name string) (Resolved, error) {
	switch kind {
	case KindStation:
		if s, ok := Station(name); ok {
			return Resolved{Code: s.Code, Name: s.City, City: s.City, State: s.State}, nil
		}
	case KindAirport:
		if a, ok := Airport(name); ok {
			return Resolved{Code: a.Code, Name: a.Name, City: a.City}, nil
		}
	case KindOLXLocation:
		if l, ok := OLXLocation(name); ok {
			return Resolved{Code: l.Code, Name: Normalize(name), Lat: l.Lat, Lon: l.Lon}, nil
		}
	case KindOLXCategory:
		if c, ok := OLXCategory(name); ok {
			return Resolved{Code: c.ID, Name: c.Name}, nil
		}
	default:
		return Resolved{}, fmt.Errorf("lookup: unknown kind %q", kind)
	}
	return Resolved{}, fmt.Errorf("%s %q: %w", kind, name, ErrNotFound)
}

// Normalize lowercases a name and collapses its whitespace.
func Normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
