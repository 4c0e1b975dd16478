package geo

import (
	"fmt"
	"math"
	"strings"

	"github.com/umahmood/haversine"
)

const (
	// EarthRadiusKm is the radius used for every great-circle distance in this module.
	EarthRadiusKm = 6378.1
	// KmToMi is the kilometers to statute miles conversion factor.
	KmToMi = 0.621371192
)

// DistanceKm returns the haversine great-circle distance in kilometers
// between two points given in degrees.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2-lat1) / 2
	dLon := toRadians(lon2-lon1) / 2

	a := math.Sin(dLat)*math.Sin(dLat) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*math.Sin(dLon)*math.Sin(dLon)

	// rounding can push a slightly past 1 for antipodal points
	if a > 1 {
		a = 1
	}

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(a))
}

// Between is DistanceKm over two coordinates.
func Between(p, q haversine.Coord) float64 {
	return DistanceKm(p.Lat, p.Lon, q.Lat, q.Lon)
}

func KmToMiles(km float64) float64 {
	return km * KmToMi
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

type Unit string

const (
	Kilometers Unit = "km"
	Miles      Unit = "mi"
)

// ParseUnit accepts the short and long spellings of a unit, case-insensitively.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "km", "kilometers", "kilometres":
		return Kilometers, nil
	case "mi", "mile", "miles":
		return Miles, nil
	}
	return "", fmt.Errorf("unknown distance unit %q", s)
}

// Distance is a length tagged with the unit it is expressed in.
type Distance struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// FromKm expresses km in unit u. Unknown units fall back to kilometers.
func FromKm(km float64, u Unit) Distance {
	if u == Miles {
		return Distance{Value: KmToMiles(km), Unit: Miles}
	}
	return Distance{Value: km, Unit: Kilometers}
}

func (d Distance) String() string {
	if d.Unit == Miles {
		return fmt.Sprintf("%.2f miles", d.Value)
	}
	return fmt.Sprintf("%.2f km", d.Value)
}
