package airport

import (
	"math"
	"slices"
	"strings"

	"github.com/dhconnelly/rtreego"
	"github.com/umahmood/haversine"

	"github.com/thomhuang/AirportDistance/geo"
)

// half side, in degrees, of the box stored for each airport
const pointTolerance = 1e-6

// km per degree of latitude at EarthRadiusKm
var kmPerDegree = geo.EarthRadiusKm * math.Pi / 180

type airportItem struct {
	rect    rtreego.Rect
	airport Airport
}

func (it *airportItem) Bounds() rtreego.Rect {
	return it.rect
}

type spatialIndex struct {
	tree *rtreego.Rtree

	// extent of the data, searched in full when a box cannot be bounded
	minLat, maxLat float64
	minLon, maxLon float64

	// some stored coordinate lies outside [-90, 90] x [-180, 180]
	unbounded bool
}

func newSpatialIndex(airports []Airport) *spatialIndex {
	idx := &spatialIndex{
		minLat: math.Inf(1), maxLat: math.Inf(-1),
		minLon: math.Inf(1), maxLon: math.Inf(-1),
	}

	items := make([]rtreego.Spatial, 0, len(airports))
	for _, a := range airports {
		// NaN or infinite coordinates cannot be boxed
		if !finite(a.Latitude) || !finite(a.Longitude) {
			continue
		}
		// x = longitude, y = latitude
		corner := rtreego.Point{a.Longitude - pointTolerance, a.Latitude - pointTolerance}
		rect, err := rtreego.NewRect(corner, []float64{2 * pointTolerance, 2 * pointTolerance})
		if err != nil {
			continue
		}
		items = append(items, &airportItem{rect: rect, airport: a})

		idx.minLat = math.Min(idx.minLat, a.Latitude)
		idx.maxLat = math.Max(idx.maxLat, a.Latitude)
		idx.minLon = math.Min(idx.minLon, a.Longitude)
		idx.maxLon = math.Max(idx.maxLon, a.Longitude)
		if !inRange(a.Latitude, a.Longitude) {
			idx.unbounded = true
		}
	}

	// dim = 2, min/max children per node; bulk loaded
	idx.tree = rtreego.NewTree(2, 25, 50, items...)
	return idx
}

// searchRect returns a box guaranteed to contain every point within
// radiusKm of center. The latitude and longitude bounds only hold on the
// geographic ranges; outside them the whole data extent is searched.
func (idx *spatialIndex) searchRect(center haversine.Coord, radiusKm float64) (rtreego.Rect, error) {
	if idx.unbounded || !inRange(center.Lat, center.Lon) {
		return paddedRect(idx.minLat, idx.maxLat, idx.minLon, idx.maxLon)
	}

	dLat := radiusKm / kmPerDegree

	minLat, maxLat := center.Lat-dLat, center.Lat+dLat
	var minLon, maxLon float64

	// widest longitude offset of a spherical cap
	sinRatio := math.Sin(dLat*math.Pi/180) / math.Cos(center.Lat*math.Pi/180)
	if maxLat >= 90 || minLat <= -90 || dLat >= 90 || !(sinRatio < 1) {
		// the cap contains a pole, every longitude is reachable
		minLon, maxLon = idx.minLon, idx.maxLon
	} else {
		dLon := math.Asin(sinRatio) * 180 / math.Pi
		minLon, maxLon = center.Lon-dLon, center.Lon+dLon
		if minLon < -180 || maxLon > 180 {
			minLon, maxLon = idx.minLon, idx.maxLon
		}
	}

	return paddedRect(minLat, maxLat, minLon, maxLon)
}

// paddedRect pads [minLat, maxLat] x [minLon, maxLon] so stored points on the
// edges intersect it.
func paddedRect(minLat, maxLat, minLon, maxLon float64) (rtreego.Rect, error) {
	width := math.Max(maxLon-minLon, 2*pointTolerance)
	height := math.Max(maxLat-minLat, 2*pointTolerance)
	return rtreego.NewRect(rtreego.Point{minLon - pointTolerance, minLat - pointTolerance}, []float64{width + 2*pointTolerance, height + 2*pointTolerance})
}

func (idx *spatialIndex) within(center haversine.Coord, radiusKm float64) []Airport {
	if idx.tree.Size() == 0 {
		return nil
	}

	rect, err := idx.searchRect(center, radiusKm)
	if err != nil {
		return nil
	}

	type hit struct {
		airport Airport
		km      float64
	}
	var hits []hit
	for _, item := range idx.tree.SearchIntersect(rect) {
		a := item.(*airportItem).airport
		// exact great-circle check, the box is only a prefilter
		km := geo.Between(center, a.Coord())
		if km <= radiusKm {
			hits = append(hits, hit{airport: a, km: km})
		}
	}

	slices.SortFunc(hits, func(a, b hit) int {
		if a.km != b.km {
			if a.km < b.km {
				return -1
			}
			return 1
		}
		return strings.Compare(normalize(a.airport.Code), normalize(b.airport.Code))
	})

	result := make([]Airport, len(hits))
	for i, h := range hits {
		result[i] = h.airport
	}
	return result
}

// Within returns every airport at most radiusKm from center, nearest first
// and ties ordered by code. A non-positive or non-finite radius returns nil.
func (r *Registry) Within(center haversine.Coord, radiusKm float64) []Airport {
	if !(radiusKm > 0) || math.IsInf(radiusKm, 0) || !finite(center.Lat) || !finite(center.Lon) {
		return nil
	}
	return r.index.within(center, radiusKm)
}

func inRange(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
