// Package geo provides coordinate, bounding-region and distance utilities
// for location-based filtering.
package geo

import "math"

// earthRadiusMeters is the mean Earth radius used by the approximate
// distance calculation.
const earthRadiusMeters = 6371000.0

// Coordinates is a WGS84 latitude/longitude pair in degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Distance returns the approximate straight-line distance between two
// coordinates in meters. It uses an equirectangular projection, which is
// accurate enough for proximity thresholds of a few kilometers and is
// both symmetric and monotonic in the true geodesic distance.
func Distance(a, b Coordinates) float64 {
	latA := a.Latitude * math.Pi / 180
	latB := b.Latitude * math.Pi / 180
	dLat := latB - latA
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	x := dLng * math.Cos((latA+latB)/2)
	return earthRadiusMeters * math.Sqrt(x*x+dLat*dLat)
}

// Region is a latitude/longitude bounding box, as produced by a map
// viewport.
type Region struct {
	MinLatitude  float64 `json:"minLatitude"`
	MaxLatitude  float64 `json:"maxLatitude"`
	MinLongitude float64 `json:"minLongitude"`
	MaxLongitude float64 `json:"maxLongitude"`
}

// Contains reports whether c lies inside the region, bounds inclusive.
func (r Region) Contains(c Coordinates) bool {
	return c.Latitude >= r.MinLatitude && c.Latitude <= r.MaxLatitude &&
		c.Longitude >= r.MinLongitude && c.Longitude <= r.MaxLongitude
}

// Scale returns a copy of the region grown (factor > 1) or shrunk
// (factor < 1) around its center.
func (r Region) Scale(factor float64) Region {
	centerLat := (r.MinLatitude + r.MaxLatitude) / 2
	centerLng := (r.MinLongitude + r.MaxLongitude) / 2
	halfLat := (r.MaxLatitude - r.MinLatitude) / 2 * factor
	halfLng := (r.MaxLongitude - r.MinLongitude) / 2 * factor
	return Region{
		MinLatitude:  centerLat - halfLat,
		MaxLatitude:  centerLat + halfLat,
		MinLongitude: centerLng - halfLng,
		MaxLongitude: centerLng + halfLng,
	}
}

// Center returns the midpoint of the region.
func (r Region) Center() Coordinates {
	return Coordinates{
		Latitude:  (r.MinLatitude + r.MaxLatitude) / 2,
		Longitude: (r.MinLongitude + r.MaxLongitude) / 2,
	}
}
