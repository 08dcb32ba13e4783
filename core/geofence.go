package core

import (
	"math"

	"asistio.com/asistio/core/models"
)

const (
	earthRadiusMeters = 6371000.0

	// DefaultRadiusMeters applies when a kiosk carries no override.
	DefaultRadiusMeters = 150.0
)

type Coordinates struct {
	Latitude  float64
	Longitude float64
}

type GeoResult struct {
	DistanceMeters float64 `json:"distanceMeters"`
	WithinRadius   bool    `json:"withinRadius"`
}

// Valid reports whether the coordinates are usable. (0,0) is treated as
// missing; mobile clients send it when the GPS fix never arrived.
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) {
		return false
	}
	if c.Latitude < -90 || c.Latitude > 90 || c.Longitude < -180 || c.Longitude > 180 {
		return false
	}
	if c.Latitude == 0 && c.Longitude == 0 {
		return false
	}
	return true
}

// Haversine returns the great-circle distance between two points in meters.
func Haversine(a, b Coordinates) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

// ValidateLocation decides whether a reported device position is inside the
// kiosk's effective radius. The boundary is inclusive. Invalid coordinates
// on either side fail closed with an infinite distance.
func ValidateLocation(reported, kiosk Coordinates, radiusMeters float64) GeoResult {
	if !reported.Valid() || !kiosk.Valid() {
		return GeoResult{DistanceMeters: math.Inf(1), WithinRadius: false}
	}

	d := Haversine(reported, kiosk)
	return GeoResult{DistanceMeters: d, WithinRadius: d <= radiusMeters}
}

// EffectiveRadius returns the kiosk override when set, else the default.
func EffectiveRadius(kiosk *models.Kiosk, defaultRadius float64) float64 {
	if kiosk != nil && kiosk.RadiusMeters > 0 {
		return kiosk.RadiusMeters
	}
	if defaultRadius > 0 {
		return defaultRadius
	}
	return DefaultRadiusMeters
}
