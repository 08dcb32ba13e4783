package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"asistio.com/asistio/core/models"
)

var kioskReforma = Coordinates{Latitude: 19.4326, Longitude: -99.1332}

func TestHaversine(t *testing.T) {
	// ~1 degree of latitude is ~111.2 km.
	a := Coordinates{Latitude: 19.0, Longitude: -99.0}
	b := Coordinates{Latitude: 20.0, Longitude: -99.0}

	d := Haversine(a, b)
	assert.InDelta(t, 111195, d, 200)

	// Symmetric and deterministic.
	assert.Equal(t, Haversine(a, b), Haversine(b, a))
	assert.Equal(t, d, Haversine(a, b))

	assert.Zero(t, Haversine(a, a))
}

func TestValidateLocation(t *testing.T) {
	near := Coordinates{Latitude: 19.43332, Longitude: -99.1332} // ~80 m north
	far := Coordinates{Latitude: 19.43709, Longitude: -99.1332}  // ~500 m north

	tests := []struct {
		name     string
		reported Coordinates
		radius   float64
		within   bool
	}{
		{"inside radius", near, 150, true},
		{"outside radius", far, 150, false},
		{"wider radius admits far point", far, 600, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateLocation(tt.reported, kioskReforma, tt.radius)
			assert.Equal(t, tt.within, res.WithinRadius)
			assert.False(t, math.IsInf(res.DistanceMeters, 1))
		})
	}
}

func TestValidateLocationBoundaryIsInclusive(t *testing.T) {
	reported := Coordinates{Latitude: 19.43332, Longitude: -99.1332}
	d := Haversine(reported, kioskReforma)

	// A point exactly at the effective radius is inside.
	res := ValidateLocation(reported, kioskReforma, d)
	assert.True(t, res.WithinRadius)

	res = ValidateLocation(reported, kioskReforma, d-0.01)
	assert.False(t, res.WithinRadius)
}

func TestValidateLocationFailsClosed(t *testing.T) {
	tests := []struct {
		name     string
		reported Coordinates
	}{
		{"missing coordinates", Coordinates{}},
		{"NaN latitude", Coordinates{Latitude: math.NaN(), Longitude: -99.1}},
		{"latitude out of range", Coordinates{Latitude: 91, Longitude: -99.1}},
		{"longitude out of range", Coordinates{Latitude: 19.4, Longitude: -181}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateLocation(tt.reported, kioskReforma, 150)
			assert.False(t, res.WithinRadius)
			assert.True(t, math.IsInf(res.DistanceMeters, 1))
		})
	}
}

func TestEffectiveRadius(t *testing.T) {
	assert.Equal(t, 80.0, EffectiveRadius(&models.Kiosk{RadiusMeters: 80}, 150))
	assert.Equal(t, 150.0, EffectiveRadius(&models.Kiosk{}, 150))
	assert.Equal(t, DefaultRadiusMeters, EffectiveRadius(nil, 0))
}
