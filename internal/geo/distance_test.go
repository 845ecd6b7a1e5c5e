package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kidseatfree/venue-cli/internal/model"
)

var (
	belconnen = model.Coordinate{Latitude: -35.2403, Longitude: 149.0647}
	civic     = model.Coordinate{Latitude: -35.2794, Longitude: 149.1301}
	macquarie = model.Coordinate{Latitude: -35.2424, Longitude: 149.0678}
)

func TestDistanceKm(t *testing.T) {
	tests := []struct {
		name  string
		a, b  model.Coordinate
		want  float64
		delta float64
	}{
		{name: "belconnen to civic", a: belconnen, b: civic, want: 7.3, delta: 0.4},
		{name: "belconnen to macquarie", a: belconnen, b: macquarie, want: 0.36, delta: 0.1},
		{name: "one degree of latitude", a: model.Coordinate{}, b: model.Coordinate{Latitude: 1}, want: 111.19, delta: 0.01},
		{name: "antipodes", a: model.Coordinate{}, b: model.Coordinate{Longitude: 180}, want: 20015.09, delta: 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, DistanceKm(tt.a, tt.b), tt.delta)
		})
	}
}

func TestDistanceKm_ZeroForSamePoint(t *testing.T) {
	for _, c := range []model.Coordinate{belconnen, civic, {Latitude: 90}, {Latitude: -33.8688, Longitude: 151.2093}} {
		assert.Zero(t, DistanceKm(c, c))
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	pairs := [][2]model.Coordinate{
		{belconnen, civic},
		{civic, macquarie},
		{{Latitude: 51.5, Longitude: -0.12}, {Latitude: -33.87, Longitude: 151.21}},
	}
	for _, p := range pairs {
		assert.InDelta(t, DistanceKm(p[0], p[1]), DistanceKm(p[1], p[0]), 1e-9)
		assert.GreaterOrEqual(t, DistanceKm(p[0], p[1]), 0.0)
	}
}

func TestPoint(t *testing.T) {
	p := Point(civic)
	assert.Equal(t, 4326, p.SRID())
	assert.InDelta(t, 149.1301, p.X(), 1e-9)
	assert.InDelta(t, -35.2794, p.Y(), 1e-9)
}
