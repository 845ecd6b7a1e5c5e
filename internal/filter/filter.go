package filter

import (
	"strings"

	"github.com/kidseatfree/venue-cli/internal/geo"
	"github.com/kidseatfree/venue-cli/internal/model"
)

// Apply returns the venues matching every active dimension of spec, in input order.
// The input slice is not modified. The result is never nil.
//
// When spec carries a coordinate, distance supersedes the area and search filters
// for that pass; venues without a coordinate are dropped.
func Apply(venues []model.Venue, spec Spec) []model.Venue {
	out := make([]model.Venue, 0, len(venues))
	for _, v := range venues {
		if Match(v, spec) {
			out = append(out, v)
		}
	}
	return out
}

// Match reports whether a single venue satisfies spec.
func Match(v model.Venue, spec Spec) bool {
	if !v.Active {
		return false
	}

	if spec.Day != model.DayAny && spec.Day != "" && !v.HasDay(spec.Day) {
		return false
	}

	if spec.HasCoordinate() {
		return withinRadius(v, *spec.Coordinate, spec.RadiusKm)
	}

	if spec.Area != model.AreaAny && spec.Area != "" && v.Area != spec.Area {
		return false
	}

	if q := strings.ToLower(strings.TrimSpace(spec.SearchQuery)); q != "" {
		if !strings.Contains(v.SearchText(), q) {
			return false
		}
	}

	return true
}

func withinRadius(v model.Venue, ref model.Coordinate, radiusKm float64) bool {
	c, ok := v.Coordinate()
	if !ok {
		return false
	}
	return geo.DistanceKm(ref, c) <= radiusKm
}
