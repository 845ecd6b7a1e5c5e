// Package ordering produces the display order of filtered venues.
package ordering

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/kidseatfree/venue-cli/internal/filter"
	"github.com/kidseatfree/venue-cli/internal/geo"
	"github.com/kidseatfree/venue-cli/internal/model"
)

// Kind names a sort key.
type Kind string

const (
	ByDay          Kind = "day"
	ByName         Kind = "name"
	ByVerification Kind = "verified"
	ByDistance     Kind = "distance"
)

// Criterion selects the sort key. Reference is only read for ByDistance.
type Criterion struct {
	Kind      Kind
	Reference model.Coordinate
}

// Day orders by the first listed day of each venue.
func Day() Criterion { return Criterion{Kind: ByDay} }

// Name orders alphabetically by display name.
func Name() Criterion { return Criterion{Kind: ByName} }

// Verification orders most recently verified first.
func Verification() Criterion { return Criterion{Kind: ByVerification} }

// Distance orders nearest to ref first.
func Distance(ref model.Coordinate) Criterion {
	return Criterion{Kind: ByDistance, Reference: ref}
}

// ParseKind maps a user-supplied sort name to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case ByDay, ByName, ByVerification, ByDistance:
		return Kind(s), true
	}
	return "", false
}

// ForSpec applies the system-wide selection rule: distance from the resolved
// coordinate when one is present, otherwise day order.
func ForSpec(spec filter.Spec) Criterion {
	if spec.HasCoordinate() {
		return Distance(*spec.Coordinate)
	}
	return Day()
}

// collationTag is the locale used for name comparison.
var collationTag = language.MustParse("en-AU")

// Sort returns a new slice ordered by c. Ties keep their input order and the
// input slice is not modified. An unknown kind returns a plain copy.
func Sort(venues []model.Venue, c Criterion) []model.Venue {
	out := make([]model.Venue, len(venues))
	copy(out, venues)

	switch c.Kind {
	case ByDay:
		sort.SliceStable(out, func(i, j int) bool {
			return firstDayIndex(out[i]) < firstDayIndex(out[j])
		})

	case ByName:
		col := collate.New(collationTag)
		sort.SliceStable(out, func(i, j int) bool {
			return col.CompareString(out[i].Name, out[j].Name) < 0
		})

	case ByVerification:
		sort.SliceStable(out, func(i, j int) bool {
			ti, _ := out[i].Verified()
			tj, _ := out[j].Verified()
			return ti.After(tj)
		})

	case ByDistance:
		keys := make([]distanceKey, len(out))
		for i, v := range out {
			keys[i] = keyFor(v, c.Reference)
		}
		idx := make([]int, len(out))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool {
			return keys[idx[a]].less(keys[idx[b]])
		})
		sorted := make([]model.Venue, len(out))
		for i, k := range idx {
			sorted[i] = out[k]
		}
		out = sorted
	}

	return out
}

// firstDayIndex returns the canonical index of a venue's first listed day.
// Venues without days, or with an unrecognised first day, sort as Monday.
func firstDayIndex(v model.Venue) int {
	if len(v.Days) == 0 {
		return 0
	}
	if i := v.Days[0].Index(); i >= 0 {
		return i
	}
	return 0
}

type distanceKey struct {
	km     float64
	mapped bool
}

func keyFor(v model.Venue, ref model.Coordinate) distanceKey {
	c, ok := v.Coordinate()
	if !ok {
		return distanceKey{}
	}
	return distanceKey{km: geo.DistanceKm(ref, c), mapped: true}
}

// less puts mapped venues first, nearest first; unmapped venues compare equal.
func (k distanceKey) less(o distanceKey) bool {
	if k.mapped != o.mapped {
		return k.mapped
	}
	if !k.mapped {
		return false
	}
	return k.km < o.km
}

// DistanceKm returns each venue's distance from ref, keyed by venue id.
// Venues without a coordinate are omitted.
func DistanceKm(venues []model.Venue, ref model.Coordinate) map[string]float64 {
	out := make(map[string]float64, len(venues))
	for _, v := range venues {
		if c, ok := v.Coordinate(); ok {
			out[v.ID] = geo.DistanceKm(ref, c)
		}
	}
	return out
}
