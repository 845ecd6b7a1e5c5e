// Package browse holds the interactive state of one user browsing a region:
// the loaded data, the current filters, and the resolved location.
package browse

import (
	"context"
	"errors"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/kidseatfree/venue-cli/internal/catalog"
	"github.com/kidseatfree/venue-cli/internal/filter"
	"github.com/kidseatfree/venue-cli/internal/location"
	"github.com/kidseatfree/venue-cli/internal/model"
	"github.com/kidseatfree/venue-cli/internal/ordering"
	"github.com/kidseatfree/venue-cli/internal/suburb"
)

// ErrNoRegion is returned by operations that need a region before one is selected.
var ErrNoRegion = errors.New("browse: no region selected")

// Result is one venue to display, with its distance from the resolved
// location when both are known.
type Result struct {
	Venue      model.Venue
	DistanceKm *float64
}

// Option configures a Session.
type Option func(*Session)

// WithRadiusKm sets the proximity radius used for every region.
func WithRadiusKm(km float64) Option {
	return func(s *Session) {
		if km > 0 {
			s.radiusKm = km
		}
	}
}

// WithSuggestionLimit caps the number of suburb suggestions.
func WithSuggestionLimit(n int) Option {
	return func(s *Session) { s.suggestionLimit = n }
}

// Session is safe for concurrent use.
type Session struct {
	catalog  *catalog.Catalog
	resolver *location.Resolver
	index    *suburb.Index
	log      *zap.Logger

	radiusKm        float64
	suggestionLimit int

	mu   sync.Mutex
	data *catalog.RegionData
	spec filter.Spec
}

// NewSession creates a session with no region selected.
func NewSession(cat *catalog.Catalog, resolver *location.Resolver, opts ...Option) *Session {
	s := &Session{
		catalog:         cat,
		resolver:        resolver,
		index:           suburb.NewIndex(),
		log:             zap.L().With(zap.String("component", "browse")),
		radiusKm:        filter.DefaultRadiusKm,
		suggestionLimit: suburb.DefaultLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.spec = filter.NewSpec("", filter.WithRadiusKm(s.radiusKm))
	return s
}

// SelectRegion loads region id and makes it current. The area filter resets to
// any and any resolved location is cleared; day and search carry over.
func (s *Session) SelectRegion(ctx context.Context, id string) error {
	data, err := s.catalog.LoadRegion(ctx, id)
	if err != nil {
		return eris.Wrap(err, "browse: select region")
	}

	s.index.LoadForRegion(id, data.Suburbs)
	s.resolver.Clear()
	s.resolver.SetCountryCode(data.Region.CountryCode())

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.spec
	s.data = data
	s.spec = filter.NewSpec(id,
		filter.WithDay(prev.Day),
		filter.WithSearch(prev.SearchQuery),
		filter.WithRadiusKm(prev.RadiusKm),
	)

	s.log.Info("region selected",
		zap.String("region", id),
		zap.Int("venues", len(data.Venues.Venues)),
		zap.Int("suburbs", len(data.Suburbs)),
	)
	return nil
}

// Region returns the current region's metadata.
func (s *Session) Region() (model.RegionMetadata, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return model.RegionMetadata{}, false
	}
	return s.data.Region, true
}

// Spec returns the current filter specification.
func (s *Session) Spec() filter.Spec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spec.With()
}

// SetDay restricts results to one day, or to any day with model.DayAny.
func (s *Session) SetDay(d model.Day) error {
	if d != "" && d != model.DayAny && !d.Valid() {
		return eris.Errorf("browse: unknown day %q", string(d))
	}
	s.update(filter.WithDay(d))
	return nil
}

// SetArea restricts results to an area of the current region, or to any area
// with model.AreaAny.
func (s *Session) SetArea(area string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return ErrNoRegion
	}
	if area != "" && area != model.AreaAny {
		if _, ok := s.data.Region.Areas[area]; !ok {
			return eris.Errorf("browse: unknown area %q in region %s", area, s.data.Region.ID)
		}
	}
	s.spec = s.spec.With(filter.WithArea(area))
	return nil
}

// SetSearch sets the free-text query.
func (s *Session) SetSearch(q string) {
	s.update(filter.WithSearch(q))
}

// SetRadiusKm changes the proximity radius. Non-positive values are ignored.
func (s *Session) SetRadiusKm(km float64) {
	s.update(filter.WithRadiusKm(km))
}

// ClearFilters resets day and area to any.
func (s *Session) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spec = s.spec.Cleared()
}

// Suggest returns suburb suggestions for partially typed text.
func (s *Session) Suggest(text string) []model.AutocompleteSuggestion {
	return s.index.Suggest(text, s.suggestionLimit)
}

// UseDeviceLocation resolves the device position and, on success, switches
// results to proximity.
func (s *Session) UseDeviceLocation(ctx context.Context) location.State {
	return s.adopt(s.resolver.UseDeviceLocation(ctx))
}

// ResolveAddress geocodes typed text and, on success, switches results to proximity.
func (s *Session) ResolveAddress(ctx context.Context, text string) location.State {
	s.update(filter.WithManualText(text))
	return s.adopt(s.resolver.ResolveAddressText(ctx, text))
}

// PickSuggestion resolves to a suggestion's coordinate.
func (s *Session) PickSuggestion(sg model.AutocompleteSuggestion) location.State {
	s.update(filter.WithManualText(sg.DisplayName))
	return s.adopt(s.resolver.SelectSuggestion(sg))
}

// ClearLocation discards the resolved location and returns to area browsing.
func (s *Session) ClearLocation() location.State {
	st := s.resolver.Clear()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.spec = s.spec.WithoutCoordinate().With(
		filter.WithMode(filter.ModeByArea),
		filter.WithManualText(""),
	)
	return st
}

// LocationState returns the resolver's current state.
func (s *Session) LocationState() location.State {
	return s.resolver.State()
}

// Results filters the current region with the current spec and orders the
// matches by distance when a location is resolved, otherwise by day.
func (s *Session) Results() ([]Result, error) {
	s.mu.Lock()
	spec := s.spec.With()
	s.mu.Unlock()

	return s.ResultsBy(ordering.ForSpec(spec))
}

// ResultsBy filters like Results but orders by c.
func (s *Session) ResultsBy(c ordering.Criterion) ([]Result, error) {
	s.mu.Lock()
	data := s.data
	spec := s.spec.With()
	s.mu.Unlock()

	if data == nil {
		return nil, ErrNoRegion
	}

	venues := ordering.Sort(filter.Apply(data.Venues.Venues, spec), c)

	var distances map[string]float64
	if spec.HasCoordinate() {
		distances = ordering.DistanceKm(venues, *spec.Coordinate)
	}

	out := make([]Result, len(venues))
	for i, v := range venues {
		out[i] = Result{Venue: v}
		if km, ok := distances[v.ID]; ok {
			out[i].DistanceKm = &km
		}
	}
	return out, nil
}

// adopt feeds a resolved coordinate into the spec. A failed attempt leaves the
// spec untouched, so an earlier coordinate stays in effect.
func (s *Session) adopt(st location.State) location.State {
	if st.Status == location.StatusResolved && st.Resolution != nil {
		s.update(filter.WithCoordinate(st.Resolution.Coordinate))
	}
	return st
}

func (s *Session) update(opts ...filter.Option) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spec = s.spec.With(opts...)
}
