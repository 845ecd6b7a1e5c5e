// Package filter decides which venues match a filter specification.
package filter

import (
	"strings"

	"github.com/kidseatfree/venue-cli/internal/model"
)

// Mode is the nominal location mode selected by the user.
type Mode string

const (
	ModeByArea Mode = "area"
	ModeNearby Mode = "nearby"
)

// DefaultRadiusKm is the proximity radius used when none is configured.
const DefaultRadiusKm = 10.0

// Spec is the complete description of what the user wants to see. It is a value
// type: callers pass it by value and derive new specs with the With* methods.
type Spec struct {
	Day         model.Day
	Area        string
	Region      string
	SearchQuery string
	Mode        Mode
	Coordinate  *model.Coordinate
	RadiusKm    float64
	ManualText  string
}

// Option sets one field of a Spec during NewSpec.
type Option func(*Spec)

// WithDay restricts results to venues offering the deal on d.
func WithDay(d model.Day) Option {
	return func(s *Spec) {
		if d == "" {
			d = model.DayAny
		}
		s.Day = d
	}
}

// WithArea restricts results to one area tag.
func WithArea(area string) Option {
	return func(s *Spec) {
		if area == "" {
			area = model.AreaAny
		}
		s.Area = area
	}
}

// WithSearch sets the free-text query.
func WithSearch(q string) Option {
	return func(s *Spec) { s.SearchQuery = strings.TrimSpace(q) }
}

// WithMode sets the nominal location mode.
func WithMode(m Mode) Option {
	return func(s *Spec) { s.Mode = m }
}

// WithCoordinate sets the resolved reference point and switches the mode to nearby.
func WithCoordinate(c model.Coordinate) Option {
	return func(s *Spec) {
		s.Coordinate = &c
		s.Mode = ModeNearby
	}
}

// WithRadiusKm sets the proximity radius. Non-positive values are ignored.
func WithRadiusKm(km float64) Option {
	return func(s *Spec) {
		if km > 0 {
			s.RadiusKm = km
		}
	}
}

// WithManualText records the raw text typed for manual location entry.
func WithManualText(text string) Option {
	return func(s *Spec) { s.ManualText = text }
}

// NewSpec returns a spec for region with every default made explicit:
// any day, any area, no search, by-area mode, no coordinate, DefaultRadiusKm.
func NewSpec(region string, opts ...Option) Spec {
	s := Spec{
		Day:      model.DayAny,
		Area:     model.AreaAny,
		Region:   region,
		Mode:     ModeByArea,
		RadiusKm: DefaultRadiusKm,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// With returns a copy of s with opts applied.
func (s Spec) With(opts ...Option) Spec {
	if s.Coordinate != nil {
		c := *s.Coordinate
		s.Coordinate = &c
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithoutCoordinate returns a copy of s with the reference point discarded.
// The mode is left as is.
func (s Spec) WithoutCoordinate() Spec {
	s.Coordinate = nil
	return s
}

// HasCoordinate reports whether proximity filtering and ordering apply.
// A resolved coordinate is the only trigger, whatever Mode says.
func (s Spec) HasCoordinate() bool {
	return s.Coordinate != nil
}

// ActiveCount returns how many of the day and area filters are narrowing results.
func (s Spec) ActiveCount() int {
	n := 0
	if s.Day != model.DayAny && s.Day != "" {
		n++
	}
	if s.Area != model.AreaAny && s.Area != "" {
		n++
	}
	return n
}

// Cleared returns a copy of s with day and area reset to any.
func (s Spec) Cleared() Spec {
	s.Day = model.DayAny
	s.Area = model.AreaAny
	return s
}
