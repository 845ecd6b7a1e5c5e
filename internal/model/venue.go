package model

import (
	"strings"
	"time"
)

// Coordinate is a WGS84 latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// Venue is a dining establishment offering a recurring kids-eat-free deal.
type Venue struct {
	ID                 string   `json:"id" yaml:"id"`
	Name               string   `json:"name" yaml:"name"`
	Area               string   `json:"area" yaml:"area"`
	Address            string   `json:"address" yaml:"address"`
	Latitude           *float64 `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude          *float64 `json:"longitude,omitempty" yaml:"longitude,omitempty"`
	Suburb             string   `json:"suburb,omitempty" yaml:"suburb,omitempty"`
	Postcode           string   `json:"postcode,omitempty" yaml:"postcode,omitempty"`
	Days               []Day    `json:"days" yaml:"days"`
	Details            string   `json:"details" yaml:"details"`
	MembershipRequired bool     `json:"membershipRequired" yaml:"membership_required"`
	MembershipDetails  *string  `json:"membershipDetails" yaml:"membership_details,omitempty"`
	Website            string   `json:"website" yaml:"website"`
	Phone              []string `json:"phone" yaml:"phone"`
	ExtraDetails       []Link   `json:"extraDetails" yaml:"extra_details"`
	VerifiedDate       string   `json:"verifiedDate" yaml:"verified_date"`
	Active             bool     `json:"active" yaml:"active"`
	Tags               []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Coordinate returns the venue's position when both latitude and longitude are set.
func (v Venue) Coordinate() (Coordinate, bool) {
	if v.Latitude == nil || v.Longitude == nil {
		return Coordinate{}, false
	}
	return Coordinate{Latitude: *v.Latitude, Longitude: *v.Longitude}, true
}

// SetCoordinate stores c on the venue.
func (v *Venue) SetCoordinate(c Coordinate) {
	lat, lon := c.Latitude, c.Longitude
	v.Latitude = &lat
	v.Longitude = &lon
}

// HasDay reports whether the deal applies on d.
func (v Venue) HasDay(d Day) bool {
	for _, vd := range v.Days {
		if vd == d {
			return true
		}
	}
	return false
}

// SearchText is the lowercased text free-text queries match against.
func (v Venue) SearchText() string {
	return strings.ToLower(strings.Join([]string{
		v.Name,
		v.Details,
		v.Area,
		v.Suburb,
		v.Postcode,
		strings.Join(v.Tags, " "),
	}, " "))
}

// verifiedLayouts are the accepted verifiedDate encodings, most specific last.
var verifiedLayouts = []string{"2006-01-02", time.RFC3339}

// Verified parses VerifiedDate. An unparsable or empty date reports false.
func (v Venue) Verified() (time.Time, bool) {
	s := strings.TrimSpace(v.VerifiedDate)
	for _, layout := range verifiedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Freshness classifies how recently a deal was confirmed.
type Freshness string

const (
	FreshnessFresh   Freshness = "fresh"
	FreshnessStale   Freshness = "stale"
	FreshnessExpired Freshness = "expired"
)

// Freshness thresholds in whole days since verification.
const (
	freshDays = 30
	staleDays = 90
)

// VerificationStatus returns the venue's freshness relative to now.
// Venues with no parsable verification date are expired.
func (v Venue) VerificationStatus(now time.Time) Freshness {
	verified, ok := v.Verified()
	if !ok {
		return FreshnessExpired
	}
	days := int(now.Sub(verified).Hours() / 24)
	switch {
	case days < freshDays:
		return FreshnessFresh
	case days < staleDays:
		return FreshnessStale
	default:
		return FreshnessExpired
	}
}

// VenueDocument is the per-region venue data file.
type VenueDocument struct {
	Region      string  `json:"region"`
	LastUpdated string  `json:"lastUpdated"`
	Notes       string  `json:"notes,omitempty"`
	Venues      []Venue `json:"venues"`
}
