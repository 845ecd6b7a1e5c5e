package model

import (
	"sort"
	"strings"
)

// AreaAny is the filter sentinel meaning "any area".
const AreaAny = "all"

// Area is a coarse named subdivision of a region.
type Area struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// RegionFiles names a region's data documents, relative to the data directory.
type RegionFiles struct {
	Venues  string `json:"venues"`
	Suburbs string `json:"suburbs"`
}

// RegionMetadata describes one region in the metadata document.
type RegionMetadata struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Country       string          `json:"country"`
	Timezone      string          `json:"timezone"`
	Priority      int             `json:"priority"`
	DefaultCenter Coordinate      `json:"defaultCenter"`
	Areas         map[string]Area `json:"areas"`
	Files         RegionFiles     `json:"files"`
}

// countryCodes maps country names used in metadata to ISO 3166-1 alpha-2 codes.
var countryCodes = map[string]string{
	"australia":   "au",
	"new zealand": "nz",
}

// CountryCode returns the lowercase two-letter code for the region's country,
// or "" when it is not known. A two-letter Country value is taken as a code.
func (r RegionMetadata) CountryCode() string {
	c := strings.ToLower(strings.TrimSpace(r.Country))
	if len(c) == 2 {
		return c
	}
	return countryCodes[c]
}

// AreaIDs returns the region's area identifiers sorted by display name.
func (r RegionMetadata) AreaIDs() []string {
	ids := make([]string, 0, len(r.Areas))
	for id := range r.Areas {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := r.Areas[ids[i]].DisplayName, r.Areas[ids[j]].DisplayName
		if a != b {
			return a < b
		}
		return ids[i] < ids[j]
	})
	return ids
}

// Metadata is the top-level document listing every region.
type Metadata struct {
	Version     string                    `json:"version"`
	LastUpdated string                    `json:"lastUpdated"`
	Regions     map[string]RegionMetadata `json:"regions"`
}

// RegionsByPriority returns regions in ascending priority, ties broken by id.
func (m Metadata) RegionsByPriority() []RegionMetadata {
	out := make([]RegionMetadata, 0, len(m.Regions))
	for id, r := range m.Regions {
		if r.ID == "" {
			r.ID = id
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Suburb is a named point used for autocomplete and "near me" resolution.
type Suburb struct {
	Name        string  `json:"name"`
	DisplayName string  `json:"displayName"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// Coordinate returns the suburb's position.
func (s Suburb) Coordinate() Coordinate {
	return Coordinate{Latitude: s.Latitude, Longitude: s.Longitude}
}

// SuburbDocument is the per-region suburb data file.
type SuburbDocument struct {
	Region  string   `json:"region"`
	Suburbs []Suburb `json:"suburbs"`
}

// AutocompleteSuggestion pairs a display label with a coordinate.
type AutocompleteSuggestion struct {
	DisplayName string     `json:"display_name"`
	Coordinate  Coordinate `json:"coordinate"`
}
