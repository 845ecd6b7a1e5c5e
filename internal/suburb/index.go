// Package suburb holds the in-memory autocomplete index of named locations for one region.
package suburb

import (
	"strings"
	"sync/atomic"

	"github.com/kidseatfree/venue-cli/internal/model"
)

// DefaultLimit is the suggestion count used when the caller passes a non-positive limit.
const DefaultLimit = 5

// minQueryLen is the shortest trimmed query that produces suggestions.
const minQueryLen = 2

type snapshot struct {
	region  string
	entries []entry
}

type entry struct {
	folded     string
	suggestion model.AutocompleteSuggestion
}

// Index is a swappable suburb list. The zero value is an empty, usable index.
// It is safe for concurrent use; LoadForRegion replaces the contents atomically.
type Index struct {
	current atomic.Pointer[snapshot]
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{}
}

// LoadForRegion replaces the whole index with suburbs for regionID. Nothing is merged.
func (ix *Index) LoadForRegion(regionID string, suburbs []model.Suburb) {
	entries := make([]entry, 0, len(suburbs))
	for _, s := range suburbs {
		label := s.DisplayName
		if label == "" {
			label = s.Name
		}
		entries = append(entries, entry{
			folded: strings.ToLower(label),
			suggestion: model.AutocompleteSuggestion{
				DisplayName: label,
				Coordinate:  s.Coordinate(),
			},
		})
	}
	ix.current.Store(&snapshot{region: regionID, entries: entries})
}

// Region returns the id of the loaded region, or "" when nothing is loaded.
func (ix *Index) Region() string {
	if s := ix.current.Load(); s != nil {
		return s.region
	}
	return ""
}

// Len returns the number of loaded suburbs.
func (ix *Index) Len() int {
	if s := ix.current.Load(); s != nil {
		return len(s.entries)
	}
	return 0
}

// Suggest returns up to limit suburbs whose label contains query, case-insensitively,
// in source order. Queries shorter than two characters after trimming match nothing.
func (ix *Index) Suggest(query string, limit int) []model.AutocompleteSuggestion {
	q := strings.ToLower(strings.TrimSpace(query))
	if len([]rune(q)) < minQueryLen {
		return nil
	}
	s := ix.current.Load()
	if s == nil {
		return nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	var out []model.AutocompleteSuggestion
	for _, e := range s.entries {
		if !strings.Contains(e.folded, q) {
			continue
		}
		out = append(out, e.suggestion)
		if len(out) == limit {
			break
		}
	}
	return out
}
