// Package export renders browse results in the output formats of the CLI.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/kidseatfree/venue-cli/internal/browse"
	"github.com/kidseatfree/venue-cli/internal/model"
)

// Format is an output encoding.
type Format string

const (
	FormatTable   Format = "table"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatGeoJSON Format = "geojson"
	FormatXLSX    Format = "xlsx"
)

var formats = []Format{FormatTable, FormatJSON, FormatYAML, FormatGeoJSON, FormatXLSX}

// Formats lists the supported format names.
func Formats() []string {
	out := make([]string, len(formats))
	for i, f := range formats {
		out[i] = string(f)
	}
	return out
}

// ParseFormat maps a user-supplied name to a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range formats {
		if f == known {
			return f, nil
		}
	}
	return "", eris.Errorf("export: unknown format %q (want one of %s)", s, strings.Join(Formats(), ", "))
}

// Binary reports whether the format is unsuitable for a terminal.
func (f Format) Binary() bool {
	return f == FormatXLSX
}

// Options supplies context for rendering.
type Options struct {
	// Now is the reference time for verification status. Zero means time.Now.
	Now time.Time
	// Areas maps area ids to display names. Unknown ids are shown as is.
	Areas map[string]model.Area
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

func (o Options) areaName(id string) string {
	if a, ok := o.Areas[id]; ok && a.DisplayName != "" {
		return a.DisplayName
	}
	return id
}

// Write renders results to w in format f.
func Write(w io.Writer, f Format, results []browse.Result, opts Options) error {
	switch f {
	case FormatTable:
		return writeTable(w, results, opts)
	case FormatJSON:
		return writeJSON(w, results, opts)
	case FormatYAML:
		return writeYAML(w, results, opts)
	case FormatGeoJSON:
		return writeGeoJSON(w, results, opts)
	case FormatXLSX:
		return writeXLSX(w, results, opts)
	}
	return eris.Errorf("export: unknown format %q", string(f))
}

// record is the structured form of one result.
type record struct {
	model.Venue  `yaml:",inline"`
	DistanceKm   *float64        `json:"distanceKm,omitempty" yaml:"distance_km,omitempty"`
	Verification model.Freshness `json:"verification" yaml:"verification"`
}

func records(results []browse.Result, opts Options) []record {
	now := opts.now()
	out := make([]record, len(results))
	for i, r := range results {
		out[i] = record{
			Venue:        r.Venue,
			DistanceKm:   r.DistanceKm,
			Verification: r.Venue.VerificationStatus(now),
		}
	}
	return out
}

func writeJSON(w io.Writer, results []browse.Result, opts Options) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records(results, opts)); err != nil {
		return eris.Wrap(err, "export: encode json")
	}
	return nil
}

func writeYAML(w io.Writer, results []browse.Result, opts Options) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records(results, opts)); err != nil {
		return eris.Wrap(err, "export: encode yaml")
	}
	if err := enc.Close(); err != nil {
		return eris.Wrap(err, "export: flush yaml")
	}
	return nil
}

// dayList renders days as display names, or "-" when none are listed.
func dayList(days []model.Day) string {
	if len(days) == 0 {
		return "-"
	}
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.DisplayName()
	}
	return strings.Join(names, ", ")
}

func distanceText(km *float64) string {
	if km == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f km", *km)
}

func membershipText(v model.Venue) string {
	if !v.MembershipRequired {
		return "no"
	}
	if v.MembershipDetails != nil && *v.MembershipDetails != "" {
		return *v.MembershipDetails
	}
	return "yes"
}
