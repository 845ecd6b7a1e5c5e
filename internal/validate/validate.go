// Package validate checks the static data documents for structural problems.
package validate

import (
	"encoding/json"
	"fmt"

	"github.com/kidseatfree/venue-cli/internal/catalog"
	"github.com/kidseatfree/venue-cli/internal/model"
)

// Problem is one defect found in the data.
type Problem struct {
	Region  string `json:"region"`
	File    string `json:"file,omitempty"`
	Venue   string `json:"venue,omitempty"`
	Message string `json:"message"`
}

func (p Problem) String() string {
	if p.Venue != "" {
		return fmt.Sprintf("Region %s: Venue %s %s", p.Region, p.Venue, p.Message)
	}
	return fmt.Sprintf("Region %s: %s", p.Region, p.Message)
}

// Report is the outcome of a validation run.
type Report struct {
	Regions  int       `json:"regions"`
	Venues   int       `json:"venues"`
	Suburbs  int       `json:"suburbs"`
	Problems []Problem `json:"problems"`
}

// OK reports whether no problems were found.
func (r Report) OK() bool {
	return len(r.Problems) == 0
}

// checker accumulates problems for one region.
type checker struct {
	report *Report
	region model.RegionMetadata
	file   string
}

func (c *checker) add(venue, format string, args ...any) {
	c.report.Problems = append(c.report.Problems, Problem{
		Region:  c.region.ID,
		File:    c.file,
		Venue:   venue,
		Message: fmt.Sprintf(format, args...),
	})
}

// Run validates every region listed in the catalog's metadata. All problems
// are collected; validation never stops at the first.
func Run(cat *catalog.Catalog) Report {
	report := Report{Problems: []Problem{}}
	for _, region := range cat.Regions() {
		report.Regions++
		checkRegion(cat, region, &report)
	}
	return report
}

func checkRegion(cat *catalog.Catalog, region model.RegionMetadata, report *Report) {
	c := &checker{report: report, region: region, file: region.Files.Venues}

	if region.Files.Venues == "" || !cat.Exists(region.Files.Venues) {
		c.add("", "Venue file not found at %s", region.Files.Venues)
		return
	}
	if region.Files.Suburbs == "" || !cat.Exists(region.Files.Suburbs) {
		c.add("", "Suburb file not found at %s", region.Files.Suburbs)
	}

	checkVenues(cat, c)

	if region.Files.Suburbs != "" && cat.Exists(region.Files.Suburbs) {
		checkSuburbs(cat, &checker{report: report, region: region, file: region.Files.Suburbs})
	}
}

// rawVenueDocument keeps fields as raw JSON so shape errors can be reported
// per field instead of failing the whole decode.
type rawVenueDocument struct {
	Region *string           `json:"region"`
	Venues []json.RawMessage `json:"venues"`
}

func checkVenues(cat *catalog.Catalog, c *checker) {
	data, err := cat.ReadFile(c.file)
	if err != nil {
		c.add("", "cannot read venue file: %v", err)
		return
	}

	var doc rawVenueDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		c.add("", "venue file is not valid JSON: %v", err)
		return
	}
	if doc.Region == nil || *doc.Region == "" || doc.Venues == nil {
		c.add("", "Missing required fields (region, venues array)")
		return
	}
	if *doc.Region != c.region.ID {
		c.add("", "Venue file region %q doesn't match expected %q", *doc.Region, c.region.ID)
	}

	seen := make(map[string]int, len(doc.Venues))
	for i, raw := range doc.Venues {
		c.report.Venues++
		checkVenue(c, i+1, raw, seen)
	}
}

func checkVenue(c *checker, n int, raw json.RawMessage, seen map[string]int) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		c.add(fmt.Sprintf("%d", n), "is not an object")
		return
	}

	var name string
	_ = json.Unmarshal(fields["name"], &name)
	label := fmt.Sprintf("%d (%s)", n, name)
	if name == "" {
		label = fmt.Sprintf("%d (unnamed)", n)
	}

	for _, f := range []string{"id", "name", "area", "days", "details", "website", "phone"} {
		if !present(fields[f]) {
			c.add(label, "missing field: %s", f)
		}
	}

	var id string
	if err := json.Unmarshal(fields["id"], &id); err == nil && id != "" {
		if first, dup := seen[id]; dup {
			c.add(label, "duplicates id %q of venue %d", id, first)
		} else {
			seen[id] = n
		}
	}

	if area := stringField(fields, "area"); area != "" && len(c.region.Areas) > 0 {
		if _, ok := c.region.Areas[area]; !ok {
			c.add(label, "has unknown area: %s", area)
		}
	}

	checkDays(c, label, fields["days"])
	checkArray(c, label, "phone", fields["phone"], true)
	checkArray(c, label, "extraDetails", fields["extraDetails"], false)
	checkCoordinates(c, label, fields)

	if d := stringField(fields, "verifiedDate"); d != "" {
		if _, ok := (model.Venue{VerifiedDate: d}).Verified(); !ok {
			c.add(label, "has unparsable verifiedDate: %s", d)
		}
	}
}

func checkDays(c *checker, label string, raw json.RawMessage) {
	if !present(raw) {
		return
	}
	var days []string
	if err := json.Unmarshal(raw, &days); err != nil {
		c.add(label, "'days' must be an array")
		return
	}
	if len(days) == 0 {
		c.add(label, "'days' array is empty")
		return
	}
	for _, d := range days {
		if !model.Day(d).Valid() {
			c.add(label, "has invalid day: %s", d)
		}
	}
}

func checkArray(c *checker, label, field string, raw json.RawMessage, nonEmpty bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		c.add(label, "'%s' must be an array", field)
		return
	}
	if nonEmpty && len(items) == 0 {
		c.add(label, "'%s' array is empty", field)
	}
}

func checkCoordinates(c *checker, label string, fields map[string]json.RawMessage) {
	lat, hasLat := numberField(fields, "latitude")
	lon, hasLon := numberField(fields, "longitude")
	if hasLat != hasLon {
		c.add(label, "has only one of latitude and longitude")
		return
	}
	if !hasLat {
		return
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		c.add(label, "has out-of-range coordinates: %g, %g", lat, lon)
	}
}

type rawSuburbDocument struct {
	Suburbs []map[string]json.RawMessage `json:"suburbs"`
}

func checkSuburbs(cat *catalog.Catalog, c *checker) {
	data, err := cat.ReadFile(c.file)
	if err != nil {
		c.add("", "cannot read suburb file: %v", err)
		return
	}

	var doc rawSuburbDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		c.add("", "suburb file is not valid JSON: %v", err)
		return
	}
	if doc.Suburbs == nil {
		c.add("", "Suburb file missing 'suburbs' array")
		return
	}

	for i, s := range doc.Suburbs {
		c.report.Suburbs++
		_, hasLat := numberField(s, "latitude")
		_, hasLon := numberField(s, "longitude")
		if stringField(s, "name") == "" || stringField(s, "displayName") == "" || !hasLat || !hasLon {
			c.add("", "Suburb %d missing required fields (name, displayName, latitude, longitude)", i+1)
		}
	}
}

// present reports whether a field exists with a truthy value: not null, not
// false, and not an empty string.
func present(raw json.RawMessage) bool {
	switch string(raw) {
	case "", "null", "false", `""`:
		return false
	}
	return true
}

func stringField(fields map[string]json.RawMessage, name string) string {
	var s string
	if err := json.Unmarshal(fields[name], &s); err != nil {
		return ""
	}
	return s
}

func numberField(fields map[string]json.RawMessage, name string) (float64, bool) {
	raw, ok := fields[name]
	if !ok || string(raw) == "null" {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	return f, true
}
