package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/kidseatfree/venue-cli/internal/browse"
	"github.com/kidseatfree/venue-cli/internal/export"
	"github.com/kidseatfree/venue-cli/internal/location"
	"github.com/kidseatfree/venue-cli/internal/model"
	"github.com/kidseatfree/venue-cli/internal/ordering"
)

var venuesCmd = &cobra.Command{
	Use:   "venues",
	Short: "List venues matching filters",
	Long: "Lists active venues in a region. Filter by day, area, or search text, or give a location " +
		"(--near, --lat/--lon, --use-device) to list venues within a radius, nearest first. " +
		"A location replaces the area and search filters; the day filter still applies.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		flags := cmd.Flags()

		region, _ := flags.GetString("region")
		day, _ := flags.GetString("day")
		area, _ := flags.GetString("area")
		search, _ := flags.GetString("search")
		near, _ := flags.GetString("near")
		useDevice, _ := flags.GetBool("use-device")
		sortBy, _ := flags.GetString("sort")
		formatName, _ := flags.GetString("format")
		outPath, _ := flags.GetString("out")

		format, err := export.ParseFormat(formatName)
		if err != nil {
			return err
		}
		if format.Binary() && (outPath == "" || outPath == "-") {
			return eris.Errorf("venues: --format %s needs --out <file>", format)
		}

		s, err := newSession(ctx, region)
		if err != nil {
			return err
		}

		if err := applyFilters(s, day, area, search); err != nil {
			return err
		}
		if flags.Changed("radius") {
			radius, _ := flags.GetFloat64("radius")
			s.SetRadiusKm(radius)
		}

		var coord *model.Coordinate
		if flags.Changed("lat") || flags.Changed("lon") {
			if !flags.Changed("lat") || !flags.Changed("lon") {
				return eris.New("venues: --lat and --lon must be given together")
			}
			lat, _ := flags.GetFloat64("lat")
			lon, _ := flags.GetFloat64("lon")
			coord = &model.Coordinate{Latitude: lat, Longitude: lon}
		}

		if st, tried := resolveLocation(ctx, s, near, coord, useDevice); tried {
			reportLocation(os.Stderr, st)
		}

		results, err := sortedResults(s, sortBy)
		if err != nil {
			return err
		}

		out, err := openOutput(outPath)
		if err != nil {
			return err
		}
		defer out.Close() //nolint:errcheck

		r, _ := s.Region()
		return export.Write(out, format, results, export.Options{Now: time.Now(), Areas: r.Areas})
	},
}

func applyFilters(s *browse.Session, day, area, search string) error {
	d, ok := model.ParseDay(day)
	if !ok {
		return eris.Errorf("venues: unknown day %q", day)
	}
	if err := s.SetDay(d); err != nil {
		return err
	}
	if err := s.SetArea(strings.ToLower(strings.TrimSpace(area))); err != nil {
		return err
	}
	s.SetSearch(search)
	return nil
}

// resolveLocation applies at most one location source: explicit coordinates,
// then typed text, then the device. A suburb whose name matches the text
// exactly is used without a lookup. tried is false when no source was given.
func resolveLocation(ctx context.Context, s *browse.Session, near string, coord *model.Coordinate, useDevice bool) (st location.State, tried bool) {
	near = strings.TrimSpace(near)

	switch {
	case coord != nil:
		return s.PickSuggestion(model.AutocompleteSuggestion{
			DisplayName: fmt.Sprintf("%.4f, %.4f", coord.Latitude, coord.Longitude),
			Coordinate:  *coord,
		}), true

	case near != "":
		for _, sg := range s.Suggest(near) {
			if strings.EqualFold(sg.DisplayName, near) {
				return s.PickSuggestion(sg), true
			}
		}
		return s.ResolveAddress(ctx, near), true

	case useDevice:
		return s.UseDeviceLocation(ctx), true
	}
	return location.State{}, false
}

func reportLocation(w io.Writer, st location.State) {
	switch st.Status {
	case location.StatusResolved:
		_, _ = fmt.Fprintf(w, "Location: %s (%.4f, %.4f)\n",
			st.Resolution.Label, st.Resolution.Coordinate.Latitude, st.Resolution.Coordinate.Longitude)
	case location.StatusFailed:
		_, _ = fmt.Fprintln(w, st.Reason.Message())
	}
}

func sortedResults(s *browse.Session, sortBy string) ([]browse.Result, error) {
	if sortBy == "" {
		return s.Results()
	}

	kind, ok := ordering.ParseKind(sortBy)
	if !ok {
		return nil, eris.Errorf("venues: unknown sort %q (want day, name, verified, or distance)", sortBy)
	}

	var c ordering.Criterion
	switch kind {
	case ordering.ByDay:
		c = ordering.Day()
	case ordering.ByName:
		c = ordering.Name()
	case ordering.ByVerification:
		c = ordering.Verification()
	case ordering.ByDistance:
		spec := s.Spec()
		if !spec.HasCoordinate() {
			return nil, eris.New("venues: --sort distance needs a resolved location")
		}
		c = ordering.Distance(*spec.Coordinate)
	}
	return s.ResultsBy(c)
}

func init() {
	f := venuesCmd.Flags()
	f.String("region", "", "region id (default from data.default_region)")
	f.String("day", string(model.DayAny), "day of week, or all")
	f.String("area", model.AreaAny, "area id, or all")
	f.String("search", "", "free-text search over name, details, area, suburb, postcode, and tags")
	f.String("near", "", "suburb or address to search around")
	f.Float64("lat", 0, "latitude to search around (with --lon)")
	f.Float64("lon", 0, "longitude to search around (with --lat)")
	f.Bool("use-device", false, "search around this machine's approximate location")
	f.Float64("radius", 0, "search radius in km (default from filter.radius_km)")
	f.String("sort", "", "override ordering: day, name, verified, or distance")
	f.String("format", string(export.FormatTable), "output format: "+strings.Join(export.Formats(), ", "))
	f.String("out", "", "write output to a file instead of stdout")

	rootCmd.AddCommand(venuesCmd)
}
