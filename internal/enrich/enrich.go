// Package enrich fills in missing venue coordinates by geocoding addresses.
package enrich

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kidseatfree/venue-cli/internal/catalog"
	"github.com/kidseatfree/venue-cli/internal/model"
	"github.com/kidseatfree/venue-cli/pkg/geocode"
)

// DefaultRate is the lookup rate the public Nominatim service allows.
const DefaultRate = 1.0

// Failure describes a venue that could not be geocoded.
type Failure struct {
	VenueID string `json:"venueId"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Reason  string `json:"reason"`
}

// Report summarises one region's run.
type Report struct {
	Region   string    `json:"region"`
	Missing  bool      `json:"missing,omitempty"`
	Updated  int       `json:"updated"`
	Skipped  int       `json:"skipped"`
	Failed   int       `json:"failed"`
	Written  bool      `json:"written"`
	Failures []Failure `json:"failures,omitempty"`
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithRate limits lookups to rps per second. Non-positive means unlimited.
func WithRate(rps float64) Option {
	return func(e *Enricher) {
		if rps <= 0 {
			e.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		e.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithDryRun geocodes but never writes documents back.
func WithDryRun(dry bool) Option {
	return func(e *Enricher) { e.dryRun = dry }
}

// Enricher geocodes venues lacking coordinates.
type Enricher struct {
	catalog  *catalog.Catalog
	dir      string
	geocoder geocode.Client
	limiter  *rate.Limiter
	dryRun   bool
	log      *zap.Logger
}

// New creates an Enricher that reads through cat and writes beneath dir.
func New(cat *catalog.Catalog, dir string, gc geocode.Client, opts ...Option) *Enricher {
	e := &Enricher{
		catalog:  cat,
		dir:      dir,
		geocoder: gc,
		limiter:  rate.NewLimiter(rate.Limit(DefaultRate), 1),
		log:      zap.L().With(zap.String("component", "enrich")),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run enriches the named regions, or every region by priority when none are named.
func (e *Enricher) Run(ctx context.Context, regionIDs ...string) ([]Report, error) {
	if len(regionIDs) == 0 {
		for _, r := range e.catalog.Regions() {
			regionIDs = append(regionIDs, r.ID)
		}
	}

	reports := make([]Report, 0, len(regionIDs))
	for _, id := range regionIDs {
		rep, err := e.Region(ctx, id)
		if err != nil {
			return reports, err
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

// Region enriches one region and writes its venue document back when anything changed.
func (e *Enricher) Region(ctx context.Context, id string) (Report, error) {
	rep := Report{Region: id}

	region, ok := e.catalog.Region(id)
	if !ok {
		return rep, eris.Wrapf(catalog.ErrUnknownRegion, "enrich: region %q", id)
	}
	if !e.catalog.Exists(region.Files.Venues) {
		e.log.Warn("skipping region, venue file not found",
			zap.String("region", id),
			zap.String("file", region.Files.Venues),
		)
		rep.Missing = true
		return rep, nil
	}

	doc, err := e.catalog.LoadVenues(id)
	if err != nil {
		return rep, eris.Wrap(err, "enrich: load venues")
	}

	e.log.Info("processing region", zap.String("region", id), zap.Int("venues", len(doc.Venues)))

	country := region.CountryCode()
	for i := range doc.Venues {
		v := &doc.Venues[i]
		if _, mapped := v.Coordinate(); mapped {
			rep.Skipped++
			continue
		}

		reason, err := e.geocodeVenue(ctx, v, country)
		if err != nil {
			return rep, err
		}
		if reason != "" {
			rep.Failed++
			rep.Failures = append(rep.Failures, Failure{
				VenueID: v.ID,
				Name:    v.Name,
				Address: v.Address,
				Reason:  reason,
			})
			e.log.Warn("geocoding failed", zap.String("venue", v.ID), zap.String("reason", reason))
			continue
		}
		rep.Updated++
		e.log.Info("geocoded venue",
			zap.String("venue", v.ID),
			zap.Float64("lat", *v.Latitude),
			zap.Float64("lon", *v.Longitude),
		)
	}

	if rep.Updated > 0 && !e.dryRun {
		if err := catalog.SaveVenues(e.dir, region, doc); err != nil {
			return rep, eris.Wrap(err, "enrich: save venues")
		}
		rep.Written = true
	}

	e.log.Info("region complete",
		zap.String("region", id),
		zap.Int("updated", rep.Updated),
		zap.Int("skipped", rep.Skipped),
		zap.Int("failed", rep.Failed),
		zap.Bool("written", rep.Written),
	)
	return rep, nil
}

// geocodeVenue resolves v's address in place. A non-empty reason reports a
// per-venue failure; an error means the run itself must stop.
func (e *Enricher) geocodeVenue(ctx context.Context, v *model.Venue, country string) (string, error) {
	address := strings.TrimSpace(v.Address)
	if address == "" {
		return "no address", nil
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return "", eris.Wrap(err, "enrich: rate limit")
	}

	res, err := e.geocoder.Geocode(ctx, geocode.Query{Text: address, CountryCode: country})
	if err != nil {
		if ctx.Err() != nil {
			return "", eris.Wrap(ctx.Err(), "enrich: geocode")
		}
		return err.Error(), nil
	}
	if res == nil || !res.Matched {
		return "no results found", nil
	}

	v.SetCoordinate(model.Coordinate{Latitude: res.Latitude, Longitude: res.Longitude})
	if res.Suburb != "" {
		v.Suburb = res.Suburb
	}
	if res.Postcode != "" {
		v.Postcode = res.Postcode
	}
	return "", nil
}

// Totals sums reports.
func Totals(reports []Report) Report {
	var t Report
	for _, r := range reports {
		t.Updated += r.Updated
		t.Skipped += r.Skipped
		t.Failed += r.Failed
	}
	return t
}
