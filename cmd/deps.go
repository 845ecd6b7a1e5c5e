package main

import (
	"context"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/kidseatfree/venue-cli/internal/browse"
	"github.com/kidseatfree/venue-cli/internal/catalog"
	"github.com/kidseatfree/venue-cli/internal/config"
	"github.com/kidseatfree/venue-cli/internal/location"
	"github.com/kidseatfree/venue-cli/pkg/geocode"
	"github.com/kidseatfree/venue-cli/pkg/geolocate"
)

func openCatalog() (*catalog.Catalog, error) {
	cat, err := catalog.OpenDir(cfg.Data.Dir)
	if err != nil {
		return nil, eris.Wrapf(err, "open data dir %s", cfg.Data.Dir)
	}
	return cat, nil
}

// newGeocoder builds the address lookup client. rps limits request rate;
// 0 leaves throttling to the caller.
func newGeocoder(gc config.GeocodeConfig, rps float64) geocode.Client {
	return geocode.NewClient(
		geocode.WithBaseURL(gc.BaseURL),
		geocode.WithUserAgent(gc.UserAgent),
		geocode.WithTimeout(gc.Timeout()),
		geocode.WithRateLimit(rps),
	)
}

// newDeviceLocator picks the position source for "use my location".
func newDeviceLocator(dc config.DeviceConfig) geolocate.Locator {
	if !dc.Enabled {
		return geolocate.Disabled{}
	}
	if dc.Provider == config.DeviceProviderStatic {
		return geolocate.NewStaticLocator(dc.Latitude, dc.Longitude)
	}
	return geolocate.NewIPLocator(nil, dc.BaseURL)
}

func newResolver(c *config.Config) *location.Resolver {
	return location.NewResolver(
		newDeviceLocator(c.Device),
		newGeocoder(c.Geocode, 0),
		location.WithDeviceTimeout(c.Device.Timeout()),
		location.WithMaxFixAge(c.Device.MaxAge()),
	)
}

// newSession opens the data directory and selects region, or the configured
// default region when region is empty.
func newSession(ctx context.Context, region string) (*browse.Session, error) {
	cat, err := openCatalog()
	if err != nil {
		return nil, err
	}

	s := browse.NewSession(cat, newResolver(cfg),
		browse.WithRadiusKm(cfg.Filter.RadiusKm),
		browse.WithSuggestionLimit(cfg.Filter.SuggestionLimit),
	)

	if region == "" {
		region = cfg.Data.DefaultRegion
	}
	if err := s.SelectRegion(ctx, region); err != nil {
		return nil, err
	}
	return s, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns stdout for "" or "-", otherwise creates path.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, eris.Wrapf(err, "create %s", path)
	}
	return f, nil
}
