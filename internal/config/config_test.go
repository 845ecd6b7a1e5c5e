package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.Data.Dir)
	assert.Equal(t, "act-canberra", cfg.Data.DefaultRegion)
	assert.InDelta(t, 10.0, cfg.Filter.RadiusKm, 0.001)
	assert.Equal(t, 5, cfg.Filter.SuggestionLimit)
	assert.Equal(t, "https://nominatim.openstreetmap.org/search", cfg.Geocode.BaseURL)
	assert.Equal(t, "venue-cli/1.0", cfg.Geocode.UserAgent)
	assert.Equal(t, 10, cfg.Geocode.TimeoutSecs)
	assert.InDelta(t, 1.0, cfg.Geocode.RateLimit, 0.001)
	assert.True(t, cfg.Device.Enabled)
	assert.Equal(t, DeviceProviderIP, cfg.Device.Provider)
	assert.Equal(t, "http://ip-api.com/json", cfg.Device.BaseURL)
	assert.Equal(t, 300, cfg.Device.MaxAgeSecs)
	assert.Nil(t, cfg.Device.Latitude)
	assert.Nil(t, cfg.Device.Longitude)
	assert.Equal(t, 4, cfg.LinkCheck.Concurrency)
	assert.Equal(t, 10, cfg.LinkCheck.TimeoutSecs)
	assert.Equal(t, 2, cfg.LinkCheck.MaxAttempts)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)

	assert.NoError(t, cfg.Validate())
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
data:
  dir: /srv/venues
filter:
  radius_km: 4.5
device:
  provider: static
  latitude: -35.28
  longitude: 149.13
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/venues", cfg.Data.Dir)
	assert.InDelta(t, 4.5, cfg.Filter.RadiusKm, 0.001)
	assert.Equal(t, DeviceProviderStatic, cfg.Device.Provider)
	require.NotNil(t, cfg.Device.Latitude)
	assert.InDelta(t, -35.28, *cfg.Device.Latitude, 0.0001)
	assert.InDelta(t, 149.13, *cfg.Device.Longitude, 0.0001)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	// Defaults still apply for unset values
	assert.Equal(t, "act-canberra", cfg.Data.DefaultRegion)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log:\n  level: debug\n"), 0644))
	t.Setenv("VENUE_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("VENUE_DATA_DEFAULT_REGION", "nsw-sydney")
	t.Setenv("VENUE_LINKCHECK_CONCURRENCY", "8")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "nsw-sydney", cfg.Data.DefaultRegion)
	assert.Equal(t, 8, cfg.LinkCheck.Concurrency)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log: [unclosed\n"), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestDurations(t *testing.T) {
	cfg := Config{
		Geocode:   GeocodeConfig{TimeoutSecs: 3},
		Device:    DeviceConfig{TimeoutSecs: 4, MaxAgeSecs: 60},
		LinkCheck: LinkCheckConfig{TimeoutSecs: 5},
	}
	assert.Equal(t, "3s", cfg.Geocode.Timeout().String())
	assert.Equal(t, "4s", cfg.Device.Timeout().String())
	assert.Equal(t, "1m0s", cfg.Device.MaxAge().String())
	assert.Equal(t, "5s", cfg.LinkCheck.Timeout().String())
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Data.Dir = "data"
	cfg.Filter.RadiusKm = 10
	cfg.Geocode.BaseURL = "https://nominatim.openstreetmap.org/search"
	cfg.Geocode.RateLimit = 1
	cfg.Device.Enabled = true
	cfg.Device.Provider = DeviceProviderIP
	cfg.LinkCheck.Concurrency = 4
	cfg.LinkCheck.MaxAttempts = 2
	return cfg
}

func TestValidate(t *testing.T) {
	lat, lon := -35.28, 149.13

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"no data dir", func(c *Config) { c.Data.Dir = "" }, "data.dir"},
		{"zero radius", func(c *Config) { c.Filter.RadiusKm = 0 }, "filter.radius_km"},
		{"no geocode url", func(c *Config) { c.Geocode.BaseURL = "" }, "geocode.base_url"},
		{"negative rate", func(c *Config) { c.Geocode.RateLimit = -1 }, "geocode.rate_limit"},
		{"unknown provider", func(c *Config) { c.Device.Provider = "gps" }, "device.provider"},
		{"static without fix", func(c *Config) { c.Device.Provider = DeviceProviderStatic }, "device.latitude"},
		{"static disabled", func(c *Config) {
			c.Device.Provider = DeviceProviderStatic
			c.Device.Enabled = false
		}, ""},
		{"static with fix", func(c *Config) {
			c.Device.Provider = DeviceProviderStatic
			c.Device.Latitude, c.Device.Longitude = &lat, &lon
		}, ""},
		{"concurrency low", func(c *Config) { c.LinkCheck.Concurrency = 0 }, "linkcheck.concurrency"},
		{"concurrency high", func(c *Config) { c.LinkCheck.Concurrency = 100 }, "linkcheck.concurrency"},
		{"attempts", func(c *Config) { c.LinkCheck.MaxAttempts = 0 }, "linkcheck.max_attempts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validDefaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := validDefaults()
	cfg.Data.Dir = ""
	cfg.LinkCheck.MaxAttempts = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data.dir")
	assert.Contains(t, err.Error(), "linkcheck.max_attempts")
}
