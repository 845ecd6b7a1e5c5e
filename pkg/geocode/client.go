// Package geocode resolves free-text addresses to coordinates via the
// OpenStreetMap Nominatim search API.
package geocode

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public Nominatim search endpoint.
const DefaultBaseURL = "https://nominatim.openstreetmap.org/search"

// DefaultUserAgent identifies the client to Nominatim, which rejects anonymous traffic.
const DefaultUserAgent = "venue-cli/1.0"

// Client geocodes free-text addresses.
type Client interface {
	// Geocode returns the best single match for q. A lookup that finds nothing,
	// or that the service rejects with a non-2xx status, returns an unmatched
	// Result and a nil error. Transport and decode failures return an error.
	Geocode(ctx context.Context, q Query) (*Result, error)
}

// Query is a free-text lookup constrained to one country.
type Query struct {
	Text        string
	CountryCode string // ISO 3166-1 alpha-2, e.g. "au"
}

// Result holds the geocoding output for a query.
type Result struct {
	Latitude         float64
	Longitude        float64
	FormattedAddress string
	Suburb           string
	Postcode         string
	Matched          bool
}

// Option configures the geocoder.
type Option func(*geocoder)

// WithBaseURL points the client at a different Nominatim-compatible endpoint.
func WithBaseURL(u string) Option {
	return func(g *geocoder) {
		if u != "" {
			g.baseURL = u
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(g *geocoder) {
		if ua != "" {
			g.userAgent = ua
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *geocoder) {
		g.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(g *geocoder) {
		if d > 0 {
			g.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithRateLimit throttles requests to rps per second. Bulk callers should use 1,
// per the Nominatim usage policy. Interactive lookups are not throttled by default.
func WithRateLimit(rps float64) Option {
	return func(g *geocoder) {
		if rps <= 0 {
			g.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

type geocoder struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
}

// NewClient creates a new geocoding Client with the given options.
func NewClient(opts ...Option) Client {
	g := &geocoder{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    DefaultBaseURL,
		userAgent:  DefaultUserAgent,
		limiter:    rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}
