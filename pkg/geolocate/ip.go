package geolocate

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// DefaultIPLookupURL is an IP geolocation endpoint returning {status, lat, lon}.
const DefaultIPLookupURL = "http://ip-api.com/json"

type ipLookupResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// IPLocator approximates the device position from its public IP address.
type IPLocator struct {
	httpClient *http.Client
	url        string
	now        func() time.Time
}

// NewIPLocator returns an IPLocator querying lookupURL (DefaultIPLookupURL when empty).
func NewIPLocator(hc *http.Client, lookupURL string) *IPLocator {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	if lookupURL == "" {
		lookupURL = DefaultIPLookupURL
	}
	return &IPLocator{httpClient: hc, url: lookupURL, now: time.Now}
}

// Locate implements Locator.
func (l *IPLocator) Locate(ctx context.Context) (*Fix, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "geolocate: build request")
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, eris.Wrap(err, "geolocate: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		zap.L().Debug("geolocate: lookup returned non-200",
			zap.Int("status", resp.StatusCode),
		)
		return nil, ErrPositionUnavailable
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, eris.Wrap(err, "geolocate: read body")
	}

	var out ipLookupResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, eris.Wrap(err, "geolocate: parse response")
	}
	if out.Status != "success" {
		zap.L().Debug("geolocate: lookup failed", zap.String("message", out.Message))
		return nil, ErrPositionUnavailable
	}

	return &Fix{Latitude: out.Lat, Longitude: out.Lon, At: l.now()}, nil
}
