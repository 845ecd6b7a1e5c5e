// Package geolocate provides one-shot "where is this device" lookups for a
// terminal session, standing in for a browser's geolocation capability.
package geolocate

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrPermissionDenied means the user has not allowed location lookups.
	ErrPermissionDenied = errors.New("geolocate: permission denied")
	// ErrPositionUnavailable means no position could be determined.
	ErrPositionUnavailable = errors.New("geolocate: position unavailable")
)

// Fix is a single device position.
type Fix struct {
	Latitude  float64
	Longitude float64
	At        time.Time
}

// Locator returns the device's current position. Implementations honour ctx's
// deadline and report expiry as context.DeadlineExceeded.
type Locator interface {
	Locate(ctx context.Context) (*Fix, error)
}

// Disabled is a Locator for sessions where location access is turned off.
type Disabled struct{}

// Locate implements Locator.
func (Disabled) Locate(context.Context) (*Fix, error) {
	return nil, ErrPermissionDenied
}

// StaticLocator reports a fixed, configured position.
type StaticLocator struct {
	Latitude  *float64
	Longitude *float64
	now       func() time.Time
}

// NewStaticLocator returns a locator for a configured position. Nil values
// make every lookup fail with ErrPositionUnavailable.
func NewStaticLocator(lat, lon *float64) *StaticLocator {
	return &StaticLocator{Latitude: lat, Longitude: lon, now: time.Now}
}

// Locate implements Locator.
func (s *StaticLocator) Locate(ctx context.Context) (*Fix, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Latitude == nil || s.Longitude == nil {
		return nil, ErrPositionUnavailable
	}
	return &Fix{Latitude: *s.Latitude, Longitude: *s.Longitude, At: s.now()}, nil
}

// CachingLocator reuses a recent fix instead of asking the wrapped locator again.
type CachingLocator struct {
	next   Locator
	maxAge time.Duration
	now    func() time.Time

	mu   sync.Mutex
	last *Fix
}

// NewCachingLocator wraps next, reusing any successful fix younger than maxAge.
func NewCachingLocator(next Locator, maxAge time.Duration) *CachingLocator {
	return &CachingLocator{next: next, maxAge: maxAge, now: time.Now}
}

// Locate implements Locator.
func (c *CachingLocator) Locate(ctx context.Context) (*Fix, error) {
	c.mu.Lock()
	if c.last != nil && c.now().Sub(c.last.At) <= c.maxAge {
		fix := *c.last
		c.mu.Unlock()
		return &fix, nil
	}
	c.mu.Unlock()

	fix, err := c.next.Locate(ctx)
	if err != nil {
		return nil, err
	}
	if fix.At.IsZero() {
		fix.At = c.now()
	}

	c.mu.Lock()
	stored := *fix
	c.last = &stored
	c.mu.Unlock()
	return fix, nil
}
