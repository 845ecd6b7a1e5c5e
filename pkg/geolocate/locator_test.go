package geolocate

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.Locate(context.Background())
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestStaticLocator(t *testing.T) {
	fix, err := NewStaticLocator(ptr(-35.24), ptr(149.06)).Locate(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, -35.24, fix.Latitude, 0)
	assert.InDelta(t, 149.06, fix.Longitude, 0)
	assert.False(t, fix.At.IsZero())

	_, err = NewStaticLocator(nil, ptr(149.06)).Locate(context.Background())
	assert.ErrorIs(t, err, ErrPositionUnavailable)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewStaticLocator(ptr(1), ptr(2)).Locate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

type countingLocator struct {
	calls atomic.Int32
	fix   *Fix
	err   error
}

func (c *countingLocator) Locate(context.Context) (*Fix, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	f := *c.fix
	return &f, nil
}

func TestCachingLocator_ReusesRecentFix(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	inner := &countingLocator{fix: &Fix{Latitude: 1, Longitude: 2, At: now}}

	c := NewCachingLocator(inner, 5*time.Minute)
	c.now = func() time.Time { return now }

	_, err := c.Locate(context.Background())
	require.NoError(t, err)

	now = now.Add(4 * time.Minute)
	fix, err := c.Locate(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 1.0, fix.Latitude, 0)
	assert.Equal(t, int32(1), inner.calls.Load())

	now = now.Add(2 * time.Minute)
	_, err = c.Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestCachingLocator_DoesNotCacheFailures(t *testing.T) {
	inner := &countingLocator{err: ErrPositionUnavailable}
	c := NewCachingLocator(inner, time.Minute)

	for i := 0; i < 2; i++ {
		_, err := c.Locate(context.Background())
		assert.True(t, errors.Is(err, ErrPositionUnavailable))
	}
	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestIPLocator_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"status":"success","lat":-35.2809,"lon":149.13,"city":"Canberra"}`)
	}))
	defer srv.Close()

	fix, err := NewIPLocator(srv.Client(), srv.URL).Locate(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, -35.2809, fix.Latitude, 1e-9)
	assert.InDelta(t, 149.13, fix.Longitude, 1e-9)
}

func TestIPLocator_FailStatusIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"status":"fail","message":"reserved range"}`)
	}))
	defer srv.Close()

	_, err := NewIPLocator(srv.Client(), srv.URL).Locate(context.Background())
	assert.ErrorIs(t, err, ErrPositionUnavailable)
}

func TestIPLocator_Non200IsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewIPLocator(srv.Client(), srv.URL).Locate(context.Background())
	assert.ErrorIs(t, err, ErrPositionUnavailable)
}

func TestIPLocator_DeadlineExceeded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewIPLocator(srv.Client(), srv.URL).Locate(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewIPLocator_Defaults(t *testing.T) {
	l := NewIPLocator(nil, "")
	assert.Equal(t, DefaultIPLookupURL, l.url)
	assert.Equal(t, 10*time.Second, l.httpClient.Timeout)
}
