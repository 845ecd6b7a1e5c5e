package location

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kidseatfree/venue-cli/internal/model"
	"github.com/kidseatfree/venue-cli/pkg/geocode"
	"github.com/kidseatfree/venue-cli/pkg/geolocate"
)

// Default device request parameters.
const (
	DefaultDeviceTimeout = 10 * time.Second
	DefaultMaxFixAge     = 5 * time.Minute
)

// Option configures a Resolver.
type Option func(*Resolver)

// WithDeviceTimeout bounds how long a device position request may take.
func WithDeviceTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.deviceTimeout = d
		}
	}
}

// WithMaxFixAge sets how old a cached device fix may be and still be reused.
func WithMaxFixAge(d time.Duration) Option {
	return func(r *Resolver) {
		if d >= 0 {
			r.maxFixAge = d
		}
	}
}

// WithCountryCode constrains address lookups to one country.
func WithCountryCode(cc string) Option {
	return func(r *Resolver) { r.country = cc }
}

// Resolver runs location resolution attempts. Only the most recently initiated
// attempt may change the state; completions of superseded attempts are dropped.
// It is safe for concurrent use.
type Resolver struct {
	device        geolocate.Locator
	geocoder      geocode.Client
	country       string
	deviceTimeout time.Duration
	maxFixAge     time.Duration
	newID         func() string
	log           *zap.Logger

	mu     sync.Mutex
	state  State
	latest string
	cancel context.CancelFunc
}

// NewResolver creates a Resolver. device may be nil, in which case device
// requests fail as unavailable; geocoder may be nil, in which case address
// lookups fail as unknown.
func NewResolver(device geolocate.Locator, geocoder geocode.Client, opts ...Option) *Resolver {
	r := &Resolver{
		geocoder:      geocoder,
		deviceTimeout: DefaultDeviceTimeout,
		maxFixAge:     DefaultMaxFixAge,
		newID:         uuid.NewString,
		log:           zap.L().With(zap.String("component", "location")),
		state:         State{Status: StatusIdle},
	}
	for _, opt := range opts {
		opt(r)
	}
	if device != nil {
		r.device = geolocate.NewCachingLocator(device, r.maxFixAge)
	}
	return r
}

// SetCountryCode changes the country constraint for later address lookups.
func (r *Resolver) SetCountryCode(cc string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.country = cc
}

// State returns a snapshot of the current state.
func (r *Resolver) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.clone()
}

// UseDeviceLocation requests a one-shot device position, bounded by the device
// timeout, and returns the resulting state.
func (r *Resolver) UseDeviceLocation(ctx context.Context) State {
	id, ctx, cancel := r.begin(ctx)
	defer cancel()

	if r.device == nil {
		return r.fail(id, ReasonPositionUnavailable, nil)
	}

	ctx, stop := context.WithTimeout(ctx, r.deviceTimeout)
	defer stop()

	fix, err := r.device.Locate(ctx)
	if err != nil {
		return r.fail(id, deviceReason(err), err)
	}

	return r.succeed(id, Resolution{
		Coordinate: model.Coordinate{Latitude: fix.Latitude, Longitude: fix.Longitude},
		Label:      "Current location",
		Source:     SourceDevice,
	})
}

// ResolveAddressText geocodes free text within the configured country. Blank
// text is a no-op: no lookup is issued and the state is returned unchanged.
func (r *Resolver) ResolveAddressText(ctx context.Context, text string) State {
	text = strings.TrimSpace(text)
	if text == "" {
		return r.State()
	}

	id, ctx, cancel := r.begin(ctx)
	defer cancel()

	if r.geocoder == nil {
		return r.fail(id, ReasonUnknown, nil)
	}

	r.mu.Lock()
	country := r.country
	r.mu.Unlock()

	res, err := r.geocoder.Geocode(ctx, geocode.Query{Text: text, CountryCode: country})
	if err != nil {
		return r.fail(id, ReasonUnknown, err)
	}
	if res == nil || !res.Matched {
		return r.fail(id, ReasonNotFound, nil)
	}

	return r.succeed(id, Resolution{
		Coordinate: model.Coordinate{Latitude: res.Latitude, Longitude: res.Longitude},
		Label:      text,
		Suburb:     res.Suburb,
		Postcode:   res.Postcode,
		Source:     SourceAddress,
	})
}

// SelectSuggestion resolves directly to a picked suggestion's coordinate
// without any lookup. It supersedes any attempt still in flight.
func (r *Resolver) SelectSuggestion(s model.AutocompleteSuggestion) State {
	id, _, cancel := r.begin(context.Background())
	defer cancel()

	return r.succeed(id, Resolution{
		Coordinate: s.Coordinate,
		Label:      s.DisplayName,
		Source:     SourceSuggestion,
	})
}

// Clear returns to idle and discards the resolved coordinate. Any attempt in
// flight is abandoned and its result ignored.
func (r *Resolver) Clear() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.latest = ""
	r.state = State{Status: StatusIdle}
	return r.state.clone()
}

// begin starts a new attempt, abandoning any earlier one still in flight.
func (r *Resolver) begin(parent context.Context) (string, context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	id := r.newID()

	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.cancel = cancel
	r.latest = id
	r.state = State{
		Status:     StatusResolving,
		AttemptID:  id,
		Resolution: r.state.Resolution,
	}
	r.mu.Unlock()

	r.log.Debug("resolution attempt started", zap.String("attempt_id", id))
	return id, ctx, cancel
}

func (r *Resolver) succeed(id string, res Resolution) State {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id != r.latest {
		r.log.Debug("discarding stale resolution", zap.String("attempt_id", id))
		return r.state.clone()
	}
	r.cancel = nil
	r.state = State{Status: StatusResolved, AttemptID: id, Resolution: &res}

	r.log.Info("location resolved",
		zap.String("attempt_id", id),
		zap.String("source", string(res.Source)),
		zap.Float64("lat", res.Coordinate.Latitude),
		zap.Float64("lon", res.Coordinate.Longitude),
	)
	return r.state.clone()
}

func (r *Resolver) fail(id string, reason Reason, cause error) State {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id != r.latest {
		r.log.Debug("discarding stale failure", zap.String("attempt_id", id), zap.Error(cause))
		return r.state.clone()
	}
	r.cancel = nil
	r.state = State{
		Status:     StatusFailed,
		Reason:     reason,
		AttemptID:  id,
		Resolution: r.state.Resolution,
	}

	r.log.Info("location resolution failed",
		zap.String("attempt_id", id),
		zap.String("reason", string(reason)),
		zap.Error(cause),
	)
	return r.state.clone()
}

// deviceReason maps a device lookup error onto a failure reason.
func deviceReason(err error) Reason {
	switch {
	case errors.Is(err, geolocate.ErrPermissionDenied):
		return ReasonPermissionDenied
	case errors.Is(err, geolocate.ErrPositionUnavailable):
		return ReasonPositionUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ReasonTimeout
	}
	return ReasonUnknown
}
