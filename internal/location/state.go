// Package location turns a user signal (device position, typed address, or a
// picked suggestion) into a single resolved coordinate.
package location

import (
	"fmt"

	"github.com/kidseatfree/venue-cli/internal/model"
)

// Status is the resolver's position in its idle → resolving → resolved|failed cycle.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusResolving Status = "resolving"
	StatusResolved  Status = "resolved"
	StatusFailed    Status = "failed"
)

// Reason explains a failed resolution. The zero value means no failure.
type Reason string

const (
	ReasonNone                Reason = ""
	ReasonPermissionDenied    Reason = "permission_denied"
	ReasonPositionUnavailable Reason = "position_unavailable"
	ReasonTimeout             Reason = "timeout"
	ReasonUnknown             Reason = "unknown"
	ReasonNotFound            Reason = "not_found"
)

// Message returns the user-facing text for r. Each reason has exactly one message.
func (r Reason) Message() string {
	switch r {
	case ReasonNone:
		return ""
	case ReasonPermissionDenied:
		return "Location access was denied. Allow location access or enter a suburb instead."
	case ReasonPositionUnavailable:
		return "Your location is unavailable right now. Try entering a suburb instead."
	case ReasonTimeout:
		return "Getting your location took too long. Please try again."
	case ReasonUnknown:
		return "Something went wrong while finding that location. Please try again."
	case ReasonNotFound:
		return "Couldn't find that location. Try a suburb name or a fuller address."
	}
	panic(fmt.Sprintf("location: no message for reason %q", string(r)))
}

// Source records which entry point produced a resolution.
type Source string

const (
	SourceDevice     Source = "device"
	SourceAddress    Source = "address"
	SourceSuggestion Source = "suggestion"
)

// Resolution is a successfully resolved reference point.
type Resolution struct {
	Coordinate model.Coordinate
	Label      string
	Suburb     string
	Postcode   string
	Source     Source
}

// State is a snapshot of the resolver.
//
// Resolution is the most recent successful resolution. It survives later failed
// or in-flight attempts and is only discarded by Clear.
type State struct {
	Status     Status
	Reason     Reason
	AttemptID  string
	Resolution *Resolution
}

// HasCoordinate reports whether a resolved coordinate is available.
func (s State) HasCoordinate() bool {
	return s.Resolution != nil
}

func (s State) clone() State {
	if s.Resolution != nil {
		r := *s.Resolution
		s.Resolution = &r
	}
	return s
}
