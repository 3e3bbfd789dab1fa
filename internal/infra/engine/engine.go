// Package engine wraps an audio decode and render pipeline for one
// currently loaded track.
package engine

import (
	"time"

	"github.com/cockroachdb/errors"
)

// Errors returned by engine implementations.
var (
	ErrNoTrackLoaded = errors.New("no track loaded")
	ErrInvalidVolume = errors.New("volume must be between 0.0 and 1.0")
)

// EventType represents an asynchronous engine notification.
type EventType int

const (
	EventEOS   EventType = iota // Track finished rendering
	EventError                  // Decode or output error mid-session
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventEOS:
		return "eos"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is delivered on the engine's event channel.
type Event struct {
	Type EventType
	Err  error // Set for EventError
}

// Engine is the playback engine contract. Implementations own exactly one
// loaded track at a time; Load replaces it.
//
// Transport calls are synchronous. Completion and mid-session failures are
// delivered asynchronously on Events.
type Engine interface {
	// Load prepares the track at the given URI for playback.
	Load(uri string) error
	// Play starts rendering the loaded track.
	Play() error
	// Pause suspends rendering without losing position.
	Pause()
	// Resume continues rendering after a pause.
	Resume()
	// Stop halts rendering and releases the loaded track.
	Stop()
	// Seek moves the play position of the loaded track.
	Seek(pos time.Duration) error
	// SetVolume sets the output volume, 0.0 to 1.0.
	SetVolume(v float64) error
	// Position returns the current play position of the loaded track.
	Position() time.Duration
	// Duration returns the total length of the loaded track, or zero when
	// unknown.
	Duration() time.Duration
	// Events returns the channel delivering EOS and error notifications.
	Events() <-chan Event
	// Close releases all engine resources.
	Close() error
}
