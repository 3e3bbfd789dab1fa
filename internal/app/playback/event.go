package playback

import "quaver/internal/domain/track"

// EventType represents a playback event type.
type EventType int

const (
	EventTrackStarted  EventType = iota // Track started playing
	EventTrackFinished                  // Track session ended, Outcome says how
	EventStateChanged                   // Playback state changed (pause/resume/stop)
	EventQueueEnded                     // Queue exhausted, loop stopped
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventTrackStarted:
		return "track_started"
	case EventTrackFinished:
		return "track_finished"
	case EventStateChanged:
		return "state_changed"
	case EventQueueEnded:
		return "queue_ended"
	default:
		return "unknown"
	}
}

// Event represents a playback event.
type Event struct {
	Type    EventType
	Track   *track.Track // Track concerned (nil for some events)
	Outcome Outcome      // Only meaningful for EventTrackFinished
	State   State        // Playback state after the event
}
