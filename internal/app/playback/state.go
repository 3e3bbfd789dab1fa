// Package playback provides the playback loop and command dispatcher
// driving the queue against a playback engine.
package playback

// State represents the playback loop state.
type State int

const (
	StateIdle          State = iota // Loop not started
	StateLoading                    // Engine loading the current track
	StatePlaying                    // Track is rendering
	StatePaused                     // Track is paused
	StateTransitioning              // Between tracks, applying repeat policy and stats
	StateStopped                    // Terminal: queue exhausted or explicit stop
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateTransitioning:
		return "transitioning"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
