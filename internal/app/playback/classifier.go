package playback

import "time"

// PlayThreshold is the fraction of a track's duration that must elapse
// for a manual transition to count as a play rather than a skip.
const PlayThreshold = 0.8

// Outcome classifies how a playback session ended.
type Outcome int

const (
	OutcomePlayed Outcome = iota
	OutcomeSkipped
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomePlayed:
		return "played"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Classify determines the outcome of a session that ended after elapsed
// time on a track of the given duration. A track with unknown duration
// always classifies as played.
func Classify(elapsed, duration time.Duration) Outcome {
	if duration > 0 && elapsed.Seconds() < PlayThreshold*duration.Seconds() {
		return OutcomeSkipped
	}
	return OutcomePlayed
}
