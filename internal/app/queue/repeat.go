package queue

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// RepeatMode governs the next queue index after natural track completion.
type RepeatMode int

const (
	RepeatOff   RepeatMode = iota // Advance, stop at the end of the queue
	RepeatTrack                   // Replay the current track
	RepeatQueue                   // Advance, wrap to the start of the queue
)

// String returns the string representation of the repeat mode.
func (m RepeatMode) String() string {
	switch m {
	case RepeatOff:
		return "off"
	case RepeatTrack:
		return "track"
	case RepeatQueue:
		return "queue"
	default:
		return "unknown"
	}
}

// ParseRepeatMode parses a repeat mode name as used by config and the
// control protocol.
func ParseRepeatMode(s string) (RepeatMode, error) {
	switch strings.ToLower(s) {
	case "off", "":
		return RepeatOff, nil
	case "track":
		return RepeatTrack, nil
	case "queue":
		return RepeatQueue, nil
	default:
		return RepeatOff, errors.Newf("invalid repeat mode: %q", s)
	}
}
