package playback

import (
	"time"

	"github.com/google/uuid"

	"quaver/internal/domain/track"
)

// Session describes one attempt to play one track. A new session is
// created each time the loop loads a track, including repeats of the
// same track.
type Session struct {
	ID      string
	Track   track.Track
	Started time.Time
}

func newSession(t track.Track) *Session {
	return &Session{
		ID:      uuid.NewString(),
		Track:   t,
		Started: time.Now(),
	}
}

// Elapsed returns the wall-clock time since the session started.
func (s *Session) Elapsed() time.Duration {
	return time.Since(s.Started)
}
