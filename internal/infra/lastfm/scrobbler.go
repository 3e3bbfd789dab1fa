package lastfm

import (
	"time"

	zlog "github.com/rs/zerolog/log"

	"quaver/internal/app/playback"
	"quaver/internal/domain/track"
)

// submitter is the subset of Client the scrobbler needs.
type submitter interface {
	UpdateNowPlaying(t track.Track) error
	Scrobble(t track.Track, startedAt time.Time) error
}

// Scrobbler forwards playback events to Last.fm. Submission failures
// are logged and dropped, playback never waits on the network.
type Scrobbler struct {
	client submitter
	now    func() time.Time

	startedAt time.Time
}

// NewScrobbler creates a scrobbler submitting through client.
func NewScrobbler(client *Client) *Scrobbler {
	return &Scrobbler{client: client, now: time.Now}
}

// Run consumes playback events until the channel closes. Call it in
// its own goroutine.
func (s *Scrobbler) Run(events <-chan playback.Event) {
	for ev := range events {
		s.handle(ev)
	}
}

func (s *Scrobbler) handle(ev playback.Event) {
	switch ev.Type {
	case playback.EventTrackStarted:
		s.startedAt = s.now()
		if err := s.client.UpdateNowPlaying(*ev.Track); err != nil {
			zlog.Warn().Err(err).Msg("lastfm: now playing update failed")
		}

	case playback.EventTrackFinished:
		// Skipped tracks are not scrobbled.
		if ev.Outcome != playback.OutcomePlayed || ev.Track == nil {
			return
		}
		startedAt := s.startedAt
		if startedAt.IsZero() {
			startedAt = s.now()
		}
		if err := s.client.Scrobble(*ev.Track, startedAt); err != nil {
			zlog.Warn().Err(err).Msgf("lastfm: scrobble failed: %s", ev.Track.String())
		}
	}
}
