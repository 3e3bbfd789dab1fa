package lastfm

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"quaver/internal/app/playback"
	"quaver/internal/domain/track"
)

type fakeSubmitter struct {
	nowPlaying []track.Track
	scrobbles  []track.Track
	timestamps []time.Time
	err        error
}

func (f *fakeSubmitter) UpdateNowPlaying(t track.Track) error {
	f.nowPlaying = append(f.nowPlaying, t)
	return f.err
}

func (f *fakeSubmitter) Scrobble(t track.Track, startedAt time.Time) error {
	f.scrobbles = append(f.scrobbles, t)
	f.timestamps = append(f.timestamps, startedAt)
	return f.err
}

func TestScrobblerPlayedTrack(t *testing.T) {
	fake := &fakeSubmitter{}
	started := time.Date(2026, 8, 1, 20, 0, 0, 0, time.UTC)
	s := &Scrobbler{client: fake, now: func() time.Time { return started }}

	tr := track.Track{ID: 1, Title: "Song", Artist: "Artist", Duration: 3 * time.Minute}
	s.handle(playback.Event{Type: playback.EventTrackStarted, Track: &tr})
	s.handle(playback.Event{Type: playback.EventTrackFinished, Track: &tr, Outcome: playback.OutcomePlayed})

	assert.Len(t, fake.nowPlaying, 1)
	assert.Len(t, fake.scrobbles, 1)
	assert.Equal(t, started, fake.timestamps[0], "scrobble timestamp is the track start time")
}

func TestScrobblerSkipsNotScrobbled(t *testing.T) {
	fake := &fakeSubmitter{}
	s := &Scrobbler{client: fake, now: time.Now}

	tr := track.Track{ID: 1, Title: "Song", Artist: "Artist"}
	s.handle(playback.Event{Type: playback.EventTrackStarted, Track: &tr})
	s.handle(playback.Event{Type: playback.EventTrackFinished, Track: &tr, Outcome: playback.OutcomeSkipped})

	assert.Len(t, fake.nowPlaying, 1)
	assert.Empty(t, fake.scrobbles)
}

func TestScrobblerIgnoresFailures(t *testing.T) {
	fake := &fakeSubmitter{err: errors.New("network down")}
	s := &Scrobbler{client: fake, now: time.Now}

	tr := track.Track{ID: 1, Title: "Song", Artist: "Artist"}
	s.handle(playback.Event{Type: playback.EventTrackStarted, Track: &tr})
	s.handle(playback.Event{Type: playback.EventTrackFinished, Track: &tr, Outcome: playback.OutcomePlayed})

	// Failures must not panic or stop event handling
	assert.Len(t, fake.scrobbles, 1)
}
