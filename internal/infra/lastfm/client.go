// Package lastfm submits listening activity to Last.fm.
package lastfm

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shkh/lastfm-go/lastfm"

	"quaver/internal/domain/track"
)

// ErrNotAuthenticated is returned when an operation requires a session key.
var ErrNotAuthenticated = errors.New("not authenticated")

// Client wraps the Last.fm API for scrobbling operations.
type Client struct {
	api        *lastfm.Api
	sessionKey string
}

// NewClient creates a Last.fm client with the given credentials. The
// session key comes from a one-time desktop authorization.
func NewClient(apiKey, apiSecret, sessionKey string) *Client {
	api := lastfm.New(apiKey, apiSecret)
	if sessionKey != "" {
		api.SetSession(sessionKey)
	}
	return &Client{
		api:        api,
		sessionKey: sessionKey,
	}
}

// IsAuthenticated returns true if a session key is set.
func (c *Client) IsAuthenticated() bool {
	return c.sessionKey != ""
}

// UpdateNowPlaying sends a "now playing" notification to Last.fm.
func (c *Client) UpdateNowPlaying(t track.Track) error {
	if !c.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	_, err := c.api.Track.UpdateNowPlaying(c.params(t, nil))
	return errors.Wrap(err, "update now playing")
}

// Scrobble submits a finished play to Last.fm.
func (c *Client) Scrobble(t track.Track, startedAt time.Time) error {
	if !c.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	_, err := c.api.Track.Scrobble(c.params(t, &startedAt))
	return errors.Wrap(err, "scrobble")
}

func (c *Client) params(t track.Track, startedAt *time.Time) lastfm.P {
	params := lastfm.P{
		"artist": t.Artist,
		"track":  t.Title,
	}
	if t.Album != "" {
		params["album"] = t.Album
	}
	if t.AlbumArtist != "" && t.AlbumArtist != t.Artist {
		params["albumArtist"] = t.AlbumArtist
	}
	if t.Duration > 0 {
		params["duration"] = int(t.Duration.Seconds())
	}
	if startedAt != nil {
		params["timestamp"] = startedAt.Unix()
	}
	return params
}
