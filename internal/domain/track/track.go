// Package track provides the Track domain entity.
package track

import (
	"fmt"
	"time"
)

// Track represents a catalog track entity.
// Counter fields are a snapshot of the persisted values at load time;
// the library store owns the authoritative copy.
type Track struct {
	ID          int64         // Library track ID
	Title       string        // Track title
	Artist      string        // Artist name
	Album       string        // Album name
	AlbumArtist string        // Album artist name (falls back to Artist when empty)
	Genre       string        // Genre
	Year        int           // Release year
	TrackNumber int           // Track number within the album
	Disc        int           // Disc number
	Duration    time.Duration // Track duration (zero when the file carries no length metadata)
	URL         string        // Source URI (file://... for local files)

	PlayCount  int       // Times played to (near) completion
	SkipCount  int       // Times skipped before the play threshold
	LastPlayed time.Time // Last completed play (zero if never played)
}

// EffectiveAlbumArtist returns the album artist, falling back to the
// track artist when the tag is absent.
func (t *Track) EffectiveAlbumArtist() string {
	if t.AlbumArtist != "" {
		return t.AlbumArtist
	}
	return t.Artist
}

// HasDuration reports whether the track carries usable length metadata.
func (t *Track) HasDuration() bool {
	return t.Duration > 0
}

// String formats the track for logs and queue listings.
func (t *Track) String() string {
	artist := t.Artist
	if artist == "" {
		artist = "Unknown Artist"
	}
	title := t.Title
	if title == "" {
		title = "Unknown Title"
	}

	s := fmt.Sprintf("%s - %s", artist, title)
	if t.Album != "" {
		if t.Year > 0 {
			s += fmt.Sprintf(" (%s, %d)", t.Album, t.Year)
		} else {
			s += fmt.Sprintf(" (%s)", t.Album)
		}
	}
	if t.Duration > 0 {
		total := int(t.Duration.Round(time.Second).Seconds())
		s += fmt.Sprintf(" [%d:%02d]", total/60, total%60)
	}
	return s
}
