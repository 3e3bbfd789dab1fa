package library

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
	zlog "github.com/rs/zerolog/log"

	"quaver/internal/domain/track"
)

var audioExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".ogg":  true,
	".wav":  true,
}

// ScanResult summarizes a library scan.
type ScanResult struct {
	Scanned int // Audio files found
	Stored  int // Files inserted or updated
	Failed  int // Files that could not be read
	Removed int // Known tracks whose files disappeared
}

// Scanner walks music directories and syncs their metadata into the
// store.
type Scanner struct {
	store *Store
}

// NewScanner creates a scanner writing into store.
func NewScanner(store *Store) *Scanner {
	return &Scanner{store: store}
}

// Scan walks the given roots, upserts every readable audio file, and
// marks previously known tracks that no longer exist as unavailable.
// Unreadable files are logged and skipped, they never abort the scan.
func (sc *Scanner) Scan(roots []string) (ScanResult, error) {
	var result ScanResult
	seen := make(map[string]bool)

	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
			if walkErr != nil {
				zlog.Warn().Err(walkErr).Str("path", path).Msg("library: cannot access path")
				return nil
			}
			if d.IsDir() || !audioExtensions[strings.ToLower(filepath.Ext(path))] {
				return nil
			}

			result.Scanned++
			t, mtime, err := readTrack(path)
			if err != nil {
				result.Failed++
				zlog.Warn().Err(err).Str("path", path).Msg("library: cannot read file")
				return nil
			}
			seen[t.URL] = true

			if _, err := sc.store.Upsert(t, mtime); err != nil {
				result.Failed++
				zlog.Warn().Err(err).Str("path", path).Msg("library: cannot store track")
				return nil
			}
			result.Stored++
			return nil
		})
		if err != nil {
			return result, err
		}
	}

	urls, err := sc.store.URLs()
	if err != nil {
		return result, err
	}
	var missing []string
	for _, url := range urls {
		if !seen[url] {
			missing = append(missing, url)
		}
	}
	if len(missing) > 0 {
		if err := sc.store.MarkUnavailable(missing); err != nil {
			return result, err
		}
		result.Removed = len(missing)
	}

	zlog.Info().
		Int("scanned", result.Scanned).
		Int("stored", result.Stored).
		Int("failed", result.Failed).
		Int("removed", result.Removed).
		Msg("library: scan complete")
	return result, nil
}

// readTrack extracts tag metadata and duration from an audio file.
func readTrack(path string) (track.Track, int64, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return track.Track{}, 0, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return track.Track{}, 0, err
	}

	t := track.Track{
		URL:   "file://" + abs,
		Title: filepath.Base(abs),
	}

	f, err := os.Open(abs)
	if err != nil {
		return track.Track{}, 0, err
	}
	defer f.Close()

	// Tags are optional, a file with none still enters the library
	// under its file name.
	if m, err := tag.ReadFrom(f); err == nil {
		if title := m.Title(); title != "" {
			t.Title = title
		}
		t.Artist = m.Artist()
		t.Album = m.Album()
		t.AlbumArtist = m.AlbumArtist()
		t.Genre = m.Genre()
		t.Year = m.Year()
		t.TrackNumber, _ = m.Track()
		t.Disc, _ = m.Disc()
	}

	if d, err := audioDuration(abs); err == nil {
		t.Duration = d
	} else {
		zlog.Debug().Err(err).Str("path", abs).Msg("library: cannot determine duration")
	}

	return t, info.ModTime().Unix(), nil
}

// audioDuration decodes just enough of the file to learn its length.
func audioDuration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	}
	if err != nil {
		return 0, err
	}
	defer streamer.Close()

	return format.SampleRate.D(streamer.Len()), nil
}
