package library

import (
	"database/sql"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"quaver/internal/domain/track"
)

const trackColumns = `id, url, title, artist, album, albumartist, genre, year, disc, track, length, playcount, skipcount, lastplayed`

var filterColumns = map[string]string{
	track.FieldArtist:      "artist",
	track.FieldAlbum:       "album",
	track.FieldAlbumArtist: "albumartist",
	track.FieldGenre:       "genre",
	track.FieldYear:        "year",
}

// Tracks returns available tracks matching the filters, in album play
// order. Zero filters select the whole catalog.
func (s *Store) Tracks(f track.Filters) ([]track.Track, error) {
	var (
		conds = []string{"unavailable = 0"}
		args  []any
	)
	addCond := func(column, value string) {
		if value != "" {
			conds = append(conds, column+" = ? COLLATE NOCASE")
			args = append(args, value)
		}
	}
	addCond("artist", f.Artist)
	addCond("album", f.Album)
	addCond("albumartist", f.AlbumArtist)
	addCond("genre", f.Genre)
	if f.Year > 0 {
		conds = append(conds, "year = ?")
		args = append(args, f.Year)
	}

	query := `SELECT ` + trackColumns + ` FROM songs WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY artist COLLATE NOCASE, album COLLATE NOCASE, disc, track, title COLLATE NOCASE`

	return s.queryTracks(query, args...)
}

// Search returns available tracks whose title, artist or album contains
// the term, case-insensitively.
func (s *Store) Search(term string) ([]track.Track, error) {
	pattern := "%" + term + "%"
	query := `SELECT ` + trackColumns + ` FROM songs
		WHERE unavailable = 0 AND (title LIKE ? OR artist LIKE ? OR album LIKE ?)
		ORDER BY artist COLLATE NOCASE, album COLLATE NOCASE, disc, track`
	return s.queryTracks(query, pattern, pattern, pattern)
}

// TrackByID returns a single track by its ID.
func (s *Store) TrackByID(id int64) (*track.Track, error) {
	row := s.db.QueryRow(`SELECT `+trackColumns+` FROM songs WHERE id = ?`, id)
	t, err := scanTrack(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Newf("track %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Distinct returns the sorted distinct values of a filterable field.
func (s *Store) Distinct(field string) ([]string, error) {
	column, ok := filterColumns[strings.ToLower(field)]
	if !ok {
		return nil, errors.Wrapf(track.ErrUnknownFilterField, "%q", field)
	}

	rows, err := s.db.Query(`SELECT DISTINCT ` + column + ` FROM songs
		WHERE unavailable = 0 AND ` + column + ` != ''
		ORDER BY ` + column + ` COLLATE NOCASE`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// Count returns the number of available tracks.
func (s *Store) Count() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM songs WHERE unavailable = 0`).Scan(&count)
	return count, err
}

// Upsert inserts a track or updates its metadata if the URL is already
// known, preserving listening statistics. Returns the track ID.
func (s *Store) Upsert(t track.Track, mtime int64) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO songs (url, title, artist, album, albumartist, genre, year, disc, track, length, mtime, unavailable)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0)
		ON CONFLICT(url) DO UPDATE SET
			title = excluded.title,
			artist = excluded.artist,
			album = excluded.album,
			albumartist = excluded.albumartist,
			genre = excluded.genre,
			year = excluded.year,
			disc = excluded.disc,
			track = excluded.track,
			length = excluded.length,
			mtime = excluded.mtime,
			unavailable = 0
	`, t.URL, t.Title, t.Artist, t.Album, t.AlbumArtist, t.Genre, t.Year, t.Disc, t.TrackNumber, int64(t.Duration), mtime)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to upsert %q", t.URL)
	}
	if id, err := res.LastInsertId(); err == nil && id > 0 {
		return id, nil
	}

	var id int64
	err = s.db.QueryRow(`SELECT id FROM songs WHERE url = ?`, t.URL).Scan(&id)
	return id, err
}

// MarkUnavailable flags tracks whose files disappeared. They are kept
// so statistics survive a temporarily unmounted library.
func (s *Store) MarkUnavailable(urls []string) error {
	for _, url := range urls {
		if _, err := s.db.Exec(`UPDATE songs SET unavailable = 1 WHERE url = ?`, url); err != nil {
			return errors.Wrapf(err, "failed to mark %q unavailable", url)
		}
	}
	return nil
}

// URLs returns every known track URL, including unavailable ones.
func (s *Store) URLs() ([]string, error) {
	rows, err := s.db.Query(`SELECT url FROM songs`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

func (s *Store) queryTracks(query string, args ...any) ([]track.Track, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []track.Track
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrack(row rowScanner) (track.Track, error) {
	var (
		t          track.Track
		length     int64
		lastPlayed int64
	)
	err := row.Scan(&t.ID, &t.URL, &t.Title, &t.Artist, &t.Album, &t.AlbumArtist, &t.Genre,
		&t.Year, &t.Disc, &t.TrackNumber, &length, &t.PlayCount, &t.SkipCount, &lastPlayed)
	if err != nil {
		return track.Track{}, err
	}
	t.Duration = time.Duration(length)
	if lastPlayed > 0 {
		t.LastPlayed = time.Unix(lastPlayed, 0)
	}
	return t, nil
}
