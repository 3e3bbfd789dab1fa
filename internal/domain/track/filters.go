package track

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Queryable filter fields recognized by the library store.
const (
	FieldArtist      = "artist"
	FieldAlbum       = "album"
	FieldAlbumArtist = "albumartist"
	FieldGenre       = "genre"
	FieldYear        = "year"
)

// ErrUnknownFilterField is returned when a filter names a field the
// library cannot query.
var ErrUnknownFilterField = errors.New("unknown filter field")

// Filters is an optional set of criteria for selecting tracks from the
// library. Zero-valued fields are not applied.
type Filters struct {
	Artist      string
	Album       string
	AlbumArtist string
	Genre       string
	Year        int
}

// Set assigns a filter field by name. Field names are validated here so
// that a bad command is rejected before it reaches the store.
func (f *Filters) Set(field, value string) error {
	switch strings.ToLower(field) {
	case FieldArtist:
		f.Artist = value
	case FieldAlbum:
		f.Album = value
	case FieldAlbumArtist:
		f.AlbumArtist = value
	case FieldGenre:
		f.Genre = value
	case FieldYear:
		year, err := strconv.Atoi(value)
		if err != nil || year < 0 {
			return errors.Newf("invalid year value: %q", value)
		}
		f.Year = year
	default:
		return errors.Wrapf(ErrUnknownFilterField, "%q", field)
	}
	return nil
}

// IsZero reports whether no criteria are set.
func (f Filters) IsZero() bool {
	return f == Filters{}
}

// String renders the active criteria for logs and the control protocol.
func (f Filters) String() string {
	if f.IsZero() {
		return "(none)"
	}
	var parts []string
	add := func(field, value string) {
		if value != "" {
			parts = append(parts, field+"="+value)
		}
	}
	add(FieldArtist, f.Artist)
	add(FieldAlbum, f.Album)
	add(FieldAlbumArtist, f.AlbumArtist)
	add(FieldGenre, f.Genre)
	if f.Year > 0 {
		parts = append(parts, FieldYear+"="+strconv.Itoa(f.Year))
	}
	return strings.Join(parts, " ")
}
