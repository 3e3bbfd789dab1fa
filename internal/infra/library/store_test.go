package library

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quaver/internal/domain/track"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedTracks(t *testing.T, s *Store) map[string]int64 {
	t.Helper()
	tracks := []track.Track{
		{URL: "file:///music/zebra.mp3", Title: "Stripes", Artist: "Zebra", Album: "Savanna", Genre: "Rock", Year: 2001, TrackNumber: 1, Duration: 3 * time.Minute},
		{URL: "file:///music/ant1.mp3", Title: "Colony", Artist: "Ant", Album: "Hill", Genre: "Jazz", Year: 1999, TrackNumber: 2, Duration: 2 * time.Minute},
		{URL: "file:///music/ant2.mp3", Title: "Queen", Artist: "Ant", Album: "Hill", Genre: "Jazz", Year: 1999, TrackNumber: 1, Duration: 4 * time.Minute},
	}
	ids := make(map[string]int64)
	for _, tr := range tracks {
		id, err := s.Upsert(tr, 1000)
		require.NoError(t, err)
		ids[tr.Title] = id
	}
	return ids
}

func TestStoreTracksOrderAndFilters(t *testing.T) {
	s := newTestStore(t)
	seedTracks(t, s)

	all, err := s.Tracks(track.Filters{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Artist, then album, then track number
	assert.Equal(t, "Queen", all[0].Title)
	assert.Equal(t, "Colony", all[1].Title)
	assert.Equal(t, "Stripes", all[2].Title)

	jazz, err := s.Tracks(track.Filters{Genre: "Jazz"})
	require.NoError(t, err)
	assert.Len(t, jazz, 2)

	// Case-insensitive match
	zebra, err := s.Tracks(track.Filters{Artist: "zebra"})
	require.NoError(t, err)
	require.Len(t, zebra, 1)
	assert.Equal(t, "Stripes", zebra[0].Title)
	assert.Equal(t, 3*time.Minute, zebra[0].Duration)

	year, err := s.Tracks(track.Filters{Year: 1999, Artist: "Ant"})
	require.NoError(t, err)
	assert.Len(t, year, 2)

	none, err := s.Tracks(track.Filters{Artist: "Nobody"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStoreSearch(t *testing.T) {
	s := newTestStore(t)
	seedTracks(t, s)

	found, err := s.Search("que")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Queen", found[0].Title)

	found, err = s.Search("hill")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = s.Search("nothing")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestStoreDistinct(t *testing.T) {
	s := newTestStore(t)
	seedTracks(t, s)

	artists, err := s.Distinct(track.FieldArtist)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ant", "Zebra"}, artists)

	genres, err := s.Distinct("GENRE")
	require.NoError(t, err)
	assert.Equal(t, []string{"Jazz", "Rock"}, genres)

	_, err = s.Distinct("bogus")
	assert.ErrorIs(t, err, track.ErrUnknownFilterField)
}

func TestStoreStats(t *testing.T) {
	s := newTestStore(t)
	ids := seedTracks(t, s)
	id := ids["Stripes"]

	require.NoError(t, s.IncrementPlayCount(id))
	require.NoError(t, s.IncrementPlayCount(id))
	require.NoError(t, s.IncrementSkipCount(id))

	playedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.UpdateLastPlayed(id, playedAt))

	tr, err := s.TrackByID(id)
	require.NoError(t, err)
	assert.Equal(t, 2, tr.PlayCount)
	assert.Equal(t, 1, tr.SkipCount)
	assert.True(t, tr.LastPlayed.Equal(playedAt))

	assert.Error(t, s.IncrementPlayCount(99999))
}

func TestStoreUpsertPreservesStats(t *testing.T) {
	s := newTestStore(t)
	ids := seedTracks(t, s)
	id := ids["Colony"]

	require.NoError(t, s.IncrementPlayCount(id))

	// Rescan with updated metadata
	updated := track.Track{URL: "file:///music/ant1.mp3", Title: "Colony (Remaster)", Artist: "Ant", Album: "Hill", Genre: "Jazz", Year: 1999, TrackNumber: 2, Duration: 2 * time.Minute}
	newID, err := s.Upsert(updated, 2000)
	require.NoError(t, err)
	assert.Equal(t, id, newID)

	tr, err := s.TrackByID(id)
	require.NoError(t, err)
	assert.Equal(t, "Colony (Remaster)", tr.Title)
	assert.Equal(t, 1, tr.PlayCount)

	count, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestStoreMarkUnavailable(t *testing.T) {
	s := newTestStore(t)
	seedTracks(t, s)

	require.NoError(t, s.MarkUnavailable([]string{"file:///music/zebra.mp3"}))

	count, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	all, err := s.Tracks(track.Filters{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Rescan brings it back and keeps its identity
	revived := track.Track{URL: "file:///music/zebra.mp3", Title: "Stripes", Artist: "Zebra", Album: "Savanna"}
	_, err = s.Upsert(revived, 3000)
	require.NoError(t, err)

	count, err = s.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
