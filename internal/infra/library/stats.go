package library

import (
	"time"

	"github.com/cockroachdb/errors"
)

// IncrementPlayCount adds one to a track's play count.
func (s *Store) IncrementPlayCount(trackID int64) error {
	return s.bump("playcount", trackID)
}

// IncrementSkipCount adds one to a track's skip count.
func (s *Store) IncrementSkipCount(trackID int64) error {
	return s.bump("skipcount", trackID)
}

func (s *Store) bump(column string, trackID int64) error {
	res, err := s.db.Exec(`UPDATE songs SET `+column+` = `+column+` + 1 WHERE id = ?`, trackID)
	if err != nil {
		return errors.Wrapf(err, "failed to update %s for track %d", column, trackID)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.Newf("track %d not found", trackID)
	}
	return nil
}

// UpdateLastPlayed records when a track last finished playing.
func (s *Store) UpdateLastPlayed(trackID int64, playedAt time.Time) error {
	_, err := s.db.Exec(`UPDATE songs SET lastplayed = ? WHERE id = ?`, playedAt.Unix(), trackID)
	return errors.Wrapf(err, "failed to update lastplayed for track %d", trackID)
}
