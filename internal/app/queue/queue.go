// Package queue provides the in-memory playback queue model.
//
// A Queue is an ordered sequence of tracks plus a current position and the
// navigation history needed to move backwards through what was actually
// played. It is not safe for concurrent use; the playback controller is
// its sole writer and guards reads with its own lock.
package queue

import (
	"math/rand"

	"quaver/internal/domain/track"
)

// Queue holds the ordered track sequence and navigation state.
// currentIndex ranges over [0, len]; a value equal to len means the queue
// is exhausted.
type Queue struct {
	tracks       []track.Track
	currentIndex int

	shuffle    bool
	repeatMode RepeatMode

	// backHistory holds previously-current indices, pushed on every
	// forward transition. Replaying it from the bottom reconstructs the
	// play order up to the current index.
	backHistory []int
	// forwardHistory holds indices left behind by Previous, cleared on
	// any new forward step.
	forwardHistory []int

	// filters are recorded here but applied by the library store on the
	// next load; the queue itself never filters.
	filters track.Filters
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{}
}

// Load replaces the queue contents wholesale, resets the position to the
// first track and clears both histories. When shuffle is enabled the given
// order is replaced by a randomized permutation; the traversal order is
// then fixed until the next load.
func (q *Queue) Load(tracks []track.Track) {
	q.tracks = make([]track.Track, len(tracks))
	copy(q.tracks, tracks)

	if q.shuffle {
		rand.Shuffle(len(q.tracks), func(i, j int) {
			q.tracks[i], q.tracks[j] = q.tracks[j], q.tracks[i]
		})
	}

	q.currentIndex = 0
	q.backHistory = q.backHistory[:0]
	q.forwardHistory = q.forwardHistory[:0]
}

// SetFilter records a filter criterion for the next load.
func (q *Queue) SetFilter(field, value string) error {
	return q.filters.Set(field, value)
}

// ClearFilters drops all recorded filter criteria.
func (q *Queue) ClearFilters() {
	q.filters = track.Filters{}
}

// Filters returns the recorded filter criteria.
func (q *Queue) Filters() track.Filters {
	return q.filters
}

// SetShuffle sets the shuffle flag. It takes effect on the next load.
func (q *Queue) SetShuffle(on bool) {
	q.shuffle = on
}

// Shuffle reports whether shuffle is enabled.
func (q *Queue) Shuffle() bool {
	return q.shuffle
}

// SetRepeatMode sets the repeat mode.
func (q *Queue) SetRepeatMode(m RepeatMode) {
	q.repeatMode = m
}

// RepeatMode returns the current repeat mode.
func (q *Queue) RepeatMode() RepeatMode {
	return q.repeatMode
}

// Len returns the number of tracks in the queue.
func (q *Queue) Len() int {
	return len(q.tracks)
}

// IsEmpty reports whether the queue holds no tracks.
func (q *Queue) IsEmpty() bool {
	return len(q.tracks) == 0
}

// Exhausted reports whether the position has moved past the last track.
func (q *Queue) Exhausted() bool {
	return q.currentIndex >= len(q.tracks)
}

// CurrentIndex returns the current position.
func (q *Queue) CurrentIndex() int {
	return q.currentIndex
}

// Current returns the track at the current position, or nil when the
// queue is empty or exhausted.
func (q *Queue) Current() *track.Track {
	return q.TrackAt(q.currentIndex)
}

// TrackAt returns the track at the given index, or nil when out of range.
func (q *Queue) TrackAt(index int) *track.Track {
	if index < 0 || index >= len(q.tracks) {
		return nil
	}
	return &q.tracks[index]
}

// Tracks returns a copy of the queued tracks.
func (q *Queue) Tracks() []track.Track {
	result := make([]track.Track, len(q.tracks))
	copy(result, q.tracks)
	return result
}

// NextIndex computes the post-completion index under the current repeat
// mode. RepeatTrack leaves the index unchanged, RepeatQueue wraps, and
// RepeatOff may return len, signaling exhaustion.
func (q *Queue) NextIndex() int {
	switch q.repeatMode {
	case RepeatTrack:
		return q.currentIndex
	case RepeatQueue:
		if len(q.tracks) == 0 {
			return 0
		}
		return (q.currentIndex + 1) % len(q.tracks)
	default:
		return q.currentIndex + 1
	}
}

// AdvanceTo moves the position forward to the given index, pushing the
// prior position onto the back history and clearing the forward history.
// The index is clamped to [0, len].
func (q *Queue) AdvanceTo(index int) {
	if index < 0 {
		index = 0
	}
	if index > len(q.tracks) {
		index = len(q.tracks)
	}
	q.backHistory = append(q.backHistory, q.currentIndex)
	q.forwardHistory = q.forwardHistory[:0]
	q.currentIndex = index
}

// Advance moves forward by exactly one position, ignoring the repeat
// mode. This is the manual-skip transition.
func (q *Queue) Advance() {
	q.AdvanceTo(q.currentIndex + 1)
}

// Complete moves to the post-completion index per the repeat mode. Under
// RepeatTrack the position and histories are left untouched.
func (q *Queue) Complete() {
	if q.repeatMode == RepeatTrack {
		return
	}
	q.AdvanceTo(q.NextIndex())
}

// Previous pops the back history: the current position is pushed onto the
// forward history and the prior position restored. Returns false (a
// no-op) when no track has been left behind this session.
func (q *Queue) Previous() bool {
	if len(q.backHistory) == 0 {
		return false
	}
	q.forwardHistory = append(q.forwardHistory, q.currentIndex)
	q.currentIndex = q.backHistory[len(q.backHistory)-1]
	q.backHistory = q.backHistory[:len(q.backHistory)-1]
	return true
}

// BackHistoryLen returns the depth of the back history.
func (q *Queue) BackHistoryLen() int {
	return len(q.backHistory)
}

// Window returns up to n tracks around the current position and the
// index of the first returned track.
func (q *Queue) Window(n int) ([]track.Track, int) {
	if n <= 0 || len(q.tracks) == 0 {
		return nil, 0
	}
	if n > len(q.tracks) {
		n = len(q.tracks)
	}

	start := q.currentIndex - n/2
	if start+n > len(q.tracks) {
		start = len(q.tracks) - n
	}
	if start < 0 {
		start = 0
	}

	result := make([]track.Track, n)
	copy(result, q.tracks[start:start+n])
	return result, start
}
