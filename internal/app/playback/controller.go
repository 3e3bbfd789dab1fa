package playback

import (
	"errors"
	"sync"
	"time"

	zlog "github.com/rs/zerolog/log"

	"quaver/internal/app/queue"
	"quaver/internal/domain/track"
	"quaver/internal/infra/engine"
)

// Errors
var (
	ErrNoTrack        = errors.New("no track playing")
	ErrQueueEmpty     = errors.New("queue is empty")
	ErrQueueExhausted = errors.New("queue is exhausted")
	ErrNotPlaying     = errors.New("not playing")
	ErrNotPaused      = errors.New("not paused")
	ErrInvalidVolume  = errors.New("volume must be between 0.0 and 1.0")
)

// StatsStore records listening statistics. Write failures are logged
// and discarded, they never interrupt playback.
type StatsStore interface {
	IncrementPlayCount(trackID int64) error
	IncrementSkipCount(trackID int64) error
	UpdateLastPlayed(trackID int64, playedAt time.Time) error
}

// Config holds controller configuration.
type Config struct {
	PollInterval time.Duration // How often the loop checks pending commands
}

const defaultPollInterval = 100 * time.Millisecond

// transitionReason says why a playback session ended.
type transitionReason int

const (
	transitionNatural transitionReason = iota // Engine reached end of stream
	transitionSkip                            // Manual skip requested
	transitionPrevious                        // Previous requested
	transitionStop                            // Stop requested
	transitionEngineErr                       // Engine reported a mid-stream error
)

// Status is a snapshot of the controller for status queries.
type Status struct {
	State    State
	Track    *track.Track
	Index    int
	QueueLen int
	Elapsed  time.Duration
	Duration time.Duration
	Volume   float64
	Shuffle  bool
	Repeat   queue.RepeatMode
}

// Controller drives the queue against the engine. A single goroutine
// owns the engine between Start and loop exit; commands communicate
// with it through flags guarded by one mutex.
type Controller struct {
	mu sync.Mutex

	queue  *queue.Queue
	engine engine.Engine
	stats  StatsStore

	state   State
	session *Session
	volume  float64

	// Command flags, tested and cleared by the loop each poll
	skipRequested     bool
	previousRequested bool
	running           bool

	pollInterval time.Duration
	eventCh      chan Event
	done         chan struct{}
	closed       bool
}

// NewController creates a new playback controller.
func NewController(config Config, q *queue.Queue, eng engine.Engine, stats StatsStore) *Controller {
	if config.PollInterval <= 0 {
		config.PollInterval = defaultPollInterval
	}

	// done starts closed so Load never blocks before the first Start
	done := make(chan struct{})
	close(done)

	return &Controller{
		queue:        q,
		engine:       eng,
		stats:        stats,
		state:        StateIdle,
		volume:       1.0,
		pollInterval: config.PollInterval,
		eventCh:      make(chan Event, 16),
		done:         done,
	}
}

// Events returns the event channel.
func (c *Controller) Events() <-chan Event {
	return c.eventCh
}

// Done returns a channel closed when the playback loop has exited.
func (c *Controller) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// Start launches the playback loop at the queue's current position.
// Starting an already running controller is a no-op.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}
	if c.queue.IsEmpty() {
		return ErrQueueEmpty
	}
	if c.queue.Exhausted() {
		return ErrQueueExhausted
	}

	c.skipRequested = false
	c.previousRequested = false
	c.running = true
	c.state = StateLoading

	done := make(chan struct{})
	c.done = done
	go c.run(done)

	return nil
}

// Stop requests the loop to stop and silences the engine. The loop
// observes the flag within one polling interval and exits.
func (c *Controller) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	c.mu.Unlock()

	c.engine.Stop()
}

// Skip requests an advance to the next track. Repeated calls before
// the loop observes the flag collapse into a single advance.
func (c *Controller) Skip() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return ErrNoTrack
	}
	c.skipRequested = true
	return nil
}

// Previous requests a return to the most recently played track. A
// no-op when the playback history is empty.
func (c *Controller) Previous() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return ErrNoTrack
	}
	c.previousRequested = true
	return nil
}

// Pause pauses the current playback.
func (c *Controller) Pause() error {
	c.mu.Lock()
	if c.state != StatePlaying {
		c.mu.Unlock()
		return ErrNotPlaying
	}
	c.state = StatePaused
	tr := c.currentTrackLocked()
	c.mu.Unlock()

	c.engine.Pause()
	c.sendEvent(Event{Type: EventStateChanged, Track: tr, State: StatePaused})
	return nil
}

// Resume resumes paused playback.
func (c *Controller) Resume() error {
	c.mu.Lock()
	if c.state != StatePaused {
		c.mu.Unlock()
		return ErrNotPaused
	}
	c.state = StatePlaying
	tr := c.currentTrackLocked()
	c.mu.Unlock()

	c.engine.Resume()
	c.sendEvent(Event{Type: EventStateChanged, Track: tr, State: StatePlaying})
	return nil
}

// Seek repositions the engine within the current track.
func (c *Controller) Seek(pos time.Duration) error {
	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return ErrNoTrack
	}
	c.mu.Unlock()

	return c.engine.Seek(pos)
}

// SetVolume sets the playback volume. Values outside [0.0, 1.0] are
// rejected without touching the engine.
func (c *Controller) SetVolume(v float64) error {
	if v < 0 || v > 1 {
		return ErrInvalidVolume
	}
	if err := c.engine.SetVolume(v); err != nil {
		return err
	}

	c.mu.Lock()
	c.volume = v
	c.mu.Unlock()
	return nil
}

// Load stops any active playback, waits for the loop to exit, and
// replaces the queue contents. The queue is never mutated while a
// session is active.
func (c *Controller) Load(tracks []track.Track) {
	c.Stop()
	<-c.Done()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue.Load(tracks)
	c.state = StateIdle
}

// SetShuffle toggles shuffle. Takes effect on the next Load.
func (c *Controller) SetShuffle(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue.SetShuffle(on)
}

// SetRepeatMode changes the repeat mode, effective immediately.
func (c *Controller) SetRepeatMode(mode queue.RepeatMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue.SetRepeatMode(mode)
}

// SetFilter sets a queue filter field. Applies on the next Load.
func (c *Controller) SetFilter(field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.SetFilter(field, value)
}

// ClearFilters removes all queue filters.
func (c *Controller) ClearFilters() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue.ClearFilters()
}

// Filters returns the active queue filters.
func (c *Controller) Filters() track.Filters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Filters()
}

// Status returns a snapshot of the playback state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	st := Status{
		State:    c.state,
		Track:    c.currentTrackLocked(),
		Index:    c.queue.CurrentIndex(),
		QueueLen: c.queue.Len(),
		Volume:   c.volume,
		Shuffle:  c.queue.Shuffle(),
		Repeat:   c.queue.RepeatMode(),
	}
	active := c.session != nil
	c.mu.Unlock()

	if active {
		st.Elapsed = c.engine.Position()
		st.Duration = c.engine.Duration()
	}
	return st
}

// QueueWindow returns up to n tracks around the current position and
// the queue index of the first returned track.
func (c *Controller) QueueWindow(n int) ([]track.Track, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Window(n)
}

// Close stops playback and releases the controller.
func (c *Controller) Close() {
	c.Stop()
	<-c.Done()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.eventCh)
}

// currentTrackLocked returns a copy of the queue's current track.
// Must be called with lock held.
func (c *Controller) currentTrackLocked() *track.Track {
	cur := c.queue.Current()
	if cur == nil {
		return nil
	}
	t := *cur
	return &t
}

// run is the playback loop. It is the sole owner of the engine handle
// while running, and never holds the mutex across engine calls.
func (c *Controller) run(done chan struct{}) {
	defer close(done)

	// Events buffered by a previous run belong to sessions that no
	// longer exist.
	c.drainEngineEvents()

	for {
		c.mu.Lock()
		if !c.running {
			c.finishLocked(EventStateChanged)
			c.mu.Unlock()
			return
		}
		if c.queue.Exhausted() {
			c.finishLocked(EventQueueEnded)
			c.mu.Unlock()
			return
		}
		tr := *c.queue.Current()
		c.state = StateLoading
		c.mu.Unlock()

		if err := c.engine.Load(tr.URL); err != nil {
			c.failTrack(tr, err)
			continue
		}
		if err := c.engine.Play(); err != nil {
			c.failTrack(tr, err)
			continue
		}

		sess := newSession(tr)
		c.mu.Lock()
		c.session = sess
		c.state = StatePlaying
		c.mu.Unlock()

		zlog.Debug().Str("session", sess.ID).Msgf("playback: started: %s", tr.String())
		c.sendEvent(Event{Type: EventTrackStarted, Track: &tr, State: StatePlaying})

		reason := c.waitForTransition()

		c.mu.Lock()
		c.state = StateTransitioning
		elapsed := sess.Elapsed()
		c.session = nil
		c.mu.Unlock()

		c.engine.Stop()

		// An end-of-stream or error the engine emitted for this
		// session in the window between the transition decision and
		// Stop is still buffered; discard it so the next session
		// does not consume it and classify itself instantly.
		c.drainEngineEvents()

		switch reason {
		case transitionNatural:
			// Reaching end of stream is always a play, even for
			// tracks with unknown duration.
			c.recordOutcome(tr, OutcomePlayed)
			c.sendEvent(Event{Type: EventTrackFinished, Track: &tr, Outcome: OutcomePlayed, State: StateTransitioning})
			c.mu.Lock()
			c.queue.Complete()
			c.mu.Unlock()

		case transitionSkip:
			outcome := Classify(elapsed, tr.Duration)
			c.recordOutcome(tr, outcome)
			c.sendEvent(Event{Type: EventTrackFinished, Track: &tr, Outcome: outcome, State: StateTransitioning})
			c.mu.Lock()
			c.queue.Advance()
			c.mu.Unlock()

		case transitionEngineErr:
			c.recordOutcome(tr, OutcomeSkipped)
			c.sendEvent(Event{Type: EventTrackFinished, Track: &tr, Outcome: OutcomeSkipped, State: StateTransitioning})
			c.mu.Lock()
			c.queue.Advance()
			c.mu.Unlock()

		case transitionPrevious:
			outcome := Classify(elapsed, tr.Duration)
			c.recordOutcome(tr, outcome)
			c.sendEvent(Event{Type: EventTrackFinished, Track: &tr, Outcome: outcome, State: StateTransitioning})
			c.mu.Lock()
			c.queue.Previous()
			c.mu.Unlock()

		case transitionStop:
			if elapsed > 0 {
				outcome := Classify(elapsed, tr.Duration)
				c.recordOutcome(tr, outcome)
				c.sendEvent(Event{Type: EventTrackFinished, Track: &tr, Outcome: outcome, State: StateTransitioning})
			}
			c.mu.Lock()
			c.finishLocked(EventStateChanged)
			c.mu.Unlock()
			return
		}
	}
}

// drainEngineEvents discards engine events left over from an ended
// session. The engine is stopped when this runs, so nothing new is
// being emitted.
func (c *Controller) drainEngineEvents() {
	for {
		select {
		case <-c.engine.Events():
		default:
			return
		}
	}
}

// waitForTransition polls pending command flags and engine events
// until something ends the current session.
func (c *Controller) waitForTransition() transitionReason {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case ev := <-c.engine.Events():
			switch ev.Type {
			case engine.EventEOS:
				return transitionNatural
			case engine.EventError:
				zlog.Warn().Err(ev.Err).Msg("playback: engine error, treating as skip")
				return transitionEngineErr
			}

		case <-ticker.C:
			c.mu.Lock()
			if !c.running {
				c.mu.Unlock()
				return transitionStop
			}
			if c.previousRequested {
				c.previousRequested = false
				// With no playback history the command is a no-op
				// and the session keeps playing.
				if c.queue.BackHistoryLen() > 0 {
					c.skipRequested = false
					c.mu.Unlock()
					return transitionPrevious
				}
			}
			if c.skipRequested {
				c.skipRequested = false
				c.mu.Unlock()
				return transitionSkip
			}
			c.mu.Unlock()
		}
	}
}

// failTrack handles a track the engine could not load or start. The
// failure counts as an immediate skip and the loop moves on, staying
// in the loading state. A run of failures terminates when the queue
// is exhausted.
func (c *Controller) failTrack(tr track.Track, err error) {
	zlog.Warn().Err(err).Int64("track_id", tr.ID).Msgf("playback: cannot play %q, skipping", tr.Title)

	c.recordOutcome(tr, OutcomeSkipped)
	c.sendEvent(Event{Type: EventTrackFinished, Track: &tr, Outcome: OutcomeSkipped, State: StateLoading})

	c.mu.Lock()
	c.queue.Advance()
	c.mu.Unlock()
}

// recordOutcome writes listening stats for an ended session. Failures
// are logged and discarded.
func (c *Controller) recordOutcome(tr track.Track, outcome Outcome) {
	if c.stats == nil {
		return
	}

	var err error
	switch outcome {
	case OutcomePlayed:
		if err = c.stats.IncrementPlayCount(tr.ID); err == nil {
			err = c.stats.UpdateLastPlayed(tr.ID, time.Now())
		}
	case OutcomeSkipped:
		err = c.stats.IncrementSkipCount(tr.ID)
	}
	if err != nil {
		zlog.Warn().Err(err).Int64("track_id", tr.ID).Msg("playback: discarding stats write failure")
	}
}

// finishLocked transitions the loop to its terminal state.
// Must be called with lock held.
func (c *Controller) finishLocked(eventType EventType) {
	c.running = false
	c.skipRequested = false
	c.previousRequested = false
	c.session = nil
	c.state = StateStopped
	c.sendEventLocked(Event{Type: eventType, State: StateStopped})
}

// sendEvent sends an event without blocking.
func (c *Controller) sendEvent(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sendEventLocked(e)
}

// sendEventLocked sends an event without blocking.
// Must be called with lock held.
func (c *Controller) sendEventLocked(e Event) {
	if c.closed {
		return
	}
	select {
	case c.eventCh <- e:
		// Successfully sent
	default:
		// Channel full, drop event
	}
}
