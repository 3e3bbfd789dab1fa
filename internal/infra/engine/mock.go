package engine

import (
	"sync"
	"time"
)

// Mock is a test double for Engine. Tests script load/play failures and
// fire completion events by hand.
type Mock struct {
	mu sync.Mutex

	loadErrs  map[string]error
	playErr   error
	eosOnStop bool

	loaded   string
	playing  bool
	paused   bool
	position time.Duration
	duration time.Duration
	volume   float64

	loadCalls []string
	seekCalls []time.Duration

	events chan Event
}

// NewMock creates a new mock engine.
func NewMock() *Mock {
	return &Mock{
		loadErrs: make(map[string]error),
		volume:   1.0,
		events:   make(chan Event, 16),
	}
}

// FailLoad makes Load return err for the given URI.
func (m *Mock) FailLoad(uri string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErrs[uri] = err
}

// FailPlay makes Play return err.
func (m *Mock) FailPlay(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

// FinishTrack delivers an EOS event, as if the loaded track drained.
func (m *Mock) FinishTrack() {
	m.events <- Event{Type: EventEOS}
}

// FinishTrackOnStop makes the next Stop with a track loaded deliver a
// final EOS event, as a decoder callback firing during teardown would.
func (m *Mock) FinishTrackOnStop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eosOnStop = true
}

// EmitError delivers a mid-session engine error.
func (m *Mock) EmitError(err error) {
	m.events <- Event{Type: EventError, Err: err}
}

// SetPosition sets the position reported to callers.
func (m *Mock) SetPosition(pos time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = pos
}

// SetDuration sets the duration reported to callers.
func (m *Mock) SetDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duration = d
}

// LoadCalls returns the URIs passed to Load, in order.
func (m *Mock) LoadCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]string, len(m.loadCalls))
	copy(calls, m.loadCalls)
	return calls
}

// Loaded returns the currently loaded URI.
func (m *Mock) Loaded() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded
}

// Playing reports whether Play has been called since the last Stop.
func (m *Mock) Playing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

// Paused reports whether the engine is paused.
func (m *Mock) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

// Volume returns the last volume set.
func (m *Mock) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

func (m *Mock) Load(uri string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadCalls = append(m.loadCalls, uri)
	if err := m.loadErrs[uri]; err != nil {
		return err
	}
	m.loaded = uri
	m.playing = false
	m.paused = false
	return nil
}

func (m *Mock) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loaded == "" {
		return ErrNoTrackLoaded
	}
	if m.playErr != nil {
		return m.playErr
	}
	m.playing = true
	return nil
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.playing {
		m.paused = true
	}
}

func (m *Mock) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = false
}

func (m *Mock) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.eosOnStop && m.loaded != "" {
		m.eosOnStop = false
		select {
		case m.events <- Event{Type: EventEOS}:
		default:
		}
	}
	m.loaded = ""
	m.playing = false
	m.paused = false
	m.position = 0
}

func (m *Mock) Seek(pos time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loaded == "" {
		return ErrNoTrackLoaded
	}
	m.seekCalls = append(m.seekCalls, pos)
	m.position = pos
	return nil
}

func (m *Mock) SetVolume(v float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v < 0 || v > 1 {
		return ErrInvalidVolume
	}
	m.volume = v
	return nil
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *Mock) Events() <-chan Event {
	return m.events
}

func (m *Mock) Close() error {
	return nil
}

var _ Engine = (*Mock)(nil)
