package engine

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
	zlog "github.com/rs/zerolog/log"
)

// bufferLen is the speaker buffer size; ~1/10s keeps pause latency low.
const bufferLen = time.Second / 10

var speakerInitialized bool

// BeepEngine renders audio through the beep speaker. It implements Engine
// for local files in the formats beep can decode. The playback loop and
// command goroutines both call into it, so its fields are mutex-guarded.
type BeepEngine struct {
	sampleRate beep.SampleRate

	mu          sync.Mutex
	file        *os.File
	streamer    beep.StreamSeekCloser
	format      beep.Format
	ctrl        *beep.Ctrl
	volume      *effects.Volume
	volumeLevel float64

	events chan Event
}

// NewBeepEngine creates a beep-backed engine at the given output sample
// rate. All tracks are resampled to this rate.
func NewBeepEngine(sampleRate int) (*BeepEngine, error) {
	sr := beep.SampleRate(sampleRate)
	if !speakerInitialized {
		if err := speaker.Init(sr, sr.N(bufferLen)); err != nil {
			return nil, errors.Wrap(err, "failed to initialize speaker")
		}
		speakerInitialized = true
	}
	return &BeepEngine{
		sampleRate:  sr,
		volumeLevel: 1.0,
		events:      make(chan Event, 16),
	}, nil
}

// Load opens and decodes the track at the given URI, replacing any
// previously loaded track.
func (e *BeepEngine) Load(uri string) error {
	e.Stop()

	path := strings.TrimPrefix(uri, "file://")

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", path)
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format

	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		f.Close()
		return errors.Newf("unsupported format: %s", filepath.Ext(path))
	}
	if err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to decode %s", path)
	}

	e.mu.Lock()
	e.file = f
	e.streamer = streamer
	e.format = format
	e.mu.Unlock()
	return nil
}

// Play starts rendering the loaded track. EOS is delivered on the event
// channel when the streamer drains.
func (e *BeepEngine) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.streamer == nil {
		return ErrNoTrackLoaded
	}

	e.ctrl = &beep.Ctrl{Streamer: e.resampledLocked()}
	e.volume = &effects.Volume{
		Streamer: e.ctrl,
		Base:     2,
		Volume:   levelToVolume(e.volumeLevel),
		Silent:   e.volumeLevel <= 0,
	}

	speaker.Play(beep.Seq(e.volume, beep.Callback(func() {
		e.sendEvent(Event{Type: EventEOS})
	})))
	return nil
}

// Pause suspends rendering.
func (e *BeepEngine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ctrl == nil {
		return
	}
	speaker.Lock()
	e.ctrl.Paused = true
	speaker.Unlock()
}

// Resume continues rendering after a pause.
func (e *BeepEngine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ctrl == nil {
		return
	}
	speaker.Lock()
	e.ctrl.Paused = false
	speaker.Unlock()
}

// Stop halts rendering and releases the loaded track.
func (e *BeepEngine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

func (e *BeepEngine) stopLocked() {
	if e.streamer == nil && e.ctrl == nil {
		return
	}

	speaker.Clear()

	if e.streamer != nil {
		if err := e.streamer.Close(); err != nil {
			zlog.Debug().Msgf("engine: streamer close: %v", err)
		}
		e.streamer = nil
	}
	if e.file != nil {
		e.file.Close()
		e.file = nil
	}
	e.ctrl = nil
	e.volume = nil
}

// Seek moves the play position of the loaded track.
func (e *BeepEngine) Seek(pos time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.streamer == nil {
		return ErrNoTrackLoaded
	}
	if pos < 0 {
		pos = 0
	}

	n := e.format.SampleRate.N(pos)
	if n > e.streamer.Len() {
		n = e.streamer.Len()
	}

	speaker.Lock()
	err := e.streamer.Seek(n)
	speaker.Unlock()
	return errors.Wrap(err, "seek failed")
}

// SetVolume sets the output volume. Values outside [0, 1] are rejected.
func (e *BeepEngine) SetVolume(v float64) error {
	if v < 0 || v > 1 {
		return ErrInvalidVolume
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.volumeLevel = v

	if e.volume != nil {
		speaker.Lock()
		e.volume.Volume = levelToVolume(v)
		e.volume.Silent = v <= 0
		speaker.Unlock()
	}
	return nil
}

// Position returns the current play position of the loaded track.
func (e *BeepEngine) Position() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := e.streamer.Position()
	speaker.Unlock()
	return e.format.SampleRate.D(pos)
}

// Duration returns the total length of the loaded track.
func (e *BeepEngine) Duration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.streamer == nil {
		return 0
	}
	return e.format.SampleRate.D(e.streamer.Len())
}

// Events returns the engine notification channel.
func (e *BeepEngine) Events() <-chan Event {
	return e.events
}

// Close releases all engine resources.
func (e *BeepEngine) Close() error {
	e.Stop()
	return nil
}

// resampledLocked adapts the loaded streamer to the speaker's sample
// rate. Must be called with the engine lock held.
func (e *BeepEngine) resampledLocked() beep.Streamer {
	if e.format.SampleRate == e.sampleRate {
		return e.streamer
	}
	return beep.Resample(4, e.format.SampleRate, e.sampleRate, e.streamer)
}

// sendEvent delivers an event without blocking the speaker goroutine.
func (e *BeepEngine) sendEvent(ev Event) {
	select {
	case e.events <- ev:
	default:
		zlog.Warn().Msgf("engine: event channel full, dropping %s", ev.Type)
	}
}

// levelToVolume converts a linear 0.0-1.0 level to beep's base-2
// logarithmic volume exponent. 1.0 -> 0 (unchanged), 0.5 -> -1 (half).
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}

var _ Engine = (*BeepEngine)(nil)
