// ABOUTME: Fire-and-forget playback engine on top of an output device
// ABOUTME: Serializes voices through a semaphore and applies software volume
package player

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/ujokes/ujokes-go/pkg/audio"
	"github.com/ujokes/ujokes-go/pkg/audio/output"
)

// ErrFormatMismatch is returned when a buffer does not match the engine format
var ErrFormatMismatch = errors.New("buffer format does not match engine format")

const defaultPollInterval = 20 * time.Millisecond

// Engine plays sample buffers on a device without blocking the caller
type Engine struct {
	dev    output.Device
	format audio.Format
	log    zerolog.Logger

	// nil when voices may overlap
	sem  *semaphore.Weighted
	poll time.Duration

	mu     sync.Mutex
	volume int
	muted  bool

	wg    sync.WaitGroup
	stats engineStats
}

type engineStats struct {
	started   atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
}

// Stats is a snapshot of engine counters
type Stats struct {
	Started   int64
	Completed int64
	Failed    int64
}

// Option configures an Engine
type Option func(*Engine)

// WithOverlap lets voices play simultaneously instead of queueing
func WithOverlap(overlap bool) Option {
	return func(e *Engine) {
		if overlap {
			e.sem = nil
		} else {
			e.sem = semaphore.NewWeighted(1)
		}
	}
}

// WithPollInterval sets how often a voice is checked for completion
func WithPollInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.poll = d
		}
	}
}

// WithVolume sets the initial volume (0-100)
func WithVolume(volume int) Option {
	return func(e *Engine) {
		e.volume = clampVolume(volume)
	}
}

// NewEngine creates a playback engine for the given device
func NewEngine(dev output.Device, format audio.Format, log zerolog.Logger, opts ...Option) (*Engine, error) {
	if dev == nil {
		return nil, fmt.Errorf("output device is required")
	}
	devFmt := dev.Format()
	if devFmt.SampleRate != format.SampleRate || devFmt.Channels != format.Channels {
		return nil, fmt.Errorf("device opened at %dHz %dch, engine wants %dHz %dch: %w",
			devFmt.SampleRate, devFmt.Channels, format.SampleRate, format.Channels, ErrFormatMismatch)
	}

	e := &Engine{
		dev:    dev,
		format: format,
		log:    log.With().Str("component", "player").Logger(),
		sem:    semaphore.NewWeighted(1),
		poll:   defaultPollInterval,
		volume: 100,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Playback tracks one submitted buffer
type Playback struct {
	done     chan struct{}
	err      error
	duration time.Duration
}

// Done is closed once the voice has finished and been released
func (p *Playback) Done() <-chan struct{} {
	return p.done
}

// Err reports a release failure; only meaningful after Done is closed
func (p *Playback) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

// Duration is the nominal length of the buffer
func (p *Playback) Duration() time.Duration {
	return p.duration
}

// Wait blocks until playback finishes or ctx ends
func (p *Playback) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Play starts playing buf and returns immediately
func (e *Engine) Play(buf audio.Buffer) (*Playback, error) {
	if buf.Format.SampleRate != e.format.SampleRate || buf.Format.Channels != e.format.Channels {
		return nil, fmt.Errorf("got %dHz %dch: %w", buf.Format.SampleRate, buf.Format.Channels, ErrFormatMismatch)
	}

	pb := &Playback{
		done:     make(chan struct{}),
		duration: buf.Duration(),
	}
	if len(buf.Samples) == 0 {
		close(pb.done)
		return pb, nil
	}

	e.mu.Lock()
	samples := applyVolume(buf.Samples, e.volume, e.muted)
	e.mu.Unlock()

	e.stats.started.Add(1)
	e.wg.Add(1)
	go e.run(pb, samples)

	return pb, nil
}

func (e *Engine) run(pb *Playback, samples []float32) {
	defer e.wg.Done()
	defer close(pb.done)

	if e.sem != nil {
		// Background never cancels, so Acquire cannot fail
		_ = e.sem.Acquire(context.Background(), 1)
		defer e.sem.Release(1)
	}

	voice := e.dev.NewVoice(output.NewSampleReader(samples))
	voice.Play()
	e.log.Debug().
		Int("samples", len(samples)).
		Dur("duration", pb.duration).
		Msg("voice started")

	for voice.IsPlaying() {
		time.Sleep(e.poll)
	}

	if err := voice.Close(); err != nil {
		pb.err = fmt.Errorf("release voice: %w", err)
		e.stats.failed.Add(1)
		e.log.Warn().Err(err).Msg("failed to release voice")
		return
	}
	e.stats.completed.Add(1)
}

// Wait blocks until every submitted playback has finished
func (e *Engine) Wait() {
	e.wg.Wait()
}

// Stats returns engine counters
func (e *Engine) Stats() Stats {
	return Stats{
		Started:   e.stats.started.Load(),
		Completed: e.stats.completed.Load(),
		Failed:    e.stats.failed.Load(),
	}
}

// Format returns the engine format
func (e *Engine) Format() audio.Format {
	return e.format
}

// SetVolume sets the volume (0-100) for subsequent playbacks
func (e *Engine) SetVolume(volume int) {
	e.mu.Lock()
	e.volume = clampVolume(volume)
	e.mu.Unlock()
	e.log.Info().Int("volume", volume).Msg("volume set")
}

// SetMuted sets mute state for subsequent playbacks
func (e *Engine) SetMuted(muted bool) {
	e.mu.Lock()
	e.muted = muted
	e.mu.Unlock()
	e.log.Info().Bool("muted", muted).Msg("mute changed")
}

// Volume returns current volume
func (e *Engine) Volume() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

// IsMuted returns mute state
func (e *Engine) IsMuted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.muted
}

// Close waits for in-flight voices and releases the device
func (e *Engine) Close() error {
	e.wg.Wait()
	return e.dev.Close()
}

func clampVolume(volume int) int {
	if volume < 0 {
		return 0
	}
	if volume > 100 {
		return 100
	}
	return volume
}

// applyVolume applies volume and mute to samples
func applyVolume(samples []float32, volume int, muted bool) []float32 {
	multiplier := getVolumeMultiplier(volume, muted)
	if multiplier == 1.0 {
		return samples
	}

	result := make([]float32, len(samples))
	if multiplier == 0 {
		return result
	}
	for i, sample := range samples {
		result[i] = sample * multiplier
	}
	return result
}

// getVolumeMultiplier calculates volume multiplier
func getVolumeMultiplier(volume int, muted bool) float32 {
	if muted {
		return 0.0
	}
	return float32(volume) / 100.0
}
