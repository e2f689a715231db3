// ABOUTME: Oto-based audio output implementation
// ABOUTME: Opens the host audio device once and hands out independent voices
package output

import (
	"fmt"
	"io"
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/rs/zerolog"

	"github.com/ujokes/ujokes-go/pkg/audio"
)

var (
	// oto allows one context per process
	otoOnce sync.Once
	otoCtx  *oto.Context
	otoFmt  audio.Format
	otoErr  error
)

// Oto output implementation using oto library
type Oto struct {
	ctx    *oto.Context
	format audio.Format
	log    zerolog.Logger
}

// NewOto opens the host audio device with the given format
func NewOto(format audio.Format, log zerolog.Logger) (*Oto, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   format.SampleRate,
			ChannelCount: format.Channels,
			Format:       oto.FormatFloat32LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			otoErr = fmt.Errorf("failed to create oto context: %w", err)
			return
		}
		<-readyChan

		otoCtx = ctx
		otoFmt = format
		log.Info().
			Int("sample_rate", format.SampleRate).
			Int("channels", format.Channels).
			Msg("audio output initialized")
	})
	if otoErr != nil {
		return nil, otoErr
	}

	// If format changed, we can't reinitialize oto
	if otoFmt.SampleRate != format.SampleRate || otoFmt.Channels != format.Channels {
		return nil, fmt.Errorf("audio output already opened at %dHz %dch, requested %dHz %dch",
			otoFmt.SampleRate, otoFmt.Channels, format.SampleRate, format.Channels)
	}

	return &Oto{
		ctx:    otoCtx,
		format: otoFmt,
		log:    log,
	}, nil
}

// Format returns the device format
func (o *Oto) Format() audio.Format {
	return o.format
}

// NewVoice creates a player reading float32 samples from r
func (o *Oto) NewVoice(r io.Reader) Voice {
	return o.ctx.NewPlayer(r)
}

// Close suspends the device; the context itself lives for the process
func (o *Oto) Close() error {
	if err := o.ctx.Suspend(); err != nil {
		return fmt.Errorf("suspend audio output: %w", err)
	}
	return nil
}
