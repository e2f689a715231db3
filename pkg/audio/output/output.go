// ABOUTME: Audio output interface definition
// ABOUTME: Common interface for audio playback backends and sample readers
package output

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/ujokes/ujokes-go/pkg/audio"
)

// Device represents an opened audio output device
type Device interface {
	// Format returns the sample rate and channel layout the device was opened with
	Format() audio.Format

	// NewVoice creates an independent voice reading float32 LE samples from r
	NewVoice(r io.Reader) Voice

	// Close releases output resources
	Close() error
}

// Voice is a single playing source on a device
type Voice interface {
	Play()
	IsPlaying() bool
	Close() error
}

// NewSampleReader encodes samples as float32 little-endian bytes
func NewSampleReader(samples []float32) io.Reader {
	data := make([]byte, len(samples)*4)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(s))
	}
	return bytes.NewReader(data)
}
