// ABOUTME: PCM audio encoder
// ABOUTME: Encodes normalized float samples to 16-bit little-endian PCM bytes
package encode

import (
	"encoding/binary"
	"fmt"

	"github.com/ujokes/ujokes-go/pkg/audio"
)

// PCMEncoder encodes PCM audio
type PCMEncoder struct {
	format audio.Format
}

// NewPCM creates a new PCM encoder
func NewPCM(format audio.Format) (Encoder, error) {
	if format.Codec != "pcm" {
		return nil, fmt.Errorf("invalid codec for PCM encoder: %s", format.Codec)
	}

	if format.BitDepth != 16 {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16)", format.BitDepth)
	}

	return &PCMEncoder{
		format: format,
	}, nil
}

// Encode converts float samples to 16-bit PCM bytes
func (e *PCMEncoder) Encode(samples []float32) ([]byte, error) {
	return EncodePCM16(samples), nil
}

// Close releases resources
func (e *PCMEncoder) Close() error {
	return nil
}

// EncodePCM16 converts samples to little-endian signed 16-bit PCM, clipping to range
func EncodePCM16(samples []float32) []byte {
	output := make([]byte, len(samples)*2)
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(output[i*2:], uint16(audio.SampleToInt16(sample)))
	}
	return output
}
