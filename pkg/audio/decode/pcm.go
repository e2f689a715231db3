// ABOUTME: PCM audio decoder
// ABOUTME: Decodes base64 or raw little-endian 16-bit PCM to normalized float samples
package decode

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"

	"github.com/ujokes/ujokes-go/pkg/audio"
)

// PCMDecoder decodes 16-bit little-endian PCM audio
type PCMDecoder struct {
	format audio.Format
}

// NewPCM creates a new PCM decoder
func NewPCM(format audio.Format) (Decoder, error) {
	if format.Codec != "pcm" {
		return nil, fmt.Errorf("invalid codec for PCM decoder: %s", format.Codec)
	}

	if format.BitDepth != 16 {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16)", format.BitDepth)
	}

	return &PCMDecoder{
		format: format,
	}, nil
}

// Decode converts PCM bytes to float samples
func (d *PCMDecoder) Decode(data []byte) ([]float32, error) {
	return DecodePCM16(data), nil
}

// Close releases resources
func (d *PCMDecoder) Close() error {
	return nil
}

// DecodePCM16 converts little-endian signed 16-bit PCM to samples in [-1.0, 1.0).
// A trailing odd byte is dropped.
func DecodePCM16(data []byte) []float32 {
	numSamples := len(data) / 2
	samples := make([]float32, numSamples)
	for i := 0; i < numSamples; i++ {
		sample16 := int16(binary.LittleEndian.Uint16(data[i*2:]))
		samples[i] = audio.SampleFromInt16(sample16)
	}
	return samples
}

// DecodeBase64 decodes a base64 string carrying 16-bit PCM into samples.
// Malformed base64 yields a *DecodeError.
func DecodeBase64(s string) ([]float32, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, &DecodeError{Op: "base64", Err: err}
	}
	return DecodePCM16(raw), nil
}
