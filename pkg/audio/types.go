// ABOUTME: Audio type definitions
// ABOUTME: Defines audio formats, normalized sample buffers and sample conversions
package audio

import "time"

const (
	// Speech payloads returned by the TTS model are 24 kHz mono 16-bit PCM
	SpeechSampleRate = 24000
	SpeechChannels   = 1
	SpeechBitDepth   = 16

	// int16Scale normalizes a signed 16-bit sample into [-1.0, 1.0)
	int16Scale = 32768.0
)

// Format describes audio stream format
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
}

// SpeechFormat returns the format of synthesized speech
func SpeechFormat() Format {
	return Format{
		Codec:      "pcm",
		SampleRate: SpeechSampleRate,
		Channels:   SpeechChannels,
		BitDepth:   SpeechBitDepth,
	}
}

// Buffer represents decoded audio as normalized floating-point amplitudes
type Buffer struct {
	Samples []float32 // interleaved when Channels > 1
	Format  Format
}

// NewSpeechBuffer wraps samples in a 24 kHz mono buffer
func NewSpeechBuffer(samples []float32) Buffer {
	return Buffer{
		Samples: samples,
		Format:  SpeechFormat(),
	}
}

// Frames returns the number of sample frames in the buffer
func (b Buffer) Frames() int {
	if b.Format.Channels <= 0 {
		return 0
	}
	return len(b.Samples) / b.Format.Channels
}

// Duration returns the playback length of the buffer
func (b Buffer) Duration() time.Duration {
	if b.Format.SampleRate <= 0 {
		return 0
	}
	return time.Duration(b.Frames()) * time.Second / time.Duration(b.Format.SampleRate)
}

// SampleFromInt16 converts an int16 sample to a float in [-1.0, 1.0)
func SampleFromInt16(sample int16) float32 {
	return float32(sample) / int16Scale
}

// SampleToInt16 converts a float sample back to int16, clipping out-of-range values
func SampleToInt16(sample float32) int16 {
	scaled := float64(sample) * int16Scale
	if scaled > 32767 {
		return 32767
	}
	if scaled < -32768 {
		return -32768
	}
	return int16(scaled)
}
