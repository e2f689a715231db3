// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format, Buffer types and sample conversion functions
// Package audio provides the audio types shared by the decoder, encoder and
// playback packages.
//
// This package defines:
//   - Format: Describes audio stream format (codec, sample rate, channels, bit depth)
//   - Buffer: Normalized float32 samples plus their format
//
// Samples are normalized by dividing the signed 16-bit value by 32768, so
// every decoded value lies in [-1.0, 1.0).
//
// Example:
//
//	buf := audio.NewSpeechBuffer(samples) // 24 kHz, mono
//	fmt.Println(buf.Duration())
package audio
