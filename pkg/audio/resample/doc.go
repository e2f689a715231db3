// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts audio between different sample rates
// Package resample provides audio sample rate conversion.
//
// Uses linear interpolation on normalized float samples. Handles both
// upsampling and downsampling.
//
// Example:
//
//	buf = resample.Buffer(buf, audio.SpeechSampleRate)
package resample
