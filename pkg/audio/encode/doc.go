// ABOUTME: Audio encoder package for exporting narrated jokes
// ABOUTME: Provides Encoder interface, 16-bit PCM encoder and WAV writer
// Package encode converts normalized samples back into byte formats.
//
// Supports: 16-bit PCM, WAV container
//
// Example:
//
//	f, _ := os.Create("joke.wav")
//	defer f.Close()
//	err := encode.WriteWAV(f, buf)
package encode
