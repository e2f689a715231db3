// ABOUTME: Audio decoder package for speech payloads
// ABOUTME: Provides Decoder interface and the 16-bit PCM implementation
// Package decode turns raw speech payloads into normalized samples.
//
// The TTS model returns 16-bit little-endian PCM, delivered either as raw
// bytes (already base64-decoded by the API client) or as a base64 string.
// Each pair of bytes becomes one float sample computed as int16 / 32768.
//
// Example:
//
//	samples, err := decode.DecodeBase64(payload)
//	if err != nil {
//	    // no audio played
//	}
//	buf := audio.NewSpeechBuffer(samples)
package decode
