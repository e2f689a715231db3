// ABOUTME: Audio output package for playing audio
// ABOUTME: Provides Device/Voice interfaces and the oto implementation
// Package output provides audio playback interfaces.
//
// A Device is opened once per process at a fixed format; each call to
// NewVoice starts an independent source that the host mixes with any
// other voice that is playing.
//
// Example:
//
//	dev, err := output.NewOto(audio.SpeechFormat(), logger)
//	v := dev.NewVoice(output.NewSampleReader(samples))
//	v.Play()
package output
