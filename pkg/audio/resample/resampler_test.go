// ABOUTME: Tests for audio resampler
// ABOUTME: Tests linear interpolation resampling between sample rates
package resample

import (
	"math"
	"testing"

	"github.com/ujokes/ujokes-go/pkg/audio"
)

func TestNewResampler(t *testing.T) {
	r := New(48000, 24000, 1)

	if r.inputRate != 48000 {
		t.Errorf("expected inputRate 48000, got %d", r.inputRate)
	}
	if r.outputRate != 24000 {
		t.Errorf("expected outputRate 24000, got %d", r.outputRate)
	}
	if r.ratio != 2.0 {
		t.Errorf("expected ratio 2.0, got %f", r.ratio)
	}
}

func TestResampleUpsampling(t *testing.T) {
	r := New(12000, 24000, 1)

	input := []float32{0, 0.5, 1.0}
	output := make([]float32, 8)

	n := r.Resample(input, output)

	// halfway points are interpolated; the last input frame has no successor
	want := []float32{0, 0.25, 0.5, 0.75}
	if n != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), n)
	}
	for i, w := range want {
		if math.Abs(float64(output[i]-w)) > 1e-6 {
			t.Errorf("sample %d: expected %f, got %f", i, w, output[i])
		}
	}
}

func TestResampleDownsampling(t *testing.T) {
	r := New(48000, 24000, 1)

	input := make([]float32, 100)
	for i := range input {
		input[i] = float32(i) / 100
	}
	output := make([]float32, r.OutputSamplesNeeded(len(input)))

	n := r.Resample(input, output)
	if n < 49 || n > 50 {
		t.Errorf("expected ~50 samples, got %d", n)
	}
	if output[1] != input[2] {
		t.Errorf("expected every other sample, got %f", output[1])
	}
}

func TestResampleStereoKeepsChannels(t *testing.T) {
	r := New(12000, 24000, 2)

	// left ramps up, right stays negative
	input := []float32{0, -0.5, 1.0, -0.5}
	output := make([]float32, 8)

	n := r.Resample(input, output)
	if n != 4 {
		t.Fatalf("expected 4 samples, got %d", n)
	}
	if output[2] != 0.5 || output[3] != -0.5 {
		t.Errorf("unexpected interleaving: %v", output[:n])
	}
}

func TestResampleEmpty(t *testing.T) {
	r := New(48000, 24000, 1)
	if n := r.Resample(nil, make([]float32, 4)); n != 0 {
		t.Errorf("expected 0, got %d", n)
	}
}

func TestReset(t *testing.T) {
	r := New(24000, 16000, 1)
	r.Resample(make([]float32, 10), make([]float32, 10))
	r.Reset()
	if r.position != 0 {
		t.Errorf("expected position 0, got %f", r.position)
	}
}

func TestBufferConvertsRate(t *testing.T) {
	samples := make([]float32, 4800) // 100ms at 48 kHz
	buf := audio.Buffer{
		Samples: samples,
		Format:  audio.Format{Codec: "pcm", SampleRate: 48000, Channels: 1, BitDepth: 16},
	}

	out := Buffer(buf, audio.SpeechSampleRate)
	if out.Format.SampleRate != audio.SpeechSampleRate {
		t.Errorf("expected %d Hz, got %d", audio.SpeechSampleRate, out.Format.SampleRate)
	}
	if len(out.Samples) < 2398 || len(out.Samples) > 2400 {
		t.Errorf("expected ~2400 samples, got %d", len(out.Samples))
	}
}

func TestBufferSameRateUnchanged(t *testing.T) {
	buf := audio.NewSpeechBuffer([]float32{0.1, 0.2})
	out := Buffer(buf, audio.SpeechSampleRate)
	if &out.Samples[0] != &buf.Samples[0] {
		t.Error("expected the same samples back")
	}
}
