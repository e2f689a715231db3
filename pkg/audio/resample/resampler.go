// ABOUTME: Simple linear resampler for converting audio sample rates
// ABOUTME: Brings speech payloads at other rates to the playback rate
package resample

import "github.com/ujokes/ujokes-go/pkg/audio"

// Resampler performs linear interpolation to convert between sample rates
type Resampler struct {
	inputRate  int
	outputRate int
	channels   int
	ratio      float64
	position   float64
}

// New creates a new resampler
func New(inputRate, outputRate, channels int) *Resampler {
	if channels <= 0 {
		channels = 1
	}
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		channels:   channels,
		ratio:      float64(inputRate) / float64(outputRate),
	}
}

// Resample converts interleaved input samples to the output rate and
// returns how many output samples were written
func (r *Resampler) Resample(input []float32, output []float32) int {
	if len(input) == 0 {
		return 0
	}

	inputFrames := len(input) / r.channels
	outputFrames := len(output) / r.channels

	outIdx := 0
	for outIdx < outputFrames {
		inputIdx := int(r.position)
		if inputIdx >= inputFrames-1 {
			break
		}

		frac := r.position - float64(inputIdx)
		for ch := 0; ch < r.channels; ch++ {
			s1 := input[inputIdx*r.channels+ch]
			s2 := input[(inputIdx+1)*r.channels+ch]
			output[outIdx*r.channels+ch] = float32(float64(s1)*(1.0-frac) + float64(s2)*frac)
		}

		outIdx++
		r.position += r.ratio
	}

	// keep the fractional part for the next chunk
	r.position -= float64(int(r.position))

	return outIdx * r.channels
}

// Reset resets the resampler state
func (r *Resampler) Reset() {
	r.position = 0.0
}

// OutputSamplesNeeded calculates how many output samples will be produced from input samples
func (r *Resampler) OutputSamplesNeeded(inputSamples int) int {
	inputFrames := inputSamples / r.channels
	outputFrames := int(float64(inputFrames) / r.ratio)
	return outputFrames * r.channels
}

// Buffer converts a whole buffer to rate. Buffers already at rate are returned as is.
func Buffer(buf audio.Buffer, rate int) audio.Buffer {
	if rate <= 0 || buf.Format.SampleRate <= 0 || buf.Format.SampleRate == rate || len(buf.Samples) == 0 {
		return buf
	}

	r := New(buf.Format.SampleRate, rate, buf.Format.Channels)
	out := make([]float32, r.OutputSamplesNeeded(len(buf.Samples))+r.channels)
	n := r.Resample(buf.Samples, out)

	format := buf.Format
	format.SampleRate = rate
	return audio.Buffer{Samples: out[:n], Format: format}
}
