// ABOUTME: WAV container writer
// ABOUTME: Wraps 16-bit PCM samples in a canonical 44-byte RIFF/WAVE header
package encode

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ujokes/ujokes-go/pkg/audio"
)

const wavHeaderSize = 44

// WriteWAV writes buf as a 16-bit PCM WAV file
func WriteWAV(w io.Writer, buf audio.Buffer) error {
	if buf.Format.SampleRate <= 0 || buf.Format.Channels <= 0 {
		return fmt.Errorf("invalid wav format: %dHz %dch", buf.Format.SampleRate, buf.Format.Channels)
	}

	data := EncodePCM16(buf.Samples)
	channels := uint16(buf.Format.Channels)
	sampleRate := uint32(buf.Format.SampleRate)
	blockAlign := channels * 2
	byteRate := sampleRate * uint32(blockAlign)

	header := make([]byte, wavHeaderSize)
	copy(header[0:], "RIFF")
	binary.LittleEndian.PutUint32(header[4:], uint32(wavHeaderSize-8+len(data)))
	copy(header[8:], "WAVE")
	copy(header[12:], "fmt ")
	binary.LittleEndian.PutUint32(header[16:], 16) // fmt chunk size
	binary.LittleEndian.PutUint16(header[20:], 1)  // PCM
	binary.LittleEndian.PutUint16(header[22:], channels)
	binary.LittleEndian.PutUint32(header[24:], sampleRate)
	binary.LittleEndian.PutUint32(header[28:], byteRate)
	binary.LittleEndian.PutUint16(header[32:], blockAlign)
	binary.LittleEndian.PutUint16(header[34:], 16)
	copy(header[36:], "data")
	binary.LittleEndian.PutUint32(header[40:], uint32(len(data)))

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("write wav header: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write wav data: %w", err)
	}
	return nil
}
