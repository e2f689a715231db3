// ABOUTME: Audio output interface tests
// ABOUTME: Verifies Device implementation and the float32 sample reader
package output

import (
	"encoding/binary"
	"io"
	"math"
	"testing"
)

func TestOtoImplementsDevice(t *testing.T) {
	var _ Device = (*Oto)(nil)
}

func TestSampleReader(t *testing.T) {
	samples := []float32{0, 0.5, -1.0}
	data, err := io.ReadAll(NewSampleReader(samples))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if len(data) != len(samples)*4 {
		t.Fatalf("expected %d bytes, got %d", len(samples)*4, len(data))
	}
	for i, want := range samples {
		got := math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
		if got != want {
			t.Errorf("sample %d: expected %v, got %v", i, want, got)
		}
	}
}

func TestSampleReaderEmpty(t *testing.T) {
	if _, err := NewSampleReader(nil).Read(make([]byte, 8)); err != io.EOF {
		t.Errorf("expected EOF, got %v", err)
	}
}
