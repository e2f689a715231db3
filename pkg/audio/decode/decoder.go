// ABOUTME: Decoder interface definition and decode errors
// ABOUTME: Common interface for audio decoders producing normalized samples
package decode

import "fmt"

// Decoder decodes encoded audio into normalized float samples
type Decoder interface {
	// Decode converts encoded audio data to samples in [-1.0, 1.0)
	Decode(data []byte) ([]float32, error)

	// Close releases decoder resources
	Close() error
}

// DecodeError reports audio payloads that could not be decoded.
// Callers treat it as "no audio played".
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
