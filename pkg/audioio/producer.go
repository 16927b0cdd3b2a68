package audioio

import "context"

// SampleProducer delivers interleaved stereo float32 chunks to the
// pipeline. The processor is agnostic to whether the producer is backed
// by a device, a file, or a synthetic generator.
type SampleProducer interface {
	// NextChunk returns the next interleaved stereo chunk, or an error
	// if the producer has failed or ctx was cancelled. Implementations
	// reuse their returned buffer across calls only if documented; the
	// default PortAudioSource allocates a fresh slice per call.
	NextChunk(ctx context.Context) ([]float32, error)
	// Close releases any underlying resources (device handles, files).
	Close() error
}
