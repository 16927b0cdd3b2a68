package audioio

import (
	"context"
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// PortAudioSource is a SampleProducer backed by a live PortAudio input
// stream, opened on the system default input device.
type PortAudioSource struct {
	stream    *portaudio.Stream
	buf       []float32
	frameSize int
}

// NewPortAudioSource initializes PortAudio and opens a stereo input
// stream at sampleRate, delivering frameSize stereo frames per chunk.
func NewPortAudioSource(sampleRate float64, frameSize int) (*PortAudioSource, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("audio device: initializing portaudio: %w", err)
	}

	s := &PortAudioSource{
		buf:       make([]float32, frameSize*2),
		frameSize: frameSize,
	}

	stream, err := portaudio.OpenDefaultStream(2, 0, sampleRate, frameSize, s.buf)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("audio device: opening default input stream: %w", err)
	}
	s.stream = stream

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("audio stream: starting input stream: %w", err)
	}

	return s, nil
}

// NextChunk blocks until a full interleaved stereo chunk has been
// captured, returning a freshly allocated copy.
func (s *PortAudioSource) NextChunk(ctx context.Context) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.stream.Read(); err != nil {
		return nil, fmt.Errorf("audio stream: read: %w", err)
	}
	out := make([]float32, len(s.buf))
	copy(out, s.buf)
	return out, nil
}

// Close stops the stream and terminates the PortAudio library.
func (s *PortAudioSource) Close() error {
	if err := s.stream.Stop(); err != nil {
		s.stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("audio stream: stop: %w", err)
	}
	if err := s.stream.Close(); err != nil {
		portaudio.Terminate()
		return fmt.Errorf("audio stream: close: %w", err)
	}
	return portaudio.Terminate()
}
