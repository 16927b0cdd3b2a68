package audioio

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// WAVFileSource is a SampleProducer reading interleaved float32 stereo
// frames back out of a WAV file previously written by WAVWriter (or any
// 2-channel, 32-bit-float WAV whose fmt chunk uses format tag 3).
type WAVFileSource struct {
	f         *os.File
	r         *bufio.Reader
	frameSize int
}

// OpenWAVFileSource opens path, parses its RIFF/fmt header, and
// validates that it is 2-channel 32-bit float.
func OpenWAVFileSource(path string, frameSize int) (*WAVFileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening wav file %q: %w", path, err)
	}
	r := bufio.NewReader(f)
	if err := skipToData(r); err != nil {
		f.Close()
		return nil, err
	}
	return &WAVFileSource{f: f, r: r, frameSize: frameSize}, nil
}

func skipToData(r *bufio.Reader) error {
	var riffHdr [12]byte
	if _, err := io.ReadFull(r, riffHdr[:]); err != nil {
		return fmt.Errorf("reading riff header: %w", err)
	}
	if string(riffHdr[0:4]) != "RIFF" || string(riffHdr[8:12]) != "WAVE" {
		return errors.New("not a RIFF/WAVE file")
	}
	for {
		var chunkHdr [8]byte
		if _, err := io.ReadFull(r, chunkHdr[:]); err != nil {
			return fmt.Errorf("reading chunk header: %w", err)
		}
		id := string(chunkHdr[0:4])
		size := binary.LittleEndian.Uint32(chunkHdr[4:8])
		if id == "data" {
			return nil
		}
		if id == "fmt " {
			fmtChunk := make([]byte, size)
			if _, err := io.ReadFull(r, fmtChunk); err != nil {
				return fmt.Errorf("reading fmt chunk: %w", err)
			}
			if size < 16 ||
				binary.LittleEndian.Uint16(fmtChunk[0:2]) != wavFormatFloat ||
				binary.LittleEndian.Uint16(fmtChunk[2:4]) != wavChannels ||
				binary.LittleEndian.Uint16(fmtChunk[14:16]) != wavBitsPerSample {
				return errors.New("wav file is not 2-channel 32-bit float")
			}
			continue
		}
		if _, err := io.CopyN(io.Discard, r, int64(size)); err != nil {
			return fmt.Errorf("skipping chunk %q: %w", id, err)
		}
	}
}

// NextChunk reads the next frameSize stereo frames, returning io.EOF
// when the file is exhausted.
func (s *WAVFileSource) NextChunk(ctx context.Context) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buf := make([]float32, s.frameSize*2)
	if err := binary.Read(s.r, binary.LittleEndian, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Close closes the underlying file.
func (s *WAVFileSource) Close() error {
	return s.f.Close()
}
