package audioio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// WAVWriter writes a 2-channel, 32-bit IEEE-float WAV file, samples
// interleaved in the same L/R order as input (spec.md §6). No pack
// dependency produces float32 WAV with the exact chunk layout used by
// spec.md §6's dumps, so this stays on the standard library
// encoding/binary (see DESIGN.md).
type WAVWriter struct {
	f          *os.File
	sampleRate int
	frames     uint32
}

const wavHeaderSize = 44

// NewWAVWriter creates path and reserves space for the 44-byte RIFF/fmt
// header, to be backpatched on Close once the frame count is known.
func NewWAVWriter(path string, sampleRate int) (*WAVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating wav file %q: %w", path, err)
	}
	w := &WAVWriter{f: f, sampleRate: sampleRate}
	if err := w.writeHeader(0); err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

// WriteInterleaved appends interleaved stereo float32 samples.
func (w *WAVWriter) WriteInterleaved(samples []float32) error {
	if err := binary.Write(w.f, binary.LittleEndian, samples); err != nil {
		return fmt.Errorf("writing wav samples: %w", err)
	}
	w.frames += uint32(len(samples) / 2)
	return nil
}

// Close backpatches the RIFF/data chunk sizes with the final frame count
// and closes the file.
func (w *WAVWriter) Close() error {
	if _, err := w.f.Seek(0, io.SeekStart); err != nil {
		w.f.Close()
		return fmt.Errorf("seeking wav header: %w", err)
	}
	if err := w.writeHeader(w.frames); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}

const (
	wavChannels      = 2
	wavBitsPerSample = 32
	wavFormatFloat   = 3 // WAVE_FORMAT_IEEE_FLOAT
)

func (w *WAVWriter) writeHeader(frames uint32) error {
	dataBytes := frames * wavChannels * (wavBitsPerSample / 8)
	byteRate := uint32(w.sampleRate) * wavChannels * (wavBitsPerSample / 8)
	blockAlign := uint16(wavChannels * (wavBitsPerSample / 8))

	hdr := make([]byte, 0, wavHeaderSize)
	hdr = append(hdr, "RIFF"...)
	hdr = appendU32(hdr, 36+dataBytes)
	hdr = append(hdr, "WAVE"...)
	hdr = append(hdr, "fmt "...)
	hdr = appendU32(hdr, 16)
	hdr = appendU16(hdr, wavFormatFloat)
	hdr = appendU16(hdr, wavChannels)
	hdr = appendU32(hdr, uint32(w.sampleRate))
	hdr = appendU32(hdr, byteRate)
	hdr = appendU16(hdr, blockAlign)
	hdr = appendU16(hdr, wavBitsPerSample)
	hdr = append(hdr, "data"...)
	hdr = appendU32(hdr, dataBytes)

	_, err := w.f.Write(hdr)
	return err
}

func appendU32(b []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(b, tmp[:]...)
}

func appendU16(b []byte, v uint16) []byte {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	return append(b, tmp[:]...)
}
