package pcm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// WAV support is limited to what the pipeline produces and consumes:
// 16-bit signed little-endian PCM, mono or stereo. Stereo input is
// downmixed to mono by averaging.

const (
	wavFormatPCM       = 1
	wavBitsPerSample   = 16
	wavHeaderChunkSize = 16
	// One scale constant for both directions keeps the round trip symmetric.
	wavSampleScale = 32767.0
)

// DecodeWAV reads a 16-bit PCM WAV stream into a mono track.
func DecodeWAV(r io.Reader) (*Track, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return nil, fmt.Errorf("wav: read header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return nil, errors.New("wav: not a RIFF/WAVE stream")
	}

	var (
		sampleRate int
		channels   int
		haveFmt    bool
	)
	for {
		var chunk [8]byte
		if _, err := io.ReadFull(r, chunk[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, errors.New("wav: missing data chunk")
			}
			return nil, fmt.Errorf("wav: read chunk header: %w", err)
		}
		id := string(chunk[0:4])
		size := binary.LittleEndian.Uint32(chunk[4:8])

		switch id {
		case "fmt ":
			body := make([]byte, size)
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, fmt.Errorf("wav: read fmt chunk: %w", err)
			}
			if len(body) < wavHeaderChunkSize {
				return nil, errors.New("wav: short fmt chunk")
			}
			format := binary.LittleEndian.Uint16(body[0:2])
			channels = int(binary.LittleEndian.Uint16(body[2:4]))
			sampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			bits := binary.LittleEndian.Uint16(body[14:16])
			if format != wavFormatPCM {
				return nil, fmt.Errorf("wav: unsupported format %d, want PCM", format)
			}
			if bits != wavBitsPerSample {
				return nil, fmt.Errorf("wav: unsupported bit depth %d, want 16", bits)
			}
			if channels != 1 && channels != 2 {
				return nil, fmt.Errorf("wav: unsupported channel count %d", channels)
			}
			haveFmt = true
		case "data":
			if !haveFmt {
				return nil, errors.New("wav: data chunk before fmt chunk")
			}
			body := make([]byte, size)
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, fmt.Errorf("wav: read data chunk: %w", err)
			}
			return decodeSamples(body, sampleRate, channels), nil
		default:
			// LIST, INFO, and friends.
			if _, err := io.CopyN(io.Discard, r, int64(size)); err != nil {
				return nil, fmt.Errorf("wav: skip %s chunk: %w", id, err)
			}
		}
	}
}

// DecodeWAVFile reads a WAV file into a mono track.
func DecodeWAVFile(path string) (*Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wav: open %s: %w", path, err)
	}
	defer f.Close()
	track, err := DecodeWAV(f)
	if err != nil {
		return nil, fmt.Errorf("wav: decode %s: %w", path, err)
	}
	return track, nil
}

func decodeSamples(body []byte, rate, channels int) *Track {
	frames := len(body) / (2 * channels)
	samples := make([]float64, frames)
	for i := range frames {
		if channels == 1 {
			s := int16(binary.LittleEndian.Uint16(body[i*2:]))
			samples[i] = float64(s) / wavSampleScale
			continue
		}
		l := int16(binary.LittleEndian.Uint16(body[i*4:]))
		r := int16(binary.LittleEndian.Uint16(body[i*4+2:]))
		samples[i] = (float64(l) + float64(r)) / 2 / wavSampleScale
	}
	return &Track{Rate: rate, Samples: samples}
}

// EncodeWAV writes the track as 16-bit PCM mono WAV.
func EncodeWAV(w io.Writer, t *Track) error {
	if t == nil || t.Rate <= 0 {
		return errors.New("wav: track with positive sample rate required")
	}
	dataSize := len(t.Samples) * 2
	byteRate := t.Rate * 2

	var header [44]byte
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+dataSize))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], wavHeaderChunkSize)
	binary.LittleEndian.PutUint16(header[20:22], wavFormatPCM)
	binary.LittleEndian.PutUint16(header[22:24], 1) // mono
	binary.LittleEndian.PutUint32(header[24:28], uint32(t.Rate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], 2) // block align
	binary.LittleEndian.PutUint16(header[34:36], wavBitsPerSample)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataSize))
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("wav: write header: %w", err)
	}

	body := make([]byte, dataSize)
	for i, s := range t.Samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		binary.LittleEndian.PutUint16(body[i*2:], uint16(int16(math.Round(s*wavSampleScale))))
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("wav: write samples: %w", err)
	}
	return nil
}

// EncodeWAVFile writes the track to path as 16-bit PCM mono WAV.
func EncodeWAVFile(path string, t *Track) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wav: create %s: %w", path, err)
	}
	if err := EncodeWAV(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
