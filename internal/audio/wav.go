// SPDX-License-Identifier: MIT
package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/riff"
)

// WAVE format tags.
const (
	wavFormatPCM        = 0x0001
	wavFormatIEEEFloat  = 0x0003
	wavFormatExtensible = 0xFFFE
)

// wavSubFormatTail is the fixed part of a KSDATAFORMAT_SUBTYPE GUID following
// the two byte format code.
var wavSubFormatTail = []byte{0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71}

// wavFile is the fmt chunk of a WAVE file and, when requested, its raw
// sample data.
type wavFile struct {
	formatTag  uint16
	subFormat  uint16 // format code from the extensible GUID, 0 otherwise
	channels   int
	sampleRate int
	blockAlign int
	bitDepth   int
	data       []byte
}

// encoding resolves the extensible wrapper to the underlying format code.
func (w *wavFile) encoding() uint16 {
	if w.formatTag == wavFormatExtensible {
		return w.subFormat
	}
	return w.formatTag
}

// bytesPerSample is the container width of one sample.
func (w *wavFile) bytesPerSample() int {
	if w.channels > 0 && w.blockAlign >= w.channels {
		return w.blockAlign / w.channels
	}
	return (w.bitDepth + 7) / 8
}

// scanWAV walks the RIFF chunks of r. It stops after the fmt chunk unless
// withData is set, in which case the data chunk is read as well.
func scanWAV(r io.Reader, withData bool) (*wavFile, error) {
	p := riff.New(r)
	if err := p.ParseHeaders(); err != nil {
		return nil, err
	}
	if p.Format != riff.WavFormatID {
		return nil, fmt.Errorf("riff form %q is not WAVE", p.Format[:])
	}

	var w *wavFile
	for {
		ch, err := p.NextChunk()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch ch.ID {
		case riff.FmtID:
			raw := make([]byte, ch.Size)
			n, err := io.ReadFull(ch, raw)
			// The chunk size is padded to an even length; the pad byte may be
			// missing on the last chunk.
			if err != nil && !(errors.Is(err, io.ErrUnexpectedEOF) && n >= ch.Size-1) {
				return nil, fmt.Errorf("read fmt chunk: %w", err)
			}
			if w, err = parseFmtChunk(raw[:n]); err != nil {
				return nil, err
			}
			if !withData {
				return w, nil
			}
		case riff.DataFormatID:
			if w == nil {
				return nil, errors.New("data chunk before fmt chunk")
			}
			data, err := io.ReadAll(io.LimitReader(ch, int64(ch.Size)))
			if err != nil {
				return nil, fmt.Errorf("read data chunk: %w", err)
			}
			if len(data) < ch.Size-1 {
				return nil, fmt.Errorf("data chunk truncated: %d of %d bytes", len(data), ch.Size)
			}
			w.data = data
			return w, nil
		default:
			ch.Drain()
		}
	}

	if w == nil {
		return nil, errors.New("missing fmt chunk")
	}
	return nil, errors.New("missing data chunk")
}

func parseFmtChunk(raw []byte) (*wavFile, error) {
	if len(raw) < 16 {
		return nil, fmt.Errorf("fmt chunk too short: %d bytes", len(raw))
	}
	le := binary.LittleEndian
	w := &wavFile{
		formatTag:  le.Uint16(raw[0:2]),
		channels:   int(le.Uint16(raw[2:4])),
		sampleRate: int(le.Uint32(raw[4:8])),
		blockAlign: int(le.Uint16(raw[12:14])),
		bitDepth:   int(le.Uint16(raw[14:16])),
	}
	if w.formatTag == wavFormatExtensible {
		// cbSize(2) validBits(2) channelMask(4) GUID(16)
		if len(raw) < 40 {
			return nil, fmt.Errorf("extensible fmt chunk too short: %d bytes", len(raw))
		}
		guid := raw[24:40]
		if !bytes.Equal(guid[2:], wavSubFormatTail) {
			return nil, errors.New("unknown extensible sub-format")
		}
		w.subFormat = le.Uint16(guid[0:2])
	}
	if w.channels < 1 {
		return nil, errors.New("no audio channels")
	}
	return w, nil
}

// decodeSamples converts raw little endian sample data to PCM. Integer data
// is sign-adjusted so that 8 bit (unsigned) files centre on zero like every
// other depth.
func (w *wavFile) decodeSamples() (*PCM, error) {
	size := w.bytesPerSample()
	if size < 1 {
		return nil, errors.New("zero sample width")
	}
	frameBytes := size * w.channels
	n := len(w.data) / frameBytes * w.channels
	pcm := &PCM{
		Channels:   w.channels,
		SampleRate: w.sampleRate,
		BitDepth:   w.bitDepth,
		Codec:      CodecWAV,
	}
	le := binary.LittleEndian

	switch w.encoding() {
	case wavFormatPCM:
		if size > 4 {
			return nil, fmt.Errorf("unsupported integer sample width %d bytes", size)
		}
		pcm.Format = FormatInt
		pcm.Ints = make([]int, n)
		for i := range n {
			b := w.data[i*size : (i+1)*size]
			switch size {
			case 1:
				pcm.Ints[i] = int(b[0]) - 128
			case 2:
				pcm.Ints[i] = int(int16(le.Uint16(b)))
			case 3:
				pcm.Ints[i] = int(int32(uint32(b[0])<<8|uint32(b[1])<<16|uint32(b[2])<<24) >> 8)
			case 4:
				pcm.Ints[i] = int(int32(le.Uint32(b)))
			}
		}
	case wavFormatIEEEFloat:
		pcm.Format = FormatFloat
		pcm.Floats = make([]float32, n)
		for i := range n {
			b := w.data[i*size : (i+1)*size]
			switch size {
			case 4:
				pcm.Floats[i] = math.Float32frombits(le.Uint32(b))
			case 8:
				pcm.Floats[i] = float32(math.Float64frombits(le.Uint64(b)))
			default:
				return nil, fmt.Errorf("unsupported float sample width %d bytes", size)
			}
		}
	default:
		return nil, fmt.Errorf("wav encoding 0x%04x is not supported", w.encoding())
	}

	return pcm, nil
}
