package utils

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
)

// WAVE format tags understood by RawWAV.
const (
	WAVFormatPCM        = 0x0001
	WAVFormatIEEEFloat  = 0x0003
	WAVFormatExtensible = 0xFFFE
)

var wavGUIDTail = []byte{0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71}

// RawWAV describes a WAV file byte for byte, for layouts the go-audio
// encoder does not write (extensible headers, float data, 8 bit samples).
// Data holds already encoded little endian samples.
type RawWAV struct {
	// FormatTag is the fmt chunk tag, or the sub-format when Extensible.
	FormatTag  uint16
	Extensible bool
	Channels   int
	SampleRate int
	BitDepth   int
	Data       []byte
}

// Bytes serializes the file.
func (w RawWAV) Bytes() []byte {
	le := binary.LittleEndian
	blockAlign := w.Channels * ((w.BitDepth + 7) / 8)

	var fmtChunk bytes.Buffer
	tag := w.FormatTag
	if w.Extensible {
		tag = WAVFormatExtensible
	}
	binary.Write(&fmtChunk, le, tag)
	binary.Write(&fmtChunk, le, uint16(w.Channels))
	binary.Write(&fmtChunk, le, uint32(w.SampleRate))
	binary.Write(&fmtChunk, le, uint32(w.SampleRate*blockAlign))
	binary.Write(&fmtChunk, le, uint16(blockAlign))
	binary.Write(&fmtChunk, le, uint16(w.BitDepth))
	if w.Extensible {
		binary.Write(&fmtChunk, le, uint16(22))
		binary.Write(&fmtChunk, le, uint16(w.BitDepth))
		binary.Write(&fmtChunk, le, uint32(0))
		binary.Write(&fmtChunk, le, w.FormatTag)
		fmtChunk.Write(wavGUIDTail)
	}

	var out bytes.Buffer
	out.WriteString("RIFF")
	pad := len(w.Data) % 2
	binary.Write(&out, le, uint32(4+8+fmtChunk.Len()+8+len(w.Data)+pad))
	out.WriteString("WAVE")
	out.WriteString("fmt ")
	binary.Write(&out, le, uint32(fmtChunk.Len()))
	out.Write(fmtChunk.Bytes())
	out.WriteString("data")
	binary.Write(&out, le, uint32(len(w.Data)))
	out.Write(w.Data)
	if pad == 1 {
		out.WriteByte(0)
	}
	return out.Bytes()
}

// WriteRawWAV writes w to path.
func WriteRawWAV(path string, w RawWAV) error {
	return os.WriteFile(path, w.Bytes(), 0644)
}

// PCM8 encodes signed samples as unsigned 8 bit WAV data.
func PCM8(samples []int) []byte {
	out := make([]byte, len(samples))
	for i, s := range samples {
		out[i] = byte(s + 128)
	}
	return out
}

// PCM16LE encodes samples as signed 16 bit little endian data.
func PCM16LE(samples []int) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(int16(s)))
	}
	return out
}

// Float32LE encodes samples as 32 bit IEEE float little endian data.
func Float32LE(samples []float32) []byte {
	out := make([]byte, 4*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(s))
	}
	return out
}
