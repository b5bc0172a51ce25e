// SPDX-License-Identifier: MIT
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	applog "spectro/internal/log"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/vorbis"
	beepwav "github.com/faiface/beep/wav"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/mewkiz/flac"
)

// Codec identifies the container/codec of an input file.
type Codec string

const (
	CodecWAV    Codec = "wav"
	CodecFLAC   Codec = "flac"
	CodecMP3    Codec = "mp3"
	CodecVorbis Codec = "vorbis"
)

const (
	sniffLen        = 12
	streamChunkSize = 4096
)

// DecodeFile opens path, identifies its codec and decodes it to PCM.
func DecodeFile(path string) (*PCM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	header := make([]byte, sniffLen)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read input: %w", err)
	}
	codec, err := DetectCodec(header[:n], path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind input: %w", err)
	}

	applog.WithFields(applog.Fields{"file": path, "codec": codec}).Debug("audio: decoding")
	return Decode(f, codec)
}

// DetectCodec identifies a codec from the first bytes of a file, falling
// back to the file extension when the magic bytes are not conclusive.
func DetectCodec(header []byte, path string) (Codec, error) {
	switch {
	case len(header) >= 12 && bytes.Equal(header[0:4], []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WAVE")):
		return CodecWAV, nil
	case bytes.HasPrefix(header, []byte("fLaC")):
		return CodecFLAC, nil
	case bytes.HasPrefix(header, []byte("OggS")):
		return CodecVorbis, nil
	case bytes.HasPrefix(header, []byte("ID3")), isMPEGAudioSync(header):
		return CodecMP3, nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return CodecWAV, nil
	case ".flac":
		return CodecFLAC, nil
	case ".ogg", ".oga":
		return CodecVorbis, nil
	case ".mp3":
		return CodecMP3, nil
	}
	return "", ErrUnsupportedFormat
}

// isMPEGAudioSync reports an MPEG audio frame header: 11 sync bits and a
// non-zero layer. Layer 00 is AAC ADTS, which is not supported.
func isMPEGAudioSync(header []byte) bool {
	return len(header) >= 2 &&
		header[0] == 0xFF &&
		header[1]&0xE0 == 0xE0 &&
		header[1]&0x06 != 0
}

// Decode decodes r as the given codec.
func Decode(r io.ReadSeeker, codec Codec) (*PCM, error) {
	switch codec {
	case CodecWAV:
		return decodeWAV(r)
	case CodecFLAC:
		pcm, err := decodeFLAC(r)
		return pcm, decodeErr(CodecFLAC, err)
	case CodecMP3, CodecVorbis:
		pcm, err := decodeStream(r, codec)
		return pcm, decodeErr(codec, err)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// decodeWAV tries the go-audio readers first. Anything they reject (unknown
// encodings, odd chunk layouts, truncation) gets exactly one retry through
// the generic decoder, whose failure is final.
func decodeWAV(r io.ReadSeeker) (*PCM, error) {
	return decodeWAVWith(r, decodeWAVFast)
}

func decodeWAVWith(r io.ReadSeeker, fast func(io.ReadSeeker) (*PCM, error)) (*PCM, error) {
	pcm, err := fast(r)
	if err == nil {
		return pcm, nil
	}
	applog.Debugf("audio: wav fast path rejected input (%v), retrying generic decoder", err)

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind input: %w", err)
	}
	pcm, err = decodeStream(r, CodecWAV)
	if err != nil {
		return nil, decodeErr(CodecWAV, err)
	}
	// beep only reads integer PCM WAV files, so its floats go back to
	// integers and keep peak normalization in Downmix.
	return requantize(pcm), nil
}

// decodeWAVFast reads the fmt chunk to pick a reader: plain integer PCM goes
// through go-audio/wav, extensible integer PCM and IEEE float data are
// decoded from the raw data chunk.
func decodeWAVFast(r io.ReadSeeker) (*PCM, error) {
	hdr, err := scanWAV(r, false)
	if err != nil {
		return nil, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	switch {
	case hdr.formatTag == wavFormatPCM:
		return decodeWAVPCM(r)
	case hdr.encoding() == wavFormatPCM, hdr.encoding() == wavFormatIEEEFloat:
		w, err := scanWAV(r, true)
		if err != nil {
			return nil, err
		}
		return w.decodeSamples()
	default:
		return nil, fmt.Errorf("wav format 0x%04x (sub-format 0x%04x) is not supported", hdr.formatTag, hdr.subFormat)
	}
}

func decodeWAVPCM(r io.ReadSeeker) (*PCM, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, errors.New("not a valid wav file")
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, err
	}

	// 8 bit WAV samples are unsigned with silence at 128.
	if d.BitDepth == 8 {
		for i := range buf.Data {
			buf.Data[i] -= 128
		}
	}

	return &PCM{
		Ints:       buf.Data,
		Format:     FormatInt,
		Channels:   int(d.NumChans),
		SampleRate: int(d.SampleRate),
		BitDepth:   int(d.BitDepth),
		Codec:      CodecWAV,
	}, nil
}

// requantize converts float PCM to integers at its source bit depth.
func requantize(p *PCM) *PCM {
	if p.Format != FormatFloat {
		return p
	}
	bits := p.BitDepth
	if bits < 8 || bits > 32 {
		bits = 16
	}
	full := float64(audio.IntMaxSignedValue(bits))
	p.Ints = make([]int, len(p.Floats))
	for i, f := range p.Floats {
		p.Ints[i] = int(math.Round(float64(f) * full))
	}
	p.Floats = nil
	p.Format = FormatInt
	return p
}

func decodeFLAC(r io.Reader) (*PCM, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	info := stream.Info
	ch := int(info.NChannels)
	if ch < 1 {
		return nil, errors.New("no audio channels")
	}
	pcm := &PCM{
		Format:     FormatInt,
		Channels:   ch,
		SampleRate: int(info.SampleRate),
		BitDepth:   int(info.BitsPerSample),
		Codec:      CodecFLAC,
	}
	if info.NSamples > 0 {
		pcm.Ints = make([]int, 0, int(info.NSamples)*ch)
	}

	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(frame.Subframes) != ch {
			return nil, fmt.Errorf("frame has %d subframes, stream declares %d channels", len(frame.Subframes), ch)
		}
		n := len(frame.Subframes[0].Samples)
		for i := 0; i < n; i++ {
			for c := 0; c < ch; c++ {
				pcm.Ints = append(pcm.Ints, int(frame.Subframes[c].Samples[i]))
			}
		}
	}

	return pcm, nil
}

// decodeStream runs one of beep's decoders to completion. beep always
// delivers stereo pairs, so the channel count is capped at two; downmixing
// never looks past the second channel anyway.
func decodeStream(r io.Reader, codec Codec) (*PCM, error) {
	var (
		s      beep.StreamSeekCloser
		format beep.Format
		err    error
	)
	switch codec {
	case CodecWAV:
		s, format, err = beepwav.Decode(r)
	case CodecMP3:
		s, format, err = mp3.Decode(io.NopCloser(r))
	case CodecVorbis:
		s, format, err = vorbis.Decode(io.NopCloser(r))
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	defer s.Close()

	ch := min(max(format.NumChannels, 1), 2)
	pcm := &PCM{
		Format:     FormatFloat,
		Channels:   ch,
		SampleRate: int(format.SampleRate),
		BitDepth:   format.Precision * 8,
		Codec:      codec,
	}
	if l := s.Len(); l > 0 {
		pcm.Floats = make([]float32, 0, l*ch)
	}

	buf := make([][2]float64, streamChunkSize)
	for {
		n, ok := s.Stream(buf)
		for _, frame := range buf[:n] {
			for c := 0; c < ch; c++ {
				pcm.Floats = append(pcm.Floats, float32(frame[c]))
			}
		}
		if !ok {
			break
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	return pcm, nil
}
