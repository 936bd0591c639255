// Package player decodes generated music into PCM and plays it back.
package player

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/olivier-w/moodtunes/internal/media"
	"github.com/olivier-w/moodtunes/internal/midi"
)

const (
	SampleRate    = 44100
	Channels      = 2
	bytesPerFrame = Channels * 2 // 16-bit
	bytesPerSec   = SampleRate * bytesPerFrame
)

// ErrUnknownPayload is returned for payloads that are not MIDI, MP3 or WAV.
var ErrUnknownPayload = errors.New("unrecognised audio payload")

// PCM is 16-bit little-endian interleaved stereo at SampleRate.
type PCM struct {
	Data []byte
}

// Duration returns the playing time of the clip.
func (p *PCM) Duration() time.Duration {
	return bytesToDuration(int64(len(p.Data)))
}

// Samples returns the interleaved samples.
func (p *PCM) Samples() []int16 {
	out := make([]int16, len(p.Data)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(p.Data[2*i:]))
	}
	return out
}

func bytesToDuration(n int64) time.Duration {
	return time.Duration(float64(n) / float64(bytesPerSec) * float64(time.Second))
}

// FromSamples packs interleaved stereo samples at SampleRate.
func FromSamples(samples []int16) *PCM {
	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[2*i:], uint16(s))
	}
	return &PCM{Data: data}
}

// Decode converts a generation payload into playable PCM.
func Decode(kind media.Kind, data []byte) (*PCM, error) {
	switch kind {
	case media.KindMIDI:
		song, err := midi.Parse(data)
		if err != nil {
			return nil, err
		}
		return FromSamples(midi.Render(song, SampleRate)), nil
	case media.KindMP3:
		return decodeMP3(data)
	case media.KindWAV:
		return decodeWAV(data)
	default:
		return nil, ErrUnknownPayload
	}
}

func decodeMP3(data []byte) (*PCM, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding mp3: %w", err)
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("decoding mp3: %w", err)
	}
	pcm := &PCM{Data: raw[:len(raw)-len(raw)%bytesPerFrame]}
	if dec.SampleRate() == SampleRate {
		return pcm, nil
	}
	return FromSamples(resampleStereo(pcm.Samples(), dec.SampleRate())), nil
}

func decodeWAV(data []byte) (*PCM, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	channels := int(dec.NumChans)
	if channels < 1 {
		return nil, fmt.Errorf("invalid WAV channel count %d", channels)
	}
	shift := int(dec.BitDepth) - 16

	frames := len(buf.Data) / channels
	stereo := make([]int16, frames*2)
	for f := range frames {
		l := to16(buf.Data[f*channels], shift, dec.BitDepth)
		r := l
		if channels > 1 {
			r = to16(buf.Data[f*channels+1], shift, dec.BitDepth)
		}
		stereo[2*f] = l
		stereo[2*f+1] = r
	}
	if int(dec.SampleRate) != SampleRate {
		stereo = resampleStereo(stereo, int(dec.SampleRate))
	}
	return FromSamples(stereo), nil
}

func to16(v, shift int, bitDepth uint16) int16 {
	if bitDepth == 8 {
		// 8-bit WAV is unsigned
		return int16((v - 128) << 8)
	}
	if shift > 0 {
		return int16(v >> shift)
	}
	return int16(v << -shift)
}

// resampleStereo linearly interpolates interleaved stereo from rate `from`
// to SampleRate.
func resampleStereo(in []int16, from int) []int16 {
	if from <= 0 || len(in) < 2 {
		return nil
	}
	frames := len(in) / 2
	outFrames := int(int64(frames) * SampleRate / int64(from))
	out := make([]int16, outFrames*2)
	ratio := float64(from) / SampleRate
	for f := range outFrames {
		src := float64(f) * ratio
		i := int(src)
		t := src - float64(i)
		j := i + 1
		if j >= frames {
			j = frames - 1
		}
		for c := range 2 {
			a := float64(in[2*i+c])
			b := float64(in[2*j+c])
			out[2*f+c] = int16(a + (b-a)*t)
		}
	}
	return out
}

// WriteWAV encodes pcm as a 16-bit stereo WAV file.
func WriteWAV(w io.WriteSeeker, pcm *PCM) error {
	enc := wav.NewEncoder(w, SampleRate, 16, Channels, 1)
	samples := pcm.Samples()
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: Channels, SampleRate: SampleRate},
		Data:           make([]int, len(samples)),
		SourceBitDepth: 16,
	}
	for i, s := range samples {
		buf.Data[i] = int(s)
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encoding wav: %w", err)
	}
	return enc.Close()
}

// SaveWAV writes pcm to path, refusing to overwrite an existing file.
func SaveWAV(path string, pcm *PCM) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if err := WriteWAV(f, pcm); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
