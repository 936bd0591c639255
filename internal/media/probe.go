package media

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bogem/id3v2/v2"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrTooLarge          = errors.New("file exceeds 10MB upload limit")
	ErrEmptyFile         = errors.New("file is empty")
)

// Info describes an audio file picked for upload.
type Info struct {
	Path       string
	Name       string
	Format     Format
	Size       int64
	Duration   time.Duration
	SampleRate int
	Channels   int
	Title      string
	Artist     string
}

// Label returns "Artist - Title" when tags are present, else the file name.
func (i Info) Label() string {
	switch {
	case i.Artist != "" && i.Title != "":
		return i.Artist + " - " + i.Title
	case i.Title != "":
		return i.Title
	default:
		return i.Name
	}
}

// Probe validates an upload candidate and reads its stream parameters.
func Probe(path string) (Info, error) {
	format, ok := FormatOf(path)
	if !ok {
		return Info{}, fmt.Errorf("%w %s (supported: %s)", ErrUnsupportedFormat, filepath.Ext(path), SupportedExtsList())
	}

	st, err := os.Stat(path)
	if err != nil {
		return Info{}, err
	}
	if st.IsDir() {
		return Info{}, fmt.Errorf("%s is a directory", path)
	}
	if st.Size() == 0 {
		return Info{}, ErrEmptyFile
	}
	if st.Size() > MaxUploadSize {
		return Info{}, ErrTooLarge
	}

	info := Info{
		Path:   path,
		Name:   filepath.Base(path),
		Format: format,
		Size:   st.Size(),
	}

	switch format {
	case FormatMP3:
		err = probeMP3(&info)
	case FormatWAV:
		err = probeWAV(&info)
	case FormatFLAC:
		err = probeFLAC(&info)
	case FormatOGG:
		err = probeOGG(&info)
	}
	if err != nil {
		return Info{}, fmt.Errorf("reading %s: %w", info.Name, err)
	}
	return info, nil
}

func probeMP3(info *Info) error {
	f, err := os.Open(info.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return err
	}
	info.SampleRate = dec.SampleRate()
	info.Channels = 2
	if n := dec.Length(); n > 0 && info.SampleRate > 0 {
		// go-mp3 always emits 16-bit stereo.
		frames := n / 4
		info.Duration = time.Duration(float64(frames) / float64(info.SampleRate) * float64(time.Second))
	}

	info.Title, info.Artist = readID3(info.Path)
	return nil
}

func probeWAV(info *Info) error {
	f, err := os.Open(info.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return fmt.Errorf("invalid WAV file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return fmt.Errorf("reading WAV PCM data: %w", err)
	}

	info.SampleRate = int(dec.SampleRate)
	info.Channels = int(dec.NumChans)
	frameSize := int64(dec.NumChans) * int64(dec.BitDepth) / 8
	if frameSize > 0 && dec.SampleRate > 0 {
		frames := dec.PCMLen() / frameSize
		info.Duration = time.Duration(float64(frames) / float64(dec.SampleRate) * float64(time.Second))
	}
	return nil
}

func probeFLAC(info *Info) error {
	stream, err := flac.Open(info.Path)
	if err != nil {
		return err
	}
	defer stream.Close()

	info.SampleRate = int(stream.Info.SampleRate)
	info.Channels = int(stream.Info.NChannels)
	if info.SampleRate > 0 {
		info.Duration = time.Duration(float64(stream.Info.NSamples) / float64(info.SampleRate) * float64(time.Second))
	}
	return nil
}

func probeOGG(info *Info) error {
	f, err := os.Open(info.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	r, err := oggvorbis.NewReader(f)
	if err != nil {
		return err
	}
	info.SampleRate = r.SampleRate()
	info.Channels = r.Channels()
	if n := r.Length(); n > 0 && info.SampleRate > 0 {
		info.Duration = time.Duration(float64(n) / float64(info.SampleRate) * float64(time.Second))
	}
	return nil
}

// readID3 returns the title and artist tags, or empty strings.
func readID3(path string) (title, artist string) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return "", ""
	}
	defer tag.Close()
	return strings.TrimSpace(tag.Title()), strings.TrimSpace(tag.Artist())
}
