package media

import (
	"bytes"
	"mime"
	"strings"
)

// Kind identifies the payload returned by the music generation service.
type Kind int

const (
	KindUnknown Kind = iota
	KindMIDI
	KindMP3
	KindWAV
)

func (k Kind) String() string {
	switch k {
	case KindMIDI:
		return "midi"
	case KindMP3:
		return "mp3"
	case KindWAV:
		return "wav"
	default:
		return "unknown"
	}
}

// Ext returns the file extension used when saving a payload of this kind.
func (k Kind) Ext() string {
	switch k {
	case KindMIDI:
		return ".mid"
	case KindMP3:
		return ".mp3"
	case KindWAV:
		return ".wav"
	default:
		return ".bin"
	}
}

var contentTypeKinds = map[string]Kind{
	"audio/midi":   KindMIDI,
	"audio/mid":    KindMIDI,
	"audio/x-midi": KindMIDI,
	"audio/mpeg":   KindMP3,
	"audio/mp3":    KindMP3,
	"audio/wav":    KindWAV,
	"audio/wave":   KindWAV,
	"audio/x-wav":  KindWAV,
}

// SniffKind classifies a payload from its Content-Type, falling back to the
// leading magic bytes when the header is missing or generic.
func SniffKind(contentType string, data []byte) Kind {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		if k, ok := contentTypeKinds[strings.ToLower(mt)]; ok {
			return k
		}
	}

	switch {
	case bytes.HasPrefix(data, []byte("MThd")):
		return KindMIDI
	case len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")):
		return KindWAV
	case bytes.HasPrefix(data, []byte("ID3")):
		return KindMP3
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return KindMP3
	default:
		return KindUnknown
	}
}
