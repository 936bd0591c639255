package media

import (
	"path/filepath"
	"strings"
)

// MaxUploadSize is the largest file the genre classifier accepts.
const MaxUploadSize = 10 << 20

var audioExts = map[string]Format{
	".mp3":  FormatMP3,
	".wav":  FormatWAV,
	".flac": FormatFLAC,
	".ogg":  FormatOGG,
}

// Format identifies an uploadable audio container.
type Format string

const (
	FormatMP3  Format = "mp3"
	FormatWAV  Format = "wav"
	FormatFLAC Format = "flac"
	FormatOGG  Format = "ogg"
)

// IsSupportedExt returns true if the extension is an uploadable audio format.
func IsSupportedExt(ext string) bool {
	_, ok := audioExts[strings.ToLower(ext)]
	return ok
}

// FormatOf returns the format implied by a file name's extension.
func FormatOf(path string) (Format, bool) {
	f, ok := audioExts[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// SupportedExtsList returns a human-readable list of uploadable formats.
func SupportedExtsList() string {
	return ".mp3, .wav, .flac, .ogg"
}
