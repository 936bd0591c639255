package particles

import "strings"

// EmojiGlyphs are the faces and instruments of the web background.
var EmojiGlyphs = []string{
	"😊", "😢", "😍", "😎", "😌", "🎵", "🎶", "🎸", "🎹", "🎷", "🎺", "🎧", "😃", "😤",
}

// NoteGlyphs is a single-width set for terminals without emoji fonts.
var NoteGlyphs = []string{"♪", "♫", "♩", "♬", "☺", "☻", "♥", "✦", "✧", "·"}

// GlyphSet resolves a glyph set by name, defaulting to emoji.
func GlyphSet(name string) []string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "notes", "ascii", "plain":
		return NoteGlyphs
	case "none":
		return nil
	default:
		return EmojiGlyphs
	}
}
