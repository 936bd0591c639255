package particles

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"
)

type colorRGB struct {
	R, G, B uint8
}

func (c colorRGB) hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Hero text sits above the glyphs and stays readable on dark terminals.
var textColor = colorRGB{R: 245, G: 240, B: 255}

// Small glyphs fade toward the background, large ones glow.
var (
	smallGlyph = colorRGB{R: 92, G: 70, B: 140}
	largeGlyph = colorRGB{R: 255, G: 120, B: 200}
)

// glyphColor maps the 20–29px size range onto the glyph gradient.
func glyphColor(size int) colorRGB {
	t := min(max(float64(size-20)/9, 0), 1)
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*t)
	}
	return colorRGB{
		R: mix(smallGlyph.R, largeGlyph.R),
		G: mix(smallGlyph.G, largeGlyph.G),
		B: mix(smallGlyph.B, largeGlyph.B),
	}
}

// pen writes a foreground sequence only when the colour changes.
type pen struct {
	profile termenv.Profile
	current colorRGB
	on      bool
}

func (p *pen) set(sb *strings.Builder, c colorRGB) {
	if p.on && c == p.current {
		return
	}
	seq := p.profile.Color(c.hex()).Sequence(false)
	if seq == "" {
		return
	}
	sb.WriteString(termenv.CSI + seq + "m")
	p.current, p.on = c, true
}

func (p *pen) reset(sb *strings.Builder) {
	if !p.on {
		return
	}
	sb.WriteString(termenv.CSI + termenv.ResetSeq + "m")
	p.on = false
}
