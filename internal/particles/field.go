// Package particles simulates the drifting glyph field painted behind the
// home screen. Glyphs oscillate around a base drift, get pushed away from the
// pointer and wrap around the canvas edges.
package particles

import (
	"math"
	"math/rand/v2"
)

const (
	// DefaultCount is the number of glyphs on the home background.
	DefaultCount = 70
	// DefaultHeight is the fixed canvas height in canvas pixels.
	DefaultHeight = 600
)

// Physics holds the force constants applied every frame.
type Physics struct {
	RepelRadius   float64 // cursor influence radius in canvas pixels
	RepelStrength float64 // multiplier on the raw particle→cursor offset
	Damping       float64 // velocity multiplier applied after all forces
}

// DefaultPhysics returns the constants used by the web background.
func DefaultPhysics() Physics {
	return Physics{
		RepelRadius:   120,
		RepelStrength: 0.05,
		Damping:       0.98,
	}
}

// Particle is a single glyph on the canvas.
type Particle struct {
	X, Y           float64
	VX, VY         float64
	BaseVX, BaseVY float64
	Glyph          string
	Size           int

	Amplitude float64
	Period    float64
	Phase     float64
}

// Options configures a new Field. A zero Height or Physics falls back to the
// defaults; a zero Count seeds an empty field.
type Options struct {
	Width   float64
	Height  float64
	Count   int
	Glyphs  []string
	Physics Physics
	Rand    *rand.Rand
}

// Field owns every particle of one mounted background along with the
// cursor state and frame counter. It is not safe for concurrent use; the
// frame loop and pointer handlers are expected to run on one goroutine.
type Field struct {
	particles []Particle
	width     float64
	height    float64
	physics   Physics

	cursorX   float64
	cursorY   float64
	hasCursor bool

	frame uint64
}

// New seeds a field with randomized particles. An empty glyph set or zero
// count yields a field with no particles.
func New(opts Options) *Field {
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Count < 0 || len(opts.Glyphs) == 0 {
		opts.Count = 0
	}
	if opts.Physics == (Physics{}) {
		opts.Physics = DefaultPhysics()
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	ps := make([]Particle, opts.Count)
	for i := range ps {
		ps[i] = seedParticle(rng, opts.Width, opts.Height, opts.Glyphs)
	}
	return &Field{
		particles: ps,
		width:     opts.Width,
		height:    opts.Height,
		physics:   opts.Physics,
	}
}

// FromParticles builds a field around an explicit particle set. The slice is
// copied.
func FromParticles(width, height float64, physics Physics, ps []Particle) *Field {
	return &Field{
		particles: append([]Particle(nil), ps...),
		width:     width,
		height:    height,
		physics:   physics,
	}
}

func seedParticle(rng *rand.Rand, width, height float64, glyphs []string) Particle {
	baseVX := (rng.Float64() - 0.5) * 0.3
	baseVY := (rng.Float64() - 0.5) * 0.3
	return Particle{
		X:         rng.Float64() * width,
		Y:         rng.Float64() * height,
		VX:        baseVX,
		VY:        baseVY,
		BaseVX:    baseVX,
		BaseVY:    baseVY,
		Glyph:     glyphs[rng.IntN(len(glyphs))],
		Size:      20 + rng.IntN(10),
		Amplitude: 0.1 + rng.Float64()*0.2,
		Period:    100 + rng.Float64()*200,
		Phase:     rng.Float64() * math.Pi * 2,
	}
}

// Step advances the simulation by one frame.
func (f *Field) Step() {
	f.frame++
	t := float64(f.frame)

	for i := range f.particles {
		p := &f.particles[i]

		p.VX, p.VY = p.BaseVX, p.BaseVY
		if p.Period != 0 {
			angle := t/p.Period + p.Phase
			p.VX += math.Sin(angle) * p.Amplitude
			p.VY += math.Cos(angle) * p.Amplitude
		}

		if f.hasCursor {
			dx := f.cursorX - p.X
			dy := f.cursorY - p.Y
			if math.Hypot(dx, dy) < f.physics.RepelRadius {
				p.VX -= dx * f.physics.RepelStrength
				p.VY -= dy * f.physics.RepelStrength
			}
		}

		p.VX *= f.physics.Damping
		p.VY *= f.physics.Damping

		p.X = wrap(p.X+p.VX, f.width)
		p.Y = wrap(p.Y+p.VY, f.height)
	}
}

// wrap maps v onto [0, size), re-entering from the opposite edge at the same
// offset.
func wrap(v, size float64) float64 {
	if size <= 0 {
		return 0
	}
	if v >= 0 && v < size {
		return v
	}
	v = math.Mod(v, size)
	if v < 0 {
		v += size
	}
	// -tiny + size can round up to size.
	if v >= size {
		v = 0
	}
	return v
}

// Draw clears the canvas and paints every glyph at its rounded position.
func (f *Field) Draw(c Canvas) {
	c.Clear()
	for _, p := range f.particles {
		c.DrawGlyph(p.Glyph, int(math.Round(p.X)), int(math.Round(p.Y)), p.Size)
	}
}

// SetCursor records the pointer position in canvas coordinates.
func (f *Field) SetCursor(x, y float64) {
	f.cursorX, f.cursorY = x, y
	f.hasCursor = true
}

// ClearCursor marks the pointer as absent, disabling repulsion.
func (f *Field) ClearCursor() {
	f.hasCursor = false
}

// Cursor returns the pointer position and whether it is present.
func (f *Field) Cursor() (x, y float64, ok bool) {
	return f.cursorX, f.cursorY, f.hasCursor
}

// SetWidth updates the canvas width. Particle positions are left alone and
// wrap back into bounds on the next Step.
func (f *Field) SetWidth(w float64) {
	f.width = w
}

func (f *Field) Width() float64  { return f.width }
func (f *Field) Height() float64 { return f.height }
func (f *Field) Frame() uint64   { return f.frame }
func (f *Field) Len() int        { return len(f.particles) }

// Particles returns a copy of the current particle state.
func (f *Field) Particles() []Particle {
	return append([]Particle(nil), f.particles...)
}
