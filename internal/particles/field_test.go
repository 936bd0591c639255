package particles

import (
	"math"
	"math/rand/v2"
	"testing"
)

type recordingCanvas struct {
	clears int
	draws  []drawCall
}

type drawCall struct {
	glyph string
	x, y  int
	size  int
}

func (c *recordingCanvas) Clear() {
	c.clears++
	c.draws = c.draws[:0]
}

func (c *recordingCanvas) DrawGlyph(glyph string, x, y, size int) {
	c.draws = append(c.draws, drawCall{glyph: glyph, x: x, y: y, size: size})
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func still(x, y, baseVX, baseVY float64) Particle {
	return Particle{X: x, Y: y, VX: baseVX, VY: baseVY, BaseVX: baseVX, BaseVY: baseVY, Glyph: "♪", Size: 20}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNewSeedsParticlesWithinRanges(t *testing.T) {
	f := New(Options{Width: 800, Height: 600, Count: 70, Glyphs: EmojiGlyphs, Rand: seeded(1)})
	if f.Len() != 70 {
		t.Fatalf("expected 70 particles, got %d", f.Len())
	}
	glyphs := make(map[string]bool)
	for _, g := range EmojiGlyphs {
		glyphs[g] = true
	}
	for i, p := range f.Particles() {
		if p.X < 0 || p.X >= 800 || p.Y < 0 || p.Y >= 600 {
			t.Fatalf("particle %d seeded out of bounds at (%v, %v)", i, p.X, p.Y)
		}
		if p.BaseVX < -0.15 || p.BaseVX >= 0.15 || p.BaseVY < -0.15 || p.BaseVY >= 0.15 {
			t.Fatalf("particle %d base velocity out of range: (%v, %v)", i, p.BaseVX, p.BaseVY)
		}
		if p.VX != p.BaseVX || p.VY != p.BaseVY {
			t.Fatalf("particle %d should start at its base velocity", i)
		}
		if p.Size < 20 || p.Size > 29 {
			t.Fatalf("particle %d size %d out of range", i, p.Size)
		}
		if p.Amplitude < 0.1 || p.Amplitude >= 0.3 {
			t.Fatalf("particle %d amplitude %v out of range", i, p.Amplitude)
		}
		if p.Period < 100 || p.Period >= 300 {
			t.Fatalf("particle %d period %v out of range", i, p.Period)
		}
		if p.Phase < 0 || p.Phase >= 2*math.Pi {
			t.Fatalf("particle %d phase %v out of range", i, p.Phase)
		}
		if !glyphs[p.Glyph] {
			t.Fatalf("particle %d has unexpected glyph %q", i, p.Glyph)
		}
	}
}

func TestStepKeepsParticlesInsideBounds(t *testing.T) {
	f := New(Options{Width: 640, Height: 600, Count: 70, Glyphs: NoteGlyphs, Rand: seeded(7)})

	for frame := range 2000 {
		// Sweep the cursor across the canvas to exercise repulsion near edges.
		if frame%300 < 200 {
			f.SetCursor(float64(frame%640), float64((frame*3)%600))
		} else {
			f.ClearCursor()
		}
		f.Step()
		for i, p := range f.Particles() {
			if p.X < 0 || p.X >= f.Width() || p.Y < 0 || p.Y >= f.Height() {
				t.Fatalf("frame %d: particle %d escaped to (%v, %v)", frame, i, p.X, p.Y)
			}
		}
	}
}

func TestStepWrapsAfterWidthShrinks(t *testing.T) {
	f := FromParticles(800, 600, DefaultPhysics(), []Particle{still(700, 300, 0, 0)})
	f.SetWidth(300)

	if got := f.Particles()[0].X; got != 700 {
		t.Fatalf("resize should not move particles, got x=%v", got)
	}
	f.Step()
	if got := f.Particles()[0].X; got < 0 || got >= 300 {
		t.Fatalf("expected particle wrapped into new width, got x=%v", got)
	}
}

func TestStepIsDeterministicForFixedSeedAndCursor(t *testing.T) {
	run := func() []Particle {
		f := New(Options{Width: 1024, Height: 600, Count: 70, Glyphs: EmojiGlyphs, Rand: seeded(42)})
		for frame := range 500 {
			switch {
			case frame%100 < 60:
				f.SetCursor(512+200*math.Sin(float64(frame)/20), 300+150*math.Cos(float64(frame)/25))
			default:
				f.ClearCursor()
			}
			f.Step()
		}
		return f.Particles()
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("particle %d diverged: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestStepDampingBoundsSpeed(t *testing.T) {
	const d = 0.9
	f := FromParticles(10000, 10000, Physics{RepelRadius: 120, RepelStrength: 0.05, Damping: d},
		[]Particle{still(100, 100, 3, 4)})

	for k := 1; k <= 50; k++ {
		f.Step()
		p := f.Particles()[0]
		speed := math.Hypot(p.VX, p.VY)
		if !approx(speed, 5*d) {
			t.Fatalf("frame %d: expected speed %v, got %v", k, 5*d, speed)
		}
		if !approx(p.X, 100+float64(k)*3*d) || !approx(p.Y, 100+float64(k)*4*d) {
			t.Fatalf("frame %d: unexpected position (%v, %v)", k, p.X, p.Y)
		}
	}
}

func TestStepIdleDriftKeepsBaseVelocity(t *testing.T) {
	f := FromParticles(800, 600, Physics{RepelRadius: 120, RepelStrength: 0.05, Damping: 1},
		[]Particle{still(400, 300, 0.1, -0.12), still(10, 10, -0.05, 0.02)})

	for frame := range 100 {
		f.Step()
		for i, p := range f.Particles() {
			if p.VX != p.BaseVX || p.VY != p.BaseVY {
				t.Fatalf("frame %d: particle %d velocity (%v, %v) != base (%v, %v)",
					frame, i, p.VX, p.VY, p.BaseVX, p.BaseVY)
			}
		}
	}
}

func TestStepRepelsAwayFromCursor(t *testing.T) {
	cases := []struct {
		name   string
		cx, cy float64
	}{
		{name: "right", cx: 130, cy: 100},
		{name: "above left", cx: 60, cy: 40},
		{name: "below", cx: 100, cy: 210},
		{name: "diagonal", cx: 170, cy: 170},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			free := FromParticles(800, 600, DefaultPhysics(), []Particle{still(100, 100, 0.1, 0.05)})
			pushed := FromParticles(800, 600, DefaultPhysics(), []Particle{still(100, 100, 0.1, 0.05)})
			pushed.SetCursor(tc.cx, tc.cy)

			free.Step()
			pushed.Step()

			a, b := free.Particles()[0], pushed.Particles()[0]
			dvx, dvy := b.VX-a.VX, b.VY-a.VY
			awayX, awayY := 100-tc.cx, 100-tc.cy
			if dot := dvx*awayX + dvy*awayY; dot <= 0 {
				t.Fatalf("expected push away from cursor, dot=%v", dot)
			}
			wantX := -(tc.cx - 100) * 0.05 * 0.98
			wantY := -(tc.cy - 100) * 0.05 * 0.98
			if !approx(dvx, wantX) || !approx(dvy, wantY) {
				t.Fatalf("expected delta (%v, %v), got (%v, %v)", wantX, wantY, dvx, dvy)
			}
		})
	}
}

func TestStepIgnoresCursorOutsideRadius(t *testing.T) {
	f := FromParticles(800, 600, DefaultPhysics(), []Particle{still(100, 100, 0, 0)})
	f.SetCursor(100, 221)
	f.Step()
	if p := f.Particles()[0]; p.VX != 0 || p.VY != 0 {
		t.Fatalf("expected no force outside radius, got (%v, %v)", p.VX, p.VY)
	}
}

func TestClearCursorDisablesRepulsion(t *testing.T) {
	f := FromParticles(800, 600, DefaultPhysics(), []Particle{still(100, 100, 0, 0)})
	f.SetCursor(110, 100)
	f.ClearCursor()
	if _, _, ok := f.Cursor(); ok {
		t.Fatal("expected cursor to be absent")
	}
	f.Step()
	if p := f.Particles()[0]; p.VX != 0 || p.VY != 0 {
		t.Fatalf("expected no force once cursor left, got (%v, %v)", p.VX, p.VY)
	}
}

func TestStepSingleParticleWrapsLeftEdge(t *testing.T) {
	const w, h = 800.0, 600.0
	f := FromParticles(w, h, DefaultPhysics(), []Particle{still(0, h/2, -1, 0)})

	f.Step()

	p := f.Particles()[0]
	if !approx(p.X, w-0.98) {
		t.Fatalf("expected x=%v after wrap, got %v", w-0.98, p.X)
	}
	if p.Y != h/2 {
		t.Fatalf("expected y unchanged at %v, got %v", h/2, p.Y)
	}
	if f.Frame() != 1 {
		t.Fatalf("expected frame counter 1, got %d", f.Frame())
	}
}

func TestOscillationFollowsFrameCounter(t *testing.T) {
	p := still(400, 300, 0, 0)
	p.Amplitude, p.Period, p.Phase = 0.2, 100, 0.5
	f := FromParticles(800, 600, Physics{RepelRadius: 120, RepelStrength: 0.05, Damping: 1}, []Particle{p})

	f.Step()
	f.Step()

	got := f.Particles()[0]
	wantVX := math.Sin(2.0/100+0.5) * 0.2
	wantVY := math.Cos(2.0/100+0.5) * 0.2
	if !approx(got.VX, wantVX) || !approx(got.VY, wantVY) {
		t.Fatalf("expected velocity (%v, %v), got (%v, %v)", wantVX, wantVY, got.VX, got.VY)
	}
}

func TestEmptyFieldRendersNothing(t *testing.T) {
	for _, opts := range []Options{
		{Width: 800, Height: 600, Count: 70, Glyphs: nil},
		{Width: 800, Height: 600, Count: 0, Glyphs: EmojiGlyphs},
		{Width: 0, Height: 0, Count: 5, Glyphs: NoteGlyphs},
	} {
		f := New(opts)
		f.SetCursor(10, 10)
		c := &recordingCanvas{}
		for range 3 {
			f.Step()
			f.Draw(c)
		}
		if opts.Width == 0 {
			continue
		}
		if len(c.draws) != 0 {
			t.Fatalf("expected no draws for %+v, got %d", opts, len(c.draws))
		}
	}
}

func TestDrawClearsThenPaintsRoundedPositions(t *testing.T) {
	f := FromParticles(800, 600, DefaultPhysics(), []Particle{
		{X: 10.4, Y: 20.6, Glyph: "♪", Size: 21},
		{X: 99.5, Y: 0.2, Glyph: "♫", Size: 28},
	})
	c := &recordingCanvas{}
	f.Draw(c)

	if c.clears != 1 {
		t.Fatalf("expected one clear, got %d", c.clears)
	}
	want := []drawCall{
		{glyph: "♪", x: 10, y: 21, size: 21},
		{glyph: "♫", x: 100, y: 0, size: 28},
	}
	if len(c.draws) != len(want) {
		t.Fatalf("expected %d draws, got %d", len(want), len(c.draws))
	}
	for i := range want {
		if c.draws[i] != want[i] {
			t.Fatalf("draw %d: expected %+v, got %+v", i, want[i], c.draws[i])
		}
	}
}
