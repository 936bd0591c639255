package ui

import (
	"math/rand/v2"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/moodtunes/internal/particles"
)

func testBackground() *Background {
	return NewBackground(BackgroundOptions{
		Count:    8,
		Glyphs:   particles.NoteGlyphs,
		Interval: time.Millisecond,
		Rand:     rand.New(rand.NewPCG(1, 2)),
	})
}

func nextFrame(t *testing.T, cmd tea.Cmd) frameMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected frame command")
	}
	msg, ok := cmd().(frameMsg)
	if !ok {
		t.Fatal("expected frameMsg")
	}
	return msg
}

func TestBackgroundFramesStepField(t *testing.T) {
	bg := testBackground()
	msg := nextFrame(t, bg.Mount(40))
	if !bg.Mounted() {
		t.Fatal("expected mounted background")
	}
	if bg.field.Len() != 8 {
		t.Fatalf("particles = %d, want 8", bg.field.Len())
	}

	msg = nextFrame(t, bg.HandleFrame(msg))
	nextFrame(t, bg.HandleFrame(msg))
	if got := bg.field.Frame(); got != 2 {
		t.Fatalf("frame = %d, want 2", got)
	}
	if bg.Rows() != particles.RowsFor(particles.DefaultHeight) {
		t.Fatalf("rows = %d", bg.Rows())
	}
}

func TestBackgroundUnmountStopsFrames(t *testing.T) {
	bg := testBackground()
	msg := nextFrame(t, bg.Mount(40))
	field := bg.field

	bg.Unmount()
	requests := bg.sched.Requests()
	if cmd := bg.HandleFrame(msg); cmd != nil {
		t.Fatal("expected no frame after unmount")
	}
	if bg.sched.Requests() != requests {
		t.Fatalf("requests grew after unmount: %d -> %d", requests, bg.sched.Requests())
	}
	if field.Frame() != 0 {
		t.Fatalf("field stepped after unmount: frame %d", field.Frame())
	}
	if bg.View(10) != "" {
		t.Fatal("expected empty view after unmount")
	}
}

func TestBackgroundIgnoresFramesFromEarlierMount(t *testing.T) {
	bg := testBackground()
	stale := nextFrame(t, bg.Mount(40))
	bg.Unmount()
	fresh := nextFrame(t, bg.Mount(40))

	if cmd := bg.HandleFrame(stale); cmd != nil {
		t.Fatal("expected stale frame to be dropped")
	}
	if bg.field.Frame() != 0 {
		t.Fatalf("frame = %d, want 0", bg.field.Frame())
	}
	if cmd := bg.HandleFrame(fresh); cmd == nil {
		t.Fatal("expected fresh frame to continue the chain")
	}
}

func TestBackgroundMouseMovesCursor(t *testing.T) {
	bg := testBackground()
	bg.Mount(40)

	rows := bg.Rows()
	bg.HandleMouse(tea.MouseMsg{X: 3, Y: 7, Action: tea.MouseActionMotion}, 2, rows)
	x, y, ok := bg.field.Cursor()
	if !ok {
		t.Fatal("expected cursor inside canvas")
	}
	wantX, wantY := particles.CellCenter(3, 5)
	if x != wantX || y != wantY {
		t.Fatalf("cursor = (%v, %v), want (%v, %v)", x, y, wantX, wantY)
	}

	bg.HandleMouse(tea.MouseMsg{X: 3, Y: 500, Action: tea.MouseActionMotion}, 2, rows)
	if _, _, ok := bg.field.Cursor(); ok {
		t.Fatal("expected cursor cleared outside canvas")
	}

	bg.HandleMouse(tea.MouseMsg{X: 3, Y: 7, Action: tea.MouseActionMotion}, 2, 5)
	if _, _, ok := bg.field.Cursor(); ok {
		t.Fatal("expected cursor cleared below the visible rows")
	}

	bg.HandleMouse(tea.MouseMsg{X: 1, Y: 1}, 0, rows)
	bg.PointerLeft()
	if _, _, ok := bg.field.Cursor(); ok {
		t.Fatal("expected cursor cleared on pointer leave")
	}
}

func TestBackgroundResizeKeepsParticles(t *testing.T) {
	bg := testBackground()
	bg.Mount(40)
	bg.Resize(20)
	if got, want := bg.field.Width(), float64(20*particles.CellWidth); got != want {
		t.Fatalf("width = %v, want %v", got, want)
	}
	if bg.field.Len() != 8 {
		t.Fatalf("particles = %d after resize", bg.field.Len())
	}
}
