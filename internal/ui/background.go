package ui

import (
	"io"
	"math/rand/v2"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/olivier-w/moodtunes/internal/particles"
)

// BackgroundOptions configures the animated glyph background.
type BackgroundOptions struct {
	Count    int
	Glyphs   []string
	Interval time.Duration
	// Rand seeds each mount. Nil draws a fresh seed every time.
	Rand   *rand.Rand
	Logger *log.Logger
}

// Overlay is a line of text stamped over the glyphs after every frame.
type Overlay struct {
	Row  int
	Text string
}

// Background runs a particle field behind a page. Each Mount builds a new
// field; Unmount cancels the frame chain so no further frames are drawn.
type Background struct {
	opts    BackgroundOptions
	field   *particles.Field
	sched   particles.Scheduler
	grid    *particles.Grid
	overlay []Overlay
	cols    int
}

// NewBackground returns an unmounted background.
func NewBackground(opts BackgroundOptions) *Background {
	if opts.Interval <= 0 {
		opts.Interval = time.Second / 30
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Background{opts: opts}
}

// Mount seeds a new field cols cells wide and starts the frame chain.
func (b *Background) Mount(cols int) tea.Cmd {
	b.cols = cols
	b.field = particles.New(particles.Options{
		Width:  float64(cols * particles.CellWidth),
		Height: particles.DefaultHeight,
		Count:  b.opts.Count,
		Glyphs: b.opts.Glyphs,
		Rand:   b.opts.Rand,
	})
	b.grid = particles.NewGrid(cols, particles.RowsFor(b.field.Height()))
	b.paint()

	token := b.sched.Start()
	b.opts.Logger.Debug("background mounted", "cols", cols, "particles", b.field.Len())
	return b.frameCmd(token)
}

// Unmount stops the frame chain and drops the field.
func (b *Background) Unmount() {
	if b.field == nil {
		return
	}
	b.sched.Cancel()
	b.field.ClearCursor()
	b.field = nil
	b.opts.Logger.Debug("background unmounted", "frames", b.sched.Requests())
}

// Mounted reports whether a field is live.
func (b *Background) Mounted() bool {
	return b.field != nil
}

// SetOverlay replaces the text stamped over the glyphs.
func (b *Background) SetOverlay(lines []Overlay) {
	b.overlay = lines
	if b.field != nil {
		b.paint()
	}
}

func (b *Background) frameCmd(token uint64) tea.Cmd {
	field := b.field
	return tea.Tick(b.opts.Interval, func(time.Time) tea.Msg {
		return frameMsg{field: field, token: token}
	})
}

// HandleFrame steps and redraws the field, then requests the next frame.
// Frames from an earlier mount or a cancelled chain are dropped.
func (b *Background) HandleFrame(msg frameMsg) tea.Cmd {
	if b.field == nil || msg.field != b.field || !b.sched.Accept(msg.token) {
		return nil
	}
	b.field.Step()
	b.paint()

	token, ok := b.sched.Request()
	if !ok {
		return nil
	}
	return b.frameCmd(token)
}

func (b *Background) paint() {
	b.field.Draw(b.grid)
	for _, o := range b.overlay {
		b.grid.StampCentered(o.Row, o.Text)
	}
}

// HandleMouse moves the repulsion cursor. originRow is the screen row the
// canvas starts on and visibleRows how many of its rows are on screen;
// pointers outside that area clear the cursor.
func (b *Background) HandleMouse(msg tea.MouseMsg, originRow, visibleRows int) {
	if b.field == nil {
		return
	}
	col, row := msg.X, msg.Y-originRow
	rows := min(b.grid.Rows(), visibleRows)
	if col < 0 || col >= b.grid.Cols() || row < 0 || row >= rows {
		b.field.ClearCursor()
		return
	}
	x, y := particles.CellCenter(col, row)
	b.field.SetCursor(x, y)
}

// PointerLeft clears the cursor, e.g. when the terminal loses focus.
func (b *Background) PointerLeft() {
	if b.field != nil {
		b.field.ClearCursor()
	}
}

// Resize follows a terminal width change. Particle positions are kept; the
// next frame wraps any that now lie outside.
func (b *Background) Resize(cols int) {
	if b.field == nil || cols == b.cols {
		return
	}
	b.cols = cols
	b.field.SetWidth(float64(cols * particles.CellWidth))
	b.grid.Resize(cols, b.grid.Rows())
	b.paint()
}

// View renders up to rows lines of the canvas.
func (b *Background) View(rows int) string {
	if b.field == nil {
		return ""
	}
	return b.grid.View(rows)
}

// Rows is the canvas height in terminal rows.
func (b *Background) Rows() int {
	if b.grid == nil {
		return particles.RowsFor(particles.DefaultHeight)
	}
	return b.grid.Rows()
}
