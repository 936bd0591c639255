package player

import (
	"bytes"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// countingReader wraps an io.Reader and tracks bytes read.
type countingReader struct {
	reader io.Reader
	pos    int64
	mu     sync.Mutex
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.reader.Read(p)
	cr.mu.Lock()
	cr.pos += int64(n)
	cr.mu.Unlock()
	return n, err
}

func (cr *countingReader) Pos() int64 {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return cr.pos
}

func (cr *countingReader) SetPos(pos int64) {
	cr.mu.Lock()
	cr.pos = pos
	cr.mu.Unlock()
}

// Player plays a decoded clip through the default audio device.
type Player struct {
	pcm       *PCM
	source    *bytes.Reader
	counter   *countingReader
	otoCtx    *oto.Context
	otoPlayer *oto.Player
	volume    float64
	paused    bool
	done      chan struct{}
	mu        sync.Mutex
	closed    bool
}

var (
	globalOtoCtx *oto.Context
	otoOnce      sync.Once
	otoInitErr   error
)

func initOto() (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   SampleRate,
			ChannelCount: Channels,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		globalOtoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
		}
	})
	return globalOtoCtx, otoInitErr
}

// New starts playing pcm immediately.
func New(pcm *PCM) (*Player, error) {
	ctx, err := initOto()
	if err != nil {
		return nil, err
	}

	src := bytes.NewReader(pcm.Data)
	p := &Player{
		pcm:     pcm,
		source:  src,
		counter: &countingReader{reader: src},
		otoCtx:  ctx,
		volume:  0.8,
		done:    make(chan struct{}),
	}

	p.otoPlayer = ctx.NewPlayer(p.counter)
	p.otoPlayer.SetVolume(p.volume)
	p.otoPlayer.Play()

	go p.monitor(p.done)

	return p, nil
}

func (p *Player) monitor(done chan struct{}) {
	total := int64(len(p.pcm.Data))
	for {
		p.mu.Lock()
		if p.closed || p.done != done {
			p.mu.Unlock()
			return
		}
		paused := p.paused
		p.mu.Unlock()

		if !paused && p.counter.Pos() >= total {
			close(done)
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
}

// Done returns a channel that closes when playback finishes.
func (p *Player) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Restart seeks to the beginning and resumes playback.
// This resets the done channel so Done() can be used again.
func (p *Player) Restart() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	p.source.Seek(0, io.SeekStart)
	p.counter.SetPos(0)
	p.resetOutput(false)

	p.done = make(chan struct{})
	go p.monitor(p.done)
}

// resetOutput recreates the oto player to flush its internal buffer.
// Callers hold p.mu.
func (p *Player) resetOutput(paused bool) {
	p.otoPlayer.Pause()
	p.otoPlayer = p.otoCtx.NewPlayer(p.counter)
	p.otoPlayer.SetVolume(p.volume)
	p.paused = paused
	if !paused {
		p.otoPlayer.Play()
	}
}

// TogglePause toggles between play and pause.
func (p *Player) TogglePause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	if p.paused {
		p.otoPlayer.Play()
		p.paused = false
	} else {
		p.otoPlayer.Pause()
		p.paused = true
	}
}

// Paused returns whether playback is paused.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Position returns the current playback position.
func (p *Player) Position() time.Duration {
	return bytesToDuration(p.counter.Pos())
}

// Duration returns the total duration of the clip.
func (p *Player) Duration() time.Duration {
	return p.pcm.Duration()
}

// clampSeekOffset returns the frame-aligned byte offset delta away from pos,
// clamped to [0, total].
func clampSeekOffset(pos int64, delta time.Duration, total int64) int64 {
	next := pos + int64(delta.Seconds()*float64(bytesPerSec))
	if next < 0 {
		next = 0
	}
	if next > total {
		next = total
	}
	return next - next%bytesPerFrame
}

// Seek moves playback by the given delta from the current position.
func (p *Player) Seek(delta time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	next := clampSeekOffset(p.counter.Pos(), delta, int64(len(p.pcm.Data)))
	if _, err := p.source.Seek(next, io.SeekStart); err != nil {
		return
	}
	p.counter.SetPos(next)
	p.resetOutput(p.paused)
}

// Volume returns current volume (0.0 to 1.0).
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume sets volume (clamped to 0.0 - 1.0).
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	p.volume = v
	if p.otoPlayer != nil {
		p.otoPlayer.SetVolume(v)
	}
}

// AdjustVolume adjusts volume by delta.
func (p *Player) AdjustVolume(delta float64) {
	p.mu.Lock()
	v := p.volume + delta
	p.mu.Unlock()
	p.SetVolume(v) // SetVolume handles clamping
}

// Close stops playback. It is safe to call more than once.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	if p.otoPlayer != nil {
		p.otoPlayer.Pause()
	}
}
