package ui

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
)

const springFPS = 60

// springField animates a row of bars toward their targets.
type springField struct {
	spring  harmonica.Spring
	pos     []float64
	vel     []float64
	targets []float64
}

func newSpringField(fps int, frequency, damping float64) springField {
	return springField{spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping)}
}

// reset starts every bar from zero toward targets.
func (s *springField) reset(targets []float64) {
	s.pos = make([]float64, len(targets))
	s.vel = make([]float64, len(targets))
	s.targets = append([]float64(nil), targets...)
}

// step advances all bars one frame.
func (s *springField) step() {
	for i := range s.pos {
		s.pos[i], s.vel[i] = s.spring.Update(s.pos[i], s.vel[i], s.targets[i])
	}
}

// settled reports whether every bar has come to rest on its target.
func (s *springField) settled() bool {
	for i := range s.pos {
		if math.Abs(s.pos[i]-s.targets[i]) > 0.001 || math.Abs(s.vel[i]) > 0.001 {
			return false
		}
	}
	return true
}

// value returns the current position of bar i, clamped to [0,1].
func (s *springField) value(i int) float64 {
	if i < 0 || i >= len(s.pos) {
		return 0
	}
	return clamp01(s.pos[i])
}

func springTickCmd(seq int) tea.Cmd {
	return tea.Tick(time.Second/springFPS, func(time.Time) tea.Msg {
		return springTickMsg{seq: seq}
	})
}
