package ui

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/moodtunes/internal/backend"
	"github.com/olivier-w/moodtunes/internal/spotify"
)

// collect runs cmd and flattens batches into their messages. Only use it on
// commands that do not sleep.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, collect(c)...)
	}
	return out
}

func findMsg[T tea.Msg](t *testing.T, msgs []tea.Msg) T {
	t.Helper()
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v
		}
	}
	var zero T
	t.Fatalf("no %T among %d messages", zero, len(msgs))
	return zero
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "pgup":
		return tea.KeyMsg{Type: tea.KeyPgUp}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

type stubClassifier struct {
	result *backend.GenreResult
	err    error
	// block waits for ctx cancellation before returning.
	block bool
	paths []string
	mu    sync.Mutex
}

func (s *stubClassifier) ClassifyGenre(ctx context.Context, path string) (*backend.GenreResult, error) {
	s.mu.Lock()
	s.paths = append(s.paths, path)
	s.mu.Unlock()
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.result, s.err
}

type stubChatter struct {
	result *backend.ChatResult
	err    error
	texts  []string
}

func (s *stubChatter) Chat(_ context.Context, text string) (*backend.ChatResult, error) {
	s.texts = append(s.texts, text)
	return s.result, s.err
}

type stubGenerator struct {
	gen *backend.Generated
	err error
	n   int
}

func (s *stubGenerator) GenerateMusic(_ context.Context, n int) (*backend.Generated, error) {
	s.n = n
	return s.gen, s.err
}

type stubLookup struct {
	track spotify.Track
	err   error
}

func (s stubLookup) Lookup(context.Context, string, string) (spotify.Track, error) {
	return s.track, s.err
}

func TestNewScreenBuildsEachPage(t *testing.T) {
	tests := []struct {
		page Page
		want string
	}{
		{PageHome, "ui.HomeModel"},
		{PageGenre, "ui.GenreModel"},
		{PageChat, "ui.ChatModel"},
		{PageGenerator, "ui.GeneratorModel"},
	}
	for _, tt := range tests {
		s := NewScreen(tt.page, Deps{}, 80, 24)
		var got string
		switch s.(type) {
		case HomeModel:
			got = "ui.HomeModel"
		case GenreModel:
			got = "ui.GenreModel"
		case ChatModel:
			got = "ui.ChatModel"
		case GeneratorModel:
			got = "ui.GeneratorModel"
		}
		if got != tt.want {
			t.Errorf("NewScreen(%v) = %T, want %s", tt.page, s, tt.want)
		}
		s.Close()
	}
}

func TestPageString(t *testing.T) {
	for p, want := range map[Page]string{
		PageHome: "home", PageGenre: "genre", PageChat: "chat", PageGenerator: "generator",
	} {
		if got := p.String(); got != want {
			t.Errorf("Page(%d).String() = %q, want %q", p, got, want)
		}
	}
}
