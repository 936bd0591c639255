package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/moodtunes/internal/backend"
	"github.com/olivier-w/moodtunes/internal/media"
	"github.com/olivier-w/moodtunes/internal/particles"
	"github.com/olivier-w/moodtunes/internal/player"
	"github.com/olivier-w/moodtunes/internal/spotify"
)

// Page identifies a screen of the app.
type Page uint8

const (
	PageHome Page = iota
	PageGenre
	PageChat
	PageGenerator
)

func (p Page) String() string {
	switch p {
	case PageGenre:
		return "genre"
	case PageChat:
		return "chat"
	case PageGenerator:
		return "generator"
	default:
		return "home"
	}
}

// NavigateMsg asks the app to switch pages.
type NavigateMsg struct {
	Page Page
}

func navigate(p Page) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Page: p} }
}

// frameMsg drives one background animation frame. field ties the message to
// the mount that requested it.
type frameMsg struct {
	field *particles.Field
	token uint64
}

// playTickMsg refreshes the playback position of player.
type playTickMsg struct {
	player *player.Player
}

func playTickCmd(p *player.Player) tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(time.Time) tea.Msg {
		return playTickMsg{player: p}
	})
}

type probedMsg struct {
	info media.Info
	err  error
}

type genreResultMsg struct {
	seq    int
	result *backend.GenreResult
	err    error
}

type springTickMsg struct {
	seq int
}

type chatReplyMsg struct {
	seq    int
	result *backend.ChatResult
	err    error
}

type lookupResultMsg struct {
	song  backend.Recommendation
	track spotify.Track
	err   error
}

// progressTickMsg advances the simulated generation progress.
type progressTickMsg struct {
	seq int
}

type generatedMsg struct {
	seq  int
	gen  *backend.Generated
	path string
	pcm  *player.PCM
	err  error
}

type fileSavedMsg struct {
	destName string
	err      error
}
