package ui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/olivier-w/moodtunes/internal/backend"
	"github.com/olivier-w/moodtunes/internal/spotify"
)

// GenreClassifier classifies an uploaded audio file.
type GenreClassifier interface {
	ClassifyGenre(ctx context.Context, path string) (*backend.GenreResult, error)
}

// MoodChatter detects a mood from free text.
type MoodChatter interface {
	Chat(ctx context.Context, text string) (*backend.ChatResult, error)
}

// MusicGenerator composes a new track.
type MusicGenerator interface {
	GenerateMusic(ctx context.Context, numInputs int) (*backend.Generated, error)
}

// SongLookup resolves a recommendation to a streaming track.
type SongLookup interface {
	Lookup(ctx context.Context, artist, title string) (spotify.Track, error)
}

// Deps are the collaborators shared by every screen.
type Deps struct {
	Classifier GenreClassifier
	Chatter    MoodChatter
	Generator  MusicGenerator
	// Lookup is optional; song lookup is hidden when nil.
	Lookup SongLookup

	OutputDir  string
	Background BackgroundOptions
	Logger     *log.Logger

	// StartPath preselects a file on the genre screen.
	StartPath string
}

func (d Deps) logger() *log.Logger {
	if d.Logger == nil {
		return log.New(io.Discard)
	}
	return d.Logger
}

// Screen is one page of the app. Screens are created fresh on every visit
// and Closed when the user leaves, so nothing carries over between visits.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View() string
	Close()
}

// NewScreen builds the screen for page at the given terminal size.
func NewScreen(page Page, deps Deps, width, height int) Screen {
	switch page {
	case PageGenre:
		return NewGenre(deps, width, height)
	case PageChat:
		return NewChat(deps, width, height)
	case PageGenerator:
		return NewGenerator(deps, width, height)
	default:
		return NewHome(deps, width, height)
	}
}
