package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/olivier-w/moodtunes/internal/backend"
	"github.com/olivier-w/moodtunes/internal/media"
	"github.com/olivier-w/moodtunes/internal/util"
)

type genrePhase uint8

const (
	genreBrowse genrePhase = iota
	genreProbing
	genreReady
	genreAnalyzing
	genreResult
)

// Lines used above the browser: title, intro, formats, blank, help.
const genreChromeLines = 7

// GenreModel uploads an audio file and shows its classification.
type GenreModel struct {
	classifier GenreClassifier
	logger     *log.Logger

	browser BrowserModel
	spinner spinner.Model
	springs springField
	phase   genrePhase

	info   media.Info
	result *backend.GenreResult
	errMsg string

	seq    int
	cancel context.CancelFunc

	startPath string
	width     int
	height    int
}

// NewGenre creates the genre classifier screen.
func NewGenre(deps Deps, width, height int) GenreModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	m := GenreModel{
		classifier: deps.Classifier,
		logger:     deps.logger(),
		browser:    NewBrowser("."),
		spinner:    s,
		springs:    newSpringField(springFPS, 6.0, 0.7),
		startPath:  deps.StartPath,
		width:      width,
		height:     height,
	}
	m.browser.SetSize(width, height-genreChromeLines)
	return m
}

func (m GenreModel) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.SetWindowTitle("Genre Classifier · Feelify")}
	if m.startPath != "" {
		path := m.startPath
		cmds = append(cmds, func() tea.Msg { return BrowserSelectedMsg{Path: path} })
	}
	return tea.Batch(cmds...)
}

// Close cancels an in-flight analysis.
func (m GenreModel) Close() {
	if m.cancel != nil {
		m.cancel()
	}
}

func probeCmd(path string) tea.Cmd {
	return func() tea.Msg {
		info, err := media.Probe(path)
		return probedMsg{info: info, err: err}
	}
}

func (m GenreModel) analyzeCmd(ctx context.Context, seq int, path string) tea.Cmd {
	classifier := m.classifier
	return func() tea.Msg {
		res, err := classifier.ClassifyGenre(ctx, path)
		return genreResultMsg{seq: seq, result: res, err: err}
	}
}

func (m GenreModel) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.browser.SetSize(msg.Width, msg.Height-genreChromeLines)
		return m, nil

	case spinner.TickMsg:
		if m.phase != genreAnalyzing && m.phase != genreProbing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case BrowserSelectedMsg:
		m.phase = genreProbing
		m.errMsg = ""
		m.result = nil
		return m, tea.Batch(probeCmd(msg.Path), m.spinner.Tick)

	case BrowserCancelledMsg:
		return m, navigate(PageHome)

	case probedMsg:
		if msg.err != nil {
			m.phase = genreBrowse
			m.errMsg = describeProbeError(msg.err)
			return m, nil
		}
		m.info = msg.info
		m.phase = genreReady
		return m, nil

	case genreResultMsg:
		if msg.seq != m.seq || m.phase != genreAnalyzing {
			return m, nil
		}
		m.cancel = nil
		if msg.err != nil {
			m.logger.Warn("genre classification failed", "file", m.info.Name, "err", msg.err)
			m.phase = genreReady
			m.errMsg = describeRequestError(msg.err)
			return m, nil
		}
		m.phase = genreResult
		m.result = msg.result
		m.springs.reset(m.barTargets())
		return m, springTickCmd(m.seq)

	case springTickMsg:
		if msg.seq != m.seq || m.phase != genreResult {
			return m, nil
		}
		m.springs.step()
		if m.springs.settled() {
			return m, nil
		}
		return m, springTickCmd(m.seq)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.phase == genreBrowse {
		var cmd tea.Cmd
		m.browser, cmd = m.browser.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m GenreModel) handleKey(msg tea.KeyMsg) (Screen, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.phase {
	case genreBrowse:
		var cmd tea.Cmd
		m.browser, cmd = m.browser.Update(msg)
		return m, cmd

	case genreReady:
		switch msg.String() {
		case "enter":
			m.seq++
			ctx, cancel := context.WithCancel(context.Background())
			m.cancel = cancel
			m.phase = genreAnalyzing
			m.errMsg = ""
			return m, tea.Batch(m.analyzeCmd(ctx, m.seq, m.info.Path), m.spinner.Tick)
		case "esc", "c":
			m.phase = genreBrowse
			m.errMsg = ""
		}

	case genreAnalyzing:
		if isBack(msg) {
			if m.cancel != nil {
				m.cancel()
				m.cancel = nil
			}
			m.seq++
			m.phase = genreReady
			m.errMsg = "Analysis cancelled."
		}

	case genreResult:
		switch msg.String() {
		case "c", "esc":
			m.phase = genreBrowse
			m.result = nil
		case "enter":
			m.phase = genreReady
			m.result = nil
			return m.handleKey(msg)
		}
	}
	return m, nil
}

// barTargets lists the primary confidence followed by each subgenre.
func (m GenreModel) barTargets() []float64 {
	if m.result == nil {
		return nil
	}
	t := []float64{m.result.Confidence}
	for _, s := range m.result.Subgenres {
		t = append(t, s.Confidence)
	}
	return t
}

func describeProbeError(err error) string {
	switch {
	case errors.Is(err, media.ErrUnsupportedFormat):
		return fmt.Sprintf("Unsupported file. Supported formats: %s (max 10MB)", media.SupportedExtsList())
	case errors.Is(err, media.ErrTooLarge):
		return "File is larger than the 10MB limit."
	case errors.Is(err, media.ErrEmptyFile):
		return "File is empty."
	default:
		return err.Error()
	}
}

func describeRequestError(err error) string {
	var apiErr *backend.APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, context.DeadlineExceeded):
		return "The server took too long to respond."
	default:
		return "Could not reach the server: " + err.Error()
	}
}

func (m GenreModel) View() string {
	var b strings.Builder
	b.WriteString("\n  " + headerStyle.Render("Genre Classifier") + "\n")
	b.WriteString("  " + subtitleStyle.Render("Upload an audio file and our AI will analyze and classify its genre.") + "\n")
	b.WriteString("  " + helpStyle.Render("Supported formats: MP3, WAV, FLAC, OGG (max 10MB)") + "\n\n")

	if m.errMsg != "" {
		b.WriteString("  " + errorStyle.Render(m.errMsg) + "\n\n")
	}

	switch m.phase {
	case genreBrowse:
		b.WriteString(m.browser.View())
		b.WriteString("\n  " + helpStyle.Render(genreHelp(false)))
		return b.String()

	case genreProbing:
		b.WriteString("  " + m.spinner.View() + " " + statusStyle.Render("Reading file...") + "\n")
		return b.String()
	}

	b.WriteString(m.renderFileInfo())
	b.WriteString("\n")

	switch m.phase {
	case genreReady:
		b.WriteString("  " + accentStyle.Render("enter") + statusStyle.Render(" Analyze Genre") + "\n")
	case genreAnalyzing:
		b.WriteString("  " + m.spinner.View() + " " + statusStyle.Render("Analyzing audio...") + "\n")
	case genreResult:
		b.WriteString(m.renderResult())
	}

	b.WriteString("\n  " + helpStyle.Render(genreHelp(m.phase == genreResult)))
	return b.String()
}

func (m GenreModel) renderFileInfo() string {
	var b strings.Builder
	b.WriteString("  " + titleStyle.Render(m.info.Label()) + "\n")
	details := []string{strings.ToUpper(string(m.info.Format)), util.FormatSize(m.info.Size)}
	if m.info.Duration > 0 {
		details = append(details, util.FormatDuration(m.info.Duration))
	}
	if m.info.SampleRate > 0 {
		details = append(details, fmt.Sprintf("%d Hz", m.info.SampleRate))
	}
	if m.info.Channels > 0 {
		details = append(details, fmt.Sprintf("%d ch", m.info.Channels))
	}
	b.WriteString("  " + timeStyle.Render(strings.Join(details, " · ")) + "\n")
	return b.String()
}

func (m GenreModel) renderResult() string {
	if m.result == nil {
		return ""
	}
	bw := min(max(m.width-30, 10), 40)

	var b strings.Builder
	b.WriteString("  " + statusStyle.Render("We've analyzed your track and identified its genre.") + "\n\n")
	b.WriteString("  " + accentStyle.Render(m.result.Genre))
	if len(m.springs.pos) > 0 && m.result.Confidence > 0 {
		b.WriteString("  " + timeStyle.Render(fmt.Sprintf("%d%% confidence", int(m.result.Confidence*100+0.5))) + "\n")
		b.WriteString("  " + renderConfidenceBar(m.springs.value(0), bw+16) + "\n")
	} else {
		b.WriteString("\n")
	}

	if len(m.result.Subgenres) > 0 {
		b.WriteString("\n  " + headerStyle.Render("Subgenres") + "\n")
		for i, s := range m.result.Subgenres {
			name := truncate(s.Name, 14)
			b.WriteString(fmt.Sprintf("  %s%s %s %s\n",
				statusStyle.Render(name), spaces(14-lipgloss.Width(name)),
				renderConfidenceBar(m.springs.value(i+1), bw),
				timeStyle.Render(renderPercent(s.Confidence))))
		}
	}
	return b.String()
}
