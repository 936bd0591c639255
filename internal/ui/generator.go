package ui

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/olivier-w/moodtunes/internal/backend"
	"github.com/olivier-w/moodtunes/internal/media"
	"github.com/olivier-w/moodtunes/internal/player"
	"github.com/olivier-w/moodtunes/internal/util"
)

const (
	minInputs     = 1
	maxInputs     = 100
	defaultInputs = 3

	progressStep     = 0.05
	progressCeiling  = 0.95
	progressInterval = 200 * time.Millisecond

	maxSaveAttempts = 1000

	seekStep   = 5 * time.Second
	volumeStep = 0.05
)

type genPhase uint8

const (
	genIdle genPhase = iota
	genRunning
	genDone
)

// GeneratorModel asks the backend for a new track, saves it, and previews it.
type GeneratorModel struct {
	generator MusicGenerator
	outputDir string
	logger    *log.Logger

	numInputs int
	phase     genPhase
	progress  float64
	bar       progress.Model
	spinner   spinner.Model
	seq       int
	cancel    context.CancelFunc

	gen    *backend.Generated
	path   string
	pcm    *player.PCM
	player *player.Player
	ended  bool

	status string
	errMsg string
	width  int
}

// NewGenerator creates the music generator screen.
func NewGenerator(deps Deps, width, height int) GeneratorModel {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = barWidth(width)

	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = accentStyle

	dir := deps.OutputDir
	if dir == "" {
		dir = "."
	}
	return GeneratorModel{
		generator: deps.Generator,
		outputDir: dir,
		logger:    deps.logger(),
		numInputs: defaultInputs,
		bar:       bar,
		spinner:   s,
		width:     width,
	}
}

func barWidth(w int) int {
	if w <= 0 {
		w = defaultWidth
	}
	return min(max(w-12, 10), 60)
}

func (m GeneratorModel) Init() tea.Cmd {
	return tea.SetWindowTitle("Music Generator · Feelify")
}

// Close stops playback and abandons a pending generation.
func (m GeneratorModel) Close() {
	if m.cancel != nil {
		m.cancel()
	}
	if m.player != nil {
		m.player.Close()
	}
}

func progressTickCmd(seq int) tea.Cmd {
	return tea.Tick(progressInterval, func(time.Time) tea.Msg {
		return progressTickMsg{seq: seq}
	})
}

// generateCmd fetches a track, writes it to dir and decodes a preview.
// A payload that cannot be decoded is still saved; pcm is nil then.
func generateCmd(ctx context.Context, g MusicGenerator, dir string, seq, n int, logger *log.Logger) tea.Cmd {
	return func() tea.Msg {
		gen, err := g.GenerateMusic(ctx, n)
		if err != nil {
			return generatedMsg{seq: seq, err: err}
		}
		path, err := saveTrack(dir, gen)
		if err != nil {
			return generatedMsg{seq: seq, err: err}
		}
		pcm, err := player.Decode(gen.Kind, gen.Data)
		if err != nil {
			logger.Warn("cannot decode generated track", "kind", gen.Kind, "err", err)
			pcm = nil
		}
		return generatedMsg{seq: seq, gen: gen, path: path, pcm: pcm}
	}
}

// saveTrack writes gen into dir without replacing an existing file. When
// the name is taken it tries name-2, name-3 and so on.
func saveTrack(dir string, gen *backend.Generated) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	name := gen.Filename()
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; i <= maxSaveAttempts; i++ {
		path := filepath.Join(dir, name)
		if i > 1 {
			path = filepath.Join(dir, fmt.Sprintf("%s-%d%s", stem, i, ext))
		}
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("save track: %w", err)
		}
		_, err = f.Write(gen.Data)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
			return "", fmt.Errorf("save track: %w", err)
		}
		return path, nil
	}
	return "", fmt.Errorf("save track: no free name for %q in %s", name, dir)
}

func exportWAVCmd(dest string, pcm *player.PCM) tea.Cmd {
	return func() tea.Msg {
		err := player.SaveWAV(dest, pcm)
		return fileSavedMsg{destName: filepath.Base(dest), err: err}
	}
}

func (m GeneratorModel) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = barWidth(msg.Width)
		return m, nil

	case spinner.TickMsg:
		if m.phase != genRunning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progressTickMsg:
		if msg.seq != m.seq || m.phase != genRunning {
			return m, nil
		}
		m.progress = min(m.progress+progressStep, progressCeiling)
		return m, progressTickCmd(m.seq)

	case generatedMsg:
		if msg.seq != m.seq || m.phase != genRunning {
			return m, nil
		}
		m.cancel = nil
		if msg.err != nil {
			m.logger.Error("music generation failed", "inputs", m.numInputs, "err", msg.err)
			m.phase = genIdle
			m.progress = 0
			m.errMsg = "Failed to generate music. " + describeRequestError(msg.err)
			return m, nil
		}
		m.phase = genDone
		m.progress = 1
		m.gen = msg.gen
		m.path = msg.path
		m.pcm = msg.pcm
		m.ended = false
		m.status = "Saved " + util.ShortenPath(msg.path, 60)
		if m.pcm == nil {
			m.status += " (preview unavailable for this format)"
		}
		m.logger.Info("track generated", "id", msg.gen.ID, "kind", msg.gen.Kind, "path", msg.path)
		return m, nil

	case playTickMsg:
		if msg.player != m.player || m.player == nil {
			return m, nil
		}
		select {
		case <-m.player.Done():
			m.ended = true
			return m, nil
		default:
		}
		return m, playTickCmd(m.player)

	case fileSavedMsg:
		if msg.err != nil {
			m.errMsg = "Export failed: " + msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.status = "Exported " + msg.destName
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m GeneratorModel) handleKey(msg tea.KeyMsg) (Screen, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		return m, navigate(PageHome)
	case "left", "h":
		m.setInputs(m.numInputs - 1)
	case "right", "l":
		m.setInputs(m.numInputs + 1)
	case "pgdown":
		m.setInputs(m.numInputs - 10)
	case "pgup":
		m.setInputs(m.numInputs + 10)
	case "enter":
		return m.start()
	case " ":
		return m.togglePlay()
	case ",":
		if m.player != nil {
			m.player.Seek(-seekStep)
		}
	case ".":
		if m.player != nil {
			m.player.Seek(seekStep)
		}
	case "+", "=":
		if m.player != nil {
			m.player.AdjustVolume(volumeStep)
		}
	case "-":
		if m.player != nil {
			m.player.AdjustVolume(-volumeStep)
		}
	case "w":
		return m.export()
	case "x":
		m.discard()
	}
	return m, nil
}

func (m *GeneratorModel) setInputs(n int) {
	if m.phase == genRunning {
		return
	}
	m.numInputs = min(max(n, minInputs), maxInputs)
}

func (m GeneratorModel) start() (Screen, tea.Cmd) {
	if m.phase == genRunning {
		return m, nil
	}
	m.discard()
	m.phase = genRunning
	m.progress = 0
	m.errMsg = ""
	m.status = ""
	m.seq++
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	return m, tea.Batch(
		generateCmd(ctx, m.generator, m.outputDir, m.seq, m.numInputs, m.logger),
		progressTickCmd(m.seq),
		m.spinner.Tick,
	)
}

// discard drops the current track and its player. The saved file stays.
func (m *GeneratorModel) discard() {
	if m.player != nil {
		m.player.Close()
		m.player = nil
	}
	m.gen = nil
	m.pcm = nil
	m.path = ""
	m.ended = false
	if m.phase == genDone {
		m.phase = genIdle
		m.progress = 0
		m.status = ""
	}
}

func (m GeneratorModel) togglePlay() (Screen, tea.Cmd) {
	if m.phase != genDone || m.pcm == nil {
		return m, nil
	}
	if m.player == nil {
		p, err := player.New(m.pcm)
		if err != nil {
			m.errMsg = "Audio output unavailable: " + err.Error()
			return m, nil
		}
		m.player = p
		m.ended = false
		return m, playTickCmd(p)
	}
	if m.ended {
		m.player.Restart()
		m.ended = false
		return m, playTickCmd(m.player)
	}
	m.player.TogglePause()
	return m, nil
}

func (m GeneratorModel) export() (Screen, tea.Cmd) {
	if m.phase != genDone || m.gen == nil {
		return m, nil
	}
	if m.gen.Kind == media.KindWAV {
		m.status = "Track is already a WAV file: " + filepath.Base(m.path)
		return m, nil
	}
	if m.pcm == nil {
		m.errMsg = "Nothing to export: the track could not be decoded."
		return m, nil
	}
	dest := strings.TrimSuffix(m.path, filepath.Ext(m.path)) + ".wav"
	m.status = "Exporting..."
	return m, exportWAVCmd(dest, m.pcm)
}

func (m GeneratorModel) View() string {
	var b strings.Builder
	b.WriteString("\n  " + headerStyle.Render("Music Generator") + "\n")
	b.WriteString("  " + subtitleStyle.Render("Choose how many MIDI files to blend") + "\n\n")

	w := barWidth(m.width)
	b.WriteString("  " + titleStyle.Render("Number of Songs") + "  " + accentStyle.Render(fmt.Sprintf("%d", m.numInputs)) + "\n")
	b.WriteString("  " + timeStyle.Render(fmt.Sprintf("%d ", minInputs)) +
		renderSlider(m.numInputs, w) +
		timeStyle.Render(fmt.Sprintf(" %d", maxInputs)) + "\n\n")

	switch m.phase {
	case genRunning:
		b.WriteString("  " + m.spinner.View() + " " + statusStyle.Render("Generating...") + " " +
			timeStyle.Render(renderPercent(m.progress)) + "\n")
		b.WriteString("  " + m.bar.ViewAs(m.progress) + "\n")
	case genIdle:
		b.WriteString("  " + helpStyle.Render("Generate a track using the slider to preview it here.") + "\n")
	case genDone:
		b.WriteString(m.renderTrack(w))
	}

	if m.errMsg != "" {
		b.WriteString("\n  " + errorStyle.Render(m.errMsg) + "\n")
	}
	if m.status != "" {
		b.WriteString("\n  " + statusStyle.Render(m.status) + "\n")
	}
	b.WriteString("\n  " + helpStyle.Render(generatorHelp(m.phase == genDone)))
	return b.String()
}

func renderSlider(n, width int) string {
	pos := 0
	if width > 1 {
		pos = (n - minInputs) * (width - 1) / (maxInputs - minInputs)
	}
	return strings.Repeat("━", pos) + accentStyle.Render("●") + strings.Repeat("─", max(width-pos-1, 0))
}

func (m GeneratorModel) renderTrack(width int) string {
	var b strings.Builder
	b.WriteString("  " + titleStyle.Render("Generated Music") + "\n")
	b.WriteString("  " + subtitleStyle.Render("Preview and download your creation") + "\n\n")
	b.WriteString("  " + statusStyle.Render(filepath.Base(m.path)) + "  " +
		timeStyle.Render(fmt.Sprintf("%s · %s", strings.ToUpper(m.gen.Kind.String()), util.FormatSize(int64(len(m.gen.Data))))) + "\n")

	if m.pcm == nil {
		return b.String()
	}

	var elapsed time.Duration
	total := m.pcm.Duration()
	state := "▶ space to play"
	vol := ""
	if m.player != nil {
		elapsed = m.player.Position()
		vol = "  " + timeStyle.Render(renderVolumePercent(m.player.Volume()))
		switch {
		case m.ended:
			state = "■ finished"
			elapsed = total
		case m.player.Paused():
			state = "⏸ paused"
		default:
			state = "▶ playing"
		}
	}
	b.WriteString("  " + accentStyle.Render(state) + vol + "\n")
	b.WriteString("  " + timeStyle.Render(util.FormatDuration(elapsed)) + " " +
		renderProgressBar(elapsed.Seconds(), total.Seconds(), width) + " " +
		timeStyle.Render(util.FormatDuration(total)) + "\n")
	return b.String()
}
