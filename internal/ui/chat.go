package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/olivier-w/moodtunes/internal/backend"
	"github.com/olivier-w/moodtunes/internal/spotify"
)

const (
	chatGreeting   = "Hi there! I can help determine your mood and suggest songs. How are you feeling today?"
	chatFailReply  = "Sorry, there was an error connecting to the AI."
	chatErrorMood  = "Error"
	maxSongsListed = 5
)

type chatSender uint8

const (
	senderBot chatSender = iota
	senderUser
)

type chatMessage struct {
	from chatSender
	text string
}

type chatFocus uint8

const (
	focusInput chatFocus = iota
	focusSongs
)

// ChatModel is the mood chat: a transcript, an input line, and the songs
// recommended for the last detected mood.
type ChatModel struct {
	chatter MoodChatter
	lookup  SongLookup
	logger  *log.Logger

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	messages []chatMessage
	mood     string
	songs    []backend.Recommendation
	tracks   map[string]spotify.Track
	status   string

	focus    chatFocus
	selected int
	waiting  bool
	seq      int
	cancel   context.CancelFunc

	width  int
	height int
}

// NewChat creates the chat screen with the bot's greeting.
func NewChat(deps Deps, width, height int) ChatModel {
	ti := textinput.New()
	ti.Placeholder = "How are you feeling today?"
	ti.CharLimit = 1000
	ti.Prompt = "› "
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Ellipsis
	s.Style = botBubbleStyle

	m := ChatModel{
		chatter:  deps.Chatter,
		lookup:   deps.Lookup,
		logger:   deps.logger(),
		input:    ti,
		viewport: viewport.New(max(width, 20), 10),
		spinner:  s,
		messages: []chatMessage{{from: senderBot, text: chatGreeting}},
		tracks:   make(map[string]spotify.Track),
		width:    width,
		height:   height,
	}
	m.layout()
	return m
}

func (m ChatModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.SetWindowTitle("Mood Chat · Feelify"))
}

// Close cancels a pending reply.
func (m ChatModel) Close() {
	if m.cancel != nil {
		m.cancel()
	}
}

func (m ChatModel) sendCmd(ctx context.Context, seq int, text string) tea.Cmd {
	chatter := m.chatter
	return func() tea.Msg {
		res, err := chatter.Chat(ctx, text)
		return chatReplyMsg{seq: seq, result: res, err: err}
	}
}

func (m ChatModel) lookupCmd(song backend.Recommendation) tea.Cmd {
	lookup := m.lookup
	return func() tea.Msg {
		track, err := lookup.Lookup(context.Background(), song.Artist, song.Title)
		return lookupResultMsg{song: song, track: track, err: err}
	}
}

func (m ChatModel) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		return m, cmd

	case chatReplyMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.waiting = false
		m.cancel = nil
		if msg.err != nil {
			m.logger.Warn("chat request failed", "err", msg.err)
			m.messages = append(m.messages, chatMessage{from: senderBot, text: chatFailReply})
			m.mood = chatErrorMood
		} else {
			m.mood = msg.result.Mood
			m.songs = msg.result.Recommendations
			m.selected = 0
			m.messages = append(m.messages, chatMessage{from: senderBot, text: moodReply(msg.result.Mood)})
		}
		m.layout()
		return m, nil

	case lookupResultMsg:
		if msg.err != nil {
			m.logger.Debug("song lookup failed", "song", msg.song.String(), "err", msg.err)
			m.status = fmt.Sprintf("%s: %s", msg.song.Title, msg.err)
			return m, nil
		}
		m.tracks[msg.song.String()] = msg.track
		m.status = ""
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m ChatModel) handleKey(msg tea.KeyMsg) (Screen, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.focus == focusSongs {
			m.setFocus(focusInput)
			return m, nil
		}
		return m, navigate(PageHome)
	case "tab":
		if len(m.songs) == 0 {
			return m, nil
		}
		if m.focus == focusInput {
			m.setFocus(focusSongs)
		} else {
			m.setFocus(focusInput)
		}
		return m, nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case "ctrl+s":
		return m.lookupSelected()
	}

	if m.focus == focusSongs {
		switch msg.String() {
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
		case "down", "j":
			if m.selected < min(len(m.songs), maxSongsListed)-1 {
				m.selected++
			}
		case "enter":
			return m.lookupSelected()
		}
		return m, nil
	}

	if msg.String() == "enter" {
		return m.send()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *ChatModel) setFocus(f chatFocus) {
	m.focus = f
	if f == focusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m ChatModel) send() (Screen, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.waiting {
		return m, nil
	}
	m.input.Reset()
	m.messages = append(m.messages, chatMessage{from: senderUser, text: text})
	m.waiting = true
	m.seq++
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.layout()
	return m, tea.Batch(m.sendCmd(ctx, m.seq, text), m.spinner.Tick)
}

func (m ChatModel) lookupSelected() (Screen, tea.Cmd) {
	if m.lookup == nil || len(m.songs) == 0 {
		return m, nil
	}
	song := m.songs[m.selected]
	if _, ok := m.tracks[song.String()]; ok {
		return m, nil
	}
	m.status = "Looking up " + song.Title + "..."
	return m, m.lookupCmd(song)
}

func moodReply(mood string) string {
	return fmt.Sprintf("Based on what you've shared, I sense you're feeling %s. "+
		"Here are some songs that might resonate with your current mood.", strings.ToLower(mood))
}

// Lines outside the viewport besides the song list: header (3), mood (2),
// input (2), help (2).
const chatChromeLines = 9

func (m ChatModel) songLines() int {
	n := min(len(m.songs), maxSongsListed)
	if n == 0 {
		return 0
	}
	return n + 2
}

// layout fits the viewport between the header and the song list and
// re-renders the transcript.
func (m *ChatModel) layout() {
	w := m.width
	if w <= 0 {
		w = defaultWidth
	}
	m.viewport.Width = w
	if m.height > 0 {
		m.viewport.Height = max(m.height-chatChromeLines-m.songLines(), 3)
	}
	m.input.Width = max(w-6, 10)
	m.refresh()
}

func (m *ChatModel) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m ChatModel) renderTranscript() string {
	wrap := max(m.viewport.Width*3/4, 20)
	userBox := userBubbleStyle.Width(wrap).Align(lipgloss.Right)
	botBox := botBubbleStyle.Width(wrap)

	var b strings.Builder
	for i, msg := range m.messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if msg.from == senderUser {
			pad := max(m.viewport.Width-wrap-2, 0)
			b.WriteString(indentBlock(userBox.Render(msg.text), spaces(pad)))
		} else {
			b.WriteString(indentBlock(botBox.Render(msg.text), "  "))
		}
	}
	if m.waiting {
		b.WriteString("\n\n  " + m.spinner.View())
	}
	return b.String()
}

func (m ChatModel) View() string {
	var b strings.Builder
	b.WriteString("\n  " + headerStyle.Render("Mood Chat") + "\n")
	b.WriteString("  " + subtitleStyle.Render("Tell us how you feel and get songs to match.") + "\n")
	b.WriteString(m.viewport.View() + "\n")

	b.WriteString("\n  " + timeStyle.Render("Detected Mood: "))
	switch m.mood {
	case "":
		b.WriteString(helpStyle.Render("none yet"))
	case chatErrorMood:
		b.WriteString(errorStyle.Render(m.mood))
	default:
		b.WriteString(accentStyle.Render(m.mood))
	}
	b.WriteString("\n")

	if n := min(len(m.songs), maxSongsListed); n > 0 {
		b.WriteString("\n  " + headerStyle.Render("Recommended Songs") + "\n")
		for i, song := range m.songs[:n] {
			line := song.Title + " " + timeStyle.Render("by "+song.Artist)
			if t, ok := m.tracks[song.String()]; ok && t.URL != "" {
				line += "  " + helpStyle.Render(t.URL)
			}
			if m.focus == focusSongs && i == m.selected {
				b.WriteString(selectedStyle.Render(line) + "\n")
			} else {
				b.WriteString(unselectedStyle.Render(line) + "\n")
			}
		}
	}

	b.WriteString("\n  " + m.input.View() + "\n")
	if m.status != "" {
		b.WriteString("  " + statusStyle.Render(m.status) + "\n")
	}
	b.WriteString("  " + helpStyle.Render(chatHelp(len(m.songs) > 0, m.lookup != nil)))
	return b.String()
}
