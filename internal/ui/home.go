package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
)

type feature struct {
	title       string
	description string
	page        Page
}

var features = []feature{
	{
		title:       "Genre Classification",
		description: "Upload your songs and our AI will analyze and classify them by genre with high accuracy.",
		page:        PageGenre,
	},
	{
		title:       "Mood Chat",
		description: "Chat with our AI to determine your mood and get personalized song recommendations.",
		page:        PageChat,
	},
	{
		title:       "Music Generator",
		description: "Generate unique music based on your mood and preferences with our AI-powered tool.",
		page:        PageGenerator,
	},
}

// Menu: header, two lines per feature, blank, help.
var menuLines = 1 + 2*len(features) + 2

const defaultWidth = 80

// HomeModel is the landing screen: a hero over the glyph background and the
// feature menu.
type HomeModel struct {
	bg       *Background
	selected int
	width    int
	height   int
}

// NewHome creates the landing screen with a fresh background.
func NewHome(deps Deps, width, height int) HomeModel {
	opts := deps.Background
	if opts.Logger == nil {
		opts.Logger = deps.logger()
	}
	m := HomeModel{
		bg:     NewBackground(opts),
		width:  width,
		height: height,
	}
	return m
}

// Init mounts the background when the width is known. Otherwise the first
// WindowSizeMsg mounts it.
func (m HomeModel) Init() tea.Cmd {
	title := tea.SetWindowTitle("Feelify")
	if m.width <= 0 {
		return title
	}
	return tea.Batch(m.mount(), title)
}

func (m HomeModel) mount() tea.Cmd {
	cmd := m.bg.Mount(m.width)
	m.bg.SetOverlay(m.heroLines())
	return cmd
}

// Close tears down the background.
func (m HomeModel) Close() {
	m.bg.Unmount()
}

// canvasRows is how many background rows fit above the menu.
func (m HomeModel) canvasRows() int {
	if !m.bg.Mounted() {
		return 0
	}
	rows := m.bg.Rows()
	if m.height > 0 {
		rows = min(rows, m.height-menuLines)
	}
	return max(rows, 0)
}

func (m HomeModel) heroLines() []Overlay {
	rows := m.canvasRows()
	if rows < 5 {
		return []Overlay{{Row: 0, Text: " Feelify "}}
	}
	mid := rows / 2
	return []Overlay{
		{Row: mid - 3, Text: " Feelify "},
		{Row: mid - 1, Text: " Discover Your Sound "},
		{Row: mid, Text: " Analyze, chat, and create music based on your mood and preferences "},
		{Row: mid + 2, Text: " 👆 Move your cursor to interact with the emojis "},
	}
}

func (m HomeModel) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		return m, m.bg.HandleFrame(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.bg.Mounted() {
			if msg.Width <= 0 {
				return m, nil
			}
			return m, m.mount()
		}
		m.bg.Resize(msg.Width)
		m.bg.SetOverlay(m.heroLines())
		return m, nil

	case tea.MouseMsg:
		m.bg.HandleMouse(msg, 0, m.canvasRows())
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if i, ok := m.featureAt(msg.Y); ok {
				m.selected = i
				return m, navigate(features[i].page)
			}
		}
		return m, nil

	case tea.BlurMsg:
		m.bg.PointerLeft()
		return m, nil

	case tea.KeyMsg:
		if isQuit(msg) {
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}
		switch msg.String() {
		case "up", "k":
			m.selected = (m.selected + len(features) - 1) % len(features)
		case "down", "j", "tab":
			m.selected = (m.selected + 1) % len(features)
		case "enter":
			return m, navigate(features[m.selected].page)
		case "1", "2", "3":
			i := int(msg.String()[0] - '1')
			m.selected = i
			return m, navigate(features[i].page)
		}
		return m, nil
	}
	return m, nil
}

// featureAt maps a screen row to a menu entry.
func (m HomeModel) featureAt(y int) (int, bool) {
	first := m.canvasRows() + 1
	i := (y - first) / 2
	if y < first || i >= len(features) {
		return 0, false
	}
	return i, true
}

func (m HomeModel) View() string {
	w := m.width
	if w <= 0 {
		w = defaultWidth
	}

	var b strings.Builder
	if rows := m.canvasRows(); rows > 0 {
		b.WriteString(m.bg.View(rows))
		b.WriteString("\n")
	}
	b.WriteString("  " + headerStyle.Render("Features") + "\n")

	descWidth := max(w-6, 20)
	for i, f := range features {
		title := f.title
		desc := truncate(f.description, descWidth)
		if i == m.selected {
			b.WriteString(selectedStyle.Render(accentStyle.Render(title)) + "\n")
			b.WriteString(selectedStyle.Render(subtitleStyle.Render(desc)) + "\n")
		} else {
			b.WriteString(unselectedStyle.Render(titleStyle.Render(title)) + "\n")
			b.WriteString(unselectedStyle.Render(helpStyle.Render(desc)) + "\n")
		}
	}
	b.WriteString("\n  " + helpStyle.Render(homeHelp()))
	return b.String()
}

// truncate shortens s to width terminal cells, adding an ellipsis.
func truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}
