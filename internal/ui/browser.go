package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/moodtunes/internal/media"
	"github.com/olivier-w/moodtunes/internal/util"
)

// BrowserSelectedMsg reports the file picked in the browser.
type BrowserSelectedMsg struct {
	Path string
}

// BrowserCancelledMsg reports that the user backed out of the browser.
type BrowserCancelledMsg struct{}

type fileItem struct {
	name string
	ext  string
	size int64
}

func (i fileItem) Title() string { return i.name + i.ext }
func (i fileItem) Description() string {
	return strings.ToUpper(strings.TrimPrefix(i.ext, ".")) + " · " + util.FormatSize(i.size)
}
func (i fileItem) FilterValue() string { return i.name }

type dirItem struct {
	name string
}

func (i dirItem) Title() string       { return i.name + string(filepath.Separator) }
func (i dirItem) Description() string { return "folder" }
func (i dirItem) FilterValue() string { return i.name }

type pathItem struct{}

func (i pathItem) Title() string       { return "Enter a path..." }
func (i pathItem) Description() string { return "type the location of an audio file" }
func (i pathItem) FilterValue() string { return "path" }

// BrowserModel picks an audio file for upload.
type BrowserModel struct {
	dir      string
	list     list.Model
	input    textinput.Model
	pathMode bool
	err      error
}

// NewBrowser lists supported audio files and folders in dir.
func NewBrowser(dir string) BrowserModel {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#9B2C8F", Dark: "#FF78C8"})
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#9B2C8F", Dark: "#FF78C8"})

	l := list.New(nil, delegate, 80, 20)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.Styles.Title = headerStyle

	ti := textinput.New()
	ti.Placeholder = "~/Music/song.mp3"
	ti.CharLimit = 4096
	ti.Width = 60

	m := BrowserModel{list: l, input: ti}
	m.load(dir)
	return m
}

// load replaces the list with the contents of dir.
func (m *BrowserModel) load(dir string) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		m.err = fmt.Errorf("cannot read directory: %w", err)
		return
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		m.err = fmt.Errorf("cannot read directory: %w", err)
		return
	}
	m.err = nil
	m.dir = abs

	items := []list.Item{pathItem{}}
	if parent := filepath.Dir(abs); parent != abs {
		items = append(items, dirItem{name: ".."})
	}
	var dirs, files []list.Item
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if e.IsDir() {
			dirs = append(dirs, dirItem{name: e.Name()})
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !media.IsSupportedExt(ext) {
			continue
		}
		var size int64
		if info, err := e.Info(); err == nil {
			size = info.Size()
		}
		files = append(files, fileItem{
			name: strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())),
			ext:  filepath.Ext(e.Name()),
			size: size,
		})
	}
	byTitle := func(s []list.Item) {
		sort.Slice(s, func(i, j int) bool {
			return strings.ToLower(s[i].FilterValue()) < strings.ToLower(s[j].FilterValue())
		})
	}
	byTitle(dirs)
	byTitle(files)
	items = append(items, dirs...)
	items = append(items, files...)

	m.list.SetItems(items)
	m.list.ResetSelected()
	m.list.ResetFilter()
	m.list.Title = util.ShortenPath(abs, 48)
}

// HasError returns true if the directory could not be read.
func (m BrowserModel) HasError() bool {
	return m.err != nil
}

// Error returns the read error, if any.
func (m BrowserModel) Error() error {
	return m.err
}

// Dir returns the directory being listed.
func (m BrowserModel) Dir() string {
	return m.dir
}

// Filtering reports whether the list filter has the keyboard.
func (m BrowserModel) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// SetSize fits the list into width×height cells.
func (m *BrowserModel) SetSize(width, height int) {
	m.list.SetWidth(width)
	m.list.SetHeight(max(height, 5))
	m.input.Width = max(width-8, 20)
}

func (m BrowserModel) Update(msg tea.Msg) (BrowserModel, tea.Cmd) {
	if m.pathMode {
		return m.updatePathInput(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok && !m.Filtering() {
		switch msg.String() {
		case "enter":
			switch item := m.list.SelectedItem().(type) {
			case pathItem:
				m.pathMode = true
				m.input.Focus()
				return m, textinput.Blink
			case dirItem:
				m.load(filepath.Join(m.dir, item.name))
				return m, nil
			case fileItem:
				path := filepath.Join(m.dir, item.name+item.ext)
				return m, func() tea.Msg { return BrowserSelectedMsg{Path: path} }
			}
		case "backspace":
			m.load(filepath.Dir(m.dir))
			return m, nil
		case "esc":
			if m.list.FilterState() == list.FilterApplied {
				m.list.ResetFilter()
				return m, nil
			}
			return m, func() tea.Msg { return BrowserCancelledMsg{} }
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m BrowserModel) updatePathInput(msg tea.Msg) (BrowserModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			path := util.ExpandHome(strings.TrimSpace(m.input.Value()))
			if path == "" {
				return m, nil
			}
			if !filepath.IsAbs(path) {
				path = filepath.Join(m.dir, path)
			}
			m.pathMode = false
			m.input.Reset()
			m.input.Blur()
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				m.load(path)
				return m, nil
			}
			return m, func() tea.Msg { return BrowserSelectedMsg{Path: path} }
		case "esc":
			m.pathMode = false
			m.input.Reset()
			m.input.Blur()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m BrowserModel) View() string {
	if m.err != nil {
		return "  " + errorStyle.Render(m.err.Error()) + "\n"
	}
	if m.pathMode {
		s := "  " + statusStyle.Render("Enter path:") + "\n"
		s += "  " + m.input.View() + "\n"
		s += "\n"
		s += "  " + helpStyle.Render("enter confirm  esc back") + "\n"
		return s
	}
	return m.list.View()
}
