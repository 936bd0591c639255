package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/moodtunes/internal/ui"
)

// appModel routes messages to the active page and swaps pages on
// ui.NavigateMsg. The outgoing page is closed before the next one starts.
type appModel struct {
	page   ui.Page
	screen ui.Screen
	deps   ui.Deps
	width  int
	height int
}

func newAppModel(page ui.Page, deps ui.Deps) appModel {
	return appModel{
		page:   page,
		screen: ui.NewScreen(page, deps, 0, 0),
		deps:   deps,
	}
}

func (m appModel) Init() tea.Cmd {
	return m.screen.Init()
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.screen.Close()
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}

	case ui.NavigateMsg:
		return m.switchTo(msg.Page)
	}

	var cmd tea.Cmd
	m.screen, cmd = m.screen.Update(msg)
	return m, cmd
}

func (m appModel) switchTo(page ui.Page) (tea.Model, tea.Cmd) {
	m.screen.Close()

	// The start path only applies to the first visit.
	m.deps.StartPath = ""
	m.page = page
	m.screen = ui.NewScreen(page, m.deps, m.width, m.height)

	cmds := []tea.Cmd{m.screen.Init()}
	if m.width > 0 || m.height > 0 {
		w, h := m.width, m.height
		cmds = append(cmds, func() tea.Msg {
			return tea.WindowSizeMsg{Width: w, Height: h}
		})
	}
	return m, tea.Batch(cmds...)
}

func (m appModel) View() string {
	return m.screen.View()
}
