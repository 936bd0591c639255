package ui

import tea "github.com/charmbracelet/bubbletea"

func isQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "ctrl+c":
		return true
	}
	return false
}

func isBack(msg tea.KeyMsg) bool {
	return msg.String() == "esc"
}

func homeHelp() string {
	return "↑/↓ select  enter open  1-3 jump  q quit"
}

func genreHelp(hasResult bool) string {
	s := "enter analyze  / filter"
	if hasResult {
		s += "  c clear"
	}
	return s + "  esc back"
}

func chatHelp(hasSongs, canLookup bool) string {
	s := "enter send"
	if hasSongs {
		s += "  tab songs"
		if canLookup {
			s += "  ctrl+s spotify"
		}
	}
	return s + "  pgup/pgdn scroll  esc back"
}

func generatorHelp(hasTrack bool) string {
	s := "←/→ inputs  pgup/pgdn ±10  enter generate"
	if hasTrack {
		s += "  space play  ,/. seek  +/- volume  w export wav  x discard"
	}
	return s + "  esc back"
}
