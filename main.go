// Command moodtunes is a terminal front end for the Feelify mood and music
// service: genre classification, mood chat and music generation over an
// animated glyph background.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/moodtunes/internal/backend"
	"github.com/olivier-w/moodtunes/internal/config"
	"github.com/olivier-w/moodtunes/internal/logging"
	"github.com/olivier-w/moodtunes/internal/media"
	"github.com/olivier-w/moodtunes/internal/particles"
	"github.com/olivier-w/moodtunes/internal/spotify"
	"github.com/olivier-w/moodtunes/internal/ui"
	"github.com/olivier-w/moodtunes/internal/util"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	page, startPath, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := logging.OpenFile(cfg.LogFile, "tui")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	api := backend.NewClient(cfg.APIURL, cfg.Timeout, backend.WithLogger(logger))
	deps := ui.Deps{
		Classifier: api,
		Chatter:    api,
		Generator:  api,
		OutputDir:  util.ExpandHome(cfg.OutputDir),
		Logger:     logger,
		StartPath:  startPath,
		Background: ui.BackgroundOptions{
			Count:    cfg.Particles,
			Glyphs:   particles.GlyphSet(cfg.Glyphs),
			Interval: cfg.FrameInterval(),
			Logger:   logger,
		},
	}

	if cfg.SpotifyEnabled() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		sp, err := spotify.NewClientCredentials(ctx, cfg.SpotifyClientID, cfg.SpotifyClientSecret)
		cancel()
		if err != nil {
			logger.Warn("spotify lookup disabled", "err", err)
		} else {
			deps.Lookup = sp
		}
	}

	logger.Info("starting", "api", api.BaseURL(), "page", page)
	program := tea.NewProgram(newAppModel(page, deps),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	)
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseArgs accepts an optional page name or audio file. A file opens the
// genre classifier with that file selected.
func parseArgs(args []string) (ui.Page, string, error) {
	if len(args) == 0 {
		return ui.PageHome, "", nil
	}
	if len(args) > 1 {
		return ui.PageHome, "", fmt.Errorf("usage: moodtunes [home|genre|chat|generator|FILE]")
	}

	switch strings.ToLower(args[0]) {
	case "home":
		return ui.PageHome, "", nil
	case "genre":
		return ui.PageGenre, "", nil
	case "chat":
		return ui.PageChat, "", nil
	case "generator", "generate":
		return ui.PageGenerator, "", nil
	}

	path := util.ExpandHome(args[0])
	info, err := os.Stat(path)
	if err != nil {
		return ui.PageHome, "", err
	}
	if info.IsDir() {
		return ui.PageHome, "", fmt.Errorf("%s is a directory", path)
	}
	if ext := strings.ToLower(filepath.Ext(path)); !media.IsSupportedExt(ext) {
		return ui.PageHome, "", fmt.Errorf("unsupported format %s (supported: %s)", ext, media.SupportedExtsList())
	}
	return ui.PageGenre, path, nil
}
