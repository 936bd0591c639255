package ui

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/moodtunes/internal/backend"
	"github.com/olivier-w/moodtunes/internal/media"
)

var testInfo = media.Info{
	Path:   "/music/track.mp3",
	Name:   "track.mp3",
	Format: media.FormatMP3,
	Size:   2048,
}

func readyGenre(t *testing.T, c *stubClassifier) GenreModel {
	t.Helper()
	m := NewGenre(Deps{Classifier: c}, 80, 30)
	s, _ := m.Update(probedMsg{info: testInfo})
	g := s.(GenreModel)
	if g.phase != genreReady {
		t.Fatalf("phase = %v, want ready", g.phase)
	}
	return g
}

func analyze(t *testing.T, m GenreModel) (GenreModel, genreResultMsg) {
	t.Helper()
	s, cmd := m.Update(key("enter"))
	g := s.(GenreModel)
	if g.phase != genreAnalyzing {
		t.Fatalf("phase = %v, want analyzing", g.phase)
	}
	return g, findMsg[genreResultMsg](t, collect(cmd))
}

func TestGenreAnalyzeShowsResult(t *testing.T) {
	c := &stubClassifier{result: &backend.GenreResult{
		Genre:      "Electronic",
		Confidence: 0.89,
		Subgenres:  []backend.Subgenre{{Name: "House", Confidence: 0.65}, {Name: "Techno", Confidence: 0.25}},
	}}
	m, res := analyze(t, readyGenre(t, c))
	if len(c.paths) != 1 || c.paths[0] != testInfo.Path {
		t.Fatalf("classified %v, want %s", c.paths, testInfo.Path)
	}

	s, cmd := m.Update(res)
	m = s.(GenreModel)
	if m.phase != genreResult {
		t.Fatalf("phase = %v, want result", m.phase)
	}
	if cmd == nil {
		t.Fatal("expected spring animation to start")
	}
	if got := m.barTargets(); len(got) != 3 || got[0] != 0.89 || got[2] != 0.25 {
		t.Fatalf("barTargets = %v", got)
	}

	for i := 0; i < 10*springFPS; i++ {
		s, cmd = m.Update(springTickMsg{seq: m.seq})
		m = s.(GenreModel)
		if cmd == nil {
			break
		}
	}
	if cmd != nil {
		t.Fatal("expected bars to settle")
	}
	if v := m.springs.value(0); math.Abs(v-0.89) > 0.01 {
		t.Fatalf("primary bar = %v, want ~0.89", v)
	}

	view := m.View()
	for _, want := range []string{"Electronic", "89% confidence", "House", "Techno"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestGenreResultWithoutConfidence(t *testing.T) {
	c := &stubClassifier{result: &backend.GenreResult{Genre: "Jazz"}}
	m, res := analyze(t, readyGenre(t, c))
	s, _ := m.Update(res)
	view := s.View()
	if !strings.Contains(view, "Jazz") {
		t.Fatal("expected genre in view")
	}
	if strings.Contains(view, "confidence") {
		t.Fatal("expected no confidence line without a score")
	}
}

func TestGenreAPIErrorShownInline(t *testing.T) {
	c := &stubClassifier{err: &backend.APIError{StatusCode: 400, Message: "No file uploaded."}}
	m, res := analyze(t, readyGenre(t, c))

	s, _ := m.Update(res)
	m = s.(GenreModel)
	if m.phase != genreReady {
		t.Fatalf("phase = %v, want ready", m.phase)
	}
	if m.errMsg != "No file uploaded." {
		t.Fatalf("errMsg = %q", m.errMsg)
	}
}

func TestGenreIgnoresStaleResult(t *testing.T) {
	c := &stubClassifier{result: &backend.GenreResult{Genre: "Rock"}}
	m, _ := analyze(t, readyGenre(t, c))

	s, cmd := m.Update(genreResultMsg{seq: m.seq - 1, result: &backend.GenreResult{Genre: "Pop"}})
	m = s.(GenreModel)
	if cmd != nil || m.phase != genreAnalyzing || m.result != nil {
		t.Fatal("expected stale result to be ignored")
	}
}

func TestGenreEscCancelsAnalysis(t *testing.T) {
	c := &stubClassifier{block: true}
	m := readyGenre(t, c)

	s, cmd := m.Update(key("enter"))
	m = s.(GenreModel)
	done := make(chan []tea.Msg, 1)
	go func() { done <- collect(cmd) }()

	s, _ = m.Update(key("esc"))
	m = s.(GenreModel)
	if m.phase != genreReady {
		t.Fatalf("phase = %v, want ready", m.phase)
	}

	res := findMsg[genreResultMsg](t, <-done)
	if res.err == nil {
		t.Fatal("expected cancelled request to fail")
	}
	s, _ = m.Update(res)
	if got := s.(GenreModel).errMsg; got != "Analysis cancelled." {
		t.Fatalf("errMsg = %q, want the cancel notice to stay", got)
	}
}

func TestGenreProbeErrorReturnsToBrowser(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "silent.mp3")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewGenre(Deps{}, 80, 30)
	s, cmd := m.Update(BrowserSelectedMsg{Path: path})
	if s.(GenreModel).phase != genreProbing {
		t.Fatal("expected probing phase")
	}
	probed := findMsg[probedMsg](t, collect(cmd))

	s, _ = s.Update(probed)
	g := s.(GenreModel)
	if g.phase != genreBrowse {
		t.Fatalf("phase = %v, want browse", g.phase)
	}
	if g.errMsg != "File is empty." {
		t.Fatalf("errMsg = %q", g.errMsg)
	}
}

func TestGenreStartPathSelectsFile(t *testing.T) {
	m := NewGenre(Deps{StartPath: "/music/a.wav"}, 80, 30)
	sel := findMsg[BrowserSelectedMsg](t, collect(m.Init()))
	if sel.Path != "/music/a.wav" {
		t.Fatalf("selected %q", sel.Path)
	}
}

func TestGenreBrowserCancelGoesHome(t *testing.T) {
	m := NewGenre(Deps{}, 80, 30)
	_, cmd := m.Update(BrowserCancelledMsg{})
	if got := navigatedTo(t, cmd); got != PageHome {
		t.Fatalf("navigated to %v, want home", got)
	}
}

func TestDescribeProbeError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{media.ErrTooLarge, "10MB"},
		{media.ErrEmptyFile, "empty"},
		{media.ErrUnsupportedFormat, ".mp3"},
	}
	for _, tt := range tests {
		if got := describeProbeError(tt.err); !strings.Contains(got, tt.want) {
			t.Errorf("describeProbeError(%v) = %q, want it to mention %q", tt.err, got, tt.want)
		}
	}
}
