package util

import (
	"path/filepath"
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00"},
		{-time.Second, "0:00"},
		{65 * time.Second, "1:05"},
		{10*time.Minute + 1500*time.Millisecond, "10:01"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{10 << 20, "10.0 MB"},
		{3 << 30, "3.0 GB"},
	}
	for _, tt := range tests {
		if got := FormatSize(tt.in); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if got := ExpandHome("~/Music/a.mp3"); got != filepath.Join(home, "Music", "a.mp3") {
		t.Errorf("ExpandHome() = %q", got)
	}
	if got := ExpandHome("/abs/a.mp3"); got != "/abs/a.mp3" {
		t.Errorf("ExpandHome() changed absolute path: %q", got)
	}
	if got := ExpandHome("~user/a.mp3"); got != "~user/a.mp3" {
		t.Errorf("ExpandHome() expanded another user's home: %q", got)
	}
}

func TestShortenPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if got := ShortenPath(filepath.Join(home, "Music"), 40); got != filepath.Join("~", "Music") {
		t.Errorf("ShortenPath() = %q", got)
	}
	if got := ShortenPath("/a/very/long/path/to/music", 10); got != "…/to/music" {
		t.Errorf("ShortenPath() = %q", got)
	}
}
