// Package config loads MoodTunes settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL    = "http://localhost:5000"
	DefaultTimeout   = 60 * time.Second
	DefaultParticles = 70
	DefaultGlyphs    = "emoji"
	DefaultFPS       = 30
	DefaultMockAddr  = "localhost:5000"

	maxParticles = 2000
	maxFPS       = 120
)

// Config holds runtime settings.
type Config struct {
	APIURL    string
	Timeout   time.Duration
	Particles int
	Glyphs    string
	FPS       int
	LogFile   string
	OutputDir string

	SpotifyClientID     string
	SpotifyClientSecret string

	MockAddr string
}

// SpotifyEnabled reports whether song lookup credentials are present.
func (c *Config) SpotifyEnabled() bool {
	return c.SpotifyClientID != "" && c.SpotifyClientSecret != ""
}

// FrameInterval is the delay between background animation frames.
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FPS)
}

// Load reads .env from the working directory if present, then the process
// environment. Variables already set in the environment take precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		APIURL:              getenv("MOODTUNES_API_URL", DefaultAPIURL),
		Glyphs:              getenv("MOODTUNES_GLYPHS", DefaultGlyphs),
		LogFile:             os.Getenv("MOODTUNES_LOG"),
		OutputDir:           getenv("MOODTUNES_OUTPUT_DIR", "."),
		SpotifyClientID:     os.Getenv("SPOTIFY_CLIENT_ID"),
		SpotifyClientSecret: os.Getenv("SPOTIFY_CLIENT_SECRET"),
		MockAddr:            getenv("MOODTUNES_MOCK_ADDR", DefaultMockAddr),
	}

	var err error
	if cfg.Timeout, err = durationEnv("MOODTUNES_TIMEOUT", DefaultTimeout); err != nil {
		return nil, err
	}
	if cfg.Particles, err = intEnv("MOODTUNES_PARTICLES", DefaultParticles, 0, maxParticles); err != nil {
		return nil, err
	}
	if cfg.FPS, err = intEnv("MOODTUNES_FPS", DefaultFPS, 1, maxFPS); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback, lo, hi int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("invalid %s %d: must be between %d and %d", key, n, lo, hi)
	}
	return n, nil
}

// durationEnv accepts Go durations ("90s") or plain seconds ("90").
func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		raw = strconv.Itoa(secs) + "s"
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %v: must be positive", key, d)
	}
	return d, nil
}
