// Package spotify resolves song recommendations to Spotify tracks.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ErrNotFound is returned when a search has no matching track.
var ErrNotFound = errors.New("no matching track on Spotify")

// Track is the subset of Spotify track metadata shown next to a
// recommendation.
type Track struct {
	ID         string
	Name       string
	Artist     string // Comma-separated artist names
	Album      string
	URL        string
	PreviewURL string
}

// Client wraps the Spotify API client with convenience methods.
type Client struct {
	api *spotify.Client
}

// New creates a new Spotify client wrapper.
// The underlying client should already be authenticated.
func New(api *spotify.Client) *Client {
	return &Client{api: api}
}

// NewClientCredentials authenticates with the app-only client credentials
// flow. No user login is involved, so only catalog endpoints are usable.
func NewClientCredentials(ctx context.Context, clientID, clientSecret string, opts ...spotify.ClientOption) (*Client, error) {
	if clientID == "" || clientSecret == "" {
		return nil, errors.New("spotify client ID and secret are required")
	}
	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	// Fetch a token up front so bad credentials fail at startup.
	tok, err := cfg.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting spotify token: %w", err)
	}
	// Refreshes outlive the startup deadline but keep its HTTP client.
	base := context.WithoutCancel(ctx)
	ts := oauth2.ReuseTokenSource(tok, cfg.TokenSource(base))
	return New(spotify.New(oauth2.NewClient(base, ts), opts...)), nil
}

// Lookup searches for the best matching track for artist and title.
func (c *Client) Lookup(ctx context.Context, artist, title string) (Track, error) {
	query := strings.TrimSpace(artist + " " + title)
	if query == "" {
		return Track{}, ErrNotFound
	}

	res, err := c.api.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(1))
	if err != nil {
		return Track{}, fmt.Errorf("searching spotify: %w", err)
	}
	if res.Tracks == nil || len(res.Tracks.Tracks) == 0 {
		return Track{}, ErrNotFound
	}
	return convertTrack(res.Tracks.Tracks[0]), nil
}

// convertTrack flattens a Spotify track.
func convertTrack(ft spotify.FullTrack) Track {
	artists := make([]string, len(ft.Artists))
	for i, a := range ft.Artists {
		artists[i] = a.Name
	}
	return Track{
		ID:         ft.ID.String(),
		Name:       ft.Name,
		Artist:     strings.Join(artists, ", "),
		Album:      ft.Album.Name,
		URL:        ft.ExternalURLs["spotify"],
		PreviewURL: ft.PreviewURL,
	}
}
