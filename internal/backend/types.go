package backend

import (
	"fmt"
	"strings"

	"github.com/olivier-w/moodtunes/internal/media"
)

// Subgenre is a secondary genre with its own confidence.
type Subgenre struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// GenreResult is the classification of an uploaded track.
// Confidence and Subgenres may be empty; some backends only return the genre.
type GenreResult struct {
	Genre      string     `json:"genre"`
	Confidence float64    `json:"confidence"`
	Subgenres  []Subgenre `json:"subgenres"`
}

// Recommendation is one song suggested for a mood.
type Recommendation struct {
	Artist string
	Title  string
}

func (r Recommendation) String() string {
	return r.Artist + " - " + r.Title
}

// ParseRecommendation splits an "Artist - Title" string.
// Missing halves fall back to "Unknown Artist" and "Unknown Title".
func ParseRecommendation(s string) Recommendation {
	artist, title, _ := strings.Cut(s, " - ")
	// Only the first two segments count, like a split that ignores the rest.
	title, _, _ = strings.Cut(title, " - ")
	r := Recommendation{
		Artist: strings.TrimSpace(artist),
		Title:  strings.TrimSpace(title),
	}
	if r.Artist == "" {
		r.Artist = "Unknown Artist"
	}
	if r.Title == "" {
		r.Title = "Unknown Title"
	}
	return r
}

// ChatResult is the detected mood and the songs that go with it.
type ChatResult struct {
	Mood            string
	Recommendations []Recommendation
}

// Generated is a music payload returned by the generation service.
type Generated struct {
	ID          string
	ContentType string
	Kind        media.Kind
	Data        []byte
}

// Filename returns a file name for saving the payload.
func (g *Generated) Filename() string {
	id := g.ID
	if id == "" {
		id = "track"
	}
	return fmt.Sprintf("moodtunes-%s%s", id, g.Kind.Ext())
}

type chatRequest struct {
	Text string `json:"text"`
}

type chatResponse struct {
	Mood            string   `json:"mood"`
	Recommendations []string `json:"recommendations"`
}

type errorResponse struct {
	Error string `json:"error"`
}
