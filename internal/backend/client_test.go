package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/olivier-w/moodtunes/internal/media"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	return NewClient(server.URL+"/", time.Second, WithHTTPClient(server.Client()))
}

func TestParseRecommendation(t *testing.T) {
	tests := []struct {
		in   string
		want Recommendation
	}{
		{"Adele - Someone Like You", Recommendation{"Adele", "Someone Like You"}},
		{"  Coldplay  -  Fix You ", Recommendation{"Coldplay", "Fix You"}},
		{"Just A Title", Recommendation{"Just A Title", "Unknown Title"}},
		{" - Orphan", Recommendation{"Unknown Artist", "Orphan"}},
		{"", Recommendation{"Unknown Artist", "Unknown Title"}},
		{"A - B - C", Recommendation{"A", "B"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseRecommendation(tt.in); got != tt.want {
				t.Errorf("ParseRecommendation(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestChat(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Text != "I feel great today" {
			t.Fatalf("unexpected text %q", req.Text)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatResponse{
			Mood:            "Happy",
			Recommendations: []string{"Pharrell Williams - Happy", "Lizzo - Good as Hell"},
		})
	})

	got, err := client.Chat(context.Background(), "I feel great today")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if got.Mood != "Happy" {
		t.Errorf("Mood = %q, want Happy", got.Mood)
	}
	want := []Recommendation{{"Pharrell Williams", "Happy"}, {"Lizzo", "Good as Hell"}}
	if len(got.Recommendations) != len(want) {
		t.Fatalf("got %d recommendations, want %d", len(got.Recommendations), len(want))
	}
	for i := range want {
		if got.Recommendations[i] != want[i] {
			t.Errorf("recommendation %d = %+v, want %+v", i, got.Recommendations[i], want[i])
		}
	}
}

func TestChatRejectsEmptyText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	if _, err := client.Chat(context.Background(), "   "); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("Chat() error = %v, want ErrEmptyText", err)
	}
}

func TestAPIErrorFromJSONBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"No input provided."}`)
	})

	_, err := client.Chat(context.Background(), "hello")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "No input provided." {
		t.Fatalf("unexpected APIError %+v", apiErr)
	}
}

func TestAPIErrorFromPlainBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	})

	_, err := client.GenerateMusic(context.Background(), 3)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Message != "upstream exploded" {
		t.Fatalf("Message = %q", apiErr.Message)
	}
}

func TestConnectionErrorIsNotAPIError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(url, time.Second)
	_, err := client.Chat(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected connection error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("connection failure reported as APIError: %v", err)
	}
}

func TestClassifyGenre(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.mp3")
	if err := os.WriteFile(path, []byte("fake audio bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/genre-classify" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file field: %v", err)
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		if hdr.Filename != "song.mp3" || string(data) != "fake audio bytes" {
			t.Fatalf("unexpected upload %q: %q", hdr.Filename, data)
		}
		io.WriteString(w, `{"genre":"Electronic","confidence":0.89,"subgenres":[{"name":"House","confidence":0.72}]}`)
	})

	got, err := client.ClassifyGenre(context.Background(), path)
	if err != nil {
		t.Fatalf("ClassifyGenre() error = %v", err)
	}
	if got.Genre != "Electronic" || got.Confidence != 0.89 {
		t.Errorf("unexpected result %+v", got)
	}
	if len(got.Subgenres) != 1 || got.Subgenres[0] != (Subgenre{"House", 0.72}) {
		t.Errorf("unexpected subgenres %+v", got.Subgenres)
	}
}

func TestClassifyGenreGenreOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.wav")
	os.WriteFile(path, []byte("x"), 0o644)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"genre":"jazz"}`)
	})

	got, err := client.ClassifyGenre(context.Background(), path)
	if err != nil {
		t.Fatalf("ClassifyGenre() error = %v", err)
	}
	if got.Genre != "jazz" || got.Confidence != 0 || len(got.Subgenres) != 0 {
		t.Errorf("unexpected result %+v", got)
	}
}

func TestClassifyGenreRejectsEmptyPath(t *testing.T) {
	client := NewClient("http://invalid.test", time.Second)
	if _, err := client.ClassifyGenre(context.Background(), ""); !errors.Is(err, ErrNoFile) {
		t.Fatalf("error = %v, want ErrNoFile", err)
	}
}

func TestGenerateMusic(t *testing.T) {
	payload := append([]byte("MThd"), make([]byte, 20)...)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.FormValue("num_inputs"); got != "7" {
			t.Fatalf("num_inputs = %q, want 7", got)
		}
		w.Header().Set("Content-Type", "audio/midi")
		w.Header().Set("X-Generation-ID", "abc123")
		w.Write(payload)
	})

	got, err := client.GenerateMusic(context.Background(), 7)
	if err != nil {
		t.Fatalf("GenerateMusic() error = %v", err)
	}
	if got.Kind != media.KindMIDI {
		t.Errorf("Kind = %v, want MIDI", got.Kind)
	}
	if got.ID != "abc123" || len(got.Data) != len(payload) {
		t.Errorf("unexpected payload %+v", got)
	}
	if name := got.Filename(); name != "moodtunes-abc123.mid" {
		t.Errorf("Filename() = %q", name)
	}
}

func TestGenerateMusicRejectsZeroInputs(t *testing.T) {
	client := NewClient("http://invalid.test", time.Second)
	if _, err := client.GenerateMusic(context.Background(), 0); !errors.Is(err, ErrInvalidNumInputs) {
		t.Fatalf("error = %v, want ErrInvalidNumInputs", err)
	}
}

func TestRequestHonoursContextCancel(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.Chat(ctx, "hello"); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}
