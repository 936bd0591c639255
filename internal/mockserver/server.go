// Package mockserver is a stand-in for the MoodTunes inference service. It
// answers the same HTTP routes with canned or heuristic results so the
// terminal app can be used without the real models.
package mockserver

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Uploads larger than this are rejected.
const maxUploadSize = 10 << 20

// Server serves /chat, /genre-classify and /generate-music.
type Server struct {
	echo   *echo.Echo
	logger *log.Logger
	newID  func() uuid.UUID
}

// New creates a Server with routes and middleware registered.
func New(logger *log.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{echo: e, logger: logger, newID: uuid.New}

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				logger.Error("request", "method", v.Method, "uri", v.URI, "status", v.Status, "err", v.Error)
				return nil
			}
			logger.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))

	e.POST("/chat", s.handleChat)
	e.POST("/genre-classify", s.handleGenreClassify)
	e.POST("/generate-music", s.handleGenerateMusic)

	return s
}

// Handler exposes the router for tests and custom listeners.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.logger.Info("listening", "addr", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

type chatRequest struct {
	Text string `json:"text"`
}

type chatResponse struct {
	Mood            string   `json:"mood"`
	Recommendations []string `json:"recommendations"`
}

func (s *Server) handleChat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		return errorJSON(c, http.StatusBadRequest, "No input provided.")
	}

	mood := analyzeMood(req.Text)
	return c.JSON(http.StatusOK, chatResponse{
		Mood:            mood,
		Recommendations: recommendationsFor(mood),
	})
}

func (s *Server) handleGenreClassify(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "No file uploaded.")
	}
	if fh.Size > maxUploadSize {
		return errorJSON(c, http.StatusRequestEntityTooLarge, "File exceeds the 10MB limit.")
	}

	f, err := fh.Open()
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	if len(data) == 0 {
		return errorJSON(c, http.StatusBadRequest, "Uploaded file is empty.")
	}

	result := classify(data)
	s.logger.Debug("classified upload", "name", fh.Filename, "bytes", len(data), "genre", result.Genre)
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleGenerateMusic(c echo.Context) error {
	numInputs := 3
	if raw := c.FormValue("num_inputs"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxInputs {
			return errorJSON(c, http.StatusBadRequest, "Missing or invalid 'num_inputs'")
		}
		numInputs = n
	}

	id := s.newID()
	data, err := compose(id, numInputs)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}

	c.Response().Header().Set("X-Generation-ID", id.String())
	return c.Blob(http.StatusOK, "audio/midi", data)
}
