// Package server exposes a running session over HTTP. The server owns the
// tick schedule; handlers read the session between ticks.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/TFMV/simplegraph/host"
	"github.com/TFMV/simplegraph/overlay"
	"github.com/TFMV/simplegraph/render"
)

// Config for the server
type Config struct {
	Addr     string
	Interval time.Duration
}

// Server serves one session.
type Server struct {
	cfg     Config
	session *host.Session
	ticker  *host.Ticker
	logger  *log.Logger
	router  chi.Router
}

// GraphResponse is the body of GET /api/graph.
type GraphResponse struct {
	ID    string          `json:"id"`
	State string          `json:"state"`
	Ticks int             `json:"ticks"`
	Scene render.Snapshot `json:"scene"`
}

// StatusResponse is the body of GET /api/status.
type StatusResponse struct {
	State   string          `json:"state"`
	Ticks   int             `json:"ticks"`
	Line    string          `json:"line"`
	Entries []overlay.Entry `json:"entries"`
}

// New creates a server for s.
func New(s *host.Session, cfg Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	srv := &Server{
		cfg:     cfg,
		session: s,
		ticker:  host.NewTicker(s, cfg.Interval),
		logger:  logger,
	}
	srv.router = srv.routes()
	return srv
}

func (srv *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(srv.logRequests)

	r.Get("/", srv.handleIndex)
	r.Get("/healthz", srv.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/graph", srv.handleGraph)
		r.Get("/status", srv.handleStatus)
		r.Get("/frame/{format}", srv.handleFrame)
	})
	if srv.session.Stats != nil {
		r.Handle("/metrics", srv.session.Stats.Handler())
	}
	return r
}

// Handler returns the HTTP handler.
func (srv *Server) Handler() http.Handler {
	return srv.router
}

// Ticker returns the ticker driving the session.
func (srv *Server) Ticker() *host.Ticker {
	return srv.ticker
}

// Start ticks the session and serves HTTP until ctx is cancelled.
func (srv *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         srv.cfg.Addr,
		Handler:      srv.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := srv.ticker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			srv.logger.Error("ticker stopped", "err", err)
		}
	}()

	errc := make(chan error, 1)
	go func() {
		srv.logger.Info("starting server", "addr", srv.cfg.Addr)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (srv *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		srv.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"took", time.Since(start),
			"id", middleware.GetReqID(r.Context()))
	})
}

func (srv *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprint(w, "ok")
}

// handleGraph provides a JSON snapshot of the scene
func (srv *Server) handleGraph(w http.ResponseWriter, _ *http.Request) {
	var resp GraphResponse
	srv.ticker.Do(func(s *host.Session) {
		resp = GraphResponse{
			ID:    s.Graph.ID,
			State: s.Frame.State().String(),
			Ticks: s.Frame.Ticks(),
			Scene: render.NewSnapshot(s.Scene, s.Config.Palette()),
		}
	})
	writeJSON(w, resp)
}

func (srv *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	var resp StatusResponse
	srv.ticker.Do(func(s *host.Session) {
		board := overlay.NewBoard()
		board.Publish(s.Status())
		resp = StatusResponse{
			State:   s.Frame.State().String(),
			Ticks:   s.Frame.Ticks(),
			Line:    board.Line(),
			Entries: board.Entries(),
		}
	})
	writeJSON(w, resp)
}

// handleFrame renders the current scene in the requested format. The scene's
// redraw flags belong to the tick loop and are left untouched.
func (srv *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(chi.URLParam(r, "format"))

	opts := render.NewDefaultOptions()
	opts.ShowLabels = srv.session.Config.ShowLabels
	opts.Palette = srv.session.Config.Palette()
	if v, err := strconv.Atoi(r.URL.Query().Get("width")); err == nil && v > 0 {
		opts.Width = float64(v)
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("height")); err == nil && v > 0 {
		opts.Height = float64(v)
	}

	renderer, err := render.New(format, opts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	srv.ticker.Do(func(s *host.Session) {
		err = renderer.Render(s.Scene, s.Frame.Viewpoint())
	})
	if err != nil {
		http.Error(w, "Error generating visualization: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	w.Write(renderer.Frame())
}

func contentType(format string) string {
	switch format {
	case render.FormatSVG:
		return "image/svg+xml"
	case render.FormatPNG:
		return "image/png"
	case render.FormatJSON:
		return "application/json"
	case render.FormatDOT:
		return "text/vnd.graphviz"
	default:
		return "text/plain; charset=utf-8"
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.Encode(v)
}

// handleIndex renders a page that polls the SVG frame and the status line
func (srv *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, indexHTML)
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>simplegraph</title>
  <style>
    body { font-family: 'Helvetica Neue', Arial, sans-serif; margin: 0; padding: 20px; background: #f5f5f5; color: #333; }
    #info { position: absolute; top: 10px; left: 10px; font-family: monospace; }
    #frame { width: 100%; max-width: 1000px; }
  </style>
</head>
<body>
  <div id="info"></div>
  <img id="frame" src="/api/frame/svg" alt="graph">
  <script>
    async function refresh() {
      document.getElementById('frame').src = '/api/frame/svg?t=' + Date.now();
      const res = await fetch('/api/status');
      const status = await res.json();
      document.getElementById('info').textContent = status.line;
    }
    setInterval(refresh, 250);
  </script>
</body>
</html>
`
