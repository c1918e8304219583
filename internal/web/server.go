// Package web is the HTTP host for the widget showcase. Every request is
// one render pass: widget state comes from the query string or a posted
// form, the page is rendered and painted as HTML. A cookie ties requests
// to a session that remembers the last uploaded file.
package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"showcase/internal/session"
)

const (
	// formOverhead is the multipart allowance on top of the upload limit.
	formOverhead = 1 << 20
	// memoryLimit is how much of a multipart form is kept in memory.
	memoryLimit = 32 << 20
	// apiBodyLimit caps JSON request bodies.
	apiBodyLimit = 1 << 20

	shutdownTimeout = 10 * time.Second
)

// Options configures New. Only Runner is required.
type Options struct {
	Runner *session.Runner
	Logger *slog.Logger
	Now    func() time.Time
	// MaxSessions bounds the remembered browser sessions; 0 means 1024.
	MaxSessions int
}

// Server serves the showcase page and its supporting endpoints.
type Server struct {
	runner   *session.Runner
	logger   *slog.Logger
	now      func() time.Time
	painter  *htmlPainter
	sessions *sessionStore
	router   chi.Router
}

// New builds a server and its routes.
func New(opts Options) (*Server, error) {
	if opts.Runner == nil {
		return nil, errors.New("web: runner is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	painter, err := newHTMLPainter(logger)
	if err != nil {
		return nil, err
	}
	sessions, err := newSessionStore(opts.MaxSessions)
	if err != nil {
		return nil, err
	}
	s := &Server{
		runner:   opts.Runner,
		logger:   logger,
		now:      now,
		painter:  painter,
		sessions: sessions,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage)
	r.Post("/", s.handlePage)
	r.Get("/charts/{kind}.svg", s.handleChart)
	r.Get("/export.xlsx", s.handleExport)
	r.Post("/api/render", s.handleAPIRender)
	r.Get("/healthz", s.handleHealthz)
	if m := s.runner.Metrics; m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", slog.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// writeBuffered sends body only once it is fully built, so a failing
// painter produces a clean 500 instead of a truncated page.
func (s *Server) writeBuffered(w http.ResponseWriter, r *http.Request, contentType string, fill func(io.Writer) error) {
	var buf bytes.Buffer
	if err := fill(&buf); err != nil {
		s.logger.Error("response failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(buf.Bytes())
}
