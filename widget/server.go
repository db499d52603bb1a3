// Package widget serves the embeddable AI chat page: a small web server that
// relays questions to the assistant endpoints of the club API.
package widget

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/gorilla/csrf"

	"campusclub/client/api"
)

var (
	//go:embed static
	static embed.FS

	//go:embed templates/*.gohtml
	templates embed.FS
)

func New(cfg Config, client *api.Client) (*Server, error) {
	if cfg.CSRFKey == "" {
		return nil, errors.New("widget csrf key is not configured")
	}

	var staticFS http.FileSystem
	var t func() *template.Template
	var notifier *reloadNotifier
	var stopWatcher context.CancelFunc
	if cfg.Dev {
		root, err := os.OpenRoot("widget/")
		if err != nil {
			return nil, fmt.Errorf("failed to open widget directory: %w", err)
		}
		staticFS = http.FS(root.FS())
		t = func() *template.Template {
			return template.Must(template.New("templates").ParseFS(root.FS(), "templates/*.gohtml"))
		}
		notifier = newReloadNotifier()
		stopWatcher = startDevWatcher("widget/", notifier)
	} else {
		staticFS = http.FS(static)
		st := template.Must(template.New("templates").ParseFS(templates, "templates/*.gohtml"))
		t = func() *template.Template {
			return st
		}
	}

	s := &Server{
		cfg:         cfg,
		client:      client,
		templates:   t,
		notifier:    notifier,
		stopWatcher: stopWatcher,
	}

	mux := http.NewServeMux()
	fs := http.FileServer(staticFS)

	mux.HandleFunc("GET /{$}", s.Chat)
	mux.HandleFunc("POST /chat", s.DoChat)
	mux.Handle("GET /static/", fs)
	mux.Handle("HEAD /static/", fs)
	if cfg.Dev {
		mux.HandleFunc("GET /dev/reload", s.DevReload)
	}

	s.server = &http.Server{
		Addr:    cfg.Addr,
		Handler: csrf.Protect([]byte(cfg.CSRFKey))(accessLogMiddleware(cleanPathMiddleware(mux))),
	}

	return s, nil
}

type Server struct {
	cfg         Config
	server      *http.Server
	client      *api.Client
	templates   func() *template.Template
	notifier    *reloadNotifier
	stopWatcher context.CancelFunc
}

func (s *Server) Start() {
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("widget server failed", slog.Any("err", err))
		}
	}()
}

func (s *Server) Stop() {
	if s.stopWatcher != nil {
		s.stopWatcher()
	}
	if s.notifier != nil {
		s.notifier.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		slog.Error("widget server shutdown failed", slog.Any("err", err))
	}
}

func cleanPathMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.URL.Path = path.Clean(r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Info("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

// DevReload holds an SSE stream open and emits one event per detected change
// of the on-disk widget assets.
func (s *Server) DevReload(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	id, changes := s.notifier.Subscribe()
	defer s.notifier.Unsubscribe(id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case _, open := <-changes:
			if !open {
				return
			}
			_, _ = fmt.Fprint(w, "event: reload\ndata: {}\n\n")
			flusher.Flush()
		}
	}
}
