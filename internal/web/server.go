package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"chatview/internal/render"
	"chatview/internal/watch"
)

//go:embed templates/*.html static/*.js static/*.css
var assetsFS embed.FS

const (
	DefaultMaxMessageBytes = 64 * 1024
	DefaultKeepAlive       = 25 * time.Second

	// envelopeBytes is the JSON framing allowed on top of the Markdown limit.
	envelopeBytes = 4 * 1024
)

type ServerConfig struct {
	Addr string
	// WatchPath, when set, is a Markdown file served at /document/events and
	// re-rendered whenever it changes on disk.
	WatchPath       string
	MaxMessageBytes int
	KeepAlive       time.Duration
	Debounce        time.Duration
	// Secret, when set, requires an author token to post messages.
	Secret []byte

	Renderer *render.Renderer
	Logger   *zap.Logger
}

type Server struct {
	cfg      ServerConfig
	tmpl     *template.Template
	renderer *render.Renderer
	log      *zap.Logger

	messages *hub[chatMessage]
	document *hub[struct{}]
}

func NewServer(cfg ServerConfig) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	cfg.WatchPath = strings.TrimSpace(cfg.WatchPath)
	if cfg.MaxMessageBytes < 0 {
		return nil, errors.New("web: max message bytes must not be negative")
	}
	if cfg.MaxMessageBytes == 0 {
		cfg.MaxMessageBytes = DefaultMaxMessageBytes
	}
	if cfg.KeepAlive <= 0 {
		cfg.KeepAlive = DefaultKeepAlive
	}
	if cfg.WatchPath != "" {
		abs, err := filepath.Abs(cfg.WatchPath)
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(abs); err != nil {
			return nil, err
		}
		cfg.WatchPath = abs
	}
	if cfg.Renderer == nil {
		cfg.Renderer = render.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	tmpl, err := template.New("base").Funcs(template.FuncMap{
		"trim": strings.TrimSpace,
	}).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Server{
		cfg:      cfg,
		tmpl:     tmpl,
		renderer: cfg.Renderer,
		log:      cfg.Logger,
		messages: newHub[chatMessage](),
		document: newHub[struct{}](),
	}, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /static/app.css", s.handleStatic("static/app.css", "text/css; charset=utf-8"))
	mux.HandleFunc("GET /static/app.js", s.handleStatic("static/app.js", "application/javascript; charset=utf-8"))
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("POST /render", s.handleRender)
	mux.HandleFunc("POST /messages", s.handleMessageCreate)
	mux.HandleFunc("GET /events", s.handleChatEvents)
	mux.HandleFunc("POST /preview", s.handlePreview)
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /document/events", s.handleDocumentEvents)
	return mux
}

// Run serves on ln until ctx is done, then shuts down gracefully. When a
// watch path is configured, file changes are pushed to document streams.
func (s *Server) Run(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// Request contexts end with ctx so long-lived streams stop on shutdown.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 2)
	if s.cfg.WatchPath != "" {
		w, err := watch.New(s.cfg.WatchPath, s.cfg.Debounce, s.log)
		if err != nil {
			return err
		}
		defer w.Close()
		go func() {
			if err := w.Run(ctx); err != nil {
				errCh <- err
			}
		}()
		go s.forwardChanges(w.Changes())
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("serving", zap.String("addr", ln.Addr().String()), zap.String("watch", s.cfg.WatchPath))

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}
	cancel()

	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func (s *Server) forwardChanges(changes <-chan struct{}) {
	for range changes {
		n := s.document.publish(struct{}{})
		s.log.Debug("document changed", zap.Int("subscribers", n))
	}
}

func (s *Server) handleStatic(path, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := assetsFS.ReadFile(path)
		if err != nil || len(b) == 0 {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

type homeVM struct {
	MarkerClass     string
	MaxMessageBytes int
	HasDocument     bool
	DocumentName    string
	DocumentHTML    template.HTML
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	vm := homeVM{
		MarkerClass:     s.renderer.MarkerClass(),
		MaxMessageBytes: s.cfg.MaxMessageBytes,
	}
	if s.cfg.WatchPath != "" {
		vm.HasDocument = true
		vm.DocumentName = filepath.Base(s.cfg.WatchPath)
		if src, err := os.ReadFile(s.cfg.WatchPath); err == nil {
			vm.DocumentHTML = s.markdownHTML(string(src))
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "index.html", vm); err != nil {
		s.log.Error("render home", zap.Error(err))
		_, _ = io.WriteString(w, err.Error())
	}
}
