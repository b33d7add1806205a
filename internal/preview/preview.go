// Package preview serves the generated site over HTTP for local review,
// optionally rebuilding it when sources change and opening a browser.
package preview

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
	defaultOpenDelay  = 500 * time.Millisecond
	defaultDebounce   = 300 * time.Millisecond
	metricsPath       = "/metrics"
	statusPath        = "/_status"
)

// Options configures a preview server.
type Options struct {
	Addr string // Listen address, host:port
	Root string // Directory served as the site root

	// Rebuild regenerates the site. Required when WatchDirs or WatchFiles
	// is set. Root is never watched.
	Rebuild    func() error
	WatchDirs  []string
	WatchFiles []string

	Open      bool
	OpenDelay time.Duration
	OpenURL   func(url string) error // Defaults to the system browser

	Registry *prom.Registry
	Recorder metrics.Recorder
	Logger   *slog.Logger
}

// Server is a local preview server.
type Server struct {
	opts   Options
	status *buildStatus
	logger *slog.Logger
}

// New creates a preview server.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.OpenDelay <= 0 {
		opts.OpenDelay = defaultOpenDelay
	}
	if opts.OpenURL == nil {
		opts.OpenURL = openInBrowser
	}
	opts.Recorder = metrics.OrNoop(opts.Recorder)
	return &Server{opts: opts, status: &buildStatus{}, logger: opts.Logger}
}

// Handler returns the HTTP handler serving the site, its status and metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(metricsPath, metrics.HTTPHandler(s.opts.Registry))
	mux.HandleFunc(statusPath, s.handleStatus)
	mux.Handle("/", http.FileServer(http.Dir(s.opts.Root)))
	return loggingMiddleware(s.logger, s.opts.Recorder, mux)
}

// MarkBuilt records the outcome of a build made outside the server.
func (s *Server) MarkBuilt(err error) {
	if err != nil {
		s.status.setError(err)
		return
	}
	s.status.setSuccess()
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if info, err := os.Stat(s.opts.Root); err != nil || !info.IsDir() {
		return ferrors.NotFoundError("output directory not found; run generate first").
			WithContext("path", s.opts.Root).
			Build()
	}

	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to listen").
			WithContext("addr", s.opts.Addr).
			Build()
	}
	url := "http://" + ln.Addr().String()

	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: readHeaderTimeout}
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	s.logger.Info("Preview server listening", logfields.URL(url), logfields.Path(s.opts.Root))

	var wg sync.WaitGroup
	if s.opts.Open {
		wg.Add(1)
		go func() {
			defer wg.Done()
			openAfter(ctx, url, s.opts.OpenDelay, s.opts.OpenURL, s.logger)
		}()
	}

	var watchErr <-chan error
	if len(s.opts.WatchDirs)+len(s.opts.WatchFiles) > 0 && s.opts.Rebuild != nil {
		w, err := newWatcher(s.opts.WatchDirs, s.opts.WatchFiles, []string{s.opts.Root}, defaultDebounce, s.logger)
		if err != nil {
			_ = srv.Close()
			return err
		}
		watchErr = w.run(ctx, s.rebuild)
	}

	var runErr error
	select {
	case <-ctx.Done():
	case err, ok := <-serveErr:
		if ok {
			runErr = ferrors.WrapError(err, ferrors.CategoryRuntime, "preview server failed").Build()
		}
	case err, ok := <-watchErr:
		if ok && err != nil {
			runErr = err
		}
	}

	s.logger.Info("Shutting down preview server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("HTTP server shutdown error", logfields.Error(err))
	}
	wg.Wait()
	return runErr
}

func (s *Server) rebuild() {
	s.logger.Info("Change detected; rebuilding site")
	err := s.opts.Rebuild()
	s.MarkBuilt(err)
	if err != nil {
		s.logger.Warn("Rebuild failed", logfields.Error(err))
	}
}
