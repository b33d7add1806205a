package commands

import (
	"context"
	"os/signal"
	"path/filepath"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/preview"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
)

// ServeCmd serves the generated site locally.
type ServeCmd struct {
	Host  string `help:"Listen host (overrides serve.host)"`
	Port  int    `short:"p" help:"Listen port (overrides serve.port)"`
	Open  bool   `help:"Open the site in a browser once the server is up"`
	Watch bool   `short:"w" help:"Rebuild the site when content, static files or templates change"`
}

func (s *ServeCmd) Run(global *Global, root *CLI) error {
	sigctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(global, root)
	if err != nil {
		return err
	}
	if s.Host != "" {
		cfg.Serve.Host = s.Host
	}
	if s.Port != 0 {
		cfg.Serve.Port = s.Port
	}

	reg := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(reg)
	opts := preview.Options{
		Addr:     cfg.Serve.Addr(),
		Root:     cfg.Paths.Output,
		Open:     s.Open,
		Registry: reg,
		Recorder: recorder,
		Logger:   global.Logger,
	}

	var initialErr error
	if s.Watch {
		builder, err := newBuilder(global, cfg)
		if err != nil {
			return err
		}
		builder.WithRecorder(recorder)
		rebuild := func() error {
			_, err := builder.Generate(site.GenerateOptions{Overwrite: true})
			return err
		}
		opts.Rebuild = rebuild
		opts.WatchDirs = watchDirs(cfg.Paths.Content, cfg.Paths.Static, cfg.Paths.Templates)
		if abs, err := filepath.Abs(root.Config); err == nil {
			opts.WatchFiles = []string{abs}
		}
		initialErr = rebuild()
	}

	srv := preview.New(opts)
	if s.Watch {
		srv.MarkBuilt(initialErr)
	}
	return srv.Run(sigctx)
}

// watchDirs drops unset source directories. The output root is excluded by
// the preview server itself.
func watchDirs(dirs ...string) []string {
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if d != "" {
			out = append(out, d)
		}
	}
	return out
}
