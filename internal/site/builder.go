// Package site runs the content build pipeline: discovery, rendering,
// ordering, composition and guarded output writing.
//
// A Builder is the explicit build context. It is constructed once from the
// configuration and a storage.FS and then passed through every stage; no
// stage reads process-wide state.
package site

import (
	"log/slog"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/layout"
	"git.home.luguber.info/inful/sitebuilder/internal/markdown"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/storage"
)

// Builder generates and cleans a site.
type Builder struct {
	cfg      *config.Config
	fs       storage.FS
	renderer *markdown.Renderer
	composer *layout.Composer
	navbar   layout.Navbar
	logger   *slog.Logger
	recorder metrics.Recorder
}

// NewBuilder creates a builder. The layouts are parsed here so a broken
// template override fails before anything is written.
func NewBuilder(cfg *config.Config, fsys storage.FS) (*Builder, error) {
	navbar := layout.BuildNavbar(cfg.Navbar)
	composer, err := layout.NewComposer(layout.Options{
		Site:         cfg.Site,
		Navbar:       navbar,
		FS:           fsys,
		TemplatesDir: cfg.Paths.Templates,
	})
	if err != nil {
		return nil, err
	}

	return &Builder{
		cfg: cfg,
		fs:  fsys,
		renderer: markdown.NewRenderer(markdown.Options{
			Highlight:      !cfg.Markdown.DisableHighlight,
			HighlightStyle: cfg.Markdown.HighlightStyle,
			WordsPerMinute: cfg.Markdown.WordsPerMinute,
		}),
		composer: composer,
		navbar:   navbar,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}, nil
}

// WithLogger sets the logger used for build progress.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// WithRecorder sets the metrics recorder.
func (b *Builder) WithRecorder(recorder metrics.Recorder) *Builder {
	b.recorder = metrics.OrNoop(recorder)
	return b
}

// Config returns the configuration the builder was created with.
func (b *Builder) Config() *config.Config { return b.cfg }

// OutputDir returns the output root.
func (b *Builder) OutputDir() string { return b.cfg.Paths.Output }
