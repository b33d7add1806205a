package site

import (
	"log/slog"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitebuilder/internal/assets"
	"git.home.luguber.info/inful/sitebuilder/internal/blog"
	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/content"
	"git.home.luguber.info/inful/sitebuilder/internal/layout"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/markdown"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/output"
)

// Artifact kinds reported to the metrics recorder.
const (
	kindPage      = "page"
	kindBlogEntry = "blog_entry"
	kindBlogIndex = "blog_index"
)

// staticOutputDir is where the static tree is mirrored below the output root.
const staticOutputDir = "static"

// GenerateOptions controls a single Generate run.
type GenerateOptions struct {
	// Overwrite replaces existing output. Without it the first existing file
	// stops the build with an AlreadyExistsError.
	Overwrite bool
}

// run is the per-invocation part of the build context.
type run struct {
	*Builder
	id        string
	log       *slog.Logger
	discovery *content.Discovery
	writer    *output.Writer
	mirror    *assets.Mirror
	report    *Report
}

// Generate builds the whole site. The first error aborts the build; files
// already written stay in place.
func (b *Builder) Generate(opts GenerateOptions) (*Report, error) {
	start := time.Now()
	id := uuid.NewString()
	out := b.cfg.Paths.Output

	r := &run{
		Builder:   b,
		id:        id,
		log:       b.logger.With(logfields.BuildID(id)),
		discovery: content.NewDiscovery(b.fs, b.cfg.Paths.Content, b.cfg.Blog.Dir),
		writer:    output.NewWriter(b.fs, out, opts.Overwrite, b.recorder),
		mirror:    assets.NewMirror(b.fs, opts.Overwrite, b.cfg.Blog.EntryAssets, b.recorder),
		report:    &Report{BuildID: id, OutputDir: out, Overwrite: opts.Overwrite},
	}
	r.log.Info("Starting build",
		slog.String("content", b.cfg.Paths.Content),
		logfields.Output(out),
		logfields.Overwrite(opts.Overwrite))

	err := r.execute()

	r.report.Duration = time.Since(start)
	b.recorder.ObserveBuildDuration(r.report.Duration)
	if err != nil {
		b.recorder.IncBuildOutcome(metrics.BuildOutcomeFailed)
		r.log.Error("Build failed", logfields.Error(err))
		return nil, err
	}
	b.recorder.IncBuildOutcome(metrics.BuildOutcomeSuccess)
	r.log.Info("Build complete",
		slog.Int("pages", r.report.Pages),
		slog.Int("entries", r.report.Entries),
		slog.Int("assets", r.report.Assets),
		logfields.DurationMS(float64(r.report.Duration.Milliseconds())))
	return r.report, nil
}

func (r *run) execute() error {
	var pages, posts []content.SourceDocument
	err := r.stage(metrics.StageDiscover, func() error {
		var err error
		if pages, err = r.discovery.ListPages(); err != nil {
			return err
		}
		posts, err = r.discovery.ListBlogDocuments()
		return err
	})
	if err != nil {
		return err
	}

	if err := r.stage(metrics.StagePages, func() error { return r.buildPages(pages) }); err != nil {
		return err
	}

	var entries []blog.Entry
	err = r.stage(metrics.StageBlog, func() error {
		var err error
		entries, err = r.buildBlog(posts)
		return err
	})
	if err != nil {
		return err
	}

	if err := r.stage(metrics.StageIndex, func() error { return r.buildBlogIndex(entries) }); err != nil {
		return err
	}

	return r.stage(metrics.StageAssets, func() error {
		n, err := r.mirror.MirrorStatic(r.cfg.Paths.Static, filepath.Join(r.cfg.Paths.Output, staticOutputDir))
		r.report.Assets += n
		return err
	})
}

// stage times fn under the given stage label.
func (r *run) stage(stage metrics.Stage, fn func() error) error {
	start := time.Now()
	err := metrics.TimeStage(r.recorder, stage, fn)
	r.log.Debug("Stage finished",
		logfields.Stage(string(stage)),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return err
}

func (r *run) buildPages(pages []content.SourceDocument) error {
	if err := checkOutputCollisions(pages, r.cfg.OutputSlug); err != nil {
		return err
	}
	for _, src := range pages {
		outSlug := r.cfg.OutputSlug(src.Slug)
		if outSlug == layout.BlogActive {
			r.log.Warn("Skipping page that collides with the blog index", logfields.Source(src.Path))
			continue
		}

		doc, err := r.renderer.Render(src.Raw, markdown.ModePage)
		if err != nil {
			return withPath(err, src.Path)
		}

		rel := outSlug + ".html"
		html, err := r.composer.ComposePage(layout.PageData{
			Title:       pageTitle(doc.Meta, src.Slug, outSlug),
			Content:     doc.HTML,
			Active:      src.Slug,
			Description: doc.Meta.Summary,
			Canonical:   r.composer.AbsoluteURL(rel),
		})
		if err != nil {
			return withPath(err, src.Path)
		}

		if _, err := r.writer.WriteArtifact(output.Artifact{Path: rel, Content: html, Kind: kindPage}); err != nil {
			return err
		}
		r.report.Pages++
		r.log.Debug("Page written", logfields.Slug(src.Slug), logfields.Output(rel))
	}
	return nil
}

func (r *run) buildBlog(posts []content.SourceDocument) ([]blog.Entry, error) {
	rendered := make([]blog.Rendered, 0, len(posts))
	for _, src := range posts {
		doc, err := r.renderer.Render(src.Raw, markdown.ModeBlog)
		if err != nil {
			return nil, withPath(err, src.Path)
		}
		rendered = append(rendered, blog.Rendered{Source: src, Doc: doc})
	}

	sorted, err := blog.Sort(rendered, r.cfg.Blog.DateSource)
	if err != nil {
		return nil, err
	}
	entries := blog.Link(sorted)
	blog.AssignThumbnails(entries, blog.ThumbnailOptions{
		Disabled: r.cfg.Blog.Thumbnails.Disabled,
		BySorted: r.cfg.Blog.Thumbnails.Order == config.ThumbnailOrderSorted,
		Pattern:  r.cfg.Blog.Thumbnails.Pattern,
	})

	for _, e := range entries {
		entryDir := filepath.Join(r.cfg.Paths.Output, filepath.FromSlash(path.Dir(e.Href)))
		n, err := r.mirror.MirrorEntryAssets(e.Source, entryDir)
		if err != nil {
			return nil, err
		}
		r.report.Assets += n

		html, err := r.composer.ComposeBlogEntry(e)
		if err != nil {
			return nil, withPath(err, e.Source.Path)
		}
		if _, err := r.writer.WriteArtifact(output.Artifact{Path: e.Href, Content: html, Kind: kindBlogEntry}); err != nil {
			return nil, err
		}
		r.report.Entries++
		r.log.Debug("Blog entry written", logfields.Slug(e.Source.Slug), logfields.Date(e.DateText), logfields.Output(e.Href))
	}
	return entries, nil
}

func (r *run) buildBlogIndex(entries []blog.Entry) error {
	html, err := r.composer.ComposeBlogIndex(entries)
	if err != nil {
		return err
	}
	_, err = r.writer.WriteArtifact(output.Artifact{Path: layout.BlogActive + ".html", Content: html, Kind: kindBlogIndex})
	return err
}

// pageTitle prefers a declared title, then the slug. The index page uses the
// site title alone.
func pageTitle(meta markdown.Metadata, slug, outSlug string) string {
	if meta.Title != "" {
		return meta.Title
	}
	if outSlug == "index" {
		return ""
	}
	return layout.TitleFromSlug(slug)
}
