// Package layout composes rendered markdown into complete HTML pages.
//
// Three html/template layouts are used: main.html wraps every page with the
// navigation bar, blog.html lays out a single blog entry and
// blog-entry-index.html renders one entry of the blog index. Defaults are
// embedded; a templates directory may override any of them by file name.
package layout

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/blog"
	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/storage"
)

// Layout file names.
const (
	MainTemplate       = "main.html"
	EntryTemplate      = "blog.html"
	EntryIndexTemplate = "blog-entry-index.html"
)

// BlogActive is the navigation id marked on blog entries and the blog index.
const BlogActive = "blog"

// EmptyBlogMessage is the blog index body when there are no entries.
const EmptyBlogMessage = "<p>No blog entries yet.</p>"

//go:embed templates/*.html
var embeddedTemplates embed.FS

// Options configures a Composer.
type Options struct {
	Site   config.SiteConfig
	Navbar Navbar
	// FS and TemplatesDir locate optional overrides. Either may be empty.
	FS           storage.FS
	TemplatesDir string
}

// Composer renders pages into the site layouts. Templates are parsed once.
type Composer struct {
	site    config.SiteConfig
	navbar  Navbar
	main    *template.Template
	entry   *template.Template
	index   *template.Template
	sources map[string]string
}

// PageData is the input of ComposePage.
type PageData struct {
	Title       string
	Content     string // Rendered HTML body
	Active      string // Navigation id to mark
	Root        string // Prefix from the page's directory back to the site root
	Description string
	Canonical   string
	Image       string
}

type mainView struct {
	Site        config.SiteConfig
	Title       string
	Description string
	Canonical   string
	Image       string
	Root        string
	Nav         []NavItem
	Content     template.HTML
}

type entryView struct {
	Title    string
	Date     string
	ReadTime string
	TOC      template.HTML
	Content  template.HTML
	Prev     string
	Next     string
	Index    string
}

type entryIndexView struct {
	Title     string
	Date      string
	ReadTime  string
	Summary   string
	Href      string
	Thumbnail string
}

// NewComposer parses the layouts, preferring files under opts.TemplatesDir.
func NewComposer(opts Options) (*Composer, error) {
	c := &Composer{
		site:    opts.Site,
		navbar:  opts.Navbar,
		sources: make(map[string]string, 3),
	}

	var err error
	if c.main, err = c.load(opts, MainTemplate); err != nil {
		return nil, err
	}
	if c.entry, err = c.load(opts, EntryTemplate); err != nil {
		return nil, err
	}
	if c.index, err = c.load(opts, EntryIndexTemplate); err != nil {
		return nil, err
	}
	return c, nil
}

// TemplateSources reports where each layout was loaded from ("embedded" or a file path).
func (c *Composer) TemplateSources() map[string]string {
	out := make(map[string]string, len(c.sources))
	for k, v := range c.sources {
		out[k] = v
	}
	return out
}

func (c *Composer) load(opts Options, name string) (*template.Template, error) {
	raw, source, err := readTemplate(opts, name)
	if err != nil {
		return nil, err
	}
	tpl, err := template.New(name).Option("missingkey=error").Parse(raw)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "failed to parse layout template").
			WithContext("template", name).
			WithContext("source", source).
			Build()
	}
	c.sources[name] = source
	slog.Debug("Layout template loaded", slog.String("template", name), logfields.Source(source))
	return tpl, nil
}

func readTemplate(opts Options, name string) (raw, source string, err error) {
	if opts.FS != nil && opts.TemplatesDir != "" {
		p := filepath.Join(opts.TemplatesDir, name)
		exists, statErr := opts.FS.Exists(p)
		if statErr != nil {
			return "", "", errors.WrapError(statErr, errors.CategoryFileSystem, "failed to stat layout template").
				WithContext("path", p).
				Build()
		}
		if exists {
			b, readErr := opts.FS.ReadFile(p)
			if readErr != nil {
				return "", "", errors.WrapError(readErr, errors.CategoryFileSystem, "failed to read layout template").
					WithContext("path", p).
					Build()
			}
			if strings.TrimSpace(string(b)) != "" {
				return string(b), p, nil
			}
		}
	}

	b, err := embeddedTemplates.ReadFile("templates/" + name)
	if err != nil {
		return "", "", errors.InternalError("embedded layout template missing").
			WithCause(err).
			WithContext("template", name).
			Build()
	}
	return string(b), "embedded", nil
}

// ComposePage renders a page body inside the main layout.
func (c *Composer) ComposePage(page PageData) (string, error) {
	view := mainView{
		Site:        c.site,
		Title:       page.Title,
		Description: page.Description,
		Canonical:   page.Canonical,
		Image:       page.Image,
		Root:        page.Root,
		Nav:         c.navbar.Items(page.Active),
		Content:     template.HTML(page.Content), // #nosec G203 -- rendered from local markdown sources
	}
	return execute(c.main, view)
}

// ComposeBlogEntry renders a blog entry page: the entry layout wrapped in the
// main layout with the blog section active.
func (c *Composer) ComposeBlogEntry(e blog.Entry) (string, error) {
	var htmlBody, toc string
	if e.Doc != nil {
		htmlBody, toc = e.Doc.HTML, e.Doc.TOC
	}

	body, err := execute(c.entry, entryView{
		Title:    e.Title,
		Date:     e.DateText,
		ReadTime: e.ReadTime.Text,
		TOC:      template.HTML(toc),      // #nosec G203 -- generated from heading ids
		Content:  template.HTML(htmlBody), // #nosec G203 -- rendered from local markdown sources
		Prev:     e.Prev,
		Next:     e.Next,
		Index:    "../../" + BlogActive + ".html",
	})
	if err != nil {
		return "", err
	}

	page := PageData{
		Title:       e.Title,
		Content:     body,
		Active:      BlogActive,
		Root:        "../../",
		Description: e.Summary,
		Canonical:   c.AbsoluteURL(e.Href),
	}
	if e.Thumbnail != "" {
		page.Image = c.AbsoluteURL(e.Thumbnail)
	}
	return c.ComposePage(page)
}

// ComposeBlogIndex renders the blog index listing every entry in order.
func (c *Composer) ComposeBlogIndex(entries []blog.Entry) (string, error) {
	body := EmptyBlogMessage
	if len(entries) > 0 {
		var b strings.Builder
		for _, e := range entries {
			part, err := execute(c.index, entryIndexView{
				Title:     e.Title,
				Date:      e.DateText,
				ReadTime:  e.ReadTime.Text,
				Summary:   e.Summary,
				Href:      e.Href,
				Thumbnail: e.Thumbnail,
			})
			if err != nil {
				return "", err
			}
			b.WriteString(part)
		}
		body = b.String()
	}

	return c.ComposePage(PageData{
		Title:     TitleFromSlug(BlogActive),
		Content:   body,
		Active:    BlogActive,
		Canonical: c.AbsoluteURL(BlogActive + ".html"),
	})
}

// AbsoluteURL joins a site-relative path onto the configured base URL.
func (c *Composer) AbsoluteURL(rel string) string {
	return strings.TrimRight(c.site.BaseURL, "/") + "/" + strings.TrimLeft(filepath.ToSlash(rel), "/")
}

func execute(tpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", errors.WrapError(err, errors.CategoryRender, "failed to execute layout template").
			WithContext("template", tpl.Name()).
			Build()
	}
	return buf.String(), nil
}
