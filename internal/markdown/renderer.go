// Package markdown renders source documents to HTML with goldmark and
// extracts the metadata, table of contents and reading time a page needs.
package markdown

import (
	"bytes"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/frontmatter"
)

// Mode selects the feature set applied to a document.
type Mode int

const (
	// ModePage renders ordinary site pages: heading ids, no table of contents.
	ModePage Mode = iota
	// ModeBlog adds metadata headers, a table of contents and fenced code highlighting.
	ModeBlog
)

func (m Mode) String() string {
	if m == ModeBlog {
		return "blog"
	}
	return "page"
}

const defaultHighlightStyle = "monokai"

// Options controls how markdown is rendered.
type Options struct {
	Highlight      bool
	HighlightStyle string
	WordsPerMinute int
}

// Document is the result of rendering one source document. It is not
// modified after Render returns.
type Document struct {
	HTML     string
	TOC      string // Empty unless rendered in ModeBlog and the body has headings
	Meta     Metadata
	ReadTime ReadTime
}

// Renderer converts markdown to HTML. A Renderer is safe for sequential reuse
// across documents of a build.
type Renderer struct {
	opts Options
	page goldmark.Markdown
	blog goldmark.Markdown
}

// NewRenderer creates a renderer for both page and blog documents.
func NewRenderer(opts Options) *Renderer {
	if opts.WordsPerMinute <= 0 {
		opts.WordsPerMinute = DefaultWordsPerMinute
	}
	if opts.HighlightStyle == "" {
		opts.HighlightStyle = defaultHighlightStyle
	}

	page := goldmark.New(
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)

	blogExtensions := []goldmark.Extender{extension.GFM}
	if opts.Highlight {
		blogExtensions = append(blogExtensions, highlighting.NewHighlighting(
			highlighting.WithStyle(opts.HighlightStyle),
			highlighting.WithFormatOptions(chromahtml.TabWidth(4)),
		))
	}
	blog := goldmark.New(
		goldmark.WithExtensions(blogExtensions...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)

	return &Renderer{opts: opts, page: page, blog: blog}
}

// Render converts raw markdown into a Document. Metadata that cannot be
// parsed leaves fields unset; it never fails the render.
func (r *Renderer) Render(raw []byte, mode Mode) (*Document, error) {
	md := r.page
	var block frontmatter.Block
	switch mode {
	case ModeBlog:
		md = r.blog
		block = frontmatter.Extract(raw)
	default:
		// Pages only honour a fenced YAML block; a leading "key: value"
		// line on a page is ordinary prose.
		if fm, body, had, err := frontmatter.Split(raw); err == nil && had {
			block = frontmatter.Block{Kind: frontmatter.KindYAML, Raw: fm, Body: body}
		} else {
			block = frontmatter.Block{Kind: frontmatter.KindNone, Body: raw}
		}
	}

	body := block.Body
	root := md.Parser().Parse(text.NewReader(body))

	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, body, root); err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "markdown rendering failed").
			WithContext("mode", mode.String()).
			Build()
	}

	doc := &Document{
		HTML: buf.String(),
		Meta: MetadataFromFields(block.Fields()),
	}
	if mode == ModeBlog {
		tocHTML, err := renderTOC(root, body, md.Renderer())
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryRender, "table of contents rendering failed").Build()
		}
		doc.TOC = tocHTML
	}
	doc.ReadTime = EstimateReadTime(doc.HTML, r.opts.WordsPerMinute)
	return doc, nil
}
