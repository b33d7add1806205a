package blog

import (
	"sort"
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/content"
	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/frontmatter"
	"git.home.luguber.info/inful/sitebuilder/internal/markdown"
)

// DateLayout is the only accepted publication date format.
const DateLayout = "2006-01-02"

// Rendered pairs a blog source document with its rendered form.
type Rendered struct {
	Source content.SourceDocument
	Doc    *markdown.Document
	Date   time.Time // Publication date, set by Sort
}

// DateString returns the publication date in DateLayout.
func (r Rendered) DateString() string {
	return r.Date.Format(DateLayout)
}

// Sort returns docs ordered by publication date, most recent first. Documents
// with the same date keep their discovery order. A date that does not parse
// fails the whole sort with a DateParseError naming the document.
func Sort(docs []Rendered, source config.DateSource) ([]Rendered, error) {
	sorted := make([]Rendered, len(docs))
	copy(sorted, docs)

	for i := range sorted {
		date, err := PublicationDate(sorted[i], source)
		if err != nil {
			return nil, err
		}
		sorted[i].Date = date
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	return sorted, nil
}

// PublicationDate parses the date of a document from its directory name or
// its metadata, depending on source.
func PublicationDate(r Rendered, source config.DateSource) (time.Time, error) {
	raw := r.Source.DirName
	if source == config.DateSourceMetadata {
		raw = ""
		if r.Doc != nil {
			raw = frontmatter.StripQuotes(r.Doc.Meta.Date)
		}
	}

	date, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, errors.DateParseError("blog entry date does not match YYYY-MM-DD").
			WithCause(err).
			WithContext("path", r.Source.Path).
			WithContext("date", raw).
			WithContext("source", string(source)).
			Build()
	}
	return date, nil
}
