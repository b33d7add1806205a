package blog

import (
	"fmt"
	"path"
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
	"git.home.luguber.info/inful/sitebuilder/internal/markdown"
)

// OutputDir is the output subdirectory holding blog entries.
const OutputDir = "blog"

// Entry is a rendered blog document placed in the chronological sequence.
type Entry struct {
	Source    content.SourceDocument
	Doc       *markdown.Document
	Date      time.Time
	DateText  string
	Title     string
	Summary   string
	ReadTime  markdown.ReadTime
	Href      string // Output path relative to the site root
	Thumbnail string // Thumbnail path relative to the site root; empty when disabled
	Prev      string // Relative to the entry's own directory; empty at the newest entry
	Next      string // Relative to the entry's own directory; empty at the oldest entry
}

// OutputPath returns the site-relative output path of a sorted document:
// blog/<date>/<slug>.html.
func OutputPath(r Rendered) string {
	return path.Join(OutputDir, r.DateString(), r.Source.Slug+".html")
}

// entryLink is the path to an entry as seen from another entry's directory.
func entryLink(r Rendered) string {
	return path.Join("..", r.DateString(), r.Source.Slug+".html")
}

// Link projects a sorted sequence onto entries with previous and next links.
// Entry i links to i-1 as previous and i+1 as next.
func Link(sorted []Rendered) []Entry {
	entries := make([]Entry, len(sorted))
	for i, r := range sorted {
		meta := markdown.Metadata{}
		var rt markdown.ReadTime
		if r.Doc != nil {
			meta = r.Doc.Meta
			rt = r.Doc.ReadTime
		}
		meta = meta.Resolved()

		e := Entry{
			Source:   r.Source,
			Doc:      r.Doc,
			Date:     r.Date,
			DateText: r.DateString(),
			Title:    meta.Title,
			Summary:  meta.Summary,
			ReadTime: rt,
			Href:     OutputPath(r),
		}
		if i > 0 {
			e.Prev = entryLink(sorted[i-1])
		}
		if i < len(sorted)-1 {
			e.Next = entryLink(sorted[i+1])
		}
		entries[i] = e
	}
	return entries
}

// ThumbnailOptions controls AssignThumbnails.
type ThumbnailOptions struct {
	Disabled bool
	BySorted bool   // Number by sorted position instead of discovery position
	Pattern  string // fmt pattern receiving the index
}

// AssignThumbnails sets the thumbnail path of every entry. The index is the
// entry's discovery position unless opts.BySorted is set.
func AssignThumbnails(entries []Entry, opts ThumbnailOptions) {
	for i := range entries {
		if opts.Disabled || opts.Pattern == "" {
			entries[i].Thumbnail = ""
			continue
		}
		index := entries[i].Source.Index
		if opts.BySorted {
			index = i
		}
		entries[i].Thumbnail = fmt.Sprintf(opts.Pattern, index)
	}
}
