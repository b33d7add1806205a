package markdown

import "strings"

// Placeholders substituted for metadata a document does not declare.
const (
	TitlePlaceholder   = "Title missing"
	DatePlaceholder    = "Date missing"
	SummaryPlaceholder = "Summary missing"
)

// Metadata is the header of a document. Empty fields were not declared.
type Metadata struct {
	Title   string
	Date    string
	Summary string
	Extra   map[string]string // Every other key, lower-cased, quotes stripped
}

// MetadataFromFields maps normalised header fields onto a Metadata record.
func MetadataFromFields(fields map[string]string) Metadata {
	m := Metadata{Extra: map[string]string{}}
	for k, v := range fields {
		switch strings.ToLower(k) {
		case "title":
			m.Title = v
		case "date":
			m.Date = v
		case "summary":
			m.Summary = v
		default:
			m.Extra[strings.ToLower(k)] = v
		}
	}
	return m
}

// Has reports whether key was declared with a non-empty value.
func (m Metadata) Has(key string) bool {
	return m.lookup(key) != ""
}

// Get returns the declared value of key, or "" when absent.
func (m Metadata) Get(key string) string {
	return m.lookup(key)
}

// Resolved returns a copy with placeholders for undeclared title, date and summary.
func (m Metadata) Resolved() Metadata {
	out := Metadata{Title: m.Title, Date: m.Date, Summary: m.Summary, Extra: make(map[string]string, len(m.Extra))}
	for k, v := range m.Extra {
		out.Extra[k] = v
	}
	if out.Title == "" {
		out.Title = TitlePlaceholder
	}
	if out.Date == "" {
		out.Date = DatePlaceholder
	}
	if out.Summary == "" {
		out.Summary = SummaryPlaceholder
	}
	return out
}

func (m Metadata) lookup(key string) string {
	switch strings.ToLower(key) {
	case "title":
		return m.Title
	case "date":
		return m.Date
	case "summary":
		return m.Summary
	default:
		return m.Extra[strings.ToLower(key)]
	}
}
