// Package frontmatter separates a leading metadata header from a markdown body.
//
// Two header shapes are recognised: a `---` delimited YAML block, and a run of
// `key: value` lines at the very top of the document terminated by a blank
// line. A header that cannot be parsed never fails the caller; it simply
// yields fewer fields.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Kind identifies the header shape found at the top of a document.
type Kind int

const (
	KindNone   Kind = iota // no header; Body is the whole document
	KindYAML               // `---` delimited YAML block
	KindInline             // leading `key: value` lines
)

// Block is a document split into its metadata header and markdown body.
type Block struct {
	Kind Kind
	Raw  []byte // Header bytes without delimiters
	Body []byte
}

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

var inlineKeyLine = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*:(\s|$)`)

// Split separates YAML frontmatter (`---` delimited) from the Markdown body.
//
// If the document does not start with a YAML frontmatter delimiter, had is false
// and body is the full input.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, err error) {
	nl := detectNewline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	frontmatterStart := len(open)
	closeLine := []byte("---" + nl)
	if bytes.HasPrefix(content[frontmatterStart:], closeLine) {
		bodyStart := frontmatterStart + len(closeLine)
		return []byte{}, content[bodyStart:], true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[frontmatterStart:], closeSeq)
	if idx < 0 {
		// Closing delimiter at EOF without trailing newline.
		if bytes.HasSuffix(content, []byte(nl+"---")) {
			end := len(content) - len(nl+"---")
			return content[frontmatterStart : end+len(nl)], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}

	frontmatterEnd := frontmatterStart + idx + len(nl)
	bodyStart := frontmatterStart + idx + len(closeSeq)
	return content[frontmatterStart:frontmatterEnd], content[bodyStart:], true, nil
}

// Extract finds the metadata header of a document, if any.
func Extract(content []byte) Block {
	fm, body, had, err := Split(content)
	if err == nil && had {
		return Block{Kind: KindYAML, Raw: fm, Body: body}
	}
	// An unterminated `---` block is treated as ordinary markdown.
	if raw, rest, ok := splitInline(content); ok {
		return Block{Kind: KindInline, Raw: raw, Body: rest}
	}
	return Block{Kind: KindNone, Body: content}
}

// Fields returns the header as normalised string values. YAML that does not
// parse falls back to line-by-line `key: value` parsing.
func (b Block) Fields() map[string]string {
	switch b.Kind {
	case KindYAML:
		if fields, err := ParseYAML(b.Raw); err == nil {
			return stringify(fields)
		}
		return parseLines(b.Raw)
	case KindInline:
		return parseLines(b.Raw)
	default:
		return map[string]string{}
	}
}

// ParseYAML parses raw YAML frontmatter (without --- delimiters) into a map.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// StripQuotes removes one pair of matching surrounding quote characters.
func StripQuotes(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 {
		first, last := v[0], v[len(v)-1]
		if (first == '\'' || first == '"') && first == last {
			return strings.TrimSpace(v[1 : len(v)-1])
		}
	}
	return v
}

func splitInline(content []byte) (raw []byte, body []byte, ok bool) {
	offset := 0
	for offset < len(content) {
		end := bytes.IndexByte(content[offset:], '\n')
		lineEnd := len(content)
		next := len(content)
		if end >= 0 {
			lineEnd = offset + end
			next = lineEnd + 1
		}
		line := strings.TrimRight(string(content[offset:lineEnd]), "\r")
		if strings.TrimSpace(line) == "" {
			if offset == 0 {
				return nil, content, false
			}
			return content[:offset], content[next:], true
		}
		if !inlineKeyLine.MatchString(line) {
			if offset == 0 {
				return nil, content, false
			}
			return content[:offset], content[offset:], true
		}
		offset = next
	}
	if offset == 0 {
		return nil, content, false
	}
	return content, []byte{}, true
}

func parseLines(raw []byte) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimRight(line, "\r")
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" || strings.ContainsAny(key, " \t") {
			continue
		}
		fields[key] = StripQuotes(value)
	}
	return fields
}

func stringify(fields map[string]any) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		key := strings.ToLower(strings.TrimSpace(k))
		switch val := v.(type) {
		case nil:
			out[key] = ""
		case string:
			out[key] = StripQuotes(val)
		case time.Time:
			out[key] = val.Format("2006-01-02")
		case []any:
			parts := make([]string, 0, len(val))
			for _, item := range val {
				parts = append(parts, fmt.Sprint(item))
			}
			out[key] = strings.Join(parts, ", ")
		default:
			out[key] = fmt.Sprint(val)
		}
	}
	return out
}

func detectNewline(content []byte) string {
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			return "\r\n"
		}
		if content[i] == '\n' {
			return "\n"
		}
	}
	return "\n"
}
