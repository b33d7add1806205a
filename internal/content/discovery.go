// Package content enumerates markdown source documents under a content root.
package content

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/storage"
)

// SourceDocument is a markdown file read from the content tree. It is not
// modified after discovery.
type SourceDocument struct {
	Path    string // Path of the file within the storage
	Raw     []byte // File content
	DirName string // Immediate parent directory name (the date for blog entries)
	Slug    string // Base name without extension
	Index   int    // Position in discovery order
}

// Dir returns the directory holding the document.
func (d SourceDocument) Dir() string {
	return filepath.Dir(d.Path)
}

// Discovery enumerates pages and blog documents below a content root.
type Discovery struct {
	fs      storage.FS
	root    string
	blogDir string
}

// NewDiscovery creates a discovery for root; blogDir is the blog subdirectory name.
func NewDiscovery(fsys storage.FS, root, blogDir string) *Discovery {
	if blogDir == "" {
		blogDir = "blog"
	}
	return &Discovery{fs: fsys, root: root, blogDir: blogDir}
}

// BlogRoot returns the directory blog documents are discovered under.
func (d *Discovery) BlogRoot() string {
	return filepath.Join(d.root, d.blogDir)
}

// ListPages returns every markdown file directly under the content root.
func (d *Discovery) ListPages() ([]SourceDocument, error) {
	if err := d.checkRoot(); err != nil {
		return nil, err
	}

	entries, err := d.fs.ReadDir(d.root)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to list content root").
			WithContext("path", d.root).
			Build()
	}

	docs := make([]SourceDocument, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isMarkdownFile(entry.Name()) || isHidden(entry.Name()) {
			continue
		}
		doc, err := d.load(filepath.Join(d.root, entry.Name()), len(docs))
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	slog.Debug("Pages discovered", logfields.Path(d.root), logfields.Count(len(docs)))
	return docs, nil
}

// ListBlogDocuments returns every markdown file below the blog directory. A
// missing blog directory is an empty blog, not an error.
func (d *Discovery) ListBlogDocuments() ([]SourceDocument, error) {
	if err := d.checkRoot(); err != nil {
		return nil, err
	}

	blogRoot := d.BlogRoot()
	exists, err := d.fs.Exists(blogRoot)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to stat blog directory").
			WithContext("path", blogRoot).
			Build()
	}
	if !exists {
		slog.Info("No blog directory found", logfields.Path(blogRoot))
		return nil, nil
	}

	var docs []SourceDocument
	err = d.fs.Walk(blogRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			// Per-entry asset folders never contain entries of their own.
			if path != blogRoot && (isHidden(info.Name()) || strings.HasSuffix(info.Name(), AssetDirSuffix)) {
				return filepath.SkipDir
			}
			return nil
		}
		if !isMarkdownFile(info.Name()) || isHidden(info.Name()) {
			return nil
		}
		doc, err := d.load(path, len(docs))
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		slog.Debug("Discovered blog document", logfields.Source(path), logfields.Date(doc.DirName))
		return nil
	})
	if err != nil {
		if errors.IsClassified(err) {
			return nil, err
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "blog directory walk failed").
			WithContext("path", blogRoot).
			Build()
	}

	slog.Debug("Blog documents discovered", logfields.Path(blogRoot), logfields.Count(len(docs)))
	return docs, nil
}

func (d *Discovery) checkRoot() error {
	info, err := d.fs.Stat(d.root)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NotFoundError("content root not found").
				WithContext("path", d.root).
				Build()
		}
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to stat content root").
			WithContext("path", d.root).
			Build()
	}
	if !info.IsDir() {
		return errors.NotFoundError("content root is not a directory").
			WithContext("path", d.root).
			Build()
	}
	return nil
}

func (d *Discovery) load(path string, index int) (SourceDocument, error) {
	raw, err := d.fs.ReadFile(path)
	if err != nil {
		return SourceDocument{}, errors.WrapError(err, errors.CategoryFileSystem, "failed to read source document").
			WithContext("path", path).
			Build()
	}
	name := filepath.Base(path)
	return SourceDocument{
		Path:    path,
		Raw:     raw,
		DirName: filepath.Base(filepath.Dir(path)),
		Slug:    strings.TrimSuffix(name, filepath.Ext(name)),
		Index:   index,
	}, nil
}

// AssetDirSuffix names the per-entry asset folder next to a blog document
// (post.md -> post_files/).
const AssetDirSuffix = "_files"

// AssetDir returns the per-entry asset folder of a document.
func AssetDir(doc SourceDocument) string {
	return filepath.Join(doc.Dir(), doc.Slug+AssetDirSuffix)
}

// isMarkdownFile checks if a file is a markdown file
func isMarkdownFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".md" || ext == ".markdown"
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// String implements fmt.Stringer for log output.
func (d SourceDocument) String() string {
	return fmt.Sprintf("%s (%s)", d.Slug, d.Path)
}
