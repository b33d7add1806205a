// Package output writes generated pages below the output root and enforces
// the overwrite policy of a build.
package output

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/storage"
)

// Artifact is a generated file waiting to be written.
type Artifact struct {
	Path    string // Relative to the output root
	Content string
	Kind    string // page, blog_entry, blog_index
}

// Writer writes artifacts below an output root.
type Writer struct {
	fs        storage.FS
	root      string
	overwrite bool
	recorder  metrics.Recorder
}

// NewWriter creates a writer for root. With overwrite false an existing file
// is never replaced.
func NewWriter(fsys storage.FS, root string, overwrite bool, recorder metrics.Recorder) *Writer {
	return &Writer{fs: fsys, root: root, overwrite: overwrite, recorder: metrics.OrNoop(recorder)}
}

// Root returns the output root.
func (w *Writer) Root() string { return w.root }

// Overwrite reports the overwrite policy in effect.
func (w *Writer) Overwrite() bool { return w.overwrite }

// Write writes content to rel below the output root, creating parent
// directories. It returns the full path written.
func (w *Writer) Write(rel, content string) (string, error) {
	return w.WriteArtifact(Artifact{Path: rel, Content: content, Kind: "page"})
}

// WriteArtifact writes a. An existing destination fails with an
// AlreadyExistsError unless the writer overwrites.
func (w *Writer) WriteArtifact(a Artifact) (string, error) {
	fullPath, err := w.Resolve(a.Path)
	if err != nil {
		return "", err
	}

	err = w.fs.WriteFile(fullPath, []byte(a.Content), !w.overwrite)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrExist):
		return "", ferrors.AlreadyExistsError("output file already exists").
			WithContext("path", fullPath).
			Build()
	default:
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "write output file").
			WithContext("path", fullPath).
			Build()
	}

	w.recorder.IncFilesWritten(a.Kind)
	slog.Debug("Wrote output file", logfields.Output(fullPath), logfields.Overwrite(w.overwrite))
	return fullPath, nil
}

// Resolve joins rel onto the output root, rejecting paths that leave it.
func (w *Writer) Resolve(rel string) (string, error) {
	if rel == "" {
		return "", ferrors.ValidationError("output path is required").Build()
	}

	cleanRel := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(cleanRel) || cleanRel == ".." || strings.HasPrefix(cleanRel, ".."+string(filepath.Separator)) {
		return "", ferrors.ValidationError("output path must be relative to the output root").
			WithContext("path", rel).
			Build()
	}

	fullPath := filepath.Join(w.root, cleanRel)
	if r, err := filepath.Rel(w.root, fullPath); err != nil || strings.HasPrefix(r, "..") {
		return "", ferrors.ValidationError("output path escapes the output root").
			WithContext("path", rel).
			Build()
	}
	return fullPath, nil
}
