// Package assets mirrors static files and per-entry blog assets into the
// output tree.
package assets

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/content"
	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/storage"
)

// Mirror copies asset trees. A Mirror belongs to a single build.
type Mirror struct {
	fs        storage.FS
	overwrite bool
	policy    config.AssetPolicy
	recorder  metrics.Recorder
	seenDirs  map[string]bool
}

// NewMirror creates a mirror. policy decides whether a missing per-entry
// asset folder fails the build.
func NewMirror(fsys storage.FS, overwrite bool, policy config.AssetPolicy, recorder metrics.Recorder) *Mirror {
	if policy == "" {
		policy = config.AssetPolicyOptional
	}
	return &Mirror{
		fs:        fsys,
		overwrite: overwrite,
		policy:    policy,
		recorder:  metrics.OrNoop(recorder),
		seenDirs:  make(map[string]bool),
	}
}

// MirrorStatic copies the global static tree src to dst. src must exist.
func (m *Mirror) MirrorStatic(src, dst string) (int, error) {
	exists, err := m.isDir(src)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, errors.AssetCopyError("static asset directory not found").
			WithContext("path", src).
			Build()
	}
	return m.mirrorTree(src, dst)
}

// MirrorEntryAssets copies the asset folder of a blog document (<slug>_files)
// and any non-markdown files next to it into dstDir.
func (m *Mirror) MirrorEntryAssets(doc content.SourceDocument, dstDir string) (int, error) {
	total := 0

	assetDir := content.AssetDir(doc)
	exists, err := m.isDir(assetDir)
	if err != nil {
		return 0, err
	}
	switch {
	case exists:
		n, err := m.mirrorTree(assetDir, filepath.Join(dstDir, filepath.Base(assetDir)))
		if err != nil {
			return total, err
		}
		total += n
	case m.policy == config.AssetPolicyRequired:
		return 0, errors.AssetCopyError("blog entry asset directory not found").
			WithContext("path", assetDir).
			WithContext("slug", doc.Slug).
			Build()
	default:
		slog.Debug("No entry asset directory", logfields.Path(assetDir), logfields.Slug(doc.Slug))
	}

	n, err := m.copyColocated(doc.Dir(), dstDir)
	total += n
	return total, err
}

// mirrorTree replaces dst with a copy of src. Without overwrite an existing
// dst is an error; with overwrite it is removed first, never merged.
func (m *Mirror) mirrorTree(src, dst string) (int, error) {
	dstExists, err := m.fs.Exists(dst)
	if err != nil {
		return 0, errors.WrapError(err, errors.CategoryFileSystem, "failed to stat asset destination").
			WithContext("path", dst).
			Build()
	}
	if dstExists {
		if !m.overwrite {
			return 0, errors.AlreadyExistsError("asset destination already exists").
				WithContext("path", dst).
				Build()
		}
		if err := m.fs.RemoveAll(dst); err != nil {
			return 0, errors.WrapError(err, errors.CategoryAssetCopy, "failed to remove asset destination").
				WithContext("path", dst).
				Build()
		}
	}

	copied, err := storage.CopyDir(m.fs, src, dst)
	m.recorder.AddAssetsCopied(copied)
	if err != nil {
		return copied, errors.WrapError(err, errors.CategoryAssetCopy, "failed to copy assets").
			WithContext("source", src).
			WithContext("path", dst).
			Build()
	}
	slog.Debug("Mirrored asset tree", logfields.Source(src), logfields.Output(dst), logfields.Count(copied))
	return copied, nil
}

// copyColocated copies loose non-markdown files of srcDir once per build.
func (m *Mirror) copyColocated(srcDir, dstDir string) (int, error) {
	if m.seenDirs[srcDir] {
		return 0, nil
	}
	m.seenDirs[srcDir] = true

	entries, err := m.fs.ReadDir(srcDir)
	if err != nil {
		return 0, errors.WrapError(err, errors.CategoryAssetCopy, "failed to list entry directory").
			WithContext("path", srcDir).
			Build()
	}

	copied := 0
	for _, entry := range entries {
		if entry.IsDir() || !isColocatedAsset(entry) {
			continue
		}
		src := filepath.Join(srcDir, entry.Name())
		dst := filepath.Join(dstDir, entry.Name())

		if !m.overwrite {
			exists, err := m.fs.Exists(dst)
			if err != nil {
				return copied, errors.WrapError(err, errors.CategoryFileSystem, "failed to stat asset destination").
					WithContext("path", dst).
					Build()
			}
			if exists {
				return copied, errors.AlreadyExistsError("asset destination already exists").
					WithContext("path", dst).
					Build()
			}
		}
		if err := m.fs.CopyFile(src, dst); err != nil {
			return copied, errors.WrapError(err, errors.CategoryAssetCopy, "failed to copy entry asset").
				WithContext("source", src).
				WithContext("path", dst).
				Build()
		}
		copied++
	}
	m.recorder.AddAssetsCopied(copied)
	return copied, nil
}

func (m *Mirror) isDir(p string) (bool, error) {
	info, err := m.fs.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.WrapError(err, errors.CategoryFileSystem, "failed to stat asset source").
			WithContext("path", p).
			Build()
	}
	return info.IsDir(), nil
}

func isColocatedAsset(info os.FileInfo) bool {
	name := info.Name()
	if strings.HasPrefix(name, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	return ext != ".md" && ext != ".markdown"
}
