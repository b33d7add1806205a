// Package storage is the filesystem boundary of the build pipeline.
//
// Every read, write, copy and removal the pipeline performs goes through FS so
// rendering, ordering and linking stay testable without touching disk: tests
// inject NewMemory, the CLI injects NewOS.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

const (
	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644
)

// ErrExist is returned by WriteFile in exclusive mode when the target exists.
var ErrExist = os.ErrExist

// FS is the storage interface injected into every pipeline stage.
type FS interface {
	// ReadFile returns the full contents of name.
	ReadFile(name string) ([]byte, error)
	// WriteFile writes data to name, creating parent directories. When
	// exclusive is true an existing file is never replaced and ErrExist is returned.
	WriteFile(name string, data []byte, exclusive bool) error
	// Stat describes name.
	Stat(name string) (os.FileInfo, error)
	// Exists reports whether name exists.
	Exists(name string) (bool, error)
	// ReadDir lists the entries of a directory sorted by name.
	ReadDir(name string) ([]os.FileInfo, error)
	// MkdirAll creates a directory and any missing parents.
	MkdirAll(name string) error
	// RemoveAll removes a path and everything below it.
	RemoveAll(name string) error
	// Walk visits every entry below root in lexical order.
	Walk(root string, fn filepath.WalkFunc) error
	// CopyFile copies a single file, creating parent directories of dst.
	CopyFile(src, dst string) error
}

// BillyFS adapts a go-billy filesystem to FS.
type BillyFS struct {
	fs billy.Filesystem
}

var _ FS = (*BillyFS)(nil)

// NewOS returns an FS backed by the operating system, rooted at baseDir.
func NewOS(baseDir string) *BillyFS {
	return &BillyFS{fs: osfs.New(baseDir)}
}

// NewMemory returns an empty in-memory FS.
func NewMemory() *BillyFS {
	return &BillyFS{fs: memfs.New()}
}

// Wrap adapts an existing billy filesystem.
func Wrap(fs billy.Filesystem) *BillyFS {
	return &BillyFS{fs: fs}
}

func (b *BillyFS) ReadFile(name string) ([]byte, error) {
	f, err := b.fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}

func (b *BillyFS) WriteFile(name string, data []byte, exclusive bool) error {
	if dir := filepath.Dir(name); dir != "." && dir != "" {
		if err := b.fs.MkdirAll(dir, dirPerm); err != nil {
			return fmt.Errorf("create parent directory: %w", err)
		}
	}

	flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if exclusive {
		flag = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := b.fs.OpenFile(name, flag, filePerm)
	if err != nil {
		if exclusive && errors.Is(err, os.ErrExist) {
			return ErrExist
		}
		return err
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (b *BillyFS) Stat(name string) (os.FileInfo, error) {
	return b.fs.Stat(name)
}

func (b *BillyFS) Exists(name string) (bool, error) {
	_, err := b.fs.Stat(name)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (b *BillyFS) ReadDir(name string) ([]os.FileInfo, error) {
	return b.fs.ReadDir(name)
}

func (b *BillyFS) MkdirAll(name string) error {
	return b.fs.MkdirAll(name, dirPerm)
}

func (b *BillyFS) RemoveAll(name string) error {
	return util.RemoveAll(b.fs, name)
}

func (b *BillyFS) Walk(root string, fn filepath.WalkFunc) error {
	return util.Walk(b.fs, root, fn)
}

func (b *BillyFS) CopyFile(src, dst string) error {
	in, err := b.fs.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	if dir := filepath.Dir(dst); dir != "." && dir != "" {
		if err := b.fs.MkdirAll(dir, dirPerm); err != nil {
			return fmt.Errorf("create parent directory: %w", err)
		}
	}

	perm := filePerm
	if info, err := b.fs.Stat(src); err == nil {
		perm = info.Mode().Perm()
	}

	out, err := b.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// CopyDir recursively copies the tree at src to dst.
func CopyDir(fsys FS, src, dst string) (int, error) {
	copied := 0
	err := fsys.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return fsys.MkdirAll(target)
		}
		if err := fsys.CopyFile(path, target); err != nil {
			return err
		}
		copied++
		return nil
	})
	return copied, err
}
