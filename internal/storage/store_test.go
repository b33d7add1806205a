package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]FS {
	t.Helper()
	return map[string]FS{
		"memory": NewMemory(),
		"os":     NewOS(t.TempDir()),
	}
}

func TestWriteAndReadFile(t *testing.T) {
	for name, fsys := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, fsys.WriteFile("out/blog/2024-02-10/post.html", []byte("hello"), false))

			data, err := fsys.ReadFile("out/blog/2024-02-10/post.html")
			require.NoError(t, err)
			assert.Equal(t, "hello", string(data))

			exists, err := fsys.Exists("out/blog")
			require.NoError(t, err)
			assert.True(t, exists)
		})
	}
}

func TestWriteFileExclusive(t *testing.T) {
	for name, fsys := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, fsys.WriteFile("index.html", []byte("first"), true))

			err := fsys.WriteFile("index.html", []byte("second"), true)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrExist))

			require.NoError(t, fsys.WriteFile("index.html", []byte("third"), false))
			data, err := fsys.ReadFile("index.html")
			require.NoError(t, err)
			assert.Equal(t, "third", string(data))
		})
	}
}

func TestExistsMissing(t *testing.T) {
	for name, fsys := range backends(t) {
		t.Run(name, func(t *testing.T) {
			exists, err := fsys.Exists("nope")
			require.NoError(t, err)
			assert.False(t, exists)

			_, err = fsys.ReadDir("nope")
			assert.True(t, os.IsNotExist(err))
		})
	}
}

func TestCopyDirAndRemoveAll(t *testing.T) {
	for name, fsys := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, fsys.WriteFile("static/css/site.css", []byte("body{}"), false))
			require.NoError(t, fsys.WriteFile("static/images/logo.png", []byte{0x89, 0x50}, false))

			copied, err := CopyDir(fsys, "static", filepath.Join("site", "static"))
			require.NoError(t, err)
			assert.Equal(t, 2, copied)

			data, err := fsys.ReadFile("site/static/css/site.css")
			require.NoError(t, err)
			assert.Equal(t, "body{}", string(data))

			require.NoError(t, fsys.RemoveAll("site"))
			exists, err := fsys.Exists("site")
			require.NoError(t, err)
			assert.False(t, exists)

			exists, err = fsys.Exists("static/css/site.css")
			require.NoError(t, err)
			assert.True(t, exists)
		})
	}
}

func TestWalkLexicalOrder(t *testing.T) {
	fsys := NewMemory()
	for _, p := range []string{"c/b.md", "c/a.md", "c/sub/z.md"} {
		require.NoError(t, fsys.WriteFile(p, []byte("x"), false))
	}

	var files []string
	err := fsys.Walk("c", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files = append(files, filepath.ToSlash(path))
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"c/a.md", "c/b.md", "c/sub/z.md"}, files)
}
