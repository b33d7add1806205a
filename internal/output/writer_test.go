package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/storage"
)

type countingRecorder struct {
	metrics.NoopRecorder
	written map[string]int
}

func (c *countingRecorder) IncFilesWritten(kind string) { c.written[kind]++ }

func TestWrite_CreatesParents(t *testing.T) {
	fsys := storage.NewMemory()
	w := NewWriter(fsys, "site", false, nil)

	full, err := w.Write("blog/2024-02-10/post.html", "<html></html>")
	require.NoError(t, err)
	assert.Equal(t, "site/blog/2024-02-10/post.html", full)

	data, err := fsys.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(data))
}

func TestWrite_ExistingWithoutOverwriteFails(t *testing.T) {
	fsys := storage.NewMemory()
	require.NoError(t, fsys.WriteFile("site/index.html", []byte("hand written"), false))

	_, err := NewWriter(fsys, "site", false, nil).Write("index.html", "generated")
	require.Error(t, err)
	assert.True(t, errors.IsAlreadyExists(err))

	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	p, _ := ce.Context().GetString("path")
	assert.Equal(t, "site/index.html", p)

	data, err := fsys.ReadFile("site/index.html")
	require.NoError(t, err)
	assert.Equal(t, "hand written", string(data))
}

func TestWrite_OverwriteReplaces(t *testing.T) {
	fsys := storage.NewMemory()
	require.NoError(t, fsys.WriteFile("site/index.html", []byte("a much longer old body"), false))

	_, err := NewWriter(fsys, "site", true, nil).Write("index.html", "new")
	require.NoError(t, err)

	data, err := fsys.ReadFile("site/index.html")
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestWrite_RejectsEscapingPaths(t *testing.T) {
	w := NewWriter(storage.NewMemory(), "site", true, nil)

	for _, rel := range []string{"", "../outside.html", "/etc/passwd", "blog/../../x.html"} {
		_, err := w.Write(rel, "x")
		require.Error(t, err, rel)
		assert.True(t, errors.HasCategory(err, errors.CategoryValidation), rel)
	}
}

func TestWriteArtifact_RecordsKind(t *testing.T) {
	rec := &countingRecorder{written: map[string]int{}}
	w := NewWriter(storage.NewMemory(), "site", false, rec)

	_, err := w.WriteArtifact(Artifact{Path: "blog.html", Content: "x", Kind: "blog_index"})
	require.NoError(t, err)
	_, err = w.WriteArtifact(Artifact{Path: "blog.html", Content: "x", Kind: "blog_index"})
	require.Error(t, err)

	assert.Equal(t, 1, rec.written["blog_index"])
}
