package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/content"
	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/storage"
)

func seed(t *testing.T, files map[string]string) storage.FS {
	t.Helper()
	fsys := storage.NewMemory()
	for p, body := range files {
		require.NoError(t, fsys.WriteFile(p, []byte(body), false))
	}
	return fsys
}

func entryDoc(dir, slug string) content.SourceDocument {
	return content.SourceDocument{
		Path:    "content/blog/" + dir + "/" + slug + ".md",
		DirName: dir,
		Slug:    slug,
	}
}

func TestMirrorStatic(t *testing.T) {
	fsys := seed(t, map[string]string{
		"static/css/style.css": "body{}",
		"static/images/me.png": "png",
	})

	n, err := NewMirror(fsys, false, "", nil).MirrorStatic("static", "site/static")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := fsys.ReadFile("site/static/css/style.css")
	require.NoError(t, err)
	assert.Equal(t, "body{}", string(data))
}

func TestMirrorStatic_MissingSourceFails(t *testing.T) {
	_, err := NewMirror(storage.NewMemory(), true, "", nil).MirrorStatic("static", "site/static")
	require.Error(t, err)
	assert.True(t, errors.IsAssetCopy(err))
}

func TestMirrorStatic_ExistingDestination(t *testing.T) {
	fsys := seed(t, map[string]string{
		"static/css/style.css":  "new",
		"site/static/stale.txt": "left over",
	})

	_, err := NewMirror(fsys, false, "", nil).MirrorStatic("static", "site/static")
	require.Error(t, err)
	assert.True(t, errors.IsAlreadyExists(err))

	_, err = NewMirror(fsys, true, "", nil).MirrorStatic("static", "site/static")
	require.NoError(t, err)

	// Overwrite refreshes the whole subtree rather than merging into it.
	exists, err := fsys.Exists("site/static/stale.txt")
	require.NoError(t, err)
	assert.False(t, exists)

	data, err := fsys.ReadFile("site/static/css/style.css")
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestMirrorEntryAssets(t *testing.T) {
	fsys := seed(t, map[string]string{
		"content/blog/2023-06-15/post.md":                 "# Post",
		"content/blog/2023-06-15/cover.jpg":               "jpg",
		"content/blog/2023-06-15/.DS_Store":               "junk",
		"content/blog/2023-06-15/post_files/figure-1.png": "png",
	})

	n, err := NewMirror(fsys, false, config.AssetPolicyOptional, nil).
		MirrorEntryAssets(entryDoc("2023-06-15", "post"), "site/blog/2023-06-15")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, p := range []string{"site/blog/2023-06-15/cover.jpg", "site/blog/2023-06-15/post_files/figure-1.png"} {
		exists, err := fsys.Exists(p)
		require.NoError(t, err)
		assert.True(t, exists, p)
	}
	for _, p := range []string{"site/blog/2023-06-15/post.md", "site/blog/2023-06-15/.DS_Store"} {
		exists, err := fsys.Exists(p)
		require.NoError(t, err)
		assert.False(t, exists, p)
	}
}

func TestMirrorEntryAssets_Policy(t *testing.T) {
	files := map[string]string{"content/blog/2024-02-10/post.md": "# Post"}

	n, err := NewMirror(seed(t, files), false, config.AssetPolicyOptional, nil).
		MirrorEntryAssets(entryDoc("2024-02-10", "post"), "site/blog/2024-02-10")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = NewMirror(seed(t, files), false, config.AssetPolicyRequired, nil).
		MirrorEntryAssets(entryDoc("2024-02-10", "post"), "site/blog/2024-02-10")
	require.Error(t, err)
	assert.True(t, errors.IsAssetCopy(err))
}

func TestMirrorEntryAssets_SharedDirectoryCopiedOnce(t *testing.T) {
	fsys := seed(t, map[string]string{
		"content/blog/2024-02-10/a.md":       "# A",
		"content/blog/2024-02-10/b.md":       "# B",
		"content/blog/2024-02-10/shared.png": "png",
	})
	m := NewMirror(fsys, false, config.AssetPolicyOptional, nil)

	_, err := m.MirrorEntryAssets(entryDoc("2024-02-10", "a"), "site/blog/2024-02-10")
	require.NoError(t, err)
	n, err := m.MirrorEntryAssets(entryDoc("2024-02-10", "b"), "site/blog/2024-02-10")
	require.NoError(t, err)
	assert.Zero(t, n)
}
