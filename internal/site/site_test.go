package site

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/storage"
)

var sampleSite = map[string]string{
	"content/about.md":    "# About me\n\nHello.\n",
	"content/research.md": "# Research\n\nPapers.\n",
	"content/blog/2023-01-01/first.md": "title: First post\nsummary: The beginning\n\n" +
		"## Start\n\nSome words.\n",
	"content/blog/2023-06-15/middle.md":             "title: 'Middle post'\n\n## Middle\n\n![fig](middle_files/fig.png)\n",
	"content/blog/2023-06-15/middle_files/fig.png":  "png",
	"content/blog/2024-02-10/latest.md":             "title: \"Latest post\"\nsummary: Newest\n\nBody.\n",
	"content/blog/2024-02-10/cover.jpg":             "jpg",
	"static/css/style.css":                          "body{}",
	"static/images/blog-thumbnails/thumbnail-0.png": "png",
}

func seed(t *testing.T, files map[string]string) storage.FS {
	t.Helper()
	fsys := storage.NewMemory()
	for p, body := range files {
		require.NoError(t, fsys.WriteFile(p, []byte(body), false))
	}
	return fsys
}

func newBuilder(t *testing.T, fsys storage.FS, mutate ...func(*config.Config)) *Builder {
	t.Helper()
	cfg := config.Default()
	cfg.Site.BaseURL = "https://example.org"
	for _, m := range mutate {
		m(cfg)
	}
	b, err := NewBuilder(cfg, fsys)
	require.NoError(t, err)
	return b
}

func snapshot(t *testing.T, fsys storage.FS, root string) map[string]string {
	t.Helper()
	files := map[string]string{}
	err := fsys.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		data, err := fsys.ReadFile(p)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(p)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return files
}

func read(t *testing.T, fsys storage.FS, p string) string {
	t.Helper()
	data, err := fsys.ReadFile(p)
	require.NoError(t, err)
	return string(data)
}

func TestGenerate_WritesSite(t *testing.T) {
	fsys := seed(t, sampleSite)

	report, err := newBuilder(t, fsys).Generate(GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Pages)
	assert.Equal(t, 3, report.Entries)
	assert.Equal(t, 4, report.Assets)
	assert.NotEmpty(t, report.BuildID)

	files := snapshot(t, fsys, "site")
	for _, p := range []string{
		"site/index.html",
		"site/research.html",
		"site/blog.html",
		"site/blog/2024-02-10/latest.html",
		"site/blog/2024-02-10/cover.jpg",
		"site/blog/2023-06-15/middle.html",
		"site/blog/2023-06-15/middle_files/fig.png",
		"site/blog/2023-01-01/first.html",
		"site/static/css/style.css",
	} {
		assert.Contains(t, files, p)
	}
	assert.NotContains(t, files, "site/about.html")

	middle := files["site/blog/2023-06-15/middle.html"]
	assert.Contains(t, middle, `rel="prev" href="../2024-02-10/latest.html"`)
	assert.Contains(t, middle, `rel="next" href="../2023-01-01/first.html"`)
	assert.Contains(t, middle, `<link rel="canonical" href="https://example.org/blog/2023-06-15/middle.html">`)
	assert.Contains(t, middle, "Middle post")
	assert.Contains(t, middle, "Summary missing")

	index := files["site/blog.html"]
	latest := strings.Index(index, "Latest post")
	mid := strings.Index(index, "Middle post")
	first := strings.Index(index, "First post")
	assert.True(t, latest >= 0 && latest < mid && mid < first, "entries must be newest first")
	assert.Contains(t, index, "static/images/blog-thumbnails/thumbnail-")

	about := files["site/index.html"]
	assert.Contains(t, about, `<li class="active"><a href="index.html" aria-current="page">about</a></li>`)
}

func TestGenerate_SecondRunWithoutOverwriteFails(t *testing.T) {
	fsys := seed(t, sampleSite)
	b := newBuilder(t, fsys)

	_, err := b.Generate(GenerateOptions{})
	require.NoError(t, err)

	_, err = b.Generate(GenerateOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsAlreadyExists(err))
}

func TestGenerate_OverwriteIsIdempotent(t *testing.T) {
	fsys := seed(t, sampleSite)
	b := newBuilder(t, fsys)

	_, err := b.Generate(GenerateOptions{})
	require.NoError(t, err)
	first := snapshot(t, fsys, "site")

	_, err = b.Generate(GenerateOptions{Overwrite: true})
	require.NoError(t, err)
	second := snapshot(t, fsys, "site")

	assert.Equal(t, first, second)
}

func TestGenerate_EmptyBlog(t *testing.T) {
	fsys := seed(t, map[string]string{
		"content/about.md":     "# About",
		"static/css/style.css": "body{}",
	})

	report, err := newBuilder(t, fsys).Generate(GenerateOptions{})
	require.NoError(t, err)
	assert.Zero(t, report.Entries)
	assert.Contains(t, read(t, fsys, "site/blog.html"), "<p>No blog entries yet.</p>")
}

func TestGenerate_Failures(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		check func(error) bool
	}{
		{
			name:  "missing content root",
			files: map[string]string{"static/css/style.css": "x"},
			check: errors.IsNotFound,
		},
		{
			name:  "missing static directory",
			files: map[string]string{"content/about.md": "# About"},
			check: errors.IsAssetCopy,
		},
		{
			name: "undated blog directory",
			files: map[string]string{
				"content/blog/someday/post.md": "# Post",
				"static/css/style.css":         "x",
			},
			check: errors.IsDateParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newBuilder(t, seed(t, tt.files)).Generate(GenerateOptions{})
			require.Error(t, err)
			assert.True(t, tt.check(err), err.Error())
		})
	}
}

func TestGenerate_RequiredEntryAssets(t *testing.T) {
	fsys := seed(t, map[string]string{
		"content/blog/2024-02-10/post.md": "# Post",
		"static/css/style.css":            "x",
	})

	_, err := newBuilder(t, fsys, func(c *config.Config) {
		c.Blog.EntryAssets = config.AssetPolicyRequired
	}).Generate(GenerateOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsAssetCopy(err))
}

func TestGenerate_MetadataDateSource(t *testing.T) {
	fsys := seed(t, map[string]string{
		"content/blog/posts/old.md": "date: 2020-05-01\ntitle: Old\n\nx\n",
		"content/blog/posts/new.md": "date: '2021-07-09'\ntitle: New\n\nx\n",
		"static/css/style.css":      "x",
	})

	report, err := newBuilder(t, fsys, func(c *config.Config) {
		c.Blog.DateSource = config.DateSourceMetadata
	}).Generate(GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Entries)

	assert.Contains(t, read(t, fsys, "site/blog/2021-07-09/new.html"), `href="../2020-05-01/old.html"`)
}

func TestClean(t *testing.T) {
	fsys := seed(t, sampleSite)
	b := newBuilder(t, fsys)

	_, err := b.Generate(GenerateOptions{})
	require.NoError(t, err)

	require.NoError(t, b.Clean())
	exists, err := fsys.Exists("site")
	require.NoError(t, err)
	assert.False(t, exists)

	err = b.Clean()
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	// Sources are untouched.
	exists, err = fsys.Exists("content/about.md")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGenerate_PagesSharingAnOutputFileFail(t *testing.T) {
	fsys := seed(t, map[string]string{
		"content/about.md": "# About\n",
		"content/index.md": "# Index\n",
		"static/.keep":     "",
	})

	_, err := newBuilder(t, fsys).Generate(GenerateOptions{})
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation), err.Error())

	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	p, _ := ce.Context().GetString("path")
	assert.Equal(t, "index.html", p)

	exists, err := fsys.Exists("site/index.html")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGenerate_HomePageKeepsItsOwnSlug(t *testing.T) {
	fsys := seed(t, map[string]string{
		"content/about.md": "# About\n",
		"content/home.md":  "# Home\n",
		"static/.keep":     "",
	})

	_, err := newBuilder(t, fsys).Generate(GenerateOptions{})
	require.NoError(t, err)
	assert.Contains(t, read(t, fsys, "site/index.html"), "About")
	assert.Contains(t, read(t, fsys, "site/home.html"), "Home")
}
