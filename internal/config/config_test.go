package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "content", cfg.Paths.Content)
	assert.Equal(t, "site", cfg.Paths.Output)
	assert.Equal(t, DefaultNavbar(), cfg.Navbar)
	assert.Equal(t, DateSourceDirectory, cfg.Blog.DateSource)
	assert.Equal(t, AssetPolicyOptional, cfg.Blog.EntryAssets)
	assert.Equal(t, ThumbnailOrderDiscovery, cfg.Blog.Thumbnails.Order)
	assert.Equal(t, 265, cfg.Markdown.WordsPerMinute)
	assert.Equal(t, "index", cfg.OutputSlug("about"))
	assert.Equal(t, "research", cfg.OutputSlug("research"))
}

func TestLoad_FileWithEnvExpansion(t *testing.T) {
	t.Setenv("SITE_URL", "https://example.org/")
	path := filepath.Join(t.TempDir(), "sitebuilder.yaml")
	yamlContent := `site:
  title: Example
  base_url: ${SITE_URL}
navbar:
  - caption: home
    slug: index
  - caption: blog
    slug: blog
blog:
  date_source: Metadata
  entry_assets: required
  thumbnails:
    order: sorted
`
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.org", cfg.Site.BaseURL)
	assert.Equal(t, []NavItem{{Caption: "home", Slug: "index"}, {Caption: "blog", Slug: "blog"}}, cfg.Navbar)
	assert.Equal(t, DateSourceMetadata, cfg.Blog.DateSource)
	assert.Equal(t, AssetPolicyRequired, cfg.Blog.EntryAssets)
	assert.Equal(t, ThumbnailOrderSorted, cfg.Blog.Thumbnails.Order)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		field string
	}{
		{"date source", "blog:\n  date_source: filename\n", "blog.date_source"},
		{"asset policy", "blog:\n  entry_assets: sometimes\n", "blog.entry_assets"},
		{"duplicate navbar slug", "navbar:\n  - {caption: a, slug: x}\n  - {caption: b, slug: x}\n", "navbar[1]"},
		{"relative base url", "site:\n  base_url: example.org\n", "site.base_url"},
		{"port", "serve:\n  port: 70000\n", "serve.port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "sitebuilder.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o600))

			_, err := Load(path)
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, errors.CategoryConfig))

			classified, ok := errors.AsClassified(err)
			require.True(t, ok)
			field, _ := classified.Context().GetString("field")
			assert.Equal(t, tt.field, field)
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sitebuilder.yaml")
	require.NoError(t, os.WriteFile(path, []byte("site: [unclosed"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sitebuilder.yaml")
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	err = Init(path, false)
	require.Error(t, err)
	assert.True(t, errors.IsAlreadyExists(err))

	require.NoError(t, Init(path, true))
}

func TestLoggingConfig(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LoggingConfig{Level: LogLevelInfo}.SlogLevel(true))
	assert.Equal(t, slog.LevelWarn, LoggingConfig{Level: "WARN"}.SlogLevel(false))
	assert.Equal(t, slog.LevelInfo, LoggingConfig{Level: "bogus"}.SlogLevel(false))

	var buf bytes.Buffer
	LoggingConfig{Level: LogLevelInfo, Format: LogFormatJSON}.NewLogger(&buf, false).Info("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}

func TestAbsPaths(t *testing.T) {
	cfg := Default()
	cfg.Paths.Templates = ""
	cfg.Paths.Static = "/srv/static"

	require.NoError(t, cfg.AbsPaths("/work/site"))
	assert.Equal(t, filepath.Join("/work/site", "content"), cfg.Paths.Content)
	assert.Equal(t, "/srv/static", cfg.Paths.Static)
	assert.Equal(t, filepath.Join("/work/site", "site"), cfg.Paths.Output)
	assert.Empty(t, cfg.Paths.Templates)

	cwdRelative := Default()
	require.NoError(t, cwdRelative.AbsPaths(""))
	assert.True(t, filepath.IsAbs(cwdRelative.Paths.Content))
}

func TestOutputSlug(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "index", cfg.OutputSlug("about"))
	assert.Equal(t, "home", cfg.OutputSlug("home"))
	assert.Equal(t, "research", cfg.OutputSlug("research"))
}
