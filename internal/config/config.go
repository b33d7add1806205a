// Package config loads and validates the sitebuilder configuration file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

// DefaultConfigPath is the configuration file looked up when no path is given.
const DefaultConfigPath = "sitebuilder.yaml"

// Config represents the application configuration.
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Paths    PathsConfig    `yaml:"paths"`
	Navbar   []NavItem      `yaml:"navbar"`
	Pages    PagesConfig    `yaml:"pages"`
	Blog     BlogConfig     `yaml:"blog"`
	Markdown MarkdownConfig `yaml:"markdown"`
	Serve    ServeConfig    `yaml:"serve"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SiteConfig holds values substituted into every page.
type SiteConfig struct {
	Title   string `yaml:"title"`
	BaseURL string `yaml:"base_url"` // Used for canonical and thumbnail URLs
}

// PathsConfig locates inputs and the output root.
type PathsConfig struct {
	Content   string `yaml:"content"`
	Static    string `yaml:"static"`
	Templates string `yaml:"templates,omitempty"` // Optional override of the embedded layouts
	Output    string `yaml:"output"`
}

// NavItem is one entry of the ordered navigation table.
type NavItem struct {
	Caption string `yaml:"caption"`
	Slug    string `yaml:"slug"`
}

// PagesConfig controls how top-level pages map to output files.
type PagesConfig struct {
	// Aliases maps a source slug to a different output slug (about -> index).
	Aliases map[string]string `yaml:"aliases,omitempty"`
}

// BlogConfig controls blog ordering, thumbnails and per-entry assets.
type BlogConfig struct {
	Dir         string           `yaml:"dir"`
	DateSource  DateSource       `yaml:"date_source"`
	EntryAssets AssetPolicy      `yaml:"entry_assets"`
	Thumbnails  ThumbnailsConfig `yaml:"thumbnails"`
}

// ThumbnailsConfig controls generated thumbnail references.
type ThumbnailsConfig struct {
	Disabled bool           `yaml:"disabled,omitempty"`
	Order    ThumbnailOrder `yaml:"order"`
	Pattern  string         `yaml:"pattern"` // fmt pattern receiving the entry index
}

// MarkdownConfig controls the markdown renderer.
type MarkdownConfig struct {
	DisableHighlight bool   `yaml:"disable_highlight,omitempty"`
	HighlightStyle   string `yaml:"highlight_style"`
	WordsPerMinute   int    `yaml:"words_per_minute"`
}

// ServeConfig controls the local preview server.
type ServeConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns the listen address of the preview server.
func (s ServeConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// URL returns the address the preview server is reachable at.
func (s ServeConfig) URL() string {
	return "http://" + s.Addr()
}

// Load loads configuration from the specified file. A missing file yields the
// defaults so a bare content tree builds without any configuration.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	cfg := &Config{}
	data, err := os.ReadFile(configPath) // #nosec G304 -- path is supplied by the operator
	switch {
	case err == nil:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").
				Fatal().
				WithContext("path", configPath).
				Build()
		}
	case os.IsNotExist(err):
		slog.Debug("Configuration file not found, using defaults", "path", configPath)
	default:
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			Fatal().
			WithContext("path", configPath).
			Build()
	}

	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// OutputSlug returns the output slug for a page, honouring aliases.
func (c *Config) OutputSlug(slug string) string {
	if alias, ok := c.Pages.Aliases[slug]; ok && alias != "" {
		return alias
	}
	return slug
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.AlreadyExistsError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal example config").Build()
	}

	header := "# sitebuilder configuration\n# Values support ${ENV_VAR} expansion; .env and .env.local are loaded first.\n"
	if err := os.WriteFile(configPath, []byte(header+string(data)), 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}

// AbsPaths resolves every configured path against base (the working
// directory when base is empty).
func (c *Config) AbsPaths(base string) error {
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return errors.WrapError(err, errors.CategoryRuntime, "failed to determine working directory").Build()
		}
		base = wd
	}
	for _, p := range []*string{&c.Paths.Content, &c.Paths.Static, &c.Paths.Templates, &c.Paths.Output} {
		if *p == "" || filepath.IsAbs(*p) {
			continue
		}
		*p = filepath.Join(base, *p)
	}
	return nil
}

func trimBaseURL(u string) string {
	return strings.TrimRight(strings.TrimSpace(u), "/")
}
