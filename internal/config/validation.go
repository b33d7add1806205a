package config

import (
	"fmt"
	"net/url"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

// Validate normalizes enum fields in place and rejects inconsistent settings.
func (c *Config) Validate() error {
	var err error
	if c.Blog.DateSource, err = NormalizeDateSource(string(c.Blog.DateSource)); err != nil {
		return invalid("blog.date_source", err)
	}
	if c.Blog.EntryAssets, err = NormalizeAssetPolicy(string(c.Blog.EntryAssets)); err != nil {
		return invalid("blog.entry_assets", err)
	}
	if c.Blog.Thumbnails.Order, err = NormalizeThumbnailOrder(string(c.Blog.Thumbnails.Order)); err != nil {
		return invalid("blog.thumbnails.order", err)
	}
	if !strings.Contains(c.Blog.Thumbnails.Pattern, "%d") {
		return invalid("blog.thumbnails.pattern", fmt.Errorf("pattern %q has no %%d verb", c.Blog.Thumbnails.Pattern))
	}

	if u, perr := url.Parse(c.Site.BaseURL); perr != nil || u.Scheme == "" || u.Host == "" {
		return invalid("site.base_url", fmt.Errorf("%q is not an absolute URL", c.Site.BaseURL))
	}

	seen := make(map[string]struct{}, len(c.Navbar))
	for i, item := range c.Navbar {
		if strings.TrimSpace(item.Caption) == "" || strings.TrimSpace(item.Slug) == "" {
			return invalid(fmt.Sprintf("navbar[%d]", i), fmt.Errorf("caption and slug are required"))
		}
		if _, dup := seen[item.Slug]; dup {
			return invalid(fmt.Sprintf("navbar[%d]", i), fmt.Errorf("duplicate slug %q", item.Slug))
		}
		seen[item.Slug] = struct{}{}
	}

	if c.Serve.Port < 1 || c.Serve.Port > 65535 {
		return invalid("serve.port", fmt.Errorf("port %d out of range", c.Serve.Port))
	}

	if c.Paths.Content == c.Paths.Output {
		return invalid("paths.output", fmt.Errorf("output directory must differ from content directory"))
	}
	return nil
}

func invalid(field string, cause error) error {
	return errors.WrapError(cause, errors.CategoryConfig, "invalid configuration").
		Fatal().
		WithContext("field", field).
		Build()
}
