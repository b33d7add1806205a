package config

const (
	defaultTitle            = "Personal Website"
	defaultBaseURL          = "http://localhost:4000"
	defaultContentDir       = "content"
	defaultStaticDir        = "static"
	defaultOutputDir        = "site"
	defaultBlogDir          = "blog"
	defaultThumbnailPattern = "static/images/blog-thumbnails/thumbnail-%d.png"
	defaultHighlightStyle   = "monokai"
	defaultWordsPerMinute   = 265
	defaultServeHost        = "localhost"
	defaultServePort        = 4000
)

// DefaultNavbar is the navigation order used when the config file has none.
func DefaultNavbar() []NavItem {
	return []NavItem{
		{Caption: "about", Slug: "index"},
		{Caption: "research", Slug: "research"},
		{Caption: "teaching", Slug: "teaching"},
		{Caption: "software", Slug: "software"},
		{Caption: "blog", Slug: "blog"},
		{Caption: "contact", Slug: "contact"},
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Site.Title == "" {
		cfg.Site.Title = defaultTitle
	}
	if cfg.Site.BaseURL == "" {
		cfg.Site.BaseURL = defaultBaseURL
	}
	cfg.Site.BaseURL = trimBaseURL(cfg.Site.BaseURL)

	if cfg.Paths.Content == "" {
		cfg.Paths.Content = defaultContentDir
	}
	if cfg.Paths.Static == "" {
		cfg.Paths.Static = defaultStaticDir
	}
	if cfg.Paths.Output == "" {
		cfg.Paths.Output = defaultOutputDir
	}

	if len(cfg.Navbar) == 0 {
		cfg.Navbar = DefaultNavbar()
	}

	if cfg.Pages.Aliases == nil {
		cfg.Pages.Aliases = map[string]string{"about": "index"}
	}

	if cfg.Blog.Dir == "" {
		cfg.Blog.Dir = defaultBlogDir
	}
	if cfg.Blog.DateSource == "" {
		cfg.Blog.DateSource = DateSourceDirectory
	}
	if cfg.Blog.EntryAssets == "" {
		cfg.Blog.EntryAssets = AssetPolicyOptional
	}
	if cfg.Blog.Thumbnails.Order == "" {
		cfg.Blog.Thumbnails.Order = ThumbnailOrderDiscovery
	}
	if cfg.Blog.Thumbnails.Pattern == "" {
		cfg.Blog.Thumbnails.Pattern = defaultThumbnailPattern
	}

	if cfg.Markdown.HighlightStyle == "" {
		cfg.Markdown.HighlightStyle = defaultHighlightStyle
	}
	if cfg.Markdown.WordsPerMinute <= 0 {
		cfg.Markdown.WordsPerMinute = defaultWordsPerMinute
	}

	if cfg.Serve.Host == "" {
		cfg.Serve.Host = defaultServeHost
	}
	if cfg.Serve.Port == 0 {
		cfg.Serve.Port = defaultServePort
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
}
