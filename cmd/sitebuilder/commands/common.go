// Package commands implements the sitebuilder command line.
package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
	"git.home.luguber.info/inful/sitebuilder/internal/storage"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"sitebuilder.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate GenerateCmd `cmd:"" help:"Render content into the output directory"`
	Clean    CleanCmd    `cmd:"" help:"Remove the output directory"`
	Serve    ServeCmd    `cmd:"" help:"Serve the output directory over HTTP"`
	Init     InitCmd     `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig reads the configuration, resolves its paths and installs the
// configured logger.
func loadConfig(g *Global, root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	if err := cfg.AbsPaths(""); err != nil {
		return nil, err
	}

	logger := cfg.Logging.NewLogger(os.Stderr, root.Verbose)
	slog.SetDefault(logger)
	if g != nil {
		g.Logger = logger
	}
	return cfg, nil
}

// newBuilder wires the build context onto the real filesystem. Paths are
// absolute, so the filesystem is rooted at "/".
func newBuilder(g *Global, cfg *config.Config) (*site.Builder, error) {
	b, err := site.NewBuilder(cfg, storage.NewOS(string(os.PathSeparator)))
	if err != nil {
		return nil, err
	}
	if g != nil {
		b.WithLogger(g.Logger)
	}
	return b, nil
}
