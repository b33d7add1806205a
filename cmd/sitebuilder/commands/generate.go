package commands

import (
	"fmt"

	"git.home.luguber.info/inful/sitebuilder/internal/site"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Overwrite bool   `short:"f" help:"Replace existing output files"`
	Output    string `short:"o" help:"Output directory (overrides paths.output)"`
}

func (g *GenerateCmd) Run(global *Global, root *CLI) error {
	cfg, err := loadConfig(global, root)
	if err != nil {
		return err
	}
	if g.Output != "" {
		cfg.Paths.Output = g.Output
		if err := cfg.AbsPaths(""); err != nil {
			return err
		}
	}

	builder, err := newBuilder(global, cfg)
	if err != nil {
		return err
	}
	report, err := builder.Generate(site.GenerateOptions{Overwrite: g.Overwrite})
	if err != nil {
		return err
	}
	fmt.Println(report.Summary())
	return nil
}
