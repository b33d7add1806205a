package commands

import "fmt"

// CleanCmd implements the 'clean' command.
type CleanCmd struct{}

func (c *CleanCmd) Run(global *Global, root *CLI) error {
	cfg, err := loadConfig(global, root)
	if err != nil {
		return err
	}
	builder, err := newBuilder(global, cfg)
	if err != nil {
		return err
	}
	if err := builder.Clean(); err != nil {
		return err
	}
	fmt.Printf("Removed %s\n", builder.OutputDir())
	return nil
}
