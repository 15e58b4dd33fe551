package main

import (
	"fmt"
)

// CheckCmd compiles a grammar file.
type CheckCmd struct {
	Grammar string `arg:"" help:"Grammar file (- for stdin)"`
}

// Run executes the check command
func (cmd *CheckCmd) Run(ctx *Context) error {
	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	source, err := readSource(cmd.Grammar)
	if err != nil {
		return err
	}

	verbosef(ctx, "Compiling %s", cmd.Grammar)

	names, err := compileGrammar(ctx, config, newEngine(config), source)
	if err != nil {
		return err
	}

	if !ctx.Quiet {
		for _, name := range names {
			fmt.Fprintln(ctx.Out, name)
		}
	}
	return nil
}
