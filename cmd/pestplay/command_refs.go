package main

import (
	"fmt"
	"strings"
)

// RefsCmd lists where a rule name is written in a grammar.
type RefsCmd struct {
	Grammar string `arg:"" help:"Grammar file (- for stdin)"`
	Name    string `arg:"" optional:"" help:"Rule name; all indexed names are listed when omitted"`
}

// Run executes the refs command
func (cmd *RefsCmd) Run(ctx *Context) error {
	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	source, err := readSource(cmd.Grammar)
	if err != nil {
		return err
	}

	// The index survives validation errors, so they are only reported.
	e := newEngine(config)
	if _, err := compileGrammar(ctx, config, e, source); err != nil {
		verbosef(ctx, "%v", err)
	}

	if cmd.Name == "" {
		for _, name := range e.AllIndexedNames() {
			locs, _ := e.ReferencesOf(name)
			fmt.Fprintf(ctx.Out, "%s\t%d\n", name, len(locs))
		}
		return nil
	}

	locs, ok := e.ReferencesOf(cmd.Name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrRuleNotFound, cmd.Name)
	}

	parts := make([]string, 0, len(locs))
	for _, loc := range locs {
		parts = append(parts, loc.String())
	}
	fmt.Fprintln(ctx.Out, strings.Join(parts, "\n"))
	return nil
}
