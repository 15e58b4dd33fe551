package main

import (
	"fmt"

	"github.com/fatih/color"
)

// RulesCmd lists the rules of a grammar.
type RulesCmd struct {
	Grammar string `arg:"" help:"Grammar file (- for stdin)"`
	Expr    bool   `short:"e" help:"Print the optimized expression of each rule"`
	Docs    bool   `short:"d" help:"Print doc comments"`
}

// Run executes the rules command
func (cmd *RulesCmd) Run(ctx *Context) error {
	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	source, err := readSource(cmd.Grammar)
	if err != nil {
		return err
	}

	e := newEngine(config)
	if _, err := compileGrammar(ctx, config, e, source); err != nil {
		return err
	}

	if cmd.Docs {
		for _, doc := range e.Docs() {
			color.New(color.FgGreen).Fprintf(ctx.Out, "//! %s\n", doc)
		}
	}

	name := color.New(color.Bold)
	for _, rule := range e.Rules() {
		if cmd.Docs {
			for _, doc := range rule.Docs {
				color.New(color.FgGreen).Fprintf(ctx.Out, "/// %s\n", doc)
			}
		}
		if cmd.Expr {
			fmt.Fprintln(ctx.Out, rule.String())
			continue
		}
		name.Fprint(ctx.Out, rule.Name)
		fmt.Fprintf(ctx.Out, " (%s)\n", rule.Type)
	}
	return nil
}
