package main

import (
	"errors"

	"github.com/shibukawa/pestplay/engine"
	"github.com/shibukawa/pestplay/formatter"
)

// ParseCmd parses an input with one rule of a grammar.
type ParseCmd struct {
	Grammar string `arg:"" help:"Grammar file (- for stdin)"`
	Rule    string `arg:"" help:"Rule to start from"`
	Input   string `arg:"" optional:"" help:"Input file (- for stdin)"`
	Text    string `short:"t" help:"Input text given inline"`
	Format  string `short:"f" help:"Output format (text, json, yaml, xml)"`
}

// Run executes the parse command
func (cmd *ParseCmd) Run(ctx *Context) error {
	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if cmd.Format != "" {
		config.Output.Format = cmd.Format
	}

	input, err := cmd.input()
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

	verbosef(ctx, "Parsing with rule %s", cmd.Rule)

	tree, err := e.Execute(cmd.Rule, input)
	if err != nil {
		var gerr *engine.GrammarError
		if errors.As(err, &gerr) && gerr.Kind == engine.KindMatch {
			if !ctx.Quiet {
				if werr := formatter.WriteErrors(ctx.Out, config.Output.Format, input, []*engine.GrammarError{gerr}); werr != nil {
					return werr
				}
			}
			return ErrParseFailed
		}
		return err
	}

	if ctx.Quiet {
		return nil
	}
	return formatter.WriteTree(ctx.Out, config.Output.Format, tree)
}

func (cmd *ParseCmd) input() (string, error) {
	switch {
	case cmd.Text != "" && cmd.Input != "":
		return "", ErrInputConflict
	case cmd.Text != "":
		return cmd.Text, nil
	case cmd.Input != "":
		if cmd.Input == "-" && cmd.Grammar == "-" {
			return "", ErrInputConflict
		}
		return readSource(cmd.Input)
	}
	return "", ErrMissingInput
}
