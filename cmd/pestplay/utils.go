package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/shibukawa/pestplay"
	"github.com/shibukawa/pestplay/engine"
	"github.com/shibukawa/pestplay/formatter"
)

// readSource reads a file, or standard input when path is "-".
func readSource(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	if !fileExists(path) {
		return "", fmt.Errorf("%w: %s", ErrInputFileNotExist, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// newEngine creates an engine tuned by the configuration.
func newEngine(config *pestplay.Config) *engine.Engine {
	return engine.New(engine.WithMaxDepth(config.Engine.MaxDepth))
}

// compileGrammar compiles source and prints its errors when it fails.
func compileGrammar(ctx *Context, config *pestplay.Config, e *engine.Engine, source string) ([]string, error) {
	names, err := e.Compile(source)
	if err == nil {
		return names, nil
	}

	errs, ok := err.(engine.GrammarErrors)
	if !ok {
		return nil, err
	}
	if !ctx.Quiet {
		if werr := formatter.WriteErrors(ctx.Out, config.Output.Format, source, errs); werr != nil {
			return nil, werr
		}
	}
	return nil, fmt.Errorf("%w: %d error(s)", ErrCompileFailed, len(errs))
}

func verbosef(ctx *Context, format string, args ...any) {
	if ctx.Verbose && !ctx.Quiet {
		color.New(color.FgBlue).Fprintf(ctx.Out, format+"\n", args...)
	}
}
