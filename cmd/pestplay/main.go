package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/shibukawa/pestplay"
)

// Context represents the global context for commands
type Context struct {
	Config  string
	Verbose bool
	Quiet   bool
	Out     io.Writer
}

// CLI represents the command-line interface
var CLI struct {
	Config    string       `help:"Configuration file path" default:"pestplay.yaml"`
	Verbose   bool         `help:"Enable verbose output" short:"v"`
	Quiet     bool         `help:"Suppress output" short:"q"`
	NoColor   bool         `help:"Disable colored output" name:"no-color"`
	Check     CheckCmd     `cmd:"" help:"Compile a grammar and report its rules or errors"`
	Parse     ParseCmd     `cmd:"" help:"Parse input with a grammar rule and print the token tree"`
	Refs      RefsCmd      `cmd:"" help:"List the references to a rule in a grammar"`
	Rules     RulesCmd     `cmd:"" help:"List the rules of a grammar"`
	Run       RunCmd       `cmd:"" help:"Run the inputs of a playground markdown document"`
	Highlight HighlightCmd `cmd:"" help:"Print a grammar with syntax highlighting"`
	Keywords  KeywordsCmd  `cmd:"" help:"List grammar keywords and built-in rules"`
	Serve     ServeCmd     `cmd:"" help:"Serve the playground HTTP API"`
	Version   VersionCmd   `cmd:"" help:"Show version information"`
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run(ctx *Context) error {
	fmt.Fprintln(ctx.Out, "pestplay v0.1.0")
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("pestplay"),
		kong.Description("Playground for pest PEG grammars"),
	)

	if CLI.NoColor {
		color.NoColor = true
	}

	appCtx := &Context{
		Config:  CLI.Config,
		Verbose: CLI.Verbose,
		Quiet:   CLI.Quiet,
		Out:     color.Output,
	}

	err := ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads the configuration and applies its color preference.
func loadConfig(ctx *Context) (*pestplay.Config, error) {
	config, err := pestplay.LoadConfig(ctx.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if !config.Output.ColorEnabled() {
		color.NoColor = true
	}
	return config, nil
}
