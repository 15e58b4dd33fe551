package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/shibukawa/pestplay/engine"
	"github.com/shibukawa/pestplay/formatter"
	"github.com/shibukawa/pestplay/markdownparser"
)

// RunCmd runs every input of a playground document against its grammar.
type RunCmd struct {
	Document string `arg:"" help:"Playground markdown file"`
	Update   bool   `short:"u" help:"Rewrite the expected tree of every matching input"`
}

// caseResult is the outcome of one input case.
type caseResult struct {
	Case   markdownparser.InputCase
	Passed bool
	Reason string
}

// Run executes the run command
func (cmd *RunCmd) Run(ctx *Context) error {
	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	if !formatter.IsMarkdownFile(cmd.Document) {
		return fmt.Errorf("%w: %s", ErrNotMarkdown, cmd.Document)
	}

	content, err := os.ReadFile(cmd.Document)
	if err != nil {
		return fmt.Errorf("failed to open document: %w", err)
	}

	doc, err := markdownparser.Parse(bytes.NewReader(content))
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", cmd.Document, err)
	}

	verbosef(ctx, "Running %s (%d inputs)", doc.Title, len(doc.Cases))

	e := newEngine(config)
	if _, err := compileGrammar(ctx, config, e, doc.Grammar); err != nil {
		return fmt.Errorf("grammar at line %d: %w", doc.GrammarLine, err)
	}

	if cmd.Update {
		if err := cmd.updateTrees(ctx, e, doc, string(content)); err != nil {
			return err
		}
	}

	results := runCases(e, doc.Cases)

	failed := 0
	for _, r := range results {
		if !r.Passed {
			failed++
		}
		if ctx.Quiet {
			continue
		}
		if r.Passed {
			color.New(color.FgGreen).Fprint(ctx.Out, "PASS")
		} else {
			color.New(color.FgRed).Fprint(ctx.Out, "FAIL")
		}
		fmt.Fprintf(ctx.Out, " %s:%d %s\n", cmd.Document, r.Case.Line, r.Case.Rule)
		if r.Reason != "" {
			fmt.Fprintln(ctx.Out, indent(r.Reason, "    "))
		}
	}

	if !ctx.Quiet {
		fmt.Fprintf(ctx.Out, "\n%d passed, %d failed\n", len(results)-failed, failed)
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrCasesFailed, failed, len(results))
	}
	return nil
}

// updateTrees rewrites the document with the current tree of every input
// expected to match, and records them as the expectations to check.
func (cmd *RunCmd) updateTrees(ctx *Context, e *engine.Engine, doc *markdownparser.Document, content string) error {
	trees := make(map[int]string)
	for i, c := range doc.Cases {
		if c.ExpectError {
			continue
		}
		tree, err := e.Execute(c.Rule, c.Input)
		if err != nil || tree == nil {
			continue
		}
		var b strings.Builder
		if err := formatter.WriteText(&b, tree); err != nil {
			return err
		}
		trees[c.Line] = b.String()
		doc.Cases[i].ExpectedTree = b.String()
	}

	updated, err := formatter.NewTreeBlockUpdater(trees).Format(content)
	if err != nil {
		return err
	}
	if updated == content {
		return nil
	}

	verbosef(ctx, "Updating %d tree(s) in %s", len(trees), cmd.Document)
	if err := os.WriteFile(cmd.Document, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", cmd.Document, err)
	}
	return nil
}

func runCases(e *engine.Engine, cases []markdownparser.InputCase) []caseResult {
	results := make([]caseResult, 0, len(cases))
	for _, c := range cases {
		results = append(results, runCase(e, c))
	}
	return results
}

func runCase(e *engine.Engine, c markdownparser.InputCase) caseResult {
	tree, err := e.Execute(c.Rule, c.Input)

	var gerr *engine.GrammarError
	if err != nil && !(errors.As(err, &gerr) && gerr.Kind == engine.KindMatch) {
		return caseResult{Case: c, Reason: err.Error()}
	}

	if c.ExpectError {
		if err == nil {
			return caseResult{Case: c, Reason: "expected the input to be rejected"}
		}
		if c.ExpectedError != "" && !markdownparser.MatchesExpectedError(c.ExpectedError, gerr.Message) {
			return caseResult{Case: c, Reason: fmt.Sprintf("error mismatch\nexpected: %s\nactual: %s", c.ExpectedError, gerr.Message)}
		}
		return caseResult{Case: c, Passed: true}
	}
	if err != nil {
		return caseResult{Case: c, Reason: err.Error()}
	}

	if c.ExpectedTree == "" {
		return caseResult{Case: c, Passed: true}
	}

	var b strings.Builder
	if err := formatter.WriteText(&b, tree); err != nil {
		return caseResult{Case: c, Reason: err.Error()}
	}
	got := strings.TrimSpace(b.String())
	want := strings.TrimSpace(c.ExpectedTree)
	if got != want {
		return caseResult{Case: c, Reason: fmt.Sprintf("tree mismatch\nexpected:\n%s\nactual:\n%s", want, got)}
	}
	return caseResult{Case: c, Passed: true}
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
