package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/shibukawa/pestplay/tokenizer"
)

var classColors = map[string]*color.Color{
	tokenizer.ClassComment:     color.New(color.FgHiBlack),
	tokenizer.ClassDoc:         color.New(color.FgGreen),
	tokenizer.ClassString:      color.New(color.FgYellow),
	tokenizer.ClassTag:         color.New(color.FgMagenta),
	tokenizer.ClassKeyword:     color.New(color.FgBlue, color.Bold),
	tokenizer.ClassIdentifier:  color.New(color.FgCyan),
	tokenizer.ClassNumber:      color.New(color.FgMagenta),
	tokenizer.ClassOperator:    color.New(color.FgRed),
	tokenizer.ClassPunctuation: color.New(color.FgWhite),
}

// HighlightCmd prints a grammar with each token colored by its class.
type HighlightCmd struct {
	Grammar string `arg:"" help:"Grammar file (- for stdin)"`
	Classes bool   `help:"Print one token per line with its class instead of colors"`
}

// Run executes the highlight command
func (cmd *HighlightCmd) Run(ctx *Context) error {
	if _, err := loadConfig(ctx); err != nil {
		return err
	}

	source, err := readSource(cmd.Grammar)
	if err != nil {
		return err
	}

	if cmd.Classes {
		return writeClasses(ctx.Out, source)
	}
	return highlight(ctx.Out, source)
}

// highlight writes source back with colors. Text after a tokenizer error is
// written unchanged.
func highlight(w io.Writer, source string) error {
	tz := tokenizer.NewGrammarTokenizer(source)
	tokens, err := tz.AllTokens()

	offset := 0
	for _, token := range tokens {
		if token.Type == tokenizer.EOF {
			break
		}
		text := source[token.Position.Offset:token.End.Offset]
		if c, ok := classColors[tokenizer.Class(token)]; ok {
			c.Fprint(w, text)
		} else {
			fmt.Fprint(w, text)
		}
		offset = token.End.Offset
	}

	if err != nil && offset < len(source) {
		fmt.Fprint(w, source[offset:])
	}
	return nil
}

func writeClasses(w io.Writer, source string) error {
	tz := tokenizer.NewGrammarTokenizer(source, tokenizer.TokenizerOptions{SkipWhitespace: true})
	for token, err := range tz.Tokens() {
		if err != nil {
			return err
		}
		if token.Type == tokenizer.EOF {
			break
		}
		fmt.Fprintf(w, "%d:%d\t%s\t%q\n", token.Position.Line, token.Position.Column, tokenizer.Class(token), token.Value)
	}
	return nil
}
