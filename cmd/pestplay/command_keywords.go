package main

import (
	"fmt"
	"strings"

	"github.com/shibukawa/pestplay/tokenizer"
)

// KeywordsCmd lists the reserved words of the grammar language.
type KeywordsCmd struct {
	Prefix string `arg:"" optional:"" help:"Only list keywords starting with this prefix"`
}

// Run executes the keywords command
func (cmd *KeywordsCmd) Run(ctx *Context) error {
	for _, kw := range tokenizer.SortedKeywords() {
		if strings.HasPrefix(kw, cmd.Prefix) {
			fmt.Fprintln(ctx.Out, kw)
		}
	}
	return nil
}
