package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"github.com/goccy/go-yaml"

	"github.com/shibukawa/pestplay"
	"github.com/shibukawa/pestplay/engine"
)

var controlEscaper = strings.NewReplacer("\n", `\n`, "\r", `\r`, "\t", `\t`)

// WriteTree renders a parse tree in the given output format.
func WriteTree(w io.Writer, format string, tree *engine.TokenTree) error {
	switch format {
	case pestplay.FormatText, "":
		return WriteText(w, tree)
	case pestplay.FormatJSON:
		return writeJSON(w, tree)
	case pestplay.FormatYAML:
		return writeYAML(w, tree)
	case pestplay.FormatXML:
		return WriteXML(w, tree)
	}
	return fmt.Errorf("%w: %s", pestplay.ErrUnsupportedFormat, format)
}

// WriteText renders the tree as an indented list, one node per line.
func WriteText(w io.Writer, tree *engine.TokenTree) error {
	var b strings.Builder
	tree.Walk(func(node *engine.TokenTree, depth int) {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString("- ")
		b.WriteString(controlEscaper.Replace(node.Label))
		b.WriteString("\n")
	})
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteXML renders the tree as nested node elements.
func WriteXML(w io.Writer, tree *engine.TokenTree) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	appendElement(&doc.Element, tree)
	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}

func appendElement(parent *etree.Element, node *engine.TokenTree) {
	elem := parent.CreateElement("node")
	elem.CreateAttr("rule", node.Rule)
	if node.IsLeaf() {
		elem.SetText(node.Text)
		return
	}
	for _, c := range node.Children {
		appendElement(elem, c)
	}
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	data, err := yaml.MarshalWithOptions(v, yaml.IndentSequence(true), yaml.UseLiteralStyleIfMultiline(true))
	if err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	_, err = w.Write(data)
	return err
}
