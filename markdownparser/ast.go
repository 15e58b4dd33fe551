package markdownparser

import (
	"strings"

	"github.com/yuin/goldmark/ast"
)

// Section represents a markdown section with AST nodes
type Section struct {
	Heading     ast.Node   // The heading node
	HeadingText string     // Extracted heading text
	Content     []ast.Node // All nodes between this heading and the next H2
}

// extractSectionsFromAST extracts the title and the H2 sections, keyed by
// lower-cased heading text.
func extractSectionsFromAST(doc ast.Node, content []byte) (string, map[string]*Section) {
	sections := make(map[string]*Section)

	var (
		title          string
		currentSection *Section
	)

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if heading, ok := n.(*ast.Heading); ok && heading.Level <= 2 {
			headingText := extractText(heading, content)

			if heading.Level == 1 {
				if title == "" {
					title = headingText
				}
				currentSection = nil
				continue
			}

			currentSection = &Section{Heading: heading, HeadingText: headingText}
			sections[strings.ToLower(headingText)] = currentSection
			continue
		}

		if currentSection != nil {
			currentSection.Content = append(currentSection.Content, n)
		}
	}

	return title, sections
}

// extractText concatenates the text nodes below n.
func extractText(n ast.Node, content []byte) string {
	var text strings.Builder

	_ = ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			text.Write(node.Segment.Value(content))
			if node.SoftLineBreak() {
				text.WriteString(" ")
			}
		case *ast.CodeSpan:
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*ast.Text); ok {
					text.Write(t.Segment.Value(content))
				}
			}
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph:
			if text.Len() > 0 {
				text.WriteString(" ")
			}
		}

		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(text.String())
}

// codeBlockInfo returns the lower-cased language of a fenced code block.
func codeBlockInfo(codeBlock *ast.FencedCodeBlock, content []byte) string {
	if codeBlock.Info == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(string(codeBlock.Info.Value(content))))
}

// codeBlockContent returns the raw lines of a code block.
func codeBlockContent(codeBlock *ast.FencedCodeBlock, content []byte) string {
	var b strings.Builder

	lines := codeBlock.Lines()
	for i := range lines.Len() {
		line := lines.At(i)
		b.Write(line.Value(content))
	}

	return b.String()
}

// codeBlockOffset returns the byte offset of the first content line.
func codeBlockOffset(codeBlock *ast.FencedCodeBlock) int {
	if codeBlock.Lines().Len() == 0 {
		return 0
	}
	return codeBlock.Lines().At(0).Start
}
