package markdownparser

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/shibukawa/pestplay"
	"github.com/shibukawa/pestplay/location"
)

// Sentinel errors
var (
	ErrInvalidFrontMatter     = errors.New("invalid front matter")
	ErrMissingRequiredSection = errors.New("missing required section")
	ErrInvalidInputCase       = errors.New("invalid input case")
)

// Code block languages recognized inside a document.
const (
	LangPest  = "pest"
	LangFail  = "fail"
	LangTree  = "tree"
	LangInput = "input"
	LangError = "error"
)

// Document is a playground document: a grammar and the inputs to run
// against it.
type Document struct {
	Title       string
	Description string
	FrontMatter FrontMatter
	Grammar     string
	// GrammarLine is the 1-based line of the first grammar line in the
	// markdown file.
	GrammarLine int
	Cases       []InputCase
}

// InputCase is one input to parse with Rule.
type InputCase struct {
	Rule  string
	Input string
	// ExpectError is set for inputs written in a "fail" block.
	ExpectError bool
	// ExpectedTree is the text rendering the parse should produce, if given.
	ExpectedTree string
	// ExpectedError is the normalized message a failing input must report,
	// if given in an "error" block.
	ExpectedError string
	Line          int
}

// Parse reads a playground document.
//
//	# Title
//	## Grammar        one ```pest block
//	## Inputs         ### <rule> headings, each followed by input blocks
func Parse(reader io.Reader) (*Document, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	if strings.TrimSpace(string(content)) == "" {
		return nil, pestplay.ErrEmptyContent
	}

	frontMatter, body, frontMatterLines, err := parseFrontMatter(string(content))
	if err != nil {
		return nil, err
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)

	source := []byte(body)
	doc := md.Parser().Parse(text.NewReader(source))
	title, sections := extractSectionsFromAST(doc, source)

	grammarSection, ok := sections["grammar"]
	if !ok {
		return nil, fmt.Errorf("%w: grammar", ErrMissingRequiredSection)
	}

	lines := location.NewSource(body)
	lineOf := func(offset int) int {
		return lines.LineCol(offset).Line + frontMatterLines
	}

	document := &Document{
		Title:       title,
		FrontMatter: frontMatter,
	}
	if frontMatter.Title != "" {
		document.Title = frontMatter.Title
	}

	if description, ok := sections["description"]; ok {
		document.Description = joinText(description.Content, source)
	}

	codeBlock := findCodeBlock(grammarSection.Content, source, LangPest)
	if codeBlock == nil {
		return nil, pestplay.ErrNoGrammarBlock
	}
	document.Grammar = codeBlockContent(codeBlock, source)
	document.GrammarLine = lineOf(codeBlockOffset(codeBlock))

	if inputs, ok := sections["inputs"]; ok {
		cases, err := parseInputCases(inputs.Content, source, frontMatter.Rule, lineOf)
		if err != nil {
			return nil, err
		}
		document.Cases = cases
	}

	return document, nil
}

func findCodeBlock(nodes []ast.Node, content []byte, lang string) *ast.FencedCodeBlock {
	for _, node := range nodes {
		if codeBlock, ok := node.(*ast.FencedCodeBlock); ok && codeBlockInfo(codeBlock, content) == lang {
			return codeBlock
		}
	}
	return nil
}

func joinText(nodes []ast.Node, content []byte) string {
	var parts []string
	for _, node := range nodes {
		if _, ok := node.(*ast.Paragraph); ok {
			parts = append(parts, extractText(node, content))
		}
	}
	return strings.Join(parts, "\n\n")
}

// parseInputCases reads ### <rule> headings and the code blocks below them.
// A "tree" block attaches the expected tree to the preceding input, an
// "error" block the expected message to the preceding failing input.
func parseInputCases(nodes []ast.Node, content []byte, defaultRule string, lineOf func(int) int) ([]InputCase, error) {
	var (
		cases []InputCase
		rule  = defaultRule
	)

	for _, node := range nodes {
		switch n := node.(type) {
		case *ast.Heading:
			rule = extractText(n, content)

		case *ast.FencedCodeBlock:
			lang := codeBlockInfo(n, content)
			body := codeBlockContent(n, content)
			line := lineOf(codeBlockOffset(n))

			switch lang {
			case LangTree:
				if len(cases) == 0 {
					return nil, fmt.Errorf("%w: line %d: tree block without a preceding input", ErrInvalidInputCase, line)
				}
				last := &cases[len(cases)-1]
				if last.ExpectError {
					return nil, fmt.Errorf("%w: line %d: tree block after a failing input", ErrInvalidInputCase, line)
				}
				last.ExpectedTree = body
				continue
			case LangError:
				if len(cases) == 0 || !cases[len(cases)-1].ExpectError {
					return nil, fmt.Errorf("%w: line %d: error block without a preceding failing input", ErrInvalidInputCase, line)
				}
				message, err := ParseExpectedError(body)
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidInputCase, line, err)
				}
				cases[len(cases)-1].ExpectedError = message
				continue
			case "", LangInput, LangFail:
			default:
				continue
			}

			if rule == "" {
				return nil, fmt.Errorf("%w: line %d: no rule heading", ErrInvalidInputCase, line)
			}

			cases = append(cases, InputCase{
				Rule:        rule,
				Input:       strings.TrimSuffix(body, "\n"),
				ExpectError: lang == LangFail,
				Line:        line,
			})
		}
	}

	return cases, nil
}
