package formatter

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	fenceOpenRe  = regexp.MustCompile("^(\\s*)`{3,}\\s*([\\w-]*)\\s*$")
	fenceCloseRe = regexp.MustCompile("^\\s*`{3,}\\s*$")
)

// TreeBlockUpdater rewrites the expected tree blocks of a playground
// document.
type TreeBlockUpdater struct {
	// trees is keyed by the line of the first input line in the document.
	trees map[int]string
}

// NewTreeBlockUpdater creates an updater writing trees after the input
// blocks whose content starts at the given lines.
func NewTreeBlockUpdater(trees map[int]string) *TreeBlockUpdater {
	return &TreeBlockUpdater{trees: trees}
}

// Format replaces the tree block following each known input block, or
// inserts one when the input has none. Other content is copied unchanged.
func (u *TreeBlockUpdater) Format(markdown string) (string, error) {
	var result strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(markdown))

	var (
		lineNo    int
		inBlock   bool
		inOldTree bool
		pending   string
		indent    string
		held      []string
	)

	writeTree := func() {
		result.WriteString("\n")
		result.WriteString(indent + "```tree\n")
		for _, l := range strings.Split(strings.TrimRight(pending, "\n"), "\n") {
			result.WriteString(indent + l + "\n")
		}
		result.WriteString(indent + "```\n")
		pending = ""
	}

	for scanner.Scan() {
		line := scanner.Text()
		lineNo++

		switch {
		case inOldTree:
			if fenceCloseRe.MatchString(line) {
				inOldTree = false
			}
			continue

		case inBlock:
			result.WriteString(line + "\n")
			if fenceCloseRe.MatchString(line) {
				inBlock = false
			}
			continue

		case pending != "":
			if strings.TrimSpace(line) == "" {
				held = append(held, line)
				continue
			}
			if match := fenceOpenRe.FindStringSubmatch(line); match != nil && match[2] == "tree" {
				// The old block is dropped along with the blank lines before it.
				writeTree()
				held = nil
				inOldTree = true
				continue
			}
			writeTree()
			if len(held) == 0 {
				held = []string{""}
			}
			for _, h := range held {
				result.WriteString(h + "\n")
			}
			held = nil
		}

		if match := fenceOpenRe.FindStringSubmatch(line); match != nil {
			inBlock = true
			if match[2] == "" || match[2] == "input" {
				if tree, ok := u.trees[lineNo+1]; ok && tree != "" {
					pending = tree
					indent = match[1]
				}
			}
		}
		result.WriteString(line + "\n")
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("error reading markdown: %w", err)
	}

	if pending != "" {
		writeTree()
	}
	for _, h := range held {
		result.WriteString(h + "\n")
	}

	return result.String(), nil
}

// FormatFromReader updates the document read from reader and writes it to
// writer.
func (u *TreeBlockUpdater) FormatFromReader(reader io.Reader, writer io.Writer) error {
	input, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	formatted, err := u.Format(string(input))
	if err != nil {
		return fmt.Errorf("failed to update markdown: %w", err)
	}

	_, err = io.WriteString(writer, formatted)
	return err
}

// IsMarkdownFile checks if a file is a Markdown file
func IsMarkdownFile(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) == ".md"
}
