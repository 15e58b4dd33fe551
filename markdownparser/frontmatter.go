package markdownparser

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// FrontMatter holds the optional YAML header of a playground document.
type FrontMatter struct {
	Title string `yaml:"title"`
	// Rule is the start rule for input sections that do not name one.
	Rule   string `yaml:"rule"`
	Format string `yaml:"format"`
}

// parseFrontMatter extracts YAML front matter from markdown content. It
// returns the remaining content and the number of lines the header used.
func parseFrontMatter(content string) (FrontMatter, string, int, error) {
	var frontMatter FrontMatter

	if !strings.HasPrefix(content, "---\n") {
		return frontMatter, content, 0, nil
	}

	endIndex := strings.Index(content[4:], "\n---")
	if endIndex == -1 {
		return frontMatter, "", 0, ErrInvalidFrontMatter
	}

	endIndex += 4 // Adjust for the initial slice

	remaining := content[endIndex+4:]
	lines := strings.Count(content[:endIndex+4], "\n")

	err := yaml.UnmarshalWithOptions([]byte(content[4:endIndex]), &frontMatter, yaml.Strict())
	if err != nil {
		return frontMatter, "", 0, fmt.Errorf("%w: %w", ErrInvalidFrontMatter, err)
	}

	return frontMatter, remaining, lines, nil
}
