package formatter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

const fence = "```"

func TestTreeBlockUpdater_Format(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		trees    map[int]string
		expected string
	}{
		{
			name: "replaces existing tree block",
			input: "## Inputs\n\n" +
				fence + "\n42\n" + fence + "\n\n" +
				fence + "tree\n- old\n" + fence + "\n\n## Next\n",
			trees: map[int]string{4: "- number\n  - digit: 4\n"},
			expected: "## Inputs\n\n" +
				fence + "\n42\n" + fence + "\n\n" +
				fence + "tree\n- number\n  - digit: 4\n" + fence + "\n\n## Next\n",
		},
		{
			name:  "inserts before the next block",
			input: fence + "\n42\n" + fence + "\n\n" + fence + "fail\nx\n" + fence + "\n",
			trees: map[int]string{2: "- n\n"},
			expected: fence + "\n42\n" + fence + "\n\n" +
				fence + "tree\n- n\n" + fence + "\n\n" +
				fence + "fail\nx\n" + fence + "\n",
		},
		{
			name:     "inserts at end of document",
			input:    fence + "input\n1\n" + fence,
			trees:    map[int]string{2: "- a"},
			expected: fence + "input\n1\n" + fence + "\n\n" + fence + "tree\n- a\n" + fence + "\n",
		},
		{
			name:     "leaves unknown blocks alone",
			input:    fence + "pest\na = { \"a\" }\n" + fence + "\n\n" + fence + "\nb\n" + fence + "\n",
			trees:    map[int]string{2: "- a\n"},
			expected: fence + "pest\na = { \"a\" }\n" + fence + "\n\n" + fence + "\nb\n" + fence + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewTreeBlockUpdater(tt.trees).Format(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestTreeBlockUpdater_FormatFromReader(t *testing.T) {
	var out bytes.Buffer
	err := NewTreeBlockUpdater(map[int]string{2: "- x\n"}).FormatFromReader(strings.NewReader(fence+"\nx\n"+fence+"\n"), &out)
	assert.NoError(t, err)
	assert.Equal(t, fence+"\nx\n"+fence+"\n\n"+fence+"tree\n- x\n"+fence+"\n", out.String())
}

func TestIsMarkdownFile(t *testing.T) {
	assert.True(t, IsMarkdownFile("numbers.md"))
	assert.True(t, IsMarkdownFile("README.MD"))
	assert.False(t, IsMarkdownFile("grammar.pest"))
}
