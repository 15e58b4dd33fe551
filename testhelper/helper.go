// Package testhelper holds fixtures shared by package tests.
package testhelper

import (
	"strings"
	"testing"
)

// TrimIndent removes the common indentation of a raw string literal so that
// tree and error fixtures can be written aligned with the test code. The
// first line, which follows the opening backquote, is dropped.
//
//	TrimIndent(t, `
//		- number
//		  - digit: 4
//		`) == "- number\n  - digit: 4\n"
func TrimIndent(t *testing.T, src string) string {
	t.Helper()

	lines := strings.Split(src, "\n")
	if len(lines) < 2 {
		return src
	}
	lines = lines[1:]

	indent := commonIndent(lines)
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = line[len(indent):]
	}

	return strings.Join(lines, "\n")
}

// commonIndent returns the longest whitespace prefix shared by every
// non-blank line.
func commonIndent(lines []string) string {
	var (
		indent string
		found  bool
	)
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lead := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if !found {
			indent, found = lead, true
			continue
		}
		for !strings.HasPrefix(lead, indent) {
			indent = indent[:len(indent)-1]
		}
	}
	return indent
}
