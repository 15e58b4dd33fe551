package formatter

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/beevik/etree"

	"github.com/shibukawa/pestplay"
	"github.com/shibukawa/pestplay/engine"
	"github.com/shibukawa/pestplay/location"
)

// WriteErrors renders grammar errors. The text format prints an excerpt of
// source under each error.
func WriteErrors(w io.Writer, format string, source string, errs []*engine.GrammarError) error {
	switch format {
	case pestplay.FormatText, "":
		src := location.NewSource(source)
		for i, e := range errs {
			if i > 0 {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, Excerpt(src, e)); err != nil {
				return err
			}
		}
		return nil
	case pestplay.FormatJSON:
		return writeJSON(w, errs)
	case pestplay.FormatYAML:
		return writeYAML(w, errs)
	case pestplay.FormatXML:
		return writeErrorsXML(w, errs)
	}
	return fmt.Errorf("%w: %s", pestplay.ErrUnsupportedFormat, format)
}

// Excerpt formats an error with the offending source line underlined:
//
//	 --> 2:2
//	  |
//	2 | 3x
//	  |  ^---
//	  |
//	  = expected digit
func Excerpt(src *location.Source, e *engine.GrammarError) string {
	loc := e.Location
	lineNo := strconv.Itoa(loc.StartLine)
	pad := strings.Repeat(" ", len(lineNo))
	line := src.Line(loc.StartLine)

	var b strings.Builder
	fmt.Fprintf(&b, "%s--> %s\n", pad, loc)
	fmt.Fprintf(&b, "%s |\n", pad)
	fmt.Fprintf(&b, "%s | %s\n", lineNo, line)
	fmt.Fprintf(&b, "%s | %s%s\n", pad, strings.Repeat(" ", max(loc.StartCol-1, 0)), marker(loc, line))
	fmt.Fprintf(&b, "%s |\n", pad)
	fmt.Fprintf(&b, "%s = %s\n", pad, e.Message)
	return b.String()
}

func marker(loc location.Location, line string) string {
	if loc.IsPoint() {
		return "^---"
	}
	end := loc.EndCol
	if loc.EndLine != loc.StartLine {
		end = utf8.RuneCountInString(line) + 1
	}
	width := end - loc.StartCol
	if width <= 1 {
		return "^"
	}
	return "^" + strings.Repeat("-", width-2) + "^"
}

func writeErrorsXML(w io.Writer, errs []*engine.GrammarError) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("errors")
	for _, e := range errs {
		elem := root.CreateElement("error")
		elem.CreateAttr("kind", e.Kind.String())
		elem.CreateAttr("location", e.Location.String())
		elem.SetText(e.Message)
	}
	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}
