// Package location converts positions reported by the grammar compiler and
// the matcher into a single line/column Location record.
package location

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Location is a 1-based line/column range. A point location has
// start == end.
type Location struct {
	StartLine int `json:"start_line" yaml:"start_line"`
	StartCol  int `json:"start_col" yaml:"start_col"`
	EndLine   int `json:"end_line" yaml:"end_line"`
	EndCol    int `json:"end_col" yaml:"end_col"`
}

// IsPoint reports whether the location covers a single position.
func (l Location) IsPoint() bool {
	return l.StartLine == l.EndLine && l.StartCol == l.EndCol
}

func (l Location) String() string {
	if l.IsPoint() {
		return fmt.Sprintf("%d:%d", l.StartLine, l.StartCol)
	}
	return fmt.Sprintf("%d:%d-%d:%d", l.StartLine, l.StartCol, l.EndLine, l.EndCol)
}

// LineCol is a 1-based line and column pair.
type LineCol struct {
	Line int
	Col  int
}

// LineColLocation is the point-or-span shape produced for errors.
// It is implemented only by Pos and Span.
type LineColLocation interface {
	lineColLocation()
}

// Pos is a single position.
type Pos LineCol

// Span is a start/end position pair.
type Span struct {
	Start LineCol
	End   LineCol
}

func (Pos) lineColLocation()  {}
func (Span) lineColLocation() {}

// FromLineCol normalizes a point-or-span location. Points expand to
// start == end.
func FromLineCol(l LineColLocation) Location {
	switch v := l.(type) {
	case Pos:
		return Location{StartLine: v.Line, StartCol: v.Col, EndLine: v.Line, EndCol: v.Col}
	case Span:
		return Location{StartLine: v.Start.Line, StartCol: v.Start.Col, EndLine: v.End.Line, EndCol: v.End.Col}
	default:
		panic(fmt.Sprintf("location: unsupported location %T", l))
	}
}

// Source resolves byte offsets of a text into line/column pairs.
// Columns count characters, not bytes.
type Source struct {
	text       string
	lineStarts []int
}

// NewSource indexes the line starts of text.
func NewSource(text string) *Source {
	s := &Source{text: text, lineStarts: make([]int, 1, strings.Count(text, "\n")+1)}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			s.lineStarts = append(s.lineStarts, i+1)
		}
	}
	return s
}

// Text returns the indexed text.
func (s *Source) Text() string {
	return s.text
}

// LineCol returns the position of a byte offset. Offsets outside the text
// are clamped to its bounds.
func (s *Source) LineCol(offset int) LineCol {
	if offset < 0 {
		offset = 0
	} else if offset > len(s.text) {
		offset = len(s.text)
	}

	lo, hi := 0, len(s.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if s.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}

	return LineCol{Line: lo + 1, Col: utf8.RuneCountInString(s.text[s.lineStarts[lo]:offset]) + 1}
}

// Pos returns the point location of an offset.
func (s *Source) Pos(offset int) Pos {
	return Pos(s.LineCol(offset))
}

// Span returns the span location of an offset range.
func (s *Source) Span(start, end int) Span {
	return Span{Start: s.LineCol(start), End: s.LineCol(end)}
}

// FromOffsets converts a start/end offset span directly into a Location.
func FromOffsets(s *Source, start, end int) Location {
	return FromLineCol(s.Span(start, end))
}

// Line returns the content of a 1-based line without its terminator.
func (s *Source) Line(line int) string {
	if line < 1 || line > len(s.lineStarts) {
		return ""
	}
	start := s.lineStarts[line-1]
	end := len(s.text)
	if line < len(s.lineStarts) {
		end = s.lineStarts[line] - 1
	}
	return strings.TrimSuffix(s.text[start:end], "\r")
}
