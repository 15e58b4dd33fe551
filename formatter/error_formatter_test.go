package formatter

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/beevik/etree"

	"github.com/shibukawa/pestplay"
	"github.com/shibukawa/pestplay/engine"
	"github.com/shibukawa/pestplay/location"
)

func TestExcerptPoint(t *testing.T) {
	src := location.NewSource("12\n3x\n")
	got := Excerpt(src, &engine.GrammarError{
		Kind:     engine.KindMatch,
		Message:  "expected digit",
		Location: location.Location{StartLine: 2, StartCol: 2, EndLine: 2, EndCol: 2},
	})
	want := " --> 2:2\n" +
		"  |\n" +
		"2 | 3x\n" +
		"  |  ^---\n" +
		"  |\n" +
		"  = expected digit\n"
	assert.Equal(t, want, got)
}

func TestExcerptSpan(t *testing.T) {
	src := location.NewSource("a = { b }")
	got := Excerpt(src, &engine.GrammarError{
		Kind:     engine.KindValidation,
		Message:  "rule b is undefined",
		Location: location.Location{StartLine: 1, StartCol: 7, EndLine: 1, EndCol: 8},
	})
	assert.Contains(t, got, "1 | a = { b }\n  |       ^\n")
}

func TestMarker(t *testing.T) {
	tests := []struct {
		name string
		loc  location.Location
		line string
		want string
	}{
		{"point", location.Location{StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 1}, "abc", "^---"},
		{"one character", location.Location{StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 2}, "abc", "^"},
		{"word", location.Location{StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 5}, "abcd", "^--^"},
		{"multiline", location.Location{StartLine: 1, StartCol: 2, EndLine: 3, EndCol: 1}, "abcd", "^-^"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, marker(tt.loc, tt.line))
		})
	}
}

func TestWriteErrors(t *testing.T) {
	errs := []*engine.GrammarError{
		{Kind: engine.KindValidation, Message: "rule b is undefined", Location: location.Location{StartLine: 1, StartCol: 7, EndLine: 1, EndCol: 8}},
	}

	var buf bytes.Buffer
	assert.NoError(t, WriteErrors(&buf, pestplay.FormatJSON, "a = { b }", errs))
	var decoded []map[string]any
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "validation", decoded[0]["kind"])
	assert.Equal(t, "rule b is undefined", decoded[0]["message"])

	buf.Reset()
	assert.NoError(t, WriteErrors(&buf, pestplay.FormatXML, "a = { b }", errs))
	doc := etree.NewDocument()
	assert.NoError(t, doc.ReadFromBytes(buf.Bytes()))
	elem := doc.FindElement("//error")
	assert.Equal(t, "1:7-1:8", elem.SelectAttrValue("location", ""))

	buf.Reset()
	assert.NoError(t, WriteErrors(&buf, pestplay.FormatText, "a = { b }", errs))
	assert.Contains(t, buf.String(), "= rule b is undefined")
}
