package formatter

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/beevik/etree"
	"github.com/goccy/go-yaml"

	"github.com/shibukawa/pestplay"
	"github.com/shibukawa/pestplay/engine"
	"github.com/shibukawa/pestplay/testhelper"
)

func numberTree() *engine.TokenTree {
	return &engine.TokenTree{
		Label: "number",
		Rule:  "number",
		Text:  "42",
		Children: []*engine.TokenTree{
			{Label: "digit: 4", Rule: "digit", Text: "4"},
			{Label: "digit: 2", Rule: "digit", Text: "2"},
		},
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTree(&buf, pestplay.FormatText, numberTree())
	assert.NoError(t, err)
	assert.Equal(t, testhelper.TrimIndent(t, `
		- number
		  - digit: 4
		  - digit: 2
		`), buf.String())
}

func TestWriteTextEscapesControlCharacters(t *testing.T) {
	var buf bytes.Buffer
	err := WriteText(&buf, &engine.TokenTree{Label: "line: a\nb", Rule: "line", Text: "a\nb"})
	assert.NoError(t, err)
	assert.Equal(t, "- line: a\\nb\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTree(&buf, pestplay.FormatJSON, numberTree())
	assert.NoError(t, err)

	var decoded engine.TokenTree
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, *numberTree(), decoded)
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTree(&buf, pestplay.FormatYAML, numberTree())
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "rule: digit")

	var decoded engine.TokenTree
	assert.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 2, len(decoded.Children))
	assert.Equal(t, "digit", decoded.Children[1].Rule)
}

func TestWriteXML(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTree(&buf, pestplay.FormatXML, numberTree())
	assert.NoError(t, err)

	doc := etree.NewDocument()
	assert.NoError(t, doc.ReadFromBytes(buf.Bytes()))
	root := doc.SelectElement("node")
	assert.NotZero(t, root)
	assert.Equal(t, "number", root.SelectAttrValue("rule", ""))

	digits := root.SelectElements("node")
	assert.Equal(t, 2, len(digits))
	assert.Equal(t, "4", digits[0].Text())
}

func TestWriteTreeUnsupportedFormat(t *testing.T) {
	err := WriteTree(&bytes.Buffer{}, "csv", numberTree())
	assert.True(t, errors.Is(err, pestplay.ErrUnsupportedFormat))
	assert.True(t, strings.Contains(err.Error(), "csv"))
}
