package tokenizer

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func tokenTypes(t *testing.T, source string, options ...TokenizerOptions) []TokenType {
	t.Helper()

	tokens, err := NewGrammarTokenizer(source, options...).AllTokens()
	assert.NoError(t, err)

	types := make([]TokenType, 0, len(tokens))
	for _, token := range tokens {
		types = append(types, token.Type)
	}
	return types
}

func TestTokenIterator(t *testing.T) {
	source := `number = @{ ASCII_DIGIT+ }`

	expected := []TokenType{
		IDENTIFIER, WHITESPACE, EQUALS, WHITESPACE, AT, OPENED_BRACE, WHITESPACE,
		IDENTIFIER, PLUS, WHITESPACE, CLOSED_BRACE, EOF,
	}

	assert.Equal(t, expected, tokenTypes(t, source))
}

func TestTokenIteratorWithOptions(t *testing.T) {
	source := "// leading comment\nlist = { item ~ (\",\" ~ item)* } /* trailing */"

	expected := []TokenType{
		IDENTIFIER, EQUALS, OPENED_BRACE, IDENTIFIER, TILDE, OPENED_PARENS, STRING,
		TILDE, IDENTIFIER, CLOSED_PARENS, STAR, CLOSED_BRACE, EOF,
	}

	assert.Equal(t, expected, tokenTypes(t, source, TokenizerOptions{SkipWhitespace: true, SkipComments: true}))
}

func TestIteratorEarlyTermination(t *testing.T) {
	source := "a = { b ~ c ~ d }"

	count := 0
	for token, err := range NewGrammarTokenizer(source).Tokens() {
		assert.NoError(t, err)
		count++
		if token.Type == EQUALS {
			break
		}
	}

	assert.Equal(t, 3, count)
}

func TestOperators(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected []TokenType
	}{
		{"range", `'a'..'z'`, []TokenType{CHARACTER, DOT_DOT, CHARACTER, EOF}},
		{"predicates", `&a !b`, []TokenType{AMPERSAND, IDENTIFIER, WHITESPACE, BANG, IDENTIFIER, EOF}},
		{"repeat bounds", `a{2, 3}`, []TokenType{IDENTIFIER, OPENED_BRACE, NUMBER, COMMA, WHITESPACE, NUMBER, CLOSED_BRACE, EOF}},
		{"peek slice", `PEEK[-1..]`, []TokenType{IDENTIFIER, OPENED_BRACKET, MINUS, NUMBER, DOT_DOT, CLOSED_BRACKET, EOF}},
		{"insensitive", `^"select"`, []TokenType{CARET, STRING, EOF}},
		{"modifiers", `_ @ $ !`, []TokenType{IDENTIFIER, WHITESPACE, AT, WHITESPACE, DOLLAR, WHITESPACE, BANG, EOF}},
		{"choice", `a | b?`, []TokenType{IDENTIFIER, WHITESPACE, PIPE, WHITESPACE, IDENTIFIER, QUESTION, EOF}},
		{"tag", `#lhs = a`, []TokenType{TAG, WHITESPACE, EQUALS, WHITESPACE, IDENTIFIER, EOF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tokenTypes(t, tt.source))
		})
	}
}

func TestComments(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected TokenType
	}{
		{"line comment", "// plain", LINE_COMMENT},
		{"rule doc", "/// documents the rule", LINE_DOC},
		{"four slashes is a comment", "//// banner", LINE_COMMENT},
		{"grammar doc", "//! grammar doc", GRAMMAR_DOC},
		{"block comment", "/* a */", BLOCK_COMMENT},
		{"nested block comment", "/* a /* b */ c */", BLOCK_COMMENT},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := NewGrammarTokenizer(tt.source).AllTokens()
			assert.NoError(t, err)
			assert.Equal(t, 2, len(tokens))
			assert.Equal(t, tt.expected, tokens[0].Type)
			assert.Equal(t, tt.source, tokens[0].Value)
		})
	}
}

func TestPositions(t *testing.T) {
	source := "a = { \"é\" }\nb = { a }"

	tokens, err := NewGrammarTokenizer(source, TokenizerOptions{SkipWhitespace: true}).AllTokens()
	assert.NoError(t, err)

	// a = { "é" } \n b
	assert.Equal(t, Position{Line: 1, Column: 7, Offset: 6}, tokens[3].Position)
	assert.Equal(t, Position{Line: 1, Column: 10, Offset: 10}, tokens[3].End)
	assert.Equal(t, Position{Line: 1, Column: 11, Offset: 11}, tokens[4].Position)
	assert.Equal(t, "b", tokens[5].Value)
	assert.Equal(t, Position{Line: 2, Column: 1, Offset: 13}, tokens[5].Position)
}

func TestTokenizerErrors(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected error
		line     int
		column   int
	}{
		{"unexpected character", "a = { % }", ErrUnexpectedCharacter, 1, 7},
		{"lone dot", "a = { . }", ErrUnexpectedCharacter, 1, 7},
		{"unterminated string", "a = { \"abc }", ErrUnterminatedString, 1, 7},
		{"unterminated char", "a = { 'a }", ErrUnterminatedChar, 1, 7},
		{"unterminated comment", "a = { b }\n/* open", ErrUnterminatedComment, 2, 1},
		{"bad escape", `a = { "\q" }`, ErrInvalidEscape, 1, 8},
		{"short hex escape", `a = { "\x4" }`, ErrInvalidEscape, 1, 8},
		{"unicode escape without braces", `a = { "\u0041" }`, ErrInvalidEscape, 1, 8},
		{"bare hash", "# = a", ErrUnexpectedCharacter, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGrammarTokenizer(tt.source).AllTokens()
			assert.Error(t, err)
			assert.True(t, errors.Is(err, tt.expected))

			var tokErr *Error
			assert.True(t, errors.As(err, &tokErr))
			assert.Equal(t, tt.line, tokErr.Position.Line)
			assert.Equal(t, tt.column, tokErr.Position.Column)
		})
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{`"abc"`, "abc"},
		{`'a'`, "a"},
		{`"a\nb"`, "a\nb"},
		{`"\t\r\\\"\'"`, "\t\r\\\"'"},
		{`"\x41"`, "A"},
		{`"\u{1F600}"`, "\U0001F600"},
		{`"\u{e9}x"`, "éx"},
		{`"\0"`, "\x00"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			actual, err := Unquote(tt.raw)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestUnquoteInvalidCodePoint(t *testing.T) {
	_, err := Unquote(`"\u{D800}"`)
	assert.True(t, errors.Is(err, ErrInvalidCodePoint))
}

func TestClass(t *testing.T) {
	tokens, err := NewGrammarTokenizer(`/// doc
num = _{ ASCII_DIGIT ~ digit }`, TokenizerOptions{SkipWhitespace: true}).AllTokens()
	assert.NoError(t, err)

	classes := make([]string, 0, len(tokens))
	for _, token := range tokens {
		classes = append(classes, Class(token))
	}

	assert.Equal(t, []string{
		ClassDoc, ClassIdentifier, ClassOperator, ClassOperator, ClassOperator,
		ClassKeyword, ClassOperator, ClassIdentifier, ClassOperator, ClassWhitespace,
	}, classes)
}

func TestIsKeyword(t *testing.T) {
	assert.True(t, IsKeyword("ASCII_DIGIT"))
	assert.True(t, IsKeyword("PUSH"))
	assert.False(t, IsKeyword("digit"))
	assert.Equal(t, len(Keywords), len(SortedKeywords()))
}
