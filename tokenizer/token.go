package tokenizer

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrUnexpectedCharacter = errors.New("unexpected character")
	ErrUnterminatedString  = errors.New("unterminated string literal")
	ErrUnterminatedChar    = errors.New("unterminated character literal")
	ErrUnterminatedComment = errors.New("unterminated block comment")
	ErrInvalidEscape       = errors.New("invalid escape sequence")
)

// TokenType represents the type of a token
type TokenType int

const (
	// Basic tokens
	EOF TokenType = iota
	WHITESPACE
	IDENTIFIER // rule names and built-ins
	TAG        // #tag
	STRING     // "text"
	CHARACTER  // 'c'
	NUMBER     // 123

	// Punctuation
	EQUALS          // =
	OPENED_BRACE    // {
	CLOSED_BRACE    // }
	OPENED_PARENS   // (
	CLOSED_PARENS   // )
	OPENED_BRACKET  // [
	CLOSED_BRACKET  // ]
	COMMA           // ,
	DOT_DOT         // ..

	// Operators
	TILDE     // ~
	PIPE      // |
	QUESTION  // ?
	STAR      // *
	PLUS      // +
	MINUS     // -
	AMPERSAND // &
	BANG      // !
	CARET     // ^
	AT        // @
	DOLLAR    // $

	// Comments
	LINE_COMMENT  // // comment
	BLOCK_COMMENT // /* comment */
	LINE_DOC      // /// rule documentation
	GRAMMAR_DOC   // //! grammar documentation
)

var tokenTypeNames = map[TokenType]string{
	EOF:            "EOF",
	WHITESPACE:     "WHITESPACE",
	IDENTIFIER:     "IDENTIFIER",
	TAG:            "TAG",
	STRING:         "STRING",
	CHARACTER:      "CHARACTER",
	NUMBER:         "NUMBER",
	EQUALS:         "EQUALS",
	OPENED_BRACE:   "OPENED_BRACE",
	CLOSED_BRACE:   "CLOSED_BRACE",
	OPENED_PARENS:  "OPENED_PARENS",
	CLOSED_PARENS:  "CLOSED_PARENS",
	OPENED_BRACKET: "OPENED_BRACKET",
	CLOSED_BRACKET: "CLOSED_BRACKET",
	COMMA:          "COMMA",
	DOT_DOT:        "DOT_DOT",
	TILDE:          "TILDE",
	PIPE:           "PIPE",
	QUESTION:       "QUESTION",
	STAR:           "STAR",
	PLUS:           "PLUS",
	MINUS:          "MINUS",
	AMPERSAND:      "AMPERSAND",
	BANG:           "BANG",
	CARET:          "CARET",
	AT:             "AT",
	DOLLAR:         "DOLLAR",
	LINE_COMMENT:   "LINE_COMMENT",
	BLOCK_COMMENT:  "BLOCK_COMMENT",
	LINE_DOC:       "LINE_DOC",
	GRAMMAR_DOC:    "GRAMMAR_DOC",
}

// String returns the string representation of TokenType
func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsTrivia reports whether the token is skipped by the grammar parser.
func (t TokenType) IsTrivia() bool {
	return t == WHITESPACE || t == LINE_COMMENT || t == BLOCK_COMMENT
}

// Position represents a position in the source code
type Position struct {
	Line   int
	Column int
	Offset int
}

// Token represents a token
type Token struct {
	Type     TokenType
	Value    string
	Position Position
	End      Position
}

// String returns the string representation of Token
func (t Token) String() string {
	return t.Type.String() + ": " + t.Value
}

// Error is a lexical error at a source position.
type Error struct {
	Err      error
	Position Position
	Detail   string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s at line %d, column %d", e.Err, e.Detail, e.Position.Line, e.Position.Column)
	}
	return fmt.Sprintf("%s at line %d, column %d", e.Err, e.Position.Line, e.Position.Column)
}

func (e *Error) Unwrap() error {
	return e.Err
}
