package tokenizer

import (
	"fmt"
	"iter"
	"unicode"
	"unicode/utf8"
)

// TokenIterator uses Go 1.24 iterator pattern
type TokenIterator iter.Seq2[Token, error]

// GrammarTokenizer splits grammar source into tokens and returns an iterator
type GrammarTokenizer struct {
	input   string
	options TokenizerOptions
}

// TokenizerOptions are options for the tokenizer
type TokenizerOptions struct {
	SkipWhitespace bool
	SkipComments   bool
}

var singleCharTokens = map[rune]TokenType{
	'=': EQUALS,
	'{': OPENED_BRACE,
	'}': CLOSED_BRACE,
	'(': OPENED_PARENS,
	')': CLOSED_PARENS,
	'[': OPENED_BRACKET,
	']': CLOSED_BRACKET,
	',': COMMA,
	'~': TILDE,
	'|': PIPE,
	'?': QUESTION,
	'*': STAR,
	'+': PLUS,
	'-': MINUS,
	'&': AMPERSAND,
	'!': BANG,
	'^': CARET,
	'@': AT,
	'$': DOLLAR,
}

// NewGrammarTokenizer creates a new GrammarTokenizer
func NewGrammarTokenizer(input string, options ...TokenizerOptions) *GrammarTokenizer {
	opts := TokenizerOptions{}
	if len(options) > 0 {
		opts = options[0]
	}

	return &GrammarTokenizer{
		input:   input,
		options: opts,
	}
}

// Tokens returns an iterator of tokens. Iteration stops after the first
// error or after EOF.
func (t *GrammarTokenizer) Tokens() TokenIterator {
	return func(yield func(Token, error) bool) {
		tokenizer := newTokenizer(t.input)

		for {
			token, err := tokenizer.nextToken()
			if err != nil {
				yield(Token{}, err)
				return
			}

			if token.Type == EOF {
				yield(token, nil)
				return
			}

			if t.options.SkipWhitespace && token.Type == WHITESPACE {
				continue
			}
			if t.options.SkipComments && (token.Type == LINE_COMMENT || token.Type == BLOCK_COMMENT) {
				continue
			}

			if !yield(token, nil) {
				return
			}
		}
	}
}

// AllTokens gets all tokens as a slice, EOF included.
func (t *GrammarTokenizer) AllTokens() ([]Token, error) {
	tokens := make([]Token, 0, 64)

	for token, err := range t.Tokens() {
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, token)
	}

	return tokens, nil
}

// Internal tokenizer implementation
type tokenizer struct {
	input   string
	offset  int
	width   int
	line    int
	column  int
	current rune
	eof     bool
}

func newTokenizer(input string) *tokenizer {
	t := &tokenizer{input: input, line: 1, column: 1}
	t.decode()
	return t
}

func (t *tokenizer) decode() {
	if t.offset >= len(t.input) {
		t.eof = true
		t.current = 0
		t.width = 0
		return
	}
	t.current, t.width = utf8.DecodeRuneInString(t.input[t.offset:])
}

// readChar moves to the next character
func (t *tokenizer) readChar() {
	if t.eof {
		return
	}
	if t.current == '\n' {
		t.line++
		t.column = 1
	} else {
		t.column++
	}
	t.offset += t.width
	t.decode()
}

// peekChar looks ahead at the next character
func (t *tokenizer) peekChar() rune {
	next := t.offset + t.width
	if t.eof || next >= len(t.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(t.input[next:])
	return r
}

func (t *tokenizer) pos() Position {
	return Position{Line: t.line, Column: t.column, Offset: t.offset}
}

func (t *tokenizer) newToken(tokenType TokenType, start Position) Token {
	return Token{
		Type:     tokenType,
		Value:    t.input[start.Offset:t.offset],
		Position: start,
		End:      t.pos(),
	}
}

// nextToken gets the next token
func (t *tokenizer) nextToken() (Token, error) {
	start := t.pos()
	if t.eof {
		return Token{Type: EOF, Position: start, End: start}, nil
	}

	switch c := t.current; {
	case unicode.IsSpace(c):
		for !t.eof && unicode.IsSpace(t.current) {
			t.readChar()
		}
		return t.newToken(WHITESPACE, start), nil
	case c == '/' && t.peekChar() == '/':
		return t.readLineComment(start), nil
	case c == '/' && t.peekChar() == '*':
		return t.readBlockComment(start)
	case c == '"':
		return t.readQuoted(start, '"', STRING, ErrUnterminatedString)
	case c == '\'':
		return t.readQuoted(start, '\'', CHARACTER, ErrUnterminatedChar)
	case c == '#':
		t.readChar()
		if !isIdentStart(t.current) {
			return Token{}, &Error{Err: ErrUnexpectedCharacter, Position: start, Detail: "'#'"}
		}
		t.readIdentifierTail()
		return t.newToken(TAG, start), nil
	case isIdentStart(c):
		t.readIdentifierTail()
		return t.newToken(IDENTIFIER, start), nil
	case c >= '0' && c <= '9':
		for !t.eof && t.current >= '0' && t.current <= '9' {
			t.readChar()
		}
		return t.newToken(NUMBER, start), nil
	case c == '.' && t.peekChar() == '.':
		t.readChar()
		t.readChar()
		return t.newToken(DOT_DOT, start), nil
	}

	if tokenType, ok := singleCharTokens[t.current]; ok {
		t.readChar()
		return t.newToken(tokenType, start), nil
	}

	return Token{}, &Error{Err: ErrUnexpectedCharacter, Position: start, Detail: fmt.Sprintf("%q", t.current)}
}

func isIdentStart(c rune) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c rune) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func (t *tokenizer) readIdentifierTail() {
	for !t.eof && isIdentPart(t.current) {
		t.readChar()
	}
}

// readLineComment reads line comments, including /// and //! docs
func (t *tokenizer) readLineComment(start Position) Token {
	t.readChar()
	t.readChar()

	tokenType := LINE_COMMENT
	switch {
	case t.current == '!':
		tokenType = GRAMMAR_DOC
	case t.current == '/' && t.peekChar() != '/':
		tokenType = LINE_DOC
	}

	for !t.eof && t.current != '\n' {
		t.readChar()
	}

	return t.newToken(tokenType, start)
}

// readBlockComment reads block comments. Block comments nest.
func (t *tokenizer) readBlockComment(start Position) (Token, error) {
	depth := 0

	for !t.eof {
		switch {
		case t.current == '/' && t.peekChar() == '*':
			depth++
			t.readChar()
			t.readChar()
		case t.current == '*' && t.peekChar() == '/':
			depth--
			t.readChar()
			t.readChar()
			if depth == 0 {
				return t.newToken(BLOCK_COMMENT, start), nil
			}
		default:
			t.readChar()
		}
	}

	return Token{}, &Error{Err: ErrUnterminatedComment, Position: start}
}

// readQuoted reads string and character literals. Escapes are validated
// here and decoded later by Unquote.
func (t *tokenizer) readQuoted(start Position, delimiter rune, tokenType TokenType, unterminated error) (Token, error) {
	t.readChar()

	for !t.eof && t.current != delimiter {
		if t.current == '\\' {
			escapePos := t.pos()
			t.readChar()
			if err := t.readEscape(escapePos); err != nil {
				return Token{}, err
			}
			continue
		}
		t.readChar()
	}

	if t.eof {
		return Token{}, &Error{Err: unterminated, Position: start}
	}

	t.readChar()
	return t.newToken(tokenType, start), nil
}

func (t *tokenizer) readEscape(escapePos Position) error {
	switch t.current {
	case '"', '\\', 'r', 'n', 't', '0', '\'':
		t.readChar()
		return nil
	case 'x':
		t.readChar()
		for i := 0; i < 2; i++ {
			if !isHexDigit(t.current) {
				return &Error{Err: ErrInvalidEscape, Position: escapePos, Detail: `\x needs two hex digits`}
			}
			t.readChar()
		}
		return nil
	case 'u':
		t.readChar()
		if t.current != '{' {
			return &Error{Err: ErrInvalidEscape, Position: escapePos, Detail: `\u needs braces`}
		}
		t.readChar()
		digits := 0
		for isHexDigit(t.current) {
			digits++
			t.readChar()
		}
		if digits < 2 || digits > 6 || t.current != '}' {
			return &Error{Err: ErrInvalidEscape, Position: escapePos, Detail: `\u{...} needs 2 to 6 hex digits`}
		}
		t.readChar()
		return nil
	}

	if t.eof {
		return &Error{Err: ErrInvalidEscape, Position: escapePos}
	}
	return &Error{Err: ErrInvalidEscape, Position: escapePos, Detail: fmt.Sprintf(`\%c`, t.current)}
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
