package tokenizer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

var ErrInvalidCodePoint = errors.New("invalid unicode code point")

// Unquote decodes a STRING or CHARACTER token value, quotes included.
func Unquote(raw string) (string, error) {
	if len(raw) < 2 {
		return "", fmt.Errorf("%w: %q", ErrUnterminatedString, raw)
	}
	quote := raw[0]
	if (quote != '"' && quote != '\'') || raw[len(raw)-1] != quote {
		return "", fmt.Errorf("%w: %q", ErrUnterminatedString, raw)
	}

	body := raw[1 : len(raw)-1]
	if !strings.ContainsRune(body, '\\') {
		return body, nil
	}

	var b strings.Builder
	b.Grow(len(body))

	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}

		i++
		if i >= len(body) {
			return "", ErrInvalidEscape
		}

		switch body[i] {
		case '"':
			b.WriteByte('"')
		case '\'':
			b.WriteByte('\'')
		case '\\':
			b.WriteByte('\\')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '0':
			b.WriteByte(0)
		case 'x':
			if i+3 > len(body) {
				return "", ErrInvalidEscape
			}
			v, err := strconv.ParseUint(body[i+1:i+3], 16, 8)
			if err != nil {
				return "", fmt.Errorf("%w: \\x%s", ErrInvalidEscape, body[i+1:i+3])
			}
			b.WriteRune(rune(v))
			i += 2
		case 'u':
			end := strings.IndexByte(body[i:], '}')
			if end < 0 || i+1 >= len(body) || body[i+1] != '{' {
				return "", ErrInvalidEscape
			}
			hex := body[i+2 : i+end]
			v, err := strconv.ParseUint(hex, 16, 32)
			if err != nil || len(hex) < 2 || len(hex) > 6 {
				return "", fmt.Errorf("%w: \\u{%s}", ErrInvalidEscape, hex)
			}
			r := rune(v)
			if !utf8.ValidRune(r) {
				return "", fmt.Errorf("%w: %s", ErrInvalidCodePoint, hex)
			}
			b.WriteRune(r)
			i += end
		default:
			return "", fmt.Errorf("%w: \\%c", ErrInvalidEscape, body[i])
		}
	}

	return b.String(), nil
}
