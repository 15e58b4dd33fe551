package compilerstep2

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	cmn "github.com/shibukawa/pestplay/compiler/compilercommon"
	"github.com/shibukawa/pestplay/compiler/compilerstep1"
	"github.com/shibukawa/pestplay/location"
)

func validate(t *testing.T, source string) cmn.CompileErrors {
	t.Helper()

	root, err := compilerstep1.Execute(source)
	assert.NoError(t, err)

	err = Execute(root)
	if err == nil {
		return nil
	}

	var errs cmn.CompileErrors
	assert.True(t, errors.As(err, &errs))
	assert.True(t, errors.Is(err, cmn.ErrValidation))
	return errs
}

func messages(errs cmn.CompileErrors) []string {
	result := make([]string, len(errs))
	for i, err := range errs {
		result[i] = err.Message
	}
	return result
}

func TestValidGrammar(t *testing.T) {
	errs := validate(t, `
WHITESPACE = _{ " " }
number = @{ ASCII_DIGIT+ ~ ("." ~ ASCII_DIGIT*)? }
list = { SOI ~ number ~ ("," ~ number)* ~ EOI }
stack = { PUSH(number) ~ PEEK ~ POP ~ DROP ~ PEEK_ALL ~ POP_ALL ~ ANY ~ NEWLINE ~ LETTER }
`)
	assert.Equal(t, 0, len(errs))
}

func TestUndefinedRule(t *testing.T) {
	errs := validate(t, "a = { b ~ c }\nc = { \"c\" ~ b }")

	assert.Equal(t, []string{"rule b is undefined", "rule b is undefined"}, messages(errs))
	assert.Equal(t, location.LineColLocation(location.Span{
		Start: location.LineCol{Line: 1, Col: 7},
		End:   location.LineCol{Line: 1, Col: 8},
	}), errs[0].Location)
	assert.Equal(t, 2, location.FromLineCol(errs[1].Location).StartLine)
}

func TestDuplicateRule(t *testing.T) {
	errs := validate(t, "a = { \"a\" }\nb = { a }\na = { \"b\" }")

	assert.Equal(t, []string{"rule a already defined"}, messages(errs))
	assert.Equal(t, 3, location.FromLineCol(errs[0].Location).StartLine)
}

func TestKeywordRuleName(t *testing.T) {
	errs := validate(t, "ANY = { \"a\" }\nPOP = { \"b\" }\nx = { y }")

	assert.Equal(t, []string{
		"ANY is a pest keyword",
		"POP is a pest keyword",
		"rule y is undefined",
	}, messages(errs))
}
