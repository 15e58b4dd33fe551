package compilerstep3

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	cmn "github.com/shibukawa/pestplay/compiler/compilercommon"
	"github.com/shibukawa/pestplay/compiler/compilerstep1"
	"github.com/shibukawa/pestplay/compiler/compilerstep2"
	"github.com/shibukawa/pestplay/location"
)

func consume(t *testing.T, source string) ([]*cmn.Rule, error) {
	t.Helper()

	root, err := compilerstep1.Execute(source)
	assert.NoError(t, err)
	assert.NoError(t, compilerstep2.Execute(root))

	return Execute(root)
}

func errorMessages(t *testing.T, err error) []string {
	t.Helper()

	var errs cmn.CompileErrors
	assert.True(t, errors.As(err, &errs))

	result := make([]string, len(errs))
	for i, e := range errs {
		result[i] = e.Message
	}
	return result
}

func TestConsumeRules(t *testing.T) {
	rules, err := consume(t, `/// a digit
digit = { '0'..'9' }
number = @{ "-"? ~ digit+ | "nan" }
ident = ${ !digit ~ (^"x" | PUSH(digit)) ~ PEEK[1..] ~ #tail = digit{2, 3} }`)
	assert.NoError(t, err)
	assert.Equal(t, 3, len(rules))

	assert.Equal(t, "digit", rules[0].Name)
	assert.Equal(t, []string{"a digit"}, rules[0].Docs)
	assert.Equal(t, cmn.Normal, rules[0].Type)
	assert.Equal(t, `'0'..'9'`, rules[0].Expr.String())

	assert.Equal(t, cmn.Atomic, rules[1].Type)
	assert.Equal(t, cmn.ExprChoice, rules[1].Expr.Kind)
	assert.Equal(t, `"-"? ~ digit+ | "nan"`, rules[1].Expr.String())

	assert.Equal(t, cmn.CompoundAtomic, rules[2].Type)
	assert.Equal(t, `!digit ~ (^"x" | PUSH(digit)) ~ PEEK[1..] ~ (#tail = digit{2, 3})`, rules[2].Expr.String())
	assert.Equal(t, location.Span{
		Start: location.LineCol{Line: 4, Col: 1},
		End:   location.LineCol{Line: 4, Col: 6},
	}, rules[2].Span)
}

func TestConsumeEscapes(t *testing.T) {
	rules, err := consume(t, `a = { "\t\u{e9}" ~ '\x41'..'\u{5A}' }`)
	assert.NoError(t, err)

	seq := rules[0].Expr
	assert.Equal(t, "\té", seq.Children[0].Str)
	assert.Equal(t, 'A', seq.Children[1].From)
	assert.Equal(t, 'Z', seq.Children[1].To)
}

func TestConsumePrefixBindsLooserThanPostfix(t *testing.T) {
	rules, err := consume(t, `a = { !"a"* ~ &"b"+ }`)
	assert.NoError(t, err)

	seq := rules[0].Expr
	assert.Equal(t, cmn.ExprNegPred, seq.Children[0].Kind)
	assert.Equal(t, cmn.ExprRep, seq.Children[0].Inner().Kind)
	assert.Equal(t, cmn.ExprPosPred, seq.Children[1].Kind)
	assert.Equal(t, cmn.ExprRepOnce, seq.Children[1].Inner().Kind)
}

func TestConsumptionErrors(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected []string
	}{
		{"repeat zero times", `a = { "a"{0} }`, []string{"cannot repeat 0 times"}},
		{"repeat max zero", `a = { "a"{,0} }`, []string{"cannot repeat 0 times"}},
		{"min exceeds max", `a = { "a"{3, 2} }`, []string{"the minimum (3) must not exceed the maximum (2)"}},
		{"overflow", `a = { "a"{99999999999} }`, []string{"number cannot overflow"}},
		{"multi character range", `a = { 'ab'..'z' }`, []string{"character literal must contain exactly one character"}},
		{"invalid code point", `a = { "\u{110000}" }`, []string{"invalid unicode code point: 110000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := consume(t, tt.source)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, cmn.ErrConsumption))
			assert.Equal(t, tt.expected, errorMessages(t, err))
		})
	}
}

func TestValidateAST(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected []string
	}{
		{
			"direct left recursion",
			`expr = { expr ~ "+" ~ term | term }
term = { "x" }`,
			[]string{"rule expr is left-recursive (expr -> expr)"},
		},
		{
			"indirect left recursion",
			`a = { b ~ "a" }
b = { "b"? ~ a }`,
			[]string{"rule a is left-recursive (a -> b -> a)", "rule b is left-recursive (b -> a -> b)"},
		},
		{
			"repetition cannot fail",
			`a = { ("a"?)* }`,
			[]string{"expression inside repetition cannot fail and will repeat infinitely"},
		},
		{
			"repetition non-progressing",
			`a = { (&"a")+ ~ "a" }`,
			[]string{"expression inside repetition is non-progressing and will repeat infinitely"},
		},
		{
			"unreachable choice",
			`a = { "a"* | "b" }`,
			[]string{"expression cannot fail; following choices cannot be reached"},
		},
		{
			"whitespace cannot fail",
			`WHITESPACE = _{ " "* }
a = { "a" }`,
			[]string{"WHITESPACE cannot fail and will repeat infinitely"},
		},
		{
			"sorted by location",
			`b = { "x"? | "y" }
a = { ("a"?)* }`,
			[]string{
				"expression cannot fail; following choices cannot be reached",
				"expression inside repetition cannot fail and will repeat infinitely",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := consume(t, tt.source)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, cmn.ErrValidation))
			assert.Equal(t, tt.expected, errorMessages(t, err))

			var errs cmn.CompileErrors
			assert.True(t, errors.As(err, &errs))
			for _, e := range errs {
				assert.Equal(t, cmn.StageValidation, e.Stage)
			}
		})
	}
}

func TestLeftRecursionLocation(t *testing.T) {
	_, err := consume(t, "a = { \"x\" }\nexpr = { expr ~ a }")

	var errs cmn.CompileErrors
	assert.True(t, errors.As(err, &errs))
	assert.Equal(t, location.LineColLocation(location.Span{
		Start: location.LineCol{Line: 2, Col: 10},
		End:   location.LineCol{Line: 2, Col: 14},
	}), errs[0].Location)
}

func TestGrammarDocs(t *testing.T) {
	root, err := compilerstep1.Execute("//! first\n//!second\na = { \"a\" }")
	assert.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, GrammarDocs(root))
}
