package engine

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shibukawa/pestplay/location"
	"github.com/shibukawa/pestplay/vm"
)

const numberGrammar = `digit = { '0'..'9' }
number = { digit+ }`

func labels(tree *TokenTree) []string {
	var result []string
	tree.Walk(func(node *TokenTree, depth int) {
		result = append(result, node.Label)
	})
	return result
}

func TestExecuteBeforeCompile(t *testing.T) {
	e := New()
	for _, rule := range []string{"number", "", "anything"} {
		tree, err := e.Execute(rule, "42")
		assert.NoError(t, err)
		assert.Nil(t, tree)
	}
	assert.False(t, e.Compiled())
	assert.Empty(t, e.AllIndexedNames())
}

func TestTreeShape(t *testing.T) {
	e := New()
	names, err := e.Compile(numberGrammar)
	require.NoError(t, err)
	assert.Equal(t, []string{"digit", "number"}, names)

	tree, err := e.Execute("number", "42")
	require.NoError(t, err)
	assert.Equal(t, "number", tree.Label)
	require.Len(t, tree.Children, 2)
	assert.Equal(t, "digit: 4", tree.Children[0].Label)
	assert.Equal(t, "digit: 2", tree.Children[1].Label)
	assert.Equal(t, "4", tree.Children[0].Text)
	assert.True(t, tree.Children[1].IsLeaf())
}

func TestTreeRootIsInvokedRule(t *testing.T) {
	e := New()
	_, err := e.Compile(`main = _{ item ~ item }
item = { ASCII_ALPHA }
leaf = { "x" }`)
	require.NoError(t, err)

	tree, err := e.Execute("main", "ab")
	require.NoError(t, err)
	assert.Equal(t, []string{"main", "item: a", "item: b"}, labels(tree))
	assert.Equal(t, "ab", tree.Text)

	tree, err = e.Execute("leaf", "x")
	require.NoError(t, err)
	assert.Equal(t, []string{"leaf", "leaf: x"}, labels(tree))
}

func TestIdempotentCompile(t *testing.T) {
	e := New()
	first, err := e.Compile(numberGrammar)
	require.NoError(t, err)
	firstRefs, _ := e.ReferencesOf("digit")
	firstNames := e.AllIndexedNames()

	second, err := e.Compile(numberGrammar)
	require.NoError(t, err)
	secondRefs, _ := e.ReferencesOf("digit")

	assert.Equal(t, first, second)
	assert.Equal(t, firstRefs, secondRefs)
	assert.Equal(t, firstNames, e.AllIndexedNames())
}

func TestReferencesOfDefinitionAndUses(t *testing.T) {
	e := New()
	_, err := e.Compile(`r = { "r" }
a = { r ~ r }
b = { r? }`)
	require.NoError(t, err)

	locs, ok := e.ReferencesOf("r")
	require.True(t, ok)
	assert.Equal(t, []location.Location{
		{StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 2},
		{StartLine: 2, StartCol: 7, EndLine: 2, EndCol: 8},
		{StartLine: 2, StartCol: 11, EndLine: 2, EndCol: 12},
		{StartLine: 3, StartCol: 7, EndLine: 3, EndCol: 8},
	}, locs)

	_, ok = e.ReferencesOf("missing")
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "b", "r"}, e.AllIndexedNames())
}

func TestFailedCompileKeepsRuleSet(t *testing.T) {
	e := New()
	_, err := e.Compile(numberGrammar)
	require.NoError(t, err)

	_, err = e.Compile(`number = { undefined_rule }`)
	require.Error(t, err)

	tree, err := e.Execute("number", "7")
	require.NoError(t, err)
	assert.Equal(t, []string{"number", "digit: 7"}, labels(tree))
}

func TestFailedCompileReferenceIndex(t *testing.T) {
	e := New()
	_, err := e.Compile(numberGrammar)
	require.NoError(t, err)

	// Validation failure: index reflects the new source.
	_, err = e.Compile(`number = { undefined_rule }`)
	require.Error(t, err)
	assert.Equal(t, []string{"number", "undefined_rule"}, e.AllIndexedNames())

	// Syntax failure: index is cleared.
	_, err = e.Compile(`number = {`)
	require.Error(t, err)
	assert.Empty(t, e.AllIndexedNames())
}

func TestUnknownRule(t *testing.T) {
	e := New()
	_, err := e.Compile(numberGrammar)
	require.NoError(t, err)

	tree, err := e.Execute("not_a_rule", "anything")
	assert.Nil(t, tree)
	var gerr *GrammarError
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, KindMatch, gerr.Kind)
	assert.Equal(t, "rule not_a_rule is undefined", gerr.Message)
}

func TestMatchErrorLocation(t *testing.T) {
	e := New()
	_, err := e.Compile(`lines = { SOI ~ (digit+ ~ NEWLINE)* ~ EOI }
digit = { ASCII_DIGIT }`)
	require.NoError(t, err)

	_, err = e.Execute("lines", "12\n3x\n")
	var gerr *GrammarError
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, KindMatch, gerr.Kind)
	assert.Equal(t, "expected digit", gerr.Message)
	assert.Equal(t, location.Location{StartLine: 2, StartCol: 2, EndLine: 2, EndCol: 2}, gerr.Location)
}

func TestCompileErrorKinds(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		kind    Kind
		line    int
		message string
	}{
		{"missing closing brace", "a = { \"a\" }\nb = { \"b\" }\nc = { \"c\"\n", KindSyntactic, 3, ""},
		{"undefined rule", "a = { b }", KindValidation, 1, "rule b is undefined"},
		{"duplicate rule", "a = { \"a\" }\na = { \"b\" }", KindValidation, 2, "rule a already defined"},
		{"zero repeat", "a = { \"a\"{0} }", KindConsumption, 1, "cannot repeat 0 times"},
		{"left recursion", "a = { \"x\" }\nexpr = { expr ~ a }", KindValidation, 2, "rule expr is left-recursive (expr -> expr)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New()
			names, err := e.Compile(tt.source)
			assert.Nil(t, names)

			var errs GrammarErrors
			require.True(t, errors.As(err, &errs))
			require.NotEmpty(t, errs)
			assert.Equal(t, tt.kind, errs[0].Kind)
			assert.Equal(t, tt.line, errs[0].Location.StartLine)
			if tt.message != "" {
				assert.Equal(t, tt.message, errs[0].Message)
			}
			assert.False(t, errors.Is(err, ErrFatal))
		})
	}
}

func TestFatalErrors(t *testing.T) {
	errs := compileErrors(errors.New("boom"))
	require.Len(t, errs, 1)
	assert.Equal(t, KindFatal, errs[0].Kind)
	assert.ErrorIs(t, errs[0], ErrFatal)

	gerr := matchError(errors.New("boom"), "")
	assert.Equal(t, KindFatal, gerr.Kind)
	assert.ErrorIs(t, gerr, ErrFatal)
}

func TestKindText(t *testing.T) {
	text, err := KindValidation.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "validation", string(text))
	assert.Equal(t, "Kind(42)", Kind(42).String())
}

func TestConcurrentAccess(t *testing.T) {
	e := New()
	_, err := e.Compile(numberGrammar)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				_, _ = e.Compile(numberGrammar)
				return
			}
			tree, err := e.Execute("number", "123")
			assert.NoError(t, err)
			assert.Equal(t, "number", tree.Label)
			e.AllIndexedNames()
		}()
	}
	wg.Wait()
}

func TestRulesAndDocs(t *testing.T) {
	e := New()
	assert.Nil(t, e.Rules())
	_, err := e.Compile("//! digits only\n" + numberGrammar)
	require.NoError(t, err)
	assert.Len(t, e.Rules(), 2)
	assert.Equal(t, []string{"digits only"}, e.Docs())
}

func TestMaxDepth(t *testing.T) {
	e := New(WithMaxDepth(2))
	_, err := e.Compile(`a = { "x" ~ a? }`)
	require.NoError(t, err)

	tree, err := e.Execute("a", "xxxxx")
	assert.Nil(t, tree)
	var gerr *GrammarError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, KindMatch, gerr.Kind)
	assert.Equal(t, "call limit reached", gerr.Message)
	assert.ErrorIs(t, err, vm.ErrCallLimit)

	tree, err = e.Execute("a", "x")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a: x"}, labels(tree))
}

func TestKindRoundTrip(t *testing.T) {
	for kind := KindSyntactic; kind <= KindFatal; kind++ {
		text, err := kind.MarshalText()
		require.NoError(t, err)
		var decoded Kind
		require.NoError(t, decoded.UnmarshalText(text))
		assert.Equal(t, kind, decoded)
	}

	var k Kind
	assert.Error(t, k.UnmarshalText([]byte("unknown")))
}
