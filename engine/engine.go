// Package engine holds the compiled grammar of a playground session and
// runs it against input.
package engine

import (
	"sync"

	"github.com/shibukawa/pestplay/compiler"
	"github.com/shibukawa/pestplay/location"
	"github.com/shibukawa/pestplay/refindex"
	"github.com/shibukawa/pestplay/vm"
)

// Engine owns the current rule set and reference index. It is safe for
// concurrent use. The rule set and the index are guarded separately.
type Engine struct {
	vmOptions []vm.Option

	ruleMu sync.RWMutex
	rules  *ruleSet

	refMu sync.RWMutex
	refs  *refindex.Index
}

type ruleSet struct {
	vm    *vm.Vm
	rules []*compiler.Rule
	docs  []string
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxDepth limits nested rule calls while matching.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		e.vmOptions = append(e.vmOptions, vm.WithMaxDepth(depth))
	}
}

// New creates an Engine with nothing compiled.
func New(options ...Option) *Engine {
	e := &Engine{refs: refindex.Build(nil, nil)}
	for _, option := range options {
		option(e)
	}
	return e
}

// Compile replaces the current rule set with the one built from source and
// returns its rule names in definition order. On failure the previous rule
// set stays current and the error is a GrammarErrors.
//
// The reference index is rebuilt from the syntax tree whenever the
// syntactic parse succeeds, even if a later stage fails. It is cleared when
// the syntactic parse fails.
func (e *Engine) Compile(source string) ([]string, error) {
	result, err := compiler.Compile(source)

	refs := refindex.Build(result.Tree, location.NewSource(source))
	e.refMu.Lock()
	e.refs = refs
	e.refMu.Unlock()

	if err != nil {
		return nil, compileErrors(err)
	}

	set := &ruleSet{
		vm:    vm.New(result.Rules, e.vmOptions...),
		rules: result.Rules,
		docs:  result.Docs,
	}
	e.ruleMu.Lock()
	e.rules = set
	e.ruleMu.Unlock()

	return result.RuleNames(), nil
}

func (e *Engine) current() *ruleSet {
	e.ruleMu.RLock()
	defer e.ruleMu.RUnlock()
	return e.rules
}

// Execute matches input against rule. It returns nil and no error when
// nothing has been compiled yet. A failed match, an unknown rule included,
// is a *GrammarError of KindMatch.
func (e *Engine) Execute(rule string, input string) (*TokenTree, error) {
	set := e.current()
	if set == nil {
		return nil, nil
	}

	pairs, err := set.vm.Parse(rule, input)
	if err != nil {
		return nil, matchError(err, input)
	}

	return newTokenTree(rule, input, pairs), nil
}

// ReferencesOf returns every location where name is written in the last
// compiled grammar source.
func (e *Engine) ReferencesOf(name string) ([]location.Location, bool) {
	e.refMu.RLock()
	defer e.refMu.RUnlock()
	return e.refs.ReferencesOf(name)
}

// AllIndexedNames returns the identifiers of the reference index, sorted.
func (e *Engine) AllIndexedNames() []string {
	e.refMu.RLock()
	defer e.refMu.RUnlock()
	return e.refs.Names()
}

// Compiled reports whether a rule set is current.
func (e *Engine) Compiled() bool {
	return e.current() != nil
}

// Rules returns the optimized rules of the current rule set.
func (e *Engine) Rules() []*compiler.Rule {
	if set := e.current(); set != nil {
		return set.rules
	}
	return nil
}

// Docs returns the grammar documentation of the current rule set.
func (e *Engine) Docs() []string {
	if set := e.current(); set != nil {
		return set.docs
	}
	return nil
}
