package vm

import (
	"fmt"

	cmn "github.com/shibukawa/pestplay/compiler/compilercommon"
)

// DefaultMaxDepth bounds nested rule calls during one parse.
const DefaultMaxDepth = 20000

// Vm matches input against a set of optimized rules.
type Vm struct {
	rules    map[string]*cmn.Rule
	names    []string
	maxDepth int

	hasWhitespace bool
	hasComment    bool
}

// Option configures a Vm.
type Option func(*Vm)

// WithMaxDepth sets the limit of nested rule calls.
func WithMaxDepth(depth int) Option {
	return func(v *Vm) {
		v.maxDepth = depth
	}
}

// New creates a Vm for the given rules.
func New(rules []*cmn.Rule, options ...Option) *Vm {
	v := &Vm{
		rules:    make(map[string]*cmn.Rule, len(rules)),
		names:    make([]string, 0, len(rules)),
		maxDepth: DefaultMaxDepth,
	}
	for _, rule := range rules {
		v.rules[rule.Name] = rule
		v.names = append(v.names, rule.Name)
	}
	_, v.hasWhitespace = v.rules["WHITESPACE"]
	_, v.hasComment = v.rules["COMMENT"]

	for _, option := range options {
		option(v)
	}

	return v
}

// RuleNames returns the rule names in definition order.
func (v *Vm) RuleNames() []string {
	return v.names
}

// Parse matches input against the named rule. The match does not need to
// cover the whole input.
func (v *Vm) Parse(rule string, input string) (Pairs, error) {
	if _, ok := v.rules[rule]; !ok && !isBuiltin(rule) {
		return nil, &CustomError{
			Message: fmt.Sprintf("rule %s is undefined", rule),
			Err:     ErrUndefinedRule,
		}
	}

	s := newState(input, v.maxDepth)

	matched := v.parseRule(rule, s)

	// A limit hit inside an optional part still cut the match short.
	if s.limitReached {
		return nil, &CustomError{Message: ErrCallLimit.Error(), Pos: s.attemptPos, Err: ErrCallLimit}
	}

	if !matched {
		return nil, &ParsingError{
			Positives: sortedUnique(s.positives),
			Negatives: sortedUnique(s.negatives),
			Pos:       s.attemptPos,
		}
	}

	return buildPairs(input, s.queue), nil
}

func (v *Vm) parseRule(name string, s *state) bool {
	switch name {
	case "ANY":
		return s.skipAny()
	case "EOI":
		return s.rule("EOI", func() bool { return s.pos == len(s.input) })
	case "SOI":
		return s.pos == 0
	case "PEEK":
		return s.stackPeek()
	case "PEEK_ALL":
		return s.stackMatchAll(false)
	case "POP":
		return s.stackPop()
	case "POP_ALL":
		return s.stackMatchAll(true)
	case "DROP":
		return s.stackDrop()
	case "NEWLINE":
		return s.matchString("\n") || s.matchString("\r\n") || s.matchString("\r")
	}

	if r, ok := asciiRanges[name]; ok {
		return r(s)
	}

	rule, ok := v.rules[name]
	if !ok {
		if pred, ok := unicodeProperties[name]; ok {
			return s.matchCharBy(pred)
		}
		// Unreachable after validation.
		return false
	}

	if s.depth >= s.maxDepth {
		s.limitReached = true
		return false
	}
	s.depth++
	defer func() { s.depth-- }()

	body := func() bool { return v.parseExpr(rule.Expr, s) }

	if name == "WHITESPACE" || name == "COMMENT" {
		switch rule.Type {
		case cmn.Silent:
			return s.withAtomicity(atomic, body)
		case cmn.CompoundAtomic:
			return s.withAtomicity(compoundAtomic, func() bool { return s.rule(name, body) })
		case cmn.NonAtomic:
			return s.withAtomicity(atomic, func() bool { return s.rule(name, body) })
		default:
			return s.rule(name, func() bool { return s.withAtomicity(atomic, body) })
		}
	}

	switch rule.Type {
	case cmn.Silent:
		return body()
	case cmn.Atomic:
		return s.rule(name, func() bool { return s.withAtomicity(atomic, body) })
	case cmn.CompoundAtomic:
		return s.withAtomicity(compoundAtomic, func() bool { return s.rule(name, body) })
	case cmn.NonAtomic:
		return s.withAtomicity(nonAtomic, func() bool { return s.rule(name, body) })
	default:
		return s.rule(name, body)
	}
}

// skip consumes implicit whitespace and comments between tokens of
// non-atomic rules.
func (v *Vm) skip(s *state) bool {
	if s.atomicity != nonAtomic {
		return true
	}

	whitespace := func() {
		if v.hasWhitespace {
			for v.parseRule("WHITESPACE", s) {
			}
		}
	}

	whitespace()
	if v.hasComment {
		for s.attempt(func() bool {
			if !v.parseRule("COMMENT", s) {
				return false
			}
			whitespace()
			return true
		}) {
		}
	}
	return true
}

func (v *Vm) parseExpr(expr *cmn.Expr, s *state) bool {
	switch expr.Kind {
	case cmn.ExprStr:
		return s.matchString(expr.Str)
	case cmn.ExprInsens:
		return s.matchInsensitive(expr.Str)
	case cmn.ExprRange:
		return s.matchRange(expr.From, expr.To)
	case cmn.ExprIdent:
		return v.parseRule(expr.Str, s)
	case cmn.ExprPeekSlice:
		return s.stackMatchSlice(expr.Start, expr.End)
	case cmn.ExprPosPred:
		return s.lookaheadMatch(true, func() bool { return v.parseExpr(expr.Inner(), s) })
	case cmn.ExprNegPred:
		return s.lookaheadMatch(false, func() bool { return v.parseExpr(expr.Inner(), s) })
	case cmn.ExprSeq:
		return s.attempt(func() bool {
			for i, c := range expr.Children {
				if i > 0 {
					v.skip(s)
				}
				if !v.parseExpr(c, s) {
					return false
				}
			}
			return true
		})
	case cmn.ExprChoice:
		for _, c := range expr.Children {
			if s.attempt(func() bool { return v.parseExpr(c, s) }) {
				return true
			}
		}
		return false
	case cmn.ExprOpt:
		s.attempt(func() bool { return v.parseExpr(expr.Inner(), s) })
		return true
	case cmn.ExprRep:
		if !s.attempt(func() bool { return v.parseExpr(expr.Inner(), s) }) {
			return true
		}
		for s.attempt(func() bool {
			v.skip(s)
			return v.parseExpr(expr.Inner(), s)
		}) {
		}
		return true
	case cmn.ExprPush:
		return s.attempt(func() bool { return s.stackPush(func() bool { return v.parseExpr(expr.Inner(), s) }) })
	case cmn.ExprSkip:
		return s.skipUntil(expr.Strings)
	case cmn.ExprTag:
		if !v.parseExpr(expr.Inner(), s) {
			return false
		}
		s.tagLast(expr.Str)
		return true
	}

	// Bounded repetitions are unrolled before they reach the matcher.
	return v.parseExpr(unrollBounded(expr), s)
}

func unrollBounded(expr *cmn.Expr) *cmn.Expr {
	inner := expr.Inner()
	var items []*cmn.Expr

	switch expr.Kind {
	case cmn.ExprRepOnce:
		items = []*cmn.Expr{inner, cmn.NewUnary(cmn.ExprRep, inner)}
	case cmn.ExprRepExact:
		for range expr.Min {
			items = append(items, inner)
		}
	case cmn.ExprRepMin:
		for range expr.Min {
			items = append(items, inner)
		}
		items = append(items, cmn.NewUnary(cmn.ExprRep, inner))
	case cmn.ExprRepMax, cmn.ExprRepMinMax:
		for range expr.Min {
			items = append(items, inner)
		}
		for range expr.Max - expr.Min {
			items = append(items, cmn.NewUnary(cmn.ExprOpt, inner))
		}
	}

	if len(items) == 0 {
		return cmn.NewStr("")
	}
	return cmn.NewSeq(items...)
}
