package compilerstep4

import (
	cmn "github.com/shibukawa/pestplay/compiler/compilercommon"
)

// Execute rewrites rule definitions into the form executed by the matcher.
// The input rules are left untouched. It cannot fail.
func Execute(rules []*cmn.Rule) []*cmn.Rule {
	optimized := make([]*cmn.Rule, len(rules))

	for i, rule := range rules {
		atomic := rule.Type == cmn.Atomic || rule.Type == cmn.CompoundAtomic

		expr := unroll(rule.Expr)
		if atomic {
			expr = skip(expr)
			expr = concatenate(expr)
		}

		optimized[i] = &cmn.Rule{
			Name: rule.Name,
			Type: rule.Type,
			Expr: expr,
			Docs: rule.Docs,
			Span: rule.Span,
		}
	}

	return optimized
}

func clone(expr *cmn.Expr, children []*cmn.Expr) *cmn.Expr {
	c := *expr
	c.Children = children
	return &c
}

func repeated(expr *cmn.Expr, n uint32) []*cmn.Expr {
	items := make([]*cmn.Expr, 0, n)
	for range n {
		items = append(items, expr)
	}
	return items
}

func optional(expr *cmn.Expr) *cmn.Expr {
	return &cmn.Expr{Kind: cmn.ExprOpt, Children: []*cmn.Expr{expr}, Span: expr.Span}
}

func rep(expr *cmn.Expr) *cmn.Expr {
	return &cmn.Expr{Kind: cmn.ExprRep, Children: []*cmn.Expr{expr}, Span: expr.Span}
}

// unroll expands bounded repetitions into sequences and flattens nested
// sequences and choices.
func unroll(expr *cmn.Expr) *cmn.Expr {
	children := make([]*cmn.Expr, len(expr.Children))
	for i, c := range expr.Children {
		children[i] = unroll(c)
	}

	var (
		items []*cmn.Expr
		span  = expr.Span
	)

	switch expr.Kind {
	case cmn.ExprRepOnce:
		items = []*cmn.Expr{children[0], rep(children[0])}
	case cmn.ExprRepExact:
		items = repeated(children[0], expr.Min)
	case cmn.ExprRepMin:
		items = append(repeated(children[0], expr.Min), rep(children[0]))
	case cmn.ExprRepMax:
		items = repeated(optional(children[0]), expr.Max)
	case cmn.ExprRepMinMax:
		items = append(repeated(children[0], expr.Min), repeated(optional(children[0]), expr.Max-expr.Min)...)
	case cmn.ExprSeq, cmn.ExprChoice:
		return flatten(clone(expr, children))
	default:
		return clone(expr, children)
	}

	if len(items) == 1 {
		return items[0]
	}
	return flatten(&cmn.Expr{Kind: cmn.ExprSeq, Children: items, Span: span})
}

func flatten(expr *cmn.Expr) *cmn.Expr {
	flat := make([]*cmn.Expr, 0, len(expr.Children))
	for _, c := range expr.Children {
		if c.Kind == expr.Kind {
			flat = append(flat, c.Children...)
		} else {
			flat = append(flat, c)
		}
	}
	expr.Children = flat
	return expr
}

// skip replaces (!("a" | "b") ~ ANY)* with a single scan for the strings.
func skip(expr *cmn.Expr) *cmn.Expr {
	children := make([]*cmn.Expr, len(expr.Children))
	for i, c := range expr.Children {
		children[i] = skip(c)
	}
	expr = clone(expr, children)

	if expr.Kind != cmn.ExprRep {
		return expr
	}

	seq := expr.Inner()
	if seq.Kind != cmn.ExprSeq || len(seq.Children) != 2 {
		return expr
	}
	pred, anyChar := seq.Children[0], seq.Children[1]
	if pred.Kind != cmn.ExprNegPred || anyChar.Kind != cmn.ExprIdent || anyChar.Str != "ANY" {
		return expr
	}

	strs, ok := literalChoice(pred.Inner())
	if !ok {
		return expr
	}

	return &cmn.Expr{Kind: cmn.ExprSkip, Strings: strs, Span: expr.Span}
}

func literalChoice(expr *cmn.Expr) ([]string, bool) {
	switch expr.Kind {
	case cmn.ExprStr:
		if expr.Str == "" {
			return nil, false
		}
		return []string{expr.Str}, true
	case cmn.ExprChoice:
		strs := make([]string, 0, len(expr.Children))
		for _, c := range expr.Children {
			if c.Kind != cmn.ExprStr || c.Str == "" {
				return nil, false
			}
			strs = append(strs, c.Str)
		}
		return strs, true
	}
	return nil, false
}

// concatenate merges adjacent string literals of a sequence. It only runs
// on atomic rules, where no implicit whitespace separates them.
func concatenate(expr *cmn.Expr) *cmn.Expr {
	children := make([]*cmn.Expr, len(expr.Children))
	for i, c := range expr.Children {
		children[i] = concatenate(c)
	}
	expr = clone(expr, children)

	if expr.Kind != cmn.ExprSeq {
		return expr
	}

	merged := make([]*cmn.Expr, 0, len(children))
	for _, c := range children {
		if n := len(merged); n > 0 && c.Kind == cmn.ExprStr && merged[n-1].Kind == cmn.ExprStr {
			prev := *merged[n-1]
			prev.Str += c.Str
			prev.Span.End = c.Span.End
			merged[n-1] = &prev
			continue
		}
		merged = append(merged, c)
	}

	if len(merged) == 1 {
		return merged[0]
	}
	expr.Children = merged
	return expr
}
