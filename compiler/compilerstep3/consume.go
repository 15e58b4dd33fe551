package compilerstep3

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	cmn "github.com/shibukawa/pestplay/compiler/compilercommon"
	"github.com/shibukawa/pestplay/location"
	tok "github.com/shibukawa/pestplay/tokenizer"
)

type consumer struct {
	errs cmn.CompileErrors
}

func (c *consumer) fail(node *cmn.SyntaxNode, format string, args ...any) {
	c.errs = append(c.errs, cmn.NewNodeError(cmn.StageConsumption, node, format, args...))
}

func cover(start, end location.Span) location.Span {
	return location.Span{Start: start.Start, End: end.End}
}

// consumeRules converts grammar_rule nodes into rule definitions. Line docs
// are attached to the rule that follows them.
func (c *consumer) consumeRules(root *cmn.SyntaxNode) []*cmn.Rule {
	var (
		rules []*cmn.Rule
		docs  []string
	)

	for _, node := range root.Rules() {
		if doc := node.Child(cmn.LineDoc); doc != nil {
			docs = append(docs, docText(doc.Text, "///"))
			continue
		}

		name := node.Child(cmn.Identifier)
		rule := &cmn.Rule{
			Name: name.Text,
			Type: ruleType(node),
			Docs: docs,
			Span: name.Span(),
		}
		docs = nil

		rule.Expr = c.consumeExpression(node.Child(cmn.Expression))
		rules = append(rules, rule)
	}

	return rules
}

// GrammarDocs returns the //! documentation lines of a grammar.
func GrammarDocs(root *cmn.SyntaxNode) []string {
	var docs []string
	for _, c := range root.Children {
		if c.Rule == cmn.GrammarDoc {
			docs = append(docs, docText(c.Text, "//!"))
		}
	}
	return docs
}

func docText(text, prefix string) string {
	text = strings.TrimPrefix(text, prefix)
	text = strings.TrimPrefix(text, " ")
	return strings.TrimRight(text, "\r")
}

func ruleType(node *cmn.SyntaxNode) cmn.RuleType {
	for _, c := range node.Children {
		switch c.Rule {
		case cmn.SilentModifier:
			return cmn.Silent
		case cmn.AtomicModifier:
			return cmn.Atomic
		case cmn.CompoundAtomicModifier:
			return cmn.CompoundAtomic
		case cmn.NonAtomicModifier:
			return cmn.NonAtomic
		}
	}
	return cmn.Normal
}

// consumeExpression builds sequences and choices; `~` binds tighter than `|`.
func (c *consumer) consumeExpression(node *cmn.SyntaxNode) *cmn.Expr {
	var (
		choices []*cmn.Expr
		seq     []*cmn.Expr
	)

	flush := func() {
		if len(seq) == 0 {
			return
		}
		choices = append(choices, join(cmn.ExprSeq, seq))
		seq = nil
	}

	for _, child := range node.Children {
		switch child.Rule {
		case cmn.Term:
			seq = append(seq, c.consumeTerm(child))
		case cmn.ChoiceOperator:
			flush()
		}
	}
	flush()

	return join(cmn.ExprChoice, choices)
}

func join(kind cmn.ExprKind, items []*cmn.Expr) *cmn.Expr {
	if len(items) == 1 {
		return items[0]
	}
	return &cmn.Expr{
		Kind:     kind,
		Children: items,
		Span:     cover(items[0].Span, items[len(items)-1].Span),
	}
}

// consumeTerm applies postfix operators first, then prefix operators from
// the innermost outwards, then the tag.
func (c *consumer) consumeTerm(node *cmn.SyntaxNode) *cmn.Expr {
	var (
		tag      *cmn.SyntaxNode
		prefixes []*cmn.SyntaxNode
		primary  *cmn.Expr
	)

	for _, child := range node.Children {
		switch child.Rule {
		case cmn.Tag:
			tag = child
		case cmn.AssignmentOperator, cmn.OpeningParen, cmn.ClosingParen:
		case cmn.PositivePredicateOperator, cmn.NegativePredicateOperator:
			prefixes = append(prefixes, child)
		case cmn.OptionalOperator, cmn.RepeatOperator, cmn.RepeatOnceOperator,
			cmn.RepeatExact, cmn.RepeatMin, cmn.RepeatMax, cmn.RepeatMinMax:
			primary = c.consumePostfix(child, primary)
		case cmn.Expression:
			primary = c.consumeExpression(child)
			primary.Span = child.Span()
		default:
			primary = c.consumePrimary(child)
		}
	}

	for i := len(prefixes) - 1; i >= 0; i-- {
		kind := cmn.ExprPosPred
		if prefixes[i].Rule == cmn.NegativePredicateOperator {
			kind = cmn.ExprNegPred
		}
		inner := primary
		primary = cmn.NewUnary(kind, inner)
		primary.Span = cover(prefixes[i].Span(), inner.Span)
	}

	if tag != nil {
		inner := primary
		primary = cmn.NewUnary(cmn.ExprTag, inner)
		primary.Str = strings.TrimPrefix(tag.Text, "#")
		primary.Span = cover(tag.Span(), inner.Span)
	}

	return primary
}

func (c *consumer) consumePrimary(node *cmn.SyntaxNode) *cmn.Expr {
	var expr *cmn.Expr

	switch node.Rule {
	case cmn.Identifier:
		expr = cmn.NewIdent(node.Text)
	case cmn.String:
		expr = cmn.NewStr(c.unquote(node, node.Text))
	case cmn.InsensitiveString:
		expr = cmn.NewInsens(c.unquote(node, node.Child(cmn.String).Text))
	case cmn.Range:
		from := c.character(node.Children[0])
		to := c.character(node.Children[2])
		expr = cmn.NewRange(from, to)
	case cmn.Push:
		expr = cmn.NewUnary(cmn.ExprPush, c.consumeExpression(node.Child(cmn.Expression)))
	case cmn.PeekSlice:
		expr = c.consumePeekSlice(node)
	default:
		c.fail(node, "unexpected %s", node.Rule)
		expr = cmn.NewStr("")
	}

	expr.Span = node.Span()
	return expr
}

func (c *consumer) unquote(node *cmn.SyntaxNode, raw string) string {
	value, err := tok.Unquote(raw)
	if err != nil {
		c.fail(node, "%s", err.Error())
	}
	return value
}

func (c *consumer) character(node *cmn.SyntaxNode) rune {
	value := c.unquote(node, node.Text)
	if utf8.RuneCountInString(value) != 1 {
		c.fail(node, "character literal must contain exactly one character")
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(value)
	return r
}

func (c *consumer) consumePeekSlice(node *cmn.SyntaxNode) *cmn.Expr {
	expr := &cmn.Expr{Kind: cmn.ExprPeekSlice}

	afterRange := false
	for _, child := range node.Children {
		switch child.Rule {
		case cmn.RangeOperator:
			afterRange = true
		case cmn.Integer:
			value, ok := c.integer(child)
			if !ok {
				continue
			}
			if afterRange {
				expr.End = &value
			} else {
				expr.Start = value
			}
		}
	}

	return expr
}

func (c *consumer) integer(node *cmn.SyntaxNode) (int, bool) {
	value, err := strconv.ParseInt(node.Text, 10, 32)
	if err != nil {
		c.fail(node, "number cannot overflow")
		return 0, false
	}
	return int(value), true
}

func (c *consumer) number(node *cmn.SyntaxNode) (uint32, bool) {
	value, err := strconv.ParseUint(node.Text, 10, 32)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			c.fail(node, "number cannot overflow")
		} else {
			c.fail(node, "invalid number %s", node.Text)
		}
		return 0, false
	}
	return uint32(value), true
}

func (c *consumer) consumePostfix(node *cmn.SyntaxNode, inner *cmn.Expr) *cmn.Expr {
	var expr *cmn.Expr

	switch node.Rule {
	case cmn.OptionalOperator:
		expr = cmn.NewUnary(cmn.ExprOpt, inner)
	case cmn.RepeatOperator:
		expr = cmn.NewUnary(cmn.ExprRep, inner)
	case cmn.RepeatOnceOperator:
		expr = cmn.NewUnary(cmn.ExprRepOnce, inner)
	case cmn.RepeatExact:
		expr = cmn.NewUnary(cmn.ExprRepExact, inner)
		numberNode := node.Child(cmn.Number)
		if n, ok := c.number(numberNode); ok {
			if n == 0 {
				c.fail(numberNode, "cannot repeat 0 times")
			}
			expr.Min, expr.Max = n, n
		}
	case cmn.RepeatMin:
		expr = cmn.NewUnary(cmn.ExprRepMin, inner)
		if n, ok := c.number(node.Child(cmn.Number)); ok {
			expr.Min = n
		}
	case cmn.RepeatMax:
		expr = cmn.NewUnary(cmn.ExprRepMax, inner)
		numberNode := node.Child(cmn.Number)
		if n, ok := c.number(numberNode); ok {
			if n == 0 {
				c.fail(numberNode, "cannot repeat 0 times")
			}
			expr.Max = n
		}
	case cmn.RepeatMinMax:
		expr = cmn.NewUnary(cmn.ExprRepMinMax, inner)
		var numbers []*cmn.SyntaxNode
		for _, child := range node.Children {
			if child.Rule == cmn.Number {
				numbers = append(numbers, child)
			}
		}
		minimum, minOK := c.number(numbers[0])
		maximum, maxOK := c.number(numbers[1])
		if minOK && maxOK {
			if maximum == 0 {
				c.fail(numbers[1], "cannot repeat 0 times")
			} else if minimum > maximum {
				c.fail(node, "the minimum (%d) must not exceed the maximum (%d)", minimum, maximum)
			}
			expr.Min, expr.Max = minimum, maximum
		}
	}

	expr.Span = cover(inner.Span, node.Span())
	return expr
}
