package compilercommon

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shibukawa/pestplay/location"
)

// RuleType is the modifier a rule is declared with.
type RuleType int

const (
	Normal         RuleType = iota
	Silent                  // _
	Atomic                  // @
	CompoundAtomic          // $
	NonAtomic               // !
)

var ruleTypeModifiers = [...]string{Normal: "", Silent: "_", Atomic: "@", CompoundAtomic: "$", NonAtomic: "!"}

func (t RuleType) String() string {
	switch t {
	case Normal:
		return "normal"
	case Silent:
		return "silent"
	case Atomic:
		return "atomic"
	case CompoundAtomic:
		return "compound_atomic"
	case NonAtomic:
		return "non_atomic"
	}
	return "unknown"
}

// Rule is a grammar rule definition.
type Rule struct {
	Name string
	Type RuleType
	Expr *Expr
	Docs []string
	Span location.Span
}

func (r *Rule) String() string {
	return fmt.Sprintf("%s = %s{ %s }", r.Name, ruleTypeModifiers[r.Type], r.Expr)
}

// ExprKind is the kind of a rule expression.
type ExprKind int

const (
	ExprStr       ExprKind = iota // "text"
	ExprInsens                    // ^"text"
	ExprRange                     // 'a'..'z'
	ExprIdent                     // rule reference or built-in
	ExprPeekSlice                 // PEEK[start..end]
	ExprPosPred                   // &e
	ExprNegPred                   // !e
	ExprSeq                       // a ~ b ~ c
	ExprChoice                    // a | b | c
	ExprOpt                       // e?
	ExprRep                       // e*
	ExprRepOnce                   // e+
	ExprRepExact                  // e{n}
	ExprRepMin                    // e{n,}
	ExprRepMax                    // e{,m}
	ExprRepMinMax                 // e{n,m}
	ExprPush                      // PUSH(e)
	ExprTag                       // #tag = e
	ExprSkip                      // (!("a" | "b") ~ ANY)*
)

// Expr is a rule expression. Sequence and choice are n-ary; unary
// operators keep their operand in Children[0].
type Expr struct {
	Kind ExprKind

	Str     string   // ExprStr, ExprInsens, ExprIdent, ExprTag
	From    rune     // ExprRange
	To      rune     // ExprRange
	Start   int      // ExprPeekSlice
	End     *int     // ExprPeekSlice, nil when open ended
	Min     uint32   // bounded repetitions
	Max     uint32   // bounded repetitions
	Strings []string // ExprSkip

	Children []*Expr
	Span     location.Span
}

// Inner returns the operand of a unary expression.
func (e *Expr) Inner() *Expr {
	return e.Children[0]
}

func NewStr(s string) *Expr          { return &Expr{Kind: ExprStr, Str: s} }
func NewInsens(s string) *Expr       { return &Expr{Kind: ExprInsens, Str: s} }
func NewIdent(name string) *Expr     { return &Expr{Kind: ExprIdent, Str: name} }
func NewRange(from, to rune) *Expr   { return &Expr{Kind: ExprRange, From: from, To: to} }
func NewSeq(items ...*Expr) *Expr    { return &Expr{Kind: ExprSeq, Children: items} }
func NewChoice(items ...*Expr) *Expr { return &Expr{Kind: ExprChoice, Children: items} }

// NewUnary wraps an operand with a unary operator kind.
func NewUnary(kind ExprKind, inner *Expr) *Expr {
	return &Expr{Kind: kind, Children: []*Expr{inner}}
}

// String renders the expression in grammar syntax.
func (e *Expr) String() string {
	var b strings.Builder
	e.write(&b)
	return b.String()
}

func (e *Expr) write(b *strings.Builder) {
	switch e.Kind {
	case ExprStr:
		b.WriteString(strconv.Quote(e.Str))
	case ExprInsens:
		b.WriteString("^" + strconv.Quote(e.Str))
	case ExprRange:
		b.WriteString(strconv.QuoteRune(e.From) + ".." + strconv.QuoteRune(e.To))
	case ExprIdent:
		b.WriteString(e.Str)
	case ExprPeekSlice:
		b.WriteString("PEEK[" + strconv.Itoa(e.Start) + "..")
		if e.End != nil {
			b.WriteString(strconv.Itoa(*e.End))
		}
		b.WriteString("]")
	case ExprPosPred:
		b.WriteString("&")
		e.Inner().writeOperand(b)
	case ExprNegPred:
		b.WriteString("!")
		e.Inner().writeOperand(b)
	case ExprSeq, ExprChoice:
		sep := " ~ "
		if e.Kind == ExprChoice {
			sep = " | "
		}
		for i, c := range e.Children {
			if i > 0 {
				b.WriteString(sep)
			}
			if e.Kind == ExprChoice && c.Kind == ExprSeq {
				c.write(b)
				continue
			}
			c.writeOperand(b)
		}
	case ExprOpt:
		e.Inner().writeOperand(b)
		b.WriteString("?")
	case ExprRep:
		e.Inner().writeOperand(b)
		b.WriteString("*")
	case ExprRepOnce:
		e.Inner().writeOperand(b)
		b.WriteString("+")
	case ExprRepExact:
		e.Inner().writeOperand(b)
		fmt.Fprintf(b, "{%d}", e.Min)
	case ExprRepMin:
		e.Inner().writeOperand(b)
		fmt.Fprintf(b, "{%d,}", e.Min)
	case ExprRepMax:
		e.Inner().writeOperand(b)
		fmt.Fprintf(b, "{,%d}", e.Max)
	case ExprRepMinMax:
		e.Inner().writeOperand(b)
		fmt.Fprintf(b, "{%d, %d}", e.Min, e.Max)
	case ExprPush:
		b.WriteString("PUSH(")
		e.Inner().write(b)
		b.WriteString(")")
	case ExprTag:
		b.WriteString("#" + e.Str + " = ")
		e.Inner().writeOperand(b)
	case ExprSkip:
		b.WriteString("(!(")
		for i, s := range e.Strings {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(strconv.Quote(s))
		}
		b.WriteString(") ~ ANY)*")
	}
}

func (e *Expr) writeOperand(b *strings.Builder) {
	if e.Kind == ExprSeq || e.Kind == ExprChoice || e.Kind == ExprTag {
		b.WriteString("(")
		e.write(b)
		b.WriteString(")")
		return
	}
	e.write(b)
}

// Walk visits the expression tree in pre-order.
func (e *Expr) Walk(fn func(*Expr)) {
	fn(e)
	for _, c := range e.Children {
		c.Walk(fn)
	}
}

// Keywords are reserved names that cannot be used as rule names.
var Keywords = []string{"_", "ANY", "DROP", "EOI", "PEEK", "PEEK_ALL", "POP", "POP_ALL", "PUSH", "SOI"}

// IsKeyword reports whether a rule name is reserved.
func IsKeyword(name string) bool {
	for _, k := range Keywords {
		if k == name {
			return true
		}
	}
	return false
}
