package compilercommon

import (
	"iter"

	"github.com/shibukawa/pestplay/location"
	tok "github.com/shibukawa/pestplay/tokenizer"
)

// SyntaxNode is a node of the grammar syntax tree produced by the
// syntactic parse. Leaves carry the source text they cover.
type SyntaxNode struct {
	Rule     MetaRule
	Text     string
	Start    tok.Position
	End      tok.Position
	Children []*SyntaxNode
}

// Span returns the line/column span of the node.
func (n *SyntaxNode) Span() location.Span {
	return location.Span{
		Start: location.LineCol{Line: n.Start.Line, Col: n.Start.Column},
		End:   location.LineCol{Line: n.End.Line, Col: n.End.Column},
	}
}

// Child returns the first direct child with the given rule.
func (n *SyntaxNode) Child(rule MetaRule) *SyntaxNode {
	for _, c := range n.Children {
		if c.Rule == rule {
			return c
		}
	}
	return nil
}

// Walk visits the node and its descendants depth first, left to right.
// Returning false from fn skips the children of that node.
func (n *SyntaxNode) Walk(fn func(node *SyntaxNode) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// All iterates over the node and its descendants in depth-first,
// left-to-right order.
func (n *SyntaxNode) All() iter.Seq[*SyntaxNode] {
	return func(yield func(*SyntaxNode) bool) {
		var visit func(node *SyntaxNode) bool
		visit = func(node *SyntaxNode) bool {
			if !yield(node) {
				return false
			}
			for _, c := range node.Children {
				if !visit(c) {
					return false
				}
			}
			return true
		}
		visit(n)
	}
}

// Rules returns the grammar_rule children of a grammar node.
func (n *SyntaxNode) Rules() []*SyntaxNode {
	var rules []*SyntaxNode
	for _, c := range n.Children {
		if c.Rule == GrammarRule {
			rules = append(rules, c)
		}
	}
	return rules
}
