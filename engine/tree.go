package engine

import (
	"fmt"

	"github.com/shibukawa/pestplay/vm"
)

// TokenTree is a displayable parse tree. Leaves are labeled "rule: text",
// inner nodes carry the rule name.
type TokenTree struct {
	Label    string       `json:"label" yaml:"label"`
	Rule     string       `json:"rule" yaml:"rule"`
	Text     string       `json:"text" yaml:"text"`
	Children []*TokenTree `json:"children,omitempty" yaml:"children,omitempty"`
}

// IsLeaf reports whether the node has no children.
func (t *TokenTree) IsLeaf() bool {
	return len(t.Children) == 0
}

// Walk visits the tree depth first with the depth of each node.
func (t *TokenTree) Walk(fn func(node *TokenTree, depth int)) {
	var visit func(node *TokenTree, depth int)
	visit = func(node *TokenTree, depth int) {
		fn(node, depth)
		for _, c := range node.Children {
			visit(c, depth+1)
		}
	}
	visit(t, 0)
}

// newTokenTree builds the tree of a successful match. The root is labeled
// with the invoked rule: a single top-level pair of that rule becomes the
// root itself, anything else is wrapped.
func newTokenTree(rule string, input string, pairs vm.Pairs) *TokenTree {
	if len(pairs) == 1 && pairs[0].Rule == rule && len(pairs[0].Inner) > 0 {
		return fromPair(pairs[0])
	}

	root := &TokenTree{Label: rule, Rule: rule}
	end := 0
	for _, p := range pairs {
		root.Children = append(root.Children, fromPair(p))
		end = max(end, p.End)
	}
	root.Text = input[:end]
	return root
}

func fromPair(p *vm.Pair) *TokenTree {
	node := &TokenTree{Rule: p.Rule, Text: p.Text}
	if len(p.Inner) == 0 {
		node.Label = fmt.Sprintf("%s: %s", p.Rule, p.Text)
		return node
	}

	node.Label = p.Rule
	node.Children = make([]*TokenTree, 0, len(p.Inner))
	for _, inner := range p.Inner {
		node.Children = append(node.Children, fromPair(inner))
	}
	return node
}
