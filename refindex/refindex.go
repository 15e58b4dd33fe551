// Package refindex records where every rule name is written in a grammar.
package refindex

import (
	"slices"

	cmn "github.com/shibukawa/pestplay/compiler/compilercommon"
	"github.com/shibukawa/pestplay/location"
)

// Index maps identifier text to its occurrences in source order.
// The zero value is an empty index.
type Index struct {
	refs map[string][]location.Location
}

// Build walks tree depth first, left to right, and records every
// identifier leaf. Locations are resolved through src.
func Build(tree *cmn.SyntaxNode, src *location.Source) *Index {
	idx := &Index{refs: make(map[string][]location.Location)}
	if tree != nil {
		idx.visit(tree, src)
	}
	return idx
}

func (idx *Index) visit(node *cmn.SyntaxNode, src *location.Source) {
	if node.Rule == cmn.Identifier {
		loc := location.FromOffsets(src, node.Start.Offset, node.End.Offset)
		idx.refs[node.Text] = append(idx.refs[node.Text], loc)
		return
	}
	for _, child := range node.Children {
		idx.visit(child, src)
	}
}

// ReferencesOf returns the locations of name, or false when the name never
// occurred.
func (idx *Index) ReferencesOf(name string) ([]location.Location, bool) {
	if idx == nil {
		return nil, false
	}
	locs, ok := idx.refs[name]
	if !ok {
		return nil, false
	}
	return slices.Clone(locs), true
}

// Names returns every indexed identifier, sorted.
func (idx *Index) Names() []string {
	if idx == nil {
		return []string{}
	}
	return slices.Sorted(func(yield func(string) bool) {
		for name := range idx.refs {
			if !yield(name) {
				return
			}
		}
	})
}

// Len returns the number of distinct identifiers.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.refs)
}
