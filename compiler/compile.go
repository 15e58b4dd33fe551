package compiler

import (
	"fmt"

	cmn "github.com/shibukawa/pestplay/compiler/compilercommon"
	"github.com/shibukawa/pestplay/compiler/compilerstep1"
	"github.com/shibukawa/pestplay/compiler/compilerstep2"
	"github.com/shibukawa/pestplay/compiler/compilerstep3"
	"github.com/shibukawa/pestplay/compiler/compilerstep4"
)

// Re-export common types for user convenience
type (
	SyntaxNode    = cmn.SyntaxNode
	Rule          = cmn.Rule
	Expr          = cmn.Expr
	CompileError  = cmn.CompileError
	CompileErrors = cmn.CompileErrors
	Stage         = cmn.Stage
)

// Re-export compile stages
const (
	StageSyntactic   = cmn.StageSyntactic
	StageValidation  = cmn.StageValidation
	StageConsumption = cmn.StageConsumption
)

// Re-export sentinel errors
var (
	ErrSyntax      = cmn.ErrSyntax
	ErrValidation  = cmn.ErrValidation
	ErrConsumption = cmn.ErrConsumption
)

// Result is the outcome of a compile attempt.
type Result struct {
	// Tree is the syntax tree of the grammar source. It is nil only when
	// the syntactic parse failed.
	Tree *SyntaxNode
	// Rules are the optimized rules, in definition order. Nil on failure.
	Rules []*Rule
	// Docs are the //! grammar documentation lines.
	Docs []string
}

// RuleNames returns the names of the compiled rules in definition order.
func (r *Result) RuleNames() []string {
	names := make([]string, len(r.Rules))
	for i, rule := range r.Rules {
		names[i] = rule.Name
	}
	return names
}

// Compile runs the grammar source through the four compile stages, stopping
// at the first stage that fails. The returned Result is never nil: when a
// stage after the syntactic parse fails, Result.Tree is still set.
// Errors unwrap to CompileErrors.
func Compile(source string) (*Result, error) {
	result := &Result{}

	// Step 1: syntactic parse of the meta grammar
	tree, err := compilerstep1.Execute(source)
	if err != nil {
		return result, fmt.Errorf("compilerstep1 failed: %w", err)
	}
	result.Tree = tree
	result.Docs = compilerstep3.GrammarDocs(tree)

	// Step 2: rule names and references
	if err := compilerstep2.Execute(tree); err != nil {
		return result, fmt.Errorf("compilerstep2 failed: %w", err)
	}

	// Step 3: rule definitions
	rules, err := compilerstep3.Execute(tree)
	if err != nil {
		return result, fmt.Errorf("compilerstep3 failed: %w", err)
	}

	// Step 4: optimization
	result.Rules = compilerstep4.Execute(rules)

	return result, nil
}
