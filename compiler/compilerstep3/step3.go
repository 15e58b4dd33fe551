// Package compilerstep3 turns the syntax tree into rule definitions. Its
// AST checks (left recursion, infinite repetition, unreachable choices)
// report StageValidation errors, the same kind as the syntax tree checks,
// while malformed literals and bounds report StageConsumption.
package compilerstep3

import (
	cmn "github.com/shibukawa/pestplay/compiler/compilercommon"
)

// Execute converts a validated syntax tree into rule definitions and checks
// them. Malformed literals and bounds are consumption errors; left
// recursion, infinite repetition and unreachable choices are validation
// errors.
func Execute(root *cmn.SyntaxNode) ([]*cmn.Rule, error) {
	c := &consumer{}

	rules := c.consumeRules(root)
	if len(c.errs) > 0 {
		return nil, c.errs
	}

	if errs := validateAST(rules); len(errs) > 0 {
		return nil, errs
	}

	return rules, nil
}
