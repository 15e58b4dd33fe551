package compilerstep2

import (
	cmn "github.com/shibukawa/pestplay/compiler/compilercommon"
)

// Execute checks rule definitions and references of a syntax tree.
// All problems are reported, in the order: reserved names, duplicated
// definitions, undefined references.
func Execute(root *cmn.SyntaxNode) error {
	definitions, called := collectIdentifiers(root)

	var errs cmn.CompileErrors
	errs = append(errs, validateKeywords(definitions)...)
	errs = append(errs, validateAlreadyDefined(definitions)...)
	errs = append(errs, validateUndefined(definitions, called)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// collectIdentifiers returns the identifier nodes naming rules and the
// identifier nodes used inside rule expressions.
func collectIdentifiers(root *cmn.SyntaxNode) (definitions, called []*cmn.SyntaxNode) {
	for _, rule := range root.Rules() {
		name := rule.Child(cmn.Identifier)
		if name == nil {
			continue // line doc
		}
		definitions = append(definitions, name)

		expression := rule.Child(cmn.Expression)
		if expression == nil {
			continue
		}
		for node := range expression.All() {
			if node.Rule == cmn.Identifier {
				called = append(called, node)
			}
		}
	}
	return definitions, called
}

func validateKeywords(definitions []*cmn.SyntaxNode) cmn.CompileErrors {
	var errs cmn.CompileErrors
	for _, def := range definitions {
		if cmn.IsKeyword(def.Text) {
			errs = append(errs, cmn.NewNodeError(cmn.StageValidation, def, "%s is a pest keyword", def.Text))
		}
	}
	return errs
}

func validateAlreadyDefined(definitions []*cmn.SyntaxNode) cmn.CompileErrors {
	var errs cmn.CompileErrors
	seen := make(map[string]struct{}, len(definitions))
	for _, def := range definitions {
		if _, ok := seen[def.Text]; ok {
			errs = append(errs, cmn.NewNodeError(cmn.StageValidation, def, "rule %s already defined", def.Text))
			continue
		}
		seen[def.Text] = struct{}{}
	}
	return errs
}

func validateUndefined(definitions, called []*cmn.SyntaxNode) cmn.CompileErrors {
	defined := make(map[string]struct{}, len(definitions))
	for _, def := range definitions {
		defined[def.Text] = struct{}{}
	}

	var errs cmn.CompileErrors
	for _, call := range called {
		if _, ok := defined[call.Text]; ok || cmn.IsBuiltin(call.Text) {
			continue
		}
		errs = append(errs, cmn.NewNodeError(cmn.StageValidation, call, "rule %s is undefined", call.Text))
	}
	return errs
}
