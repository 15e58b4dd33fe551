package compilerstep3

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	cmn "github.com/shibukawa/pestplay/compiler/compilercommon"
	"github.com/shibukawa/pestplay/location"
)

type ruleMap map[string]*cmn.Rule

func newRuleMap(rules []*cmn.Rule) ruleMap {
	m := make(ruleMap, len(rules))
	for _, r := range rules {
		m[r.Name] = r
	}
	return m
}

func astError(expr *cmn.Expr, format string, args ...any) *cmn.CompileError {
	return &cmn.CompileError{
		Stage:    cmn.StageValidation,
		Message:  fmt.Sprintf(format, args...),
		Location: expr.Span,
	}
}

// validateAST checks left recursion first; the other checks assume the
// grammar is free of it.
func validateAST(rules []*cmn.Rule) cmn.CompileErrors {
	m := newRuleMap(rules)

	if errs := validateLeftRecursion(rules, m); len(errs) > 0 {
		return errs
	}

	var errs cmn.CompileErrors
	errs = append(errs, validateRepetition(rules, m)...)
	errs = append(errs, validateChoices(rules, m)...)
	errs = append(errs, validateWhitespaceComment(rules, m)...)

	slices.SortStableFunc(errs, func(a, b *cmn.CompileError) int {
		sa, sb := a.Location.(location.Span), b.Location.(location.Span)
		return cmp.Or(
			cmp.Compare(sa.Start.Line, sb.Start.Line),
			cmp.Compare(sa.Start.Col, sb.Start.Col),
			cmp.Compare(sa.End.Line, sb.End.Line),
			cmp.Compare(sa.End.Col, sb.End.Col),
		)
	})

	return errs
}

// isNonFailing reports whether expr always succeeds.
func isNonFailing(expr *cmn.Expr, m ruleMap, trace []string) bool {
	switch expr.Kind {
	case cmn.ExprStr, cmn.ExprInsens:
		return expr.Str == ""
	case cmn.ExprIdent:
		if rule, ok := m[expr.Str]; ok && !slices.Contains(trace, expr.Str) {
			return isNonFailing(rule.Expr, m, append(trace, expr.Str))
		}
		return false
	case cmn.ExprOpt, cmn.ExprRep, cmn.ExprRepMax:
		return true
	case cmn.ExprRepMin, cmn.ExprRepMinMax:
		return expr.Min == 0 || isNonFailing(expr.Inner(), m, trace)
	case cmn.ExprRepExact, cmn.ExprRepOnce, cmn.ExprPush, cmn.ExprPosPred, cmn.ExprTag:
		return isNonFailing(expr.Inner(), m, trace)
	case cmn.ExprSeq:
		for _, c := range expr.Children {
			if !isNonFailing(c, m, trace) {
				return false
			}
		}
		return true
	case cmn.ExprChoice:
		for _, c := range expr.Children {
			if isNonFailing(c, m, trace) {
				return true
			}
		}
		return false
	}
	return false
}

// isNonProgressing reports whether expr can succeed without consuming input.
func isNonProgressing(expr *cmn.Expr, m ruleMap, trace []string) bool {
	switch expr.Kind {
	case cmn.ExprStr, cmn.ExprInsens:
		return expr.Str == ""
	case cmn.ExprIdent:
		if expr.Str == "SOI" || expr.Str == "EOI" {
			return true
		}
		if rule, ok := m[expr.Str]; ok && !slices.Contains(trace, expr.Str) {
			return isNonProgressing(rule.Expr, m, append(trace, expr.Str))
		}
		return false
	case cmn.ExprPosPred, cmn.ExprNegPred, cmn.ExprOpt, cmn.ExprRep, cmn.ExprRepMax:
		return true
	case cmn.ExprRepMin, cmn.ExprRepMinMax:
		return expr.Min == 0 || isNonProgressing(expr.Inner(), m, trace)
	case cmn.ExprRepExact, cmn.ExprRepOnce, cmn.ExprPush, cmn.ExprTag:
		return isNonProgressing(expr.Inner(), m, trace)
	case cmn.ExprSeq:
		for _, c := range expr.Children {
			if !isNonProgressing(c, m, trace) {
				return false
			}
		}
		return true
	case cmn.ExprChoice:
		for _, c := range expr.Children {
			if isNonProgressing(c, m, trace) {
				return true
			}
		}
		return false
	}
	return false
}

func validateRepetition(rules []*cmn.Rule, m ruleMap) cmn.CompileErrors {
	var errs cmn.CompileErrors
	for _, rule := range rules {
		rule.Expr.Walk(func(expr *cmn.Expr) {
			switch expr.Kind {
			case cmn.ExprRep, cmn.ExprRepOnce, cmn.ExprRepMin:
			default:
				return
			}
			switch {
			case isNonFailing(expr.Inner(), m, nil):
				errs = append(errs, astError(expr, "expression inside repetition cannot fail and will repeat infinitely"))
			case isNonProgressing(expr.Inner(), m, nil):
				errs = append(errs, astError(expr, "expression inside repetition is non-progressing and will repeat infinitely"))
			}
		})
	}
	return errs
}

func validateChoices(rules []*cmn.Rule, m ruleMap) cmn.CompileErrors {
	var errs cmn.CompileErrors
	for _, rule := range rules {
		rule.Expr.Walk(func(expr *cmn.Expr) {
			if expr.Kind != cmn.ExprChoice {
				return
			}
			for _, c := range expr.Children[:len(expr.Children)-1] {
				if isNonFailing(c, m, nil) {
					errs = append(errs, astError(c, "expression cannot fail; following choices cannot be reached"))
					return
				}
			}
		})
	}
	return errs
}

func validateWhitespaceComment(rules []*cmn.Rule, m ruleMap) cmn.CompileErrors {
	var errs cmn.CompileErrors
	for _, rule := range rules {
		if rule.Name != "WHITESPACE" && rule.Name != "COMMENT" {
			continue
		}
		switch {
		case isNonFailing(rule.Expr, m, nil):
			errs = append(errs, astError(rule.Expr, "%s cannot fail and will repeat infinitely", rule.Name))
		case isNonProgressing(rule.Expr, m, nil):
			errs = append(errs, astError(rule.Expr, "%s is non-progressing and will repeat infinitely", rule.Name))
		}
	}
	return errs
}

// validateLeftRecursion follows the leftmost calls of every rule. Each rule
// on a cycle reports the cycle starting from itself.
func validateLeftRecursion(rules []*cmn.Rule, m ruleMap) cmn.CompileErrors {
	var errs cmn.CompileErrors
	for _, rule := range rules {
		names := []string{rule.Name}
		if err := checkLeftRecursion(names, rule.Expr, m); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func checkLeftRecursion(names []string, expr *cmn.Expr, m ruleMap) *cmn.CompileError {
	switch expr.Kind {
	case cmn.ExprIdent:
		if expr.Str == names[0] {
			chain := append(slices.Clone(names), expr.Str)
			return astError(expr, "rule %s is left-recursive (%s)", expr.Str, strings.Join(chain, " -> "))
		}
		if slices.Contains(names, expr.Str) {
			return nil
		}
		if rule, ok := m[expr.Str]; ok {
			return checkLeftRecursion(append(names, expr.Str), rule.Expr, m)
		}
		return nil
	case cmn.ExprSeq:
		current := []string{names[len(names)-1]}
		for _, c := range expr.Children[:len(expr.Children)-1] {
			if !isNonFailing(c, m, current) && !isNonProgressing(c, m, current) {
				return checkLeftRecursion(names, c, m)
			}
		}
		return checkLeftRecursion(names, expr.Children[len(expr.Children)-1], m)
	case cmn.ExprChoice:
		for _, c := range expr.Children {
			if err := checkLeftRecursion(names, c, m); err != nil {
				return err
			}
		}
		return nil
	case cmn.ExprRep, cmn.ExprRepOnce, cmn.ExprRepExact, cmn.ExprRepMin, cmn.ExprRepMax, cmn.ExprRepMinMax,
		cmn.ExprOpt, cmn.ExprPosPred, cmn.ExprNegPred, cmn.ExprPush, cmn.ExprTag:
		return checkLeftRecursion(names, expr.Inner(), m)
	}
	return nil
}
