package compilercommon

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shibukawa/pestplay/location"
)

// Sentinel errors
var (
	ErrSyntax      = errors.New("grammar syntax error")
	ErrValidation  = errors.New("grammar validation error")
	ErrConsumption = errors.New("grammar consumption error")
)

// Stage is the compile stage that reported an error.
type Stage int

const (
	StageSyntactic Stage = iota + 1
	StageValidation
	StageConsumption
)

func (s Stage) String() string {
	switch s {
	case StageSyntactic:
		return "syntactic"
	case StageValidation:
		return "validation"
	case StageConsumption:
		return "consumption"
	}
	return "unknown"
}

func (s Stage) sentinel() error {
	switch s {
	case StageSyntactic:
		return ErrSyntax
	case StageValidation:
		return ErrValidation
	case StageConsumption:
		return ErrConsumption
	}
	return nil
}

// CompileError is one compile failure. Location is a location.Pos for
// syntax errors and a location.Span for errors attached to syntax nodes.
type CompileError struct {
	Stage    Stage
	Message  string
	Location location.LineColLocation
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %s", location.FromLineCol(e.Location), e.Message)
}

func (e *CompileError) Unwrap() error {
	return e.Stage.sentinel()
}

// NewNodeError creates an error located at a syntax node.
func NewNodeError(stage Stage, node *SyntaxNode, format string, args ...any) *CompileError {
	return &CompileError{
		Stage:    stage,
		Message:  fmt.Sprintf(format, args...),
		Location: node.Span(),
	}
}

// CompileErrors is the ordered list of errors reported by one stage.
type CompileErrors []*CompileError

func (e CompileErrors) Error() string {
	messages := make([]string, len(e))
	for i, err := range e {
		messages[i] = err.Error()
	}
	return strings.Join(messages, "\n")
}

func (e CompileErrors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, err := range e {
		errs[i] = err
	}
	return errs
}

// ParsingError lists the meta rules expected at the furthest offset the
// syntactic parse reached.
type ParsingError struct {
	Positives []MetaRule
	Negatives []MetaRule
	Offset    int
}

// Message renders the error with user-facing rule names.
func (e *ParsingError) Message(rename func(MetaRule) string) string {
	positives := make([]string, len(e.Positives))
	for i, r := range e.Positives {
		positives[i] = rename(r)
	}
	negatives := make([]string, len(e.Negatives))
	for i, r := range e.Negatives {
		negatives[i] = rename(r)
	}
	return ExpectedMessage(positives, negatives)
}

// ExpectedMessage builds the "expected ..."/"unexpected ..." text used by
// both the grammar parser and the matcher.
func ExpectedMessage(positives, negatives []string) string {
	switch {
	case len(negatives) == 0 && len(positives) == 0:
		return "unknown parsing error"
	case len(negatives) == 0:
		return "expected " + Enumerate(positives)
	case len(positives) == 0:
		return "unexpected " + Enumerate(negatives)
	default:
		return fmt.Sprintf("unexpected %s; expected %s", Enumerate(negatives), Enumerate(positives))
	}
}

// Enumerate joins names as "a", "a or b", "a, b, or c".
func Enumerate(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " or " + names[1]
	}
	return strings.Join(names[:len(names)-1], ", ") + ", or " + names[len(names)-1]
}
