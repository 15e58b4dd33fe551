package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shibukawa/pestplay/compiler"
	"github.com/shibukawa/pestplay/location"
	"github.com/shibukawa/pestplay/vm"
)

// ErrFatal marks an error the engine did not expect from the compiler or
// the matcher.
var ErrFatal = errors.New("fatal engine error")

// Kind classifies a GrammarError.
type Kind int

const (
	KindSyntactic Kind = iota + 1
	KindValidation
	KindConsumption
	KindMatch
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindSyntactic:
		return "syntactic"
	case KindValidation:
		return "validation"
	case KindConsumption:
		return "consumption"
	case KindMatch:
		return "match"
	case KindFatal:
		return "fatal"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	for candidate := KindSyntactic; candidate <= KindFatal; candidate++ {
		if candidate.String() == string(text) {
			*k = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown error kind %q", text)
}

// GrammarError is a compile or match failure with a 1-based location.
type GrammarError struct {
	Kind     Kind              `json:"kind"`
	Message  string            `json:"message"`
	Location location.Location `json:"location"`

	err error
}

func (e *GrammarError) Error() string {
	return fmt.Sprintf("%s: %s", e.Location, e.Message)
}

func (e *GrammarError) Unwrap() error {
	if e.Kind == KindFatal {
		return ErrFatal
	}
	return e.err
}

// GrammarErrors is the ordered list of errors of one compile attempt.
type GrammarErrors []*GrammarError

func (e GrammarErrors) Error() string {
	messages := make([]string, len(e))
	for i, err := range e {
		messages[i] = err.Error()
	}
	return strings.Join(messages, "\n")
}

func (e GrammarErrors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, err := range e {
		errs[i] = err
	}
	return errs
}

func fatal(err error) *GrammarError {
	return &GrammarError{Kind: KindFatal, Message: err.Error(), Location: location.Location{StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 1}, err: err}
}

func compileErrors(err error) GrammarErrors {
	var errs compiler.CompileErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return GrammarErrors{fatal(err)}
	}

	result := make(GrammarErrors, 0, len(errs))
	for _, e := range errs {
		result = append(result, compileError(e))
	}
	return result
}

func compileError(e *compiler.CompileError) *GrammarError {
	var kind Kind
	switch e.Stage {
	case compiler.StageSyntactic:
		kind = KindSyntactic
	case compiler.StageValidation:
		kind = KindValidation
	case compiler.StageConsumption:
		kind = KindConsumption
	default:
		return fatal(e)
	}
	return &GrammarError{
		Kind:     kind,
		Message:  e.Message,
		Location: location.FromLineCol(e.Location),
		err:      e,
	}
}

func matchError(err error, input string) *GrammarError {
	var verr vm.Error
	if !errors.As(err, &verr) {
		return fatal(err)
	}

	verr = vm.RenamedRules(verr, func(rule string) string { return rule })

	switch v := verr.(type) {
	case *vm.CustomError:
		return &GrammarError{
			Kind:     KindMatch,
			Message:  v.Message,
			Location: location.FromLineCol(location.NewSource(input).Pos(v.Pos)),
			err:      v,
		}
	default:
		// Renaming turns every parsing error into a custom one.
		return fatal(fmt.Errorf("unexpected matcher error %T: %w", verr, verr))
	}
}
