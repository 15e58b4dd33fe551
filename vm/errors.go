package vm

import (
	"errors"
	"slices"

	cmn "github.com/shibukawa/pestplay/compiler/compilercommon"
)

// Sentinel errors
var (
	ErrUndefinedRule = errors.New("undefined rule")
	ErrCallLimit     = errors.New("call limit reached")
)

// Error is a matching failure. It is either a *ParsingError or a
// *CustomError.
type Error interface {
	error
	// Offset is the byte offset in the input where the error occurred.
	Offset() int
	vmError()
}

// ParsingError lists the rules that were expected, or not expected, at the
// furthest position the matcher reached.
type ParsingError struct {
	Positives []string
	Negatives []string
	Pos       int
}

func (e *ParsingError) Error() string {
	return cmn.ExpectedMessage(e.Positives, e.Negatives)
}

func (e *ParsingError) Offset() int { return e.Pos }
func (*ParsingError) vmError()      {}

// CustomError carries a ready-made message.
type CustomError struct {
	Message string
	Pos     int
	Err     error
}

func (e *CustomError) Error() string { return e.Message }
func (e *CustomError) Unwrap() error { return e.Err }
func (e *CustomError) Offset() int   { return e.Pos }
func (*CustomError) vmError()        {}

// RenamedRules rewrites the rule names of a ParsingError and turns it into a
// CustomError. Other errors are returned as they are.
func RenamedRules(err Error, rename func(string) string) Error {
	perr, ok := err.(*ParsingError)
	if !ok {
		return err
	}

	renamed := &ParsingError{
		Positives: mapNames(perr.Positives, rename),
		Negatives: mapNames(perr.Negatives, rename),
		Pos:       perr.Pos,
	}

	return &CustomError{Message: renamed.Error(), Pos: perr.Pos}
}

func mapNames(names []string, rename func(string) string) []string {
	result := make([]string, len(names))
	for i, name := range names {
		result[i] = rename(name)
	}
	return result
}

func sortedUnique(names []string) []string {
	return slices.Compact(slices.Sorted(slices.Values(names)))
}
