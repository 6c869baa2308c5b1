// Package cantuserr implements Cantus's error taxonomy (spec.md §7),
// grounded on sentra's internal/errors package: a struct carrying a kind,
// message, and source line, with github.com/pkg/errors layered on top at
// the facade boundary for stack-carrying wraps (SPEC_FULL.md §1.1).
package cantuserr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind is one of the four error kinds spec.md §7 names.
type Kind string

const (
	Syntax    Kind = "Syntax"
	Math      Kind = "Math"
	Evaluator Kind = "Evaluator"
	UserRaised Kind = "User"
)

// CantusError carries a line number (1-based within the evaluated text)
// so try/catch can surface it and top-level callers can locate it.
type CantusError struct {
	Kind    Kind
	Message string
	Line    int
	cause   error
}

func New(kind Kind, line int, format string, args ...interface{}) *CantusError {
	return &CantusError{Kind: kind, Line: line, Message: fmt.Sprintf(format, args...)}
}

func Wrap(cause error, kind Kind, line int, message string) *CantusError {
	return &CantusError{Kind: kind, Line: line, Message: message, cause: errors.WithStack(cause)}
}

func (e *CantusError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s error at line %d: %s", e.Kind, e.Line, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *CantusError) Unwrap() error { return e.cause }

// Syntaxf builds a Syntax-kind error.
func Syntaxf(line int, format string, args ...interface{}) *CantusError {
	return New(Syntax, line, format, args...)
}

// Mathf builds a Math-kind error.
func Mathf(line int, format string, args ...interface{}) *CantusError {
	return New(Math, line, format, args...)
}

// Evalf builds an Evaluator-kind error.
func Evalf(line int, format string, args ...interface{}) *CantusError {
	return New(Evaluator, line, format, args...)
}

// UserRaise builds a User-raised error surfaced from script text (spec.md
// §7: "messages constructed by script and surfaced as an Evaluator
// error with the script's text").
func UserRaise(line int, message string) *CantusError {
	return &CantusError{Kind: Evaluator, Line: line, Message: message}
}

// As reports whether err is a *CantusError, unwrapping pkg/errors-wrapped
// causes along the way.
func As(err error) (*CantusError, bool) {
	var ce *CantusError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
