// Package diag carries the error taxonomy shared by the lexer, parser and
// interpreter, and the reporter that renders those errors for a terminal.
//
// Every error is terminal: stages return a *Error and stop, and a single
// handler at the top reports it.
package diag

import (
	"errors"
	"fmt"
)

// Kind classifies an error.
type Kind uint8

const (
	KindSyntax Kind = iota + 1
	KindValue
	KindVariable
	KindFunction
	KindArgument
	KindOperandCount
	KindUnknownOperator
	KindType
	KindRecursion
)

var kindNames = map[Kind]string{
	KindSyntax:          "Syntax error",
	KindValue:           "Value error",
	KindVariable:        "VariableError",
	KindFunction:        "FunctionError",
	KindArgument:        "ArgumentError",
	KindOperandCount:    "Invalid operand count",
	KindUnknownOperator: "Unknown operator",
	KindType:            "TypeError",
	KindRecursion:       "RecursionError",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Error(%d)", uint8(k))
}

// Sentinels for errors.Is; a *Error matches the sentinel of its kind.
var (
	ErrSyntax          = errors.New("diag: syntax error")
	ErrValue           = errors.New("diag: value error")
	ErrVariable        = errors.New("diag: variable error")
	ErrFunction        = errors.New("diag: function error")
	ErrArgument        = errors.New("diag: argument error")
	ErrOperandCount    = errors.New("diag: invalid operand count")
	ErrUnknownOperator = errors.New("diag: unknown operator")
	ErrType            = errors.New("diag: type error")
	ErrRecursion       = errors.New("diag: recursion limit exceeded")
)

var sentinels = map[Kind]error{
	KindSyntax:          ErrSyntax,
	KindValue:           ErrValue,
	KindVariable:        ErrVariable,
	KindFunction:        ErrFunction,
	KindArgument:        ErrArgument,
	KindOperandCount:    ErrOperandCount,
	KindUnknownOperator: ErrUnknownOperator,
	KindType:            ErrType,
	KindRecursion:       ErrRecursion,
}

// Error is a classified, terminal failure of one of the pipeline stages.
type Error struct {
	Kind    Kind
	Detail  string
	Segment string // offending tokens, may be empty
	Line    uint32 // 0 when unknown
}

// Errorf builds an *Error of the given kind.
func Errorf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// WithSegment attaches the offending token snippet.
func (e *Error) WithSegment(segment string) *Error {
	e.Segment = segment
	return e
}

// AtLine records the source line the error refers to.
func (e *Error) AtLine(line uint32) *Error {
	e.Line = line
	return e
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s - %s (line %d)", e.Kind, e.Detail, e.Line)
	}
	return fmt.Sprintf("%s - %s", e.Kind, e.Detail)
}

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

// KindOf returns the kind of err, or 0 if err is not a *Error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}
