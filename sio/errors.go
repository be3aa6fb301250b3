package sio

import (
	"errors"
	"fmt"
	"strings"
)

// Kind categorizes the error
type Kind string

const (
	KindIO       Kind = "io"       // underlying transport fault or contract violation
	KindDecode   Kind = "decode"   // malformed encoded input
	KindCapacity Kind = "capacity" // fixed-capacity destination exhausted
)

// Error is the structured error returned by adapters and operations.
type Error struct {
	Cause  error
	Kind   Kind
	Op     string
	Detail string
}

// Sentinels for errors.Is; they match any *Error of the same Kind.
var (
	ErrIO       = &Error{Kind: KindIO}
	ErrDecode   = &Error{Kind: KindDecode}
	ErrCapacity = &Error{Kind: KindCapacity}
)

// Replacer error-callback reasons.
var (
	ErrUnknownToken  = errors.New("placeholder not found")
	ErrUnclosedToken = errors.New("unclosed placeholder")
	ErrTokenTooLong  = errors.New("placeholder name too long")
)

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString("sio: [")
	b.WriteString(string(e.Kind))
	b.WriteByte(']')

	if e.Op != "" {
		b.WriteByte(' ')
		b.WriteString(e.Op)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}
	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

func newError(kind Kind, op string, cause error, format string, args ...any) *Error {
	detail := format
	if len(args) > 0 {
		detail = fmt.Sprintf(format, args...)
	}
	return &Error{Kind: kind, Op: op, Detail: detail, Cause: cause}
}

func ioError(op string, cause error, format string, args ...any) *Error {
	return newError(KindIO, op, cause, format, args...)
}

func decodeError(op string, format string, args ...any) *Error {
	return newError(KindDecode, op, nil, format, args...)
}

func capacityError(op string, format string, args ...any) *Error {
	return newError(KindCapacity, op, nil, format, args...)
}
