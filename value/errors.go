package value

import (
	"errors"
	"strings"
)

// Code classifies value errors.
type Code int

const (
	// InvalidAccess reports ungrammatical input or a typed access that does
	// not match the value.
	InvalidAccess Code = iota + 1
	// NotSupported reports a construction form the property never takes.
	NotSupported
)

func (c Code) String() string {
	switch c {
	case InvalidAccess:
		return "invalid access"
	case NotSupported:
		return "not supported"
	default:
		return "unknown error"
	}
}

var (
	ErrInvalidAccess = &Error{Code: InvalidAccess}
	ErrNotSupported  = &Error{Code: NotSupported}
)

// Error is the structured failure returned by values and factories. Property
// and Token carry enough context for callers to skip the declaration and
// report what was wrong with it.
type Error struct {
	Code     Code
	Property string
	Token    string
	Reason   string
	Err      error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Code.String())
	if e.Property != "" {
		sb.WriteString(": property ")
		sb.WriteString(e.Property)
	}
	if e.Reason != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Reason)
	}
	if e.Token != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Token)
		sb.WriteString(")")
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Is matches any *Error with the same code, so errors.Is(err, ErrInvalidAccess) works.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewInvalidAccess builds an InvalidAccess error for property with the
// offending token.
func NewInvalidAccess(property, token, reason string) *Error {
	return &Error{Code: InvalidAccess, Property: property, Token: token, Reason: reason}
}

// NewNotSupported builds a NotSupported error for property.
func NewNotSupported(property, token, reason string) *Error {
	return &Error{Code: NotSupported, Property: property, Token: token, Reason: reason}
}

func invalidAccess(property, token, reason string) *Error {
	return NewInvalidAccess(property, token, reason)
}
