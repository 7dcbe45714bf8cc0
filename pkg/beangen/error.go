package beangen

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a generation failure
type ErrorKind int

const (
	// KindMissingIdentity means the root type does not satisfy Identifiable
	KindMissingIdentity ErrorKind = iota + 1
	// KindUnsupportedMethod means an abstract method is not a getter or setter
	KindUnsupportedMethod
	// KindSynthesis means the implementation could not be assembled
	KindSynthesis
	// KindRegistryInconsistency means a recorded type can no longer be loaded
	KindRegistryInconsistency
	// KindValidation means the synthesized type could not be instantiated
	KindValidation
)

// Sentinels for errors.Is matching on the kind of an *Error
var (
	ErrMissingIdentity       = errors.New("missing identity capability")
	ErrUnsupportedMethod     = errors.New("unsupported method shape")
	ErrSynthesis             = errors.New("synthesis failure")
	ErrRegistryInconsistency = errors.New("registry inconsistency")
	ErrValidation            = errors.New("validation failure")
)

// Dispatch errors returned by Instance
var (
	ErrNoSuchMethod   = errors.New("no such method")
	ErrNoSuchProperty = errors.New("no such property")
	ErrTypeMismatch   = errors.New("type mismatch")
)

// String returns the string representation of the error kind
func (k ErrorKind) String() string {
	switch k {
	case KindMissingIdentity:
		return "MissingIdentityCapability"
	case KindUnsupportedMethod:
		return "UnsupportedMethodShape"
	case KindSynthesis:
		return "SynthesisFailure"
	case KindRegistryInconsistency:
		return "RegistryInconsistency"
	case KindValidation:
		return "ValidationFailure"
	default:
		return "UnknownError"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindMissingIdentity:
		return ErrMissingIdentity
	case KindUnsupportedMethod:
		return ErrUnsupportedMethod
	case KindSynthesis:
		return ErrSynthesis
	case KindRegistryInconsistency:
		return ErrRegistryInconsistency
	case KindValidation:
		return ErrValidation
	default:
		return nil
	}
}

// Error is returned by every generation entry point
type Error struct {
	Kind    ErrorKind
	Type    string // ID of the source type
	Method  string // offending method, if any
	Message string
	Cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.sentinel().Error())
	if e.Type != "" {
		b.WriteString(": ")
		b.WriteString(e.Type)
		if e.Method != "" {
			b.WriteString(".")
			b.WriteString(e.Method)
		}
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind sentinel and the underlying cause
func (e *Error) Unwrap() []error {
	errs := []error{e.Kind.sentinel()}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

func newError(kind ErrorKind, t *TypeDescriptor, format string, args ...any) *Error {
	err := &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
	if t != nil {
		err.Type = t.ID()
	}
	return err
}

func methodError(kind ErrorKind, m *MethodSignature, format string, args ...any) *Error {
	err := newError(kind, m.Declaring, format, args...)
	err.Method = m.Name
	return err
}

func wrapError(kind ErrorKind, t *TypeDescriptor, cause error, format string, args ...any) *Error {
	err := newError(kind, t, format, args...)
	err.Cause = cause
	return err
}

// KindOf returns the kind of a generation error, or 0 if err is not one
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
