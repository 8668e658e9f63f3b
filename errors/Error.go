// Package errors provides the typed error vocabulary shared across the
// node core: codec, key material, consensus, persistence, and
// configuration failures.
package errors

import (
	"errors"
	"fmt"
)

// ErrKind partitions failures along the lines the mining loop cares
// about when deciding whether to retry, abort, or surface to a caller.
type ErrKind int

const (
	ErrUnknown ErrKind = iota
	ErrCodec
	ErrKeyMaterial
	ErrConsensus
	ErrPersistence
	ErrConfiguration
)

func (k ErrKind) String() string {
	switch k {
	case ErrCodec:
		return "codec"
	case ErrKeyMaterial:
		return "key_material"
	case ErrConsensus:
		return "consensus"
	case ErrPersistence:
		return "persistence"
	case ErrConfiguration:
		return "configuration"
	default:
		return "unknown"
	}
}

// Error is the node core's error type. Op names the operation that
// failed (e.g. "model.DecodeHeader", "sql.SaveHeader") so logs and callers
// can identify the failure site without parsing the message.
type Error struct {
	Kind    ErrKind
	Op      string
	Message string
	Wrapped error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Wrapped == nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s: %v", e.Kind, e.Op, e.Message, e.Wrapped)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Wrapped
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

// New builds an Error of the given kind. If the last argument is an
// error it is wrapped; remaining arguments are passed to fmt.Sprintf
// against message.
func New(kind ErrKind, op string, message string, params ...interface{}) *Error {
	var wrapped error
	if len(params) > 0 {
		if err, ok := params[len(params)-1].(error); ok {
			wrapped = err
			params = params[:len(params)-1]
		}
	}
	if len(params) > 0 {
		message = fmt.Sprintf(message, params...)
	}
	return &Error{Kind: kind, Op: op, Message: message, Wrapped: wrapped}
}

func NewCodecError(op, message string, params ...interface{}) *Error {
	return New(ErrCodec, op, message, params...)
}

func NewKeyError(op, message string, params ...interface{}) *Error {
	return New(ErrKeyMaterial, op, message, params...)
}

func NewConsensusError(op, message string, params ...interface{}) *Error {
	return New(ErrConsensus, op, message, params...)
}

func NewStorageError(op, message string, params ...interface{}) *Error {
	return New(ErrPersistence, op, message, params...)
}

func NewConfigurationError(op, message string, params ...interface{}) *Error {
	return New(ErrConfiguration, op, message, params...)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}
