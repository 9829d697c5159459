// Package serrors holds the error taxonomy shared by every module.
//
// A *Error carries a Kind (what class of failure happened), a stable machine
// Code and a human Message. Sentinel values declared by domain packages are
// compared with errors.Is; transport layers switch on KindOf.
package serrors

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindInternal               Kind = "internal"
	KindNotFound               Kind = "not_found"
	KindConflict               Kind = "conflict"
	KindAlreadyOnDuty          Kind = "already_on_duty"
	KindNoDutyToPass           Kind = "no_duty_to_pass"
	KindSagaCompensationFailed Kind = "saga_compensation_failed"
	KindStoreUnavailable       Kind = "store_unavailable"
	KindValidation             Kind = "validation"
	KindUnauthorized           Kind = "unauthorized"
	KindForbidden              Kind = "forbidden"
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Meta    map[string]string
	Cause   error
}

func NewError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches another *Error with the same kind and code, so a wrapped copy
// produced by Wrap still satisfies errors.Is against the sentinel.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// Wrap returns a copy of e carrying cause.
func (e *Error) Wrap(cause error) *Error {
	cp := *e
	cp.Cause = cause
	return &cp
}

// WithMeta returns a copy of e with an extra meta entry.
func (e *Error) WithMeta(key, value string) *Error {
	cp := *e
	cp.Meta = make(map[string]string, len(e.Meta)+1)
	for k, v := range e.Meta {
		cp.Meta[k] = v
	}
	cp.Meta[key] = value
	return &cp
}

func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func NotFound(code, message string) *Error {
	return NewError(KindNotFound, code, message)
}

func Conflict(code, message string) *Error {
	return NewError(KindConflict, code, message)
}

func Validation(code, message string) *Error {
	return NewError(KindValidation, code, message)
}

func Unauthorized(code, message string) *Error {
	return NewError(KindUnauthorized, code, message)
}

func Forbidden(code, message string) *Error {
	return NewError(KindForbidden, code, message)
}

// Unavailable marks cause as a failure to reach the named backing store.
func Unavailable(store string, cause error) *Error {
	return &Error{
		Kind:    KindStoreUnavailable,
		Code:    "STORE_UNAVAILABLE",
		Message: fmt.Sprintf("%s store unavailable", store),
		Meta:    map[string]string{"store": store},
		Cause:   cause,
	}
}
