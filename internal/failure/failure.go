// Package failure classifies the errors returned by the data-access core.
//
// Every operation of the CRUD engine and the auth service returns either a
// result or a single *Error whose Kind tells the caller how to report it:
//
//	KindConnectivity  store unreachable or credentials rejected; no retry
//	KindValidation    rejected before any store interaction
//	KindConstraint    store constraint violated (duplicate username, foreign key)
//	KindNotFound      record with the requested id does not exist
//	KindStore         any other store error
//
// The message of an *Error is the wrapped error's message, so store text
// reaches the user verbatim.
package failure

import (
	"github.com/pkg/errors"
)

type Kind string

const (
	KindConnectivity Kind = "connectivity"
	KindValidation   Kind = "validation"
	KindConstraint   Kind = "constraint"
	KindNotFound     Kind = "not_found"
	KindStore        Kind = "store"
)

// Error is a classified error. Op names the operation that failed and is meant
// for logs, not for users.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New wraps err with a kind. A nil err yields nil; an err that is already
// classified keeps its original kind.
func New(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		return err
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

func Validation(op string, err error) error   { return New(KindValidation, op, err) }
func NotFound(op string, err error) error     { return New(KindNotFound, op, err) }
func Constraint(op string, err error) error   { return New(KindConstraint, op, err) }
func Connectivity(op string, err error) error { return New(KindConnectivity, op, err) }
func Store(op string, err error) error        { return New(KindStore, op, err) }

// KindOf reports the kind of err. Unclassified non-nil errors are KindStore.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStore
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
