// Package apperror defines the error kinds the billing core returns and how
// they map onto HTTP status codes.
package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/hashreftech/jewellery-billing-software-sub000/pkg/validation"
	"gorm.io/gorm"
)

// Kind classifies an error for the caller.
type Kind int

const (
	KindPersistence Kind = iota
	KindValidation
	KindNotFound
	KindProtectedResource
	KindAuthorization
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindProtectedResource:
		return "protected_resource"
	case KindAuthorization:
		return "authorization"
	case KindConflict:
		return "conflict"
	default:
		return "persistence"
	}
}

// Error is the typed error carried out of the service layer.
type Error struct {
	Kind    Kind
	Message string
	Fields  validation.Violations
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether repeating the same request may succeed.
// Only identifier collisions qualify.
func (e *Error) Retryable() bool { return e.Kind == KindConflict }

func Validation(msg string, fields validation.Violations) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

func NotFound(entity string, id any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %v not found", entity, id)}
}

func Protected(msg string) *Error {
	return &Error{Kind: KindProtectedResource, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindAuthorization, Message: msg}
}

func Conflict(msg string, err error) *Error {
	return &Error{Kind: KindConflict, Message: msg, Err: err}
}

func Persistence(msg string, err error) *Error {
	return &Error{Kind: KindPersistence, Message: msg, Err: err}
}

// FromDB converts a gorm error into a typed error. Record-not-found becomes
// NotFound for entity/id, duplicate keys become Conflict, anything else is a
// persistence failure.
func FromDB(err error, entity string, id any) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound(entity, id)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Conflict(fmt.Sprintf("%s already exists", entity), err)
	default:
		return Persistence(fmt.Sprintf("failed to access %s", entity), err)
	}
}

// Prefixed qualifies err with prefix, for example "items[2]". Field keys
// become "items[2].quantity" and the message gains the prefix. Untyped
// errors are wrapped.
func Prefixed(prefix string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if !errors.As(err, &appErr) {
		return fmt.Errorf("%s: %w", prefix, err)
	}
	out := *appErr
	out.Message = prefix + ": " + appErr.Message
	if len(appErr.Fields) > 0 {
		out.Fields = make(validation.Violations, len(appErr.Fields))
		for field, reason := range appErr.Fields {
			out.Fields[prefix+"."+field] = reason
		}
	}
	return &out
}

// KindOf returns the kind of err, KindPersistence for untyped errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindPersistence
}

// HTTPStatus maps err to the status code the API answers with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindProtectedResource, KindAuthorization:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
