package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidRequest    = errors.New("invalid request")
	ErrValidation        = errors.New("validation failed")
	ErrConflict          = errors.New("fields duplicated")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrForbidden         = errors.New("access forbidden")
)

// EntityKind names the entity a NotFoundError refers to.
type EntityKind string

const (
	KindUser    EntityKind = "user"
	KindPerson  EntityKind = "person"
	KindAddress EntityKind = "address"
	KindRole    EntityKind = "role"
	KindCountry EntityKind = "country"
	KindState   EntityKind = "state"
	KindCity    EntityKind = "city"
)

// NotFoundError reports a failed identity lookup. It matches ErrNotFound
// with errors.Is.
type NotFoundError struct {
	Kind EntityKind
	ID   string
}

func NewNotFound(kind EntityKind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found (id: %s)", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// IsNotFoundKind reports whether err is a NotFoundError for the given kind.
func IsNotFoundKind(err error, kind EntityKind) bool {
	var nf *NotFoundError
	return errors.As(err, &nf) && nf.Kind == kind
}

// ValidationError carries one human-readable message per violated rule.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	return ErrValidation.Error() + ": " + strings.Join(e.Fields, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// InvalidRequest wraps ErrInvalidRequest with a caller-facing reason.
func InvalidRequest(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, reason)
}
