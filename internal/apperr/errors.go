// Package apperr holds the error taxonomy shared by the warehouse modules.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ObjectType names the registry an unknown key was looked up in.
type ObjectType string

const (
	ObjectProduct     ObjectType = "product"
	ObjectPartner     ObjectType = "partner"
	ObjectBatch       ObjectType = "batch"
	ObjectTransaction ObjectType = "transaction"
)

var (
	// ErrInvalidArgument marks caller errors such as a non-positive amount.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrAlreadyPaid is returned when paying a sale twice.
	ErrAlreadyPaid = errors.New("transaction already paid")
	// ErrUnauthorized is returned for bad credentials or a missing token.
	ErrUnauthorized = errors.New("unauthorized")
)

// UnknownObjectKeyError is raised when a referenced id does not exist.
type UnknownObjectKeyError struct {
	Type ObjectType
	Key  string
}

func (e *UnknownObjectKeyError) Error() string {
	return fmt.Sprintf("unknown %s key: %s", e.Type, e.Key)
}

// UnknownKey builds an UnknownObjectKeyError.
func UnknownKey(t ObjectType, key string) error {
	return &UnknownObjectKeyError{Type: t, Key: key}
}

// NotEnoughResourcesError is raised when available stock is strictly less
// than the requested amount.
type NotEnoughResourcesError struct {
	ProductID string
	Requested int
	Available int
}

func (e *NotEnoughResourcesError) Error() string {
	return fmt.Sprintf("not enough stock of %s: requested %d, available %d", e.ProductID, e.Requested, e.Available)
}

// DuplicateKeyError is raised when registering an id that already exists.
type DuplicateKeyError struct {
	Type ObjectType
	Key  string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate %s key: %s", e.Type, e.Key)
}

// DuplicateKey builds a DuplicateKeyError.
func DuplicateKey(t ObjectType, key string) error {
	return &DuplicateKeyError{Type: t, Key: key}
}

// Invalid wraps ErrInvalidArgument with a message.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// IsUnknownKey reports whether err is an UnknownObjectKeyError of type t.
func IsUnknownKey(err error, t ObjectType) bool {
	var uk *UnknownObjectKeyError
	return errors.As(err, &uk) && uk.Type == t
}

// HTTPStatus maps an error to the status code the API answers with.
func HTTPStatus(err error) int {
	var (
		unknown *UnknownObjectKeyError
		notEnuf *NotEnoughResourcesError
		dupe    *DuplicateKeyError
	)
	switch {
	case errors.As(err, &unknown):
		return http.StatusNotFound
	case errors.As(err, &notEnuf), errors.As(err, &dupe), errors.Is(err, ErrAlreadyPaid):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
