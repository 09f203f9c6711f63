package layouts

import (
	"errors"
	"fmt"
)

var (
	ErrBrandRequired   = errors.New("layouts: brand id is required")
	ErrSectionInvalid  = errors.New("layouts: section must be header, footer or menu")
	ErrPayloadRequired = errors.New("layouts: publish requires a rendered payload")
)

// NotFoundError reports a brand with no layout row.
type NotFoundError struct {
	BrandID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("layout for brand %q not found", e.BrandID)
}

// IsNotFound reports whether err is a layout NotFoundError.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

// ConflictError is returned when a publish observes a version other than the
// one it read.
type ConflictError struct {
	BrandID  string
	Expected int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("layout for brand %q modified concurrently (expected version %d)", e.BrandID, e.Expected)
}

// StorageError wraps an underlying store failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("layout storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
