package content

import (
	"errors"
	"fmt"
)

var (
	ErrKindRequired    = errors.New("content: unknown content kind")
	ErrTitleRequired   = errors.New("content: title is required")
	ErrSlugRequired    = errors.New("content: slug is required")
	ErrSlugInvalid     = errors.New("content: slug contains invalid characters")
	ErrIDRequired      = errors.New("content: id is required")
	ErrTargetRequired  = errors.New("content: publish requires an existing record")
	ErrBrandRequired   = errors.New("content: brand id is required")
	ErrNotCatalogKind  = errors.New("content: kind does not participate in the catalog")
	ErrDecisionInvalid = errors.New("content: review decision must be approved or rejected")
)

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// IsNotFound reports whether err is a repository NotFoundError.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

// ConflictError is returned when a compare-and-swap write observes a version
// other than the one the caller read.
type ConflictError struct {
	Resource string
	Key      string
	Expected int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q modified concurrently (expected version %d)", e.Resource, e.Key, e.Expected)
}

// StorageError wraps an underlying store failure so transport layers can map
// it without leaking driver details to callers.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("content storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
