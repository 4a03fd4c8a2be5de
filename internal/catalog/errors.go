package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidKind indicates a content kind outside the known set.
	ErrInvalidKind = errors.New("catalog: invalid content kind")
	// ErrIDRequired indicates a lookup without an entity identifier.
	ErrIDRequired = errors.New("catalog: entity id is required")
	// ErrLanguageRequired indicates a translation lookup without a language.
	ErrLanguageRequired = errors.New("catalog: language is required")
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

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
