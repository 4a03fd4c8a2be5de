package translate

import (
	"context"
	"errors"
	"fmt"
)

// Provider performs single-text machine translation between two languages.
// Implementations are external services; every call is an I/O boundary and
// must honor the context.
type Provider interface {
	Translate(ctx context.Context, text, from, to string) (string, error)
	SupportedLanguages(ctx context.Context) ([]string, error)
}

// ProviderError describes a failed provider call. Retryable distinguishes
// transient failures (timeouts, quota, 5xx) from permanent ones
// (unsupported language pair, auth).
type ProviderError struct {
	Provider  string
	Operation string
	Retryable bool
	Err       error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("translate: provider %s %s failed: %v", e.Provider, e.Operation, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether the error is a transient provider failure.
// Unknown errors are treated as retryable; the retry budget is bounded
// either way.
func IsRetryable(err error) bool {
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr.Retryable
	}
	return true
}
