// Package provider contains the AI collaborators: caption generation and
// text embedding.
package provider

import (
	"context"
	"errors"
	"fmt"
)

// ErrProvider indicates an AI provider call failed after any retries.
var ErrProvider = errors.New("provider failure")

// Captioner generates a text caption for an image.
type Captioner interface {
	// Caption returns one caption for the raw image bytes. Blocking; may
	// fail on malformed image input.
	Caption(ctx context.Context, imageBytes []byte) (string, error)
}

// Embedder converts text into an embedding vector.
//
// Contract: the returned vector is unit-norm. The search engine scores with
// a plain dot product and relies on this; implementations that cannot
// guarantee it must normalize before returning (search.Normalize).
// The dimension is fixed per deployed model instance but must not be
// assumed identical across deployments.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ProviderError carries the failed operation and HTTP status of a provider
// call. It wraps ErrProvider so callers can match the category with
// errors.Is.
type ProviderError struct {
	operation string
	status    int
	message   string
	cause     error
}

// NewProviderError creates a ProviderError.
func NewProviderError(operation string, status int, message string, cause error) *ProviderError {
	return &ProviderError{
		operation: operation,
		status:    status,
		message:   message,
		cause:     cause,
	}
}

// Operation returns the provider operation that failed.
func (e *ProviderError) Operation() string { return e.operation }

// Status returns the HTTP status code, or zero if none applies.
func (e *ProviderError) Status() int { return e.status }

func (e *ProviderError) Error() string {
	if e.status != 0 {
		return fmt.Sprintf("%s failed (status %d): %s", e.operation, e.status, e.message)
	}
	return fmt.Sprintf("%s failed: %s", e.operation, e.message)
}

// Unwrap makes the error chain reachable: the cause first, then ErrProvider.
func (e *ProviderError) Unwrap() []error {
	if e.cause != nil {
		return []error{ErrProvider, e.cause}
	}
	return []error{ErrProvider}
}
