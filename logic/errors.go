package logic

import (
	"errors"
	"fmt"
)

// Sentinel errors controllers map onto HTTP statuses.
var (
	// ErrInvalidRequest marks missing or invalid request fields (400).
	ErrInvalidRequest = errors.New("invalid request")
	// ErrForbidden covers both a missing conversation and an ownership
	// mismatch so callers cannot probe for existence (403).
	ErrForbidden = errors.New("conversation not found or access denied")
	// ErrEmailTaken is returned when registering an already known email (409).
	ErrEmailTaken = errors.New("user already exists")
	// ErrBadCredentials is returned on a failed login (401).
	ErrBadCredentials = errors.New("invalid email or password")
)

// ProviderError wraps a hosted-backend failure. The local backends never
// produce it: they degrade to demo replies instead.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("OpenAI API request failed: %v", e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// PersistenceError marks a store failure after the reply was already
// generated. The reply is not retried; it was returned or streamed to the
// caller but is lost from persistence.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist chat turn: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
