package pkg

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// Turn is one entry of the conversation context handed to a context-aware
// backend.
type Turn struct {
	Role    string
	Content string
}

// Reply is a normalized backend answer. Degraded marks canned fallback
// content substituted when a local model service is unreachable, so callers
// can tell a real answer from a placeholder.
type Reply struct {
	Content  string
	Model    string
	Degraded bool
}

// Backend generates an answer for a prompt, optionally using prior turns.
// Implementations must honor ctx deadlines and never hang indefinitely.
type Backend interface {
	Generate(ctx context.Context, prompt string, history []Turn, mathHint bool) (*Reply, error)
}

// ErrorKind classifies how a local model service call failed.
type ErrorKind int

const (
	// ErrKindRefused means the service actively refused the connection.
	ErrKindRefused ErrorKind = iota
	// ErrKindTimeout means the call exceeded its deadline.
	ErrKindTimeout
	// ErrKindHTTPStatus means the service answered with a non-2xx status.
	ErrKindHTTPStatus
	// ErrKindBadPayload means the service answered with an unusable body.
	ErrKindBadPayload
	// ErrKindNetwork covers remaining transport-level failures.
	ErrKindNetwork
)

// BackendError is a typed failure from a local model service call.
type BackendError struct {
	Kind ErrorKind
	Err  error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend call failed: %v", e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// classifyTransportError buckets a transport error. Timeouts are checked
// before refusals so a deadline hit during connect does not count as a
// network error.
func classifyTransportError(err error) ErrorKind {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return ErrKindTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrKindTimeout
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return ErrKindRefused
	}
	return ErrKindNetwork
}
