package pkg

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"
)

func TestClassifyTransportError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"timeout", timeoutError{}, ErrKindTimeout},
		{"wrapped timeout", fmt.Errorf("post: %w", timeoutError{}), ErrKindTimeout},
		{"deadline exceeded", context.DeadlineExceeded, ErrKindTimeout},
		{"connection refused", fmt.Errorf("dial tcp: %w", syscall.ECONNREFUSED), ErrKindRefused},
		{"plain transport error", errors.New("connection reset by peer"), ErrKindNetwork},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifyTransportError(tc.err); got != tc.want {
				t.Fatalf("classifyTransportError(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

func TestBackendErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &BackendError{Kind: ErrKindNetwork, Err: cause}
	if !errors.Is(err, cause) {
		t.Fatal("BackendError does not unwrap to its cause")
	}

	var berr *BackendError
	wrapped := fmt.Errorf("calling service: %w", err)
	if !errors.As(wrapped, &berr) || berr.Kind != ErrKindNetwork {
		t.Fatal("BackendError lost through wrapping")
	}
}
