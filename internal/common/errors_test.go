package common

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewUserError("could not open the database", cause)

	assert.Equal(t, "could not open the database: disk full", err.Error())
	assert.ErrorIs(t, err, cause)

	var userErr *UserError
	assert.ErrorAs(t, err, &userErr)
	assert.Equal(t, "could not open the database", userErr.UserMessage)

	// A message-only error is printable too.
	bare := &UserError{UserMessage: "nothing to do"}
	assert.Equal(t, "nothing to do", bare.Error())
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want bool
	}{
		{
			name: "rate limit",
			err:  fmt.Errorf("wrapped: %w", ErrRateLimit),
			want: true,
		},
		{
			name: "plaid rate limit",
			err:  fmt.Errorf("wrapped: %w", ErrPlaidRateLimit),
			want: true,
		},
		{
			name: "deadline exceeded",
			err:  context.DeadlineExceeded,
			want: true,
		},
		{
			name: "retryable wrapper honored",
			err:  &RetryableError{Err: errors.New("transient"), Retryable: true},
			want: true,
		},
		{
			name: "non-retryable wrapper honored",
			err:  &RetryableError{Err: errors.New("terminal"), Retryable: false},
			want: false,
		},
		{
			name: "generic error",
			err:  errors.New("boom"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}
