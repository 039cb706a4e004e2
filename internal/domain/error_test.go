package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "message only",
			err:      &Error{Code: EINVALID, Message: "invalid status value"},
			expected: "invalid status value",
		},
		{
			name:     "with operation",
			err:      &Error{Code: EINVALID, Op: "order.force", Message: "invalid status value"},
			expected: "order.force: invalid status value",
		},
		{
			name: "with wrapped error",
			err: &Error{
				Code:    EINTERNAL,
				Op:      "order.create",
				Message: "failed to save order",
				Err:     errors.New("connection refused"),
			},
			expected: "order.create: failed to save order: connection refused",
		},
		{
			name: "wrapped error without op",
			err: &Error{
				Code:    EUNAVAILABLE,
				Message: "catalog lookup failed",
				Err:     errors.New("timeout"),
			},
			expected: "catalog lookup failed: timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error.Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, ""},
		{"domain error", TransitionError("order.cancel", "cannot cancel order with status shipped"), ETRANSITION},
		{"wrapped domain error", fmt.Errorf("outer: %w", ErrOrderNotFound), ENOTFOUND},
		{"sentinel", ErrAlreadyApplied, ECONFLICT},
		{"non-domain error", errors.New("boom"), EINTERNAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ErrorCode(tt.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, ""},
		{"transition names status", TransitionError("order.cancel", "cannot cancel order with status %s", StatusShipped), "cannot cancel order with status shipped"},
		{"internal error hides message", Internal(errors.New("dsn leaked"), "order.create", "db failed"), "An internal error occurred. Please try again later."},
		{"unavailable surfaces message", Unavailable(errors.New("stripe 503"), "checkout.session", "payment gateway unavailable"), "payment gateway unavailable"},
		{"non-domain error", errors.New("detail"), "An internal error occurred. Please try again later."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ErrorMessage(tt.err))
		})
	}
}

func TestWrapError(t *testing.T) {
	t.Run("wraps non-nil error", func(t *testing.T) {
		underlying := errors.New("db error")
		err := WrapError(underlying, EINTERNAL, "order.save", "failed to save order")

		assert.Equal(t, EINTERNAL, ErrorCode(err))
		assert.ErrorIs(t, err, underlying)
		assert.Equal(t, "order.save", ErrorOp(err))
	})

	t.Run("returns nil for nil error", func(t *testing.T) {
		assert.NoError(t, WrapError(nil, EINTERNAL, "test", "test"))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("single field error", func(t *testing.T) {
		err := NewValidationError("checkout.validate", "items", "at least one item is required")

		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatal("NewValidationError should return *ValidationError")
		}
		assert.Equal(t, "checkout.validate: items: at least one item is required", ve.Error())
	})

	t.Run("multiple field errors", func(t *testing.T) {
		err := NewValidationError("checkout.validate", "items[0].quantity", "must be at least 1")
		err = AddFieldError(err, "shippingDetails.name", "is required")

		assert.True(t, IsValidationError(err))
		assert.Len(t, GetValidationFields(err), 2)
	})

	t.Run("non-validation error has no fields", func(t *testing.T) {
		assert.False(t, IsValidationError(ErrOrderNotFound))
		assert.Nil(t, GetValidationFields(ErrOrderNotFound))
	})
}

func TestSentinels(t *testing.T) {
	assert.True(t, IsCode(ErrOrderNotFound, ENOTFOUND))
	assert.True(t, IsCode(ErrDesignsNotFound, ENOTFOUND))
	assert.Equal(t, "one or more designs not found", ErrorMessage(ErrDesignsNotFound))
	assert.ErrorIs(t, fmt.Errorf("confirm: %w", ErrAlreadyApplied), ErrAlreadyApplied)
}
