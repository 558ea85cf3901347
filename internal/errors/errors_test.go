package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestDocksideError_Error(t *testing.T) {
	tests := []struct {
		name      string
		code      ErrorCode
		message   string
		cause     error
		wantParts []string
	}{
		{
			name:      "with cause",
			code:      DataSourceUnavailable,
			message:   "cannot read orders",
			cause:     errors.New("permission denied"),
			wantParts: []string{"DATA_SOURCE_UNAVAILABLE", "cannot read orders", "permission denied"},
		},
		{
			name:      "without cause",
			code:      ResourceNotFound,
			message:   "styles.css not found",
			wantParts: []string{"RESOURCE_NOT_FOUND", "styles.css not found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.code, tt.message, tt.cause).Error()
			for _, part := range tt.wantParts {
				if !strings.Contains(got, part) {
					t.Errorf("Error() = %q, want to contain %q", got, part)
				}
			}
		})
	}
}

func TestDocksideError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := New(InternalError, "something went wrong", cause)
	if err.Unwrap() != cause {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}

	if New(WriteFailed, "short write", nil).Unwrap() != nil {
		t.Error("Unwrap() on error without cause should return nil")
	}
}

func TestDocksideError_WithDetails(t *testing.T) {
	err := New(DataSourceMalformed, "bad orders file", nil)
	if result := err.WithDetails(map[string]string{"path": "data/orders.json"}); result != err {
		t.Error("WithDetails should return the same error for chaining")
	}
	if err.Details == nil {
		t.Error("Details should be set")
	}
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("route: %w", New(WriteFailed, "broken pipe", nil))

	if got := CodeOf(wrapped); got != WriteFailed {
		t.Errorf("CodeOf(wrapped) = %v, want %v", got, WriteFailed)
	}
	if got := CodeOf(errors.New("plain")); got != InternalError {
		t.Errorf("CodeOf(plain) = %v, want %v", got, InternalError)
	}
	if HasCode(nil, InternalError) {
		t.Error("HasCode(nil) should be false")
	}
	if !HasCode(wrapped, WriteFailed) {
		t.Error("HasCode(wrapped, WriteFailed) should be true")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{ResourceNotFound, "404"},
		{InvalidRequest, "400"},
		{DataSourceUnavailable, "500"},
		{DataSourceMalformed, "500"},
		{WriteFailed, "500"},
		{InternalError, "500"},
		{ErrorCode("SOMETHING_NEW"), "500"},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := StatusFor(tt.code); got != tt.want {
				t.Errorf("StatusFor(%v) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}
