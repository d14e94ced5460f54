package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeUnknownKind, "unknown block kind %q", "lamp")

	if err.Code != ErrCodeUnknownKind {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeUnknownKind)
	}

	if err.Message != `unknown block kind "lamp"` {
		t.Errorf("Message = %v", err.Message)
	}

	expected := `UNKNOWN_KIND: unknown block kind "lamp"`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInvalidManifest, cause, "decode manifest")

	if err.Code != ErrCodeInvalidManifest {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidManifest)
	}

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	want := "INVALID_MANIFEST: decode manifest: underlying error"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeFamilyGap, "test"),
			code:     ErrCodeFamilyGap,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeFamilyGap, "test"),
			code:     ErrCodeUnknownPort,
			expected: false,
		},
		{
			name:     "outer code",
			err:      Wrap(ErrCodeInvalidManifest, New(ErrCodeUnknownKind, "inner"), "outer"),
			code:     ErrCodeInvalidManifest,
			expected: true,
		},
		{
			name:     "inner code",
			err:      Wrap(ErrCodeInvalidManifest, New(ErrCodeUnknownKind, "inner"), "outer"),
			code:     ErrCodeUnknownKind,
			expected: true,
		},
		{
			name:     "fmt wrapped",
			err:      fmt.Errorf("add wire: %w", New(ErrCodeUnresolvedReference, "x")),
			code:     ErrCodeUnresolvedReference,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInternal,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInternal,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeInvalidStepping, "test"), ErrCodeInvalidStepping},
		{"wrapped", fmt.Errorf("ctx: %w", New(ErrCodeNotFound, "x")), ErrCodeNotFound},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"structured", New(ErrCodeUnknownPort, "unknown port %q", "addr"), `unknown port "addr"`},
		{"nested", Wrap(ErrCodeInvalidManifest, New(ErrCodeUnknownKind, "bad kind"), "block a"), "block a: bad kind"},
		{"plain", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
