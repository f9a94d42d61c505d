package errors

import (
	"fmt"
	"io"
	"net/http"
	"testing"
)

func TestIsTypeThroughWrapping(t *testing.T) {
	base := NewDecodeError("failed to decode logo", io.ErrUnexpectedEOF)
	wrapped := fmt.Errorf("compose: %w", base)

	if !IsType(wrapped, ErrorTypeDecode) {
		t.Error("Expected wrapped decode error to be recognised")
	}
	if IsType(wrapped, ErrorTypeFilesystem) {
		t.Error("Decode error should not match filesystem type")
	}
	if IsType(io.EOF, ErrorTypeDecode) {
		t.Error("Plain error should not match any type")
	}
}

func TestGetStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NewInvalidParameterError("bad scale", nil), http.StatusBadRequest},
		{NewDecodeError("bad image", nil), http.StatusUnprocessableEntity},
		{NewBackendError("bedrock down", nil), http.StatusBadGateway},
		{NewNotFoundError("no such operation", nil), http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", NewFilesystemError("rename failed", nil)), http.StatusInternalServerError},
		{io.EOF, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := GetStatusCode(tt.err); got != tt.want {
			t.Errorf("GetStatusCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestErrorMessageIncludesCause(t *testing.T) {
	err := NewFilesystemError("failed to create output directory", io.ErrClosedPipe)
	want := "filesystem: failed to create output directory (caused by: io: read/write on closed pipe)"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}
	if err.Unwrap() != io.ErrClosedPipe {
		t.Error("Unwrap should return the cause")
	}
}
