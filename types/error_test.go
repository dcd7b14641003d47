package types

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	err := NewError(ErrUpstreamError, "model call failed")
	assert.Equal(t, "[UPSTREAM_ERROR] model call failed", err.Error())

	cause := errors.New("connection refused")
	err = err.WithCause(cause)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestError_Builders(t *testing.T) {
	err := NewError(ErrFilesystemError, "write failed").
		WithHTTPStatus(http.StatusInternalServerError).
		WithRetryable(false).
		WithProvider("ollama")

	assert.Equal(t, ErrFilesystemError, err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
	assert.False(t, err.Retryable)
	assert.Equal(t, "ollama", err.Provider)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(NewError(ErrUpstreamTimeout, "timeout").WithRetryable(true)))
	assert.False(t, IsRetryable(NewError(ErrInvalidRequest, "bad")))
	assert.False(t, IsRetryable(errors.New("plain error")))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, ErrManifestError, GetErrorCode(NewError(ErrManifestError, "x")))
	assert.Equal(t, ErrorCode(""), GetErrorCode(errors.New("plain")))
}

func TestGenerationRequest_Normalize(t *testing.T) {
	req := GenerationRequest{Prompt: "Create a CLI tool"}
	req.Normalize()
	assert.Equal(t, DefaultBackend, req.Backend)

	req = GenerationRequest{Prompt: "x", Backend: "custom"}
	req.Normalize()
	assert.Equal(t, "custom", req.Backend)
}
