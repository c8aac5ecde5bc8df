package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromStatus(t *testing.T) {
	tests := []struct {
		code int
		want ErrorType
	}{
		{404, ErrorTypeNotFound},
		{410, ErrorTypeNotFound},
		{429, ErrorTypeRateLimit},
		{500, ErrorTypeServerError},
		{503, ErrorTypeServerError},
		{403, ErrorTypeClientError},
		{302, ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.code), func(t *testing.T) {
			err := FromStatus(tt.code, "https://example.com")
			assert.Equal(t, tt.want, err.Type)
			assert.Equal(t, tt.code, err.Code)
		})
	}
}

func TestTypeOfWrapped(t *testing.T) {
	inner := New(ErrorTypeExtractionEmpty, "no images found")
	wrapped := fmt.Errorf("run failed: %w", inner)

	assert.Equal(t, ErrorTypeExtractionEmpty, TypeOf(wrapped))
	assert.True(t, Is(wrapped, ErrorTypeExtractionEmpty))
	assert.False(t, Is(wrapped, ErrorTypeNetwork))
	assert.Equal(t, ErrorTypeUnknown, TypeOf(stderrors.New("plain")))
}

func TestWrapUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrorTypeNetwork, cause, "fetching %s", "page")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "network error")
	assert.Contains(t, err.Error(), "fetching page")
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrorTypeNetwork))
	assert.True(t, IsRetryable(ErrorTypeServerError))
	assert.True(t, IsRetryable(ErrorTypeRateLimit))
	assert.False(t, IsRetryable(ErrorTypeNotFound))
	assert.False(t, IsRetryable(ErrorTypeConfiguration))
	assert.False(t, IsRetryable(ErrorTypeExtractionEmpty))

	assert.True(t, IsRetryableStatusCode(0))
	assert.True(t, IsRetryableStatusCode(502))
	assert.False(t, IsRetryableStatusCode(404))
}
