package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodeMatching(t *testing.T) {
	err := NewBlockNotFoundError("block %s not found", "abc")

	assert.True(t, Is(err, ErrBlockNotFound))
	assert.False(t, Is(err, ErrBlockExists))
	assert.Contains(t, err.Error(), "BLOCK_NOT_FOUND")
	assert.Contains(t, err.Error(), "block abc not found")
}

func TestErrorWrapping(t *testing.T) {
	cause := NewStorageError("disk full")
	err := NewProcessingError("failed to store block %d", 42, cause)

	// the code still matches through the wrap, and so does the cause
	assert.True(t, Is(err, ErrProcessing))
	assert.True(t, Is(err, ErrStorageError))
	assert.Contains(t, err.Error(), "failed to store block 42")
	assert.Contains(t, err.Error(), "disk full")

	var coded *Error
	require.True(t, As(err, &coded))
	assert.Equal(t, ERR_PROCESSING, coded.Code())
	assert.Equal(t, cause, Unwrap(err))
}

func TestErrorWrapsForeignError(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := NewServiceError("dial failed", cause)

	assert.True(t, Is(err, ErrServiceError))
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, cause, Unwrap(err))
}
