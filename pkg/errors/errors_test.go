package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorWrapsCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := NewStorageError("set failed", "set", "favorites", cause)

	assert.Equal(t, "set failed: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestStatusCodeFindsEmbeddedAppError(t *testing.T) {
	wrapped := fmt.Errorf("toggle: %w", NewNotFoundError("tool", "42"))

	assert.Equal(t, 404, StatusCode(wrapped, 500))
	app := AsAppError(wrapped)
	require.NotNil(t, app)
	assert.Equal(t, CodeNotFound, app.Code)
	assert.Equal(t, "42", app.Context["id"])
}

func TestStatusCodeFallback(t *testing.T) {
	assert.Equal(t, 500, StatusCode(stderrors.New("plain"), 500))
	assert.Equal(t, 500, StatusCode(nil, 500))
	assert.Nil(t, AsAppError(nil))
}

func TestValidationErrorCarriesField(t *testing.T) {
	err := NewValidationError("minRating must be a number", "minRating", "abc")

	assert.Equal(t, 400, StatusCode(err, 500))
	assert.Equal(t, "minRating", err.Field)
}
