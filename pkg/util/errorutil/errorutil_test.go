package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindHelpers(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFound("user", nil)))
	assert.True(t, IsValidation(NewValidationError("bad", nil)))
	assert.True(t, IsConflict(NewConflict("dup", nil)))
	assert.False(t, IsNotFound(NewConflict("dup", nil)))
	assert.False(t, IsNotFound(errors.New("plain")))

	wrapped := fmt.Errorf("context: %w", NewNotFound("complaint", map[string]any{"id": "c1"}))
	assert.True(t, IsNotFound(wrapped))
}

func TestToDomainError(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))

	notFound := ToDomainError(pgx.ErrNoRows)
	require.NotNil(t, notFound)
	assert.Equal(t, CodeNotFound, notFound.Code)
	assert.Equal(t, http.StatusNotFound, notFound.HTTPStatus)

	storeErr := errors.New("connection reset")
	internal := ToDomainError(storeErr)
	assert.Equal(t, CodeInternal, internal.Code)
	assert.ErrorIs(t, internal, storeErr)

	conflict := NewConflict("email already registered", nil)
	assert.Same(t, conflict, ToDomainError(conflict))
}
