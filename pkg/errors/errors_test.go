package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"validation", ErrValidation("weight must be positive"), CodeValidationError, http.StatusBadRequest},
		{"bad request", ErrBadRequest("malformed body"), CodeBadRequest, http.StatusBadRequest},
		{"not found", ErrNotFound("pallet"), CodeNotFound, http.StatusNotFound},
		{"illegal transition", ErrIllegalTransition("pending to shipped"), CodeIllegalTransition, http.StatusConflict},
		{"conflict", ErrConflict("pallet is not empty"), CodeConflict, http.StatusConflict},
		{"internal", ErrInternal(""), CodeInternalError, http.StatusInternalServerError},
		{"unavailable", ErrServiceUnavailable("temporal"), CodeServiceUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.Equal(t, tt.wantStatus, tt.err.HTTPStatus)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestErrValidationWithFields(t *testing.T) {
	err := ErrValidationWithFields("invalid item", map[string]string{"quantity": "must be at least 1"})
	assert.Equal(t, map[string]string{"quantity": "must be at least 1"}, err.Details)
}

func TestWrapAndUnwrap(t *testing.T) {
	cause := errors.New("pallet P-1 not found")
	err := ErrNotFound("pallet").WithDetail("id", "P-1").Wrap(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "P-1", err.Details["id"])
	assert.Contains(t, err.Error(), "pallet P-1 not found")
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))

	conflict := ErrConflict("pallet already shipped")
	got := FromError(fmt.Errorf("ship: %w", conflict))
	assert.Same(t, conflict, got)

	plain := errors.New("disk full")
	got = FromError(plain)
	require.NotNil(t, got)
	assert.Equal(t, CodeInternalError, got.Code)
	assert.ErrorIs(t, got, plain)
}
