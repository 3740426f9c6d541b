package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsMapStatus(t *testing.T) {
	tests := []struct {
		err  *AppError
		code int
		typ  ErrorType
	}{
		{NewValidationError("bad"), http.StatusBadRequest, ErrorTypeValidation},
		{NewNotFoundError("gone"), http.StatusNotFound, ErrorTypeNotFound},
		{NewConflictError("dup"), http.StatusConflict, ErrorTypeConflict},
		{NewUnauthorizedError("who"), http.StatusUnauthorized, ErrorTypeUnauthorized},
		{NewForbiddenError("no"), http.StatusForbidden, ErrorTypeForbidden},
		{NewInternalError("boom"), http.StatusInternalServerError, ErrorTypeInternal},
		{NewRateLimitedError("slow"), http.StatusTooManyRequests, ErrorTypeRateLimited},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.typ, tt.err.Type)
		})
	}
}

func TestGetAppError_Unwraps(t *testing.T) {
	wrapped := fmt.Errorf("load ticket: %w", NewNotFoundError("ticket not found", "tkt_1"))

	appErr := GetAppError(wrapped)
	require.NotNil(t, appErr)
	assert.Equal(t, "tkt_1", appErr.Details)
	assert.True(t, IsNotFoundError(wrapped))
	assert.False(t, IsValidationError(wrapped))
	assert.Nil(t, GetAppError(fmt.Errorf("plain")))
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "forbidden: no access", NewForbiddenError("no access").Error())
	assert.Equal(t, "validation_error: bad (title)", NewValidationError("bad", "title").Error())
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, IsDuplicateError(fmt.Errorf("Error 1062: Duplicate entry 'a' for key 'email'")))
	assert.True(t, IsDuplicateError(fmt.Errorf("UNIQUE constraint failed: users.email")))
	assert.True(t, IsDuplicateError(fmt.Errorf("ERROR: duplicate key value violates unique constraint")))
	assert.False(t, IsDuplicateError(fmt.Errorf("connection refused")))
	assert.False(t, IsDuplicateError(nil))
}
